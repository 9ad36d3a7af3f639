package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/atlas/internal/models"
)

func num(v float64) *float64 { return &v }

func TestBuild_SinglePlace(t *testing.T) {
	b := NewBuilder(3, 5, "en", "€")

	got, err := b.Build("Japan", "Culture", []models.Place{
		{Name: "Temple X", Country: "Japan", Category: "Culture", Rating: num(4.5)},
	})
	require.NoError(t, err)

	assert.Contains(t, got, "Temple X")
	assert.Contains(t, got, "4.5/5")
	assert.Contains(t, got, "**Japan**")
	assert.Contains(t, got, "**Culture**")
}

func TestBuild_StructureInOrder(t *testing.T) {
	b := NewBuilder(3, 5, "en", "€")
	places := []models.Place{
		{Name: "Golden Gai", City: "Tokyo", Price: num(15), Rating: num(4.2), IdealFor: "Night owls", ReservationURL: "https://book/gai"},
		{Name: "Ramen Alley", City: "Tokyo"},
	}

	got, err := b.Build("Japan", "Nightlife", places)
	require.NoError(t, err)

	markers := []string{
		"travel-itinerary expert",
		"3-day itinerary",
		"- **Golden Gai** (Tokyo)",
		"Price: 15 €",
		"Rating: 4.2/5",
		"Ideal for: Night owls",
		"Reservation: https://book/gai",
		"- **Ramen Alley** (Tokyo)",
		"**Day 1:**",
		"**Day 2:**",
		"**Day 3:**",
		"practical tips",
		"### Reservation links",
		"- Golden Gai: https://book/gai",
	}
	last := -1
	for _, m := range markers {
		i := strings.Index(got, m)
		require.GreaterOrEqual(t, i, 0, "missing %q", m)
		assert.Greater(t, i, last, "%q out of order", m)
		last = i
	}
}

func TestBuild_EveryPlaceNamed(t *testing.T) {
	b := NewBuilder(2, 5, "en", "")
	places := []models.Place{
		{Name: "Louvre"}, {Name: "Orsay"}, {Name: "Sainte-Chapelle"}, {Name: "Musée Rodin"},
	}

	got, err := b.Build("France", "Culture", places)
	require.NoError(t, err)
	for _, p := range places {
		assert.Contains(t, got, p.Name)
	}
}

func TestBuild_AbsentFieldsOmitted(t *testing.T) {
	b := NewBuilder(3, 5, "en", "€")

	got, err := b.Build("Japan", "Culture", []models.Place{{Name: "Castle"}})
	require.NoError(t, err)

	for _, token := range []string{"N/A", "nan", "Rating:", "Price:", "Ideal for:", "Reservation:", "()"} {
		assert.NotContains(t, got, token)
	}
}

func TestBuild_DaysAndScaleConfigurable(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		scale   int
		want    []string
		notWant []string
	}{
		{name: "two days", days: 2, scale: 5, want: []string{"2-day", "**Day 2:**", "3/5"}, notWant: []string{"**Day 3:**"}},
		{name: "five days on ten", days: 5, scale: 10, want: []string{"5-day", "**Day 5:**", "3/10"}, notWant: []string{"/5\n"}},
		{name: "invalid falls back", days: 0, scale: 0, want: []string{"3-day", "**Day 3:**", "3/5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(tt.days, tt.scale, "en", "")
			got, err := b.Build("Italy", "Food", []models.Place{{Name: "Trattoria", Rating: num(3)}})
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestBuild_French(t *testing.T) {
	b := NewBuilder(3, 5, "fr", "€")

	got, err := b.Build("Japon", "Culture", []models.Place{{Name: "Temple X", Rating: num(4.5), ReservationURL: "https://book/x"}})
	require.NoError(t, err)

	assert.Contains(t, got, "itinéraire complet et réaliste de 3 jours")
	assert.Contains(t, got, "Note: 4.5/5")
	assert.Contains(t, got, "**Jour 3 :**")
	assert.Contains(t, got, "### Liens de réservation")
	assert.Equal(t, "Tu es un expert en voyages de luxe.", b.SystemMessage())
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(3, 5, "en", "€")
	places := []models.Place{{Name: "A", ReservationURL: "https://x"}, {Name: "B", ReservationURL: "https://x"}}

	first, err := b.Build("Spain", "Beach", places)
	require.NoError(t, err)
	second, err := b.Build("Spain", "Beach", places)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(first, "- A: https://x"), "duplicate links listed once")
	assert.NotContains(t, first, "- B: https://x")
}

func TestBuild_NoPlaces(t *testing.T) {
	b := NewBuilder(3, 5, "en", "€")

	got, err := b.Build("Japan", "Nightlife", nil)
	assert.ErrorIs(t, err, ErrNoPlaces)
	assert.Empty(t, got)
}
