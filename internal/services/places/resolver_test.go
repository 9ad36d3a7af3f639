package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ratingCandidates = []string{"note", "rating", "stars", "5"}

func TestResolveField_PriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		columns    []string
		candidates []string
		want       string
		found      bool
	}{
		{"note_5 header", []string{"pays", "note_5", "ville"}, ratingCandidates, "note_5", true},
		{"note/5 header", []string{"pays", "note/5"}, ratingCandidates, "note/5", true},
		{"english rating", []string{"country", "rating"}, ratingCandidates, "rating", true},
		{"first candidate beats column order", []string{"top5", "note"}, ratingCandidates, "note", true},
		{"first column wins for one candidate", []string{"note_a", "note_b"}, ratingCandidates, "note_a", true},
		{"fallback candidate", []string{"pays", "score5"}, ratingCandidates, "score5", true},
		{"no match", []string{"pays", "ville"}, ratingCandidates, "", false},
		{"image column", []string{"nom", "lien_images"}, []string{"image", "photo", "lien_images"}, "lien_images", true},
		{"empty candidates", []string{"note"}, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveField(tt.columns, tt.candidates)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSchema(t *testing.T) {
	cols := NormalizeHeaders([]string{
		"Pays", "Ville", "Nom lieu", "Catégorie", "Prix", "Note/5", "Idéal pour", "Lien images", "URL réservation",
	})

	schema, err := ResolveSchema(cols, Candidates{
		Rating:      ratingCandidates,
		Image:       []string{"image", "photo"},
		Reservation: []string{"reservation"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pays", schema.Country)
	assert.Equal(t, "ville", schema.City)
	assert.Equal(t, "nom_lieu", schema.Name)
	assert.Equal(t, "categorie", schema.Category)
	assert.Equal(t, "prix", schema.Price)
	assert.Equal(t, "note_5", schema.Rating)
	assert.Equal(t, "ideal_pour", schema.IdealFor)
	assert.Equal(t, "lien_images", schema.Image)
	assert.Equal(t, "url_reservation", schema.Reservation)
}

func TestResolveSchema_HeuristicsSkipClaimedColumns(t *testing.T) {
	// "5" would match the price column if claimed columns were not excluded
	cols := NormalizeHeaders([]string{"country", "category", "name", "price"})
	schema, err := ResolveSchema(cols, Candidates{Rating: []string{"note", "pri"}})
	require.NoError(t, err)
	assert.Empty(t, schema.Rating)
}

func TestResolveSchema_MissingRequired(t *testing.T) {
	_, err := ResolveSchema(NormalizeHeaders([]string{"ville", "nom"}), Candidates{})
	assert.ErrorIs(t, err, ErrMissingColumn)
}
