package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Pays", "pays"},
		{"  Nom lieu ", "nom_lieu"},
		{"Catégorie", "categorie"},
		{"Note/5", "note_5"},
		{"note 5", "note_5"},
		{"note-5", "note_5"},
		{"Idéal pour", "ideal_pour"},
		{"URL Réservation", "url_reservation"},
		{"lien_images", "lien_images"},
		{"\tVille\n", "ville"},
		{"ÉTÉ", "ete"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.raw))
		})
	}
}

func FuzzNormalizeHeader_Idempotent(f *testing.F) {
	seeds := []string{
		"Pays", " Note / 5 ", "Catégorie d’activité", "İstanbul", "a ́",
		"x y", "ǅemal", "prix (€)", "\xff\xfe", "日本 / 東京", "Straße-Name",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, header string) {
		once := NormalizeHeader(header)
		twice := NormalizeHeader(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", header, once, twice)
		}
	})
}

func TestNormalizeHeaders_CollisionLaterWins(t *testing.T) {
	cols := NormalizeHeaders([]string{"Pays", "Note 5", "note/5", "Ville"})

	assert.Equal(t, []string{"pays", "note_5", "note_5", "ville"}, cols.Names)

	idx, ok := cols.Index("note_5")
	assert.True(t, ok)
	assert.Equal(t, 2, idx, "later column overwrites the former")

	if assert.Len(t, cols.Collisions, 1) {
		assert.Equal(t, "Note 5", cols.Collisions[0].Overridden)
		assert.Equal(t, "note/5", cols.Collisions[0].Winner)
	}

	assert.Equal(t, []string{"pays", "note_5", "ville"}, cols.Unique())
}
