package interfaces

import (
	"github.com/ternarybob/atlas/internal/models"
)

// PlaceCatalog is the read-only dataset shared by all sessions
type PlaceCatalog interface {
	// Len returns the number of data rows loaded
	Len() int

	// Countries returns the distinct selectable countries, sorted
	Countries() []string

	// Categories returns the categories present for country only, sorted
	Categories(country string) []string

	// Filter returns the places matching country and category.
	// An empty, non-nil slice is a normal result.
	Filter(country, category string) []models.Place
}

// PromptBuilder renders selected places into a generation prompt
type PromptBuilder interface {
	Build(country, category string, places []models.Place) (string, error)
	SystemMessage() string
}
