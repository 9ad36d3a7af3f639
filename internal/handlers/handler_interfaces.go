package handlers

import (
	"context"

	"github.com/ternarybob/atlas/internal/models"
	"github.com/ternarybob/atlas/internal/services/itinerary"
	"github.com/ternarybob/atlas/internal/services/session"
)

// ItineraryFlow defines the selection, generation and export operations used by the handlers.
type ItineraryFlow interface {
	Countries() []string
	Categories(country string) []string
	Places(selection models.Selection) itinerary.PlacesView
	Generate(ctx context.Context, sess *session.Session, selection models.Selection) (models.GenerationResult, error)
	Export(sess *session.Session) (*itinerary.ExportFile, error)
	ProviderName() string
	DatasetSize() int
}

// Compile-time assertion
var _ ItineraryFlow = (*itinerary.Service)(nil)
