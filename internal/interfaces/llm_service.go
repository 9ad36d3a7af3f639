package interfaces

import (
	"context"

	"github.com/ternarybob/atlas/internal/models"
)

// ItineraryGenerator submits a prompt to a chat-completion model.
//
// Generate makes a single attempt and never returns an error: every failure
// (network, authentication, rate limit, unknown model, timeout) is reported
// as a GenerationResult with OK=false and a human-readable Reason.
type ItineraryGenerator interface {
	Generate(ctx context.Context, prompt string) models.GenerationResult

	// ProviderName returns the configured provider, e.g. "groq"
	ProviderName() string
}
