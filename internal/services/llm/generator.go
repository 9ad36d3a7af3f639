package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/atlas/internal/interfaces"
	"github.com/ternarybob/atlas/internal/models"
)

// DefaultTimeout bounds one generation when none is configured
const DefaultTimeout = 45 * time.Second

// GeneratorOptions holds the fixed request settings of a Generator
type GeneratorOptions struct {
	System            string
	Model             string
	Temperature       float32
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerMinute int // 0 disables throttling
}

// Generator submits itinerary prompts to a provider. It makes exactly one
// attempt per call and turns every failure into a GenerationResult.
type Generator struct {
	provider Provider
	opts     GeneratorOptions
	limiter  *rate.Limiter
	logger   arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ItineraryGenerator = (*Generator)(nil)

// NewGenerator creates a generator around provider
func NewGenerator(provider Provider, opts GeneratorOptions, logger arbor.ILogger) *Generator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	g := &Generator{
		provider: provider,
		opts:     opts,
		logger:   logger,
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), opts.RequestsPerMinute)
	}
	return g
}

// ProviderName returns the provider type used for generation
func (g *Generator) ProviderName() string {
	return string(g.provider.GetProviderType())
}

// Generate submits prompt with the fixed system message. It never returns an
// error and never panics: failures come back as Failure results.
func (g *Generator) Generate(ctx context.Context, prompt string) (result models.GenerationResult) {
	provider := g.ProviderName()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = models.Failure(models.FailureUnknown, fmt.Sprintf("generation aborted: %v", r))
		}
		result.Provider = provider
		if result.Model == "" {
			result.Model = g.opts.Model
		}
		result.Duration = time.Since(start)
		g.logResult(result, len(prompt))
	}()

	if g.limiter != nil && !g.limiter.Allow() {
		return models.Failure(models.FailureRateLimit, ErrRateLimited.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	resp, err := g.provider.GenerateContent(ctx, &ContentRequest{
		System:      g.opts.System,
		Prompt:      prompt,
		Model:       g.opts.Model,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})
	if err != nil {
		return models.Failure(Classify(err), err.Error())
	}

	result = models.Success(resp.Text)
	result.Model = resp.Model
	return result
}

func (g *Generator) logResult(result models.GenerationResult, promptLength int) {
	if result.OK {
		g.logger.Info().
			Str("provider", result.Provider).
			Str("model", result.Model).
			Int("prompt_length", promptLength).
			Int("response_length", len(result.Text)).
			Dur("duration", result.Duration).
			Msg("Itinerary generated")
		return
	}

	g.logger.Warn().
		Str("provider", result.Provider).
		Str("model", result.Model).
		Str("kind", string(result.Kind)).
		Str("reason", result.Reason).
		Int("prompt_length", promptLength).
		Dur("duration", result.Duration).
		Msg("Itinerary generation failed")
}
