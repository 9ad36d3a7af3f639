package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/common"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGroq uses the OpenAI-compatible Groq chat completions API
	ProviderGroq ProviderType = "groq"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// ErrMissingAPIKey is returned by a provider created without credentials
var ErrMissingAPIKey = errors.New("API key not configured")

// ContentRequest is a provider-agnostic single-turn generation request
type ContentRequest struct {
	System      string
	Prompt      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// ContentResponse is a provider-agnostic generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Provider defines the interface for AI content generation
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// ProviderFactory creates the configured provider
type ProviderFactory struct {
	llmConfig    *common.LLMConfig
	groqConfig   *common.GroqConfig
	claudeConfig *common.ClaudeConfig
	geminiConfig *common.GeminiConfig
	logger       arbor.ILogger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *common.Config, logger arbor.ILogger) *ProviderFactory {
	return &ProviderFactory{
		llmConfig:    &config.LLM,
		groqConfig:   &config.Groq,
		claudeConfig: &config.Claude,
		geminiConfig: &config.Gemini,
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "claude-haiku-4-5" or "claude/claude-haiku-4-5" -> Claude
// - "gemini-2.5-flash" or "google/gemini-2.5-flash" -> Gemini
// - "groq/llama-3.1-8b-instant" -> Groq
// - anything else, including "" -> the configured default provider
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	model = strings.ToLower(model)

	switch {
	case strings.HasPrefix(model, "groq/"):
		return ProviderGroq
	case strings.HasPrefix(model, "claude/"), strings.HasPrefix(model, "anthropic/"), strings.HasPrefix(model, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini/"), strings.HasPrefix(model, "google/"), strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	}

	return ProviderType(f.llmConfig.DefaultProvider)
}

// NormalizeModel removes provider prefix from model name if present
func (f *ProviderFactory) NormalizeModel(model string) string {
	prefixes := []string{"groq/", "claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GetDefaultModel returns the default model for a provider
func (f *ProviderFactory) GetDefaultModel(provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return f.claudeConfig.Model
	case ProviderGemini:
		return f.geminiConfig.Model
	default:
		return f.groqConfig.Model
	}
}

// Resolve returns the provider and model selected by configuration
func (f *ProviderFactory) Resolve() (ProviderType, string) {
	provider := f.DetectProvider(f.llmConfig.Model)
	model := f.NormalizeModel(f.llmConfig.Model)
	if model == "" {
		model = f.GetDefaultModel(provider)
	}
	return provider, model
}

// CreateProvider builds the configured provider. A missing API key does not
// fail startup: the returned provider reports ErrMissingAPIKey on every call
// so the page still works and generation fails with an auth reason.
func (f *ProviderFactory) CreateProvider(ctx context.Context) (Provider, error) {
	provider, model := f.Resolve()

	var fallback string
	switch provider {
	case ProviderGroq:
		fallback = f.groqConfig.APIKey
	case ProviderClaude:
		fallback = f.claudeConfig.APIKey
	case ProviderGemini:
		fallback = f.geminiConfig.APIKey
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	apiKey, err := common.ResolveAPIKey(ctx, common.LLMProvider(provider), fallback)
	if err != nil {
		f.logger.Warn().
			Str("provider", string(provider)).
			Err(err).
			Msg("No API key found, itinerary generation will fail until one is configured")
		return &unavailableProvider{provider: provider}, nil
	}

	f.logger.Info().
		Str("provider", string(provider)).
		Str("model", model).
		Msg("Initializing LLM provider")

	switch provider {
	case ProviderClaude:
		return NewClaudeProvider(apiKey, model, f.logger), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, apiKey, model, f.logger)
	default:
		return NewGroqProvider(apiKey, model, WithBaseURL(f.groqConfig.BaseURL), WithLogger(f.logger)), nil
	}
}

type unavailableProvider struct {
	provider ProviderType
}

func (p *unavailableProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	return nil, fmt.Errorf("%s: %w", p.provider, ErrMissingAPIKey)
}

func (p *unavailableProvider) GetProviderType() ProviderType {
	return p.provider
}

func (p *unavailableProvider) Close() error {
	return nil
}
