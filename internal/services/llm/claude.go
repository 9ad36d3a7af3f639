package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
)

// ClaudeProvider generates content with the Anthropic Messages API
type ClaudeProvider struct {
	client anthropic.Client
	model  string
	logger arbor.ILogger
}

// NewClaudeProvider creates a Claude provider. The SDK's own retries are
// disabled so that a failure surfaces after a single attempt.
func NewClaudeProvider(apiKey, model string, logger arbor.ILogger, opts ...option.RequestOption) *ClaudeProvider {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// GenerateContent sends the prompt as a single user message
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	model := request.Model
	if model == "" {
		model = p.model
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(request.MaxTokens),
		Temperature: anthropic.Float(float64(request.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}
	if request.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.System},
		}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return nil, ErrEmptyResponse
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderClaude,
		Model:    model,
	}, nil
}

// GetProviderType returns ProviderClaude
func (p *ClaudeProvider) GetProviderType() ProviderType {
	return ProviderClaude
}

// Close is a no-op; the SDK client holds no resources
func (p *ClaudeProvider) Close() error {
	return nil
}
