package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
)

const (
	// DefaultGroqBaseURL is the OpenAI-compatible Groq endpoint
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultGroqModel is used when no model is configured
	DefaultGroqModel = "llama-3.1-8b-instant"

	// DefaultGroqTimeout bounds a single HTTP call; callers normally set a shorter context deadline.
	DefaultGroqTimeout = 60 * time.Second
)

// GroqProvider calls the Groq chat completions API
type GroqProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     arbor.ILogger
}

// GroqOption configures the GroqProvider.
type GroqOption func(*GroqProvider)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) GroqOption {
	return func(p *GroqProvider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) GroqOption {
	return func(p *GroqProvider) {
		p.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) GroqOption {
	return func(p *GroqProvider) {
		p.logger = logger
	}
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(apiKey, model string, opts ...GroqOption) *GroqProvider {
	if model == "" {
		model = DefaultGroqModel
	}
	p := &GroqProvider{
		baseURL: DefaultGroqBaseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: DefaultGroqTimeout,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// APIError represents a non-2xx answer from an OpenAI-compatible endpoint.
type APIError struct {
	StatusCode int
	Code       string // e.g. "model_not_found", "invalid_api_key"
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("groq API error: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("groq API error: %s (status %d)", e.Message, e.StatusCode)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// GenerateContent sends one system and one user message. It never retries.
func (p *GroqProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	model := request.Model
	if model == "" {
		model = p.model
	}

	payload := chatRequest{
		Model:       model,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}
	if request.System != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: request.System})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: request.Prompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if p.logger != nil {
		p.logger.Debug().
			Str("url", p.baseURL+"/chat/completions").
			Str("model", model).
			Msg("Groq API request")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var parsed errorResponse
		if json.Unmarshal(data, &parsed) == nil && parsed.Error.Message != "" {
			apiErr.Message = parsed.Error.Message
			apiErr.Code = parsed.Error.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	if out.Model != "" {
		model = out.Model
	}

	return &ContentResponse{
		Text:     out.Choices[0].Message.Content,
		Provider: ProviderGroq,
		Model:    model,
	}, nil
}

// GetProviderType returns ProviderGroq
func (p *GroqProvider) GetProviderType() ProviderType {
	return ProviderGroq
}

// Close releases idle connections
func (p *GroqProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
