package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/models"
)

// fakeProvider implements Provider with function fields
type fakeProvider struct {
	generate func(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	calls    int
	last     *ContentRequest
}

func (f *fakeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	f.calls++
	f.last = request
	return f.generate(ctx, request)
}

func (f *fakeProvider) GetProviderType() ProviderType { return ProviderGroq }

func (f *fakeProvider) Close() error { return nil }

func testOptions() GeneratorOptions {
	return GeneratorOptions{
		System:      "You are a luxury travel expert.",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.7,
		MaxTokens:   1800,
		Timeout:     time.Second,
	}
}

func TestGenerate_Success(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
		return &ContentResponse{Text: "Day 1: Temple X", Provider: ProviderGroq, Model: "llama-3.1-8b-instant"}, nil
	}}
	g := NewGenerator(provider, testOptions(), arbor.NewLogger())

	result := g.Generate(context.Background(), "prompt text")

	assert.True(t, result.OK)
	assert.Equal(t, "Day 1: Temple X", result.Text)
	assert.Equal(t, "groq", result.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", result.Model)
	require.NotNil(t, provider.last)
	assert.Equal(t, "prompt text", provider.last.Prompt)
	assert.Equal(t, "You are a luxury travel expert.", provider.last.System)
	assert.Equal(t, 1800, provider.last.MaxTokens)
	assert.InDelta(t, 0.7, provider.last.Temperature, 0.0001)
}

func TestGenerate_NetworkErrorNoRetry(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
		return nil, fmt.Errorf("failed to execute request: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	}}
	g := NewGenerator(provider, testOptions(), arbor.NewLogger())

	var result models.GenerationResult
	assert.NotPanics(t, func() {
		result = g.Generate(context.Background(), "prompt")
	})

	assert.False(t, result.OK)
	assert.Equal(t, models.FailureNetwork, result.Kind)
	assert.Contains(t, result.Reason, "connection refused")
	assert.Equal(t, 1, provider.calls, "no retries")
}

func TestGenerate_ProviderPanicBecomesFailure(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
		panic("boom")
	}}
	g := NewGenerator(provider, testOptions(), arbor.NewLogger())

	result := g.Generate(context.Background(), "prompt")

	assert.False(t, result.OK)
	assert.Equal(t, models.FailureUnknown, result.Kind)
	assert.Contains(t, result.Reason, "boom")
}

func TestGenerate_Timeout(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond
	g := NewGenerator(provider, opts, arbor.NewLogger())

	result := g.Generate(context.Background(), "prompt")

	assert.False(t, result.OK)
	assert.Equal(t, models.FailureTimeout, result.Kind)
}

func TestGenerate_RateLimitedDoesNotWait(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
		return &ContentResponse{Text: "ok"}, nil
	}}
	opts := testOptions()
	opts.RequestsPerMinute = 1
	g := NewGenerator(provider, opts, arbor.NewLogger())

	first := g.Generate(context.Background(), "prompt")
	second := g.Generate(context.Background(), "prompt")

	assert.True(t, first.OK)
	assert.False(t, second.OK)
	assert.Equal(t, models.FailureRateLimit, second.Kind)
	assert.Equal(t, 1, provider.calls)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.FailureKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "empty", err: ErrEmptyResponse, want: models.FailureEmptyResponse},
		{name: "missing key", err: fmt.Errorf("groq: %w", ErrMissingAPIKey), want: models.FailureAuth},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: models.FailureTimeout},
		{name: "groq 401", err: &APIError{StatusCode: 401, Message: "Invalid API Key"}, want: models.FailureAuth},
		{name: "groq 429", err: &APIError{StatusCode: 429}, want: models.FailureRateLimit},
		{name: "groq model code", err: &APIError{StatusCode: 400, Code: "model_decommissioned"}, want: models.FailureInvalidModel},
		{name: "groq 503", err: &APIError{StatusCode: 503}, want: models.FailureNetwork},
		{name: "gemini quota", err: errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), want: models.FailureRateLimit},
		{name: "gemini key", err: errors.New("Error 400, Message: API key not valid. Please pass a valid API key."), want: models.FailureAuth},
		{name: "gemini model", err: errors.New("Error 404, Status: NOT_FOUND"), want: models.FailureInvalidModel},
		{name: "other", err: errors.New("something odd"), want: models.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestGroqProvider_Success(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama-3.1-8b-instant","choices":[{"message":{"role":"assistant","content":"Day 1: Louvre"}}]}`))
	}))
	defer server.Close()

	p := NewGroqProvider("test-key", "", WithBaseURL(server.URL+"/"))

	resp, err := p.GenerateContent(context.Background(), &ContentRequest{System: "sys", Prompt: "hi", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Louvre", resp.Text)
	assert.Equal(t, ProviderGroq, resp.Provider)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
}

func TestGroqProvider_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   models.FailureKind
	}{
		{name: "bad key", status: 401, body: `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`, want: models.FailureAuth},
		{name: "rate limit", status: 429, body: `{"error":{"message":"Rate limit reached"}}`, want: models.FailureRateLimit},
		{name: "unknown model", status: 404, body: `{"error":{"message":"The model does not exist","code":"model_not_found"}}`, want: models.FailureInvalidModel},
		{name: "no choices", status: 200, body: `{"choices":[]}`, want: models.FailureEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewGroqProvider("key", "llama-3.1-8b-instant", WithBaseURL(server.URL))
			_, err := p.GenerateContent(context.Background(), &ContentRequest{Prompt: "hi"})
			require.Error(t, err)
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestGroqProvider_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	g := NewGenerator(NewGroqProvider("key", "", WithBaseURL(url)), testOptions(), arbor.NewLogger())
	result := g.Generate(context.Background(), "prompt")

	assert.False(t, result.OK)
	assert.Equal(t, models.FailureNetwork, result.Kind)
	assert.NotEmpty(t, result.Reason)
}
