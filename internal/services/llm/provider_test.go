package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/common"
)

func TestProviderFactory_DetectProvider(t *testing.T) {
	f := NewProviderFactory(common.NewDefaultConfig(), arbor.NewLogger())

	tests := []struct {
		model string
		want  ProviderType
	}{
		{"", ProviderGroq},
		{"llama-3.1-8b-instant", ProviderGroq},
		{"groq/llama-3.3-70b-versatile", ProviderGroq},
		{"claude-haiku-4-5", ProviderClaude},
		{"anthropic/claude-sonnet-4-5", ProviderClaude},
		{"gemini-2.5-flash", ProviderGemini},
		{"google/gemini-2.5-pro", ProviderGemini},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, f.DetectProvider(tt.model))
		})
	}

	assert.Equal(t, "claude-sonnet-4-5", f.NormalizeModel("anthropic/claude-sonnet-4-5"))
	assert.Equal(t, "llama-3.1-8b-instant", f.NormalizeModel("llama-3.1-8b-instant"))
}

func TestProviderFactory_Resolve(t *testing.T) {
	config := common.NewDefaultConfig()
	f := NewProviderFactory(config, arbor.NewLogger())

	provider, model := f.Resolve()
	assert.Equal(t, ProviderGroq, provider)
	assert.Equal(t, "llama-3.1-8b-instant", model)

	config.LLM.DefaultProvider = common.LLMProviderGemini
	provider, model = f.Resolve()
	assert.Equal(t, ProviderGemini, provider)
	assert.Equal(t, "gemini-2.5-flash", model)

	config.LLM.Model = "claude/claude-haiku-4-5"
	provider, model = f.Resolve()
	assert.Equal(t, ProviderClaude, provider)
	assert.Equal(t, "claude-haiku-4-5", model)
}

func TestProviderFactory_MissingKeyFailsAtGeneration(t *testing.T) {
	t.Setenv("ATLAS_GROQ_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	f := NewProviderFactory(common.NewDefaultConfig(), arbor.NewLogger())
	provider, err := f.CreateProvider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, provider.GetProviderType())

	_, err = provider.GenerateContent(context.Background(), &ContentRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, "auth", string(Classify(err)))
}

func TestProviderFactory_CreatesGroqWithKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")

	f := NewProviderFactory(common.NewDefaultConfig(), arbor.NewLogger())
	provider, err := f.CreateProvider(context.Background())
	require.NoError(t, err)

	_, ok := provider.(*GroqProvider)
	assert.True(t, ok)
}
