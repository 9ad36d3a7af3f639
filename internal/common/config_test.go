package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	config := NewDefaultConfig()

	require.NoError(t, config.Validate())
	assert.Equal(t, 3, config.Itinerary.Days)
	assert.Equal(t, 5, config.Itinerary.RatingScale)
	assert.Equal(t, LLMProviderGroq, config.LLM.DefaultProvider)
	assert.InDelta(t, 0.7, config.LLM.Temperature, 0.0001)
	assert.Equal(t, []string{"note", "rating", "stars", "5"}, config.Dataset.RatingCandidates)
}

func TestLoadFromFiles_LaterFileOverrides(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
[server]
port = 9000

[itinerary]
days = 2
language = "fr"
`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`
[itinerary]
days = 4
`), 0644))

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, 4, config.Itinerary.Days)
	assert.Equal(t, "fr", config.Itinerary.Language)
	assert.Equal(t, 5, config.Itinerary.RatingScale, "defaults survive partial files")
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("ATLAS_SERVER_PORT", "7070")
	t.Setenv("ATLAS_DATASET_PATH", "/data/places.csv")
	t.Setenv("ATLAS_LLM_PROVIDER", "claude")
	t.Setenv("ATLAS_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "/data/places.csv", config.Dataset.Path)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 0, "", "")
	assert.Equal(t, 8080, config.Server.Port)

	ApplyFlagOverrides(config, 9191, "0.0.0.0", "places.csv")
	assert.Equal(t, 9191, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "places.csv", config.Dataset.Path)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero days", func(c *Config) { c.Itinerary.Days = 0 }},
		{"unknown provider", func(c *Config) { c.LLM.DefaultProvider = "openai" }},
		{"unknown language", func(c *Config) { c.Itinerary.Language = "de" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "soon" }},
		{"no dataset", func(c *Config) { c.Dataset.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("ATLAS_GROQ_API_KEY", "")
	_, err := ResolveAPIKey(ctx, LLMProviderGroq, "")
	assert.Error(t, err)

	key, err := ResolveAPIKey(ctx, LLMProviderGroq, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	t.Setenv("GROQ_API_KEY", "from-env")
	key, err = ResolveAPIKey(ctx, LLMProviderGroq, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	t.Setenv("ATLAS_GROQ_API_KEY", "from-atlas-env")
	key, err = ResolveAPIKey(ctx, LLMProviderGroq, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-atlas-env", key)
}
