package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Dataset     DatasetConfig   `toml:"dataset"`
	Itinerary   ItineraryConfig `toml:"itinerary"`
	LLM         LLMConfig       `toml:"llm"`
	Groq        GroqConfig      `toml:"groq"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Export      ExportConfig    `toml:"export"`
	Session     SessionConfig   `toml:"session"`
}

type ServerConfig struct {
	Port         int    `toml:"port" validate:"min=1,max=65535"`
	Host         string `toml:"host"`
	TemplatesDir string `toml:"templates_dir"` // optional page override directory
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
}

// DatasetConfig locates the places spreadsheet and the substrings used to
// find columns whose header varies between source files.
type DatasetConfig struct {
	Path                  string   `toml:"path" validate:"required"` // .csv or .xlsx
	Sheet                 string   `toml:"sheet"`                    // xlsx sheet, default first sheet
	RatingCandidates      []string `toml:"rating_candidates" validate:"min=1"`
	ImageCandidates       []string `toml:"image_candidates"`
	ReservationCandidates []string `toml:"reservation_candidates"`
}

// ItineraryConfig shapes the prompt sent to the model
type ItineraryConfig struct {
	Days        int    `toml:"days" validate:"min=1,max=14"`
	RatingScale int    `toml:"rating_scale" validate:"min=1"`
	Language    string `toml:"language" validate:"oneof=en fr"`
	Currency    string `toml:"currency"`
	MaxPlaces   int    `toml:"max_places" validate:"min=1"` // place cards shown on the page
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	LLMProviderGroq   LLMProvider = "groq"
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains settings shared by all providers
type LLMConfig struct {
	DefaultProvider   LLMProvider `toml:"default_provider" validate:"oneof=groq claude gemini"`
	Model             string      `toml:"model"`   // overrides the provider model when set
	Timeout           string      `toml:"timeout"` // upper bound for one generation, e.g. "45s"
	MaxTokens         int         `toml:"max_tokens" validate:"min=1"`
	Temperature       float32     `toml:"temperature" validate:"gte=0,lte=2"`
	RequestsPerMinute int         `toml:"requests_per_minute" validate:"gte=0"` // 0 disables throttling
}

// GroqConfig contains the OpenAI-compatible Groq endpoint configuration
type GroqConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // default "llama-3.1-8b-instant"
	BaseURL string `toml:"base_url"` // default "https://api.groq.com/openai/v1"
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// ExportConfig controls the PDF layout and download file name
type ExportConfig struct {
	FilenamePrefix string  `toml:"filename_prefix" validate:"required"`
	TitlePrefix    string  `toml:"title_prefix"`
	FontSize       float64 `toml:"font_size" validate:"gt=0"`
	TitleSize      float64 `toml:"title_size" validate:"gt=0"`
	Verify         bool    `toml:"verify"` // read each document back before serving it
}

// SessionConfig controls the in-memory session store
type SessionConfig struct {
	TTL        string `toml:"ttl"`
	Cleanup    string `toml:"cleanup"`
	CookieName string `toml:"cookie_name" validate:"required"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Dataset: DatasetConfig{
			Path:                  "./data.xlsx",
			RatingCandidates:      []string{"note", "rating", "stars", "5"},
			ImageCandidates:       []string{"image", "photo", "lien_images"},
			ReservationCandidates: []string{"reservation", "booking", "resa"},
		},
		Itinerary: ItineraryConfig{
			Days:        3,
			RatingScale: 5,
			Language:    "en",
			Currency:    "€",
			MaxPlaces:   9,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGroq,
			Timeout:         "45s",
			MaxTokens:       1800,
			Temperature:     0.7,
		},
		Groq: GroqConfig{
			Model:   "llama-3.1-8b-instant",
			BaseURL: "https://api.groq.com/openai/v1",
		},
		Claude: ClaudeConfig{
			Model: "claude-haiku-4-5",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Export: ExportConfig{
			FilenamePrefix: "atlas_itinerary",
			TitlePrefix:    "Atlas - Itinerary",
			FontSize:       11,
			TitleSize:      16,
		},
		Session: SessionConfig{
			TTL:        "1h",
			Cleanup:    "10m",
			CookieName: "atlas_session",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files. CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ATLAS_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ATLAS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ATLAS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("ATLAS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ATLAS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Dataset configuration
	if path := os.Getenv("ATLAS_DATASET_PATH"); path != "" {
		config.Dataset.Path = path
	}

	// Itinerary configuration
	if days := os.Getenv("ATLAS_ITINERARY_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Itinerary.Days = d
		}
	}
	if lang := os.Getenv("ATLAS_ITINERARY_LANGUAGE"); lang != "" {
		config.Itinerary.Language = lang
	}

	// LLM configuration
	if provider := os.Getenv("ATLAS_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if model := os.Getenv("ATLAS_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if timeout := os.Getenv("ATLAS_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}
	if temperature := os.Getenv("ATLAS_LLM_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.LLM.Temperature = float32(t)
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host, datasetPath string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if datasetPath != "" {
		config.Dataset.Path = datasetPath
	}
}

// Validate checks struct tags and the duration strings
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	durations := map[string]string{
		"llm.timeout":     c.LLM.Timeout,
		"session.ttl":     c.Session.TTL,
		"session.cleanup": c.Session.Cleanup,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid configuration: %s %q: %w", name, value, err)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ResolveAPIKey resolves an API key by provider name.
// Resolution order: environment variables -> config fallback -> error
func ResolveAPIKey(ctx context.Context, provider LLMProvider, configFallback string) (string, error) {
	keyToEnvMapping := map[LLMProvider][]string{
		LLMProviderGroq:   {"ATLAS_GROQ_API_KEY", "GROQ_API_KEY"},
		LLMProviderClaude: {"ATLAS_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		LLMProviderGemini: {"ATLAS_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, envVarName := range keyToEnvMapping[provider] {
		if envValue := os.Getenv(envVarName); envValue != "" {
			return envValue, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key for '%s' not found in environment or config", provider)
}

// MustDuration parses a duration already checked by Validate, falling back on parse errors
func MustDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
