package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/common"
	"github.com/ternarybob/atlas/internal/handlers"
	"github.com/ternarybob/atlas/internal/services/itinerary"
	"github.com/ternarybob/atlas/internal/services/llm"
	"github.com/ternarybob/atlas/internal/services/pdf"
	"github.com/ternarybob/atlas/internal/services/places"
	"github.com/ternarybob/atlas/internal/services/prompt"
	"github.com/ternarybob/atlas/internal/services/session"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Dataset, loaded once and shared read-only
	Catalog *places.Catalog

	// Itinerary services
	PromptBuilder    *prompt.Builder
	Provider         llm.Provider
	Generator        *llm.Generator
	PDFService       *pdf.Service
	SessionStore     *session.Store
	ItineraryService *itinerary.Service

	// HTTP handlers
	ItineraryHandler *handlers.ItineraryHandler
	PageHandler      *handlers.PageHandler
}

// New initializes the application with all dependencies. A dataset that
// cannot be loaded is an error: there is nothing to serve without it.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDataset(); err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := app.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info().
		Int("rows", app.Catalog.Len()).
		Str("provider", app.Generator.ProviderName()).
		Int("days", cfg.Itinerary.Days).
		Str("language", cfg.Itinerary.Language).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initDataset() error {
	catalog, err := places.Load(a.Config.Dataset.Path, places.LoadOptions{
		Sheet: a.Config.Dataset.Sheet,
		Candidates: places.Candidates{
			Rating:      a.Config.Dataset.RatingCandidates,
			Image:       a.Config.Dataset.ImageCandidates,
			Reservation: a.Config.Dataset.ReservationCandidates,
		},
		RatingScale: a.Config.Itinerary.RatingScale,
	}, a.Logger)
	if err != nil {
		return err
	}
	a.Catalog = catalog
	return nil
}

func (a *App) initServices(ctx context.Context) error {
	cfg := a.Config

	a.PromptBuilder = prompt.NewBuilder(
		cfg.Itinerary.Days,
		cfg.Itinerary.RatingScale,
		cfg.Itinerary.Language,
		cfg.Itinerary.Currency,
	)

	factory := llm.NewProviderFactory(cfg, a.Logger)
	provider, err := factory.CreateProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	a.Provider = provider

	_, model := factory.Resolve()
	a.Generator = llm.NewGenerator(provider, llm.GeneratorOptions{
		System:            a.PromptBuilder.SystemMessage(),
		Model:             model,
		Temperature:       cfg.LLM.Temperature,
		MaxTokens:         cfg.LLM.MaxTokens,
		Timeout:           GenerationTimeout(cfg),
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}, a.Logger)

	a.PDFService = pdf.NewService(pdf.Options{
		FontSize:  cfg.Export.FontSize,
		TitleSize: cfg.Export.TitleSize,
		Verify:    cfg.Export.Verify,
	}, a.Logger)

	a.SessionStore = session.NewStore(
		common.MustDuration(cfg.Session.TTL, time.Hour),
		common.MustDuration(cfg.Session.Cleanup, 10*time.Minute),
	)

	a.ItineraryService = itinerary.NewService(
		a.Catalog,
		a.PromptBuilder,
		a.Generator,
		a.PDFService,
		itinerary.Options{
			MaxPlaces:      cfg.Itinerary.MaxPlaces,
			TitlePrefix:    cfg.Export.TitlePrefix,
			FilenamePrefix: cfg.Export.FilenamePrefix,
		},
		a.Logger,
	)

	a.Logger.Debug().
		Int("max_places", cfg.Itinerary.MaxPlaces).
		Bool("export_verify", cfg.Export.Verify).
		Msg("Itinerary services initialized")

	return nil
}

func (a *App) initHandlers() error {
	cfg := a.Config

	sessions := handlers.NewSessionResolver(a.SessionStore, cfg.Session.CookieName, cfg.IsProduction())
	markdown := handlers.NewMarkdownRenderer()
	version := common.GetVersion()

	a.ItineraryHandler = handlers.NewItineraryHandler(a.ItineraryService, sessions, markdown, version, a.Logger)

	page, err := handlers.NewPageHandler(a.ItineraryService, sessions, markdown, handlers.PageOptions{
		Language:     cfg.Itinerary.Language,
		Currency:     cfg.Itinerary.Currency,
		RatingScale:  cfg.Itinerary.RatingScale,
		Version:      version,
		TemplatesDir: cfg.Server.TemplatesDir,
	}, a.Logger)
	if err != nil {
		return err
	}
	a.PageHandler = page

	return nil
}

// GenerationTimeout is the upper bound of one generation request
func GenerationTimeout(cfg *common.Config) time.Duration {
	return common.MustDuration(cfg.LLM.Timeout, llm.DefaultTimeout)
}

// Close releases the provider client
func (a *App) Close() error {
	if a.Provider != nil {
		if err := a.Provider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider")
		} else {
			a.Logger.Info().Msg("LLM provider closed")
		}
	}
	return nil
}
