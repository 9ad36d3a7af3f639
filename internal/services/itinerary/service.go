package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/interfaces"
	"github.com/ternarybob/atlas/internal/models"
	"github.com/ternarybob/atlas/internal/services/pdf"
	"github.com/ternarybob/atlas/internal/services/places"
	"github.com/ternarybob/atlas/internal/services/session"
)

var (
	// ErrEmptySelection is returned when generate is requested for a
	// selection that matches no place
	ErrEmptySelection = errors.New("no places match this country and category")

	// ErrNothingToExport is returned when the session has no successful itinerary
	ErrNothingToExport = errors.New("no itinerary to export, generate one first")
)

// Options holds presentation settings of the itinerary flow
type Options struct {
	MaxPlaces      int    // place cards returned by Places
	TitlePrefix    string // e.g. "Atlas - Itinerary"
	FilenamePrefix string // e.g. "atlas_itinerary"
}

// PlacesView is the result of a selection
type PlacesView struct {
	Country     string         `json:"country"`
	Category    string         `json:"category"`
	Total       int            `json:"total"`
	Places      []models.Place `json:"places"` // at most Options.MaxPlaces
	CanGenerate bool           `json:"can_generate"`
}

// ExportFile is a rendered document ready for download
type ExportFile struct {
	Name  string
	Title string
	Data  []byte
}

// Service runs one selection -> prompt -> generation -> export cycle
type Service struct {
	catalog   interfaces.PlaceCatalog
	builder   interfaces.PromptBuilder
	generator interfaces.ItineraryGenerator
	exporter  interfaces.DocumentExporter
	options   Options
	logger    arbor.ILogger
}

// NewService creates the itinerary service
func NewService(
	catalog interfaces.PlaceCatalog,
	builder interfaces.PromptBuilder,
	generator interfaces.ItineraryGenerator,
	exporter interfaces.DocumentExporter,
	options Options,
	logger arbor.ILogger,
) *Service {
	if options.MaxPlaces <= 0 {
		options.MaxPlaces = 9
	}
	return &Service{
		catalog:   catalog,
		builder:   builder,
		generator: generator,
		exporter:  exporter,
		options:   options,
		logger:    logger,
	}
}

// Countries returns the country selector options
func (s *Service) Countries() []string {
	return s.catalog.Countries()
}

// Categories returns the category options for country
func (s *Service) Categories(country string) []string {
	return s.catalog.Categories(country)
}

// Places filters the catalog. An empty result disables generation.
func (s *Service) Places(selection models.Selection) PlacesView {
	selection = s.Canonical(selection)
	matches := s.catalog.Filter(selection.Country, selection.Category)

	cards := matches
	if len(cards) > s.options.MaxPlaces {
		cards = cards[:s.options.MaxPlaces]
	}

	return PlacesView{
		Country:     selection.Country,
		Category:    selection.Category,
		Total:       len(matches),
		Places:      cards,
		CanGenerate: len(matches) > 0,
	}
}

// Generate builds the prompt from every matching place and submits it once.
// It returns ErrEmptySelection or session.ErrBusy before calling the model;
// any model failure is carried by the result, not by the error.
func (s *Service) Generate(ctx context.Context, sess *session.Session, selection models.Selection) (models.GenerationResult, error) {
	selection = s.Canonical(selection)
	req := models.PromptRequest{
		Country:  selection.Country,
		Category: selection.Category,
		Places:   s.catalog.Filter(selection.Country, selection.Category),
	}
	if len(req.Places) == 0 {
		return models.GenerationResult{}, ErrEmptySelection
	}

	if err := sess.Begin(); err != nil {
		return models.GenerationResult{}, err
	}
	defer sess.End()

	prompt, err := s.builder.Build(req.Country, req.Category, req.Places)
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	s.logger.Debug().
		Str("session", sess.ID).
		Str("country", req.Country).
		Str("category", req.Category).
		Int("places", len(req.Places)).
		Int("prompt_length", len(prompt)).
		Msg("Generating itinerary")

	result := s.generator.Generate(ctx, prompt)
	sess.Record(selection, prompt, result)

	return result, nil
}

// Export renders the session's last successful itinerary
func (s *Service) Export(sess *session.Session) (*ExportFile, error) {
	state, ok := sess.LastSuccess()
	if !ok {
		return nil, ErrNothingToExport
	}

	doc := models.ExportDocument{
		Title: s.Title(state.Selection),
		Body:  state.Result.Text,
	}

	data, err := s.exporter.Export(doc.Body, doc.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to export itinerary: %w", err)
	}

	file := &ExportFile{
		Name:  pdf.FileName(s.options.FilenamePrefix, state.Selection.Country, state.Selection.Category),
		Title: doc.Title,
		Data:  data,
	}

	s.logger.Info().
		Str("session", sess.ID).
		Str("file", file.Name).
		Int("bytes", len(data)).
		Msg("Itinerary exported")

	return file, nil
}

// Canonical replaces the country and category with the dataset's own
// spelling when they match after folding; unknown values are kept as given.
func (s *Service) Canonical(selection models.Selection) models.Selection {
	selection.Country = matchFolded(s.catalog.Countries(), selection.Country)
	selection.Category = matchFolded(s.catalog.Categories(selection.Country), selection.Category)
	return selection
}

func matchFolded(options []string, value string) string {
	want := places.Fold(value)
	for _, o := range options {
		if places.Fold(o) == want {
			return o
		}
	}
	return value
}

// Title builds the document title for a selection
func (s *Service) Title(selection models.Selection) string {
	title := fmt.Sprintf("%s %s (%s)", s.options.TitlePrefix, selection.Country, selection.Category)
	return strings.TrimSpace(title)
}

// ProviderName returns the generation provider in use
func (s *Service) ProviderName() string {
	return s.generator.ProviderName()
}

// DatasetSize returns the number of loaded rows
func (s *Service) DatasetSize() int {
	return s.catalog.Len()
}
