package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/models"
	"github.com/ternarybob/atlas/internal/services/itinerary"
	"github.com/ternarybob/atlas/internal/services/places"
	"github.com/ternarybob/atlas/internal/services/session"
	"github.com/ternarybob/atlas/internal/templates"
)

// PageOptions holds display settings for the page
type PageOptions struct {
	Language     string
	Currency     string
	RatingScale  int
	Version      string
	TemplatesDir string // optional override directory for index.html
}

// PageHandler renders the selection page and handles the form actions
type PageHandler struct {
	flow      ItineraryFlow
	sessions  *SessionResolver
	markdown  *MarkdownRenderer
	options   PageOptions
	templates *template.Template
	logger    arbor.ILogger
}

// pageData is the view model of index.html
type pageData struct {
	Language    string
	Version     string
	Provider    string
	Countries   []string
	Categories  []string
	Selection   models.Selection
	View        itinerary.PlacesView
	Result      *models.GenerationResult
	ResultHTML  template.HTML
	Busy        bool
	Message     string
	Currency    string
	RatingScale int
}

// NewPageHandler parses the index page and creates the handler
func NewPageHandler(flow ItineraryFlow, sessions *SessionResolver, markdown *MarkdownRenderer, options PageOptions, logger arbor.ILogger) (*PageHandler, error) {
	if options.RatingScale <= 0 {
		options.RatingScale = 5
	}

	tmpl, err := templates.GetPage("index", options.TemplatesDir, template.FuncMap{
		"details": placeDetails,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	return &PageHandler{
		flow:      flow,
		sessions:  sessions,
		markdown:  markdown,
		options:   options,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// placeDetails renders the card line "4.5/5 · 20 € · Families", skipping absent values
func placeDetails(p models.Place, scale int, currency string) string {
	var details []string
	if p.Rating != nil {
		details = append(details, fmt.Sprintf("%s/%d", models.FormatNumber(p.Rating), scale))
	}
	if p.Price != nil {
		price := models.FormatNumber(p.Price)
		if currency != "" {
			price += " " + currency
		}
		details = append(details, price)
	}
	if p.IdealFor != "" {
		details = append(details, p.IdealFor)
	}
	return strings.Join(details, " · ")
}

// IndexHandler handles GET /
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sess := h.sessions.Resolve(w, r)
	selection := models.Selection{
		Country:  QueryParam(r, "country"),
		Category: QueryParam(r, "category"),
	}
	h.render(w, http.StatusOK, sess, selection, "", false)
}

// GenerateHandler handles the POST /generate form
func (h *PageHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	sess := h.sessions.Resolve(w, r)
	selection := models.Selection{
		Country:  strings.TrimSpace(r.PostFormValue("country")),
		Category: strings.TrimSpace(r.PostFormValue("category")),
	}

	status := http.StatusOK
	message := ""
	if _, err := h.flow.Generate(r.Context(), sess, selection); err != nil {
		switch {
		case errors.Is(err, itinerary.ErrEmptySelection):
			status, message = http.StatusUnprocessableEntity, "No place found for this combination."
		case errors.Is(err, session.ErrBusy):
			status, message = http.StatusConflict, "An itinerary is already being prepared, please wait."
		default:
			h.logger.Error().Err(err).Msg("Itinerary generation failed")
			status, message = http.StatusInternalServerError, err.Error()
		}
	}

	h.render(w, status, sess, selection, message, true)
}

// render resolves the selectors the way the page presents them: an unknown
// or empty country falls back to the first country, and the category to the
// first category of that country.
func (h *PageHandler) render(w http.ResponseWriter, status int, sess *session.Session, selection models.Selection, message string, showResult bool) {
	countries := h.flow.Countries()
	selection.Country = pick(countries, selection.Country)

	categories := h.flow.Categories(selection.Country)
	selection.Category = pick(categories, selection.Category)

	data := pageData{
		Language:    h.options.Language,
		Version:     h.options.Version,
		Provider:    h.flow.ProviderName(),
		Countries:   countries,
		Categories:  categories,
		Selection:   selection,
		View:        h.flow.Places(selection),
		Busy:        sess.Busy(),
		Message:     message,
		Currency:    h.options.Currency,
		RatingScale: h.options.RatingScale,
	}

	// The last result is shown again while the selection it was made for stays on screen.
	state := sess.Snapshot()
	if state.Result != nil && (showResult || sameSelection(state.Selection, selection)) && message == "" {
		data.Result = state.Result
		if state.Result.OK {
			html, err := h.markdown.Render(state.Result.Text)
			if err != nil {
				h.logger.Warn().Err(err).Msg("Failed to render itinerary markdown")
			}
			data.ResultHTML = html
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "index", data); err != nil {
		h.logger.Error().
			Err(err).
			Str("template", "index").
			Msg("Failed to render page")
	}
}

// pick returns the option matching value after folding, or the first option
func pick(options []string, value string) string {
	want := places.Fold(value)
	for _, o := range options {
		if places.Fold(o) == want {
			return o
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}

func sameSelection(a, b models.Selection) bool {
	return places.Fold(a.Country) == places.Fold(b.Country) && places.Fold(a.Category) == places.Fold(b.Category)
}
