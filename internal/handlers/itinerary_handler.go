package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/atlas/internal/models"
	"github.com/ternarybob/atlas/internal/services/itinerary"
	"github.com/ternarybob/atlas/internal/services/session"
)

// ItineraryHandler serves the JSON API for selections, generation and export
type ItineraryHandler struct {
	flow     ItineraryFlow
	sessions *SessionResolver
	markdown *MarkdownRenderer
	version  string
	logger   arbor.ILogger
}

// NewItineraryHandler creates the API handler
func NewItineraryHandler(flow ItineraryFlow, sessions *SessionResolver, markdown *MarkdownRenderer, version string, logger arbor.ILogger) *ItineraryHandler {
	return &ItineraryHandler{
		flow:     flow,
		sessions: sessions,
		markdown: markdown,
		version:  version,
		logger:   logger,
	}
}

// GenerateRequest is the body of POST /api/itinerary
type GenerateRequest struct {
	Country  string `json:"country"`
	Category string `json:"category"`
}

// GenerateResponse is returned by POST /api/itinerary
type GenerateResponse struct {
	OK       bool               `json:"ok"`
	Text     string             `json:"text,omitempty"`
	HTML     string             `json:"html,omitempty"`
	Reason   string             `json:"reason,omitempty"`
	Kind     models.FailureKind `json:"kind,omitempty"`
	Provider string             `json:"provider,omitempty"`
	Model    string             `json:"model,omitempty"`
}

// CountriesHandler handles GET /api/countries
func (h *ItineraryHandler) CountriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"countries": h.flow.Countries(),
	})
}

// CategoriesHandler handles GET /api/categories?country=
func (h *ItineraryHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	country := QueryParam(r, "country")
	if country == "" {
		WriteError(w, http.StatusBadRequest, "country is required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"country":    country,
		"categories": h.flow.Categories(country),
	})
}

// PlacesHandler handles GET /api/places?country=&category=
func (h *ItineraryHandler) PlacesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	selection := models.Selection{
		Country:  QueryParam(r, "country"),
		Category: QueryParam(r, "category"),
	}
	if selection.Country == "" || selection.Category == "" {
		WriteError(w, http.StatusBadRequest, "country and category are required")
		return
	}

	WriteJSON(w, http.StatusOK, h.flow.Places(selection))
}

// GenerateHandler handles POST /api/itinerary
func (h *ItineraryHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req GenerateRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	selection := models.Selection{Country: req.Country, Category: req.Category}
	if selection.Country == "" || selection.Category == "" {
		WriteError(w, http.StatusBadRequest, "country and category are required")
		return
	}

	sess := h.sessions.Resolve(w, r)
	result, err := h.flow.Generate(r.Context(), sess, selection)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusBadGateway
	}
	WriteJSON(w, status, h.toResponse(result))
}

// LastResultHandler handles GET /api/itinerary, returning the session's last result
func (h *ItineraryHandler) LastResultHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sess, ok := h.sessions.Lookup(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "no itinerary for this session")
		return
	}

	state := sess.Snapshot()
	if state.Result == nil {
		WriteError(w, http.StatusNotFound, "no itinerary for this session")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"selection": state.Selection,
		"result":    h.toResponse(*state.Result),
		"busy":      sess.Busy(),
	})
}

// ExportHandler handles GET /api/itinerary/pdf
func (h *ItineraryHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sess, ok := h.sessions.Lookup(r)
	if !ok {
		WriteError(w, http.StatusConflict, itinerary.ErrNothingToExport.Error())
		return
	}

	file, err := h.flow.Export(sess)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	WritePDF(w, file)
}

// WritePDF writes an export as a download
func WritePDF(w http.ResponseWriter, file *itinerary.ExportFile) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// HealthHandler handles GET /api/health
func (h *ItineraryHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"rows":     h.flow.DatasetSize(),
		"provider": h.flow.ProviderName(),
	})
}

func (h *ItineraryHandler) toResponse(result models.GenerationResult) GenerateResponse {
	resp := GenerateResponse{
		OK:       result.OK,
		Text:     result.Text,
		Reason:   result.Reason,
		Kind:     result.Kind,
		Provider: result.Provider,
		Model:    result.Model,
	}
	if result.OK {
		html, err := h.markdown.Render(result.Text)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to render itinerary markdown")
		} else {
			resp.HTML = string(html)
		}
	}
	return resp
}

// writeFlowError maps itinerary and session errors to HTTP statuses
func (h *ItineraryHandler) writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, itinerary.ErrEmptySelection):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrBusy), errors.Is(err, itinerary.ErrNothingToExport):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Itinerary request failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
