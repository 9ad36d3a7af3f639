package server

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes
	mux.HandleFunc("/", s.app.PageHandler.IndexHandler)
	mux.HandleFunc("/generate", s.app.PageHandler.GenerateHandler)

	// API routes - Selection
	mux.HandleFunc("/api/countries", s.app.ItineraryHandler.CountriesHandler)   // GET
	mux.HandleFunc("/api/categories", s.app.ItineraryHandler.CategoriesHandler) // GET ?country=
	mux.HandleFunc("/api/places", s.app.ItineraryHandler.PlacesHandler)         // GET ?country=&category=

	// API routes - Itinerary
	mux.HandleFunc("/api/itinerary", byMethod(MethodRouter{
		http.MethodGet:  s.app.ItineraryHandler.LastResultHandler,
		http.MethodPost: s.app.ItineraryHandler.GenerateHandler,
	}))
	mux.HandleFunc("/api/itinerary/pdf", s.app.ItineraryHandler.ExportHandler) // GET

	// API routes - System
	mux.HandleFunc("/api/health", s.app.ItineraryHandler.HealthHandler)

	return mux
}
