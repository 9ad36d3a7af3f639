package models

import "strconv"

// Place is one venue or activity row from the reference dataset.
// Values are copied out of the catalog, never mutated after load.
type Place struct {
	Name           string   `json:"name"`
	City           string   `json:"city,omitempty"`
	Country        string   `json:"country"`
	Category       string   `json:"category"`
	Price          *float64 `json:"price,omitempty"`
	Rating         *float64 `json:"rating,omitempty"` // 0..rating scale
	IdealFor       string   `json:"ideal_for,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	ReservationURL string   `json:"reservation_url,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// Selectable reports whether the place can take part in a country/category selection.
func (p Place) Selectable() bool {
	return p.Country != "" && p.Category != ""
}

// FormatNumber renders an optional number without trailing zeros ("4.5", "4", "12.25").
func FormatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Selection is the user's (country, category) choice.
type Selection struct {
	Country  string `json:"country"`
	Category string `json:"category"`
}

// PromptRequest is built fresh for every generate action and never persisted.
type PromptRequest struct {
	Country  string  `json:"country"`
	Category string  `json:"category"`
	Places   []Place `json:"places"`
}

// ExportDocument is the input of a PDF export.
type ExportDocument struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
