package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/atlas/internal/interfaces"
	"github.com/ternarybob/atlas/internal/models"
)

// ErrNoPlaces is returned when Build is called without any place. Callers are
// expected to disable generation for an empty selection before reaching here.
var ErrNoPlaces = errors.New("no places to build an itinerary from")

// Builder renders filtered places into the itinerary prompt. It holds no
// state besides its settings and is safe for concurrent use.
type Builder struct {
	Days        int
	RatingScale int
	Language    string // "en" or "fr"
	Currency    string
}

// Compile-time assertion
var _ interfaces.PromptBuilder = (*Builder)(nil)

// NewBuilder creates a builder, falling back to 3 days on a /5 scale
func NewBuilder(days, ratingScale int, language, currency string) *Builder {
	if days < 1 {
		days = 3
	}
	if ratingScale < 1 {
		ratingScale = 5
	}
	return &Builder{
		Days:        days,
		RatingScale: ratingScale,
		Language:    language,
		Currency:    currency,
	}
}

// SystemMessage returns the fixed system message sent with every prompt
func (b *Builder) SystemMessage() string {
	return wordingFor(b.Language).system
}

// Build renders the prompt. The output depends only on its arguments and the
// builder settings; places are listed in the order given.
func (b *Builder) Build(country, category string, places []models.Place) (string, error) {
	if len(places) == 0 {
		return "", ErrNoPlaces
	}

	w := wordingFor(b.Language)
	var sb strings.Builder

	sb.WriteString(w.role)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, w.request, b.Days, country, category)
	sb.WriteString("\n\n")

	sb.WriteString(w.placesIntro)
	sb.WriteString("\n\n")
	for _, p := range places {
		b.writePlace(&sb, w, p)
	}

	sb.WriteString("\n")
	sb.WriteString(w.formatHeading)
	sb.WriteString("\n")
	for day := 1; day <= b.Days; day++ {
		fmt.Fprintf(&sb, w.dayLine, day)
		sb.WriteString("\n")
	}
	sb.WriteString(w.mentionDay + "\n")
	sb.WriteString(w.onePerDay + "\n")
	sb.WriteString(w.tips + "\n")
	sb.WriteString(w.linksList + "\n\n")

	sb.WriteString(w.linksHeading)
	sb.WriteString("\n")
	for _, link := range reservationLinks(places) {
		fmt.Fprintf(&sb, "- %s: %s\n", link.name, link.url)
	}

	sb.WriteString("\n")
	sb.WriteString(w.tone)
	sb.WriteString("\n")

	return sb.String(), nil
}

// writePlace renders one bullet; absent fields are left out entirely.
func (b *Builder) writePlace(sb *strings.Builder, w wording, p models.Place) {
	sb.WriteString("- **" + p.Name + "**")
	if p.City != "" {
		sb.WriteString(" (" + p.City + ")")
	}
	sb.WriteString("\n")

	if p.Price != nil {
		price := models.FormatNumber(p.Price)
		if b.Currency != "" {
			price += " " + b.Currency
		}
		fmt.Fprintf(sb, "  %s: %s\n", w.price, price)
	}
	if p.Rating != nil {
		fmt.Fprintf(sb, "  %s: %s/%d\n", w.rating, models.FormatNumber(p.Rating), b.RatingScale)
	}
	if p.IdealFor != "" {
		fmt.Fprintf(sb, "  %s: %s\n", w.idealFor, p.IdealFor)
	}
	if p.ReservationURL != "" {
		fmt.Fprintf(sb, "  %s: %s\n", w.reservation, p.ReservationURL)
	}
}

type link struct {
	name string
	url  string
}

// reservationLinks lists each distinct reservation URL once, in place order.
func reservationLinks(places []models.Place) []link {
	seen := make(map[string]bool)
	var links []link
	for _, p := range places {
		if p.ReservationURL == "" || seen[p.ReservationURL] {
			continue
		}
		seen[p.ReservationURL] = true
		links = append(links, link{name: p.Name, url: p.ReservationURL})
	}
	return links
}
