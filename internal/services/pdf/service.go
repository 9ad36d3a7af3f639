package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/atlas/internal/interfaces"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	fontFamily   = "Arial"
	margin       = 15.0
	defaultSize  = 11.0
	defaultTitle = 16.0
)

// Options controls the document layout
type Options struct {
	FontSize  float64
	TitleSize float64
	Verify    bool // read every export back before returning it
}

// Service renders itinerary text into PDF documents
type Service struct {
	options   Options
	sanitizer *Sanitizer
	extractor *Extractor
	logger    arbor.ILogger
}

// Compile-time assertion
var _ interfaces.DocumentExporter = (*Service)(nil)

// NewService creates a new PDF service
func NewService(options Options, logger arbor.ILogger) *Service {
	if options.FontSize <= 0 {
		options.FontSize = defaultSize
	}
	if options.TitleSize <= 0 {
		options.TitleSize = defaultTitle
	}
	s := &Service{
		options:   options,
		sanitizer: DefaultSanitizer,
		logger:    logger,
	}
	if options.Verify {
		s.extractor = NewExtractor(logger)
	}
	return s
}

// Export renders title as a heading and body as one wrapped paragraph per
// line, blank lines kept as vertical space. Characters the core fonts cannot
// encode are sanitized away first, so no input string makes it fail.
func (s *Service) Export(body, title string) ([]byte, error) {
	cleanTitle, droppedTitle := s.sanitizer.Sanitize(title)
	cleanBody, droppedBody := s.sanitizer.Sanitize(body)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(cleanTitle, true)
	pdf.SetCreator("Atlas", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	lineHeight := s.options.FontSize * 0.5

	if strings.TrimSpace(cleanTitle) != "" {
		pdf.SetFont(fontFamily, "B", s.options.TitleSize)
		pdf.MultiCell(0, s.options.TitleSize*0.5, tr(strings.ReplaceAll(cleanTitle, "\n", " ")), "", "L", false)
		pdf.Ln(lineHeight)
	}

	pdf.SetFont(fontFamily, "", s.options.FontSize)
	for _, line := range strings.Split(cleanBody, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			pdf.Ln(lineHeight)
			continue
		}
		pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().
		Int("pdf_size", buf.Len()).
		Int("pages", pdf.PageCount()).
		Int("dropped_runes", droppedTitle+droppedBody).
		Msg("PDF generated successfully")

	if s.extractor != nil {
		s.verify(buf.Bytes())
	}

	return buf.Bytes(), nil
}

// verify reads the export back and logs when it cannot be parsed. The
// document is still returned: a failed check never blocks a download.
func (s *Service) verify(data []byte) {
	doc, err := s.extractor.ReadBack(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Exported PDF failed read-back check")
		return
	}
	if doc.PageCount == 0 {
		s.logger.Warn().Msg("Exported PDF has no pages")
	}
}

// FileName builds "<prefix>_<country>_<category>.pdf": lowercase, accents
// removed, spaces turned into underscores and anything outside [a-z0-9_-]
// dropped.
func FileName(prefix, country, category string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, country, category} {
		if slug := slugify(p); slug != "" {
			parts = append(parts, slug)
		}
	}
	if len(parts) == 0 {
		return "itinerary.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}

func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, s)
}
