package pdf

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Sanitizer reduces text to the runes a target single-byte charset can
// encode. Encodable runes pass through unchanged, known symbols are
// transliterated, accented letters lose their accents and anything else is
// dropped. It never fails.
type Sanitizer struct {
	charset *charmap.Charmap
}

// NewSanitizer creates a sanitizer for charset
func NewSanitizer(charset *charmap.Charmap) *Sanitizer {
	return &Sanitizer{charset: charset}
}

// DefaultSanitizer targets Windows-1252, the encoding of the PDF core fonts
var DefaultSanitizer = NewSanitizer(charmap.Windows1252)

// transliterations covers common runes outside Windows-1252 that have a
// readable ASCII form and no decomposition.
var transliterations = map[rune]string{
	'\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2015': "-", '\u2212': "-",
	'\u2002': " ", '\u2003': " ", '\u2007': " ", '\u2008': " ", '\u2009': " ", '\u202F': " ",
	'\u2032': "'", '\u2033': "\"",
	'\u2192': "->", '\u2190': "<-", '\u2194': "<->", '\u21D2': "=>",
	'\u2264': "<=", '\u2265': ">=", '\u2260': "!=", '\u2248': "~",
	'\u2605': "*", '\u2B50': "*",
	'\u2713': "v", '\u2714': "v",
	'\u0141': "L", '\u0142': "l",
	'\u0110': "D", '\u0111': "d",
	'\u0131': "i",
	'\u0126': "H", '\u0127': "h",
}

// Sanitize returns s reduced to the target charset and the number of runes
// that were dropped. Newlines and tabs are kept; other control characters
// are dropped.
func (s *Sanitizer) Sanitize(text string) (string, int) {
	text = norm.NFC.String(text)

	var sb strings.Builder
	sb.Grow(len(text))
	dropped := 0

	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			sb.WriteRune(r)
			continue
		case r < 0x20 || r == 0x7F:
			dropped++
			continue
		}

		if s.encodable(r) {
			sb.WriteRune(r)
			continue
		}
		if repl, ok := transliterations[r]; ok {
			sb.WriteString(repl)
			continue
		}
		if base, ok := s.stripMarks(r); ok {
			sb.WriteString(base)
			continue
		}
		dropped++
	}

	return sb.String(), dropped
}

func (s *Sanitizer) encodable(r rune) bool {
	if r == unicode.ReplacementChar {
		return false
	}
	_, ok := s.charset.EncodeRune(r)
	return ok
}

// stripMarks decomposes r and keeps the base letters when they are encodable.
func (s *Sanitizer) stripMarks(r rune) (string, bool) {
	var sb strings.Builder
	for _, d := range norm.NFD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if !s.encodable(d) {
			return "", false
		}
		sb.WriteRune(d)
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}
