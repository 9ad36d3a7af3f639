package places

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader maps a raw spreadsheet header to its canonical identifier:
// lowercase, diacritics stripped, surrounding whitespace trimmed, and every
// space, hyphen or slash replaced by an underscore. " Note / 5 " -> "note___5",
// "Catégorie" -> "categorie". Applying it twice gives the same result.
func NormalizeHeader(header string) string {
	s := stripDiacritics(strings.ToLower(header))
	s = strings.TrimSpace(s)

	return strings.Map(func(r rune) rune {
		if r == '-' || r == '/' || unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}

// stripDiacritics decomposes s and drops combining marks ("é" -> "e").
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Collision records two raw headers that normalize to the same name.
// The later column wins.
type Collision struct {
	Name       string
	Overridden string // raw header that lost
	Winner     string // raw header that won
}

// Columns is the normalized header row of a dataset.
type Columns struct {
	Names      []string // normalized names in declared order
	index      map[string]int
	Collisions []Collision
}

// NormalizeHeaders normalizes a raw header row. When two headers collide the
// later column overwrites the former in the lookup index; both remain in Names.
func NormalizeHeaders(raw []string) Columns {
	cols := Columns{
		Names: make([]string, len(raw)),
		index: make(map[string]int, len(raw)),
	}

	for i, header := range raw {
		name := NormalizeHeader(header)
		cols.Names[i] = name
		if prev, ok := cols.index[name]; ok && name != "" {
			cols.Collisions = append(cols.Collisions, Collision{
				Name:       name,
				Overridden: raw[prev],
				Winner:     header,
			})
		}
		if name != "" {
			cols.index[name] = i
		}
	}

	return cols
}

// Index returns the position of the column holding name, honouring the
// later-wins collision policy.
func (c Columns) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Unique returns the winning column names in declared order, without duplicates.
func (c Columns) Unique() []string {
	out := make([]string, 0, len(c.index))
	for i, name := range c.Names {
		if idx, ok := c.index[name]; ok && idx == i {
			out = append(out, name)
		}
	}
	return out
}
