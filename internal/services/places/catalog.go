package places

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ternarybob/atlas/internal/interfaces"
	"github.com/ternarybob/atlas/internal/models"
)

// Fold is the single case-folding function applied to stored country and
// category values and to query values before comparison.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Filter returns the places whose country and category match the query after
// folding. Rows without a country or category never match. An empty result
// is a normal outcome.
func Filter(places []models.Place, country, category string) []models.Place {
	wantCountry, wantCategory := Fold(country), Fold(category)
	if wantCountry == "" || wantCategory == "" {
		return []models.Place{}
	}

	out := []models.Place{}
	for _, p := range places {
		if !p.Selectable() {
			continue
		}
		if Fold(p.Country) == wantCountry && Fold(p.Category) == wantCategory {
			out = append(out, p)
		}
	}
	return out
}

// Catalog is the read-only dataset shared by every session. It is built once
// at startup and never written afterwards, so concurrent reads need no locking.
type Catalog struct {
	Columns Columns
	Schema  Schema

	places     []models.Place
	excluded   int
	countries  []string            // display spelling, sorted
	categories map[string][]string // folded country -> display categories, sorted
	byKey      map[string][]int    // folded country + "\x00" + folded category -> place indexes
}

// Compile-time assertion
var _ interfaces.PlaceCatalog = (*Catalog)(nil)

func newCatalog(places []models.Place, cols Columns, schema Schema) *Catalog {
	c := &Catalog{
		Columns:    cols,
		Schema:     schema,
		places:     places,
		categories: make(map[string][]string),
		byKey:      make(map[string][]int),
	}

	countrySeen := make(map[string]bool)
	categorySeen := make(map[string]bool)

	for i, p := range places {
		if !p.Selectable() {
			c.excluded++
			continue
		}

		fc, fk := Fold(p.Country), Fold(p.Category)
		if !countrySeen[fc] {
			countrySeen[fc] = true
			c.countries = append(c.countries, p.Country)
		}
		key := fc + "\x00" + fk
		if !categorySeen[key] {
			categorySeen[key] = true
			c.categories[fc] = append(c.categories[fc], p.Category)
		}
		c.byKey[key] = append(c.byKey[key], i)
	}

	sortFolded(c.countries)
	for _, list := range c.categories {
		sortFolded(list)
	}

	return c
}

func sortFolded(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return Fold(values[i]) < Fold(values[j])
	})
}

// Len returns the number of data rows, selectable or not.
func (c *Catalog) Len() int {
	return len(c.places)
}

// Excluded returns the number of rows missing a country or category.
func (c *Catalog) Excluded() int {
	return c.excluded
}

// Places returns a copy of every row in the dataset.
func (c *Catalog) Places() []models.Place {
	out := make([]models.Place, len(c.places))
	copy(out, c.places)
	return out
}

// Countries returns the distinct countries, sorted.
func (c *Catalog) Countries() []string {
	out := make([]string, len(c.countries))
	copy(out, c.countries)
	return out
}

// Categories returns the categories present for the given country only.
func (c *Catalog) Categories(country string) []string {
	list := c.categories[Fold(country)]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Filter returns the places matching country and category, in dataset order.
// It gives the same answer as the package-level Filter over Places().
func (c *Catalog) Filter(country, category string) []models.Place {
	idx := c.byKey[Fold(country)+"\x00"+Fold(category)]
	out := make([]models.Place, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.places[i])
	}
	return out
}
