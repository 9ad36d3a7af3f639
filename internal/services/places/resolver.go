package places

import "strings"

// ResolveField finds a column by substring heuristics. Candidates form a
// priority list: the first candidate that matches any column wins, and among
// the columns it matches the first one in declared order is returned. Both
// columns and candidates are compared in normalized form. An absent field is
// a legitimate result, not an error.
func ResolveField(columns []string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		needle := NormalizeHeader(candidate)
		if needle == "" {
			continue
		}
		for _, column := range columns {
			if strings.Contains(NormalizeHeader(column), needle) {
				return column, true
			}
		}
	}
	return "", false
}

// resolveExact returns the first alias present verbatim among the columns.
func resolveExact(cols Columns, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if _, ok := cols.Index(alias); ok {
			return alias, true
		}
	}
	return "", false
}

// Canonical aliases for the fields whose headers only differ by language.
var (
	nameAliases      = []string{"nom_lieu", "nom", "name", "place_name", "place", "lieu"}
	cityAliases      = []string{"ville", "city", "town"}
	countryAliases   = []string{"pays", "country"}
	categoryAliases  = []string{"categorie", "category", "categorie_activite", "type"}
	priceAliases     = []string{"prix", "price", "cost", "tarif"}
	idealForAliases  = []string{"ideal_pour", "ideal_for", "audience"}
	latitudeAliases  = []string{"latitude", "lat"}
	longitudeAliases = []string{"longitude", "lon", "lng"}
)

// Schema is the column resolution for one loaded dataset. It is computed once
// at load time and reused for every row.
type Schema struct {
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country"`
	Category    string `json:"category"`
	Price       string `json:"price,omitempty"`
	Rating      string `json:"rating,omitempty"`
	IdealFor    string `json:"ideal_for,omitempty"`
	Image       string `json:"image,omitempty"`
	Reservation string `json:"reservation,omitempty"`
	Latitude    string `json:"latitude,omitempty"`
	Longitude   string `json:"longitude,omitempty"`
}

// Candidates are the substring priority lists used by ResolveSchema.
type Candidates struct {
	Rating      []string
	Image       []string
	Reservation []string
}

// ResolveSchema maps normalized columns to the canonical schema. Country,
// category and name are required; everything else may be absent.
func ResolveSchema(cols Columns, candidates Candidates) (Schema, error) {
	var schema Schema
	var ok bool

	if schema.Country, ok = resolveExact(cols, countryAliases); !ok {
		return Schema{}, missingColumn("country", countryAliases)
	}
	if schema.Category, ok = resolveExact(cols, categoryAliases); !ok {
		return Schema{}, missingColumn("category", categoryAliases)
	}
	if schema.Name, ok = resolveExact(cols, nameAliases); !ok {
		return Schema{}, missingColumn("name", nameAliases)
	}

	schema.City, _ = resolveExact(cols, cityAliases)
	schema.Price, _ = resolveExact(cols, priceAliases)
	schema.IdealFor, _ = resolveExact(cols, idealForAliases)
	schema.Latitude, _ = resolveExact(cols, latitudeAliases)
	schema.Longitude, _ = resolveExact(cols, longitudeAliases)

	// Heuristic fields must not steal a column already claimed above,
	// e.g. "5" matching a price column named "prix_5".
	claimed := map[string]bool{
		schema.Country: true, schema.Category: true, schema.Name: true,
		schema.City: true, schema.Price: true, schema.IdealFor: true,
		schema.Latitude: true, schema.Longitude: true,
	}
	free := make([]string, 0, len(cols.Names))
	for _, name := range cols.Unique() {
		if !claimed[name] {
			free = append(free, name)
		}
	}

	schema.Reservation, _ = ResolveField(free, candidates.Reservation)
	schema.Image, _ = ResolveField(without(free, schema.Reservation), candidates.Image)
	schema.Rating, _ = ResolveField(without(free, schema.Reservation, schema.Image), candidates.Rating)

	return schema, nil
}

func without(columns []string, drop ...string) []string {
	out := make([]string, 0, len(columns))
outer:
	for _, c := range columns {
		for _, d := range drop {
			if d != "" && c == d {
				continue outer
			}
		}
		out = append(out, c)
	}
	return out
}
