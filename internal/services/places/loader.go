package places

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/atlas/internal/models"
)

// DefaultRatingScale is the upper bound of a rating when none is configured
const DefaultRatingScale = 5

// LoadOptions controls how a dataset file is read
type LoadOptions struct {
	Sheet       string // xlsx sheet name, first sheet when empty
	Candidates  Candidates
	RatingScale int // ratings above it are treated as absent
}

// Load reads the dataset at path (.csv or .xlsx), normalizes its headers,
// resolves the schema once and returns the read-only catalog. Any error here
// is fatal for the process: nothing can be served without the dataset.
func Load(path string, opts LoadOptions, logger arbor.ILogger) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat dataset %s: %w", path, err)
	}

	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		rows, err = readCSVFile(path)
	case ".xlsx", ".xlsm":
		rows, err = readXLSXFile(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	catalog, err := FromRows(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	for _, c := range catalog.Columns.Collisions {
		logger.Warn().
			Str("column", c.Name).
			Str("overridden", c.Overridden).
			Str("winner", c.Winner).
			Msg("Dataset headers collide after normalization, later column wins")
	}

	logger.Info().
		Str("path", path).
		Int("rows", catalog.Len()).
		Int("excluded", catalog.Excluded()).
		Int("countries", len(catalog.Countries())).
		Str("rating_column", catalog.Schema.Rating).
		Str("image_column", catalog.Schema.Image).
		Str("reservation_column", catalog.Schema.Reservation).
		Msg("Dataset loaded")

	return catalog, nil
}

// FromRows builds a catalog from a header row followed by data rows.
func FromRows(rows [][]string, opts LoadOptions) (*Catalog, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyDataset
	}
	scale := float64(opts.RatingScale)
	if scale <= 0 {
		scale = DefaultRatingScale
	}

	cols := NormalizeHeaders(rows[0])
	schema, err := ResolveSchema(cols, opts.Candidates)
	if err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		places = append(places, parseRow(row, cols, schema, scale))
	}

	return newCatalog(places, cols, schema), nil
}

func parseRow(row []string, cols Columns, schema Schema, ratingScale float64) models.Place {
	get := func(column string) string {
		if column == "" {
			return ""
		}
		i, ok := cols.Index(column)
		if !ok || i >= len(row) {
			return ""
		}
		return cleanCell(row[i])
	}

	return models.Place{
		Name:           get(schema.Name),
		City:           get(schema.City),
		Country:        get(schema.Country),
		Category:       get(schema.Category),
		Price:          parseNumber(get(schema.Price)),
		Rating:         parseRating(get(schema.Rating), ratingScale),
		IdealFor:       get(schema.IdealFor),
		ImageURL:       get(schema.Image),
		ReservationURL: get(schema.Reservation),
		Latitude:       parseNumber(get(schema.Latitude)),
		Longitude:      parseNumber(get(schema.Longitude)),
	}
}

// cleanCell trims the cell and treats spreadsheet null markers as empty.
func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "nan", "null", "none", "n/a", "#n/a", "-":
		return ""
	}
	return v
}

// leadingNumber matches the first number of a cell, after an optional
// currency symbol or label: "4/5" -> 4, "12–15 €" -> 12, "$30" -> 30.
var leadingNumber = regexp.MustCompile(`^\s*[^\d-]*(-?\d+(?:[.,]\d+)?)`)

// parseNumber reads the leading number of a cell, accepting "," as decimal
// separator. A cell with no leading number is absent.
func parseNumber(v string) *float64 {
	if v == "" {
		return nil
	}
	m := leadingNumber.FindStringSubmatch(v)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseRating is parseNumber bounded to [0, scale].
func parseRating(v string, scale float64) *float64 {
	f := parseNumber(v)
	if f == nil || *f < 0 || *f > scale {
		return nil
	}
	return f
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSVFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadCSV(bytes.NewReader(data))
}

// ReadCSV reads comma or semicolon separated rows; the delimiter is sniffed
// from the header line and a UTF-8 BOM is skipped.
func ReadCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}

	header, _ := br.Peek(br.Buffered())
	if line, _, found := bytes.Cut(header, []byte("\n")); found {
		header = line
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		reader.Comma = ';'
	}

	return reader.ReadAll()
}

func readXLSXFile(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyDataset
		}
		sheet = sheets[0]
	}

	return f.GetRows(sheet)
}
