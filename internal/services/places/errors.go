package places

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDatasetNotFound is returned when the dataset file does not exist
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrEmptyDataset is returned when the file has no header row
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrMissingColumn is returned when a required column cannot be resolved
	ErrMissingColumn = errors.New("required column missing")
)

func missingColumn(field string, aliases []string) error {
	return fmt.Errorf("%w: %s (expected one of %s)", ErrMissingColumn, field, strings.Join(aliases, ", "))
}
