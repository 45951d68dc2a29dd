package csvdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/labellens/backend/internal/domain"
)

// Loader reads supplementary field data supplied alongside a label image. The
// CSV carries a header row of field names and one data row of values; extra
// data rows are ignored with a warning because each upload describes a single
// product.
type Loader struct{}

// NewLoader creates a CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the CSV into a field name to value map. Keys and values are
// whitespace-trimmed; columns with empty headers are dropped.
func (l *Loader) Load(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Uneven rows are common in hand-edited sheets.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, domain.ErrEmptyCSV
	}
	if len(rows) > 2 {
		log.Printf("[CSV] Expected a single data row, got %d; using the first", len(rows)-1)
	}

	header, values := rows[0], rows[1]
	fields := make(map[string]string)
	for i, name := range header {
		key := strings.TrimSpace(name)
		if key == "" || i >= len(values) {
			continue
		}
		fields[key] = strings.TrimSpace(values[i])
	}

	if len(fields) == 0 {
		return nil, domain.ErrEmptyCSV
	}

	log.Printf("[CSV] Loaded %d supplementary fields", len(fields))
	return fields, nil
}
