package airports

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/utils"
)

//go:embed airports.csv
var embedded []byte

// Loader reads the static airport reference table. An empty path selects the
// embedded table.
type Loader struct {
	filePath string
}

// NewLoader creates a new airport loader
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load parses the configured table.
func (l *Loader) Load() (domain.Airports, error) {
	if l.filePath == "" {
		return Parse(bytes.NewReader(embedded))
	}

	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open airport file: %w", err)
	}
	defer utils.Close(f)

	return Parse(f)
}

// Default returns the embedded table.
func Default() domain.Airports {
	a, err := Parse(bytes.NewReader(embedded))
	if err != nil {
		panic(fmt.Sprintf("embedded airport table is invalid: %v", err))
	}
	return a
}

// Parse reads "code,lat,lon,country" rows. A header row is skipped when its
// latitude column is not numeric. Rows with a bad coordinate fail the whole
// load so a broken file is noticed rather than silently shrinking the table.
func Parse(r io.Reader) (domain.Airports, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var records []domain.AirportRecord
	line := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read airport csv: %w", err)
		}
		line++

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if line == 1 && latErr != nil {
			continue
		}
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if latErr != nil || lonErr != nil {
			return nil, fmt.Errorf("invalid coordinates for %q on row %d", row[0], line)
		}

		records = append(records, domain.AirportRecord{
			Code:    row[0],
			Lat:     lat,
			Lon:     lon,
			Country: strings.ToUpper(strings.TrimSpace(row[3])),
		})
	}

	return domain.NewAirports(records), nil
}
