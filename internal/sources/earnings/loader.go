package earnings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
)

// Loader handles loading and parsing of the earning rules YAML.
type Loader struct {
	filePath string
}

// NewLoader creates a new earning table loader
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the configured file path.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the earning table. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func (l *Loader) Load() (*domain.EarningTable, error) {
	if l.filePath == "" {
		return nil, fmt.Errorf("no earning file configured: %w", fs.ErrNotExist)
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read earning file: %w", err)
	}

	return Parse(data)
}

// LoadOrEmpty never fails: an absent or broken file yields an empty table with
// no version, and the problem is logged.
func (l *Loader) LoadOrEmpty(log logger.Logger) *domain.EarningTable {
	table, err := l.Load()
	if err == nil {
		return table
	}

	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("earning table not found, reward estimates unavailable",
			logger.String("file", l.filePath))
	} else {
		log.Warn("earning table unreadable, reward estimates unavailable",
			logger.String("file", l.filePath),
			logger.Error(err))
	}
	return domain.EmptyEarningTable()
}

// Parse decodes a YAML document with a version and an ordered rule list.
// An empty document is an empty table.
func Parse(data []byte) (*domain.EarningTable, error) {
	var table domain.EarningTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse earning yaml: %w", err)
	}
	if table.Rules == nil {
		table.Rules = []domain.EarningRule{}
	}
	return &table, nil
}
