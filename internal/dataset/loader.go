package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how a source file is read.
type Options struct {
	// Delimiter for delimited text. If 0, sniffed from the header line.
	Delimiter rune
	// Sheet selects a workbook sheet by name; SheetIndex (1-based) is used when empty.
	Sheet      string
	SheetIndex int
}

// Loader turns a source file into a header and raw rows.
type Loader interface {
	CanLoad(filename string) bool
	Rows(path string, opt Options) (header []string, rows [][]string, err error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a format has no registered loader.
var ErrUnsupported = errors.New("unsupported data format")

// Load reads path with the loader registered for its extension and ingests it.
func Load(path string, opt Options) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		header, rows, err := l.Rows(path, opt)
		if err != nil {
			return nil, err
		}
		return Ingest(filepath.Base(path), path, header, rows)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, strings.ToLower(filepath.Ext(path)))
}

// FirstExisting returns the first candidate path that exists.
func FirstExisting(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
