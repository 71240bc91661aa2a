package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// Options carries format-specific knobs. Loaders ignore fields that do not
// apply to them.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used (tab for .tsv files).
	Delimiter rune
	// Encoding names the CSV character set (IANA or WHATWG label). Empty means UTF-8.
	Encoding string
	// Sheet selects a workbook sheet by name. Takes precedence over SheetIndex.
	Sheet string
	// SheetIndex selects a workbook sheet, 1-based. 0 means the first sheet.
	SheetIndex int
	// Table selects a SQLite table. Empty means the only table in the file.
	Table string
}

// Loader reads a tabular file into a header and rows.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (dataset.Dataset, dataset.Header, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a file format no loader handles.
var ErrUnsupported = errors.New("unsupported file format")

// LoadFile selects a loader based on the file name and loads the dataset.
func LoadFile(path string, opt Options) (dataset.Dataset, dataset.Header, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(sqliteLoader{})
}
