package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/KaramelBytes/tabscan-cli/internal/parser"
	"github.com/spf13/cobra"
)

// loadFlags are the input options shared by every command that reads a file.
type loadFlags struct {
	delimiter  string
	encoding   string
	sheet      string
	sheetIndex int
	table      string
}

func addLoadFlags(c *cobra.Command, lf *loadFlags) {
	c.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default from config)")
	c.Flags().StringVar(&lf.encoding, "encoding", "", "CSV text encoding, e.g. utf-8, latin1, windows-1252, utf-16le (default from config)")
	c.Flags().StringVar(&lf.sheet, "sheet", "", "XLSX: sheet name")
	c.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet not provided)")
	c.Flags().StringVar(&lf.table, "table", "", "SQLite: table name (required when the database has several)")
}

func (lf *loadFlags) options() (parser.Options, error) {
	opt := parser.Options{
		Encoding:   lf.encoding,
		Sheet:      lf.sheet,
		SheetIndex: lf.sheetIndex,
		Table:      lf.table,
	}
	if cfg != nil {
		if opt.Encoding == "" {
			opt.Encoding = cfg.Encoding
		}
		opt.Delimiter = cfg.DelimiterRune()
	}
	switch lf.delimiter {
	case "":
	case ",", ";", "|", ":":
		opt.Delimiter = rune(lf.delimiter[0])
	case "\t", `\t`, "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
	}
	return opt, nil
}

func loadDataset(path string, lf *loadFlags) (dataset.Dataset, dataset.Header, error) {
	opt, err := lf.options()
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	ds, header, err := parser.LoadFile(path, opt)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("dataset loaded", "file", path, "rows", len(ds), "columns", len(header), "took", time.Since(start))
	return ds, header, nil
}

// expandInputs resolves glob patterns, keeps literal paths that exist and
// drops repeats. The result keeps argument order.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			} else {
				return nil, fmt.Errorf("no input files matched %q", arg)
			}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	return files, nil
}
