package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/KaramelBytes/tabscan-cli/internal/query"
	"github.com/spf13/cobra"
)

var (
	exRows    string
	exWhere   string
	exColumns []string
	exDrop    []string
	exOutput  string
	exLoad    loadFlags
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Write a subset of rows and columns as CSV",
	Long: `Select rows by inclusive index range (--rows 2:10) and/or by an expression
(--where 'kg > 5 && plot == "A1"'), keep (--columns) or drop (--drop) columns,
and write the result as CSV to stdout or --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, header, err := loadDataset(args[0], &exLoad)
		if err != nil {
			return err
		}
		if exRows != "" {
			lo, hi, err := parseRowRange(exRows)
			if err != nil {
				return err
			}
			if ds, err = dataset.ExtractRowRange(ds, lo, hi); err != nil {
				return err
			}
		}
		var pred dataset.Predicate
		if exWhere != "" {
			if pred, err = query.Compile(exWhere, header); err != nil {
				return err
			}
		}
		var cols []string
		if len(exColumns) > 0 {
			cols = exColumns
		}
		if pred != nil || cols != nil {
			if ds, header, err = dataset.ExtractRows(ds, header, pred, cols); err != nil {
				return err
			}
		}
		if len(exDrop) > 0 {
			if ds, header, err = dataset.RemoveColumns(ds, header, exDrop); err != nil {
				return err
			}
		}
		if err := writeOutput(cmd, exOutput, header, ds); err != nil {
			return err
		}
		logger.Debug("rows extracted", "file", args[0], "rows", len(ds), "columns", len(header))
		return nil
	},
}

// parseRowRange parses "lo:hi" (inclusive, 0-based). A lone number selects one row.
func parseRowRange(s string) (int, int, error) {
	loS, hiS, found := strings.Cut(s, ":")
	if !found {
		hiS = loS
	}
	lo, err := strconv.Atoi(strings.TrimSpace(loS))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --rows %q: %w", s, err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(hiS))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --rows %q: %w", s, err)
	}
	return lo, hi, nil
}

// writeOutput writes header and rows as CSV to path, or to the command's
// stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, header dataset.Header, ds dataset.Dataset) error {
	if path == "" {
		return writeCSV(cmd.OutOrStdout(), header, ds)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeCSV(f, header, ds); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d row(s) to %s\n", len(ds), path)
	return nil
}

func writeCSV(w io.Writer, header dataset.Header, ds dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, row := range ds {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&exRows, "rows", "", "inclusive 0-based row range lo:hi")
	extractCmd.Flags().StringVarP(&exWhere, "where", "w", "", "row filter expression")
	extractCmd.Flags().StringSliceVar(&exColumns, "columns", nil, "columns to keep (header order is preserved)")
	extractCmd.Flags().StringSliceVar(&exDrop, "drop", nil, "columns to remove")
	extractCmd.Flags().StringVarP(&exOutput, "output", "o", "", "write CSV here instead of stdout")
	addLoadFlags(extractCmd, &exLoad)
}
