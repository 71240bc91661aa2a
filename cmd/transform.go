package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	trColumn string
	trOp     string
	trInto   string
	trOutput string
	trLoad   loadFlags
)

// textOps are the built-in cell transformations. Non-text cells pass through.
var textOps = map[string]func(string) string{
	"upper":          strings.ToUpper,
	"lower":          strings.ToLower,
	"trim":           strings.TrimSpace,
	"strip-currency": stripCurrency,
}

func stripCurrency(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',', ' ':
			return -1
		}
		return r
	}, s)
}

func opFunc(name string) (dataset.TransformFunc, error) {
	f, ok := textOps[name]
	if !ok {
		return nil, fmt.Errorf("unsupported --op: %s (use upper|lower|trim|strip-currency)", name)
	}
	return func(v dataset.Value, _ dataset.Row, _ dataset.Header) dataset.Value {
		if !v.IsText() {
			return v
		}
		return dataset.Text(f(v.Str()))
	}, nil
}

var transformCmd = &cobra.Command{
	Use:   "transform <file>",
	Short: "Apply a cell transformation to a column and write the result as CSV",
	Long: `Apply --op to every cell of --column. With --into the result is written to
that column instead and the source column is left untouched. An --into column
that does not exist yet is appended at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trColumn == "" {
			return fmt.Errorf("--column is required")
		}
		fn, err := opFunc(trOp)
		if err != nil {
			return err
		}
		ds, header, err := loadDataset(args[0], &trLoad)
		if err != nil {
			return err
		}
		if trInto == "" {
			ds, header, err = dataset.TransformColumn(ds, header, trColumn, fn)
		} else {
			ds, header, err = deriveColumn(ds, header, trColumn, trInto, fn)
		}
		if err != nil {
			return err
		}
		return writeOutput(cmd, trOutput, header, ds)
	},
}

// deriveColumn stores fn applied to column src in column into, replacing an
// existing column or appending a new one. Rows too short to hold src get an
// empty cell.
func deriveColumn(ds dataset.Dataset, h dataset.Header, src, into string, fn dataset.TransformFunc) (dataset.Dataset, dataset.Header, error) {
	idx := h.Index(src)
	if idx < 0 {
		return nil, nil, fmt.Errorf("transform %q: %w", src, dataset.ErrUnknownColumn)
	}
	data := make([]dataset.Value, len(ds))
	for i, row := range ds {
		if idx < len(row) {
			data[i] = fn(row[idx], row, h)
		} else {
			data[i] = dataset.Text("")
		}
	}
	if h.Index(into) >= 0 {
		return dataset.ModifyColumn(ds, h, into, data)
	}
	return dataset.AddColumn(ds, h, into, data)
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringVarP(&trColumn, "column", "c", "", "column to transform")
	transformCmd.Flags().StringVar(&trOp, "op", "", "operation: upper | lower | trim | strip-currency")
	transformCmd.Flags().StringVar(&trInto, "into", "", "write the result to this column instead (created if missing)")
	transformCmd.Flags().StringVarP(&trOutput, "output", "o", "", "write CSV here instead of stdout")
	addLoadFlags(transformCmd, &trLoad)
}
