package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/tabscan-cli/internal/analysis"
	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	uqColumns   []string
	uqType      string
	uqSort      bool
	uqSeparator string
	uqCounts    bool
	uqLoad      loadFlags
)

var uniqueCmd = &cobra.Command{
	Use:   "unique <file>",
	Short: "List the distinct values of one column, or of column tuples",
	Long: `List distinct values in first-seen order (or sorted with --sort).
With several --column flags the values of each row are combined into tuples
and printed joined by --separator. --type restricts a single column to cells
carrying that tag. --counts prints, per column, how many distinct values
fall under each tag instead of the values themselves.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(uqColumns) == 0 {
			return fmt.Errorf("--column is required")
		}
		ds, header, err := loadDataset(args[0], &uqLoad)
		if err != nil {
			return err
		}
		if uqCounts {
			return printUniqueCounts(cmd, ds, header)
		}
		vals, err := uniqueValues(ds, header)
		if errors.Is(err, analysis.ErrNotApplicable) {
			return fmt.Errorf("%w (selection is empty or mixes value kinds)", err)
		}
		if err != nil {
			return err
		}
		for _, v := range vals {
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
		}
		logger.Debug("unique values", "file", args[0], "columns", uqColumns, "count", len(vals))
		return nil
	},
}

func printUniqueCounts(cmd *cobra.Command, ds dataset.Dataset, header dataset.Header) error {
	if uqType != "" {
		return fmt.Errorf("--type cannot be combined with --counts")
	}
	for _, col := range uqColumns {
		tc, err := analysis.ColumnUniqueCounts(ds, header, col)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", col, tc)
	}
	return nil
}

func uniqueValues(ds dataset.Dataset, header dataset.Header) ([]dataset.Value, error) {
	if len(uqColumns) == 1 {
		col := uqColumns[0]
		if uqType != "" {
			tag, err := analysis.ParseTag(uqType)
			if err != nil {
				return nil, err
			}
			return analysis.ColumnUniqueValues(ds, header, col, tag, uqSort)
		}
		idx := header.Index(col)
		if idx < 0 {
			return nil, fmt.Errorf("column %q: %w", col, dataset.ErrUnknownColumn)
		}
		return analysis.Unique(ds.Column(idx), uqSort)
	}
	if uqType != "" {
		return nil, fmt.Errorf("--type applies to a single --column")
	}
	idxs := make([]int, len(uqColumns))
	for i, col := range uqColumns {
		if idxs[i] = header.Index(col); idxs[i] < 0 {
			return nil, fmt.Errorf("column %q: %w", col, dataset.ErrUnknownColumn)
		}
	}
	var tuples [][]dataset.Value
	for _, row := range ds {
		tp := make([]dataset.Value, 0, len(idxs))
		for _, i := range idxs {
			if i < len(row) {
				tp = append(tp, row[i])
			}
		}
		if len(tp) == len(idxs) {
			tuples = append(tuples, tp)
		}
	}
	return analysis.UniqueTuples(tuples, uqSort, uqSeparator)
}

func init() {
	rootCmd.AddCommand(uniqueCmd)
	uniqueCmd.Flags().StringSliceVarP(&uqColumns, "column", "c", nil, "column name (repeat for tuples)")
	uniqueCmd.Flags().StringVarP(&uqType, "type", "t", "", "only values tagged N, PN, PD or T")
	uniqueCmd.Flags().BoolVar(&uqSort, "sort", false, "sort ascending instead of first-seen order")
	uniqueCmd.Flags().BoolVar(&uqCounts, "counts", false, "print distinct-value counts per tag for each column")
	uniqueCmd.Flags().StringVar(&uqSeparator, "separator", analysis.DefaultSeparator, "joins tuple elements")
	addLoadFlags(uniqueCmd, &uqLoad)
}
