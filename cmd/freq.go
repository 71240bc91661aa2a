package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabscan-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	fqColumn  string
	fqByCount bool
	fqReverse bool
	fqLimit   int
	fqLoad    loadFlags
)

var freqCmd = &cobra.Command{
	Use:   "freq <file>",
	Short: "Print a frequency table for one column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if fqColumn == "" {
			return fmt.Errorf("--column is required")
		}
		ds, header, err := loadDataset(args[0], &fqLoad)
		if err != nil {
			return err
		}
		entries, err := analysis.FreqTable(ds, header, fqColumn, analysis.FreqOptions{ByCount: fqByCount, Reverse: fqReverse})
		if err != nil {
			return err
		}
		if fqLimit > 0 && len(entries) > fqLimit {
			entries = entries[:fqLimit]
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis.RenderFreqTable(fqColumn, entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(freqCmd)
	freqCmd.Flags().StringVarP(&fqColumn, "column", "c", "", "column name")
	freqCmd.Flags().BoolVar(&fqByCount, "by-count", false, "order by count instead of value")
	freqCmd.Flags().BoolVar(&fqReverse, "reverse", false, "descending order")
	freqCmd.Flags().IntVar(&fqLimit, "limit", 0, "show at most this many rows (0 = all)")
	addLoadFlags(freqCmd, &fqLoad)
}
