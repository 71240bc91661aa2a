package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabscan-cli/internal/analysis"
	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <values...>",
	Short: "Show the tentative type tag of each value (N, PN, PD, T)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"value", "tag"})
		for _, a := range args {
			tw.AppendRow(table.Row{fmt.Sprintf("%q", a), analysis.Classify(dataset.Text(a))})
		}
		tw.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
