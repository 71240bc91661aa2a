package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabscan-cli/internal/analysis"
	"github.com/KaramelBytes/tabscan-cli/internal/catalog"
	cfgpkg "github.com/KaramelBytes/tabscan-cli/internal/config"
	"github.com/KaramelBytes/tabscan-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var catDir string

// catalogDir picks, in order: --catalog-dir, a catalog.json found in the
// working directory or one of its parents, then the configured catalog_dir.
func catalogDir() (string, error) {
	if catDir != "" {
		return catDir, nil
	}
	if dir, err := utils.FindUp("", catalog.FileName); err == nil {
		return dir, nil
	} else if !errors.Is(err, utils.ErrNotFound) {
		return "", err
	}
	if cfg != nil && cfg.CatalogDir != "" {
		return cfg.CatalogDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, cfgpkg.DirName, "catalog"), nil
}

func openCatalog() (*catalog.Catalog, error) {
	dir, err := catalogDir()
	if err != nil {
		return nil, err
	}
	logger.Debug("opening catalog", "dir", dir)
	return catalog.Open(dir)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List, show or remove recorded inspections",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		entries := c.List()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no datasets)")
			return nil
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"id", "name", "rows", "columns", "invalid", "inspected"})
		for _, e := range entries {
			tw.AppendRow(table.Row{e.ID[:8], e.Name, e.Rows, len(e.Columns), len(e.InvalidRows), e.InspectedAt.Format("2006-01-02 15:04")})
		}
		tw.Render()
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the recorded inspection of one dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		e, err := c.Get(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id: %s\n", e.ID)
		fmt.Fprintf(out, "path: %s\n", e.Path)
		if e.Description != "" {
			fmt.Fprintf(out, "description: %s\n", e.Description)
		}
		fmt.Fprintf(out, "rows: %d\n", e.Rows)
		fmt.Fprintf(out, "columns: %s\n", strings.Join(e.Columns, ", "))
		fmt.Fprintf(out, "inspected: %s\n\n", e.InspectedAt.Format("2006-01-02 15:04:05"))
		in := &analysis.Inspection{
			InvalidRows: e.InvalidRows,
			Types:       e.Types,
			Uniques:     e.Uniques,
			Duplicates:  e.Duplicates,
			Header:      e.Columns,
			Scope:       e.Scope,
			Rows:        e.Rows,
		}
		fmt.Fprint(out, in.Text())
		return nil
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a dataset from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		e, err := c.Get(args[0])
		if err != nil {
			return err
		}
		if err := c.Remove(e.ID); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s (%s)\n", e.Name, e.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	rootCmd.PersistentFlags().StringVar(&catDir, "catalog-dir", "", "catalog directory (overrides config and catalog.json lookup)")
}
