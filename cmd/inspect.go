package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/tabscan-cli/internal/analysis"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	insScope    string
	insFormat   string
	insOutput   string
	insParallel int
	insHash     bool
	insCatalog  bool
	insDesc     string
	insLoad     loadFlags
)

type inspected struct {
	File       string               `json:"file"`
	Inspection *analysis.Inspection `json:"inspection"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Report malformed rows, column types and unique/duplicate counts",
	Long: `Inspect one or more datasets. Rows whose length differs from the header are
listed and excluded from type and uniqueness counting. Glob patterns are
expanded; several files are loaded concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		scopeSrc := insScope
		if !cmd.Flags().Changed("scope") && cfg != nil {
			scopeSrc = cfg.Scope
		}
		scope, err := analysis.ParseScope(scopeSrc)
		if err != nil {
			return fmt.Errorf("invalid --scope: %w", err)
		}
		format := insFormat
		if !cmd.Flags().Changed("format") && cfg != nil && cfg.ReportFormat != "" {
			format = cfg.ReportFormat
		}
		switch format {
		case "text", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use text|markdown|json)", format)
		}
		parallel := insParallel
		if !cmd.Flags().Changed("parallel") && cfg != nil {
			parallel = cfg.Parallel
		}
		var opts []analysis.InspectOption
		if insHash || (!cmd.Flags().Changed("hash") && cfg != nil && cfg.HashLookup) {
			opts = append(opts, analysis.WithHashLookup())
		}

		results, err := inspectFiles(cmd.Context(), files, scope, parallel, opts)
		if err != nil {
			return err
		}

		out, err := renderInspections(results, format)
		if err != nil {
			return err
		}
		if insOutput != "" {
			if err := os.WriteFile(insOutput, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote inspection to %s\n", insOutput)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), out)
		}

		if insCatalog {
			c, err := openCatalog()
			if err != nil {
				return err
			}
			for _, r := range results {
				e, err := c.Add(r.File, insDesc, r.Inspection)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Catalogued %s as %s\n", e.Name, e.ID)
			}
			if err := c.Save(); err != nil {
				return err
			}
		}
		for _, r := range results {
			if n := len(r.Inspection.InvalidRows); n > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s: %d row(s) do not match the header length\n", filepath.Base(r.File), n)
			}
		}
		return nil
	},
}

// inspectFiles loads and inspects files with at most parallel loads in flight.
// Results keep input order.
func inspectFiles(ctx context.Context, files []string, scope analysis.Scope, parallel int, opts []analysis.InspectOption) ([]inspected, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]inspected, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, header, err := loadDataset(path, &insLoad)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			start := time.Now()
			in := analysis.Inspect(ds, header, scope, opts...)
			logger.Debug("dataset inspected", "file", path, "invalid_rows", len(in.InvalidRows), "took", time.Since(start))
			results[i] = inspected{File: path, Inspection: in}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderInspections(results []inspected, format string) (string, error) {
	if format == "json" {
		var v any = results
		if len(results) == 1 {
			v = results[0].Inspection
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal inspection: %w", err)
		}
		return string(b) + "\n", nil
	}
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch format {
		case "markdown":
			sb.WriteString(r.Inspection.Markdown(filepath.Base(r.File)))
		default:
			if len(results) > 1 {
				fmt.Fprintf(&sb, "== %s ==\n\n", r.File)
			}
			sb.WriteString(r.Inspection.Text())
		}
	}
	return sb.String(), nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insScope, "scope", "T", "tags counted for uniqueness: comma-separated N,PN,PD,T or 'all'")
	inspectCmd.Flags().StringVarP(&insFormat, "format", "f", "text", "report format: text | markdown | json")
	inspectCmd.Flags().StringVarP(&insOutput, "output", "o", "", "optional path to write the report")
	inspectCmd.Flags().IntVar(&insParallel, "parallel", 4, "maximum files loaded at once")
	inspectCmd.Flags().BoolVar(&insHash, "hash", false, "use hashed lookups for uniqueness (faster on large files)")
	inspectCmd.Flags().BoolVar(&insCatalog, "catalog", false, "record the inspection in the catalog")
	inspectCmd.Flags().StringVar(&insDesc, "desc", "", "description when recording in the catalog")
	addLoadFlags(inspectCmd, &insLoad)
}
