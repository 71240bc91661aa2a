package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	headingInvalid = "Invalid (incorrect length) row numbers:"
	headingTypes   = "Tentative column type(s) [T - text, N - numeric, PN - possible numeric, PD - possible date]:"

	headingUniqueText = "Unique value counts (non-numeric and non-date columns only):"
	headingDupText    = "Duplicate value counts (non-numeric and non-date columns only):"
	headingUniqueAll  = "Unique value counts for each column type:"
	headingDupAll     = "Duplicate value counts for each column type:"
)

// Text renders the inspection as a plain report with fixed section headings.
func (in *Inspection) Text() string {
	var b strings.Builder
	b.WriteString(headingInvalid)
	b.WriteString(" ")
	b.WriteString(formatInts(in.InvalidRows))
	b.WriteString("\n\n")

	b.WriteString(headingTypes)
	b.WriteString("\n\n")
	for _, col := range in.Header {
		fmt.Fprintf(&b, "%s: %s\n", col, in.Types[col].String())
	}

	uh, dh := headingUniqueText, headingDupText
	if !in.Scope.IsTextOnly() {
		uh, dh = headingUniqueAll, headingDupAll
	}
	b.WriteString("\n")
	b.WriteString(uh)
	b.WriteString("\n\n")
	in.writeScoped(&b, in.Uniques)
	b.WriteString("\n")
	b.WriteString(dh)
	b.WriteString("\n\n")
	in.writeScoped(&b, in.Duplicates)
	return b.String()
}

func (in *Inspection) writeScoped(b *strings.Builder, m map[string]TagCounts) {
	wrote := false
	for _, col := range in.Header {
		tc, ok := m[col]
		if !ok {
			continue
		}
		wrote = true
		if in.Scope.IsTextOnly() {
			fmt.Fprintf(b, "%s: %d\n", col, tc[T])
			continue
		}
		fmt.Fprintf(b, "%s: %s\n", col, tc)
	}
	if !wrote {
		b.WriteString("(none)\n")
	}
}

// Markdown renders a compact summary suitable for docs or tickets.
func (in *Inspection) Markdown(name string) string {
	var b strings.Builder
	b.WriteString("[DATASET INSPECTION]\n")
	if name != "" {
		fmt.Fprintf(&b, "File: %s\n", name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", in.Rows)
	fmt.Fprintf(&b, "Columns: %d\n", len(in.Header))
	fmt.Fprintf(&b, "Scope: %s\n\n", in.Scope)

	b.WriteString("[INVALID ROWS]\n")
	if len(in.InvalidRows) == 0 {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(formatInts(in.InvalidRows))
		b.WriteString("\n")
	}

	b.WriteString("\n[COLUMN TYPES]\n")
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"column", "N", "PN", "PD", "T", "unique", "duplicates"})
	for _, col := range in.Header {
		tc := in.Types[col]
		tw.AppendRow(table.Row{
			safeName(col), tc[N], tc[PN], tc[PD], tc[T],
			in.Uniques[col].Total(), in.Duplicates[col].Total(),
		})
	}
	b.WriteString(tw.RenderMarkdown())
	b.WriteString("\n")
	return b.String()
}

// JSON renders the inspection as indented JSON.
func (in *Inspection) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal inspection: %w", err)
	}
	return b, nil
}

// RenderFreqTable lays out a frequency table for terminals.
func RenderFreqTable(col string, entries []FreqEntry) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{safeName(col), "count", "percent"})
	total := 0
	for _, e := range entries {
		tw.AppendRow(table.Row{safeVal(e.Value.String()), e.Count, fmt.Sprintf("%.2f%%", e.Percent)})
		total += e.Count
	}
	tw.AppendFooter(table.Row{"total", total, ""})
	return tw.Render()
}

// String renders the counts in tag order, e.g. "N=1 PN=2", or "-" when empty.
func (tc TagCounts) String() string {
	if len(tc) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(tc))
	for _, t := range Tags {
		if n, ok := tc[t]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", t, n))
		}
	}
	return strings.Join(parts, " ")
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
