package analysis

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// ErrUnknownColumn is returned by per-column helpers when the column is not
// part of the header.
var ErrUnknownColumn = dataset.ErrUnknownColumn

// TagCounts maps a tag to an occurrence count. Only tags that occurred
// are present.
type TagCounts map[Tag]int

// Total sums the counts over all tags.
func (tc TagCounts) Total() int {
	n := 0
	for _, c := range tc {
		n += c
	}
	return n
}

// Scope is the set of tags over which unique and duplicate values are counted.
type Scope []Tag

// DefaultScope counts text cells only.
func DefaultScope() Scope { return Scope{T} }

// AllTags tracks every tag as an independent bucket.
func AllTags() Scope { return Scope{N, PN, PD, T} }

// Contains reports whether t is in scope.
func (s Scope) Contains(t Tag) bool { return slices.Contains(s, t) }

// IsTextOnly reports whether the scope is exactly {T}.
func (s Scope) IsTextOnly() bool {
	return len(s) > 0 && !slices.ContainsFunc(s, func(t Tag) bool { return t != T })
}

func (s Scope) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// ParseScope parses a comma-separated list of tags such as "T" or "PN,T".
// "all" selects every tag. An empty string yields the default scope.
func ParseScope(s string) (Scope, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultScope(), nil
	}
	if strings.EqualFold(s, "all") {
		return AllTags(), nil
	}
	return ScopeOf(strings.Split(s, ","))
}

// ScopeOf builds a scope from tag codes, dropping repeats.
func ScopeOf(codes []string) (Scope, error) {
	var out Scope
	for _, c := range codes {
		if strings.TrimSpace(c) == "" {
			continue
		}
		t, err := ParseTag(c)
		if err != nil {
			return nil, err
		}
		if !out.Contains(t) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty scope")
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Inspection is the metadata gathered by Inspect.
type Inspection struct {
	// InvalidRows lists, ascending, the indices of rows whose length differs
	// from the header length.
	InvalidRows []int `json:"invalid_rows"`
	// Types holds, per column, the tag histogram of its cells. Every header
	// column is present, possibly with an empty histogram.
	Types map[string]TagCounts `json:"types"`
	// Uniques holds per column and tag the number of distinct values seen,
	// restricted to Scope. Columns without any qualifying value are absent.
	Uniques map[string]TagCounts `json:"uniques"`
	// Duplicates holds the number of repeat occurrences, keyed like Uniques.
	Duplicates map[string]TagCounts `json:"duplicates"`

	Header Header `json:"header"`
	Scope  Scope  `json:"scope"`
	Rows   int    `json:"rows"`
}

// Header is re-exported so reports don't need to import dataset.
type Header = dataset.Header

// UniqueTotals flattens Uniques to one count per column.
func (in *Inspection) UniqueTotals() map[string]int { return totals(in.Uniques) }

// DuplicateTotals flattens Duplicates to one count per column.
func (in *Inspection) DuplicateTotals() map[string]int { return totals(in.Duplicates) }

func totals(m map[string]TagCounts) map[string]int {
	out := make(map[string]int, len(m))
	for col, tc := range m {
		out[col] = tc.Total()
	}
	return out
}

type inspectConfig struct {
	hashLookup bool
}

// InspectOption tunes Inspect.
type InspectOption func(*inspectConfig)

// WithHashLookup tracks seen values in hash sets instead of scanning lists.
// Results are identical; large datasets finish much faster.
func WithHashLookup() InspectOption {
	return func(c *inspectConfig) { c.hashLookup = true }
}

// Inspect scans ds against header and reports malformed rows, per-column type
// histograms and the unique/duplicate value counts for the tags in scope.
// Neither ds nor header is modified. An empty scope means DefaultScope.
func Inspect(ds dataset.Dataset, header dataset.Header, scope Scope, opts ...InspectOption) *Inspection {
	var cfg inspectConfig
	for _, o := range opts {
		o(&cfg)
	}
	if len(scope) == 0 {
		scope = DefaultScope()
	}

	in := &Inspection{
		InvalidRows: []int{},
		Types:       make(map[string]TagCounts, len(header)),
		Uniques:     make(map[string]TagCounts),
		Duplicates:  make(map[string]TagCounts),
		Header:      header.Clone(),
		Scope:       slices.Clone(scope),
		Rows:        len(ds),
	}
	for _, col := range header {
		in.Types[col] = TagCounts{}
	}

	invalid := make(map[int]bool)
	for i, row := range ds {
		if len(row) != len(header) {
			in.InvalidRows = append(in.InvalidRows, i)
			invalid[i] = true
		}
	}

	type bucketKey struct {
		col string
		tag Tag
	}
	buckets := make(map[bucketKey]*seenSet)
	var order []bucketKey

	for i, row := range ds {
		if invalid[i] {
			continue
		}
		for j, cell := range row {
			col := header[j]
			tag := Classify(cell)
			in.Types[col][tag]++
			if !scope.Contains(tag) {
				continue
			}
			k := bucketKey{col, tag}
			b := buckets[k]
			if b == nil {
				b = newSeenSet(cfg.hashLookup)
				buckets[k] = b
				order = append(order, k)
			}
			b.add(cell)
		}
	}

	for _, k := range order {
		b := buckets[k]
		if b.unique == 0 {
			continue
		}
		if in.Uniques[k.col] == nil {
			in.Uniques[k.col] = TagCounts{}
			in.Duplicates[k.col] = TagCounts{}
		}
		in.Uniques[k.col][k.tag] = b.unique
		in.Duplicates[k.col][k.tag] = b.dups
	}
	return in
}

// seenSet records values in first-seen order and counts repeats. The default
// representation is a list searched linearly with exact equality; the hash
// variant gives the same answers.
type seenSet struct {
	list   []dataset.Value
	set    map[dataset.Value]struct{}
	unique int
	dups   int
}

func newSeenSet(hashed bool) *seenSet {
	s := &seenSet{}
	if hashed {
		s.set = make(map[dataset.Value]struct{})
	}
	return s
}

func (s *seenSet) add(v dataset.Value) {
	if s.contains(v) {
		s.dups++
		return
	}
	s.unique++
	if s.set != nil {
		s.set[v] = struct{}{}
		return
	}
	s.list = append(s.list, v)
}

func (s *seenSet) contains(v dataset.Value) bool {
	if s.set != nil {
		_, ok := s.set[v]
		return ok
	}
	return slices.Contains(s.list, v)
}

// ColumnUniqueCounts classifies every cell of column col and returns the
// number of distinct values per tag. Rows too short to hold the column are
// skipped; tags with no values are absent.
func ColumnUniqueCounts(ds dataset.Dataset, header dataset.Header, col string) (TagCounts, error) {
	idx := header.Index(col)
	if idx < 0 {
		return nil, fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	seen := make(map[Tag]*seenSet)
	for _, v := range ds.Column(idx) {
		tag := Classify(v)
		if seen[tag] == nil {
			seen[tag] = newSeenSet(false)
		}
		seen[tag].add(v)
	}
	out := TagCounts{}
	for tag, s := range seen {
		out[tag] = s.unique
	}
	return out, nil
}

// ColumnUniqueValues returns the distinct values of column col that classify
// as tag, in first-seen order or ascending when sorted is set. A column with
// no such values yields ErrNotApplicable.
func ColumnUniqueValues(ds dataset.Dataset, header dataset.Header, col string, tag Tag, sorted bool) ([]dataset.Value, error) {
	idx := header.Index(col)
	if idx < 0 {
		return nil, fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	var vals []dataset.Value
	for _, v := range ds.Column(idx) {
		if Classify(v) == tag {
			vals = append(vals, v)
		}
	}
	return Unique(vals, sorted)
}
