package analysis

import (
	"errors"
	"slices"
	"strings"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// ErrNotApplicable is returned when the input to a unique-value extraction
// is empty or not homogeneous. No partial result is produced.
var ErrNotApplicable = errors.New("unique values not applicable to input")

// DefaultSeparator joins multi-element tuples in UniqueTuples.
const DefaultSeparator = "|"

// Unique returns the distinct values in first-occurrence order, or ascending
// when sorted is set. All values must share one kind.
func Unique(values []dataset.Value, sorted bool) ([]dataset.Value, error) {
	if len(values) == 0 || !sameKind(values) {
		return nil, ErrNotApplicable
	}
	out := make([]dataset.Value, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if sorted {
		slices.SortStableFunc(out, dataset.Compare)
	}
	return out, nil
}

// UniqueTuples deduplicates fixed-arity tuples. Every tuple must be non-empty,
// of the same length as the others and homogeneous in kind. Single-element
// tuples yield their contained values; wider tuples yield Text values made of
// the element strings joined with sep (DefaultSeparator when empty).
func UniqueTuples(tuples [][]dataset.Value, sorted bool, sep string) ([]dataset.Value, error) {
	if len(tuples) == 0 {
		return nil, ErrNotApplicable
	}
	arity := len(tuples[0])
	if arity == 0 {
		return nil, ErrNotApplicable
	}
	for _, tp := range tuples {
		if len(tp) != arity || !sameKind(tp) {
			return nil, ErrNotApplicable
		}
	}
	if sep == "" {
		sep = DefaultSeparator
	}

	var kept [][]dataset.Value
	for _, tp := range tuples {
		dup := slices.ContainsFunc(kept, func(k []dataset.Value) bool { return slices.Equal(k, tp) })
		if !dup {
			kept = append(kept, tp)
		}
	}

	out := make([]dataset.Value, len(kept))
	for i, tp := range kept {
		if arity == 1 {
			out[i] = tp[0]
			continue
		}
		parts := make([]string, arity)
		for j, v := range tp {
			parts[j] = v.String()
		}
		out[i] = dataset.Text(strings.Join(parts, sep))
	}
	if sorted {
		if arity == 1 && !sameKind(out) {
			return nil, ErrNotApplicable
		}
		slices.SortStableFunc(out, dataset.Compare)
	}
	return out, nil
}

func sameKind(values []dataset.Value) bool {
	if len(values) == 0 {
		return true
	}
	k := values[0].Kind()
	for _, v := range values[1:] {
		if v.Kind() != k {
			return false
		}
	}
	return true
}
