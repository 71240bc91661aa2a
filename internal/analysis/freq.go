package analysis

import (
	"fmt"
	"slices"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// FreqOptions controls the ordering of a frequency table.
type FreqOptions struct {
	// ByCount orders by occurrence count instead of by value.
	ByCount bool
	// Reverse flips the order to descending.
	Reverse bool
}

// FreqEntry is one row of a frequency table.
type FreqEntry struct {
	Value   dataset.Value
	Count   int
	Percent float64
}

// FreqTable counts each distinct value of column col. Percentages are relative
// to the number of rows in ds. Ties keep first-seen order.
func FreqTable(ds dataset.Dataset, header dataset.Header, col string, opt FreqOptions) ([]FreqEntry, error) {
	idx := header.Index(col)
	if idx < 0 {
		return nil, fmt.Errorf("column %q: %w", col, ErrUnknownColumn)
	}
	pos := map[dataset.Value]int{}
	var out []FreqEntry
	for _, v := range ds.Column(idx) {
		if i, ok := pos[v]; ok {
			out[i].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, FreqEntry{Value: v, Count: 1})
	}
	for i := range out {
		out[i].Percent = float64(out[i].Count) / float64(len(ds)) * 100
	}

	cmpFn := func(a, b FreqEntry) int { return dataset.Compare(a.Value, b.Value) }
	if opt.ByCount {
		cmpFn = func(a, b FreqEntry) int { return a.Count - b.Count }
	}
	if opt.Reverse {
		asc := cmpFn
		cmpFn = func(a, b FreqEntry) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmpFn)
	return out, nil
}
