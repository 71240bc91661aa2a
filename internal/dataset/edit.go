package dataset

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownColumn indicates a column name that is not part of the header.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrColumnExists indicates an attempt to add a column that already exists.
	ErrColumnExists = errors.New("column already exists")
	// ErrInvalidColumnName indicates an empty column name.
	ErrInvalidColumnName = errors.New("invalid column name")
	// ErrLengthMismatch indicates column data whose length differs from the row count.
	ErrLengthMismatch = errors.New("column data length does not match row count")
	// ErrInvalidRange indicates a row range outside the dataset.
	ErrInvalidRange = errors.New("invalid row range")
	// ErrNoColumns indicates an empty list of column names.
	ErrNoColumns = errors.New("no columns given")
)

// TransformFunc computes the replacement for a cell. It receives the current
// cell, the whole row and the header so other columns can be consulted.
type TransformFunc func(v Value, row Row, header Header) Value

// Predicate decides whether a row is retained by ExtractRows.
type Predicate func(row Row, header Header) bool

// AddColumn appends a column named name filled with data, one value per row.
// The inputs are left untouched; the returned dataset and header are copies.
func AddColumn(ds Dataset, h Header, name string, data []Value) (Dataset, Header, error) {
	if name == "" {
		return nil, nil, ErrInvalidColumnName
	}
	if h.Has(name) {
		return nil, nil, fmt.Errorf("add %q: %w", name, ErrColumnExists)
	}
	if len(data) != len(ds) {
		return nil, nil, fmt.Errorf("add %q: %w (%d values, %d rows)", name, ErrLengthMismatch, len(data), len(ds))
	}
	out := ds.Clone()
	for i := range out {
		out[i] = append(out[i], data[i])
	}
	nh := append(h.Clone(), name)
	return out, nh, nil
}

// RemoveColumn drops a single column.
func RemoveColumn(ds Dataset, h Header, name string) (Dataset, Header, error) {
	return RemoveColumns(ds, h, []string{name})
}

// RemoveColumns drops every named column. All names must exist in the header.
func RemoveColumns(ds Dataset, h Header, names []string) (Dataset, Header, error) {
	if len(names) == 0 || len(h) == 0 {
		return nil, nil, ErrNoColumns
	}
	idxs := make([]int, 0, len(names))
	for _, n := range names {
		idx := h.Index(n)
		if idx < 0 {
			return nil, nil, fmt.Errorf("remove %q: %w", n, ErrUnknownColumn)
		}
		if !slices.Contains(idxs, idx) {
			idxs = append(idxs, idx)
		}
	}
	// highest index first so earlier positions stay valid while deleting
	slices.Sort(idxs)
	slices.Reverse(idxs)

	out := ds.Clone()
	for i, row := range out {
		for _, idx := range idxs {
			if idx < len(row) {
				row = slices.Delete(row, idx, idx+1)
			}
		}
		out[i] = row
	}
	nh := h.Clone()
	for _, idx := range idxs {
		nh = slices.Delete(nh, idx, idx+1)
	}
	return out, nh, nil
}

// ModifyColumn replaces the contents of column name with data.
func ModifyColumn(ds Dataset, h Header, name string, data []Value) (Dataset, Header, error) {
	if name == "" {
		return nil, nil, ErrInvalidColumnName
	}
	idx := h.Index(name)
	if idx < 0 {
		return nil, nil, fmt.Errorf("modify %q: %w", name, ErrUnknownColumn)
	}
	if len(data) != len(ds) {
		return nil, nil, fmt.Errorf("modify %q: %w (%d values, %d rows)", name, ErrLengthMismatch, len(data), len(ds))
	}
	out := ds.Clone()
	for i, row := range out {
		if idx < len(row) {
			row[idx] = data[i]
		}
	}
	return out, h.Clone(), nil
}

// TransformColumn replaces every cell of column name with fn's result.
func TransformColumn(ds Dataset, h Header, name string, fn TransformFunc) (Dataset, Header, error) {
	if name == "" {
		return nil, nil, ErrInvalidColumnName
	}
	if fn == nil {
		return nil, nil, errors.New("transform: nil function")
	}
	idx := h.Index(name)
	if idx < 0 {
		return nil, nil, fmt.Errorf("transform %q: %w", name, ErrUnknownColumn)
	}
	out := ds.Clone()
	nh := h.Clone()
	for _, row := range out {
		if idx < len(row) {
			row[idx] = fn(row[idx], row, nh)
		}
	}
	return out, nh, nil
}

// ExtractRowRange returns copies of rows lo through hi inclusive.
func ExtractRowRange(ds Dataset, lo, hi int) (Dataset, error) {
	if lo < 0 || lo > hi || hi > len(ds)-1 {
		return nil, fmt.Errorf("rows %d..%d of %d: %w", lo, hi, len(ds), ErrInvalidRange)
	}
	return ds[lo : hi+1].Clone(), nil
}

// ExtractRows returns copies of the rows accepted by pred (every row when
// pred is nil). When cols is non-nil only those columns are kept, in header
// order.
func ExtractRows(ds Dataset, h Header, pred Predicate, cols []string) (Dataset, Header, error) {
	var subset Dataset
	if pred == nil {
		subset = ds.Clone()
	} else {
		subset = Dataset{}
		for _, row := range ds {
			if pred(row, h) {
				subset = append(subset, row.Clone())
			}
		}
	}
	if cols == nil {
		return subset, h.Clone(), nil
	}
	if len(cols) == 0 || len(h) == 0 {
		return nil, nil, ErrNoColumns
	}
	for _, c := range cols {
		if !h.Has(c) {
			return nil, nil, fmt.Errorf("select %q: %w", c, ErrUnknownColumn)
		}
	}
	var drop []string
	for _, name := range h {
		if !slices.Contains(cols, name) {
			drop = append(drop, name)
		}
	}
	if len(drop) == 0 {
		return subset, h.Clone(), nil
	}
	return RemoveColumns(subset, h, drop)
}
