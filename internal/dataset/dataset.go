// Package dataset holds the in-memory table shape shared by loaders, the
// inspection engine and the column editors: an ordered list of rows with a
// separate column header.
package dataset

import "slices"

// Header is the ordered list of column names.
type Header []string

// Row is one record. Its length should match the header length.
type Row []Value

// Dataset is an ordered collection of rows.
type Dataset []Row

// Index returns the position of name in the header, or -1.
func (h Header) Index(name string) int {
	return slices.Index(h, name)
}

// Has reports whether name is a column of the header.
func (h Header) Has(name string) bool { return h.Index(name) >= 0 }

// Clone returns an independent copy of the header.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	return slices.Clone(h)
}

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return slices.Clone(r)
}

// Strings renders every cell with Value.String.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}

// Clone copies the container and each row.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	for i, r := range d {
		out[i] = r.Clone()
	}
	return out
}

// Column returns the cells of column idx; rows too short for idx are skipped.
func (d Dataset) Column(idx int) []Value {
	out := make([]Value, 0, len(d))
	for _, r := range d {
		if idx >= 0 && idx < len(r) {
			out = append(out, r[idx])
		}
	}
	return out
}
