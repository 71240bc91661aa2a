package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/google/go-cmp/cmp"
)

func abcFixture() (dataset.Dataset, dataset.Header) {
	header := dataset.Header{"a", "b", "c"}
	ds := dataset.Dataset{
		dataset.Texts("a1", "b1", "c1"),
		dataset.Texts("a2", "c2"),
		dataset.Texts("a3", "b3", "c3"),
		dataset.Texts("a4", "bib", "3"),
		dataset.Texts("ay", "bib", "x"),
		dataset.Texts("ay", "bib", "x"),
	}
	return ds, header
}

func TestInspectTextScope(t *testing.T) {
	ds, header := abcFixture()
	got := Inspect(ds, header, DefaultScope())

	if diff := cmp.Diff([]int{1}, got.InvalidRows); diff != "" {
		t.Fatalf("invalid rows (-want +got):\n%s", diff)
	}
	wantTypes := map[string]TagCounts{
		"a": {PN: 3, T: 2},
		"b": {PN: 2, T: 3},
		"c": {PN: 2, N: 1, T: 2},
	}
	if diff := cmp.Diff(wantTypes, got.Types); diff != "" {
		t.Fatalf("types (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 1, "c": 1}, got.UniqueTotals()); diff != "" {
		t.Fatalf("uniques (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 2, "c": 1}, got.DuplicateTotals()); diff != "" {
		t.Fatalf("duplicates (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]TagCounts{"a": {T: 1}, "b": {T: 1}, "c": {T: 1}}, got.Uniques); diff != "" {
		t.Fatalf("nested uniques (-want +got):\n%s", diff)
	}
}

func TestInspectAllTags(t *testing.T) {
	ds, header := abcFixture()
	got := Inspect(ds, header, AllTags())

	wantUniques := map[string]TagCounts{
		"a": {PN: 3, T: 1},
		"b": {PN: 2, T: 1},
		"c": {PN: 2, N: 1, T: 1},
	}
	wantDups := map[string]TagCounts{
		"a": {PN: 0, T: 1},
		"b": {PN: 0, T: 2},
		"c": {PN: 0, N: 0, T: 1},
	}
	if diff := cmp.Diff(wantUniques, got.Uniques); diff != "" {
		t.Fatalf("uniques (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantDups, got.Duplicates); diff != "" {
		t.Fatalf("duplicates (-want +got):\n%s", diff)
	}
}

func TestInspectDropsColumnsWithoutScopedValues(t *testing.T) {
	header := dataset.Header{"id", "name"}
	ds := dataset.Dataset{
		{dataset.Int(1), dataset.Text("ann")},
		{dataset.Int(2), dataset.Text("bob")},
	}
	got := Inspect(ds, header, nil)
	if _, ok := got.Uniques["id"]; ok {
		t.Fatalf("numeric column should not appear in text-scoped uniques: %v", got.Uniques)
	}
	if _, ok := got.Duplicates["id"]; ok {
		t.Fatalf("numeric column should not appear in text-scoped duplicates: %v", got.Duplicates)
	}
	if got.Uniques["name"][T] != 2 || got.Duplicates["name"][T] != 0 {
		t.Fatalf("name counts = %v / %v", got.Uniques["name"], got.Duplicates["name"])
	}
}

func TestInspectExactEquality(t *testing.T) {
	header := dataset.Header{"v"}
	ds := dataset.Dataset{
		{dataset.Int(3)},
		{dataset.Text("3")},
		{dataset.Float(3)},
		{dataset.Int(3)},
	}
	got := Inspect(ds, header, AllTags())
	// Int(3) repeats once; Text "3" and Float 3 are distinct values.
	if got.Uniques["v"][N] != 3 || got.Duplicates["v"][N] != 1 {
		t.Fatalf("uniques=%v duplicates=%v", got.Uniques["v"], got.Duplicates["v"])
	}
}

func TestInspectEmptyHeader(t *testing.T) {
	ds, _ := abcFixture()
	got := Inspect(ds, nil, DefaultScope())
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5}, got.InvalidRows); diff != "" {
		t.Fatalf("invalid rows (-want +got):\n%s", diff)
	}
	if len(got.Types) != 0 || len(got.Uniques) != 0 || len(got.Duplicates) != 0 {
		t.Fatalf("expected empty mappings, got %v %v %v", got.Types, got.Uniques, got.Duplicates)
	}
}

func TestInspectUnpopulatedColumnKeepsEmptyHistogram(t *testing.T) {
	header := dataset.Header{"a", "b"}
	ds := dataset.Dataset{dataset.Texts("only-one")}
	got := Inspect(ds, header, nil)
	if diff := cmp.Diff(map[string]TagCounts{"a": {}, "b": {}}, got.Types); diff != "" {
		t.Fatalf("types (-want +got):\n%s", diff)
	}
}

func TestInspectIsIdempotentAndDoesNotMutate(t *testing.T) {
	ds, header := abcFixture()
	before := ds.Clone()
	first := Inspect(ds, header, AllTags())
	second := Inspect(ds, header, AllTags())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, ds, cmp.Comparer(func(a, b dataset.Value) bool { return a == b })); diff != "" {
		t.Fatalf("dataset mutated:\n%s", diff)
	}
}

func TestInspectHashLookupMatchesLinear(t *testing.T) {
	header := dataset.Header{"k", "v", "w"}
	var ds dataset.Dataset
	for i := 0; i < 300; i++ {
		row := dataset.Row{
			dataset.Text(fmt.Sprintf("key-%d", i%17)),
			dataset.Int(int64(i % 5)),
			dataset.Text(fmt.Sprintf("$%d.5", i%11)),
		}
		if i%41 == 0 {
			row = row[:2]
		}
		ds = append(ds, row)
	}
	linear := Inspect(ds, header, AllTags())
	hashed := Inspect(ds, header, AllTags(), WithHashLookup())
	if diff := cmp.Diff(linear, hashed); diff != "" {
		t.Fatalf("hash lookup differs (-linear +hashed):\n%s", diff)
	}
}

func TestInspectInvalidRowBounds(t *testing.T) {
	header := dataset.Header{"x", "y"}
	ds := dataset.Dataset{dataset.Texts("1"), dataset.Texts("1", "2"), dataset.Texts("1", "2", "3"), {}}
	got := Inspect(ds, header, nil)
	if len(got.InvalidRows) > len(ds) {
		t.Fatalf("too many invalid rows: %v", got.InvalidRows)
	}
	prev := -1
	for _, i := range got.InvalidRows {
		if i < 0 || i >= len(ds) || i <= prev {
			t.Fatalf("invalid row index %d out of order or range in %v", i, got.InvalidRows)
		}
		prev = i
	}
	if diff := cmp.Diff([]int{0, 2, 3}, got.InvalidRows); diff != "" {
		t.Fatalf("invalid rows (-want +got):\n%s", diff)
	}
}

func TestColumnUniqueCounts(t *testing.T) {
	ds, header := abcFixture()
	got, err := ColumnUniqueCounts(ds, header, "c")
	if err != nil {
		t.Fatalf("ColumnUniqueCounts: %v", err)
	}
	// row 1 is short and holds "c2" in position b, so column c sees c1,c3,3,x,x
	if diff := cmp.Diff(TagCounts{PN: 2, N: 1, T: 1}, got); diff != "" {
		t.Fatalf("counts (-want +got):\n%s", diff)
	}
	if _, err := ColumnUniqueCounts(ds, header, "zz"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestColumnUniqueValues(t *testing.T) {
	ds, header := abcFixture()
	got, err := ColumnUniqueValues(ds, header, "a", PN, true)
	if err != nil {
		t.Fatalf("ColumnUniqueValues: %v", err)
	}
	want := []dataset.Value{dataset.Text("a1"), dataset.Text("a2"), dataset.Text("a3"), dataset.Text("a4")}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b dataset.Value) bool { return a == b })); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	if _, err := ColumnUniqueValues(ds, header, "a", PD, false); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable for empty selection, got %v", err)
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("t, pn,T")
	if err != nil {
		t.Fatalf("ParseScope: %v", err)
	}
	if diff := cmp.Diff(Scope{PN, T}, s); diff != "" {
		t.Fatalf("scope (-want +got):\n%s", diff)
	}
	if s, _ := ParseScope(""); !s.IsTextOnly() {
		t.Fatalf("default scope = %v", s)
	}
	if s, _ := ParseScope("all"); len(s) != 4 {
		t.Fatalf("all scope = %v", s)
	}
	if _, err := ParseScope("Q"); err == nil {
		t.Fatalf("expected error")
	}
}
