package analysis

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/google/go-cmp/cmp"
)

var valueEq = cmp.Comparer(func(a, b dataset.Value) bool { return a == b })

func ints(xs ...int64) []dataset.Value {
	out := make([]dataset.Value, len(xs))
	for i, x := range xs {
		out[i] = dataset.Int(x)
	}
	return out
}

func TestUniqueScalars(t *testing.T) {
	got, err := Unique(ints(1, 3, 2, 1), false)
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if diff := cmp.Diff(ints(1, 3, 2), got, valueEq); diff != "" {
		t.Fatalf("unsorted (-want +got):\n%s", diff)
	}

	got, err = Unique(ints(1, 3, 2, 1), true)
	if err != nil {
		t.Fatalf("Unique sorted: %v", err)
	}
	if diff := cmp.Diff(ints(1, 2, 3), got, valueEq); diff != "" {
		t.Fatalf("sorted (-want +got):\n%s", diff)
	}

	letters := dataset.Texts("a", "t", "z", "k", "v", "z", "t")
	got, err = Unique(letters, false)
	if err != nil {
		t.Fatalf("Unique letters: %v", err)
	}
	if diff := cmp.Diff([]dataset.Value(dataset.Texts("a", "t", "z", "k", "v")), got, valueEq); diff != "" {
		t.Fatalf("letters (-want +got):\n%s", diff)
	}
}

func TestUniqueNotApplicable(t *testing.T) {
	cases := map[string][]dataset.Value{
		"empty":         nil,
		"heterogeneous": {dataset.Text("d"), dataset.Int(4)},
		"int and float": {dataset.Int(1), dataset.Float(1)},
	}
	for name, in := range cases {
		if _, err := Unique(in, false); !errors.Is(err, ErrNotApplicable) {
			t.Errorf("%s: err = %v, want ErrNotApplicable", name, err)
		}
	}
}

func TestUniqueTuples(t *testing.T) {
	single := [][]dataset.Value{
		dataset.Texts("a1"), dataset.Texts("b1"), dataset.Texts("a1"),
	}
	got, err := UniqueTuples(single, false, "")
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if diff := cmp.Diff([]dataset.Value(dataset.Texts("a1", "b1")), got, valueEq); diff != "" {
		t.Fatalf("single (-want +got):\n%s", diff)
	}

	nums := [][]dataset.Value{ints(1), ints(2), ints(3), ints(1)}
	got, err = UniqueTuples(nums, false, "")
	if err != nil {
		t.Fatalf("nums: %v", err)
	}
	if diff := cmp.Diff(ints(1, 2, 3), got, valueEq); diff != "" {
		t.Fatalf("nums (-want +got):\n%s", diff)
	}

	wide := [][]dataset.Value{
		dataset.Texts("a1", "b1", "c1"),
		dataset.Texts("a2", "b2", "c2"),
		dataset.Texts("a3", "b3", "c3"),
		dataset.Texts("a2", "b2", "c2"),
	}
	got, err = UniqueTuples(wide, true, "")
	if err != nil {
		t.Fatalf("wide: %v", err)
	}
	if diff := cmp.Diff([]dataset.Value(dataset.Texts("a1|b1|c1", "a2|b2|c2", "a3|b3|c3")), got, valueEq); diff != "" {
		t.Fatalf("wide (-want +got):\n%s", diff)
	}

	numeric := [][]dataset.Value{ints(11, 12, 13), ints(34, 0, 85), ints(11, 12, 13)}
	got, err = UniqueTuples(numeric, false, ",")
	if err != nil {
		t.Fatalf("numeric: %v", err)
	}
	if diff := cmp.Diff([]dataset.Value(dataset.Texts("11,12,13", "34,0,85")), got, valueEq); diff != "" {
		t.Fatalf("numeric (-want +got):\n%s", diff)
	}
}

func TestUniqueTuplesNotApplicable(t *testing.T) {
	cases := map[string][][]dataset.Value{
		"empty":          nil,
		"empty tuple":    {dataset.Texts("a1"), dataset.Texts("b1"), {}, dataset.Texts("a2")},
		"ragged":         {dataset.Texts("a1", "b1", "c1"), dataset.Texts("a2", "c2")},
		"mixed in tuple": {dataset.Texts("a1", "b1", "c1"), {dataset.Text("a2"), dataset.Int(0), dataset.Text("c2")}},
		"leading empty":  {{}, {}},
	}
	for name, in := range cases {
		if _, err := UniqueTuples(in, false, ""); !errors.Is(err, ErrNotApplicable) {
			t.Errorf("%s: err = %v, want ErrNotApplicable", name, err)
		}
	}
}

func TestFreqTable(t *testing.T) {
	header := dataset.Header{"a", "b", "c"}
	ds := dataset.Dataset{
		dataset.Texts("a1", "b1", "c1"),
		dataset.Texts("a2", "b2", "c2"),
		dataset.Texts("a3", "b3", "c3"),
		dataset.Texts("a3", "b3", "c3"),
	}
	type row struct {
		V string
		C int
		P float64
	}
	flat := func(es []FreqEntry) []row {
		out := make([]row, len(es))
		for i, e := range es {
			out[i] = row{e.Value.String(), e.Count, e.Percent}
		}
		return out
	}

	got, err := FreqTable(ds, header, "b", FreqOptions{})
	if err != nil {
		t.Fatalf("FreqTable: %v", err)
	}
	if diff := cmp.Diff([]row{{"b1", 1, 25}, {"b2", 1, 25}, {"b3", 2, 50}}, flat(got)); diff != "" {
		t.Fatalf("by value (-want +got):\n%s", diff)
	}

	got, _ = FreqTable(ds, header, "b", FreqOptions{ByCount: true, Reverse: true})
	if diff := cmp.Diff([]row{{"b3", 2, 50}, {"b1", 1, 25}, {"b2", 1, 25}}, flat(got)); diff != "" {
		t.Fatalf("by count desc (-want +got):\n%s", diff)
	}

	got, _ = FreqTable(ds, header, "b", FreqOptions{Reverse: true})
	if diff := cmp.Diff([]row{{"b3", 2, 50}, {"b2", 1, 25}, {"b1", 1, 25}}, flat(got)); diff != "" {
		t.Fatalf("by value desc (-want +got):\n%s", diff)
	}

	if _, err := FreqTable(ds, header, "Z", FreqOptions{}); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}
