package parser_test

import (
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
	"github.com/KaramelBytes/tabscan-cli/internal/parser"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func strs(ds dataset.Dataset) [][]string {
	out := make([][]string, len(ds))
	for i, r := range ds {
		out[i] = r.Strings()
	}
	return out
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "abc.csv", []byte("a,b,c\na1,b1,c1\na2,c2\na3,b3,c3\n"))
	ds, header, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"a", "b", "c"}, header)
	require.Equal(t, [][]string{{"a1", "b1", "c1"}, {"a2", "c2"}, {"a3", "b3", "c3"}}, strs(ds))
	for _, r := range ds {
		for _, v := range r {
			require.True(t, v.IsText())
		}
	}
}

func TestLoadTSVAndCustomDelimiter(t *testing.T) {
	p := writeFile(t, "x.tsv", []byte("k\tv\n1\tone\n"))
	ds, header, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"k", "v"}, header)
	require.Equal(t, [][]string{{"1", "one"}}, strs(ds))

	p = writeFile(t, "semi.csv", []byte("k;v\n1;one\n"))
	ds, _, err = parser.LoadFile(p, parser.Options{Delimiter: ';'})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1", "one"}}, strs(ds))
}

func TestLoadCSVEncoding(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("name,city\nRené,Besançon\n")
	require.NoError(t, err)
	p := writeFile(t, "latin.csv", []byte(latin))

	ds, _, err := parser.LoadFile(p, parser.Options{Encoding: "latin1"})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"René", "Besançon"}}, strs(ds))

	_, _, err = parser.LoadFile(p, parser.Options{Encoding: "klingon-8"})
	require.ErrorIs(t, err, parser.ErrUnknownEncoding)
}

func TestLoadCSVStripsBOM(t *testing.T) {
	p := writeFile(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,v\n1,x\n")...))
	_, header, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"id", "v"}, header)
}

func TestLoadEmptyCSV(t *testing.T) {
	p := writeFile(t, "empty.csv", nil)
	ds, header, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Empty(t, header)
	require.Empty(t, ds)
}

func TestLoadCSVKeepsBlankLines(t *testing.T) {
	ds, header, err := parser.ReadCSV(strings.NewReader("a,b\nx,y\n\nz,w\n\n"), parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"a", "b"}, header)
	require.Equal(t, [][]string{{"x", "y"}, {}, {"z", "w"}, {}}, strs(ds))

	// a quoted newline spans two physical lines without adding a row
	ds, _, err = parser.ReadCSV(strings.NewReader("a,b\r\n\"x\ny\",1\r\n\r\n2,3"), parser.Options{})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"x\ny", "1"}, {}, {"2", "3"}}, strs(ds))

	ds, header, err = parser.ReadCSV(strings.NewReader("\na,b\n"), parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{}, header)
	require.Equal(t, [][]string{{"a", "b"}}, strs(ds))
}

func TestLoadFileErrors(t *testing.T) {
	_, _, err := parser.LoadFile(filepath.Join(t.TempDir(), "nope.csv"), parser.Options{})
	require.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	p := writeFile(t, "notes.txt", []byte("hello"))
	_, _, err = parser.LoadFile(p, parser.Options{})
	require.ErrorIs(t, err, parser.ErrUnsupported)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"a", "b", "c"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"a1", "b1", "c1"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"a2"}))
	_, err := f.NewSheet("Prices")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Prices", "A1", &[]any{"item", "price"}))
	require.NoError(t, f.SetSheetRow("Prices", "A2", &[]any{"hops", "$14.34"}))
	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	ds, header, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"a", "b", "c"}, header)
	require.Equal(t, [][]string{{"a1", "b1", "c1"}, {"a2", "", ""}}, strs(ds))

	ds, header, err = parser.LoadFile(p, parser.Options{Sheet: "prices"})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"item", "price"}, header)
	require.Equal(t, [][]string{{"hops", "$14.34"}}, strs(ds))

	_, header, err = parser.LoadFile(p, parser.Options{SheetIndex: 2})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"item", "price"}, header)

	_, _, err = parser.LoadFile(p, parser.Options{SheetIndex: 3})
	require.Error(t, err)
	_, _, err = parser.LoadFile(p, parser.Options{Sheet: "missing"})
	require.Error(t, err)
}

func TestLoadSQLite(t *testing.T) {
	p := filepath.Join(t.TempDir(), "hops.db")
	db, err := sql.Open("sqlite", p)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE harvest (plot TEXT, kg INTEGER, alpha REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO harvest VALUES ('A1', 12, 11.5, NULL), ('B3', 7, 10.25, 'late')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ds, header, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"plot", "kg", "alpha", "note"}, header)
	require.Len(t, ds, 2)
	require.Equal(t, dataset.Int(12), ds[0][1])
	require.Equal(t, dataset.Float(11.5), ds[0][2])
	require.Equal(t, dataset.Text(""), ds[0][3])
	require.Equal(t, dataset.Text("late"), ds[1][3])

	db, err = sql.Open("sqlite", p)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (x TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = parser.LoadFile(p, parser.Options{})
	require.Error(t, err, "ambiguous table choice should fail")
	_, header, err = parser.LoadFile(p, parser.Options{Table: "other"})
	require.NoError(t, err)
	require.Equal(t, dataset.Header{"x"}, header)
}
