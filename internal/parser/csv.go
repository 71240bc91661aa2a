package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

// ErrUnknownEncoding is returned when Options.Encoding names no known charset.
var ErrUnknownEncoding = errors.New("unknown text encoding")

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string, opt Options) (dataset.Dataset, dataset.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.HasSuffix(strings.ToLower(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	return ReadCSV(f, opt)
}

// ReadCSV decodes r with opt.Encoding and reads delimited records. The first
// record becomes the header; every cell is Text. Records may vary in length.
// Blank lines are kept as empty rows so row numbers match physical lines.
func ReadCSV(r io.Reader, opt Options) (dataset.Dataset, dataset.Header, error) {
	dec, err := decoder(opt.Encoding)
	if err != nil {
		return nil, nil, err
	}
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	var (
		header    dataset.Header
		hasHeader bool
		ds        dataset.Dataset
	)
	emit := func(rec []string) {
		if !hasHeader {
			header, hasHeader = dataset.Header(append([]string{}, rec...)), true
			return
		}
		ds = append(ds, dataset.Texts(rec...))
	}

	// next is the first physical line not yet consumed by a record
	next := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		start, _ := cr.FieldPos(0)
		for ; next < start; next++ {
			emit(nil)
		}
		emit(rec)
		last := len(rec) - 1
		end, _ := cr.FieldPos(last)
		next = end + strings.Count(rec[last], "\n") + 1
	}
	for lines := physicalLines(data); next <= lines; next++ {
		emit(nil)
	}
	if header == nil {
		header = dataset.Header{}
	}
	if ds == nil {
		ds = dataset.Dataset{}
	}
	return ds, header, nil
}

func physicalLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// decoder resolves an encoding label. A leading byte-order mark overrides the
// label so UTF-8 and UTF-16 exports with a BOM always decode correctly.
func decoder(name string) (transform.Transformer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownEncoding)
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}
