package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Load reads one sheet. The first row is the header; shorter rows are padded
// with empty cells up to the header width because workbooks drop trailing
// blanks. Rows wider than the header are kept as-is.
func (xlsxLoader) Load(path string, opt Options) (dataset.Dataset, dataset.Header, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := pickSheet(f.GetSheetList(), opt)
	if err != nil {
		return nil, nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataset.Dataset{}, dataset.Header{}, nil
	}
	header := dataset.Header(rows[0])
	ds := make(dataset.Dataset, 0, len(rows)-1)
	for _, r := range rows[1:] {
		for len(r) < len(header) {
			r = append(r, "")
		}
		ds = append(ds, dataset.Texts(r...))
	}
	return ds, header, nil
}

func pickSheet(sheets []string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found (have %s)", opt.Sheet, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx == 0 {
		idx = 1
	}
	if idx < 1 || idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range 1..%d", idx, len(sheets))
	}
	return sheets[idx-1], nil
}
