package parser

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/tabscan-cli/internal/dataset"
)

type sqliteLoader struct{}

func (sqliteLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Load reads every row of one table. Integer columns become Int values, real
// columns Float, everything else Text; NULL reads as an empty string.
func (sqliteLoader) Load(path string, opt Options) (dataset.Dataset, dataset.Header, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return nil, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	table := opt.Table
	if table == "" {
		if table, err = onlyTable(db); err != nil {
			return nil, nil, err
		}
	}
	rows, err := db.Query(`SELECT * FROM "` + strings.ReplaceAll(table, `"`, `""`) + `"`)
	if err != nil {
		return nil, nil, fmt.Errorf("query table %q: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}
	ds := dataset.Dataset{}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(dataset.Row, len(cols))
		for i, v := range raw {
			row[i] = sqlValue(v)
		}
		ds = append(ds, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ds, dataset.Header(cols), nil
}

func onlyTable(db *sql.DB) (string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return "", fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("database has no tables")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("database has %d tables (%s); pick one with --table", len(names), strings.Join(names, ", "))
	}
}

func sqlValue(v any) dataset.Value {
	switch x := v.(type) {
	case nil:
		return dataset.Text("")
	case int64:
		return dataset.Int(x)
	case float64:
		return dataset.Float(x)
	case []byte:
		return dataset.Text(string(x))
	case string:
		return dataset.Text(x)
	default:
		return dataset.Text(fmt.Sprint(x))
	}
}
