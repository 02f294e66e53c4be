package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aristath/growthmap/internal/database"
	"github.com/aristath/growthmap/internal/domain"
)

// DefaultTable is the table read from SQLite datasets when none is configured
const DefaultTable = "companies"

// SQLiteSource reads a table of a SQLite database opened read-only
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource creates a SQLite source
func NewSQLiteSource(path, table string) *SQLiteSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLiteSource{path: path, table: table}
}

// Name returns the database path and table
func (s *SQLiteSource) Name() string {
	return fmt.Sprintf("%s[%s]", s.path, s.table)
}

// Read selects every row of the table
func (s *SQLiteSource) Read(ctx context.Context) (*Table, error) {
	db, err := database.New(database.Config{
		Path:    s.path,
		Profile: database.ProfileReadOnly,
		Name:    "dataset",
	})
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Reason: "open database", Err: err}
	}
	defer db.Close()

	cols, err := db.TableColumns(ctx, s.table)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Reason: "inspect table", Err: err}
	}
	if err := requireColumns(s.Name(), cols); err != nil {
		return nil, err
	}

	// Every column is selected so that a NULL anywhere drops the row
	query := fmt.Sprintf("SELECT * FROM %s", database.QuoteIdent(s.table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Reason: "query", Err: err}
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Reason: "read columns", Err: err}
	}

	table := &Table{Source: s.Name()}
	values := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &domain.DataSourceError{Source: s.Name(), Reason: "scan row", Err: err}
		}
		byName := make(map[string]interface{}, len(values))
		incomplete := false
		for i, c := range names {
			if isNA(cellString(values[i])) {
				incomplete = true
			}
			if _, seen := byName[strings.TrimSpace(c)]; !seen {
				byName[strings.TrimSpace(c)] = values[i]
			}
		}
		row := rowFromCells(func(col string) string {
			return cellString(byName[col])
		})
		row.Incomplete = incomplete
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Reason: "iterate rows", Err: err}
	}

	return table, nil
}

// cellString renders a scanned SQLite value as text; NULL becomes ""
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
