// Package dataset loads the fixed-schema company table from CSV, XLSX, SQLite
// or S3 and applies the load-time filters.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/aristath/growthmap/internal/domain"
)

// Required column names of the input table
const (
	ColCompany     = "Company"
	ColCountry     = "Country"
	ColContinent   = "Continent"
	ColSales       = "Sales ($billion)"
	ColProfits     = "Profits ($billion)"
	ColMarketValue = "Market Value ($billion)"
	ColAssets      = "Assets ($billion)"
	ColLatitude    = "Latitude"
	ColLongitude   = "Longitude"
)

// RequiredColumns lists every column the loader needs, in canonical order
var RequiredColumns = []string{
	ColCompany, ColCountry, ColContinent,
	ColSales, ColProfits, ColMarketValue, ColAssets,
	ColLatitude, ColLongitude,
}

var textColumns = map[string]bool{ColCompany: true, ColCountry: true, ColContinent: true}

// naValues are cell contents treated as missing
var naValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// Row is one untyped record as read from a source. A nil field is missing.
type Row struct {
	Company     *string
	Country     *string
	Continent   *string
	Sales       *float64
	Profits     *float64
	MarketValue *float64
	Assets      *float64
	Latitude    *float64
	Longitude   *float64

	// Incomplete is set when any cell of the source row is empty
	Incomplete bool
}

// Table is the raw content of a source before filtering
type Table struct {
	Source string
	Rows   []Row
}

// missingColumns returns the required columns absent from header
func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

func requireColumns(source string, header []string) error {
	if missing := missingColumns(header); len(missing) > 0 {
		return &domain.DataSourceError{
			Source: source,
			Reason: "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return nil
}

func isNA(s string) bool {
	s = strings.TrimSpace(s)
	for _, na := range naValues {
		if s == na {
			return true
		}
	}
	return false
}

// parseText returns nil for missing cells
func parseText(s string) *string {
	if isNA(s) {
		return nil
	}
	v := strings.TrimSpace(s)
	return &v
}

// parseNumber returns nil for missing, unparseable or non-finite cells
func parseNumber(s string) *float64 {
	if isNA(s) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return finite(v)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// rowFromCells builds a Row from string cells keyed by column name
func rowFromCells(cell func(col string) string) Row {
	return Row{
		Company:     parseText(cell(ColCompany)),
		Country:     parseText(cell(ColCountry)),
		Continent:   parseText(cell(ColContinent)),
		Sales:       parseNumber(cell(ColSales)),
		Profits:     parseNumber(cell(ColProfits)),
		MarketValue: parseNumber(cell(ColMarketValue)),
		Assets:      parseNumber(cell(ColAssets)),
		Latitude:    parseNumber(cell(ColLatitude)),
		Longitude:   parseNumber(cell(ColLongitude)),
	}
}

// tableFromRecords builds a Table from a header row and string records
func tableFromRecords(source string, header []string, records [][]string) (*Table, error) {
	if err := requireColumns(source, header); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	table := &Table{Source: source, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		row := rowFromCells(func(col string) string {
			i := index[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		})
		row.Incomplete = anyMissing(header, rec)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// anyMissing reports whether a cell is empty under any header column.
// Short records are missing their trailing cells.
func anyMissing(header []string, rec []string) bool {
	for i := range header {
		if i >= len(rec) || isNA(rec[i]) {
			return true
		}
	}
	return false
}
