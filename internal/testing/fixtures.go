// Package testing provides fixtures and helpers for the explorer tests.
package testing

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aristath/growthmap/internal/domain"
)

// CSVHeader is the header row of a well-formed company dataset
const CSVHeader = "Company,Country,Continent,Sales ($billion),Profits ($billion),Market Value ($billion),Assets ($billion),Latitude,Longitude"

// NewCompanyFixtures returns three companies on two continents.
// With the default weights C scores highest and Asia averages 0.2 on profit margin alone.
func NewCompanyFixtures() []domain.CompanyRecord {
	return []domain.CompanyRecord{
		{Company: "A", Country: "Japan", Continent: "Asia", Sales: 10, Profits: 2, MarketValue: 20, Assets: 15, Latitude: 35.6, Longitude: 139.7},
		{Company: "B", Country: "China", Continent: "Asia", Sales: 5, Profits: 1, MarketValue: 10, Assets: 8, Latitude: 39.9, Longitude: 116.4},
		{Company: "C", Country: "Germany", Continent: "Europe", Sales: 80, Profits: 6.5, MarketValue: 45, Assets: 120, Latitude: 52.5, Longitude: 13.4},
	}
}

// CompaniesCSV renders records as dataset CSV, followed by any raw extra rows
func CompaniesCSV(records []domain.CompanyRecord, extraRows ...string) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(strings.Join([]string{
			r.Company, r.Country, r.Continent,
			formatFloat(r.Sales), formatFloat(r.Profits), formatFloat(r.MarketValue), formatFloat(r.Assets),
			formatFloat(r.Latitude), formatFloat(r.Longitude),
		}, ","))
		b.WriteByte('\n')
	}
	for _, row := range extraRows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCompaniesCSV writes records to companies.csv in a fresh temp dir and returns its path
func WriteCompaniesCSV(t *testing.T, records []domain.CompanyRecord, extraRows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	RewriteFile(t, path, CompaniesCSV(records, extraRows...))
	return path
}

// RewriteFile replaces the content of path, failing the test on error
func RewriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
