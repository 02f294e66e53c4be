package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aristath/growthmap/internal/database"
	"github.com/aristath/growthmap/internal/domain"
)

const companiesSchema = `CREATE TABLE %s (
	"Company" TEXT, "Country" TEXT, "Continent" TEXT,
	"Sales ($billion)" REAL, "Profits ($billion)" REAL,
	"Market Value ($billion)" REAL, "Assets ($billion)" REAL,
	"Latitude" REAL, "Longitude" REAL
)`

// NewCompaniesDB creates a SQLite file holding records in the given table and
// returns its path. The connection is closed before returning so the file can
// be opened by the code under test.
func NewCompaniesDB(t *testing.T, table string, records []domain.CompanyRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "companies.db")
	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileStandard,
		Name:    "fixture",
	})
	if err != nil {
		t.Fatalf("Failed to create fixture database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close fixture database: %v", err)
		}
	}()

	quoted := database.QuoteIdent(table)
	if _, err := db.Conn().Exec(fmt.Sprintf(companiesSchema, quoted)); err != nil {
		t.Fatalf("Failed to create table %s: %v", table, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoted)
	for _, r := range records {
		if _, err := db.Conn().Exec(insert,
			r.Company, r.Country, r.Continent,
			r.Sales, r.Profits, r.MarketValue, r.Assets,
			r.Latitude, r.Longitude,
		); err != nil {
			t.Fatalf("Failed to insert %s: %v", r.Company, err)
		}
	}

	return path
}
