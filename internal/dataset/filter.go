package dataset

import (
	"context"

	"github.com/aristath/growthmap/internal/domain"
)

// FilterStats counts the rows removed by each load-time filter
type FilterStats struct {
	Total       int `json:"total"`
	Missing     int `json:"dropped_missing"`
	NonPositive int `json:"dropped_non_positive"`
	Kept        int `json:"kept"`
}

// Filter drops rows with a missing value in any column, then rows whose sales, profits,
// market value or assets are not strictly positive. The input is not modified.
func Filter(t *Table) ([]domain.CompanyRecord, FilterStats) {
	stats := FilterStats{}
	if t == nil {
		return []domain.CompanyRecord{}, stats
	}

	stats.Total = len(t.Rows)
	records := make([]domain.CompanyRecord, 0, len(t.Rows))

	for _, row := range t.Rows {
		if !row.complete() {
			stats.Missing++
			continue
		}
		rec := row.record()
		if rec.Sales <= 0 || rec.Profits <= 0 || rec.MarketValue <= 0 || rec.Assets <= 0 {
			stats.NonPositive++
			continue
		}
		records = append(records, rec)
	}

	stats.Kept = len(records)
	return records, stats
}

func (r Row) complete() bool {
	return !r.Incomplete && r.Company != nil && r.Country != nil && r.Continent != nil &&
		r.Sales != nil && r.Profits != nil && r.MarketValue != nil && r.Assets != nil &&
		r.Latitude != nil && r.Longitude != nil
}

// record must only be called on complete rows
func (r Row) record() domain.CompanyRecord {
	return domain.CompanyRecord{
		Company:     *r.Company,
		Country:     *r.Country,
		Continent:   *r.Continent,
		Sales:       *r.Sales,
		Profits:     *r.Profits,
		MarketValue: *r.MarketValue,
		Assets:      *r.Assets,
		Latitude:    *r.Latitude,
		Longitude:   *r.Longitude,
	}
}

// LoadAndFilter reads the whole source and returns the surviving records.
// Any read failure is a *domain.DataSourceError; nothing is returned partially.
func LoadAndFilter(ctx context.Context, src Source) ([]domain.CompanyRecord, FilterStats, error) {
	table, err := src.Read(ctx)
	if err != nil {
		return nil, FilterStats{}, asDataSourceError(src.Name(), err)
	}
	records, stats := Filter(table)
	return records, stats, nil
}
