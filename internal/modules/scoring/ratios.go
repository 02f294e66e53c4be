// Package scoring derives the financial ratios of each company and turns them
// into a weighted growth score.
package scoring

import "github.com/aristath/growthmap/internal/domain"

// Ratios computes the three derived ratios of one record.
// Records that passed load-time filtering have positive denominators.
func Ratios(r domain.CompanyRecord) domain.DerivedRatios {
	return domain.DerivedRatios{
		ProfitMargin:   r.Profits / r.Sales,
		AssetLeverage:  r.Assets / r.MarketValue,
		Undervaluation: (r.Profits + r.Sales) / r.MarketValue,
	}
}

// DeriveRatios maps every record to a RatioRow; the input is not modified
func DeriveRatios(records []domain.CompanyRecord) []domain.RatioRow {
	rows := make([]domain.RatioRow, len(records))
	for i, r := range records {
		rows[i] = domain.RatioRow{Record: r, Ratios: Ratios(r)}
	}
	return rows
}
