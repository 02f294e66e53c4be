package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/growthmap/internal/domain"
)

// Normalize divides each weight by the sum of all three.
// Negative, non-finite or all-zero weights are rejected with *domain.InvalidWeightsError.
func Normalize(w domain.WeightVector) (domain.WeightVector, error) {
	values := w.Values()
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.WeightVector{}, &domain.InvalidWeightsError{Weights: w, Reason: "weights must be finite numbers"}
		}
		if v < 0 {
			return domain.WeightVector{}, &domain.InvalidWeightsError{Weights: w, Reason: "weights must not be negative"}
		}
	}

	total := floats.Sum(values)
	if total == 0 {
		return domain.WeightVector{}, &domain.InvalidWeightsError{Weights: w, Reason: "weights sum to zero"}
	}

	return domain.WeightVector{
		ProfitMargin:   w.ProfitMargin / total,
		AssetLeverage:  w.AssetLeverage / total,
		Undervaluation: w.Undervaluation / total,
	}, nil
}

// Score is the linear combination of ratios under normalized weights
func Score(r domain.DerivedRatios, normalized domain.WeightVector) float64 {
	return normalized.ProfitMargin*r.ProfitMargin +
		normalized.AssetLeverage*r.AssetLeverage +
		normalized.Undervaluation*r.Undervaluation
}

// ComputeScores normalizes the raw weights and scores every row.
// The output has one entry per input row, in input order.
func ComputeScores(rows []domain.RatioRow, weights domain.WeightVector) ([]domain.ScoredCompany, error) {
	normalized, err := Normalize(weights)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredCompany, len(rows))
	for i, row := range rows {
		scored[i] = domain.ScoredCompany{
			Company:     row.Record.Company,
			Country:     row.Record.Country,
			Continent:   row.Record.Continent,
			GrowthScore: Score(row.Ratios, normalized),
			Latitude:    row.Record.Latitude,
			Longitude:   row.Record.Longitude,
		}
	}
	return scored, nil
}
