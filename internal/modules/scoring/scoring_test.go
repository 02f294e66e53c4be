package scoring

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/growthmap/internal/domain"
)

func sampleRecords() []domain.CompanyRecord {
	return []domain.CompanyRecord{
		{Company: "A", Country: "Japan", Continent: "Asia", Sales: 10, Profits: 2, MarketValue: 20, Assets: 15, Latitude: 35.6, Longitude: 139.7},
		{Company: "B", Country: "China", Continent: "Asia", Sales: 5, Profits: 1, MarketValue: 10, Assets: 8, Latitude: 39.9, Longitude: 116.4},
		{Company: "C", Country: "Germany", Continent: "Europe", Sales: 80, Profits: 6.5, MarketValue: 45, Assets: 120, Latitude: 52.5, Longitude: 13.4},
		{Company: "D", Country: "United States", Continent: "North America", Sales: 233.7, Profits: 53.4, MarketValue: 586, Assets: 290.5, Latitude: 37.3, Longitude: -122.0},
	}
}

func TestDeriveRatios(t *testing.T) {
	rows := DeriveRatios(sampleRecords())
	require.Len(t, rows, 4)

	// A: 2/10, 15/20, 12/20
	assert.InDelta(t, 0.2, rows[0].Ratios.ProfitMargin, 1e-12)
	assert.InDelta(t, 0.75, rows[0].Ratios.AssetLeverage, 1e-12)
	assert.InDelta(t, 0.6, rows[0].Ratios.Undervaluation, 1e-12)
	assert.Equal(t, "A", rows[0].Record.Company)

	for _, row := range rows {
		for _, v := range []float64{row.Ratios.ProfitMargin, row.Ratios.AssetLeverage, row.Ratios.Undervaluation} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), row.Record.Company)
			assert.Greater(t, v, 0.0, row.Record.Company)
		}
	}
}

func TestDeriveRatios_Empty(t *testing.T) {
	rows := DeriveRatios(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		weights  domain.WeightVector
		expected domain.WeightVector
	}{
		{"defaults", domain.DefaultWeights(), domain.WeightVector{ProfitMargin: 0.4, AssetLeverage: 0.3, Undervaluation: 0.3}},
		{"unnormalized", domain.WeightVector{ProfitMargin: 2, AssetLeverage: 1, Undervaluation: 1}, domain.WeightVector{ProfitMargin: 0.5, AssetLeverage: 0.25, Undervaluation: 0.25}},
		{"single weight", domain.WeightVector{AssetLeverage: 0.7}, domain.WeightVector{AssetLeverage: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.weights)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected.ProfitMargin, got.ProfitMargin, 1e-12)
			assert.InDelta(t, tt.expected.AssetLeverage, got.AssetLeverage, 1e-12)
			assert.InDelta(t, tt.expected.Undervaluation, got.Undervaluation, 1e-12)
			assert.InDelta(t, 1.0, got.ProfitMargin+got.AssetLeverage+got.Undervaluation, 1e-9)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		weights domain.WeightVector
		reason  string
	}{
		{"all zero", domain.WeightVector{}, "sum to zero"},
		{"negative", domain.WeightVector{ProfitMargin: 0.5, AssetLeverage: -0.1, Undervaluation: 0.6}, "negative"},
		{"NaN", domain.WeightVector{ProfitMargin: math.NaN(), AssetLeverage: 1}, "finite"},
		{"infinite", domain.WeightVector{Undervaluation: math.Inf(1)}, "finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.weights)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidWeights))

			var wErr *domain.InvalidWeightsError
			require.True(t, errors.As(err, &wErr))
			assert.Contains(t, wErr.Reason, tt.reason)
		})
	}
}

func TestComputeScores_ConcreteScenario(t *testing.T) {
	rows := DeriveRatios(sampleRecords()[:2])

	scored, err := ComputeScores(rows, domain.WeightVector{ProfitMargin: 1})
	require.NoError(t, err)
	require.Len(t, scored, 2)

	assert.InDelta(t, 0.2, scored[0].GrowthScore, 1e-12)
	assert.InDelta(t, 0.2, scored[1].GrowthScore, 1e-12)
	assert.Equal(t, "Asia", scored[0].Continent)
	assert.Equal(t, 35.6, scored[0].Latitude)
	assert.Equal(t, 139.7, scored[0].Longitude)
}

func TestComputeScores_LinearCombination(t *testing.T) {
	rows := DeriveRatios(sampleRecords())

	scored, err := ComputeScores(rows, domain.DefaultWeights())
	require.NoError(t, err)

	// C: 0.4*(6.5/80) + 0.3*(120/45) + 0.3*(86.5/45)
	expected := 0.4*(6.5/80) + 0.3*(120.0/45) + 0.3*(86.5/45)
	assert.InDelta(t, expected, scored[2].GrowthScore, 1e-12)
}

func TestComputeScores_PreservesOrderAndCardinality(t *testing.T) {
	rows := DeriveRatios(sampleRecords())

	scored, err := ComputeScores(rows, domain.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, scored, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].Record.Company, scored[i].Company)
	}
}

func TestComputeScores_ScalingInvariance(t *testing.T) {
	rows := DeriveRatios(sampleRecords())
	base := domain.WeightVector{ProfitMargin: 0.2, AssetLeverage: 0.5, Undervaluation: 0.3}

	reference, err := ComputeScores(rows, base)
	require.NoError(t, err)

	// Power-of-two factors scale exactly, so scores must match bit for bit
	for _, k := range []float64{0.5, 2, 4, 1024} {
		t.Run(fmt.Sprintf("exact x%g", k), func(t *testing.T) {
			scaled := domain.WeightVector{ProfitMargin: base.ProfitMargin * k, AssetLeverage: base.AssetLeverage * k, Undervaluation: base.Undervaluation * k}
			got, err := ComputeScores(rows, scaled)
			require.NoError(t, err)
			assert.Equal(t, reference, got)
		})
	}

	for _, k := range []float64{3, 0.1, 7.25} {
		t.Run(fmt.Sprintf("x%g", k), func(t *testing.T) {
			scaled := domain.WeightVector{ProfitMargin: base.ProfitMargin * k, AssetLeverage: base.AssetLeverage * k, Undervaluation: base.Undervaluation * k}
			got, err := ComputeScores(rows, scaled)
			require.NoError(t, err)
			for i := range reference {
				assert.InDelta(t, reference[i].GrowthScore, got[i].GrowthScore, 1e-12)
			}
		})
	}
}

func TestComputeScores_InvalidWeights(t *testing.T) {
	rows := DeriveRatios(sampleRecords())

	for _, w := range []domain.WeightVector{
		{},
		{ProfitMargin: -1, AssetLeverage: 1, Undervaluation: 1},
		{Undervaluation: -0.0001},
	} {
		scored, err := ComputeScores(rows, w)
		assert.Nil(t, scored)
		assert.True(t, errors.Is(err, domain.ErrInvalidWeights), w.String())
	}
}

func TestComputeScores_Deterministic(t *testing.T) {
	rows := DeriveRatios(sampleRecords())
	w := domain.WeightVector{ProfitMargin: 0.33, AssetLeverage: 0.21, Undervaluation: 0.46}

	first, err := ComputeScores(rows, w)
	require.NoError(t, err)
	second, err := ComputeScores(rows, w)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, math.Float64bits(first[i].GrowthScore), math.Float64bits(second[i].GrowthScore))
	}
}

func TestComputeScores_EmptyInput(t *testing.T) {
	scored, err := ComputeScores(nil, domain.DefaultWeights())
	require.NoError(t, err)
	assert.Empty(t, scored)
}

func TestCache(t *testing.T) {
	cache := NewCache[int](2)

	k1 := CacheKey{DatasetVersion: 1, Weights: domain.DefaultWeights(), Granularity: domain.GranularityContinent}
	k2 := CacheKey{DatasetVersion: 1, Weights: domain.DefaultWeights(), Granularity: domain.GranularityCountry}
	k3 := CacheKey{DatasetVersion: 1, Weights: domain.WeightVector{ProfitMargin: 1}, Granularity: domain.GranularityContinent}

	_, ok := cache.Get(k1)
	assert.False(t, ok)

	cache.Put(k1, 1)
	cache.Put(k2, 2)

	v, ok := cache.Get(k1)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// k2 is now least recently used
	cache.Put(k3, 3)
	_, ok = cache.Get(k2)
	assert.False(t, ok)
	_, ok = cache.Get(k3)
	assert.True(t, ok)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 2, stats.MaxEntries)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, uint64(1), stats.Evictions)
}

func TestCache_RawWeightsAreDistinctKeys(t *testing.T) {
	cache := NewCache[string](8)

	cache.Put(CacheKey{DatasetVersion: 1, Weights: domain.WeightVector{ProfitMargin: 1, AssetLeverage: 1, Undervaluation: 1}}, "ones")
	_, ok := cache.Get(CacheKey{DatasetVersion: 1, Weights: domain.WeightVector{ProfitMargin: 2, AssetLeverage: 2, Undervaluation: 2}})
	assert.False(t, ok)

	_, ok = cache.Get(CacheKey{DatasetVersion: 2, Weights: domain.WeightVector{ProfitMargin: 1, AssetLeverage: 1, Undervaluation: 1}})
	assert.False(t, ok, "a new dataset version must not hit")
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache[int](4)
	key := CacheKey{DatasetVersion: 1, Weights: domain.DefaultWeights()}

	cache.Put(key, 42)
	cache.Put(key, 43)
	assert.Equal(t, 1, cache.Stats().Entries)

	cache.Invalidate()
	_, ok := cache.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Stats().Entries)
	assert.Equal(t, uint64(1), cache.Stats().Invalidations)
}

func TestNewCache_MinimumSize(t *testing.T) {
	cache := NewCache[int](0)
	assert.Equal(t, 1, cache.Stats().MaxEntries)
}
