// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"math"
	"strings"
)

// Granularity is the region level at which scores are aggregated
type Granularity string

const (
	GranularityContinent Granularity = "Continent"
	GranularityCountry   Granularity = "Country"
)

// ParseGranularity accepts "continent" or "country" in any case.
// An empty string selects the continent view.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continent":
		return GranularityContinent, nil
	case "country":
		return GranularityCountry, nil
	default:
		return "", fmt.Errorf("unknown granularity %q (must be Continent or Country)", s)
	}
}

// CompanyRecord is one company row that survived load-time filtering.
// Sales, Profits, MarketValue and Assets are in billions and strictly positive.
type CompanyRecord struct {
	Company     string  `json:"company"`
	Country     string  `json:"country"`
	Continent   string  `json:"continent"`
	Sales       float64 `json:"sales"`
	Profits     float64 `json:"profits"`
	MarketValue float64 `json:"market_value"`
	Assets      float64 `json:"assets"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Region returns the record's region name at the given granularity
func (r CompanyRecord) Region(g Granularity) string {
	if g == GranularityCountry {
		return r.Country
	}
	return r.Continent
}

// DerivedRatios holds the three financial ratios computed from a record
type DerivedRatios struct {
	ProfitMargin   float64 `json:"profit_margin"`
	AssetLeverage  float64 `json:"asset_leverage"`
	Undervaluation float64 `json:"undervaluation"`
}

// RatioRow pairs a record with its derived ratios
type RatioRow struct {
	Record CompanyRecord `json:"record"`
	Ratios DerivedRatios `json:"ratios"`
}

// WeightVector holds the relative importance of each ratio.
// Raw vectors need not sum to 1; see scoring.Normalize.
type WeightVector struct {
	ProfitMargin   float64 `json:"profit_margin" msgpack:"profit_margin" yaml:"profit_margin"`
	AssetLeverage  float64 `json:"asset_leverage" msgpack:"asset_leverage" yaml:"asset_leverage"`
	Undervaluation float64 `json:"undervaluation" msgpack:"undervaluation" yaml:"undervaluation"`
}

// DefaultWeights returns the slider defaults of the explorer (0.4 / 0.3 / 0.3)
func DefaultWeights() WeightVector {
	return WeightVector{ProfitMargin: 0.4, AssetLeverage: 0.3, Undervaluation: 0.3}
}

// Values returns the weights in ratio order
func (w WeightVector) Values() []float64 {
	return []float64{w.ProfitMargin, w.AssetLeverage, w.Undervaluation}
}

// String formats the vector for logs and cache keys
func (w WeightVector) String() string {
	return fmt.Sprintf("(%g, %g, %g)", w.ProfitMargin, w.AssetLeverage, w.Undervaluation)
}

// ScoredCompany is a company with its growth score and display fields
type ScoredCompany struct {
	Company     string  `json:"company" msgpack:"company"`
	Country     string  `json:"country" msgpack:"country"`
	Continent   string  `json:"continent" msgpack:"continent"`
	GrowthScore float64 `json:"growth_score" msgpack:"growth_score"`
	Latitude    float64 `json:"latitude" msgpack:"latitude"`
	Longitude   float64 `json:"longitude" msgpack:"longitude"`
}

// Region returns the company's region name at the given granularity
func (s ScoredCompany) Region(g Granularity) string {
	if g == GranularityCountry {
		return s.Country
	}
	return s.Continent
}

// HasScore reports whether the growth score is a finite number
func (s ScoredCompany) HasScore() bool {
	return !math.IsNaN(s.GrowthScore) && !math.IsInf(s.GrowthScore, 0)
}

// RegionGroup is one aggregation row
type RegionGroup struct {
	Region       string  `json:"region" msgpack:"region"`
	AvgScore     float64 `json:"avg_score" msgpack:"avg_score"`
	CompanyCount int     `json:"company_count" msgpack:"company_count"`
}
