// Package aggregation groups scored companies by region and ranks them.
package aggregation

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/growthmap/internal/domain"
)

const (
	// MinTopN and MaxTopN bound the ranking table size
	MinTopN = 5
	MaxTopN = 50
	// DefaultTopN is the ranking table size when none is requested
	DefaultTopN = 10
	// CountryChartLimit caps the region chart at country granularity
	CountryChartLimit = 10
)

// Aggregate groups rows by region and returns one RegionGroup per region,
// sorted by mean growth score descending. Equal means are ordered by region
// name ascending. Rows without a finite score are not counted.
func Aggregate(scored []domain.ScoredCompany, g domain.Granularity) []domain.RegionGroup {
	members := make(map[string][]float64)
	for _, s := range scored {
		if !s.HasScore() {
			continue
		}
		region := s.Region(g)
		members[region] = append(members[region], s.GrowthScore)
	}

	groups := make([]domain.RegionGroup, 0, len(members))
	for region, scores := range members {
		groups = append(groups, domain.RegionGroup{
			Region:       region,
			AvgScore:     stat.Mean(scores, nil),
			CompanyCount: len(scores),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].AvgScore != groups[j].AvgScore {
			return groups[i].AvgScore > groups[j].AvgScore
		}
		return groups[i].Region < groups[j].Region
	})
	return groups
}

// ChartRegions returns the groups shown in the region bar chart.
// Country views are capped to the CountryChartLimit best regions.
func ChartRegions(groups []domain.RegionGroup, g domain.Granularity) []domain.RegionGroup {
	if g == domain.GranularityCountry && len(groups) > CountryChartLimit {
		return groups[:CountryChartLimit]
	}
	return groups
}

// TopN returns the n highest-scoring companies, best first.
// Rows without a finite score are dropped before ranking; equal scores are
// ordered by company name and then by input position.
func TopN(scored []domain.ScoredCompany, n int) []domain.ScoredCompany {
	ranked := make([]domain.ScoredCompany, 0, len(scored))
	for _, s := range scored {
		if s.HasScore() {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GrowthScore != ranked[j].GrowthScore {
			return ranked[i].GrowthScore > ranked[j].GrowthScore
		}
		return ranked[i].Company < ranked[j].Company
	})

	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// ClampTopN bounds a requested table size to [MinTopN, MaxTopN].
// Zero selects DefaultTopN.
func ClampTopN(n int) int {
	switch {
	case n == 0:
		return DefaultTopN
	case n < MinTopN:
		return MinTopN
	case n > MaxTopN:
		return MaxTopN
	default:
		return n
	}
}

// ContinentCounts counts companies per continent
func ContinentCounts(scored []domain.ScoredCompany) map[string]int {
	counts := make(map[string]int)
	for _, s := range scored {
		counts[s.Continent]++
	}
	return counts
}

// HighScorers lists companies scoring strictly above threshold, in input order
func HighScorers(scored []domain.ScoredCompany, threshold float64) []string {
	names := make([]string, 0)
	for _, s := range scored {
		if s.HasScore() && s.GrowthScore > threshold {
			names = append(names, s.Company)
		}
	}
	return names
}
