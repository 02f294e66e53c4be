// Package explorer runs the scoring pipeline for interactive queries and
// assembles everything one screen of the explorer needs.
package explorer

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/aggregation"
	"github.com/aristath/growthmap/internal/modules/mapping"
	"github.com/aristath/growthmap/internal/modules/scoring"
	"github.com/aristath/growthmap/internal/utils"
)

// Config holds explorer tuning
type Config struct {
	CacheMaxEntries    int
	HighScoreThreshold float64
}

// DefaultConfig returns the stock explorer settings
func DefaultConfig() Config {
	return Config{CacheMaxEntries: 256, HighScoreThreshold: 20}
}

// Query is one user interaction: slider weights, region selector and table size
type Query struct {
	Weights     domain.WeightVector
	Granularity domain.Granularity
	TopN        int
}

// View is the full result of one query
type View struct {
	RunID             string                 `json:"run_id" msgpack:"run_id"`
	DatasetVersion    uint64                 `json:"dataset_version" msgpack:"dataset_version"`
	RequestedWeights  domain.WeightVector    `json:"requested_weights" msgpack:"requested_weights"`
	Weights           domain.WeightVector    `json:"weights" msgpack:"weights"`
	NormalizedWeights domain.WeightVector    `json:"normalized_weights" msgpack:"normalized_weights"`
	Granularity       domain.Granularity     `json:"granularity" msgpack:"granularity"`
	TopN              int                    `json:"top_n" msgpack:"top_n"`
	Rankings          []domain.ScoredCompany `json:"rankings" msgpack:"rankings"`
	Regions           []domain.RegionGroup   `json:"regions" msgpack:"regions"`
	ChartRegions      []domain.RegionGroup   `json:"chart_regions" msgpack:"chart_regions"`
	MapPoints         []mapping.MapPoint     `json:"map_points" msgpack:"map_points"`
	ContinentCounts   map[string]int         `json:"continent_counts" msgpack:"continent_counts"`
	HighScorers       []string               `json:"high_scorers" msgpack:"high_scorers"`
	CompanyCount      int                    `json:"company_count" msgpack:"company_count"`
	Cached            bool                   `json:"cached" msgpack:"cached"`
	Error             string                 `json:"error,omitempty" msgpack:"error,omitempty"`
}

// result is what the cache memoizes for one (dataset, weights, granularity)
type result struct {
	normalized domain.WeightVector
	scored     []domain.ScoredCompany
	groups     []domain.RegionGroup
}

// Service runs pipeline queries against the loaded dataset.
// It is safe for concurrent use.
type Service struct {
	mu          sync.RWMutex
	rows        []domain.RatioRow
	version     uint64
	lastWeights domain.WeightVector

	cfg   Config
	cache *scoring.Cache[result]
	log   zerolog.Logger
}

// NewService creates an explorer over the given filtered records
func NewService(records []domain.CompanyRecord, cfg Config, log zerolog.Logger) *Service {
	if cfg.CacheMaxEntries <= 0 {
		cfg.CacheMaxEntries = DefaultConfig().CacheMaxEntries
	}
	return &Service{
		rows:        scoring.DeriveRatios(records),
		version:     1,
		lastWeights: domain.DefaultWeights(),
		cfg:         cfg,
		cache:       scoring.NewCache[result](cfg.CacheMaxEntries),
		log:         log.With().Str("service", "explorer").Logger(),
	}
}

// Explore runs the pipeline for q. Invalid weights do not fail the call: the
// view is computed with the last accepted weights (initially the defaults)
// and View.Error carries the message. Other query errors are returned.
func (s *Service) Explore(q Query) (*View, error) {
	g, err := domain.ParseGranularity(string(q.Granularity))
	if err != nil {
		return nil, err
	}
	topN := aggregation.ClampTopN(q.TopN)
	runID := uuid.NewString()
	timer := utils.NewTimer("explore", s.log)
	defer timer.Stop()

	s.mu.RLock()
	rows, version, fallback := s.rows, s.version, s.lastWeights
	s.mu.RUnlock()

	weights := q.Weights
	res, cached, err := s.run(rows, version, weights, g)

	var message string
	if err != nil {
		var wErr *domain.InvalidWeightsError
		if !errors.As(err, &wErr) {
			return nil, err
		}
		s.log.Warn().
			Str("run_id", runID).
			Str("weights", q.Weights.String()).
			Str("reason", wErr.Reason).
			Msg("Rejected weights, keeping previous result")

		message = wErr.Error()
		weights = fallback
		res, cached, err = s.run(rows, version, weights, g)
		if err != nil {
			return nil, err
		}
	} else {
		s.mu.Lock()
		if s.version == version {
			s.lastWeights = weights
		}
		s.mu.Unlock()
	}

	view := &View{
		RunID:             runID,
		DatasetVersion:    version,
		RequestedWeights:  q.Weights,
		Weights:           weights,
		NormalizedWeights: res.normalized,
		Granularity:       g,
		TopN:              topN,
		Rankings:          aggregation.TopN(res.scored, topN),
		Regions:           res.groups,
		ChartRegions:      aggregation.ChartRegions(res.groups, g),
		MapPoints:         mapping.BuildPoints(res.scored),
		ContinentCounts:   aggregation.ContinentCounts(res.scored),
		HighScorers:       aggregation.HighScorers(res.scored, s.cfg.HighScoreThreshold),
		CompanyCount:      len(res.scored),
		Cached:            cached,
		Error:             message,
	}

	s.log.Debug().
		Str("run_id", runID).
		Str("weights", weights.String()).
		Str("granularity", string(g)).
		Int("companies", view.CompanyCount).
		Int("regions", len(view.Regions)).
		Bool("cached", cached).
		Msg("Explore completed")

	return view, nil
}

// run scores and aggregates, memoized on (dataset version, raw weights, granularity)
func (s *Service) run(rows []domain.RatioRow, version uint64, weights domain.WeightVector, g domain.Granularity) (result, bool, error) {
	key := scoring.CacheKey{DatasetVersion: version, Weights: weights, Granularity: g}
	if res, ok := s.cache.Get(key); ok {
		return res, true, nil
	}

	normalized, err := scoring.Normalize(weights)
	if err != nil {
		return result{}, false, err
	}
	scored, err := scoring.ComputeScores(rows, weights)
	if err != nil {
		return result{}, false, err
	}

	res := result{
		normalized: normalized,
		scored:     scored,
		groups:     aggregation.Aggregate(scored, g),
	}
	s.cache.Put(key, res)
	return res, false, nil
}

// Scored returns every scored company for weights, in dataset order
func (s *Service) Scored(weights domain.WeightVector) ([]domain.ScoredCompany, error) {
	s.mu.RLock()
	rows, version := s.rows, s.version
	s.mu.RUnlock()

	res, _, err := s.run(rows, version, weights, domain.GranularityContinent)
	if err != nil {
		return nil, err
	}
	return res.scored, nil
}

// Reload replaces the dataset and drops every cached result
func (s *Service) Reload(records []domain.CompanyRecord) {
	rows := scoring.DeriveRatios(records)

	s.mu.Lock()
	s.rows = rows
	s.version++
	version := s.version
	s.mu.Unlock()

	s.cache.Invalidate()
	s.log.Info().Uint64("version", version).Int("companies", len(rows)).Msg("Dataset reloaded")
}

// InvalidateCache drops every cached result without touching the dataset
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
	s.log.Info().Msg("Score cache invalidated")
}

// CacheStats returns the memo cache counters
func (s *Service) CacheStats() scoring.CacheStats {
	return s.cache.Stats()
}

// CompanyCount returns the number of companies in the dataset
func (s *Service) CompanyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// DatasetVersion increments on every Reload
func (s *Service) DatasetVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// HighScoreThreshold is the score above which companies are listed as high scorers
func (s *Service) HighScoreThreshold() float64 {
	return s.cfg.HighScoreThreshold
}
