// Package handlers provides HTTP handlers for the explorer API.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/growthmap/internal/config"
	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/charts"
	"github.com/aristath/growthmap/internal/modules/explorer"
	"github.com/aristath/growthmap/internal/modules/mapping"
	"github.com/aristath/growthmap/internal/utils"
)

const (
	// ContentTypeMsgpack is negotiated through the Accept header
	ContentTypeMsgpack = "application/msgpack"
	// HeaderExplorerError carries a rejected-weights message on chart responses
	HeaderExplorerError = "X-Explorer-Error"
)

// Handlers provides HTTP handlers for the explorer module
type Handlers struct {
	service *explorer.Service
	charts  *charts.Service
	presets []config.Preset
	log     zerolog.Logger
}

// NewHandlers creates a new explorer handlers instance
func NewHandlers(service *explorer.Service, chartService *charts.Service, presets []config.Preset, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		charts:  chartService,
		presets: presets,
		log:     log.With().Str("module", "explorer_handlers").Logger(),
	}
}

// RankingsResponse is the top-N company table
type RankingsResponse struct {
	RunID    string                 `json:"run_id" msgpack:"run_id"`
	TopN     int                    `json:"top_n" msgpack:"top_n"`
	Weights  domain.WeightVector    `json:"weights" msgpack:"weights"`
	Rankings []domain.ScoredCompany `json:"rankings" msgpack:"rankings"`
	Error    string                 `json:"error,omitempty" msgpack:"error,omitempty"`
}

// RegionsResponse is the region aggregation
type RegionsResponse struct {
	RunID        string               `json:"run_id" msgpack:"run_id"`
	Granularity  domain.Granularity   `json:"granularity" msgpack:"granularity"`
	Regions      []domain.RegionGroup `json:"regions" msgpack:"regions"`
	ChartRegions []domain.RegionGroup `json:"chart_regions" msgpack:"chart_regions"`
	Error        string               `json:"error,omitempty" msgpack:"error,omitempty"`
}

// MapResponse is the map layer with its initial view state
type MapResponse struct {
	RunID     string             `json:"run_id" msgpack:"run_id"`
	ViewState mapping.ViewState  `json:"view_state" msgpack:"view_state"`
	Points    []mapping.MapPoint `json:"points" msgpack:"points"`
	Error     string             `json:"error,omitempty" msgpack:"error,omitempty"`
}

// ContinentsResponse is the per-continent company count summary
type ContinentsResponse struct {
	ContinentCounts map[string]int `json:"continent_counts" msgpack:"continent_counts"`
	CompanyCount    int            `json:"company_count" msgpack:"company_count"`
}

// HighScorersResponse lists companies above the high-score threshold
type HighScorersResponse struct {
	Threshold float64  `json:"threshold" msgpack:"threshold"`
	Companies []string `json:"companies" msgpack:"companies"`
	Error     string   `json:"error,omitempty" msgpack:"error,omitempty"`
}

// HandleGetPresets handles GET /api/explorer/presets
func (h *Handlers) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"presets": h.presets,
		"default": domain.DefaultWeights(),
	})
}

// HandleGetView handles GET /api/explorer/view
func (h *Handlers) HandleGetView(w http.ResponseWriter, r *http.Request) {
	view, ok := h.explore(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, view)
}

// HandleGetRankings handles GET /api/explorer/rankings
func (h *Handlers) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	view, ok := h.explore(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, RankingsResponse{
		RunID:    view.RunID,
		TopN:     view.TopN,
		Weights:  view.Weights,
		Rankings: view.Rankings,
		Error:    view.Error,
	})
}

// HandleGetRegions handles GET /api/explorer/regions
func (h *Handlers) HandleGetRegions(w http.ResponseWriter, r *http.Request) {
	view, ok := h.explore(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, RegionsResponse{
		RunID:        view.RunID,
		Granularity:  view.Granularity,
		Regions:      view.Regions,
		ChartRegions: view.ChartRegions,
		Error:        view.Error,
	})
}

// HandleGetMap handles GET /api/explorer/map
func (h *Handlers) HandleGetMap(w http.ResponseWriter, r *http.Request) {
	view, ok := h.explore(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, MapResponse{
		RunID:     view.RunID,
		ViewState: mapping.DefaultViewState(),
		Points:    view.MapPoints,
		Error:     view.Error,
	})
}

// HandleGetContinents handles GET /api/explorer/continents
func (h *Handlers) HandleGetContinents(w http.ResponseWriter, r *http.Request) {
	view, ok := h.explore(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, ContinentsResponse{
		ContinentCounts: view.ContinentCounts,
		CompanyCount:    view.CompanyCount,
	})
}

// HandleGetHighScorers handles GET /api/explorer/high-scorers
func (h *Handlers) HandleGetHighScorers(w http.ResponseWriter, r *http.Request) {
	view, ok := h.explore(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, HighScorersResponse{
		Threshold: h.service.HighScoreThreshold(),
		Companies: view.HighScorers,
		Error:     view.Error,
	})
}

// HandleGetRegionChart handles GET /api/explorer/charts/regions.{format}
func (h *Handlers) HandleGetRegionChart(w http.ResponseWriter, r *http.Request) {
	format, err := charts.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	view, ok := h.explore(w, r)
	if !ok {
		return
	}

	img, err := h.charts.RegionBarChart(view.ChartRegions, view.Granularity, format)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render region chart")
		h.writeError(w, r, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	h.writeImage(w, format, img, view.Error)
}

// HandleGetMapChart handles GET /api/explorer/charts/map.{format}
func (h *Handlers) HandleGetMapChart(w http.ResponseWriter, r *http.Request) {
	format, err := charts.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	view, ok := h.explore(w, r)
	if !ok {
		return
	}

	img, err := h.charts.MapChart(view.MapPoints, mapping.DefaultViewState(), format)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render map chart")
		h.writeError(w, r, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	h.writeImage(w, format, img, view.Error)
}

// HandleGetCacheStats handles GET /api/explorer/cache/stats
func (h *Handlers) HandleGetCacheStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.CacheStats())
}

// HandleInvalidateCache handles POST /api/explorer/cache/invalidate
func (h *Handlers) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "invalidated",
		"cache":  h.service.CacheStats(),
	})
}

// explore parses the query and runs it, writing a 400 on bad parameters
func (h *Handlers) explore(w http.ResponseWriter, r *http.Request) (*explorer.View, bool) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	view, err := h.service.Explore(q)
	if err != nil {
		h.writeError(w, r, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return view, true
}

// parseQuery reads weights from preset, weights=a,b,c and w1/w2/w3, in that
// order of precedence (later overrides earlier), plus granularity and n.
func (h *Handlers) parseQuery(r *http.Request) (explorer.Query, error) {
	values := r.URL.Query()
	q := explorer.Query{Weights: domain.DefaultWeights()}

	if name := values.Get("preset"); name != "" {
		preset, ok := config.FindPreset(h.presets, name)
		if !ok {
			return q, fmt.Errorf("unknown preset %q", name)
		}
		q.Weights = preset.Weights
	}

	if raw := values.Get("weights"); raw != "" {
		parsed, err := utils.ParseFloats(raw)
		if err != nil {
			return q, fmt.Errorf("invalid weights: %w", err)
		}
		if len(parsed) != 3 {
			return q, fmt.Errorf("weights must have exactly 3 values, got %d", len(parsed))
		}
		q.Weights = domain.WeightVector{ProfitMargin: parsed[0], AssetLeverage: parsed[1], Undervaluation: parsed[2]}
	}

	for param, target := range map[string]*float64{
		"w1": &q.Weights.ProfitMargin,
		"w2": &q.Weights.AssetLeverage,
		"w3": &q.Weights.Undervaluation,
	} {
		raw := values.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return q, fmt.Errorf("invalid %s: %q is not a number", param, raw)
		}
		*target = v
	}

	g, err := domain.ParseGranularity(values.Get("granularity"))
	if err != nil {
		return q, err
	}
	q.Granularity = g

	if raw := values.Get("n"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return q, fmt.Errorf("invalid n: %q is not an integer", raw)
		}
		q.TopN = n
	}

	return q, nil
}

// wantsMsgpack reports whether the client asked for msgpack
func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}

// writeJSON writes data as JSON, or msgpack when the client accepts it
func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if wantsMsgpack(r) {
		body, err := msgpack.Marshal(data)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to encode msgpack response")
			http.Error(w, "encoding error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		if _, err := w.Write(body); err != nil {
			h.log.Error().Err(err).Msg("Failed to write msgpack response")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, message string, status int) {
	h.writeJSON(w, r, status, map[string]string{"error": message})
}

// writeImage writes a rendered chart; a rejected-weights message travels in a header
func (h *Handlers) writeImage(w http.ResponseWriter, format string, img []byte, viewError string) {
	w.Header().Set("Content-Type", charts.ContentType(format))
	w.Header().Set("Cache-Control", "no-store")
	if viewError != "" {
		w.Header().Set(HeaderExplorerError, viewError)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart")
	}
}
