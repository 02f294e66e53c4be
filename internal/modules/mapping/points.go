// Package mapping turns scored companies into geographic map points.
package mapping

import (
	"fmt"
	"math"

	"github.com/aristath/growthmap/internal/domain"
)

// MapPoint is one company marker positioned at (longitude, latitude)
type MapPoint struct {
	Company   string  `json:"company" msgpack:"company"`
	Continent string  `json:"continent" msgpack:"continent"`
	Latitude  float64 `json:"latitude" msgpack:"latitude"`
	Longitude float64 `json:"longitude" msgpack:"longitude"`
	Score     float64 `json:"score" msgpack:"score"`
	Label     string  `json:"label" msgpack:"label"`
}

// ViewState is the initial camera and marker style of the map
type ViewState struct {
	Latitude  float64  `json:"latitude" msgpack:"latitude"`
	Longitude float64  `json:"longitude" msgpack:"longitude"`
	Zoom      float64  `json:"zoom" msgpack:"zoom"`
	Pitch     float64  `json:"pitch" msgpack:"pitch"`
	Radius    float64  `json:"radius" msgpack:"radius"`
	FillColor [4]uint8 `json:"fill_color" msgpack:"fill_color"`
}

// DefaultViewState centers the world map with semi-transparent red markers
func DefaultViewState() ViewState {
	return ViewState{
		Latitude:  20,
		Longitude: 0,
		Zoom:      1.5,
		Pitch:     0,
		Radius:    10000,
		FillColor: [4]uint8{200, 30, 0, 160},
	}
}

// ValidCoordinate reports whether lat/lon is a finite WGS 84 position
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Label formats the tooltip text of one marker
func Label(company string, score float64) string {
	return fmt.Sprintf("%s\nScore: %.2f", company, score)
}

// BuildPoints converts scored companies into map points, in input order.
// Companies without a score or a valid position are left off the map.
func BuildPoints(scored []domain.ScoredCompany) []MapPoint {
	points := make([]MapPoint, 0, len(scored))
	for _, s := range scored {
		if !s.HasScore() || !ValidCoordinate(s.Latitude, s.Longitude) {
			continue
		}
		points = append(points, MapPoint{
			Company:   s.Company,
			Continent: s.Continent,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Score:     s.GrowthScore,
			Label:     Label(s.Company, s.GrowthScore),
		})
	}
	return points
}
