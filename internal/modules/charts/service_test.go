package charts

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/mapping"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func newTestService() *Service {
	return NewService(Config{}, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRegionBarChart(t *testing.T) {
	service := newTestService()
	groups := []domain.RegionGroup{
		{Region: "Asia", AvgScore: 2.4, CompanyCount: 12},
		{Region: "Europe", AvgScore: 1.9, CompanyCount: 20},
		{Region: "Africa", AvgScore: 0.8, CompanyCount: 3},
	}

	t.Run("png", func(t *testing.T) {
		img, err := service.RegionBarChart(groups, domain.GranularityContinent, "")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	})

	t.Run("svg", func(t *testing.T) {
		img, err := service.RegionBarChart(groups, domain.GranularityCountry, "svg")
		require.NoError(t, err)
		assert.Contains(t, string(img), "<svg")
	})

	t.Run("empty", func(t *testing.T) {
		img, err := service.RegionBarChart(nil, domain.GranularityContinent, FormatPNG)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := service.RegionBarChart(groups, domain.GranularityContinent, "gif")
		assert.Error(t, err)
	})
}

func TestMapChart(t *testing.T) {
	service := newTestService()
	points := []mapping.MapPoint{
		{Company: "Toyota", Latitude: 35.08, Longitude: 137.15, Score: 1.2},
		{Company: "Apple", Latitude: 37.33, Longitude: -122.03, Score: 0.6},
	}

	img, err := service.MapChart(points, mapping.DefaultViewState(), FormatPNG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	empty, err := service.MapChart(nil, mapping.DefaultViewState(), FormatPNG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, pngMagic))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{".svg", FormatSVG, false},
		{"pdf", FormatPDF, false},
		{"jpeg", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(FormatPNG))
	assert.Equal(t, "image/svg+xml", ContentType(FormatSVG))
	assert.Equal(t, "application/pdf", ContentType(FormatPDF))
}

func TestRegionTitle(t *testing.T) {
	assert.Equal(t, "Average Growth Score by Continent", RegionTitle(domain.GranularityContinent))
	assert.Equal(t, "Top 10 Countries by Average Growth Score", RegionTitle(domain.GranularityCountry))
}

func TestBlues(t *testing.T) {
	assert.Empty(t, blues(0))
	assert.Len(t, blues(1), 1)

	shades := blues(5)
	require.Len(t, shades, 5)
	first := shades[0].(color.RGBA)
	last := shades[4].(color.RGBA)
	assert.Greater(t, first.B, last.B)
}
