// Package charts renders region bar charts and company location maps.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/mapping"
)

// Supported output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Config sets the canvas size of rendered charts
type Config struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultConfig returns an 8x5 inch canvas
func DefaultConfig() Config {
	return Config{Width: 8 * vg.Inch, Height: 5 * vg.Inch}
}

// Service renders charts to in-memory images
type Service struct {
	cfg Config
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(cfg Config, log zerolog.Logger) *Service {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		cfg: cfg,
		log: log.With().Str("service", "charts").Logger(),
	}
}

// ParseFormat validates a format name, defaulting to PNG
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimPrefix(name, ".")); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q (must be png, svg or pdf)", name)
	}
}

// ContentType returns the MIME type of a chart format
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// RegionTitle returns the chart title for a granularity
func RegionTitle(g domain.Granularity) string {
	if g == domain.GranularityCountry {
		return "Top 10 Countries by Average Growth Score"
	}
	return "Average Growth Score by Continent"
}

// RegionBarChart draws one horizontal bar per region, best region on top and darkest.
// An empty group list yields an empty chart rather than an error.
func (s *Service) RegionBarChart(groups []domain.RegionGroup, g domain.Granularity, format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = RegionTitle(g)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Growth Score"
	p.Y.Label.Text = string(g)

	n := len(groups)
	labels := make([]string, n)
	palette := blues(n)
	for i, group := range groups {
		// bars are laid out bottom-up, so the best region gets the top slot
		pos := n - 1 - i
		labels[pos] = group.Region

		bar, err := plotter.NewBarChart(plotter.Values{group.AvgScore}, vg.Points(18))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar for %s: %w", group.Region, err)
		}
		bar.Horizontal = true
		bar.XMin = float64(pos)
		bar.Color = palette[pos]
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
	}
	if n > 0 {
		p.NominalY(labels...)
		p.X.Min = 0
	}
	p.Add(plotter.NewGrid())

	s.log.Debug().Int("regions", n).Str("granularity", string(g)).Msg("Rendering region chart")
	return s.render(p, format)
}

// MapChart plots company positions on a longitude/latitude plane
func (s *Service) MapChart(points []mapping.MapPoint, vs mapping.ViewState, format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Company Locations by Growth Score"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -90, 90
	p.Add(plotter.NewGrid())

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i].X = pt.Longitude
			xys[i].Y = pt.Latitude
		}

		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build scatter: %w", err)
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		scatter.GlyphStyle.Color = color.NRGBA{R: vs.FillColor[0], G: vs.FillColor[1], B: vs.FillColor[2], A: vs.FillColor[3]}
		p.Add(scatter)
	}

	s.log.Debug().Int("points", len(points)).Msg("Rendering map chart")
	return s.render(p, format)
}

func (s *Service) render(p *plot.Plot, format string) ([]byte, error) {
	w, err := p.WriterTo(s.cfg.Width, s.cfg.Height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s canvas: %w", format, err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode %s chart: %w", format, err)
	}
	return buf.Bytes(), nil
}

// blues returns n shades from light to dark blue
func blues(n int) []color.Color {
	light := [3]float64{158, 202, 225}
	dark := [3]float64{8, 48, 107}

	shades := make([]color.Color, n)
	for i := range shades {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		shades[i] = color.RGBA{
			R: uint8(light[0] + (dark[0]-light[0])*t),
			G: uint8(light[1] + (dark[1]-light[1])*t),
			B: uint8(light[2] + (dark[2]-light[2])*t),
			A: 255,
		}
	}
	return shades
}
