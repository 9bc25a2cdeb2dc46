package charts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apierrors "logisticsdash/internal/errors"
)

// ImageFormat is an output encoding supported by the renderer
type ImageFormat string

const (
	FormatSVG ImageFormat = "svg"
	FormatPNG ImageFormat = "png"
)

// ParseImageFormat validates an image format name
func ParseImageFormat(s string) (ImageFormat, bool) {
	switch ImageFormat(s) {
	case FormatSVG, FormatPNG:
		return ImageFormat(s), true
	}
	return "", false
}

// ContentType returns the MIME type of the format
func (f ImageFormat) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

const (
	minWidth      = 100
	minHeight     = 100
	maxBarWidth   = 50
	minBarWidth   = 2
	barSpacing    = 8
	axisAllowance = 120
)

var barColor = drawing.ColorFromHex("636EFA")

// Renderer draws chart specs as bar chart images
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer producing images of the given size
func NewRenderer(width, height int) *Renderer {
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	return &Renderer{width: width, height: height}
}

// Render writes spec to w. Empty specs render as a titled chart with a single empty bar.
func (r *Renderer) Render(w io.Writer, spec Spec, format ImageFormat) error {
	provider := chart.SVG
	switch format {
	case FormatSVG:
	case FormatPNG:
		provider = chart.PNG
	default:
		return apierrors.NewRenderError(fmt.Sprintf("unsupported image format %q", format), nil)
	}

	bc := r.barChart(spec)

	// render into a buffer so a failure never leaves a partial image on w
	var buf bytes.Buffer
	if err := bc.Render(provider, &buf); err != nil {
		return apierrors.NewRenderError(fmt.Sprintf("failed to render %s chart", spec.Kind), err).
			WithContext("format", string(format))
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func (r *Renderer) barChart(spec Spec) chart.BarChart {
	bars := make([]chart.Value, 0, len(spec.Bars))
	peak := 0.0
	for _, p := range spec.Bars {
		v := p.Value.InexactFloat64()
		if v > peak {
			peak = v
		}
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor, StrokeWidth: 1},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: " ", Value: 0})
	}

	// a zero range would make go-chart fall back to data-driven ranging,
	// which is degenerate for all-zero bars
	top := 1.0
	if peak > 0 {
		top = peak * 1.1
	}

	return chart.BarChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: 12},
		Width:      r.width,
		Height:     r.height,
		BarWidth:   r.barWidth(len(bars)),
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			Style: chart.Style{FontSize: 8},
		},
		Bars: bars,
	}
}

func (r *Renderer) barWidth(n int) int {
	if n == 0 {
		return maxBarWidth
	}
	w := (r.width-axisAllowance)/n - barSpacing
	if w > maxBarWidth {
		return maxBarWidth
	}
	if w < minBarWidth {
		return minBarWidth
	}
	return w
}
