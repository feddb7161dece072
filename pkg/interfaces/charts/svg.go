package charts

import (
	"io"
	"math"
	"time"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	svgWidth      = 1024
	svgHeight     = 500
	minBarWidth   = 40
	dateTickCount = 6
)

// RenderSVG draws fig with go-chart and writes an SVG document to w. Scatter
// traces become dot-only time series. Bars are always drawn vertically.
func RenderSVG(fig *Figure, w io.Writer) error {
	if len(fig.Data) == 0 {
		return errors.Errorf("charts: figure %s has no traces", fig.Name)
	}

	trace := &fig.Data[0]
	switch trace.Type {
	case TypeScatter:
		return renderScatter(fig, trace, w)
	case TypeBar:
		return renderBars(fig, trace, w)
	default:
		return errors.Errorf("charts: cannot render %q trace", trace.Type)
	}
}

// pointStyle draws markers without connecting lines
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    markerSize / 2,
		DotColor:    col,
	}
}

func renderScatter(fig *Figure, trace *Trace, w io.Writer) error {
	if len(trace.X) == 0 {
		return renderEmpty(fig, w)
	}
	if len(trace.X) != len(trace.Y) {
		return errors.Errorf("charts: %s has %d x values and %d y values", fig.Name, len(trace.X), len(trace.Y))
	}

	times := make([]time.Time, len(trace.X))
	ys := make([]float64, len(trace.Y))
	cats := newCategories()
	minT, maxT := time.Time{}, time.Time{}

	for i := range trace.X {
		s, _ := trace.X[i].(string)
		t, err := time.Parse(DateFormat, s)
		if err != nil {
			return errors.Wrapf(err, "charts: %s point %d", fig.Name, i)
		}
		times[i] = t
		if minT.IsZero() || t.Before(minT) {
			minT = t
		}
		if maxT.IsZero() || t.After(maxT) {
			maxT = t
		}
		label, _ := trace.Y[i].(string)
		ys[i] = cats.index(label)
	}

	// a fortnight of margin keeps a single date from collapsing the range
	minT = minT.AddDate(0, 0, -14)
	maxT = maxT.AddDate(0, 0, 14)

	ch := chart.Chart{
		Title:      fig.Title(),
		Width:      svgWidth,
		Height:     heightOf(fig),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 48}},
		XAxis: chart.XAxis{
			Name:  fig.Layout.XAxis.Title.Text,
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(minT), Max: chart.TimeToFloat64(maxT)},
			Ticks: dateTicks(minT, maxT, dateTickCount),
		},
		YAxis: chart.YAxis{
			Name:  fig.Layout.YAxis.Title.Text,
			Range: &chart.ContinuousRange{Min: -1, Max: float64(cats.len())},
			Ticks: cats.ticks(),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    fig.Name,
				XValues: times,
				YValues: ys,
				Style:   pointStyle(markerColor(trace.Marker)),
			},
		},
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return errors.Wrapf(err, "charts: render %s", fig.Name)
	}
	return nil
}

func renderBars(fig *Figure, trace *Trace, w io.Writer) error {
	labels, values := trace.X, trace.Y
	if trace.Horizontal() {
		labels, values = trace.Y, trace.X
	}
	if len(values) == 0 {
		return renderEmpty(fig, w)
	}
	if len(labels) != len(values) {
		return errors.Errorf("charts: %s has %d labels and %d values", fig.Name, len(labels), len(values))
	}

	nums := make([]float64, len(values))
	for i, v := range values {
		f, ok := toFloat(v)
		if !ok {
			return errors.Errorf("charts: %s value %d is %T, not a number", fig.Name, i, v)
		}
		nums[i] = f
	}
	lo, hi := valueRange(nums)

	var scale []float64
	if trace.Marker != nil {
		scale, _ = trace.Marker.Color.([]float64)
	}

	bars := make([]chart.Value, len(nums))
	for i, v := range nums {
		label, _ := labels[i].(string)
		bars[i] = chart.Value{Label: label, Value: v}
	}
	if len(scale) == len(nums) {
		colorBars(bars, scale)
	}

	valueAxis := fig.Layout.YAxis.Title.Text
	if trace.Horizontal() {
		valueAxis = fig.Layout.XAxis.Title.Text
	}

	bc := chart.BarChart{
		Title:      fig.Title(),
		Width:      barChartWidth(len(bars)),
		Height:     heightOf(fig),
		BarWidth:   minBarWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 120}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  valueAxis,
			Range: &chart.ContinuousRange{Min: math.Min(0, lo), Max: hi + math.Max(1, math.Abs(hi)*0.1)},
		},
		Bars: bars,
	}

	if err := bc.Render(chart.SVG, w); err != nil {
		return errors.Wrapf(err, "charts: render %s", fig.Name)
	}
	return nil
}

// renderEmpty draws titled empty axes since go-chart refuses an empty series
func renderEmpty(fig *Figure, w io.Writer) error {
	hidden := chart.Style{StrokeWidth: chart.Disabled}
	ch := chart.Chart{
		Title:  fig.Title() + " (no data)",
		Width:  svgWidth,
		Height: heightOf(fig),
		XAxis:  chart.XAxis{Name: fig.Layout.XAxis.Title.Text, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:  chart.YAxis{Name: fig.Layout.YAxis.Title.Text, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: []float64{0, 1}, YValues: []float64{0, 1}, Style: hidden},
		},
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return errors.Wrapf(err, "charts: render %s", fig.Name)
	}
	return nil
}

// colorBars maps scale onto the viridis palette
func colorBars(bars []chart.Value, scale []float64) {
	lo, hi := valueRange(scale)
	if hi == lo {
		hi = lo + 1
	}
	for i := range bars {
		col := chart.Viridis(scale[i], lo, hi)
		bars[i].Style = chart.Style{FillColor: col, StrokeColor: col}
	}
}

func heightOf(fig *Figure) int {
	if fig.Layout.Height > 0 {
		return fig.Layout.Height
	}
	return svgHeight
}

func barChartWidth(n int) int {
	width := n*(minBarWidth+20) + 200
	if width < svgWidth {
		return svgWidth
	}
	return width
}

func markerColor(m *Marker) drawing.Color {
	if m != nil {
		if name, ok := m.Color.(string); ok && name == "red" {
			return drawing.ColorRed
		}
	}
	return chart.ColorBlue
}

func valueRange(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func dateTicks(from, to time.Time, n int) []chart.Tick {
	step := to.Sub(from) / time.Duration(n)
	ticks := make([]chart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		t := from.Add(step * time.Duration(i))
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format(DateFormat)})
	}
	return ticks
}

// categories maps labels to y positions in order of first appearance
type categories struct {
	order []string
	pos   map[string]int
}

func newCategories() *categories {
	return &categories{pos: make(map[string]int)}
}

func (c *categories) index(label string) float64 {
	i, ok := c.pos[label]
	if !ok {
		i = len(c.order)
		c.pos[label] = i
		c.order = append(c.order, label)
	}
	return float64(i)
}

func (c *categories) len() int {
	return len(c.order)
}

func (c *categories) ticks() []chart.Tick {
	ticks := make([]chart.Tick, len(c.order))
	for i, label := range c.order {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	return ticks
}
