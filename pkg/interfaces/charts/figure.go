// Package charts turns dashboard result sets into chart specifications.
//
// A Figure marshals to the {"data": [...], "layout": {...}} shape accepted by
// Plotly.newPlot, and can also be drawn server-side with RenderSVG.
package charts

import "encoding/json"

// Trace types
const (
	TypeScatter = "scatter"
	TypeBar     = "bar"
)

// Chart names, used as export file names and in /charts/{name}.svg
const (
	NameExpiry        = "expiry"
	NameTimeToMarket  = "time-to-market"
	NameTopQuantities = "top-quantities"
	NameProductExpiry = "product-expiry"
	NameLabelQuantity = "label-quantities"
)

// Figure is one chart: its traces and layout
type Figure struct {
	Name   string  `json:"-"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Title returns the layout title text
func (f *Figure) Title() string {
	return f.Layout.Title.Text
}

// JSON encodes the figure for Plotly.newPlot
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// Trace holds the values of one series. X and Y carry strings for category
// and date axes and numbers for value axes.
type Trace struct {
	Type          string          `json:"type"`
	Mode          string          `json:"mode,omitempty"`
	Name          string          `json:"name,omitempty"`
	Orientation   string          `json:"orientation,omitempty"`
	X             []interface{}   `json:"x"`
	Y             []interface{}   `json:"y"`
	Text          []string        `json:"text,omitempty"`
	TextPosition  string          `json:"textposition,omitempty"`
	CustomData    [][]interface{} `json:"customdata,omitempty"`
	HoverTemplate string          `json:"hovertemplate,omitempty"`
	Marker        *Marker         `json:"marker,omitempty"`
}

// Horizontal reports whether the bars run along the x axis
func (t *Trace) Horizontal() bool {
	return t.Orientation == "h"
}

// Marker styles the points or bars of a trace. Color is either one CSS color
// or one number per point mapped through ColorScale.
type Marker struct {
	Size       int         `json:"size,omitempty"`
	Color      interface{} `json:"color,omitempty"`
	ColorScale string      `json:"colorscale,omitempty"`
	ShowScale  bool        `json:"showscale,omitempty"`
	ColorBar   *ColorBar   `json:"colorbar,omitempty"`
}

type ColorBar struct {
	Title Title `json:"title"`
}

type Title struct {
	Text string `json:"text,omitempty"`
}

// Layout is the subset of the Plotly layout the dashboard sets
type Layout struct {
	Title  Title `json:"title"`
	Height int   `json:"height,omitempty"`
	XAxis  Axis  `json:"xaxis"`
	YAxis  Axis  `json:"yaxis"`
}

type Axis struct {
	Title      Title  `json:"title"`
	Type       string `json:"type,omitempty"`
	TickFormat string `json:"tickformat,omitempty"`
	TickAngle  int    `json:"tickangle,omitempty"`
	AutoMargin bool   `json:"automargin,omitempty"`
}
