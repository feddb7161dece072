package charts

import (
	"fmt"
	"strconv"

	"github.com/vsinha/pharmadash/pkg/application/dto"
)

// DateFormat is the layout of dates on expiry axes
const DateFormat = "2006-01-02"

const (
	expiryHeight        = 500
	labelQuantityHeight = 700
	markerSize          = 15
	tickAngle           = -45
)

// ScatterOptions tunes an expiry scatter
type ScatterOptions struct {
	Name   string
	Height int
	// Color is a single CSS color for every marker; empty leaves the default
	Color string
	// HoverDetails adds the batch number and quantity to the hover text
	HoverDetails bool
}

// ExpiryScatter plots one marker per batch at (expiry date, label). Points are
// drawn in the order given.
func ExpiryScatter(title string, points []dto.ExpiryPoint, opts ScatterOptions) *Figure {
	trace := Trace{
		Type:   TypeScatter,
		Mode:   "markers",
		X:      make([]interface{}, len(points)),
		Y:      make([]interface{}, len(points)),
		Marker: &Marker{Size: markerSize},
	}
	if opts.Color != "" {
		trace.Marker.Color = opts.Color
	}

	for i, p := range points {
		trace.X[i] = p.ExpiryDate.Format(DateFormat)
		trace.Y[i] = p.Label
	}

	if opts.HoverDetails {
		trace.CustomData = make([][]interface{}, len(points))
		for i, p := range points {
			trace.CustomData[i] = []interface{}{string(p.BatchNumber), int64(p.Quantity)}
		}
		trace.HoverTemplate = "Expiry Date=%{x}<br>Label=%{y}<br>" +
			"batch_number=%{customdata[0]}<br>quantity=%{customdata[1]}<extra></extra>"
	}

	return &Figure{
		Name: opts.Name,
		Data: []Trace{trace},
		Layout: Layout{
			Title:  Title{Text: title},
			Height: opts.Height,
			XAxis: Axis{
				Title:      Title{Text: "Expiry Date"},
				Type:       "date",
				TickFormat: "%Y-%m-%d",
				TickAngle:  tickAngle,
			},
			YAxis: Axis{
				Title:      Title{Text: "Label"},
				Type:       "category",
				AutoMargin: true,
			},
		},
	}
}

// OverviewExpiry is the red scatter of batches expiring inside the window
func OverviewExpiry(points []dto.ExpiryPoint) *Figure {
	return ExpiryScatter("Item Expiry Dates", points, ScatterOptions{
		Name:   NameExpiry,
		Height: expiryHeight,
		Color:  "red",
	})
}

// ProductExpiry is the scatter of every batch of one product
func ProductExpiry(product string, points []dto.ExpiryPoint) *Figure {
	return ExpiryScatter(fmt.Sprintf("Expiry Dates for %s", product), points, ScatterOptions{
		Name:         NameProductExpiry,
		HoverDetails: true,
	})
}

// TimeToMarketBar draws one vertical bar per product colored by its average
func TimeToMarketBar(rows []dto.TimeToMarket) *Figure {
	x := make([]interface{}, len(rows))
	y := make([]interface{}, len(rows))
	colors := make([]float64, len(rows))
	for i, row := range rows {
		days := row.AverageDays.InexactFloat64()
		x[i] = row.Product
		y[i] = days
		colors[i] = days
	}

	return &Figure{
		Name: NameTimeToMarket,
		Data: []Trace{{
			Type: TypeBar,
			X:    x,
			Y:    y,
			Marker: &Marker{
				Color:      colors,
				ColorScale: "Plasma",
				ShowScale:  true,
				ColorBar:   &ColorBar{Title: Title{Text: "Days"}},
			},
		}},
		Layout: Layout{
			Title: Title{Text: "Average Time to Market by Product"},
			XAxis: Axis{Title: Title{Text: "Product"}, Type: "category"},
			YAxis: Axis{Title: Title{Text: "Average Time to Market (days)"}},
		},
	}
}

// TopQuantityBar draws the ranked (product id, label) totals as horizontal
// bars. rows are ascending so the largest total ends up on top.
func TopQuantityBar(rows []dto.QuantityTotal) *Figure {
	trace := quantityTrace(rows)
	colors := make([]float64, len(rows))
	for i, row := range rows {
		colors[i] = float64(row.TotalQuantity)
	}
	trace.Marker = &Marker{
		Color:      colors,
		ColorScale: "Viridis",
		ShowScale:  true,
		ColorBar:   &ColorBar{Title: Title{Text: "Total Quantity"}},
	}

	return &Figure{
		Name: NameTopQuantities,
		Data: []Trace{trace},
		Layout: Layout{
			Title: Title{Text: "Top 10 Products by Total Quantity"},
			XAxis: Axis{Title: Title{Text: "Total Quantity"}, TickAngle: tickAngle},
			YAxis: Axis{Title: Title{Text: "Product Label"}, Type: "category", AutoMargin: true},
		},
	}
}

// LabelQuantityBar draws the per-label totals of one product
func LabelQuantityBar(product string, rows []dto.QuantityTotal) *Figure {
	return &Figure{
		Name: NameLabelQuantity,
		Data: []Trace{quantityTrace(rows)},
		Layout: Layout{
			Title:  Title{Text: product},
			Height: labelQuantityHeight,
			XAxis:  Axis{Title: Title{Text: "Total Quantity"}, TickAngle: tickAngle},
			YAxis:  Axis{Title: Title{Text: "Label"}, Type: "category", AutoMargin: true},
		},
	}
}

func quantityTrace(rows []dto.QuantityTotal) Trace {
	trace := Trace{
		Type:         TypeBar,
		Orientation:  "h",
		X:            make([]interface{}, len(rows)),
		Y:            make([]interface{}, len(rows)),
		Text:         make([]string, len(rows)),
		TextPosition: "auto",
	}
	for i, row := range rows {
		trace.X[i] = int64(row.TotalQuantity)
		trace.Y[i] = category(row)
		trace.Text[i] = strconv.FormatInt(int64(row.TotalQuantity), 10)
	}
	return trace
}

// category names one bar. Totals grouped by (product id, label) carry the
// product id so that two products sharing a label stay on separate bars.
func category(row dto.QuantityTotal) string {
	if row.ProductID == "" {
		return row.Label
	}
	return row.ProductID + " " + row.Label
}

// Overview returns the figures of the first tab in page order
func Overview(overview *dto.Overview) []*Figure {
	return []*Figure{
		OverviewExpiry(overview.Expiring),
		TimeToMarketBar(overview.TimeToMarket),
		TopQuantityBar(overview.TopQuantities),
	}
}

// ProductView returns the figures of the second tab in page order
func ProductView(view *dto.ProductView) []*Figure {
	return []*Figure{
		ProductExpiry(view.Product, view.Expiry),
		LabelQuantityBar(view.Product, view.LabelQuantities),
	}
}

// Find returns the figure called name, or nil
func Find(figures []*Figure, name string) *Figure {
	for _, f := range figures {
		if f.Name == name {
			return f
		}
	}
	return nil
}
