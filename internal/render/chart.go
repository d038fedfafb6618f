package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"EarnChart/internal/domain/models"
	"EarnChart/internal/present"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 420

	bandLabel = "Post-Earnings"
)

var ErrNoData = errors.New("render: no points to draw")

var (
	lineColor  = drawing.ColorFromHex("FE0018")
	bandColor  = drawing.Color{R: 110, G: 110, B: 130, A: 36}
	labelColor = drawing.Color{R: 110, G: 110, B: 130, A: 255}
)

// Options controls raster output.
type Options struct {
	Width  int
	Height int
	// Scale multiplies pixel density; 1 is screen resolution.
	Scale      float64
	ShowHeader bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	return o
}

// Chart is the drawable form of one windowed view.
type Chart struct {
	Ticker       string
	EarningsDate time.Time
	LatestDate   time.Time
	Points       []models.PricePoint
}

// NewChart draws the filtered points of view against the series' earnings date.
func NewChart(s *models.EarningsSeries, view models.DerivedStats) Chart {
	return Chart{
		Ticker:       s.Ticker,
		EarningsDate: s.EarningsDate,
		LatestDate:   s.LatestDate,
		Points:       view.Filtered,
	}
}

// Title is the export-only header line.
func (c Chart) Title() string {
	return fmt.Sprintf("%s Earnings Analysis", c.Ticker)
}

// Subtitle is the export-only date line.
func (c Chart) Subtitle() string {
	return fmt.Sprintf("Earnings %s · Latest %s", c.EarningsDate.Format(models.DateLayout), c.LatestDate.Format(models.DateLayout))
}

// Band returns the shaded post-earnings span. It starts at the earnings date, clamped to the
// first drawn point, and ends at the last drawn point. ok is false when nothing after the
// earnings date is drawn.
func (c Chart) Band() (start, end time.Time, ok bool) {
	if len(c.Points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last := c.Points[0].Date, c.Points[len(c.Points)-1].Date
	if !last.After(c.EarningsDate) {
		return time.Time{}, time.Time{}, false
	}
	start = c.EarningsDate
	if first.After(start) {
		start = first
	}
	if !last.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, last, true
}

// PNG renders the chart.
func (c Chart) PNG(opts Options) ([]byte, error) {
	if len(c.Points) == 0 {
		return nil, ErrNoData
	}
	opts = opts.withDefaults()

	xs := make([]time.Time, len(c.Points))
	ys := make([]float64, len(c.Points))
	lo, hi := c.Points[0].Price, c.Points[0].Price
	for i, p := range c.Points {
		xs[i] = p.Date
		ys[i] = p.Price.InexactFloat64()
		if p.Price.LessThan(lo) {
			lo = p.Price
		}
		if p.Price.GreaterThan(hi) {
			hi = p.Price
		}
	}
	yMin, yMax := yBounds(lo, hi)

	line := chart.TimeSeries{
		Name:    c.Ticker,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2,
		},
	}
	// A single close has no segment to stroke.
	if len(c.Points) == 1 {
		line.Style.DotColor = lineColor
		line.Style.DotWidth = 4
	}

	series := []chart.Series{}
	if start, end, ok := c.Band(); ok {
		series = append(series,
			chart.TimeSeries{
				Name:    bandLabel,
				XValues: []time.Time{start, end},
				YValues: []float64{yMax, yMax},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					FillColor:   bandColor,
				},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{
					XValue: chart.TimeToFloat64(start),
					YValue: yMax,
					Label:  bandLabel,
				}},
				Style: chart.Style{
					FontColor:   labelColor,
					StrokeColor: drawing.ColorTransparent,
					FillColor:   drawing.ColorWhite,
				},
			},
		)
	}
	series = append(series, line)

	xAxis := chart.XAxis{
		ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 06"),
	}
	if len(c.Points) == 1 {
		pad := 24 * time.Hour
		xAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(xs[0].Add(-pad)),
			Max: chart.TimeToFloat64(xs[0].Add(pad)),
		}
	}

	ch := chart.Chart{
		Width:      int(float64(opts.Width) * opts.Scale),
		Height:     int(float64(opts.Height) * opts.Scale),
		DPI:        chart.DefaultDPI * opts.Scale,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: dollarFormatter,
		},
		Series: series,
	}
	if opts.ShowHeader {
		ch.Title = c.Title() + "  |  " + c.Subtitle()
		ch.Background.Padding.Top = 56
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// yBounds pads the price range by 5% on each side, or by a dollar when it is flat.
func yBounds(lo, hi decimal.Decimal) (float64, float64) {
	pad := hi.Sub(lo).Mul(decimal.NewFromFloat(0.05))
	if pad.IsZero() {
		pad = decimal.NewFromInt(1)
	}
	return lo.Sub(pad).InexactFloat64(), hi.Add(pad).InexactFloat64()
}

func dollarFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return present.Currency(decimal.NewFromFloat(f))
	}
	return ""
}
