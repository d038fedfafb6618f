package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"EarnChart/internal/domain/models"
	"EarnChart/pkg/util"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedSeries = errors.New("analytics: malformed series")
	ErrEmptySeries     = errors.New("analytics: series has no points")
)

var hundred = decimal.NewFromInt(100)

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return util.ParseDate(s)
}

// Ingest validates a chart response and builds the immutable series from it.
// Any malformed date, negative price or ordering violation rejects the whole response.
// Headline percentages come from the response, where they were computed before the prices
// were rounded. They are derived from the points only when the response omits them.
func Ingest(raw *models.ChartResponse) (*models.EarningsSeries, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil response", ErrMalformedSeries)
	}
	ticker := util.NormalizeTicker(raw.Ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: missing ticker", ErrMalformedSeries)
	}
	earnings, err := ParseDate(raw.EarningsDate)
	if err != nil {
		return nil, fmt.Errorf("%w: earnings_date %q", ErrMalformedSeries, raw.EarningsDate)
	}
	if len(raw.Data) == 0 {
		return nil, ErrEmptySeries
	}

	points := make([]models.PricePoint, 0, len(raw.Data))
	dates := make([]time.Time, 0, len(raw.Data))
	for i, p := range raw.Data {
		d, err := ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: point %d has date %q", ErrMalformedSeries, i, p.Date)
		}
		if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, fmt.Errorf("%w: point %d has price %v", ErrMalformedSeries, i, p.Price)
		}
		if i > 0 && !d.After(dates[i-1]) {
			return nil, fmt.Errorf("%w: point %d (%s) is not after %s", ErrMalformedSeries, i, p.Date, dates[i-1].Format(models.DateLayout))
		}
		points = append(points, models.PricePoint{Date: d, Price: decimal.NewFromFloat(p.Price)})
		dates = append(dates, d)
	}

	idx := NearestIndex(dates, earnings)
	s := models.NewEarningsSeries(ticker, points[idx].Date, points)
	s.EarningsPrice = points[idx].Price

	if raw.PriceChangePct != nil {
		s.PriceChangePct = fromWire(raw.PriceChangePct)
		// The next-day value travels with the headline; null means there is none.
		s.NextDayChangePct = fromWire(raw.NextDayChangePct)
		return s, nil
	}
	s.PriceChangePct = PercentChange(s.EarningsPrice, s.LatestPrice)
	if idx+1 < s.Len() {
		s.NextDayChangePct = PercentChange(s.EarningsPrice, s.At(idx+1).Price)
	}
	return s, nil
}

func fromWire(v *float64) *decimal.Decimal {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

// PercentChange returns (to-from)/from*100, or nil when from is zero.
func PercentChange(from, to decimal.Decimal) *decimal.Decimal {
	if from.IsZero() {
		return nil
	}
	pct := to.Sub(from).Div(from).Mul(hundred)
	return &pct
}
