package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire and in the UI.
const DateLayout = "2006-01-02"

// PricePoint is one daily close. Date is a UTC midnight calendar date.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// EarningsSeries is the ingested dataset for one ticker/earnings-date query.
// Full is owned by the series and must not be modified after ingestion; use Points.
type EarningsSeries struct {
	Ticker        string
	EarningsDate  time.Time
	LatestDate    time.Time
	EarningsPrice decimal.Decimal
	LatestPrice   decimal.Decimal

	// Headline metrics over the full series, never recomputed per window.
	PriceChangePct   *decimal.Decimal
	NextDayChangePct *decimal.Decimal

	full []PricePoint
}

// NewEarningsSeries takes ownership of points, which must already be validated and ascending.
func NewEarningsSeries(ticker string, earnings time.Time, points []PricePoint) *EarningsSeries {
	s := &EarningsSeries{Ticker: ticker, EarningsDate: earnings, full: points}
	if n := len(points); n > 0 {
		s.LatestDate = points[n-1].Date
		s.LatestPrice = points[n-1].Price
	}
	return s
}

// Points returns a copy of the full sequence.
func (s *EarningsSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.full))
	copy(out, s.full)
	return out
}

// Len returns the number of points in the full sequence.
func (s *EarningsSeries) Len() int { return len(s.full) }

// At returns the i-th point of the full sequence.
func (s *EarningsSeries) At(i int) PricePoint { return s.full[i] }

// DerivedStats is the view of a series under one window. It is recomputed, never stored.
type DerivedStats struct {
	Filtered []PricePoint
	Min      decimal.Decimal
	Max      decimal.Decimal
	Range    decimal.Decimal
	// Empty reports that no point fell inside the window; Min/Max/Range are meaningless then.
	Empty bool
}

// First returns the earliest filtered point.
func (d DerivedStats) First() (PricePoint, bool) {
	if len(d.Filtered) == 0 {
		return PricePoint{}, false
	}
	return d.Filtered[0], true
}

// Last returns the latest filtered point.
func (d DerivedStats) Last() (PricePoint, bool) {
	if len(d.Filtered) == 0 {
		return PricePoint{}, false
	}
	return d.Filtered[len(d.Filtered)-1], true
}
