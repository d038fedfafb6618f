package analytics

import (
	"time"

	"EarnChart/internal/domain/models"
	"EarnChart/internal/window"
)

// ComputeView slices the series to w and derives min, max and range over the slice.
// It is pure: the series is not modified and equal inputs give equal output.
// All (and anything outside the enumeration) returns the full sequence untouched.
func ComputeView(s *models.EarningsSeries, w window.Window) models.DerivedStats {
	if s == nil || s.Len() == 0 {
		return models.DerivedStats{Empty: true}
	}

	points := s.Points()
	if cutoff, ok := Cutoff(s, w); ok {
		filtered := make([]models.PricePoint, 0, len(points))
		for _, p := range points {
			if !p.Date.Before(cutoff) {
				filtered = append(filtered, p)
			}
		}
		points = filtered
	}

	if len(points) == 0 {
		return models.DerivedStats{Filtered: points, Empty: true}
	}

	lo, hi := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		if p.Price.LessThan(lo) {
			lo = p.Price
		}
		if p.Price.GreaterThan(hi) {
			hi = p.Price
		}
	}
	return models.DerivedStats{
		Filtered: points,
		Min:      lo,
		Max:      hi,
		Range:    hi.Sub(lo),
	}
}

// Cutoff returns the inclusive lower date bound of w for the series, and false for All.
func Cutoff(s *models.EarningsSeries, w window.Window) (time.Time, bool) {
	days, ok := w.Days()
	if !ok || s == nil || s.Len() == 0 {
		return time.Time{}, false
	}
	return s.LatestDate.AddDate(0, 0, -days), true
}
