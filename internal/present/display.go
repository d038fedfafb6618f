package present

import (
	"fmt"

	"EarnChart/internal/domain/models"
	"EarnChart/internal/window"
)

// Card is one stat card under the chart.
type Card struct {
	Label string
	Value string
	Sub   string
	// Trend is nil for cards without a direction.
	Trend *Trend
}

// Display is everything the UI shows for one series under one window.
type Display struct {
	Ticker        string
	Window        window.Window
	Headline      string
	HeadlineTrend Trend
	Period        string
	EarningsDate  string
	LatestDate    string
	Cards         []Card
	HasData       bool
}

const noWindowData = "No data in window"

// Build formats a series and its current view. Headline values always come from the series,
// range values from the view.
func Build(s *models.EarningsSeries, w window.Window, view models.DerivedStats) Display {
	d := Display{
		Ticker:       s.Ticker,
		Window:       w,
		Headline:     OptionalPercent(s.PriceChangePct),
		EarningsDate: s.EarningsDate.Format(models.DateLayout),
		LatestDate:   s.LatestDate.Format(models.DateLayout),
		HasData:      !view.Empty,
	}
	if s.PriceChangePct != nil {
		d.HeadlineTrend = TrendOf(*s.PriceChangePct)
	}

	if first, ok := view.First(); ok {
		d.Period = fmt.Sprintf("Trading Period: %s to %s", first.Date.Format(models.DateLayout), d.LatestDate)
	} else {
		d.Period = noWindowData
	}

	nextDay := Card{Label: "1-Day Change", Value: OptionalPercent(s.NextDayChangePct)}
	if s.NextDayChangePct != nil {
		tr := TrendOf(*s.NextDayChangePct)
		nextDay.Trend = &tr
	}

	rangeCard := Card{Label: "Price Range", Value: NotAvailable, Sub: noWindowData}
	if !view.Empty {
		rangeCard.Value = Currency(view.Range)
		rangeCard.Sub = fmt.Sprintf("Min: %s | Max: %s", Currency(view.Min), Currency(view.Max))
	}

	d.Cards = []Card{
		{Label: "Earnings Price", Value: Currency(s.EarningsPrice), Sub: "on " + d.EarningsDate},
		{Label: "Latest Price", Value: Currency(s.LatestPrice), Sub: "on " + d.LatestDate},
		nextDay,
		rangeCard,
	}
	return d
}
