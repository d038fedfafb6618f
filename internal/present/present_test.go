package present

import (
	"bytes"
	"testing"

	"EarnChart/internal/analytics"
	"EarnChart/internal/domain/models"
	"EarnChart/internal/window"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"185.5", "$185.50"},
		{"0", "$0.00"},
		{"12.345", "$12.35"},
		{"1000", "$1000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4.2", "+4.20%"},
		{"0", "+0.00%"},
		{"-1.054", "-1.05%"},
		{"10.006", "+10.01%"},
		{"-0.001", "-0.00%"},
		{"-0.004999", "-0.00%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(decimal.RequireFromString(tt.in)))
		})
	}
	assert.Equal(t, NotAvailable, OptionalPercent(nil))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendUp, TrendOf(decimal.RequireFromString("0.01")))
	assert.Equal(t, TrendDown, TrendOf(decimal.RequireFromString("-0.01")))
	assert.Equal(t, TrendFlat, TrendOf(decimal.Zero))

	assert.True(t, TrendUp.Positive())
	assert.True(t, TrendFlat.Positive(), "zero is styled as positive")
	assert.False(t, TrendDown.Positive())
	assert.NotEqual(t, TrendUp.Indicator(), TrendFlat.Indicator())
}

func testSeries(t *testing.T, points ...models.ChartPoint) *models.EarningsSeries {
	t.Helper()
	s, err := analytics.Ingest(&models.ChartResponse{Ticker: "AAPL", EarningsDate: points[0].Date, Data: points})
	require.NoError(t, err)
	return s
}

func TestBuild(t *testing.T) {
	s := testSeries(t,
		models.ChartPoint{Date: "2024-01-10", Price: 100},
		models.ChartPoint{Date: "2024-01-11", Price: 98},
		models.ChartPoint{Date: "2024-06-10", Price: 112.5},
	)
	view := analytics.ComputeView(s, window.All)

	d := Build(s, window.All, view)
	assert.Equal(t, "AAPL", d.Ticker)
	assert.Equal(t, "+12.50%", d.Headline)
	assert.Equal(t, TrendUp, d.HeadlineTrend)
	assert.Equal(t, "Trading Period: 2024-01-10 to 2024-06-10", d.Period)
	assert.True(t, d.HasData)

	require.Len(t, d.Cards, 4)
	assert.Equal(t, "$100.00", d.Cards[0].Value)
	assert.Equal(t, "on 2024-01-10", d.Cards[0].Sub)
	assert.Equal(t, "$112.50", d.Cards[1].Value)
	assert.Equal(t, "-2.00%", d.Cards[2].Value)
	require.NotNil(t, d.Cards[2].Trend)
	assert.Equal(t, TrendDown, *d.Cards[2].Trend)
	assert.Equal(t, "$14.50", d.Cards[3].Value)
	assert.Equal(t, "Min: $98.00 | Max: $112.50", d.Cards[3].Sub)
}

func TestBuild_WindowChangesRangeNotHeadline(t *testing.T) {
	s := testSeries(t,
		models.ChartPoint{Date: "2024-01-10", Price: 100},
		models.ChartPoint{Date: "2024-01-11", Price: 98},
		models.ChartPoint{Date: "2024-06-01", Price: 110},
		models.ChartPoint{Date: "2024-06-10", Price: 112.5},
	)

	all := Build(s, window.All, analytics.ComputeView(s, window.All))
	month := Build(s, window.OneMonth, analytics.ComputeView(s, window.OneMonth))

	assert.Equal(t, all.Headline, month.Headline)
	assert.Equal(t, all.Cards[2].Value, month.Cards[2].Value)
	assert.Equal(t, "$2.50", month.Cards[3].Value)
	assert.Equal(t, "Trading Period: 2024-06-01 to 2024-06-10", month.Period)
}

func TestBuild_MissingNextDayAndEmptyView(t *testing.T) {
	s := testSeries(t, models.ChartPoint{Date: "2024-01-10", Price: 100})

	d := Build(s, window.All, models.DerivedStats{Empty: true})
	assert.False(t, d.HasData)
	assert.Equal(t, NotAvailable, d.Cards[2].Value)
	assert.Nil(t, d.Cards[2].Trend)
	assert.Equal(t, NotAvailable, d.Cards[3].Value)
	assert.Equal(t, "No data in window", d.Cards[3].Sub)
}

func TestPrint(t *testing.T) {
	color.NoColor = true
	s := testSeries(t,
		models.ChartPoint{Date: "2024-01-10", Price: 100},
		models.ChartPoint{Date: "2024-01-11", Price: 101},
	)
	d := Build(s, window.ThreeMonths, analytics.ComputeView(s, window.ThreeMonths))

	var buf bytes.Buffer
	Print(&buf, d)
	out := buf.String()
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "▲ +1.00%")
	assert.Contains(t, out, "[3M]")
	assert.Contains(t, out, "EARNINGS PRICE")
	assert.Contains(t, out, "$100.00")
}
