package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"EarnChart/internal/analytics"
	"EarnChart/internal/client"
	"EarnChart/internal/domain/models"
	"EarnChart/internal/export"
	"EarnChart/internal/session"
	"EarnChart/internal/window"
	"EarnChart/pkg/config"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	err error
}

func (f fakeFetcher) Fetch(_ context.Context, ticker, date string) (*models.EarningsSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return analytics.Ingest(&models.ChartResponse{
		Ticker:       ticker,
		EarningsDate: date,
		Data: []models.ChartPoint{
			{Date: "2024-01-10", Price: 100},
			{Date: "2024-05-01", Price: 150},
			{Date: "2024-06-10", Price: 160},
		},
	})
}

func newTestShell(t *testing.T, f session.Fetcher) (*shell, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	out := &bytes.Buffer{}
	cfg := config.Default()
	return &shell{
		state:     session.New(),
		fetcher:   f,
		exporter:  export.NewExporter(export.DirSink{Dir: t.TempDir()}, export.WithScale(1)),
		newRegion: regionFactory(cfg),
		out:       out,
	}, out
}

func TestShell_FetchWindowShow(t *testing.T) {
	sh, out := newTestShell(t, fakeFetcher{})
	ctx := context.Background()

	assert.False(t, sh.exec(ctx, "fetch aapl 2024-01-10"))
	sh.wait()
	assert.Contains(t, out.String(), "Loading AAPL around 2024-01-10")
	assert.Contains(t, out.String(), "+60.00%")
	assert.Contains(t, out.String(), "Trading Period: 2024-01-10 to 2024-06-10")

	out.Reset()
	assert.False(t, sh.exec(ctx, "window 1m"))
	assert.Equal(t, window.OneMonth, sh.state.Window())
	assert.Contains(t, out.String(), "[1M]")
	assert.Contains(t, out.String(), "+60.00%", "headline unchanged by window")

	out.Reset()
	sh.exec(ctx, "window 2W")
	assert.Contains(t, out.String(), "unknown selection")
}

func TestShell_FetchError(t *testing.T) {
	sh, out := newTestShell(t, fakeFetcher{err: &client.FetchError{Status: 404, Detail: "No data found for ticker 'ZZZZ'."}})

	sh.exec(context.Background(), "fetch zzzz 2024-01-10")
	sh.wait()
	assert.Contains(t, out.String(), "No data found for ticker 'ZZZZ'.")
}

func TestShell_Export(t *testing.T) {
	sh, out := newTestShell(t, fakeFetcher{})
	ctx := context.Background()

	sh.exec(ctx, "export")
	assert.Contains(t, out.String(), "Nothing to export yet.")

	sh.exec(ctx, "fetch AAPL 2024-01-10")
	sh.wait()
	out.Reset()
	sh.exec(ctx, "export")
	assert.Contains(t, out.String(), "AAPL-earnings-analysis.png")
}

func TestShell_Commands(t *testing.T) {
	sh, out := newTestShell(t, fakeFetcher{})
	ctx := context.Background()

	assert.False(t, sh.exec(ctx, ""))
	assert.False(t, sh.exec(ctx, "show"))
	assert.Contains(t, out.String(), "Enter a ticker")

	assert.False(t, sh.exec(ctx, "help"))
	assert.Contains(t, out.String(), "window <1M|3M|6M|ALL>")

	assert.False(t, sh.exec(ctx, "fetch AAPL"))
	assert.Contains(t, out.String(), "usage: fetch")

	assert.False(t, sh.exec(ctx, "dance"))
	assert.Contains(t, out.String(), `unknown command "dance"`)

	assert.True(t, sh.exec(ctx, "QUIT"))
}

func TestRunOnce(t *testing.T) {
	sh, out := newTestShell(t, fakeFetcher{})
	require.NoError(t, runOnce(context.Background(), sh, "aapl", "2024-01-10", "3m", false))
	assert.Equal(t, window.ThreeMonths, sh.state.Window())
	assert.True(t, strings.HasPrefix(out.String(), "AAPL"))

	err := runOnce(context.Background(), sh, "aapl", "2024-01-10", "5Y", false)
	require.ErrorIs(t, err, window.ErrUnknownWindow)

	sh, _ = newTestShell(t, fakeFetcher{err: context.DeadlineExceeded})
	err = runOnce(context.Background(), sh, "aapl", "2024-01-10", "ALL", false)
	require.EqualError(t, err, session.FallbackMessage)
}
