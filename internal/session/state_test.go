package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"EarnChart/internal/analytics"
	"EarnChart/internal/client"
	"EarnChart/internal/domain/models"
	"EarnChart/internal/export"
	"EarnChart/internal/present"
	"EarnChart/internal/render"
	"EarnChart/internal/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(t *testing.T) *models.EarningsSeries {
	t.Helper()
	s, err := analytics.Ingest(&models.ChartResponse{
		Ticker:       "AAPL",
		EarningsDate: "2024-01-10",
		Data: []models.ChartPoint{
			{Date: "2024-01-10", Price: 100},
			{Date: "2024-05-01", Price: 150},
			{Date: "2024-06-01", Price: 140},
			{Date: "2024-06-10", Price: 160},
		},
	})
	require.NoError(t, err)
	return s
}

type fetchFunc func(ctx context.Context, ticker, date string) (*models.EarningsSeries, error)

func (f fetchFunc) Fetch(ctx context.Context, ticker, date string) (*models.EarningsSeries, error) {
	return f(ctx, ticker, date)
}

func TestBegin_IncompleteInputIsNoop(t *testing.T) {
	s := New()
	req, ok := s.Begin("aapl", "2024-01-10")
	require.True(t, ok)
	require.True(t, s.Complete(req, testSeries(t), nil))
	before := s.Snapshot()

	for _, in := range [][2]string{{"", "2024-01-10"}, {"AAPL", " "}, {"  ", ""}} {
		_, ok := s.Begin(in[0], in[1])
		assert.False(t, ok)
	}
	assert.Equal(t, before, s.Snapshot())
	assert.NotNil(t, s.Series())
}

func TestBegin_ClearsAndResets(t *testing.T) {
	s := New()
	req, _ := s.Begin("AAPL", "2024-01-10")
	s.Complete(req, testSeries(t), nil)
	require.NoError(t, s.SetWindow(window.OneMonth))

	req, ok := s.Begin(" msft ", "2024-04-25")
	require.True(t, ok)
	assert.Equal(t, "MSFT", req.Ticker)

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.HasSeries)
	assert.Empty(t, snap.Err)
	assert.Equal(t, window.All, snap.Window)
}

func TestComplete_Success(t *testing.T) {
	s := New()
	req, _ := s.Begin("aapl", "2024-01-10")
	require.NoError(t, s.SetWindow(window.ThreeMonths))

	require.True(t, s.Complete(req, testSeries(t), nil))
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.HasSeries)
	assert.Equal(t, window.All, snap.Window, "window resets on a new series")
}

func TestComplete_FailureMessages(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"server detail": {&client.FetchError{Status: 404, Detail: "No data found for ticker 'ZZZZ'."}, "No data found for ticker 'ZZZZ'."},
		"no detail":     {&client.FetchError{Status: 502, Err: errors.New("bad gateway")}, FallbackMessage},
		"plain error":   {errors.New("dial tcp: refused"), FallbackMessage},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := New()
			req, _ := s.Begin("AAPL", "2024-01-10")
			s.Complete(req, testSeries(t), nil)

			req, _ = s.Begin("ZZZZ", "2024-01-10")
			require.True(t, s.Complete(req, nil, tc.err))

			snap := s.Snapshot()
			assert.Equal(t, tc.want, snap.Err)
			assert.False(t, snap.Loading)
			assert.False(t, snap.HasSeries, "prior results stay cleared")
		})
	}
}

func TestComplete_DiscardsStaleResponse(t *testing.T) {
	s := New()
	first, _ := s.Begin("AAPL", "2024-01-10")
	second, _ := s.Begin("MSFT", "2024-01-10")

	assert.False(t, s.Complete(first, testSeries(t), nil))
	snap := s.Snapshot()
	assert.True(t, snap.Loading, "still waiting for the latest request")
	assert.False(t, snap.HasSeries)
	assert.Equal(t, "MSFT", snap.Ticker)

	assert.True(t, s.Complete(second, nil, errors.New("boom")))
	assert.False(t, s.Complete(second, testSeries(t), nil), "a request completes once")
	assert.Equal(t, FallbackMessage, s.Snapshot().Err)

	assert.False(t, New().Complete(Request{}, testSeries(t), nil))
}

func TestSubmit(t *testing.T) {
	s := New()
	var gotTicker string
	err := s.Submit(context.Background(), fetchFunc(func(_ context.Context, ticker, _ string) (*models.EarningsSeries, error) {
		gotTicker = ticker
		return testSeries(t), nil
	}), "aapl", "2024-01-10")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", gotTicker)
	assert.True(t, s.Snapshot().HasSeries)

	require.NoError(t, s.Submit(context.Background(), nil, "", ""), "incomplete input never calls the fetcher")
}

func TestViewAndDisplay(t *testing.T) {
	s := New()
	_, _, _, ok := s.View()
	assert.False(t, ok)
	_, ok = s.Display()
	assert.False(t, ok)

	req, _ := s.Begin("AAPL", "2024-01-10")
	s.Complete(req, testSeries(t), nil)

	_, w, all, ok := s.View()
	require.True(t, ok)
	assert.Equal(t, window.All, w)
	assert.Len(t, all.Filtered, 4)

	require.NoError(t, s.SetWindow(window.OneMonth))
	_, w, month, _ := s.View()
	assert.Equal(t, window.OneMonth, w)
	assert.Len(t, month.Filtered, 2)
	assert.Equal(t, "20", month.Range.String())

	d, ok := s.Display()
	require.True(t, ok)
	assert.Equal(t, "+60.00%", d.Headline, "headline ignores the window")
	assert.Equal(t, window.OneMonth, d.Window)

	assert.ErrorIs(t, s.SetWindow("2W"), window.ErrUnknownWindow)
	assert.Equal(t, window.OneMonth, s.Window())
}

func TestDisplay_WindowMatchesView(t *testing.T) {
	s := New()
	req, _ := s.Begin("AAPL", "2024-01-10")
	s.Complete(req, testSeries(t), nil)

	periods := map[window.Window]string{
		window.All:      "Trading Period: 2024-01-10 to 2024-06-10",
		window.OneMonth: "Trading Period: 2024-06-01 to 2024-06-10",
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			w := window.All
			if i%2 == 0 {
				w = window.OneMonth
			}
			assert.NoError(t, s.SetWindow(w))
		}
	}()
	for i := 0; i < 500; i++ {
		d, ok := s.Display()
		require.True(t, ok)
		assert.Equal(t, periods[d.Window], d.Period, "window %s", d.Window)
	}
	wg.Wait()
}

type memSink struct{ name string }

func (m *memSink) Save(_ context.Context, filename string, _ []byte) (string, error) {
	m.name = filename
	return filename, nil
}

func TestExport_NoSeriesIsNoop(t *testing.T) {
	called := false
	path, err := New().Export(context.Background(), export.NewExporter(&memSink{}),
		func(context.Context, render.Chart, present.Display) (export.Region, func(), error) {
			called = true
			return nil, nil, nil
		})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.False(t, called)
}

func TestExport(t *testing.T) {
	s := New()
	req, _ := s.Begin("aapl", "2024-01-10")
	s.Complete(req, testSeries(t), nil)
	require.NoError(t, s.SetWindow(window.ThreeMonths))

	dir := t.TempDir()
	released := false
	var region *render.ChartRegion
	path, err := s.Export(context.Background(), export.NewExporter(export.DirSink{Dir: dir}, export.WithScale(1)),
		func(_ context.Context, c render.Chart, d present.Display) (export.Region, func(), error) {
			assert.Len(t, c.Points, 3)
			assert.Equal(t, window.ThreeMonths, d.Window)
			region = render.NewChartRegion(c, render.Options{Width: 320, Height: 200})
			return region, func() { released = true }, nil
		})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "AAPL-earnings-analysis.png"), path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), b[:4])
	assert.True(t, released)
	assert.False(t, region.ExportOnlyVisible())
}

func TestExport_FailureLeavesStateAlone(t *testing.T) {
	s := New()
	req, _ := s.Begin("AAPL", "2024-01-10")
	s.Complete(req, testSeries(t), nil)
	before := s.Snapshot()

	_, err := s.Export(context.Background(), export.NewExporter(&memSink{}),
		func(context.Context, render.Chart, present.Display) (export.Region, func(), error) {
			return nil, nil, errors.New("no browser")
		})

	var exportErr *export.Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "prepare", exportErr.Op)
	assert.Equal(t, before, s.Snapshot())
}
