package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"EarnChart/internal/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func server(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	seen := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

const okBody = `{
  "ticker": "AAPL", "earnings_date": "2024-01-10", "latest_date": "2024-01-12",
  "earnings_price": 100, "latest_price": 120, "price_change_pct": 20,
  "next_day_change_pct": 10, "min_price": 100, "max_price": 120, "price_range": 20,
  "data": [
    {"date": "2024-01-10", "price": 100},
    {"date": "2024-01-11", "price": 110},
    {"date": "2024-01-12", "price": 120}
  ]
}`

func TestFetch(t *testing.T) {
	srv, seen := server(t, http.StatusOK, okBody)

	s, err := New(srv.URL+"/").Fetch(context.Background(), "AAPL", "2024-01-10")
	require.NoError(t, err)

	assert.Equal(t, "/api/chart/AAPL", seen.URL.Path)
	assert.Equal(t, "2024-01-10", seen.URL.Query().Get("earnings_date"))

	assert.Equal(t, "AAPL", s.Ticker)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), s.LatestDate)
	require.NotNil(t, s.NextDayChangePct)
	assert.Equal(t, "10", s.NextDayChangePct.String())
}

func TestFetch_Detail(t *testing.T) {
	srv, _ := server(t, http.StatusNotFound, `{"detail": "No data found for ticker 'ZZZZ'."}`)

	_, err := New(srv.URL).Fetch(context.Background(), "ZZZZ", "2024-01-10")

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, http.StatusNotFound, ferr.Status)
	assert.Equal(t, "No data found for ticker 'ZZZZ'.", ferr.UserMessage())
}

func TestFetch_NoDetail(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
	}{
		"html error page": {http.StatusBadGateway, "<html>bad gateway</html>"},
		"empty detail":    {http.StatusInternalServerError, `{"detail": ""}`},
		"malformed 200":   {http.StatusOK, `{"ticker": "AAPL", "data": [`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			srv, _ := server(t, tc.status, tc.body)
			_, err := New(srv.URL).Fetch(context.Background(), "AAPL", "2024-01-10")

			var ferr *FetchError
			require.ErrorAs(t, err, &ferr)
			assert.Empty(t, ferr.UserMessage())
		})
	}
}

func TestFetch_MalformedSeries(t *testing.T) {
	srv, _ := server(t, http.StatusOK, `{"ticker": "AAPL", "earnings_date": "2024-01-10",
	  "data": [{"date": "2024-01-11", "price": 1}, {"date": "2024-01-10", "price": 2}]}`)

	_, err := New(srv.URL).Fetch(context.Background(), "AAPL", "2024-01-10")
	require.ErrorIs(t, err, analytics.ErrMalformedSeries)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Empty(t, ferr.UserMessage())
}

func TestFetch_Unreachable(t *testing.T) {
	srv, _ := server(t, http.StatusOK, okBody)
	srv.Close()

	_, err := New(srv.URL).Fetch(context.Background(), "AAPL", "2024-01-10")
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Zero(t, ferr.Status)
}

func TestFetchError_Message(t *testing.T) {
	err := &FetchError{Status: 404, Detail: "nope", Err: errors.New("x")}
	assert.Equal(t, "fetch chart: status 404: nope", err.Error())
}
