package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"EarnChart/internal/analytics"
	"EarnChart/internal/domain/models"
	"EarnChart/internal/export"
	"EarnChart/internal/present"
	"EarnChart/internal/render"
	"EarnChart/internal/window"
	"EarnChart/pkg/util"
)

// FallbackMessage is shown when a fetch fails without a server explanation.
const FallbackMessage = "Failed to fetch data. Check ticker and date format (YYYY-MM-DD)."

// Fetcher retrieves and ingests the series for a query.
type Fetcher interface {
	Fetch(ctx context.Context, ticker, earningsDate string) (*models.EarningsSeries, error)
}

// RegionFactory builds a capturable region for the current chart. release is called once
// the export finishes.
type RegionFactory func(ctx context.Context, c render.Chart, d present.Display) (r export.Region, release func(), err error)

// Request identifies one issued fetch. Only the latest issued request may complete.
type Request struct {
	Ticker       string
	EarningsDate string
	seq          uint64
}

// Snapshot is a consistent copy of the user-visible state.
type Snapshot struct {
	Ticker       string
	EarningsDate string
	Loading      bool
	Err          string
	HasSeries    bool
	Window       window.Window
}

// State holds the UI state: query inputs, loading flag, error, series and window.
// All methods are safe for concurrent use.
type State struct {
	mu           sync.Mutex
	ticker       string
	earningsDate string
	loading      bool
	errMsg       string
	series       *models.EarningsSeries
	selector     *window.Selector
	seq          uint64
}

func New() *State {
	return &State{selector: window.NewSelector()}
}

// Begin starts a fetch for ticker and earningsDate. With either input blank it returns false
// and changes nothing. Otherwise the previous series and error are cleared, the window resets
// to ALL and a new request token is issued.
func (s *State) Begin(ticker, earningsDate string) (Request, bool) {
	ticker = util.NormalizeTicker(ticker)
	earningsDate = strings.TrimSpace(earningsDate)
	if ticker == "" || earningsDate == "" {
		return Request{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.ticker = ticker
	s.earningsDate = earningsDate
	s.loading = true
	s.errMsg = ""
	s.series = nil
	s.selector.Reset()
	return Request{Ticker: ticker, EarningsDate: earningsDate, seq: s.seq}, true
}

// Complete applies the outcome of req. It reports false and changes nothing when req is not
// the latest issued request.
func (s *State) Complete(req Request, series *models.EarningsSeries, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.seq == 0 || req.seq != s.seq {
		return false
	}

	s.loading = false
	s.selector.Reset()
	if err == nil && series == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		s.series = nil
		s.errMsg = UserMessage(err)
		return true
	}
	s.series = series
	s.errMsg = ""
	return true
}

// Submit runs a whole fetch cycle synchronously. It returns the fetch error, if any, even when
// the outcome was discarded as stale.
func (s *State) Submit(ctx context.Context, f Fetcher, ticker, earningsDate string) error {
	req, ok := s.Begin(ticker, earningsDate)
	if !ok {
		return nil
	}
	series, err := f.Fetch(ctx, req.Ticker, req.EarningsDate)
	s.Complete(req, series, err)
	return err
}

// SetWindow changes the active window.
func (s *State) SetWindow(w window.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Set(w)
}

// Window returns the active window.
func (s *State) Window() window.Window {
	return s.selector.Current()
}

// Series returns the loaded series, or nil.
func (s *State) Series() *models.EarningsSeries {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.series
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Ticker:       s.ticker,
		EarningsDate: s.earningsDate,
		Loading:      s.loading,
		Err:          s.errMsg,
		HasSeries:    s.series != nil,
		Window:       s.selector.Current(),
	}
}

// current reads the series and the window together.
func (s *State) current() (*models.EarningsSeries, window.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.series, s.selector.Current()
}

// View computes the derived stats of the loaded series under the active window and returns
// the window it used. ok is false when no series is loaded.
func (s *State) View() (series *models.EarningsSeries, w window.Window, view models.DerivedStats, ok bool) {
	series, w = s.current()
	if series == nil {
		return nil, w, models.DerivedStats{}, false
	}
	return series, w, analytics.ComputeView(series, w), true
}

// Display formats the current view.
func (s *State) Display() (present.Display, bool) {
	series, w, view, ok := s.View()
	if !ok {
		return present.Display{}, false
	}
	return present.Build(series, w, view), true
}

// Export captures the current chart through newRegion. Without a series it does nothing and
// returns ("", nil). Failures are returned and leave the state untouched.
func (s *State) Export(ctx context.Context, e *export.Exporter, newRegion RegionFactory) (string, error) {
	series, w, view, ok := s.View()
	if !ok {
		return "", nil
	}
	d := present.Build(series, w, view)

	r, release, err := newRegion(ctx, render.NewChart(series, view), d)
	if err != nil {
		return "", &export.Error{Op: "prepare", Err: err}
	}
	if release != nil {
		defer release()
	}
	return e.Export(ctx, r, series.Ticker)
}

// UserMessage returns the message to show for a fetch error: the server's explanation when
// the error carries one, otherwise FallbackMessage.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	return FallbackMessage
}
