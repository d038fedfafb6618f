package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"EarnChart/internal/domain/models"
	"EarnChart/internal/domain/repository"
	pmetrics "EarnChart/internal/service/metrics"
	xhttp "EarnChart/pkg/http"
	applogger "EarnChart/pkg/logger"
	"EarnChart/pkg/util"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Yahoo Finance chart API host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultRange is how much daily history is requested per ticker.
	DefaultRange = "2y"

	providerName = "yahoo"
)

// Client fetches daily closes from the Yahoo Finance v8 chart API.
type Client struct {
	baseURL   string
	rng       string
	userAgent string
	timeout   time.Duration
	attempts  int
	http      *xhttp.Client
	limiter   *rate.Limiter
	logger    *applogger.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRange sets the history range, e.g. "1y" or "2y".
func WithRange(rng string) ClientOption {
	return func(c *Client) {
		c.rng = rng
	}
}

// WithUserAgent sets the User-Agent sent upstream.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds a single upstream request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithAttempts sets how many times a throttled or failed request is tried.
func WithAttempts(n int) ClientOption {
	return func(c *Client) {
		c.attempts = n
	}
}

// WithRateLimit limits upstream requests per second with the given burst.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets a logger.
func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Yahoo chart client.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		rng:       DefaultRange,
		userAgent: "Mozilla/5.0",
		timeout:   15 * time.Second,
		attempts:  2,
		limiter:   rate.NewLimiter(rate.Limit(2), 4),
		logger:    applogger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http = xhttp.NewClient(
		xhttp.WithTimeout(c.timeout),
		xhttp.WithUserAgent(c.userAgent),
		xhttp.WithRetry(c.attempts, 100*time.Millisecond),
	)
	pmetrics.Register()
	return c
}

var _ repository.PriceProvider = (*Client)(nil)

func (c *Client) Name() string { return providerName }

// chartEnvelope is the response structure of the chart API.
type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// DailyCloses returns split and dividend adjusted daily closes, ascending, with null bars dropped.
func (c *Client) DailyCloses(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	if !c.limiter.Allow() {
		pmetrics.ProviderThrottled.WithLabelValues(providerName).Inc()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo rate limit: %w", err)
		}
	}

	start := time.Now()
	var env chartEnvelope
	err := c.http.GetJSON(ctx,
		fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker)),
		url.Values{"interval": {"1d"}, "range": {c.rng}},
		&env)
	pmetrics.ProviderLatency.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			c.observeError("not_found")
			return nil, fmt.Errorf("yahoo %s: %w", ticker, repository.ErrNoData)
		}
		c.observeError("request")
		c.logger.Warn("yahoo request failed", applogger.String("ticker", ticker), applogger.Error(err))
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}

	if e := env.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			c.observeError("not_found")
			return nil, fmt.Errorf("yahoo %s: %w", ticker, repository.ErrNoData)
		}
		c.observeError("api")
		return nil, fmt.Errorf("yahoo api error: %s", e.Description)
	}

	if len(env.Chart.Result) == 0 {
		c.observeError("not_found")
		return nil, fmt.Errorf("yahoo %s: %w", ticker, repository.ErrNoData)
	}

	points, err := toPoints(&env.Chart.Result[0])
	if err != nil {
		c.observeError("decode")
		return nil, err
	}
	if len(points) == 0 {
		c.observeError("not_found")
		return nil, fmt.Errorf("yahoo %s: %w", ticker, repository.ErrNoData)
	}

	c.logger.Debug("yahoo history fetched",
		applogger.String("ticker", ticker),
		applogger.Int("points", len(points)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return points, nil
}

func (c *Client) observeError(kind string) {
	pmetrics.ProviderErrors.WithLabelValues(providerName, kind).Inc()
}

// toPoints converts a chart result into calendar-dated closes. Adjusted closes are preferred
// when present. Timestamps are shifted by the exchange offset so each bar lands on its
// trading day.
func toPoints(r *chartResult) ([]models.PricePoint, error) {
	var closes []*float64
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == len(r.Timestamp) {
		closes = r.Indicators.AdjClose[0].AdjClose
	} else if len(r.Indicators.Quote) > 0 {
		closes = r.Indicators.Quote[0].Close
	}
	if len(closes) != len(r.Timestamp) {
		return nil, fmt.Errorf("yahoo: %d timestamps but %d closes", len(r.Timestamp), len(closes))
	}

	points := make([]models.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if closes[i] == nil {
			continue // holidays and halted sessions
		}
		date := util.CalendarDate(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())

		// Intraday rows for the current session share the last date; keep the newest.
		if n := len(points); n > 0 && !points[n-1].Date.Before(date) {
			if points[n-1].Date.Equal(date) {
				points[n-1].Price = decimal.NewFromFloat(*closes[i])
			}
			continue
		}
		points = append(points, models.PricePoint{Date: date, Price: decimal.NewFromFloat(*closes[i])})
	}
	return points, nil
}
