package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"EarnChart/internal/analytics"
	"EarnChart/internal/domain/models"
	xhttp "EarnChart/pkg/http"
	applogger "EarnChart/pkg/logger"
)

// FetchError is a failed chart fetch. Detail carries the server's message when it sent one.
type FetchError struct {
	Status int
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("fetch chart: status %d: %s", e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("fetch chart: status %d: %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("fetch chart: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// UserMessage is the server-provided explanation, or "" when there is none.
func (e *FetchError) UserMessage() string { return e.Detail }

// Client fetches chart data from the EarnChart API and ingests it.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *xhttp.Client
	logger  *applogger.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets a logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 20 * time.Second,
		logger:  applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	return c
}

// Fetch requests the chart for ticker and earningsDate and returns the ingested series.
// Every failure is a *FetchError.
func (c *Client) Fetch(ctx context.Context, ticker, earningsDate string) (*models.EarningsSeries, error) {
	var raw models.ChartResponse
	err := c.http.GetJSON(ctx,
		fmt.Sprintf("%s/api/chart/%s", c.baseURL, url.PathEscape(ticker)),
		url.Values{"earnings_date": {earningsDate}},
		&raw)
	if err != nil {
		ferr := toFetchError(err)
		c.logger.Debug("chart fetch failed",
			applogger.String("ticker", ticker),
			applogger.Int("status", ferr.Status),
			applogger.Error(err),
		)
		return nil, ferr
	}

	s, err := analytics.Ingest(&raw)
	if err != nil {
		c.logger.Warn("chart response rejected", applogger.String("ticker", ticker), applogger.Error(err))
		return nil, &FetchError{Err: err}
	}
	return s, nil
}

func toFetchError(err error) *FetchError {
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return &FetchError{Err: err}
	}
	var body models.ErrorResponse
	if jerr := json.Unmarshal(se.Body, &body); jerr != nil {
		return &FetchError{Status: se.Status, Err: err}
	}
	return &FetchError{Status: se.Status, Detail: strings.TrimSpace(body.Detail), Err: err}
}
