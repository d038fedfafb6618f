package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EarnChart/internal/analytics"
	"EarnChart/internal/domain/models"
	domrepo "EarnChart/internal/domain/repository"
	"EarnChart/pkg/cache"
	applogger "EarnChart/pkg/logger"
	"EarnChart/pkg/util"

	"github.com/shopspring/decimal"
)

// ErrNoData reports that the provider has no history for the ticker.
var ErrNoData = domrepo.ErrNoData

// ErrZeroEarningsPrice reports a zero close on the earnings date, which leaves percentages undefined.
var ErrZeroEarningsPrice = errors.New("earnings price is zero")

// ChartService builds chart responses from provider history.
type ChartService struct {
	provider  domrepo.PriceProvider
	cache     cache.Service
	ttl       time.Duration
	publisher domrepo.EventPublisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	now       func() time.Time
}

// NewChartService wires the chart use case. cache and publisher may be nil.
func NewChartService(
	provider domrepo.PriceProvider,
	c cache.Service,
	ttl time.Duration,
	publisher domrepo.EventPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *ChartService {
	if c == nil {
		c = cache.Noop{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &ChartService{
		provider:  provider,
		cache:     c,
		ttl:       ttl,
		publisher: publisher,
		metrics:   metrics,
		logger:    l,
		now:       time.Now,
	}
}

// Chart returns the full daily history for ticker around the trading day nearest to earningsDate.
func (s *ChartService) Chart(ctx context.Context, ticker string, earningsDate time.Time) (*models.ChartResponse, error) {
	start := s.now()
	ticker = util.NormalizeTicker(ticker)

	points, hit, err := s.history(ctx, ticker)
	if err != nil {
		kind := "provider"
		if errors.Is(err, ErrNoData) {
			kind = "no_data"
		}
		s.recordError(kind)
		return nil, err
	}

	resp, err := buildResponse(ticker, earningsDate, points)
	if err != nil {
		s.recordError("compute")
		return nil, err
	}

	s.publish(ctx, &models.ChartServedEvent{
		Ticker:        ticker,
		RequestedDate: util.FormatDate(earningsDate),
		EarningsDate:  resp.EarningsDate,
		LatestDate:    resp.LatestDate,
		Points:        len(resp.Data),
		CacheHit:      hit,
		ServedAt:      s.now().Unix(),
	})

	if s.metrics != nil {
		s.metrics.RecordChartServed(ticker, len(resp.Data))
		s.metrics.RecordLatency("chart", s.now().Sub(start).Seconds())
	}
	return resp, nil
}

// history returns the cached provider history for ticker, fetching it on a miss.
func (s *ChartService) history(ctx context.Context, ticker string) ([]models.PricePoint, bool, error) {
	key := cache.Key("history", s.provider.Name(), ticker)

	var points []models.PricePoint
	err := s.cache.Get(ctx, key, &points)
	switch {
	case err == nil && len(points) > 0:
		s.recordLookup(true)
		return points, true, nil
	case err != nil && !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn("history cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	s.recordLookup(false)

	points, err = s.provider.DailyCloses(ctx, ticker)
	if err != nil {
		return nil, false, err
	}
	if len(points) == 0 {
		return nil, false, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}

	if err := s.cache.Set(ctx, key, points, s.ttl); err != nil {
		s.logger.Warn("history cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return points, false, nil
}

func (s *ChartService) publish(ctx context.Context, e *models.ChartServedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChartServed(ctx, e); err != nil {
		s.recordError("publish")
		s.logger.Warn("chart event publish failed", applogger.String("ticker", e.Ticker), applogger.Error(err))
	}
}

func (s *ChartService) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func (s *ChartService) recordError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordError(kind)
	}
}

// buildResponse computes the headline metrics over the full history. Every number on the
// wire is rounded to cents; the computation itself keeps full precision.
func buildResponse(ticker string, earningsDate time.Time, points []models.PricePoint) (*models.ChartResponse, error) {
	dates := make([]time.Time, len(points))
	for i, p := range points {
		dates[i] = p.Date
	}

	idx := analytics.NearestIndex(dates, earningsDate)
	earnings := points[idx]
	latest := points[len(points)-1]

	change := analytics.PercentChange(earnings.Price, latest.Price)
	if change == nil {
		return nil, fmt.Errorf("%s on %s: %w", ticker, util.FormatDate(earnings.Date), ErrZeroEarningsPrice)
	}

	headline := round2(*change)
	var nextDay *float64
	if idx+1 < len(points) {
		if pct := analytics.PercentChange(earnings.Price, points[idx+1].Price); pct != nil {
			v := round2(*pct)
			nextDay = &v
		}
	}

	lo, hi := points[0].Price, points[0].Price
	data := make([]models.ChartPoint, len(points))
	for i, p := range points {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
		data[i] = models.ChartPoint{Date: util.FormatDate(p.Date), Price: round2(p.Price)}
	}

	return &models.ChartResponse{
		Ticker:           ticker,
		EarningsDate:     util.FormatDate(earnings.Date),
		LatestDate:       util.FormatDate(latest.Date),
		EarningsPrice:    round2(earnings.Price),
		LatestPrice:      round2(latest.Price),
		PriceChangePct:   &headline,
		NextDayChangePct: nextDay,
		MinPrice:         round2(lo),
		MaxPrice:         round2(hi),
		PriceRange:       round2(hi.Sub(lo)),
		Data:             data,
	}, nil
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
