package repository

import (
	"context"
	"errors"

	"EarnChart/internal/domain/models"
)

// ErrNoData is returned by a PriceProvider when the ticker has no price history.
var ErrNoData = errors.New("no price data")

// PriceProvider supplies the daily close history for a ticker, ascending by date.
type PriceProvider interface {
	Name() string
	DailyCloses(ctx context.Context, ticker string) ([]models.PricePoint, error)
}

// EventPublisher announces served charts to downstream consumers.
type EventPublisher interface {
	PublishChartServed(ctx context.Context, e *models.ChartServedEvent) error
	Close() error
}

type Metrics interface {
	RecordChartServed(ticker string, points int)
	RecordCacheLookup(hit bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
