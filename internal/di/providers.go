package di

import (
	"context"
	"fmt"

	"EarnChart/internal/domain/repository"
	"EarnChart/internal/handler/api"
	internalrepo "EarnChart/internal/repository"
	"EarnChart/internal/service/yahoo"
	"EarnChart/internal/usecase"
	"EarnChart/pkg/cache"
	"EarnChart/pkg/config"
	xhttp "EarnChart/pkg/http"
	pkgkafka "EarnChart/pkg/kafka"
	applogger "EarnChart/pkg/logger"
	"EarnChart/pkg/metrics"
	"EarnChart/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideCache creates the price history cache selected by cache.type.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Type {
	case "none":
		return cache.Noop{}, nil
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	case "redis", "layered":
		rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Host:     cfg.Cache.Redis.Host,
			Port:     cfg.Cache.Redis.Port,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Type == "redis" {
			return rc, nil
		}
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
}

// ProvideEventPublisher creates the chart event publisher. Without brokers events are dropped.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.KafkaEnabled() {
		return internalrepo.NoopEventPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		Compression:  cfg.Kafka.Compression,
		MaxAttempts:  cfg.Kafka.Producer.MaxAttempts,
		WriteTimeout: cfg.Kafka.Producer.WriteTimeout,
		BatchSize:    cfg.Kafka.Producer.BatchSize,
		Linger:       cfg.Kafka.Producer.Linger,
		Async:        cfg.Kafka.Producer.Async,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvidePriceProvider creates the Yahoo Finance history client.
func ProvidePriceProvider(cfg *config.Config, l *applogger.Logger) repository.PriceProvider {
	return yahoo.New(
		yahoo.WithBaseURL(cfg.Provider.BaseURL),
		yahoo.WithRange(cfg.Provider.Range),
		yahoo.WithUserAgent(cfg.Provider.UserAgent),
		yahoo.WithTimeout(cfg.Provider.Timeout),
		yahoo.WithAttempts(cfg.Provider.Attempts),
		yahoo.WithRateLimit(cfg.Provider.RatePerSecond, cfg.Provider.Burst),
		yahoo.WithLogger(l.With(applogger.String("component", "yahoo"))),
	)
}

// ProvideChartService creates the chart use case.
func ProvideChartService(
	provider repository.PriceProvider,
	c cache.Service,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartService {
	return usecase.NewChartService(provider, c, cfg.Cache.TTL, pub, m, l)
}

// ProvideChartHandler creates the HTTP handler for the chart endpoint.
func ProvideChartHandler(l *applogger.Logger, svc *usecase.ChartService) xhttp.Handler {
	return api.NewChartEchoHandler(l, svc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	h xhttp.Handler,
	c cache.Service,
	pub repository.EventPublisher,
) *server.App {
	return server.New(cfg, l, h, c, pub)
}
