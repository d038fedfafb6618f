package kafka

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

// ProducerConfig configures NewProducer. Zero fields take the default tag values.
type ProducerConfig struct {
	Brokers []string
	// RequiredAcks is 0 (none), 1 (leader) or -1 (all in-sync replicas).
	RequiredAcks int           `default:"1"`
	Compression  string        `default:"snappy"`
	MaxAttempts  int           `default:"3"`
	WriteTimeout time.Duration `default:"5s"`
	BatchSize    int           `default:"100"`
	// Linger is how long a partial batch waits before it is flushed.
	Linger time.Duration `default:"200ms"`
	Async  bool
}

func (c ProducerConfig) normalize() (ProducerConfig, error) {
	if len(c.Brokers) == 0 {
		return c, errors.New("kafka: brokers are required")
	}
	if err := defaults.Set(&c); err != nil {
		return c, fmt.Errorf("kafka: config defaults: %w", err)
	}
	switch c.RequiredAcks {
	case -1, 0, 1:
	default:
		return c, fmt.Errorf("kafka: required acks must be -1, 0 or 1, got %d", c.RequiredAcks)
	}
	if _, ok := compressions[c.Compression]; !ok {
		return c, fmt.Errorf("kafka: unknown compression %q", c.Compression)
	}
	return c, nil
}
