package di

import (
	"testing"

	internalrepo "EarnChart/internal/repository"
	"EarnChart/pkg/cache"
	"EarnChart/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideCache(t *testing.T) {
	cfg := config.Default()

	cfg.Cache.Type = "none"
	c, err := ProvideCache(cfg)
	require.NoError(t, err)
	assert.IsType(t, cache.Noop{}, c)

	cfg.Cache.Type = "memory"
	c, err = ProvideCache(cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	require.NoError(t, c.Close())

	cfg.Cache.Type = "disk"
	_, err = ProvideCache(cfg)
	require.Error(t, err)
}

func TestProvideEventPublisher_WithoutBrokers(t *testing.T) {
	pub, err := ProvideEventPublisher(config.Default())
	require.NoError(t, err)
	assert.IsType(t, internalrepo.NoopEventPublisher{}, pub)
}

func TestProvideLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := ProvideLogger(cfg)
	require.Error(t, err)
}

func TestProvideEventPublisher_WithBrokers(t *testing.T) {
	cfg := config.Default()
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}
	pub, err := ProvideEventPublisher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &internalrepo.KafkaEventPublisher{}, pub)
	require.NoError(t, pub.Close())
}
