package cache

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

// RedisConfig describes the Redis connection behind RedisCache. Zero fields take the
// values in the default tags.
type RedisConfig struct {
	Host         string        `default:"localhost"`
	Port         int           `default:"6379"`
	Password     string
	DB           int
	PoolSize     int           `default:"10"`
	MinIdleConns int           `default:"2"`
	DialTimeout  time.Duration `default:"5s"`
	Prefix       string        `default:"earnchart"`
}

// Addr is the host:port pair handed to the driver.
func (c RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c RedisConfig) withDefaults() (RedisConfig, error) {
	if err := defaults.Set(&c); err != nil {
		return c, fmt.Errorf("redis config defaults: %w", err)
	}
	return c, nil
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxSize         int
	cleanupInterval time.Duration
}

// WithMemoryMaxSize bounds the number of entries; the least recently used entry is
// evicted beyond it.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(o *memoryOptions) {
		if size > 0 {
			o.maxSize = size
		}
	}
}

// WithMemoryCleanup sets how often expired entries are swept.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		if interval > 0 {
			o.cleanupInterval = interval
		}
	}
}

// LayeredOption configures LayeredCache.
type LayeredOption func(*layeredOptions)

type layeredOptions struct {
	memoryMaxSize int
	memoryTTL     time.Duration
}

// WithLayeredMemorySize sets the L1 entry limit.
func WithLayeredMemorySize(size int) LayeredOption {
	return func(o *layeredOptions) {
		if size > 0 {
			o.memoryMaxSize = size
		}
	}
}

// WithLayeredMemoryTTL caps how long L1 keeps an entry.
func WithLayeredMemoryTTL(ttl time.Duration) LayeredOption {
	return func(o *layeredOptions) {
		if ttl > 0 {
			o.memoryTTL = ttl
		}
	}
}
