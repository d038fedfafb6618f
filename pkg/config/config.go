package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8000" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		DisableCORS     bool          `yaml:"disable_cors"`
		RatePerSecond   float64       `yaml:"rate_per_second" default:"10" validate:"gte=0"`
		RateBurst       int           `yaml:"rate_burst" default:"20" validate:"gte=0"`
	} `yaml:"server"`
	Provider struct {
		BaseURL       string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"required,url"`
		UserAgent     string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; EarnChart/1.0)"`
		Range         string        `yaml:"range" default:"2y" validate:"oneof=1y 2y 5y 10y max"`
		Timeout       time.Duration `yaml:"timeout" default:"15s"`
		Attempts      int           `yaml:"attempts" default:"2" validate:"min=1,max=5"`
		RatePerSecond float64       `yaml:"rate_per_second" default:"2" validate:"gt=0"`
		Burst         int           `yaml:"burst" default:"4" validate:"min=1"`
	} `yaml:"provider"`
	Cache struct {
		Type          string        `yaml:"type" default:"memory" validate:"oneof=none memory redis layered"`
		TTL           time.Duration `yaml:"ttl" default:"15m"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"256" validate:"min=1"`
		Redis         struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"earnchart"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"earnchart.chart-served"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"200ms"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Client struct {
		APIURL      string        `yaml:"api_url" default:"http://localhost:8000" validate:"required,url"`
		Timeout     time.Duration `yaml:"timeout" default:"20s"`
		ExportDir   string        `yaml:"export_dir" default:"."`
		ExportScale float64       `yaml:"export_scale" default:"2" validate:"gt=0"`
		Renderer    string        `yaml:"renderer" default:"chart" validate:"oneof=chart browser"`
		ChromePath  string        `yaml:"chrome_path"`
	} `yaml:"client"`
}

// KafkaEnabled reports whether chart events should be published.
func (c *Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// Default returns a config with every default applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("CACHE_TYPE"); v != "" {
		c.Cache.Type = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("EARNCHART_API_URL"); v != "" {
		c.Client.APIURL = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.KafkaEnabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}
	if (c.Cache.Type == "redis" || c.Cache.Type == "layered") && c.Cache.Redis.Host == "" {
		return fmt.Errorf("cache.redis.host is required for cache type %q", c.Cache.Type)
	}
	return nil
}
