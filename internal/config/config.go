package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	RateFeed RateFeedConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
}

type RateFeedConfig struct {
	URL             string        `env:"RATE_FEED_URL" env-default:"https://api.frankfurter.app/latest"`
	Timeout         time.Duration `env:"RATE_FEED_TIMEOUT" env-default:"5s"`
	RefreshInterval time.Duration `env:"RATES_REFRESH_INTERVAL" env-default:"0s"`
}

type CacheConfig struct {
	TTLSeconds int `env:"RATES_CACHE_TTL_SECONDS" env-default:"86400"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type DatabaseConfig struct {
	Path string `env:"DB_PATH" env-default:"rates.db"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Cache.TTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("RATES_CACHE_TTL_SECONDS must be positive, got %d", c.Cache.TTLSeconds))
	}
	if c.RateFeed.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("RATE_FEED_TIMEOUT must be positive, got %s", c.RateFeed.Timeout))
	}
	if c.RateFeed.URL == "" {
		errs = append(errs, errors.New("RATE_FEED_URL must not be empty"))
	}
	if c.RateFeed.RefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("RATES_REFRESH_INTERVAL must not be negative, got %s", c.RateFeed.RefreshInterval))
	}
	return errors.Join(errs...)
}
