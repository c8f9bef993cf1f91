package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"3000"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"postgres"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         int    `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"courses_db"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`

	CacheBackend  string        `env:"CACHE_BACKEND" envDefault:"memory"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"12h"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	PrintRoutes bool `env:"PRINT_ROUTES" envDefault:"false"`
}

// Load читает .env (если он есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.CacheBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// DSN строка подключения для lib/pq
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
