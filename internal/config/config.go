package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Бэкенды блокировки создания записи
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Redis          RedisConfig          `toml:"redis"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	Booking        BookingConfig        `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"gte=0"`  // секунды
	WriteTimeout    int `toml:"write_timeout" validate:"gte=0"` // секунды
	IdleTimeout     int `toml:"idle_timeout" validate:"gte=0"`  // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"gte=0"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"gte=0"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"` // пусто - stdout
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"startswith=/"`
	ServiceName string `toml:"service_name" validate:"required"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
}

type CatalogServiceConfig struct {
	URL     string `toml:"url" validate:"required,url"`
	Timeout int    `toml:"timeout" validate:"gte=1"` // секунды
}

type BookingConfig struct {
	StoreTimeout        int    `toml:"store_timeout" validate:"gte=1"` // секунды
	StatusUpdateRetries int    `toml:"status_update_retries" validate:"min=1,max=10"`
	LockBackend         string `toml:"lock_backend" validate:"oneof=local redis"`
	LockTTL             int    `toml:"lock_ttl_ms" validate:"gte=100"`
	LockRetryInterval   int    `toml:"lock_retry_ms" validate:"gte=1"`
}

func (b BookingConfig) StoreTimeoutDuration() time.Duration {
	return time.Duration(b.StoreTimeout) * time.Second
}

func (b BookingConfig) LockTTLDuration() time.Duration {
	return time.Duration(b.LockTTL) * time.Millisecond
}

func (b BookingConfig) LockRetryDuration() time.Duration {
	return time.Duration(b.LockRetryInterval) * time.Millisecond
}

// Load читает config.toml, затем .env (если есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация для локального запуска
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "salon_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "salon_booking_service",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		CatalogService: CatalogServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Booking: BookingConfig{
			StoreTimeout:        5,
			StatusUpdateRetries: 3,
			LockBackend:         LockBackendLocal,
			LockTTL:             5000,
			LockRetryInterval:   50,
		},
	}
}

// Validate проверяет значения после применения окружения
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Booking.LockBackend == LockBackendRedis && c.Redis.Addr == "" {
		return errors.New("invalid config: redis.addr is required for redis lock backend")
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.CatalogService.URL, "CATALOG_SERVICE_URL")
	setString(&c.Booking.LockBackend, "BOOKING_LOCK_BACKEND")
	setString(&c.Logs.Level, "LOG_LEVEL")

	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	return setInt(&c.Server.HTTPPort, "HTTP_PORT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}
