// Package config loads server settings from a .env file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StorageType выбирает backend хранилища
type StorageType string

const (
	StorageSQLite   StorageType = "sqlite"
	StorageBolt     StorageType = "bolt"
	StoragePostgres StorageType = "postgres"
	StorageMemory   StorageType = "memory"
)

// Config содержит настройки сервера
type Config struct {
	Address         string
	Storage         StorageType
	SQLitePath      string
	BoltPath        string
	PostgresDSN     string
	JWTSecret       string
	LogLevel        string
	LogFormat       string
	TokenTTL        time.Duration
	LoginWindow     time.Duration
	ShutdownTimeout time.Duration
	BcryptCost      int
	LoginRate       int
}

// Default возвращает конфигурацию по умолчанию (без секрета)
func Default() Config {
	return Config{
		Address:         ":8080",
		Storage:         StorageSQLite,
		SQLitePath:      "bloglist.db",
		BoltPath:        "bloglist.bolt",
		LogLevel:        "info",
		LogFormat:       "text",
		TokenTTL:        time.Hour,
		LoginWindow:     time.Minute,
		ShutdownTimeout: 10 * time.Second,
		BcryptCost:      10,
		LoginRate:       10,
	}
}

// Load читает .env (если файл есть), переменные окружения BLOGLIST_* и флаги.
// Флаги имеют наивысший приоритет.
func Load(flags *flag.FlagSet, args []string, envFile string) (*Config, error) {
	if envFile != "" {
		// godotenv не перезаписывает уже заданные переменные окружения
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	storage := string(cfg.Storage)
	flags.StringVar(&cfg.Address, "a", cfg.Address, "HTTP listen address")
	flags.StringVar(&storage, "storage", storage, "storage backend: sqlite, bolt, postgres or memory")
	flags.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "SQLite database path")
	flags.StringVar(&cfg.BoltPath, "bolt", cfg.BoltPath, "BoltDB file path")
	flags.StringVar(&cfg.PostgresDSN, "dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "session token lifetime, 0 disables expiry")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.Storage = StorageType(storage)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Address, "BLOGLIST_ADDRESS")
	setString(&c.SQLitePath, "BLOGLIST_SQLITE_PATH")
	setString(&c.BoltPath, "BLOGLIST_BOLT_PATH")
	setString(&c.PostgresDSN, "BLOGLIST_POSTGRES_DSN")
	setString(&c.JWTSecret, "BLOGLIST_JWT_SECRET")
	setString(&c.LogLevel, "BLOGLIST_LOG_LEVEL")
	setString(&c.LogFormat, "BLOGLIST_LOG_FORMAT")

	if v, ok := os.LookupEnv("BLOGLIST_STORAGE"); ok && v != "" {
		c.Storage = StorageType(v)
	}

	var errs []error
	errs = append(errs,
		setDuration(&c.TokenTTL, "BLOGLIST_TOKEN_TTL"),
		setDuration(&c.LoginWindow, "BLOGLIST_LOGIN_WINDOW"),
		setDuration(&c.ShutdownTimeout, "BLOGLIST_SHUTDOWN_TIMEOUT"),
		setInt(&c.BcryptCost, "BLOGLIST_BCRYPT_COST"),
		setInt(&c.LoginRate, "BLOGLIST_LOGIN_RATE"),
	)
	return errors.Join(errs...)
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("BLOGLIST_JWT_SECRET is not set")
	}

	switch c.Storage {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite storage requires BLOGLIST_SQLITE_PATH")
		}
	case StorageBolt:
		if c.BoltPath == "" {
			return errors.New("bolt storage requires BLOGLIST_BOLT_PATH")
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres storage requires BLOGLIST_POSTGRES_DSN")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported storage: %q", c.Storage)
	}

	if c.TokenTTL < 0 {
		return errors.New("token TTL cannot be negative")
	}
	if c.LoginRate <= 0 || c.LoginWindow <= 0 {
		return errors.New("login rate limit must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
