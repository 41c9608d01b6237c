package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionSQL    = "sql"
	SessionRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Env      string
	BotToken string
	SeedPath string
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig

	QuestionTTL     time.Duration
	CacheSize       int64
	RequestTimeout  time.Duration
	CleanupInterval time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	// Path is the database file for the sqlite3 driver
	Path string
}

// SessionConfig selects where conversation state lives
type SessionConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads configuration from .env, an optional config/config.yaml and
// environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// db.host -> DB_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	cfg := &Config{
		Env:      v.GetString("app.env"),
		BotToken: v.GetString("bot.token"),
		SeedPath: v.GetString("seed.path"),
		Database: DatabaseConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			Name:     v.GetString("db.name"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Path:     v.GetString("db.path"),
		},
		Session: SessionConfig{
			Backend: v.GetString("session.backend"),
			TTL:     v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		QuestionTTL:     v.GetDuration("question.ttl"),
		CacheSize:       v.GetInt64("cache.size"),
		RequestTimeout:  v.GetDuration("request.timeout"),
		CleanupInterval: v.GetDuration("cleanup.interval"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("bot.token", "")
	v.SetDefault("seed.path", "data_word.json")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.name", "wordquiz")
	v.SetDefault("db.user", "wordquiz")
	v.SetDefault("db.password", "")
	v.SetDefault("db.path", "wordquiz.db")

	v.SetDefault("session.backend", SessionSQL)
	v.SetDefault("session.ttl", "720h")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("question.ttl", "24h")
	v.SetDefault("cache.size", 10_000)
	v.SetDefault("request.timeout", "10s")
	v.SetDefault("cleanup.interval", "24h")
}

func (c *Config) validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Session.Backend {
	case SessionMemory, SessionSQL, SessionRedis:
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be positive")
	}

	return nil
}

// IsProduction reports whether the bot runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Database.Path)
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// RedisAddr returns host:port of the Redis server
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
