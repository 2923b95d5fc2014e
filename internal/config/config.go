package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	Auth     AuthConfig
	Reward   RewardConfig
	Leveling LevelingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host         string        `envconfig:"DB_HOST" default:"localhost"`
	Port         int           `envconfig:"DB_PORT" default:"5432"`
	User         string        `envconfig:"DB_USER" default:"postgres"`
	Password     string        `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name         string        `envconfig:"DB_NAME" default:"storyverse"`
	SSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns     int           `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns     int           `envconfig:"DB_MIN_CONNS" default:"5"`
	MaxRetries   int           `envconfig:"DB_MAX_RETRIES" default:"5"`
	RetryBackoff time.Duration `envconfig:"DB_RETRY_BACKOFF" default:"1s"`
	AutoMigrate  bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns the PostgreSQL connection string.
// Pool sizing is only appended when set, so a zero-value DBConfig yields a plain URL.
func (c DBConfig) DSN() string {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.sslMode())
	if c.MaxConns > 0 {
		dsn += fmt.Sprintf("&pool_max_conns=%d", c.MaxConns)
	}
	if c.MinConns > 0 {
		dsn += fmt.Sprintf("&pool_min_conns=%d", c.MinConns)
	}
	return dsn
}

func (c DBConfig) sslMode() string {
	if c.SSLMode == "" {
		return "disable"
	}
	return c.SSLMode
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// AuthConfig holds bearer token verification settings.
// Tokens are issued by the account service; this service only verifies them.
type AuthConfig struct {
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET" default:"dev-secret-change-me"` // CHANGE IN PRODUCTION
	Issuer    string        `envconfig:"AUTH_ISSUER" default:"storyverse"`
	AccessTTL time.Duration `envconfig:"AUTH_ACCESS_TTL" default:"24h"`
}

// RewardConfig holds daily reward settings.
type RewardConfig struct {
	// Timezone decides where a calendar day starts for streak computation.
	Timezone string `envconfig:"REWARD_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
}

// Location resolves the configured reward timezone.
func (c RewardConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load reward timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LevelingConfig holds the EXP conversion constants.
type LevelingConfig struct {
	BaseExpPerPage      float64 `envconfig:"LEVELING_BASE_EXP_PER_PAGE" default:"0.05"`
	BaseExpPerCoin      float64 `envconfig:"LEVELING_BASE_EXP_PER_COIN" default:"0.2"`
	RateReductionFactor float64 `envconfig:"LEVELING_RATE_REDUCTION_FACTOR" default:"0.5"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
