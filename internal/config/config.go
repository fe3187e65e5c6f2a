package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string        `env:"PORT" envDefault:"8080"`
	DatabaseType    string        `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath    string        `env:"DB_PATH" envDefault:"./wellnest.db"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	CSRFSecret      string        `env:"CSRF_SECRET"`
	LogMode         string        `env:"LOG_MODE" envDefault:"dev"`
	TimeZone        string        `env:"TZ_NAME"`

	ChatWebhookURL    string        `env:"CHAT_WEBHOOK_URL"`
	ChatWebhookSecret string        `env:"CHAT_WEBHOOK_SECRET"`
	ChatRelayTimeout  time.Duration `env:"CHAT_RELAY_TIMEOUT" envDefault:"30s"`

	AwardAchievementBonus bool `env:"AWARD_ACHIEVEMENT_BONUS" envDefault:"false"`

	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"Wellnest"`
	AppBaseURL   string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	EmailDebug   bool   `env:"EMAIL_DEBUG" envDefault:"false"`
	BadWordsURL  string `env:"BAD_WORDS_URL" envDefault:"https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"5"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads an optional .env file and then parses configuration from
// environment variables, applying defaults for anything unset
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations the individual fields cannot express
func (c *Config) Validate() error {
	switch c.DatabaseType {
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_TYPE=%s", c.DatabaseType)
		}
	case "memory", "sqlite", "sqlite3", "":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DatabaseType)
	}
	if c.SessionDuration <= 0 {
		return errors.New("SESSION_DURATION must be positive")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// Location resolves TZ_NAME, falling back to the process local zone
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// UsesMemoryStore reports whether state lives only in process memory
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseType == "memory"
}
