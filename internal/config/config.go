package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// HTTP Server
	Port               string `env:"PORT" envDefault:"8081"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	// Backend selection
	DataBackend   string        `env:"DATA_BACKEND" envDefault:"csv"`
	LoadTimeout   time.Duration `env:"LOAD_TIMEOUT" envDefault:"30s"`
	BillsCSVPath  string        `env:"BILLS_CSV_PATH" envDefault:"./allBills.csv"`
	DataDirectory string        `env:"DATA_DIRECTORY" envDefault:"data"`

	// Database
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/policymap.db"`

	// Google Sheets
	GoogleSpreadsheetID          string `env:"GOOGLE_SPREADSHEET_ID"`
	GoogleSheetName              string `env:"GOOGLE_SHEET_NAME" envDefault:"Bills"`
	GoogleServiceAccountJSON     string `env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile     string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GoogleApplicationCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// AMQP, disabled when the URL is empty
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"policymap"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"catalog_reload"`

	// Search cache
	SearchCacheSize int           `env:"SEARCH_CACHE_SIZE" envDefault:"256"`
	SearchCacheTTL  time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"10m"`
}

// Backends lists the accepted DATA_BACKEND values.
var Backends = []string{"csv", "sheets", "sqlite", "memory"}

var logLevels = []string{"debug", "info", "warn", "error"}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

// AMQPEnabled reports whether a broker URL was configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// ServiceAccountFile returns GOOGLE_SERVICE_ACCOUNT_FILE, falling back to
// GOOGLE_APPLICATION_CREDENTIALS.
func (c *Config) ServiceAccountFile() string {
	if c.GoogleServiceAccountFile != "" {
		return c.GoogleServiceAccountFile
	}
	return c.GoogleApplicationCredentials
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(logLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, logLevels))
	}

	if !slices.Contains(Backends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, Backends))
	}

	switch c.DataBackend {
	case "csv":
		if c.BillsCSVPath == "" {
			errors = append(errors, "bills CSV path cannot be empty when using csv backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
		if c.GoogleServiceAccountJSON == "" && c.ServiceAccountFile() == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets backend")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SearchCacheSize < 1 || c.SearchCacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid search cache size %d: must be between 1 and 100000", c.SearchCacheSize))
	}
	if c.SearchCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid search cache TTL %v: must be at least 1 second", c.SearchCacheTTL))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 per minute", c.RateLimitPerMinute))
	}
	if c.LoadTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid load timeout %v: must be at least 1 second", c.LoadTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
