package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings and market-data provider credentials.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	MARKET_API_KEY=demo
//	MARKET_BASE_URL=https://www.alphavantage.co
//	REFRESH_INTERVAL=1h
type Config struct {
	Server          ServerConfig  // HTTP server configuration
	Market          MarketConfig  // Upstream market-data providers
	Log             LogConfig     // Logger settings
	RefreshInterval time.Duration // How often the price snapshot is refreshed and how long it is served
	HistoryDays     int           // Default historical window in days
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string // The TCP port the HTTP server will listen on (e.g., "8080")
	APIBaseURL         string // Public base URL of this service, shown in swagger and status
	RateLimitPerMinute int    // Requests per client IP per minute; 0 disables the limiter
}

// MarketConfig defines the upstream provider endpoints and call budget.
//
// Fields:
//   - APIKey: Alpha Vantage credential (required).
//   - BaseURL: Alpha Vantage base URL.
//   - TWSEBaseURL: TWSE MIS realtime quote host.
//   - TWSEReportURL: TWSE monthly report host.
//   - BOTBaseURL: Bank of Taiwan rate board host.
//   - DailyLimit: Alpha Vantage calls allowed per day (0 = unlimited).
//   - Timeout: per-request HTTP timeout.
//   - MaxRetries: retries on 5xx / 429 / transport errors.
type MarketConfig struct {
	APIKey        string
	BaseURL       string
	TWSEBaseURL   string
	TWSEReportURL string
	BOTBaseURL    string
	DailyLimit    int
	Timeout       time.Duration
	MaxRetries    int
}

// LogConfig configures the global zerolog logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated by LoadConfig(). New code should receive a Config value
// explicitly; AppConfig is kept for flag defaults in cmd.
var AppConfig Config

// LoadConfig reads configuration from the .env file and the environment.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// The result is validated; on success it is also stored in AppConfig.
func LoadConfig() (Config, error) {
	v := viper.New()

	// Default values
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	v.SetDefault("MARKET_BASE_URL", "https://www.alphavantage.co")
	v.SetDefault("TWSE_BASE_URL", "https://mis.twse.com.tw")
	v.SetDefault("TWSE_REPORT_URL", "https://www.twse.com.tw")
	v.SetDefault("BOT_BASE_URL", "https://rate.bot.com.tw")
	v.SetDefault("MARKET_DAILY_LIMIT", 25)
	v.SetDefault("PROVIDER_TIMEOUT", "10s")
	v.SetDefault("PROVIDER_MAX_RETRIES", 2)

	v.SetDefault("REFRESH_INTERVAL", "1h")
	v.SetDefault("HISTORY_DAYS", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{
			Port:               v.GetString("SERVER_PORT"),
			APIBaseURL:         v.GetString("API_BASE_URL"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Market: MarketConfig{
			APIKey:        strings.TrimSpace(v.GetString("MARKET_API_KEY")),
			BaseURL:       v.GetString("MARKET_BASE_URL"),
			TWSEBaseURL:   v.GetString("TWSE_BASE_URL"),
			TWSEReportURL: v.GetString("TWSE_REPORT_URL"),
			BOTBaseURL:    v.GetString("BOT_BASE_URL"),
			DailyLimit:    v.GetInt("MARKET_DAILY_LIMIT"),
			Timeout:       v.GetDuration("PROVIDER_TIMEOUT"),
			MaxRetries:    v.GetInt("PROVIDER_MAX_RETRIES"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
		HistoryDays:     v.GetInt("HISTORY_DAYS"),
	}

	// Validate critical fields
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	AppConfig = cfg
	return cfg, nil
}

// validateConfig ensures required variables are present and sane.
//
// Behavior:
//   - Collects missing required keys in one error.
//   - Checks URLs are absolute and numeric settings are in range.
func validateConfig(cfg Config) error {
	var missing []string
	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Market.APIKey == "" {
		missing = append(missing, "MARKET_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	var errs []error
	for key, raw := range map[string]string{
		"MARKET_BASE_URL": cfg.Market.BaseURL,
		"TWSE_BASE_URL":   cfg.Market.TWSEBaseURL,
		"TWSE_REPORT_URL": cfg.Market.TWSEReportURL,
		"BOT_BASE_URL":    cfg.Market.BOTBaseURL,
		"API_BASE_URL":    cfg.Server.APIBaseURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", key, raw))
		}
	}
	if cfg.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", cfg.RefreshInterval))
	}
	if cfg.Market.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", cfg.Market.Timeout))
	}
	if cfg.Market.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0, got %d", cfg.Market.MaxRetries))
	}
	if cfg.HistoryDays < 1 || cfg.HistoryDays > 60 {
		errs = append(errs, fmt.Errorf("HISTORY_DAYS must be within [1, 60], got %d", cfg.HistoryDays))
	}
	return errors.Join(errs...)
}
