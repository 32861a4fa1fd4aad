// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Base directory for the portfolio database (defaults to ~/.halal-invest)
	LogLevel    string
	YahooAPIURL string // Market data endpoint base URL
	UserAgent   string // User agent for outbound HTTP requests

	// Pacing between consecutive market data requests. The provider rate
	// limits aggressively; batch operations wait this long per ticker.
	RequestPace time.Duration

	PipelineCron string // Cron spec for the daily screener (empty to disable)

	SMTP SMTPConfig
}

// SMTPConfig holds email delivery settings for the daily report
type SMTPConfig struct {
	Host      string
	Port      int
	Address   string // Sender address, also the SMTP username
	Password  string // App password
	Recipient string // Defaults to the sender address when unset
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	// Ignore missing .env; environment variables always win.
	_ = godotenv.Load()

	dataDir := getEnv("HALAL_INVEST_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".halal-invest")
	}

	cfg := &Config{
		DataDir:      dataDir,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		YahooAPIURL:  getEnv("YAHOO_API_URL", "https://query1.finance.yahoo.com"),
		UserAgent:    getEnv("HTTP_USER_AGENT", "Mozilla/5.0 (compatible; HalalInvestBot/1.0; +https://github.com/khan-rehan/halal-invest)"),
		RequestPace:  getEnvDuration("REQUEST_PACE", 300*time.Millisecond),
		PipelineCron: getEnv("PIPELINE_CRON", ""),
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:      getEnvInt("SMTP_PORT", 587),
			Address:   getEnv("GMAIL_ADDRESS", ""),
			Password:  getEnv("GMAIL_APP_PASSWORD", ""),
			Recipient: getEnv("RECIPIENT_EMAIL", ""),
		},
	}

	if cfg.SMTP.Recipient == "" {
		cfg.SMTP.Recipient = cfg.SMTP.Address
	}

	return cfg, nil
}

// DatabasePath returns the path of the portfolio database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "portfolio.db")
}

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.SMTP.Address != "" && c.SMTP.Password != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
