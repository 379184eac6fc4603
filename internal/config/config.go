package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs at startup. Values come
// from an optional YAML file (AUGUR_CONFIG) with environment
// variables taking precedence over both the file and the defaults.
type Config struct {
	Env string `yaml:"env"`

	Feed   FeedConfig   `yaml:"feed"`
	Sheets SheetsConfig `yaml:"sheets"`

	RedisURL string `yaml:"redis_url"`

	RESTPort    string `yaml:"rest_port"`
	WSPort      string `yaml:"ws_port"`
	MetricsPort string `yaml:"metrics_port"`

	RefreshInterval          time.Duration `yaml:"refresh_interval"`
	NotificationPollInterval time.Duration `yaml:"notification_poll_interval"`
}

// FeedConfig configures the live prediction feed client.
type FeedConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SheetsConfig configures the fallback spreadsheet source.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`

	PredictionsRange   string `yaml:"predictions_range"`
	CoverAnalysisRange string `yaml:"cover_analysis_range"`
}

// Load builds the configuration from defaults, the optional YAML file
// named by AUGUR_CONFIG, and environment overrides, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("AUGUR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Env: "local",
		Feed: FeedConfig{
			BaseURL: "http://localhost:5001",
			Timeout: 4 * time.Second,
		},
		Sheets: SheetsConfig{
			CredentialsFile:    "credentials.json",
			PredictionsRange:   "Predictions!A1:Z",
			CoverAnalysisRange: "Cover Analysis!A1:Z",
		},
		RedisURL:                 "redis://localhost:6379",
		RESTPort:                 "8080",
		WSPort:                   "8081",
		MetricsPort:              "9095",
		RefreshInterval:          30 * time.Second,
		NotificationPollInterval: 10 * time.Second,
	}
}

func (c *Config) applyEnv() {
	setString(&c.Env, "ENV")
	setString(&c.Feed.BaseURL, "FEED_BASE_URL")
	setDuration(&c.Feed.Timeout, "FEED_TIMEOUT")
	setString(&c.Sheets.SpreadsheetID, "SHEETS_SPREADSHEET_ID")
	setString(&c.Sheets.CredentialsFile, "SHEETS_CREDENTIALS_FILE")
	setString(&c.Sheets.PredictionsRange, "SHEETS_PREDICTIONS_RANGE")
	setString(&c.Sheets.CoverAnalysisRange, "SHEETS_COVER_ANALYSIS_RANGE")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.RESTPort, "REST_PORT")
	setString(&c.WSPort, "WS_PORT")
	setString(&c.MetricsPort, "METRICS_PORT")
	setDuration(&c.RefreshInterval, "REFRESH_INTERVAL")
	setDuration(&c.NotificationPollInterval, "NOTIFICATION_POLL_INTERVAL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
