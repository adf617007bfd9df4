package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Citrusflow CitrusflowConfig `yaml:"citrusflow"`
	Input      InputConfig      `yaml:"input"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type CitrusflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type InputConfig struct {
	Path string `yaml:"path"`
}

type AnalysisConfig struct {
	// ActiveWindowDays bounds the recency used to call a seller "active".
	ActiveWindowDays int `yaml:"active_window_days"`
	// MinSellerCustomers filters the distinct-date repurchase ranking.
	MinSellerCustomers int `yaml:"min_seller_customers"`
	// HighRevenueQuantile marks the per-seller revenue threshold for the
	// region deep dive (0.80 means top 20%).
	HighRevenueQuantile float64 `yaml:"high_revenue_quantile"`
	// MinProductOrders filters products in the cancellation ranking.
	MinProductOrders int `yaml:"min_product_orders"`
	TopN             int `yaml:"top_n"`
}

type DashboardConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Address         string        `yaml:"address"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	LogHistory      int           `yaml:"log_history"`
	ResourceHistory int           `yaml:"resource_history"`
	// ReloadPerMinute caps POST /api/reload calls.
	ReloadPerMinute int `yaml:"reload_per_minute"`
}

type StorageConfig struct {
	Export ExportConfig `yaml:"export"`
	S3     S3Config     `yaml:"s3"`
}

type ExportConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Directory string `yaml:"directory"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Analysis: AnalysisConfig{
			ActiveWindowDays:    30,
			MinSellerCustomers:  10,
			HighRevenueQuantile: 0.80,
			MinProductOrders:    10,
			TopN:                10,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Citrusflow.Name == "" {
		return fmt.Errorf("citrusflow.name is required")
	}

	if cfg.Citrusflow.Version == "" {
		return fmt.Errorf("citrusflow.version is required")
	}

	if cfg.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}

	if cfg.Analysis.HighRevenueQuantile <= 0 || cfg.Analysis.HighRevenueQuantile >= 1 {
		return fmt.Errorf("analysis.high_revenue_quantile must be between 0 and 1")
	}

	if cfg.Analysis.TopN <= 0 {
		return fmt.Errorf("analysis.top_n must be greater than 0")
	}

	if cfg.Storage.S3.Enabled && cfg.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required when s3 is enabled")
	}

	return nil
}
