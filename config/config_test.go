package config

import (
	"os"
	"testing"
)

// writeTempConfig creates a minimal configuration file required for LoadConfig
// and returns its path.
func writeTempConfig(t *testing.T) string {
	t.Helper()
	content := `citrusflow:
  name: "TestApp"
  version: "1.0"
input:
  path: "data/orders.csv"
analysis:
  top_n: 5
dashboard:
  enabled: false
storage:
  export:
    enabled: false
  s3:
    enabled: false
logging:
  level: info
  format: json
  output: stdout
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Citrusflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Citrusflow.Name)
	}
	if cfg.Input.Path != "data/orders.csv" {
		t.Errorf("unexpected input path: %s", cfg.Input.Path)
	}
	if cfg.Analysis.TopN != 5 {
		t.Errorf("unexpected top_n: %d", cfg.Analysis.TopN)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Analysis.HighRevenueQuantile != 0.80 {
		t.Errorf("unexpected high_revenue_quantile: %f", cfg.Analysis.HighRevenueQuantile)
	}
	if cfg.Analysis.MinSellerCustomers != 10 {
		t.Errorf("unexpected min_seller_customers: %d", cfg.Analysis.MinSellerCustomers)
	}
	if cfg.Analysis.ActiveWindowDays != 30 {
		t.Errorf("unexpected active_window_days: %d", cfg.Analysis.ActiveWindowDays)
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	content := `citrusflow:
  version: "1.0"
input:
  path: "data/orders.csv"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
}

func TestLoadConfigS3EnvOverride(t *testing.T) {
	content := `citrusflow:
  name: "TestApp"
  version: "1.0"
input:
  path: "data/orders.csv"
storage:
  s3:
    enabled: true
    bucket: "from-file"
    region: "ap-northeast-2"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	t.Setenv("S3_BUCKET", "from-env")
	t.Setenv("AWS_REGION", "us-east-1")

	cfg, err := LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.S3.Bucket != "from-env" {
		t.Errorf("expected env override for bucket, got %s", cfg.Storage.S3.Bucket)
	}
	if cfg.Storage.S3.Region != "us-east-1" {
		t.Errorf("expected env override for region, got %s", cfg.Storage.S3.Region)
	}
}
