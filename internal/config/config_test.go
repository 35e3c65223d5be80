package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{
		"OPTIONTRADING_DATA_QUANDL_KEY", "QUANDL_API_KEY",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Pricing defaults
	if cfg.Pricing.RiskFreeRate != 0.015 {
		t.Errorf("Pricing.RiskFreeRate: got %f, want 0.015", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Pricing.Volatility != 0.20 {
		t.Errorf("Pricing.Volatility: got %f, want 0.20", cfg.Pricing.Volatility)
	}
	if cfg.Pricing.PayoffSpanPct != 0.50 {
		t.Errorf("Pricing.PayoffSpanPct: got %f, want 0.50", cfg.Pricing.PayoffSpanPct)
	}
	if cfg.Pricing.PayoffSamples != 100 {
		t.Errorf("Pricing.PayoffSamples: got %d, want 100", cfg.Pricing.PayoffSamples)
	}

	// Data defaults
	wantProviders := []string{"quandl", "yfinance", "cboe"}
	if len(cfg.Data.Providers) != len(wantProviders) {
		t.Fatalf("Data.Providers: got %v", cfg.Data.Providers)
	}
	for i, p := range wantProviders {
		if cfg.Data.Providers[i] != p {
			t.Errorf("Data.Providers[%d]: got %q, want %q", i, cfg.Data.Providers[i], p)
		}
	}
	if cfg.Data.HistoryDays != 365 {
		t.Errorf("Data.HistoryDays: got %d, want 365", cfg.Data.HistoryDays)
	}
	if cfg.Data.NewsLimit != 10 {
		t.Errorf("Data.NewsLimit: got %d, want 10", cfg.Data.NewsLimit)
	}
	if cfg.Data.CacheTTL != 300 {
		t.Errorf("Data.CacheTTL: got %d, want 300", cfg.Data.CacheTTL)
	}
	if cfg.Data.QuandlKey != "" {
		t.Errorf("Data.QuandlKey should default to empty, got %q", cfg.Data.QuandlKey)
	}

	// Report defaults
	if cfg.Report.OutputDir != "reports" {
		t.Errorf("Report.OutputDir: got %q, want %q", cfg.Report.OutputDir, "reports")
	}
	if cfg.Report.ChartWidth != 960 || cfg.Report.ChartHeight != 480 {
		t.Errorf("Report chart size: got %dx%d, want 960x480", cfg.Report.ChartWidth, cfg.Report.ChartHeight)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8765 {
		t.Errorf("API.Port: got %d, want 8765", cfg.API.Port)
	}
	if cfg.API.Throttle != 100 {
		t.Errorf("API.Throttle: got %d, want 100", cfg.API.Throttle)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	// Create a temp config file
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
pricing:
  risk_free_rate: 0.045
  volatility: 0.25
  payoff_samples: 200
data:
  quandl_key: "file_key_1234567890"
  providers: ["yfinance", "cboe"]
  history_days: 180
api:
  port: 9090
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	// Unset env vars
	os.Unsetenv("OPTIONTRADING_DATA_QUANDL_KEY")
	os.Unsetenv("QUANDL_API_KEY")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Pricing.RiskFreeRate != 0.045 {
		t.Errorf("Pricing.RiskFreeRate: got %f, want 0.045", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Pricing.Volatility != 0.25 {
		t.Errorf("Pricing.Volatility: got %f, want 0.25", cfg.Pricing.Volatility)
	}
	if cfg.Pricing.PayoffSamples != 200 {
		t.Errorf("Pricing.PayoffSamples: got %d, want 200", cfg.Pricing.PayoffSamples)
	}
	// Unset file values keep their defaults.
	if cfg.Pricing.PayoffSpanPct != 0.50 {
		t.Errorf("Pricing.PayoffSpanPct: got %f, want default 0.50", cfg.Pricing.PayoffSpanPct)
	}
	if cfg.Data.QuandlKey != "file_key_1234567890" {
		t.Errorf("Data.QuandlKey: got %q", cfg.Data.QuandlKey)
	}
	if len(cfg.Data.Providers) != 2 || cfg.Data.Providers[0] != "yfinance" {
		t.Errorf("Data.Providers: got %v", cfg.Data.Providers)
	}
	if cfg.Data.HistoryDays != 180 {
		t.Errorf("Data.HistoryDays: got %d, want 180", cfg.Data.HistoryDays)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	os.Setenv("QUANDL_API_KEY", "env-plain-key-123456")
	defer os.Unsetenv("QUANDL_API_KEY")

	cfg := &Config{}
	overrideFromEnv(cfg)
	if cfg.Data.QuandlKey != "env-plain-key-123456" {
		t.Errorf("QuandlKey from QUANDL_API_KEY: got %q", cfg.Data.QuandlKey)
	}

	// Prefixed form wins when both are set.
	os.Setenv("OPTIONTRADING_DATA_QUANDL_KEY", "env-prefixed-key-123")
	defer os.Unsetenv("OPTIONTRADING_DATA_QUANDL_KEY")

	cfg = &Config{}
	overrideFromEnv(cfg)
	if cfg.Data.QuandlKey != "env-prefixed-key-123" {
		t.Errorf("QuandlKey precedence: got %q, want prefixed value", cfg.Data.QuandlKey)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	os.Unsetenv("OPTIONTRADING_DATA_QUANDL_KEY")
	os.Unsetenv("QUANDL_API_KEY")

	cfg := &Config{
		Data: DataConfig{QuandlKey: "from-config"},
	}
	overrideFromEnv(cfg)

	// Should retain the original value when env is not set
	if cfg.Data.QuandlKey != "from-config" {
		t.Errorf("QuandlKey should stay as 'from-config' when env is unset, got %q", cfg.Data.QuandlKey)
	}
}

// ── maskKey ──

func TestMaskKeyShort(t *testing.T) {
	// Keys with 8 or fewer characters should be fully masked
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"a", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskKeyLong(t *testing.T) {
	// Keys with more than 8 characters show first 3 + ... + last 3
	tests := []struct {
		input string
		want  string
	}{
		{"123456789", "123...789"},
		{"qk-abcdef1234567890xyz", "qk-...xyz"},
		{"ABCDEFGHIJKLMNOP", "ABC...NOP"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckAPIKeys / checkKey ──

func TestCheckAPIKeysEmpty(t *testing.T) {
	os.Unsetenv("OPTIONTRADING_DATA_QUANDL_KEY")
	os.Unsetenv("QUANDL_API_KEY")

	cfg := &Config{}
	statuses := CheckAPIKeys(cfg)

	if len(statuses) != 1 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 1", len(statuses))
	}
	s := statuses[0]
	if s.Name != "Quandl API Key" {
		t.Errorf("Name: got %q", s.Name)
	}
	if s.IsSet {
		t.Error("key should not be set")
	}
	if s.Source != KeySourceNone {
		t.Errorf("Source: got %q, want %q", s.Source, KeySourceNone)
	}
}

func TestCheckAPIKeysFromConfig(t *testing.T) {
	os.Unsetenv("OPTIONTRADING_DATA_QUANDL_KEY")
	os.Unsetenv("QUANDL_API_KEY")

	cfg := &Config{
		Data: DataConfig{QuandlKey: "qk-test-very-long-key-value"},
	}
	statuses := CheckAPIKeys(cfg)

	s := statuses[0]
	if !s.IsSet {
		t.Error("Quandl key should be set")
	}
	if s.Source != KeySourceConfig {
		t.Errorf("Source: got %q, want %q", s.Source, KeySourceConfig)
	}
	if s.Masked != "qk-...lue" {
		t.Errorf("Masked: got %q, want %q", s.Masked, "qk-...lue")
	}
}

func TestCheckAPIKeysFromEnv(t *testing.T) {
	os.Setenv("QUANDL_API_KEY", "qk-env-key-for-testing")
	defer os.Unsetenv("QUANDL_API_KEY")

	cfg := &Config{
		Data: DataConfig{QuandlKey: "qk-env-key-for-testing"},
	}
	statuses := CheckAPIKeys(cfg)

	if statuses[0].Source != KeySourceEnv {
		t.Errorf("Source: got %q, want %q", statuses[0].Source, KeySourceEnv)
	}
}

func TestCheckKeySourceDetection(t *testing.T) {
	// No env, no value
	os.Unsetenv("TEST_VAR")
	os.Unsetenv("TEST_VAR_ALT")
	s := checkKey("Test", "", "TEST_VAR", "TEST_VAR_ALT")
	if s.Source != KeySourceNone {
		t.Errorf("empty value: got source %q, want %q", s.Source, KeySourceNone)
	}
	if s.IsSet {
		t.Error("empty value should not be set")
	}

	// Value from config (no env)
	s = checkKey("Test", "config-value-long-enough", "TEST_VAR", "TEST_VAR_ALT")
	if s.Source != KeySourceConfig {
		t.Errorf("config value: got source %q, want %q", s.Source, KeySourceConfig)
	}
	if !s.IsSet {
		t.Error("config value should be set")
	}

	// Value from either env var
	os.Setenv("TEST_VAR_ALT", "env-value-long-enough")
	defer os.Unsetenv("TEST_VAR_ALT")
	s = checkKey("Test", "env-value-long-enough", "TEST_VAR", "TEST_VAR_ALT")
	if s.Source != KeySourceEnv {
		t.Errorf("env value: got source %q, want %q", s.Source, KeySourceEnv)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	h := homeDir()
	if h == "" {
		t.Error("homeDir() should not return empty string")
	}
}

// ── APIKeySource constants ──

func TestAPIKeySourceConstants(t *testing.T) {
	if string(KeySourceEnv) != "env" {
		t.Errorf("KeySourceEnv: got %q", KeySourceEnv)
	}
	if string(KeySourceConfig) != "config" {
		t.Errorf("KeySourceConfig: got %q", KeySourceConfig)
	}
	if string(KeySourceNone) != "none" {
		t.Errorf("KeySourceNone: got %q", KeySourceNone)
	}
}
