// Package config handles configuration loading for the option trading
// toolkit. It supports YAML config files with environment variable
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration. The json
// tags shape GET /api/v1/config responses; sensitive values carry
// json:"-" so they never leave the process.
type Config struct {
	Pricing PricingConfig `mapstructure:"pricing" json:"pricing" yaml:"pricing"`
	Data    DataConfig    `mapstructure:"data"    json:"data"    yaml:"data"`
	Report  ReportConfig  `mapstructure:"report"  json:"report"  yaml:"report"`
	API     APIConfig     `mapstructure:"api"     json:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// PricingConfig holds the model inputs used when the operator does not
// supply one. RiskFreeRate and Volatility are annualized decimals.
type PricingConfig struct {
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"  json:"risk_free_rate"  yaml:"risk_free_rate"`
	Volatility    float64 `mapstructure:"volatility"      json:"volatility"      yaml:"volatility"`
	PayoffSpanPct float64 `mapstructure:"payoff_span_pct" json:"payoff_span_pct" yaml:"payoff_span_pct"`
	PayoffSamples int     `mapstructure:"payoff_samples"  json:"payoff_samples"  yaml:"payoff_samples"`
}

// DataConfig holds market data source settings. Providers is the
// preference order used when several sources serve the same model.
type DataConfig struct {
	QuandlKey   string   `mapstructure:"quandl_key"   json:"-"            yaml:"quandl_key"`
	Providers   []string `mapstructure:"providers"    json:"providers"    yaml:"providers"`
	HistoryDays int      `mapstructure:"history_days" json:"history_days" yaml:"history_days"`
	NewsLimit   int      `mapstructure:"news_limit"   json:"news_limit"   yaml:"news_limit"`
	CacheTTL    int      `mapstructure:"cache_ttl"    json:"cache_ttl"    yaml:"cache_ttl"` // seconds
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	OutputDir   string `mapstructure:"output_dir"   json:"output_dir"   yaml:"output_dir"`
	ChartWidth  int    `mapstructure:"chart_width"  json:"chart_width"  yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" json:"chart_height" yaml:"chart_height"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         json:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         json:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins" yaml:"cors_origins"`
	Throttle    int      `mapstructure:"throttle"     json:"throttle"     yaml:"throttle"` // max in-flight requests
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  json:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.optiontrading/config.yaml (home directory)
//  3. /etc/optiontrading/config.yaml (system)
//
// Environment variables override config file values.
// Format: OPTIONTRADING_<SECTION>_<KEY>, e.g., OPTIONTRADING_DATA_QUANDL_KEY
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".optiontrading"))
	v.AddConfigPath("/etc/optiontrading")

	// Environment variable settings
	v.SetEnvPrefix("OPTIONTRADING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("OPTIONTRADING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Pricing defaults
	v.SetDefault("pricing.risk_free_rate", 0.015)
	v.SetDefault("pricing.volatility", 0.20)
	v.SetDefault("pricing.payoff_span_pct", 0.50)
	v.SetDefault("pricing.payoff_samples", 100)

	// Data defaults
	v.SetDefault("data.providers", []string{"quandl", "yfinance", "cboe"})
	v.SetDefault("data.history_days", 365)
	v.SetDefault("data.news_limit", 10)
	v.SetDefault("data.cache_ttl", 300) // 5 minutes

	// Report defaults
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.chart_width", 960)
	v.SetDefault("report.chart_height", 480)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8765)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.throttle", 100)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment
// variables. QUANDL_API_KEY is the conventional variable name; the
// prefixed form wins when both are set.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("OPTIONTRADING_DATA_QUANDL_KEY"); key != "" {
		cfg.Data.QuandlKey = key
	} else if key := os.Getenv("QUANDL_API_KEY"); key != "" {
		cfg.Data.QuandlKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
