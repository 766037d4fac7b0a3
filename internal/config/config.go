// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/errors"
	"cabinet-pricing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog locates the product catalog
	Catalog CatalogConfig `json:"catalog"`

	// Pricing contains pricing defaults
	Pricing PricingConfig `json:"pricing"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CatalogConfig contains catalog settings
type CatalogConfig struct {
	// Path is the HCL catalog file
	Path string `json:"path"`

	// Wall is the default wall used by placement checks
	Wall string `json:"wall,omitempty"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// DefaultCurrency is used when no --currency flag is given
	DefaultCurrency types.Currency `json:"default_currency"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (table, json)
	DefaultFormat string `json:"default_format"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			Path: "catalog.hcl",
		},
		Pricing: PricingConfig{
			DefaultCurrency: types.CurrencyUSD,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.cabinet-pricing.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".cabinet-pricing.json")
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("read "+path, err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("decode "+path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Environment overrides, applied after the config file
const (
	EnvCatalog  = "CABINET_PRICING_CATALOG"
	EnvWall     = "CABINET_PRICING_WALL"
	EnvCurrency = "CABINET_PRICING_CURRENCY"
	EnvFormat   = "CABINET_PRICING_FORMAT"
	EnvLogLevel = "CABINET_PRICING_LOG_LEVEL"
)

// ApplyEnv overlays CABINET_PRICING_* variables. envFiles are loaded first
// (".env" when none are given); a missing file is not an error and variables
// already set in the process win over the file.
func (c *Config) ApplyEnv(envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	c.Catalog.Path = getEnv(EnvCatalog, c.Catalog.Path)
	c.Catalog.Wall = getEnv(EnvWall, c.Catalog.Wall)
	if code := os.Getenv(EnvCurrency); code != "" {
		currency, err := types.ParseCurrency(code)
		if err != nil {
			return errors.Config(EnvCurrency, err)
		}
		c.Pricing.DefaultCurrency = currency
	}
	c.Output.DefaultFormat = getEnv(EnvFormat, c.Output.DefaultFormat)
	c.Logging.Level = getEnv(EnvLogLevel, c.Logging.Level)

	return c.Validate()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Validate checks values that would otherwise fail later at pricing time
func (c *Config) Validate() error {
	if !c.Pricing.DefaultCurrency.IsValid() {
		return errors.Newf(errors.TypeConfig, "pricing.default_currency %q is not USD or VES", c.Pricing.DefaultCurrency)
	}
	switch c.Output.DefaultFormat {
	case "table", "json":
	default:
		return errors.Newf(errors.TypeConfig, "output.default_format %q is not table or json", c.Output.DefaultFormat)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
