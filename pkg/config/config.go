// Package config loads sunloc settings from defaults, a YAML file, a .env
// file and SUNLOC_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/caarlos0/env/v6"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// PathEnv names the variable holding the config file path
	PathEnv = "SUNLOC_CONFIG"
	// DefaultPath is read when present and no path is given
	DefaultPath = "sunloc.yaml"
	// DotEnvFile is read when present
	DotEnvFile = ".env"

	MaxForecastDays = 365
)

// Config aggregates the runtime configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Gazetteer GazetteerConfig `yaml:"gazetteer"`
	Store     StoreConfig     `yaml:"store"`
	Display   DisplayConfig   `yaml:"display"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level      string `yaml:"level" env:"SUNLOC_LOG_LEVEL"`
	Format     string `yaml:"format" env:"SUNLOC_LOG_FORMAT"`
	File       string `yaml:"file" env:"SUNLOC_LOG_FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMb" env:"SUNLOC_LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"SUNLOC_LOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"SUNLOC_LOG_MAX_AGE_DAYS"`
}

// ForecastConfig selects the ephemeris engine and default horizon
type ForecastConfig struct {
	Engine string `yaml:"engine" env:"SUNLOC_ENGINE"`
	Days   int    `yaml:"days" env:"SUNLOC_FORECAST_DAYS"`
}

// GazetteerConfig controls reference place lookups
type GazetteerConfig struct {
	IndexFile string `yaml:"indexFile" env:"SUNLOC_GAZETTEER_INDEX"`
	Neighbors int    `yaml:"neighbors" env:"SUNLOC_GAZETTEER_NEIGHBORS"`
}

// StoreConfig enables the Postgres archive when DSN is set
type StoreConfig struct {
	DSN string `yaml:"dsn" env:"SUNLOC_STORE_DSN"`
}

// DisplayConfig controls terminal output
type DisplayConfig struct {
	Interactive bool `yaml:"interactive" env:"SUNLOC_INTERACTIVE"`
	TableHeight int  `yaml:"tableHeight" env:"SUNLOC_TABLE_HEIGHT"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Forecast: ForecastConfig{
			Engine: forecast.SunriseEngineName,
			Days:   30,
		},
		Gazetteer: GazetteerConfig{
			Neighbors: 3,
		},
		Display: DisplayConfig{
			TableHeight: 15,
		},
	}
}

// Load builds the configuration. An explicit path must exist; otherwise
// SUNLOC_CONFIG and then sunloc.yaml are tried.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(PathEnv)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath
	}

	if err := hydrateFromFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if _, err := os.Stat(DotEnvFile); err == nil {
		// variables already in the environment win over the file
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, fmt.Errorf("read %s: %w", DotEnvFile, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Forecast.Engine = strings.ToLower(strings.TrimSpace(cfg.Forecast.Engine))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Log.File != "" && (c.Log.MaxSizeMB <= 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0) {
		result = multierror.Append(result, errors.New("log: rotation limits must be positive"))
	}

	if _, err := forecast.NewEngine(c.Forecast.Engine); err != nil {
		result = multierror.Append(result, fmt.Errorf("forecast.engine: %w", err))
	}
	if c.Forecast.Days < 1 || c.Forecast.Days > MaxForecastDays {
		result = multierror.Append(result, fmt.Errorf("forecast.days: %d not in [1, %d]", c.Forecast.Days, MaxForecastDays))
	}

	if c.Gazetteer.Neighbors < 0 {
		result = multierror.Append(result, fmt.Errorf("gazetteer.neighbors: %d is negative", c.Gazetteer.Neighbors))
	}
	if c.Display.TableHeight < 1 {
		result = multierror.Append(result, fmt.Errorf("display.tableHeight: %d is not positive", c.Display.TableHeight))
	}

	return result.ErrorOrNil()
}

// ValidateDays checks a forecast horizon requested on the command line
func ValidateDays(days int) error {
	if days < 1 || days > MaxForecastDays {
		return fmt.Errorf("%w: %d not in [1, %d]", forecast.ErrInvalidDays, days, MaxForecastDays)
	}
	return nil
}

// StoreEnabled reports whether solves are archived
func (c *Config) StoreEnabled() bool {
	return c.Store.DSN != ""
}
