package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Secrets (the FRED API
// key) come from secrets.env or the environment, never from this file.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Simulation SimulationConfig `yaml:"simulation"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// Duration lets YAML carry human-readable durations ("5m", "90s"). Plain
// integers are taken as nanoseconds, matching time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type DataConfig struct {
	FREDBaseURL   string `yaml:"fred_base_url"`
	FREDSeriesID  string `yaml:"fred_series_id"`
	FREDAPIKey    string `yaml:"-"` // env/secrets.env only
	QuotesBaseURL string `yaml:"quotes_base_url"`

	CacheDir       string   `yaml:"cache_dir"`
	CacheTTL       Duration `yaml:"cache_ttl"`
	SearchCacheTTL Duration `yaml:"search_cache_ttl"`
}

// SimulationConfig holds the ladder and overlay policy knobs.
type SimulationConfig struct {
	BondIncrement  float64 `yaml:"bond_increment"`
	BondTermMonths int     `yaml:"bond_term_months"`
	StrikeMin      float64 `yaml:"strike_min"`
	StrikeMax      float64 `yaml:"strike_max"`
}

// DefaultsConfig pre-fills simulation parameters when a request omits them.
type DefaultsConfig struct {
	InitialInvestment int    `yaml:"initial_investment"`
	MonthlyInvestment int    `yaml:"monthly_investment"`
	Tickers           string `yaml:"tickers"`
}

// Load reads and validates the config file. A missing secrets.env is not an
// error; env vars always win over file values.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config and applies defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	// secrets.env carries FRED_API_KEY; silently absent in most setups.
	_ = godotenv.Load("secrets.env")

	var c Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("config: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&c)
	setDefaults(&c)
	return &c, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.Data.FREDAPIKey = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("QUOTES_BASE_URL"); v != "" {
		c.Data.QuotesBaseURL = v
	}
	if v := os.Getenv("FRED_SERIES_ID"); v != "" {
		c.Data.FREDSeriesID = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		c.Data.CacheDir = v
	}
}

func setDefaults(c *Config) {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Data.FREDBaseURL == "" {
		c.Data.FREDBaseURL = "https://api.stlouisfed.org"
	}
	if c.Data.FREDSeriesID == "" {
		c.Data.FREDSeriesID = "DGS10"
	}
	if c.Data.CacheDir == "" {
		c.Data.CacheDir = "data_cache"
	}
	if c.Data.CacheTTL == 0 {
		c.Data.CacheTTL = Duration(5 * time.Minute)
	}
	if c.Data.SearchCacheTTL == 0 {
		c.Data.SearchCacheTTL = Duration(10 * time.Minute)
	}
	if c.Simulation.BondIncrement == 0 {
		c.Simulation.BondIncrement = 100
	}
	if c.Simulation.BondTermMonths == 0 {
		c.Simulation.BondTermMonths = 3
	}
	if c.Simulation.StrikeMin == 0 {
		c.Simulation.StrikeMin = 1.05
	}
	if c.Simulation.StrikeMax == 0 {
		c.Simulation.StrikeMax = 1.15
	}
	if c.Defaults.InitialInvestment == 0 {
		c.Defaults.InitialInvestment = 1000
	}
	if c.Defaults.MonthlyInvestment == 0 {
		c.Defaults.MonthlyInvestment = 100
	}
	if c.Defaults.Tickers == "" {
		c.Defaults.Tickers = "AAPL"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Simulation.BondIncrement <= 0 {
		return errors.New("simulation.bond_increment must be > 0")
	}
	if c.Simulation.BondTermMonths <= 0 {
		return errors.New("simulation.bond_term_months must be > 0")
	}
	if c.Simulation.StrikeMin < 1 || c.Simulation.StrikeMax < c.Simulation.StrikeMin {
		return errors.New("simulation strike factors must satisfy 1 <= strike_min <= strike_max")
	}
	if c.Defaults.InitialInvestment < 0 || c.Defaults.MonthlyInvestment < 0 {
		return errors.New("default investment amounts must be >= 0")
	}
	return nil
}
