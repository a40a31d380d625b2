package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	wterror "github.com/msto63/werktag/foundation/core/error"
	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/foundation/utils/timex"
)

// EnvConfig names the environment variable holding the config file path
const EnvConfig = "WERKTAG_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Engine   EngineConfig   `toml:"engine" yaml:"engine"`
	Holidays HolidaysConfig `toml:"holidays" yaml:"holidays"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// EngineConfig describes the business-time constraint set and limits
type EngineConfig struct {
	Precision         Duration `toml:"precision" yaml:"precision"`
	IterationLimit    int      `toml:"iteration_limit" yaml:"iteration_limit"`
	BusinessDayLength Duration `toml:"business_day_length" yaml:"business_day_length"`
	// Location is an IANA zone name; instants are classified in this zone
	Location string   `toml:"location" yaml:"location"`
	WeekDays []string `toml:"weekdays" yaml:"weekdays"`
	// Hours lists opening windows such as "09:00-12:00"; any window may hold
	Hours []string `toml:"hours" yaml:"hours"`
	// Closures lists dates that are closed regardless of the other rules
	Closures []string `toml:"closures" yaml:"closures"`
	// Expressions are CEL conditions that must all hold
	Expressions []string           `toml:"expressions" yaml:"expressions"`
	Recurrences []RecurrenceConfig `toml:"recurrences" yaml:"recurrences"`
	// Memoize caches classifications per instant when greater than zero
	Memoize int `toml:"memoize" yaml:"memoize"`
}

// RecurrenceConfig opens or closes time after each occurrence of an RRULE
type RecurrenceConfig struct {
	Rule   string   `toml:"rule" yaml:"rule"`
	Start  string   `toml:"start" yaml:"start"`
	Length Duration `toml:"length" yaml:"length"`
	// Exclude closes the recurring windows instead of requiring them
	Exclude bool `toml:"exclude" yaml:"exclude"`
}

// HolidaysConfig holds holiday source settings
type HolidaysConfig struct {
	Files    []string     `toml:"files" yaml:"files"`
	Database string       `toml:"database" yaml:"database"`
	Calendar string       `toml:"calendar" yaml:"calendar"`
	Remote   RemoteConfig `toml:"remote" yaml:"remote"`
}

// RemoteConfig holds public holiday API settings
type RemoteConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	BaseURL   string   `toml:"base_url" yaml:"base_url"`
	Country   string   `toml:"country" yaml:"country"`
	Timeout   Duration `toml:"timeout" yaml:"timeout"`
	RateLimit float64  `toml:"rate_limit" yaml:"rate_limit"`
	Burst     int      `toml:"burst" yaml:"burst"`
	CacheTTL  Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Namespace string `toml:"namespace" yaml:"namespace"`
	// Textfile receives the metrics after each CLI command
	Textfile string `toml:"textfile" yaml:"textfile"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string such as "15m" or "8 hours"
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = timex.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, wterror.Newf("config file not found: %s", path).
			WithCode(wterror.CodeMissingConfig).
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, wterror.Wrap(err, "failed to read config").WithCode(wterror.CodeConfigError)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, wterror.Wrap(err, "failed to parse config").
				WithCode(wterror.CodeConfigError).
				WithDetail("path", path)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, wterror.Wrap(err, "failed to parse config").
				WithCode(wterror.CodeConfigError).
				WithDetail("path", path)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the WERKTAG_CONFIG environment
// variable or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			"./configs/werktag.toml",
			"./werktag.toml",
			"./werktag.yaml",
			filepath.Join(home, ".config/werktag/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, wterror.Newf("no config file found, set %s or create configs/werktag.toml", EnvConfig).
			WithCode(wterror.CodeMissingConfig)
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "werktag"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Engine
	if c.Engine.Precision.Duration == 0 {
		c.Engine.Precision.Duration = time.Hour
	}
	if c.Engine.IterationLimit == 0 {
		c.Engine.IterationLimit = 100000
	}
	if c.Engine.BusinessDayLength.Duration == 0 {
		c.Engine.BusinessDayLength.Duration = 8 * time.Hour
	}
	if c.Engine.Location == "" {
		c.Engine.Location = "Local"
	}
	if len(c.Engine.WeekDays) == 0 {
		c.Engine.WeekDays = []string{"mon", "tue", "wed", "thu", "fri"}
	}
	if len(c.Engine.Hours) == 0 {
		c.Engine.Hours = []string{"09:00-17:00"}
	}

	// Holidays
	if c.Holidays.Calendar == "" {
		c.Holidays.Calendar = "default"
	}
	if c.Holidays.Remote.BaseURL == "" {
		c.Holidays.Remote.BaseURL = "https://date.nager.at"
	}
	if c.Holidays.Remote.Timeout.Duration == 0 {
		c.Holidays.Remote.Timeout.Duration = 10 * time.Second
	}
	if c.Holidays.Remote.RateLimit == 0 {
		c.Holidays.Remote.RateLimit = 2
	}
	if c.Holidays.Remote.Burst == 0 {
		c.Holidays.Remote.Burst = 4
	}
	if c.Holidays.Remote.CacheTTL.Duration == 0 {
		c.Holidays.Remote.CacheTTL.Duration = 24 * time.Hour
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "werktag"
	}
}

// expandEnvVars expands environment variables in paths and resolves
// holiday files relative to the config file
func (c *Config) expandEnvVars(base string) {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Holidays.Database = os.ExpandEnv(c.Holidays.Database)
	c.Metrics.Textfile = os.ExpandEnv(c.Metrics.Textfile)
	for i, f := range c.Holidays.Files {
		f = os.ExpandEnv(f)
		if !filepath.IsAbs(f) && base != "" {
			f = filepath.Join(base, f)
		}
		c.Holidays.Files[i] = f
	}
}

func invalid(field string, value interface{}, cause error) error {
	msg := fmt.Sprintf("invalid %s: %v", field, value)
	if cause != nil {
		return wterror.Wrap(cause, msg).
			WithCode(wterror.CodeInvalidConfig).
			WithDetail("field", field)
	}
	return wterror.New(msg).
		WithCode(wterror.CodeInvalidConfig).
		WithDetail("field", field)
}

// Validate checks the configuration values without touching holiday sources
func (c *Config) Validate() error {
	if _, err := wtlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, err)
	}
	if _, err := wtlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, err)
	}

	e := c.Engine
	if e.Precision.Duration <= 0 {
		return invalid("engine.precision", e.Precision.Duration, nil)
	}
	if e.IterationLimit < 1 {
		return invalid("engine.iteration_limit", e.IterationLimit, nil)
	}
	if e.BusinessDayLength.Duration <= 0 {
		return invalid("engine.business_day_length", e.BusinessDayLength.Duration, nil)
	}
	if _, err := c.Location(); err != nil {
		return invalid("engine.location", e.Location, err)
	}
	for _, d := range e.WeekDays {
		if _, err := timex.ParseWeekday(d); err != nil {
			return invalid("engine.weekdays", d, err)
		}
	}
	for _, h := range e.Hours {
		if _, _, err := parseHours(h); err != nil {
			return invalid("engine.hours", h, err)
		}
	}
	for _, r := range e.Recurrences {
		if r.Rule == "" || r.Length.Duration <= 0 {
			return invalid("engine.recurrences", r.Rule, nil)
		}
	}
	if e.Memoize < 0 {
		return invalid("engine.memoize", e.Memoize, nil)
	}

	if c.Holidays.Remote.Enabled && c.Holidays.Remote.Country == "" {
		return invalid("holidays.remote.country", "", nil)
	}
	return nil
}

// Location resolves the configured zone
func (c *Config) Location() (*time.Location, error) {
	switch c.Engine.Location {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Engine.Location)
}

// LoggerLevel returns the parsed log level, info when invalid
func (c *Config) LoggerLevel() wtlog.Level {
	level, err := wtlog.ParseLevel(c.General.LogLevel)
	if err != nil {
		return wtlog.LevelInfo
	}
	return level
}

// parseHours splits "09:00-17:00" into its clock offsets
func parseHours(value string) (time.Duration, time.Duration, error) {
	from, to, ok := strings.Cut(value, "-")
	if !ok {
		return 0, 0, fmt.Errorf("expected FROM-TO, got %q", value)
	}
	f, err := timex.ParseClock(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, err
	}
	t, err := timex.ParseClock(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, err
	}
	return f, t, nil
}
