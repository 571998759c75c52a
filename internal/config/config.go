package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultSport     = "fitness_equipment"
	DefaultChartsDir = "plots"
	DefaultLogLevel  = "info"
)

var ErrUnknownEnv = errors.New("unknown env")

type Config struct {
	Environment string `toml:"-"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// garmin db
	// GarminConfigPath points to GarminConnectConfig.json, empty means ~/.GarminDb/GarminConnectConfig.json
	GarminConfigPath string `toml:"garmin_config_path"`
	// GarminDBPath overrides the activities db location resolved from the garmin config
	GarminDBPath string `toml:"garmin_db_path"`
	Sport        string `toml:"sport"`
	// output
	ChartsDir       string `toml:"charts_dir"`
	MetricsTextfile string `toml:"metrics_textfile"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnv, env)
	}

	if cfg == nil {
		// missing table still gets a usable config
		cfg = &Config{}
	}
	cfg.Environment = env
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Sport == "" {
		c.Sport = DefaultSport
	}
	if c.ChartsDir == "" {
		c.ChartsDir = DefaultChartsDir
	}
}

// Load reads the TOML config file and returns the table for the given env.
// A missing config file is not an error, defaults are used instead.
func Load(env, path string) (*Config, error) {
	t := &Toml{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, t); err != nil {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	return t.Get(env)
}

// Parse decodes config from TOML text, mostly useful in tests.
func Parse(env, data string) (*Config, error) {
	t := &Toml{}
	if _, err := toml.Decode(data, t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}
