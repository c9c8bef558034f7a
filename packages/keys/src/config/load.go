package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "NGKEYS_"

// Load loads the configuration file at path, applies defaults and
// validates it. Environment variables are not read; use LoadWithEnvOverrides
// for that.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// read parses the configuration file at path and applies defaults
func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadWithEnvOverrides loads the configuration file at path and applies the
// NGKEYS_ environment overrides, which take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
//
// Only the final configuration is validated, so an override can replace an
// invalid file value.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	return finishEnvOverrides(cfg)
}

// FromEnv builds a configuration from defaults and environment overrides
// only, for projects without a configuration file.
func FromEnv() (*Config, error) {
	return finishEnvOverrides(New())
}

func finishEnvOverrides(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(EnvPrefix + "INPUT"); val != "" {
		cfg.Input = splitList(val)
	}
	if val := os.Getenv(EnvPrefix + "OUTPUT"); val != "" {
		cfg.Output = val
	}
	if val := os.Getenv(EnvPrefix + "LANGS"); val != "" {
		cfg.Langs = splitList(val)
	}
	if val := os.Getenv(EnvPrefix + "MARKER"); val != "" {
		cfg.Marker = val
	}
	if val := os.Getenv(EnvPrefix + "PIPE"); val != "" {
		cfg.Pipe = val
	}
	if val, ok := os.LookupEnv(EnvPrefix + "DEFAULT_VALUE"); ok {
		cfg.DefaultValue = val
	}
	if val := os.Getenv(EnvPrefix + "SORT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Sort = b
		}
	}
	if val := os.Getenv(EnvPrefix + "UNFLAT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Unflat = b
		}
	}
	if val := os.Getenv(EnvPrefix + "REPLACE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Replace = b
		}
	}
	if val := os.Getenv(EnvPrefix + "CONCURRENCY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Concurrency = i
		}
	}
	if val := os.Getenv(EnvPrefix + "STORE"); val != "" {
		cfg.Store = val
	}
	if val := os.Getenv(EnvPrefix + "LOG_LEVEL"); val != "" {
		cfg.LogLevel = strings.ToLower(val)
	}
	if val := os.Getenv(EnvPrefix + "LOG_FORMAT"); val != "" {
		cfg.LogFormat = strings.ToLower(val)
	}
	if val := os.Getenv(EnvPrefix + "WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv(EnvPrefix + "WATCH_SCHEDULE"); val != "" {
		cfg.Watch.Schedule = val
	}
	if val := os.Getenv(EnvPrefix + "METRICS_ADDRESS"); val != "" {
		cfg.Metrics.Address = val
	}
	if val := os.Getenv(EnvPrefix + "TRACING_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := os.Getenv(EnvPrefix + "TRACING_INSECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Insecure = b
		}
	}
}

func splitList(val string) []string {
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
