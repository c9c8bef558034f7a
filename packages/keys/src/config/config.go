package config

import (
	"log/slog"
	"time"

	"ngkeys-go/packages/keys/src/keys_builder/registry"
)

// Config is the configuration of a key extraction
type Config struct {
	// Input lists the directories and files holding templates
	Input []string `yaml:"input"`
	// Output is the root directory of the translation files
	Output string   `yaml:"output"`
	Langs  []string `yaml:"langs"`
	// Marker is the name of the directive attribute holding keys
	Marker string `yaml:"marker"`
	// Pipe is the name of the translation pipe
	Pipe string `yaml:"pipe"`
	// Scopes maps scope paths to their alias. An empty alias defaults to
	// the camelCase form of the path.
	Scopes map[string]string `yaml:"scopes"`
	// DefaultValue is the value of new keys. `{{key}}` and `{{scope}}` are
	// replaced.
	DefaultValue string `yaml:"defaultValue"`
	Sort         bool   `yaml:"sort"`
	Unflat       bool   `yaml:"unflat"`
	Replace      bool   `yaml:"replace"`
	Concurrency  int    `yaml:"concurrency"`
	// Store is the path of the SQLite key store. Empty disables it.
	Store     string        `yaml:"store"`
	LogLevel  string        `yaml:"logLevel"`
	LogFormat string        `yaml:"logFormat"`
	Watch     WatchConfig   `yaml:"watch"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Tracing   TracingConfig `yaml:"tracing"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long changes are collected before a new run
	Debounce time.Duration `yaml:"debounce"`
	// Schedule is a standard cron expression for full re-extractions on
	// top of file events. Empty disables it.
	Schedule string `yaml:"schedule"`
}

// MetricsConfig configures the metrics endpoint of watch mode
type MetricsConfig struct {
	// Address is the listen address of /metrics. Empty disables it.
	Address string `yaml:"address"`
}

// TracingConfig configures the OTLP trace exporter
type TracingConfig struct {
	// Endpoint is the host:port of the OTLP gRPC collector. Empty disables
	// tracing.
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"serviceName"`
	SampleRate  float64 `yaml:"sampleRate"`
}

// New creates a Config with default values and applies opts
func New(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	ApplyDefaults(cfg)
	return cfg
}

// Option is a function that modifies Config
type Option func(*Config)

// WithInput sets the template directories
func WithInput(input ...string) Option {
	return func(c *Config) {
		c.Input = input
	}
}

// WithOutput sets the translation directory
func WithOutput(output string) Option {
	return func(c *Config) {
		c.Output = output
	}
}

// WithLangs sets the languages
func WithLangs(langs ...string) Option {
	return func(c *Config) {
		c.Langs = langs
	}
}

// WithMarker sets the directive marker name
func WithMarker(marker string) Option {
	return func(c *Config) {
		c.Marker = marker
	}
}

// WithPipe sets the translation pipe name
func WithPipe(pipe string) Option {
	return func(c *Config) {
		c.Pipe = pipe
	}
}

// WithScopes sets the scope path to alias map
func WithScopes(scopes map[string]string) Option {
	return func(c *Config) {
		c.Scopes = scopes
	}
}

// WithDefaultValue sets the value of new keys
func WithDefaultValue(value string) Option {
	return func(c *Config) {
		c.DefaultValue = value
	}
}

// WithConcurrency sets the number of extraction workers
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}

// WithStore sets the SQLite key store path
func WithStore(path string) Option {
	return func(c *Config) {
		c.Store = path
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// ScopeSet returns the configured scopes
func (c *Config) ScopeSet() *registry.Scopes {
	return registry.NewScopes(c.Scopes)
}

// SlogLevel returns the log level as a slog.Level. Unknown levels are info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
