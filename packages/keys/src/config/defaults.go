package config

import (
	"runtime"
	"time"

	"ngkeys-go/packages/keys/src/keys_builder/template"
)

// Default values
const (
	DefaultConfigFile = "ngkeys.yaml"
	DefaultInput      = "src/app"
	DefaultOutput     = "src/assets/i18n"
	DefaultLang       = "en"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultDebounce   = 200 * time.Millisecond
	DefaultService    = "ngkeys"
	DefaultSampleRate = 1.0
)

// ApplyDefaults sets defaults for any fields that have zero values. It is
// idempotent.
func ApplyDefaults(cfg *Config) {
	if len(cfg.Input) == 0 {
		cfg.Input = []string{DefaultInput}
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if len(cfg.Langs) == 0 {
		cfg.Langs = []string{DefaultLang}
	}
	if cfg.Marker == "" {
		cfg.Marker = template.DirectiveMarker
	}
	if cfg.Pipe == "" {
		cfg.Pipe = template.DefaultPipe
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultService
	}
	if cfg.Tracing.SampleRate == 0 {
		cfg.Tracing.SampleRate = DefaultSampleRate
	}
}
