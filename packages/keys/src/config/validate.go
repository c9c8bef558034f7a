package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError is a validation error of one configuration field
type FieldError struct {
	// Field is the YAML name of the field
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError holds every validation error of a configuration
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks cfg and returns a ValidationError holding every problem
// found, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	if len(cfg.Input) == 0 {
		errs = append(errs, FieldError{Field: "input", Message: "at least one input is required"})
	}
	for i, input := range cfg.Input {
		if strings.TrimSpace(input) == "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("input[%d]", i), Message: "must not be empty"})
		}
	}
	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, FieldError{Field: "output", Message: "must not be empty"})
	}
	if len(cfg.Langs) == 0 {
		errs = append(errs, FieldError{Field: "langs", Message: "at least one language is required"})
	}
	for i, lang := range cfg.Langs {
		if strings.TrimSpace(lang) == "" || strings.ContainsAny(lang, `/\`) {
			errs = append(errs, FieldError{Field: fmt.Sprintf("langs[%d]", i), Message: fmt.Sprintf("invalid language %q", lang)})
		}
	}
	if strings.TrimSpace(cfg.Marker) == "" {
		errs = append(errs, FieldError{Field: "marker", Message: "must not be empty"})
	}
	if strings.TrimSpace(cfg.Pipe) == "" {
		errs = append(errs, FieldError{Field: "pipe", Message: "must not be empty"})
	}
	errs = append(errs, validateScopes(cfg)...)
	if cfg.Concurrency <= 0 {
		errs = append(errs, FieldError{Field: "concurrency", Message: "must be positive"})
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{Field: "logLevel", Message: fmt.Sprintf("unknown level %q (debug, info, warn, error)", cfg.LogLevel)})
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, FieldError{Field: "logFormat", Message: fmt.Sprintf("unknown format %q (text, json)", cfg.LogFormat)})
	}
	if cfg.Watch.Debounce <= 0 {
		errs = append(errs, FieldError{Field: "watch.debounce", Message: "must be positive"})
	}
	if cfg.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Watch.Schedule); err != nil {
			errs = append(errs, FieldError{Field: "watch.schedule", Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Watch.Schedule, err)})
		}
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		errs = append(errs, FieldError{Field: "tracing.sampleRate", Message: "must be between 0 and 1"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateScopes(cfg *Config) []FieldError {
	var errs []FieldError
	scopes := cfg.ScopeSet()

	paths := make([]string, 0, len(scopes.ScopeToAlias))
	for path := range scopes.ScopeToAlias {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	seen := make(map[string]string)
	for _, path := range paths {
		alias := scopes.ScopeToAlias[path]
		if strings.TrimSpace(path) == "" {
			errs = append(errs, FieldError{Field: "scopes", Message: "scope path must not be empty"})
			continue
		}
		if strings.Contains(alias, ".") {
			errs = append(errs, FieldError{Field: "scopes." + path, Message: fmt.Sprintf("alias %q must not contain a dot", alias)})
		}
		if other, ok := seen[alias]; ok {
			errs = append(errs, FieldError{Field: "scopes." + path, Message: fmt.Sprintf("alias %q is already used by %q", alias, other)})
			continue
		}
		seen[alias] = path
	}
	return errs
}
