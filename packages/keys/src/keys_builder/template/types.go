package template

import (
	"ngkeys-go/packages/keys/src/keys_builder/registry"
)

// DirectiveMarker is the attribute name that marks a translation key
const DirectiveMarker = "translate-marker"

// DefaultPipe is the name of the translation pipe
const DefaultPipe = "translate"

// ExtractorConfig carries what every extractor needs to resolve and register
// keys. Extractors only read it.
type ExtractorConfig struct {
	Registry     registry.KeyRegistry
	Scopes       *registry.Scopes
	DefaultValue string
	// Marker is the directive attribute name. Empty means DirectiveMarker.
	Marker string
	// Pipe is the translation pipe name. Empty means DefaultPipe.
	Pipe string
}

func (c *ExtractorConfig) marker() string {
	if c.Marker == "" {
		return DirectiveMarker
	}
	return c.Marker
}

func (c *ExtractorConfig) pipe() string {
	if c.Pipe == "" {
		return DefaultPipe
	}
	return c.Pipe
}

// TemplateExtractorConfig is an ExtractorConfig plus the template to read
type TemplateExtractorConfig struct {
	ExtractorConfig
	Content string
	// TemplatePath names the template in parse errors
	TemplatePath string
}
