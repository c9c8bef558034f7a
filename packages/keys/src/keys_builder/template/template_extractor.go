package template

import (
	"ngkeys-go/packages/keys/src/util"
)

// ExtractTemplateKeys parses the template of config once and runs both the
// directive and the pipe extractor over it. Parse errors are returned for
// reporting only: the keys of the partially parsed tree are still
// registered.
func ExtractTemplateKeys(config *TemplateExtractorConfig) []*util.ParseError {
	ast := ParseTemplate(config)
	Traverse(ast.Nodes, &config.ExtractorConfig)
	TraversePipes(ast.Nodes, &config.ExtractorConfig)
	return ast.Errors
}
