package template

import (
	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/keys_builder/registry"
	"ngkeys-go/packages/keys/src/render3"
)

// DirectiveExtractor registers the keys set through the marker attribute:
//
//	<h1 translate-marker="home.title"></h1>
//	<h1 [translate-marker]="admin ? 'admin.title' : 'home.title'"></h1>
func DirectiveExtractor(config *TemplateExtractorConfig) {
	ast := ParseTemplate(config)
	Traverse(ast.Nodes, &config.ExtractorConfig)
}

// Traverse walks nodes depth first. Control flow blocks are replaced by
// their children. Elements and templates hand the values of their marker
// attributes to AddKeysFromAST once their children are done; other nodes
// only have their children walked.
func Traverse(nodes []render3.Node, config *ExtractorConfig) {
	for _, node := range nodes {
		if children := GetChildNodesIfBlock(node); len(children) > 0 {
			Traverse(children, config)
			continue
		}

		if !IsSupportedNode(node, IsTemplate, IsElement) {
			Traverse(GetChildNodes(node), config)
			continue
		}

		expressions := markerExpressions(node, config.marker())
		Traverse(GetChildNodes(node), config)
		AddKeysFromAST(expressions, config)
	}
}

// markerExpressions collects the values of the marker attributes of an
// element or template, bound attributes first. Interpolations are replaced
// by their expressions.
func markerExpressions(node render3.Node, marker string) []interface{} {
	var inputs []*render3.BoundAttribute
	var attributes []*render3.TextAttribute
	switch n := node.(type) {
	case *render3.Element:
		inputs, attributes = n.Inputs, n.Attributes
	case *render3.Template:
		inputs, attributes = n.Inputs, n.Attributes
	}

	var expressions []interface{}
	for _, input := range inputs {
		if input.Name != marker {
			continue
		}
		value := expression_parser.Unwrap(input.Value)
		if interpolation, ok := value.(*expression_parser.Interpolation); ok {
			for _, expr := range interpolation.Expressions {
				expressions = append(expressions, expr)
			}
			continue
		}
		expressions = append(expressions, value)
	}
	for _, attribute := range attributes {
		if attribute.Name == marker {
			expressions = append(expressions, attribute.Value)
		}
	}
	return expressions
}

// AddKeysFromAST registers every key reachable from expressions. Each item is
// a raw string or an expression_parser.AST. Both branches of a conditional
// are followed whatever the condition; string literals and raw strings are
// resolved against the configured scopes; anything else is ignored.
func AddKeysFromAST(expressions []interface{}, config *ExtractorConfig) {
	for _, exp := range expressions {
		switch e := exp.(type) {
		case string:
			addResolvedKey(e, config)
		case *expression_parser.Conditional:
			AddKeysFromAST([]interface{}{e.TrueExp, e.FalseExp}, config)
		case *expression_parser.LiteralPrimitive:
			if value, ok := e.StringValue(); ok {
				addResolvedKey(value, config)
			}
		}
	}
}

func addResolvedKey(rawKey string, config *ExtractorConfig) {
	key, scopeAlias := registry.ResolveAliasAndKey(rawKey, config.Scopes)
	registry.AddKey(registry.AddKeyParams{
		Registry:        config.Registry,
		Scopes:          config.Scopes,
		DefaultValue:    config.DefaultValue,
		KeyWithoutScope: key,
		ScopeAlias:      scopeAlias,
	})
}
