package render3

import (
	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/util"
)

// BindingParser parses binding expressions found in a template and keeps the
// expression errors, re-anchored on the template source span.
type BindingParser struct {
	exprParser *expression_parser.Parser
	Errors     []*util.ParseError
}

// NewBindingParser creates a new BindingParser
func NewBindingParser(exprParser *expression_parser.Parser) *BindingParser {
	return &BindingParser{exprParser: exprParser}
}

// ParseBinding parses a property binding value
func (b *BindingParser) ParseBinding(value string, sourceSpan *util.ParseSourceSpan, absoluteOffset int) *expression_parser.ASTWithSource {
	ast := b.exprParser.ParseBinding(value, sourceSpan.Start.String(), absoluteOffset)
	b.reportExpressionErrors(ast.Errors, sourceSpan)
	return ast
}

// ParseAction parses an event handler
func (b *BindingParser) ParseAction(value string, sourceSpan *util.ParseSourceSpan, absoluteOffset int) *expression_parser.ASTWithSource {
	ast := b.exprParser.ParseAction(value, sourceSpan.Start.String(), absoluteOffset)
	b.reportExpressionErrors(ast.Errors, sourceSpan)
	return ast
}

// ParseInterpolation parses text with `{{ }}` and returns nil when the text
// has no interpolation.
func (b *BindingParser) ParseInterpolation(value string, sourceSpan *util.ParseSourceSpan, absoluteOffset int) *expression_parser.ASTWithSource {
	ast := b.exprParser.ParseInterpolation(value, sourceSpan.Start.String(), absoluteOffset)
	if ast == nil {
		return nil
	}
	b.reportExpressionErrors(ast.Errors, sourceSpan)
	return ast
}

func (b *BindingParser) reportExpressionErrors(errors []*util.ParseError, sourceSpan *util.ParseSourceSpan) {
	for _, err := range errors {
		b.Errors = append(b.Errors, util.NewParseError(sourceSpan, err.Msg))
	}
}
