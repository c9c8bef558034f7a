package render3

import (
	"fmt"
	"regexp"
	"strings"

	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/ml_parser"
	"ngkeys-go/packages/keys/src/util"
)

const (
	bindPrefix   = "bind-"
	letPrefix    = "let-"
	refPrefix    = "ref-"
	onPrefix     = "on-"
	bindonPrefix = "bindon-"

	templateAttrPrefix = "*"
	nonBindableAttr    = "ngNonBindable"

	// ngsp is the placeholder `&ngsp;` decodes to
	ngsp = "\uE500"
)

// Pattern for `let name` or `let name = value` inside a template binding
var templateLetPattern = regexp.MustCompile(`^let\s+([$A-Za-z_][0-9A-Za-z_$]*)(?:\s*=\s*([$A-Za-z_][0-9A-Za-z_$]*))?\s*`)

// Pattern for a trailing `as alias` inside a template binding
var templateAsPattern = regexp.MustCompile(`\s+as\s+([$A-Za-z_][0-9A-Za-z_$]*)\s*$`)

// Pattern for the leading key of a template binding, as `of` in `of items`
var templateKeyPattern = regexp.MustCompile(`^([$A-Za-z_][0-9A-Za-z_$]*)\s*:?\s*`)

// ParseTemplateOptions are options for parsing templates
type ParseTemplateOptions struct {
	// PreserveWhitespaces keeps whitespace-only text nodes
	PreserveWhitespaces bool
	// CollectCommentNodes collects the template comments in ParsedTemplate.CommentNodes
	CollectCommentNodes bool
	// EnableBlockSyntax turns `@if`, `@for` and friends on. Defaults to true.
	EnableBlockSyntax *bool
	// EnableLetSyntax turns `@let` on. Defaults to true.
	EnableLetSyntax *bool
}

// ParsedTemplate is the result of ParseTemplate
type ParsedTemplate struct {
	Nodes              []Node
	Errors             []*util.ParseError
	CommentNodes       []*Comment
	NgContentSelectors []string
}

// ParseTemplate parses a template into R3 nodes. Parse errors never stop the
// parse: the nodes built so far are returned along with the errors.
func ParseTemplate(template, templateURL string, options ParseTemplateOptions) *ParsedTemplate {
	tokenizeOptions := ml_parser.DefaultTokenizeOptions()
	if options.EnableBlockSyntax != nil {
		tokenizeOptions.TokenizeBlocks = *options.EnableBlockSyntax
	}
	if options.EnableLetSyntax != nil {
		tokenizeOptions.TokenizeLet = *options.EnableLetSyntax
	}

	parseResult := ml_parser.NewHtmlParser().Parse(template, templateURL, tokenizeOptions)
	bindingParser := NewBindingParser(expression_parser.NewParser(expression_parser.NewLexer()))
	result := HtmlAstToRender3Ast(parseResult.RootNodes, bindingParser, options)
	result.Errors = append(append([]*util.ParseError{}, parseResult.Errors...), result.Errors...)
	return result
}

// HtmlAstToRender3Ast converts HTML AST nodes to R3 AST nodes
func HtmlAstToRender3Ast(htmlNodes []ml_parser.Node, bindingParser *BindingParser, options ParseTemplateOptions) *ParsedTemplate {
	transformer := NewHtmlAstToIvyAst(bindingParser, options)
	nodes := transformer.visitChildren(htmlNodes)

	result := &ParsedTemplate{
		Nodes:              nodes,
		Errors:             append(bindingParser.Errors, transformer.Errors...),
		NgContentSelectors: transformer.NgContentSelectors,
	}
	if options.CollectCommentNodes {
		result.CommentNodes = transformer.CommentNodes
	}
	return result
}

// HtmlAstToIvyAst transforms HTML AST to Ivy AST
type HtmlAstToIvyAst struct {
	bindingParser      *BindingParser
	options            ParseTemplateOptions
	Errors             []*util.ParseError
	CommentNodes       []*Comment
	NgContentSelectors []string
	processedNodes     map[ml_parser.Node]bool
	nonBindableDepth   int
}

// NewHtmlAstToIvyAst creates a new HtmlAstToIvyAst transformer
func NewHtmlAstToIvyAst(bindingParser *BindingParser, options ParseTemplateOptions) *HtmlAstToIvyAst {
	return &HtmlAstToIvyAst{
		bindingParser:  bindingParser,
		options:        options,
		processedNodes: make(map[ml_parser.Node]bool),
	}
}

// visitChildren visits siblings, passing them as context so blocks can find
// their connected blocks.
func (t *HtmlAstToIvyAst) visitChildren(children []ml_parser.Node) []Node {
	var nodes []Node
	for _, child := range children {
		switch r := child.Visit(t, children).(type) {
		case Node:
			nodes = append(nodes, r)
		case []Node:
			nodes = append(nodes, r...)
		}
	}
	return nodes
}

func (t *HtmlAstToIvyAst) reportError(message string, sourceSpan *util.ParseSourceSpan) {
	t.Errors = append(t.Errors, util.NewParseError(sourceSpan, message))
}

// VisitElement visits an element node
func (t *HtmlAstToIvyAst) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	if element.Name == "script" || element.Name == "style" {
		return nil
	}

	isTemplateElement := ml_parser.IsNgTemplate(element.Name)
	var (
		attributes               []*TextAttribute
		inputs                   []*BoundAttribute
		outputs                  []*BoundEvent
		references               []*Reference
		variables                []*Variable
		templateAttrs            []Node
		templateVariables        []*Variable
		elementHasInlineTemplate bool
		isNonBindable            bool
	)

	for _, attribute := range element.Attrs {
		if attribute.Name == nonBindableAttr {
			isNonBindable = true
		}
		if t.nonBindableDepth > 0 {
			attributes = append(attributes, t.textAttribute(attribute))
			continue
		}

		if strings.HasPrefix(attribute.Name, templateAttrPrefix) {
			if elementHasInlineTemplate {
				t.reportError("Can't have multiple template bindings on one element. Use only one attribute prefixed with *", attribute.SourceSpan())
				continue
			}
			elementHasInlineTemplate = true
			directive := attribute.Name[len(templateAttrPrefix):]
			templateAttrs, templateVariables = t.parseTemplateBindings(directive, attribute)
			continue
		}

		name := normalizeAttributeName(attribute.Name)
		if t.parseAttribute(name, attribute, isTemplateElement, &inputs, &outputs, &references, &variables) {
			continue
		}
		if textAttr := t.attributeOrInterpolation(name, attribute, &inputs); textAttr != nil {
			attributes = append(attributes, textAttr)
		}
	}

	if isNonBindable {
		t.nonBindableDepth++
	}
	children := t.visitChildren(element.Children)
	if isNonBindable {
		t.nonBindableDepth--
	}

	var parsedElement Node
	switch {
	case ml_parser.IsNgContent(element.Name):
		selector := "*"
		for _, attr := range attributes {
			if attr.Name == "select" && strings.TrimSpace(attr.Value) != "" {
				selector = strings.TrimSpace(attr.Value)
			}
		}
		t.NgContentSelectors = append(t.NgContentSelectors, selector)
		parsedElement = NewContent(selector, attributes, children, element.SourceSpan())
	case isTemplateElement:
		parsedElement = NewTemplate(
			element.Name,
			attributes,
			inputs,
			outputs,
			nil,
			children,
			references,
			variables,
			element.IsSelfClosing,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
		)
	default:
		parsedElement = NewElement(
			element.Name,
			attributes,
			inputs,
			outputs,
			children,
			references,
			element.IsSelfClosing,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
			element.IsVoid,
		)
	}

	if !elementHasInlineTemplate {
		return parsedElement
	}

	// The wrapper keeps only the template bindings. The element keeps its
	// own attributes and stays the single child of the wrapper.
	return NewTemplate(
		element.Name,
		nil,
		nil,
		nil,
		templateAttrs,
		[]Node{parsedElement},
		nil,
		templateVariables,
		element.IsSelfClosing,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
	)
}

func (t *HtmlAstToIvyAst) textAttribute(attribute *ml_parser.Attribute) *TextAttribute {
	return NewTextAttribute(attribute.Name, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan)
}

// attributeOrInterpolation returns a text attribute, or records an
// interpolated attribute as a property binding and returns nil.
func (t *HtmlAstToIvyAst) attributeOrInterpolation(name string, attribute *ml_parser.Attribute, inputs *[]*BoundAttribute) *TextAttribute {
	if attribute.ValueSpan != nil {
		if expr := t.bindingParser.ParseInterpolation(attribute.Value, attribute.SourceSpan(), attribute.ValueSpan.Start.Offset); expr != nil {
			*inputs = append(*inputs, NewBoundAttribute(name, BindingTypeProperty, expr, "", attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
			return nil
		}
	}
	return NewTextAttribute(name, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan)
}

// parseAttribute handles the binding syntaxes and reports whether the
// attribute was one.
func (t *HtmlAstToIvyAst) parseAttribute(
	name string,
	attribute *ml_parser.Attribute,
	isTemplateElement bool,
	inputs *[]*BoundAttribute,
	outputs *[]*BoundEvent,
	references *[]*Reference,
	variables *[]*Variable,
) bool {
	value := attribute.Value
	srcSpan := attribute.SourceSpan()
	absoluteOffset := srcSpan.Start.Offset
	if attribute.ValueSpan != nil {
		absoluteOffset = attribute.ValueSpan.Start.Offset
	}

	switch {
	case strings.HasPrefix(name, bindPrefix):
		t.addPropertyBinding(name[len(bindPrefix):], value, attribute, absoluteOffset, inputs)
	case strings.HasPrefix(name, letPrefix):
		if !isTemplateElement {
			t.reportError(`"let-" is only supported on ng-template elements.`, srcSpan)
			return true
		}
		t.addVariable(name[len(letPrefix):], value, attribute, variables)
	case strings.HasPrefix(name, refPrefix):
		t.addReference(name[len(refPrefix):], value, attribute, references)
	case strings.HasPrefix(name, onPrefix):
		t.addEvent(name[len(onPrefix):], value, attribute, absoluteOffset, outputs)
	case strings.HasPrefix(name, bindonPrefix):
		t.addTwoWayBinding(name[len(bindonPrefix):], value, attribute, absoluteOffset, inputs, outputs)
	case strings.HasPrefix(name, "#"):
		t.addReference(name[1:], value, attribute, references)
	case strings.HasPrefix(name, "[(") && strings.HasSuffix(name, ")]"):
		t.addTwoWayBinding(name[2:len(name)-2], value, attribute, absoluteOffset, inputs, outputs)
	case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		t.addPropertyBinding(name[1:len(name)-1], value, attribute, absoluteOffset, inputs)
	case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		t.addEvent(name[1:len(name)-1], value, attribute, absoluteOffset, outputs)
	default:
		return false
	}
	return true
}

func (t *HtmlAstToIvyAst) addPropertyBinding(name, value string, attribute *ml_parser.Attribute, absoluteOffset int, inputs *[]*BoundAttribute) {
	if name == "" {
		t.reportError("Property name is missing in binding", attribute.SourceSpan())
		return
	}
	bindingType, name, unit := classifyProperty(name)
	ast := t.bindingParser.ParseBinding(value, attribute.SourceSpan(), absoluteOffset)
	*inputs = append(*inputs, NewBoundAttribute(name, bindingType, ast, unit, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
}

func (t *HtmlAstToIvyAst) addTwoWayBinding(name, value string, attribute *ml_parser.Attribute, absoluteOffset int, inputs *[]*BoundAttribute, outputs *[]*BoundEvent) {
	if name == "" {
		t.reportError("Property name is missing in binding", attribute.SourceSpan())
		return
	}
	ast := t.bindingParser.ParseBinding(value, attribute.SourceSpan(), absoluteOffset)
	*inputs = append(*inputs, NewBoundAttribute(name, BindingTypeTwoWay, ast, "", attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
	handler := t.bindingParser.ParseAction(value, attribute.SourceSpan(), absoluteOffset)
	*outputs = append(*outputs, NewBoundEvent(name+"Change", "", handler, attribute.SourceSpan(), attribute.ValueSpan, attribute.KeySpan))
}

func (t *HtmlAstToIvyAst) addEvent(name, value string, attribute *ml_parser.Attribute, absoluteOffset int, outputs *[]*BoundEvent) {
	if name == "" {
		t.reportError("Event name is missing in binding", attribute.SourceSpan())
		return
	}
	target := ""
	if i := strings.Index(name, ":"); i >= 0 {
		target, name = name[:i], name[i+1:]
	}
	handler := t.bindingParser.ParseAction(value, attribute.SourceSpan(), absoluteOffset)
	*outputs = append(*outputs, NewBoundEvent(name, target, handler, attribute.SourceSpan(), attribute.ValueSpan, attribute.KeySpan))
}

func (t *HtmlAstToIvyAst) addVariable(name, value string, attribute *ml_parser.Attribute, variables *[]*Variable) {
	if strings.Contains(name, "-") {
		t.reportError(`"-" is not allowed in variable names`, attribute.SourceSpan())
	} else if name == "" {
		t.reportError("Variable does not have a name", attribute.SourceSpan())
	}
	if value == "" {
		value = "$implicit"
	}
	*variables = append(*variables, NewVariable(name, value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
}

func (t *HtmlAstToIvyAst) addReference(name, value string, attribute *ml_parser.Attribute, references *[]*Reference) {
	if strings.Contains(name, "-") {
		t.reportError(`"-" is not allowed in reference names`, attribute.SourceSpan())
	} else if name == "" {
		t.reportError("Reference does not have a name", attribute.SourceSpan())
	}
	*references = append(*references, NewReference(name, value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
}

// classifyProperty splits `attr.x`, `class.x`, `style.x.unit` and `@x`
// bindings into their binding type, name and unit.
func classifyProperty(name string) (BindingType, string, string) {
	switch {
	case strings.HasPrefix(name, "attr."):
		return BindingTypeAttribute, name[len("attr."):], ""
	case strings.HasPrefix(name, "class."):
		return BindingTypeClass, name[len("class."):], ""
	case strings.HasPrefix(name, "style."):
		styleName, unit, _ := strings.Cut(name[len("style."):], ".")
		return BindingTypeStyle, styleName, unit
	case strings.HasPrefix(name, "@"):
		return BindingTypeAnimation, name[1:], ""
	case strings.HasPrefix(name, "animate."):
		return BindingTypeAnimation, name, ""
	}
	return BindingTypeProperty, name, ""
}

// templateBindingSegment is one `;` or `,` separated part of a template
// binding, with its offset in the attribute value.
type templateBindingSegment struct {
	text   string
	offset int
}

// parseTemplateBindings parses the micro syntax of `*directive="..."` into
// the bindings and variables of the wrapping template.
func (t *HtmlAstToIvyAst) parseTemplateBindings(directive string, attribute *ml_parser.Attribute) ([]Node, []*Variable) {
	var attrs []Node
	var variables []*Variable

	if strings.TrimSpace(attribute.Value) == "" {
		attrs = append(attrs, NewTextAttribute(directive, "", attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
		return attrs, variables
	}

	valueStart := attribute.SourceSpan().Start.Offset
	if attribute.ValueSpan != nil {
		valueStart = attribute.ValueSpan.Start.Offset
	}

	bind := func(key, expression string, offset int) {
		ast := t.bindingParser.ParseBinding(expression, attribute.SourceSpan(), valueStart+offset)
		attrs = append(attrs, NewBoundAttribute(key, BindingTypeProperty, ast, "", attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
	}
	variable := func(name, value string) {
		variables = append(variables, NewVariable(name, value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan))
	}

	for i, segment := range splitTemplateBindings(attribute.Value) {
		text, offset := segment.text, segment.offset
		if match := templateLetPattern.FindStringSubmatch(text); match != nil {
			value := match[2]
			if value == "" {
				value = "$implicit"
			}
			variable(match[1], value)
			offset += len(match[0])
			text = text[len(match[0]):]
			if text == "" {
				continue
			}
		} else if i == 0 {
			expression := text
			if alias := templateAsPattern.FindStringSubmatchIndex(text); alias != nil {
				expression = text[:alias[0]]
				variable(text[alias[2]:alias[3]], directive)
			}
			bind(directive, expression, offset)
			continue
		}

		keyMatch := templateKeyPattern.FindStringSubmatch(text)
		if keyMatch == nil {
			t.reportError(fmt.Sprintf("Invalid template binding %q", text), attribute.SourceSpan())
			continue
		}
		key := keyMatch[1]
		rest := text[len(keyMatch[0]):]
		offset += len(keyMatch[0])

		// `index as i` aliases a context value without binding it
		if strings.HasPrefix(rest, "as ") || strings.HasPrefix(rest, "as\t") {
			variable(strings.TrimSpace(rest[2:]), key)
			continue
		}

		boundKey := directive + strings.ToUpper(key[:1]) + key[1:]
		expression := rest
		if alias := templateAsPattern.FindStringSubmatchIndex(rest); alias != nil {
			expression = rest[:alias[0]]
			variable(rest[alias[2]:alias[3]], boundKey)
		}
		bind(boundKey, expression, offset)
	}
	return attrs, variables
}

// splitTemplateBindings splits a template binding value on `;` and `,`
// outside of quotes and brackets.
func splitTemplateBindings(value string) []templateBindingSegment {
	var segments []templateBindingSegment
	depth := 0
	var quote byte
	start := 0

	flush := func(end int) {
		raw := value[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			segments = append(segments, templateBindingSegment{
				text:   trimmed,
				offset: start + strings.Index(raw, trimmed),
			})
		}
	}

	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		case (ch == ';' || ch == ',') && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(value))
	return segments
}

// VisitAttribute visits an attribute node
func (t *HtmlAstToIvyAst) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	return t.textAttribute(attribute)
}

// VisitText visits a text node
func (t *HtmlAstToIvyAst) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	if t.processedNodes[text] {
		return nil
	}
	if !t.options.PreserveWhitespaces && strings.TrimSpace(text.Value) == "" {
		return nil
	}
	if t.nonBindableDepth > 0 {
		return NewText(text.Value, text.SourceSpan())
	}

	value := strings.ReplaceAll(text.Value, " ", " ")
	if expr := t.bindingParser.ParseInterpolation(value, text.SourceSpan(), text.SourceSpan().Start.Offset); expr != nil {
		return NewBoundText(expr, text.SourceSpan())
	}
	return NewText(text.Value, text.SourceSpan())
}

// VisitComment visits a comment node
func (t *HtmlAstToIvyAst) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	if t.options.CollectCommentNodes {
		t.CommentNodes = append(t.CommentNodes, NewComment(comment.Value, comment.SourceSpan()))
	}
	return nil
}

// VisitBlock visits a block node
func (t *HtmlAstToIvyAst) VisitBlock(block *ml_parser.Block, context interface{}) interface{} {
	if t.processedNodes[block] {
		return nil
	}
	if t.nonBindableDepth > 0 {
		return t.nonBindableBlock(block)
	}

	siblings, _ := context.([]ml_parser.Node)
	index := -1
	for i, node := range siblings {
		if node == block {
			index = i
			break
		}
	}

	var result Node
	var errors []*util.ParseError

	switch block.Name {
	case "if":
		connectedBlocks := t.findConnectedBlocks(index, siblings, IsConnectedIfLoopBlock)
		result, errors = CreateIfBlock(block, connectedBlocks, t)
	case "for":
		connectedBlocks := t.findConnectedBlocks(index, siblings, IsConnectedForLoopBlock)
		result, errors = CreateForLoop(block, connectedBlocks, t)
	case "switch":
		result, errors = CreateSwitchBlock(block, t)
	case "defer":
		connectedBlocks := t.findConnectedBlocks(index, siblings, IsConnectedDeferLoopBlock)
		result, errors = CreateDeferredBlock(block, connectedBlocks, t)
	default:
		var errorMessage string
		switch {
		case IsConnectedDeferLoopBlock(block.Name):
			errorMessage = fmt.Sprintf("@%s block can only be used after an @defer block.", block.Name)
		case IsConnectedForLoopBlock(block.Name):
			errorMessage = fmt.Sprintf("@%s block can only be used after an @for block.", block.Name)
		case IsConnectedIfLoopBlock(block.Name):
			errorMessage = fmt.Sprintf("@%s block can only be used after an @if or @else if block.", block.Name)
		default:
			errorMessage = fmt.Sprintf("Unrecognized block @%s.", block.Name)
		}
		t.processedNodes[block] = true
		result = NewUnknownBlock(block.Name, block.SourceSpan(), block.NameSpan)
		errors = []*util.ParseError{util.NewParseError(block.SourceSpan(), errorMessage)}
	}

	t.Errors = append(t.Errors, errors...)
	return result
}

// nonBindableBlock keeps the block syntax as text and its children as
// non-bindable nodes.
func (t *HtmlAstToIvyAst) nonBindableBlock(block *ml_parser.Block) []Node {
	nodes := []Node{NewText(block.StartSourceSpan.String(), block.StartSourceSpan)}
	nodes = append(nodes, t.visitChildren(block.Children)...)
	if block.EndSourceSpan != nil {
		nodes = append(nodes, NewText(block.EndSourceSpan.String(), block.EndSourceSpan))
	}
	return nodes
}

// findConnectedBlocks finds connected blocks following a primary block and
// marks them as processed.
func (t *HtmlAstToIvyAst) findConnectedBlocks(primaryBlockIndex int, siblings []ml_parser.Node, predicate func(string) bool) []*ml_parser.Block {
	var relatedBlocks []*ml_parser.Block
	if primaryBlockIndex < 0 {
		return relatedBlocks
	}

	for i := primaryBlockIndex + 1; i < len(siblings); i++ {
		node := siblings[i]

		if _, ok := node.(*ml_parser.Comment); ok {
			continue
		}

		// ignore empty text nodes between blocks
		if text, ok := node.(*ml_parser.Text); ok && strings.TrimSpace(text.Value) == "" {
			t.processedNodes[node] = true
			continue
		}

		block, ok := node.(*ml_parser.Block)
		if !ok || !predicate(block.Name) {
			break
		}
		relatedBlocks = append(relatedBlocks, block)
		t.processedNodes[block] = true
	}
	return relatedBlocks
}

// VisitBlockParameter visits a block parameter
func (t *HtmlAstToIvyAst) VisitBlockParameter(parameter *ml_parser.BlockParameter, context interface{}) interface{} {
	return nil
}

// VisitLetDeclaration visits a let declaration
func (t *HtmlAstToIvyAst) VisitLetDeclaration(decl *ml_parser.LetDeclaration, context interface{}) interface{} {
	if t.nonBindableDepth > 0 {
		return NewText(decl.SourceSpan().String(), decl.SourceSpan())
	}

	value := t.bindingParser.ParseBinding(decl.Value, decl.ValueSpan, decl.ValueSpan.Start.Offset)
	if len(value.Errors) == 0 {
		if _, isEmpty := value.AST.(*expression_parser.EmptyExpr); isEmpty {
			t.reportError("@let declaration value cannot be empty", decl.ValueSpan)
		}
	}
	return NewLetDeclaration(decl.Name, value.AST, decl.SourceSpan(), decl.NameSpan, decl.ValueSpan)
}

// normalizeAttributeName removes the 'data-' prefix from attribute names
func normalizeAttributeName(attrName string) string {
	if strings.HasPrefix(strings.ToLower(attrName), "data-") {
		return attrName[5:]
	}
	return attrName
}
