package ml_parser

import (
	"fmt"
	"strings"

	"ngkeys-go/packages/keys/src/util"
)

// ParseTreeResult holds the root nodes and all lexer and tree errors
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// NewParseTreeResult creates a new ParseTreeResult
func NewParseTreeResult(rootNodes []Node, errors []*util.ParseError) *ParseTreeResult {
	return &ParseTreeResult{RootNodes: rootNodes, Errors: errors}
}

// Parser builds an HTML AST from a template source
type Parser struct {
	getTagDefinition func(tagName string) *TagDefinition
}

// NewParser creates a new Parser
func NewParser(getTagDefinition func(tagName string) *TagDefinition) *Parser {
	return &Parser{getTagDefinition: getTagDefinition}
}

// Parse parses source into a tree. Errors never abort the parse.
func (p *Parser) Parse(source, url string, options *TokenizeOptions) *ParseTreeResult {
	tokenized := Tokenize(source, url, p.getTagDefinition, options)
	tb := NewTreeBuilder(tokenized.Tokens, p.getTagDefinition)
	tb.Build()
	errors := append([]*util.ParseError{}, tokenized.Errors...)
	return NewParseTreeResult(tb.RootNodes(), append(errors, tb.Errors()...))
}

// TreeBuilder assembles tokens into nodes
type TreeBuilder struct {
	tokens           []*Token
	index            int
	peek             *Token
	containerStack   []Node
	rootNodes        []Node
	errors           []*util.ParseError
	getTagDefinition func(tagName string) *TagDefinition
}

// NewTreeBuilder creates a new TreeBuilder
func NewTreeBuilder(tokens []*Token, getTagDefinition func(tagName string) *TagDefinition) *TreeBuilder {
	tb := &TreeBuilder{tokens: tokens, index: -1, getTagDefinition: getTagDefinition}
	tb.advance()
	return tb
}

// Build consumes all tokens
func (tb *TreeBuilder) Build() {
	for tb.peek.Type != TokenTypeEOF {
		switch tb.peek.Type {
		case TokenTypeTAG_OPEN_START, TokenTypeINCOMPLETE_TAG_OPEN:
			tb.consumeStartTag(tb.advance())
		case TokenTypeTAG_CLOSE:
			tb.consumeEndTag(tb.advance())
		case TokenTypeCOMMENT:
			tb.consumeComment(tb.advance())
		case TokenTypeTEXT, TokenTypeRAW_TEXT, TokenTypeCDATA:
			tb.consumeText(tb.advance())
		case TokenTypeBLOCK_OPEN_START:
			tb.consumeBlockOpen(tb.advance())
		case TokenTypeBLOCK_CLOSE:
			tb.consumeBlockClose(tb.advance())
		case TokenTypeINCOMPLETE_BLOCK_OPEN:
			tb.consumeIncompleteBlock(tb.advance())
		case TokenTypeLET_START:
			tb.consumeLet(tb.advance())
		case TokenTypeINCOMPLETE_LET:
			tb.consumeIncompleteLet(tb.advance())
		default:
			// doctype and stray tokens
			tb.advance()
		}
	}

	for _, node := range tb.containerStack {
		if block, ok := node.(*Block); ok {
			tb.errors = append(tb.errors, util.NewParseError(block.SourceSpan(), fmt.Sprintf("Unclosed block \"%s\"", block.Name)))
		}
	}
}

// RootNodes returns the top level nodes
func (tb *TreeBuilder) RootNodes() []Node {
	return tb.rootNodes
}

// Errors returns the tree errors
func (tb *TreeBuilder) Errors() []*util.ParseError {
	return tb.errors
}

func (tb *TreeBuilder) advance() *Token {
	prev := tb.peek
	if tb.index < len(tb.tokens)-1 {
		tb.index++
	}
	tb.peek = tb.tokens[tb.index]
	return prev
}

func (tb *TreeBuilder) advanceIf(tokenType TokenType) *Token {
	if tb.peek.Type == tokenType {
		return tb.advance()
	}
	return nil
}

func (tb *TreeBuilder) consumeStartTag(startTag *Token) {
	name := startTag.Part(0)
	var attrs []*Attribute
	for tb.peek.Type == TokenTypeATTR_NAME {
		attrs = append(attrs, tb.consumeAttr(tb.advance()))
	}

	def := tb.getTagDefinition(name)
	end := startTag.SourceSpan.End
	selfClosing := false
	complete := startTag.Type == TokenTypeTAG_OPEN_START
	if tok := tb.advanceIf(TokenTypeTAG_OPEN_END_VOID); tok != nil {
		selfClosing = true
		end = tok.SourceSpan.End
	} else if tok := tb.advanceIf(TokenTypeTAG_OPEN_END); tok != nil {
		end = tok.SourceSpan.End
	} else {
		complete = false
	}
	if !complete {
		tb.errors = append(tb.errors, util.NewParseError(startTag.SourceSpan, fmt.Sprintf("Opening tag \"%s\" not terminated.", name)))
	}

	span := util.NewParseSourceSpan(startTag.SourceSpan.Start, end)
	el := NewElement(name, attrs, nil, selfClosing, span, span, nil, def.IsVoid)

	isClosedByChild := false
	if parent, ok := tb.getContainer().(*Element); ok {
		isClosedByChild = tb.getTagDefinition(parent.Name).IsClosedByChild(name)
	}
	tb.pushContainer(el, isClosedByChild)

	if selfClosing || def.IsVoid || !complete {
		tb.popContainer(name, false, span)
	}
}

func (tb *TreeBuilder) consumeAttr(nameToken *Token) *Attribute {
	end := nameToken.SourceSpan.End
	value := ""
	var valueSpan *util.ParseSourceSpan
	if tok := tb.advanceIf(TokenTypeATTR_VALUE); tok != nil {
		value = tok.Part(0)
		valueSpan = tok.SourceSpan
		end = tok.SourceSpan.End
	}
	span := util.NewParseSourceSpan(nameToken.SourceSpan.Start, end)
	return NewAttribute(nameToken.Part(0), value, span, nameToken.SourceSpan, valueSpan)
}

func (tb *TreeBuilder) consumeEndTag(endTag *Token) {
	name := endTag.Part(0)
	if tb.getTagDefinition(name).IsVoid {
		tb.errors = append(tb.errors, util.NewParseError(endTag.SourceSpan,
			fmt.Sprintf("Void elements do not have end tags \"%s\"", name)))
		return
	}
	if !tb.popContainer(name, false, endTag.SourceSpan) {
		tb.errors = append(tb.errors, util.NewParseError(endTag.SourceSpan,
			fmt.Sprintf("Unexpected closing tag \"%s\". It may happen when the tag has already been closed by another tag.", name)))
	}
}

func (tb *TreeBuilder) consumeComment(token *Token) {
	tb.addToParent(NewComment(strings.TrimSpace(token.Part(0)), token.SourceSpan))
}

func (tb *TreeBuilder) consumeText(token *Token) {
	text := token.Part(0)
	if text == "" {
		return
	}
	if children := tb.containerChildren(); children != nil && len(*children) > 0 {
		if prev, ok := (*children)[len(*children)-1].(*Text); ok {
			prev.Value += text
			prev.sourceSpan = util.NewParseSourceSpan(prev.sourceSpan.Start, token.SourceSpan.End)
			return
		}
	}
	tb.addToParent(NewText(text, token.SourceSpan))
}

func (tb *TreeBuilder) consumeBlockParameters() []*BlockParameter {
	var parameters []*BlockParameter
	for tb.peek.Type == TokenTypeBLOCK_PARAMETER {
		tok := tb.advance()
		parameters = append(parameters, NewBlockParameter(tok.Part(0), tok.SourceSpan))
	}
	return parameters
}

func (tb *TreeBuilder) consumeBlockOpen(token *Token) {
	parameters := tb.consumeBlockParameters()
	end := token.SourceSpan.End
	if tok := tb.advanceIf(TokenTypeBLOCK_OPEN_END); tok != nil {
		end = tok.SourceSpan.End
	}
	span := util.NewParseSourceSpan(token.SourceSpan.Start, end)
	block := NewBlock(token.Part(0), parameters, nil, span, token.SourceSpan, span, nil)
	tb.pushContainer(block, false)
}

func (tb *TreeBuilder) consumeBlockClose(token *Token) {
	if !tb.popContainer("", true, token.SourceSpan) {
		tb.errors = append(tb.errors, util.NewParseError(token.SourceSpan,
			"Unexpected closing block. The block may have been closed earlier. "+
				"If you meant to write the } character, you should use the \"&#125;\" HTML entity instead."))
	}
}

func (tb *TreeBuilder) consumeIncompleteBlock(token *Token) {
	parameters := tb.consumeBlockParameters()
	block := NewBlock(token.Part(0), parameters, nil, token.SourceSpan, token.SourceSpan, token.SourceSpan, nil)
	tb.addToParent(block)
	tb.errors = append(tb.errors, util.NewParseError(token.SourceSpan,
		fmt.Sprintf("Incomplete block \"%s\". If you meant to write the @ character, "+
			"you should use the \"&#64;\" HTML entity instead.", block.Name)))
}

func (tb *TreeBuilder) consumeLet(startToken *Token) {
	valueToken := tb.advanceIf(TokenTypeLET_VALUE)
	endToken := tb.advanceIf(TokenTypeLET_END)
	if valueToken == nil || endToken == nil {
		tb.errors = append(tb.errors, util.NewParseError(startToken.SourceSpan,
			fmt.Sprintf("Invalid @let declaration \"%s\". Declaration must have a value.", startToken.Part(0))))
		return
	}
	span := util.NewParseSourceSpan(startToken.SourceSpan.Start, endToken.SourceSpan.End)
	tb.addToParent(NewLetDeclaration(startToken.Part(0), valueToken.Part(0), span, startToken.SourceSpan, valueToken.SourceSpan))
}

func (tb *TreeBuilder) consumeIncompleteLet(token *Token) {
	tb.advanceIf(TokenTypeLET_VALUE)
	name := token.Part(0)
	msg := fmt.Sprintf("Invalid @let declaration \"%s\". Declaration must have a value.", name)
	if name == "" {
		msg = "Invalid @let declaration. Declaration must have a name."
	}
	tb.errors = append(tb.errors, util.NewParseError(token.SourceSpan, msg))
}

func (tb *TreeBuilder) getContainer() Node {
	if len(tb.containerStack) == 0 {
		return nil
	}
	return tb.containerStack[len(tb.containerStack)-1]
}

func (tb *TreeBuilder) containerChildren() *[]Node {
	switch container := tb.getContainer().(type) {
	case *Element:
		return &container.Children
	case *Block:
		return &container.Children
	case nil:
		return &tb.rootNodes
	}
	return nil
}

func (tb *TreeBuilder) addToParent(node Node) {
	children := tb.containerChildren()
	*children = append(*children, node)
}

func (tb *TreeBuilder) pushContainer(node Node, isClosedByChild bool) {
	if isClosedByChild {
		tb.containerStack = tb.containerStack[:len(tb.containerStack)-1]
	}
	tb.addToParent(node)
	tb.containerStack = append(tb.containerStack, node)
}

// popContainer closes the innermost open element named expectedName, or the
// innermost block when wantBlock is set. It refuses to close across a block
// or an element that must be closed explicitly.
func (tb *TreeBuilder) popContainer(expectedName string, wantBlock bool, endSourceSpan *util.ParseSourceSpan) bool {
	for i := len(tb.containerStack) - 1; i >= 0; i-- {
		switch node := tb.containerStack[i].(type) {
		case *Element:
			if !wantBlock && node.Name == expectedName {
				node.EndSourceSpan = endSourceSpan
				node.sourceSpan = util.NewParseSourceSpan(node.sourceSpan.Start, endSourceSpan.End)
				tb.containerStack = tb.containerStack[:i]
				return true
			}
			if !tb.getTagDefinition(node.Name).ClosedByParent {
				return false
			}
		case *Block:
			if wantBlock {
				node.EndSourceSpan = endSourceSpan
				node.sourceSpan = util.NewParseSourceSpan(node.sourceSpan.Start, endSourceSpan.End)
				tb.containerStack = tb.containerStack[:i]
				return true
			}
			return false
		}
	}
	return false
}
