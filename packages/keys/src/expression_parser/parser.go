package expression_parser

import (
	"fmt"
	"strings"

	"ngkeys-go/packages/keys/src/core"
	"ngkeys-go/packages/keys/src/util"
)

const (
	interpolationStart = "{{"
	interpolationEnd   = "}}"
)

// InterpolationPiece represents a piece of interpolation
type InterpolationPiece struct {
	Text  string
	Start int
	End   int
}

// SplitInterpolation represents a split interpolation result
type SplitInterpolation struct {
	Strings     []InterpolationPiece
	Expressions []InterpolationPiece
	Offsets     []int
}

// Parser parses template expressions
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseAction parses an event handler expression, which may be a `;` chain
func (p *Parser) ParseAction(input, location string, absoluteOffset int) *ASTWithSource {
	var errors []*util.ParseError
	p.checkNoInterpolation(&errors, input, location)
	tokens := p.lexer.Tokenize(input)
	ast := newParseAST(input, location, absoluteOffset, tokens, true, &errors, 0).parseChain()
	return NewASTWithSource(ast, input, location, absoluteOffset, errors)
}

// ParseBinding parses a property binding expression
func (p *Parser) ParseBinding(input, location string, absoluteOffset int) *ASTWithSource {
	var errors []*util.ParseError
	p.checkNoInterpolation(&errors, input, location)
	tokens := p.lexer.Tokenize(input)
	ast := newParseAST(input, location, absoluteOffset, tokens, false, &errors, 0).parseChain()
	return NewASTWithSource(ast, input, location, absoluteOffset, errors)
}

// ParseInterpolation parses text containing `{{ }}` expressions.
// It returns nil when the input holds no interpolation.
func (p *Parser) ParseInterpolation(input, location string, absoluteOffset int) *ASTWithSource {
	var errors []*util.ParseError
	split := p.SplitInterpolation(input, location, &errors)
	if len(split.Expressions) == 0 {
		return nil
	}

	expressions := make([]AST, 0, len(split.Expressions))
	for i, piece := range split.Expressions {
		tokens := p.lexer.Tokenize(piece.Text)
		ast := newParseAST(piece.Text, location, absoluteOffset, tokens, false, &errors, split.Offsets[i]).parseChain()
		expressions = append(expressions, ast)
	}

	strs := make([]string, len(split.Strings))
	for i, s := range split.Strings {
		strs[i] = s.Text
	}
	span := NewParseSpan(0, len(input))
	interpolation := NewInterpolation(span, span.ToAbsolute(absoluteOffset), strs, expressions)
	return NewASTWithSource(interpolation, input, location, absoluteOffset, errors)
}

// SplitInterpolation splits input into raw text pieces and `{{ }}` expression
// pieces. An unterminated `{{` is kept as text.
func (p *Parser) SplitInterpolation(input, location string, errors *[]*util.ParseError) *SplitInterpolation {
	var stringPieces, expressions []InterpolationPiece
	var offsets []int

	i := 0
	for {
		start := i
		idx := strings.Index(input[i:], interpolationStart)
		if idx == -1 {
			stringPieces = append(stringPieces, InterpolationPiece{Text: input[start:], Start: start, End: len(input)})
			break
		}
		exprStart := i + idx + len(interpolationStart)
		exprEnd := getInterpolationEndIndex(input, exprStart)
		if exprEnd == -1 {
			stringPieces = append(stringPieces, InterpolationPiece{Text: input[start:], Start: start, End: len(input)})
			break
		}
		stringPieces = append(stringPieces, InterpolationPiece{Text: input[start : i+idx], Start: start, End: i + idx})

		text := input[exprStart:exprEnd]
		if strings.TrimSpace(text) == "" {
			*errors = append(*errors, parseError(
				"Blank expressions are not allowed in interpolated strings",
				input, fmt.Sprintf("at column %d in", i+idx), location))
		}
		expressions = append(expressions, InterpolationPiece{Text: text, Start: i + idx, End: exprEnd + len(interpolationEnd)})
		offsets = append(offsets, exprStart)
		i = exprEnd + len(interpolationEnd)
	}
	return &SplitInterpolation{Strings: stringPieces, Expressions: expressions, Offsets: offsets}
}

// getInterpolationEndIndex finds the closing `}}` starting at start, ignoring
// any `}}` that appears inside a quoted string.
func getInterpolationEndIndex(input string, start int) int {
	var quote byte
	for i := start; i < len(input); i++ {
		ch := input[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case core.IsQuote(int(ch)):
			quote = ch
		case strings.HasPrefix(input[i:], interpolationEnd):
			return i
		}
	}
	return -1
}

func (p *Parser) checkNoInterpolation(errors *[]*util.ParseError, input, location string) {
	start := strings.Index(input, interpolationStart)
	if start == -1 {
		return
	}
	if getInterpolationEndIndex(input, start+len(interpolationStart)) == -1 {
		return
	}
	*errors = append(*errors, parseError(
		"Got interpolation ({{}}) where expression was expected",
		input, fmt.Sprintf("at column %d in", start), location))
}

func parseError(message, input, errLocation, ctxLocation string) *util.ParseError {
	if ctxLocation != "" {
		ctxLocation = " in " + ctxLocation
	}
	return util.NewParseError(nil, fmt.Sprintf("Parser Error: %s %s [%s]%s", message, errLocation, input, ctxLocation))
}

type parseAST struct {
	input          string
	location       string
	absoluteOffset int
	tokens         []*Token
	action         bool
	errors         *[]*util.ParseError
	offset         int
	index          int
}

func newParseAST(input, location string, absoluteOffset int, tokens []*Token, action bool, errors *[]*util.ParseError, offset int) *parseAST {
	return &parseAST{
		input:          input,
		location:       location,
		absoluteOffset: absoluteOffset,
		tokens:         tokens,
		action:         action,
		errors:         errors,
		offset:         offset,
	}
}

func (p *parseAST) peek(offset int) *Token {
	i := p.index + offset
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return EOF
}

func (p *parseAST) next() *Token {
	return p.peek(0)
}

func (p *parseAST) atEOF() bool {
	return p.index >= len(p.tokens)
}

func (p *parseAST) inputIndex() int {
	if p.atEOF() {
		return p.currentEndIndex()
	}
	return p.next().Index + p.offset
}

func (p *parseAST) currentEndIndex() int {
	if p.index > 0 {
		return p.peek(-1).End + p.offset
	}
	if len(p.tokens) == 0 {
		return len(p.input) + p.offset
	}
	return p.next().Index + p.offset
}

func (p *parseAST) span(start int) *ParseSpan {
	end := p.currentEndIndex()
	if start > end {
		end, start = start, end
	}
	return NewParseSpan(start, end)
}

func (p *parseAST) sourceSpan(start int) *AbsoluteSourceSpan {
	return p.span(start).ToAbsolute(p.absoluteOffset)
}

func (p *parseAST) advance() {
	p.index++
}

func (p *parseAST) consumeOptionalCharacter(code int) bool {
	if p.next().IsCharacter(code) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectCharacter(code int) {
	if p.consumeOptionalCharacter(code) {
		return
	}
	p.error(fmt.Sprintf("Missing expected %c", rune(code)))
}

func (p *parseAST) consumeOptionalOperator(op string) bool {
	if p.next().IsOperator(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectIdentifierOrKeyword() string {
	n := p.next()
	if !n.IsIdentifier() && n.Type != TokenTypeKeyword {
		p.error(fmt.Sprintf("Unexpected %s, expected identifier or keyword", p.prettyPrintToken(n)))
		return ""
	}
	p.advance()
	return n.StrValue
}

func (p *parseAST) prettyPrintToken(tok *Token) string {
	if tok == EOF {
		return "end of input"
	}
	return fmt.Sprintf("token %s", tok)
}

func (p *parseAST) error(message string) {
	idx := p.index
	var errLocation string
	if idx < len(p.tokens) {
		errLocation = fmt.Sprintf("at column %d in", p.tokens[idx].Index+1)
	} else {
		errLocation = "at the end of the expression"
	}
	*p.errors = append(*p.errors, parseError(message, p.input, errLocation, p.location))
	p.skip()
}

// skip moves past the offending token so that parsing can resume at the next
// expression boundary.
func (p *parseAST) skip() {
	for !p.atEOF() {
		n := p.next()
		if n.IsCharacter(core.CharSEMICOLON) || n.IsCharacter(core.CharRPAREN) ||
			n.IsCharacter(core.CharRBRACKET) || n.IsCharacter(core.CharRBRACE) || n.IsOperator("|") {
			return
		}
		p.advance()
	}
}

func (p *parseAST) parseChain() AST {
	var exprs []AST
	start := p.inputIndex()
	for !p.atEOF() {
		if tok := p.next(); tok.IsError() {
			*p.errors = append(*p.errors, parseError(tok.StrValue, p.input, "", p.location))
			p.advance()
			continue
		}
		before := p.index
		expr := p.parsePipe()
		exprs = append(exprs, expr)

		if p.consumeOptionalCharacter(core.CharSEMICOLON) {
			if !p.action {
				p.error("Binding expression cannot contain chained expression")
			}
			for p.consumeOptionalCharacter(core.CharSEMICOLON) {
			}
		} else if !p.atEOF() && !p.next().IsError() {
			p.error(fmt.Sprintf("Unexpected token '%s'", p.next()))
			if p.index == before || !p.atEOF() {
				p.advance()
			}
		}
	}
	switch len(exprs) {
	case 0:
		return NewEmptyExpr(p.span(start), p.sourceSpan(start))
	case 1:
		return exprs[0]
	}
	return NewChain(p.span(start), p.sourceSpan(start), exprs)
}

func (p *parseAST) parsePipe() AST {
	start := p.inputIndex()
	result := p.parseExpression()
	if p.consumeOptionalOperator("|") {
		if p.action {
			p.error("Cannot have a pipe in an action expression")
		}
		for {
			name := p.expectIdentifierOrKeyword()
			var args []AST
			for p.consumeOptionalCharacter(core.CharCOLON) {
				args = append(args, p.parseExpression())
			}
			result = NewBindingPipe(p.span(start), p.sourceSpan(start), result, name, args)
			if !p.consumeOptionalOperator("|") {
				break
			}
		}
	}
	return result
}

func (p *parseAST) parseExpression() AST {
	return p.parseConditional()
}

func (p *parseAST) parseConditional() AST {
	start := p.inputIndex()
	result := p.parseLogicalOr()

	if p.consumeOptionalOperator("?") {
		yes := p.parsePipe()
		var no AST
		if !p.consumeOptionalCharacter(core.CharCOLON) {
			end := p.inputIndex()
			expression := p.input[start-p.offset : end-p.offset]
			p.error(fmt.Sprintf("Conditional expression %s requires all 3 expressions", expression))
			no = NewEmptyExpr(p.span(start), p.sourceSpan(start))
		} else {
			no = p.parsePipe()
		}
		return NewConditional(p.span(start), p.sourceSpan(start), result, yes, no)
	}
	return result
}

func (p *parseAST) parseBinaryLevel(next func() AST, operators ...string) AST {
	start := p.inputIndex()
	result := next()
	for {
		matched := ""
		for _, op := range operators {
			if p.next().IsOperator(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return result
		}
		p.advance()
		right := next()
		result = NewBinary(p.span(start), p.sourceSpan(start), matched, result, right)
	}
}

func (p *parseAST) parseLogicalOr() AST {
	return p.parseBinaryLevel(p.parseLogicalAnd, "||")
}

func (p *parseAST) parseLogicalAnd() AST {
	return p.parseBinaryLevel(p.parseNullishCoalescing, "&&")
}

func (p *parseAST) parseNullishCoalescing() AST {
	return p.parseBinaryLevel(p.parseEquality, "??")
}

func (p *parseAST) parseEquality() AST {
	return p.parseBinaryLevel(p.parseRelational, "==", "===", "!=", "!==")
}

func (p *parseAST) parseRelational() AST {
	return p.parseBinaryLevel(p.parseAdditive, "<", ">", "<=", ">=")
}

func (p *parseAST) parseAdditive() AST {
	return p.parseBinaryLevel(p.parseMultiplicative, "+", "-")
}

func (p *parseAST) parseMultiplicative() AST {
	return p.parseBinaryLevel(p.parsePrefix, "*", "%", "/")
}

func (p *parseAST) parsePrefix() AST {
	start := p.inputIndex()
	n := p.next()
	switch {
	case n.IsOperator("+"), n.IsOperator("-"):
		p.advance()
		return NewUnary(p.span(start), p.sourceSpan(start), n.StrValue, p.parsePrefix())
	case n.IsOperator("!"):
		p.advance()
		return NewPrefixNot(p.span(start), p.sourceSpan(start), p.parsePrefix())
	case n.IsKeyword("typeof"):
		p.advance()
		return NewTypeofExpression(p.span(start), p.sourceSpan(start), p.parsePrefix())
	}
	return p.parseCallChain()
}

func (p *parseAST) parseCallChain() AST {
	start := p.inputIndex()
	result := p.parsePrimary()
	for {
		switch {
		case p.consumeOptionalCharacter(core.CharPERIOD):
			result = p.parseAccessMember(result, start, false)
		case p.consumeOptionalOperator("?."):
			if p.consumeOptionalCharacter(core.CharLPAREN) {
				result = p.parseCall(result, start, true)
			} else {
				result = p.parseAccessMember(result, start, true)
			}
		case p.consumeOptionalCharacter(core.CharLBRACKET):
			key := p.parsePipe()
			p.expectCharacter(core.CharRBRACKET)
			result = NewKeyedRead(p.span(start), p.sourceSpan(start), result, key)
		case p.consumeOptionalCharacter(core.CharLPAREN):
			result = p.parseCall(result, start, false)
		case p.consumeOptionalOperator("!"):
			result = NewNonNullAssert(p.span(start), p.sourceSpan(start), result)
		default:
			return result
		}
	}
}

func (p *parseAST) parsePrimary() AST {
	start := p.inputIndex()
	n := p.next()
	switch {
	case p.consumeOptionalCharacter(core.CharLPAREN):
		result := p.parsePipe()
		p.expectCharacter(core.CharRPAREN)
		return result
	case n.IsKeyword("null"), n.IsKeyword("undefined"):
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), nil)
	case n.IsKeyword("true"):
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), true)
	case n.IsKeyword("false"):
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), false)
	case n.IsKeyword("this"):
		p.advance()
		return NewThisReceiver(p.span(start), p.sourceSpan(start))
	case p.consumeOptionalCharacter(core.CharLBRACKET):
		elements := p.parseExpressionList(core.CharRBRACKET)
		p.expectCharacter(core.CharRBRACKET)
		return NewLiteralArray(p.span(start), p.sourceSpan(start), elements)
	case n.IsCharacter(core.CharLBRACE):
		return p.parseLiteralMap()
	case n.IsIdentifier():
		return p.parseAccessMember(NewImplicitReceiver(p.span(start), p.sourceSpan(start)), start, false)
	case n.IsNumber():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), n.NumValue)
	case n.IsString():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), n.StrValue)
	case n.IsError():
		*p.errors = append(*p.errors, parseError(n.StrValue, p.input, "", p.location))
		p.advance()
		return NewEmptyExpr(p.span(start), p.sourceSpan(start))
	case p.atEOF():
		p.error(fmt.Sprintf("Unexpected end of expression: %s", p.input))
		return NewEmptyExpr(p.span(start), p.sourceSpan(start))
	}
	p.error(fmt.Sprintf("Unexpected token %s", n))
	return NewEmptyExpr(p.span(start), p.sourceSpan(start))
}

func (p *parseAST) parseExpressionList(terminator int) []AST {
	var result []AST
	if p.next().IsCharacter(terminator) {
		return result
	}
	for {
		result = append(result, p.parsePipe())
		if !p.consumeOptionalCharacter(core.CharCOMMA) {
			return result
		}
		if p.next().IsCharacter(terminator) {
			return result
		}
	}
}

func (p *parseAST) parseLiteralMap() AST {
	start := p.inputIndex()
	var keys []LiteralMapKey
	var values []AST
	p.expectCharacter(core.CharLBRACE)
	if !p.consumeOptionalCharacter(core.CharRBRACE) {
		for {
			keyStart := p.inputIndex()
			quoted := p.next().IsString()
			var key string
			if quoted {
				key = p.next().StrValue
				p.advance()
			} else {
				key = p.expectIdentifierOrKeyword()
			}
			keys = append(keys, LiteralMapKey{Key: key, Quoted: quoted})
			if quoted {
				p.expectCharacter(core.CharCOLON)
				values = append(values, p.parsePipe())
			} else if p.consumeOptionalCharacter(core.CharCOLON) {
				values = append(values, p.parsePipe())
			} else {
				// shorthand `{a}` reads the property of the same name
				span := p.span(keyStart)
				values = append(values, NewPropertyRead(span, span.ToAbsolute(p.absoluteOffset),
					NewImplicitReceiver(span, span.ToAbsolute(p.absoluteOffset)), key))
			}
			if !p.consumeOptionalCharacter(core.CharCOMMA) || p.next().IsCharacter(core.CharRBRACE) {
				break
			}
		}
		p.expectCharacter(core.CharRBRACE)
	}
	return NewLiteralMap(p.span(start), p.sourceSpan(start), keys, values)
}

func (p *parseAST) parseAccessMember(receiver AST, start int, isSafe bool) AST {
	name := p.expectIdentifierOrKeyword()
	if isSafe {
		return NewSafePropertyRead(p.span(start), p.sourceSpan(start), receiver, name)
	}
	read := NewPropertyRead(p.span(start), p.sourceSpan(start), receiver, name)
	if p.action && p.next().IsOperator("=") {
		// assignments only matter to event handlers; keep the written value
		// reachable for visitors.
		p.advance()
		value := p.parseConditional()
		return NewBinary(p.span(start), p.sourceSpan(start), "=", read, value)
	}
	return read
}

func (p *parseAST) parseCall(receiver AST, start int, isSafe bool) AST {
	args := p.parseExpressionList(core.CharRPAREN)
	p.expectCharacter(core.CharRPAREN)
	return NewCall(p.span(start), p.sourceSpan(start), receiver, args, isSafe)
}
