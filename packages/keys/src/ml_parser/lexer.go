package ml_parser

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"ngkeys-go/packages/keys/src/core"
	"ngkeys-go/packages/keys/src/util"
)

// TokenizeOptions controls the optional template syntaxes
type TokenizeOptions struct {
	// TokenizeBlocks enables `@block (params) { }` control flow syntax
	TokenizeBlocks bool
	// TokenizeLet enables `@let name = value;` declarations
	TokenizeLet bool
}

// DefaultTokenizeOptions returns the options used for Angular templates
func DefaultTokenizeOptions() *TokenizeOptions {
	return &TokenizeOptions{TokenizeBlocks: true, TokenizeLet: true}
}

// TokenizeResult holds the tokens and the lexer errors
type TokenizeResult struct {
	Tokens []*Token
	Errors []*util.ParseError
}

// Tokenize tokenizes the source
func Tokenize(source, url string, getTagDefinition func(tagName string) *TagDefinition, options *TokenizeOptions) *TokenizeResult {
	if options == nil {
		options = DefaultTokenizeOptions()
	}
	t := NewTokenizer(util.NewParseSourceFile(source, url), getTagDefinition, options)
	t.Tokenize()
	return &TokenizeResult{Tokens: t.tokens, Errors: t.errors}
}

// Tokenizer splits a template into markup tokens
type Tokenizer struct {
	file             *util.ParseSourceFile
	input            string
	pos              int
	lineStarts       []int
	getTagDefinition func(tagName string) *TagDefinition
	tokenizeBlocks   bool
	tokenizeLet      bool
	tokens           []*Token
	errors           []*util.ParseError
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(file *util.ParseSourceFile, getTagDefinition func(tagName string) *TagDefinition, options *TokenizeOptions) *Tokenizer {
	lineStarts := []int{0}
	for i := 0; i < len(file.Content); i++ {
		if file.Content[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Tokenizer{
		file:             file,
		input:            file.Content,
		lineStarts:       lineStarts,
		getTagDefinition: getTagDefinition,
		tokenizeBlocks:   options.TokenizeBlocks,
		tokenizeLet:      options.TokenizeLet,
	}
}

// Tokenize tokenizes the whole source and appends a trailing EOF token
func (t *Tokenizer) Tokenize() {
	for t.pos < len(t.input) {
		start := t.pos
		switch {
		case t.peekStr("<!--"):
			t.consumeComment(start)
		case t.peekStr("<![CDATA["):
			t.consumeCdata(start)
		case t.peekStr("<!"):
			t.consumeDocType(start)
		case t.peekStr("</"):
			t.consumeTagClose(start)
		case t.peek() == core.CharLT && core.IsAsciiLetter(t.peekAt(1)):
			t.consumeTagOpen(start)
		case t.isLetStart():
			t.consumeLetDeclaration(start)
		case t.isBlockStart():
			t.consumeBlockStart(start)
		case t.tokenizeBlocks && t.peek() == core.CharRBRACE:
			t.pos++
			t.emit(TokenTypeBLOCK_CLOSE, nil, start, t.pos)
		default:
			t.consumeText()
		}
	}
	t.emit(TokenTypeEOF, nil, t.pos, t.pos)
}

func (t *Tokenizer) peek() int {
	return t.peekAt(0)
}

func (t *Tokenizer) peekAt(offset int) int {
	if i := t.pos + offset; i < len(t.input) {
		return int(t.input[i])
	}
	return core.CharEOF
}

func (t *Tokenizer) peekStr(s string) bool {
	return strings.HasPrefix(t.input[t.pos:], s)
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && core.IsWhitespace(t.peek()) {
		t.pos++
	}
}

func (t *Tokenizer) location(offset int) *util.ParseLocation {
	line := sort.Search(len(t.lineStarts), func(i int) bool { return t.lineStarts[i] > offset }) - 1
	return util.NewParseLocation(t.file, offset, line, offset-t.lineStarts[line])
}

func (t *Tokenizer) span(start, end int) *util.ParseSourceSpan {
	return util.NewParseSourceSpan(t.location(start), t.location(end))
}

func (t *Tokenizer) emit(tokenType TokenType, parts []string, start, end int) *Token {
	token := NewToken(tokenType, parts, t.span(start, end))
	t.tokens = append(t.tokens, token)
	return token
}

func (t *Tokenizer) error(msg string, start, end int) {
	t.errors = append(t.errors, util.NewParseError(t.span(start, end), msg))
}

func (t *Tokenizer) consumeComment(start int) {
	t.pos += len("<!--")
	end := strings.Index(t.input[t.pos:], "-->")
	if end == -1 {
		t.error("Unexpected character \"EOF\"", start, len(t.input))
		t.emit(TokenTypeCOMMENT, []string{t.input[t.pos:]}, start, len(t.input))
		t.pos = len(t.input)
		return
	}
	content := t.input[t.pos : t.pos+end]
	t.pos += end + len("-->")
	t.emit(TokenTypeCOMMENT, []string{content}, start, t.pos)
}

func (t *Tokenizer) consumeCdata(start int) {
	t.pos += len("<![CDATA[")
	end := strings.Index(t.input[t.pos:], "]]>")
	if end == -1 {
		t.error("Unexpected character \"EOF\"", start, len(t.input))
		t.emit(TokenTypeCDATA, []string{t.input[t.pos:]}, start, len(t.input))
		t.pos = len(t.input)
		return
	}
	content := t.input[t.pos : t.pos+end]
	t.pos += end + len("]]>")
	t.emit(TokenTypeCDATA, []string{content}, start, t.pos)
}

func (t *Tokenizer) consumeDocType(start int) {
	end := strings.IndexByte(t.input[t.pos:], '>')
	if end == -1 {
		t.pos = len(t.input)
	} else {
		t.pos += end + 1
	}
	t.emit(TokenTypeDOC_TYPE, []string{t.input[start:t.pos]}, start, t.pos)
}

func (t *Tokenizer) consumeTagClose(start int) {
	t.pos += len("</")
	t.skipWhitespace()
	name := t.consumeName()
	t.skipWhitespace()
	if t.peek() == core.CharGT {
		t.pos++
	} else {
		t.error("Unexpected character \""+string(rune(t.peek()))+"\"", t.pos, t.pos)
		if end := strings.IndexByte(t.input[t.pos:], '>'); end != -1 {
			t.pos += end + 1
		} else {
			t.pos = len(t.input)
		}
	}
	t.emit(TokenTypeTAG_CLOSE, []string{name}, start, t.pos)
}

func (t *Tokenizer) consumeTagOpen(start int) {
	t.pos++
	name := t.consumeName()
	openToken := t.emit(TokenTypeTAG_OPEN_START, []string{name}, start, t.pos)

	for {
		t.skipWhitespace()
		switch {
		case t.pos >= len(t.input) || t.peek() == core.CharLT:
			openToken.Type = TokenTypeINCOMPLETE_TAG_OPEN
			return
		case t.peekStr("/>"):
			tokenStart := t.pos
			t.pos += 2
			t.emit(TokenTypeTAG_OPEN_END_VOID, nil, tokenStart, t.pos)
			return
		case t.peek() == core.CharGT:
			tokenStart := t.pos
			t.pos++
			t.emit(TokenTypeTAG_OPEN_END, nil, tokenStart, t.pos)
			t.consumeTagContent(name)
			return
		default:
			t.consumeAttr()
		}
	}
}

func (t *Tokenizer) consumeTagContent(name string) {
	if t.getTagDefinition == nil {
		return
	}
	contentType := t.getTagDefinition(name).ContentType
	if contentType == TagContentTypePARSABLE_DATA {
		return
	}
	start := t.pos
	end := indexFold(t.input[t.pos:], "</"+name)
	if end == -1 {
		t.pos = len(t.input)
	} else {
		t.pos += end
	}
	content := t.input[start:t.pos]
	if contentType == TagContentTypeESCAPABLE_RAW_TEXT {
		t.emit(TokenTypeTEXT, []string{decodeEntities(content)}, start, t.pos)
	} else {
		t.emit(TokenTypeRAW_TEXT, []string{content}, start, t.pos)
	}
}

func (t *Tokenizer) consumeAttr() {
	start := t.pos
	name := t.consumeName()
	if name == "" {
		t.error("Unexpected character \""+string(rune(t.peek()))+"\"", t.pos, t.pos+1)
		t.pos++
		return
	}
	t.emit(TokenTypeATTR_NAME, []string{name}, start, t.pos)

	afterName := t.pos
	t.skipWhitespace()
	if t.peek() != core.CharEQ {
		t.pos = afterName
		return
	}
	t.pos++
	t.skipWhitespace()
	t.consumeAttrValue()
}

func (t *Tokenizer) consumeAttrValue() {
	if quote := t.peek(); core.IsQuote(quote) && quote != core.CharBT {
		t.pos++
		valueStart := t.pos
		end := strings.IndexByte(t.input[t.pos:], byte(quote))
		if end == -1 {
			t.error("Unexpected character \"EOF\"", len(t.input), len(t.input))
			t.pos = len(t.input)
			t.emit(TokenTypeATTR_VALUE, []string{decodeEntities(t.input[valueStart:])}, valueStart, t.pos)
			return
		}
		t.pos += end
		t.emit(TokenTypeATTR_VALUE, []string{decodeEntities(t.input[valueStart:t.pos])}, valueStart, t.pos)
		t.pos++
		return
	}
	valueStart := t.pos
	for t.pos < len(t.input) && !core.IsWhitespace(t.peek()) && t.peek() != core.CharGT && !t.peekStr("/>") {
		t.pos++
	}
	t.emit(TokenTypeATTR_VALUE, []string{decodeEntities(t.input[valueStart:t.pos])}, valueStart, t.pos)
}

// consumeName reads a tag or attribute name. Names end at whitespace, quotes,
// `=`, `<`, `>` or `/`.
func (t *Tokenizer) consumeName() string {
	start := t.pos
	for t.pos < len(t.input) && !isNameEnd(t.peek()) {
		t.pos++
	}
	return t.input[start:t.pos]
}

func isNameEnd(code int) bool {
	return core.IsWhitespace(code) || code == core.CharGT || code == core.CharLT ||
		code == core.CharSLASH || code == core.CharSQ || code == core.CharDQ ||
		code == core.CharEQ || code == core.CharEOF
}

func (t *Tokenizer) consumeText() {
	start := t.pos
	inInterpolation := false
	for t.pos < len(t.input) {
		if !inInterpolation && t.peekStr("{{") {
			inInterpolation = true
			t.pos += 2
			continue
		}
		if inInterpolation && t.peekStr("}}") {
			inInterpolation = false
			t.pos += 2
			continue
		}
		if t.isTextEnd(inInterpolation) {
			break
		}
		t.pos++
	}
	if t.pos == start {
		t.pos++
	}
	t.emit(TokenTypeTEXT, []string{decodeEntities(t.input[start:t.pos])}, start, t.pos)
}

func (t *Tokenizer) isTextEnd(inInterpolation bool) bool {
	if t.peek() == core.CharLT {
		next := t.peekAt(1)
		if next == core.CharBANG || next == core.CharSLASH || core.IsAsciiLetter(next) {
			return true
		}
	}
	if inInterpolation {
		return false
	}
	return t.isLetStart() || t.isBlockStart() || (t.tokenizeBlocks && t.peek() == core.CharRBRACE)
}

func (t *Tokenizer) isLetStart() bool {
	return t.tokenizeLet && t.peekStr("@let") && core.IsWhitespace(t.peekAt(len("@let")))
}

func (t *Tokenizer) isBlockStart() bool {
	return t.tokenizeBlocks && t.peek() == core.CharAT && isBlockNameChar(t.peekAt(1))
}

func (t *Tokenizer) consumeBlockStart(start int) {
	t.pos++
	name := t.getBlockName()
	openToken := t.emit(TokenTypeBLOCK_OPEN_START, []string{name}, start, t.pos)

	if t.peek() == core.CharLPAREN {
		t.pos++
		t.consumeBlockParameters()
		t.skipWhitespace()
		if t.peek() != core.CharRPAREN {
			openToken.Type = TokenTypeINCOMPLETE_BLOCK_OPEN
			return
		}
		t.pos++
		t.skipWhitespace()
	}

	if t.peek() == core.CharLBRACE {
		tokenStart := t.pos
		t.pos++
		t.emit(TokenTypeBLOCK_OPEN_END, nil, tokenStart, t.pos)
		return
	}
	openToken.Type = TokenTypeINCOMPLETE_BLOCK_OPEN
}

// getBlockName reads names like `if` or `else if`, and the whitespace that
// follows them.
func (t *Tokenizer) getBlockName() string {
	start := t.pos
	for t.pos < len(t.input) {
		code := t.peek()
		if !isBlockNameChar(code) && !core.IsWhitespace(code) {
			break
		}
		t.pos++
	}
	return strings.Join(strings.Fields(t.input[start:t.pos]), " ")
}

func (t *Tokenizer) consumeBlockParameters() {
	t.skipBlockParameterSeparators()
	for t.pos < len(t.input) && t.peek() != core.CharRPAREN {
		start := t.pos
		quote := 0
		openParens := 0
	scan:
		for t.pos < len(t.input) {
			code := t.peek()
			switch {
			case code == core.CharBACKSLASH:
				t.pos++
			case quote != 0:
				if code == quote {
					quote = 0
				}
			case core.IsQuote(code):
				quote = code
			case code == core.CharSEMICOLON:
				break scan
			case code == core.CharLPAREN:
				openParens++
			case code == core.CharRPAREN:
				if openParens == 0 {
					break scan
				}
				openParens--
			}
			t.pos++
		}
		if t.pos > len(t.input) {
			t.pos = len(t.input)
		}
		t.emit(TokenTypeBLOCK_PARAMETER, []string{strings.TrimSpace(t.input[start:t.pos])}, start, t.pos)
		if t.peek() == core.CharSEMICOLON {
			t.pos++
		}
		t.skipBlockParameterSeparators()
	}
}

func (t *Tokenizer) skipBlockParameterSeparators() {
	for t.pos < len(t.input) && (core.IsWhitespace(t.peek()) || t.peek() == core.CharSEMICOLON) {
		t.pos++
	}
}

func isBlockNameChar(code int) bool {
	return core.IsAsciiLetter(code) || core.IsDigit(code) || code == core.CharUnderscore
}

func (t *Tokenizer) consumeLetDeclaration(start int) {
	t.pos += len("@let")
	t.skipWhitespace()
	nameStart := t.pos
	for t.pos < len(t.input) && (isBlockNameChar(t.peek()) || t.peek() == core.CharDollar) {
		t.pos++
	}
	startToken := t.emit(TokenTypeLET_START, []string{t.input[nameStart:t.pos]}, start, t.pos)

	t.skipWhitespace()
	if t.peek() != core.CharEQ {
		startToken.Type = TokenTypeINCOMPLETE_LET
		return
	}
	t.pos++
	t.skipWhitespace()

	valueStart := t.pos
	quote := 0
	for t.pos < len(t.input) {
		code := t.peek()
		if code == core.CharBACKSLASH {
			t.pos += 2
			continue
		}
		if quote != 0 {
			if code == quote {
				quote = 0
			}
		} else if core.IsQuote(code) {
			quote = code
		} else if code == core.CharSEMICOLON {
			break
		}
		t.pos++
	}
	if t.pos > len(t.input) {
		t.pos = len(t.input)
	}
	t.emit(TokenTypeLET_VALUE, []string{t.input[valueStart:t.pos]}, valueStart, t.pos)

	if t.peek() != core.CharSEMICOLON {
		startToken.Type = TokenTypeINCOMPLETE_LET
		startToken.SourceSpan = t.span(start, t.pos)
		return
	}
	tokenStart := t.pos
	t.pos++
	t.emit(TokenTypeLET_END, nil, tokenStart, t.pos)
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

// ngspEntity is Angular's non-collapsible space. It decodes to a private use
// character that the template transform turns back into a space.
const ngspEntity = "&ngsp;"

func decodeEntities(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	return html.UnescapeString(strings.ReplaceAll(text, ngspEntity, "\uE500"))
}
