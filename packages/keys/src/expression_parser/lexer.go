package expression_parser

import (
	"strconv"
	"strings"

	"ngkeys-go/packages/keys/src/core"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = map[string]bool{
	"var":       true,
	"let":       true,
	"as":        true,
	"null":      true,
	"undefined": true,
	"true":      true,
	"false":     true,
	"if":        true,
	"else":      true,
	"this":      true,
	"typeof":    true,
}

// Token represents a token in the expression
type Token struct {
	Index    int
	End      int
	Type     TokenType
	NumValue float64
	StrValue string
}

// IsCharacter checks if the token is a character with the given code
func (t *Token) IsCharacter(code int) bool {
	return t.Type == TokenTypeCharacter && int(t.NumValue) == code
}

// IsNumber checks if the token is a number
func (t *Token) IsNumber() bool {
	return t.Type == TokenTypeNumber
}

// IsString checks if the token is a string
func (t *Token) IsString() bool {
	return t.Type == TokenTypeString
}

// IsOperator checks if the token is an operator with the given value
func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

// IsIdentifier checks if the token is an identifier
func (t *Token) IsIdentifier() bool {
	return t.Type == TokenTypeIdentifier
}

// IsKeyword checks if the token is the given keyword
func (t *Token) IsKeyword(keyword string) bool {
	return t.Type == TokenTypeKeyword && t.StrValue == keyword
}

// IsError checks if the token is an error
func (t *Token) IsError() bool {
	return t.Type == TokenTypeError
}

func (t *Token) String() string {
	switch t.Type {
	case TokenTypeCharacter:
		return string(rune(int(t.NumValue)))
	case TokenTypeNumber:
		return strconv.FormatFloat(t.NumValue, 'f', -1, 64)
	default:
		return t.StrValue
	}
}

// EOF represents the end of input
var EOF = &Token{Index: -1, End: -1, Type: TokenTypeCharacter}

// Lexer tokenizes expressions
type Lexer struct{}

// NewLexer creates a new Lexer
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize tokenizes the given text
func (l *Lexer) Tokenize(text string) []*Token {
	s := &scanner{input: text, length: len(text), index: -1}
	s.advance()
	var tokens []*Token
	for tok := s.scanToken(); tok != nil; tok = s.scanToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

type scanner struct {
	input  string
	length int
	peek   int
	index  int
}

func (s *scanner) advance() {
	s.index++
	if s.index >= s.length {
		s.peek = core.CharEOF
	} else {
		s.peek = int(s.input[s.index])
	}
}

func (s *scanner) scanToken() *Token {
	for s.index < s.length && core.IsWhitespace(s.peek) {
		s.advance()
	}
	if s.index >= s.length {
		return nil
	}

	peek := s.peek
	start := s.index
	if isIdentifierStart(peek) {
		return s.scanIdentifier()
	}
	if core.IsDigit(peek) {
		return s.scanNumber(start)
	}

	switch peek {
	case core.CharPERIOD:
		s.advance()
		if core.IsDigit(s.peek) {
			return s.scanNumber(start)
		}
		return newCharacterToken(start, s.index, core.CharPERIOD)
	case core.CharLPAREN, core.CharRPAREN, core.CharLBRACE, core.CharRBRACE,
		core.CharLBRACKET, core.CharRBRACKET, core.CharCOMMA, core.CharCOLON, core.CharSEMICOLON:
		s.advance()
		return newCharacterToken(start, s.index, peek)
	case core.CharSQ, core.CharDQ:
		return s.scanString()
	case core.CharPLUS, core.CharMINUS, core.CharSTAR, core.CharSLASH, core.CharPERCENT:
		s.advance()
		return newOperatorToken(start, s.index, string(rune(peek)))
	case core.CharQUESTION:
		return s.scanQuestion(start)
	case core.CharLT, core.CharGT:
		return s.scanComplexOperator(start, string(rune(peek)), core.CharEQ, "=", 0, "")
	case core.CharBANG, core.CharEQ:
		return s.scanComplexOperator(start, string(rune(peek)), core.CharEQ, "=", core.CharEQ, "=")
	case core.CharAMPERSAND:
		return s.scanComplexOperator(start, "&", core.CharAMPERSAND, "&", 0, "")
	case core.CharBAR:
		return s.scanComplexOperator(start, "|", core.CharBAR, "|", 0, "")
	}

	s.advance()
	return s.error("Unexpected character ["+string(rune(peek))+"]", start)
}

func (s *scanner) scanComplexOperator(start int, one string, twoCode int, two string, threeCode int, three string) *Token {
	s.advance()
	str := one
	if s.peek == twoCode {
		s.advance()
		str += two
		if threeCode != 0 && s.peek == threeCode {
			s.advance()
			str += three
		}
	}
	return newOperatorToken(start, s.index, str)
}

func (s *scanner) scanQuestion(start int) *Token {
	s.advance()
	operator := "?"
	if s.peek == core.CharQUESTION || s.peek == core.CharPERIOD {
		operator += string(rune(s.peek))
		s.advance()
	}
	return newOperatorToken(start, s.index, operator)
}

func (s *scanner) scanIdentifier() *Token {
	start := s.index
	s.advance()
	for isIdentifierPart(s.peek) {
		s.advance()
	}
	str := s.input[start:s.index]
	if keywords[str] {
		return &Token{Index: start, End: s.index, Type: TokenTypeKeyword, StrValue: str}
	}
	return &Token{Index: start, End: s.index, Type: TokenTypeIdentifier, StrValue: str}
}

func (s *scanner) scanNumber(start int) *Token {
	for core.IsDigit(s.peek) || s.peek == core.CharPERIOD || s.peek == core.CharUnderscore {
		s.advance()
	}
	str := strings.ReplaceAll(s.input[start:s.index], "_", "")
	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return s.error("Invalid number ["+str+"]", start)
	}
	return &Token{Index: start, End: s.index, Type: TokenTypeNumber, NumValue: value}
}

func (s *scanner) scanString() *Token {
	start := s.index
	quote := s.peek
	s.advance()

	var buffer strings.Builder
	marker := s.index
	for s.peek != quote {
		switch s.peek {
		case core.CharBACKSLASH:
			buffer.WriteString(s.input[marker:s.index])
			s.advance()
			buffer.WriteRune(unescape(s.peek))
			s.advance()
			marker = s.index
		case core.CharEOF:
			return s.error("Unterminated quote", start)
		default:
			s.advance()
		}
	}
	buffer.WriteString(s.input[marker:s.index])
	s.advance()
	return &Token{Index: start, End: s.index, Type: TokenTypeString, StrValue: buffer.String()}
}

func (s *scanner) error(message string, start int) *Token {
	msg := "Lexer Error: " + message + " at column " + strconv.Itoa(start) + " in expression [" + s.input + "]"
	// stop scanning after an error
	s.index = s.length
	return &Token{Index: start, End: start, Type: TokenTypeError, StrValue: msg}
}

func isIdentifierStart(code int) bool {
	return core.IsAsciiLetter(code) || code == core.CharUnderscore || code == core.CharDollar
}

func isIdentifierPart(code int) bool {
	return isIdentifierStart(code) || core.IsDigit(code)
}

func unescape(code int) rune {
	switch code {
	case core.CharLowerN:
		return '\n'
	case core.CharLowerF:
		return '\f'
	case core.CharLowerR:
		return '\r'
	case core.CharLowerT:
		return '\t'
	case core.CharLowerV:
		return '\v'
	default:
		return rune(code)
	}
}

func newCharacterToken(index, end, code int) *Token {
	return &Token{Index: index, End: end, Type: TokenTypeCharacter, NumValue: float64(code)}
}

func newOperatorToken(index, end int, text string) *Token {
	return &Token{Index: index, End: end, Type: TokenTypeOperator, StrValue: text}
}
