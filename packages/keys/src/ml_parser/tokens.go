package ml_parser

import "ngkeys-go/packages/keys/src/util"

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeTAG_CLOSE
	TokenTypeINCOMPLETE_TAG_OPEN
	TokenTypeTEXT
	TokenTypeRAW_TEXT
	TokenTypeCOMMENT
	TokenTypeCDATA
	TokenTypeATTR_NAME
	TokenTypeATTR_VALUE
	TokenTypeDOC_TYPE
	TokenTypeBLOCK_OPEN_START
	TokenTypeBLOCK_PARAMETER
	TokenTypeBLOCK_OPEN_END
	TokenTypeBLOCK_CLOSE
	TokenTypeINCOMPLETE_BLOCK_OPEN
	TokenTypeLET_START
	TokenTypeLET_VALUE
	TokenTypeLET_END
	TokenTypeINCOMPLETE_LET
	TokenTypeEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeTAG_OPEN_START:        "TAG_OPEN_START",
	TokenTypeTAG_OPEN_END:          "TAG_OPEN_END",
	TokenTypeTAG_OPEN_END_VOID:     "TAG_OPEN_END_VOID",
	TokenTypeTAG_CLOSE:             "TAG_CLOSE",
	TokenTypeINCOMPLETE_TAG_OPEN:   "INCOMPLETE_TAG_OPEN",
	TokenTypeTEXT:                  "TEXT",
	TokenTypeRAW_TEXT:              "RAW_TEXT",
	TokenTypeCOMMENT:               "COMMENT",
	TokenTypeCDATA:                 "CDATA",
	TokenTypeATTR_NAME:             "ATTR_NAME",
	TokenTypeATTR_VALUE:            "ATTR_VALUE",
	TokenTypeDOC_TYPE:              "DOC_TYPE",
	TokenTypeBLOCK_OPEN_START:      "BLOCK_OPEN_START",
	TokenTypeBLOCK_PARAMETER:       "BLOCK_PARAMETER",
	TokenTypeBLOCK_OPEN_END:        "BLOCK_OPEN_END",
	TokenTypeBLOCK_CLOSE:           "BLOCK_CLOSE",
	TokenTypeINCOMPLETE_BLOCK_OPEN: "INCOMPLETE_BLOCK_OPEN",
	TokenTypeLET_START:             "LET_START",
	TokenTypeLET_VALUE:             "LET_VALUE",
	TokenTypeLET_END:               "LET_END",
	TokenTypeINCOMPLETE_LET:        "INCOMPLETE_LET",
	TokenTypeEOF:                   "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a lexical token of a template. Parts holds the token payload:
// the tag or attribute name, the decoded text, a block name or parameter.
type Token struct {
	Type       TokenType
	Parts      []string
	SourceSpan *util.ParseSourceSpan
}

// NewToken creates a new Token
func NewToken(tokenType TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *Token {
	return &Token{Type: tokenType, Parts: parts, SourceSpan: sourceSpan}
}

// Part returns the i-th part or an empty string
func (t *Token) Part(i int) string {
	if i < len(t.Parts) {
		return t.Parts[i]
	}
	return ""
}
