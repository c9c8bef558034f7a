package ml_parser

import "strings"

// TagContentType represents the content type of a tag
type TagContentType int

const (
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypeESCAPABLE_RAW_TEXT
	TagContentTypePARSABLE_DATA
)

// TagDefinition describes how the tree builder treats an HTML tag
type TagDefinition struct {
	closedByChildren map[string]bool
	ClosedByParent   bool
	IsVoid           bool
	ContentType      TagContentType
}

// IsClosedByChild reports whether opening name implicitly closes this tag
func (d *TagDefinition) IsClosedByChild(name string) bool {
	return d.IsVoid || d.closedByChildren[strings.ToLower(name)]
}

func newTagDefinition(contentType TagContentType, isVoid bool, closedByChildren ...string) *TagDefinition {
	children := make(map[string]bool, len(closedByChildren))
	for _, c := range closedByChildren {
		children[c] = true
	}
	return &TagDefinition{
		closedByChildren: children,
		ClosedByParent:   isVoid || len(closedByChildren) > 0,
		IsVoid:           isVoid,
		ContentType:      contentType,
	}
}

var defaultTagDefinition = newTagDefinition(TagContentTypePARSABLE_DATA, false)

var blockLevel = []string{
	"address", "article", "aside", "blockquote", "div", "dl", "fieldset", "footer",
	"form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "main",
	"nav", "ol", "p", "pre", "section", "table", "ul",
}

var tagDefinitions = map[string]*TagDefinition{
	"base":     newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"meta":     newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"area":     newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"embed":    newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"link":     newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"img":      newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"input":    newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"param":    newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"hr":       newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"br":       newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"source":   newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"track":    newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"wbr":      newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"col":      newTagDefinition(TagContentTypePARSABLE_DATA, true),
	"p":        newTagDefinition(TagContentTypePARSABLE_DATA, false, blockLevel...),
	"thead":    newTagDefinition(TagContentTypePARSABLE_DATA, false, "tbody", "tfoot"),
	"tbody":    newTagDefinition(TagContentTypePARSABLE_DATA, false, "tbody", "tfoot"),
	"tfoot":    newTagDefinition(TagContentTypePARSABLE_DATA, false, "tbody"),
	"tr":       newTagDefinition(TagContentTypePARSABLE_DATA, false, "tr"),
	"td":       newTagDefinition(TagContentTypePARSABLE_DATA, false, "td", "th"),
	"th":       newTagDefinition(TagContentTypePARSABLE_DATA, false, "td", "th"),
	"li":       newTagDefinition(TagContentTypePARSABLE_DATA, false, "li"),
	"dt":       newTagDefinition(TagContentTypePARSABLE_DATA, false, "dt", "dd"),
	"dd":       newTagDefinition(TagContentTypePARSABLE_DATA, false, "dt", "dd"),
	"option":   newTagDefinition(TagContentTypePARSABLE_DATA, false, "option", "optgroup"),
	"optgroup": newTagDefinition(TagContentTypePARSABLE_DATA, false, "optgroup"),
	"style":    newTagDefinition(TagContentTypeRAW_TEXT, false),
	"script":   newTagDefinition(TagContentTypeRAW_TEXT, false),
	"title":    newTagDefinition(TagContentTypeESCAPABLE_RAW_TEXT, false),
	"textarea": newTagDefinition(TagContentTypeESCAPABLE_RAW_TEXT, false),
}

// GetHtmlTagDefinition returns the definition for tagName, falling back to a
// plain parsable-data element for unknown and custom tags.
func GetHtmlTagDefinition(tagName string) *TagDefinition {
	if def, ok := tagDefinitions[strings.ToLower(tagName)]; ok {
		return def
	}
	return defaultTagDefinition
}

// IsNgTemplate checks if a tag name is ng-template
func IsNgTemplate(tagName string) bool {
	return tagName == "ng-template"
}

// IsNgContent checks if a tag name is ng-content
func IsNgContent(tagName string) bool {
	return tagName == "ng-content"
}

// IsNgContainer checks if a tag name is ng-container
func IsNgContainer(tagName string) bool {
	return tagName == "ng-container"
}
