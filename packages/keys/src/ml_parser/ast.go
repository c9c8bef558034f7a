package ml_parser

import "ngkeys-go/packages/keys/src/util"

// Node represents a node in the HTML AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

type nodeBase struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the source span
func (n *nodeBase) SourceSpan() *util.ParseSourceSpan {
	return n.sourceSpan
}

// Text represents a text node. Value has HTML entities decoded.
type Text struct {
	nodeBase
	Value string
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{nodeBase: nodeBase{sourceSpan}, Value: value}
}

// Visit implements the Node interface
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Attribute represents an attribute as written in the template
type Attribute struct {
	nodeBase
	Name      string
	Value     string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute
func NewAttribute(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{
		nodeBase:  nodeBase{sourceSpan},
		Name:      name,
		Value:     value,
		KeySpan:   keySpan,
		ValueSpan: valueSpan,
	}
}

// Visit implements the Node interface
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element node
type Element struct {
	nodeBase
	Name            string
	Attrs           []*Attribute
	Children        []Node
	IsSelfClosing   bool
	IsVoid          bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewElement creates a new Element
func NewElement(name string, attrs []*Attribute, children []Node, isSelfClosing bool, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan, isVoid bool) *Element {
	return &Element{
		nodeBase:        nodeBase{sourceSpan},
		Name:            name,
		Attrs:           attrs,
		Children:        children,
		IsSelfClosing:   isSelfClosing,
		IsVoid:          isVoid,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// Visit implements the Node interface
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Comment represents a comment node
type Comment struct {
	nodeBase
	Value string
}

// NewComment creates a new Comment
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{nodeBase: nodeBase{sourceSpan}, Value: value}
}

// Visit implements the Node interface
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Block represents an `@name (params) { ... }` block
type Block struct {
	nodeBase
	Name            string
	Parameters      []*BlockParameter
	Children        []Node
	NameSpan        *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewBlock creates a new Block
func NewBlock(name string, parameters []*BlockParameter, children []Node, sourceSpan, nameSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *Block {
	return &Block{
		nodeBase:        nodeBase{sourceSpan},
		Name:            name,
		Parameters:      parameters,
		Children:        children,
		NameSpan:        nameSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// Visit implements the Node interface
func (b *Block) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlock(b, context)
}

// BlockParameter is one `;`-separated parameter of a block
type BlockParameter struct {
	nodeBase
	Expression string
}

// NewBlockParameter creates a new BlockParameter
func NewBlockParameter(expression string, sourceSpan *util.ParseSourceSpan) *BlockParameter {
	return &BlockParameter{nodeBase: nodeBase{sourceSpan}, Expression: expression}
}

// Visit implements the Node interface
func (bp *BlockParameter) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlockParameter(bp, context)
}

// LetDeclaration represents `@let name = value;`
type LetDeclaration struct {
	nodeBase
	Name      string
	Value     string
	NameSpan  *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewLetDeclaration creates a new LetDeclaration
func NewLetDeclaration(name, value string, sourceSpan, nameSpan, valueSpan *util.ParseSourceSpan) *LetDeclaration {
	return &LetDeclaration{
		nodeBase:  nodeBase{sourceSpan},
		Name:      name,
		Value:     value,
		NameSpan:  nameSpan,
		ValueSpan: valueSpan,
	}
}

// Visit implements the Node interface
func (ld *LetDeclaration) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitLetDeclaration(ld, context)
}

// Visitor interface for visiting AST nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
	VisitBlock(block *Block, context interface{}) interface{}
	VisitBlockParameter(parameter *BlockParameter, context interface{}) interface{}
	VisitLetDeclaration(decl *LetDeclaration, context interface{}) interface{}
}

// VisitAll visits all nodes with a visitor and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	var result []interface{}
	for _, ast := range nodes {
		if astResult := ast.Visit(visitor, context); astResult != nil {
			result = append(result, astResult)
		}
	}
	return result
}
