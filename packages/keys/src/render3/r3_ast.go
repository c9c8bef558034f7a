package render3

import (
	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/util"
)

// Node represents a node in the R3 template AST. The set of node kinds is
// closed: every implementation has a matching method on Visitor.
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor) interface{}
}

type span struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the source span
func (s *span) SourceSpan() *util.ParseSourceSpan {
	return s.sourceSpan
}

// Comment represents a comment node
type Comment struct {
	span
	Value string
}

// NewComment creates a new Comment node
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{span: span{sourceSpan}, Value: value}
}

// Visit visits the node with a visitor
func (c *Comment) Visit(visitor Visitor) interface{} {
	return visitor.VisitComment(c)
}

// Text represents a static text node
type Text struct {
	span
	Value string
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{span: span{sourceSpan}, Value: value}
}

// Visit visits the node with a visitor
func (t *Text) Visit(visitor Visitor) interface{} {
	return visitor.VisitText(t)
}

// BoundText represents text with `{{ }}` interpolation
type BoundText struct {
	span
	Value expression_parser.AST
}

// NewBoundText creates a new BoundText node
func NewBoundText(value expression_parser.AST, sourceSpan *util.ParseSourceSpan) *BoundText {
	return &BoundText{span: span{sourceSpan}, Value: value}
}

// Visit visits the node with a visitor
func (bt *BoundText) Visit(visitor Visitor) interface{} {
	return visitor.VisitBoundText(bt)
}

// TextAttribute represents a static attribute, `name="value"`
type TextAttribute struct {
	span
	Name      string
	Value     string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewTextAttribute creates a new TextAttribute
func NewTextAttribute(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *TextAttribute {
	return &TextAttribute{
		span:      span{sourceSpan},
		Name:      name,
		Value:     value,
		KeySpan:   keySpan,
		ValueSpan: valueSpan,
	}
}

// Visit visits the node with a visitor
func (ta *TextAttribute) Visit(visitor Visitor) interface{} {
	return visitor.VisitTextAttribute(ta)
}

// BindingType is the kind of a property binding
type BindingType int

const (
	// BindingTypeProperty is `[prop]="exp"` or an interpolated attribute
	BindingTypeProperty BindingType = iota
	// BindingTypeAttribute is `[attr.name]="exp"`
	BindingTypeAttribute
	// BindingTypeClass is `[class.name]="exp"`
	BindingTypeClass
	// BindingTypeStyle is `[style.name]="exp"`
	BindingTypeStyle
	// BindingTypeTwoWay is `[(prop)]="exp"`
	BindingTypeTwoWay
	// BindingTypeAnimation is `[@trigger]="exp"`
	BindingTypeAnimation
)

// BoundAttribute represents a property binding. Name has the binding
// syntax stripped: `[title]` and `bind-title` both yield `title`.
type BoundAttribute struct {
	span
	Name      string
	Type      BindingType
	Value     expression_parser.AST
	Unit      string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewBoundAttribute creates a new BoundAttribute
func NewBoundAttribute(
	name string,
	bindingType BindingType,
	value expression_parser.AST,
	unit string,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
) *BoundAttribute {
	return &BoundAttribute{
		span:      span{sourceSpan},
		Name:      name,
		Type:      bindingType,
		Value:     value,
		Unit:      unit,
		KeySpan:   keySpan,
		ValueSpan: valueSpan,
	}
}

// Visit visits the node with a visitor
func (ba *BoundAttribute) Visit(visitor Visitor) interface{} {
	return visitor.VisitBoundAttribute(ba)
}

// BoundEvent represents an event binding, `(name)="handler"`
type BoundEvent struct {
	span
	Name        string
	Target      string
	Handler     expression_parser.AST
	KeySpan     *util.ParseSourceSpan
	HandlerSpan *util.ParseSourceSpan
}

// NewBoundEvent creates a new BoundEvent
func NewBoundEvent(name, target string, handler expression_parser.AST, sourceSpan, handlerSpan, keySpan *util.ParseSourceSpan) *BoundEvent {
	return &BoundEvent{
		span:        span{sourceSpan},
		Name:        name,
		Target:      target,
		Handler:     handler,
		KeySpan:     keySpan,
		HandlerSpan: handlerSpan,
	}
}

// Visit visits the node with a visitor
func (be *BoundEvent) Visit(visitor Visitor) interface{} {
	return visitor.VisitBoundEvent(be)
}

// Element represents a plain element
type Element struct {
	span
	Name            string
	Attributes      []*TextAttribute
	Inputs          []*BoundAttribute
	Outputs         []*BoundEvent
	Children        []Node
	References      []*Reference
	IsSelfClosing   bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
	IsVoid          bool
}

// NewElement creates a new Element node
func NewElement(
	name string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	children []Node,
	references []*Reference,
	isSelfClosing bool,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
	isVoid bool,
) *Element {
	return &Element{
		span:            span{sourceSpan},
		Name:            name,
		Attributes:      attributes,
		Inputs:          inputs,
		Outputs:         outputs,
		Children:        children,
		References:      references,
		IsSelfClosing:   isSelfClosing,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
		IsVoid:          isVoid,
	}
}

// Visit visits the node with a visitor
func (e *Element) Visit(visitor Visitor) interface{} {
	return visitor.VisitElement(e)
}

// Template represents a template fragment: an `<ng-template>` element or an
// element carrying a structural directive (`*dir`). For the latter TagName
// is the host element name and the host element is the only child.
type Template struct {
	span
	TagName         string
	Attributes      []*TextAttribute
	Inputs          []*BoundAttribute
	Outputs         []*BoundEvent
	TemplateAttrs   []Node
	Children        []Node
	References      []*Reference
	Variables       []*Variable
	IsSelfClosing   bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewTemplate creates a new Template node
func NewTemplate(
	tagName string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	templateAttrs []Node,
	children []Node,
	references []*Reference,
	variables []*Variable,
	isSelfClosing bool,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
) *Template {
	return &Template{
		span:            span{sourceSpan},
		TagName:         tagName,
		Attributes:      attributes,
		Inputs:          inputs,
		Outputs:         outputs,
		TemplateAttrs:   templateAttrs,
		Children:        children,
		References:      references,
		Variables:       variables,
		IsSelfClosing:   isSelfClosing,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// Visit visits the node with a visitor
func (t *Template) Visit(visitor Visitor) interface{} {
	return visitor.VisitTemplate(t)
}

// Content represents `<ng-content>`
type Content struct {
	span
	Selector   string
	Attributes []*TextAttribute
	Children   []Node
}

// NewContent creates a new Content node
func NewContent(selector string, attributes []*TextAttribute, children []Node, sourceSpan *util.ParseSourceSpan) *Content {
	return &Content{span: span{sourceSpan}, Selector: selector, Attributes: attributes, Children: children}
}

// Visit visits the node with a visitor
func (c *Content) Visit(visitor Visitor) interface{} {
	return visitor.VisitContent(c)
}

// Variable represents a template variable (`let-x`, `@for` item and context)
type Variable struct {
	span
	Name      string
	Value     string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewVariable creates a new Variable node
func NewVariable(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Variable {
	return &Variable{span: span{sourceSpan}, Name: name, Value: value, KeySpan: keySpan, ValueSpan: valueSpan}
}

// Visit visits the node with a visitor
func (v *Variable) Visit(visitor Visitor) interface{} {
	return visitor.VisitVariable(v)
}

// Reference represents a template reference (`#ref`, `ref-x`)
type Reference struct {
	span
	Name      string
	Value     string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewReference creates a new Reference node
func NewReference(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Reference {
	return &Reference{span: span{sourceSpan}, Name: name, Value: value, KeySpan: keySpan, ValueSpan: valueSpan}
}

// Visit visits the node with a visitor
func (r *Reference) Visit(visitor Visitor) interface{} {
	return visitor.VisitReference(r)
}

// BlockNode holds the spans shared by all control flow blocks
type BlockNode struct {
	NameSpan        *util.ParseSourceSpan
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewBlockNode creates a new BlockNode
func NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *BlockNode {
	return &BlockNode{
		NameSpan:        nameSpan,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// SourceSpan returns the source span
func (bn *BlockNode) SourceSpan() *util.ParseSourceSpan {
	return bn.sourceSpan
}

// DeferredTrigger is one `on`/`when` condition of a `@defer` block
type DeferredTrigger struct {
	span
	// Kind is `when` or the `on` trigger name: idle, immediate, timer,
	// hover, interaction, viewport or never.
	Kind       string
	Value      expression_parser.AST
	Parameters []string
}

// NewDeferredTrigger creates a new DeferredTrigger
func NewDeferredTrigger(kind string, value expression_parser.AST, parameters []string, sourceSpan *util.ParseSourceSpan) *DeferredTrigger {
	return &DeferredTrigger{span: span{sourceSpan}, Kind: kind, Value: value, Parameters: parameters}
}

// Visit visits the node with a visitor
func (dt *DeferredTrigger) Visit(visitor Visitor) interface{} {
	return visitor.VisitDeferredTrigger(dt)
}

// DeferredBlockTriggers groups the triggers of a `@defer` block by prefix
type DeferredBlockTriggers struct {
	Triggers         []*DeferredTrigger
	PrefetchTriggers []*DeferredTrigger
	HydrateTriggers  []*DeferredTrigger
}

// DeferredBlockPlaceholder represents `@placeholder`
type DeferredBlockPlaceholder struct {
	*BlockNode
	Children    []Node
	MinimumTime *int
}

// NewDeferredBlockPlaceholder creates a new DeferredBlockPlaceholder
func NewDeferredBlockPlaceholder(children []Node, minimumTime *int, nameSpan, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *DeferredBlockPlaceholder {
	return &DeferredBlockPlaceholder{
		BlockNode:   NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Children:    children,
		MinimumTime: minimumTime,
	}
}

// Visit visits the node with a visitor
func (dbp *DeferredBlockPlaceholder) Visit(visitor Visitor) interface{} {
	return visitor.VisitDeferredBlockPlaceholder(dbp)
}

// DeferredBlockLoading represents `@loading`
type DeferredBlockLoading struct {
	*BlockNode
	Children    []Node
	AfterTime   *int
	MinimumTime *int
}

// NewDeferredBlockLoading creates a new DeferredBlockLoading
func NewDeferredBlockLoading(children []Node, afterTime, minimumTime *int, nameSpan, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *DeferredBlockLoading {
	return &DeferredBlockLoading{
		BlockNode:   NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Children:    children,
		AfterTime:   afterTime,
		MinimumTime: minimumTime,
	}
}

// Visit visits the node with a visitor
func (dbl *DeferredBlockLoading) Visit(visitor Visitor) interface{} {
	return visitor.VisitDeferredBlockLoading(dbl)
}

// DeferredBlockError represents `@error`
type DeferredBlockError struct {
	*BlockNode
	Children []Node
}

// NewDeferredBlockError creates a new DeferredBlockError
func NewDeferredBlockError(children []Node, nameSpan, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *DeferredBlockError {
	return &DeferredBlockError{
		BlockNode: NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Children:  children,
	}
}

// Visit visits the node with a visitor
func (dbe *DeferredBlockError) Visit(visitor Visitor) interface{} {
	return visitor.VisitDeferredBlockError(dbe)
}

// DeferredBlock represents `@defer` with its optional sub-blocks
type DeferredBlock struct {
	*BlockNode
	DeferredBlockTriggers
	Children      []Node
	Placeholder   *DeferredBlockPlaceholder
	Loading       *DeferredBlockLoading
	Error         *DeferredBlockError
	MainBlockSpan *util.ParseSourceSpan
}

// NewDeferredBlock creates a new DeferredBlock
func NewDeferredBlock(
	children []Node,
	triggers DeferredBlockTriggers,
	placeholder *DeferredBlockPlaceholder,
	loading *DeferredBlockLoading,
	errorBlock *DeferredBlockError,
	nameSpan *util.ParseSourceSpan,
	sourceSpan *util.ParseSourceSpan,
	mainBlockSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
) *DeferredBlock {
	return &DeferredBlock{
		BlockNode:             NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		DeferredBlockTriggers: triggers,
		Children:              children,
		Placeholder:           placeholder,
		Loading:               loading,
		Error:                 errorBlock,
		MainBlockSpan:         mainBlockSpan,
	}
}

// Visit visits the node with a visitor
func (db *DeferredBlock) Visit(visitor Visitor) interface{} {
	return visitor.VisitDeferredBlock(db)
}

// SwitchBlock represents `@switch`
type SwitchBlock struct {
	*BlockNode
	Expression    expression_parser.AST
	Cases         []*SwitchBlockCase
	UnknownBlocks []*UnknownBlock
}

// NewSwitchBlock creates a new SwitchBlock
func NewSwitchBlock(expression expression_parser.AST, cases []*SwitchBlockCase, unknownBlocks []*UnknownBlock, sourceSpan, startSourceSpan, endSourceSpan, nameSpan *util.ParseSourceSpan) *SwitchBlock {
	return &SwitchBlock{
		BlockNode:     NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Expression:    expression,
		Cases:         cases,
		UnknownBlocks: unknownBlocks,
	}
}

// Visit visits the node with a visitor
func (sb *SwitchBlock) Visit(visitor Visitor) interface{} {
	return visitor.VisitSwitchBlock(sb)
}

// SwitchBlockCase represents `@case`, or `@default` when Expression is nil
type SwitchBlockCase struct {
	*BlockNode
	Expression expression_parser.AST
	Children   []Node
}

// NewSwitchBlockCase creates a new SwitchBlockCase
func NewSwitchBlockCase(expression expression_parser.AST, children []Node, sourceSpan, startSourceSpan, endSourceSpan, nameSpan *util.ParseSourceSpan) *SwitchBlockCase {
	return &SwitchBlockCase{
		BlockNode:  NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Expression: expression,
		Children:   children,
	}
}

// Visit visits the node with a visitor
func (sbc *SwitchBlockCase) Visit(visitor Visitor) interface{} {
	return visitor.VisitSwitchBlockCase(sbc)
}

// ForLoopBlock represents `@for`
type ForLoopBlock struct {
	*BlockNode
	Item             *Variable
	Expression       *expression_parser.ASTWithSource
	TrackBy          *expression_parser.ASTWithSource
	ContextVariables []*Variable
	Children         []Node
	Empty            *ForLoopBlockEmpty
	MainBlockSpan    *util.ParseSourceSpan
}

// NewForLoopBlock creates a new ForLoopBlock
func NewForLoopBlock(
	item *Variable,
	expression *expression_parser.ASTWithSource,
	trackBy *expression_parser.ASTWithSource,
	contextVariables []*Variable,
	children []Node,
	empty *ForLoopBlockEmpty,
	sourceSpan *util.ParseSourceSpan,
	mainBlockSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
	nameSpan *util.ParseSourceSpan,
) *ForLoopBlock {
	return &ForLoopBlock{
		BlockNode:        NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Item:             item,
		Expression:       expression,
		TrackBy:          trackBy,
		ContextVariables: contextVariables,
		Children:         children,
		Empty:            empty,
		MainBlockSpan:    mainBlockSpan,
	}
}

// Visit visits the node with a visitor
func (flb *ForLoopBlock) Visit(visitor Visitor) interface{} {
	return visitor.VisitForLoopBlock(flb)
}

// ForLoopBlockEmpty represents `@empty`
type ForLoopBlockEmpty struct {
	*BlockNode
	Children []Node
}

// NewForLoopBlockEmpty creates a new ForLoopBlockEmpty
func NewForLoopBlockEmpty(children []Node, sourceSpan, startSourceSpan, endSourceSpan, nameSpan *util.ParseSourceSpan) *ForLoopBlockEmpty {
	return &ForLoopBlockEmpty{
		BlockNode: NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Children:  children,
	}
}

// Visit visits the node with a visitor
func (flbe *ForLoopBlockEmpty) Visit(visitor Visitor) interface{} {
	return visitor.VisitForLoopBlockEmpty(flbe)
}

// IfBlock represents an `@if` chain
type IfBlock struct {
	*BlockNode
	Branches []*IfBlockBranch
}

// NewIfBlock creates a new IfBlock
func NewIfBlock(branches []*IfBlockBranch, sourceSpan, startSourceSpan, endSourceSpan, nameSpan *util.ParseSourceSpan) *IfBlock {
	return &IfBlock{
		BlockNode: NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Branches:  branches,
	}
}

// Visit visits the node with a visitor
func (ib *IfBlock) Visit(visitor Visitor) interface{} {
	return visitor.VisitIfBlock(ib)
}

// IfBlockBranch is one `@if`, `@else if` or `@else` branch. Expression is
// nil for `@else`.
type IfBlockBranch struct {
	*BlockNode
	Expression      expression_parser.AST
	Children        []Node
	ExpressionAlias *Variable
}

// NewIfBlockBranch creates a new IfBlockBranch
func NewIfBlockBranch(expression expression_parser.AST, children []Node, expressionAlias *Variable, sourceSpan, startSourceSpan, endSourceSpan, nameSpan *util.ParseSourceSpan) *IfBlockBranch {
	return &IfBlockBranch{
		BlockNode:       NewBlockNode(nameSpan, sourceSpan, startSourceSpan, endSourceSpan),
		Expression:      expression,
		Children:        children,
		ExpressionAlias: expressionAlias,
	}
}

// Visit visits the node with a visitor
func (ibb *IfBlockBranch) Visit(visitor Visitor) interface{} {
	return visitor.VisitIfBlockBranch(ibb)
}

// UnknownBlock represents a block the template syntax does not define. Its
// content is dropped.
type UnknownBlock struct {
	span
	Name     string
	NameSpan *util.ParseSourceSpan
}

// NewUnknownBlock creates a new UnknownBlock
func NewUnknownBlock(name string, sourceSpan, nameSpan *util.ParseSourceSpan) *UnknownBlock {
	return &UnknownBlock{span: span{sourceSpan}, Name: name, NameSpan: nameSpan}
}

// Visit visits the node with a visitor
func (ub *UnknownBlock) Visit(visitor Visitor) interface{} {
	return visitor.VisitUnknownBlock(ub)
}

// LetDeclaration represents `@let name = value;`
type LetDeclaration struct {
	span
	Name      string
	Value     expression_parser.AST
	NameSpan  *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewLetDeclaration creates a new LetDeclaration
func NewLetDeclaration(name string, value expression_parser.AST, sourceSpan, nameSpan, valueSpan *util.ParseSourceSpan) *LetDeclaration {
	return &LetDeclaration{span: span{sourceSpan}, Name: name, Value: value, NameSpan: nameSpan, ValueSpan: valueSpan}
}

// Visit visits the node with a visitor
func (ld *LetDeclaration) Visit(visitor Visitor) interface{} {
	return visitor.VisitLetDeclaration(ld)
}

// Visitor is implemented by every consumer of the R3 AST
type Visitor interface {
	VisitElement(element *Element) interface{}
	VisitTemplate(template *Template) interface{}
	VisitContent(content *Content) interface{}
	VisitVariable(variable *Variable) interface{}
	VisitReference(reference *Reference) interface{}
	VisitTextAttribute(attribute *TextAttribute) interface{}
	VisitBoundAttribute(attribute *BoundAttribute) interface{}
	VisitBoundEvent(event *BoundEvent) interface{}
	VisitText(text *Text) interface{}
	VisitBoundText(text *BoundText) interface{}
	VisitComment(comment *Comment) interface{}
	VisitDeferredBlock(deferred *DeferredBlock) interface{}
	VisitDeferredBlockPlaceholder(block *DeferredBlockPlaceholder) interface{}
	VisitDeferredBlockError(block *DeferredBlockError) interface{}
	VisitDeferredBlockLoading(block *DeferredBlockLoading) interface{}
	VisitDeferredTrigger(trigger *DeferredTrigger) interface{}
	VisitSwitchBlock(block *SwitchBlock) interface{}
	VisitSwitchBlockCase(block *SwitchBlockCase) interface{}
	VisitForLoopBlock(block *ForLoopBlock) interface{}
	VisitForLoopBlockEmpty(block *ForLoopBlockEmpty) interface{}
	VisitIfBlock(block *IfBlock) interface{}
	VisitIfBlockBranch(block *IfBlockBranch) interface{}
	VisitUnknownBlock(block *UnknownBlock) interface{}
	VisitLetDeclaration(decl *LetDeclaration) interface{}
}

// VisitAll visits all nodes and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node) []interface{} {
	var result []interface{}
	for _, node := range nodes {
		if r := node.Visit(visitor); r != nil {
			result = append(result, r)
		}
	}
	return result
}
