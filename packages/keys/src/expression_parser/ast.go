package expression_parser

import (
	"fmt"
	"strconv"
	"strings"

	"ngkeys-go/packages/keys/src/util"
)

// ParseSpan represents a span within an expression
type ParseSpan struct {
	Start int
	End   int
}

// NewParseSpan creates a new ParseSpan
func NewParseSpan(start, end int) *ParseSpan {
	return &ParseSpan{Start: start, End: end}
}

// ToAbsolute converts a ParseSpan to an AbsoluteSourceSpan
func (ps *ParseSpan) ToAbsolute(absoluteOffset int) *AbsoluteSourceSpan {
	return NewAbsoluteSourceSpan(absoluteOffset+ps.Start, absoluteOffset+ps.End)
}

// AbsoluteSourceSpan records the absolute position of a text span in a source file
type AbsoluteSourceSpan struct {
	Start int
	End   int
}

// NewAbsoluteSourceSpan creates a new AbsoluteSourceSpan
func NewAbsoluteSourceSpan(start, end int) *AbsoluteSourceSpan {
	return &AbsoluteSourceSpan{Start: start, End: end}
}

// AST is the base interface for all expression nodes. The set of
// implementations is closed to this package.
type AST interface {
	Span() *ParseSpan
	SourceSpan() *AbsoluteSourceSpan
	Visit(visitor AstVisitor, context interface{}) interface{}
	String() string
	isAST()
}

type astBase struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
}

// Span returns the parse span
func (a *astBase) Span() *ParseSpan {
	return a.span
}

// SourceSpan returns the absolute source span
func (a *astBase) SourceSpan() *AbsoluteSourceSpan {
	return a.sourceSpan
}

func (a *astBase) isAST() {}

// EmptyExpr represents an empty or unparseable expression
type EmptyExpr struct {
	astBase
}

// NewEmptyExpr creates a new EmptyExpr
func NewEmptyExpr(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *EmptyExpr {
	return &EmptyExpr{astBase{span, sourceSpan}}
}

func (e *EmptyExpr) Visit(visitor AstVisitor, context interface{}) interface{} {
	return nil
}

func (e *EmptyExpr) String() string {
	return ""
}

// ImplicitReceiver is the receiver of a bare identifier (the component context)
type ImplicitReceiver struct {
	astBase
}

// NewImplicitReceiver creates a new ImplicitReceiver
func NewImplicitReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ImplicitReceiver {
	return &ImplicitReceiver{astBase{span, sourceSpan}}
}

func (i *ImplicitReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitImplicitReceiver(i, context)
}

func (i *ImplicitReceiver) String() string {
	return ""
}

// ThisReceiver is an explicit `this` receiver
type ThisReceiver struct {
	astBase
}

// NewThisReceiver creates a new ThisReceiver
func NewThisReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ThisReceiver {
	return &ThisReceiver{astBase{span, sourceSpan}}
}

func (t *ThisReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitThisReceiver(t, context)
}

func (t *ThisReceiver) String() string {
	return "this"
}

// Chain represents multiple expressions separated by a semicolon
type Chain struct {
	astBase
	Expressions []AST
}

// NewChain creates a new Chain
func NewChain(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *Chain {
	return &Chain{astBase{span, sourceSpan}, expressions}
}

func (c *Chain) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitChain(c, context)
}

func (c *Chain) String() string {
	parts := make([]string, len(c.Expressions))
	for i, e := range c.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// Conditional represents a ternary expression `cond ? a : b`
type Conditional struct {
	astBase
	Condition AST
	TrueExp   AST
	FalseExp  AST
}

// NewConditional creates a new Conditional
func NewConditional(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, condition, trueExp, falseExp AST) *Conditional {
	return &Conditional{astBase{span, sourceSpan}, condition, trueExp, falseExp}
}

func (c *Conditional) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

func (c *Conditional) String() string {
	return fmt.Sprintf("%s ? %s : %s", c.Condition, c.TrueExp, c.FalseExp)
}

// PropertyRead represents `receiver.name` or a bare identifier
type PropertyRead struct {
	astBase
	Receiver AST
	Name     string
}

// NewPropertyRead creates a new PropertyRead
func NewPropertyRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string) *PropertyRead {
	return &PropertyRead{astBase{span, sourceSpan}, receiver, name}
}

func (p *PropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyRead(p, context)
}

func (p *PropertyRead) String() string {
	return receiverPrefix(p.Receiver, ".") + p.Name
}

// SafePropertyRead represents `receiver?.name`
type SafePropertyRead struct {
	astBase
	Receiver AST
	Name     string
}

// NewSafePropertyRead creates a new SafePropertyRead
func NewSafePropertyRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, name string) *SafePropertyRead {
	return &SafePropertyRead{astBase{span, sourceSpan}, receiver, name}
}

func (s *SafePropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafePropertyRead(s, context)
}

func (s *SafePropertyRead) String() string {
	return s.Receiver.String() + "?." + s.Name
}

// KeyedRead represents `receiver[key]`
type KeyedRead struct {
	astBase
	Receiver AST
	Key      AST
}

// NewKeyedRead creates a new KeyedRead
func NewKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key AST) *KeyedRead {
	return &KeyedRead{astBase{span, sourceSpan}, receiver, key}
}

func (k *KeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedRead(k, context)
}

func (k *KeyedRead) String() string {
	return fmt.Sprintf("%s[%s]", k.Receiver, k.Key)
}

// BindingPipe represents `exp | name:arg1:arg2`
type BindingPipe struct {
	astBase
	Exp  AST
	Name string
	Args []AST
}

// NewBindingPipe creates a new BindingPipe
func NewBindingPipe(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, exp AST, name string, args []AST) *BindingPipe {
	return &BindingPipe{astBase{span, sourceSpan}, exp, name, args}
}

func (b *BindingPipe) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPipe(b, context)
}

func (b *BindingPipe) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(b.Exp.String())
	sb.WriteString(" | ")
	sb.WriteString(b.Name)
	for _, arg := range b.Args {
		sb.WriteString(":")
		sb.WriteString(arg.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// LiteralPrimitive represents a string, number, boolean, null or undefined literal.
// Value is one of string, float64, bool or nil.
type LiteralPrimitive struct {
	astBase
	Value interface{}
}

// NewLiteralPrimitive creates a new LiteralPrimitive
func NewLiteralPrimitive(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, value interface{}) *LiteralPrimitive {
	return &LiteralPrimitive{astBase{span, sourceSpan}, value}
}

func (l *LiteralPrimitive) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralPrimitive(l, context)
}

func (l *LiteralPrimitive) String() string {
	switch v := l.Value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return "null"
	}
}

// StringValue returns the literal's value when it is a string
func (l *LiteralPrimitive) StringValue() (string, bool) {
	s, ok := l.Value.(string)
	return s, ok
}

// LiteralArray represents `[a, b, c]`
type LiteralArray struct {
	astBase
	Expressions []AST
}

// NewLiteralArray creates a new LiteralArray
func NewLiteralArray(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *LiteralArray {
	return &LiteralArray{astBase{span, sourceSpan}, expressions}
}

func (l *LiteralArray) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArray(l, context)
}

func (l *LiteralArray) String() string {
	parts := make([]string, len(l.Expressions))
	for i, e := range l.Expressions {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// LiteralMapKey is a key of a literal map
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap represents `{a: 1, 'b': 2}`
type LiteralMap struct {
	astBase
	Keys   []LiteralMapKey
	Values []AST
}

// NewLiteralMap creates a new LiteralMap
func NewLiteralMap(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, keys []LiteralMapKey, values []AST) *LiteralMap {
	return &LiteralMap{astBase{span, sourceSpan}, keys, values}
}

func (l *LiteralMap) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMap(l, context)
}

func (l *LiteralMap) String() string {
	parts := make([]string, len(l.Keys))
	for i, k := range l.Keys {
		key := k.Key
		if k.Quoted {
			key = "'" + key + "'"
		}
		parts[i] = key + ": " + l.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Interpolation represents text with embedded `{{ }}` expressions.
// len(Strings) is always len(Expressions)+1.
type Interpolation struct {
	astBase
	Strings     []string
	Expressions []AST
}

// NewInterpolation creates a new Interpolation
func NewInterpolation(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, strs []string, expressions []AST) *Interpolation {
	return &Interpolation{astBase{span, sourceSpan}, strs, expressions}
}

func (i *Interpolation) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

func (i *Interpolation) String() string {
	var sb strings.Builder
	for idx, s := range i.Strings {
		sb.WriteString(s)
		if idx < len(i.Expressions) {
			sb.WriteString("{{ ")
			sb.WriteString(i.Expressions[idx].String())
			sb.WriteString(" }}")
		}
	}
	return sb.String()
}

// Binary represents `left op right`
type Binary struct {
	astBase
	Operation string
	Left      AST
	Right     AST
}

// NewBinary creates a new Binary
func NewBinary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operation string, left, right AST) *Binary {
	return &Binary{astBase{span, sourceSpan}, operation, left, right}
}

func (b *Binary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

func (b *Binary) String() string {
	return fmt.Sprintf("%s %s %s", b.Left, b.Operation, b.Right)
}

// Unary represents `-expr` or `+expr`
type Unary struct {
	astBase
	Operator string
	Expr     AST
}

// NewUnary creates a new Unary
func NewUnary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operator string, expr AST) *Unary {
	return &Unary{astBase{span, sourceSpan}, operator, expr}
}

func (u *Unary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitUnary(u, context)
}

func (u *Unary) String() string {
	return u.Operator + u.Expr.String()
}

// PrefixNot represents `!expr`
type PrefixNot struct {
	astBase
	Expression AST
}

// NewPrefixNot creates a new PrefixNot
func NewPrefixNot(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *PrefixNot {
	return &PrefixNot{astBase{span, sourceSpan}, expression}
}

func (p *PrefixNot) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPrefixNot(p, context)
}

func (p *PrefixNot) String() string {
	return "!" + p.Expression.String()
}

// TypeofExpression represents `typeof expr`
type TypeofExpression struct {
	astBase
	Expression AST
}

// NewTypeofExpression creates a new TypeofExpression
func NewTypeofExpression(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *TypeofExpression {
	return &TypeofExpression{astBase{span, sourceSpan}, expression}
}

func (t *TypeofExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitTypeofExpression(t, context)
}

func (t *TypeofExpression) String() string {
	return "typeof " + t.Expression.String()
}

// NonNullAssert represents `expr!`
type NonNullAssert struct {
	astBase
	Expression AST
}

// NewNonNullAssert creates a new NonNullAssert
func NewNonNullAssert(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *NonNullAssert {
	return &NonNullAssert{astBase{span, sourceSpan}, expression}
}

func (n *NonNullAssert) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitNonNullAssert(n, context)
}

func (n *NonNullAssert) String() string {
	return n.Expression.String() + "!"
}

// Call represents `receiver(args)`; Safe marks `receiver?.(args)`
type Call struct {
	astBase
	Receiver AST
	Args     []AST
	Safe     bool
}

// NewCall creates a new Call
func NewCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, args []AST, safe bool) *Call {
	return &Call{astBase{span, sourceSpan}, receiver, args, safe}
}

func (c *Call) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitCall(c, context)
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	op := "("
	if c.Safe {
		op = "?.("
	}
	return c.Receiver.String() + op + strings.Join(args, ", ") + ")"
}

// ASTWithSource wraps the root of a parsed expression together with its source text
type ASTWithSource struct {
	astBase
	AST            AST
	Source         string
	Location       string
	AbsoluteOffset int
	Errors         []*util.ParseError
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source, location string, absoluteOffset int, errors []*util.ParseError) *ASTWithSource {
	span := NewParseSpan(0, len(source))
	return &ASTWithSource{
		astBase:        astBase{span, span.ToAbsolute(absoluteOffset)},
		AST:            ast,
		Source:         source,
		Location:       location,
		AbsoluteOffset: absoluteOffset,
		Errors:         errors,
	}
}

func (a *ASTWithSource) Visit(visitor AstVisitor, context interface{}) interface{} {
	return a.AST.Visit(visitor, context)
}

func (a *ASTWithSource) String() string {
	return a.Source + " in " + a.Location
}

// Unwrap returns the root expression without its source wrapper
func Unwrap(ast AST) AST {
	if ws, ok := ast.(*ASTWithSource); ok {
		return ws.AST
	}
	return ast
}

func receiverPrefix(receiver AST, sep string) string {
	switch receiver.(type) {
	case *ImplicitReceiver, nil:
		return ""
	}
	return receiver.String() + sep
}

// AstVisitor visits expression nodes
type AstVisitor interface {
	VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{}
	VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{}
	VisitChain(ast *Chain, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitPropertyRead(ast *PropertyRead, context interface{}) interface{}
	VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{}
	VisitKeyedRead(ast *KeyedRead, context interface{}) interface{}
	VisitPipe(ast *BindingPipe, context interface{}) interface{}
	VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{}
	VisitLiteralArray(ast *LiteralArray, context interface{}) interface{}
	VisitLiteralMap(ast *LiteralMap, context interface{}) interface{}
	VisitInterpolation(ast *Interpolation, context interface{}) interface{}
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitUnary(ast *Unary, context interface{}) interface{}
	VisitPrefixNot(ast *PrefixNot, context interface{}) interface{}
	VisitTypeofExpression(ast *TypeofExpression, context interface{}) interface{}
	VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{}
	VisitCall(ast *Call, context interface{}) interface{}
}

// RecursiveAstVisitor walks every sub-expression. Embed it and override the
// methods of interest; overriding methods must call back into the embedded
// visitor (with the outer visitor) to keep descending.
type RecursiveAstVisitor struct {
	// Self is the outermost visitor; it receives the recursive calls.
	Self AstVisitor
}

func (r *RecursiveAstVisitor) self() AstVisitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

// VisitAll visits each expression in asts
func (r *RecursiveAstVisitor) VisitAll(asts []AST, context interface{}) {
	for _, ast := range asts {
		if ast != nil {
			ast.Visit(r.self(), context)
		}
	}
}

func (r *RecursiveAstVisitor) visit(ast AST, context interface{}) {
	if ast != nil {
		ast.Visit(r.self(), context)
	}
}

func (r *RecursiveAstVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return nil
}

func (r *RecursiveAstVisitor) VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{} {
	return nil
}

func (r *RecursiveAstVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	r.VisitAll(ast.Expressions, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	r.visit(ast.Condition, context)
	r.visit(ast.TrueExp, context)
	r.visit(ast.FalseExp, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	r.visit(ast.Key, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	r.visit(ast.Exp, context)
	r.VisitAll(ast.Args, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	return nil
}

func (r *RecursiveAstVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	r.VisitAll(ast.Expressions, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	r.VisitAll(ast.Values, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	r.VisitAll(ast.Expressions, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	r.visit(ast.Left, context)
	r.visit(ast.Right, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitUnary(ast *Unary, context interface{}) interface{} {
	r.visit(ast.Expr, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	r.visit(ast.Expression, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitTypeofExpression(ast *TypeofExpression, context interface{}) interface{} {
	r.visit(ast.Expression, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	r.visit(ast.Expression, context)
	return nil
}

func (r *RecursiveAstVisitor) VisitCall(ast *Call, context interface{}) interface{} {
	r.visit(ast.Receiver, context)
	r.VisitAll(ast.Args, context)
	return nil
}
