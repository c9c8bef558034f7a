package template

import (
	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/render3"
)

// PipeExtractor registers the keys piped through the translation pipe:
//
//	<p>{{ 'home.title' | translate }}</p>
//	<img [alt]="(ok ? 'a' : 'b') | translate">
func PipeExtractor(config *TemplateExtractorConfig) {
	ast := ParseTemplate(config)
	TraversePipes(ast.Nodes, &config.ExtractorConfig)
}

// TraversePipes finds the translation pipes in every expression of nodes and
// resolves their input with AddKeysFromAST.
func TraversePipes(nodes []render3.Node, config *ExtractorConfig) {
	v := newPipeNodeVisitor(config)
	render3.VisitAll(v, nodes)
}

type pipeNodeVisitor struct {
	render3.RecursiveVisitor
	expressions *pipeExpressionVisitor
}

func newPipeNodeVisitor(config *ExtractorConfig) *pipeNodeVisitor {
	v := &pipeNodeVisitor{expressions: newPipeExpressionVisitor(config)}
	v.Self = v
	return v
}

func (v *pipeNodeVisitor) visitExpression(ast expression_parser.AST) {
	if ast != nil {
		ast.Visit(v.expressions, nil)
	}
}

func (v *pipeNodeVisitor) VisitBoundText(text *render3.BoundText) interface{} {
	v.visitExpression(text.Value)
	return nil
}

func (v *pipeNodeVisitor) VisitBoundAttribute(attribute *render3.BoundAttribute) interface{} {
	v.visitExpression(attribute.Value)
	return nil
}

func (v *pipeNodeVisitor) VisitBoundEvent(event *render3.BoundEvent) interface{} {
	v.visitExpression(event.Handler)
	return nil
}

func (v *pipeNodeVisitor) VisitDeferredTrigger(trigger *render3.DeferredTrigger) interface{} {
	v.visitExpression(trigger.Value)
	return nil
}

func (v *pipeNodeVisitor) VisitSwitchBlock(block *render3.SwitchBlock) interface{} {
	v.visitExpression(block.Expression)
	return v.RecursiveVisitor.VisitSwitchBlock(block)
}

func (v *pipeNodeVisitor) VisitSwitchBlockCase(block *render3.SwitchBlockCase) interface{} {
	v.visitExpression(block.Expression)
	return v.RecursiveVisitor.VisitSwitchBlockCase(block)
}

func (v *pipeNodeVisitor) VisitForLoopBlock(block *render3.ForLoopBlock) interface{} {
	if block.Expression != nil {
		v.visitExpression(block.Expression)
	}
	return v.RecursiveVisitor.VisitForLoopBlock(block)
}

func (v *pipeNodeVisitor) VisitIfBlockBranch(block *render3.IfBlockBranch) interface{} {
	v.visitExpression(block.Expression)
	return v.RecursiveVisitor.VisitIfBlockBranch(block)
}

func (v *pipeNodeVisitor) VisitLetDeclaration(decl *render3.LetDeclaration) interface{} {
	v.visitExpression(decl.Value)
	return nil
}

// pipeExpressionVisitor resolves the input of every translation pipe,
// nested pipes included.
type pipeExpressionVisitor struct {
	expression_parser.RecursiveAstVisitor
	config *ExtractorConfig
}

func newPipeExpressionVisitor(config *ExtractorConfig) *pipeExpressionVisitor {
	v := &pipeExpressionVisitor{config: config}
	v.Self = v
	return v
}

func (v *pipeExpressionVisitor) VisitPipe(ast *expression_parser.BindingPipe, context interface{}) interface{} {
	if IsBindingPipe(ast, v.config.pipe()) {
		AddKeysFromAST([]interface{}{ast.Exp}, v.config)
	}
	return v.RecursiveAstVisitor.VisitPipe(ast, context)
}
