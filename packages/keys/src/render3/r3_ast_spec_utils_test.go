package render3_test

import (
	"strconv"
	"testing"

	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/render3"
)

// r3AstHumanizer flattens an R3 tree into comparable rows
type r3AstHumanizer struct {
	result [][]interface{}
}

func unparse(ast expression_parser.AST) interface{} {
	if ast == nil {
		return nil
	}
	return expression_parser.Unwrap(ast).String()
}

func (h *r3AstHumanizer) add(row ...interface{}) {
	h.result = append(h.result, row)
}

func (h *r3AstHumanizer) visitAll(nodes ...[]render3.Node) {
	for _, list := range nodes {
		render3.VisitAll(h, list)
	}
}

func (h *r3AstHumanizer) VisitElement(element *render3.Element) interface{} {
	h.add("Element", element.Name)
	for _, a := range element.Attributes {
		a.Visit(h)
	}
	for _, i := range element.Inputs {
		i.Visit(h)
	}
	for _, o := range element.Outputs {
		o.Visit(h)
	}
	for _, r := range element.References {
		r.Visit(h)
	}
	h.visitAll(element.Children)
	return nil
}

func (h *r3AstHumanizer) VisitTemplate(template *render3.Template) interface{} {
	h.add("Template")
	for _, a := range template.Attributes {
		a.Visit(h)
	}
	for _, i := range template.Inputs {
		i.Visit(h)
	}
	for _, o := range template.Outputs {
		o.Visit(h)
	}
	h.visitAll(template.TemplateAttrs)
	for _, r := range template.References {
		r.Visit(h)
	}
	for _, v := range template.Variables {
		v.Visit(h)
	}
	h.visitAll(template.Children)
	return nil
}

func (h *r3AstHumanizer) VisitContent(content *render3.Content) interface{} {
	h.add("Content", content.Selector)
	for _, a := range content.Attributes {
		a.Visit(h)
	}
	h.visitAll(content.Children)
	return nil
}

func (h *r3AstHumanizer) VisitVariable(variable *render3.Variable) interface{} {
	h.add("Variable", variable.Name, variable.Value)
	return nil
}

func (h *r3AstHumanizer) VisitReference(reference *render3.Reference) interface{} {
	h.add("Reference", reference.Name, reference.Value)
	return nil
}

func (h *r3AstHumanizer) VisitTextAttribute(attribute *render3.TextAttribute) interface{} {
	h.add("TextAttribute", attribute.Name, attribute.Value)
	return nil
}

func (h *r3AstHumanizer) VisitBoundAttribute(attribute *render3.BoundAttribute) interface{} {
	h.add("BoundAttribute", attribute.Type, attribute.Name, unparse(attribute.Value))
	return nil
}

func (h *r3AstHumanizer) VisitBoundEvent(event *render3.BoundEvent) interface{} {
	h.add("BoundEvent", event.Name, event.Target, unparse(event.Handler))
	return nil
}

func (h *r3AstHumanizer) VisitText(text *render3.Text) interface{} {
	h.add("Text", text.Value)
	return nil
}

func (h *r3AstHumanizer) VisitBoundText(text *render3.BoundText) interface{} {
	h.add("BoundText", unparse(text.Value))
	return nil
}

func (h *r3AstHumanizer) VisitComment(comment *render3.Comment) interface{} {
	return nil
}

func (h *r3AstHumanizer) VisitDeferredBlock(deferred *render3.DeferredBlock) interface{} {
	h.add("DeferredBlock")
	for _, trigger := range deferred.Triggers {
		trigger.Visit(h)
	}
	for _, trigger := range deferred.PrefetchTriggers {
		trigger.Visit(h)
	}
	for _, trigger := range deferred.HydrateTriggers {
		trigger.Visit(h)
	}
	h.visitAll(deferred.Children)
	if deferred.Placeholder != nil {
		deferred.Placeholder.Visit(h)
	}
	if deferred.Loading != nil {
		deferred.Loading.Visit(h)
	}
	if deferred.Error != nil {
		deferred.Error.Visit(h)
	}
	return nil
}

func (h *r3AstHumanizer) VisitDeferredBlockPlaceholder(block *render3.DeferredBlockPlaceholder) interface{} {
	row := []interface{}{"DeferredBlockPlaceholder"}
	if block.MinimumTime != nil {
		row = append(row, "minimum "+strconv.Itoa(*block.MinimumTime)+"ms")
	}
	h.add(row...)
	h.visitAll(block.Children)
	return nil
}

func (h *r3AstHumanizer) VisitDeferredBlockError(block *render3.DeferredBlockError) interface{} {
	h.add("DeferredBlockError")
	h.visitAll(block.Children)
	return nil
}

func (h *r3AstHumanizer) VisitDeferredBlockLoading(block *render3.DeferredBlockLoading) interface{} {
	row := []interface{}{"DeferredBlockLoading"}
	if block.AfterTime != nil {
		row = append(row, "after "+strconv.Itoa(*block.AfterTime)+"ms")
	}
	if block.MinimumTime != nil {
		row = append(row, "minimum "+strconv.Itoa(*block.MinimumTime)+"ms")
	}
	h.add(row...)
	h.visitAll(block.Children)
	return nil
}

func (h *r3AstHumanizer) VisitDeferredTrigger(trigger *render3.DeferredTrigger) interface{} {
	if trigger.Value != nil {
		h.add("DeferredTrigger", trigger.Kind, unparse(trigger.Value))
	} else {
		h.add("DeferredTrigger", trigger.Kind)
	}
	return nil
}

func (h *r3AstHumanizer) VisitSwitchBlock(block *render3.SwitchBlock) interface{} {
	h.add("SwitchBlock", unparse(block.Expression))
	for _, c := range block.Cases {
		c.Visit(h)
	}
	for _, u := range block.UnknownBlocks {
		u.Visit(h)
	}
	return nil
}

func (h *r3AstHumanizer) VisitSwitchBlockCase(block *render3.SwitchBlockCase) interface{} {
	h.add("SwitchBlockCase", unparse(block.Expression))
	h.visitAll(block.Children)
	return nil
}

func (h *r3AstHumanizer) VisitForLoopBlock(block *render3.ForLoopBlock) interface{} {
	var expression, trackBy interface{}
	if block.Expression != nil {
		expression = unparse(block.Expression)
	}
	if block.TrackBy != nil {
		trackBy = unparse(block.TrackBy)
	}
	h.add("ForLoopBlock", expression, trackBy)
	if block.Item != nil {
		block.Item.Visit(h)
	}
	for _, v := range block.ContextVariables {
		v.Visit(h)
	}
	h.visitAll(block.Children)
	if block.Empty != nil {
		block.Empty.Visit(h)
	}
	return nil
}

func (h *r3AstHumanizer) VisitForLoopBlockEmpty(block *render3.ForLoopBlockEmpty) interface{} {
	h.add("ForLoopBlockEmpty")
	h.visitAll(block.Children)
	return nil
}

func (h *r3AstHumanizer) VisitIfBlock(block *render3.IfBlock) interface{} {
	h.add("IfBlock")
	for _, branch := range block.Branches {
		branch.Visit(h)
	}
	return nil
}

func (h *r3AstHumanizer) VisitIfBlockBranch(block *render3.IfBlockBranch) interface{} {
	h.add("IfBlockBranch", unparse(block.Expression))
	if block.ExpressionAlias != nil {
		block.ExpressionAlias.Visit(h)
	}
	h.visitAll(block.Children)
	return nil
}

func (h *r3AstHumanizer) VisitUnknownBlock(block *render3.UnknownBlock) interface{} {
	h.add("UnknownBlock", block.Name)
	return nil
}

func (h *r3AstHumanizer) VisitLetDeclaration(decl *render3.LetDeclaration) interface{} {
	h.add("LetDeclaration", decl.Name, unparse(decl.Value))
	return nil
}

func parseR3(t *testing.T, template string) *render3.ParsedTemplate {
	t.Helper()
	return render3.ParseTemplate(template, "path://to/template", render3.ParseTemplateOptions{})
}

// expectFromHtml parses the template, fails on any error and returns the rows
func expectFromHtml(t *testing.T, template string) [][]interface{} {
	t.Helper()
	result := parseR3(t, template)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	h := &r3AstHumanizer{}
	render3.VisitAll(h, result.Nodes)
	return h.result
}
