package ml_parser_test

import (
	"testing"

	"ngkeys-go/packages/keys/src/ml_parser"
)

func humanizeDom(t *testing.T, parseResult *ml_parser.ParseTreeResult) []interface{} {
	t.Helper()
	if len(parseResult.Errors) > 0 {
		t.Fatalf("Unexpected parse errors: %v", parseResult.Errors)
	}
	h := &humanizer{Result: []interface{}{}}
	ml_parser.VisitAll(h, parseResult.RootNodes, nil)
	return h.Result
}

type humanizer struct {
	Result  []interface{}
	elDepth int
}

func (h *humanizer) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	res := []interface{}{"Element", element.Name, h.elDepth}
	if element.IsSelfClosing {
		res = append(res, "#selfClosing")
	}
	h.Result = append(h.Result, res)
	h.elDepth++
	for _, attr := range element.Attrs {
		attr.Visit(h, context)
	}
	ml_parser.VisitAll(h, element.Children, context)
	h.elDepth--
	return nil
}

func (h *humanizer) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	h.Result = append(h.Result, []interface{}{"Attribute", attribute.Name, attribute.Value})
	return nil
}

func (h *humanizer) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	h.Result = append(h.Result, []interface{}{"Text", text.Value, h.elDepth})
	return nil
}

func (h *humanizer) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	h.Result = append(h.Result, []interface{}{"Comment", comment.Value, h.elDepth})
	return nil
}

func (h *humanizer) VisitBlock(block *ml_parser.Block, context interface{}) interface{} {
	h.Result = append(h.Result, []interface{}{"Block", block.Name, h.elDepth})
	h.elDepth++
	for _, param := range block.Parameters {
		param.Visit(h, context)
	}
	ml_parser.VisitAll(h, block.Children, context)
	h.elDepth--
	return nil
}

func (h *humanizer) VisitBlockParameter(parameter *ml_parser.BlockParameter, context interface{}) interface{} {
	h.Result = append(h.Result, []interface{}{"BlockParameter", parameter.Expression})
	return nil
}

func (h *humanizer) VisitLetDeclaration(decl *ml_parser.LetDeclaration, context interface{}) interface{} {
	h.Result = append(h.Result, []interface{}{"LetDeclaration", decl.Name, decl.Value})
	return nil
}
