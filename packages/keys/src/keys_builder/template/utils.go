package template

import (
	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/render3"
)

// ParseTemplate parses the template of config. Comments are dropped and
// whitespace-only text is collapsed since neither can hold a key.
func ParseTemplate(config *TemplateExtractorConfig) *render3.ParsedTemplate {
	return render3.ParseTemplate(config.Content, config.TemplatePath, render3.ParseTemplateOptions{})
}

// GetChildNodesIfBlock returns the child nodes of a control flow block, with
// the children of its branches, cases and connected blocks concatenated in
// document order. It returns nil for any other node.
func GetChildNodesIfBlock(node render3.Node) []render3.Node {
	switch n := node.(type) {
	case *render3.IfBlock:
		var children []render3.Node
		for _, branch := range n.Branches {
			children = append(children, branch.Children...)
		}
		return children
	case *render3.IfBlockBranch:
		return n.Children
	case *render3.ForLoopBlock:
		if n.Empty == nil {
			return n.Children
		}
		return concatNodes(n.Children, n.Empty.Children)
	case *render3.ForLoopBlockEmpty:
		return n.Children
	case *render3.SwitchBlock:
		var children []render3.Node
		for _, c := range n.Cases {
			children = append(children, c.Children...)
		}
		return children
	case *render3.SwitchBlockCase:
		return n.Children
	case *render3.DeferredBlock:
		children := concatNodes(n.Children)
		if n.Placeholder != nil {
			children = append(children, n.Placeholder.Children...)
		}
		if n.Loading != nil {
			children = append(children, n.Loading.Children...)
		}
		if n.Error != nil {
			children = append(children, n.Error.Children...)
		}
		return children
	case *render3.DeferredBlockPlaceholder:
		return n.Children
	case *render3.DeferredBlockLoading:
		return n.Children
	case *render3.DeferredBlockError:
		return n.Children
	}
	return nil
}

// GetChildNodes returns the children of elements, templates and content
// projections.
func GetChildNodes(node render3.Node) []render3.Node {
	switch n := node.(type) {
	case *render3.Element:
		return n.Children
	case *render3.Template:
		return n.Children
	case *render3.Content:
		return n.Children
	}
	return nil
}

func concatNodes(lists ...[]render3.Node) []render3.Node {
	var nodes []render3.Node
	for _, list := range lists {
		nodes = append(nodes, list...)
	}
	return nodes
}

// IsSupportedNode reports whether node satisfies one of predicates
func IsSupportedNode(node render3.Node, predicates ...func(render3.Node) bool) bool {
	for _, predicate := range predicates {
		if predicate(node) {
			return true
		}
	}
	return false
}

// IsElement reports whether node is a plain element
func IsElement(node render3.Node) bool {
	_, ok := node.(*render3.Element)
	return ok
}

// IsTemplate reports whether node is a template fragment
func IsTemplate(node render3.Node) bool {
	_, ok := node.(*render3.Template)
	return ok
}

// IsBoundAttribute reports whether node is a bound attribute
func IsBoundAttribute(node render3.Node) bool {
	_, ok := node.(*render3.BoundAttribute)
	return ok
}

// IsTextAttribute reports whether node is a text attribute
func IsTextAttribute(node render3.Node) bool {
	_, ok := node.(*render3.TextAttribute)
	return ok
}

// IsBoundText reports whether node is text with interpolation
func IsBoundText(node render3.Node) bool {
	_, ok := node.(*render3.BoundText)
	return ok
}

// IsConditionalExpression reports whether ast is `cond ? a : b`
func IsConditionalExpression(ast expression_parser.AST) bool {
	_, ok := ast.(*expression_parser.Conditional)
	return ok
}

// IsLiteralExpression reports whether ast is a string literal
func IsLiteralExpression(ast expression_parser.AST) bool {
	lit, ok := ast.(*expression_parser.LiteralPrimitive)
	if !ok {
		return false
	}
	_, isString := lit.StringValue()
	return isString
}

// IsInterpolation reports whether ast is a `{{ }}` interpolation
func IsInterpolation(ast expression_parser.AST) bool {
	_, ok := ast.(*expression_parser.Interpolation)
	return ok
}

// IsBindingPipe reports whether ast is a pipe named name
func IsBindingPipe(ast expression_parser.AST, name string) bool {
	pipe, ok := ast.(*expression_parser.BindingPipe)
	return ok && pipe.Name == name
}
