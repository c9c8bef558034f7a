package render3

import (
	"regexp"
	"sort"
	"strings"

	"ngkeys-go/packages/keys/src/expression_parser"
	"ngkeys-go/packages/keys/src/ml_parser"
	"ngkeys-go/packages/keys/src/util"
)

// Pattern for the expression in a for loop block
var forLoopExpressionPattern = regexp.MustCompile(`^\s*([0-9A-Za-z_$]*)\s+of\s+([\S\s]*)`)

// Pattern for the tracking expression in a for loop block
var forLoopTrackPattern = regexp.MustCompile(`^track\s+([\S\s]*)`)

// Pattern for the `as` expression in a conditional block
var conditionalAliasPattern = regexp.MustCompile(`^(as\s+)(.*)`)

// Pattern used to identify an `else if` block
var elseIfPattern = regexp.MustCompile(`^else[^\S\r\n]+if`)

// Pattern used to identify a `let` parameter
var forLoopLetPattern = regexp.MustCompile(`^let\s+([\S\s]*)`)

// Pattern used to validate a JavaScript identifier
var identifierPattern = regexp.MustCompile(`^[$A-Za-z_][0-9A-Za-z_$]*$`)

// Names of variables that are allowed to be used in the `let` expression of a `for` loop
var allowedForLoopLetVariables = map[string]bool{
	"$index": true,
	"$first": true,
	"$last":  true,
	"$even":  true,
	"$odd":   true,
	"$count": true,
}

func allowedForLoopLetVariableNames() []string {
	names := make([]string, 0, len(allowedForLoopLetVariables))
	for name := range allowedForLoopLetVariables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsConnectedForLoopBlock determines if a block with a specific name can be connected to a `for` block
func IsConnectedForLoopBlock(name string) bool {
	return name == "empty"
}

// IsConnectedIfLoopBlock determines if a block with a specific name can be connected to an `if` block
func IsConnectedIfLoopBlock(name string) bool {
	return name == "else" || elseIfPattern.MatchString(name)
}

// CreateIfBlock creates an `if` block from the `@if` block and its connected
// `@else if` and `@else` blocks. A branch whose condition cannot be parsed is
// kept with an empty expression so its content stays reachable.
func CreateIfBlock(ast *ml_parser.Block, connectedBlocks []*ml_parser.Block, transformer *HtmlAstToIvyAst) (*IfBlock, []*util.ParseError) {
	errors := validateIfConnectedBlocks(connectedBlocks)
	var branches []*IfBlockBranch

	params := parseConditionalBlockParameters(ast, &errors, transformer.bindingParser)
	branches = append(branches, NewIfBlockBranch(
		params.Expression,
		transformer.visitChildren(ast.Children),
		params.ExpressionAlias,
		ast.SourceSpan(),
		ast.StartSourceSpan,
		ast.EndSourceSpan,
		ast.NameSpan,
	))

	for _, block := range connectedBlocks {
		var expression expression_parser.AST
		var alias *Variable
		if elseIfPattern.MatchString(block.Name) {
			params := parseConditionalBlockParameters(block, &errors, transformer.bindingParser)
			expression, alias = params.Expression, params.ExpressionAlias
		}
		branches = append(branches, NewIfBlockBranch(
			expression,
			transformer.visitChildren(block.Children),
			alias,
			block.SourceSpan(),
			block.StartSourceSpan,
			block.EndSourceSpan,
			block.NameSpan,
		))
	}

	lastBranch := branches[len(branches)-1]
	wholeSourceSpan := util.NewParseSourceSpan(ast.SourceSpan().Start, lastBranch.SourceSpan().End)
	return NewIfBlock(branches, wholeSourceSpan, ast.StartSourceSpan, lastBranch.EndSourceSpan, ast.NameSpan), errors
}

// CreateForLoop creates a `for` block from the `@for` block and its
// connected `@empty` block. A loop with invalid parameters is still created
// so that its content is not lost.
func CreateForLoop(ast *ml_parser.Block, connectedBlocks []*ml_parser.Block, transformer *HtmlAstToIvyAst) (*ForLoopBlock, []*util.ParseError) {
	var errors []*util.ParseError
	params := parseForLoopParameters(ast, &errors, transformer.bindingParser)
	var empty *ForLoopBlockEmpty

	for _, block := range connectedBlocks {
		if block.Name != "empty" {
			errors = append(errors, util.NewParseError(block.SourceSpan(), `Unrecognized @for loop block "`+block.Name+`"`))
			continue
		}
		if empty != nil {
			errors = append(errors, util.NewParseError(block.SourceSpan(), "@for loop can only have one @empty block"))
			continue
		}
		if len(block.Parameters) > 0 {
			errors = append(errors, util.NewParseError(block.SourceSpan(), "@empty block cannot have parameters"))
		}
		empty = NewForLoopBlockEmpty(
			transformer.visitChildren(block.Children),
			block.SourceSpan(),
			block.StartSourceSpan,
			block.EndSourceSpan,
			block.NameSpan,
		)
	}

	if params.TrackBy == nil {
		errors = append(errors, util.NewParseError(ast.StartSourceSpan, `@for loop must have a "track" expression`))
	}

	endSpan := ast.EndSourceSpan
	end := ast.SourceSpan().End
	if empty != nil {
		endSpan = empty.EndSourceSpan
		end = empty.SourceSpan().End
	}
	sourceSpan := util.NewParseSourceSpan(ast.SourceSpan().Start, end)
	node := NewForLoopBlock(
		params.ItemName,
		params.Expression,
		params.TrackBy,
		params.Context,
		transformer.visitChildren(ast.Children),
		empty,
		sourceSpan,
		ast.SourceSpan(),
		ast.StartSourceSpan,
		endSpan,
		ast.NameSpan,
	)
	return node, errors
}

// CreateSwitchBlock creates a switch block from an HTML AST node. The
// `@default` case is moved last.
func CreateSwitchBlock(ast *ml_parser.Block, transformer *HtmlAstToIvyAst) (*SwitchBlock, []*util.ParseError) {
	errors := validateSwitchBlock(ast)
	var primaryExpression expression_parser.AST
	if len(ast.Parameters) > 0 {
		primaryExpression = parseBlockParameterToBinding(ast.Parameters[0], transformer.bindingParser, "").AST
	} else {
		primaryExpression = transformer.bindingParser.ParseBinding("", ast.SourceSpan(), 0).AST
	}

	var cases []*SwitchBlockCase
	var unknownBlocks []*UnknownBlock
	var defaultCase *SwitchBlockCase

	for _, node := range ast.Children {
		block, ok := node.(*ml_parser.Block)
		if !ok {
			continue
		}
		if (block.Name != "case" || len(block.Parameters) == 0) && block.Name != "default" {
			unknownBlocks = append(unknownBlocks, NewUnknownBlock(block.Name, block.SourceSpan(), block.NameSpan))
			continue
		}

		var expr expression_parser.AST
		if block.Name == "case" {
			expr = parseBlockParameterToBinding(block.Parameters[0], transformer.bindingParser, "").AST
		}
		astCase := NewSwitchBlockCase(
			expr,
			transformer.visitChildren(block.Children),
			block.SourceSpan(),
			block.StartSourceSpan,
			block.EndSourceSpan,
			block.NameSpan,
		)
		if expr == nil {
			if defaultCase == nil {
				defaultCase = astCase
			}
		} else {
			cases = append(cases, astCase)
		}
	}

	if defaultCase != nil {
		cases = append(cases, defaultCase)
	}

	return NewSwitchBlock(primaryExpression, cases, unknownBlocks, ast.SourceSpan(), ast.StartSourceSpan, ast.EndSourceSpan, ast.NameSpan), errors
}

// ForLoopParameters represents parsed parameters for a for loop
type ForLoopParameters struct {
	ItemName   *Variable
	TrackBy    *expression_parser.ASTWithSource
	Expression *expression_parser.ASTWithSource
	Context    []*Variable
}

// ConditionalBlockParameters represents parsed parameters for a conditional block
type ConditionalBlockParameters struct {
	Expression      expression_parser.AST
	ExpressionAlias *Variable
}

func parseForLoopParameters(block *ml_parser.Block, errors *[]*util.ParseError, bindingParser *BindingParser) *ForLoopParameters {
	result := &ForLoopParameters{}

	emptySpan := util.NewParseSourceSpan(block.StartSourceSpan.End, block.StartSourceSpan.End)
	for _, name := range allowedForLoopLetVariableNames() {
		result.Context = append(result.Context, NewVariable(name, name, emptySpan, emptySpan, nil))
	}

	if len(block.Parameters) == 0 {
		*errors = append(*errors, util.NewParseError(block.StartSourceSpan, "@for loop does not have an expression"))
		return result
	}

	expressionParam := block.Parameters[0]
	expression, ok := stripOptionalParentheses(expressionParam, errors)
	match := forLoopExpressionPattern.FindStringSubmatch(expression)
	if !ok || match == nil || strings.TrimSpace(match[2]) == "" {
		if ok {
			*errors = append(*errors, util.NewParseError(expressionParam.SourceSpan(),
				"Cannot parse expression. @for loop expression must match the pattern \"<identifier> of <expression>\""))
		}
	} else {
		itemName, rawExpression := match[1], match[2]
		if allowedForLoopLetVariables[itemName] {
			*errors = append(*errors, util.NewParseError(expressionParam.SourceSpan(),
				"@for loop item name cannot be one of "+strings.Join(allowedForLoopLetVariableNames(), ", ")+"."))
		}
		start := expressionParam.SourceSpan().Start
		variableSpan := util.NewParseSourceSpan(start, start.MoveBy(len(strings.Fields(expressionParam.Expression)[0])))
		result.ItemName = NewVariable(itemName, "$implicit", variableSpan, variableSpan, nil)
		result.Expression = parseBlockParameterToBinding(expressionParam, bindingParser, rawExpression)
	}

	for _, param := range block.Parameters[1:] {
		if letMatch := forLoopLetPattern.FindStringSubmatch(param.Expression); letMatch != nil {
			itemName := ""
			if result.ItemName != nil {
				itemName = result.ItemName.Name
			}
			parseLetParameter(param, letMatch[1], itemName, &result.Context, errors)
			continue
		}

		if trackMatch := forLoopTrackPattern.FindStringSubmatch(param.Expression); trackMatch != nil {
			if result.TrackBy != nil {
				*errors = append(*errors, util.NewParseError(param.SourceSpan(), `@for loop can only have one "track" expression`))
				continue
			}
			expr := parseBlockParameterToBinding(param, bindingParser, trackMatch[1])
			if _, empty := expr.AST.(*expression_parser.EmptyExpr); !empty {
				result.TrackBy = expr
			}
			continue
		}

		*errors = append(*errors, util.NewParseError(param.SourceSpan(), `Unrecognized @for loop parameter "`+param.Expression+`"`))
	}

	return result
}

// parseLetParameter parses `let name = $index, other = $odd` into context
// variables.
func parseLetParameter(param *ml_parser.BlockParameter, expression, loopItemName string, context *[]*Variable, errors *[]*util.ParseError) {
	for _, part := range strings.Split(expression, ",") {
		expressionParts := strings.Split(part, "=")
		var name, variableName string
		if len(expressionParts) == 2 {
			name = strings.TrimSpace(expressionParts[0])
			variableName = strings.TrimSpace(expressionParts[1])
		}

		switch {
		case name == "" || variableName == "":
			*errors = append(*errors, util.NewParseError(param.SourceSpan(),
				`Invalid @for loop "let" parameter. Parameter should match the pattern "<name> = <variable name>"`))
		case !allowedForLoopLetVariables[variableName]:
			*errors = append(*errors, util.NewParseError(param.SourceSpan(),
				`Unknown "let" parameter variable "`+variableName+`". The allowed variables are: `+strings.Join(allowedForLoopLetVariableNames(), ", ")))
		case name == loopItemName:
			*errors = append(*errors, util.NewParseError(param.SourceSpan(),
				`Invalid @for loop "let" parameter. Variable cannot be called "`+loopItemName+`"`))
		case hasVariable(*context, name):
			*errors = append(*errors, util.NewParseError(param.SourceSpan(), `Duplicate "let" parameter variable "`+variableName+`"`))
		default:
			*context = append(*context, NewVariable(name, variableName, param.SourceSpan(), param.SourceSpan(), nil))
		}
	}
}

func hasVariable(variables []*Variable, name string) bool {
	for _, v := range variables {
		if v.Name == name {
			return true
		}
	}
	return false
}

// validateIfConnectedBlocks checks that the shape of the blocks connected to an `@if` block is correct
func validateIfConnectedBlocks(connectedBlocks []*ml_parser.Block) []*util.ParseError {
	var errors []*util.ParseError
	hasElse := false

	for i, block := range connectedBlocks {
		if block.Name == "else" {
			if hasElse {
				errors = append(errors, util.NewParseError(block.StartSourceSpan, "Conditional can only have one @else block"))
			} else if i < len(connectedBlocks)-1 {
				errors = append(errors, util.NewParseError(block.StartSourceSpan, "@else block must be last inside the conditional"))
			} else if len(block.Parameters) > 0 {
				errors = append(errors, util.NewParseError(block.StartSourceSpan, "@else block cannot have parameters"))
			}
			hasElse = true
		} else if !elseIfPattern.MatchString(block.Name) {
			errors = append(errors, util.NewParseError(block.StartSourceSpan, "Unrecognized conditional block @"+block.Name))
		}
	}
	return errors
}

// validateSwitchBlock checks that a `@switch` only holds `@case` and `@default` blocks
func validateSwitchBlock(ast *ml_parser.Block) []*util.ParseError {
	var errors []*util.ParseError
	hasDefault := false

	if len(ast.Parameters) != 1 {
		errors = append(errors, util.NewParseError(ast.StartSourceSpan, "@switch block must have exactly one parameter"))
		return errors
	}

	for _, node := range ast.Children {
		switch n := node.(type) {
		case *ml_parser.Comment:
			continue
		case *ml_parser.Text:
			if strings.TrimSpace(n.Value) == "" {
				continue
			}
			errors = append(errors, util.NewParseError(n.SourceSpan(), "@switch block can only contain @case and @default blocks"))
		case *ml_parser.Block:
			if n.Name == "default" {
				if hasDefault {
					errors = append(errors, util.NewParseError(n.StartSourceSpan, "@switch block can only have one @default block"))
				} else if len(n.Parameters) > 0 {
					errors = append(errors, util.NewParseError(n.StartSourceSpan, "@default block cannot have parameters"))
				}
				hasDefault = true
			} else if n.Name == "case" && len(n.Parameters) != 1 {
				errors = append(errors, util.NewParseError(n.StartSourceSpan, "@case block must have exactly one parameter"))
			} else if n.Name != "case" {
				errors = append(errors, util.NewParseError(n.SourceSpan(), "@switch block can only contain @case and @default blocks"))
			}
		default:
			errors = append(errors, util.NewParseError(node.SourceSpan(), "@switch block can only contain @case and @default blocks"))
		}
	}
	return errors
}

// parseBlockParameterToBinding parses a block parameter, or the part of it
// given in part, as a binding.
func parseBlockParameterToBinding(ast *ml_parser.BlockParameter, bindingParser *BindingParser, part string) *expression_parser.ASTWithSource {
	start, end := 0, len(ast.Expression)
	if part != "" {
		if start = strings.LastIndex(ast.Expression, part); start < 0 {
			start = 0
		}
		end = start + len(part)
	}
	return bindingParser.ParseBinding(ast.Expression[start:end], ast.SourceSpan(), ast.SourceSpan().Start.Offset+start)
}

// parseConditionalBlockParameters parses the parameters of `@if` and `@else if`
func parseConditionalBlockParameters(block *ml_parser.Block, errors *[]*util.ParseError, bindingParser *BindingParser) *ConditionalBlockParameters {
	if len(block.Parameters) == 0 {
		*errors = append(*errors, util.NewParseError(block.StartSourceSpan, "Conditional block does not have an expression"))
		return &ConditionalBlockParameters{Expression: bindingParser.ParseBinding("", block.StartSourceSpan, 0).AST}
	}

	result := &ConditionalBlockParameters{
		Expression: parseBlockParameterToBinding(block.Parameters[0], bindingParser, "").AST,
	}
	for _, param := range block.Parameters[1:] {
		aliasMatch := conditionalAliasPattern.FindStringSubmatch(param.Expression)
		switch {
		case aliasMatch == nil:
			*errors = append(*errors, util.NewParseError(param.SourceSpan(), `Unrecognized conditional parameter "`+param.Expression+`"`))
		case result.ExpressionAlias != nil:
			*errors = append(*errors, util.NewParseError(param.SourceSpan(), `Conditional can only have one "as" expression`))
		default:
			name := strings.TrimSpace(aliasMatch[2])
			if !identifierPattern.MatchString(name) {
				*errors = append(*errors, util.NewParseError(param.SourceSpan(), `"as" expression must be a valid JavaScript identifier`))
				continue
			}
			variableStart := param.SourceSpan().Start.MoveBy(len(aliasMatch[1]))
			variableSpan := util.NewParseSourceSpan(variableStart, variableStart.MoveBy(len(name)))
			result.ExpressionAlias = NewVariable(name, name, variableSpan, variableSpan, nil)
		}
	}
	return result
}

// stripOptionalParentheses strips the parentheses around a control flow
// expression, as in `@for ((item of items); track item)`.
func stripOptionalParentheses(param *ml_parser.BlockParameter, errors *[]*util.ParseError) (string, bool) {
	expression := param.Expression
	openParens := 0
	start := 0
	end := len(expression)

	for i := 0; i < len(expression); i++ {
		if expression[i] == '(' {
			start = i + 1
			openParens++
		} else if expression[i] != ' ' && expression[i] != '\t' && expression[i] != '\n' {
			break
		}
	}
	if openParens == 0 {
		return expression, true
	}

	for i := len(expression) - 1; i >= 0; i-- {
		if expression[i] == ')' {
			end = i
			openParens--
			if openParens == 0 {
				break
			}
		} else if expression[i] != ' ' && expression[i] != '\t' && expression[i] != '\n' {
			break
		}
	}
	if openParens != 0 {
		*errors = append(*errors, util.NewParseError(param.SourceSpan(), "Unclosed parentheses in expression"))
		return "", false
	}
	return expression[start:end], true
}
