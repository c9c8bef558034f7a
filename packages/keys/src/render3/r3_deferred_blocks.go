package render3

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ngkeys-go/packages/keys/src/ml_parser"
	"ngkeys-go/packages/keys/src/util"
)

// Pattern to identify a `prefetch when` trigger
var prefetchWhenPattern = regexp.MustCompile(`^prefetch\s+when\s`)

// Pattern to identify a `prefetch on` trigger
var prefetchOnPattern = regexp.MustCompile(`^prefetch\s+on\s`)

// Pattern to identify a `hydrate when` trigger
var hydrateWhenPattern = regexp.MustCompile(`^hydrate\s+when\s`)

// Pattern to identify a `hydrate on` trigger
var hydrateOnPattern = regexp.MustCompile(`^hydrate\s+on\s`)

// Pattern to identify a `hydrate never` trigger
var hydrateNeverPattern = regexp.MustCompile(`^hydrate\s+never(\s*)$`)

// Pattern to identify a `minimum` parameter in a block
var minimumParameterPattern = regexp.MustCompile(`^minimum\s`)

// Pattern to identify an `after` parameter in a block
var afterParameterPattern = regexp.MustCompile(`^after\s`)

// Pattern to identify a `when` parameter in a block
var whenParameterPattern = regexp.MustCompile(`^when\s`)

// Pattern to identify an `on` parameter in a block
var onParameterPattern = regexp.MustCompile(`^on\s`)

// Pattern for a single `on` trigger, such as `timer(500ms)`
var onTriggerPattern = regexp.MustCompile(`^([a-zA-Z]+)\s*(?:\(([^)]*)\))?$`)

// Pattern for a deferred time value in milliseconds or seconds
var timePattern = regexp.MustCompile(`^\d+\.?\d*(ms|s)?$`)

var onTriggerNames = map[string]bool{
	"idle":        true,
	"immediate":   true,
	"timer":       true,
	"hover":       true,
	"interaction": true,
	"viewport":    true,
}

// IsConnectedDeferLoopBlock determines if a block with a specific name can be connected to a `defer` block
func IsConnectedDeferLoopBlock(name string) bool {
	return name == "placeholder" || name == "loading" || name == "error"
}

// CreateDeferredBlock creates a deferred block from the `@defer` block and
// its connected `@placeholder`, `@loading` and `@error` blocks.
func CreateDeferredBlock(ast *ml_parser.Block, connectedBlocks []*ml_parser.Block, transformer *HtmlAstToIvyAst) (*DeferredBlock, []*util.ParseError) {
	var errors []*util.ParseError
	placeholder, loading, errorBlock := parseConnectedBlocks(connectedBlocks, &errors, transformer)
	triggers := parsePrimaryTriggers(ast, transformer.bindingParser, &errors)

	// the main span covers the connected branches as well
	lastEndSourceSpan := ast.EndSourceSpan
	endOfLastSourceSpan := ast.SourceSpan().End
	if len(connectedBlocks) > 0 {
		lastConnectedBlock := connectedBlocks[len(connectedBlocks)-1]
		lastEndSourceSpan = lastConnectedBlock.EndSourceSpan
		endOfLastSourceSpan = lastConnectedBlock.SourceSpan().End
	}
	sourceSpanWithConnectedBlocks := util.NewParseSourceSpan(ast.SourceSpan().Start, endOfLastSourceSpan)

	node := NewDeferredBlock(
		transformer.visitChildren(ast.Children),
		triggers,
		placeholder,
		loading,
		errorBlock,
		ast.NameSpan,
		sourceSpanWithConnectedBlocks,
		ast.SourceSpan(),
		ast.StartSourceSpan,
		lastEndSourceSpan,
	)
	return node, errors
}

func parseConnectedBlocks(connectedBlocks []*ml_parser.Block, errors *[]*util.ParseError, transformer *HtmlAstToIvyAst) (*DeferredBlockPlaceholder, *DeferredBlockLoading, *DeferredBlockError) {
	var placeholder *DeferredBlockPlaceholder
	var loading *DeferredBlockLoading
	var errorBlock *DeferredBlockError

	for _, block := range connectedBlocks {
		var err error
		switch block.Name {
		case "placeholder":
			if placeholder != nil {
				err = fmt.Errorf("@defer block can only have one @placeholder block")
				break
			}
			placeholder, err = parsePlaceholderBlock(block, transformer)
		case "loading":
			if loading != nil {
				err = fmt.Errorf("@defer block can only have one @loading block")
				break
			}
			loading, err = parseLoadingBlock(block, transformer)
		case "error":
			if errorBlock != nil {
				err = fmt.Errorf("@defer block can only have one @error block")
				break
			}
			errorBlock, err = parseErrorBlock(block, transformer)
		default:
			err = fmt.Errorf(`Unrecognized block "@%s"`, block.Name)
		}
		if err != nil {
			*errors = append(*errors, util.NewParseError(block.StartSourceSpan, err.Error()))
		}
	}
	return placeholder, loading, errorBlock
}

// parsePlaceholderBlock builds the placeholder even when a parameter is
// invalid so its content is kept.
func parsePlaceholderBlock(ast *ml_parser.Block, transformer *HtmlAstToIvyAst) (*DeferredBlockPlaceholder, error) {
	var minimumTime *int
	var firstErr error

	for _, param := range ast.Parameters {
		var err error
		switch {
		case minimumParameterPattern.MatchString(param.Expression):
			if minimumTime != nil {
				err = fmt.Errorf(`@placeholder block can only have one "minimum" parameter`)
			} else if minimumTime, err = parseTimeParameter(param.Expression, "minimum"); err != nil {
				minimumTime = nil
			}
		default:
			err = fmt.Errorf(`Unrecognized parameter in @placeholder block: "%s"`, param.Expression)
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	placeholder := NewDeferredBlockPlaceholder(
		transformer.visitChildren(ast.Children),
		minimumTime,
		ast.NameSpan,
		ast.SourceSpan(),
		ast.StartSourceSpan,
		ast.EndSourceSpan,
	)
	return placeholder, firstErr
}

func parseLoadingBlock(ast *ml_parser.Block, transformer *HtmlAstToIvyAst) (*DeferredBlockLoading, error) {
	var afterTime, minimumTime *int
	var firstErr error

	for _, param := range ast.Parameters {
		var err error
		switch {
		case afterParameterPattern.MatchString(param.Expression):
			if afterTime != nil {
				err = fmt.Errorf(`@loading block can only have one "after" parameter`)
			} else if afterTime, err = parseTimeParameter(param.Expression, "after"); err != nil {
				afterTime = nil
			}
		case minimumParameterPattern.MatchString(param.Expression):
			if minimumTime != nil {
				err = fmt.Errorf(`@loading block can only have one "minimum" parameter`)
			} else if minimumTime, err = parseTimeParameter(param.Expression, "minimum"); err != nil {
				minimumTime = nil
			}
		default:
			err = fmt.Errorf(`Unrecognized parameter in @loading block: "%s"`, param.Expression)
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	loading := NewDeferredBlockLoading(
		transformer.visitChildren(ast.Children),
		afterTime,
		minimumTime,
		ast.NameSpan,
		ast.SourceSpan(),
		ast.StartSourceSpan,
		ast.EndSourceSpan,
	)
	return loading, firstErr
}

func parseErrorBlock(ast *ml_parser.Block, transformer *HtmlAstToIvyAst) (*DeferredBlockError, error) {
	var err error
	if len(ast.Parameters) > 0 {
		err = fmt.Errorf("@error block cannot have parameters")
	}
	errorBlock := NewDeferredBlockError(
		transformer.visitChildren(ast.Children),
		ast.NameSpan,
		ast.SourceSpan(),
		ast.StartSourceSpan,
		ast.EndSourceSpan,
	)
	return errorBlock, err
}

func parseTimeParameter(expression, name string) (*int, error) {
	keywordEnd := strings.IndexAny(expression, " \t\n\r")
	parsed := ParseDeferredTime(expression[keywordEnd+1:])
	if parsed == nil {
		return nil, fmt.Errorf(`Could not parse time value of parameter "%s"`, name)
	}
	return parsed, nil
}

// ParseDeferredTime parses a time value such as `500ms` or `1.5s` into
// milliseconds. It returns nil when the value is not a valid time.
func ParseDeferredTime(value string) *int {
	value = strings.TrimSpace(value)
	match := timePattern.FindStringSubmatch(value)
	if match == nil {
		return nil
	}
	units := match[1]
	number, err := strconv.ParseFloat(strings.TrimSuffix(value, units), 64)
	if err != nil {
		return nil
	}
	if units == "s" {
		number *= 1000
	}
	ms := int(number)
	return &ms
}

func parsePrimaryTriggers(ast *ml_parser.Block, bindingParser *BindingParser, errors *[]*util.ParseError) DeferredBlockTriggers {
	var triggers DeferredBlockTriggers
	var hydrateNever bool

	for _, param := range ast.Parameters {
		// the lexer drops leading spaces so the expression starts with a keyword
		switch {
		case whenParameterPattern.MatchString(param.Expression):
			triggers.Triggers = append(triggers.Triggers, parseWhenTrigger(param, bindingParser, whenParameterPattern))
		case onParameterPattern.MatchString(param.Expression):
			triggers.Triggers = append(triggers.Triggers, parseOnTrigger(param, onParameterPattern, errors)...)
		case prefetchWhenPattern.MatchString(param.Expression):
			triggers.PrefetchTriggers = append(triggers.PrefetchTriggers, parseWhenTrigger(param, bindingParser, prefetchWhenPattern))
		case prefetchOnPattern.MatchString(param.Expression):
			triggers.PrefetchTriggers = append(triggers.PrefetchTriggers, parseOnTrigger(param, prefetchOnPattern, errors)...)
		case hydrateWhenPattern.MatchString(param.Expression):
			triggers.HydrateTriggers = append(triggers.HydrateTriggers, parseWhenTrigger(param, bindingParser, hydrateWhenPattern))
		case hydrateOnPattern.MatchString(param.Expression):
			triggers.HydrateTriggers = append(triggers.HydrateTriggers, parseOnTrigger(param, hydrateOnPattern, errors)...)
		case hydrateNeverPattern.MatchString(param.Expression):
			hydrateNever = true
			triggers.HydrateTriggers = append(triggers.HydrateTriggers, NewDeferredTrigger("never", nil, nil, param.SourceSpan()))
		default:
			*errors = append(*errors, util.NewParseError(param.SourceSpan(), "Unrecognized trigger"))
		}
	}

	if hydrateNever && len(triggers.HydrateTriggers) > 1 {
		*errors = append(*errors, util.NewParseError(ast.StartSourceSpan,
			"Cannot specify additional `hydrate` triggers if `hydrate never` is present"))
	}
	return triggers
}

func parseWhenTrigger(param *ml_parser.BlockParameter, bindingParser *BindingParser, prefix *regexp.Regexp) *DeferredTrigger {
	start := len(prefix.FindString(param.Expression))
	value := bindingParser.ParseBinding(param.Expression[start:], param.SourceSpan(), param.SourceSpan().Start.Offset+start)
	return NewDeferredTrigger("when", value, nil, param.SourceSpan())
}

// parseOnTrigger parses `on idle, timer(500ms), viewport(ref)`
func parseOnTrigger(param *ml_parser.BlockParameter, prefix *regexp.Regexp, errors *[]*util.ParseError) []*DeferredTrigger {
	var triggers []*DeferredTrigger
	body := param.Expression[len(prefix.FindString(param.Expression)):]

	for _, part := range splitTopLevel(body, ',') {
		part = strings.TrimSpace(part)
		match := onTriggerPattern.FindStringSubmatch(part)
		if match == nil || !onTriggerNames[match[1]] {
			*errors = append(*errors, util.NewParseError(param.SourceSpan(), `Unrecognized trigger type "`+part+`"`))
			continue
		}
		var parameters []string
		for _, p := range strings.Split(match[2], ",") {
			if p = strings.TrimSpace(p); p != "" {
				parameters = append(parameters, p)
			}
		}
		if match[1] == "timer" {
			if len(parameters) != 1 || ParseDeferredTime(parameters[0]) == nil {
				*errors = append(*errors, util.NewParseError(param.SourceSpan(), `"timer" trigger must have exactly one valid time parameter`))
				continue
			}
		}
		triggers = append(triggers, NewDeferredTrigger(match[1], nil, parameters, param.SourceSpan()))
	}
	return triggers
}

// splitTopLevel splits s on sep outside of parentheses
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
