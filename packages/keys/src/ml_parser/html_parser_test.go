package ml_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngkeys-go/packages/keys/src/ml_parser"
)

func parse(source string) *ml_parser.ParseTreeResult {
	return ml_parser.NewHtmlParser().Parse(source, "TestComp", nil)
}

func expectDom(source string, expected []interface{}) func(*testing.T) {
	return func(t *testing.T) {
		if diff := cmp.Diff(expected, humanizeDom(t, parse(source))); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	}
}

func expectError(source, message string) func(*testing.T) {
	return func(t *testing.T) {
		for _, err := range parse(source).Errors {
			if strings.Contains(err.Msg, message) {
				return
			}
		}
		t.Errorf("expected an error containing %q, got %v", message, parse(source).Errors)
	}
}

func TestHtmlParser(t *testing.T) {
	t.Run("text nodes", func(t *testing.T) {
		t.Run("should parse root level text nodes", expectDom("a", []interface{}{
			[]interface{}{"Text", "a", 0},
		}))
		t.Run("should parse text nodes inside regular elements", expectDom("<div>a</div>", []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Text", "a", 1},
		}))
		t.Run("should decode HTML entities", expectDom("<p>&lt;a&gt; &amp; &#64;</p>", []interface{}{
			[]interface{}{"Element", "p", 0},
			[]interface{}{"Text", "<a> & @", 1},
		}))
		t.Run("should keep interpolations in one text node", expectDom("{{ a < b }} {{ '}' }} {{ '@x' }}", []interface{}{
			[]interface{}{"Text", "{{ a < b }} {{ '}' }} {{ '@x' }}", 0},
		}))
		t.Run("should parse CDATA", expectDom("<![CDATA[text]]>", []interface{}{
			[]interface{}{"Text", "text", 0},
		}))
	})

	t.Run("elements", func(t *testing.T) {
		t.Run("should parse nested elements", expectDom("<div><span></span></div>", []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Element", "span", 1},
		}))
		t.Run("should support void elements", expectDom("<div><br><input></div>", []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Element", "br", 1},
			[]interface{}{"Element", "input", 1},
		}))
		t.Run("should support self closing elements", expectDom("<my-cmp/><b>x</b>", []interface{}{
			[]interface{}{"Element", "my-cmp", 0, "#selfClosing"},
			[]interface{}{"Element", "b", 0},
			[]interface{}{"Text", "x", 1},
		}))
		t.Run("should support optional end tags", expectDom("<ul><li>1<li>2</ul>", []interface{}{
			[]interface{}{"Element", "ul", 0},
			[]interface{}{"Element", "li", 1},
			[]interface{}{"Text", "1", 2},
			[]interface{}{"Element", "li", 1},
			[]interface{}{"Text", "2", 2},
		}))
		t.Run("should not parse markup inside script", expectDom("<script>if (a<b) {}</script>", []interface{}{
			[]interface{}{"Element", "script", 0},
			[]interface{}{"Text", "if (a<b) {}", 1},
		}))
		t.Run("should report unexpected closing tags", expectError("<div></span></div>", "Unexpected closing tag \"span\""))
		t.Run("should report end tags on void elements", expectError("<br></br>", "Void elements do not have end tags \"br\""))
	})

	t.Run("attributes", func(t *testing.T) {
		t.Run("should parse quoted and unquoted values", expectDom(`<div a="1" b='2' c=3 d></div>`, []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Attribute", "a", "1"},
			[]interface{}{"Attribute", "b", "2"},
			[]interface{}{"Attribute", "c", "3"},
			[]interface{}{"Attribute", "d", ""},
		}))
		t.Run("should parse binding syntax", expectDom(`<ng-template *ngIf="a" [x]="'k' | t" (click)="go()" #ref></ng-template>`, []interface{}{
			[]interface{}{"Element", "ng-template", 0},
			[]interface{}{"Attribute", "*ngIf", "a"},
			[]interface{}{"Attribute", "[x]", "'k' | t"},
			[]interface{}{"Attribute", "(click)", "go()"},
			[]interface{}{"Attribute", "#ref", ""},
		}))
		t.Run("should keep braces and at signs in values", expectDom(`<div title="{{ a }} @b }"></div>`, []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Attribute", "title", "{{ a }} @b }"},
		}))
		t.Run("should decode entities in values", expectDom(`<div title="a &amp; b"></div>`, []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Attribute", "title", "a & b"},
		}))
		t.Run("should expose the value span", func(t *testing.T) {
			result := parse(`<div translate-marker="a.b"></div>`)
			attr := result.RootNodes[0].(*ml_parser.Element).Attrs[0]
			if got := attr.ValueSpan.String(); got != "a.b" {
				t.Errorf("ValueSpan = %q", got)
			}
			if got := attr.ValueSpan.Start.Offset; got != 23 {
				t.Errorf("ValueSpan offset = %d, want 23", got)
			}
		})
	})

	t.Run("comments", func(t *testing.T) {
		t.Run("should parse comments", expectDom("<!-- note --><p></p>", []interface{}{
			[]interface{}{"Comment", "note", 0},
			[]interface{}{"Element", "p", 0},
		}))
	})

	t.Run("blocks", func(t *testing.T) {
		t.Run("should parse a block with parameters", expectDom("@if (a; as b) {<span>x</span>}", []interface{}{
			[]interface{}{"Block", "if", 0},
			[]interface{}{"BlockParameter", "a"},
			[]interface{}{"BlockParameter", "as b"},
			[]interface{}{"Element", "span", 1},
			[]interface{}{"Text", "x", 2},
		}))
		t.Run("should parse connected blocks", expectDom("@if (a) {1} @else if (b) {2} @else {3}", []interface{}{
			[]interface{}{"Block", "if", 0},
			[]interface{}{"BlockParameter", "a"},
			[]interface{}{"Text", "1", 1},
			[]interface{}{"Text", " ", 0},
			[]interface{}{"Block", "else if", 0},
			[]interface{}{"BlockParameter", "b"},
			[]interface{}{"Text", "2", 1},
			[]interface{}{"Text", " ", 0},
			[]interface{}{"Block", "else", 0},
			[]interface{}{"Text", "3", 1},
		}))
		t.Run("should parse nested blocks", expectDom("@switch (a) { @case ('x') {<b></b>} }", []interface{}{
			[]interface{}{"Block", "switch", 0},
			[]interface{}{"BlockParameter", "a"},
			[]interface{}{"Text", " ", 1},
			[]interface{}{"Block", "case", 1},
			[]interface{}{"BlockParameter", "'x'"},
			[]interface{}{"Element", "b", 2},
			[]interface{}{"Text", " ", 1},
		}))
		t.Run("should keep semicolons inside quoted parameters", expectDom(`@for (item of items; track fn('a;b')) {}`, []interface{}{
			[]interface{}{"Block", "for", 0},
			[]interface{}{"BlockParameter", "item of items"},
			[]interface{}{"BlockParameter", "track fn('a;b')"},
		}))
		t.Run("should parse let declarations", expectDom("@let greeting = 'hi; there';", []interface{}{
			[]interface{}{"LetDeclaration", "greeting", "'hi; there'"},
		}))
		t.Run("should report unclosed blocks", expectError("@if (a) {", "Unclosed block \"if\""))
		t.Run("should report incomplete blocks", expectError("mail@example", "Incomplete block \"example\""))
		t.Run("should report stray closing braces", expectError("a } b", "Unexpected closing block"))
		t.Run("should not close a block across an open element", expectError("@if (a) {<div>}", "Unexpected closing block"))
	})
}
