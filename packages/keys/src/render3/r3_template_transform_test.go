package render3_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngkeys-go/packages/keys/src/render3"
)

func expectRows(template string, want [][]interface{}) func(*testing.T) {
	return func(t *testing.T) {
		got := expectFromHtml(t, template)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("R3 AST mismatch (-want +got):\n%s", diff)
		}
	}
}

func expectR3Error(template, message string) func(*testing.T) {
	return func(t *testing.T) {
		result := parseR3(t, template)
		for _, err := range result.Errors {
			if strings.Contains(err.Msg, message) {
				return
			}
		}
		t.Errorf("Expected an error containing %q, got %v", message, result.Errors)
	}
}

func TestR3TemplateTransform_Elements(t *testing.T) {
	t.Run("should parse text attributes", expectRows(`<div translate-marker="a.b"></div>`, [][]interface{}{
		{"Element", "div"},
		{"TextAttribute", "translate-marker", "a.b"},
	}))

	t.Run("should strip the data- prefix", expectRows(`<div data-translate-marker="k"></div>`, [][]interface{}{
		{"Element", "div"},
		{"TextAttribute", "translate-marker", "k"},
	}))

	t.Run("should parse property bindings", expectRows(`<div [translate-marker]="'a.b'" bind-title="t"></div>`, [][]interface{}{
		{"Element", "div"},
		{"BoundAttribute", render3.BindingTypeProperty, "translate-marker", "'a.b'"},
		{"BoundAttribute", render3.BindingTypeProperty, "title", "t"},
	}))

	t.Run("should classify bindings", expectRows(`<div [attr.aria-label]="a" [class.on]="b" [style.width.px]="c" [@fade]="d"></div>`, [][]interface{}{
		{"Element", "div"},
		{"BoundAttribute", render3.BindingTypeAttribute, "aria-label", "a"},
		{"BoundAttribute", render3.BindingTypeClass, "on", "b"},
		{"BoundAttribute", render3.BindingTypeStyle, "width", "c"},
		{"BoundAttribute", render3.BindingTypeAnimation, "fade", "d"},
	}))

	t.Run("should parse interpolated attributes as bindings", expectRows(`<div title="{{ 'x' }}"></div>`, [][]interface{}{
		{"Element", "div"},
		{"BoundAttribute", render3.BindingTypeProperty, "title", "{{ 'x' }}"},
	}))

	t.Run("should parse events", expectRows(`<button (click)="go()" on-focus="f()" (window:resize)="r()"></button>`, [][]interface{}{
		{"Element", "button"},
		{"BoundEvent", "click", "", "go()"},
		{"BoundEvent", "focus", "", "f()"},
		{"BoundEvent", "resize", "window", "r()"},
	}))

	t.Run("should parse two-way bindings", expectRows(`<input [(ngModel)]="name">`, [][]interface{}{
		{"Element", "input"},
		{"BoundAttribute", render3.BindingTypeTwoWay, "ngModel", "name"},
		{"BoundEvent", "ngModelChange", "", "name"},
	}))

	t.Run("should parse references", expectRows(`<input #ref ref-other="ngModel">`, [][]interface{}{
		{"Element", "input"},
		{"Reference", "ref", ""},
		{"Reference", "other", "ngModel"},
	}))

	t.Run("should parse bound text", expectRows(`<p>{{ 'a.b' | translate }}</p>`, [][]interface{}{
		{"Element", "p"},
		{"BoundText", "{{ ('a.b' | translate) }}"},
	}))

	t.Run("should parse ng-content", expectRows(`<ng-content select="header"></ng-content>`, [][]interface{}{
		{"Content", "header"},
		{"TextAttribute", "select", "header"},
	}))

	t.Run("should drop script and style elements", expectRows(`<script>var a = 1;</script><style>p {}</style><p></p>`, [][]interface{}{
		{"Element", "p"},
	}))

	t.Run("should drop whitespace-only text", expectRows("<div> </div>", [][]interface{}{
		{"Element", "div"},
	}))

	t.Run("should preserve whitespace when asked", func(t *testing.T) {
		result := render3.ParseTemplate("<div> </div>", "", render3.ParseTemplateOptions{PreserveWhitespaces: true})
		h := &r3AstHumanizer{}
		render3.VisitAll(h, result.Nodes)
		want := [][]interface{}{{"Element", "div"}, {"Text", " "}}
		if diff := cmp.Diff(want, h.result); diff != "" {
			t.Errorf("R3 AST mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should collect comments when asked", func(t *testing.T) {
		result := render3.ParseTemplate("<!-- note --><p></p>", "", render3.ParseTemplateOptions{CollectCommentNodes: true})
		if len(result.CommentNodes) != 1 || result.CommentNodes[0].Value != "note" {
			t.Errorf("CommentNodes = %v", result.CommentNodes)
		}
	})

	t.Run("should not bind inside ngNonBindable", expectRows(`<div ngNonBindable>{{ a }}<span [x]="y"></span></div>`, [][]interface{}{
		{"Element", "div"},
		{"TextAttribute", "ngNonBindable", ""},
		{"Text", "{{ a }}"},
		{"Element", "span"},
		{"TextAttribute", "[x]", "y"},
	}))
}

func TestR3TemplateTransform_Templates(t *testing.T) {
	t.Run("should parse ng-template variables", expectRows(`<ng-template let-item let-idx="index"><span></span></ng-template>`, [][]interface{}{
		{"Template"},
		{"Variable", "item", "$implicit"},
		{"Variable", "idx", "index"},
		{"Element", "span"},
	}))

	t.Run("should keep ng-template attributes", expectRows(`<ng-template translate-marker="k"></ng-template>`, [][]interface{}{
		{"Template"},
		{"TextAttribute", "translate-marker", "k"},
	}))

	t.Run("should wrap inline templates without hoisting attributes", expectRows(`<div *ngIf="cond as value" translate-marker="k"></div>`, [][]interface{}{
		{"Template"},
		{"BoundAttribute", render3.BindingTypeProperty, "ngIf", "cond"},
		{"Variable", "value", "ngIf"},
		{"Element", "div"},
		{"TextAttribute", "translate-marker", "k"},
	}))

	t.Run("should parse the for-of micro syntax", expectRows(`<li *ngFor="let item of items; index as i; trackBy: fn"></li>`, [][]interface{}{
		{"Template"},
		{"BoundAttribute", render3.BindingTypeProperty, "ngForOf", "items"},
		{"BoundAttribute", render3.BindingTypeProperty, "ngForTrackBy", "fn"},
		{"Variable", "item", "$implicit"},
		{"Variable", "i", "index"},
		{"Element", "li"},
	}))

	t.Run("should keep semicolons in quoted template bindings", expectRows(`<p *ngIf="c ? 'a;b' : 'd'"></p>`, [][]interface{}{
		{"Template"},
		{"BoundAttribute", render3.BindingTypeProperty, "ngIf", "c ? 'a;b' : 'd'"},
		{"Element", "p"},
	}))

	t.Run("should report let- outside ng-template", expectR3Error(`<div let-a></div>`, `"let-" is only supported on ng-template elements.`))
	t.Run("should report multiple template bindings", expectR3Error(`<div *a="x" *b="y"></div>`, "Can't have multiple template bindings on one element"))
}

func TestR3TemplateTransform_ControlFlow(t *testing.T) {
	t.Run("should parse connected if blocks", expectRows("@if (a) {<p></p>} @else if (b; as c) {x} @else {y}", [][]interface{}{
		{"IfBlock"},
		{"IfBlockBranch", "a"},
		{"Element", "p"},
		{"IfBlockBranch", "b"},
		{"Variable", "c", "c"},
		{"Text", "x"},
		{"IfBlockBranch", nil},
		{"Text", "y"},
	}))

	t.Run("should parse for loops with an empty block", expectRows("@for (item of items; track item.id; let i = $index) {<li></li>} @empty {none}", [][]interface{}{
		{"ForLoopBlock", "items", "item.id"},
		{"Variable", "item", "$implicit"},
		{"Variable", "$count", "$count"},
		{"Variable", "$even", "$even"},
		{"Variable", "$first", "$first"},
		{"Variable", "$index", "$index"},
		{"Variable", "$last", "$last"},
		{"Variable", "$odd", "$odd"},
		{"Variable", "i", "$index"},
		{"Element", "li"},
		{"ForLoopBlockEmpty"},
		{"Text", "none"},
	}))

	t.Run("should keep a for loop without track", func(t *testing.T) {
		result := parseR3(t, "@for (item of items) {<li></li>}")
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Msg, `must have a "track" expression`) {
			t.Fatalf("Errors = %v", result.Errors)
		}
		loop, ok := result.Nodes[0].(*render3.ForLoopBlock)
		if !ok {
			t.Fatalf("expected ForLoopBlock, got %T", result.Nodes[0])
		}
		if len(loop.Children) != 1 {
			t.Errorf("expected the loop content to be kept, got %d children", len(loop.Children))
		}
	})

	t.Run("should move the default case last", expectRows("@switch (mode) { @default {d} @case ('a') {a} }", [][]interface{}{
		{"SwitchBlock", "mode"},
		{"SwitchBlockCase", "'a'"},
		{"Text", "a"},
		{"SwitchBlockCase", nil},
		{"Text", "d"},
	}))

	t.Run("should parse deferred blocks", expectRows("@defer (on idle; when ready) {main} @placeholder (minimum 500ms) {ph} @loading (after 1s) {ld} @error {err}", [][]interface{}{
		{"DeferredBlock"},
		{"DeferredTrigger", "idle"},
		{"DeferredTrigger", "when", "ready"},
		{"Text", "main"},
		{"DeferredBlockPlaceholder", "minimum 500ms"},
		{"Text", "ph"},
		{"DeferredBlockLoading", "after 1000ms"},
		{"Text", "ld"},
		{"DeferredBlockError"},
		{"Text", "err"},
	}))

	t.Run("should parse let declarations", expectRows("@let greeting = 'hi';", [][]interface{}{
		{"LetDeclaration", "greeting", "'hi'"},
	}))

	t.Run("errors", func(t *testing.T) {
		t.Run("should report unknown blocks", expectR3Error("@foo {x}", "Unrecognized block @foo."))
		t.Run("should report orphan empty blocks", expectR3Error("@empty {x}", "@empty block can only be used after an @for block."))
		t.Run("should report duplicate else blocks", expectR3Error("@if (a) {} @else {} @else {}", "Conditional can only have one @else block"))
		t.Run("should report bad for expressions", expectR3Error("@for (items; track $index) {}", "@for loop expression must match the pattern"))
		t.Run("should report duplicate placeholders", expectR3Error("@defer {} @placeholder {a} @placeholder {b}", "@defer block can only have one @placeholder block"))
		t.Run("should report unrecognized triggers", expectR3Error("@defer (sometimes) {}", "Unrecognized trigger"))
		t.Run("should report empty let values", expectR3Error("@let a = ;", "@let declaration value cannot be empty"))
	})
}

func TestParseDeferredTime(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"100", 100},
		{"250ms", 250},
		{"2s", 2000},
		{"1.5s", 1500},
	}
	for _, c := range cases {
		got := render3.ParseDeferredTime(c.in)
		if got == nil || *got != c.want {
			t.Errorf("ParseDeferredTime(%q) = %v, want %d", c.in, got, c.want)
		}
	}
	if got := render3.ParseDeferredTime("soon"); got != nil {
		t.Errorf("ParseDeferredTime(soon) = %d, want nil", *got)
	}
}
