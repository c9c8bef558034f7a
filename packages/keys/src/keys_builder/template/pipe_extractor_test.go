package template_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngkeys-go/packages/keys/src/keys_builder/registry"
	"ngkeys-go/packages/keys/src/keys_builder/template"
)

func expectPipeKeys(content string, want []registry.Entry) func(t *testing.T) {
	return func(t *testing.T) {
		rec := &registry.Recorder{}
		template.PipeExtractor(newConfig(rec, content))
		if diff := cmp.Diff(want, rec.Entries); diff != "" {
			t.Errorf("PipeExtractor(%q) mismatch (-want +got):\n%s", content, diff)
		}
	}
}

func TestPipeExtractor(t *testing.T) {
	t.Run("should register piped text", expectPipeKeys(
		`<p>{{ 'home.title' | translate }}</p>`, globalKeys("home.title")))
	t.Run("should register piped conditionals", expectPipeKeys(
		`<img [alt]="(ok ? 'a' : 'b') | translate">`, globalKeys("a", "b")))
	t.Run("should register piped keys with arguments", expectPipeKeys(
		`<p>{{ 'greeting' | translate: params }}</p>`, globalKeys("greeting")))
	t.Run("should register pipes nested in other pipes", expectPipeKeys(
		`<p>{{ ('shout' | translate) | uppercase }}</p>`, globalKeys("shout")))
	t.Run("should register pipes used as call arguments", expectPipeKeys(
		`<p [title]="format(('inner' | translate), 1)"></p>`, globalKeys("inner")))
	t.Run("should resolve scopes", expectPipeKeys(
		`<p>{{ 'admin.title' | translate }}</p>`, []registry.Entry{{ScopePath: "admin/page", Key: "title"}}))
	t.Run("should ignore other pipes", expectPipeKeys(
		`<p>{{ 'x' | uppercase }}</p><p [title]="'y' | date"></p>`, nil))
	t.Run("should ignore dynamic keys", expectPipeKeys(
		`<p>{{ key | translate }}</p>`, nil))
	t.Run("should ignore the marker attribute", expectPipeKeys(
		`<p translate-marker="marked"></p>`, nil))
	t.Run("should walk control flow", expectPipeKeys(
		`@if ('cond' | translate) { <p>{{ 'if.body' | translate }}</p> } @else { <p>{{ 'else.body' | translate }}</p> }`+
			`@for (item of items; track item) { {{ 'row' | translate }} } @empty { {{ 'empty' | translate }} }`+
			`@switch (mode) { @case ('a') { {{ 'case' | translate }} } }`+
			`@defer { {{ 'main' | translate }} } @placeholder { {{ 'placeholder' | translate }} }`,
		globalKeys("cond", "if.body", "else.body", "row", "empty", "case", "main", "placeholder")))
	t.Run("should walk templates and let declarations", expectPipeKeys(
		`<ng-template><p>{{ 'tpl' | translate }}</p></ng-template>@let label = 'let' | translate;`,
		globalKeys("tpl", "let")))

	t.Run("should use a custom pipe name", func(t *testing.T) {
		rec := &registry.Recorder{}
		config := newConfig(rec, `<p>{{ 'a' | transloco }}</p><p>{{ 'b' | translate }}</p>`)
		config.Pipe = "transloco"
		template.PipeExtractor(config)
		if diff := cmp.Diff(globalKeys("a"), rec.Entries); diff != "" {
			t.Errorf("Entries mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestExtractTemplateKeys(t *testing.T) {
	t.Run("should run both extractors", func(t *testing.T) {
		rec := &registry.Recorder{}
		errs := template.ExtractTemplateKeys(newConfig(rec, `<h1 translate-marker="marker.key">{{ 'pipe.key' | translate }}</h1>`))
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if diff := cmp.Diff(globalKeys("marker.key", "pipe.key"), rec.Entries); diff != "" {
			t.Errorf("Entries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should extract partially parsed templates", func(t *testing.T) {
		rec := &registry.Recorder{}
		errs := template.ExtractTemplateKeys(newConfig(rec, `@foo { x } <p translate-marker="still.found"></p>`))
		if len(errs) == 0 {
			t.Errorf("expected a parse error for the unknown block")
		}
		if diff := cmp.Diff(globalKeys("still.found"), rec.Entries); diff != "" {
			t.Errorf("Entries mismatch (-want +got):\n%s", diff)
		}
	})
}
