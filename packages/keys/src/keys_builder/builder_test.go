package keys_builder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ngkeys-go/packages/keys/src/keys_builder/registry"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

var testFiles = map[string]string{
	"app/home/home.component.html":      `<h1 translate-marker="home.title"></h1><p>{{ 'home.intro' | translate }}</p>`,
	"app/admin/admin.component.ts":      "@Component({\n  selector: 'app-admin',\n  template: `<h2 [translate-marker]=\"ok ? 'admin.ok' : 'admin.ko'\"></h2>`,\n})\nexport class AdminComponent {}\n",
	"app/admin/admin.component.spec.ts": "const template = `<p translate-marker=\"spec.only\"></p>`;",
	"app/broken.html":                   `@foo {x} <p translate-marker="broken.key"></p>`,
	"node_modules/lib/lib.html":         `<p translate-marker="vendored"></p>`,
	".cache/cached.html":                `<p translate-marker="cached"></p>`,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscoverSources(t *testing.T) {
	root := writeFiles(t, testFiles)

	sources, err := DiscoverSources([]string{root})
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}
	want := []Source{
		{Path: filepath.Join(root, "app/admin/admin.component.ts"), Inline: true},
		{Path: filepath.Join(root, "app/broken.html")},
		{Path: filepath.Join(root, "app/home/home.component.html")},
	}
	if diff := cmp.Diff(want, sources); diff != "" {
		t.Errorf("DiscoverSources() mismatch (-want +got):\n%s", diff)
	}

	t.Run("should accept files and drop duplicates", func(t *testing.T) {
		file := filepath.Join(root, "app/broken.html")
		sources, err := DiscoverSources([]string{file, filepath.Join(root, "app")})
		if err != nil {
			t.Fatalf("DiscoverSources() error = %v", err)
		}
		if len(sources) != 3 {
			t.Errorf("expected 3 sources, got %v", sources)
		}
	})

	t.Run("should fail on missing inputs", func(t *testing.T) {
		if _, err := DiscoverSources([]string{filepath.Join(root, "missing")}); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestInlineTemplates(t *testing.T) {
	content := "@Component({ selector: 'a', templateUrl: './a.html' })\n" +
		"export class A {}\n\n" +
		"@Component({ selector: 'b', template: `<p>one</p>` })\n" +
		"export class B {}\n\n" +
		"@Component({\n  selector: 'c',\n  template: `<p>\n two\n</p>`,\n})\n" +
		"export class C {}\n\n" +
		"@Component({ selector: 'd', template: '<p>three</p>' })\n" +
		"export class D {}\n"

	templates, err := InlineTemplates(context.Background(), []byte(content))
	if err != nil {
		t.Fatalf("InlineTemplates() error = %v", err)
	}
	want := []string{"<p>one</p>", "<p>\n two\n</p>", "<p>three</p>"}
	if diff := cmp.Diff(want, templates); diff != "" {
		t.Errorf("InlineTemplates() mismatch (-want +got):\n%s", diff)
	}

	t.Run("should decode escape sequences", func(t *testing.T) {
		content := "@Component({ template: '<p translate-marker=\\'esc.key\\'></p>' })\n" +
			"export class E {}\n\n" +
			"@Component({ template: `<p title=\\`x\\`>a\\nb\\u0041\\u{42}\\x43</p>` })\n" +
			"export class F {}\n"
		templates, err := InlineTemplates(context.Background(), []byte(content))
		if err != nil {
			t.Fatalf("InlineTemplates() error = %v", err)
		}
		want := []string{`<p translate-marker='esc.key'></p>`, "<p title=`x`>a\nbABC</p>"}
		if diff := cmp.Diff(want, templates); diff != "" {
			t.Errorf("InlineTemplates() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestUnescapeLiteral(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`\'q\'`, "'q'"},
		{`\"q\"`, `"q"`},
		{`a\\b`, `a\b`},
		{`\t\r\n`, "\t\r\n"},
		{"line\\\ncontinued", "linecontinued"},
		{`\u00e9\u{1F600}\x41`, "é😀A"},
		{`\xZZ`, "xZZ"},
		{`\é`, "é"},
		{`trailing\`, `trailing\`},
	}
	for _, tc := range cases {
		if got := unescapeLiteral(tc.in); got != tc.want {
			t.Errorf("unescapeLiteral(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildKeys(t *testing.T) {
	root := writeFiles(t, testFiles)
	scopes := registry.NewScopes(map[string]string{"admin": "admin"})

	t.Run("should extract the keys of every source", func(t *testing.T) {
		rec := &registry.Recorder{}
		result, err := BuildKeys(context.Background(), Options{
			Input:        []string{root},
			Scopes:       scopes,
			DefaultValue: "{{key}}",
			Concurrency:  2,
			Registry:     rec,
			Logger:       quietLogger(),
		})
		if err != nil {
			t.Fatalf("BuildKeys() error = %v", err)
		}

		want := []registry.Entry{
			{ScopePath: "admin", Key: "ok", DefaultValue: "ok"},
			{ScopePath: "admin", Key: "ko", DefaultValue: "ko"},
			{ScopePath: registry.GlobalScope, Key: "broken.key", DefaultValue: "broken.key"},
			{ScopePath: registry.GlobalScope, Key: "home.title", DefaultValue: "home.title"},
			{ScopePath: registry.GlobalScope, Key: "home.intro", DefaultValue: "home.intro"},
		}
		if diff := cmp.Diff(want, rec.Entries); diff != "" {
			t.Errorf("registered keys mismatch (-want +got):\n%s", diff)
		}
		if result.Files != 3 {
			t.Errorf("Files = %d, want 3", result.Files)
		}
		if result.RunID == "" {
			t.Error("expected a run id")
		}
		if result.Keys.Len() != 5 {
			t.Errorf("Keys.Len() = %d, want 5", result.Keys.Len())
		}
		if len(result.ParseErrors) != 1 || result.ParseErrors[0].Path != filepath.Join(root, "app/broken.html") {
			t.Errorf("unexpected parse errors: %v", result.ParseErrors)
		}
	})

	t.Run("should register in the same order whatever the concurrency", func(t *testing.T) {
		var runs [][]registry.Entry
		for _, workers := range []int{1, 4} {
			rec := &registry.Recorder{}
			if _, err := BuildKeys(context.Background(), Options{Input: []string{root}, Scopes: scopes, Concurrency: workers, Registry: rec, Logger: quietLogger()}); err != nil {
				t.Fatalf("BuildKeys() error = %v", err)
			}
			runs = append(runs, rec.Entries)
		}
		if diff := cmp.Diff(runs[0], runs[1]); diff != "" {
			t.Errorf("registrations differ (-1 worker +4 workers):\n%s", diff)
		}
	})

	t.Run("should record metrics", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		if _, err := BuildKeys(context.Background(), Options{Input: []string{root}, Scopes: scopes, Metrics: metrics, Logger: quietLogger()}); err != nil {
			t.Fatalf("BuildKeys() error = %v", err)
		}
		if got := testutil.ToFloat64(metrics.filesProcessed.WithLabelValues("ok")); got != 3 {
			t.Errorf("files processed = %v, want 3", got)
		}
		if got := testutil.ToFloat64(metrics.parseErrorsTotal); got != 1 {
			t.Errorf("parse errors = %v, want 1", got)
		}
		if got := testutil.ToFloat64(metrics.keys); got != 5 {
			t.Errorf("keys = %v, want 5", got)
		}
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := BuildKeys(ctx, Options{Input: []string{root}, Logger: quietLogger()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("BuildKeys() error = %v, want context.Canceled", err)
		}
	})

	t.Run("should surface registry errors", func(t *testing.T) {
		store, err := registry.NewSQLiteRegistry(filepath.Join(t.TempDir(), "keys.db"))
		if err != nil {
			t.Fatalf("NewSQLiteRegistry() error = %v", err)
		}
		defer store.Close()

		_, err = BuildKeys(context.Background(), Options{Input: []string{root}, Registry: store, Logger: quietLogger()})
		if err == nil {
			t.Error("expected an error for a store without a run")
		}
	})

	t.Run("should persist keys into the store", func(t *testing.T) {
		store, err := registry.NewSQLiteRegistry(filepath.Join(t.TempDir(), "keys.db"))
		if err != nil {
			t.Fatalf("NewSQLiteRegistry() error = %v", err)
		}
		defer store.Close()

		ctx := context.Background()
		if _, err := store.BeginRun(ctx); err != nil {
			t.Fatalf("BeginRun() error = %v", err)
		}
		if _, err := BuildKeys(ctx, Options{Input: []string{root}, Scopes: scopes, Registry: store, Logger: quietLogger()}); err != nil {
			t.Fatalf("BuildKeys() error = %v", err)
		}
		keys, err := store.Keys(ctx, "admin")
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if diff := cmp.Diff(map[string]string{"ok": "", "ko": ""}, keys); diff != "" {
			t.Errorf("stored keys mismatch (-want +got):\n%s", diff)
		}
	})
}
