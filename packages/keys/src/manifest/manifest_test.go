package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngkeys-go/packages/keys/src/keys_builder/registry"
)

func testKeys() *registry.ScopeMap {
	keys := registry.NewScopeMap()
	keys.Add(registry.GlobalScope, "home.title", "")
	keys.Add(registry.GlobalScope, "home.intro", "Intro")
	keys.Add("admin/page", "title", "")
	return keys
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilePath(t *testing.T) {
	if got := FilePath("i18n", registry.GlobalScope, "en"); got != filepath.Join("i18n", "en.json") {
		t.Errorf("global FilePath = %s", got)
	}
	if got := FilePath("i18n", "admin/page", "fr"); got != filepath.Join("i18n", "admin", "page", "fr.json") {
		t.Errorf("scoped FilePath = %s", got)
	}
}

func TestWrite(t *testing.T) {
	t.Run("should create and merge translation files", func(t *testing.T) {
		out := t.TempDir()
		writeTestFile(t, filepath.Join(out, "en.json"), `{"home": {"title": "Home"}, "old": "Old"}`)

		opts := Options{Output: out, Langs: []string{"en", "fr"}}
		changes, err := Write(testKeys(), opts)
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		wantChanges := []FileChange{
			{Path: filepath.Join(out, "en.json"), Added: []string{"home.intro"}},
			{Path: filepath.Join(out, "fr.json"), Added: []string{"home.intro", "home.title"}},
			{Path: filepath.Join(out, "admin", "page", "en.json"), Added: []string{"title"}},
			{Path: filepath.Join(out, "admin", "page", "fr.json"), Added: []string{"title"}},
		}
		if diff := cmp.Diff(wantChanges, changes); diff != "" {
			t.Errorf("changes mismatch (-want +got):\n%s", diff)
		}

		wantEn := "{\n  \"home.title\": \"Home\",\n  \"old\": \"Old\",\n  \"home.intro\": \"Intro\"\n}\n"
		if diff := cmp.Diff(wantEn, readFile(t, filepath.Join(out, "en.json"))); diff != "" {
			t.Errorf("en.json mismatch (-want +got):\n%s", diff)
		}

		again, err := Write(testKeys(), opts)
		if err != nil {
			t.Fatalf("second Write() error = %v", err)
		}
		if len(again) != 0 {
			t.Errorf("expected no changes on the second run, got %v", again)
		}
	})

	t.Run("should sort, nest and replace", func(t *testing.T) {
		out := t.TempDir()
		writeTestFile(t, filepath.Join(out, "en.json"), `{"old": "Old", "home": {"title": "Home"}}`)

		changes, err := Write(testKeys(), Options{Output: out, Langs: []string{"en"}, Sort: true, Unflat: true, Replace: true})
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if diff := cmp.Diff([]string{"old"}, changes[0].Removed); diff != "" {
			t.Errorf("Removed mismatch (-want +got):\n%s", diff)
		}
		want := "{\n  \"home\": {\n    \"intro\": \"Intro\",\n    \"title\": \"Home\"\n  }\n}\n"
		if diff := cmp.Diff(want, readFile(t, filepath.Join(out, "en.json"))); diff != "" {
			t.Errorf("en.json mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fail on invalid files", func(t *testing.T) {
		out := t.TempDir()
		writeTestFile(t, filepath.Join(out, "en.json"), `not json`)
		if _, err := Write(testKeys(), Options{Output: out, Langs: []string{"en"}}); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestFind(t *testing.T) {
	out := t.TempDir()
	writeTestFile(t, filepath.Join(out, "en.json"), `{"home": {"title": "Home"}}`)
	writeTestFile(t, filepath.Join(out, "admin", "page", "en.json"), `{"page.title": "Title"}`)

	missing, err := Find(testKeys(), Options{Output: out, Langs: []string{"en"}})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	want := []Missing{
		{Path: filepath.Join(out, "en.json"), Scope: registry.GlobalScope, Lang: "en", Key: "home.intro"},
		{Path: filepath.Join(out, "admin", "page", "en.json"), Scope: "admin/page", Lang: "en", Key: "title", Suggestion: "page.title"},
	}
	if diff := cmp.Diff(want, missing); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(out, "fr.json")); !os.IsNotExist(err) {
		t.Error("Find must not write files")
	}
}
