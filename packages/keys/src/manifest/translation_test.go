package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTranslation(t *testing.T) {
	t.Run("should flatten nested objects in file order", func(t *testing.T) {
		tr, err := ParseTranslation([]byte(`{"a": {"b": "x", "c": {"d": "y"}}, "e": "z", "n": 1, "nil": null}`))
		if err != nil {
			t.Fatalf("ParseTranslation() error = %v", err)
		}
		if diff := cmp.Diff([]string{"a.b", "a.c.d", "e", "n", "nil"}, tr.Keys()); diff != "" {
			t.Errorf("Keys mismatch (-want +got):\n%s", diff)
		}
		for key, want := range map[string]string{"a.c.d": "y", "n": "1", "nil": "null"} {
			if got, _ := tr.Get(key); got != want {
				t.Errorf("Get(%q) = %q, want %q", key, got, want)
			}
		}
	})

	t.Run("should keep empty objects", func(t *testing.T) {
		tr, err := ParseTranslation([]byte(`{"a": {}, "b": {"c": {}}}`))
		if err != nil {
			t.Fatalf("ParseTranslation() error = %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b.c"}, tr.Keys()); diff != "" {
			t.Errorf("Keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should accept empty files", func(t *testing.T) {
		tr, err := ParseTranslation([]byte("  \n"))
		if err != nil || tr.Len() != 0 {
			t.Errorf("ParseTranslation() = %v, %v", tr, err)
		}
	})

	t.Run("should reject other documents", func(t *testing.T) {
		for _, input := range []string{`[1]`, `{"a": [1]}`, `{"a": "b"} {}`, `{"a":`} {
			if _, err := ParseTranslation([]byte(input)); err == nil {
				t.Errorf("ParseTranslation(%q) expected an error", input)
			}
		}
	})
}

func TestTranslationMarshal(t *testing.T) {
	build := func(pairs ...string) *Translation {
		tr := NewTranslation()
		for i := 0; i < len(pairs); i += 2 {
			tr.Set(pairs[i], pairs[i+1])
		}
		return tr
	}

	cases := []struct {
		name   string
		tr     *Translation
		unflat bool
		want   string
	}{
		{
			name: "should keep insertion order",
			tr:   build("b", "1", "a", "2"),
			want: "{\n  \"b\": \"1\",\n  \"a\": \"2\"\n}\n",
		},
		{
			name:   "should nest dotted keys",
			tr:     build("home.title", "T", "home.intro", "I", "about", "A"),
			unflat: true,
			want:   "{\n  \"home\": {\n    \"title\": \"T\",\n    \"intro\": \"I\"\n  },\n  \"about\": \"A\"\n}\n",
		},
		{
			name:   "should keep keys under a value flat",
			tr:     build("a", "1", "a.b", "2"),
			unflat: true,
			want:   "{\n  \"a\": \"1\",\n  \"a.b\": \"2\"\n}\n",
		},
		{
			name: "should not escape markup",
			tr:   build("html", "<b>\"hi\"</b>"),
			want: "{\n  \"html\": \"<b>\\\"hi\\\"</b>\"\n}\n",
		},
		{
			name: "should render empty translations",
			tr:   NewTranslation(),
			want: "{}\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.tr.Marshal(tc.unflat)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, string(data)); diff != "" {
				t.Errorf("Marshal() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("should keep values that are not strings", func(t *testing.T) {
		input := "{\n  \"count\": 3,\n  \"flag\": true,\n  \"none\": null,\n  \"empty\": {},\n  \"s\": \"x\"\n}\n"
		tr, err := ParseTranslation([]byte(input))
		if err != nil {
			t.Fatalf("ParseTranslation() error = %v", err)
		}
		for _, unflat := range []bool{false, true} {
			data, err := tr.Marshal(unflat)
			if err != nil {
				t.Fatalf("Marshal(%v) error = %v", unflat, err)
			}
			if diff := cmp.Diff(input, string(data)); diff != "" {
				t.Errorf("Marshal(%v) mismatch (-want +got):\n%s", unflat, diff)
			}
		}
	})

	t.Run("should keep nested values that are not strings", func(t *testing.T) {
		input := "{\n  \"home\": {\n    \"count\": 1.5,\n    \"title\": \"T\"\n  }\n}\n"
		tr, err := ParseTranslation([]byte(input))
		if err != nil {
			t.Fatalf("ParseTranslation() error = %v", err)
		}
		data, err := tr.Marshal(true)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if diff := cmp.Diff(input, string(data)); diff != "" {
			t.Errorf("Marshal() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should read back what it writes", func(t *testing.T) {
		tr := build("home.title", "T", "about", "A")
		data, err := tr.Marshal(true)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		back, err := ParseTranslation(data)
		if err != nil {
			t.Fatalf("ParseTranslation() error = %v", err)
		}
		if diff := cmp.Diff(tr.Keys(), back.Keys()); diff != "" {
			t.Errorf("Keys mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTranslationDelete(t *testing.T) {
	tr := NewTranslation()
	tr.Set("a", "1")
	tr.Set("b", "2")
	tr.Set("a", "3")
	tr.Delete("a")
	tr.Delete("missing")
	if diff := cmp.Diff([]string{"b"}, tr.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}
