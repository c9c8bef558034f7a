package util_test

import (
	"testing"

	"ngkeys-go/packages/keys/src/util"
)

func TestParseLocation(t *testing.T) {
	file := util.NewParseSourceFile("ab\ncd", "test.html")

	t.Run("should track lines and columns when moving", func(t *testing.T) {
		loc := util.NewParseLocation(file, 0, 0, 0).MoveBy(4)
		if loc.Offset != 4 || loc.Line != 1 || loc.Col != 1 {
			t.Errorf("MoveBy(4) = %d:%d@%d, want 1:1@4", loc.Line, loc.Col, loc.Offset)
		}
	})

	t.Run("should stop at the end of the content", func(t *testing.T) {
		loc := util.NewParseLocation(file, 0, 0, 0).MoveBy(100)
		if loc.Offset != len(file.Content) {
			t.Errorf("MoveBy(100).Offset = %d, want %d", loc.Offset, len(file.Content))
		}
	})

	t.Run("should format as url@line:col", func(t *testing.T) {
		loc := util.NewParseLocation(file, 3, 1, 0)
		if got := loc.String(); got != "test.html@1:0" {
			t.Errorf("String() = %q", got)
		}
	})
}

func TestParseError(t *testing.T) {
	file := util.NewParseSourceFile("<div>", "a.html")
	start := util.NewParseLocation(file, 0, 0, 0)
	span := util.NewParseSourceSpan(start, start.MoveBy(5))

	err := util.NewParseError(span, "Unclosed element")
	if got := err.Error(); got != "Unclosed element: a.html@0:0" {
		t.Errorf("Error() = %q", got)
	}
	if got := span.String(); got != "<div>" {
		t.Errorf("span.String() = %q", got)
	}
	if w := util.NewParseWarning(nil, "w"); w.Level != util.ParseErrorLevelWarning || w.Error() != "w" {
		t.Errorf("unexpected warning %+v", w)
	}
}
