package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{
		Paths:    []string{dir},
		Debounce: 50 * time.Millisecond,
		Match:    func(path string) bool { return strings.HasSuffix(path, ".html") },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(ctx context.Context, paths []string) error {
			changes <- paths
			return nil
		})
	}()
	time.Sleep(100 * time.Millisecond)

	write := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<p></p>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.html")
	write("b.html")
	write("notes.txt")
	write(".hidden.html")

	select {
	case paths := <-changes:
		want := []string{filepath.Join(dir, "a.html"), filepath.Join(dir, "b.html")}
		if diff := cmp.Diff(want, paths); diff != "" {
			t.Errorf("changed paths mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for changes")
	}

	t.Run("should watch new directories", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Join(dir, "feature"), 0o755); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
		write(filepath.Join("feature", "c.html"))

		select {
		case paths := <-changes:
			if diff := cmp.Diff([]string{filepath.Join(dir, "feature", "c.html")}, paths); diff != "" {
				t.Errorf("changed paths mismatch (-want +got):\n%s", diff)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for changes")
		}
	})

	t.Run("should report the templates of a moved in directory", func(t *testing.T) {
		outside := t.TempDir()
		moved := filepath.Join(outside, "moved")
		if err := os.MkdirAll(filepath.Join(moved, "nested"), 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"a.html", filepath.Join("nested", "b.html"), "notes.txt"} {
			if err := os.WriteFile(filepath.Join(moved, name), []byte("<p></p>"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.Rename(moved, filepath.Join(dir, "moved")); err != nil {
			t.Fatal(err)
		}

		select {
		case paths := <-changes:
			want := []string{filepath.Join(dir, "moved", "a.html"), filepath.Join(dir, "moved", "nested", "b.html")}
			if diff := cmp.Diff(want, paths); diff != "" {
				t.Errorf("changed paths mismatch (-want +got):\n%s", diff)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for changes")
		}
	})

	t.Run("should report a removed directory", func(t *testing.T) {
		if err := os.RemoveAll(filepath.Join(dir, "moved")); err != nil {
			t.Fatal(err)
		}

		removed := filepath.Join(dir, "moved")
		timeout := time.After(5 * time.Second)
		for {
			select {
			case paths := <-changes:
				for _, path := range paths {
					if path == removed {
						return
					}
				}
			case <-timeout:
				t.Fatal("timed out waiting for the removed directory")
			}
		}
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	if err := w.Watch(context.Background(), nil); err == nil {
		t.Error("expected an error when watching with a closed watcher")
	}
}
