package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"ngkeys-go/packages/keys/src/config"
	"ngkeys-go/packages/keys/src/keys_builder"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	if !strings.HasPrefix(out.String(), "ngkeys "+Version+"\n") {
		t.Errorf("unexpected version output: %q", out.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"extract": false, "find": false, "watch": false, "version": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %s is not registered", name)
		}
	}
}

func TestRunExtract(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	template := `<h1 translate-marker="home.title"></h1><p>{{ 'admin.intro' | translate }}</p>`
	if err := os.WriteFile(filepath.Join(src, "home.html"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(root, "i18n")
	cfg := config.New(
		config.WithInput(src),
		config.WithOutput(out),
		config.WithLangs("en"),
		config.WithScopes(map[string]string{"admin": "admin"}),
		config.WithStore(filepath.Join(root, "keys.db")),
		config.WithLogLevel("error"),
	)

	var report bytes.Buffer
	if err := runExtract(context.Background(), &report, cfg); err != nil {
		t.Fatalf("runExtract() error = %v", err)
	}
	for _, path := range []string{filepath.Join(out, "en.json"), filepath.Join(out, "admin", "en.json")} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to be written: %v", path, err)
		}
	}
	if !strings.Contains(report.String(), "2 keys in 1 files") {
		t.Errorf("unexpected report: %q", report.String())
	}
}

func TestMetricsHandler(t *testing.T) {
	promRegistry := prometheus.NewRegistry()
	keys_builder.NewMetrics(promRegistry)

	rec := httptest.NewRecorder()
	metricsHandler(promRegistry).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ngkeys_keys") {
		t.Errorf("metrics output lacks ngkeys_keys:\n%s", rec.Body.String())
	}
}

func TestScheduleExtraction(t *testing.T) {
	newTestPipeline := func(t *testing.T, schedule string) *pipeline {
		t.Helper()
		cfg := config.New(config.WithInput(t.TempDir()), config.WithOutput(t.TempDir()), config.WithLogLevel("error"))
		cfg.Watch.Schedule = schedule
		p, err := newPipeline(context.Background(), cfg, newLogger(cfg))
		if err != nil {
			t.Fatalf("newPipeline() error = %v", err)
		}
		t.Cleanup(func() { p.close() })
		return p
	}

	t.Run("should register one job", func(t *testing.T) {
		p := newTestPipeline(t, "0 3 * * *")
		scheduler, err := scheduleExtraction(context.Background(), p, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("scheduleExtraction() error = %v", err)
		}
		if n := len(scheduler.Entries()); n != 1 {
			t.Errorf("len(Entries()) = %d, want 1", n)
		}
	})

	t.Run("should reject invalid schedules", func(t *testing.T) {
		p := newTestPipeline(t, "sometimes")
		if _, err := scheduleExtraction(context.Background(), p, &bytes.Buffer{}); err == nil {
			t.Error("expected an error")
		}
	})
}
