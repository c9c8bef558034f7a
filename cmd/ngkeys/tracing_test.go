package main

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"ngkeys-go/packages/keys/src/config"
)

func TestNewTracing(t *testing.T) {
	t.Run("should return a noop tracer without endpoint", func(t *testing.T) {
		tr, err := newTracing(context.Background(), config.TracingConfig{})
		if err != nil {
			t.Fatalf("newTracing() error = %v", err)
		}
		if tr.provider != nil {
			t.Error("expected no provider")
		}
		_, span := tr.tracer.Start(context.Background(), "extract")
		if span.SpanContext().IsValid() {
			t.Error("expected a noop span")
		}
		span.End()
		if err := tr.Shutdown(); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	})
}

func TestNewSampler(t *testing.T) {
	traceID := trace.TraceID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	params := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       traceID,
		Name:          "extract",
	}
	cases := []struct {
		rate float64
		want sdktrace.SamplingDecision
	}{
		{1, sdktrace.RecordAndSample},
		{0, sdktrace.Drop},
		{0.5, sdktrace.Drop},
	}
	for _, tc := range cases {
		got := newSampler(tc.rate).ShouldSample(params).Decision
		if got != tc.want {
			t.Errorf("newSampler(%v) decision = %v, want %v", tc.rate, got, tc.want)
		}
	}
}
