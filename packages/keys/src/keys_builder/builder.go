package keys_builder

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ngkeys-go/packages/keys/src/keys_builder/registry"
	"ngkeys-go/packages/keys/src/keys_builder/template"
	"ngkeys-go/packages/keys/src/util"
)

const tracerName = "ngkeys-go/keys_builder"

// Options configures a BuildKeys run
type Options struct {
	// Input lists the directories and files to scan
	Input        []string
	Scopes       *registry.Scopes
	DefaultValue string
	Marker       string
	Pipe         string
	// Concurrency is the number of extraction workers. Zero means NumCPU.
	Concurrency int
	// Registry also receives every key, in the order of the sorted sources.
	// It may be nil.
	Registry registry.KeyRegistry
	Metrics  *Metrics
	Logger   *slog.Logger
	Tracer   trace.Tracer
}

// FileError groups the template parse errors of one source
type FileError struct {
	Path   string
	Errors []*util.ParseError
}

// Result is the outcome of a BuildKeys run
type Result struct {
	RunID string
	Files int
	// Keys holds the distinct keys by scope path
	Keys        *registry.ScopeMap
	ParseErrors []FileError
	Duration    time.Duration
}

// errorRegistry is implemented by registries whose writes can fail
type errorRegistry interface {
	Err() error
}

type fileResult struct {
	recorder    registry.Recorder
	parseErrors []*util.ParseError
	err         error
}

// BuildKeys extracts the keys of every template source under opts.Input.
// Sources are processed by a pool of workers, each template with its own
// recorder; the recorded keys are then registered in path order so that the
// outcome does not depend on scheduling. Template parse errors are reported
// in the result and never fail the run.
func BuildKeys(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	start := time.Now()
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	ctx, span := tracer.Start(ctx, "keys_builder.BuildKeys", trace.WithAttributes(attribute.String("ngkeys.run_id", runID)))
	defer span.End()

	sources, err := DiscoverSources(opts.Input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	logger.Debug("discovered template sources", "count", len(sources))

	results := make([]*fileResult, len(sources))
	workers := opts.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = extractSource(ctx, tracer, sources[idx], &opts)
			}
		}()
	}

feed:
	for i := range sources {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return nil, fmt.Errorf("key extraction cancelled: %w", err)
	}

	keys := registry.NewScopeMap()
	target := registry.KeyRegistry(keys)
	if opts.Registry != nil {
		target = registry.Tee{keys, opts.Registry}
	}

	result := &Result{RunID: runID, Files: len(sources), Keys: keys}
	for i, res := range results {
		path := sources[i].Path
		if res.err != nil {
			opts.Metrics.recordFile(true, 0)
			span.RecordError(res.err)
			span.SetStatus(codes.Error, res.err.Error())
			return nil, res.err
		}
		opts.Metrics.recordFile(false, len(res.parseErrors))
		if len(res.parseErrors) > 0 {
			result.ParseErrors = append(result.ParseErrors, FileError{Path: path, Errors: res.parseErrors})
			for _, parseErr := range res.parseErrors {
				logger.Warn("template parse error", "file", path, "error", parseErr.Error())
			}
		}
		logger.Debug("extracted template keys", "file", path, "keys", len(res.recorder.Entries))
		res.recorder.ReplayInto(target)
	}

	if r, ok := opts.Registry.(errorRegistry); ok {
		if err := r.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to register keys: %w", err)
		}
	}

	result.Duration = time.Since(start)
	opts.Metrics.recordRun(result.Duration.Seconds(), keys.Len())
	span.SetAttributes(
		attribute.Int("ngkeys.files", result.Files),
		attribute.Int("ngkeys.keys", keys.Len()),
	)
	logger.Info("extracted keys",
		"files", result.Files,
		"keys", keys.Len(),
		"parse_errors", len(result.ParseErrors),
		"duration", result.Duration,
	)
	return result, nil
}

func extractSource(ctx context.Context, tracer trace.Tracer, source Source, opts *Options) *fileResult {
	_, span := tracer.Start(ctx, "keys_builder.extractSource", trace.WithAttributes(attribute.String("ngkeys.file", source.Path)))
	defer span.End()

	res := &fileResult{}
	templates, err := source.Templates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		res.err = err
		return res
	}

	for _, content := range templates {
		config := &template.TemplateExtractorConfig{
			ExtractorConfig: template.ExtractorConfig{
				Registry:     &res.recorder,
				Scopes:       opts.Scopes,
				DefaultValue: opts.DefaultValue,
				Marker:       opts.Marker,
				Pipe:         opts.Pipe,
			},
			Content:      content,
			TemplatePath: source.Path,
		}
		res.parseErrors = append(res.parseErrors, template.ExtractTemplateKeys(config)...)
	}
	span.SetAttributes(attribute.Int("ngkeys.keys", len(res.recorder.Entries)))
	return res
}
