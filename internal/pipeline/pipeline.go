// Package pipeline turns one resume file into one extraction outcome by composing
// format selection, text extraction and field coordination.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-parser/internal/documents"
	"github.com/jonathan/resume-parser/internal/extraction"
	"github.com/jonathan/resume-parser/internal/types"
)

// Coordinator is the field-extraction step of the pipeline.
type Coordinator interface {
	Extract(ctx context.Context, text string) (extraction.Fields, extraction.Report)
}

// Pipeline processes single documents. It holds no per-document state and is
// safe for concurrent use.
type Pipeline struct {
	registry    *documents.Registry
	coordinator Coordinator
	override    documents.Extractor
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtractor forces every document through e, bypassing extension lookup.
func WithExtractor(e documents.Extractor) Option {
	return func(p *Pipeline) { p.override = e }
}

// WithClock sets the source of parsed_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a pipeline over registry and coordinator.
func New(registry *documents.Registry, coordinator Coordinator, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:    registry,
		coordinator: coordinator,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes path. Document-level problems (unsupported format, unreadable,
// corrupt or empty documents) produce a Failure; field-level problems never do.
// No retries are attempted.
func (p *Pipeline) Run(ctx context.Context, path string) types.Outcome {
	if err := ctx.Err(); err != nil {
		return types.Failure(path, types.FailureUnknown, err)
	}

	extractor, err := p.registry.ResolveWith(path, p.override)
	if err != nil {
		return p.fail(path, err)
	}

	text, err := documents.ExtractFile(extractor, path)
	if err != nil {
		return p.fail(path, err)
	}

	fields, report := p.coordinator.Extract(ctx, text)
	result := types.NewResumeData(fields.Name, fields.Email, fields.Skills, filepath.Base(path), p.now())

	p.logger.Debug("pipeline.document.parsed",
		"path", path,
		"format", extractor.Name(),
		"chars", len(text),
		"name_found", result.HasName(),
		"email_found", result.HasEmail(),
		"skills", len(result.Skills()),
	)
	return types.Success(path, result, report.Diagnostics())
}

func (p *Pipeline) fail(path string, err error) types.Outcome {
	kind := documents.FailureKind(err)
	p.logger.Debug("pipeline.document.failed", "path", path, "kind", string(kind), "error", err)
	return types.Failure(path, kind, err)
}
