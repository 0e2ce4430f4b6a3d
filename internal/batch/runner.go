// Package batch runs the document pipeline over a directory of resumes and
// persists the results: one JSON artifact per success, a manifest, an error
// list, and optionally an archive of the processed originals.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/documents"
	"github.com/jonathan/resume-parser/internal/types"
)

// ErrNoFiles is returned when the input directory holds no supported documents.
var ErrNoFiles = errors.New("no resume files found")

// State is a phase of a batch run.
type State string

// Run phases, in order.
const (
	StateScanning    State = "scanning"
	StateProcessing  State = "processing"
	StateAggregating State = "aggregating"
	StateArchiving   State = "archiving"
	StateDone        State = "done"
)

// Processor turns one file into an outcome. pipeline.Pipeline implements it.
type Processor interface {
	Run(ctx context.Context, path string) types.Outcome
}

// ReportWriter receives the finished run, for example to render a spreadsheet.
type ReportWriter interface {
	WriteReport(res *Result) error
}

// RunRecorder persists run summaries.
type RunRecorder interface {
	RecordRun(ctx context.Context, manifest *types.Manifest, failures []types.FailureEntry) error
}

// Options locate the run's inputs and outputs.
type Options struct {
	InputDir   string
	OutputDir  string
	ArchiveDir string
	Archive    bool
	Workers    int
}

// FileResult is what happened to one processed file.
type FileResult struct {
	Source       string
	Rel          string
	Outcome      types.Outcome
	OutputFile   string // relative to the output directory; empty for failures
	ArchivedTo   string
	ArchiveError string
}

// Result is the outcome of a run.
type Result struct {
	Manifest *types.Manifest
	Failures []types.FailureEntry
	Files    []FileResult // in scan order
}

// Outcomes returns the per-file outcomes in scan order.
func (r *Result) Outcomes() []types.Outcome {
	out := make([]types.Outcome, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Outcome
	}
	return out
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool { return len(r.Failures) > 0 }

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithClock sets the clock used for the run timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// WithFilter replaces the registry's extension check during scanning.
func WithFilter(accept func(path string) bool) Option {
	return func(r *Runner) { r.accept = accept }
}

// OnState registers a callback invoked on every phase change.
func OnState(fn func(State)) Option {
	return func(r *Runner) { r.onState = fn }
}

// OnFile registers a callback invoked for every processed file, in scan order,
// once its artifact has been written.
func OnFile(fn func(FileResult)) Option {
	return func(r *Runner) { r.onFile = fn }
}

// WithReport adds a report sink.
func WithReport(w ReportWriter) Option {
	return func(r *Runner) { r.report = w }
}

// WithRecorder adds a run persistence sink.
func WithRecorder(rec RunRecorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// Runner drives a batch run. A Runner is meant to be used for a single Run.
type Runner struct {
	processor Processor
	opts      Options
	accept    func(string) bool
	now       func() time.Time
	runID     string
	logger    *slog.Logger
	onState   func(State)
	onFile    func(FileResult)
	report    ReportWriter
	recorder  RunRecorder
}

// NewRunner creates a runner that scans for files registry supports and
// processes them with processor.
func NewRunner(registry *documents.Registry, processor Processor, opts Options, options ...Option) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	r := &Runner{
		processor: processor,
		opts:      opts,
		accept:    registry.Supports,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// Run scans, processes, persists and archives. Per-file problems are reported
// in the Result and never returned as errors; the error is reserved for
// run-level problems. When ctx is cancelled mid-run, files already processed
// are still persisted and ctx.Err() is returned alongside the Result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := r.now()

	r.enter(StateScanning)
	files, err := Scan(r.opts.InputDir, r.accept)
	if err != nil {
		return nil, err
	}
	r.logger.Info("batch.scan.completed", "input_dir", r.opts.InputDir, "files", len(files))
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, r.opts.InputDir)
	}
	if err := os.MkdirAll(filepath.Join(r.opts.OutputDir, ParsedDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	r.enter(StateProcessing)
	outcomes, procErr := r.process(ctx, files)

	r.enter(StateAggregating)
	res := &Result{
		Manifest: types.NewManifest(r.runID, started, r.opts.InputDir, r.opts.Archive),
		Failures: []types.FailureEntry{},
	}
	r.aggregate(res, files, outcomes)
	if err := writeFailures(r.opts.OutputDir, res.Failures); err != nil {
		return res, err
	}

	if r.opts.Archive {
		r.enter(StateArchiving)
		r.archive(res)
	}

	for _, f := range res.Files {
		if f.Outcome.OK() {
			res.Manifest.AddSuccess(types.ManifestEntry{
				SourceFile:   f.Outcome.Data().SourceFile(),
				OutputFile:   f.OutputFile,
				ParsedAt:     f.Outcome.Data().ParsedAt(),
				ArchivedTo:   f.ArchivedTo,
				ArchiveError: f.ArchiveError,
			})
		} else {
			res.Manifest.AddFailure()
		}
	}
	if err := writeManifest(r.opts.OutputDir, res.Manifest); err != nil {
		return res, err
	}

	r.publish(ctx, res)

	r.enter(StateDone)
	r.logger.Info("batch.run.completed",
		"run_id", res.Manifest.RunID,
		"total", res.Manifest.TotalFiles,
		"succeeded", res.Manifest.Succeeded,
		"failed", res.Manifest.Failed,
		"duration", time.Since(started).Round(time.Millisecond).String(),
	)
	return res, procErr
}

// process runs the processor over files with at most Workers in flight.
// Each goroutine writes only its own slot; unscheduled slots stay zero.
func (r *Runner) process(ctx context.Context, files []SourceFile) ([]types.Outcome, error) {
	outcomes := make([]types.Outcome, len(files))

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			o := r.processor.Run(ctx, f.Path)
			if o.OK() {
				r.logger.Info("batch.file.parsed", "file", f.Rel)
			} else {
				r.logger.Warn("batch.file.failed", "file", f.Rel, "kind", string(o.Kind()), "error", o.ErrorDescription())
			}
			outcomes[i] = o
			return nil
		})
	}
	_ = g.Wait()
	return outcomes, ctx.Err()
}

func (r *Runner) aggregate(res *Result, files []SourceFile, outcomes []types.Outcome) {
	names := nameAllocator{}
	for i, f := range files {
		o := outcomes[i]
		if o.Path() == "" {
			continue
		}
		fr := FileResult{Source: f.Path, Rel: f.Rel, Outcome: o}
		if o.OK() {
			out, err := writeArtifact(r.opts.OutputDir, names, o)
			if err != nil {
				r.logger.Error("batch.artifact.failed", "file", f.Rel, "error", err)
				fr.Outcome = types.Failure(f.Path, types.FailureOutputError, err)
			} else {
				fr.OutputFile = out
			}
		}
		if !fr.Outcome.OK() {
			res.Failures = append(res.Failures, types.FailureEntry{
				File:  f.Path,
				Error: fr.Outcome.ErrorDescription(),
				Kind:  fr.Outcome.Kind(),
			})
		}
		res.Files = append(res.Files, fr)
		if r.onFile != nil {
			r.onFile(fr)
		}
	}
}

// archive moves successful originals below <ArchiveDir>/<run timestamp>/.
// Failures are recorded on the file and never revoke its success.
func (r *Runner) archive(res *Result) {
	root := filepath.Join(r.opts.ArchiveDir, res.Manifest.RunTimestamp)
	for i := range res.Files {
		f := &res.Files[i]
		if !f.Outcome.OK() {
			continue
		}
		dst := filepath.Join(root, filepath.FromSlash(f.Rel))
		if err := moveFile(f.Source, dst); err != nil {
			f.ArchiveError = err.Error()
			r.logger.Warn("batch.archive.failed", "file", f.Rel, "error", err)
			continue
		}
		f.ArchivedTo = dst
		r.logger.Debug("batch.archive.moved", "file", f.Rel, "to", dst)
	}
}

// publish hands the result to the optional sinks. Sink errors are logged only.
func (r *Runner) publish(ctx context.Context, res *Result) {
	if r.report != nil {
		if err := r.report.WriteReport(res); err != nil {
			r.logger.Error("batch.report.failed", "error", err)
		}
	}
	if r.recorder != nil {
		if err := r.recorder.RecordRun(context.WithoutCancel(ctx), res.Manifest, res.Failures); err != nil {
			r.logger.Error("batch.record.failed", "error", err)
		}
	}
}

func (r *Runner) enter(s State) {
	r.logger.Debug("batch.state", "state", string(s))
	if r.onState != nil {
		r.onState(s)
	}
}
