package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/batch"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/observability"
)

func runBatch(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)
	ctx := cmd.Context()

	comps, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	runOpts := []batch.Option{batch.WithLogger(logger)}
	if comps.override != nil {
		runOpts = append(runOpts, batch.WithFilter(func(string) bool { return true }))
	}
	if cfg.Verbose {
		runOpts = append(runOpts, batch.OnFile(func(f batch.FileResult) {
			printer.PrintResume(f.Outcome)
		}))
	}
	if cfg.Report != "" {
		runOpts = append(runOpts, batch.WithReport(batch.NewXLSXReport(cfg.Report)))
	}
	if cfg.DatabaseURL != "" {
		database, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("db.connect.failed", "error", err)
		} else {
			defer database.Close()
			runOpts = append(runOpts, batch.WithRecorder(database))
		}
	}

	runner := batch.NewRunner(comps.registry, comps.pipeline, batch.Options{
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		ArchiveDir: cfg.ArchiveDir,
		Archive:    !cfg.NoArchive,
		Workers:    cfg.Workers,
	}, runOpts...)

	res, err := runner.Run(ctx)
	if err != nil && res == nil {
		if errors.Is(err, batch.ErrNoFiles) || errors.Is(err, fs.ErrNotExist) {
			logger.Warn("batch.no_files", "input_dir", cfg.InputDir, "error", err)
			return &exitError{code: exitNoFiles}
		}
		return err
	}

	printer.PrintBatchSummary(res.Manifest, res.Failures)
	if err != nil {
		return &exitError{code: exitFailures, err: err}
	}
	if res.HasFailures() {
		return &exitError{code: exitFailures}
	}
	return nil
}

func connectDB(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
