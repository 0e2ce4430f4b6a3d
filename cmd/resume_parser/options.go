package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/documents"
	"github.com/jonathan/resume-parser/internal/extraction"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/schemas"
)

// options holds the raw flag values. Resolution against the config file and
// defaults happens in resolve.
type options struct {
	configPath string
	verbose    bool
	logFormat  string
	apiKey     string
	noLLM      bool
	noNER      bool
	format     string

	inputDir    string
	outputDir   string
	archiveDir  string
	noArchive   bool
	workers     int
	report      string
	databaseURL string
}

func (o *options) bindPersistent(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "Path to JSON config file")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Print detailed output and debug logs")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: text or json (default text)")
	f.StringVar(&o.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	f.BoolVar(&o.noLLM, "no-llm", false, "Skip language-model strategies even if an API key exists")
	f.BoolVar(&o.noNER, "no-ner", false, "Skip named-entity recognition for names")
	f.StringVar(&o.format, "format", "", "Force a document format (pdf, docx, html, text) instead of detecting by extension")
}

func (o *options) bindBatch(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.inputDir, "input-dir", "", "Directory to scan for resume files (default resumes)")
	f.StringVar(&o.outputDir, "output-dir", "", "Directory for output JSON files (default output)")
	f.StringVar(&o.archiveDir, "archive-dir", "", "Directory for archived resumes (default archive)")
	f.BoolVar(&o.noArchive, "no-archive", false, "Skip archiving processed files")
	f.IntVar(&o.workers, "workers", 0, "Number of files processed concurrently (default 1)")
	f.StringVar(&o.report, "report", "", "Also write an XLSX report to this path")
	f.StringVar(&o.databaseURL, "db-url", "", "Record the run in PostgreSQL (overrides DATABASE_URL env var)")
}

// resolve merges flags over the config file over defaults, then the environment.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	file := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		file = loaded
	}
	cfg := file.MergeWithDefaults(config.Defaults())

	flags := cmd.Flags()
	setString := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v bool) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setString("input-dir", &cfg.InputDir, o.inputDir)
	setString("output-dir", &cfg.OutputDir, o.outputDir)
	setString("archive-dir", &cfg.ArchiveDir, o.archiveDir)
	setString("report", &cfg.Report, o.report)
	setString("db-url", &cfg.DatabaseURL, o.databaseURL)
	setString("api-key", &cfg.APIKey, o.apiKey)
	setString("format", &cfg.Format, o.format)
	setString("log-format", &cfg.LogFormat, o.logFormat)
	setBool("no-archive", &cfg.NoArchive, o.noArchive)
	setBool("no-llm", &cfg.NoLLM, o.noLLM)
	setBool("no-ner", &cfg.NoNER, o.noNER)
	setBool("verbose", &cfg.Verbose, o.verbose)
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}

	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// components is everything a command needs to process documents.
type components struct {
	registry *documents.Registry
	pipeline *pipeline.Pipeline
	override documents.Extractor
	closers  []func() error
}

func (c *components) Close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}

// build wires the registry, strategies and pipeline. A language model that
// cannot be initialised is logged and left out; the other strategies still run.
func build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*components, error) {
	if err := schemas.Preload(); err != nil {
		return nil, err
	}
	c := &components{registry: documents.DefaultRegistry()}

	chains := cfg.ChainConfig()
	caps := extraction.Capabilities{
		SkillKeywords: cfg.SkillKeywords,
		ModelTimeout:  cfg.ModelTimeout(),
	}
	if !cfg.NoNER {
		caps.Entities = extraction.NewProseRecognizer()
	}
	if !cfg.NoLLM && cfg.APIKey != "" {
		llmCfg := llm.DefaultConfig()
		if cfg.LiteModel != "" {
			llmCfg = llmCfg.WithModel(llm.TierLite, cfg.LiteModel)
		}
		if cfg.StandardModel != "" {
			llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.StandardModel)
		}
		client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
		if err != nil {
			logger.Warn("llm.init.failed", "error", err)
		} else {
			caps.LLM = client
			c.closers = append(c.closers, client.Close)
			logger.Info("llm.init", "lite_model", client.GetModel(llm.TierLite), "standard_model", client.GetModel(llm.TierStandard))
		}
	}

	coord, err := extraction.BuildCoordinator(chains, caps, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	for field, ids := range coord.Chains() {
		logger.Debug("chain.configured", "field", string(field), "strategies", ids)
	}

	popts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Format != "" {
		e, err := documents.ParseFormat(cfg.Format)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("invalid --format: %w", err)
		}
		c.override = e
		popts = append(popts, pipeline.WithExtractor(e))
	}
	c.pipeline = pipeline.New(c.registry, coord, popts...)
	return c, nil
}
