package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/observability"
)

func newParseFileCmd(opts *options) *cobra.Command {
	var diagnostics bool
	cmd := &cobra.Command{
		Use:   "parse-file <path>",
		Short: "Parse a single resume and print its ResumeData JSON",
		Long: "Parse a single resume file and print the extracted name, email and skills as JSON. " +
			"Nothing is written to disk and the file is not archived.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			comps, err := build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer comps.Close()

			outcome := comps.pipeline.Run(cmd.Context(), args[0])
			if !outcome.OK() {
				return &exitError{code: exitFailures, err: fmt.Errorf("%s: %s", outcome.Kind(), outcome.ErrorDescription())}
			}
			if cfg.Verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintResume(outcome)
			}

			var raw []byte
			if diagnostics {
				raw, err = outcome.Data().MarshalArtifact(outcome.Diagnostics())
			} else {
				raw, err = json.MarshalIndent(outcome.Data(), "", "  ")
			}
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "Include per-field strategy diagnostics")
	return cmd
}
