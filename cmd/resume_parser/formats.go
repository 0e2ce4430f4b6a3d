package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/documents"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported document formats and their extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := documents.DefaultRegistry()
			for _, name := range registry.Formats() {
				e, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", name, strings.Join(e.Extensions(), " "))
			}
			return nil
		},
	}
}
