// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResume outputs the fields extracted from one document.
func (p *Printer) PrintResume(outcome types.Outcome) {
	data := outcome.Data()
	if data == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", data.SourceFile()))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orNone(data.NameOrEmpty())))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orNone(data.EmailOrEmpty())))

	skills := data.Skills()
	if len(skills) == 0 {
		sb.WriteString("Skills:   (none)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(skills)))
		count := min(len(skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
		}
		if len(skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
		}
	}

	if failed := outcome.FailedFields(); len(failed) > 0 {
		sb.WriteString("\nField errors:\n")
		for _, d := range failed {
			sb.WriteString(fmt.Sprintf("  ✗ %s: %s\n", d.Field, d.Error))
		}
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchSummary outputs run totals and the failed files.
func (p *Printer) PrintBatchSummary(manifest *types.Manifest, failures []types.FailureEntry) {
	if manifest == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", manifest.RunTimestamp))
	sb.WriteString(fmt.Sprintf("Total:     %d\n", manifest.TotalFiles))
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", manifest.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", manifest.Failed))

	archived := 0
	for _, e := range manifest.ParsedFiles {
		if e.ArchivedTo != "" {
			archived++
		}
	}
	if manifest.Archived {
		sb.WriteString(fmt.Sprintf("Archived:  %d\n", archived))
	}

	if len(failures) > 0 {
		sb.WriteString("\nFailures:\n")
		count := min(len(failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ✗ %s [%s]\n", failures[i].File, failures[i].Kind))
		}
		if len(failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failures)-maxItemsToShow))
		}
	}

	p.printBox("BATCH COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
