package observability

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-parser/internal/types"
)

var parsedAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	data := types.NewResumeData(types.StringPtr("Jane Doe"), nil,
		[]string{"Go", "Rust", "SQL", "AWS", "Docker", "Kubernetes", "Terraform"}, "jane.pdf", parsedAt)
	p.PrintResume(types.Success("in/jane.pdf", data, []types.FieldDiagnostic{
		{Field: "skills", Status: types.FieldFailed, Error: "quota exceeded"},
	}))
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME")
	assert.Contains(t, output, "jane.pdf")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Email:    (none)")
	assert.Contains(t, output, "Skills (7):")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "Terraform")
	assert.Contains(t, output, "skills: quota exceeded")
}

func TestPrintResume_Failure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(types.Failure("x.pdf", types.FailureCorruptDocument, errors.New("bad")))

	assert.Empty(t, buf.String())
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	m := types.NewManifest("run-1", parsedAt, "resumes", true)
	m.AddSuccess(types.ManifestEntry{SourceFile: "a.pdf", OutputFile: "parsed/a.json", ArchivedTo: "archive/a.pdf"})
	var failures []types.FailureEntry
	for i := 0; i < 7; i++ {
		m.AddFailure()
		failures = append(failures, types.FailureEntry{
			File: fmt.Sprintf("resumes/bad%d.docx", i), Error: "corrupt", Kind: types.FailureCorruptDocument,
		})
	}

	p.PrintBatchSummary(m, failures)
	output := buf.String()

	assert.Contains(t, output, "BATCH COMPLETE")
	assert.Contains(t, output, "2026-03-14_092653")
	assert.Contains(t, output, "Total:     8")
	assert.Contains(t, output, "Succeeded: 1")
	assert.Contains(t, output, "Failed:    7")
	assert.Contains(t, output, "Archived:  1")
	assert.Contains(t, output, "resumes/bad0.docx [corrupt_document]")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintBatchSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchSummary(nil, nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
