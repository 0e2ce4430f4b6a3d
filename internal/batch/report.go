package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Report sheet names.
const (
	ResumesSheet = "Resumes"
	SummarySheet = "Summary"
)

var reportHeaders = []string{
	"Source File",
	"Status",
	"Name",
	"Email",
	"Skills",
	"Output File",
	"Archived To",
	"Error",
}

// XLSXReport writes a spreadsheet with one row per processed file and a summary sheet.
type XLSXReport struct {
	Path string
}

// NewXLSXReport creates a report sink writing to path.
func NewXLSXReport(path string) *XLSXReport {
	return &XLSXReport{Path: path}
}

// WriteReport renders res and saves the workbook.
func (x *XLSXReport) WriteReport(res *Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// Rename the default sheet so the workbook opens on the file list.
	if err := f.SetSheetName("Sheet1", ResumesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(ResumesSheet, cell, h)
	}

	for i, file := range res.Files {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(ResumesSheet, cell, v)
		}

		write(1, file.Rel)
		if data := file.Outcome.Data(); data != nil {
			write(2, "parsed")
			write(3, data.NameOrEmpty())
			write(4, data.EmailOrEmpty())
			write(5, strings.Join(data.Skills(), ", "))
		} else {
			write(2, string(file.Outcome.Kind()))
		}
		write(6, file.OutputFile)
		write(7, file.ArchivedTo)
		errText := file.Outcome.ErrorDescription()
		if errText == "" {
			errText = file.ArchiveError
		}
		write(8, truncate(errText, 200))
	}

	_ = f.SetColWidth(ResumesSheet, "A", "A", 32)
	_ = f.SetColWidth(ResumesSheet, "B", "B", 18)
	_ = f.SetColWidth(ResumesSheet, "C", "D", 28)
	_ = f.SetColWidth(ResumesSheet, "E", "E", 48)
	_ = f.SetColWidth(ResumesSheet, "F", "H", 36)

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	m := res.Manifest
	summary := [][2]any{
		{"Run ID", m.RunID},
		{"Run Timestamp", m.RunTimestamp},
		{"Input Directory", m.InputDir},
		{"Total Files", m.TotalFiles},
		{"Succeeded", m.Succeeded},
		{"Failed", m.Failed},
		{"Archived", m.Archived},
	}
	for i, kv := range summary {
		_ = f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 18)
	_ = f.SetColWidth(SummarySheet, "B", "B", 40)

	if err := os.MkdirAll(filepath.Dir(x.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := f.SaveAs(x.Path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", x.Path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
