package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

// Output layout below the output directory.
const (
	ParsedDir    = "parsed"
	ManifestFile = "manifest.json"
	ErrorsFile   = "errors.json"
)

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// SanitizeName turns a source file name into a lower-case artifact stem:
// the extension is dropped, runs of non-word characters become "_" and
// leading or trailing underscores are trimmed. An empty result is "unnamed".
func SanitizeName(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	clean := strings.Trim(reNonWord.ReplaceAllString(strings.ToLower(stem), "_"), "_")
	if clean == "" {
		return "unnamed"
	}
	return clean
}

// nameAllocator hands out unique artifact stems within one run.
type nameAllocator map[string]bool

func (n nameAllocator) allocate(stem string) string {
	name := stem
	for i := 2; n[name]; i++ {
		name = fmt.Sprintf("%s_%d", stem, i)
	}
	n[name] = true
	return name
}

// writeArtifact persists one success and returns its path relative to outputDir.
// Diagnostics are included only when a field failed.
func writeArtifact(outputDir string, names nameAllocator, outcome types.Outcome) (string, error) {
	data := outcome.Data()

	var diagnostics []types.FieldDiagnostic
	if len(outcome.FailedFields()) > 0 {
		diagnostics = outcome.Diagnostics()
	}
	raw, err := data.MarshalArtifact(diagnostics)
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := schemas.Validate(schemas.ResumeData, raw); err != nil {
		return "", fmt.Errorf("artifact failed validation: %w", err)
	}

	rel := ParsedDir + "/" + names.allocate(SanitizeName(data.SourceFile())) + ".json"
	if err := writeFile(filepath.Join(outputDir, filepath.FromSlash(rel)), raw); err != nil {
		return "", err
	}
	return rel, nil
}

// writeFailures writes errors.json, or removes a stale one when there are no failures.
func writeFailures(outputDir string, failures []types.FailureEntry) error {
	path := filepath.Join(outputDir, ErrorsFile)
	if len(failures) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale %s: %w", ErrorsFile, err)
		}
		return nil
	}
	return writeValidated(path, schemas.Failures, failures)
}

func writeManifest(outputDir string, m *types.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return writeValidated(filepath.Join(outputDir, ManifestFile), schemas.Manifest, m)
}

func writeValidated(path, schema string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := schemas.Validate(schema, raw); err != nil {
		return fmt.Errorf("%s failed validation: %w", filepath.Base(path), err)
	}
	return writeFile(path, raw)
}

func writeFile(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
