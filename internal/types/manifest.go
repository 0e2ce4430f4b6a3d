package types

import (
	"fmt"
	"time"
)

// RunTimestampLayout formats run timestamps used for manifests and archive folders.
const RunTimestampLayout = "2006-01-02_150405"

// Manifest summarizes one batch run and indexes its successful outputs.
type Manifest struct {
	RunID        string          `json:"run_id"`
	RunTimestamp string          `json:"run_timestamp"`
	InputDir     string          `json:"input_dir"`
	TotalFiles   int             `json:"total_files"`
	Succeeded    int             `json:"succeeded"`
	Failed       int             `json:"failed"`
	Archived     bool            `json:"archived"`
	ParsedFiles  []ManifestEntry `json:"parsed_files"`
}

// ManifestEntry indexes one persisted success.
type ManifestEntry struct {
	SourceFile   string    `json:"source_file"`
	OutputFile   string    `json:"output_file"` // relative to the output directory
	ParsedAt     time.Time `json:"parsed_at"`
	ArchivedTo   string    `json:"archived_to,omitempty"`
	ArchiveError string    `json:"archive_error,omitempty"`
}

// FailureEntry is one element of errors.json.
type FailureEntry struct {
	File  string      `json:"file"`
	Error string      `json:"error"`
	Kind  FailureKind `json:"kind"`
}

// NewManifest starts an empty manifest for a run.
func NewManifest(runID string, startedAt time.Time, inputDir string, archived bool) *Manifest {
	return &Manifest{
		RunID:        runID,
		RunTimestamp: startedAt.Format(RunTimestampLayout),
		InputDir:     inputDir,
		Archived:     archived,
		ParsedFiles:  []ManifestEntry{},
	}
}

// AddSuccess records one persisted success.
func (m *Manifest) AddSuccess(entry ManifestEntry) {
	m.ParsedFiles = append(m.ParsedFiles, entry)
	m.Succeeded++
	m.TotalFiles++
}

// AddFailure counts one failed file.
func (m *Manifest) AddFailure() {
	m.Failed++
	m.TotalFiles++
}

// Validate checks the count invariants of the manifest.
func (m *Manifest) Validate() error {
	if m.Succeeded+m.Failed != m.TotalFiles {
		return fmt.Errorf("manifest counts inconsistent: succeeded=%d failed=%d total=%d",
			m.Succeeded, m.Failed, m.TotalFiles)
	}
	if len(m.ParsedFiles) != m.Succeeded {
		return fmt.Errorf("manifest index has %d entries for %d successes",
			len(m.ParsedFiles), m.Succeeded)
	}
	return nil
}
