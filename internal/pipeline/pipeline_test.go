package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/documents"
	"github.com/jonathan/resume-parser/internal/extraction"
	"github.com/jonathan/resume-parser/internal/testutil"
	"github.com/jonathan/resume-parser/internal/types"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord, err := extraction.BuildCoordinator(extraction.DefaultChainConfig(), extraction.Capabilities{}, logger)
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithLogger(logger)}, opts...)
	return New(documents.DefaultRegistry(), coord, opts...)
}

func TestRun_PDFSuccess(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "jane.pdf", testutil.MinimalPDF(
		"Jane Doe",
		"jane.doe@example.com",
		"Skills: Go, Kubernetes, PostgreSQL",
	))

	outcome := newTestPipeline(t).Run(context.Background(), path)

	require.True(t, outcome.OK(), outcome.ErrorDescription())
	data := outcome.Data()
	assert.Equal(t, "Jane Doe", data.NameOrEmpty())
	assert.Equal(t, "jane.doe@example.com", data.EmailOrEmpty())
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, data.Skills())
	assert.Equal(t, "jane.pdf", data.SourceFile())
	assert.Equal(t, fixedNow.UTC(), data.ParsedAt())
	assert.Equal(t, path, outcome.Path())
	assert.Len(t, outcome.Diagnostics(), 3)
	assert.Empty(t, outcome.FailedFields())
}

func TestRun_DOCXSuccess(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "john.docx", testutil.MinimalDOCX(
		[]string{"John Smith", "john.smith@example.org"},
		testutil.DOCXTable{{"Languages", "Python, Rust"}},
	))

	outcome := newTestPipeline(t).Run(context.Background(), path)

	require.True(t, outcome.OK(), outcome.ErrorDescription())
	assert.Equal(t, "John Smith", outcome.Data().NameOrEmpty())
	assert.Equal(t, []string{"Python", "Rust"}, outcome.Data().Skills())
}

func TestRun_DocumentFailures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		kind types.FailureKind
		is   error
	}{
		{
			name: "unsupported",
			path: testutil.WriteFile(t, dir, "photo.png", []byte{0x89, 'P', 'N', 'G'}),
			kind: types.FailureUnsupportedFormat,
			is:   documents.ErrUnsupportedFormat,
		},
		{
			name: "corrupt",
			path: testutil.WriteFile(t, dir, "broken.docx", testutil.Truncate(testutil.MinimalDOCX([]string{"Jane"}), 50)),
			kind: types.FailureCorruptDocument,
			is:   documents.ErrCorruptDocument,
		},
		{
			name: "empty",
			path: testutil.WriteFile(t, dir, "blank.txt", []byte("\n\n  \n")),
			kind: types.FailureEmptyDocument,
			is:   documents.ErrEmptyDocument,
		},
		{
			name: "missing",
			path: filepath.Join(dir, "gone.pdf"),
			kind: types.FailureReadError,
			is:   documents.ErrReadFailed,
		},
	}

	p := newTestPipeline(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := p.Run(context.Background(), tt.path)

			assert.False(t, outcome.OK())
			assert.Nil(t, outcome.Data())
			assert.Equal(t, tt.kind, outcome.Kind())
			assert.True(t, errors.Is(outcome.Err(), tt.is), "got %v", outcome.Err())
			assert.Contains(t, outcome.ErrorDescription(), tt.path)
		})
	}
}

func TestRun_ExtractorOverride(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "resume.dat", []byte("Grace Hopper\ngrace@navy.mil\nCOBOL"))

	withoutOverride := newTestPipeline(t).Run(context.Background(), path)
	assert.Equal(t, types.FailureUnsupportedFormat, withoutOverride.Kind())

	outcome := newTestPipeline(t, WithExtractor(documents.NewPlainTextExtractor())).Run(context.Background(), path)
	require.True(t, outcome.OK(), outcome.ErrorDescription())
	assert.Equal(t, "Grace Hopper", outcome.Data().NameOrEmpty())
}

type failingSkills struct{}

func (failingSkills) Name() string { return "llm" }

func (failingSkills) Extract(context.Context, string) ([]string, bool, error) {
	return nil, false, errors.New("quota exceeded")
}

func TestRun_FieldFailureDoesNotFailDocument(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "jane.txt", []byte("Jane Doe <jane.doe@example.com>"))

	base := newTestPipeline(t)
	coord, err := extraction.BuildCoordinator(extraction.DefaultChainConfig(), extraction.Capabilities{}, nil)
	require.NoError(t, err)
	p := New(base.registry, coord.WithResolver(extraction.SkillsChain(nil, failingSkills{})), WithClock(base.now))

	outcome := p.Run(context.Background(), path)

	require.True(t, outcome.OK())
	assert.Equal(t, "Jane Doe", outcome.Data().NameOrEmpty())
	assert.Empty(t, outcome.Data().Skills())
	require.Len(t, outcome.FailedFields(), 1)
	assert.Equal(t, "skills", outcome.FailedFields()[0].Field)
	assert.Contains(t, outcome.FailedFields()[0].Error, "quota exceeded")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := newTestPipeline(t).Run(ctx, "anything.pdf")

	assert.False(t, outcome.OK())
	assert.ErrorIs(t, outcome.Err(), context.Canceled)
}

func TestRun_ConcurrentUse(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t)

	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		paths = append(paths, testutil.WriteFile(t, dir, name, []byte("Jane Doe\njane@example.com\nGo")))
	}

	var wg sync.WaitGroup
	outcomes := make([]types.Outcome, len(paths))
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			outcomes[i] = p.Run(context.Background(), path)
		}(i, path)
	}
	wg.Wait()

	for i, o := range outcomes {
		require.True(t, o.OK())
		assert.Equal(t, filepath.Base(paths[i]), o.Data().SourceFile())
		assert.Equal(t, []string{"Go"}, o.Data().Skills())
	}
}
