package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/documents"
	"github.com/jonathan/resume-parser/internal/testutil"
)

func TestScan_RecursiveSortedSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{
		"zed.pdf",
		"b/resume.DOCX",
		"a/nested/deep.html",
		"notes.md",
		".hidden.pdf",
		".cache/cached.pdf",
		"b/.DS_Store",
	} {
		testutil.WriteFile(t, dir, rel, []byte("x"))
	}

	files, err := Scan(dir, documents.DefaultRegistry().Supports)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
		assert.Equal(t, filepath.Join(dir, filepath.FromSlash(f.Rel)), f.Path)
	}
	assert.Equal(t, []string{"a/nested/deep.html", "b/resume.DOCX", "zed.pdf"}, rels)
}

func TestScan_MissingDirectory(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"), func(string) bool { return true })
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_NotADirectory(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "file.pdf", []byte("x"))

	_, err := Scan(path, func(string) bool { return true })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe Resume.pdf", "john_doe_resume"},
		{"jane-doe.docx", "jane_doe"},
		{"__weird__name__.pdf", "weird__name"},
		{"Résumé (final).pdf", "résumé_final"},
		{"sub/dir/CV.PDF", "cv"},
		{"!!!.pdf", "unnamed"},
		{".pdf", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestNameAllocator_Collisions(t *testing.T) {
	names := nameAllocator{}

	assert.Equal(t, "jane_doe", names.allocate("jane_doe"))
	assert.Equal(t, "jane_doe_2", names.allocate("jane_doe"))
	assert.Equal(t, "jane_doe_3", names.allocate("jane_doe"))
	assert.Equal(t, "john", names.allocate("john"))
}

func TestNameAllocator_SkipsTakenSuffix(t *testing.T) {
	names := nameAllocator{}

	assert.Equal(t, "cv_2", names.allocate("cv_2"))
	assert.Equal(t, "cv", names.allocate("cv"))
	assert.Equal(t, "cv_3", names.allocate("cv"))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "in/a.pdf", []byte("content"))
	dst := filepath.Join(dir, "archive", "run", "a.pdf")

	require.NoError(t, moveFile(src, dst))

	assert.NoFileExists(t, src)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(got))
}

func TestMoveFile_MissingSource(t *testing.T) {
	dir := t.TempDir()

	err := moveFile(filepath.Join(dir, "nope.pdf"), filepath.Join(dir, "archive", "nope.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "a.txt", []byte("hello"))
	dst := filepath.Join(dir, "b.txt")

	require.NoError(t, copyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.FileExists(t, src)
}
