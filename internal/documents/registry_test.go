package documents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Resolve(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		path string
		want string
	}{
		{"resumes/jane.pdf", "pdf"},
		{"resumes/JANE.PDF", "pdf"},
		{"john.docx", "docx"},
		{"page.HTM", "html"},
		{"page.html", "html"},
		{"notes.txt", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Name())
			assert.True(t, r.Supports(tt.path))
		})
	}
}

func TestRegistry_ResolveUnsupported(t *testing.T) {
	r := DefaultRegistry()

	for _, path := range []string{"photo.png", "README", "archive.tar.gz"} {
		_, err := r.Resolve(path)
		require.Error(t, err, path)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
		assert.False(t, r.Supports(path))
	}

	_, err := r.Resolve("README")
	assert.Contains(t, err.Error(), "(none)")
}

func TestRegistry_ResolveWithOverride(t *testing.T) {
	r := DefaultRegistry()
	override := NewPlainTextExtractor()

	e, err := r.ResolveWith("resume.unknown", override)
	require.NoError(t, err)
	assert.Same(t, override, e)

	e, err = r.ResolveWith("resume.docx", nil)
	require.NoError(t, err)
	assert.Equal(t, "docx", e.Name())
}

func TestRegistry_RegisterReplacesExtension(t *testing.T) {
	r := NewRegistry(NewPlainTextExtractor())
	r.Register(&markdownExtractor{})

	e, err := r.Resolve("cv.md")
	require.NoError(t, err)
	assert.Equal(t, "markdown", e.Name())

	e, err = r.Resolve("cv.txt")
	require.NoError(t, err)
	assert.Equal(t, "markdown", e.Name())
}

func TestRegistry_Listings(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{".docx", ".htm", ".html", ".pdf", ".txt"}, r.Extensions())
	assert.Equal(t, []string{"docx", "html", "pdf", "text"}, r.Formats())
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]string{"pdf": "pdf", "DOCX": "docx", "txt": "text", "htm": "html", " text ": "text"} {
		e, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, e.Name())
	}

	_, err := ParseFormat("rtf")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

type markdownExtractor struct{ PlainTextExtractor }

func (m *markdownExtractor) Name() string { return "markdown" }

func (m *markdownExtractor) Extensions() []string { return []string{"md", ".TXT"} }
