package documents

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var formatAliases = map[string]string{"txt": "text", "htm": "html"}

// Registry maps normalized file extensions to extractors.
// It is populated at construction and read-only afterwards.
type Registry struct {
	byExt  map[string]Extractor
	byName map[string]Extractor
}

// NewRegistry creates a registry holding the given extractors.
// Later extractors win when two claim the same extension.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{
		byExt:  make(map[string]Extractor),
		byName: make(map[string]Extractor),
	}
	for _, e := range extractors {
		r.register(e)
	}
	return r
}

// DefaultRegistry returns a registry with every built-in extractor.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewPDFExtractor(),
		NewDOCXExtractor(),
		NewHTMLExtractor(),
		NewPlainTextExtractor(),
	)
}

// Register adds e, replacing any extractor that claims the same extensions.
// Call it before the registry is shared.
func (r *Registry) Register(e Extractor) {
	r.register(e)
}

func (r *Registry) register(e Extractor) {
	r.byName[strings.ToLower(e.Name())] = e
	for _, ext := range e.Extensions() {
		r.byExt[normalizeExt(ext)] = e
	}
}

// Resolve returns the extractor registered for path's extension (case-insensitive).
func (r *Registry) Resolve(path string) (Extractor, error) {
	ext := normalizeExt(filepath.Ext(path))
	if e, ok := r.byExt[ext]; ok {
		return e, nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return nil, &DocumentError{
		Kind: ErrUnsupportedFormat,
		Path: path,
		Err:  fmt.Errorf("extension %s, supported: %s", ext, strings.Join(r.Extensions(), ", ")),
	}
}

// ResolveWith returns override when non-nil, bypassing extension lookup.
func (r *Registry) ResolveWith(path string, override Extractor) (Extractor, error) {
	if override != nil {
		return override, nil
	}
	return r.Resolve(path)
}

// Lookup returns the extractor registered under a format name such as "pdf".
func (r *Registry) Lookup(name string) (Extractor, error) {
	if e, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return e, nil
	}
	return nil, &DocumentError{Kind: ErrUnsupportedFormat, Format: name}
}

// ParseFormat maps a format name from the command line to a built-in extractor.
// "txt" and "htm" are accepted as aliases.
func ParseFormat(name string) (Extractor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[name]; ok {
		name = alias
	}
	return DefaultRegistry().Lookup(name)
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
