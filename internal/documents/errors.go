package documents

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	// ErrUnsupportedFormat is returned when no extractor is registered for a file extension
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCorruptDocument is returned when a document is not well-formed for its format
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrEmptyDocument is returned when a well-formed document yields no text
	ErrEmptyDocument = errors.New("empty document")
	// ErrReadFailed is returned when a document cannot be read from disk
	ErrReadFailed = errors.New("read failed")
)

// DocumentError is a document-level failure. Kind is one of the sentinel errors above.
type DocumentError struct {
	Kind   error
	Path   string
	Format string
	Err    error
}

func (e *DocumentError) Error() string {
	subject := e.Path
	if subject == "" {
		subject = e.Format
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, subject, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, subject)
}

// Is matches the sentinel kind so callers can use errors.Is(err, ErrCorruptDocument).
func (e *DocumentError) Is(target error) bool {
	return target == e.Kind
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func corrupt(format string, err error) error {
	return &DocumentError{Kind: ErrCorruptDocument, Format: format, Err: err}
}

// withPath attaches path to a DocumentError, or wraps err as corrupt when it is not one.
func withPath(path string, err error) error {
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		cp := *docErr
		cp.Path = path
		return &cp
	}
	return &DocumentError{Kind: ErrCorruptDocument, Path: path, Err: err}
}

// FailureKind classifies an error for errors.json.
func FailureKind(err error) types.FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return types.FailureUnsupportedFormat
	case errors.Is(err, ErrCorruptDocument):
		return types.FailureCorruptDocument
	case errors.Is(err, ErrEmptyDocument):
		return types.FailureEmptyDocument
	case errors.Is(err, ErrReadFailed):
		return types.FailureReadError
	default:
		return types.FailureUnknown
	}
}
