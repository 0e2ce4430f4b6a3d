// Package documents turns resume files into plain text. Each supported document
// family has an Extractor; a Registry selects one by file extension.
package documents

import (
	"fmt"
	"os"
)

// Extractor renders one document family as plain text.
type Extractor interface {
	// Name is a short format identifier such as "pdf".
	Name() string
	// Extensions lists lower-case extensions including the dot.
	Extensions() []string
	// Validate checks that data is syntactically well-formed for the format.
	Validate(data []byte) error
	// ExtractText decodes data into raw text. It is only called after Validate succeeds.
	ExtractText(data []byte) (string, error)
}

// Extract validates data, extracts its text and normalizes it with CleanText.
// Validation and decode failures are reported as ErrCorruptDocument and a document
// without text as ErrEmptyDocument.
func Extract(e Extractor, data []byte) (text string, err error) {
	// Third-party decoders may panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = corrupt(e.Name(), fmt.Errorf("decoder panic: %v", r))
		}
	}()

	if len(data) == 0 {
		return "", &DocumentError{Kind: ErrEmptyDocument, Format: e.Name(), Err: fmt.Errorf("file has no content")}
	}
	if err := e.Validate(data); err != nil {
		return "", asCorrupt(e.Name(), err)
	}

	raw, err := e.ExtractText(data)
	if err != nil {
		return "", asCorrupt(e.Name(), err)
	}

	text = CleanText(raw)
	if text == "" {
		return "", &DocumentError{Kind: ErrEmptyDocument, Format: e.Name()}
	}
	return text, nil
}

// ExtractFile reads path and runs Extract. Errors carry the path.
func ExtractFile(e Extractor, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &DocumentError{Kind: ErrReadFailed, Path: path, Err: err}
	}
	text, err := Extract(e, data)
	if err != nil {
		return "", withPath(path, err)
	}
	return text, nil
}

// asCorrupt keeps existing DocumentErrors and wraps anything else as corrupt.
func asCorrupt(format string, err error) error {
	if _, ok := err.(*DocumentError); ok {
		return err
	}
	return corrupt(format, err)
}
