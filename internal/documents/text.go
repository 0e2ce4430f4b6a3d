package documents

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainTextExtractor accepts UTF-8 text files.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor { return &PlainTextExtractor{} }

func (e *PlainTextExtractor) Name() string { return "text" }

func (e *PlainTextExtractor) Extensions() []string { return []string{".txt"} }

func (e *PlainTextExtractor) Validate(data []byte) error {
	if bytes.IndexByte(data, 0) >= 0 {
		return fmt.Errorf("text contains NUL bytes")
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("text is not valid UTF-8")
	}
	return nil
}

func (e *PlainTextExtractor) ExtractText(data []byte) (string, error) {
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}
