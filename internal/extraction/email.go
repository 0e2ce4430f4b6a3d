package extraction

import (
	"context"
	"regexp"
)

var reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// RegexEmail returns the first email address in the text.
type RegexEmail struct{}

func NewRegexEmail() RegexEmail { return RegexEmail{} }

func (RegexEmail) Name() string { return "regex" }

func (RegexEmail) Extract(_ context.Context, text string) (string, bool, error) {
	match := reEmail.FindString(text)
	return match, match != "", nil
}
