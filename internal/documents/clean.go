package documents

import (
	"regexp"
	"strings"
)

var (
	reInlineSpace  = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	reExcessBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted text while preserving line structure.
// Output is deterministic for a given input.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Clean each line
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	result := strings.Join(lines, "\n")

	// 3. At most one blank line between blocks
	result = reExcessBlanks.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses runs of inline whitespace.
// Bullet markers are kept at the start of the line.
func cleanLine(line string) string {
	line = strings.TrimSpace(reInlineSpace.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	for _, bullet := range []string{"• ", "· ", "▪ ", "- ", "* "} {
		if strings.HasPrefix(line, bullet) {
			return "- " + strings.TrimSpace(strings.TrimPrefix(line, bullet))
		}
	}
	return line
}
