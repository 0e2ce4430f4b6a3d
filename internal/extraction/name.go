package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/schemas"
)

// nerWindow bounds how much of the document the entity recognizer sees;
// the candidate's name is almost always at the top.
const nerWindow = 500

var (
	reAngleBlock  = regexp.MustCompile(`<[^>]*>`)
	rePhoneOnly   = regexp.MustCompile(`^[\d()+\-.\s]+$`)
	reTitlePrefix = regexp.MustCompile(`(?i)^(mr|mrs|ms|dr|prof)\.\s*`)
	reNameChars   = regexp.MustCompile(`^[\p{L}\s.\-']+$`)
)

var sectionHeaders = map[string]bool{
	"resume": true, "résumé": true, "cv": true, "curriculum vitae": true,
	"summary": true, "profile": true, "objective": true, "contact": true,
	"experience": true, "work experience": true, "education": true, "skills": true,
}

// titleWords mark a job title or heading rather than a name.
var titleWords = map[string]bool{
	"senior": true, "junior": true, "lead": true, "principal": true, "staff": true,
	"engineer": true, "developer": true, "scientist": true, "analyst": true,
	"manager": true, "designer": true, "consultant": true, "architect": true,
	"director": true, "intern": true, "specialist": true, "administrator": true,
	"software": true, "data": true,
}

// RuleBasedName takes the first line that looks like a person's name.
// Email addresses, bracketed text and "|" separated contact details are
// removed from a line before it is considered.
type RuleBasedName struct{}

func NewRuleBasedName() RuleBasedName { return RuleBasedName{} }

func (RuleBasedName) Name() string { return "rules" }

func (RuleBasedName) Extract(_ context.Context, text string) (string, bool, error) {
	for _, line := range strings.Split(text, "\n") {
		if name, ok := nameFromLine(line); ok {
			return name, true, nil
		}
	}
	return "", false, nil
}

func nameFromLine(line string) (string, bool) {
	line = reAngleBlock.ReplaceAllString(line, " ")
	line = reEmail.ReplaceAllString(line, " ")
	if i := strings.Index(line, "|"); i >= 0 {
		line = line[:i]
	}
	line = strings.Trim(strings.TrimSpace(line), ",;:")
	if line == "" || strings.Contains(line, "@") || rePhoneOnly.MatchString(line) {
		return "", false
	}

	name := strings.Join(strings.Fields(reTitlePrefix.ReplaceAllString(line, "")), " ")
	if name == "" || !reNameChars.MatchString(name) {
		return "", false
	}
	if sectionHeaders[strings.ToLower(name)] {
		return "", false
	}
	for _, tok := range strings.Fields(name) {
		if titleWords[strings.ToLower(strings.Trim(tok, ".-'"))] {
			return "", false
		}
	}

	tokens := strings.Fields(name)
	if len(tokens) > 4 {
		return "", false
	}
	if len(tokens) == 1 && countLetters(name) < 2 {
		return "", false
	}
	return name, true
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Entity is a named entity found in text.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer is the named-entity capability used by NERName.
type EntityRecognizer interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// NERName returns the first PERSON entity near the top of the document.
type NERName struct {
	recognizer EntityRecognizer
}

func NewNERName(recognizer EntityRecognizer) *NERName {
	return &NERName{recognizer: recognizer}
}

func (s *NERName) Name() string { return "ner" }

func (s *NERName) Extract(ctx context.Context, text string) (string, bool, error) {
	if s.recognizer == nil {
		return "", false, fmt.Errorf("entity recognizer: %w", ErrUnavailable)
	}
	window := truncateRunes(text, nerWindow)
	if strings.TrimSpace(window) == "" {
		return "", false, nil
	}

	entities, err := s.recognizer.Entities(ctx, window)
	if err != nil {
		return "", false, fmt.Errorf("entity recognition: %w", err)
	}
	lines := strings.Split(window, "\n")
	for _, e := range entities {
		if e.Label != "PERSON" {
			continue
		}
		if name, ok := personOnLine(lines, e.Text); ok {
			return name, true, nil
		}
	}
	return "", false, nil
}

// personOnLine finds the line an entity starts on and clips the entity at the
// end of that line. The recognizer tokenizes across line breaks, so a header
// like "Jane Doe\nData Scientist" can come back as one entity. A clipped
// entity that sits on a name-like line yields that line's name.
func personOnLine(lines []string, entity string) (string, bool) {
	tokens := strings.Fields(entity)
	if len(tokens) == 0 {
		return "", false
	}
	for _, line := range lines {
		words := strings.Fields(line)
		for i := range words {
			n := matchTokens(words[i:], tokens)
			if n == 0 {
				continue
			}
			clipped := strings.Join(tokens[:n], " ")
			if name, ok := nameFromLine(line); ok && strings.Contains(name, strings.Trim(stripTitle(clipped), ",;:.")) {
				return name, true
			}
			return nameFromLine(clipped)
		}
	}
	return nameFromLine(entity)
}

// matchTokens counts how many leading tokens match consecutive words.
func matchTokens(words, tokens []string) int {
	n := 0
	for n < len(words) && n < len(tokens) && sameToken(words[n], tokens[n]) {
		n++
	}
	return n
}

func sameToken(a, b string) bool {
	trim := func(s string) string {
		return strings.TrimFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	}
	ta, tb := trim(a), trim(b)
	return ta != "" && strings.EqualFold(ta, tb)
}

func stripTitle(s string) string {
	return strings.TrimSpace(reTitlePrefix.ReplaceAllString(strings.TrimSpace(s), ""))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// unknownName is the sentinel the name prompt asks the model to return.
const unknownName = "UNKNOWN"

// LLMName asks the language model for the candidate's name.
type LLMName struct {
	client llm.Client
	tier   llm.ModelTier
	logger *slog.Logger
}

func NewLLMName(client llm.Client, logger *slog.Logger) *LLMName {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMName{client: client, tier: llm.TierLite, logger: logger}
}

func (s *LLMName) Name() string { return "llm" }

func (s *LLMName) Extract(ctx context.Context, text string) (string, bool, error) {
	if s.client == nil {
		return "", false, fmt.Errorf("language model: %w", ErrUnavailable)
	}
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}

	description, err := prompts.Get(prompts.ExtractionFile, prompts.KeyName)
	if err != nil {
		return "", false, err
	}
	prompt := llm.BuildExtractionPrompt(llm.CandidateNameSchema(description), text)

	raw, err := s.client.GenerateJSON(ctx, prompt, s.tier)
	if err != nil {
		return "", false, fmt.Errorf("name extraction: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.LLMName, []byte(raw)); err != nil {
		s.logger.Warn("llm.name.invalid_response", "error", err)
		return "", false, nil
	}
	var resp struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		s.logger.Warn("llm.name.invalid_response", "error", err)
		return "", false, nil
	}
	if resp.Name == nil {
		return "", false, nil
	}

	name := strings.Trim(strings.TrimSpace(*resp.Name), `"'`)
	if name == "" || strings.EqualFold(name, unknownName) {
		return "", false, nil
	}
	return name, true, nil
}
