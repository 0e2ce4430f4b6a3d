package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

// DefaultSkillKeywords is the keyword list used when none is configured.
var DefaultSkillKeywords = []string{
	// Programming languages
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust",
	"Ruby", "PHP", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl",
	// Web
	"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Django",
	"Flask", "FastAPI", "Spring Boot", "Express.js", "Next.js",
	// Data and ML
	"Machine Learning", "Deep Learning", "NLP", "Natural Language Processing",
	"Computer Vision", "TensorFlow", "PyTorch", "Scikit-learn", "Pandas",
	"NumPy", "Data Analysis", "Data Science", "LLM", "Large Language Models",
	"Generative AI", "Neural Networks",
	// Cloud and DevOps
	"AWS", "Azure", "GCP", "Google Cloud", "Docker", "Kubernetes",
	"CI/CD", "Terraform", "Jenkins", "Git", "GitHub", "GitLab",
	// Databases
	"SQL", "NoSQL", "PostgreSQL", "MySQL", "MongoDB", "Redis",
	"Elasticsearch", "DynamoDB", "Cassandra",
	// Other
	"REST API", "GraphQL", "Microservices", "Agile", "Scrum",
	"Project Management", "Leadership", "Communication",
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// KeywordSkills matches a fixed keyword list against the text. Matching is
// case-insensitive and bounded by non-word characters, so "C++" matches while
// "R" does not match inside "React". Results use the keyword's casing and order.
type KeywordSkills struct {
	patterns []keywordPattern
}

// NewKeywordSkills compiles keywords; an empty list selects DefaultSkillKeywords.
func NewKeywordSkills(keywords []string) *KeywordSkills {
	if len(keywords) == 0 {
		keywords = DefaultSkillKeywords
	}
	patterns := make([]keywordPattern, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		patterns = append(patterns, keywordPattern{
			keyword: kw,
			re:      regexp.MustCompile(`(?i)(?:^|[^\w])` + regexp.QuoteMeta(kw) + `(?:$|[^\w])`),
		})
	}
	return &KeywordSkills{patterns: patterns}
}

func (s *KeywordSkills) Name() string { return "keywords" }

// Keywords returns the configured keywords in match order.
func (s *KeywordSkills) Keywords() []string {
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.keyword
	}
	return out
}

func (s *KeywordSkills) Extract(_ context.Context, text string) ([]string, bool, error) {
	var found []string
	for _, p := range s.patterns {
		if p.re.MatchString(text) {
			found = append(found, p.keyword)
		}
	}
	found = types.DedupeSkills(found)
	return found, len(found) > 0, nil
}

// LLMSkills asks the language model for a JSON array of skills.
// Responses that are not a JSON array of strings count as no value.
type LLMSkills struct {
	client llm.Client
	tier   llm.ModelTier
	logger *slog.Logger
}

func NewLLMSkills(client llm.Client, logger *slog.Logger) *LLMSkills {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMSkills{client: client, tier: llm.TierStandard, logger: logger}
}

func (s *LLMSkills) Name() string { return "llm" }

func (s *LLMSkills) Extract(ctx context.Context, text string) ([]string, bool, error) {
	if s.client == nil {
		return nil, false, fmt.Errorf("language model: %w", ErrUnavailable)
	}
	if strings.TrimSpace(text) == "" {
		return nil, false, nil
	}

	prompt, err := prompts.Render(prompts.ExtractionFile, prompts.KeySkills, map[string]string{"ResumeText": text})
	if err != nil {
		return nil, false, err
	}

	raw, err := s.client.GenerateJSON(ctx, prompt, s.tier)
	if err != nil {
		return nil, false, fmt.Errorf("skills extraction: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.LLMSkills, []byte(raw)); err != nil {
		s.logger.Warn("llm.skills.invalid_response", "error", err, "response", truncateRunes(raw, 200))
		return nil, false, nil
	}
	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		s.logger.Warn("llm.skills.invalid_response", "error", err)
		return nil, false, nil
	}

	for i, skill := range skills {
		skills[i] = NormalizeSkill(skill)
	}
	skills = types.DedupeSkills(skills)
	return skills, len(skills) > 0, nil
}
