package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexEmail(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"angle brackets", "Jane Doe <jane.doe@example.com>", "jane.doe@example.com", true},
		{"first of several", "a@b.io and c@d.org", "a@b.io", true},
		{"plus addressing", "Contact: jane+jobs@mail.example.co.uk.", "jane+jobs@mail.example.co.uk", true},
		{"none", "Jane Doe\n555-123-4567", "", false},
		{"no tld", "jane@localhost", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := NewRegexEmail().Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleBasedName(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"first line", "Jane Doe\nSoftware Engineer", "Jane Doe", true},
		{"email in angle brackets", "Jane Doe <jane.doe@example.com>", "Jane Doe", true},
		{"contact tail", "Jane Doe | jane@example.com | 555-0100", "Jane Doe", true},
		{"skips email and phone lines", "jane@example.com\n+1 (555) 123-4567\nJane Doe", "Jane Doe", true},
		{"strips title", "Dr. Jane Doe\nCardiologist", "Jane Doe", true},
		{"title case-insensitive", "prof.  Alan   Turing", "Alan Turing", true},
		{"unicode letters", "José Álvarez-O'Neil", "José Álvarez-O'Neil", true},
		{"skips section header", "RESUME\nJane Doe", "Jane Doe", true},
		{"skips non-name lines", "Objective: build things!\n2019 - 2023\nJane Doe", "Jane Doe", true},
		{"too many tokens", "Senior Staff Software Engineer Lead", "", false},
		{"skips job title", "Senior Software Engineer\nJohn Smith", "John Smith", true},
		{"single letter", "J\n", "", false},
		{"only contact", "jane@example.com\n555 0100", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := NewRuleBasedName().Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNERName(t *testing.T) {
	t.Run("first person entity", func(t *testing.T) {
		rec := &fakeRecognizer{entities: []Entity{
			{Text: "Google", Label: "ORG"},
			{Text: " Dr. Jane Doe ", Label: "PERSON"},
			{Text: "John Roe", Label: "PERSON"},
		}}

		got, ok, err := NewNERName(rec).Extract(context.Background(), "text")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Jane Doe", got)
	})

	t.Run("only sees the top of the document", func(t *testing.T) {
		rec := &fakeRecognizer{}
		text := strings.Repeat("é", 600)

		_, ok, err := NewNERName(rec).Extract(context.Background(), text)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 500, len([]rune(rec.seen)))
	})

	t.Run("entity clipped at line end", func(t *testing.T) {
		tests := []struct {
			name   string
			text   string
			entity string
			want   string
			found  bool
		}{
			{"title line", "John Smith\nSenior Software Engineer\njohn@x.com", "John Smith Senior Software Engineer", "John Smith", true},
			{"contact line", "Jane Doe\nData Scientist | San Francisco", "Jane Doe Data Scientist | San Francisco", "Jane Doe", true},
			{"email on name line", "Jane Doe <jane@x.com>\nRust", "Jane Doe", "Jane Doe", true},
			{"header before name", "Curriculum Vitae\nJohn Smith", "Curriculum Vitae John Smith", "", false},
			{"title only", "Jane Doe\nSenior Engineer", "Senior Engineer", "", false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := &fakeRecognizer{entities: []Entity{{Text: tt.entity, Label: "PERSON"}}}
				got, ok, err := NewNERName(rec).Extract(context.Background(), tt.text)
				require.NoError(t, err)
				assert.Equal(t, tt.found, ok)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("recognizer error is hard", func(t *testing.T) {
		_, _, err := NewNERName(&fakeRecognizer{err: errBoom}).Extract(context.Background(), "text")
		assert.True(t, errors.Is(err, errBoom))
	})

	t.Run("missing recognizer is unavailable", func(t *testing.T) {
		_, _, err := NewNERName(nil).Extract(context.Background(), "text")
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestProseRecognizer_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProseRecognizer().Entities(ctx, "Jane Doe")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProseRecognizer_Labels(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping model-backed test in short mode")
	}

	entities, err := NewProseRecognizer().Entities(context.Background(), "Jane Doe worked at Google in London before joining Acme.")
	require.NoError(t, err)
	for _, e := range entities {
		assert.NotEmpty(t, e.Text)
		assert.NotEmpty(t, e.Label)
	}
}

func TestLLMName(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		found    bool
	}{
		{"plain object", `{"name": "Jane Doe"}`, "Jane Doe", true},
		{"fenced", "```json\n{\"name\": \"Jane Doe\"}\n```", "Jane Doe", true},
		{"quoted value", `{"name": "\"Jane Doe\""}`, "Jane Doe", true},
		{"unknown sentinel", `{"name": "unknown"}`, "", false},
		{"null", `{"name": null}`, "", false},
		{"wrong shape", `{"candidate": "Jane"}`, "", false},
		{"not json", `Jane Doe`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{response: tt.response}

			got, ok, err := NewLLMName(client, quietLogger()).Extract(context.Background(), "Jane Doe\njane@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
			require.Len(t, client.prompts, 1)
			assert.Contains(t, client.prompts[0], "Jane Doe\njane@example.com")
		})
	}
}

func TestLLMName_Errors(t *testing.T) {
	_, _, err := NewLLMName(&fakeLLM{err: errBoom}, quietLogger()).Extract(context.Background(), "text")
	assert.True(t, errors.Is(err, errBoom))

	_, _, err = NewLLMName(nil, quietLogger()).Extract(context.Background(), "text")
	assert.True(t, errors.Is(err, ErrUnavailable))

	client := &fakeLLM{response: `{"name": "X"}`}
	_, ok, err := NewLLMName(client, quietLogger()).Extract(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, client.prompts, "blank text never reaches the model")
}

func TestKeywordSkills(t *testing.T) {
	s := NewKeywordSkills(nil)

	got, ok, err := s.Extract(context.Background(),
		"Built services in go and C++; some C#, node.js and REACT.\nAlso PostgreSQL, CI/CD and AWS.")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"C++", "C#", "Go", "React", "Node.js", "AWS", "CI/CD", "PostgreSQL"}, got)
	assert.NotContains(t, got, "R", "R must not match inside React")
	assert.NotContains(t, got, "SQL", "SQL must not match inside PostgreSQL")
}

func TestKeywordSkills_CustomList(t *testing.T) {
	s := NewKeywordSkills([]string{"Haskell", " ", "haskell", "OCaml"})

	assert.Equal(t, []string{"Haskell", "haskell", "OCaml"}, s.Keywords())

	got, ok, err := s.Extract(context.Background(), "haskell and ocaml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Haskell", "OCaml"}, got)
}

func TestKeywordSkills_NoMatch(t *testing.T) {
	got, ok, err := NewKeywordSkills(nil).Extract(context.Background(), "Jane Doe <jane.doe@example.com>")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestLLMSkills(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
		found    bool
	}{
		{"array", `["Python", "Machine Learning", "AWS"]`, []string{"Python", "Machine Learning", "AWS"}, true},
		{"fenced", "```json\n[\"Go\", \"go\", \" SQL \"]\n```", []string{"Go", "SQL"}, true},
		{"aliases", `["golang", "k8s", "React.js", "python", "AWS"]`, []string{"Go", "Kubernetes", "React", "Python", "AWS"}, true},
		{"empty array", `[]`, []string{}, false},
		{"object", `{"skills": ["Go"]}`, nil, false},
		{"mixed types", `["Go", 3]`, nil, false},
		{"not json", `Go, SQL`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{response: tt.response}

			got, ok, err := NewLLMSkills(client, quietLogger()).Extract(context.Background(), "Go and SQL")
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
			require.Len(t, client.prompts, 1)
			assert.Contains(t, client.prompts[0], "Resume text:\n\"\"\"\nGo and SQL\n\"\"\"")
		})
	}
}

func TestLLMSkills_Errors(t *testing.T) {
	_, _, err := NewLLMSkills(&fakeLLM{err: errBoom}, quietLogger()).Extract(context.Background(), "text")
	assert.True(t, errors.Is(err, errBoom))

	_, _, err = NewLLMSkills(nil, nil).Extract(context.Background(), "text")
	assert.True(t, errors.Is(err, ErrUnavailable))
}
