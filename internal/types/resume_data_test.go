package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestNewResumeData_AbsentFieldsAreNil(t *testing.T) {
	data := NewResumeData(nil, StringPtr("   "), nil, "cv.pdf", fixedTime)

	assert.False(t, data.HasName())
	assert.False(t, data.HasEmail())
	assert.NotNil(t, data.Skills())
	assert.Empty(t, data.Skills())
}

func TestNewResumeData_DedupesSkills(t *testing.T) {
	data := NewResumeData(StringPtr("Jane Doe"), nil,
		[]string{"Python", "python", " Go ", "", "AWS", "aws"}, "cv.pdf", fixedTime)

	assert.Equal(t, []string{"Python", "Go", "AWS"}, data.Skills())
}

func TestResumeData_SkillsReturnsCopy(t *testing.T) {
	data := NewResumeData(nil, nil, []string{"Go"}, "cv.pdf", fixedTime)

	skills := data.Skills()
	skills[0] = "Rust"

	assert.Equal(t, []string{"Go"}, data.Skills())
}

func TestResumeData_MarshalJSON(t *testing.T) {
	data := NewResumeData(StringPtr("Jane Doe"), nil, nil, "jane.docx", fixedTime)

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "Jane Doe", decoded["name"])
	assert.Contains(t, decoded, "email")
	assert.Nil(t, decoded["email"])
	assert.Equal(t, []any{}, decoded["skills"])
	assert.Equal(t, "jane.docx", decoded["source_file"])
	assert.Equal(t, "2026-03-14T09:26:53Z", decoded["parsed_at"])
}

func TestResumeData_UnmarshalJSON(t *testing.T) {
	input := `{"name":"Jane Doe","email":null,"skills":["Go","go"],"source_file":"a.pdf","parsed_at":"2026-03-14T09:26:53Z"}`

	var data ResumeData
	require.NoError(t, json.Unmarshal([]byte(input), &data))

	name, ok := data.Name()
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
	assert.False(t, data.HasEmail())
	assert.Equal(t, []string{"Go"}, data.Skills())
	assert.True(t, fixedTime.Equal(data.ParsedAt()))
}

func TestResumeData_String(t *testing.T) {
	data := NewResumeData(StringPtr("Jane Doe"), nil, []string{"Go", "SQL"}, "a.pdf", fixedTime)

	s := data.String()
	assert.Contains(t, s, `name="Jane Doe"`)
	assert.Contains(t, s, "email=<none>")
	assert.Contains(t, s, "skills=[Go, SQL]")
}

func TestDedupeSkills_NeverNil(t *testing.T) {
	assert.NotNil(t, DedupeSkills(nil))
	assert.Empty(t, DedupeSkills([]string{" ", ""}))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Nil(t, StringPtr("\t"))
	require.NotNil(t, StringPtr(" x "))
	assert.Equal(t, "x", *StringPtr(" x "))
}

func TestResumeData_MarshalArtifact(t *testing.T) {
	data := NewResumeData(StringPtr("Jane Doe"), nil, []string{"Go"}, "cv.pdf", fixedTime)

	plain, err := data.MarshalArtifact(nil)
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "diagnostics")

	withDiag, err := data.MarshalArtifact([]FieldDiagnostic{{Field: "skills", Status: FieldFailed, Strategy: "llm", Error: "quota"}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(withDiag, &decoded))
	assert.Equal(t, "Jane Doe", decoded["name"])
	assert.Nil(t, decoded["email"])
	diags, ok := decoded["diagnostics"].([]any)
	require.True(t, ok)
	assert.Len(t, diags, 1)
}
