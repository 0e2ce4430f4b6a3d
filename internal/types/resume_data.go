// Package types provides the data model shared by the extraction pipeline and the batch runner.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResumeData is the structured result extracted from one resume document.
// Name and Email are nil when no value was found; Skills is never nil.
type ResumeData struct {
	name       *string
	email      *string
	skills     []string
	sourceFile string
	parsedAt   time.Time
}

// NewResumeData builds an immutable ResumeData. Empty strings are treated as absent
// and skills are deduplicated case-insensitively, keeping the first spelling seen.
func NewResumeData(name, email *string, skills []string, sourceFile string, parsedAt time.Time) *ResumeData {
	return &ResumeData{
		name:       normalizeOptional(name),
		email:      normalizeOptional(email),
		skills:     DedupeSkills(skills),
		sourceFile: sourceFile,
		parsedAt:   parsedAt.UTC(),
	}
}

// Name returns the candidate name and whether one was found.
func (r *ResumeData) Name() (string, bool) {
	if r.name == nil {
		return "", false
	}
	return *r.name, true
}

// Email returns the candidate email and whether one was found.
func (r *ResumeData) Email() (string, bool) {
	if r.email == nil {
		return "", false
	}
	return *r.email, true
}

// HasName reports whether a name was extracted.
func (r *ResumeData) HasName() bool { return r.name != nil }

// HasEmail reports whether an email was extracted.
func (r *ResumeData) HasEmail() bool { return r.email != nil }

// NameOrEmpty returns the name or "" when absent. Intended for display only.
func (r *ResumeData) NameOrEmpty() string {
	name, _ := r.Name()
	return name
}

// EmailOrEmpty returns the email or "" when absent. Intended for display only.
func (r *ResumeData) EmailOrEmpty() string {
	email, _ := r.Email()
	return email
}

// Skills returns a copy of the extracted skills.
func (r *ResumeData) Skills() []string {
	out := make([]string, len(r.skills))
	copy(out, r.skills)
	return out
}

// SourceFile returns the identifier of the originating document.
func (r *ResumeData) SourceFile() string { return r.sourceFile }

// ParsedAt returns the extraction timestamp in UTC.
func (r *ResumeData) ParsedAt() time.Time { return r.parsedAt }

// resumeDataJSON is the wire shape of ResumeData.
type resumeDataJSON struct {
	Name       *string   `json:"name"`
	Email      *string   `json:"email"`
	Skills     []string  `json:"skills"`
	SourceFile string    `json:"source_file"`
	ParsedAt   time.Time `json:"parsed_at"`

	Diagnostics []FieldDiagnostic `json:"diagnostics,omitempty"`
}

// MarshalJSON encodes absent fields as null and skills as an array, never null.
func (r *ResumeData) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire(nil))
}

// MarshalArtifact encodes the persisted per-file artifact: the ResumeData fields
// plus the given diagnostics, which are omitted when empty.
func (r *ResumeData) MarshalArtifact(diagnostics []FieldDiagnostic) ([]byte, error) {
	return json.MarshalIndent(r.wire(diagnostics), "", "  ")
}

func (r *ResumeData) wire(diagnostics []FieldDiagnostic) resumeDataJSON {
	skills := r.skills
	if skills == nil {
		skills = []string{}
	}
	return resumeDataJSON{
		Name:        r.name,
		Email:       r.email,
		Skills:      skills,
		SourceFile:  r.sourceFile,
		ParsedAt:    r.parsedAt,
		Diagnostics: diagnostics,
	}
}

// UnmarshalJSON decodes a persisted artifact back into ResumeData.
func (r *ResumeData) UnmarshalJSON(data []byte) error {
	var raw resumeDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal resume data: %w", err)
	}
	*r = *NewResumeData(raw.Name, raw.Email, raw.Skills, raw.SourceFile, raw.ParsedAt)
	return nil
}

// String renders a short human-readable summary.
func (r *ResumeData) String() string {
	skills := "None"
	if len(r.skills) > 0 {
		skills = strings.Join(r.skills, ", ")
	}
	return fmt.Sprintf("ResumeData(name=%s, email=%s, skills=[%s])",
		quoteOptional(r.name), quoteOptional(r.email), skills)
}

// DedupeSkills trims entries, drops blanks and removes case-insensitive duplicates.
// The result is never nil.
func DedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func quoteOptional(v *string) string {
	if v == nil {
		return "<none>"
	}
	return fmt.Sprintf("%q", *v)
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	return normalizeOptional(&s)
}
