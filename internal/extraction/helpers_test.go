package extraction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/jonathan/resume-parser/internal/llm"
)

var errBoom = errors.New("boom")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingStrategy returns a fixed result and counts its invocations.
type countingStrategy[T any] struct {
	id    string
	value T
	found bool
	err   error
	calls atomic.Int32
}

func (s *countingStrategy[T]) Name() string { return s.id }

func (s *countingStrategy[T]) Extract(context.Context, string) (T, bool, error) {
	s.calls.Add(1)
	return s.value, s.found, s.err
}

func hit[T any](id string, v T) *countingStrategy[T] {
	return &countingStrategy[T]{id: id, value: v, found: true}
}

func miss[T any](id string) *countingStrategy[T] {
	return &countingStrategy[T]{id: id}
}

func fails[T any](id string) *countingStrategy[T] {
	return &countingStrategy[T]{id: id, err: errBoom}
}

// fakeLLM answers GenerateJSON with a canned response.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeLLM) Close() error { return nil }

// fakeRecognizer returns fixed entities.
type fakeRecognizer struct {
	entities []Entity
	err      error
	seen     string
}

func (f *fakeRecognizer) Entities(_ context.Context, text string) ([]Entity, error) {
	f.seen = text
	return f.entities, f.err
}
