// Package extraction derives structured fields from resume text. Each field is
// resolved by a Chain of interchangeable strategies tried in a configured order,
// and a Coordinator runs every field independently.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable reports that a strategy's external capability is missing or
// unreachable. Chains treat it like any other hard failure.
var ErrUnavailable = errors.New("capability unavailable")

// Field names a ResumeData field.
type Field string

// Extracted fields, in default coordinator order.
const (
	FieldName   Field = "name"
	FieldEmail  Field = "email"
	FieldSkills Field = "skills"
)

// Strategy attempts to derive one field value from plain text.
//
// Extract returns found=false with a nil error when the strategy could not find
// the field. A non-nil error is a hard failure unrelated to absence, such as an
// unreachable model endpoint.
type Strategy[T any] interface {
	Name() string
	Extract(ctx context.Context, text string) (value T, found bool, err error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc[T any] struct {
	ID string
	Fn func(ctx context.Context, text string) (T, bool, error)
}

func (s StrategyFunc[T]) Name() string { return s.ID }

func (s StrategyFunc[T]) Extract(ctx context.Context, text string) (T, bool, error) {
	return s.Fn(ctx, text)
}

// WithTimeout bounds each Extract call of s to d. The call returns when d elapses
// even if s ignores its context. A non-positive d returns s unchanged.
func WithTimeout[T any](s Strategy[T], d time.Duration) Strategy[T] {
	if d <= 0 {
		return s
	}
	return &timeoutStrategy[T]{inner: s, timeout: d}
}

type timeoutStrategy[T any] struct {
	inner   Strategy[T]
	timeout time.Duration
}

type strategyResult[T any] struct {
	value T
	found bool
	err   error
}

func (s *timeoutStrategy[T]) Name() string { return s.inner.Name() }

func (s *timeoutStrategy[T]) Extract(ctx context.Context, text string) (T, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan strategyResult[T], 1)
	go func() {
		v, ok, err := s.inner.Extract(ctx, text)
		done <- strategyResult[T]{value: v, found: ok, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, false, fmt.Errorf("%s timed out after %s: %w", s.inner.Name(), s.timeout, r.err)
		}
		return r.value, r.found, r.err
	case <-ctx.Done():
		return zero, false, fmt.Errorf("%s timed out after %s: %w", s.inner.Name(), s.timeout, ctx.Err())
	}
}
