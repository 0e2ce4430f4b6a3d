package extraction

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolution is the result of a chain run.
type Resolution[T any] struct {
	Value    T
	Found    bool
	Strategy string // strategy that produced Value
}

// Chain resolves one field by trying strategies in order until one finds a value.
// The order is supplied by the caller and never changes after construction.
type Chain[T any] struct {
	field      Field
	strategies []Strategy[T]
	assign     func(*Fields, T)
	logger     *slog.Logger
}

func newChain[T any](field Field, assign func(*Fields, T), logger *slog.Logger, strategies []Strategy[T]) *Chain[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain[T]{
		field:      field,
		strategies: append([]Strategy[T](nil), strategies...),
		assign:     assign,
		logger:     logger,
	}
}

// NameChain builds the chain for the candidate name.
func NameChain(logger *slog.Logger, strategies ...Strategy[string]) *Chain[string] {
	return newChain(FieldName, func(f *Fields, v string) { f.Name = &v }, logger, strategies)
}

// EmailChain builds the chain for the email address.
func EmailChain(logger *slog.Logger, strategies ...Strategy[string]) *Chain[string] {
	return newChain(FieldEmail, func(f *Fields, v string) { f.Email = &v }, logger, strategies)
}

// SkillsChain builds the chain for the skills list.
func SkillsChain(logger *slog.Logger, strategies ...Strategy[[]string]) *Chain[[]string] {
	return newChain(FieldSkills, func(f *Fields, v []string) { f.Skills = v }, logger, strategies)
}

// Field returns the field this chain resolves.
func (c *Chain[T]) Field() Field { return c.field }

// Strategies returns the strategy names in resolution order.
func (c *Chain[T]) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the first value found. Strategies after the one that finds a
// value are not invoked. Hard failures of non-terminal strategies are logged and
// treated as no value; a hard failure of the last strategy is returned.
func (c *Chain[T]) Resolve(ctx context.Context, text string) (Resolution[T], error) {
	last := len(c.strategies) - 1
	for i, s := range c.strategies {
		value, found, err := s.Extract(ctx, text)
		if err != nil {
			if i == last {
				return Resolution[T]{}, fmt.Errorf("%s: strategy %s: %w", c.field, s.Name(), err)
			}
			c.logger.Warn("chain.strategy.error",
				"field", string(c.field),
				"strategy", s.Name(),
				"error", err,
			)
			continue
		}
		if found {
			c.logger.Debug("chain.strategy.found", "field", string(c.field), "strategy", s.Name())
			return Resolution[T]{Value: value, Found: true, Strategy: s.Name()}, nil
		}
		c.logger.Debug("chain.strategy.empty", "field", string(c.field), "strategy", s.Name())
	}
	return Resolution[T]{}, nil
}

// resolveInto runs the chain and writes a found value into f.
func (c *Chain[T]) resolveInto(ctx context.Context, text string, f *Fields) (string, bool, error) {
	res, err := c.Resolve(ctx, text)
	if err != nil || !res.Found {
		return "", false, err
	}
	c.assign(f, res.Value)
	return res.Strategy, true, nil
}
