package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/resume-parser/internal/types"
)

// Fields holds the values assembled by a Coordinator. Name and Email are nil when
// absent; Skills is never nil.
type Fields struct {
	Name   *string
	Email  *string
	Skills []string
}

// Resolver is a type-erased Chain. It is implemented by *Chain[T].
type Resolver interface {
	Field() Field
	Strategies() []string
	resolveInto(ctx context.Context, text string, f *Fields) (strategy string, found bool, err error)
}

// FieldReport describes how one field was resolved.
type FieldReport struct {
	Field    Field
	Status   types.FieldStatus
	Strategy string
	Err      error
}

// Report lists one FieldReport per configured field, in coordinator order.
type Report struct {
	Fields []FieldReport
}

// Failed returns the fields whose terminal strategy failed hard.
func (r Report) Failed() []Field { return r.withStatus(types.FieldFailed) }

// Absent returns the fields no strategy found, without a hard failure.
func (r Report) Absent() []Field { return r.withStatus(types.FieldAbsent) }

func (r Report) withStatus(status types.FieldStatus) []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Status == status {
			out = append(out, f.Field)
		}
	}
	return out
}

// Diagnostics converts the report for persistence.
func (r Report) Diagnostics() []types.FieldDiagnostic {
	out := make([]types.FieldDiagnostic, 0, len(r.Fields))
	for _, f := range r.Fields {
		d := types.FieldDiagnostic{Field: string(f.Field), Status: f.Status, Strategy: f.Strategy}
		if f.Err != nil {
			d.Error = f.Err.Error()
		}
		out = append(out, d)
	}
	return out
}

// Coordinator runs one Resolver per field over a document's text. A hard failure
// on one field never prevents the others from being resolved. A Coordinator is
// read-only after construction and safe for concurrent use.
type Coordinator struct {
	resolvers []Resolver
	logger    *slog.Logger
}

// NewCoordinator creates a coordinator that resolves fields in the given order.
// Each field may appear only once.
func NewCoordinator(logger *slog.Logger, resolvers ...Resolver) (*Coordinator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seen := make(map[Field]bool, len(resolvers))
	for _, r := range resolvers {
		if r == nil {
			return nil, fmt.Errorf("nil resolver")
		}
		if seen[r.Field()] {
			return nil, fmt.Errorf("duplicate resolver for field %q", r.Field())
		}
		seen[r.Field()] = true
	}
	return &Coordinator{
		resolvers: append([]Resolver(nil), resolvers...),
		logger:    logger,
	}, nil
}

// Order returns the configured field order.
func (c *Coordinator) Order() []Field {
	out := make([]Field, len(c.resolvers))
	for i, r := range c.resolvers {
		out[i] = r.Field()
	}
	return out
}

// Chains returns the strategy order of every field.
func (c *Coordinator) Chains() map[Field][]string {
	out := make(map[Field][]string, len(c.resolvers))
	for _, r := range c.resolvers {
		out[r.Field()] = r.Strategies()
	}
	return out
}

// WithResolver returns a copy of c in which r replaces the resolver for the same
// field, or is appended when the field is new. c is not modified.
func (c *Coordinator) WithResolver(r Resolver) *Coordinator {
	resolvers := append([]Resolver(nil), c.resolvers...)
	replaced := false
	for i, existing := range resolvers {
		if existing.Field() == r.Field() {
			resolvers[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		resolvers = append(resolvers, r)
	}
	return &Coordinator{resolvers: resolvers, logger: c.logger}
}

// Extract resolves every configured field over text.
func (c *Coordinator) Extract(ctx context.Context, text string) (Fields, Report) {
	var fields Fields
	report := Report{Fields: make([]FieldReport, 0, len(c.resolvers))}

	for _, r := range c.resolvers {
		strategy, found, err := r.resolveInto(ctx, text, &fields)
		fr := FieldReport{Field: r.Field(), Strategy: strategy}
		switch {
		case err != nil:
			fr.Status = types.FieldFailed
			fr.Err = err
			c.logger.Warn("coordinator.field.failed", "field", string(r.Field()), "error", err)
		case found:
			fr.Status = types.FieldFound
		default:
			fr.Status = types.FieldAbsent
		}
		report.Fields = append(report.Fields, fr)
	}

	if fields.Skills == nil {
		fields.Skills = []string{}
	}
	return fields, report
}
