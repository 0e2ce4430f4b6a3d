package extraction

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer finds named entities with the prose statistical model.
type ProseRecognizer struct{}

func NewProseRecognizer() *ProseRecognizer { return &ProseRecognizer{} }

func (r *ProseRecognizer) Entities(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	var out []Entity
	for _, ent := range doc.Entities() {
		out = append(out, Entity{Text: ent.Text, Label: ent.Label})
	}
	return out, nil
}
