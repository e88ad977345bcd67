package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// Embedder produces query embeddings through a Genkit embedder.
type Embedder struct {
	embedder ai.Embedder
}

// NewEmbedder resolves the named Google AI embedder model.
func NewEmbedder(g *genkit.Genkit, model string) (*Embedder, error) {
	e := googlegenai.GoogleAIEmbedder(g, model)
	if e == nil {
		return nil, fmt.Errorf("unknown embedder model %q", model)
	}
	return &Embedder{embedder: e}, nil
}

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{Content: []*ai.Part{ai.NewTextPart(text)}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return resp.Embeddings[0].Embedding, nil
}
