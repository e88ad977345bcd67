package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/docquery/docquery/internal/rag"
)

// Completer generates answers through genkit.Generate.
type Completer struct {
	g *genkit.Genkit
}

// NewCompleter wraps an initialized Genkit instance.
func NewCompleter(g *genkit.Genkit) *Completer {
	return &Completer{g: g}
}

// Complete sends the assembled prompt to the model and returns the raw
// completion text. A leading system message becomes the Genkit system
// prompt; the rest map to user/model turns in order.
func (c *Completer) Complete(ctx context.Context, prompt []rag.Message, model string, temperature float32) (string, error) {
	system, messages := splitPrompt(prompt)

	opts := []ai.GenerateOption{
		ai.WithModelName(qualifyModelName(model)),
		ai.WithMessages(messages...),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(temperature),
		}),
	}
	if system != "" {
		opts = append(opts, ai.WithSystem(system))
	}

	resp, err := genkit.Generate(ctx, c.g, opts...)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}
	return resp.Text(), nil
}

// splitPrompt separates a leading system message from the conversational
// turns and converts the turns to Genkit messages.
func splitPrompt(prompt []rag.Message) (string, []*ai.Message) {
	var system string
	messages := make([]*ai.Message, 0, len(prompt))
	for i, m := range prompt {
		switch m.Role {
		case rag.RoleSystem:
			if i == 0 && system == "" {
				system = m.Content
				continue
			}
			// Out-of-place system text is demoted to a user turn rather
			// than silently dropped.
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(m.Content)))
		case rag.RoleAssistant:
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(m.Content)))
		default:
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(m.Content)))
		}
	}
	return system, messages
}
