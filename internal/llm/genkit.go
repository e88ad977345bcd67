// Package llm adapts Genkit model backends to the answer pipeline's
// embedding and completion interfaces.
//
// The Gemini backends read GEMINI_API_KEY from the environment directly;
// nothing here handles credentials.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// NewGenkit initializes Genkit with the Google AI plugin.
func NewGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with googleai provider")
	}
	slog.Debug("initialized Genkit with googleai provider")
	return g, nil
}

// qualifyModelName prefixes the googleai provider when the configured name
// is bare. Genkit model refs are provider-qualified ("googleai/...").
func qualifyModelName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return "googleai/" + name
}
