package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Default bounds for the answer pipeline. TopK defaults match the chat
// widget surface; history bounds guard worst-case prompt size.
const (
	DefaultTopK       = 20
	MaxTopK           = 60
	DefaultMaxTurns   = 12
	DefaultMaxTurnLen = 2000
)

// Embedder converts query text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher runs similarity search over the corpus and returns ranked,
// loosely-typed rows. A threshold of 0 means "no minimum similarity" and
// must not filter anything. Name identifies the backend search procedure
// for the meta block.
type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]map[string]any, error)
	Name() string
}

// Completer invokes the language model with an ordered role-tagged prompt
// and returns the completion text. An empty completion is not an error.
type Completer interface {
	Complete(ctx context.Context, prompt []Message, model string, temperature float32) (string, error)
}

// Config contains all parameters for the Engine. Zero values for the bound
// fields fall back to the package defaults above.
type Config struct {
	Embedder  Embedder
	Searcher  Searcher
	Completer Completer
	Logger    *slog.Logger

	// Model is the provider-qualified completion model name.
	Model string

	// Temperature is fixed low to favor grounded extraction over creative
	// variation.
	Temperature float32

	// Threshold is the minimum similarity passed to the backend.
	// 0 disables filtering entirely.
	Threshold float64

	// DefaultTopK is used when the request does not ask for a count;
	// requested counts are clamped to [1, MaxTopK].
	DefaultTopK int
	MaxTopK     int

	// MaxHistoryTurns and MaxTurnLen bound the normalized history.
	MaxHistoryTurns int
	MaxTurnLen      int
}

func (cfg Config) validate() error {
	if cfg.Embedder == nil {
		return errors.New("embedder is required")
	}
	if cfg.Searcher == nil {
		return errors.New("searcher is required")
	}
	if cfg.Completer == nil {
		return errors.New("completer is required")
	}
	if cfg.Model == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Engine is the request-scoped answer pipeline. It holds no mutable state:
// concurrent requests are fully independent and need no locking.
type Engine struct {
	embedder  Embedder
	searcher  Searcher
	completer Completer
	logger    *slog.Logger

	model       string
	temperature float32
	threshold   float64
	defaultTopK int
	maxTopK     int
	maxTurns    int
	maxTurnLen  int
}

// New creates an Engine from cfg, applying defaults for unset bounds.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defaultTopK := cfg.DefaultTopK
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	maxTopK := cfg.MaxTopK
	if maxTopK <= 0 {
		maxTopK = MaxTopK
	}
	maxTurns := cfg.MaxHistoryTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}
	maxTurnLen := cfg.MaxTurnLen
	if maxTurnLen <= 0 {
		maxTurnLen = DefaultMaxTurnLen
	}

	return &Engine{
		embedder:    cfg.Embedder,
		searcher:    cfg.Searcher,
		completer:   cfg.Completer,
		logger:      logger,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		threshold:   cfg.Threshold,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
		maxTurns:    maxTurns,
		maxTurnLen:  maxTurnLen,
	}, nil
}

// Answer runs the full pipeline for one request. Every stage respects ctx;
// a cancelled request fails as a whole — partial results are never returned.
func (e *Engine) Answer(ctx context.Context, req Request) (*Result, error) {
	query, err := ResolveQuery(req)
	if err != nil {
		return nil, err
	}

	k := e.clampTopK(req.TopK)
	history := NormalizeHistory(req.Messages, e.maxTurns, e.maxTurnLen)

	evidence, err := e.retrieve(ctx, query, k)
	if err != nil {
		return nil, err
	}

	prompt := assemblePrompt(query, history, evidence)

	answer, err := e.completer.Complete(ctx, prompt, e.model, e.temperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	// A model returning no text is not a pipeline failure; the caller
	// renders the empty answer as a "no answer" state.

	references := make([]Reference, len(evidence))
	for i, ev := range evidence {
		references[i] = Reference{Source: ev.Source, Score: ev.Score}
	}

	e.logger.Debug("answered",
		"top_k", k,
		"hits", len(evidence),
		"used_history", len(history),
		"answer_len", len(answer))

	return &Result{
		Answer:     answer,
		References: references,
		Meta: Meta{
			TopK:        k,
			RPC:         e.searcher.Name(),
			Hits:        len(evidence),
			Threshold:   e.threshold,
			UsedHistory: len(history),
		},
	}, nil
}

// retrieve embeds the query and fetches normalized evidence. Both external
// calls are fatal on failure: answering with silently-missing grounding is
// worse than failing loudly.
func (e *Engine) retrieve(ctx context.Context, query string, k int) ([]Evidence, error) {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: embedder returned an empty vector", ErrEmbedding)
	}

	rows, err := e.searcher.Search(ctx, vector, k, e.threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	return normalizeRows(rows), nil
}

// clampTopK resolves the effective result count: default when unset,
// clamped to [1, maxTopK] otherwise.
func (e *Engine) clampTopK(k int) int {
	if k <= 0 {
		return e.defaultTopK
	}
	if k > e.maxTopK {
		return e.maxTopK
	}
	return k
}
