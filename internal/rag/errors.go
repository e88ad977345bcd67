package rag

import "errors"

// Sentinel errors for the answer pipeline.
//
// Each sentinel's text is the error kind; failures are wrapped with
// fmt.Errorf("%w: %w", kind, cause) so the rendered message reads
// "<Kind>: <detail>". The detail is the collaborator's own message and is
// surfaced verbatim to the caller for diagnosability, so collaborators must
// not leak secrets into error text.
//
// Use errors.Is to classify:
//
//	if errors.Is(err, rag.ErrEmptyQuery) { ... 400 ... }
var (
	// ErrEmptyQuery indicates no resolvable query text in the request.
	// User-correctable; reported as a client error.
	ErrEmptyQuery = errors.New("EmptyQuery")

	// ErrEmbedding indicates the embedding capability failed. Fatal — there
	// is no retrieval without a query vector.
	ErrEmbedding = errors.New("EmbeddingFailure")

	// ErrRetrieval indicates the similarity-search backend failed.
	ErrRetrieval = errors.New("RetrievalFailure")

	// ErrSynthesis indicates the completion capability failed.
	ErrSynthesis = errors.New("SynthesisFailure")
)
