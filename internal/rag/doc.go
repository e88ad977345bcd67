// Package rag implements the conversational retrieval-augmented answer
// pipeline behind the chat endpoint.
//
// A single request flows through five stages:
//
//  1. Query resolution — pick the one query string that should drive
//     retrieval from the conversation (newest user turn, with fallbacks).
//  2. History normalization — bound and sanitize prior turns for the prompt.
//  3. Evidence retrieval — embed the query, run vector search, and
//     normalize the backend's loosely-typed rows into Evidence records.
//  4. Prompt assembly — one system policy block, the history blocks, and a
//     single trailing user block holding the evidence digest and the query.
//  5. Synthesis — call the completion model and shape the structured Result.
//
// The Engine owns no state between requests. External capabilities
// (Embedder, Searcher, Completer) are injected at construction so the
// pipeline can be exercised with stubs; see engine_test.go.
//
// Failure policy: the first failing stage aborts the request. There is no
// partial answer and no retry at this layer — a request that retrieved
// evidence but failed synthesis is a failed request. The only tolerated
// degradation is a model returning no text, which is forwarded as an empty
// answer rather than an error.
package rag
