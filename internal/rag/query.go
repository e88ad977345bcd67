package rag

import (
	"fmt"
	"strings"
)

// ResolveQuery extracts the single query string that should drive retrieval
// for this request.
//
// Resolution order:
//  1. The most recent turn with role "user" in the conversation. Older user
//     turns are never considered — conversational references ("this one",
//     "the one above") must be resolved against the latest intent, and
//     anaphora resolution itself is the model's job via history.
//  2. The standalone Question field.
//  3. The legacy Message field.
//
// Each candidate is whitespace-trimmed; an empty candidate falls through to
// the next. If every fallback is empty the whole pipeline must stop: no
// retrieval, no model call.
func ResolveQuery(req Request) (string, error) {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role != RoleUser {
			continue
		}
		if q := strings.TrimSpace(req.Messages[i].Content); q != "" {
			return q, nil
		}
		// Latest user turn was blank; fall back to the direct fields.
		break
	}

	if q := strings.TrimSpace(req.Question); q != "" {
		return q, nil
	}
	if q := strings.TrimSpace(req.Message); q != "" {
		return q, nil
	}

	return "", fmt.Errorf("%w: no question text in messages, question, or message", ErrEmptyQuery)
}
