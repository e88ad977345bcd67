package rag

import (
	"fmt"
	"strings"
)

// groundingPolicy is the system block of every assembled prompt. It pins the
// separation the whole pipeline depends on: facts come only from the
// retrieved passages, conversation history is only for resolving referential
// language. Collapsing the two would silently break grounding.
const groundingPolicy = `You are a documentation assistant. Answer the user's question using ONLY the context passages provided in the final message.

Rules:
- If the passages do not contain the answer, say that it cannot be determined from the provided material. Do not guess and do not use outside knowledge.
- Use the conversation history only to understand what the user is referring to ("this", "that", "the one above"). Never treat history as a source of facts.
- If several entities in the passages match the question, enumerate all of them explicitly instead of picking one.
- Keep answers concise and cite passage indexes like [#2] where helpful.`

// noEvidencePlaceholder stands in for the digest when retrieval returned
// nothing. The evidence section is never left empty — an explicit "no
// context" marker keeps the policy block meaningful to the model.
const noEvidencePlaceholder = "(no matching passages were found in the knowledge base)"

// renderDigest renders evidence records as an indexed digest:
//
//	[#1] source: docs/setup.md
//	<passage text>
//
//	[#2] source:
//	<passage text>
//
// Entries appear in retrieval order, joined by a blank line. An empty source
// is rendered, not omitted, so indexes stay aligned with References.
func renderDigest(evidence []Evidence) string {
	if len(evidence) == 0 {
		return noEvidencePlaceholder
	}
	entries := make([]string, len(evidence))
	for i, ev := range evidence {
		entries[i] = fmt.Sprintf("[#%d] source: %s\n%s", i+1, ev.Source, ev.Text)
	}
	return strings.Join(entries, "\n\n")
}

// assemblePrompt composes the full role-tagged message sequence:
// policy block, history blocks verbatim in chronological order, then a
// single trailing user block with the digest and the resolved query.
//
// The evidence and query always travel together in the final user block so
// the model reads them as the current, most salient instruction rather than
// as dialogue content interleaved mid-conversation.
func assemblePrompt(query string, history []Message, evidence []Evidence) []Message {
	prompt := make([]Message, 0, len(history)+2)
	prompt = append(prompt, Message{Role: RoleSystem, Content: groundingPolicy})
	prompt = append(prompt, history...)
	prompt = append(prompt, Message{
		Role:    RoleUser,
		Content: fmt.Sprintf("Context passages:\n\n%s\n\nQuestion: %s", renderDigest(evidence), query),
	})
	return prompt
}
