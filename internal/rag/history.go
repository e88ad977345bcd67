package rag

import "strings"

// NormalizeHistory bounds and sanitizes prior conversation turns for
// inclusion in the prompt.
//
// Policy:
//   - only "user" and "assistant" turns survive; anything else is dropped
//   - content is whitespace-trimmed; empty turns are dropped
//   - each turn is truncated to maxTurnLen runes so one huge message cannot
//     blow up the prompt
//   - chronological order is preserved and only the last maxTurns surviving
//     turns are kept (the oldest excess is dropped, never the newest)
//
// maxTurns <= 0 yields an empty history; prompt assembly handles that.
func NormalizeHistory(turns []Turn, maxTurns, maxTurnLen int) []Message {
	if maxTurns <= 0 {
		return nil
	}

	kept := make([]Message, 0, len(turns))
	for _, t := range turns {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			continue
		}
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		kept = append(kept, Message{Role: t.Role, Content: truncateRunes(content, maxTurnLen)})
	}

	if len(kept) > maxTurns {
		kept = kept[len(kept)-maxTurns:]
	}
	return kept
}

// truncateRunes truncates s to at most n runes. n <= 0 means no limit.
// Cutting on runes, not bytes, keeps multi-byte text valid.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
