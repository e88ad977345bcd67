package rag

import (
	"strconv"
	"strings"
)

// Candidate field names checked against backend rows, in priority order.
// First non-empty value wins. Different corpus backends name the passage
// column differently (Supabase-style RPCs, pgvector functions, older
// ingestion schemas), so the lookup is one explicit, testable list instead
// of scattered conditional access.
var (
	textFields   = []string{"content", "text", "chunk", "body", "page_text", "document"}
	sourceFields = []string{"source", "url", "source_url", "page_url", "doc_url", "path"}
	scoreFields  = []string{"similarity", "score"}
)

// normalizeRows converts loosely-typed backend rows into canonical Evidence
// records. Rows whose resolved text is empty after trimming are discarded.
// Rows with an empty source are kept — unattributed evidence is still
// evidence. Backend ordering is preserved; this layer never re-ranks.
func normalizeRows(rows []map[string]any) []Evidence {
	records := make([]Evidence, 0, len(rows))
	for _, row := range rows {
		text := strings.TrimSpace(firstString(row, textFields))
		if text == "" {
			continue
		}
		records = append(records, Evidence{
			Text:   text,
			Source: strings.TrimSpace(firstString(row, sourceFields)),
			Score:  firstNumber(row, scoreFields),
		})
	}
	return records
}

// firstString returns the first non-empty string value among keys.
func firstString(row map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := row[key]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case []byte:
			if len(s) > 0 {
				return string(s)
			}
		}
	}
	return ""
}

// firstNumber returns the first numeric value among keys, or 0 when absent.
// Backends report scores as float64, float32, or occasionally stringified
// numbers depending on the driver.
func firstNumber(row map[string]any, keys []string) float64 {
	for _, key := range keys {
		v, ok := row[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		case int:
			return float64(n)
		case int32:
			return float64(n)
		case int64:
			return float64(n)
		case string:
			if parsed, err := strconv.ParseFloat(n, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}
