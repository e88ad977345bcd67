package rag

import "testing"

func TestNormalizeRowsFieldPriority(t *testing.T) {
	tests := []struct {
		name       string
		row        map[string]any
		wantText   string
		wantSource string
		wantScore  float64
	}{
		{
			name:     "content wins over text",
			row:      map[string]any{"content": "from content", "text": "from text"},
			wantText: "from content",
		},
		{
			name:     "page_text alone is used",
			row:      map[string]any{"page_text": "from page_text"},
			wantText: "from page_text",
		},
		{
			name:     "empty content falls through to text",
			row:      map[string]any{"content": "", "text": "from text"},
			wantText: "from text",
		},
		{
			name:       "source priority over url",
			row:        map[string]any{"body": "b", "source": "s", "url": "u"},
			wantText:   "b",
			wantSource: "s",
		},
		{
			name:       "page_url used when earlier fields absent",
			row:        map[string]any{"chunk": "c", "page_url": "https://example.com/p"},
			wantText:   "c",
			wantSource: "https://example.com/p",
		},
		{
			name:      "similarity wins over score",
			row:       map[string]any{"document": "d", "similarity": 0.9, "score": 0.1},
			wantText:  "d",
			wantScore: 0.9,
		},
		{
			name:      "float32 score accepted",
			row:       map[string]any{"text": "t", "score": float32(0.5)},
			wantText:  "t",
			wantScore: 0.5,
		},
		{
			name:      "stringified score parsed",
			row:       map[string]any{"text": "t", "similarity": "0.75"},
			wantText:  "t",
			wantScore: 0.75,
		},
		{
			name:     "byte slice text accepted",
			row:      map[string]any{"content": []byte("bytes")},
			wantText: "bytes",
		},
		{
			name:     "missing score defaults to zero",
			row:      map[string]any{"content": "no score"},
			wantText: "no score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeRows([]map[string]any{tt.row})
			if len(got) != 1 {
				t.Fatalf("got %d records, want 1", len(got))
			}
			if got[0].Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got[0].Text, tt.wantText)
			}
			if got[0].Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got[0].Source, tt.wantSource)
			}
			if got[0].Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got[0].Score, tt.wantScore)
			}
		})
	}
}

func TestNormalizeRowsDiscardsEmptyText(t *testing.T) {
	rows := []map[string]any{
		{"content": "keep me", "source": "a"},
		{"content": "   \n\t "},
		{"source": "text missing entirely"},
		{"text": "also kept", "source": ""},
	}

	got := normalizeRows(rows)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	if got[0].Text != "keep me" || got[1].Text != "also kept" {
		t.Errorf("wrong records survived: %+v", got)
	}
	// Empty source is valid and must reach the prompt.
	if got[1].Source != "" {
		t.Errorf("empty source should be preserved, got %q", got[1].Source)
	}
}

func TestNormalizeRowsPreservesBackendOrder(t *testing.T) {
	rows := []map[string]any{
		{"content": "first", "similarity": 0.2},
		{"content": "second", "similarity": 0.9},
		{"content": "third", "similarity": 0.5},
	}

	got := normalizeRows(rows)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	// The core trusts backend ordering; no re-ranking by score.
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Text != want {
			t.Errorf("record %d = %q, want %q", i, got[i].Text, want)
		}
	}
}
