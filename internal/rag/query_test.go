package rag

import (
	"errors"
	"testing"
)

func TestResolveQuery(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    string
		wantErr bool
	}{
		{
			name: "latest user turn wins",
			req: Request{Messages: []Turn{
				{Role: RoleUser, Content: "first question"},
				{Role: RoleAssistant, Content: "an answer"},
				{Role: RoleUser, Content: "  second question  "},
			}},
			want: "second question",
		},
		{
			name: "assistant turn after user is ignored",
			req: Request{Messages: []Turn{
				{Role: RoleUser, Content: "what is X?"},
				{Role: RoleAssistant, Content: "X is a thing"},
			}},
			want: "what is X?",
		},
		{
			name: "blank latest user turn falls through to question",
			req: Request{
				Question: "fallback question",
				Messages: []Turn{
					{Role: RoleUser, Content: "older question"},
					{Role: RoleUser, Content: "   "},
				},
			},
			want: "fallback question",
		},
		{
			name: "no conversation uses question field",
			req:  Request{Question: " standalone "},
			want: "standalone",
		},
		{
			name: "question empty uses legacy message field",
			req:  Request{Question: "  ", Message: "legacy text"},
			want: "legacy text",
		},
		{
			name: "only assistant turns falls back",
			req: Request{
				Message:  "still here",
				Messages: []Turn{{Role: RoleAssistant, Content: "hello"}},
			},
			want: "still here",
		},
		{
			name:    "everything empty",
			req:     Request{Question: " ", Message: "\t\n"},
			wantErr: true,
		},
		{
			name:    "zero request",
			req:     Request{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveQuery(tt.req)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyQuery) {
					t.Fatalf("ResolveQuery() error = %v, want ErrEmptyQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveQuery() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
