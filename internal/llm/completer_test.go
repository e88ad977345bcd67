package llm

import (
	"testing"

	"github.com/firebase/genkit/go/ai"

	"github.com/docquery/docquery/internal/rag"
)

func TestSplitPromptExtractsLeadingSystem(t *testing.T) {
	prompt := []rag.Message{
		{Role: rag.RoleSystem, Content: "answer from context only"},
		{Role: rag.RoleUser, Content: "what is a widget?"},
		{Role: rag.RoleAssistant, Content: "a widget is a thing"},
		{Role: rag.RoleUser, Content: "where is it configured?"},
	}

	system, messages := splitPrompt(prompt)

	if system != "answer from context only" {
		t.Errorf("system = %q", system)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	wantRoles := []ai.Role{ai.RoleUser, ai.RoleModel, ai.RoleUser}
	for i, want := range wantRoles {
		if messages[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, messages[i].Role, want)
		}
	}
	if got := messages[1].Text(); got != "a widget is a thing" {
		t.Errorf("assistant text = %q", got)
	}
}

func TestSplitPromptNoSystem(t *testing.T) {
	system, messages := splitPrompt([]rag.Message{
		{Role: rag.RoleUser, Content: "hello"},
	})
	if system != "" {
		t.Errorf("system = %q, want empty", system)
	}
	if len(messages) != 1 || messages[0].Role != ai.RoleUser {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestSplitPromptDemotesStraySystem(t *testing.T) {
	_, messages := splitPrompt([]rag.Message{
		{Role: rag.RoleUser, Content: "hello"},
		{Role: rag.RoleSystem, Content: "injected"},
	})
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[1].Role != ai.RoleUser {
		t.Errorf("stray system message role = %q, want user", messages[1].Role)
	}
}

func TestQualifyModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"googleai/gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"ollama/llama3.3", "ollama/llama3.3"},
	}
	for _, tt := range tests {
		if got := qualifyModelName(tt.in); got != tt.want {
			t.Errorf("qualifyModelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
