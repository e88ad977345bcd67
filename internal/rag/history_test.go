package rag

import (
	"strings"
	"testing"
)

func TestNormalizeHistory(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
		{Role: "system", Content: "should be dropped"},
		{Role: RoleUser, Content: "   "},
		{Role: RoleUser, Content: "three"},
	}

	got := NormalizeHistory(turns, 10, 100)
	want := []Message{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
		{Role: RoleUser, Content: "three"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalizeHistoryKeepsNewest(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "oldest"},
		{Role: RoleAssistant, Content: "middle"},
		{Role: RoleUser, Content: "newest"},
	}

	got := NormalizeHistory(turns, 2, 100)
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].Content != "middle" || got[1].Content != "newest" {
		t.Errorf("oldest-first truncation broken: %+v", got)
	}
}

func TestNormalizeHistoryZeroTurns(t *testing.T) {
	turns := []Turn{{Role: RoleUser, Content: "hello"}}
	if got := NormalizeHistory(turns, 0, 100); len(got) != 0 {
		t.Errorf("N=0 should yield empty history, got %+v", got)
	}
}

func TestNormalizeHistoryTruncatesLongTurns(t *testing.T) {
	long := strings.Repeat("語", 50)
	turns := []Turn{{Role: RoleUser, Content: long}}

	got := NormalizeHistory(turns, 5, 10)
	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if runeCount := len([]rune(got[0].Content)); runeCount != 10 {
		t.Errorf("truncated content is %d runes, want 10", runeCount)
	}
	if !strings.HasPrefix(long, got[0].Content) {
		t.Errorf("truncation mangled content: %q", got[0].Content)
	}
}

func TestNormalizeHistoryPreservesOrder(t *testing.T) {
	turns := make([]Turn, 0, 20)
	for i := 0; i < 20; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		turns = append(turns, Turn{Role: role, Content: strings.Repeat("x", i+1)})
	}

	got := NormalizeHistory(turns, 7, 0)
	if len(got) != 7 {
		t.Fatalf("got %d messages, want 7", len(got))
	}
	for i := 1; i < len(got); i++ {
		if len(got[i].Content) <= len(got[i-1].Content) {
			t.Fatalf("chronological order not preserved at %d: %+v", i, got)
		}
	}
}
