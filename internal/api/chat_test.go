package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docquery/docquery/internal/log"
	"github.com/docquery/docquery/internal/rag"
)

// stubAnswerer records the last request and returns a canned result.
type stubAnswerer struct {
	result    *rag.Result
	err       error
	callCount int
	lastReq   rag.Request
}

func (s *stubAnswerer) Answer(_ context.Context, req rag.Request) (*rag.Result, error) {
	s.callCount++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newChatHandler(a *stubAnswerer) *chatHandler {
	return &chatHandler{engine: a, logger: log.NewNop()}
}

func TestSendReturnsResult(t *testing.T) {
	stub := &stubAnswerer{result: &rag.Result{
		Answer:     "Widgets are configured in the admin panel [#1].",
		References: []rag.Reference{{Source: "docs/widgets.md", Score: 0.91}},
		Meta:       rag.Meta{TopK: 20, RPC: "match_documents", Hits: 1},
	}}
	h := newChatHandler(stub)

	body := `{"question":"how do I configure widgets?"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))

	h.send(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if stub.callCount != 1 {
		t.Fatalf("engine called %d times", stub.callCount)
	}
	if stub.lastReq.Question != "how do I configure widgets?" {
		t.Errorf("question = %q", stub.lastReq.Question)
	}

	var result rag.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.Answer != stub.result.Answer {
		t.Errorf("answer = %q", result.Answer)
	}
	if len(result.References) != 1 || result.References[0].Source != "docs/widgets.md" {
		t.Errorf("references = %+v", result.References)
	}
}

func TestSendMalformedJSON(t *testing.T) {
	stub := &stubAnswerer{}
	h := newChatHandler(stub)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("{not json"))

	h.send(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if stub.callCount != 0 {
		t.Error("engine should not run for malformed input")
	}
}

func TestSendEmptyQueryMapsTo400(t *testing.T) {
	stub := &stubAnswerer{err: fmt.Errorf("%w: no question text in messages, question, or message", rag.ErrEmptyQuery)}
	h := newChatHandler(stub)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"question":"  "}`))

	h.send(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	if resp.Error.Code != "empty_query" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "EmptyQuery") {
		t.Errorf("error message lost its kind: %q", resp.Error.Message)
	}
}

func TestSendPipelineFailuresMapTo502(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"embedding", fmt.Errorf("%w: quota exceeded", rag.ErrEmbedding)},
		{"retrieval", fmt.Errorf("%w: connection refused", rag.ErrRetrieval)},
		{"synthesis", fmt.Errorf("%w: model overloaded", rag.ErrSynthesis)},
		{"unclassified", errors.New("something odd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAnswerer{err: tt.err}
			h := newChatHandler(stub)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"question":"q"}`))

			h.send(w, r)

			if w.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error body is not valid JSON: %v", err)
			}
			if !strings.Contains(resp.Error.Message, tt.err.Error()) {
				t.Errorf("error message = %q, want to contain %q", resp.Error.Message, tt.err.Error())
			}
		})
	}
}

func TestSendOversizedBody(t *testing.T) {
	stub := &stubAnswerer{}
	h := newChatHandler(stub)

	big := strings.Repeat("x", maxRequestBody+1)
	body := fmt.Sprintf(`{"question":%q}`, big)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))

	h.send(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if stub.callCount != 0 {
		t.Error("engine should not run for oversized input")
	}
}
