package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/docquery/docquery/internal/rag"
)

// maxRequestBody bounds the chat request body (1 MiB).
const maxRequestBody = 1 << 20

// Answerer is the answer pipeline surface the handler needs.
type Answerer interface {
	Answer(ctx context.Context, req rag.Request) (*rag.Result, error)
}

// chatHandler serves POST /api/v1/chat.
type chatHandler struct {
	engine Answerer
	logger *slog.Logger
}

// send runs one question through the answer pipeline.
//
// A bad or empty question is the caller's fault (400); any pipeline
// failure downstream of validation is an upstream dependency failure
// (502). Error messages keep the "<Kind>: <detail>" rendering so clients
// can log a single actionable string.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req rag.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body", h.logger)
		return
	}

	result, err := h.engine.Answer(r.Context(), req)
	if err != nil {
		requestID, _ := requestIDFromContext(r.Context())
		if errors.Is(err, rag.ErrEmptyQuery) {
			h.logger.Debug("rejected empty question", "request_id", requestID)
			WriteError(w, http.StatusBadRequest, "empty_query", err.Error(), h.logger)
			return
		}
		h.logger.Error("answer pipeline failed", "error", err, "request_id", requestID)
		WriteError(w, http.StatusBadGateway, "upstream_failure", err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}
