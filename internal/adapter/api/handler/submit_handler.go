package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/log-vault/internal/adapter/api/middleware"
	"github.com/user/log-vault/internal/domain"
)

// SubmitUseCase is the slice of the ingestion engine the submit endpoint
// needs.
type SubmitUseCase interface {
	Submit(ctx context.Context, externalID string, entries []domain.LogEntryInput) (int, error)
}

// SubmitHandler handles HTTP requests for log submission.
type SubmitHandler struct {
	useCase     SubmitUseCase
	logger      *slog.Logger
	maxBodySize int64
}

// NewSubmitHandler creates a new SubmitHandler.
func NewSubmitHandler(uc SubmitUseCase, logger *slog.Logger, maxBodySize int64) *SubmitHandler {
	return &SubmitHandler{
		useCase:     uc,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

type submitResponse struct {
	PersistedCount int `json:"persisted_count"`
}

type errorResponse struct {
	Error          string `json:"error"`
	InvalidEntries int    `json:"invalid_entries,omitempty"`
}

// ServeHTTP processes a submission: a JSON array of log entries for the
// identity the middleware already authenticated.
func (h *SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	externalID, ok := middleware.ExternalIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var entries []domain.LogEntryInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&entries); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	count, err := h.useCase.Submit(r.Context(), externalID, entries)
	if err != nil {
		var malformed *domain.MalformedBatchError
		switch {
		case errors.As(err, &malformed):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:          "batch rejected, nothing persisted",
				InvalidEntries: malformed.Invalid,
			})
		case errors.Is(err, domain.ErrStorageUnavailable):
			// The only retryable condition.
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage unavailable, retry later"})
		default:
			h.logger.Error("submission failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{PersistedCount: count})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
