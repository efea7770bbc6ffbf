package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/log-vault/internal/adapter/api/middleware"
	"github.com/user/log-vault/internal/domain"
)

// FetchUseCase is the slice of the retrieval engine the fetch endpoints
// need.
type FetchUseCase interface {
	FetchForOwner(ctx context.Context, externalID string) ([]domain.LogEntry, error)
}

// FetchHandler serves the two read paths: self-service reads for the
// authenticated identity and operator reads for an arbitrary identity.
type FetchHandler struct {
	useCase FetchUseCase
	logger  *slog.Logger
}

// NewFetchHandler creates a new FetchHandler.
func NewFetchHandler(uc FetchUseCase, logger *slog.Logger) *FetchHandler {
	return &FetchHandler{useCase: uc, logger: logger}
}

// FetchOwn returns the entries belonging to the caller's own identity.
func (h *FetchHandler) FetchOwn(w http.ResponseWriter, r *http.Request) {
	externalID, ok := middleware.ExternalIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	h.respond(w, r, externalID)
}

// FetchForOwner returns the entries of the identity named in the path.
// The route is operator-gated; this handler does no credential checking
// itself.
func (h *FetchHandler) FetchForOwner(w http.ResponseWriter, r *http.Request) {
	externalID := r.PathValue("external_id")
	if externalID == "" {
		http.Error(w, "external_id is required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, externalID)
}

func (h *FetchHandler) respond(w http.ResponseWriter, r *http.Request, externalID string) {
	entries, err := h.useCase.FetchForOwner(r.Context(), externalID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown identity"})
		case errors.Is(err, domain.ErrStorageUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage unavailable, retry later"})
		default:
			h.logger.Error("fetch failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	// A provisioned identity with no entries yields an empty array, which
	// is a different answer than 404.
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
