package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/log-vault/internal/adapter/api/middleware"
	"github.com/user/log-vault/internal/domain"
)

// MockFetchUseCase is a mock implementation of FetchUseCase.
type MockFetchUseCase struct {
	FetchFunc func(ctx context.Context, externalID string) ([]domain.LogEntry, error)
}

func (m *MockFetchUseCase) FetchForOwner(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
	return m.FetchFunc(ctx, externalID)
}

func TestFetchHandler_FetchOwn(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Unknown Identity Is 404", func(t *testing.T) {
		uc := &MockFetchUseCase{
			FetchFunc: func(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
				return nil, domain.ErrNotFound
			},
		}
		h := middleware.Identity(logger)(http.HandlerFunc(NewFetchHandler(uc, logger).FetchOwn))

		req := httptest.NewRequest(http.MethodGet, "/logs/", nil)
		req.Header.Set("Authorization", "Bearer never-seen")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("Provisioned But Empty Is An Empty Array", func(t *testing.T) {
		uc := &MockFetchUseCase{
			FetchFunc: func(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
				return nil, nil
			},
		}
		h := middleware.Identity(logger)(http.HandlerFunc(NewFetchHandler(uc, logger).FetchOwn))

		req := httptest.NewRequest(http.MethodGet, "/logs/", nil)
		req.Header.Set("Authorization", "Bearer quiet-producer")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
			t.Errorf("expected empty array body, got %q", got)
		}
	})

	t.Run("Returns Entries", func(t *testing.T) {
		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		uc := &MockFetchUseCase{
			FetchFunc: func(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
				return []domain.LogEntry{
					{ID: 1, Timestamp: ts, Message: "first", Level: "info"},
					{ID: 2, Timestamp: ts.Add(time.Second), Message: "second", Level: "warn"},
				}, nil
			},
		}
		h := middleware.Identity(logger)(http.HandlerFunc(NewFetchHandler(uc, logger).FetchOwn))

		req := httptest.NewRequest(http.MethodGet, "/logs/", nil)
		req.Header.Set("Authorization", "Bearer producer-1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}

		var entries []domain.LogEntry
		if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Message != "first" || entries[1].Message != "second" {
			t.Error("entries out of order or mangled")
		}
	})
}

func TestFetchHandler_FetchForOwner(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newMux := func(uc FetchUseCase) *http.ServeMux {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /logs/{external_id}", NewFetchHandler(uc, logger).FetchForOwner)
		return mux
	}

	t.Run("Path Identity Reaches Use Case", func(t *testing.T) {
		var askedFor string
		uc := &MockFetchUseCase{
			FetchFunc: func(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
				askedFor = externalID
				return []domain.LogEntry{}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/logs/producer-7", nil)
		rr := httptest.NewRecorder()
		newMux(uc).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		if askedFor != "producer-7" {
			t.Errorf("expected use case asked for producer-7, got %q", askedFor)
		}
	})

	t.Run("Unknown Identity Is 404", func(t *testing.T) {
		uc := &MockFetchUseCase{
			FetchFunc: func(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
				return nil, domain.ErrNotFound
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/logs/missing", nil)
		rr := httptest.NewRecorder()
		newMux(uc).ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
		}
	})
}
