package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/log-vault/internal/auth"
)

func passthrough(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestCapabilityToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := auth.NewTokenValidator([]byte("test-secret"))
	valid := validator.Sign("middleware-test")

	tests := []struct {
		name           string
		token          string
		expectedStatus int
		expectNext     bool
	}{
		{"Valid Token", valid, http.StatusOK, true},
		{"Missing Token", "", http.StatusUnauthorized, false},
		{"Too Short", "short", http.StatusUnauthorized, false},
		{"Corrupted Signature", valid[:len(valid)-1] + "!", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			h := CapabilityToken(validator, logger, nil)(passthrough(t, &called))

			req := httptest.NewRequest(http.MethodPost, "/logs/submit", nil)
			if tt.token != "" {
				req.Header.Set(CapabilityTokenHeader, tt.token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if called != tt.expectNext {
				t.Errorf("next handler called = %v, want %v", called, tt.expectNext)
			}
		})
	}

	// Structural rejects and signature mismatches must be outwardly
	// identical.
	t.Run("Uniform Rejection Body", func(t *testing.T) {
		responses := make([]string, 0, 2)
		for _, token := range []string{"short", valid[:len(valid)-1] + "!"} {
			var called bool
			h := CapabilityToken(validator, logger, nil)(passthrough(t, &called))
			req := httptest.NewRequest(http.MethodPost, "/logs/submit", nil)
			req.Header.Set(CapabilityTokenHeader, token)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			responses = append(responses, rr.Body.String())
		}
		if responses[0] != responses[1] {
			t.Errorf("rejection bodies differ: %q vs %q", responses[0], responses[1])
		}
	})
}

func TestIdentity(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Bearer Identity Lands In Context", func(t *testing.T) {
		var got string
		h := Identity(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = ExternalIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/logs/", nil)
		req.Header.Set("Authorization", "Bearer producer-9")
		h.ServeHTTP(httptest.NewRecorder(), req)

		if got != "producer-9" {
			t.Errorf("expected producer-9 in context, got %q", got)
		}
	})

	t.Run("Missing Header Is 401", func(t *testing.T) {
		var called bool
		h := Identity(logger)(passthrough(t, &called))

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/logs/", nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
		}
		if called {
			t.Error("next handler must not run without an identity")
		}
	})
}

func TestOperatorAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	operator := auth.NewOperatorAuth(map[string]string{"dev-alice": "hunter2"})

	tests := []struct {
		name           string
		username       string
		password       string
		setAuth        bool
		expectedStatus int
	}{
		{"Valid Credentials", "dev-alice", "hunter2", true, http.StatusOK},
		{"Wrong Password", "dev-alice", "nope", true, http.StatusUnauthorized},
		{"Unknown User", "dev-mallory", "hunter2", true, http.StatusUnauthorized},
		{"No Credentials", "", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			h := OperatorAuth(operator, logger)(passthrough(t, &called))

			req := httptest.NewRequest(http.MethodGet, "/logs/someone", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.username, tt.password)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				if called {
					t.Error("next handler must not run on failed operator auth")
				}
				if rr.Header().Get("WWW-Authenticate") == "" {
					t.Error("expected WWW-Authenticate challenge")
				}
			}
		})
	}
}
