package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/log-vault/internal/adapter/metrics"
	"github.com/user/log-vault/internal/auth"
)

// CapabilityTokenHeader carries the signed proof-of-possession token on
// the self-service submission path.
const CapabilityTokenHeader = "X-Capability-Token"

type contextKey string

const externalIDKey contextKey = "external_id"

// ExternalIDFromContext returns the authenticated caller identity set by
// the Identity middleware.
func ExternalIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(externalIDKey).(string)
	return id, ok
}

// Identity extracts the opaque, upstream-authenticated caller identity
// from the Authorization bearer header and places it in the request
// context. The identity is trusted verbatim; issuance and verification of
// the bearer credential happen upstream of this service.
func Identity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
				logger.Warn("missing bearer identity", "remote_addr", r.RemoteAddr)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			externalID := header[len(prefix):]

			ctx := context.WithValue(r.Context(), externalIDKey, externalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CapabilityToken gates the submission path behind the signed capability
// token. All failure modes (missing header, structural reject, signature
// mismatch) produce the same response so the error never narrows an
// attacker's search space. The token itself is never logged.
func CapabilityToken(validator *auth.TokenValidator, logger *slog.Logger, m *metrics.ServiceMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(CapabilityTokenHeader)
			if !validator.Validate(token) {
				logger.Warn("capability token rejected", "remote_addr", r.RemoteAddr)
				if m != nil {
					m.TokenRejections.Inc()
				}
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OperatorAuth gates the privileged read path behind HTTP basic auth
// checked against the static operator credential pairs.
func OperatorAuth(operator *auth.OperatorAuth, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || operator.Authenticate(username, password) != nil {
				logger.Warn("operator authentication failed", "remote_addr", r.RemoteAddr)
				w.Header().Set("WWW-Authenticate", `Basic realm="log-vault"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
