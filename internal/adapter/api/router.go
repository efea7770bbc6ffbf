package api

import (
	"log/slog"
	"net/http"

	"github.com/user/log-vault/internal/adapter/api/handler"
	"github.com/user/log-vault/internal/adapter/api/middleware"
	"github.com/user/log-vault/internal/adapter/metrics"
	"github.com/user/log-vault/internal/auth"
	"github.com/user/log-vault/internal/pkg/config"
	"github.com/user/log-vault/internal/usecase"
)

// NewRouter creates and configures the main HTTP router.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	validator *auth.TokenValidator,
	operator *auth.OperatorAuth,
	svc *usecase.LogService,
	m *metrics.ServiceMetrics,
) http.Handler {
	mux := http.NewServeMux()

	submitHandler := handler.NewSubmitHandler(svc, logger, cfg.MaxBodySize)
	fetchHandler := handler.NewFetchHandler(svc, logger)

	identity := middleware.Identity(logger)
	capToken := middleware.CapabilityToken(validator, logger, m)
	operatorAuth := middleware.OperatorAuth(operator, logger)
	limit := middleware.RateLimit(cfg.SubmitRateLimit, cfg.SubmitRateBurst, logger, m)

	// Self-service: bearer identity plus signed capability token.
	mux.Handle("POST /logs/submit", limit(identity(capToken(submitHandler))))

	// Self-service read: bearer identity only, no capability token.
	mux.Handle("GET /logs/{$}", identity(http.HandlerFunc(fetchHandler.FetchOwn)))

	// Operator override read: static credential pair.
	mux.Handle("GET /logs/{external_id}", operatorAuth(http.HandlerFunc(fetchHandler.FetchForOwner)))

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
