package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/user/log-vault/internal/adapter/metrics"
	"github.com/user/log-vault/internal/domain"
)

// LogService is the ingestion and retrieval engine. It resolves owning
// users, provisions them lazily on first contact, and persists submission
// batches atomically. It holds no state across calls beyond its
// collaborators; every invocation opens and closes its own transactional
// scope through the repositories.
type LogService struct {
	users   domain.UserRepository
	logs    domain.LogRepository
	logger  *slog.Logger
	metrics *metrics.ServiceMetrics
}

// NewLogService creates a new LogService. Metrics may be nil in tests.
func NewLogService(users domain.UserRepository, logs domain.LogRepository, logger *slog.Logger, m *metrics.ServiceMetrics) *LogService {
	return &LogService{
		users:   users,
		logs:    logs,
		logger:  logger,
		metrics: m,
	}
}

// Submit persists entries for the identity behind externalID, provisioning
// the owner if this is its first submission. The batch is all-or-nothing:
// the returned count equals len(entries) and all are durably visible, or
// nothing was persisted. An empty batch still provisions the owner.
func (s *LogService) Submit(ctx context.Context, externalID string, entries []domain.LogEntryInput) (int, error) {
	if invalid := countMalformed(entries); invalid > 0 {
		if s.metrics != nil {
			s.metrics.SubmissionsTotal.WithLabelValues("rejected_malformed").Inc()
		}
		return 0, &domain.MalformedBatchError{Invalid: invalid}
	}

	owner, err := s.resolveOwner(ctx, externalID)
	if err != nil {
		s.logger.Error("failed to resolve owner", "error", err, "external_id", externalID)
		if s.metrics != nil {
			s.metrics.SubmissionsTotal.WithLabelValues("error_storage").Inc()
		}
		return 0, domain.ErrStorageUnavailable
	}

	count := 0
	if len(entries) > 0 {
		count, err = s.logs.StoreBatch(ctx, owner.ID, entries)
		if err != nil {
			s.logger.Error("failed to store submission batch",
				"error", err,
				"external_id", externalID,
				"entries", len(entries),
			)
			if s.metrics != nil {
				s.metrics.SubmissionsTotal.WithLabelValues("error_storage").Inc()
			}
			return 0, domain.ErrStorageUnavailable
		}
	}

	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
		s.metrics.EntriesPersisted.Add(float64(count))
	}
	return count, nil
}

// FetchForOwner returns every entry for the identity, ordered by timestamp
// ascending with insertion order breaking ties. It never provisions a
// user: the asymmetry with Submit is intentional, reads must not mutate.
func (s *LogService) FetchForOwner(ctx context.Context, externalID string) ([]domain.LogEntry, error) {
	owner, err := s.users.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to resolve owner", "error", err, "external_id", externalID)
		return nil, domain.ErrStorageUnavailable
	}

	entries, err := s.logs.FindByOwner(ctx, owner.ID)
	if err != nil {
		s.logger.Error("failed to fetch entries", "error", err, "external_id", externalID)
		return nil, domain.ErrStorageUnavailable
	}
	return entries, nil
}

// resolveOwner looks the user up and creates it on first sight. A
// uniqueness conflict on create means a concurrent submission provisioned
// the same identity first; the single re-read recovers with the winner's
// row instead of failing the submission.
func (s *LogService) resolveOwner(ctx context.Context, externalID string) (*domain.User, error) {
	owner, err := s.users.FindByExternalID(ctx, externalID)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	owner, err = s.users.Create(ctx, externalID)
	if err == nil {
		s.logger.Info("provisioned new user", "external_id", externalID)
		if s.metrics != nil {
			s.metrics.UsersProvisioned.Inc()
		}
		return owner, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("provision owner: %w", err)
	}

	owner, err = s.users.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("re-read owner after create conflict: %w", err)
	}
	return owner, nil
}

func countMalformed(entries []domain.LogEntryInput) int {
	invalid := 0
	for _, e := range entries {
		if !e.Valid() {
			invalid++
		}
	}
	return invalid
}
