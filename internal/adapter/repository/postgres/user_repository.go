package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/user/log-vault/internal/domain"
)

// Postgres error code for unique_violation.
const uniqueViolation = "23505"

// UserRepository implements domain.UserRepository backed by PostgreSQL.
// The users table carries a unique index on external_id; that index, not
// application locking, arbitrates concurrent first-time provisioning.
type UserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger.With("component", "postgres_users")}
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `SELECT id, external_id, created_at FROM users WHERE external_id = $1`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(&u.ID, &u.ExternalID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by external id: %w", err)
	}
	return &u, nil
}

// Create inserts a new user row. A unique violation on external_id is
// surfaced as domain.ErrConflict so the caller can recover by re-reading
// the winning row.
func (r *UserRepository) Create(ctx context.Context, externalID string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, external_id)
		VALUES ($1, $2)
		RETURNING id, external_id, created_at
	`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, uuid.New(), externalID).Scan(&u.ID, &u.ExternalID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.logger.Debug("lost user provisioning race", "external_id", externalID)
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}
