package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/user/log-vault/internal/domain"
)

const logEntriesTable = "log_entries"

// LogRepository implements domain.LogRepository backed by PostgreSQL.
type LogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLogRepository creates a new PostgreSQL log entry repository.
func NewLogRepository(db *sql.DB, logger *slog.Logger) *LogRepository {
	return &LogRepository{db: db, logger: logger.With("component", "postgres_logs")}
}

// StoreBatch writes all entries in one transaction using the COPY
// protocol. If the caller's context is cancelled mid-batch the deferred
// rollback keeps partially written rows from ever becoming visible.
func (r *LogRepository) StoreBatch(ctx context.Context, ownerID uuid.UUID, entries []domain.LogEntryInput) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch transaction: %w", err)
	}
	defer txn.Rollback() // Rollback is a no-op if Commit() is called

	stmt, err := txn.PrepareContext(ctx, pq.CopyIn(logEntriesTable, "user_id", "ts", "message", "level"))
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, ownerID, e.Timestamp, e.Message, e.Level); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("buffer batch row: %w", err)
		}
	}

	// Final Exec with no arguments flushes the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return 0, fmt.Errorf("flush batch insert: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close batch insert: %w", err)
	}

	if err := txn.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return len(entries), nil
}

// FindByOwner returns the owner's entries ordered by timestamp ascending.
// The bigserial id breaks timestamp ties in insertion order, so repeated
// reads are reproducible.
func (r *LogRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.LogEntry, error) {
	query := `
		SELECT id, user_id, ts, message, level
		FROM log_entries
		WHERE user_id = $1
		ORDER BY ts ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query entries by owner: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Message, &e.Level); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
