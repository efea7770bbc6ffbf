package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists log producers. Create must surface ErrConflict
// on an external_id uniqueness violation so callers can recover from the
// lazy-provisioning race; the storage layer's unique index is the arbiter.
type UserRepository interface {
	// FindByExternalID resolves an external identity to its User row,
	// returning ErrNotFound if it was never provisioned.
	FindByExternalID(ctx context.Context, externalID string) (*User, error)

	// Create inserts a new User for the external identity and returns the
	// stored row including its assigned internal id.
	Create(ctx context.Context, externalID string) (*User, error)
}

// LogRepository persists and queries log entries.
type LogRepository interface {
	// StoreBatch writes all entries for one owner in a single transaction.
	// Either every entry becomes durably visible or none do.
	StoreBatch(ctx context.Context, ownerID uuid.UUID, entries []LogEntryInput) (int, error)

	// FindByOwner returns every entry for the owner ordered by timestamp
	// ascending, insertion order breaking ties.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]LogEntry, error)
}
