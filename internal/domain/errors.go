package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a lookup for an identity that was never
	// provisioned. It is distinct from a provisioned identity with no
	// entries, which yields an empty result set.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a uniqueness violation. On user creation it means
	// a concurrent submission provisioned the same identity first; the
	// caller recovers by re-reading the winner's row.
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized covers a failed capability token check and an
	// operator credential mismatch alike. It carries no detail about which
	// check failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorageUnavailable reports that the store could not complete the
	// transaction. It is the only condition callers should retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// MalformedBatchError rejects a whole submission because one or more
// entries failed structural validation before commit. Nothing from the
// batch is persisted.
type MalformedBatchError struct {
	Invalid int
}

func (e *MalformedBatchError) Error() string {
	return fmt.Sprintf("batch rejected: %d malformed entries", e.Invalid)
}
