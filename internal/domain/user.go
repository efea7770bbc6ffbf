package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a distinct log producer. A row is created lazily on the
// first submission from an unseen external id and is never mutated or
// deleted afterwards.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	CreatedAt  time.Time `json:"created_at"`
}
