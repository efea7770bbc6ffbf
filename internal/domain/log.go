package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is one persisted log record. Entries are immutable: there is no
// update or delete path in this service.
type LogEntry struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
}

// LogEntryInput is a caller-supplied record before it is bound to an owner.
// All three fields are required; the timestamp is taken verbatim and never
// defaulted server-side.
type LogEntryInput struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
}

// Valid reports whether the input carries every required field.
func (in LogEntryInput) Valid() bool {
	return in.Message != "" && in.Level != "" && !in.Timestamp.IsZero()
}
