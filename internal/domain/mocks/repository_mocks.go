package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/user/log-vault/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository for
// testing.
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*domain.User

	FindErr   error
	CreateErr error
	// ConflictWinner is inserted into Users when CreateErr fires, simulating
	// a concurrent submission winning the provisioning race. CreateErr is
	// cleared after it is returned once.
	ConflictWinner *domain.User

	FindCalls   int
	CreateCalls int
}

func (m *MockUserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	u, ok := m.Users[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *MockUserRepository) Create(ctx context.Context, externalID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		err := m.CreateErr
		m.CreateErr = nil
		if m.ConflictWinner != nil {
			if m.Users == nil {
				m.Users = make(map[string]*domain.User)
			}
			m.Users[m.ConflictWinner.ExternalID] = m.ConflictWinner
		}
		return nil, err
	}
	if m.Users == nil {
		m.Users = make(map[string]*domain.User)
	}
	u := &domain.User{ID: uuid.New(), ExternalID: externalID}
	m.Users[externalID] = u
	return u, nil
}

// MockLogRepository is a mock implementation of domain.LogRepository for
// testing.
type MockLogRepository struct {
	mu     sync.Mutex
	Stored map[uuid.UUID][]domain.LogEntry

	StoreErr error
	FindErr  error

	StoreCalls int
	nextID     int64
}

func (m *MockLogRepository) StoreBatch(ctx context.Context, ownerID uuid.UUID, entries []domain.LogEntryInput) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreCalls++
	if m.StoreErr != nil {
		return 0, m.StoreErr
	}
	if m.Stored == nil {
		m.Stored = make(map[uuid.UUID][]domain.LogEntry)
	}
	for _, in := range entries {
		m.nextID++
		m.Stored[ownerID] = append(m.Stored[ownerID], domain.LogEntry{
			ID:        m.nextID,
			UserID:    ownerID,
			Timestamp: in.Timestamp,
			Message:   in.Message,
			Level:     in.Level,
		})
	}
	return len(entries), nil
}

func (m *MockLogRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.Stored[ownerID], nil
}
