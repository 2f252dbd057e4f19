package mock

import (
	"context"
	"sync"

	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
)

// SessionRepository is a mock implementation of repositories.SessionRepository.
// By default it behaves as an in-memory session store keyed by token hash;
// any behavior can be overridden via the function stubs.
type SessionRepository struct {
	CreateFunc            func(ctx context.Context, session *models.Session) error
	GetByTokenHashFunc    func(ctx context.Context, tokenHash string) (*models.Session, error)
	DeleteByTokenHashFunc func(ctx context.Context, tokenHash string) error
	DeleteExpiredFunc     func(ctx context.Context) (int64, error)

	mu       sync.Mutex
	sessions map[string]*models.Session

	Calls map[string][]interface{}
}

// NewSessionRepository creates a new mock session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*models.Session),
		Calls:    make(map[string][]interface{}),
	}
}

func (m *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	m.Calls["Create"] = append(m.Calls["Create"], session)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.TokenHash] = session
	return nil
}

func (m *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	m.Calls["GetByTokenHash"] = append(m.Calls["GetByTokenHash"], tokenHash)
	if m.GetByTokenHashFunc != nil {
		return m.GetByTokenHashFunc(ctx, tokenHash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[tokenHash]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

func (m *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	m.Calls["DeleteByTokenHash"] = append(m.Calls["DeleteByTokenHash"], tokenHash)
	if m.DeleteByTokenHashFunc != nil {
		return m.DeleteByTokenHashFunc(ctx, tokenHash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	m.Calls["DeleteExpired"] = append(m.Calls["DeleteExpired"], nil)
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// Len returns the number of stored sessions (in-memory mode only)
func (m *SessionRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Ensure SessionRepository implements the interface
var _ repositories.SessionRepository = (*SessionRepository)(nil)
