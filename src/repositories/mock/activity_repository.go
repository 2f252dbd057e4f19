package mock

import (
	"context"
	"sync"

	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
)

// ActivityRepository is a mock implementation of repositories.ActivityRepository
type ActivityRepository struct {
	AppendFunc func(ctx context.Context, entry *models.ActivityEntry) error

	mu      sync.Mutex
	entries []*models.ActivityEntry
}

// NewActivityRepository creates a new mock activity repository
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (m *ActivityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

// Entries returns a copy of all appended entries
func (m *ActivityRepository) Entries() []*models.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.ActivityEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Ensure ActivityRepository implements the interface
var _ repositories.ActivityRepository = (*ActivityRepository)(nil)
