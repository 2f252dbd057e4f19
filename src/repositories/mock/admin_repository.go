package mock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
)

// AdminRepository is a mock implementation of repositories.AdminRepository
type AdminRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc              func(ctx context.Context, admin *models.AdminAccount) error
	GetActiveByUsernameFunc func(ctx context.Context, username string) (*models.AdminAccount, error)
	GetActiveByIDFunc       func(ctx context.Context, adminID uuid.UUID) (*models.AdminAccount, error)
	RecordFailureFunc       func(ctx context.Context, adminID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
	ResetFailuresFunc       func(ctx context.Context, adminID uuid.UUID) error
	CountFunc               func(ctx context.Context) (int, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewAdminRepository creates a new mock admin repository
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *AdminRepository) Create(ctx context.Context, admin *models.AdminAccount) error {
	m.Calls["Create"] = append(m.Calls["Create"], admin)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return nil
}

func (m *AdminRepository) GetActiveByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	m.Calls["GetActiveByUsername"] = append(m.Calls["GetActiveByUsername"], username)
	if m.GetActiveByUsernameFunc != nil {
		return m.GetActiveByUsernameFunc(ctx, username)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) GetActiveByID(ctx context.Context, adminID uuid.UUID) (*models.AdminAccount, error) {
	m.Calls["GetActiveByID"] = append(m.Calls["GetActiveByID"], adminID)
	if m.GetActiveByIDFunc != nil {
		return m.GetActiveByIDFunc(ctx, adminID)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) RecordFailure(ctx context.Context, adminID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	m.Calls["RecordFailure"] = append(m.Calls["RecordFailure"], []interface{}{adminID, failedAttempts, lockedUntil})
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, adminID, failedAttempts, lockedUntil)
	}
	return nil
}

func (m *AdminRepository) ResetFailures(ctx context.Context, adminID uuid.UUID) error {
	m.Calls["ResetFailures"] = append(m.Calls["ResetFailures"], adminID)
	if m.ResetFailuresFunc != nil {
		return m.ResetFailuresFunc(ctx, adminID)
	}
	return nil
}

func (m *AdminRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"] = append(m.Calls["Count"], nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Ensure AdminRepository implements the interface
var _ repositories.AdminRepository = (*AdminRepository)(nil)
