package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
)

// AdminRepository defines the interface for admin account data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminAccount) error
	// GetActiveByUsername fetches an account by exact username match,
	// restricted to active accounts.
	GetActiveByUsername(ctx context.Context, username string) (*models.AdminAccount, error)
	GetActiveByID(ctx context.Context, adminID uuid.UUID) (*models.AdminAccount, error)
	// RecordFailure persists an updated failure counter and optional lockout.
	RecordFailure(ctx context.Context, adminID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
	// ResetFailures clears the failure counter and lockout and stamps last_login.
	ResetFailures(ctx context.Context, adminID uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	// DeleteExpired removes sessions past their expiry and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}

// ActivityRepository defines the interface for the append-only audit trail
type ActivityRepository interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
}
