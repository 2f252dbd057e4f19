package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
)

// ActivityService writes the append-only audit trail. A failed write is
// logged and swallowed: audit loss must never fail the request that
// produced it.
type ActivityService struct {
	repo repositories.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(repo repositories.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Log appends an audit entry. adminID is empty for failures that happen
// before an account is identified.
func (s *ActivityService) Log(ctx context.Context, adminID, action, details, ip, userAgent string) {
	entry := &models.ActivityEntry{
		AdminID:   adminID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		log.Error().
			Err(err).
			Str("action", action).
			Str("admin_id", adminID).
			Msg("failed to write activity log entry")
	}
}
