package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
)

// CleanupService reaps expired session rows in the background. Verification
// never deletes expired rows itself, so without the reaper the table would
// grow for as long as the process runs.
type CleanupService struct {
	sessions repositories.SessionRepository
	enabled  bool
	interval time.Duration
	done     chan bool
}

// NewCleanupService creates a new session cleanup service
func NewCleanupService(sessions repositories.SessionRepository, enabled bool, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupService{
		sessions: sessions,
		enabled:  enabled,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start starts the cleanup service
func (cs *CleanupService) Start(ctx context.Context) {
	if !cs.enabled {
		log.Info().Msg("session cleanup disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(cs.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("session cleanup stopped")
				return
			case <-cs.done:
				log.Info().Msg("session cleanup stopped")
				return
			case <-ticker.C:
				cs.cleanup(ctx)
			}
		}
	}()

	log.Info().Dur("interval", cs.interval).Msg("session cleanup started")
}

// Stop stops the cleanup service. A no-op when cleanup is disabled.
func (cs *CleanupService) Stop() {
	if !cs.enabled {
		return
	}
	cs.done <- true
}

func (cs *CleanupService) cleanup(ctx context.Context) {
	deleted, err := cs.sessions.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session cleanup error")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("expired sessions removed")
	}
}
