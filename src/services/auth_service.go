package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Lockout defaults: 5 failed passwords lock the account for 30 minutes
const (
	DefaultLockoutThreshold = 5
	DefaultLockoutDuration  = 30 * time.Minute
)

// AuthConfig tunes the lockout policy of an AuthService
type AuthConfig struct {
	LockoutThreshold int
	LockoutDuration  time.Duration
}

// AuthService implements the login / verify / logout flows. Each call is a
// self-contained request cycle; the only state shared across calls lives in
// the repositories and the injected rate limiter.
type AuthService struct {
	admins   repositories.AdminRepository
	sessions repositories.SessionRepository
	activity *ActivityService
	limiter  *LoginRateLimiter
	tokens   *TokenIssuer

	lockoutThreshold int
	lockoutDuration  time.Duration
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token string
	User  *models.AdminAccountPublic
}

// NewAuthService creates a new authentication service
func NewAuthService(
	admins repositories.AdminRepository,
	sessions repositories.SessionRepository,
	activity *ActivityService,
	limiter *LoginRateLimiter,
	tokens *TokenIssuer,
	cfg AuthConfig,
) *AuthService {
	if cfg.LockoutThreshold <= 0 {
		cfg.LockoutThreshold = DefaultLockoutThreshold
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = DefaultLockoutDuration
	}
	return &AuthService{
		admins:           admins,
		sessions:         sessions,
		activity:         activity,
		limiter:          limiter,
		tokens:           tokens,
		lockoutThreshold: cfg.LockoutThreshold,
		lockoutDuration:  cfg.LockoutDuration,
	}
}

// Login authenticates an operator and issues a bearer token. Failure modes
// surface as ErrRateLimited, ErrInvalidCredentials (unknown username and
// wrong password are indistinguishable), or ErrAccountLocked; the precise
// cause is retained in the activity log only.
func (s *AuthService) Login(ctx context.Context, username, password, ip, userAgent string) (*LoginResult, error) {
	if !s.limiter.Allow(ip, userAgent) {
		s.activity.Log(ctx, "", models.ActionLoginFailed, models.ReasonRateLimited, ip, userAgent)
		return nil, ErrRateLimited
	}
	s.limiter.Record(ip, userAgent)

	admin, err := s.admins.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.activity.Log(ctx, "", models.ActionLoginFailed, models.ReasonUserNotFound, ip, userAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	now := time.Now()
	if admin.Locked(now) {
		s.activity.Log(ctx, admin.ID.String(), models.ActionLoginFailed, models.ReasonAccountLocked, ip, userAgent)
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		attempts := admin.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if attempts >= s.lockoutThreshold {
			until := now.Add(s.lockoutDuration)
			lockedUntil = &until
		}
		if err := s.admins.RecordFailure(ctx, admin.ID, attempts, lockedUntil); err != nil {
			log.Error().Err(err).Str("username", admin.Username).Msg("failed to persist login failure")
		}
		s.activity.Log(ctx, admin.ID.String(), models.ActionLoginFailed, models.ReasonWrongPassword, ip, userAgent)
		return nil, ErrInvalidCredentials
	}

	if err := s.admins.ResetFailures(ctx, admin.ID); err != nil {
		// last_login and counter reset are best-effort; the login stands
		log.Error().Err(err).Str("username", admin.Username).Msg("failed to reset failure counter")
	}

	token, err := s.tokens.Issue(admin.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &models.Session{
		ID:        uuid.New(),
		AdminID:   admin.ID,
		TokenHash: HashToken(token),
		ExpiresAt: now.Add(s.tokens.TTL()),
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.activity.Log(ctx, admin.ID.String(), models.ActionLoginSuccess, "", ip, userAgent)

	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil
	admin.LastLogin = &now

	return &LoginResult{Token: token, User: admin.Public()}, nil
}

// Verify validates a bearer token. Both checks must pass independently:
// the signed payload (signature + expiry, no store access) and the session
// row looked up by token hash. Expired rows are rejected but not deleted
// here; the cleanup service reaps them.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.AdminAccountPublic, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionInvalid
	}
	if session.AdminID.String() != claims.AdminID {
		return nil, ErrSessionInvalid
	}

	admin, err := s.admins.GetActiveByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	return admin.Public(), nil
}

// Logout revokes the session bound to the token. It is idempotent: an
// invalid or already-revoked token is a no-op success.
func (s *AuthService) Logout(ctx context.Context, token, ip, userAgent string) error {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.DeleteByTokenHash(ctx, HashToken(token)); err != nil {
		log.Error().Err(err).Msg("failed to delete session on logout")
		return nil
	}

	s.activity.Log(ctx, claims.AdminID, models.ActionLogout, "", ip, userAgent)
	return nil
}

// CreateAdmin creates a new admin account with a bcrypt password hash.
// Used by startup seeding and ops tooling; not exposed over HTTP.
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (*models.AdminAccount, error) {
	if len(username) < 1 || len(username) > 255 {
		return nil, errors.New("username must be between 1 and 255 characters")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminAccount{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}
	return admin, nil
}

// HasAdmins checks if any admin accounts exist
func (s *AuthService) HasAdmins(ctx context.Context) (bool, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count admin accounts: %w", err)
	}
	return count > 0, nil
}
