package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminAccount represents an admin user account.
// Accounts are created out-of-band (seeding or ops tooling); this service
// only mutates the login-related fields.
type AdminAccount struct {
	ID                  uuid.UUID  `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"` // never expose
	Role                string     `json:"role"`
	IsActive            bool       `json:"is_active"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login"`
	CreatedAt           time.Time  `json:"created_at"`
}

// AdminAccountPublic is the client-facing view of an account.
type AdminAccountPublic struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// Public returns the account without credential or lockout state.
func (a *AdminAccount) Public() *AdminAccountPublic {
	return &AdminAccountPublic{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}

// Locked reports whether the account is locked out at the given instant.
func (a *AdminAccount) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// Session binds the hash of an issued bearer token to an account.
// The raw token is never persisted. Rows are deleted on logout and
// otherwise left to expire; verification checks expiry lazily.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AdminID   uuid.UUID `json:"admin_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session row is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ActivityEntry is an append-only audit record. AdminID is empty for
// failures that happen before an account is identified.
type ActivityEntry struct {
	AdminID   string    `json:"admin_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
