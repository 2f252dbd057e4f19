package models

// Activity log action tags
const (
	// ActionLoginSuccess is recorded after a successful authentication
	ActionLoginSuccess = "login_success"
	// ActionLoginFailed is recorded for any rejected login attempt
	ActionLoginFailed = "login_failed"
	// ActionLogout is recorded when a session is explicitly revoked
	ActionLogout = "logout"
)

// Failure reasons stored in the activity log details field. These are for
// audit only and are never surfaced to the client.
const (
	ReasonUserNotFound  = "user_not_found"
	ReasonAccountLocked = "account_locked"
	ReasonWrongPassword = "wrong_password"
	ReasonRateLimited   = "rate_limited"
)

// RoleAdmin is the default capability tag for seeded accounts
const RoleAdmin = "admin"
