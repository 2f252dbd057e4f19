package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories/mock"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword  = "correct-horse-battery"
	testIP        = "203.0.113.7"
	testUserAgent = "admin-spa/1.0"
)

// testFixture bundles an auth service with its mock stores
type testFixture struct {
	svc      *AuthService
	admins   *mock.AdminRepository
	sessions *mock.SessionRepository
	activity *mock.ActivityRepository
	limiter  *LoginRateLimiter
}

func newFixture(t *testing.T, cfg AuthConfig, limiterThreshold int) *testFixture {
	t.Helper()

	admins := mock.NewAdminRepository()
	sessions := mock.NewSessionRepository()
	activity := mock.NewActivityRepository()

	limiter := NewLoginRateLimiter(limiterThreshold, 15*time.Minute)
	t.Cleanup(limiter.Stop)

	issuer, err := NewTokenIssuer(testTokenSecret, SessionTokenTTL)
	require.NoError(t, err)

	svc := NewAuthService(admins, sessions, NewActivityService(activity), limiter, issuer, cfg)
	return &testFixture{
		svc:      svc,
		admins:   admins,
		sessions: sessions,
		activity: activity,
		limiter:  limiter,
	}
}

func testAccount(t *testing.T) *models.AdminAccount {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &models.AdminAccount{
		ID:           uuid.New(),
		Username:     "operator",
		Email:        "operator@skidqi.kz",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}

// serveAccount wires the mock to return the given account for its username
func (f *testFixture) serveAccount(account *models.AdminAccount) {
	f.admins.GetActiveByUsernameFunc = func(ctx context.Context, username string) (*models.AdminAccount, error) {
		if username == account.Username {
			acc := *account
			return &acc, nil
		}
		return nil, repositories.ErrNotFound
	}
	f.admins.GetActiveByIDFunc = func(ctx context.Context, adminID uuid.UUID) (*models.AdminAccount, error) {
		if adminID == account.ID {
			acc := *account
			return &acc, nil
		}
		return nil, repositories.ErrNotFound
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, account.ID, result.User.ID)
	assert.Equal(t, account.Username, result.User.Username)
	require.NotNil(t, result.User.LastLogin)

	// Failure counter and lockout cleared
	assert.Len(t, f.admins.Calls["ResetFailures"], 1)

	// Session persisted under the token hash, 8h expiry, request metadata captured
	session, err := f.sessions.GetByTokenHash(context.Background(), HashToken(result.Token))
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.AdminID)
	assert.Equal(t, testIP, session.IPAddress)
	assert.Equal(t, testUserAgent, session.UserAgent)
	assert.WithinDuration(t, time.Now().Add(SessionTokenTTL), session.ExpiresAt, time.Minute)

	// Audit trail
	entries := f.activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionLoginSuccess, entries[0].Action)
	assert.Equal(t, account.ID.String(), entries[0].AdminID)
}

func TestLogin_UnknownUsername(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)

	result, err := f.svc.Login(context.Background(), "nobody", testPassword, testIP, testUserAgent)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	entries := f.activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionLoginFailed, entries[0].Action)
	assert.Equal(t, models.ReasonUserNotFound, entries[0].Details)
	assert.Equal(t, "", entries[0].AdminID)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, "wrong", testIP, testUserAgent)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown username and wrong password are the same error value
	_, unknownErr := f.svc.Login(context.Background(), "nobody", "wrong", testIP, testUserAgent)
	assert.Equal(t, err, unknownErr)

	entries := f.activity.Entries()
	require.GreaterOrEqual(t, len(entries), 1)
	assert.Equal(t, models.ReasonWrongPassword, entries[0].Details)
}

func TestLogin_WrongPasswordIncrementsCounter(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 10)
	account := testAccount(t)
	account.FailedLoginAttempts = 2
	f.serveAccount(account)

	_, err := f.svc.Login(context.Background(), account.Username, "wrong", testIP, testUserAgent)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	calls := f.admins.Calls["RecordFailure"]
	require.Len(t, calls, 1)
	args := calls[0].([]interface{})
	assert.Equal(t, 3, args[1].(int))
	assert.Nil(t, args[2].(*time.Time))
}

func TestLogin_LockoutAtThreshold(t *testing.T) {
	f := newFixture(t, AuthConfig{LockoutThreshold: 5, LockoutDuration: 30 * time.Minute}, 10)
	account := testAccount(t)
	account.FailedLoginAttempts = 4
	f.serveAccount(account)

	_, err := f.svc.Login(context.Background(), account.Username, "wrong", testIP, testUserAgent)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	calls := f.admins.Calls["RecordFailure"]
	require.Len(t, calls, 1)
	args := calls[0].([]interface{})
	assert.Equal(t, 5, args[1].(int))

	lockedUntil := args[2].(*time.Time)
	require.NotNil(t, lockedUntil)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *lockedUntil, time.Minute)
}

func TestLogin_LockedAccountRejectsCorrectPassword(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 10)
	account := testAccount(t)
	until := time.Now().Add(10 * time.Minute)
	account.LockedUntil = &until
	account.FailedLoginAttempts = 5
	f.serveAccount(account)

	_, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Counters are not touched while locked
	assert.Empty(t, f.admins.Calls["RecordFailure"])

	entries := f.activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ReasonAccountLocked, entries[0].Details)
}

func TestLogin_ExpiredLockAllowsLogin(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 10)
	account := testAccount(t)
	until := time.Now().Add(-time.Minute)
	account.LockedUntil = &until
	account.FailedLoginAttempts = 5
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Len(t, f.admins.Calls["ResetFailures"], 1)
}

func TestLogin_RateLimited(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 2)
	account := testAccount(t)
	f.serveAccount(account)

	for i := 0; i < 2; i++ {
		_, err := f.svc.Login(context.Background(), account.Username, "wrong", testIP, testUserAgent)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Third attempt from the same origin is rejected before any lookup,
	// even with correct credentials
	lookups := len(f.admins.Calls["GetActiveByUsername"])
	_, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Len(t, f.admins.Calls["GetActiveByUsername"], lookups)

	// A different origin is unaffected
	result, err := f.svc.Login(context.Background(), account.Username, testPassword, "198.51.100.9", testUserAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestVerify_Success(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)

	verified, err := f.svc.Verify(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, verified.ID)
}

func TestVerify_ValidPayloadWithoutSessionRow(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	// A token with a perfectly valid signed payload but no matching session
	// row must fail: the stateless check alone is not sufficient.
	issuer, err := NewTokenIssuer(testTokenSecret, SessionTokenTTL)
	require.NoError(t, err)
	forged, err := issuer.Issue(account.ID)
	require.NoError(t, err)

	_, err = f.svc.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestVerify_ExpiredSessionRow(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)

	// Age the session row past its expiry
	session, err := f.sessions.GetByTokenHash(context.Background(), HashToken(result.Token))
	require.NoError(t, err)
	session.ExpiresAt = time.Now().Add(-time.Minute)

	_, err = f.svc.Verify(context.Background(), result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// The expired row is rejected, not deleted
	assert.Equal(t, 1, f.sessions.Len())
}

func TestVerify_InactiveAccount(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)

	// Account deactivated after login
	f.admins.GetActiveByIDFunc = func(ctx context.Context, adminID uuid.UUID) (*models.AdminAccount, error) {
		return nil, repositories.ErrNotFound
	}

	_, err = f.svc.Verify(context.Background(), result.Token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerify_GarbageToken(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)

	_, err := f.svc.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// No store access for a token that fails the local check
	assert.Empty(t, f.sessions.Calls["GetByTokenHash"])
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), result.Token, testIP, testUserAgent))
	assert.Equal(t, 0, f.sessions.Len())

	// Second logout finds no session row but still succeeds
	require.NoError(t, f.svc.Logout(context.Background(), result.Token, testIP, testUserAgent))

	// Garbage tokens are a no-op success as well
	require.NoError(t, f.svc.Logout(context.Background(), "garbage", testIP, testUserAgent))
}

func TestLoginVerifyLogoutRoundTrip(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)
	account := testAccount(t)
	f.serveAccount(account)

	result, err := f.svc.Login(context.Background(), account.Username, testPassword, testIP, testUserAgent)
	require.NoError(t, err)

	verified, err := f.svc.Verify(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, verified.ID)

	require.NoError(t, f.svc.Logout(context.Background(), result.Token, testIP, testUserAgent))

	_, err = f.svc.Verify(context.Background(), result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestCreateAdmin_Validation(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)

	_, err := f.svc.CreateAdmin(context.Background(), "", "a@b.c", "longenough")
	assert.Error(t, err)

	_, err = f.svc.CreateAdmin(context.Background(), "operator", "a@b.c", "short")
	assert.Error(t, err)
}

func TestCreateAdmin_HashesPassword(t *testing.T) {
	f := newFixture(t, AuthConfig{}, 5)

	admin, err := f.svc.CreateAdmin(context.Background(), "operator", "operator@skidqi.kz", "s3cret-enough")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-enough", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-enough")))
	assert.True(t, admin.IsActive)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}
