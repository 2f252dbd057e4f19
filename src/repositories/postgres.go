package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
)

// ErrNotFound indicates the requested row does not exist
var ErrNotFound = errors.New("not found")

const adminColumns = `id, username, email, password_hash, role, is_active,
	failed_login_attempts, locked_until, last_login, created_at`

// PostgresAdminRepository implements AdminRepository on a pgx pool
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminRepository creates a new Postgres-backed admin repository
func NewPostgresAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

func (r *PostgresAdminRepository) Create(ctx context.Context, admin *models.AdminAccount) error {
	query := `
		INSERT INTO admin_users (id, username, email, password_hash, role, is_active, failed_login_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		admin.ID, admin.Username, admin.Email, admin.PasswordHash,
		admin.Role, admin.IsActive, admin.FailedLoginAttempts, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}

func (r *PostgresAdminRepository) GetActiveByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admin_users
		WHERE username = $1 AND is_active = true
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *PostgresAdminRepository) GetActiveByID(ctx context.Context, adminID uuid.UUID) (*models.AdminAccount, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admin_users
		WHERE id = $1 AND is_active = true
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, adminID))
}

func (r *PostgresAdminRepository) scanOne(row pgx.Row) (*models.AdminAccount, error) {
	admin := &models.AdminAccount{}
	err := row.Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash,
		&admin.Role, &admin.IsActive, &admin.FailedLoginAttempts,
		&admin.LockedUntil, &admin.LastLogin, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin account: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepository) RecordFailure(ctx context.Context, adminID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	query := `
		UPDATE admin_users
		SET failed_login_attempts = $2, locked_until = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, adminID, failedAttempts, lockedUntil)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

func (r *PostgresAdminRepository) ResetFailures(ctx context.Context, adminID uuid.UUID) error {
	query := `
		UPDATE admin_users
		SET failed_login_attempts = 0, locked_until = NULL, last_login = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, adminID)
	if err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

func (r *PostgresAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admin accounts: %w", err)
	}
	return count, nil
}

// PostgresSessionRepository implements SessionRepository on a pgx pool
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new Postgres-backed session repository
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO admin_sessions (id, admin_id, token_hash, expires_at, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID, session.AdminID, session.TokenHash, session.ExpiresAt,
		session.IPAddress, session.UserAgent, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	query := `
		SELECT id, admin_id, token_hash, expires_at, ip_address, user_agent, created_at
		FROM admin_sessions
		WHERE token_hash = $1
	`
	session := &models.Session{}
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID, &session.AdminID, &session.TokenHash, &session.ExpiresAt,
		&session.IPAddress, &session.UserAgent, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return session, nil
}

func (r *PostgresSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM admin_sessions WHERE token_hash = $1", tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM admin_sessions WHERE expires_at < NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

// PostgresActivityRepository implements ActivityRepository on a pgx pool
type PostgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository creates a new Postgres-backed activity repository
func NewPostgresActivityRepository(pool *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

func (r *PostgresActivityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	query := `
		INSERT INTO admin_activity_log (admin_id, action, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.AdminID, entry.Action, entry.Details,
		entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

// Interface conformance
var (
	_ AdminRepository    = (*PostgresAdminRepository)(nil)
	_ SessionRepository  = (*PostgresSessionRepository)(nil)
	_ ActivityRepository = (*PostgresActivityRepository)(nil)
)
