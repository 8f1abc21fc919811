package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklane/tasklane/internal/platform/httpx"
)

// ErrEmailTaken indicates a registration against an already registered email.
var ErrEmailTaken = errors.New("already exists")

// LoginAttempt is one recorded authentication attempt.
type LoginAttempt struct {
	ID        uuid.UUID
	UserID    *int64
	Email     string
	RemoteIP  string
	Success   bool
	CreatedAt time.Time
}

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByToken(ctx context.Context, token string) (*User, error)
	CreateUser(ctx context.Context, email, name, passwordHash, token string) (*User, error)
	RecordLogin(ctx context.Context, attempt LoginAttempt) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, name, password_hash, token, created_at, updated_at`

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByToken fetches a user by exact token match.
func (r *PGRepository) FindByToken(ctx context.Context, token string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE token = $1`, token)
	return scanUser(row)
}

// CreateUser persists a new user. A unique-constraint violation on email or
// token maps to ErrEmailTaken so a concurrent duplicate registration surfaces
// as the same failure as the fast-path check.
func (r *PGRepository) CreateUser(ctx context.Context, email, name, passwordHash, token string) (*User, error) {
	user := &User{Email: email, Name: name, PasswordHash: passwordHash, Token: token}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, token) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		email, name, passwordHash, token,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// RecordLogin persists a login attempt for auditing.
func (r *PGRepository) RecordLogin(ctx context.Context, attempt LoginAttempt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO login_audit (id, user_id, email, remote_ip, success, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		attempt.ID, attempt.UserID, attempt.Email, attempt.RemoteIP, attempt.Success, attempt.CreatedAt,
	)
	return err
}

// PruneLoginAudit removes audit rows older than the retention window.
func (r *PGRepository) PruneLoginAudit(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	tag, err := r.pool.Exec(ctx, `DELETE FROM login_audit WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Token, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
