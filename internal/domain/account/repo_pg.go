package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starkeyhf/clinic-api/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// queryable abstracts pgxpool.Pool and pgxpool.Conn for request-scoped queries.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT u.user_id, u.first_name, u.last_name, u.username, u.phone_number,
		       u.gender, u.birthdate, u.password_hash, u.failed_attempts,
		       u.last_failed_login, u.avatar, r.role_name
		FROM users u
		INNER JOIN roles r ON u.role_id = r.role_id
		WHERE u.username = $1`, username)

	var u User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PhoneNumber,
		&u.Gender, &u.Birthdate, &u.PasswordHash, &u.FailedAttempts,
		&u.LastFailedLogin, &u.AvatarPath, &u.RoleName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repoPG) ClearFailedAttempts(ctx context.Context, userID int64) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET failed_attempts = 0, last_failed_login = NULL
		WHERE user_id = $1`, userID)
	return err
}

func (r *repoPG) RecordFailedAttempt(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET failed_attempts = failed_attempts + 1, last_failed_login = $2
		WHERE user_id = $1`, userID, at)
	return err
}

func (r *repoPG) UpdatePassword(ctx context.Context, username, passwordHash string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE username = $1`, username, passwordHash)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) UpdateAvatar(ctx context.Context, userID int64, path string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET avatar = $2, updated_at = NOW()
		WHERE user_id = $1`, userID, path)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
