package account

import (
	"context"
	"time"
)

// Repository defines the persistence interface for accounts.
type Repository interface {
	// GetByUsername fetches an account joined with its role by exact
	// username. Returns ErrNotFound when no account matches.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ClearFailedAttempts resets the failed-attempt counter to zero and the
	// last-failed timestamp to NULL in a single statement.
	ClearFailedAttempts(ctx context.Context, userID int64) error

	// RecordFailedAttempt increments the failed-attempt counter and sets the
	// last-failed timestamp in a single statement, so a crash can never
	// leave the two fields out of step.
	RecordFailedAttempt(ctx context.Context, userID int64, at time.Time) error

	// UpdatePassword overwrites the stored hash and bumps updated_at,
	// returning the number of rows affected.
	UpdatePassword(ctx context.Context, username, passwordHash string) (int64, error)

	// UpdateAvatar records the avatar path for a user, returning the number
	// of rows affected.
	UpdateAvatar(ctx context.Context, userID int64, path string) (int64, error)
}
