package account

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/starkeyhf/clinic-api/internal/platform/avatar"
)

// Service implements credential verification with a failed-attempt lockout
// window, password reset, and avatar upload.
type Service struct {
	repo    Repository
	avatars avatar.Store

	maxAttempts int
	lockFor     time.Duration

	// now is swappable so lockout arithmetic is testable.
	now func() time.Time
}

func NewService(repo Repository, avatars avatar.Store, maxAttempts int, lockFor time.Duration) *Service {
	return &Service{
		repo:        repo,
		avatars:     avatars,
		maxAttempts: maxAttempts,
		lockFor:     lockFor,
		now:         time.Now,
	}
}

// Authenticate verifies a username/password pair.
//
// The lockout state machine: an account with maxAttempts or more failures and
// a recent last-failed timestamp is locked for lockFor from that timestamp;
// while locked, the password is not even checked. The counter is never reset
// by mere expiry of the window — only a successful login clears it.
//
// An unknown username fails without touching any counters. That means the
// response distinguishes unknown users from wrong passwords; this asymmetry
// is part of the API contract and intentionally kept.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*UserData, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if u.FailedAttempts >= s.maxAttempts && u.LastFailedLogin != nil {
		remaining := s.lockFor - s.now().Sub(*u.LastFailedLogin)
		if remaining > 0 {
			// Round up so a live lock never reports "0s" remaining.
			return nil, &LockedError{Remaining: int((remaining + time.Second - 1) / time.Second)}
		}
	}

	// bcrypt comparison is constant-time.
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if err := s.repo.RecordFailedAttempt(ctx, u.ID, s.now()); err != nil {
			return nil, fmt.Errorf("record failed attempt: %w", err)
		}
		return nil, ErrWrongPassword
	}

	if err := s.repo.ClearFailedAttempts(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("reset failed attempts: %w", err)
	}

	return u.Sanitized(), nil
}

// ResetPassword hashes newPassword with bcrypt and overwrites the stored
// secret. ErrNoChange is returned when the update matches no rows, which can
// happen if the account disappears between the existence check and the write.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	username = strings.TrimSpace(username)
	newPassword = strings.TrimSpace(newPassword)
	if username == "" || newPassword == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	affected, err := s.repo.UpdatePassword(ctx, username, string(hash))
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if affected == 0 {
		return ErrNoChange
	}
	return nil
}

// SaveAvatar validates the file extension, stores the content under a
// timestamped name, and records the relative path on the account. Returns the
// stored relative path.
func (s *Service) SaveAvatar(ctx context.Context, userID int64, filename string, content io.Reader) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user id is required", ErrValidation)
	}

	ext, err := avatar.ValidateExtension(filename)
	if err != nil {
		return "", err
	}

	stored := fmt.Sprintf("avatar_%d_%d.%s", userID, s.now().Unix(), ext)
	relPath, err := s.avatars.Save(ctx, stored, content)
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	affected, err := s.repo.UpdateAvatar(ctx, userID, relPath)
	if err != nil {
		return "", fmt.Errorf("update avatar path: %w", err)
	}
	if affected == 0 {
		return "", ErrNotFound
	}
	return relPath, nil
}
