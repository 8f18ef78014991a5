package account

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation covers missing or empty required input.
	ErrValidation = errors.New("missing required input")
	// ErrNotFound means no account matches the supplied username.
	ErrNotFound = errors.New("account not found")
	// ErrWrongPassword means the account exists but the password did not match.
	ErrWrongPassword = errors.New("incorrect password")
	// ErrNoChange means an update matched no rows, e.g. the account was
	// deleted between the existence check and the write.
	ErrNoChange = errors.New("no rows updated")
)

// LockedError is returned while an account's lockout window is active.
type LockedError struct {
	// Remaining is the whole seconds left until the window expires.
	Remaining int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked for %d more seconds", e.Remaining)
}

// User maps to the users table joined with roles. PasswordHash and the
// failed-attempt fields never leave this package in API responses.
type User struct {
	ID          int64      `db:"user_id"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Username    string     `db:"username"`
	PhoneNumber *string    `db:"phone_number"`
	Gender      *string    `db:"gender"`
	Birthdate   *time.Time `db:"birthdate"`
	RoleName    string     `db:"role_name"`

	PasswordHash    string     `db:"password_hash"`
	FailedAttempts  int        `db:"failed_attempts"`
	LastFailedLogin *time.Time `db:"last_failed_login"`
	AvatarPath      *string    `db:"avatar"`
}

// UserData is the sanitized view of a User returned by login. Field names
// follow the API contract.
type UserData struct {
	UserID      int64   `json:"UserID"`
	FirstName   string  `json:"FirstName"`
	LastName    string  `json:"LastName"`
	Username    string  `json:"Username"`
	PhoneNumber *string `json:"PhoneNumber"`
	Gender      *string `json:"Gender"`
	Birthdate   *string `json:"Birthdate"`
	RoleName    string  `json:"RoleName"`
}

// Sanitized strips the secret hash and attempt-tracking fields.
func (u *User) Sanitized() *UserData {
	d := &UserData{
		UserID:      u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		PhoneNumber: u.PhoneNumber,
		Gender:      u.Gender,
		RoleName:    u.RoleName,
	}
	if u.Birthdate != nil {
		b := u.Birthdate.Format("2006-01-02")
		d.Birthdate = &b
	}
	return d
}
