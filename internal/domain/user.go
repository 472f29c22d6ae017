package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxUsernameLength matches the width of the users.username column.
	MaxUsernameLength = 25

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// User represents a registered account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Password     string `json:"-"` // Plaintext, only set during registration
	PasswordHash string `json:"-"`
}

// NewUser creates a User holding the plaintext password for hashing.
// The ID is assigned by the store.
func NewUser(username, password string) (*User, error) {
	user := &User{
		Username: NormalizeUsername(username),
		Password: password,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the username and whichever password form is present.
func (u *User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	if u.PasswordHash == "" {
		return NewValidationError("password", "cannot be empty", ErrValidation)
	}

	return nil
}

// NormalizeUsername is applied to a username before it is stored or looked up.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidateUsername enforces the non-empty and length rules for usernames.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return NewValidationError("username", "cannot be empty", ErrValidation)
	}
	if !utf8.ValidString(username) {
		return NewValidationError("username", "must be valid text", ErrValidation)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return NewValidationError("username", "must be at most 25 characters", ErrValidation)
	}
	return nil
}

// ValidatePassword enforces the non-empty and length rules for passwords.
func ValidatePassword(password string) error {
	if password == "" {
		return NewValidationError("password", "cannot be empty", ErrValidation)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "must be at most 72 bytes", ErrValidation)
	}
	return nil
}
