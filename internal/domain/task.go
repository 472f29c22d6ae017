package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength matches the width of the tasks.title column.
const MaxTitleLength = 200

// Task is a single to-do item. OwnerID never changes after creation.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Postponed bool   `json:"postponed"`
	Completed bool   `json:"completed"`
	OwnerID   int64  `json:"user_id"`
}

// NewTask creates a pending task for the given owner.
func NewTask(ownerID int64, title string) (*Task, error) {
	task := &Task{
		Title:   strings.TrimSpace(title),
		OwnerID: ownerID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task has an owner and an acceptable title.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return NewValidationError("user_id", "must reference a user", ErrInvalidID)
	}
	return ValidateTitle(t.Title)
}

// IsOwnedBy reports whether userID owns the task.
func (t *Task) IsOwnedBy(userID int64) bool {
	return t.OwnerID == userID
}

// ValidateTitle enforces the non-empty and length rules for task titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "cannot be empty", ErrValidation)
	}
	if !utf8.ValidString(title) {
		return NewValidationError("title", "must be valid text", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", "must be at most 200 characters", ErrValidation)
	}
	return nil
}
