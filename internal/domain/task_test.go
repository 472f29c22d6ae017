package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask(7, " buy milk ")
	require.NoError(t, err)

	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, int64(7), task.OwnerID)
	assert.False(t, task.Postponed)
	assert.False(t, task.Completed)
	assert.True(t, task.IsOwnedBy(7))
	assert.False(t, task.IsOwnedBy(8))
}

func TestNewTask_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ownerID int64
		title   string
		wantErr error
	}{
		{"empty title", 1, "", ErrValidation},
		{"whitespace title", 1, "   ", ErrValidation},
		{"title too long", 1, strings.Repeat("x", MaxTitleLength+1), ErrValidation},
		{"missing owner", 0, "buy milk", ErrInvalidID},
		{"invalid utf-8", 1, "buy \xff milk", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.ownerID, tt.title)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestValidateTitle_AtLimit(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateTitle(strings.Repeat("x", MaxTitleLength)))
}

func TestIdentity_IsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Identity{}.IsZero())
	assert.False(t, Identity{UserID: 1, Username: "ana"}.IsZero())
}
