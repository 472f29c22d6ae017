package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PrintsVerifiableHash(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(func() (string, error) { return "pass123", nil }, &out, 4)
	require.NoError(t, err)

	hash := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.NoError(t, auth.NewBcryptHasher(4).Compare(hash, "pass123"))
}

func TestRun_RejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(func() (string, error) { return "", nil }, &out, 4)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, out.String())
}

func TestRun_ReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("closed")
	err := run(func() (string, error) { return "", readErr }, &bytes.Buffer{}, 4)
	assert.ErrorIs(t, err, readErr)
}

func TestReadLine(t *testing.T) {
	t.Parallel()

	line, err := readLine(strings.NewReader("secret\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", line)

	line, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", line)
}
