package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasklist/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	badEncodingCode         = "22021"
)

// codeErrors maps integrity violations to the store sentinel they represent.
var codeErrors = map[string]error{
	uniqueViolationCode:     store.ErrDuplicate,
	foreignKeyViolationCode: store.ErrInvalidEntity,
	checkViolationCode:      store.ErrInvalidEntity,
	notNullViolationCode:    store.ErrInvalidEntity,
	badEncodingCode:         store.ErrInvalidEntity,
}

// constraintErrors refines codeErrors for named constraints in the schema.
var constraintErrors = map[string]error{
	"users_username_key": store.ErrUsernameExists,
}

// MapError translates a driver error into a store sentinel. The original
// error stays in the message for logs but is not part of the error chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	sentinel, ok := codeErrors[pgErr.Code]
	if !ok {
		return err
	}
	if refined, ok := constraintErrors[pgErr.ConstraintName]; ok {
		sentinel = refined
	}

	detail := pgErr.ConstraintName
	if pgErr.Code == notNullViolationCode {
		detail = pgErr.ColumnName
	}
	return fmt.Errorf("%w (%s): %v", sentinel, detail, err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolationCode)
}

// MapUniqueViolation maps a unique violation to specificError.
// Other errors are passed through MapError.
func MapUniqueViolation(err error, specificError error) error {
	if !IsUniqueViolation(err) {
		return MapError(err)
	}
	return fmt.Errorf("%w: %v", specificError, err)
}

// RowsAffected returns the number of rows an UPDATE or DELETE touched.
func RowsAffected(result sql.Result) (int64, error) {
	if result == nil {
		return 0, errors.New("nil result provided to RowsAffected")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
