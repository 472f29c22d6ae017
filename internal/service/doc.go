// Package service contains the application use cases: registering and
// authenticating users, and managing tasks under the ownership rules.
//
// Services depend on the store interfaces, never on a specific backend.
// They return the store and domain sentinel errors wrapped with context,
// so callers classify failures with errors.Is:
//
//   - ErrInvalidCredentials, ErrDuplicateUsername for the credential store
//   - ErrTaskNotFound, ErrForbidden for task operations
//   - domain.ErrValidation for rejected input
package service
