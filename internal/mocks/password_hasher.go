package mocks

import (
	"errors"
	"sync"
)

// ErrMockPasswordMismatch is returned by MockPasswordHasher.Compare when
// ShouldSucceed is false and no CompareFn is set.
var ErrMockPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing
type MockPasswordHasher struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// HashFn and CompareFn allow custom logic in tests
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	mu                sync.Mutex
	compareCalledWith []string
	hashCallCount     int
}

// Hash implements the auth.PasswordHasher interface.
// The default hash is "hashed:" followed by the password.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.mu.Lock()
	m.hashCallCount++
	m.mu.Unlock()

	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.compareCalledWith = append(m.compareCalledWith, hashedPassword)
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrMockPasswordMismatch
}

// CompareCallCount reports how many times Compare was called.
func (m *MockPasswordHasher) CompareCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.compareCalledWith)
}

// ComparedHashes returns the hashes Compare was called with, in order.
func (m *MockPasswordHasher) ComparedHashes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.compareCalledWith...)
}

// HashCallCount reports how many times Hash was called.
func (m *MockPasswordHasher) HashCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashCallCount
}
