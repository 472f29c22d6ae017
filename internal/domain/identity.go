package domain

// Identity is the user bound to an authenticated session.
type Identity struct {
	UserID   int64
	Username string
}

// IsZero reports whether the identity is anonymous.
func (i Identity) IsZero() bool {
	return i.UserID == 0
}
