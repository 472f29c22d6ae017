package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/store"
)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]domain.User
	byUsername map[string]int64
	logger     *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty UserStore.
func NewUserStore(logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		byID:       make(map[int64]domain.User),
		byUsername: make(map[string]int64),
		logger:     logger.With(slog.String("component", "memory_user_store")),
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return store.NewStoreError("user", "create", "password hash is required", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return store.ErrUsernameExists
	}

	s.nextID++
	user.ID = s.nextID
	s.byID[user.ID] = domain.User{ID: user.ID, Username: user.Username, PasswordHash: user.PasswordHash}
	s.byUsername[user.Username] = user.ID

	s.logger.Debug("user inserted", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *UserStore) exists(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}
