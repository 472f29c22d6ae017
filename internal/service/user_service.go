package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/service/auth"
	"github.com/phrazzld/tasklist/internal/store"
)

// dummyPassword is hashed once at startup and compared against whenever a
// login names an unknown user.
const dummyPassword = "tasklist-dummy-password-for-unknown-users"

// UserService is the credential store.
type UserService interface {
	// Register creates a user and returns its ID. Only the password hash is stored.
	Register(ctx context.Context, username, password string) (int64, error)

	// Authenticate verifies a username and password and returns the
	// identity to bind to a new session.
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	dummyHash string
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) (*UserServiceImpl, error) {
	if userStore == nil || hasher == nil {
		return nil, errors.New("user store and password hasher are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		dummyHash: dummyHash,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register creates a new user with the specified username and password
func (s *UserServiceImpl) Register(ctx context.Context, username, password string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Debug("registration rejected by validation", slog.String("error", err.Error()))
		return 0, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return 0, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.PasswordHash = hash
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("attempted to register an existing username", slog.String("username", user.Username))
			return 0, fmt.Errorf("%w: %w", ErrDuplicateUsername, err)
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return 0, NewServiceError("user", "register", "failed to save user", err)
	}

	log.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user.ID, nil
}

// Authenticate checks the password for username. Unknown usernames still
// run a bcrypt comparison so response time does not reveal whether the
// user exists.
func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			log.Debug("login for unknown username")
			return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return domain.Identity{}, NewServiceError("user", "authenticate", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		log.Debug("password mismatch", slog.Int64("user_id", user.ID))
		return domain.Identity{}, ErrInvalidCredentials
	}

	log.Debug("user authenticated", slog.Int64("user_id", user.ID))
	return domain.Identity{UserID: user.ID, Username: user.Username}, nil
}
