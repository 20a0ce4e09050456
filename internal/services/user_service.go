package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/isdelr/ender-auth-be/internal/store"
	"github.com/rs/zerolog"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
}

// UserService provides data access for user accounts.
type UserService struct {
	store store.UserStore
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(s store.UserStore, log zerolog.Logger) *UserService {
	return &UserService{store: s, log: log.With().Str("component", "user_service").Logger()}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail retrieves a user by email, including the password hash.
// A missing user yields (nil, nil).
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = NormalizeEmail(email)
	s.log.Debug().Str("email", email).Msg("Searching for user")

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Debug().Str("email", email).Msg("User not found")
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID retrieves a user by ID. A missing user yields (nil, nil).
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create persists a new user and returns it with its assigned ID. Uniqueness
// of the email is left to the caller and to the store's unique index.
func (s *UserService) Create(ctx context.Context, user models.User) (*models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	s.log.Info().Str("email", user.Email).Msg("Creating user")

	created, err := s.store.Insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("email", created.Email).Str("user_id", created.ID).Msg("User created")
	return &created, nil
}

// FindAll returns every stored user.
func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	s.log.Debug().Int("count", len(users)).Msg("Fetched all users")
	return users, nil
}

// ResolvePrincipal loads the public identity of the user with the given ID.
func (s *UserService) ResolvePrincipal(ctx context.Context, userID string) (*models.Principal, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	p := user.Principal()
	return &p, nil
}
