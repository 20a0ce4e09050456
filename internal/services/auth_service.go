package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/isdelr/ender-auth-be/internal/metrics"
	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/isdelr/ender-auth-be/internal/store"
	"github.com/rs/zerolog"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// PasswordHasher hashes passwords and checks candidates against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenSigner issues access tokens.
type TokenSigner interface {
	Issue(userID, email string) (string, error)
}

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
}

// AuthResult is the identity of a freshly authenticated user plus its token.
type AuthResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// AuthService handles credential checks, registration and token issuance.
type AuthService struct {
	users   UserServiceProvider
	hasher  PasswordHasher
	tokens  TokenSigner
	metrics metrics.AuthRecorder
	log     zerolog.Logger
}

// NewAuthService creates a new AuthService. A nil recorder disables metrics.
func NewAuthService(users UserServiceProvider, hasher PasswordHasher, tokens TokenSigner, recorder metrics.AuthRecorder, log zerolog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
		log:     log.With().Str("component", "auth_service").Logger(),
	}
}

// ValidateCredentials returns the principal for a matching email/password
// pair, or nil when there is no match.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.Principal, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Warn().Str("email", email).Msg("Validation failed for user")
		return nil, nil
	}

	match, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !match {
		s.log.Warn().Str("email", email).Msg("Validation failed for user")
		return nil, nil
	}

	p := user.Principal()
	return &p, nil
}

// Login authenticates a user and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	s.log.Info().Str("email", email).Msg("Login attempt")

	// shorter than any password signup accepts, so it cannot match
	if utf8.RuneCountInString(password) < MinPasswordLength {
		s.metrics.RecordLogin(metrics.OutcomeInvalidCredentials)
		s.log.Warn().Str("email", email).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}

	principal, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		s.metrics.RecordLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("validate credentials: %w", err)
	}
	if principal == nil {
		s.metrics.RecordLogin(metrics.OutcomeInvalidCredentials)
		s.log.Warn().Str("email", email).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}

	result, err := s.issue(*principal)
	if err != nil {
		s.metrics.RecordLogin(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.RecordLogin(metrics.OutcomeSuccess)
	s.log.Info().Str("email", email).Str("user_id", principal.ID).Msg("Login successful")
	return result, nil
}

// Signup registers a new account and issues a token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = NormalizeEmail(in.Email)
	s.log.Info().Str("email", in.Email).Msg("Signup attempt")

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.metrics.RecordSignup(metrics.OutcomeError)
		return nil, err
	}
	if existing != nil {
		s.metrics.RecordSignup(metrics.OutcomeConflict)
		s.log.Warn().Str("email", in.Email).Msg("Signup failed: user already exists")
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.metrics.RecordSignup(metrics.OutcomeError)
		return nil, err
	}

	user, err := s.users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
	})
	if err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.metrics.RecordSignup(metrics.OutcomeConflict)
			s.log.Warn().Str("email", in.Email).Msg("Signup failed: user already exists")
			return nil, ErrUserExists
		}
		s.metrics.RecordSignup(metrics.OutcomeError)
		return nil, err
	}

	result, err := s.issue(user.Principal())
	if err != nil {
		s.metrics.RecordSignup(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.RecordSignup(metrics.OutcomeSuccess)
	s.log.Info().Str("email", in.Email).Str("user_id", user.ID).Msg("Signup successful")
	return result, nil
}

func (s *AuthService) issue(p models.Principal) (*AuthResult, error) {
	token, err := s.tokens.Issue(p.ID, p.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{ID: p.ID, Name: p.Name, Email: p.Email, AccessToken: token}, nil
}
