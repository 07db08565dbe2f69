package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

// Login result messages.
const (
	MsgLoginSucceeded     = "user logged in successfully"
	MsgUsernameRequired   = "username is required"
	MsgUserNotFound       = "user not found"
	MsgInvalidCredentials = "invalid credentials"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthService implements registration and login.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenIssuer
	hasher  PasswordHasher
	log     zerolog.Logger
	uniform bool
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithUniformLoginErrors reports unknown users with the same message as a
// wrong password so login responses do not reveal which usernames exist.
func WithUniformLoginErrors(enabled bool) AuthOption {
	return func(s *AuthService) { s.uniform = enabled }
}

func NewAuthService(
	repo ports.UserRepository,
	tokens ports.TokenIssuer,
	hasher PasswordHasher,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{repo: repo, tokens: tokens, hasher: hasher, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates and persists a new identity. Passwords with surrounding
// whitespace are rejected because Authenticate trims the submitted password.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Password) != in.Password {
		return nil, fmt.Errorf("%w: password must not start or end with whitespace", domain.ErrInvalidInput)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, domain.Normalize(username))
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateUser
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().
		Int64("user_id", created.ID).
		Str("username", created.Username).
		Str("role", created.Role.String()).
		Msg("user registered")

	return created, nil
}

// Authenticate looks the user up by normalized username, verifies the
// password and issues a token. It only reads from the store.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, *domain.Token, error) {
	normalized := domain.Normalize(username)
	if normalized == "" {
		return nil, nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByUsername(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.hasher.Compare(user.PasswordHash, strings.TrimSpace(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, token, nil
}

// Login runs Authenticate and reports authentication failures through the
// result message with an empty token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, token, err := s.Authenticate(ctx, username, password)
	if err == nil {
		s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")
		return &ports.LoginResult{Token: token.Value, User: user, Message: MsgLoginSucceeded}, nil
	}

	var msg string
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		msg = MsgUsernameRequired
	case errors.Is(err, domain.ErrUserNotFound):
		msg = MsgUserNotFound
		if s.uniform {
			msg = MsgInvalidCredentials
		}
	case errors.Is(err, domain.ErrInvalidCredentials):
		msg = MsgInvalidCredentials
	default:
		return nil, err
	}

	s.log.Warn().Err(err).Str("username", domain.Normalize(username)).Msg("login rejected")
	return &ports.LoginResult{Message: msg}, nil
}
