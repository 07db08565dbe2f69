package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// DefaultTokenTTL is the validity window applied when none is configured.
const DefaultTokenTTL = 2 * time.Hour

// tokenClaims is the JWT payload. Role is deliberately not omitempty so that
// the claim is present even for users without a role.
type tokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 bearer tokens. The signing key is
// fixed at construction and never mutated, so a single instance is shared by
// all request handlers.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenService fails with domain.ErrConfiguration when secret is blank.
// Call it once at startup.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: jwt secret is empty", domain.ErrConfiguration)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		signingKey: []byte(secret),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// TTL returns the configured validity window.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue builds and signs a token for user.
func (s *TokenService) Issue(user *domain.User) (*domain.Token, error) {
	if user == nil {
		return nil, fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	subject := strconv.FormatInt(user.ID, 10)
	claims := tokenClaims{
		UserID:   subject,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.Token{Value: signed, Claims: toDomainClaims(&claims)}, nil
}

// Validate verifies raw and returns its claims. Malformed input, a bad
// signature, a non-HS256 algorithm and expiry all yield domain.ErrTokenInvalid.
func (s *TokenService) Validate(raw string) (*domain.Claims, error) {
	var claims tokenClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	out := toDomainClaims(&claims)
	return &out, nil
}

func toDomainClaims(c *tokenClaims) domain.Claims {
	out := domain.Claims{
		TokenID:  c.ID,
		Subject:  c.Subject,
		Username: c.Username,
		Role:     domain.Role(c.Role),
	}
	if out.Subject == "" {
		out.Subject = c.UserID
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}
