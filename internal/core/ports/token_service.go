package ports

import "github.com/devtalles/apiecommerce/internal/core/domain"

// TokenIssuer mints signed bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (*domain.Token, error)
}

// TokenValidator checks signature and expiry and returns the embedded claims.
// Every failure is reported as domain.ErrTokenInvalid.
type TokenValidator interface {
	Validate(raw string) (*domain.Claims, error)
}
