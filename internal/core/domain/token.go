package domain

import (
	"errors"
	"time"
)

var (
	ErrUnauthenticated = errors.New("missing bearer token")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrRoleDenied      = errors.New("access forbidden")
	ErrConfiguration   = errors.New("configuration error")
)

// Claims are the facts embedded in a signed token.
type Claims struct {
	TokenID   string
	Subject   string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Token is an encoded bearer token together with the claims it was built from.
type Token struct {
	Value  string
	Claims Claims
}
