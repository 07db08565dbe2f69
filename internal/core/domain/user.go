package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the coarse permission tier carried in a token's role claim.
type Role string

const (
	RoleNone     Role = ""
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
	// RoleUnknown is what ParseRole yields for anything outside the known set.
	// It is never persisted.
	RoleUnknown Role = "Unknown"
)

var knownRoles = []Role{RoleAdmin, RoleCustomer}

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user already exists")
)

// ParseRole maps raw input onto a known role. Matching ignores case and
// surrounding whitespace; blank input is RoleNone.
func ParseRole(raw string) (Role, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return RoleNone, nil
	}
	for _, r := range knownRoles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Known reports whether r is one of the assignable roles or RoleNone.
func (r Role) Known() bool {
	if r == RoleNone {
		return true
	}
	for _, k := range knownRoles {
		if r == k {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// User models a registered identity.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Normalize is the canonical form used for every uniqueness check and lookup
// on human-entered names: lower-cased and trimmed.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
