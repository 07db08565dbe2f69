package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		_, err := NewTokenService(secret, time.Hour)
		require.ErrorIs(t, err, domain.ErrConfiguration)
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, svc.TTL())
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc, err := NewTokenService("secret", 0)
	require.NoError(t, err)
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	user := &domain.User{ID: 42, Username: "alice", Role: domain.RoleAdmin}
	tok, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	assert.Equal(t, "42", tok.Claims.Subject)
	assert.Equal(t, issuedAt.Add(2*time.Hour), tok.Claims.ExpiresAt)

	claims, err := svc.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.IssuedAt.Equal(issuedAt))
	assert.True(t, claims.ExpiresAt.Equal(tok.Claims.ExpiresAt))
}

func TestTokenService_EmptyRoleClaimIsPresent(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue(&domain.User{ID: 7, Username: "norole"})
	require.NoError(t, err)

	raw := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tok.Value, raw, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)

	role, present := raw["role"]
	require.True(t, present, "role claim must always be emitted")
	assert.Equal(t, "", role)
	assert.Equal(t, "7", raw["id"])
	assert.Equal(t, "norole", raw["username"])
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)
	start := time.Now()
	svc.now = fixedClock(start)

	tok, err := svc.Issue(&domain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	svc.now = fixedClock(start.Add(59 * time.Minute))
	_, err = svc.Validate(tok.Value)
	require.NoError(t, err)

	svc.now = fixedClock(start.Add(time.Hour + time.Second))
	_, err = svc.Validate(tok.Value)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue(&domain.User{ID: 1, Username: "alice", Role: domain.RoleCustomer})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	// The first character carries six full signature bits.
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Validate(tampered)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"id":       "1",
		"username": "mallory",
		"role":     "Admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	otherAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "1", "role": "Admin"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong key": otherKey,
		"HS512":     otherAlg,
		"alg none":  unsigned,
		"no expiry": noExpiry,
		"malformed": "not-a-token",
		"empty":     "",
		"two parts": "abc.def",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(raw)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestTokenService_IssueNilUser(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	_, err = svc.Issue(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
