package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	p, err := NewJWTProvider("secret", "social-feed", time.Hour)
	require.NoError(t, err)

	token, err := p.Issue("u1", "u1@example.com")
	require.NoError(t, err)

	principal, err := p.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "u1", Email: "u1@example.com"}, principal)
}

func TestJWTRejectsExpired(t *testing.T) {
	p, err := NewJWTProvider("secret", "", time.Minute)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := p.Issue("u1", "u1@example.com")
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.Validate(context.Background(), token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsWrongSecretAndIssuer(t *testing.T) {
	issuer, err := NewJWTProvider("secret", "social-feed", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Issue("u1", "u1@example.com")
	require.NoError(t, err)

	other, err := NewJWTProvider("other-secret", "social-feed", time.Hour)
	require.NoError(t, err)
	_, err = other.Validate(context.Background(), token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	wrongIssuer, err := NewJWTProvider("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	_, err = wrongIssuer.Validate(context.Background(), token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWTRejectsOtherAlgorithms(t *testing.T) {
	p, err := NewJWTProvider("secret", "", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Validate(context.Background(), unsigned)
	assert.Error(t, err)
}

func TestJWTRequiresExpiry(t *testing.T) {
	p, err := NewJWTProvider("secret", "", time.Hour)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = p.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestNewJWTProviderNeedsSecret(t *testing.T) {
	_, err := NewJWTProvider("", "", time.Hour)
	assert.Error(t, err)
}
