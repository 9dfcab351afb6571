package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
)

type providerFunc func(ctx context.Context, token string) (Principal, error)

func (f providerFunc) Validate(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "abc.def", "Basic dXNlcjpwYXNz", "Bearer ", "bearer abc"} {
		_, err := BearerToken(header)
		assert.True(t, apperr.Is(err, apperr.Unauthenticated), "header %q", header)
	}
}

func TestGuardDoesNotCallProviderWithoutToken(t *testing.T) {
	called := false
	guard := NewGuard(providerFunc(func(context.Context, string) (Principal, error) {
		called = true
		return Principal{UserID: "u1"}, nil
	}))

	_, err := guard.Authenticate(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
	assert.False(t, called)
}

func TestGuardCarriesProviderReason(t *testing.T) {
	guard := NewGuard(providerFunc(func(context.Context, string) (Principal, error) {
		return Principal{}, errors.New("JWT expired")
	}))

	_, err := guard.Authenticate(context.Background(), "Bearer t")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
	assert.Contains(t, apperr.Message(err), "JWT expired")
}

func TestGuardCallsProviderOnce(t *testing.T) {
	calls := 0
	guard := NewGuard(providerFunc(func(_ context.Context, token string) (Principal, error) {
		calls++
		assert.Equal(t, "tok", token)
		return Principal{UserID: "u1", Email: "u1@example.com"}, nil
	}))

	p, err := guard.Authenticate(context.Background(), "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "u1", Email: "u1@example.com"}, p)
	assert.Equal(t, 1, calls)
}

func TestGuardRejectsEmptySubject(t *testing.T) {
	guard := NewGuard(providerFunc(func(context.Context, string) (Principal, error) {
		return Principal{Email: "ghost@example.com"}, nil
	}))

	_, err := guard.Authenticate(context.Background(), "Bearer tok")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}
