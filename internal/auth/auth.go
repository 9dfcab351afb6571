// Package auth validates bearer credentials into principals.
package auth

import (
	"context"
	"strings"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Provider validates a bearer token with the identity provider. Errors carry
// the provider's reason for rejecting the token.
type Provider interface {
	Validate(ctx context.Context, token string) (Principal, error)
}

const bearerPrefix = "Bearer "

// Guard turns an Authorization header into a Principal. It makes exactly one
// provider call and fails closed: any provider error is Unauthenticated.
type Guard struct {
	provider Provider
}

func NewGuard(provider Provider) *Guard {
	return &Guard{provider: provider}
}

// Authenticate validates the raw Authorization header value.
func (g *Guard) Authenticate(ctx context.Context, header string) (Principal, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Principal{}, err
	}

	principal, err := g.provider.Validate(ctx, token)
	if err != nil {
		// the provider's reason is part of the client message
		return Principal{}, &apperr.Error{
			Kind: apperr.Unauthenticated,
			Msg:  "Unauthorized: Invalid token. " + err.Error(),
			Err:  err,
		}
	}
	if principal.UserID == "" {
		return Principal{}, apperr.New(apperr.Unauthenticated, "Unauthorized: token has no subject")
	}
	return principal, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", apperr.New(apperr.Unauthenticated, "Unauthorized: missing or invalid Authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", apperr.New(apperr.Unauthenticated, "Unauthorized: empty bearer token")
	}
	return token, nil
}
