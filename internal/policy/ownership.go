// Package policy decides who may mutate a resource.
package policy

import (
	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
)

// Owned is implemented by resources with a single owning user.
type Owned interface {
	OwnerID() string
}

// CanMutate reports whether the principal owns the resource.
func CanMutate(p auth.Principal, r Owned) bool {
	return p.UserID != "" && r.OwnerID() == p.UserID
}

// Authorize returns a Forbidden error unless the principal owns the resource.
// Callers check that the resource exists first.
func Authorize(p auth.Principal, r Owned, action string) error {
	if CanMutate(p, r) {
		return nil
	}
	return apperr.Newf(apperr.Forbidden, "Forbidden: You can only %s your own posts", action)
}
