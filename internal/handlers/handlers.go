package handlers

import (
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/interactions"
	"github.com/emilythestrangee/social-feed/backend/internal/posts"
	"github.com/emilythestrangee/social-feed/backend/internal/store"
)

// Deps are the services the HTTP layer is built from. Issuer is nil when an
// external identity provider owns sign-up and sign-in.
type Deps struct {
	Store  store.Store
	Posts  *posts.Service
	Engine *interactions.Engine
	Issuer *auth.JWTProvider
}

// Handler combines all handler types
type Handler struct {
	Auth        *AuthHandler
	Post        *PostHandler
	Comment     *CommentHandler
	Interaction *InteractionHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(d.Store, d.Issuer),
		Post:        NewPostHandler(d.Posts),
		Comment:     NewCommentHandler(d.Posts),
		Interaction: NewInteractionHandler(d.Engine),
	}
}
