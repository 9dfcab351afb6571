// Package store declares the persistence contract the feed services depend on.
// internal/database provides the gorm-backed implementation.
package store

import (
	"context"
	"time"

	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

// Users persists identities. EnsureUser inserts the row when absent and is a
// no-op otherwise.
type Users interface {
	EnsureUser(ctx context.Context, user *models.User) error
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Posts persists posts. GetPost returns the bare row; LoadPost joins author,
// comments (with authors) and interactions.
type Posts interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	LoadPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePostText(ctx context.Context, id, text string, at time.Time) error
	DeletePost(ctx context.Context, id string) error
}

type Comments interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
}

// Interactions persists reactions. FindInteraction returns (nil, nil) when the
// pair has no row. LockInteraction serializes work on one (user, post) pair
// until the surrounding transaction ends; outside a transaction it is a no-op.
type Interactions interface {
	LockInteraction(ctx context.Context, userID, postID string) error
	FindInteraction(ctx context.Context, userID, postID string) (*models.Interaction, error)
	CreateInteraction(ctx context.Context, interaction *models.Interaction) error
	UpdateInteractionType(ctx context.Context, id string, kind models.ReactionKind) error
	DeleteInteraction(ctx context.Context, id string) error
	ListInteractions(ctx context.Context, postID string) ([]models.Interaction, error)
}

// Store is the full resource store. Tx runs fn in a single transaction; the
// Store passed to fn is bound to it and must be used for every call inside.
type Store interface {
	Users
	Posts
	Comments
	Interactions

	Tx(ctx context.Context, fn func(tx Store) error) error
}
