// Package interactions keeps each user's reaction to a post unique and
// toggleable, and reports the post's aggregate after every change.
package interactions

import (
	"context"
	"log"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
	"github.com/emilythestrangee/social-feed/backend/internal/store"
)

// maxAttempts bounds the retry after a uniqueness conflict to one.
const maxAttempts = 2

// Result is the post's reaction aggregate after a toggle.
type Result struct {
	PostID       string               `json:"post_id"`
	Interactions []models.Interaction `json:"interactions"`
	Likes        int                  `json:"likes"`
	Dislikes     int                  `json:"dislikes"`
	State        State                `json:"state"`
}

type Engine struct {
	store store.Store
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// Toggle applies the principal's reaction to the post and returns the post's
// full interaction list as seen right after the change.
func (e *Engine) Toggle(ctx context.Context, p auth.Principal, postID string, kind models.ReactionKind) (*Result, error) {
	if !kind.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "Invalid interaction type.")
	}

	var (
		result *Result
		err    error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = e.toggleOnce(ctx, p, postID, kind)
		if !apperr.Is(err, apperr.Conflict) {
			break
		}
		log.Printf("[Interactions] conflict on user %s post %s (attempt %d): %v", p.UserID, postID, attempt, err)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// toggleOnce runs one read-decide-write cycle inside a transaction holding the
// pair lock, then reads the aggregate in the same transaction.
func (e *Engine) toggleOnce(ctx context.Context, p auth.Principal, postID string, kind models.ReactionKind) (*Result, error) {
	userID := p.UserID
	var result *Result
	err := e.store.Tx(ctx, func(tx store.Store) error {
		if _, err := tx.GetPost(ctx, postID); err != nil {
			return err
		}
		if err := tx.EnsureUser(ctx, &models.User{ID: userID, Email: p.Email}); err != nil {
			return err
		}
		if err := tx.LockInteraction(ctx, userID, postID); err != nil {
			return err
		}

		existing, err := tx.FindInteraction(ctx, userID, postID)
		if err != nil {
			return err
		}

		next, action, err := Transition(StateOf(existing), kind)
		if err != nil {
			return err
		}

		switch action {
		case Insert:
			err = tx.CreateInteraction(ctx, &models.Interaction{UserID: userID, PostID: postID, Type: kind})
		case Remove:
			err = tx.DeleteInteraction(ctx, existing.ID)
		case Switch:
			err = tx.UpdateInteractionType(ctx, existing.ID, kind)
		}
		if err != nil {
			return err
		}

		list, err := tx.ListInteractions(ctx, postID)
		if err != nil {
			return err
		}
		result = summarize(postID, list, next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func summarize(postID string, list []models.Interaction, state State) *Result {
	r := &Result{PostID: postID, Interactions: list, State: state}
	for _, i := range list {
		switch i.Type {
		case models.Like:
			r.Likes++
		case models.Dislike:
			r.Dislikes++
		}
	}
	return r
}
