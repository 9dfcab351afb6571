// Package posts implements the ownership-gated post and comment mutations and
// the read paths that render them.
package posts

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
	"github.com/emilythestrangee/social-feed/backend/internal/policy"
	"github.com/emilythestrangee/social-feed/backend/internal/storage"
	"github.com/emilythestrangee/social-feed/backend/internal/store"
)

// CreatePostInput carries a new post. ImageRef is an already hosted image;
// Image is an upload to store first. At most one of them is used, Image wins.
type CreatePostInput struct {
	Text     string
	ImageRef string
	Image    io.Reader
}

type Service struct {
	store store.Store
	blobs storage.Blobs
	now   func() time.Time
}

// NewService wires the service. blobs may be nil when uploads are disabled.
func NewService(s store.Store, blobs storage.Blobs) *Service {
	return &Service{
		store: s,
		blobs: blobs,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.store.ListPosts(ctx)
}

func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.store.LoadPost(ctx, id)
}

// ListComments returns the post's comments oldest first.
func (s *Service) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListComments(ctx, postID)
}

// CreatePost stores a post authored by p. Content is validated before any
// upload happens.
func (s *Service) CreatePost(ctx context.Context, p auth.Principal, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	ref := strings.TrimSpace(in.ImageRef)
	if text == "" && ref == "" && in.Image == nil {
		return nil, apperr.New(apperr.InvalidArgument, "Post cannot be empty")
	}

	if in.Image != nil {
		if s.blobs == nil {
			return nil, apperr.New(apperr.InvalidArgument, "Image uploads are disabled")
		}
		uploaded, err := s.blobs.Put(ctx, in.Image)
		if err != nil {
			log.Printf("[Posts] image upload failed for user %s: %v", p.UserID, err)
			return nil, err
		}
		ref = uploaded
	}

	now := s.now()
	post := &models.Post{
		AuthorID:     p.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Comments:     []models.Comment{},
		Interactions: []models.Interaction{},
	}
	if text != "" {
		post.Text = &text
	}
	if ref != "" {
		post.Image = &ref
	}

	err := s.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.EnsureUser(ctx, &models.User{ID: p.UserID, Email: p.Email}); err != nil {
			return err
		}
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}
		author, err := tx.GetUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		post.Author = *author
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Posts] user %s created post %s", p.UserID, post.ID)
	return post, nil
}

// UpdatePost replaces the post's text. Only the author may edit.
func (s *Service) UpdatePost(ctx context.Context, p auth.Principal, postID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.InvalidArgument, "Post text cannot be empty")
	}

	var updated *models.Post
	err := s.store.Tx(ctx, func(tx store.Store) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(p, post, "edit"); err != nil {
			return err
		}
		if err := tx.UpdatePostText(ctx, postID, text, s.now()); err != nil {
			return err
		}
		updated, err = tx.LoadPost(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost removes the post with its comments and interactions. Only the
// author may delete.
func (s *Service) DeletePost(ctx context.Context, p auth.Principal, postID string) error {
	err := s.store.Tx(ctx, func(tx store.Store) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(p, post, "delete"); err != nil {
			return err
		}
		return tx.DeletePost(ctx, postID)
	})
	if err != nil {
		return err
	}

	log.Printf("[Posts] user %s deleted post %s", p.UserID, postID)
	return nil
}

// CreateComment adds a comment to an existing post. Any authenticated user
// may comment.
func (s *Service) CreateComment(ctx context.Context, p auth.Principal, postID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.InvalidArgument, "Comment cannot be empty")
	}

	var comment *models.Comment
	err := s.store.Tx(ctx, func(tx store.Store) error {
		if _, err := tx.GetPost(ctx, postID); err != nil {
			return err
		}
		if err := tx.EnsureUser(ctx, &models.User{ID: p.UserID, Email: p.Email}); err != nil {
			return err
		}
		now := s.now()
		c := &models.Comment{Text: text, AuthorID: p.UserID, PostID: postID, CreatedAt: now, UpdatedAt: now}
		if err := tx.CreateComment(ctx, c); err != nil {
			return err
		}
		var err error
		comment, err = tx.GetComment(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
