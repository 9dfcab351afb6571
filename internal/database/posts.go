package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

const postNotFound = "Post not found"

// withAggregates preloads everything a post is rendered with: its author,
// comments oldest first with their authors, and the reaction list.
func (d *Database) withAggregates(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Preload("Interactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("interactions.created_at ASC")
		})
}

// ListPosts returns every post, newest first, with full aggregates.
func (d *Database) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := d.withAggregates(ctx).Order("posts.created_at DESC").Find(&posts).Error; err != nil {
		return nil, translate(err, "list posts", "")
	}

	// If no posts, return empty array not null
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (d *Database) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err, "get post", postNotFound)
	}
	return &post, nil
}

func (d *Database) LoadPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := d.withAggregates(ctx).Where("posts.id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err, "load post", postNotFound)
	}
	return &post, nil
}

func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	return translate(err, "create post", "Author not found")
}

// UpdatePostText overwrites the text and the last-modified time in one
// statement, so concurrent edits resolve to whichever commits last. On
// Postgres the time is read with clock_timestamp() once the row lock is held,
// which keeps updated_at in commit order; at is used on SQLite, where writers
// are already serialized.
func (d *Database) UpdatePostText(ctx context.Context, id, text string, at time.Time) error {
	var updatedAt any = at
	if d.driver == DriverPostgres {
		updatedAt = gorm.Expr("clock_timestamp()")
	}

	res := d.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{"text": text, "updated_at": updatedAt})
	if res.Error != nil {
		return translate(res.Error, "update post", postNotFound)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, postNotFound)
	}
	return nil
}

// DeletePost removes the post with its comments and interactions atomically.
// The foreign keys cascade as well; deleting children explicitly keeps the
// behaviour identical on databases where cascading is disabled.
func (d *Database) DeletePost(ctx context.Context, id string) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.NotFound, postNotFound)
		}
		return nil
	})
	return translate(err, "delete post", postNotFound)
}
