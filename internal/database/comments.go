package database

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

func (d *Database) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
	return translate(err, "create comment", postNotFound)
}

func (d *Database) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := d.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err, "get comment", "Comment not found")
	}
	return &comment, nil
}

// ListComments returns a post's comments oldest first, each with its author.
func (d *Database) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := d.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "list comments", "")
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
