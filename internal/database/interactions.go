package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

const interactionNotFound = "Interaction not found"

// LockInteraction takes a transaction-scoped advisory lock keyed by the
// (user, post) pair on Postgres. SQLite runs with a single connection, which
// already serializes transactions.
func (d *Database) LockInteraction(ctx context.Context, userID, postID string) error {
	if d.driver != DriverPostgres {
		return nil
	}
	err := d.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", userID+"/"+postID).Error
	return translate(err, "lock interaction", "")
}

func (d *Database) FindInteraction(ctx context.Context, userID, postID string) (*models.Interaction, error) {
	var interaction models.Interaction
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Take(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find interaction", "")
	}
	return &interaction, nil
}

func (d *Database) CreateInteraction(ctx context.Context, interaction *models.Interaction) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(interaction).Error
	return translate(err, "create interaction", postNotFound)
}

func (d *Database) UpdateInteractionType(ctx context.Context, id string, kind models.ReactionKind) error {
	res := d.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("id = ?", id).
		Updates(map[string]any{"type": kind, "updated_at": d.db.NowFunc()})
	if res.Error != nil {
		return translate(res.Error, "update interaction", interactionNotFound)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, interactionNotFound)
	}
	return nil
}

func (d *Database) DeleteInteraction(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Interaction{})
	if res.Error != nil {
		return translate(res.Error, "delete interaction", interactionNotFound)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, interactionNotFound)
	}
	return nil
}

// ListInteractions returns every reaction on the post in the order they were made.
func (d *Database) ListInteractions(ctx context.Context, postID string) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := d.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, translate(err, "list interactions", "")
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	return interactions, nil
}
