package database

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

// EnsureUser inserts the user unless a row with the same id already exists.
// An email already held by another id is dropped instead of failing the
// insert; empty emails never clash.
func (d *Database) EnsureUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)

	inserted, err := d.insertUserIfAbsent(ctx, user)
	if err != nil || inserted {
		return translate(err, "ensure user", "")
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
		return translate(err, "ensure user", "")
	}
	if count > 0 {
		return nil
	}

	log.Printf("[Users] email of %s already belongs to another user, storing it without email", user.ID)
	user.Email = ""
	_, err = d.insertUserIfAbsent(ctx, user)
	return translate(err, "ensure user", "")
}

// insertUserIfAbsent ignores a clash on any unique key so a running
// transaction is never aborted.
func (d *Database) insertUserIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)
	return res.RowsAffected > 0, res.Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	err := d.db.WithContext(ctx).Create(user).Error
	return translate(err, "create user", "")
}

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "get user", "User not found")
	}
	return &user, nil
}

func (d *Database) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("email = ? AND email <> ''", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translate(err, "get user by email", "User not found")
	}
	return &user, nil
}
