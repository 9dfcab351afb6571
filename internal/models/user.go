package models

import "time"

// User is an identity known to the feed. ID is issued by the identity
// provider and never changes.
type User struct {
	ID           string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_users_email,where:email <> ''" json:"email"` // empty when unknown
	PasswordHash string `gorm:"type:varchar(255)" json:"-"` // empty for externally managed users

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
