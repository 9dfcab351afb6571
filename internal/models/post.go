package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID           string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Text         *string       `gorm:"type:text" json:"text,omitempty"`
	Image        *string       `gorm:"type:text" json:"image,omitempty"`
	AuthorID     string        `gorm:"type:varchar(64);not null;index" json:"author_id"`
	Author       User          `gorm:"foreignKey:AuthorID" json:"author"`
	Comments     []Comment     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	Interactions []Interaction `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"interactions"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// OwnerID returns the author, the only principal allowed to mutate the post.
func (p *Post) OwnerID() string { return p.AuthorID }

type CreatePostRequest struct {
	Text  string `json:"text" form:"text"`
	Image string `json:"image" form:"image_url"`
}

type UpdatePostRequest struct {
	Text string `json:"text"`
}
