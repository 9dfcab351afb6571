package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionKind is the reaction a user registers on a post. The zero value is
// not a valid kind; only Like and Dislike exist.
type ReactionKind uint8

const (
	Like ReactionKind = iota + 1
	Dislike
)

const (
	likeName    = "LIKE"
	dislikeName = "DISLIKE"
)

// ErrInvalidReaction is returned when decoding anything other than LIKE or DISLIKE.
type ErrInvalidReaction struct {
	Value string
}

func (e ErrInvalidReaction) Error() string {
	return fmt.Sprintf("invalid interaction type %q: must be %s or %s", e.Value, likeName, dislikeName)
}

// ParseReactionKind accepts exactly "LIKE" or "DISLIKE".
func ParseReactionKind(s string) (ReactionKind, error) {
	switch s {
	case likeName:
		return Like, nil
	case dislikeName:
		return Dislike, nil
	default:
		return 0, ErrInvalidReaction{Value: s}
	}
}

func (k ReactionKind) Valid() bool { return k == Like || k == Dislike }

func (k ReactionKind) String() string {
	switch k {
	case Like:
		return likeName
	case Dislike:
		return dislikeName
	default:
		return fmt.Sprintf("ReactionKind(%d)", uint8(k))
	}
}

func (k ReactionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidReaction{Value: k.String()}
	}
	return []byte(k.String()), nil
}

func (k *ReactionKind) UnmarshalText(b []byte) error {
	parsed, err := ParseReactionKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Value stores the kind as its name so the column stays readable and the
// CHECK constraint can enforce the domain.
func (k ReactionKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, ErrInvalidReaction{Value: k.String()}
	}
	return k.String(), nil
}

func (k *ReactionKind) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return k.UnmarshalText([]byte(v))
	case []byte:
		return k.UnmarshalText(v)
	default:
		return fmt.Errorf("scan ReactionKind: unsupported type %T", src)
	}
}

// Interaction is a user's single reaction to a post. (UserID, PostID) is unique.
type Interaction struct {
	ID        string       `gorm:"type:varchar(36);primaryKey" json:"-"`
	UserID    string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_interactions_user_post" json:"user_id"`
	User      User         `gorm:"foreignKey:UserID" json:"-"`
	PostID    string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_interactions_user_post;index" json:"post_id"`
	Type      ReactionKind `gorm:"type:varchar(16);not null;check:chk_interactions_type,type IN ('LIKE','DISLIKE')" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// OwnerID returns the reacting user.
func (i *Interaction) OwnerID() string { return i.UserID }

type InteractionRequest struct {
	Type string `json:"type"`
}
