package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public traveler identity. Its ID is the auth identity; the
// row is created lazily on first profile read and mutated only by its owner.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FullName  *string   `db:"full_name" json:"full_name,omitempty"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	Location  *string   `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	FollowersCount int64 `db:"followers_count" json:"followers_count"`
	FollowingCount int64 `db:"following_count" json:"following_count"`
}

// ProfileUpdate carries the owner's edit-and-sync mutation. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Username  *string
	FullName  *string
	AvatarURL *string
	Bio       *string
	Location  *string
}
