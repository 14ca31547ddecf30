package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Content      string    `db:"content" json:"content"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	LocationName *string   `db:"location_name" json:"location_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PostWithAuthor is a stored post joined with its author's profile columns.
type PostWithAuthor struct {
	Post
	AuthorUsername string  `db:"author_username" json:"author_username"`
	AuthorFullName *string `db:"author_full_name" json:"author_full_name,omitempty"`
	AuthorAvatar   *string `db:"author_avatar_url" json:"author_avatar_url,omitempty"`
}

// FeedPost is a post as presented to a viewer. LikesCount, HasLiked and
// HasFollowed are derived at read time from the like/follow relations and the
// viewer identity; they are never stored and go stale immediately after any
// concurrent mutation until the next fetch.
type FeedPost struct {
	PostWithAuthor
	LikesCount  int64 `json:"likes_count"`
	HasLiked    bool  `json:"has_liked"`
	HasFollowed bool  `json:"has_followed"`
}

// Like is a directed user→post edge, unique per pair.
type Like struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Follow is a directed follower→followed edge, unique per pair.
type Follow struct {
	FollowerID uuid.UUID `db:"follower_id" json:"follower_id"`
	FollowedID uuid.UUID `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
