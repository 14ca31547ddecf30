package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.PostWithAuthor, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

type LikeRepository interface {
	Add(ctx context.Context, userID, postID uuid.UUID) error
	Remove(ctx context.Context, userID, postID uuid.UUID) error
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	ListByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]domain.Like, error)
}

type FollowRepository interface {
	Add(ctx context.Context, followerID, followedID uuid.UUID) error
	Remove(ctx context.Context, followerID, followedID uuid.UUID) error
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	ListByFollower(ctx context.Context, followerID uuid.UUID) ([]domain.Follow, error)
}
