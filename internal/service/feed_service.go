package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/media"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

const (
	feedPageSize      = 50
	postMaxDimension  = media.DefaultMaxDimension
	postContentMaxLen = 4000
)

type FeedService struct {
	posts    ports.PostRepository
	likes    ports.LikeRepository
	follows  ports.FollowRepository
	profiles ports.ProfileRepository

	storage   ports.ObjectStorage
	processor media.Processor
	bucket    string
}

func NewFeedService(
	posts ports.PostRepository,
	likes ports.LikeRepository,
	follows ports.FollowRepository,
	profiles ports.ProfileRepository,
	storage ports.ObjectStorage,
	processor media.Processor,
	bucket string,
) *FeedService {
	return &FeedService{
		posts:     posts,
		likes:     likes,
		follows:   follows,
		profiles:  profiles,
		storage:   storage,
		processor: processor,
		bucket:    bucket,
	}
}

// Feed returns recent posts with per-viewer derived fields. The derivation is
// recomputed on every fetch from the current relation rows; nothing about the
// viewer is stored on the post.
func (s *FeedService) Feed(ctx context.Context, viewer *uuid.UUID, page int) ([]domain.FeedPost, error) {
	if page < 1 {
		page = 1
	}
	posts, err := s.posts.ListRecent(ctx, feedPageSize, (page-1)*feedPageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if len(posts) == 0 {
		return []domain.FeedPost{}, nil
	}

	postIDs := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}
	likes, err := s.likes.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}

	var follows []domain.Follow
	if viewer != nil {
		follows, err = s.follows.ListByFollower(ctx, *viewer)
		if err != nil {
			return nil, fmt.Errorf("list follows: %w", err)
		}
	}

	return deriveFeed(posts, likes, follows, viewer), nil
}

// deriveFeed computes likes_count, has_liked and has_followed for each post.
// It is a pure function of its inputs so the same relation rows always yield
// the same presentation.
func deriveFeed(posts []domain.PostWithAuthor, likes []domain.Like, follows []domain.Follow, viewer *uuid.UUID) []domain.FeedPost {
	counts := make(map[uuid.UUID]int64, len(posts))
	liked := make(map[uuid.UUID]bool)
	for _, like := range likes {
		counts[like.PostID]++
		if viewer != nil && like.UserID == *viewer {
			liked[like.PostID] = true
		}
	}

	followed := make(map[uuid.UUID]bool, len(follows))
	for _, follow := range follows {
		followed[follow.FollowedID] = true
	}

	out := make([]domain.FeedPost, len(posts))
	for i, post := range posts {
		out[i] = domain.FeedPost{
			PostWithAuthor: post,
			LikesCount:     counts[post.ID],
			HasLiked:       liked[post.ID],
			HasFollowed:    followed[post.UserID],
		}
	}
	return out
}

// CreatePost publishes a new post, uploading the optional image first so a
// storage failure never leaves a post pointing at a missing object.
func (s *FeedService) CreatePost(ctx context.Context, userID uuid.UUID, content string, locationName *string, image *media.Upload) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, fmt.Errorf("post needs content or an image")
	}
	if len(content) > postContentMaxLen {
		return nil, fmt.Errorf("post content exceeds %d characters", postContentMaxLen)
	}

	// The author row must exist for feed joins.
	if _, err := s.profiles.EnsureExists(ctx, userID, defaultUsername(userID)); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	post := &domain.Post{UserID: userID, Content: content, LocationName: locationName}

	if image != nil {
		processed, err := s.processor.Process(ctx, *image, postMaxDimension)
		if err != nil {
			return nil, fmt.Errorf("process image: %w", err)
		}
		objectName := fmt.Sprintf("posts/%s/%s%s", userID, uuid.NewString(), extensionFor(processed.ContentType))
		url, err := s.storage.Upload(ctx, s.bucket, objectName, processed.ContentType,
			bytes.NewReader(processed.Bytes), int64(len(processed.Bytes)))
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		post.ImageURL = &url
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (s *FeedService) DeletePost(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.posts.DeleteOwned(ctx, id, ownerID); err != nil {
		if isNotFound(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// LikePost records the viewer's like. Liking an already-liked post is a
// no-op.
func (s *FeedService) LikePost(ctx context.Context, userID, postID uuid.UUID) error {
	if err := s.likes.Add(ctx, userID, postID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

func (s *FeedService) UnlikePost(ctx context.Context, userID, postID uuid.UUID) error {
	if err := s.likes.Remove(ctx, userID, postID); err != nil && !isNotFound(err) {
		return fmt.Errorf("remove like: %w", err)
	}
	return nil
}

// FollowUser records a follower→followed edge. Following yourself is
// rejected before any write.
func (s *FeedService) FollowUser(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	if err := s.follows.Add(ctx, followerID, followedID); err != nil {
		return fmt.Errorf("add follow: %w", err)
	}
	return nil
}

func (s *FeedService) UnfollowUser(ctx context.Context, followerID, followedID uuid.UUID) error {
	if err := s.follows.Remove(ctx, followerID, followedID); err != nil && !isNotFound(err) {
		return fmt.Errorf("remove follow: %w", err)
	}
	return nil
}
