package service

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/media"
)

type fakePostRepo struct {
	posts     []domain.PostWithAuthor
	usernames map[uuid.UUID]string
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{usernames: make(map[uuid.UUID]string)}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	stored := *post
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	username := r.usernames[post.UserID]
	if username == "" {
		username = "traveler"
	}
	r.posts = append(r.posts, domain.PostWithAuthor{Post: stored, AuthorUsername: username})
	return &stored, nil
}

func (r *fakePostRepo) ListRecent(_ context.Context, limit, offset int) ([]domain.PostWithAuthor, error) {
	out := make([]domain.PostWithAuthor, len(r.posts))
	copy(out, r.posts)
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) DeleteOwned(_ context.Context, id, ownerID uuid.UUID) error {
	for i, post := range r.posts {
		if post.ID == id && post.UserID == ownerID {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type likeKey struct{ user, post uuid.UUID }

type fakeLikeRepo struct {
	likes map[likeKey]time.Time
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]time.Time)}
}

func (r *fakeLikeRepo) Add(_ context.Context, userID, postID uuid.UUID) error {
	key := likeKey{userID, postID}
	if _, ok := r.likes[key]; !ok {
		r.likes[key] = time.Now()
	}
	return nil
}

func (r *fakeLikeRepo) Remove(_ context.Context, userID, postID uuid.UUID) error {
	key := likeKey{userID, postID}
	if _, ok := r.likes[key]; !ok {
		return sql.ErrNoRows
	}
	delete(r.likes, key)
	return nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, userID, postID uuid.UUID) (bool, error) {
	_, ok := r.likes[likeKey{userID, postID}]
	return ok, nil
}

func (r *fakeLikeRepo) ListByPostIDs(_ context.Context, postIDs []uuid.UUID) ([]domain.Like, error) {
	wanted := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	var out []domain.Like
	for key, createdAt := range r.likes {
		if wanted[key.post] {
			out = append(out, domain.Like{UserID: key.user, PostID: key.post, CreatedAt: createdAt})
		}
	}
	return out, nil
}

type followKey struct{ follower, followed uuid.UUID }

type fakeFollowRepo struct {
	follows map[followKey]time.Time
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[followKey]time.Time)}
}

func (r *fakeFollowRepo) Add(_ context.Context, followerID, followedID uuid.UUID) error {
	key := followKey{followerID, followedID}
	if _, ok := r.follows[key]; !ok {
		r.follows[key] = time.Now()
	}
	return nil
}

func (r *fakeFollowRepo) Remove(_ context.Context, followerID, followedID uuid.UUID) error {
	key := followKey{followerID, followedID}
	if _, ok := r.follows[key]; !ok {
		return sql.ErrNoRows
	}
	delete(r.follows, key)
	return nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followedID uuid.UUID) (bool, error) {
	_, ok := r.follows[followKey{followerID, followedID}]
	return ok, nil
}

func (r *fakeFollowRepo) ListByFollower(_ context.Context, followerID uuid.UUID) ([]domain.Follow, error) {
	var out []domain.Follow
	for key, createdAt := range r.follows {
		if key.follower == followerID {
			out = append(out, domain.Follow{FollowerID: key.follower, FollowedID: key.followed, CreatedAt: createdAt})
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *fakeProfileRepo) EnsureExists(_ context.Context, userID uuid.UUID, defaultUsername string) (*domain.Profile, error) {
	if profile, ok := r.profiles[userID]; ok {
		return profile, nil
	}
	profile := &domain.Profile{ID: userID, Username: defaultUsername, CreatedAt: time.Now()}
	r.profiles[userID] = profile
	return profile, nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if profile, ok := r.profiles[userID]; ok {
		return profile, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeProfileRepo) FindByUsername(_ context.Context, username string) (*domain.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Username == username {
			return profile, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeProfileRepo) Update(_ context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.Username != nil {
		profile.Username = *update.Username
	}
	if update.FullName != nil {
		profile.FullName = update.FullName
	}
	if update.AvatarURL != nil {
		profile.AvatarURL = update.AvatarURL
	}
	if update.Bio != nil {
		profile.Bio = update.Bio
	}
	if update.Location != nil {
		profile.Location = update.Location
	}
	return profile, nil
}

type fakeStorage struct {
	uploads []string
}

func (s *fakeStorage) Upload(_ context.Context, bucket, objectName, _ string, reader io.Reader, _ int64) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	url := "https://cdn.test/" + bucket + "/" + objectName
	s.uploads = append(s.uploads, url)
	return url, nil
}

type passthroughProcessor struct{}

func (passthroughProcessor) Process(_ context.Context, upload media.Upload, _ int) (*media.Result, error) {
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, err
	}
	return &media.Result{Bytes: data, ContentType: "image/jpeg"}, nil
}

type feedFixture struct {
	svc     *FeedService
	posts   *fakePostRepo
	likes   *fakeLikeRepo
	follows *fakeFollowRepo
	storage *fakeStorage
}

func newFeedFixture() *feedFixture {
	posts := newFakePostRepo()
	likes := newFakeLikeRepo()
	follows := newFakeFollowRepo()
	storage := &fakeStorage{}
	svc := NewFeedService(posts, likes, follows, newFakeProfileRepo(), storage, passthroughProcessor{}, "test-posts")
	return &feedFixture{svc: svc, posts: posts, likes: likes, follows: follows, storage: storage}
}

func TestFeedDerivedFields(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	author := uuid.New()
	viewer := uuid.New()
	stranger := uuid.New()

	post, err := f.svc.CreatePost(ctx, author, "Sunset at Varkala cliff", nil, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := f.svc.LikePost(ctx, viewer, post.ID); err != nil {
		t.Fatalf("LikePost viewer: %v", err)
	}
	if err := f.svc.LikePost(ctx, stranger, post.ID); err != nil {
		t.Fatalf("LikePost stranger: %v", err)
	}
	if err := f.svc.FollowUser(ctx, viewer, author); err != nil {
		t.Fatalf("FollowUser: %v", err)
	}

	feed, err := f.svc.Feed(ctx, &viewer, 1)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 post, got %d", len(feed))
	}
	got := feed[0]
	if got.LikesCount != 2 {
		t.Errorf("expected likes_count 2, got %d", got.LikesCount)
	}
	if !got.HasLiked {
		t.Error("expected has_liked for viewer")
	}
	if !got.HasFollowed {
		t.Error("expected has_followed for viewer")
	}

	// The same rows viewed anonymously drop the viewer-relative fields.
	anon, err := f.svc.Feed(ctx, nil, 1)
	if err != nil {
		t.Fatalf("anonymous Feed: %v", err)
	}
	if anon[0].LikesCount != 2 {
		t.Errorf("expected likes_count 2 for anonymous viewer, got %d", anon[0].LikesCount)
	}
	if anon[0].HasLiked || anon[0].HasFollowed {
		t.Error("expected viewer-relative fields false for anonymous viewer")
	}
}

func TestFeedDerivationRecomputedPerFetch(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	author := uuid.New()
	viewer := uuid.New()
	post, err := f.svc.CreatePost(ctx, author, "Morning chai in Darjeeling", nil, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := f.svc.LikePost(ctx, viewer, post.ID); err != nil {
		t.Fatalf("LikePost: %v", err)
	}

	feed, err := f.svc.Feed(ctx, &viewer, 1)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if feed[0].LikesCount != 1 || !feed[0].HasLiked {
		t.Fatalf("unexpected first derivation: %+v", feed[0])
	}

	if err := f.svc.UnlikePost(ctx, viewer, post.ID); err != nil {
		t.Fatalf("UnlikePost: %v", err)
	}
	feed, err = f.svc.Feed(ctx, &viewer, 1)
	if err != nil {
		t.Fatalf("Feed after unlike: %v", err)
	}
	if feed[0].LikesCount != 0 || feed[0].HasLiked {
		t.Errorf("expected derivation to reflect unlike, got %+v", feed[0])
	}
}

func TestLikeIsIdempotent(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	viewer := uuid.New()
	post, err := f.svc.CreatePost(ctx, uuid.New(), "Backwaters of Alleppey", nil, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := f.svc.LikePost(ctx, viewer, post.ID); err != nil {
			t.Fatalf("LikePost %d: %v", i, err)
		}
	}
	feed, err := f.svc.Feed(ctx, &viewer, 1)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if feed[0].LikesCount != 1 {
		t.Errorf("expected likes_count 1 after repeated likes, got %d", feed[0].LikesCount)
	}

	if err := f.svc.UnlikePost(ctx, viewer, post.ID); err != nil {
		t.Fatalf("UnlikePost: %v", err)
	}
	if err := f.svc.UnlikePost(ctx, viewer, post.ID); err != nil {
		t.Fatalf("repeated UnlikePost should be a no-op: %v", err)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	f := newFeedFixture()
	user := uuid.New()

	if err := f.svc.FollowUser(context.Background(), user, user); err != ErrSelfFollow {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
	if len(f.follows.follows) != 0 {
		t.Error("expected no follow edge written")
	}
}

func TestCreatePostWithImage(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	image := &media.Upload{
		Reader:      strings.NewReader("fake-image-bytes"),
		Size:        16,
		FileName:    "beach.jpg",
		ContentType: "image/jpeg",
	}
	post, err := f.svc.CreatePost(ctx, uuid.New(), "Radhanagar beach", nil, image)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ImageURL == nil || !strings.Contains(*post.ImageURL, "test-posts/posts/") {
		t.Errorf("expected stored image URL, got %v", post.ImageURL)
	}
	if len(f.storage.uploads) != 1 {
		t.Errorf("expected one upload, got %d", len(f.storage.uploads))
	}
}

func TestCreatePostRequiresContentOrImage(t *testing.T) {
	f := newFeedFixture()

	if _, err := f.svc.CreatePost(context.Background(), uuid.New(), "   ", nil, nil); err == nil {
		t.Fatal("expected empty post to be rejected")
	}
}

func TestDeletePostOwnership(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	owner := uuid.New()
	post, err := f.svc.CreatePost(ctx, owner, "Spiti valley loop", nil, nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := f.svc.DeletePost(ctx, post.ID, uuid.New()); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound for foreign owner, got %v", err)
	}
	if err := f.svc.DeletePost(ctx, post.ID, owner); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
}
