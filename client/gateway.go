package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Gateway is the write path for archived trips and the community feed. Local
// caches are mutated optimistically; on server rejection the mutation is
// rolled back to the exact prior state.
type Gateway struct {
	client  *Client
	session *SessionContext

	mu       sync.Mutex
	archived []ArchivedItinerary
	feed     []FeedPost
}

func NewGateway(c *Client, session *SessionContext) *Gateway {
	return &Gateway{client: c, session: session}
}

// requireAuth short-circuits writes for signed-out viewers. No request is
// built and no network call happens.
func (g *Gateway) requireAuth() error {
	if g.session.Current().State != StateAuthenticated {
		return ErrAuthRequired
	}
	return nil
}

// RefreshArchive replaces the cached trip list with the server's view.
func (g *Gateway) RefreshArchive(ctx context.Context) ([]ArchivedItinerary, error) {
	if err := g.requireAuth(); err != nil {
		return nil, err
	}

	var resp struct {
		Itineraries []ArchivedItinerary `json:"itineraries"`
	}
	if err := g.client.do(ctx, http.MethodGet, "/api/v1/itineraries", nil, &resp); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.archived = resp.Itineraries
	g.mu.Unlock()
	return resp.Itineraries, nil
}

// Archived returns the cached trip list.
func (g *Gateway) Archived() []ArchivedItinerary {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ArchivedItinerary, len(g.archived))
	copy(out, g.archived)
	return out
}

// SaveItinerary archives the working plan under the viewer's account and
// prepends it to the cached list.
func (g *Gateway) SaveItinerary(ctx context.Context, itinerary Itinerary) (*ArchivedItinerary, error) {
	if err := g.requireAuth(); err != nil {
		return nil, err
	}

	var archived ArchivedItinerary
	if err := g.client.do(ctx, http.MethodPost, "/api/v1/itineraries", itinerary, &archived); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.archived = append([]ArchivedItinerary{archived}, g.archived...)
	g.mu.Unlock()
	return &archived, nil
}

// DeleteItinerary removes a trip optimistically: the cached entry disappears
// immediately, and a server rejection restores it to its original position.
func (g *Gateway) DeleteItinerary(ctx context.Context, id string) error {
	if err := g.requireAuth(); err != nil {
		return err
	}

	g.mu.Lock()
	index := -1
	for i, record := range g.archived {
		if record.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		g.mu.Unlock()
		return ErrNotFound
	}
	snapshot := g.archived[index]
	g.archived = append(g.archived[:index:index], g.archived[index+1:]...)
	g.mu.Unlock()

	err := g.client.do(ctx, http.MethodDelete, "/api/v1/itineraries/"+url.PathEscape(id), nil, nil)
	if err != nil {
		g.mu.Lock()
		if index > len(g.archived) {
			index = len(g.archived)
		}
		restored := make([]ArchivedItinerary, 0, len(g.archived)+1)
		restored = append(restored, g.archived[:index]...)
		restored = append(restored, snapshot)
		restored = append(restored, g.archived[index:]...)
		g.archived = restored
		g.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return nil
}

// Community lists recent itineraries shared across all travelers.
func (g *Gateway) Community(ctx context.Context, page int) ([]ArchivedItinerary, error) {
	path := "/api/v1/community/itineraries"
	if page > 1 {
		path += "?page=" + strconv.Itoa(page)
	}

	var resp struct {
		Itineraries []ArchivedItinerary `json:"itineraries"`
	}
	if err := g.client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Itineraries, nil
}

// Restore loads an archived plan back into the working slot.
func (g *Gateway) Restore(store *ItineraryStore, record ArchivedItinerary) {
	store.Set(record.Data)
}

// RefreshFeed replaces the cached feed with the server's derived view.
func (g *Gateway) RefreshFeed(ctx context.Context, page int) ([]FeedPost, error) {
	path := "/api/v1/feed"
	if page > 1 {
		path += "?page=" + strconv.Itoa(page)
	}

	var resp struct {
		Posts []FeedPost `json:"posts"`
	}
	if err := g.client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.feed = resp.Posts
	g.mu.Unlock()
	return resp.Posts, nil
}

// Feed returns the cached feed.
func (g *Gateway) Feed() []FeedPost {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]FeedPost, len(g.feed))
	copy(out, g.feed)
	return out
}

// ToggleLike flips the viewer's like on a post based on the cached
// membership, then refetches the whole feed so every derived field reflects
// the server's truth.
func (g *Gateway) ToggleLike(ctx context.Context, postID string) ([]FeedPost, error) {
	if err := g.requireAuth(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	hasLiked := false
	found := false
	for _, post := range g.feed {
		if post.ID == postID {
			hasLiked = post.HasLiked
			found = true
			break
		}
	}
	g.mu.Unlock()
	if !found {
		return nil, ErrNotFound
	}

	method := http.MethodPost
	if hasLiked {
		method = http.MethodDelete
	}
	if err := g.client.do(ctx, method, "/api/v1/posts/"+url.PathEscape(postID)+"/likes", nil, nil); err != nil {
		return nil, err
	}
	return g.RefreshFeed(ctx, 1)
}

// ToggleFollow flips the viewer's follow edge to a post author. Following
// yourself is silently ignored: the cached feed is returned unchanged and no
// request is made.
func (g *Gateway) ToggleFollow(ctx context.Context, authorID string) ([]FeedPost, error) {
	if err := g.requireAuth(); err != nil {
		return nil, err
	}
	if g.session.Current().UserID == authorID {
		return g.Feed(), nil
	}

	g.mu.Lock()
	hasFollowed := false
	for _, post := range g.feed {
		if post.UserID == authorID {
			hasFollowed = post.HasFollowed
			break
		}
	}
	g.mu.Unlock()

	method := http.MethodPost
	if hasFollowed {
		method = http.MethodDelete
	}
	if err := g.client.do(ctx, method, "/api/v1/users/"+url.PathEscape(authorID)+"/follow", nil, nil); err != nil {
		return nil, err
	}
	return g.RefreshFeed(ctx, 1)
}

// CreatePost publishes a text post and refetches the feed.
func (g *Gateway) CreatePost(ctx context.Context, content, locationName string) ([]FeedPost, error) {
	if err := g.requireAuth(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("content", content)
	if locationName != "" {
		form.Set("location_name", locationName)
	}
	if err := g.postForm(ctx, "/api/v1/posts", form); err != nil {
		return nil, err
	}
	return g.RefreshFeed(ctx, 1)
}

func (g *Gateway) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.client.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token := g.client.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var envelope struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
		apiErr.Kind = envelope.Kind
	}
	return apiErr
}
