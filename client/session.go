package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

type SessionState int

const (
	// StateUnknown holds until the first auth resolution. Gating decisions
	// must wait for it to settle rather than treating it as anonymous.
	StateUnknown SessionState = iota
	StateAnonymous
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a point-in-time snapshot of the viewer's identity.
type Session struct {
	State  SessionState
	UserID string
	Email  string
}

// SessionContext tracks the viewer's auth state. Every transition is driven
// by an auth event (sign-in, sign-out, token resolution), never by guessing,
// and is fanned out to subscribers in order.
type SessionContext struct {
	client *Client

	mu      sync.Mutex
	current Session
	subs    map[int]chan Session
	nextSub int
}

func NewSessionContext(c *Client) *SessionContext {
	return &SessionContext{
		client:  c,
		current: Session{State: StateUnknown},
		subs:    make(map[int]chan Session),
	}
}

// Start resolves the initial state. A client holding a token is verified
// against the server; everything else settles to anonymous.
func (s *SessionContext) Start(ctx context.Context) error {
	if s.client.Token() == "" {
		s.transition(Session{State: StateAnonymous})
		return nil
	}

	var profile Profile
	err := s.client.do(ctx, http.MethodGet, "/api/v1/profile", nil, &profile)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			s.client.SetToken("")
			s.transition(Session{State: StateAnonymous})
			return nil
		}
		// Transient failure: stay unknown so callers keep waiting instead
		// of mis-gating.
		return err
	}

	s.transition(Session{State: StateAuthenticated, UserID: profile.ID})
	return nil
}

func (s *SessionContext) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe returns a channel receiving every subsequent session snapshot
// and a cancel func. The current snapshot is delivered first.
func (s *SessionContext) Subscribe() (<-chan Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Session, 8)
	ch <- s.current
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *SessionContext) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	return s.authenticate(ctx, "/api/v1/auth/register", map[string]string{
		"email": email, "password": password,
	})
}

func (s *SessionContext) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return s.authenticate(ctx, "/api/v1/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func (s *SessionContext) SignInWithGoogle(ctx context.Context, idToken string) (*AuthResponse, error) {
	return s.authenticate(ctx, "/api/v1/auth/google", map[string]string{
		"id_token": idToken,
	})
}

func (s *SessionContext) authenticate(ctx context.Context, path string, body map[string]string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.client.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	s.client.SetToken(resp.Token)
	s.transition(Session{State: StateAuthenticated, UserID: resp.User.ID, Email: resp.User.Email})
	return &resp, nil
}

// SignOut revokes the server session and settles to anonymous even when the
// revocation call fails; the local token is gone either way.
func (s *SessionContext) SignOut(ctx context.Context) error {
	err := s.client.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	s.client.SetToken("")
	s.transition(Session{State: StateAnonymous})
	return err
}

// Close releases every subscriber. The context is unusable afterwards.
func (s *SessionContext) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *SessionContext) transition(next Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	for _, ch := range s.subs {
		select {
		case ch <- next:
		default:
			// Slow subscriber: drop rather than block auth transitions.
		}
	}
}
