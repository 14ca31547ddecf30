package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestItineraryStoreLastWriterWins(t *testing.T) {
	store := NewItineraryStore()

	if _, ok := store.Current(); ok {
		t.Fatal("expected empty store")
	}

	store.Set(Itinerary{ID: "first", Destination: "Goa"})
	store.Set(Itinerary{ID: "second", Destination: "Leh"})

	current, ok := store.Current()
	if !ok {
		t.Fatal("expected a working itinerary")
	}
	if current.ID != "second" {
		t.Errorf("expected the later write to win, got %q", current.ID)
	}

	store.Clear()
	if _, ok := store.Current(); ok {
		t.Error("expected empty store after clear")
	}
}

func TestItineraryStoreConcurrentWrites(t *testing.T) {
	store := NewItineraryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Set(Itinerary{ID: "plan", TotalDays: n})
		}(i)
	}
	wg.Wait()

	// Whichever write landed last, the slot holds exactly one plan.
	current, ok := store.Current()
	if !ok {
		t.Fatal("expected a working itinerary")
	}
	if current.ID != "plan" {
		t.Errorf("unexpected itinerary %q", current.ID)
	}
}

func TestSessionStartsUnknown(t *testing.T) {
	c, err := New("http://localhost:0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session := NewSessionContext(c)

	if state := session.Current().State; state != StateUnknown {
		t.Fatalf("expected StateUnknown before resolution, got %v", state)
	}
}

func TestSessionResolvesAnonymousWithoutToken(t *testing.T) {
	c, err := New("http://localhost:0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session := NewSessionContext(c)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if state := session.Current().State; state != StateAnonymous {
		t.Errorf("expected StateAnonymous, got %v", state)
	}
}

func TestSessionResolvesAuthenticatedFromToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/profile" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(Profile{ID: "user-9", Username: "asha"})
	}))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, WithToken("stored-token"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session := NewSessionContext(c)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	current := session.Current()
	if current.State != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", current.State)
	}
	if current.UserID != "user-9" {
		t.Errorf("expected resolved user id, got %q", current.UserID)
	}
}

func TestSessionStaleTokenSettlesAnonymous(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "session is invalid or expired"})
	}))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, WithToken("stale-token"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session := NewSessionContext(c)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if state := session.Current().State; state != StateAnonymous {
		t.Errorf("expected StateAnonymous for stale token, got %v", state)
	}
	if c.Token() != "" {
		t.Error("expected stale token cleared")
	}
}

func TestSessionSubscribeReceivesTransitions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			json.NewEncoder(w).Encode(AuthResponse{
				Token: "fresh-token",
				User:  User{ID: "user-1", Email: "asha@example.com"},
			})
		case "/api/v1/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	session := NewSessionContext(c)

	updates, cancel := session.Subscribe()
	defer cancel()

	// First delivery is the current snapshot.
	if snap := <-updates; snap.State != StateUnknown {
		t.Fatalf("expected initial StateUnknown snapshot, got %v", snap.State)
	}

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap := receive(t, updates); snap.State != StateAnonymous {
		t.Fatalf("expected StateAnonymous, got %v", snap.State)
	}

	if _, err := session.SignIn(context.Background(), "asha@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	snap := receive(t, updates)
	if snap.State != StateAuthenticated || snap.UserID != "user-1" {
		t.Fatalf("expected authenticated snapshot, got %+v", snap)
	}
	if c.Token() != "fresh-token" {
		t.Errorf("expected token installed, got %q", c.Token())
	}

	if err := session.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if snap := receive(t, updates); snap.State != StateAnonymous {
		t.Fatalf("expected StateAnonymous after sign-out, got %v", snap.State)
	}
	if c.Token() != "" {
		t.Error("expected token cleared after sign-out")
	}
}

func receive(t *testing.T, ch <-chan Session) Session {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session update")
		return Session{}
	}
}
