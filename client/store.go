package client

import "sync"

// ItineraryStore holds the single working itinerary. One slot only: a new
// generation replaces whatever was there, and concurrent writers resolve by
// last writer wins.
type ItineraryStore struct {
	mu      sync.RWMutex
	current *Itinerary
}

func NewItineraryStore() *ItineraryStore {
	return &ItineraryStore{}
}

// Set installs a fresh itinerary, replacing any previous one.
func (s *ItineraryStore) Set(itinerary Itinerary) {
	s.mu.Lock()
	s.current = &itinerary
	s.mu.Unlock()
}

// Current returns a copy of the working itinerary, or false when the slot is
// empty.
func (s *ItineraryStore) Current() (Itinerary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Itinerary{}, false
	}
	return *s.current, true
}

func (s *ItineraryStore) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
