package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidPreferences marks traveler input rejected locally, before any
// request is made.
var ErrInvalidPreferences = errors.New("client: invalid travel preferences")

const (
	minTripDays = 1
	maxTripDays = 21
)

var (
	validBudgets = map[string]bool{"Low": true, "Medium": true, "Luxury": true}
	validTypes   = map[string]bool{"Solo": true, "Couple": true, "Friends": true, "Family": true}
	validPaces   = map[string]bool{"": true, "Relaxed": true, "Balanced": true, "Fast": true}
)

// Planner drives itinerary generation and lands the result in the store.
type Planner struct {
	client *Client
	store  *ItineraryStore
}

func NewPlanner(c *Client, store *ItineraryStore) *Planner {
	return &Planner{client: c, store: store}
}

// GeneratePlan validates preferences, requests a generated itinerary and
// installs it as the working plan. The previous working plan survives any
// failure untouched.
func (p *Planner) GeneratePlan(ctx context.Context, prefs TravelPreferences) (*Itinerary, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	var itinerary Itinerary
	if err := p.client.do(ctx, http.MethodPost, "/api/v1/itineraries/generate", prefs, &itinerary); err != nil {
		return nil, err
	}

	p.store.Set(itinerary)
	return &itinerary, nil
}

func validatePreferences(prefs TravelPreferences) error {
	if strings.TrimSpace(prefs.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidPreferences)
	}
	if prefs.Days < minTripDays || prefs.Days > maxTripDays {
		return fmt.Errorf("%w: days must be between %d and %d", ErrInvalidPreferences, minTripDays, maxTripDays)
	}
	if !validBudgets[prefs.Budget] {
		return fmt.Errorf("%w: unknown budget %q", ErrInvalidPreferences, prefs.Budget)
	}
	if !validTypes[prefs.Type] {
		return fmt.Errorf("%w: unknown travel type %q", ErrInvalidPreferences, prefs.Type)
	}
	if !validPaces[prefs.Pace] {
		return fmt.Errorf("%w: unknown pace %q", ErrInvalidPreferences, prefs.Pace)
	}
	return nil
}
