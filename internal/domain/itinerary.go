package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Budget string

const (
	BudgetLow    Budget = "Low"
	BudgetMedium Budget = "Medium"
	BudgetLuxury Budget = "Luxury"
)

type TravelType string

const (
	TravelSolo    TravelType = "Solo"
	TravelCouple  TravelType = "Couple"
	TravelFriends TravelType = "Friends"
	TravelFamily  TravelType = "Family"
)

type Pace string

const (
	PaceRelaxed  Pace = "Relaxed"
	PaceBalanced Pace = "Balanced"
	PaceFast     Pace = "Fast"
)

const (
	MinTripDays = 1
	MaxTripDays = 21
)

// ErrPreferencesInvalid marks traveler input rejected before any network call.
var ErrPreferencesInvalid = errors.New("invalid travel preferences")

// TravelPreferences is the traveler's planning request. It is immutable once
// submitted and consumed exactly once per generation attempt.
type TravelPreferences struct {
	Destination string     `json:"destination"`
	Days        int        `json:"days"`
	Budget      Budget     `json:"budget"`
	Type        TravelType `json:"type"`
	Interests   []string   `json:"interests"`
	Pace        Pace       `json:"pace,omitempty"`
}

// Normalize trims free-text fields and applies the default pace.
func (p *TravelPreferences) Normalize() {
	p.Destination = strings.TrimSpace(p.Destination)
	if p.Pace == "" {
		p.Pace = PaceBalanced
	}
	interests := make([]string, 0, len(p.Interests))
	for _, interest := range p.Interests {
		if trimmed := strings.TrimSpace(interest); trimmed != "" {
			interests = append(interests, trimmed)
		}
	}
	p.Interests = interests
}

// Validate enforces the capture-side constraints. Failures never reach the
// generation service.
func (p TravelPreferences) Validate() error {
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrPreferencesInvalid)
	}
	if p.Days < MinTripDays || p.Days > MaxTripDays {
		return fmt.Errorf("%w: days must be between %d and %d", ErrPreferencesInvalid, MinTripDays, MaxTripDays)
	}
	switch p.Budget {
	case BudgetLow, BudgetMedium, BudgetLuxury:
	default:
		return fmt.Errorf("%w: unknown budget %q", ErrPreferencesInvalid, p.Budget)
	}
	switch p.Type {
	case TravelSolo, TravelCouple, TravelFriends, TravelFamily:
	default:
		return fmt.Errorf("%w: unknown travel type %q", ErrPreferencesInvalid, p.Type)
	}
	switch p.Pace {
	case "", PaceRelaxed, PaceBalanced, PaceFast:
	default:
		return fmt.Errorf("%w: unknown pace %q", ErrPreferencesInvalid, p.Pace)
	}
	return nil
}

// DayPlan is one day's structured activity slots within an itinerary.
type DayPlan struct {
	Day        int      `json:"day"`
	Morning    string   `json:"morning"`
	Afternoon  string   `json:"afternoon"`
	Evening    string   `json:"evening"`
	Food       []string `json:"food"`
	TravelTips string   `json:"travelTips"`
}

// Itinerary is a generated multi-day travel plan. len(Days) == TotalDays is
// expected but not enforced: the generation service may come up short and
// callers must tolerate a short or empty day list.
type Itinerary struct {
	ID             string     `json:"id"`
	Destination    string     `json:"destination"`
	TotalDays      int        `json:"totalDays"`
	TravelType     TravelType `json:"travelType"`
	Budget         Budget     `json:"budget"`
	Interests      []string   `json:"interests"`
	Days           []DayPlan  `json:"days"`
	MustKnowTips   []string   `json:"mustKnowTips"`
	CommonMistakes []string   `json:"commonMistakes"`
	CreatedAt      time.Time  `json:"createdAt"`
	IsVerified     bool       `json:"is_verified"`
}

// SortDays orders the day list by day index. The generation service is not
// contractually guaranteed to return days in order.
func (i *Itinerary) SortDays() {
	sort.SliceStable(i.Days, func(a, b int) bool {
		return i.Days[a].Day < i.Days[b].Day
	})
}

// Value stores the itinerary as a jsonb document.
func (i Itinerary) Value() (driver.Value, error) {
	return json.Marshal(i)
}

// Scan restores an itinerary from a jsonb column.
func (i *Itinerary) Scan(src any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, i)
	case string:
		return json.Unmarshal([]byte(data), i)
	case nil:
		*i = Itinerary{}
		return nil
	default:
		return fmt.Errorf("itinerary: cannot scan %T", src)
	}
}

// ArchivedItinerary is a durable copy of a generated plan owned by a user.
type ArchivedItinerary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Destination string    `db:"destination" json:"destination"`
	Data        Itinerary `db:"data" json:"data"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// OwnerUsername is populated by community listings only.
	OwnerUsername *string `db:"owner_username" json:"userName,omitempty"`
}
