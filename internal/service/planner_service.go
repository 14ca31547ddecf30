package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

var (
	// ErrEmptyResponse reports that the generation service answered but
	// produced no payload.
	ErrEmptyResponse = errors.New("generation service returned no payload")
	// ErrMalformedPayload reports a payload that could not be decoded into
	// an itinerary.
	ErrMalformedPayload = errors.New("generation service returned unusable payload")
)

const plannerSystemPrompt = "You are Ghumakad, an expert travel planner who designs " +
	"efficient, locally grounded itineraries. You always answer with a single JSON " +
	"object matching the requested schema and nothing else."

type PlannerService struct {
	generator ports.ItineraryGenerator

	now   func() time.Time
	newID func() string
}

func NewPlannerService(generator ports.ItineraryGenerator) *PlannerService {
	return &PlannerService{
		generator: generator,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Generate validates the traveler's preferences, asks the generation service
// for a plan, and normalizes the result into a stamped itinerary. Preference
// failures surface before any network call is made.
func (s *PlannerService) Generate(ctx context.Context, prefs domain.TravelPreferences) (*domain.Itinerary, error) {
	prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, ports.GenerationRequest{
		System:      plannerSystemPrompt,
		Instruction: buildInstruction(prefs),
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	itinerary, err := decodeItinerary(raw)
	if err != nil {
		return nil, err
	}

	// Identity and audit fields are stamped here, never trusted from the
	// generation payload. Interests are copied from the request verbatim.
	itinerary.ID = s.newID()
	itinerary.Interests = prefs.Interests
	itinerary.CreatedAt = s.now().UTC()
	itinerary.IsVerified = true
	itinerary.SortDays()

	return itinerary, nil
}

func buildInstruction(prefs domain.TravelPreferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day travel itinerary for %s.\n", prefs.Days, prefs.Destination)
	fmt.Fprintf(&b, "Travel type: %s. Budget: %s. Pace: %s.\n", prefs.Type, prefs.Budget, prefs.Pace)
	if len(prefs.Interests) > 0 {
		fmt.Fprintf(&b, "Traveler interests: %s.\n", strings.Join(prefs.Interests, ", "))
	}
	b.WriteString("\nOptimization mandates:\n")
	b.WriteString("1. Cluster each day's activities geographically to minimise backtracking.\n")
	b.WriteString("2. Within each day, morning, afternoon and evening must form a single one-way path across the city.\n")
	b.WriteString("3. Include exactly one 'Ghumakad Gem' per day: a lesser-known spot locals love, clearly marked as such.\n")
	b.WriteString("4. Food recommendations must be specific named places or dishes near that day's route.\n")
	b.WriteString("5. travelTips must cover practical logistics for that day: transport, tickets, timing.\n")
	b.WriteString("\nAlso provide mustKnowTips (destination-wide advice) and commonMistakes visitors make.")
	return b.String()
}

// generatedItinerary mirrors the schema the generation service is asked to
// follow. Required fields are pointers so that absence is distinguishable
// from a zero value.
type generatedItinerary struct {
	Destination    *string         `json:"destination"`
	TotalDays      *int            `json:"totalDays"`
	TravelType     *string         `json:"travelType"`
	Budget         *string         `json:"budget"`
	Days           *[]generatedDay `json:"days"`
	MustKnowTips   []string        `json:"mustKnowTips"`
	CommonMistakes []string        `json:"commonMistakes"`
}

type generatedDay struct {
	Day        *int     `json:"day"`
	Morning    *string  `json:"morning"`
	Afternoon  *string  `json:"afternoon"`
	Evening    *string  `json:"evening"`
	Food       []string `json:"food"`
	TravelTips string   `json:"travelTips"`
}

func decodeItinerary(raw string) (*domain.Itinerary, error) {
	var payload generatedItinerary
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.Destination == nil || payload.TotalDays == nil ||
		payload.TravelType == nil || payload.Budget == nil || payload.Days == nil {
		return nil, fmt.Errorf("%w: missing required fields", ErrMalformedPayload)
	}

	days := make([]domain.DayPlan, 0, len(*payload.Days))
	for idx, d := range *payload.Days {
		if d.Day == nil || d.Morning == nil || d.Afternoon == nil || d.Evening == nil {
			return nil, fmt.Errorf("%w: day %d incomplete", ErrMalformedPayload, idx+1)
		}
		days = append(days, domain.DayPlan{
			Day:        *d.Day,
			Morning:    *d.Morning,
			Afternoon:  *d.Afternoon,
			Evening:    *d.Evening,
			Food:       d.Food,
			TravelTips: d.TravelTips,
		})
	}

	return &domain.Itinerary{
		Destination:    *payload.Destination,
		TotalDays:      *payload.TotalDays,
		TravelType:     domain.TravelType(*payload.TravelType),
		Budget:         domain.Budget(*payload.Budget),
		Days:           days,
		MustKnowTips:   payload.MustKnowTips,
		CommonMistakes: payload.CommonMistakes,
	}, nil
}
