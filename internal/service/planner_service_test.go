package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

type fakeGenerator struct {
	calls    int
	lastReq  ports.GenerationRequest
	response string
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, req ports.GenerationRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func validPreferences() domain.TravelPreferences {
	return domain.TravelPreferences{
		Destination: "Kyoto",
		Days:        4,
		Budget:      domain.BudgetMedium,
		Type:        domain.TravelSolo,
		Interests:   []string{"temples", "street food"},
	}
}

const kyotoPayload = `{
	"destination": "Kyoto",
	"totalDays": 4,
	"travelType": "Solo",
	"budget": "Medium",
	"days": [
		{"day": 2, "morning": "Arashiyama bamboo grove", "afternoon": "Tenryu-ji", "evening": "Kimono Forest", "food": ["yudofu"], "travelTips": "Take the JR Sagano line early"},
		{"day": 1, "morning": "Fushimi Inari", "afternoon": "Tofuku-ji", "evening": "Pontocho alley", "food": ["inari sushi"], "travelTips": "Start before 8am"},
		{"day": 4, "morning": "Nishiki market", "afternoon": "Nijo castle", "evening": "Gion walk", "food": ["tamagoyaki"], "travelTips": "Markets close early"},
		{"day": 3, "morning": "Kiyomizu-dera", "afternoon": "Higashiyama lanes", "evening": "Yasaka shrine", "food": ["matcha parfait"], "travelTips": "Wear comfortable shoes"}
	],
	"mustKnowTips": ["Buy an IC card"],
	"commonMistakes": ["Trying to see everything in one day"]
}`

func newTestPlanner(gen *fakeGenerator) *PlannerService {
	svc := NewPlannerService(gen)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "fixed-id" }
	return svc
}

func TestPlannerGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{response: kyotoPayload}
	svc := newTestPlanner(gen)

	it, err := svc.Generate(context.Background(), validPreferences())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if it.ID != "fixed-id" {
		t.Errorf("expected stamped id, got %q", it.ID)
	}
	if !it.IsVerified {
		t.Error("expected is_verified true")
	}
	if it.CreatedAt.IsZero() || it.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC createdAt, got %v", it.CreatedAt)
	}
	if len(it.Interests) != 2 || it.Interests[0] != "temples" || it.Interests[1] != "street food" {
		t.Errorf("expected interests copied from request, got %v", it.Interests)
	}
	if len(it.Days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(it.Days))
	}
	for idx, day := range it.Days {
		if day.Day != idx+1 {
			t.Errorf("expected days sorted ascending, position %d has day %d", idx, day.Day)
		}
	}
}

func TestPlannerGenerateInvalidPreferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TravelPreferences)
	}{
		{"blank destination", func(p *domain.TravelPreferences) { p.Destination = "   " }},
		{"zero days", func(p *domain.TravelPreferences) { p.Days = 0 }},
		{"too many days", func(p *domain.TravelPreferences) { p.Days = 22 }},
		{"unknown budget", func(p *domain.TravelPreferences) { p.Budget = "Extravagant" }},
		{"unknown type", func(p *domain.TravelPreferences) { p.Type = "Pets" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{response: kyotoPayload}
			svc := newTestPlanner(gen)

			prefs := validPreferences()
			tc.mutate(&prefs)

			_, err := svc.Generate(context.Background(), prefs)
			if !errors.Is(err, domain.ErrPreferencesInvalid) {
				t.Fatalf("expected ErrPreferencesInvalid, got %v", err)
			}
			if gen.calls != 0 {
				t.Errorf("expected no generator calls, got %d", gen.calls)
			}
		})
	}
}

func TestPlannerGenerateEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{response: "   \n"}
	svc := newTestPlanner(gen)

	_, err := svc.Generate(context.Background(), validPreferences())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestPlannerGenerateMalformedPayload(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I cannot plan that trip."},
		{"missing destination", `{"totalDays": 2, "travelType": "Solo", "budget": "Low", "days": []}`},
		{"incomplete day", `{"destination": "Kyoto", "totalDays": 1, "travelType": "Solo", "budget": "Low", "days": [{"day": 1, "morning": "walk"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestPlanner(&fakeGenerator{response: tc.response})
			_, err := svc.Generate(context.Background(), validPreferences())
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestPlannerGenerateMissingCredential(t *testing.T) {
	gen := &fakeGenerator{err: ports.ErrMissingCredential}
	svc := newTestPlanner(gen)

	_, err := svc.Generate(context.Background(), validPreferences())
	if !errors.Is(err, ports.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generator call, got %d", gen.calls)
	}
}

func TestPlannerInstructionCarriesPreferences(t *testing.T) {
	gen := &fakeGenerator{response: kyotoPayload}
	svc := newTestPlanner(gen)

	prefs := validPreferences()
	if _, err := svc.Generate(context.Background(), prefs); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{"Kyoto", "4-day", "Solo", "Medium", "temples, street food", "Ghumakad Gem"} {
		if !strings.Contains(gen.lastReq.Instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
	if gen.lastReq.System == "" {
		t.Error("expected a system prompt")
	}
}
