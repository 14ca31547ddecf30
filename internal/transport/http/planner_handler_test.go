package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
	"github.com/meenatech/ghumakad-api/internal/service"
)

type stubGenerator struct {
	calls    int
	response string
	err      error
}

func (s *stubGenerator) Generate(_ context.Context, _ ports.GenerationRequest) (string, error) {
	s.calls++
	return s.response, s.err
}

type stubAuthenticator struct {
	user *domain.User
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.user != nil && token == "valid-token" {
		return s.user, nil
	}
	return nil, service.ErrSessionExpired
}

const generatePayload = `{
	"destination": "Jaipur",
	"days": 2,
	"budget": "Low",
	"type": "Friends",
	"interests": ["forts"]
}`

const generatedResponse = `{
	"destination": "Jaipur",
	"totalDays": 2,
	"travelType": "Friends",
	"budget": "Low",
	"days": [
		{"day": 1, "morning": "Amber Fort", "afternoon": "Jal Mahal", "evening": "Hawa Mahal at dusk", "food": ["pyaaz kachori"], "travelTips": "Autos are cheap before noon"},
		{"day": 2, "morning": "City Palace", "afternoon": "Jantar Mantar", "evening": "Chokhi Dhani", "food": ["dal baati churma"], "travelTips": "Book the dinner slot ahead"}
	],
	"mustKnowTips": [],
	"commonMistakes": []
}`

func newGenerateTestServer(gen *stubGenerator, auth Authenticator) *echo.Echo {
	e := echo.New()
	handler := NewPlannerHandler(service.NewPlannerService(gen))
	handler.RegisterRoutes(e.Group("/api/v1"), RequireAuth(auth))
	return e
}

func doGenerate(e *echo.Echo, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGenerateEndpoint(t *testing.T) {
	gen := &stubGenerator{response: generatedResponse}
	auth := &stubAuthenticator{user: &domain.User{ID: uuid.New(), Email: "asha@example.com"}}
	e := newGenerateTestServer(gen, auth)

	rec := doGenerate(e, "valid-token", generatePayload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var itinerary domain.Itinerary
	if err := json.Unmarshal(rec.Body.Bytes(), &itinerary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if itinerary.ID == "" {
		t.Error("expected a stamped itinerary id")
	}
	if !itinerary.IsVerified {
		t.Error("expected is_verified true")
	}
	if len(itinerary.Interests) != 1 || itinerary.Interests[0] != "forts" {
		t.Errorf("expected interests echoed from request, got %v", itinerary.Interests)
	}
}

func TestGenerateEndpointRequiresAuth(t *testing.T) {
	gen := &stubGenerator{response: generatedResponse}
	auth := &stubAuthenticator{user: &domain.User{ID: uuid.New()}}
	e := newGenerateTestServer(gen, auth)

	rec := doGenerate(e, "", generatePayload)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if gen.calls != 0 {
		t.Errorf("expected no generation calls for anonymous request, got %d", gen.calls)
	}

	rec = doGenerate(e, "stale-token", generatePayload)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale token, got %d", rec.Code)
	}
}

func TestGenerateEndpointErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		gen        *stubGenerator
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "invalid preferences",
			gen:        &stubGenerator{response: generatedResponse},
			body:       `{"destination": "", "days": 2, "budget": "Low", "type": "Solo"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_preferences",
		},
		{
			name:       "missing credential",
			gen:        &stubGenerator{err: ports.ErrMissingCredential},
			body:       generatePayload,
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   "missing_credential",
		},
		{
			name:       "empty response",
			gen:        &stubGenerator{response: ""},
			body:       generatePayload,
			wantStatus: http.StatusBadGateway,
			wantKind:   "empty_response",
		},
		{
			name:       "malformed payload",
			gen:        &stubGenerator{response: "not json at all"},
			body:       generatePayload,
			wantStatus: http.StatusBadGateway,
			wantKind:   "malformed_payload",
		},
	}

	auth := &stubAuthenticator{user: &domain.User{ID: uuid.New()}}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newGenerateTestServer(tc.gen, auth)
			rec := doGenerate(e, "valid-token", tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}

			var envelope map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if kind, _ := envelope["kind"].(string); kind != tc.wantKind {
				t.Errorf("expected kind %q, got %q", tc.wantKind, envelope["kind"])
			}
		})
	}
}
