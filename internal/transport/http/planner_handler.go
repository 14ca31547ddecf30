package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
	"github.com/meenatech/ghumakad-api/internal/service"
	"github.com/meenatech/ghumakad-api/internal/util"
)

type PlannerHandler struct {
	planner *service.PlannerService
}

func NewPlannerHandler(planner *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

func (h *PlannerHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/itineraries/generate", h.Generate, requireAuth)
}

// Generate godoc
// @Summary      Generate a travel itinerary from preferences
// @Tags         itineraries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body domain.TravelPreferences true "travel preferences"
// @Success      200 {object} domain.Itinerary
// @Failure      400 {object} util.Envelope
// @Failure      502 {object} util.Envelope
// @Failure      503 {object} util.Envelope
// @Router       /itineraries/generate [post]
func (h *PlannerHandler) Generate(c echo.Context) error {
	var prefs domain.TravelPreferences
	if err := c.Bind(&prefs); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	itinerary, err := h.planner.Generate(c.Request().Context(), prefs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPreferencesInvalid):
			return c.JSON(http.StatusBadRequest, util.ErrorKind(err.Error(), "invalid_preferences"))
		case errors.Is(err, ports.ErrMissingCredential):
			return c.JSON(http.StatusServiceUnavailable, util.ErrorKind(err.Error(), "missing_credential"))
		case errors.Is(err, service.ErrEmptyResponse):
			return c.JSON(http.StatusBadGateway, util.ErrorKind(err.Error(), "empty_response"))
		case errors.Is(err, service.ErrMalformedPayload):
			return c.JSON(http.StatusBadGateway, util.ErrorKind(err.Error(), "malformed_payload"))
		default:
			return c.JSON(http.StatusBadGateway, util.ErrorKind("itinerary generation failed", "generation_failed"))
		}
	}
	return c.JSON(http.StatusOK, itinerary)
}
