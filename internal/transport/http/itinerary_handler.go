package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/service"
	"github.com/meenatech/ghumakad-api/internal/util"
)

type ItineraryHandler struct {
	itineraries *service.ItineraryService
}

func NewItineraryHandler(itineraries *service.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraries: itineraries}
}

func (h *ItineraryHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/itineraries", h.Archive, requireAuth)
	g.GET("/itineraries", h.ListMine, requireAuth)
	g.DELETE("/itineraries/:itinerary_id", h.Delete, requireAuth)
	g.GET("/community/itineraries", h.Community)
}

// Archive godoc
// @Summary      Save a generated itinerary to the caller's trip archive
// @Tags         itineraries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body domain.Itinerary true "generated itinerary"
// @Success      201 {object} domain.ArchivedItinerary
// @Failure      400 {object} util.Envelope
// @Router       /itineraries [post]
func (h *ItineraryHandler) Archive(c echo.Context) error {
	var itinerary domain.Itinerary
	if err := c.Bind(&itinerary); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if itinerary.Destination == "" || len(itinerary.Days) == 0 {
		return c.JSON(http.StatusBadRequest, util.Error("itinerary must have a destination and at least one day"))
	}

	user := CurrentUser(c)
	archived, err := h.itineraries.Archive(c.Request().Context(), user.ID, itinerary)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not save itinerary"))
	}
	return c.JSON(http.StatusCreated, archived)
}

// ListMine godoc
// @Summary      List the caller's archived itineraries, newest first
// @Tags         itineraries
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} util.Envelope
// @Router       /itineraries [get]
func (h *ItineraryHandler) ListMine(c echo.Context) error {
	user := CurrentUser(c)
	records, err := h.itineraries.ListArchived(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not list itineraries"))
	}
	if records == nil {
		records = []domain.ArchivedItinerary{}
	}
	return c.JSON(http.StatusOK, util.Data("itineraries", records))
}

// Delete godoc
// @Summary      Delete one of the caller's archived itineraries
// @Tags         itineraries
// @Security     BearerAuth
// @Param        itinerary_id path string true "itinerary id"
// @Success      204
// @Failure      404 {object} util.Envelope
// @Router       /itineraries/{itinerary_id} [delete]
func (h *ItineraryHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("itinerary_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid itinerary id"))
	}

	user := CurrentUser(c)
	if err := h.itineraries.Delete(c.Request().Context(), id, user.ID); err != nil {
		if errors.Is(err, service.ErrItineraryNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not delete itinerary"))
	}
	return c.NoContent(http.StatusNoContent)
}

// Community godoc
// @Summary      List recent itineraries shared across all travelers
// @Tags         itineraries
// @Produce      json
// @Param        page query int false "page number, starting at 1"
// @Success      200 {object} util.Envelope
// @Router       /community/itineraries [get]
func (h *ItineraryHandler) Community(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	records, err := h.itineraries.Community(c.Request().Context(), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not list community itineraries"))
	}
	if records == nil {
		records = []domain.ArchivedItinerary{}
	}
	return c.JSON(http.StatusOK, util.Data("itineraries", records))
}
