package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/media"
	"github.com/meenatech/ghumakad-api/internal/service"
	"github.com/meenatech/ghumakad-api/internal/util"
)

type profileUpdateRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}

type ProfileHandler struct {
	profiles       *service.ProfileService
	avatarMaxBytes int64
}

func NewProfileHandler(profiles *service.ProfileService, avatarMaxBytes int64) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, avatarMaxBytes: avatarMaxBytes}
}

func (h *ProfileHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/profile", h.Me, requireAuth)
	g.PATCH("/profile", h.Update, requireAuth)
	g.POST("/profile/avatar", h.UploadAvatar, requireAuth)
	g.GET("/profiles/:username", h.ByUsername)
}

// Me godoc
// @Summary      Fetch the caller's profile, creating it on first read
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} domain.Profile
// @Router       /profile [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	profile, err := h.profiles.GetOrCreate(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not load profile"))
	}
	return c.JSON(http.StatusOK, profile)
}

// Update godoc
// @Summary      Update the caller's profile fields
// @Tags         profiles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body profileUpdateRequest true "fields to change"
// @Success      200 {object} domain.Profile
// @Failure      409 {object} util.Envelope
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	user := CurrentUser(c)

	// The row must exist before an update can land.
	if _, err := h.profiles.GetOrCreate(c.Request().Context(), user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not load profile"))
	}

	profile, err := h.profiles.Update(c.Request().Context(), user.ID, domain.ProfileUpdate{
		Username: req.Username,
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		case errors.Is(err, service.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary      Replace the caller's avatar image
// @Tags         profiles
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar formData file true "avatar image"
// @Success      200 {object} domain.Profile
// @Failure      400 {object} util.Envelope
// @Router       /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("avatar file is required"))
	}
	if file.Size > h.avatarMaxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error("avatar image is too large"))
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("could not read avatar"))
	}
	defer src.Close()

	user := CurrentUser(c)

	if _, err := h.profiles.GetOrCreate(c.Request().Context(), user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not load profile"))
	}

	profile, err := h.profiles.UploadAvatar(c.Request().Context(), user.ID, media.Upload{
		Reader:      src,
		Size:        file.Size,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	return c.JSON(http.StatusOK, profile)
}

// ByUsername godoc
// @Summary      Fetch a public profile by username
// @Tags         profiles
// @Produce      json
// @Param        username path string true "username"
// @Success      200 {object} domain.Profile
// @Failure      404 {object} util.Envelope
// @Router       /profiles/{username} [get]
func (h *ProfileHandler) ByUsername(c echo.Context) error {
	profile, err := h.profiles.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not load profile"))
	}
	return c.JSON(http.StatusOK, profile)
}
