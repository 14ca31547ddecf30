package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meenatech/ghumakad-api/internal/service"
	"github.com/meenatech/ghumakad-api/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/google", h.LoginWithGoogle)
	g.POST("/auth/logout", h.Logout, requireAuth)
	g.POST("/auth/change-password", h.ChangePassword, requireAuth)
	g.POST("/auth/password-reset/request", h.RequestPasswordReset)
	g.POST("/auth/password-reset/confirm", h.ConfirmPasswordReset)
}

// Register godoc
// @Summary      Create an account with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registerRequest true "credentials"
// @Success      201 {object} authResponse
// @Failure      400 {object} util.Envelope
// @Failure      409 {object} util.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.RegisterWithEmail(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, util.Error("a valid email is required"))
		default:
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, newAuthResponse(result.Token, result.ExpiresAt, result.User))
}

// Login godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "credentials"
// @Success      200 {object} authResponse
// @Failure      401 {object} util.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.LoginWithEmail(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not sign in"))
	}
	return c.JSON(http.StatusOK, newAuthResponse(result.Token, result.ExpiresAt, result.User))
}

// LoginWithGoogle godoc
// @Summary      Sign in with a Google ID token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body googleLoginRequest true "Google ID token"
// @Success      200 {object} authResponse
// @Failure      401 {object} util.Envelope
// @Router       /auth/google [post]
func (h *AuthHandler) LoginWithGoogle(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil || req.IDToken == "" {
		return c.JSON(http.StatusBadRequest, util.Error("id_token is required"))
	}

	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("google token could not be verified"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not sign in"))
	}
	return c.JSON(http.StatusOK, newAuthResponse(result.Token, result.ExpiresAt, result.User))
}

// Logout godoc
// @Summary      Revoke the current session
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not sign out"))
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword godoc
// @Summary      Change the signed-in account's password
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Param        request body changePasswordRequest true "passwords"
// @Success      204
// @Failure      401 {object} util.Envelope
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	user := CurrentUser(c)
	err := h.auth.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("current password is incorrect"))
		}
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}

// RequestPasswordReset godoc
// @Summary      Email a one-time password reset code
// @Tags         auth
// @Accept       json
// @Param        request body passwordResetRequest true "account email"
// @Success      202
// @Router       /auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email is required"))
	}

	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not process reset request"))
	}
	// Always 202: the response must not reveal whether the account exists.
	return c.NoContent(http.StatusAccepted)
}

// ConfirmPasswordReset godoc
// @Summary      Set a new password using the emailed code
// @Tags         auth
// @Accept       json
// @Param        request body passwordResetConfirm true "reset confirmation"
// @Success      204
// @Failure      400 {object} util.Envelope
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req passwordResetConfirm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	err := h.auth.ConfirmPasswordReset(c.Request().Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrOTPInvalid) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}
