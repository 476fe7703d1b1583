package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazarly/vendor-portal/internal/api/middleware"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// AuthHandler exposes the session lifecycle endpoints.
type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login authenticates against the marketplace backend and opens a portal
// session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if !res.Success {
		// The dialog stays open: the backend's message is rendered inline.
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": res.Message})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, toSessionResponse(res.Session))
}

// Logout clears the session. Idempotent; requires only a session ID, not a
// still-valid session.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id := middleware.SessionID(c)
	if id != "" {
		if err := h.sessions.Logout(c.Request().Context(), id); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.NoContent(http.StatusNoContent)
}

// Session returns the reconciled session state.
//
// @Summary      Session status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	id := middleware.SessionID(c)
	if id == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	sess, err := h.sessions.CheckAuthStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}
