package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSessionID extracts the session ID injected by the Session middleware.
// An empty value means the middleware did not run on this route — treat it
// as an unauthenticated request rather than panicking downstream.
func ctxSessionID(c echo.Context) (string, error) {
	id, _ := c.Get("session_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return id, nil
}
