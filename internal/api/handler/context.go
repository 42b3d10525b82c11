package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carhub/listings-api/internal/api/middleware"
)

// ctxUserID extracts the authenticated user's id injected by the Auth
// middleware. Its presence proves the middleware ran; a handler reached
// without it is a wiring mistake, rejected with 401 rather than served.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
