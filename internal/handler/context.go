package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
)

// currentClaims returns the claims the auth middleware resolved for this
// request. Secured routes always have them; a missing value means the route
// was wired without the middleware.
func currentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	return claims, nil
}
