package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKeyClientID is where ClientContext stores the validated client id.
const ContextKeyClientID = "client_id"

// ClientContext requires the Ax-Client-Id header on every request and makes
// it available to handlers. The id is the browser-generated install id that
// scopes all durable state, so a request without one has no state to act on.
func ClientContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := strings.ToLower(strings.TrimSpace(c.Request().Header.Get("Ax-Client-Id")))
			if clientID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing Ax-Client-Id"})
			}
			if !reHex32.MatchString(clientID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid Ax-Client-Id"})
			}
			c.Set(ContextKeyClientID, clientID)
			return next(c)
		}
	}
}

// ClientID returns the id stored by ClientContext, or "" if the middleware
// did not run.
func ClientID(c echo.Context) string {
	v, _ := c.Get(ContextKeyClientID).(string)
	return v
}
