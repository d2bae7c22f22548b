package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/bucharest-discover/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the caller's identity key into the request context.  Handlers read
// it with UserID(c); the full claims are available under ContextClaims.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid token"})
			}

			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextClaims, claims)
			return next(c)
		}
	}
}
