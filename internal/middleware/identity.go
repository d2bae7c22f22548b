package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/utils"
)

// UserID returns the authenticated caller's identity key, or false when
// JWTAuth did not run or rejected the request.
func UserID(c echo.Context) (string, bool) {
	s, ok := c.Get(ContextUserID).(string)
	return s, ok && s != ""
}

// Claims returns the verified token claims of the caller.
func Claims(c echo.Context) (*utils.Claims, bool) {
	cl, ok := c.Get(ContextClaims).(*utils.Claims)
	return cl, ok && cl != nil
}

// subject is the rate limit and log identity of a request: the caller's
// key, or "anon" for unauthenticated requests.
func subject(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return id
	}
	return "anon"
}
