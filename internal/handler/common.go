package handler // handler defines http handlers

import (
	"errors"   // errors.Is maps service errors to status codes
	"net/http" // HTTP status codes
	"strconv"  // strconv parses paging parameters

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/bucharest-discover/internal/middleware"
	"github.com/iliyamo/bucharest-discover/internal/service"
)

// errUnauthenticated is returned by getUserID when JWTAuth did not set a caller.
var errUnauthenticated = errors.New("unauthenticated")

// getUserID extracts the caller's identity key stored by JWTAuth.
func getUserID(c echo.Context) (string, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return "", errUnauthenticated
	}
	return id, nil
}

// success writes {success: true, ...payload} with status 200.
func success(c echo.Context, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// failure writes {success: false, error: msg}.
func failure(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

func unauthorized(c echo.Context) error {
	return failure(c, http.StatusUnauthorized, "unauthorized")
}

// fail maps a service error to a response.  Caller errors (invalid input,
// conflicts, unknown ids, resolved requests) are 400 with the error text;
// ErrForbidden is 403; anything else is logged and hidden behind a 500.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return failure(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidState):
		return failure(c, http.StatusBadRequest, err.Error())
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return failure(c, http.StatusInternalServerError, "internal server error")
}

// Paging bounds for list endpoints.
const (
	defaultLimit = 20
	maxLimit     = 100
)

// paging reads ?limit and ?offset.  Missing values take defaults; limit is
// capped at maxLimit.
func paging(c echo.Context) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = min(n, maxLimit)
	}
	if s := c.QueryParam("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
