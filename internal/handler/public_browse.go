// This file defines handlers for the public browsing API.  These routes
// let unauthenticated visitors browse categories, locations and events.

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
	CategoryRepo *repository.CategoryRepo
	LocationRepo *repository.LocationRepo
	EventRepo    *repository.EventRepo
}

// pagination is echoed back with every list response.
type pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// GetCategories handles GET /api/categories.
func (h *PublicHandler) GetCategories(c echo.Context) error {
	cats, err := h.CategoryRepo.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"data": cats})
}

// GetLocations handles GET /api/locations?categoryId=&search=&limit=&offset=.
// search matches name or description.  Locations are ordered best rated
// first.
func (h *PublicHandler) GetLocations(c echo.Context) error {
	limit, offset, ok := paging(c)
	if !ok {
		return failure(c, http.StatusBadRequest, "invalid limit or offset")
	}
	f := repository.LocationFilter{
		CategoryID: c.QueryParam("categoryId"),
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Limit:      limit,
		Offset:     offset,
	}
	ctx := c.Request().Context()
	list, err := h.LocationRepo.ListActive(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	total, err := h.LocationRepo.CountActive(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"data": list, "pagination": pagination{Limit: limit, Offset: offset, Total: total}})
}

// GetLocation handles GET /api/locations/:id.  Inactive locations are
// reported as not found.
func (h *PublicHandler) GetLocation(c echo.Context) error {
	l, err := h.LocationRepo.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !l.IsActive) {
		return failure(c, http.StatusNotFound, "location not found")
	}
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"data": l})
}

// GetEvents handles GET /api/events?categoryId=&locationId=&limit=&offset=.
// Events are ordered by start date.
func (h *PublicHandler) GetEvents(c echo.Context) error {
	limit, offset, ok := paging(c)
	if !ok {
		return failure(c, http.StatusBadRequest, "invalid limit or offset")
	}
	f := repository.EventFilter{
		CategoryID: c.QueryParam("categoryId"),
		LocationID: c.QueryParam("locationId"),
		Limit:      limit,
		Offset:     offset,
	}
	ctx := c.Request().Context()
	list, err := h.EventRepo.ListActive(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	total, err := h.EventRepo.CountActive(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"data": list, "pagination": pagination{Limit: limit, Offset: offset, Total: total}})
}

// GetEvent handles GET /api/events/:id.  Inactive events are reported as
// not found.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	e, err := h.EventRepo.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !e.IsActive) {
		return failure(c, http.StatusNotFound, "event not found")
	}
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"data": e})
}
