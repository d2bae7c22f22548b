package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/service"
)

// ItineraryHandler serves itineraries and their participants.
type ItineraryHandler struct {
	Participation *service.ParticipationService
}

// Create handles POST /api/itineraries.  The caller becomes the creator.
func (h *ItineraryHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    bool   `json:"isPublic"`
		TotalDays   int    `json:"totalDays"`
	}
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	it, err := h.Participation.CreateItinerary(c.Request().Context(), userID, service.ItineraryInput{
		Name:        body.Name,
		Description: body.Description,
		IsPublic:    body.IsPublic,
		TotalDays:   body.TotalDays,
	})
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"itinerary": it})
}

// List handles GET /api/itineraries and returns the itineraries the caller
// created or joined.
func (h *ItineraryHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	list, err := h.Participation.ListItineraries(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"itineraries": list})
}

// Get handles GET /api/itineraries/:id.
func (h *ItineraryHandler) Get(c echo.Context) error {
	it, err := h.Participation.GetItinerary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"itinerary": it})
}

// ListParticipants handles GET /api/itineraries/participants?itineraryId=.
func (h *ItineraryHandler) ListParticipants(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("itineraryId"))
	if id == "" {
		return failure(c, http.StatusBadRequest, "itineraryId is required")
	}
	list, err := h.Participation.ListParticipants(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"participants": list})
}

type participantBody struct {
	ItineraryID string `json:"itineraryId" query:"itineraryId"`
	UserID      string `json:"userId"`
}

// Invite handles POST /api/itineraries/participants/invite with body
// {"itineraryId", "userId"}.  The caller must be the creator or a
// participant.
func (h *ItineraryHandler) Invite(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body participantBody
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := h.Participation.Invite(c.Request().Context(), strings.TrimSpace(body.ItineraryID), callerID, strings.TrimSpace(body.UserID))
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"participant": p})
}

// Join handles POST /api/itineraries/participants/join with body
// {"itineraryId"}; the caller joins.
func (h *ItineraryHandler) Join(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body participantBody
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := h.Participation.Join(c.Request().Context(), strings.TrimSpace(body.ItineraryID), callerID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"participant": p})
}

// Leave handles DELETE /api/itineraries/participants.  The itinerary id
// may come from the JSON body or the query string.  Leaving an itinerary
// the caller is not part of succeeds.
func (h *ItineraryHandler) Leave(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body participantBody
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	if _, err := h.Participation.Leave(c.Request().Context(), strings.TrimSpace(body.ItineraryID), callerID); err != nil {
		return fail(c, err)
	}
	return success(c, nil)
}
