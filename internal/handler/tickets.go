package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/service"
	"github.com/iliyamo/bucharest-discover/internal/ticketpdf"
)

// TicketHandler sells tickets and serves them as PDF downloads.
type TicketHandler struct {
	Ticketing *service.TicketingService
	Identity  *service.IdentityService
}

// Purchase handles POST /api/tickets with body {"eventId"}.  On success
// the response is the rendered ticket as an attachment.
func (h *TicketHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		EventID string `json:"eventId"`
	}
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	t, err := h.Ticketing.Purchase(ctx, userID, strings.TrimSpace(body.EventID))
	if err != nil {
		return fail(c, err)
	}
	// The ticket is committed; a rendering failure below leaves it
	// downloadable from /api/tickets/:id/pdf.
	d, err := h.Ticketing.GetForUser(ctx, t.ID, userID)
	if err != nil {
		return fail(c, err)
	}
	return h.writePDF(c, d)
}

// List handles GET /api/tickets and returns the caller's tickets.
func (h *TicketHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	tickets, err := h.Ticketing.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"tickets": tickets})
}

// Download handles GET /api/tickets/:id/pdf for one of the caller's tickets.
func (h *TicketHandler) Download(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	d, err := h.Ticketing.GetForUser(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(c, err)
	}
	return h.writePDF(c, d)
}

func (h *TicketHandler) writePDF(c echo.Context, d model.TicketDetail) error {
	holder := ""
	if u, err := h.Identity.GetByID(c.Request().Context(), d.UserID); err == nil {
		holder = u.DisplayName()
	}
	pdf, err := ticketpdf.Render(ticketpdf.TicketView{
		TicketID:   d.ID,
		EventID:    d.EventID,
		EventName:  d.EventName,
		EventStart: d.EventStartDate,
		HolderName: holder,
		IssuedAt:   d.CreatedAt,
	})
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ticketpdf.Filename(d.ID)+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
