package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/service"
)

// FriendHandler exposes the friend-request lifecycle for the caller.  All
// methods assume JWTAuth has run.
type FriendHandler struct {
	Social *service.SocialService
}

// List handles GET /api/friends and returns the caller's requests (sent
// and received, any status) and friendship edges.
func (h *FriendHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx := c.Request().Context()
	requests, err := h.Social.ListFriendRequests(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	friends, err := h.Social.ListFriends(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"requests": requests, "friends": friends})
}

// Send handles POST /api/friends with body {"toUserId": "..."}.
func (h *FriendHandler) Send(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		ToUserID string `json:"toUserId"`
	}
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	req, err := h.Social.SendFriendRequest(c.Request().Context(), userID, strings.TrimSpace(body.ToUserID))
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"request": req})
}

// Respond handles PATCH /api/friends with body
// {"requestId": "...", "action": "accept"|"reject"}.  Only the recipient
// of the request may respond.
func (h *FriendHandler) Respond(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		RequestID string `json:"requestId"`
		Action    string `json:"action"`
	}
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	action := service.FriendAction(strings.ToLower(strings.TrimSpace(body.Action)))
	if err := h.Social.ResolveFriendRequest(c.Request().Context(), body.RequestID, userID, action); err != nil {
		return fail(c, err)
	}
	return success(c, nil)
}
