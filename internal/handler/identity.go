package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bucharest-discover/internal/middleware"
	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/service"
	"github.com/iliyamo/bucharest-discover/internal/webhook"
)

// maxWebhookBody bounds the payload read from the identity provider.
const maxWebhookBody = 1 << 20

// deliveryTTL is how long a processed delivery id is remembered.
const deliveryTTL = 24 * time.Hour

// IdentityHandler provisions users from the identity provider's webhook
// and from the caller's own sync request.
type IdentityHandler struct {
	Identity *service.IdentityService
	Verifier *webhook.Verifier // nil when no secret is configured
	Redis    *redis.Client     // optional redelivery guard
}

// Sync handles POST /api/user-sync.  The caller is provisioned from the
// body, falling back to the token's profile claims.  An existing user is
// returned unchanged.
func (h *IdentityHandler) Sync(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		AvatarURL string `json:"avatarUrl"`
	}
	if err := c.Bind(&body); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}
	if body.ID != "" && body.ID != userID {
		return failure(c, http.StatusForbidden, "cannot sync another user")
	}
	in := service.ProvisionInput{
		ID:        userID,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		AvatarURL: body.AvatarURL,
	}
	if claims, ok := middleware.Claims(c); ok && in.Email == "" {
		in.Email = claims.Email
		in.FirstName = claims.GivenName
		in.LastName = claims.FamilyName
		in.AvatarURL = claims.Picture
	}
	u, err := h.Identity.Provision(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return success(c, echo.Map{"user": u})
}

// Webhook handles POST /api/webhooks/identity.  Deliveries are verified
// against the shared secret; user.created provisions, user.updated syncs
// the profile and other event types are acknowledged.  A delivery id seen
// before is acknowledged without reprocessing when Redis is available.
func (h *IdentityHandler) Webhook(c echo.Context) error {
	if h.Verifier == nil {
		c.Logger().Error("identity webhook called but IDENTITY_WEBHOOK_SECRET is not set")
		return failure(c, http.StatusInternalServerError, "webhook secret not configured")
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return failure(c, http.StatusBadRequest, "unreadable body")
	}
	msgID, err := h.Verifier.Verify(c.Request().Header, body)
	if err != nil {
		if errors.Is(err, webhook.ErrMissingHeaders) {
			return failure(c, http.StatusBadRequest, "missing svix headers")
		}
		return failure(c, http.StatusBadRequest, "invalid signature")
	}

	ctx := c.Request().Context()
	if h.Redis != nil {
		first, err := h.Redis.SetNX(ctx, "webhook:"+msgID, 1, deliveryTTL).Result()
		if err == nil && !first {
			return success(c, echo.Map{"message": "duplicate delivery"})
		}
	}

	resp, err := h.dispatch(ctx, body)
	if err != nil {
		if h.Redis != nil {
			_ = h.Redis.Del(context.WithoutCancel(ctx), "webhook:"+msgID).Err()
		}
		return fail(c, err)
	}
	return success(c, resp)
}

func (h *IdentityHandler) dispatch(ctx context.Context, body []byte) (echo.Map, error) {
	ev, err := webhook.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	var provision func(context.Context, service.ProvisionInput) (model.User, error)
	switch ev.Type {
	case webhook.TypeUserCreated:
		provision = h.Identity.Provision
	case webhook.TypeUserUpdated:
		provision = h.Identity.SyncProfile
	default:
		return echo.Map{"message": "Webhook received"}, nil
	}
	data, err := ev.User()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	u, err := provision(ctx, service.ProvisionInput{
		ID:        data.ID,
		Email:     data.PrimaryEmail(),
		FirstName: data.FirstName,
		LastName:  data.LastName,
		AvatarURL: data.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return echo.Map{"user": u}, nil
}
