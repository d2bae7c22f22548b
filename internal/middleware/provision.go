package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/service"
)

// Provisioner creates a user record unless one exists.
type Provisioner interface {
	Provision(ctx context.Context, in service.ProvisionInput) (model.User, error)
}

// ProvisionCaller creates the caller's user record on first sight when the
// token carries an email claim, so a caller whose creation webhook has not
// arrived yet can still act.  It must run after JWTAuth.  Tokens without an
// email pass through untouched.
func ProvisionCaller(p Provisioner) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok || claims.Email == "" {
				return next(c)
			}
			_, err := p.Provision(c.Request().Context(), service.ProvisionInput{
				ID:        claims.Subject,
				Email:     claims.Email,
				FirstName: claims.GivenName,
				LastName:  claims.FamilyName,
				AvatarURL: claims.Picture,
			})
			if err != nil {
				c.Logger().Errorf("provision caller %s: %v", claims.Subject, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal server error"})
			}
			return next(c)
		}
	}
}
