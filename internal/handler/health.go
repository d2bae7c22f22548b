package handler // declare the package name; contains HTTP handlers

import (
	"context"      // context bounds the database ping
	"database/sql" // sql.DB is pinged for readiness
	"net/http"     // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	DB *sql.DB
}

// Health is used by load balancers and monitoring systems to verify that
// the service is running.  It returns 200 "ok" while the database answers
// a ping within two seconds and 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "database unavailable")
		}
	}
	return c.String(http.StatusOK, "ok")
}
