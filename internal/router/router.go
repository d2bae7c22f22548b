package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/bucharest-discover/internal/handler"    // HTTP handlers
	"github.com/iliyamo/bucharest-discover/internal/middleware" // JWT, provisioning, cache and rate limit middleware
)

// Handlers bundles every handler the API exposes.
type Handlers struct {
	Public      *handler.PublicHandler
	Friends     *handler.FriendHandler
	Itinerary   *handler.ItineraryHandler
	Tickets     *handler.TicketHandler
	Reviews     *handler.ReviewHandler
	Identity    *handler.IdentityHandler
	Provision   middleware.Provisioner
	JWTSecret   string
	RateLimit   echo.MiddlewareFunc // applied to every /api route
	CachePublic echo.MiddlewareFunc // applied to anonymous browse reads
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterPublic registers unauthenticated browse and read endpoints.  The
// response cache wraps only these routes.
func RegisterPublic(g *echo.Group, p *handler.PublicHandler, it *handler.ItineraryHandler, rv *handler.ReviewHandler, cache echo.MiddlewareFunc) {
	g.GET("/categories", p.GetCategories, cache)
	g.GET("/locations", p.GetLocations, cache)
	g.GET("/locations/:id", p.GetLocation, cache)
	g.GET("/events", p.GetEvents, cache)
	g.GET("/events/:id", p.GetEvent, cache)

	g.GET("/itineraries/participants", it.ListParticipants)
	g.GET("/itineraries/:id", it.Get)
	g.GET("/reviews", rv.List)
}

// RegisterAPI wires every route under /api.  Authenticated routes run
// JWTAuth followed by caller provisioning; the identity webhook is
// authenticated by its signature instead.
func RegisterAPI(e *echo.Echo, h Handlers) {
	api := e.Group("/api")
	if h.RateLimit != nil {
		api.Use(h.RateLimit)
	}
	cache := h.CachePublic
	if cache == nil {
		cache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	RegisterPublic(api, h.Public, h.Itinerary, h.Reviews, cache)

	api.POST("/webhooks/identity", h.Identity.Webhook)

	mw := []echo.MiddlewareFunc{middleware.JWTAuth(h.JWTSecret)}
	if h.Provision != nil {
		mw = append(mw, middleware.ProvisionCaller(h.Provision))
	}
	auth := api.Group("", mw...)

	auth.POST("/user-sync", h.Identity.Sync)

	auth.GET("/friends", h.Friends.List)
	auth.POST("/friends", h.Friends.Send)
	auth.PATCH("/friends", h.Friends.Respond)

	auth.GET("/itineraries", h.Itinerary.List)
	auth.POST("/itineraries", h.Itinerary.Create)
	auth.POST("/itineraries/participants/invite", h.Itinerary.Invite)
	auth.POST("/itineraries/participants/join", h.Itinerary.Join)
	auth.DELETE("/itineraries/participants", h.Itinerary.Leave)

	auth.POST("/tickets", h.Tickets.Purchase)
	auth.GET("/tickets", h.Tickets.List)
	auth.GET("/tickets/:id/pdf", h.Tickets.Download)

	auth.POST("/reviews", h.Reviews.Create)
}
