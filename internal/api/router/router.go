package router

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"github.com/adilakhmetov/notify-relay/internal/api/handlers/notification"
	"github.com/adilakhmetov/notify-relay/internal/api/middlewares"
)

// New wires the relay routes. Only ingest is guarded: fetch is reached
// by the co-located poller, not by general external callers, and must
// stay unauthenticated at this boundary.
func New(handler *notification.Handler, token string) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(middlewares.RequestID())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api")

	api.POST("/ingest", middlewares.Auth(token), handler.Ingest)
	api.GET("/notifications", handler.Fetch)

	e.GET("/health", handler.Health)

	prom := promhttp.Handler()
	e.GET("/metrics", func(c *ginext.Context) {
		prom.ServeHTTP(c.Writer, c.Request)
	})

	return e
}
