// Package router maps the HTTP surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/auth"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/config"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/handler"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/middleware"
)

// Register wires all routes.  Unauthenticated session operations live
// under /v1/auth behind the rate limiter; protected endpoints live under
// /v1 behind the session gate.
func Register(e *echo.Echo, a *handler.AuthHandler, svc *auth.Service, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.Use(middleware.RateLimit(rlCfg, rdb))
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.Refresh)

	protected := e.Group("/v1")
	protected.Use(middleware.Session(svc))
	protected.GET("/me", a.Me)
	protected.POST("/auth/logout", a.Logout)
}
