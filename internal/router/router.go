package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/okanav/ridehail-auth/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterKind registers the auth surface for one principal kind under its
// prefix ("/riders" or "/drivers"). Register and login are open (behind the
// rate limiter); profile sits behind the verification gate. Logout takes a
// token from cookie or header but is deliberately not gated: a 400 for a
// missing token must win over the gate's 401, and an expired token must
// still be revocable.
func RegisterKind(e *echo.Echo, a *handler.AuthHandler, gate echo.MiddlewareFunc, limiter echo.MiddlewareFunc) {
	g := e.Group("/" + string(a.Kind) + "s")

	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/profile", a.Profile, gate)
	g.GET("/logout", a.Logout)
}
