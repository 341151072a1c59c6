// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/handler"
	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// RegisterRoutes registers the probes.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers /v1/auth.  Logout takes either a refresh token or
// a Bearer access token, so it is not behind JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers guest browsing.  cache wraps the GET routes.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/kos", p.SearchKos, cache)
	e.GET("/v1/kos/:id", p.GetKos, cache)
	e.GET("/v1/kos/:id/rooms", p.ListKosRooms, cache)
}

// RegisterAccount registers the routes every signed-in role shares:
// profile and notifications.
func RegisterAccount(e *echo.Echo, p *handler.ProfileHandler, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleTenant, model.RoleAdmin),
	)
	g.GET("/profile", p.GetProfile)
	g.PUT("/profile", p.UpdateProfile)
	g.POST("/profile/avatar", p.UploadAvatar)

	g.GET("/notifications", n.ListNotifications)
	g.POST("/notifications/read-all", n.MarkAllRead)
	g.POST("/notifications/:id/read", n.MarkRead)
}
