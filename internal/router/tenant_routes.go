package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/handler"
	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// RegisterTenant registers TENANT-scoped endpoints under /v1/tenant.
func RegisterTenant(e *echo.Echo, t *handler.TenantHandler, jwtSecret string) {
	g := e.Group(
		"/v1/tenant",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTenant),
	)
	g.POST("/bookings", t.CreateBooking)
	g.GET("/bookings", t.ListBookings)
	g.POST("/bookings/:id/cancel", t.CancelBooking)
	g.POST("/transactions", t.SubmitPayment)
	g.GET("/transactions", t.ListTransactions)
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/dashboard", a.AdminDashboard)
	g.GET("/users", a.ListUsers)
	g.PATCH("/users/:id/active", a.SetUserActive)
}
