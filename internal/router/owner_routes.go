package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/handler"
	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	// ---- Kos ----
	g.POST("/kos", o.CreateKos)
	g.GET("/kos", o.ListKos)
	g.GET("/kos/:id", o.GetKos)
	g.PUT("/kos/:id", o.UpdateKos)
	g.PATCH("/kos/:id", o.UpdateKos)
	g.DELETE("/kos/:id", o.DeleteKos)
	g.POST("/kos/:id/photo", o.UploadKosPhoto)

	// ---- Rooms ----
	g.GET("/kos/:id/rooms", o.ListRooms)
	g.POST("/kos/:id/rooms", o.CreateRoom)
	g.POST("/kos/:id/rooms/batch", o.CreateRoomsBatch)
	g.POST("/rooms/batch/preview", o.PreviewRoomsBatch)
	g.PUT("/rooms/:id", o.UpdateRoom)
	g.PATCH("/rooms/:id", o.UpdateRoom)
	g.DELETE("/rooms/:id", o.DeleteRoom)

	// ---- Bookings ----
	g.GET("/bookings", o.ListBookings)
	g.POST("/bookings/:id/approve", o.ApproveBooking)
	g.POST("/bookings/:id/reject", o.RejectBooking)
	g.POST("/bookings/:id/complete", o.CompleteBooking)

	// ---- Transactions ----
	g.GET("/transactions", o.ListTransactions)
	g.GET("/transactions/export", o.ExportTransactions)
	g.POST("/transactions/:id/paid", o.MarkTransactionPaid)
	g.POST("/transactions/:id/reject", o.RejectTransaction)

	g.GET("/dashboard", o.OwnerDashboard)
}
