package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/stats"
)

// OwnerDashboard handles GET /v1/owner/dashboard.
func (h *OwnerHandler) OwnerDashboard(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.Rooms.ListByOwner(ctx, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	bookings, err := h.Bookings.ListByOwner(ctx, ownerID, repository.BookingFilter{})
	if err != nil {
		return respondError(c, err)
	}
	txs, err := h.Txs.ListByOwner(ctx, ownerID, repository.TransactionFilter{})
	if err != nil {
		return respondError(c, err)
	}

	plainBookings := make([]model.Booking, len(bookings))
	for i, b := range bookings {
		plainBookings[i] = b.Booking
	}
	plainTxs := make([]model.Transaction, len(txs))
	for i, t := range txs {
		plainTxs[i] = t.Transaction
	}
	return c.JSON(http.StatusOK, stats.OwnerSummary(rooms, plainBookings, plainTxs, time.Now()))
}
