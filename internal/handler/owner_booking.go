package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/queue"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
)

func bookingFilter(c echo.Context) repository.BookingFilter {
	return repository.BookingFilter{
		Status: strings.ToLower(strings.TrimSpace(c.QueryParam("status"))),
		KosID:  queryUint(c, "kos_id"),
	}
}

// ListBookings handles GET /v1/owner/bookings?status=&kos_id=.
func (h *OwnerHandler) ListBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Bookings.ListByOwner(ctx, ownerID, bookingFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// ApproveBooking handles POST /v1/owner/bookings/:id/approve.  The tenant
// is told, and so is every tenant whose pending request for the same room
// was rejected along the way.
func (h *OwnerHandler) ApproveBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Bookings.Approve(ctx, id, ownerID, time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	events := []queue.NotificationEvent{service.BookingStatusEvent(res.Booking)}
	for _, r := range res.AutoRejected {
		events = append(events, service.BookingStatusEvent(r))
	}
	h.Notifier.Notify(ctx, events...)
	h.invalidate(ctx, res.Booking.KosID)
	return c.JSON(http.StatusOK, echo.Map{"booking": res.Booking, "auto_rejected": len(res.AutoRejected)})
}

// RejectBooking handles POST /v1/owner/bookings/:id/reject.
func (h *OwnerHandler) RejectBooking(c echo.Context) error {
	return h.bookingStep(c, h.Bookings.Reject)
}

// CompleteBooking handles POST /v1/owner/bookings/:id/complete; the room
// becomes vacant again.
func (h *OwnerHandler) CompleteBooking(c echo.Context) error {
	return h.bookingStep(c, h.Bookings.Complete)
}

func (h *OwnerHandler) bookingStep(c echo.Context, step bookingStepFunc) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := step(ctx, id, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	h.Notifier.Notify(ctx, service.BookingStatusEvent(*b))
	h.invalidate(ctx, b.KosID)
	return c.JSON(http.StatusOK, b)
}
