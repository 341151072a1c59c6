package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/config"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
	"github.com/ngekosaja/ngekosaja-api/internal/storage"
)

// TenantHandler serves the /v1/tenant API: bookings and payments.
type TenantHandler struct {
	Cfg      config.Config
	Bookings *repository.BookingRepo
	Txs      *repository.TransactionRepo
	Notifier *service.Notifier
	Store    storage.Store // nil when uploads are not configured
}

const maxDurationMonths = 24

type bookingReq struct {
	RoomID         uint64  `json:"room_id"`
	StartDate      string  `json:"start_date"` // YYYY-MM-DD
	DurationMonths int     `json:"duration_months"`
	Note           *string `json:"note"`
}

// CreateBooking handles POST /v1/tenant/bookings.
func (h *TenantHandler) CreateBooking(c echo.Context) error {
	tenantID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RoomID == 0 {
		return respondError(c, &service.ValidationError{Field: "room_id", Message: "is required"})
	}
	start, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
	if err != nil {
		return respondError(c, &service.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return respondError(c, &service.ValidationError{Field: "start_date", Message: "must not be in the past"})
	}
	if req.DurationMonths < 1 || req.DurationMonths > maxDurationMonths {
		return respondError(c, &service.ValidationError{Field: "duration_months", Message: "must be between 1 and 24"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Create(ctx, repository.NewBooking{
		TenantID:       tenantID,
		RoomID:         req.RoomID,
		StartDate:      start,
		DurationMonths: req.DurationMonths,
		Note:           optionalText(req.Note),
	})
	if err != nil {
		return respondError(c, err)
	}
	h.Notifier.Notify(ctx, service.BookingCreatedEvent(*b))
	return c.JSON(http.StatusCreated, b)
}

// ListBookings handles GET /v1/tenant/bookings?status=.
func (h *TenantHandler) ListBookings(c echo.Context) error {
	tenantID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Bookings.ListByTenant(ctx, tenantID, bookingFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// CancelBooking handles POST /v1/tenant/bookings/:id/cancel.
func (h *TenantHandler) CancelBooking(c echo.Context) error {
	tenantID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Cancel(ctx, id, tenantID)
	if err != nil {
		return respondError(c, err)
	}
	h.Notifier.Notify(ctx, service.BookingStatusEvent(*b))
	return c.JSON(http.StatusOK, b)
}

// SubmitPayment handles POST /v1/tenant/transactions (multipart form:
// booking_id, period_month, optional amount, proof image).
func (h *TenantHandler) SubmitPayment(c echo.Context) error {
	tenantID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	bookingID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("booking_id")), 10, 64)
	if err != nil || bookingID == 0 {
		return respondError(c, &service.ValidationError{Field: "booking_id", Message: "is required"})
	}
	period := strings.TrimSpace(c.FormValue("period_month"))
	if _, err := time.Parse("2006-01", period); err != nil {
		return respondError(c, &service.ValidationError{Field: "period_month", Message: "must be YYYY-MM"})
	}
	var amount int64
	if raw := strings.TrimSpace(c.FormValue("amount")); raw != "" {
		if amount, err = service.ParsePrice(raw); err != nil {
			return respondError(c, &service.ValidationError{Field: "amount", Message: "must be a positive whole number"})
		}
	}
	fh, err := c.FormFile("proof")
	if err != nil {
		return respondError(c, &service.ValidationError{Field: "proof", Message: "file is required"})
	}

	upCtx, upCancel := uploadCtx(c)
	defer upCancel()
	url, err := storage.SaveImage(upCtx, h.Store, storage.FolderProofs, fh, h.Cfg.UploadMaxBytes)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Txs.Create(ctx, repository.NewPayment{
		TenantID:    tenantID,
		BookingID:   bookingID,
		Amount:      amount,
		PeriodMonth: period,
		ProofURL:    url,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.Notifier.Notify(ctx, service.PaymentSubmittedEvent(*t))
	return c.JSON(http.StatusCreated, t)
}

// ListTransactions handles GET /v1/tenant/transactions?status=.
func (h *TenantHandler) ListTransactions(c echo.Context) error {
	tenantID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Txs.ListByTenant(ctx, tenantID, transactionFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}
