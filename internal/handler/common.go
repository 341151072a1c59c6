// Package handler holds the Echo handlers of the public, tenant, owner and
// admin APIs.  Handlers parse input, call repositories or services and map
// their sentinel errors onto HTTP status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
	"github.com/ngekosaja/ngekosaja-api/internal/storage"
)

const (
	dbTimeout     = 5 * time.Second
	uploadTimeout = 30 * time.Second
)

var errNoUser = errors.New("invalid user_id in context")

// getUserID returns the id JWTAuth stored for the caller.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errNoUser
	}
	return id, nil
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func uploadCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), uploadTimeout)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// respondError maps domain errors to status codes.  Anything unknown is a
// 500 with a generic message; the cause goes to the request logger.
func respondError(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, repository.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, repository.ErrKosNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrTransactionNotFound),
		errors.Is(err, repository.ErrNotificationNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrRoomNumberTaken),
		errors.Is(err, repository.ErrRoomOccupied),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrInvalidTransition),
		errors.Is(err, repository.ErrDuplicateBooking),
		errors.Is(err, repository.ErrBookingNotApproved),
		errors.Is(err, repository.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmptyFile):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrDisabled):
		status = http.StatusServiceUnavailable
	}
	middleware.SetError(c, err)
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// queryBool accepts true/1/yes.
func queryBool(c echo.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.QueryParam(name))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func queryUint(c echo.Context, name string) uint64 {
	n, _ := strconv.ParseUint(strings.TrimSpace(c.QueryParam(name)), 10, 64)
	return n
}

// optionalText trims s and turns "" into nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

type bookingStepFunc func(ctx context.Context, id, userID uint64) (*repository.BookingDetail, error)

type txStepFunc func(ctx context.Context, id, ownerID uint64) (*repository.TransactionDetail, error)
