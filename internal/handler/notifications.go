package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/repository"
)

// NotificationHandler serves the caller's inbox.
type NotificationHandler struct {
	Repo *repository.NotificationRepo
}

// ListNotifications handles GET /v1/notifications?unread=true&limit=.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Repo.ListByUser(ctx, uid, queryBool(c, "unread"), limit)
	if err != nil {
		return respondError(c, err)
	}
	unread, err := h.Repo.CountUnread(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "unread": unread})
}

// MarkRead handles POST /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Repo.MarkRead(ctx, id, uid); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	n, err := h.Repo.MarkAllRead(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}
