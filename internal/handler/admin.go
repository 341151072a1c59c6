package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/stats"
)

// AdminHandler serves /v1/admin.
type AdminHandler struct {
	Users *repository.UserRepo
	Kos   *repository.KosRepo
}

// AdminDashboard handles GET /v1/admin/dashboard.
func (h *AdminHandler) AdminDashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	kos, err := h.Kos.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats.AdminSummary(users, kos))
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": users})
}

// SetUserActive handles PATCH /v1/admin/users/:id/active with
// {"is_active": bool}.  Admins cannot disable themselves.
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil || body.IsActive == nil {
		return badRequest(c, "is_active is required")
	}
	if id == adminID && !*body.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot disable your own account"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.SetActive(ctx, id, *body.IsActive); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
