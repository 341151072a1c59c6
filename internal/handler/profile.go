package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/config"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
	"github.com/ngekosaja/ngekosaja-api/internal/storage"
)

// ProfileHandler serves /v1/profile for every role.
type ProfileHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Store storage.Store // nil when uploads are not configured
}

// GetProfile handles GET /v1/profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateProfile handles PUT /v1/profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		FullName string  `json:"full_name"`
		Phone    *string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(body.FullName) == "" {
		return respondError(c, &service.ValidationError{Field: "full_name", Message: "is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.UpdateProfile(ctx, uid, body.FullName, optionalText(body.Phone))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// UploadAvatar handles POST /v1/profile/avatar (multipart "avatar").
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "avatar file is required")
	}
	ctx, cancel := uploadCtx(c)
	defer cancel()
	url, err := storage.SaveImage(ctx, h.Store, storage.FolderAvatars, fh, h.Cfg.UploadMaxBytes)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Users.SetAvatar(ctx, uid, url); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"avatar_url": url})
}
