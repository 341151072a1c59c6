package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ngekosaja/ngekosaja-api/internal/config"
	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
	"github.com/ngekosaja/ngekosaja-api/internal/storage"
)

// OwnerHandler serves the /v1/owner API.  Every kos-scoped operation is
// authorized once through Gate before anything else runs.
type OwnerHandler struct {
	Cfg      config.Config
	Kos      *repository.KosRepo
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
	Txs      *repository.TransactionRepo
	Gate     *service.OwnerGate
	Batch    *service.RoomBatchService
	Notifier *service.Notifier
	Store    storage.Store // nil when uploads are not configured
	Cache    KosCache      // nil when public responses are not cached
	Log      *zap.Logger
}

// KosCache drops cached public responses for one kos.
type KosCache interface {
	InvalidateKos(ctx context.Context, kosID uint64) error
}

// invalidate drops the public cache for kosID after a write.  A failure
// only leaves the listing stale until the entry expires.
func (h *OwnerHandler) invalidate(ctx context.Context, kosID uint64) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.InvalidateKos(ctx, kosID); err != nil && h.Log != nil {
		h.Log.Warn("cache invalidate failed", zap.Uint64("kos_id", kosID), zap.Error(err))
	}
}

// authorize runs the owner gate for the :id kos of the request.
func (h *OwnerHandler) authorize(c echo.Context) (service.KosGrant, error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return service.KosGrant{}, service.ErrNotOwner
	}
	kosID, ok := pathID(c, "id")
	if !ok {
		return service.KosGrant{}, repository.ErrKosNotFound
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	return h.Gate.Authorize(ctx, ownerID, middleware.Role(c), kosID)
}

type kosBody struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Description *string  `json:"description"`
	KosType     *string  `json:"kos_type"`
	Facilities  []string `json:"facilities"`
}

// apply copies the set fields of b onto k and checks the result.
func (b kosBody) apply(k *model.Kos) error {
	if b.Name != nil {
		k.Name = strings.TrimSpace(*b.Name)
	}
	if b.Address != nil {
		k.Address = strings.TrimSpace(*b.Address)
	}
	if b.City != nil {
		k.City = strings.TrimSpace(*b.City)
	}
	if b.Description != nil {
		k.Description = optionalText(b.Description)
	}
	if b.KosType != nil {
		k.KosType = strings.ToLower(strings.TrimSpace(*b.KosType))
	}
	if b.Facilities != nil {
		k.Facilities = cleanLabels(b.Facilities)
	}
	switch {
	case k.Name == "":
		return &service.ValidationError{Field: "name", Message: "is required"}
	case k.Address == "":
		return &service.ValidationError{Field: "address", Message: "is required"}
	case k.City == "":
		return &service.ValidationError{Field: "city", Message: "is required"}
	case !model.ValidKosType(k.KosType):
		return &service.ValidationError{Field: "kos_type", Message: "must be putra, putri or campur"}
	}
	return nil
}

// cleanLabels trims free-text facility labels and drops blanks and
// case-insensitive duplicates.
func cleanLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, l := range in {
		l = strings.TrimSpace(l)
		key := strings.ToLower(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

// CreateKos handles POST /v1/owner/kos.
func (h *OwnerHandler) CreateKos(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var body kosBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	k := model.Kos{OwnerID: ownerID, Facilities: []string{}}
	if err := body.apply(&k); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Kos.Create(ctx, &k); err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, k.ID)
	return c.JSON(http.StatusCreated, k)
}

// ListKos handles GET /v1/owner/kos.
func (h *OwnerHandler) ListKos(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Kos.ListByOwner(ctx, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// GetKos handles GET /v1/owner/kos/:id.
func (h *OwnerHandler) GetKos(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	k, err := h.Kos.GetByID(ctx, grant.KosID())
	if err != nil {
		return respondError(c, err)
	}
	total, available, err := h.Rooms.CountByKos(ctx, grant.KosID())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"kos": k, "total_rooms": total, "available_rooms": available})
}

// UpdateKos handles PUT/PATCH /v1/owner/kos/:id.  Omitted fields keep
// their value.
func (h *OwnerHandler) UpdateKos(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	var body kosBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	k, err := h.Kos.GetByID(ctx, grant.KosID())
	if err != nil {
		return respondError(c, err)
	}
	if err := body.apply(k); err != nil {
		return respondError(c, err)
	}
	if err := h.Kos.UpdateByIDAndOwner(ctx, k); err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, k.ID)
	return c.JSON(http.StatusOK, k)
}

// DeleteKos handles DELETE /v1/owner/kos/:id.
func (h *OwnerHandler) DeleteKos(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Kos.DeleteByIDAndOwner(ctx, grant.KosID(), grant.OwnerID()); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "kos still has approved bookings"})
		}
		return respondError(c, err)
	}
	h.invalidate(ctx, grant.KosID())
	return c.NoContent(http.StatusNoContent)
}

// UploadKosPhoto handles POST /v1/owner/kos/:id/photo (multipart "photo").
func (h *OwnerHandler) UploadKosPhoto(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "photo file is required")
	}
	ctx, cancel := uploadCtx(c)
	defer cancel()
	url, err := storage.SaveImage(ctx, h.Store, storage.FolderKosPhotos, fh, h.Cfg.UploadMaxBytes)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Kos.SetPhoto(ctx, grant.KosID(), grant.OwnerID(), url); err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, grant.KosID())
	return c.JSON(http.StatusOK, echo.Map{"photo_url": url})
}
