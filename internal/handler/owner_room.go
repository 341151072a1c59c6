package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
)

// roomBody is the single-room form.  Pointer fields are optional on update.
type roomBody struct {
	RoomNumber    *string           `json:"room_number"`
	Floor         *int              `json:"floor"`
	ClearFloor    bool              `json:"clear_floor"`
	RoomType      *string           `json:"room_type"`
	PricePerMonth service.FormValue `json:"price_per_month"`
	Facilities    []string          `json:"facilities"`
}

// apply merges b into u and validates the result.
func (b roomBody) apply(u *repository.RoomUpdate) error {
	if b.RoomNumber != nil {
		u.RoomNumber = strings.TrimSpace(*b.RoomNumber)
	}
	if u.RoomNumber == "" {
		return &service.ValidationError{Field: "room_number", Message: "is required"}
	}
	if len(u.RoomNumber) > 20 {
		return &service.ValidationError{Field: "room_number", Message: "must be at most 20 characters"}
	}
	if b.Floor != nil {
		f := *b.Floor
		u.Floor = &f
	} else if b.ClearFloor {
		u.Floor = nil
	}
	if b.RoomType != nil || u.RoomType == "" {
		raw := ""
		if b.RoomType != nil {
			raw = *b.RoomType
		}
		rt, err := service.ParseRoomType(raw)
		if err != nil {
			return err
		}
		u.RoomType = rt
	}
	if b.PricePerMonth != "" || u.PricePerMonth == 0 {
		price, err := service.ParsePrice(string(b.PricePerMonth))
		if err != nil {
			return err
		}
		u.PricePerMonth = price
	}
	if b.Facilities != nil {
		facs, err := service.ParseFacilities(b.Facilities)
		if err != nil {
			return err
		}
		u.Facilities = facs
	}
	if u.Facilities == nil {
		u.Facilities = []string{}
	}
	return nil
}

// ListRooms handles GET /v1/owner/kos/:id/rooms.
func (h *OwnerHandler) ListRooms(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rooms, err := h.Rooms.ListByKos(ctx, grant.KosID(), queryBool(c, "available"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// CreateRoom handles POST /v1/owner/kos/:id/rooms.
func (h *OwnerHandler) CreateRoom(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	var body roomBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	var u repository.RoomUpdate
	if err := body.apply(&u); err != nil {
		return respondError(c, err)
	}
	room := model.Room{
		KosID:         grant.KosID(),
		RoomNumber:    u.RoomNumber,
		Floor:         u.Floor,
		RoomType:      u.RoomType,
		PricePerMonth: u.PricePerMonth,
		Facilities:    u.Facilities,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, grant.KosID())
	return c.JSON(http.StatusCreated, room)
}

// CreateRoomsBatch handles POST /v1/owner/kos/:id/rooms/batch.  The kos is
// authorized first, then the form is validated, then every room is stored
// in one all-or-nothing call.
func (h *OwnerHandler) CreateRoomsBatch(c echo.Context) error {
	grant, err := h.authorize(c)
	if err != nil {
		return respondError(c, err)
	}
	var form service.BatchForm
	if err := c.Bind(&form); err != nil {
		return badRequest(c, "invalid request body")
	}
	req, err := service.ParseBatchForm(form, h.Cfg.RoomBatchMax)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rooms, err := h.Batch.Create(ctx, grant, req)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, grant.KosID())
	return c.JSON(http.StatusCreated, echo.Map{"count": len(rooms), "rooms": rooms})
}

// PreviewRoomsBatch handles POST /v1/owner/rooms/batch/preview.  It only
// computes the numbers and never reads or writes storage.
func (h *OwnerHandler) PreviewRoomsBatch(c echo.Context) error {
	var form service.BatchForm
	if err := c.Bind(&form); err != nil {
		return badRequest(c, "invalid request body")
	}
	req, err := service.ParsePreviewForm(form, h.Cfg.RoomBatchMax)
	if err != nil {
		return respondError(c, err)
	}
	numbers := h.Batch.Preview(req)
	return c.JSON(http.StatusOK, echo.Map{"count": len(numbers), "room_numbers": numbers})
}

// UpdateRoom handles PUT/PATCH /v1/owner/rooms/:id.
func (h *OwnerHandler) UpdateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body roomBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cur, err := h.Rooms.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	u := repository.RoomUpdate{
		RoomNumber:    cur.RoomNumber,
		Floor:         cur.Floor,
		RoomType:      cur.RoomType,
		PricePerMonth: cur.PricePerMonth,
		Facilities:    cur.Facilities,
	}
	if err := body.apply(&u); err != nil {
		return respondError(c, err)
	}
	room, err := h.Rooms.UpdateByIDAndOwner(ctx, id, ownerID, u)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, cur.KosID)
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /v1/owner/rooms/:id.
func (h *OwnerHandler) DeleteRoom(c echo.Context) error {
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
	var kosID uint64
	if h.Cache != nil {
		cur, err := h.Rooms.GetByIDAndOwner(ctx, id, ownerID)
		if err != nil {
			return respondError(c, err)
		}
		kosID = cur.KosID
	}
	if err := h.Rooms.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return respondError(c, err)
	}
	h.invalidate(ctx, kosID)
	return c.NoContent(http.StatusNoContent)
}
