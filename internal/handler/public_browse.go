package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngekosaja/ngekosaja-api/internal/facility"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
)

// PublicHandler serves unauthenticated browsing.  Tenant details of
// occupied rooms are never exposed here.
type PublicHandler struct {
	Kos   *repository.KosRepo
	Rooms *repository.RoomRepo
}

// PublicFacility is a facility label with the icon picked for it.
type PublicFacility struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// PublicRoom is a room without occupant fields.
type PublicRoom struct {
	ID            uint64           `json:"id"`
	RoomNumber    string           `json:"room_number"`
	Floor         *int             `json:"floor,omitempty"`
	RoomType      string           `json:"room_type"`
	PricePerMonth int64            `json:"price_per_month"`
	Facilities    []PublicFacility `json:"facilities"`
	Available     bool             `json:"available"`
}

// PublicKosDetail is the kos page.
type PublicKosDetail struct {
	ID             uint64           `json:"id"`
	Name           string           `json:"name"`
	Address        string           `json:"address"`
	City           string           `json:"city"`
	Description    *string          `json:"description,omitempty"`
	KosType        string           `json:"kos_type"`
	PhotoURL       *string          `json:"photo_url,omitempty"`
	Facilities     []PublicFacility `json:"facilities"`
	TotalRooms     int              `json:"total_rooms"`
	AvailableRooms int              `json:"available_rooms"`
	CreatedAt      time.Time        `json:"created_at"`
}

func withIcons(labels []string) []PublicFacility {
	out := make([]PublicFacility, 0, len(labels))
	for _, l := range labels {
		out = append(out, PublicFacility{Label: l, Icon: facility.Icon(l)})
	}
	return out
}

func publicRoom(r model.Room) PublicRoom {
	labels := make([]string, len(r.Facilities))
	for i, t := range r.Facilities {
		labels[i] = facility.Label(t)
	}
	return PublicRoom{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		Floor:         r.Floor,
		RoomType:      r.RoomType,
		PricePerMonth: r.PricePerMonth,
		Facilities:    withIcons(labels),
		Available:     !r.IsOccupied,
	}
}

func queryPrice(c echo.Context, name string) (*int64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, false
	}
	return &n, true
}

// SearchKos handles GET /v1/kos with q, city, kos_type, min_price,
// max_price, page and page_size.
func (h *PublicHandler) SearchKos(c echo.Context) error {
	q := repository.KosSearchQuery{
		Q:       c.QueryParam("q"),
		City:    strings.TrimSpace(c.QueryParam("city")),
		KosType: strings.ToLower(strings.TrimSpace(c.QueryParam("kos_type"))),
	}
	if q.KosType != "" && !model.ValidKosType(q.KosType) {
		return badRequest(c, "kos_type must be putra, putri or campur")
	}
	var ok bool
	if q.MinPrice, ok = queryPrice(c, "min_price"); !ok {
		return badRequest(c, "invalid min_price")
	}
	if q.MaxPrice, ok = queryPrice(c, "max_price"); !ok {
		return badRequest(c, "invalid max_price")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return badRequest(c, "min_price must not exceed max_price")
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, total, err := h.Kos.Search(ctx, q)
	if err != nil {
		return respondError(c, err)
	}
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > repository.MaxPageSize {
		size = repository.MaxPageSize
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"page":      page,
		"page_size": size,
		"total":     total,
	})
}

// GetKos handles GET /v1/kos/:id.
func (h *PublicHandler) GetKos(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	k, err := h.Kos.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	total, available, err := h.Rooms.CountByKos(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, PublicKosDetail{
		ID:             k.ID,
		Name:           k.Name,
		Address:        k.Address,
		City:           k.City,
		Description:    k.Description,
		KosType:        k.KosType,
		PhotoURL:       k.PhotoURL,
		Facilities:     withIcons(k.Facilities),
		TotalRooms:     total,
		AvailableRooms: available,
		CreatedAt:      k.CreatedAt,
	})
}

// ListKosRooms handles GET /v1/kos/:id/rooms?available=true.
func (h *PublicHandler) ListKosRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Kos.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	rooms, err := h.Rooms.ListByKos(ctx, id, queryBool(c, "available"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]PublicRoom, len(rooms))
	for i, r := range rooms {
		out[i] = publicRoom(r)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
