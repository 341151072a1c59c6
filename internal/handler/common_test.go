package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngekosaja/ngekosaja-api/internal/middleware"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
	"github.com/ngekosaja/ngekosaja-api/internal/service"
	"github.com/ngekosaja/ngekosaja-api/internal/storage"
)

func TestRespondError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", &service.ValidationError{Field: "room_count", Message: "is required"}, http.StatusBadRequest, "room_count: is required"},
		{"not owner", service.ErrNotOwner, http.StatusForbidden, service.ErrNotOwner.Error()},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden, repository.ErrForbidden.Error()},
		{"kos missing", repository.ErrKosNotFound, http.StatusNotFound, repository.ErrKosNotFound.Error()},
		{"wrapped room missing", fmt.Errorf("load: %w", repository.ErrRoomNotFound), http.StatusNotFound, ""},
		{"number taken", repository.ErrRoomNumberTaken, http.StatusConflict, repository.ErrRoomNumberTaken.Error()},
		{"email taken", repository.ErrEmailExists, http.StatusConflict, repository.ErrEmailExists.Error()},
		{"bad upload", storage.ErrUnsupportedType, http.StatusBadRequest, ""},
		{"large upload", storage.ErrTooLarge, http.StatusRequestEntityTooLarge, ""},
		{"uploads off", storage.ErrDisabled, http.StatusServiceUnavailable, ""},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, respondError(c, tc.err))
			assert.Equal(t, tc.wantCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, body["error"])
			}
			assert.NotContains(t, body["error"], "connection refused")
			assert.Equal(t, tc.err, c.Get(middleware.CtxError))
		})
	}
}

func TestPublicRoom_DropsOccupant(t *testing.T) {
	floor := 3
	name := "Sari"
	tenant := uint64(40)
	pr := publicRoom(model.Room{
		ID:            11,
		KosID:         7,
		RoomNumber:    "A-01",
		Floor:         &floor,
		RoomType:      model.RoomTypeVIP,
		PricePerMonth: 2500000,
		Facilities:    []string{"kamar_mandi_dalam", "ac"},
		IsOccupied:    true,
		TenantID:      &tenant,
		TenantName:    &name,
	})

	assert.Equal(t, "A-01", pr.RoomNumber)
	assert.False(t, pr.Available)
	require.NotNil(t, pr.Floor)
	assert.Equal(t, 3, *pr.Floor)
	require.Len(t, pr.Facilities, 2)
	assert.Equal(t, "Kamar Mandi Dalam", pr.Facilities[0].Label)
	assert.Equal(t, "AC", pr.Facilities[1].Label)

	raw, err := json.Marshal(pr)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Sari")
}

func TestQueryHelpers(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?available=yes&kos_id=12&min_price=-1", nil), httptest.NewRecorder())

	assert.True(t, queryBool(c, "available"))
	assert.False(t, queryBool(c, "missing"))
	assert.Equal(t, uint64(12), queryUint(c, "kos_id"))
	assert.Equal(t, uint64(0), queryUint(c, "missing"))

	_, ok := queryPrice(c, "min_price")
	assert.False(t, ok)
	p, ok := queryPrice(c, "max_price")
	assert.True(t, ok)
	assert.Nil(t, p)
}
