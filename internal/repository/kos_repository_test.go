package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

var kosCols = []string{"id", "owner_id", "name", "address", "city", "description", "kos_type", "facilities",
	"photo_url", "created_at", "updated_at"}

func TestKosRepo_DeleteByIDAndOwner(t *testing.T) {
	testCases := []struct {
		name    string
		owner   uint64
		active  int
		wantErr error
	}{
		{name: "no approved bookings", owner: 5},
		{name: "approved bookings", owner: 5, active: 2, wantErr: ErrConflict},
		{name: "other owner", owner: 6, wantErr: ErrForbidden},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewKosRepo(db)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT owner_id FROM boarding_houses WHERE id = \? FOR UPDATE`).
				WithArgs(7).
				WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(5))
			if tc.wantErr != ErrForbidden {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE kos_id = \? AND status = \?`).
					WithArgs(7, model.BookingApproved).
					WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(tc.active))
			}
			if tc.wantErr == nil {
				mock.ExpectExec(`DELETE FROM boarding_houses WHERE id = \?`).
					WithArgs(7).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := repo.DeleteByIDAndOwner(context.Background(), 7, tc.owner)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestKosRepo_OwnerOf_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewKosRepo(db)

	mock.ExpectQuery(`SELECT owner_id FROM boarding_houses WHERE id = \?`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

	_, err := repo.OwnerOf(context.Background(), 404)
	assert.ErrorIs(t, err, ErrKosNotFound)
}

func TestKosRepo_Search(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewKosRepo(db)
	minPrice := int64(500000)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(SELECT k.id FROM boarding_houses k\s+LEFT JOIN rooms r ON r.kos_id = k.id\s+WHERE \(LOWER\(k.name\) LIKE \? OR .+\) AND LOWER\(k.city\) = \?\s+GROUP BY k.id HAVING MIN\(r.price_per_month\) >= \?\) t`).
		WithArgs("%melati%", "%melati%", "%melati%", "yogyakarta", minPrice).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	cols := append(append([]string{}, kosCols...), "min_price", "total", "available")
	mock.ExpectQuery(`MIN\(r.price_per_month\), COUNT\(r.id\).+LIMIT \? OFFSET \?`).
		WithArgs("%melati%", "%melati%", "%melati%", "yogyakarta", minPrice, 10, 10).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			7, 5, "Kos Melati", "Jl. Kaliurang 5", "Yogyakarta", nil, "putri", `["parkir"]`, nil,
			fixedTime, fixedTime, int64(750000), 10, 4))

	out, total, err := repo.Search(context.Background(), KosSearchQuery{
		Q: " Melati ", City: "Yogyakarta", MinPrice: &minPrice, Page: 2, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, out, 1)
	assert.Equal(t, "Kos Melati", out[0].Name)
	require.NotNil(t, out[0].StartingPrice)
	assert.Equal(t, int64(750000), *out[0].StartingPrice)
	assert.Equal(t, 10, out[0].TotalRooms)
	assert.Equal(t, 4, out[0].AvailableRooms)
	assert.Equal(t, []string{"parkir"}, out[0].Facilities)
	assert.Nil(t, out[0].Description)
}
