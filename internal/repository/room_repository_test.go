package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/roomgen"
)

func batchOf(kosID uint64, start string, count int) []model.Room {
	floor := 2
	return roomgen.Build(roomgen.Sequence(start, count), roomgen.Attributes{
		KosID:         kosID,
		Floor:         &floor,
		RoomType:      model.RoomTypeStandard,
		PricePerMonth: 1500000,
		Facilities:    []string{"wifi", "ac"},
	})
}

func TestRoomRepo_CreateBatch_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)
	rooms := batchOf(7, "01", 3)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO rooms (kos_id, room_number, floor, room_type, price_per_month, facilities) VALUES (?, ?, ?, ?, ?, ?),(?, ?, ?, ?, ?, ?),(?, ?, ?, ?, ?, ?)")).
		WithArgs(
			7, "01", 2, "Standard", 1500000, `["wifi","ac"]`,
			7, "02", 2, "Standard", 1500000, `["wifi","ac"]`,
			7, "03", 2, "Standard", 1500000, `["wifi","ac"]`,
		).
		WillReturnResult(sqlmock.NewResult(100, 3))

	// rows come back out of order; the result must follow the input order
	rows := sqlmock.NewRows(roomCols)
	addRoomRow(rows, 102, 7, "03", 2)
	addRoomRow(rows, 100, 7, "01", 2)
	addRoomRow(rows, 101, 7, "02", 2)
	mock.ExpectQuery(`SELECT .+ FROM rooms r\s+WHERE r.kos_id = \? AND r.room_number IN \(\?,\?,\?\)`).
		WithArgs(7, "01", "02", "03").
		WillReturnRows(rows)
	mock.ExpectCommit()

	created, err := repo.CreateBatch(context.Background(), 7, rooms)
	require.NoError(t, err)
	require.Len(t, created, 3)

	for i, want := range []string{"01", "02", "03"} {
		assert.Equal(t, want, created[i].RoomNumber)
		assert.Equal(t, uint64(100+i), created[i].ID)
		assert.Equal(t, uint64(7), created[i].KosID)
		require.NotNil(t, created[i].Floor)
		assert.Equal(t, 2, *created[i].Floor)
		assert.Equal(t, []string{"wifi", "ac"}, created[i].Facilities)
		assert.False(t, created[i].IsOccupied)
	}
}

func TestRoomRepo_CreateBatch_DuplicateRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rooms").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-02' for key 'uq_rooms_kos_number'"})
	mock.ExpectRollback()

	created, err := repo.CreateBatch(context.Background(), 7, batchOf(7, "01", 10))
	assert.ErrorIs(t, err, ErrRoomNumberTaken)
	assert.Nil(t, created)
}

func TestRoomRepo_CreateBatch_TransientErrorRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rooms").WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.CreateBatch(context.Background(), 7, batchOf(7, "01", 2))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRoomNumberTaken)
}

func TestRoomRepo_CreateBatch_ShortReadBackRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rooms").WillReturnResult(sqlmock.NewResult(1, 2))
	rows := sqlmock.NewRows(roomCols)
	addRoomRow(rows, 1, 7, "01", nil)
	mock.ExpectQuery("SELECT .+ FROM rooms r").WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := repo.CreateBatch(context.Background(), 7, batchOf(7, "01", 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 rows, want 2")
}

func TestRoomRepo_CreateBatch_EmptyTouchesNothing(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewRoomRepo(db)

	created, err := repo.CreateBatch(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestRoomRepo_DeleteByIDAndOwner(t *testing.T) {
	testCases := []struct {
		name     string
		owner    uint64
		occupied bool
		wantErr  error
	}{
		{name: "vacant room of owner", owner: 5, wantErr: nil},
		{name: "someone else's room", owner: 6, wantErr: ErrForbidden},
		{name: "occupied room", owner: 5, occupied: true, wantErr: ErrRoomOccupied},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewRoomRepo(db)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT k.owner_id, r.is_occupied FROM rooms r`).
				WithArgs(11).
				WillReturnRows(sqlmock.NewRows([]string{"owner_id", "is_occupied"}).AddRow(5, tc.occupied))
			if tc.wantErr == nil {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE id = ?")).
					WithArgs(11).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := repo.DeleteByIDAndOwner(context.Background(), 11, tc.owner)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestRoomRepo_Create_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectExec("INSERT INTO rooms").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.Room{KosID: 7, RoomNumber: "01", RoomType: model.RoomTypeVIP})
	assert.ErrorIs(t, err, ErrRoomNumberTaken)
}

func TestRoomRepo_ListByKos_Available(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	rows := sqlmock.NewRows(roomCols)
	addRoomRow(rows, 1, 7, "01", 1)
	mock.ExpectQuery(`WHERE r.kos_id = \? AND r.is_occupied = 0`).
		WithArgs(7).
		WillReturnRows(rows)

	out, err := repo.ListByKos(context.Background(), 7, true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "01", out[0].RoomNumber)
}
