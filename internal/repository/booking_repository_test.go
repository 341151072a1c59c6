package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

func expectLock(mock sqlmock.Sqlmock, id uint64, status string, tenantID, roomID, ownerID uint64) {
	mock.ExpectQuery(`SELECT b.status, b.tenant_id, b.room_id, k.owner_id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status", "tenant_id", "room_id", "owner_id"}).
			AddRow(status, tenantID, roomID, ownerID))
}

func TestBookingRepo_Approve(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBookingRepo(db)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	expectLock(mock, 1, model.BookingPending, 9, 11, 5)
	mock.ExpectQuery(`SELECT full_name, phone FROM users WHERE id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "phone"}).AddRow("Sari", "0812"))
	mock.ExpectExec(`UPDATE rooms\s+SET is_occupied = 1`).
		WithArgs(9, "Sari", "0812", now, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings SET status = \?`).
		WithArgs(model.BookingApproved, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM bookings WHERE room_id = \? AND status = \? AND id <> \?`).
		WithArgs(11, model.BookingPending, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(`UPDATE bookings SET status = \?, updated_at = CURRENT_TIMESTAMP WHERE id IN \(\?\)`).
		WithArgs(model.BookingRejected, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM bookings b`).WithArgs(1).WillReturnRows(bookingDetailRow(1, 9, model.BookingApproved))
	mock.ExpectQuery(`FROM bookings b`).WithArgs(2).WillReturnRows(bookingDetailRow(2, 12, model.BookingRejected))

	res, err := repo.Approve(context.Background(), 1, 5, now)
	require.NoError(t, err)
	assert.Equal(t, model.BookingApproved, res.Booking.Status)
	require.Len(t, res.AutoRejected, 1)
	assert.Equal(t, uint64(12), res.AutoRejected[0].TenantID)
	assert.Equal(t, "Kos Melati", res.Booking.KosName)
}

func TestBookingRepo_Approve_Refusals(t *testing.T) {
	testCases := []struct {
		name    string
		status  string
		owner   uint64
		wantErr error
	}{
		{name: "not the owner", status: model.BookingPending, owner: 99, wantErr: ErrForbidden},
		{name: "already rejected", status: model.BookingRejected, owner: 5, wantErr: ErrInvalidTransition},
		{name: "already approved", status: model.BookingApproved, owner: 5, wantErr: ErrInvalidTransition},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewBookingRepo(db)

			mock.ExpectBegin()
			expectLock(mock, 1, tc.status, 9, 11, 5)
			mock.ExpectRollback()

			_, err := repo.Approve(context.Background(), 1, tc.owner, time.Now())
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBookingRepo_Approve_RoomTaken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	expectLock(mock, 1, model.BookingPending, 9, 11, 5)
	mock.ExpectQuery(`SELECT full_name, phone FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "phone"}).AddRow("Sari", nil))
	mock.ExpectExec(`UPDATE rooms\s+SET is_occupied = 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), 1, 5, time.Now())
	assert.ErrorIs(t, err, ErrRoomOccupied)
}

func TestBookingRepo_Complete_VacatesRoom(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	expectLock(mock, 1, model.BookingApproved, 9, 11, 5)
	mock.ExpectExec(`UPDATE bookings SET status = \?`).
		WithArgs(model.BookingCompleted, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rooms\s+SET is_occupied = 0, tenant_id = NULL`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM bookings b`).WithArgs(1).WillReturnRows(bookingDetailRow(1, 9, model.BookingCompleted))

	b, err := repo.Complete(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, b.Status)
}

func TestBookingRepo_Cancel_OnlyOwnPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	expectLock(mock, 1, model.BookingPending, 9, 11, 5)
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBookingRepo_Create(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("vacant room", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBookingRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT kos_id, is_occupied FROM rooms WHERE id = \? FOR UPDATE`).
			WithArgs(11).
			WillReturnRows(sqlmock.NewRows([]string{"kos_id", "is_occupied"}).AddRow(7, false))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WithArgs(11, 9, model.BookingPending).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(9, 7, 11, start, 3, model.BookingPending, nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`FROM bookings b`).WithArgs(1).WillReturnRows(bookingDetailRow(1, 9, model.BookingPending))

		b, err := repo.Create(context.Background(), NewBooking{TenantID: 9, RoomID: 11, StartDate: start, DurationMonths: 3})
		require.NoError(t, err)
		assert.Equal(t, model.BookingPending, b.Status)
		assert.Equal(t, uint64(5), b.OwnerID)
	})

	t.Run("occupied room", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBookingRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT kos_id, is_occupied FROM rooms`).
			WillReturnRows(sqlmock.NewRows([]string{"kos_id", "is_occupied"}).AddRow(7, true))
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), NewBooking{TenantID: 9, RoomID: 11, StartDate: start, DurationMonths: 1})
		assert.ErrorIs(t, err, ErrRoomOccupied)
	})
}
