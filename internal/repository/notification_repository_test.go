package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

func TestNotificationRepo_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepo(db)

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(5, model.NotifyRoomsCreated, "10 kamar dibuat", "01-10").
		WillReturnResult(sqlmock.NewResult(4, 1))

	n := &model.Notification{UserID: 5, Kind: model.NotifyRoomsCreated, Title: "10 kamar dibuat", Body: "01-10"}
	require.NoError(t, repo.Insert(context.Background(), n))
	assert.Equal(t, uint64(4), n.ID)
}

func TestNotificationRepo_ListByUser_UnreadOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepo(db)

	mock.ExpectQuery(`WHERE user_id = \? AND is_read = 0 ORDER BY created_at DESC, id DESC LIMIT \?`).
		WithArgs(5, MaxPageSize).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "title", "body", "is_read", "created_at"}).
			AddRow(1, 5, model.NotifyBookingCreated, "Booking baru", "", false, fixedTime))

	out, err := repo.ListByUser(context.Background(), 5, true, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, out[0].IsRead)
}

func TestNotificationRepo_MarkRead_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE id = \? AND user_id = \?`).
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	assert.ErrorIs(t, repo.MarkRead(context.Background(), 1, 5), ErrNotificationNotFound)
}

func TestTokenRepo_Rotate_RevokedToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
		WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(5, fixedTime.AddDate(1, 0, 0), fixedTime))
	mock.ExpectRollback()

	_, err := repo.Rotate(context.Background(), "old", "new", fixedTime)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
