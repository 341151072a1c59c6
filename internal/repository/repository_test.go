package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// setupMockDB creates a sqlmock connection closed at the end of the test.
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var roomCols = []string{"id", "kos_id", "room_number", "floor", "room_type", "price_per_month", "facilities",
	"is_occupied", "tenant_id", "tenant_name", "tenant_phone", "occupied_since", "created_at", "updated_at"}

func addRoomRow(rows *sqlmock.Rows, id, kosID uint64, number string, floor any) *sqlmock.Rows {
	return rows.AddRow(id, kosID, number, floor, "Standard", int64(1500000), `["wifi","ac"]`,
		false, nil, nil, nil, nil, fixedTime, fixedTime)
}

var bookingDetailCols = []string{"id", "tenant_id", "kos_id", "room_id", "start_date", "duration_months",
	"status", "note", "created_at", "updated_at", "owner_id", "name", "room_number", "full_name", "phone"}

func bookingDetailRow(id, tenantID uint64, status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingDetailCols).AddRow(id, tenantID, 7, 11, fixedTime, 3,
		status, nil, fixedTime, fixedTime, 5, "Kos Melati", "01", "Sari", "0812")
}
