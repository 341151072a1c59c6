package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
)

func TestTransactionsXLSX(t *testing.T) {
	created := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	paidAt := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	rows := []repository.TransactionDetail{
		{
			Transaction: model.Transaction{ID: 1, Amount: 1500000, PeriodMonth: "2026-03",
				Status: model.TxPaid, PaidAt: &paidAt, CreatedAt: created},
			KosName: "Kos Melati", RoomNumber: "01", TenantName: "Sari",
		},
		{
			Transaction: model.Transaction{ID: 2, Amount: 900000, PeriodMonth: "2026-03",
				Status: model.TxPending, CreatedAt: created},
			KosName: "Kos Melati", RoomNumber: "02", TenantName: "Budi",
		},
	}

	bs, err := TransactionsXLSX(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(bs))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(TransactionSheet)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, TransactionHeader, got[0])
	assert.Equal(t, []string{"1", "Kos Melati", "01", "Sari", "2026-03", "1500000", "paid",
		"2026-03-03 10:00", "2026-03-02 09:30"}, got[1])
	assert.Equal(t, "", got[2][7])
	assert.Equal(t, "Total dibayar", got[3][4])
	assert.Equal(t, "1500000", got[3][5])
}

func TestTransactionsXLSX_Empty(t *testing.T) {
	bs, err := TransactionsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(bs))
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(TransactionSheet)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0", got[1][5])
}
