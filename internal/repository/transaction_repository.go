package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// TransactionRepo stores rent payments and their manual confirmation.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// TransactionDetail is a payment joined with the names used in lists and
// in the spreadsheet export.
type TransactionDetail struct {
	model.Transaction
	OwnerID    uint64 `json:"owner_id"`
	KosName    string `json:"kos_name"`
	RoomNumber string `json:"room_number"`
	TenantName string `json:"tenant_name"`
}

// TransactionFilter narrows lists.  Zero values match all.
type TransactionFilter struct {
	Status string
	KosID  uint64
}

const txDetailSelect = `SELECT t.id, t.booking_id, t.tenant_id, t.kos_id, t.amount, t.period_month, t.proof_url,
	t.status, t.paid_at, t.created_at, t.updated_at, k.owner_id, k.name, r.room_number, u.full_name
	FROM transactions t
	JOIN bookings b ON b.id = t.booking_id
	JOIN boarding_houses k ON k.id = t.kos_id
	JOIN rooms r ON r.id = b.room_id
	JOIN users u ON u.id = t.tenant_id`

func scanTxDetail(s scanner) (TransactionDetail, error) {
	var (
		d      TransactionDetail
		paidAt sql.NullTime
	)
	err := s.Scan(&d.ID, &d.BookingID, &d.TenantID, &d.KosID, &d.Amount, &d.PeriodMonth, &d.ProofURL,
		&d.Status, &paidAt, &d.CreatedAt, &d.UpdatedAt, &d.OwnerID, &d.KosName, &d.RoomNumber, &d.TenantName)
	d.PaidAt = nullTime(paidAt)
	return d, err
}

// NewPayment is a tenant's payment submission.  Amount 0 means "the
// room's monthly price".
type NewPayment struct {
	TenantID    uint64
	BookingID   uint64
	Amount      int64
	PeriodMonth string
	ProofURL    string
}

// Create records a pending payment for one of the tenant's approved
// bookings.
func (r *TransactionRepo) Create(ctx context.Context, p NewPayment) (*TransactionDetail, error) {
	var id uint64
	err := txRunner(ctx, r.db, func(tx *sql.Tx) error {
		var (
			tenantID uint64
			kosID    uint64
			status   string
			price    int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT b.tenant_id, b.kos_id, b.status, r.price_per_month
			 FROM bookings b JOIN rooms r ON r.id = b.room_id
			 WHERE b.id = ?`, p.BookingID).Scan(&tenantID, &kosID, &status, &price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if tenantID != p.TenantID {
			return ErrForbidden
		}
		if status != model.BookingApproved {
			return ErrBookingNotApproved
		}
		amount := p.Amount
		if amount <= 0 {
			amount = price
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (booking_id, tenant_id, kos_id, amount, period_month, proof_url, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.BookingID, p.TenantID, kosID, amount, p.PeriodMonth, p.ProofURL, model.TxPending)
		if err != nil {
			return err
		}
		last, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id = uint64(last)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one payment with its display fields.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (*TransactionDetail, error) {
	d, err := scanTxDetail(r.db.QueryRowContext(ctx, txDetailSelect+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByTenant returns a tenant's payments, newest first.
func (r *TransactionRepo) ListByTenant(ctx context.Context, tenantID uint64, f TransactionFilter) ([]TransactionDetail, error) {
	return r.list(ctx, "t.tenant_id = ?", tenantID, f)
}

// ListByOwner returns payments across the owner's boarding houses.
func (r *TransactionRepo) ListByOwner(ctx context.Context, ownerID uint64, f TransactionFilter) ([]TransactionDetail, error) {
	return r.list(ctx, "k.owner_id = ?", ownerID, f)
}

func (r *TransactionRepo) list(ctx context.Context, scope string, id uint64, f TransactionFilter) ([]TransactionDetail, error) {
	where := []string{scope}
	args := []any{id}
	if f.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, f.Status)
	}
	if f.KosID != 0 {
		where = append(where, "t.kos_id = ?")
		args = append(args, f.KosID)
	}
	q := txDetailSelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY t.created_at DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TransactionDetail{}
	for rows.Next() {
		d, err := scanTxDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPaid confirms a pending payment and stamps paid_at.
func (r *TransactionRepo) MarkPaid(ctx context.Context, id, ownerID uint64) (*TransactionDetail, error) {
	return r.settle(ctx, id, ownerID, model.TxPaid)
}

// Reject declines a pending payment.
func (r *TransactionRepo) Reject(ctx context.Context, id, ownerID uint64) (*TransactionDetail, error) {
	return r.settle(ctx, id, ownerID, model.TxRejected)
}

func (r *TransactionRepo) settle(ctx context.Context, id, ownerID uint64, to string) (*TransactionDetail, error) {
	err := txRunner(ctx, r.db, func(tx *sql.Tx) error {
		var (
			status  string
			dbOwner uint64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT t.status, k.owner_id FROM transactions t
			 JOIN boarding_houses k ON k.id = t.kos_id
			 WHERE t.id = ? FOR UPDATE`, id).Scan(&status, &dbOwner)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if dbOwner != ownerID {
			return ErrForbidden
		}
		if status != model.TxPending {
			return ErrInvalidTransition
		}
		q := `UPDATE transactions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		if to == model.TxPaid {
			q = `UPDATE transactions SET status = ?, paid_at = UTC_TIMESTAMP(), updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		}
		_, err = tx.ExecContext(ctx, q, to, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
