package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// BookingRepo stores bookings and runs their status transitions.  Every
// transition locks the booking row, checks who is acting and whether the
// move is allowed, then applies the room side effects in the same
// transaction.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with the names shown in lists.
type BookingDetail struct {
	model.Booking
	OwnerID     uint64  `json:"owner_id"`
	KosName     string  `json:"kos_name"`
	RoomNumber  string  `json:"room_number"`
	TenantName  string  `json:"tenant_name"`
	TenantPhone *string `json:"tenant_phone,omitempty"`
}

// BookingFilter narrows owner and tenant lists.  Zero values match all.
type BookingFilter struct {
	Status string
	KosID  uint64
}

const bookingDetailSelect = `SELECT b.id, b.tenant_id, b.kos_id, b.room_id, b.start_date, b.duration_months,
	b.status, b.note, b.created_at, b.updated_at, k.owner_id, k.name, r.room_number, u.full_name, u.phone
	FROM bookings b
	JOIN boarding_houses k ON k.id = b.kos_id
	JOIN rooms r ON r.id = b.room_id
	JOIN users u ON u.id = b.tenant_id`

func scanBookingDetail(s scanner) (BookingDetail, error) {
	var (
		d     BookingDetail
		note  sql.NullString
		phone sql.NullString
	)
	err := s.Scan(&d.ID, &d.TenantID, &d.KosID, &d.RoomID, &d.StartDate, &d.DurationMonths,
		&d.Status, &note, &d.CreatedAt, &d.UpdatedAt, &d.OwnerID, &d.KosName, &d.RoomNumber,
		&d.TenantName, &phone)
	d.Note = nullStr(note)
	d.TenantPhone = nullStr(phone)
	return d, err
}

// NewBooking is what a tenant submits.
type NewBooking struct {
	TenantID       uint64
	RoomID         uint64
	StartDate      time.Time
	DurationMonths int
	Note           *string
}

// Create stores a pending booking for a vacant room.  Occupied rooms yield
// ErrRoomOccupied; a second pending booking by the same tenant for the
// same room yields ErrDuplicateBooking.
func (r *BookingRepo) Create(ctx context.Context, nb NewBooking) (*BookingDetail, error) {
	var id uint64
	err := txRunner(ctx, r.db, func(tx *sql.Tx) error {
		var (
			kosID    uint64
			occupied bool
		)
		err := tx.QueryRowContext(ctx,
			`SELECT kos_id, is_occupied FROM rooms WHERE id = ? FOR UPDATE`, nb.RoomID).Scan(&kosID, &occupied)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
		if occupied {
			return ErrRoomOccupied
		}
		var dup int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE room_id = ? AND tenant_id = ? AND status = ?`,
			nb.RoomID, nb.TenantID, model.BookingPending).Scan(&dup); err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateBooking
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (tenant_id, kos_id, room_id, start_date, duration_months, status, note)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			nb.TenantID, kosID, nb.RoomID, nb.StartDate, nb.DurationMonths, model.BookingPending, nb.Note)
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

// GetByID returns a booking with its display fields.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*BookingDetail, error) {
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, bookingDetailSelect+` WHERE b.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByTenant returns a tenant's bookings, newest first.
func (r *BookingRepo) ListByTenant(ctx context.Context, tenantID uint64, f BookingFilter) ([]BookingDetail, error) {
	return r.list(ctx, "b.tenant_id = ?", tenantID, f)
}

// ListByOwner returns bookings across the owner's boarding houses.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64, f BookingFilter) ([]BookingDetail, error) {
	return r.list(ctx, "k.owner_id = ?", ownerID, f)
}

func (r *BookingRepo) list(ctx context.Context, scope string, id uint64, f BookingFilter) ([]BookingDetail, error) {
	where := []string{scope}
	args := []any{id}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.KosID != 0 {
		where = append(where, "b.kos_id = ?")
		args = append(args, f.KosID)
	}
	q := bookingDetailSelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
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

// bookingLock is the part of a booking a transition needs.
type bookingLock struct {
	status   string
	tenantID uint64
	roomID   uint64
	ownerID  uint64
}

func lockBooking(ctx context.Context, tx *sql.Tx, id uint64) (bookingLock, error) {
	var l bookingLock
	err := tx.QueryRowContext(ctx,
		`SELECT b.status, b.tenant_id, b.room_id, k.owner_id
		 FROM bookings b JOIN boarding_houses k ON k.id = b.kos_id
		 WHERE b.id = ? FOR UPDATE`, id).Scan(&l.status, &l.tenantID, &l.roomID, &l.ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrBookingNotFound
	}
	return l, err
}

func setBookingStatus(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

// ApproveResult reports the approved booking and the other pending
// bookings for the same room that were rejected with it.
type ApproveResult struct {
	Booking      BookingDetail
	AutoRejected []BookingDetail
}

// Approve accepts a pending booking of one of the owner's rooms.  The room
// is marked occupied by the tenant and every other pending booking for the
// room is rejected, all in one transaction.
func (r *BookingRepo) Approve(ctx context.Context, id, ownerID uint64, now time.Time) (*ApproveResult, error) {
	var rejectedIDs []uint64
	err := txRunner(ctx, r.db, func(tx *sql.Tx) error {
		l, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if l.ownerID != ownerID {
			return ErrForbidden
		}
		if !model.CanTransition(l.status, model.BookingApproved) {
			return ErrInvalidTransition
		}

		var (
			name  string
			phone sql.NullString
		)
		if err := tx.QueryRowContext(ctx,
			`SELECT full_name, phone FROM users WHERE id = ?`, l.tenantID).Scan(&name, &phone); err != nil {
			return err
		}
		if err := occupyTx(ctx, tx, l.roomID, l.tenantID, name, nullStr(phone), now); err != nil {
			return err
		}
		if err := setBookingStatus(ctx, tx, id, model.BookingApproved); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM bookings WHERE room_id = ? AND status = ? AND id <> ? FOR UPDATE`,
			l.roomID, model.BookingPending, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var other uint64
			if err := rows.Scan(&other); err != nil {
				rows.Close()
				return err
			}
			rejectedIDs = append(rejectedIDs, other)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(rejectedIDs) == 0 {
			return nil
		}
		args := []any{model.BookingRejected}
		for _, other := range rejectedIDs {
			args = append(args, other)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id IN (`+placeholders(len(rejectedIDs))+`)`,
			args...)
		return err
	})
	if err != nil {
		return nil, err
	}

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &ApproveResult{Booking: *b, AutoRejected: []BookingDetail{}}
	for _, other := range rejectedIDs {
		d, err := r.GetByID(ctx, other)
		if err != nil {
			return nil, err
		}
		out.AutoRejected = append(out.AutoRejected, *d)
	}
	return out, nil
}

// Reject declines a pending booking of one of the owner's rooms.
func (r *BookingRepo) Reject(ctx context.Context, id, ownerID uint64) (*BookingDetail, error) {
	return r.transition(ctx, id, func(l bookingLock) error {
		if l.ownerID != ownerID {
			return ErrForbidden
		}
		return nil
	}, model.BookingRejected, nil)
}

// Cancel withdraws the tenant's own pending booking.
func (r *BookingRepo) Cancel(ctx context.Context, id, tenantID uint64) (*BookingDetail, error) {
	return r.transition(ctx, id, func(l bookingLock) error {
		if l.tenantID != tenantID {
			return ErrForbidden
		}
		return nil
	}, model.BookingCancelled, nil)
}

// Complete ends an approved stay and vacates the room.
func (r *BookingRepo) Complete(ctx context.Context, id, ownerID uint64) (*BookingDetail, error) {
	return r.transition(ctx, id, func(l bookingLock) error {
		if l.ownerID != ownerID {
			return ErrForbidden
		}
		return nil
	}, model.BookingCompleted, func(ctx context.Context, tx *sql.Tx, l bookingLock) error {
		return vacateTx(ctx, tx, l.roomID)
	})
}

func (r *BookingRepo) transition(
	ctx context.Context,
	id uint64,
	authorize func(bookingLock) error,
	to string,
	after func(context.Context, *sql.Tx, bookingLock) error,
) (*BookingDetail, error) {
	err := txRunner(ctx, r.db, func(tx *sql.Tx) error {
		l, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authorize(l); err != nil {
			return err
		}
		if !model.CanTransition(l.status, to) {
			return ErrInvalidTransition
		}
		if err := setBookingStatus(ctx, tx, id, to); err != nil {
			return err
		}
		if after != nil {
			return after(ctx, tx, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
