package repository // repository defines data access for rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

const roomColumns = `r.id, r.kos_id, r.room_number, r.floor, r.room_type, r.price_per_month, r.facilities,
	r.is_occupied, r.tenant_id, r.tenant_name, r.tenant_phone, r.occupied_since, r.created_at, r.updated_at`

// RoomRepo provides methods to work with rooms in the database.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func scanRoom(s scanner) (model.Room, error) {
	var (
		rm        model.Room
		floor     sql.NullInt64
		rawFac    []byte
		tenantID  sql.NullInt64
		tenantNm  sql.NullString
		tenantPh  sql.NullString
		occupiedS sql.NullTime
	)
	if err := s.Scan(
		&rm.ID, &rm.KosID, &rm.RoomNumber, &floor, &rm.RoomType, &rm.PricePerMonth, &rawFac,
		&rm.IsOccupied, &tenantID, &tenantNm, &tenantPh, &occupiedS, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return rm, err
	}
	fac, err := decodeTags(rawFac)
	if err != nil {
		return rm, err
	}
	rm.Floor = nullInt(floor)
	rm.Facilities = fac
	rm.TenantID = nullUint(tenantID)
	rm.TenantName = nullStr(tenantNm)
	rm.TenantPhone = nullStr(tenantPh)
	rm.OccupiedSince = nullTime(occupiedS)
	return rm, nil
}

func scanRooms(rows *sql.Rows) ([]model.Room, error) {
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a single room.  On success the stored row (with id and
// timestamps) replaces *rm.  A duplicate number yields ErrRoomNumberTaken.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	fac, err := encodeTags(rm.Facilities)
	if err != nil {
		return err
	}
	const q = `INSERT INTO rooms (kos_id, room_number, floor, room_type, price_per_month, facilities)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.KosID, rm.RoomNumber, rm.Floor, rm.RoomType, rm.PricePerMonth, fac)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomNumberTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rm = *stored
	return nil
}

// CreateBatch stores rooms under kosID with one multi-row INSERT and reads
// the new rows back inside the same transaction.  Either every room is
// created or none is: a collision with an existing room number surfaces as
// ErrRoomNumberTaken, any other failure as the wrapped driver error.  The
// result keeps the order of rooms.
func (r *RoomRepo) CreateBatch(ctx context.Context, kosID uint64, rooms []model.Room) ([]model.Room, error) {
	if len(rooms) == 0 {
		return []model.Room{}, nil
	}

	query := `INSERT INTO rooms (kos_id, room_number, floor, room_type, price_per_month, facilities) VALUES `
	args := make([]interface{}, 0, len(rooms)*6)
	numbers := make([]interface{}, 0, len(rooms)+1)
	numbers = append(numbers, kosID)
	for i, rm := range rooms {
		fac, err := encodeTags(rm.Facilities)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, kosID, rm.RoomNumber, rm.Floor, rm.RoomType, rm.PricePerMonth, fac)
		numbers = append(numbers, rm.RoomNumber)
	}

	var created []model.Room
	err := txRunner(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isDuplicateKey(err) {
				return ErrRoomNumberTaken
			}
			return fmt.Errorf("insert rooms: %w", err)
		}

		sel := `SELECT ` + roomColumns + ` FROM rooms r
		        WHERE r.kos_id = ? AND r.room_number IN (` + placeholders(len(rooms)) + `)`
		rows, err := tx.QueryContext(ctx, sel, numbers...)
		if err != nil {
			return fmt.Errorf("read back rooms: %w", err)
		}
		stored, err := scanRooms(rows)
		if err != nil {
			return fmt.Errorf("read back rooms: %w", err)
		}
		if len(stored) != len(rooms) {
			return fmt.Errorf("read back rooms: got %d rows, want %d", len(stored), len(rooms))
		}

		byNumber := make(map[string]model.Room, len(stored))
		for _, s := range stored {
			byNumber[s.RoomNumber] = s
		}
		created = make([]model.Room, 0, len(rooms))
		for _, rm := range rooms {
			created = append(created, byNumber[rm.RoomNumber])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a room by its id (no ownership check).
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms r WHERE r.id = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// GetByIDAndOwner retrieves a room while enforcing ownership via its kos.
func (r *RoomRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms r
	      JOIN boarding_houses k ON k.id = r.kos_id
	      WHERE r.id = ? AND k.owner_id = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// ListByKos returns the rooms of a kos ordered by floor then number.
// With onlyAvailable set, occupied rooms are skipped.
func (r *RoomRepo) ListByKos(ctx context.Context, kosID uint64, onlyAvailable bool) ([]model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms r WHERE r.kos_id = ?`
	if onlyAvailable {
		q += ` AND r.is_occupied = 0`
	}
	q += ` ORDER BY r.floor IS NULL, r.floor, LENGTH(r.room_number), r.room_number`
	rows, err := r.db.QueryContext(ctx, q, kosID)
	if err != nil {
		return nil, err
	}
	return scanRooms(rows)
}

// ListByOwner returns every room across the owner's boarding houses.
func (r *RoomRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms r
	      JOIN boarding_houses k ON k.id = r.kos_id
	      WHERE k.owner_id = ?
	      ORDER BY r.kos_id, LENGTH(r.room_number), r.room_number`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	return scanRooms(rows)
}

// CountByKos returns the number of rooms and of vacant rooms in a kos.
func (r *RoomRepo) CountByKos(ctx context.Context, kosID uint64) (total, available int, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(is_occupied = 0), 0) FROM rooms WHERE kos_id = ?`
	err = r.db.QueryRowContext(ctx, q, kosID).Scan(&total, &available)
	return total, available, err
}

// RoomUpdate carries the editable columns of a room.
type RoomUpdate struct {
	RoomNumber    string
	Floor         *int
	RoomType      string
	PricePerMonth int64
	Facilities    []string
}

// UpdateByIDAndOwner rewrites the editable columns of a room owned by
// ownerID.  Returns ErrRoomNotFound when not found or not owned and
// ErrRoomNumberTaken when the new number is already used in the kos.
func (r *RoomRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerID uint64, u RoomUpdate) (*model.Room, error) {
	fac, err := encodeTags(u.Facilities)
	if err != nil {
		return nil, err
	}
	const q = `UPDATE rooms r
	           JOIN boarding_houses k ON k.id = r.kos_id
	           SET r.room_number = ?, r.floor = ?, r.room_type = ?, r.price_per_month = ?, r.facilities = ?,
	               r.updated_at = CURRENT_TIMESTAMP
	           WHERE r.id = ? AND k.owner_id = ?`
	_, err = r.db.ExecContext(ctx, q, u.RoomNumber, u.Floor, u.RoomType, u.PricePerMonth, fac, id, ownerID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrRoomNumberTaken
		}
		return nil, err
	}
	// MySQL reports 0 affected rows when nothing changed, so the read
	// below doubles as the ownership check.
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// DeleteByIDAndOwner deletes a vacant room of the owner.  Occupied rooms
// yield ErrRoomOccupied.
func (r *RoomRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	return txRunner(ctx, r.db, func(tx *sql.Tx) error {
		var (
			dbOwner  uint64
			occupied bool
		)
		err := tx.QueryRowContext(ctx,
			`SELECT k.owner_id, r.is_occupied FROM rooms r
			 JOIN boarding_houses k ON k.id = r.kos_id
			 WHERE r.id = ? FOR UPDATE`, id).Scan(&dbOwner, &occupied)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
		if dbOwner != ownerID {
			return ErrForbidden
		}
		if occupied {
			return ErrRoomOccupied
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
		return err
	})
}

// occupyTx marks a room as rented by the given tenant.
func occupyTx(ctx context.Context, tx *sql.Tx, roomID, tenantID uint64, name string, phone *string, since time.Time) error {
	const q = `UPDATE rooms
	           SET is_occupied = 1, tenant_id = ?, tenant_name = ?, tenant_phone = ?, occupied_since = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND is_occupied = 0`
	res, err := tx.ExecContext(ctx, q, tenantID, name, phone, since, roomID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomOccupied
	}
	return nil
}

// vacateTx clears the tenant fields of a room.
func vacateTx(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	const q = `UPDATE rooms
	           SET is_occupied = 0, tenant_id = NULL, tenant_name = NULL, tenant_phone = NULL, occupied_since = NULL,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, roomID)
	return err
}
