package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

const kosColumns = `k.id, k.owner_id, k.name, k.address, k.city, k.description, k.kos_type, k.facilities,
	k.photo_url, k.created_at, k.updated_at`

// KosRepo encapsulates all database queries related to boarding houses.
type KosRepo struct {
	db *sql.DB
}

// NewKosRepo constructs a KosRepo with the provided DB handle.
func NewKosRepo(db *sql.DB) *KosRepo {
	return &KosRepo{db: db}
}

func scanKos(s scanner, extra ...any) (model.Kos, error) {
	var (
		k      model.Kos
		desc   sql.NullString
		photo  sql.NullString
		rawFac []byte
	)
	dest := []any{&k.ID, &k.OwnerID, &k.Name, &k.Address, &k.City, &desc, &k.KosType, &rawFac,
		&photo, &k.CreatedAt, &k.UpdatedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return k, err
	}
	fac, err := decodeTags(rawFac)
	if err != nil {
		return k, err
	}
	k.Description = nullStr(desc)
	k.PhotoURL = nullStr(photo)
	k.Facilities = fac
	return k, nil
}

// Create inserts a new kos.  On success *k is replaced by the stored row.
func (r *KosRepo) Create(ctx context.Context, k *model.Kos) error {
	fac, err := encodeTags(k.Facilities)
	if err != nil {
		return err
	}
	const q = `INSERT INTO boarding_houses (owner_id, name, address, city, description, kos_type, facilities)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, k.OwnerID, k.Name, k.Address, k.City, k.Description, k.KosType, fac)
	if err != nil {
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
	*k = *stored
	return nil
}

// GetByID fetches a kos regardless of owner.
func (r *KosRepo) GetByID(ctx context.Context, id uint64) (*model.Kos, error) {
	q := `SELECT ` + kosColumns + ` FROM boarding_houses k WHERE k.id = ?`
	k, err := scanKos(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKosNotFound
		}
		return nil, err
	}
	return &k, nil
}

// OwnerOf returns the owner id of a kos, or ErrKosNotFound.
func (r *KosRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM boarding_houses WHERE id = ?`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrKosNotFound
		}
		return 0, err
	}
	return owner, nil
}

// ListByOwner returns the owner's boarding houses, newest first.
func (r *KosRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Kos, error) {
	q := `SELECT ` + kosColumns + ` FROM boarding_houses k WHERE k.owner_id = ? ORDER BY k.id DESC`
	return r.list(ctx, q, ownerID)
}

// ListAll returns every kos; used by the admin dashboard.
func (r *KosRepo) ListAll(ctx context.Context) ([]model.Kos, error) {
	q := `SELECT ` + kosColumns + ` FROM boarding_houses k ORDER BY k.id`
	return r.list(ctx, q)
}

func (r *KosRepo) list(ctx context.Context, q string, args ...any) ([]model.Kos, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Kos{}
	for rows.Next() {
		k, err := scanKos(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner updates the descriptive columns of a kos.  Returns
// ErrKosNotFound when the kos does not exist or belongs to someone else.
func (r *KosRepo) UpdateByIDAndOwner(ctx context.Context, k *model.Kos) error {
	fac, err := encodeTags(k.Facilities)
	if err != nil {
		return err
	}
	const q = `UPDATE boarding_houses
	           SET name = ?, address = ?, city = ?, description = ?, kos_type = ?, facilities = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	if _, err := r.db.ExecContext(ctx, q, k.Name, k.Address, k.City, k.Description, k.KosType, fac, k.ID, k.OwnerID); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, k.ID)
	if err != nil {
		return err
	}
	if stored.OwnerID != k.OwnerID {
		return ErrKosNotFound
	}
	*k = *stored
	return nil
}

// SetPhoto stores the cover photo URL of an owned kos.
func (r *KosRepo) SetPhoto(ctx context.Context, id, ownerID uint64, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE boarding_houses SET photo_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?`,
		url, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrKosNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a kos together with its rooms, bookings and
// transactions (ON DELETE CASCADE).  A kos with approved bookings cannot be
// deleted and yields ErrConflict.
func (r *KosRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	return txRunner(ctx, r.db, func(tx *sql.Tx) error {
		var dbOwner uint64
		err := tx.QueryRowContext(ctx, `SELECT owner_id FROM boarding_houses WHERE id = ? FOR UPDATE`, id).Scan(&dbOwner)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrKosNotFound
			}
			return err
		}
		if dbOwner != ownerID {
			return ErrForbidden
		}
		var active int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE kos_id = ? AND status = ?`,
			id, model.BookingApproved).Scan(&active); err != nil {
			return err
		}
		if active > 0 {
			return ErrConflict
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM boarding_houses WHERE id = ?`, id)
		return err
	})
}
