package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/utils"
)

const userColumns = "id,email,password_hash,role,full_name,phone,avatar_url,is_active,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser is the registration payload.
type NewUser struct {
	Email    string
	Password string
	Role     string
	FullName string
	Phone    *string
}

func scanUser(s scanner) (model.User, error) {
	var (
		u      model.User
		phone  sql.NullString
		avatar sql.NullString
	)
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FullName, &phone, &avatar,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	u.Phone = nullStr(phone)
	u.AvatarURL = nullStr(avatar)
	return u, err
}

// Create hashes the password, inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, full_name, phone) VALUES (?,?,?,?,?)",
		email, hash, nu.Role, strings.TrimSpace(nu.FullName), nu.Phone)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// ListAll returns every user ordered by id; used by the admin views.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile sets the display name and phone of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName string, phone *string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, phone=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		strings.TrimSpace(fullName), phone, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// SetAvatar stores the avatar URL of a user.
func (r *UserRepo) SetAvatar(ctx context.Context, id uint64, url string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_url=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetActive enables or disables an account.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
