package model

import "time"

// Roles recognised by the API.  The role is stored on the users row and
// copied into the access token's "role" claim.
const (
	RoleOwner  = "OWNER"
	RoleTenant = "TENANT"
	RoleAdmin  = "ADMIN"
)

// User represents an account row in the `users` table.  The same row
// doubles as the public profile: FullName, Phone and AvatarURL are what
// other parties see on bookings and rooms.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password (never serialised).
//	Role         – OWNER, TENANT or ADMIN.
//	FullName     – display name.
//	Phone        – contact number, optional.
//	AvatarURL    – public URL of the uploaded avatar, optional.
//	IsActive     – whether the account is active.
type User struct {
	ID           uint64    `json:"id"`                   // users.id
	Email        string    `json:"email"`                // users.email
	PasswordHash string    `json:"-"`                    // users.password_hash
	Role         string    `json:"role"`                 // users.role
	FullName     string    `json:"full_name"`            // users.full_name
	Phone        *string   `json:"phone,omitempty"`      // users.phone (nullable)
	AvatarURL    *string   `json:"avatar_url,omitempty"` // users.avatar_url (nullable)
	IsActive     bool      `json:"is_active"`            // users.is_active
	CreatedAt    time.Time `json:"created_at"`           // users.created_at
	UpdatedAt    time.Time `json:"updated_at"`           // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
