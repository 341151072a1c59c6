// Package repository holds the MySQL data access for users, boarding
// houses, rooms, bookings, transactions and notifications.
//
// Sentinel values defined here let handlers map failures to HTTP status
// codes without looking at driver errors: ErrForbidden means the row
// belongs to someone else (403), ErrConflict and friends mean the current
// state forbids the change (409) and the *NotFound values map to 404.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of dependent records, such as deleting a kos that still has
// approved bookings.
var ErrConflict = errors.New("conflict")

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrKosNotFound          = errors.New("kos not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrRoomNumberTaken is returned when an insert or rename collides
	// with UNIQUE (kos_id, room_number).  For batches nothing is stored.
	ErrRoomNumberTaken = errors.New("room number already exists in this kos")

	ErrRoomOccupied       = errors.New("room is occupied")
	ErrInvalidTransition  = errors.New("status change not allowed")
	ErrBookingNotApproved = errors.New("booking is not approved")
	ErrDuplicateBooking   = errors.New("a pending booking for this room already exists")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
