package model

import "time"

// Booking statuses.  A booking starts pending and is approved, rejected
// or cancelled; an approved booking is completed when the tenant leaves.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking is a tenant's request to rent a room.  It corresponds to a
// row in the `bookings` table.
//
// Fields:
//
//	ID             – primary key identifier.
//	TenantID       – user who asked for the room.
//	KosID          – boarding house of the room (denormalised for owner queries).
//	RoomID         – requested room.
//	StartDate      – first day of the stay.
//	DurationMonths – length of the stay in months.
//	Status         – see the Booking* constants.
//	Note           – optional message from the tenant.
type Booking struct {
	ID             uint64    `json:"id"`              // bookings.id
	TenantID       uint64    `json:"tenant_id"`       // bookings.tenant_id
	KosID          uint64    `json:"kos_id"`          // bookings.kos_id
	RoomID         uint64    `json:"room_id"`         // bookings.room_id
	StartDate      time.Time `json:"start_date"`      // bookings.start_date
	DurationMonths int       `json:"duration_months"` // bookings.duration_months
	Status         string    `json:"status"`          // bookings.status
	Note           *string   `json:"note,omitempty"`  // bookings.note (nullable)
	CreatedAt      time.Time `json:"created_at"`      // bookings.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // bookings.updated_at
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingApproved || to == BookingRejected || to == BookingCancelled
	case BookingApproved:
		return to == BookingCompleted
	}
	return false
}
