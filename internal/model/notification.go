package model

import "time"

// Notification kinds.
const (
	NotifyBookingCreated   = "booking.created"
	NotifyBookingApproved  = "booking.approved"
	NotifyBookingRejected  = "booking.rejected"
	NotifyBookingCancelled = "booking.cancelled"
	NotifyBookingCompleted = "booking.completed"
	NotifyPaymentSubmitted = "payment.submitted"
	NotifyPaymentPaid      = "payment.paid"
	NotifyPaymentRejected  = "payment.rejected"
	NotifyRoomsCreated     = "rooms.created"
)

// Notification is an in-app message for a single user, stored in the
// `notifications` table.
type Notification struct {
	ID        uint64    `json:"id"`         // notifications.id
	UserID    uint64    `json:"user_id"`    // notifications.user_id
	Kind      string    `json:"kind"`       // notifications.kind
	Title     string    `json:"title"`      // notifications.title
	Body      string    `json:"body"`       // notifications.body
	IsRead    bool      `json:"is_read"`    // notifications.is_read
	CreatedAt time.Time `json:"created_at"` // notifications.created_at
}
