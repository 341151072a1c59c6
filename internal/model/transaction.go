package model

import "time"

// Transaction statuses.  Payments are confirmed manually by the owner
// after checking the uploaded proof.
const (
	TxPending  = "pending"
	TxPaid     = "paid"
	TxRejected = "rejected"
)

// Transaction records one rent payment for a booking.  It corresponds to
// a row in the `transactions` table.
//
// Fields:
//
//	ID          – primary key identifier.
//	BookingID   – booking the payment belongs to.
//	TenantID    – paying tenant.
//	KosID       – boarding house (denormalised for owner queries).
//	Amount      – paid amount in rupiah.
//	PeriodMonth – month covered, formatted YYYY-MM.
//	ProofURL    – public URL of the transfer receipt.
//	Status      – pending, paid or rejected.
//	PaidAt      – when the owner confirmed the payment.
type Transaction struct {
	ID          uint64     `json:"id"`                // transactions.id
	BookingID   uint64     `json:"booking_id"`        // transactions.booking_id
	TenantID    uint64     `json:"tenant_id"`         // transactions.tenant_id
	KosID       uint64     `json:"kos_id"`            // transactions.kos_id
	Amount      int64      `json:"amount"`            // transactions.amount
	PeriodMonth string     `json:"period_month"`      // transactions.period_month
	ProofURL    string     `json:"proof_url"`         // transactions.proof_url
	Status      string     `json:"status"`            // transactions.status
	PaidAt      *time.Time `json:"paid_at,omitempty"` // transactions.paid_at (nullable)
	CreatedAt   time.Time  `json:"created_at"`        // transactions.created_at
	UpdatedAt   time.Time  `json:"updated_at"`        // transactions.updated_at
}
