package model

import "time"

// Room types offered to owners.  The vocabulary is fixed.
const (
	RoomTypeStandard = "Standard"
	RoomTypePremium  = "Premium"
	RoomTypeVIP      = "VIP"
	RoomTypeDeluxe   = "Deluxe"
)

// RoomTypes lists the room type vocabulary in display order.
var RoomTypes = []string{RoomTypeStandard, RoomTypePremium, RoomTypeVIP, RoomTypeDeluxe}

// ValidRoomType reports whether t is part of the room type vocabulary.
func ValidRoomType(t string) bool {
	for _, v := range RoomTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Room is a rentable unit inside a kos.  RoomNumber is unique within the
// kos (enforced by the uq_rooms_kos_number index).  Tenant fields stay nil
// until an approved booking occupies the room.
//
// Fields:
//
//	ID            – primary key identifier.
//	KosID         – owning boarding house.
//	RoomNumber    – owner facing identifier such as "01" or "A-12".
//	Floor         – optional floor number.
//	RoomType      – Standard, Premium, VIP or Deluxe.
//	PricePerMonth – monthly rent in rupiah.
//	Facilities    – amenity tags (ac, wifi, kasur, lemari, kamar_mandi_dalam).
//	IsOccupied    – true while a tenant lives in the room.
type Room struct {
	ID            uint64     `json:"id"`                       // rooms.id
	KosID         uint64     `json:"kos_id"`                   // rooms.kos_id
	RoomNumber    string     `json:"room_number"`              // rooms.room_number
	Floor         *int       `json:"floor,omitempty"`          // rooms.floor (nullable)
	RoomType      string     `json:"room_type"`                // rooms.room_type
	PricePerMonth int64      `json:"price_per_month"`          // rooms.price_per_month
	Facilities    []string   `json:"facilities"`               // rooms.facilities (JSON)
	IsOccupied    bool       `json:"is_occupied"`              // rooms.is_occupied
	TenantID      *uint64    `json:"tenant_id,omitempty"`      // rooms.tenant_id (nullable)
	TenantName    *string    `json:"tenant_name,omitempty"`    // rooms.tenant_name (nullable)
	TenantPhone   *string    `json:"tenant_phone,omitempty"`   // rooms.tenant_phone (nullable)
	OccupiedSince *time.Time `json:"occupied_since,omitempty"` // rooms.occupied_since (nullable)
	CreatedAt     time.Time  `json:"created_at"`               // rooms.created_at
	UpdatedAt     time.Time  `json:"updated_at"`               // rooms.updated_at
}
