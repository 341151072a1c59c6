package model

import "time"

// Kos types describe who a boarding house accepts.
const (
	KosTypePutra  = "putra"  // male tenants
	KosTypePutri  = "putri"  // female tenants
	KosTypeCampur = "campur" // mixed
)

// Kos represents a boarding house listed by an owner.  It corresponds to
// a row in the `boarding_houses` table and owns many rooms.
//
// Fields:
//
//	ID          – primary key identifier.
//	OwnerID     – user ID of the owner.
//	Name        – listing name.
//	Address     – street address.
//	City        – city used for search filters.
//	Description – optional free text.
//	KosType     – putra, putri or campur.
//	Facilities  – shared facility labels (parking, kitchen, ...).
//	PhotoURL    – public URL of the cover photo, optional.
type Kos struct {
	ID          uint64    `json:"id"`                    // boarding_houses.id
	OwnerID     uint64    `json:"owner_id"`              // boarding_houses.owner_id
	Name        string    `json:"name"`                  // boarding_houses.name
	Address     string    `json:"address"`               // boarding_houses.address
	City        string    `json:"city"`                  // boarding_houses.city
	Description *string   `json:"description,omitempty"` // boarding_houses.description (nullable)
	KosType     string    `json:"kos_type"`              // boarding_houses.kos_type
	Facilities  []string  `json:"facilities"`            // boarding_houses.facilities (JSON)
	PhotoURL    *string   `json:"photo_url,omitempty"`   // boarding_houses.photo_url (nullable)
	CreatedAt   time.Time `json:"created_at"`            // boarding_houses.created_at
	UpdatedAt   time.Time `json:"updated_at"`            // boarding_houses.updated_at
}

// ValidKosType reports whether t is one of the accepted kos types.
func ValidKosType(t string) bool {
	switch t {
	case KosTypePutra, KosTypePutri, KosTypeCampur:
		return true
	}
	return false
}
