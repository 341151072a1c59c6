package service

import (
	"context"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// KosOwnerLookup resolves the owner of a kos.
type KosOwnerLookup interface {
	OwnerOf(ctx context.Context, kosID uint64) (uint64, error)
}

// KosGrant proves that an owner was authorized for one kos.  Its fields
// are unexported, so the only way to get a usable grant is OwnerGate.
type KosGrant struct {
	kosID   uint64
	ownerID uint64
}

func (g KosGrant) KosID() uint64   { return g.kosID }
func (g KosGrant) OwnerID() uint64 { return g.ownerID }

// Valid is false for the zero grant.
func (g KosGrant) Valid() bool { return g.kosID != 0 && g.ownerID != 0 }

// OwnerGate checks once, at the entry of an owner operation, that the
// caller owns the kos being changed.
type OwnerGate struct {
	kos KosOwnerLookup
}

func NewOwnerGate(kos KosOwnerLookup) *OwnerGate { return &OwnerGate{kos: kos} }

// Authorize returns a grant for kosID when role is OWNER and the kos
// belongs to userID.  A missing kos is reported by the lookup's error
// (repository.ErrKosNotFound).
func (g *OwnerGate) Authorize(ctx context.Context, userID uint64, role string, kosID uint64) (KosGrant, error) {
	if role != model.RoleOwner || userID == 0 {
		return KosGrant{}, ErrNotOwner
	}
	owner, err := g.kos.OwnerOf(ctx, kosID)
	if err != nil {
		return KosGrant{}, err
	}
	if owner != userID {
		return KosGrant{}, ErrNotOwner
	}
	return KosGrant{kosID: kosID, ownerID: userID}, nil
}
