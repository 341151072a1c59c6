package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/roomgen"
)

// RoomBatchStore persists a whole batch atomically and returns the rows.
type RoomBatchStore interface {
	CreateBatch(ctx context.Context, kosID uint64, rooms []model.Room) ([]model.Room, error)
}

// KosNamer is used for the notification text.
type KosNamer interface {
	GetByID(ctx context.Context, id uint64) (*model.Kos, error)
}

// RoomBatchService creates many identically configured rooms at once.
type RoomBatchService struct {
	rooms    RoomBatchStore
	kos      KosNamer
	notifier *Notifier
	log      *zap.Logger
}

func NewRoomBatchService(rooms RoomBatchStore, kos KosNamer, notifier *Notifier, log *zap.Logger) *RoomBatchService {
	return &RoomBatchService{rooms: rooms, kos: kos, notifier: notifier, log: log.Named("room_batch")}
}

// Preview returns the room numbers req would create.  It never touches
// storage and can be called on every keystroke.
func (s *RoomBatchService) Preview(req BatchRequest) []string {
	return roomgen.Sequence(req.Start, req.Count)
}

// Create builds the batch described by req and stores it under the kos of
// grant in one all-or-nothing call.  The stored rooms are returned in
// number order.  A zero count stores nothing.  Storage errors come back
// unchanged (for example repository.ErrRoomNumberTaken).
func (s *RoomBatchService) Create(ctx context.Context, grant KosGrant, req BatchRequest) ([]model.Room, error) {
	if !grant.Valid() {
		return nil, ErrNotOwner
	}
	numbers := roomgen.Sequence(req.Start, req.Count)
	if len(numbers) == 0 {
		return []model.Room{}, nil
	}
	rooms := roomgen.Build(numbers, roomgen.Attributes{
		KosID:         grant.KosID(),
		Floor:         req.Floor,
		RoomType:      req.RoomType,
		PricePerMonth: req.PricePerMonth,
		Facilities:    req.Facilities,
	})

	started := time.Now()
	created, err := s.rooms.CreateBatch(ctx, grant.KosID(), rooms)
	fields := []zap.Field{
		zap.Uint64("kos_id", grant.KosID()),
		zap.Uint64("owner_id", grant.OwnerID()),
		zap.Int("count", len(rooms)),
		zap.String("first", numbers[0]),
		zap.String("last", numbers[len(numbers)-1]),
		zap.Duration("took", time.Since(started)),
	}
	if err != nil {
		s.log.Warn("batch room creation failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	s.log.Info("batch rooms created", fields...)

	kosName := ""
	if s.kos != nil {
		if k, err := s.kos.GetByID(ctx, grant.KosID()); err == nil {
			kosName = k.Name
		}
	}
	s.notifier.Notify(ctx, RoomsCreatedEvent(grant.OwnerID(), kosName, created))
	return created, nil
}
