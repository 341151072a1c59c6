package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/queue"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
)

type fakeKos struct {
	owners map[uint64]uint64
}

func (f *fakeKos) OwnerOf(_ context.Context, id uint64) (uint64, error) {
	owner, ok := f.owners[id]
	if !ok {
		return 0, repository.ErrKosNotFound
	}
	return owner, nil
}

func (f *fakeKos) GetByID(_ context.Context, id uint64) (*model.Kos, error) {
	owner, ok := f.owners[id]
	if !ok {
		return nil, repository.ErrKosNotFound
	}
	return &model.Kos{ID: id, OwnerID: owner, Name: "Kos Melati"}, nil
}

// fakeRooms mimics an all-or-nothing store with UNIQUE(kos_id, room_number).
type fakeRooms struct {
	calls  int
	stored map[uint64]map[string]model.Room
	err    error
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{stored: map[uint64]map[string]model.Room{}}
}

func (f *fakeRooms) CreateBatch(_ context.Context, kosID uint64, rooms []model.Room) ([]model.Room, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	existing := f.stored[kosID]
	for _, r := range rooms {
		if _, dup := existing[r.RoomNumber]; dup {
			return nil, repository.ErrRoomNumberTaken
		}
	}
	if existing == nil {
		existing = map[string]model.Room{}
		f.stored[kosID] = existing
	}
	out := make([]model.Room, 0, len(rooms))
	for i, r := range rooms {
		r.ID = uint64(len(existing) + i + 1)
		out = append(out, r)
	}
	for _, r := range out {
		existing[r.RoomNumber] = r
	}
	return out, nil
}

type memInbox struct{ rows []model.Notification }

func (m *memInbox) Insert(_ context.Context, n *model.Notification) error {
	m.rows = append(m.rows, *n)
	return nil
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, queue.NotificationEvent) error {
	p.calls++
	return errors.New("broker down")
}

type recordingPublisher struct{ events []queue.NotificationEvent }

func (p *recordingPublisher) Publish(_ context.Context, ev queue.NotificationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func TestOwnerGate_Authorize(t *testing.T) {
	gate := NewOwnerGate(&fakeKos{owners: map[uint64]uint64{7: 5}})
	ctx := context.Background()

	grant, err := gate.Authorize(ctx, 5, model.RoleOwner, 7)
	require.NoError(t, err)
	assert.True(t, grant.Valid())
	assert.Equal(t, uint64(7), grant.KosID())
	assert.Equal(t, uint64(5), grant.OwnerID())

	_, err = gate.Authorize(ctx, 6, model.RoleOwner, 7)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = gate.Authorize(ctx, 5, model.RoleTenant, 7)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = gate.Authorize(ctx, 5, model.RoleOwner, 404)
	assert.ErrorIs(t, err, repository.ErrKosNotFound)
}

func newBatchService(rooms RoomBatchStore, inbox *memInbox) (*RoomBatchService, *OwnerGate) {
	kos := &fakeKos{owners: map[uint64]uint64{7: 5}}
	notifier := NewNotifier(nil, inbox, zap.NewNop())
	return NewRoomBatchService(rooms, kos, notifier, zap.NewNop()), NewOwnerGate(kos)
}

func TestRoomBatchService_EndToEnd(t *testing.T) {
	rooms := newFakeRooms()
	inbox := &memInbox{}
	svc, gate := newBatchService(rooms, inbox)
	ctx := context.Background()

	req, err := ParseBatchForm(validForm(), 50)
	require.NoError(t, err)
	grant, err := gate.Authorize(ctx, 5, model.RoleOwner, 7)
	require.NoError(t, err)

	created, err := svc.Create(ctx, grant, req)
	require.NoError(t, err)
	require.Len(t, created, 10)
	assert.Equal(t, "01", created[0].RoomNumber)
	assert.Equal(t, "10", created[9].RoomNumber)
	for _, r := range created {
		assert.NotZero(t, r.ID)
		assert.Equal(t, uint64(7), r.KosID)
		assert.Equal(t, 2, *r.Floor)
		assert.Equal(t, model.RoomTypeStandard, r.RoomType)
		assert.Equal(t, int64(1500000), r.PricePerMonth)
		assert.Equal(t, []string{"wifi", "ac"}, r.Facilities)
	}
	assert.Len(t, rooms.stored[7], 10)

	require.Len(t, inbox.rows, 1)
	assert.Equal(t, uint64(5), inbox.rows[0].UserID)
	assert.Equal(t, model.NotifyRoomsCreated, inbox.rows[0].Kind)
	assert.Equal(t, "10 kamar berhasil dibuat", inbox.rows[0].Title)
	assert.Equal(t, "Kos Melati: kamar 01 sampai 10", inbox.rows[0].Body)
}

func TestRoomBatchService_CollisionStoresNothing(t *testing.T) {
	rooms := newFakeRooms()
	inbox := &memInbox{}
	svc, gate := newBatchService(rooms, inbox)
	ctx := context.Background()
	grant, _ := gate.Authorize(ctx, 5, model.RoleOwner, 7)

	_, err := svc.Create(ctx, grant, BatchRequest{Count: 3, Start: "05", RoomType: model.RoomTypeVIP, PricePerMonth: 1})
	require.NoError(t, err)

	// 01..10 overlaps 05..07
	_, err = svc.Create(ctx, grant, BatchRequest{Count: 10, Start: "01", RoomType: model.RoomTypeVIP, PricePerMonth: 1})
	assert.ErrorIs(t, err, repository.ErrRoomNumberTaken)
	assert.Len(t, rooms.stored[7], 3)
	assert.Len(t, inbox.rows, 1)
}

func TestRoomBatchService_ZeroCountSkipsStore(t *testing.T) {
	rooms := newFakeRooms()
	svc, gate := newBatchService(rooms, &memInbox{})
	grant, _ := gate.Authorize(context.Background(), 5, model.RoleOwner, 7)

	created, err := svc.Create(context.Background(), grant, BatchRequest{Count: 0, Start: "01"})
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Zero(t, rooms.calls)
}

func TestRoomBatchService_RequiresGrant(t *testing.T) {
	rooms := newFakeRooms()
	svc, _ := newBatchService(rooms, &memInbox{})

	_, err := svc.Create(context.Background(), KosGrant{}, BatchRequest{Count: 1, Start: "1"})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Zero(t, rooms.calls)
}

func TestRoomBatchService_TransientError(t *testing.T) {
	rooms := newFakeRooms()
	rooms.err = errors.New("i/o timeout")
	inbox := &memInbox{}
	svc, gate := newBatchService(rooms, inbox)
	grant, _ := gate.Authorize(context.Background(), 5, model.RoleOwner, 7)

	_, err := svc.Create(context.Background(), grant, BatchRequest{Count: 2, Start: "1"})
	assert.EqualError(t, err, "i/o timeout")
	assert.Equal(t, 1, rooms.calls)
	assert.Empty(t, inbox.rows)
}

func TestRoomBatchService_Preview(t *testing.T) {
	svc, _ := newBatchService(newFakeRooms(), &memInbox{})
	assert.Equal(t, []string{"099", "100", "101"}, svc.Preview(BatchRequest{Count: 3, Start: "099"}))
	assert.Equal(t, svc.Preview(BatchRequest{Count: 3, Start: "099"}), svc.Preview(BatchRequest{Count: 3, Start: "099"}))
}

func TestNotifier_FallsBackToStore(t *testing.T) {
	inbox := &memInbox{}
	pub := &failingPublisher{}
	n := NewNotifier(pub, inbox, zap.NewNop())

	n.Notify(context.Background(),
		queue.NotificationEvent{UserID: 1, Kind: model.NotifyPaymentPaid, Title: "ok"},
		queue.NotificationEvent{UserID: 0, Kind: "broken"},
	)
	assert.Equal(t, 1, pub.calls)
	require.Len(t, inbox.rows, 1)
	assert.Equal(t, uint64(1), inbox.rows[0].UserID)
}

func TestNotifier_PublishesWhenBrokerUp(t *testing.T) {
	inbox := &memInbox{}
	pub := &recordingPublisher{}
	n := NewNotifier(pub, inbox, zap.NewNop())

	n.Notify(context.Background(), queue.NotificationEvent{UserID: 1, Kind: model.NotifyPaymentPaid, Title: "ok"})
	require.Len(t, pub.events, 1)
	assert.False(t, pub.events[0].OccurredAt.IsZero())
	assert.Empty(t, inbox.rows)

	var nilNotifier *Notifier
	assert.NotPanics(t, func() { nilNotifier.Notify(context.Background(), pub.events[0]) })
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Rp1.500.000", FormatRupiah(1500000))
	assert.Equal(t, "Rp999", FormatRupiah(999))
	assert.Equal(t, "Rp1.000", FormatRupiah(1000))
	assert.Equal(t, "-Rp25.000", FormatRupiah(-25000))

	b := repository.BookingDetail{OwnerID: 5, TenantName: "Sari", KosName: "Kos Melati", RoomNumber: "01"}
	b.TenantID = 9

	b.Status = model.BookingApproved
	ev := BookingStatusEvent(b)
	assert.Equal(t, uint64(9), ev.UserID)
	assert.Equal(t, model.NotifyBookingApproved, ev.Kind)

	b.Status = model.BookingCancelled
	ev = BookingStatusEvent(b)
	assert.Equal(t, uint64(5), ev.UserID)
	assert.Equal(t, model.NotifyBookingCancelled, ev.Kind)
}
