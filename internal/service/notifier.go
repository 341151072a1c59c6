package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ngekosaja/ngekosaja-api/internal/queue"
)

// EventPublisher sends notification events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.NotificationEvent) error
}

// Notifier delivers notifications through the broker and writes them
// straight to the store when the broker is missing or refuses the message.
// Delivery never fails the calling request; problems are logged.
type Notifier struct {
	pub   EventPublisher
	store queue.NotificationStore
	log   *zap.Logger
}

// NewNotifier returns a Notifier.  pub may be nil.
func NewNotifier(pub EventPublisher, store queue.NotificationStore, log *zap.Logger) *Notifier {
	return &Notifier{pub: pub, store: store, log: log.Named("notifier")}
}

const notifyTimeout = 5 * time.Second

// Notify delivers every event in order.
func (n *Notifier) Notify(ctx context.Context, events ...queue.NotificationEvent) {
	if n == nil {
		return
	}
	// detach from the request so a closed connection does not drop messages
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	for _, ev := range events {
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = time.Now().UTC()
		}
		if err := ev.Validate(); err != nil {
			n.log.Warn("dropping notification", zap.Error(err), zap.String("kind", ev.Kind))
			continue
		}
		if n.pub != nil {
			if err := n.pub.Publish(ctx, ev); err == nil {
				continue
			}
		}
		row := ev.Notification()
		if err := n.store.Insert(ctx, &row); err != nil {
			n.log.Error("notification lost", zap.Error(err),
				zap.Uint64("user_id", ev.UserID), zap.String("kind", ev.Kind))
		}
	}
}
