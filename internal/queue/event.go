// Package queue carries notification events over RabbitMQ: handlers
// publish them and a background consumer writes them to the inbox table.
package queue

import (
	"errors"
	"time"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// NotificationQueue is the durable queue shared by publisher and consumer.
const NotificationQueue = "ngekosaja.notifications"

// NotificationEvent is one message for one user.  It contains everything
// the consumer needs, so no database reads happen on the consuming side.
type NotificationEvent struct {
	UserID     uint64    `json:"user_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

var errInvalidEvent = errors.New("notification event needs user_id, kind and title")

// Validate rejects events that could not be stored.
func (e NotificationEvent) Validate() error {
	if e.UserID == 0 || e.Kind == "" || e.Title == "" {
		return errInvalidEvent
	}
	return nil
}

// Notification converts the event into an inbox row.
func (e NotificationEvent) Notification() model.Notification {
	return model.Notification{
		UserID: e.UserID,
		Kind:   e.Kind,
		Title:  e.Title,
		Body:   e.Body,
	}
}
