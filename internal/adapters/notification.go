package adapters

import (
	"context"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// NotificationStore is the durable notification collaborator backing unread
// counts and read marks.
type NotificationStore interface {
	UnreadCount(ctx context.Context, id domain.UserID) (int64, error)
	MarkRead(ctx context.Context, id domain.UserID, notificationID string) error
}

// Notification pushes user-addressed events into the one identity room.
// Delivery is never cross-user: the only room this adapter ever targets is
// user:<id>, which every device of that user has auto-joined.
type Notification struct {
	bus   Publisher
	store NotificationStore
}

func NewNotification(bus Publisher, store NotificationStore) *Notification {
	return &Notification{bus: bus, store: store}
}

// PublishNotification delivers a committed notification to every live
// device of the addressed user.
func (n *Notification) PublishNotification(userID domain.UserID, notification any) core.PublishResult {
	return n.bus.Publish(domain.UserRoom(userID), domain.NewEvent(domain.EventNewNotification, notification), "")
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

// PushUnreadCount queries the durable store and pushes the current unread
// count to all of the user's devices.
func (n *Notification) PushUnreadCount(ctx context.Context, userID domain.UserID) (int64, error) {
	count, err := n.store.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	n.bus.Publish(domain.UserRoom(userID), domain.NewEvent(domain.EventUnreadCount, UnreadCount{Count: count}), "")
	return count, nil
}

// MarkRead acknowledges one notification against the durable store, then
// pushes the updated count so every device converges.
func (n *Notification) MarkRead(ctx context.Context, userID domain.UserID, notificationID string) error {
	if err := n.store.MarkRead(ctx, userID, notificationID); err != nil {
		return err
	}
	_, err := n.PushUnreadCount(ctx, userID)
	return err
}
