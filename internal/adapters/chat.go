package adapters

import (
	"context"
	"time"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// ApplicationStore is the external applications collaborator, consulted to
// verify thread participation.
type ApplicationStore interface {
	IsParticipant(ctx context.Context, applicationID string, id domain.UserID) (bool, error)
}

// Chat routes the events of one application's chat thread. A thread room is
// joined explicitly and only by its participants; messages echo to every
// participant connection except the one that sent them, so the sender's
// other devices still see the message.
type Chat struct {
	bus  Publisher
	apps ApplicationStore
}

func NewChat(bus Publisher, apps ApplicationStore) *Chat {
	return &Chat{bus: bus, apps: apps}
}

// CanJoin allows a connection into application:<id> only when its bound
// user is a participant of that application.
func (c *Chat) CanJoin(ctx context.Context, identity domain.Identity, applicationID string) error {
	ok, err := c.apps.IsParticipant(ctx, applicationID, identity.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrJoinDenied
	}
	return nil
}

type ChatMessage struct {
	ApplicationID string        `json:"applicationId"`
	SenderID      domain.UserID `json:"senderId"`
	Message       string        `json:"message"`
	SentAt        time.Time     `json:"sentAt"`
}

// PublishMessage fans a committed chat message out to the thread room,
// excluding the originating connection if given.
func (c *Chat) PublishMessage(applicationID string, senderID domain.UserID, message string, exclude core.ConnID) core.PublishResult {
	payload := ChatMessage{
		ApplicationID: applicationID,
		SenderID:      senderID,
		Message:       message,
		SentAt:        time.Now().UTC(),
	}
	return c.bus.Publish(domain.ApplicationRoom(applicationID), domain.NewEvent(domain.EventNewMessage, payload), exclude)
}

type ReadReceipt struct {
	ApplicationID string        `json:"applicationId"`
	ReaderID      domain.UserID `json:"readerId"`
}

// PublishRead announces that a participant has read the thread.
func (c *Chat) PublishRead(applicationID string, readerID domain.UserID, exclude core.ConnID) core.PublishResult {
	payload := ReadReceipt{ApplicationID: applicationID, ReaderID: readerID}
	return c.bus.Publish(domain.ApplicationRoom(applicationID), domain.NewEvent(domain.EventMessageRead, payload), exclude)
}
