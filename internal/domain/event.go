package domain

// EventType tags every frame sent to a client.
type EventType string

const (
	// chat
	EventNewMessage  EventType = "new_message"
	EventMessageRead EventType = "message_read"

	// social feed
	EventPostCreated   EventType = "post_created"
	EventPostCommented EventType = "post_commented"
	EventPostShared    EventType = "post_shared"

	// notifications
	EventNewNotification EventType = "new_notification"
	EventUnreadCount     EventType = "unread_count"

	// ratings
	EventRatingUpdated EventType = "rating_updated"

	// blogs
	EventBlogCreated   EventType = "blog_created"
	EventBlogUpdated   EventType = "blog_updated"
	EventBlogDeleted   EventType = "blog_deleted"
	EventBlogLiked     EventType = "blog_liked"
	EventBlogCommented EventType = "blog_commented"
	EventBlogViewed    EventType = "blog_viewed"

	// room lifecycle
	EventMemberCount EventType = "member_count"

	// control replies
	EventJoined EventType = "joined"
	EventLeft   EventType = "left"
	EventAck    EventType = "ack"
	EventError  EventType = "error"
	EventPong   EventType = "pong"
)

// Event is the immutable value delivered to room members. Durability is the
// emitting collaborator's responsibility before publish; the core never
// stores events.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

func NewEvent(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload}
}
