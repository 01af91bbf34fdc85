package adapters

import (
	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// Blog routes blog activity to two role-partitioned topics: the admin room
// sees every lifecycle change, the public room only sees what is published.
type Blog struct {
	bus Publisher
}

func NewBlog(bus Publisher) *Blog {
	return &Blog{bus: bus}
}

type BlogEventKind string

const (
	BlogCreated   BlogEventKind = "created"
	BlogUpdated   BlogEventKind = "updated"
	BlogDeleted   BlogEventKind = "deleted"
	BlogLiked     BlogEventKind = "liked"
	BlogCommented BlogEventKind = "commented"
	BlogViewed    BlogEventKind = "viewed"
)

const StatusPublished = "published"

type BlogPost struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	AuthorID domain.UserID `json:"authorId"`
	Status   string        `json:"status"`
}

// CanJoin gates the admin topic on role; the public topic is open to every
// authenticated connection.
func (b *Blog) CanJoin(identity domain.Identity, room domain.RoomName) error {
	if room == domain.AdminBlogRoom && !identity.IsAdmin() {
		return ErrJoinDenied
	}
	return nil
}

var blogEventTypes = map[BlogEventKind]domain.EventType{
	BlogCreated:   domain.EventBlogCreated,
	BlogUpdated:   domain.EventBlogUpdated,
	BlogDeleted:   domain.EventBlogDeleted,
	BlogLiked:     domain.EventBlogLiked,
	BlogCommented: domain.EventBlogCommented,
	BlogViewed:    domain.EventBlogViewed,
}

// PublishEvent fans one blog occurrence out. Lifecycle kinds (created,
// updated, deleted) always reach the admin room and reach the public room
// only when the post is published; engagement kinds (liked, commented,
// viewed) go to the public room only.
func (b *Blog) PublishEvent(kind BlogEventKind, post BlogPost) (core.PublishResult, bool) {
	eventType, ok := blogEventTypes[kind]
	if !ok {
		return core.PublishResult{}, false
	}
	ev := domain.NewEvent(eventType, post)

	res := core.PublishResult{}
	switch kind {
	case BlogCreated, BlogUpdated, BlogDeleted:
		res = b.bus.Publish(domain.AdminBlogRoom, ev, "")
		if post.Status == StatusPublished {
			pub := b.bus.Publish(domain.BlogRoom, ev, "")
			res.SentTo += pub.SentTo
			res.Dropped = append(res.Dropped, pub.Dropped...)
		}
	default:
		res = b.bus.Publish(domain.BlogRoom, ev, "")
	}
	return res, true
}
