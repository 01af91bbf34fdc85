package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobdeck/realtime/internal/domain"
)

func blogRooms(t *testing.T) (*fakeConn, *fakeConn, *Blog) {
	t.Helper()
	admin := newFakeConn("c1", "root", domain.RoleAdmin)
	reader := newFakeConn("c2", "alice", domain.RoleSeeker)
	reg, bus := testHub(admin, reader)
	reg.Join(admin, domain.AdminBlogRoom)
	reg.Join(reader, domain.BlogRoom)
	return admin, reader, NewBlog(bus)
}

func TestBlogCanJoin(t *testing.T) {
	req := require.New(t)
	blog := NewBlog(nil)

	admin := domain.Identity{UserID: "root", Role: domain.RoleAdmin}
	seeker := domain.Identity{UserID: "alice", Role: domain.RoleSeeker}

	req.NoError(blog.CanJoin(admin, domain.AdminBlogRoom))
	req.NoError(blog.CanJoin(admin, domain.BlogRoom))
	req.NoError(blog.CanJoin(seeker, domain.BlogRoom))
	req.ErrorIs(blog.CanJoin(seeker, domain.AdminBlogRoom), ErrJoinDenied)
}

func TestDraftLifecycleReachesAdminRoomOnly(t *testing.T) {
	req := require.New(t)
	admin, reader, blog := blogRooms(t)

	_, ok := blog.PublishEvent(BlogCreated, BlogPost{ID: "b1", Status: "draft"})
	req.True(ok)

	req.Len(admin.events(), 1)
	req.Equal(domain.EventBlogCreated, admin.events()[0].Type)
	req.Empty(reader.events())
}

func TestPublishedLifecycleReachesBothRooms(t *testing.T) {
	req := require.New(t)
	admin, reader, blog := blogRooms(t)

	res, ok := blog.PublishEvent(BlogCreated, BlogPost{ID: "b1", Status: StatusPublished})
	req.True(ok)
	req.Equal(2, res.SentTo)

	req.Len(admin.events(), 1)
	req.Len(reader.events(), 1)
	req.Equal(domain.EventBlogCreated, reader.events()[0].Type)
}

func TestEngagementEventsReachPublicRoomOnly(t *testing.T) {
	req := require.New(t)

	for _, kind := range []BlogEventKind{BlogLiked, BlogCommented, BlogViewed} {
		admin, reader, blog := blogRooms(t)
		_, ok := blog.PublishEvent(kind, BlogPost{ID: "b1", Status: StatusPublished})
		req.True(ok)
		req.Empty(admin.events(), "kind %s leaked to admin room", kind)
		req.Len(reader.events(), 1, "kind %s missing from public room", kind)
	}
}

func TestUnknownBlogKindIsRejected(t *testing.T) {
	_, _, blog := blogRooms(t)
	_, ok := blog.PublishEvent(BlogEventKind("archived"), BlogPost{ID: "b1"})
	require.False(t, ok)
}
