package hub

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobdeck/realtime/internal/domain"
)

func TestJoinAndMembersOf(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	a := newFakeConn("c1", "alice")
	b := newFakeConn("c2", "bob")
	reg.Register(a)
	reg.Register(b)

	room := domain.SchoolRoom("S1")
	reg.Join(a, room)
	reg.Join(b, room)

	members := reg.MembersOf(room)
	req.Len(members, 2)
	req.Equal(2, reg.MemberCount(room))
	req.ElementsMatch([]domain.RoomName{room}, reg.RoomsOf(a.ID()))
}

func TestJoinIsIdempotent(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	a := newFakeConn("c1", "alice")
	reg.Register(a)

	room := domain.SchoolRoom("S1")
	reg.Join(a, room)
	reg.Join(a, room)
	reg.Join(a, room)

	req.Equal(1, reg.MemberCount(room))
	req.Len(reg.RoomsOf(a.ID()), 1)
}

func TestLeaveIsIdempotent(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	a := newFakeConn("c1", "alice")
	reg.Register(a)
	room := domain.SchoolRoom("S1")

	// leaving a room never joined changes nothing
	reg.Leave(a, room)
	req.Equal(0, reg.MemberCount(room))

	reg.Join(a, room)
	reg.Leave(a, room)
	reg.Leave(a, room)
	req.Equal(0, reg.MemberCount(room))
	req.Empty(reg.RoomsOf(a.ID()))
}

func TestEmptyRoomDisappears(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	a := newFakeConn("c1", "alice")
	reg.Register(a)
	reg.Join(a, domain.BlogRoom)
	reg.Leave(a, domain.BlogRoom)

	req.Empty(reg.List())
}

func TestDisconnectRemovesAllEdges(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	a := newFakeConn("c1", "alice")
	b := newFakeConn("c2", "bob")
	reg.Register(a)
	reg.Register(b)

	rooms := []domain.RoomName{
		domain.UserRoom("alice"),
		domain.SchoolRoom("S1"),
		domain.ApplicationRoom("APP1"),
		domain.BlogRoom,
	}
	for _, room := range rooms {
		reg.Join(a, room)
	}
	reg.Join(b, domain.SchoolRoom("S1"))

	reg.Disconnect(a.ID())

	for _, room := range rooms {
		for _, m := range reg.MembersOf(room) {
			req.NotEqual(a.ID(), m.ID(), "room %s still lists disconnected conn", room)
		}
	}
	req.Empty(reg.RoomsOf(a.ID()))
	req.Equal(1, reg.MemberCount(domain.SchoolRoom("S1")))

	// a second disconnect is harmless
	reg.Disconnect(a.ID())
}

func TestJoinWithoutRegisterIsNoop(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()

	ghost := newFakeConn("ghost", "nobody")
	reg.Join(ghost, domain.BlogRoom)
	req.Equal(0, reg.MemberCount(domain.BlogRoom))
}

func TestConcurrentJoinLeaveDisconnect(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	room := domain.SchoolRoom("S1")

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		conn := newFakeConn(fmt.Sprintf("c%d", i), fmt.Sprintf("u%d", i))
		reg.Register(conn)
		wg.Add(1)
		go func(c *fakeConn, i int) {
			defer wg.Done()
			reg.Join(c, room)
			reg.MembersOf(room)
			if i%2 == 0 {
				reg.Leave(c, room)
			} else {
				reg.Disconnect(c.ID())
			}
		}(conn, i)
	}
	wg.Wait()

	req.Equal(0, reg.MemberCount(room))
}
