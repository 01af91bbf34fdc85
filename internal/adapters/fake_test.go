package adapters

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
	"github.com/jobdeck/realtime/internal/hub"
)

type fakeConn struct {
	id       core.ConnID
	identity domain.Identity
	platform domain.Platform

	mu     sync.Mutex
	frames []core.Frame
}

func newFakeConn(id, uid string, role domain.Role) *fakeConn {
	return &fakeConn{
		id:       core.ConnID(id),
		identity: domain.Identity{UserID: domain.UserID(uid), Role: role},
		platform: domain.PlatformWeb,
	}
}

func (f *fakeConn) ID() core.ConnID           { return f.id }
func (f *fakeConn) Identity() domain.Identity { return f.identity }
func (f *fakeConn) Platform() domain.Platform { return f.platform }
func (f *fakeConn) Close()                    {}

func (f *fakeConn) TrySend(frame core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
	return nil
}

type receivedEvent struct {
	Type    domain.EventType `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

func (f *fakeConn) events() []receivedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]receivedEvent, 0, len(f.frames))
	for _, frame := range f.frames {
		var ev receivedEvent
		if err := json.Unmarshal(frame, &ev); err == nil {
			out = append(out, ev)
		}
	}
	return out
}

// testHub builds a real registry and broadcaster, registers the given
// connections and returns both.
func testHub(conns ...*fakeConn) (*hub.Registry, *hub.Broadcaster) {
	reg := hub.NewRegistry()
	for _, c := range conns {
		reg.Register(c)
	}
	return reg, hub.NewBroadcaster(reg)
}

type fakeApplicationStore struct {
	participants map[string][]domain.UserID
}

func (s *fakeApplicationStore) IsParticipant(_ context.Context, applicationID string, id domain.UserID) (bool, error) {
	for _, p := range s.participants[applicationID] {
		if p == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationStore struct {
	mu     sync.Mutex
	unread map[domain.UserID][]string
	err    error
}

func (s *fakeNotificationStore) UnreadCount(_ context.Context, id domain.UserID) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.unread[id])), nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id domain.UserID, notificationID string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.unread[id][:0]
	for _, n := range s.unread[id] {
		if n != notificationID {
			kept = append(kept, n)
		}
	}
	s.unread[id] = kept
	return nil
}
