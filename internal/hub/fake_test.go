package hub

import (
	"encoding/json"
	"sync"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// fakeConn records every frame handed to it. full simulates a saturated send
// queue.
type fakeConn struct {
	id       core.ConnID
	identity domain.Identity
	platform domain.Platform

	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func newFakeConn(id string, uid string) *fakeConn {
	return &fakeConn{
		id:       core.ConnID(id),
		identity: domain.Identity{UserID: domain.UserID(uid), Role: domain.RoleSeeker},
		platform: domain.PlatformWeb,
	}
}

func (f *fakeConn) ID() core.ConnID             { return f.id }
func (f *fakeConn) Identity() domain.Identity   { return f.identity }
func (f *fakeConn) Platform() domain.Platform   { return f.platform }

func (f *fakeConn) TrySend(frame core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return core.ErrBackpressure
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) events() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, 0, len(f.frames))
	for _, frame := range f.frames {
		var ev domain.Event
		if err := json.Unmarshal(frame, &ev); err == nil {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
