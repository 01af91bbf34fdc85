// Package adapters holds the per-domain translation layers. Each adapter
// owns its room-naming scheme, the closed set of event types it routes, and
// the authorization predicate consulted before any explicit join. The
// generic registry performs no authorization of its own.
package adapters

import (
	"errors"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// ErrJoinDenied means the adapter refused an explicit join request. The
// connection stays open; only the join is rejected.
var ErrJoinDenied = errors.New("room join denied")

// Publisher is the shared fan-out primitive (hub.Broadcaster in production,
// a recording fake in tests).
type Publisher interface {
	Publish(room domain.RoomName, ev domain.Event, exclude core.ConnID) core.PublishResult
}
