package hub

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// Broadcaster is the single fan-out primitive every adapter shares: deliver
// one event to every current member of a room, optionally excluding the
// originating connection.
//
// Delivery is fire-and-forget. The frame is only enqueued on each member's
// send queue; the registry lock is released before any enqueue happens, so a
// slow socket never stalls other publishes to the same room. A member whose
// queue is full is dropped from the room (its connection is closed and the
// usual disconnect cleanup follows), never retried — the durable write
// behind the event already happened before Publish was called.
type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Publish encodes the event once and delivers it to every connection that is
// a member of the room at this instant, skipping exclude if non-empty.
// Frames enqueue in call order, so two publishes from the same causal source
// reach each member in that same relative order.
func (b *Broadcaster) Publish(room domain.RoomName, ev domain.Event, exclude core.ConnID) core.PublishResult {
	res := core.PublishResult{}
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "hub.broadcaster").
			Str("event", string(ev.Type)).Msg("event marshal")
		return res
	}

	members := b.registry.MembersOf(room)
	for _, conn := range members {
		if conn.ID() == exclude {
			continue
		}
		if err := conn.TrySend(core.Frame(frame)); err != nil {
			res.Dropped = append(res.Dropped, conn.ID())
			log.Warn().Err(err).Str("module", "hub.broadcaster").
				Str("conn", string(conn.ID())).Str("room", string(room)).
				Str("event", string(ev.Type)).Msg("delivery failed")
			if errors.Is(err, core.ErrBackpressure) {
				// The reader is not draining; cut it loose rather than let
				// its queue poison every room it sits in.
				conn.Close()
			}
			continue
		}
		res.SentTo++
	}

	log.Debug().Str("module", "hub.broadcaster").Str("room", string(room)).
		Str("event", string(ev.Type)).Int("sent_to", res.SentTo).
		Int("dropped", len(res.Dropped)).Msg("publish")
	return res
}
