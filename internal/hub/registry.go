// Package hub holds the shared in-memory fan-out state: the room membership
// index, the per-user presence counters and the broadcaster built on top of
// both. All of it is wired explicitly in main and injected into the adapters
// and the transport; there is no package-level instance.
package hub

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// Registry maintains the live many-to-many mapping between connections and
// rooms. It performs no authorization; adapters decide who may join what
// before calling in. Safe for concurrent use from every connection's task.
type Registry struct {
	mu     sync.RWMutex
	conns  map[core.ConnID]core.Conn
	rooms  map[domain.RoomName]map[core.ConnID]core.Conn
	byConn map[core.ConnID]map[domain.RoomName]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[core.ConnID]core.Conn),
		rooms:  make(map[domain.RoomName]map[core.ConnID]core.Conn),
		byConn: make(map[core.ConnID]map[domain.RoomName]struct{}),
	}
}

// Register makes the connection visible to the registry. It must be called
// once, after a successful handshake and before any Join.
func (r *Registry) Register(conn core.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID()] = conn
	r.byConn[conn.ID()] = make(map[domain.RoomName]struct{})
	log.Info().Str("module", "hub.registry").Str("conn", string(conn.ID())).
		Str("user", string(conn.Identity().UserID)).Msg("connection registered")
}

// Join adds the connection to a room. Idempotent: joining a room the
// connection is already in changes nothing. Joining before Register is a
// no-op for an unknown connection.
func (r *Registry) Join(conn core.Conn, room domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms, ok := r.byConn[conn.ID()]
	if !ok {
		return
	}
	if _, joined := rooms[room]; joined {
		return
	}
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[core.ConnID]core.Conn)
		r.rooms[room] = members
	}
	members[conn.ID()] = conn
	rooms[room] = struct{}{}
	log.Debug().Str("module", "hub.registry").Str("conn", string(conn.ID())).
		Str("room", string(room)).Msg("joined room")
}

// Leave removes the connection from a room. Idempotent: leaving a room the
// connection is not in changes nothing. The room entry itself disappears
// when its last member leaves.
func (r *Registry) Leave(conn core.Conn, room domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(conn.ID(), room)
}

func (r *Registry) leaveLocked(id core.ConnID, room domain.RoomName) {
	if rooms, ok := r.byConn[id]; ok {
		delete(rooms, room)
	}
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// MembersOf returns the instantaneous member set of a room. The snapshot is
// safe to iterate after return but may already be stale; callers must not
// hold it across blocking work expecting it to stay current.
func (r *Registry) MembersOf(room domain.RoomName) []core.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	return lo.Values(members)
}

// RoomsOf returns the rooms the connection currently belongs to.
func (r *Registry) RoomsOf(id core.ConnID) []domain.RoomName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms, ok := r.byConn[id]
	if !ok {
		return nil
	}
	return lo.Keys(rooms)
}

// MemberCount reports the current size of a room.
func (r *Registry) MemberCount(room domain.RoomName) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}

// Disconnect drops the connection and every membership edge it holds in one
// atomic step. It runs on every disconnect path: clean close, network drop
// and forced kick. A later MembersOf never returns the connection.
func (r *Registry) Disconnect(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms, ok := r.byConn[id]
	if !ok {
		return
	}
	for room := range rooms {
		r.leaveLocked(id, room)
	}
	delete(r.byConn, id)
	delete(r.conns, id)
	log.Info().Str("module", "hub.registry").Str("conn", string(id)).Msg("connection removed")
}

// RoomInfo is a read-only view for the introspection API.
type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"member_count"`
}

func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for name, members := range r.rooms {
		out = append(out, RoomInfo{Name: name, MemberCount: len(members)})
	}
	return out
}
