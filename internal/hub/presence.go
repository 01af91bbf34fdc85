package hub

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// Presence tracks how many live connections each user currently holds across
// devices. Connect hooks give other components a place for lazy bootstrap
// (the identity-room auto-join is wired there in main); the Online query is
// the signal collaborators use to decide on a push fallback.
type Presence struct {
	mu     sync.Mutex
	counts map[domain.UserID]int

	onConnect    []func(core.Conn)
	onDisconnect []func(core.Conn, bool)
}

func NewPresence() *Presence {
	return &Presence{counts: make(map[domain.UserID]int)}
}

// OnConnect registers a hook invoked for every successfully authenticated
// connection. Hooks must be registered before the server accepts traffic.
func (p *Presence) OnConnect(fn func(core.Conn)) {
	p.onConnect = append(p.onConnect, fn)
}

// OnDisconnect registers a hook invoked for every closed connection. The
// bool argument is true when this was the user's last live connection.
func (p *Presence) OnDisconnect(fn func(conn core.Conn, last bool)) {
	p.onDisconnect = append(p.onDisconnect, fn)
}

// Connected records a new live connection for the user and runs the connect
// hooks.
func (p *Presence) Connected(conn core.Conn) {
	uid := conn.Identity().UserID
	p.mu.Lock()
	p.counts[uid]++
	n := p.counts[uid]
	p.mu.Unlock()

	log.Info().Str("module", "hub.presence").Str("user", string(uid)).
		Str("platform", string(conn.Platform())).Int("devices", n).Msg("user connected")
	for _, fn := range p.onConnect {
		fn(conn)
	}
}

// Disconnected decrements the user's counter and runs the disconnect hooks.
// When the counter reaches zero the user is fully offline.
func (p *Presence) Disconnected(conn core.Conn) {
	uid := conn.Identity().UserID
	p.mu.Lock()
	p.counts[uid]--
	last := p.counts[uid] <= 0
	if last {
		delete(p.counts, uid)
	}
	p.mu.Unlock()

	log.Info().Str("module", "hub.presence").Str("user", string(uid)).
		Bool("offline", last).Msg("user disconnected")
	for _, fn := range p.onDisconnect {
		fn(conn, last)
	}
}

// Online reports whether the user has at least one live connection.
func (p *Presence) Online(uid domain.UserID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[uid] > 0
}

// Devices reports the user's current live-connection count.
func (p *Presence) Devices(uid domain.UserID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[uid]
}
