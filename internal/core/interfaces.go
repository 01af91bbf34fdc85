package core

import (
	"errors"

	"github.com/jobdeck/realtime/internal/domain"
)

// Frame is an encoded event payload ready for the wire.
type Frame []byte

// ConnID identifies a single live connection. One user may hold several at
// once (web and mobile devices); each gets its own ID.
type ConnID string

var ErrBackpressure = errors.New("backpressure")

// Conn abstracts a live bidirectional channel. Owned by the transport layer;
// the transport must Close() it. Everything above the transport only ever
// enqueues frames and never blocks on the socket.
type Conn interface {
	ID() ConnID
	Identity() domain.Identity
	Platform() domain.Platform

	// TrySend enqueues a frame without blocking. It returns ErrBackpressure
	// when the connection's send queue is full and an error when the
	// connection is already closed.
	TrySend(Frame) error
	Close()
}

// PublishResult reports per-room delivery stats back to the caller.
// Dropped connections have already been scheduled for teardown.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}
