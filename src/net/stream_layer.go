package net

import (
	"net"
	"time"
)

// Dialer opens outgoing connections.
type Dialer interface {
	// Dial is used to create a new outgoing connection
	Dial(address string, timeout time.Duration) (net.Conn, error)
}

// StreamLayer is used by nodes to provide the low level stream abstraction
// for both directions.
type StreamLayer interface {
	net.Listener
	Dialer

	// AdvertiseAddr returns the publicly-reachable address of the stream
	AdvertiseAddr() string
}
