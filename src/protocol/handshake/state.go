package handshake

import (
	"github.com/mosaicnetworks/n2n/src/protocol"
)

// State is a state of the handshake mini-protocol. It only moves forward:
// Propose, Confirm, Done.
type State uint32

const (
	// Propose is the initial state, the initiator sends its versions.
	Propose State = iota
	// Confirm waits for the responder to accept or refuse.
	Confirm
	// Done is terminal.
	Done
)

// String ...
func (s State) String() string {
	switch s {
	case Propose:
		return "Propose"
	case Confirm:
		return "Confirm"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Turn returns the side expected to send in state s. It does not depend on
// the role of the local side.
func Turn(s State) protocol.Agency {
	switch s {
	case Propose:
		return protocol.Initiator
	case Confirm:
		return protocol.Responder
	default:
		return protocol.None
	}
}
