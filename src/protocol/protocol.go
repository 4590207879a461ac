package protocol

import (
	"github.com/pkg/errors"
)

// ResponderFlag is set on the channel id of every segment sent by the side
// that did not open the connection.
const ResponderFlag uint16 = 0x8000

var (
	// ErrInvalidOperation is returned when the driver calls into a protocol
	// out of turn or after it is done.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidRole is returned when a protocol is built with a role other
	// than Initiator or Responder.
	ErrInvalidRole = errors.New("invalid role configuration")
)

// Agency names a side of a mini-protocol: the role a side plays, or the side
// expected to send next.
type Agency uint8

const (
	// None means nobody has agency; the protocol is over.
	None Agency = iota
	// Initiator is the side that opened the connection.
	Initiator
	// Responder is the side that accepted the connection.
	Responder
)

// String ...
func (a Agency) String() string {
	switch a {
	case None:
		return "None"
	case Initiator:
		return "Initiator"
	case Responder:
		return "Responder"
	default:
		return "Unknown"
	}
}

// ChannelID returns the channel id a side playing role uses for the
// mini-protocol numbered num.
func ChannelID(num uint16, role Agency) (uint16, error) {
	switch role {
	case Initiator:
		return num, nil
	case Responder:
		return num ^ ResponderFlag, nil
	default:
		return 0, errors.Wrapf(ErrInvalidRole, "role %s", role)
	}
}

// Protocol is the contract between a mini-protocol state machine and the
// driver multiplexing it over a connection. The driver asks Turn whose turn it
// is; when it equals Role it calls SendData and ships the bytes, otherwise it
// waits for a segment on ChannelID and hands it to ReceiveData. Once Turn
// returns None the protocol is finished.
//
// Implementations are not safe for concurrent use.
type Protocol interface {
	// ChannelID is the id of the channel this side writes on.
	ChannelID() uint16

	Role() Agency

	// Turn returns the side expected to act in the current state.
	Turn() Agency

	// State names the current state, for diagnostics.
	State() string

	// SendData produces the next outbound message. It returns nil bytes
	// when there is nothing to send.
	SendData() ([]byte, error)

	// ReceiveData consumes one inbound message.
	ReceiveData(data []byte) error
}
