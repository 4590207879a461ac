package handshake

import (
	"io"

	"github.com/mosaicnetworks/n2n/src/cbor"
	"github.com/mosaicnetworks/n2n/src/protocol"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProtocolNum is the mini-protocol number of the handshake.
const ProtocolNum uint16 = 0

// Handshake is one side of the handshake mini-protocol for a single
// connection. It is driven through the protocol.Protocol methods and holds
// an Outcome once it reaches Done. A Handshake that never reaches Done was
// abandoned and has no Outcome.
type Handshake struct {
	role      protocol.Agency
	channelID uint16
	magic     uint32
	versions  VersionTable

	state   State
	outcome *Outcome

	// responder only: what the initiator proposed
	proposal    VersionTable
	proposalErr error

	logger *logrus.Entry
}

// New returns a handshake playing role on the network identified by magic.
func New(role protocol.Agency, magic uint32, logger *logrus.Entry) (*Handshake, error) {
	channelID, err := protocol.ChannelID(ProtocolNum, role)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		log := logrus.New()
		log.Out = io.Discard
		logger = logrus.NewEntry(log)
	}

	return &Handshake{
		role:      role,
		channelID: channelID,
		magic:     magic,
		versions:  Supported(magic),
		state:     Propose,
		logger: logger.WithFields(logrus.Fields{
			"protocol": "handshake",
			"role":     role.String(),
		}),
	}, nil
}

// NewInitiator returns the handshake of the side opening a connection.
func NewInitiator(magic uint32, logger *logrus.Entry) *Handshake {
	h, _ := New(protocol.Initiator, magic, logger)
	return h
}

// NewResponder returns the handshake of the side accepting a connection.
func NewResponder(magic uint32, logger *logrus.Entry) *Handshake {
	h, _ := New(protocol.Responder, magic, logger)
	return h
}

// ChannelID implements protocol.Protocol.
func (h *Handshake) ChannelID() uint16 {
	return h.channelID
}

// Role implements protocol.Protocol.
func (h *Handshake) Role() protocol.Agency {
	return h.role
}

// Turn implements protocol.Protocol.
func (h *Handshake) Turn() protocol.Agency {
	return Turn(h.state)
}

// State implements protocol.Protocol.
func (h *Handshake) State() string {
	return h.state.String()
}

// CurrentState returns the typed state.
func (h *Handshake) CurrentState() State {
	return h.state
}

// NetworkMagic returns the configured magic.
func (h *Handshake) NetworkMagic() uint32 {
	return h.magic
}

// Outcome returns the result of the handshake, or ErrNoResult if it is not
// done.
func (h *Handshake) Outcome() (Outcome, error) {
	if h.outcome == nil {
		return Outcome{}, ErrNoResult
	}
	return *h.outcome, nil
}

// SendData implements protocol.Protocol. In Propose it returns the
// propose-versions message; in Confirm, on the responder, the accept or
// refuse reply to the proposal received earlier.
func (h *Handshake) SendData() ([]byte, error) {
	h.logger.WithField("state", h.state).Debug("send")

	if err := h.checkTurn("send", true); err != nil {
		return nil, err
	}

	switch h.state {
	case Propose:
		payload, err := cbor.Encode(ProposeMessage(h.versions))
		if err != nil {
			return nil, err
		}
		h.state = Confirm
		return payload, nil
	case Confirm:
		reply, outcome := h.negotiate()
		payload, err := cbor.Encode(reply)
		if err != nil {
			return nil, err
		}
		h.finish(outcome)
		return payload, nil
	default:
		return nil, h.invalid("send")
	}
}

// ReceiveData implements protocol.Protocol. A responder in Propose records
// the proposal; an initiator in Confirm validates the reply and finishes.
// Decode failures of the reply are returned and also become the Outcome.
func (h *Handshake) ReceiveData(data []byte) error {
	h.logger.WithField("state", h.state).Debug("recv")

	if err := h.checkTurn("receive", false); err != nil {
		return err
	}

	switch h.state {
	case Propose:
		h.proposal, h.proposalErr = ParseProposal(data)
		if h.proposalErr != nil {
			h.logger.WithError(h.proposalErr).Debug("bad proposal")
		}
		h.state = Confirm
		return nil
	case Confirm:
		msg, err := cbor.Decode(data)
		if err != nil {
			h.finish(Outcome{Err: err})
			return err
		}
		h.logger.WithField("msg", msg).Debug("confirm")
		outcome, err := validateConfirm(msg, data, h.magic)
		if err != nil {
			outcome = Outcome{Err: err}
		}
		h.finish(outcome)
		return nil
	default:
		return h.invalid("receive")
	}
}

// checkTurn fails unless the local side has (send) or lacks (receive) the
// agency in the current state.
func (h *Handshake) checkTurn(op string, send bool) error {
	turn := h.Turn()
	if turn == protocol.None {
		return h.invalid(op)
	}
	if (turn == h.role) != send {
		return h.invalid(op)
	}
	return nil
}

func (h *Handshake) invalid(op string) error {
	return errors.Wrapf(protocol.ErrInvalidOperation,
		"handshake %s as %s in state %s", op, h.role, h.state)
}

func (h *Handshake) finish(outcome Outcome) {
	h.outcome = &outcome
	h.state = Done

	fields := logrus.Fields{"version": outcome.Version, "magic": outcome.Data.NetworkMagic}
	if outcome.Err != nil {
		h.logger.WithError(outcome.Err).Debug("handshake rejected")
		return
	}
	h.logger.WithFields(fields).Debug("handshake agreed")
}
