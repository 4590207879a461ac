package handshake

import (
	"fmt"

	"github.com/mosaicnetworks/n2n/src/cbor"
	"github.com/pkg/errors"
)

// ErrNoResult is returned by Outcome before the handshake is done.
var ErrNoResult = errors.New("no result")

// MalformedPayloadError reports a message that decoded as CBOR but does not
// have the expected shape.
type MalformedPayloadError struct {
	Payload []byte
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("unable to parse payload %s", cbor.Hex(e.Payload))
}

// RefusedError carries the reason a peer gave for refusing the handshake.
type RefusedError struct {
	Reason string
}

func (e *RefusedError) Error() string {
	return e.Reason
}

// VersionTooLowError reports an accepted version below MinVersion.
type VersionTooLowError struct {
	Expected uint64
	Actual   cbor.Integer
}

func (e *VersionTooLowError) Error() string {
	return fmt.Sprintf("expected protocol version %d, but was %s", e.Expected, e.Actual)
}

// MagicMismatchError reports a peer bound to another network.
type MagicMismatchError struct {
	Expected uint32
	Actual   cbor.Integer
}

func (e *MagicMismatchError) Error() string {
	return fmt.Sprintf("expected network magic %d, but was %s", e.Expected, e.Actual)
}

// VersionMismatchError reports a proposal that shares no version with the
// local table.
type VersionMismatchError struct {
	Local  []uint64
	Remote []uint64
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("no common protocol version, local %v, remote %v", e.Local, e.Remote)
}
