package handshake

import (
	"github.com/mosaicnetworks/n2n/src/cbor"
)

// validateConfirm checks the responder's reply against the local magic. The
// checks run in wire order and the first failure wins:
//
//  1. the message is a sequence
//  2. its tag is an integer; any tag but accept is a refusal, reported with
//     the first text found in the message
//  3. the accepted version is an integer of at least MinVersion
//  4. the parameters are a sequence whose first item is the local magic
func validateConfirm(msg cbor.Value, payload []byte, magic uint32) (Outcome, error) {
	malformed := &MalformedPayloadError{Payload: payload}

	items, ok := msg.(cbor.Sequence)
	if !ok {
		return Outcome{}, malformed
	}

	first, ok := items.Get(0)
	if !ok {
		return Outcome{}, malformed
	}
	tag, ok := first.(cbor.Integer)
	if !ok {
		return Outcome{}, malformed
	}
	if !tag.Equal(MsgAcceptVersion) {
		if reason, found := cbor.FindText(msg); found {
			return Outcome{}, &RefusedError{Reason: reason}
		}
		return Outcome{}, malformed
	}

	second, ok := items.Get(1)
	if !ok {
		return Outcome{}, malformed
	}
	accepted, ok := second.(cbor.Integer)
	if !ok {
		return Outcome{}, malformed
	}
	if accepted.Cmp(cbor.Uint(MinVersion)) < 0 {
		return Outcome{}, &VersionTooLowError{Expected: MinVersion, Actual: accepted}
	}

	third, ok := items.Get(2)
	if !ok {
		return Outcome{}, malformed
	}
	params, ok := third.(cbor.Sequence)
	if !ok {
		return Outcome{}, malformed
	}
	head, ok := params.Get(0)
	if !ok {
		return Outcome{}, malformed
	}
	peerMagic, ok := head.(cbor.Integer)
	if !ok {
		return Outcome{}, malformed
	}
	if !peerMagic.Equal(uint64(magic)) {
		return Outcome{}, &MagicMismatchError{Expected: magic, Actual: peerMagic}
	}

	version, ok := accepted.Uint64()
	if !ok {
		return Outcome{}, malformed
	}
	data, ok := decodeParams(params)
	if !ok {
		data = VersionData{NetworkMagic: magic}
	}
	return Outcome{Version: version, Data: data}, nil
}
