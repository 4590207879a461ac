package handshake

import (
	"unicode/utf8"

	"github.com/mosaicnetworks/n2n/src/cbor"
)

// MaxReasonLen bounds, in bytes, the text carried by a refuse message. Longer
// reasons are cut and end with an ellipsis; the full error stays in the local
// Outcome.
const MaxReasonLen = 512

// Message tags.
const (
	MsgProposeVersions uint64 = 0
	MsgAcceptVersion   uint64 = 1
	MsgRefuse          uint64 = 2
)

// Refuse reason tags.
const (
	RefuseVersionMismatch      uint64 = 0
	RefuseHandshakeDecodeError uint64 = 1
	RefuseRefused              uint64 = 2
)

// ProposeMessage builds [0, {version: params}] for every version of table.
func ProposeMessage(table VersionTable) cbor.Value {
	versions := make(cbor.Mapping, 0, len(table))
	for _, v := range table.Versions() {
		versions = append(versions, cbor.Entry{
			Key:   cbor.Uint(v),
			Value: encodeParams(v, table[v]),
		})
	}
	return cbor.Seq(cbor.Uint(MsgProposeVersions), versions)
}

// AcceptMessage builds [1, version, params].
func AcceptMessage(version uint64, data VersionData) cbor.Value {
	return cbor.Seq(
		cbor.Uint(MsgAcceptVersion),
		cbor.Uint(version),
		encodeParams(version, data),
	)
}

// RefuseVersionMismatchMessage builds [2, [0, [versions...], reason]].
func RefuseVersionMismatchMessage(versions []uint64, reason string) cbor.Value {
	vs := make(cbor.Sequence, len(versions))
	for i, v := range versions {
		vs[i] = cbor.Uint(v)
	}
	return refuse(cbor.Seq(cbor.Uint(RefuseVersionMismatch), vs, reasonText(reason)))
}

// RefuseDecodeErrorMessage builds [2, [1, version, reason]].
func RefuseDecodeErrorMessage(version uint64, reason string) cbor.Value {
	return refuse(cbor.Seq(cbor.Uint(RefuseHandshakeDecodeError), cbor.Uint(version), reasonText(reason)))
}

// RefusedMessage builds [2, [2, version, reason]].
func RefusedMessage(version uint64, reason string) cbor.Value {
	return refuse(cbor.Seq(cbor.Uint(RefuseRefused), cbor.Uint(version), reasonText(reason)))
}

func reasonText(reason string) cbor.Text {
	if len(reason) <= MaxReasonLen {
		return cbor.Text(reason)
	}
	const ellipsis = "..."
	cut := MaxReasonLen - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return cbor.Text(reason[:cut] + ellipsis)
}

func refuse(reason cbor.Value) cbor.Value {
	return cbor.Seq(cbor.Uint(MsgRefuse), reason)
}

// ParseProposal decodes a propose-versions message. Versions whose
// parameters have an unknown shape are left out of the table.
func ParseProposal(data []byte) (VersionTable, error) {
	v, err := cbor.Decode(data)
	if err != nil {
		return nil, err
	}

	malformed := &MalformedPayloadError{Payload: data}

	msg, ok := v.(cbor.Sequence)
	if !ok || len(msg) != 2 {
		return nil, malformed
	}
	tag, ok := msg[0].(cbor.Integer)
	if !ok || !tag.Equal(MsgProposeVersions) {
		return nil, malformed
	}
	versions, ok := msg[1].(cbor.Mapping)
	if !ok {
		return nil, malformed
	}

	table := make(VersionTable, len(versions))
	for _, e := range versions {
		k, ok := e.Key.(cbor.Integer)
		if !ok {
			return nil, malformed
		}
		version, ok := k.Uint64()
		if !ok {
			continue
		}
		if params, ok := decodeParams(e.Value); ok {
			table[version] = params
		}
	}
	return table, nil
}
