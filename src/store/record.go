package store

import (
	"bytes"
	"time"

	"github.com/mosaicnetworks/n2n/src/protocol/handshake"
	"github.com/ugorji/go/codec"
)

// PeerRecord is the last handshake outcome seen with a peer.
type PeerRecord struct {
	Addr         string
	Role         string
	Agreed       bool
	Version      uint64
	NetworkMagic uint32
	Reason       string
	Time         int64
}

// NewPeerRecord builds the record of a finished handshake.
func NewPeerRecord(addr string, h *handshake.Handshake, o handshake.Outcome) *PeerRecord {
	return &PeerRecord{
		Addr:         addr,
		Role:         h.Role().String(),
		Agreed:       o.Agreed(),
		Version:      o.Version,
		NetworkMagic: o.Data.NetworkMagic,
		Reason:       o.Reason(),
		Time:         time.Now().UnixNano(),
	}
}

// Marshal - json encoding of PeerRecord
func (r *PeerRecord) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (r *PeerRecord) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	return dec.Decode(r)
}
