package handshake

import (
	"sort"

	"github.com/mosaicnetworks/n2n/src/cbor"
)

// Node-to-node protocol versions.
const (
	Version1        uint64 = 1
	Version2        uint64 = 2
	VersionShelley  uint64 = 3
	VersionShelley2 uint64 = 4
	VersionAllegra  uint64 = 5

	// MinVersion is the lowest version an initiator accepts from a peer.
	MinVersion = VersionAllegra
)

// firstPairVersion is the first version whose parameters are a
// [magic, initiatorOnlyDiffusion] pair rather than the bare magic.
const firstPairVersion = VersionShelley2

// VersionData holds the per-version parameters exchanged in the handshake.
type VersionData struct {
	NetworkMagic           uint32
	InitiatorOnlyDiffusion bool
}

// VersionTable maps protocol versions to their parameters.
type VersionTable map[uint64]VersionData

// Supported returns the versions this implementation speaks, all bound to
// magic, with InitiatorOnlyDiffusion unset.
func Supported(magic uint32) VersionTable {
	data := VersionData{NetworkMagic: magic}
	return VersionTable{
		Version1:        data,
		Version2:        data,
		VersionShelley:  data,
		VersionShelley2: data,
		VersionAllegra:  data,
	}
}

// Versions returns the versions of the table in ascending order.
func (t VersionTable) Versions() []uint64 {
	versions := make([]uint64, 0, len(t))
	for v := range t {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// Highest returns the highest version present in both t and other.
func (t VersionTable) Highest(other VersionTable) (uint64, bool) {
	versions := t.Versions()
	for i := len(versions) - 1; i >= 0; i-- {
		if _, ok := other[versions[i]]; ok {
			return versions[i], true
		}
	}
	return 0, false
}

// encodeParams returns the wire form of data for version.
func encodeParams(version uint64, data VersionData) cbor.Value {
	magic := cbor.Uint(uint64(data.NetworkMagic))
	if version < firstPairVersion {
		return magic
	}
	return cbor.Seq(magic, cbor.Bool(data.InitiatorOnlyDiffusion))
}

// decodeParams reads version parameters in either the bare-magic or the
// sequence form. Items after the diffusion flag are ignored.
func decodeParams(v cbor.Value) (VersionData, bool) {
	switch t := v.(type) {
	case cbor.Integer:
		magic, ok := magicOf(t)
		return VersionData{NetworkMagic: magic}, ok
	case cbor.Sequence:
		first, ok := t.Get(0)
		if !ok {
			return VersionData{}, false
		}
		i, ok := first.(cbor.Integer)
		if !ok {
			return VersionData{}, false
		}
		magic, ok := magicOf(i)
		if !ok {
			return VersionData{}, false
		}
		data := VersionData{NetworkMagic: magic}
		if second, ok := t.Get(1); ok {
			flag, ok := second.(cbor.Bool)
			if !ok {
				return VersionData{}, false
			}
			data.InitiatorOnlyDiffusion = bool(flag)
		}
		return data, true
	default:
		return VersionData{}, false
	}
}

func magicOf(i cbor.Integer) (uint32, bool) {
	u, ok := i.Uint64()
	if !ok || u > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(u), true
}
