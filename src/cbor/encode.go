package cbor

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

var (
	// ErrIntegerRange is returned when an Integer does not fit the 64-bit
	// CBOR major types 0 and 1.
	ErrIntegerRange = errors.New("cbor: integer out of 64-bit range")

	// ErrDuplicateKey is returned when a Mapping holds the same key twice.
	ErrDuplicateKey = errors.New("cbor: duplicate mapping key")

	errNilValue = errors.New("cbor: nil value")
)

// handle is shared by every encoder and decoder of the package. A configured
// handle is safe for concurrent use.
var handle = newHandle()

func newHandle() *codec.CborHandle {
	h := new(codec.CborHandle)
	// Key order is decided in sortEntries, never by the codec.
	h.Canonical = false
	return h
}

// mapBySlice makes the codec write alternating key/value items as a CBOR map
// in exactly the order given.
type mapBySlice []interface{}

func (mapBySlice) MapBySlice() {}

// Encode returns the canonical CBOR encoding of v: definite lengths,
// shortest-form integer heads and mapping keys in canonical order.
func Encode(v Value) ([]byte, error) {
	n, err := toNative(v)
	if err != nil {
		return nil, err
	}
	return encodeNative(n)
}

func encodeNative(n interface{}) ([]byte, error) {
	out := []byte{}
	enc := codec.NewEncoderBytes(&out, handle)
	if err := enc.Encode(n); err != nil {
		return nil, errors.Wrap(err, "cbor: encode")
	}
	return out, nil
}

func toNative(v Value) (interface{}, error) {
	switch t := v.(type) {
	case Integer:
		b := t.Big()
		if b.Sign() >= 0 && b.IsUint64() {
			return b.Uint64(), nil
		}
		if b.IsInt64() {
			return b.Int64(), nil
		}
		return nil, errors.Wrapf(ErrIntegerRange, "%s", b)
	case Bool:
		return bool(t), nil
	case Text:
		return string(t), nil
	case Bytes:
		return append([]byte{}, t...), nil
	case Sequence:
		items := make([]interface{}, len(t))
		for i, item := range t {
			n, err := toNative(item)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return items, nil
	case Mapping:
		sorted, err := sortEntries(t)
		if err != nil {
			return nil, err
		}
		items := make(mapBySlice, 0, 2*len(sorted))
		for _, e := range sorted {
			k, err := toNative(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := toNative(e.Value)
			if err != nil {
				return nil, err
			}
			items = append(items, k, val)
		}
		return items, nil
	case nil:
		return nil, errNilValue
	default:
		return nil, errors.Errorf("cbor: unsupported value %T", v)
	}
}

type keyedEntry struct {
	entry Entry
	enc   []byte
}

// sortEntries returns a copy of m in canonical order. Integer keys come first
// in ascending numeric order. Any other key sorts after them, shorter
// encodings first and equal lengths bytewise.
func sortEntries(m Mapping) (Mapping, error) {
	keyed := make([]keyedEntry, len(m))
	for i, e := range m {
		n, err := toNative(e.Key)
		if err != nil {
			return nil, err
		}
		enc, err := encodeNative(n)
		if err != nil {
			return nil, err
		}
		keyed[i] = keyedEntry{entry: e, enc: enc}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		return lessKey(keyed[i], keyed[j])
	})

	sorted := make(Mapping, len(keyed))
	for i, k := range keyed {
		if i > 0 && bytes.Equal(keyed[i-1].enc, k.enc) {
			return nil, errors.Wrapf(ErrDuplicateKey, "%s", k.entry.Key)
		}
		sorted[i] = k.entry
	}
	return sorted, nil
}

func lessKey(a, b keyedEntry) bool {
	ai, aInt := a.entry.Key.(Integer)
	bi, bInt := b.entry.Key.(Integer)
	switch {
	case aInt && bInt:
		return ai.Cmp(bi) < 0
	case aInt != bInt:
		return aInt
	case len(a.enc) != len(b.enc):
		return len(a.enc) < len(b.enc)
	default:
		return bytes.Compare(a.enc, b.enc) < 0
	}
}
