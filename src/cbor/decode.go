package cbor

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

const (
	tagPositiveBignum = 2
	tagNegativeBignum = 3
)

// DecodeError reports a payload that is not a single well-formed CBOR data
// item of a supported kind.
type DecodeError struct {
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cbor: unable to decode payload %s: %v", Hex(e.Payload), e.Err)
}

// Unwrap returns the underlying codec error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Hex renders a payload as lowercase hex for diagnostics.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// Decode parses data, which must hold exactly one CBOR data item. Floats,
// null and undefined have no Value counterpart and are rejected. Tags other
// than the bignum tags are transparent. Mappings with duplicate keys or byte
// string keys are rejected.
func Decode(data []byte) (Value, error) {
	scanned, err := scan(data)
	if err != nil {
		return nil, &DecodeError{Payload: data, Err: err}
	}

	v, err := decodeScanned(scanned)
	if err != nil {
		return nil, &DecodeError{Payload: data, Err: err}
	}
	return v, nil
}

// decodeScanned decodes one data item already checked by scan.
func decodeScanned(data []byte) (Value, error) {
	var n interface{}

	dec := codec.NewDecoderBytes(data, handle)
	if err := dec.Decode(&n); err != nil {
		return nil, err
	}
	if read := dec.NumBytesRead(); read != len(data) {
		return nil, errors.Wrapf(errTrailingBytes, "read %d of %d", read, len(data))
	}

	return fromNative(n)
}

func fromNative(n interface{}) (Value, error) {
	switch t := n.(type) {
	case uint64:
		return Uint(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case []byte:
		return Bytes(append([]byte{}, t...)), nil
	case []interface{}:
		seq := make(Sequence, len(t))
		for i, item := range t {
			v, err := fromNative(item)
			if err != nil {
				return nil, err
			}
			seq[i] = v
		}
		return seq, nil
	case map[interface{}]interface{}:
		m := make(Mapping, 0, len(t))
		for k, item := range t {
			key, err := fromNative(k)
			if err != nil {
				return nil, err
			}
			val, err := fromNative(item)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: key, Value: val})
		}
		sorted, err := sortEntries(m)
		if err != nil {
			return nil, err
		}
		return sorted, nil
	case codec.RawExt:
		return fromTagged(t.Tag, t.Value)
	case *codec.RawExt:
		return fromTagged(t.Tag, t.Value)
	case nil:
		return nil, errors.New("null and undefined are not supported")
	default:
		return nil, errors.Errorf("unsupported data item of type %T", n)
	}
}

func fromTagged(tag uint64, inner interface{}) (Value, error) {
	switch tag {
	case tagPositiveBignum, tagNegativeBignum:
		raw, ok := inner.([]byte)
		if !ok {
			return nil, errors.Errorf("bignum tag %d wraps %T", tag, inner)
		}
		b := new(big.Int).SetBytes(raw)
		if tag == tagNegativeBignum {
			b.Neg(b).Sub(b, big.NewInt(1))
		}
		return Integer{v: b}, nil
	default:
		return fromNative(inner)
	}
}
