package cbor

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7

	infoIndefinite = 31
	breakByte      = 0xff

	maxDepth = 256
)

var (
	errUnexpectedEnd = errors.New("unexpected end of data")
	errTrailingBytes = errors.New("trailing bytes after first data item")
	errTooDeep       = errors.New("nesting too deep")
	errBytesKey      = errors.New("byte string mapping keys are not supported")
)

// scanner walks the raw encoding of one data item before the codec sees it.
// It copies the item to out, rewriting negative integers whose argument does
// not fit an int64 as negative bignums, and rejects mappings with duplicate
// or byte string keys.
type scanner struct {
	data []byte
	pos  int
	out  []byte
}

// scan checks that data holds exactly one well-formed data item and returns
// the rewritten encoding.
func scan(data []byte) ([]byte, error) {
	s := &scanner{data: data, out: make([]byte, 0, len(data))}
	if err := s.item(0); err != nil {
		return nil, err
	}
	if s.pos != len(data) {
		return nil, errors.Wrapf(errTrailingBytes, "read %d of %d", s.pos, len(data))
	}
	return s.out, nil
}

func (s *scanner) take(n uint64) ([]byte, error) {
	if n > uint64(len(s.data)-s.pos) {
		return nil, errUnexpectedEnd
	}
	b := s.data[s.pos : s.pos+int(n)]
	s.pos += int(n)
	return b, nil
}

// head reads an initial byte and its argument. indefinite is set for
// info 31, which only some major types accept.
func (s *scanner) head() (major byte, arg uint64, indefinite bool, raw []byte, err error) {
	start := s.pos
	ib, err := s.take(1)
	if err != nil {
		return 0, 0, false, nil, err
	}
	major, info := ib[0]>>5, ib[0]&0x1f

	switch {
	case info < 24:
		arg = uint64(info)
	case info == 24:
		b, err := s.take(1)
		if err != nil {
			return 0, 0, false, nil, err
		}
		arg = uint64(b[0])
	case info == 25:
		b, err := s.take(2)
		if err != nil {
			return 0, 0, false, nil, err
		}
		arg = uint64(binary.BigEndian.Uint16(b))
	case info == 26:
		b, err := s.take(4)
		if err != nil {
			return 0, 0, false, nil, err
		}
		arg = uint64(binary.BigEndian.Uint32(b))
	case info == 27:
		b, err := s.take(8)
		if err != nil {
			return 0, 0, false, nil, err
		}
		arg = binary.BigEndian.Uint64(b)
	case info == infoIndefinite:
		indefinite = true
	default:
		return 0, 0, false, nil, errors.Errorf("reserved additional info %d", info)
	}

	return major, arg, indefinite, s.data[start:s.pos], nil
}

func (s *scanner) atBreak() bool {
	return s.pos < len(s.data) && s.data[s.pos] == breakByte
}

func (s *scanner) item(depth int) error {
	if depth > maxDepth {
		return errTooDeep
	}

	major, arg, indefinite, raw, err := s.head()
	if err != nil {
		return err
	}
	if indefinite && (major < majorBytes || major == majorTag) {
		return errors.Errorf("indefinite length on major type %d", major)
	}

	switch major {
	case majorUnsigned:
		s.out = append(s.out, raw...)
	case majorNegative:
		if arg <= math.MaxInt64 {
			s.out = append(s.out, raw...)
			break
		}
		// -1-arg as tag 3 over an 8 byte string
		s.out = append(s.out, 0xc0|tagNegativeBignum, 0x48)
		s.out = binary.BigEndian.AppendUint64(s.out, arg)
	case majorBytes, majorText:
		s.out = append(s.out, raw...)
		if !indefinite {
			body, err := s.take(arg)
			if err != nil {
				return err
			}
			s.out = append(s.out, body...)
			break
		}
		for !s.atBreak() {
			chunk, n, ind, craw, err := s.head()
			if err != nil {
				return err
			}
			if chunk != major || ind {
				return errors.New("malformed indefinite string chunk")
			}
			body, err := s.take(n)
			if err != nil {
				return err
			}
			s.out = append(append(s.out, craw...), body...)
		}
		return s.closeIndefinite()
	case majorArray:
		s.out = append(s.out, raw...)
		if indefinite {
			for !s.atBreak() {
				if err := s.item(depth + 1); err != nil {
					return err
				}
			}
			return s.closeIndefinite()
		}
		if arg > uint64(len(s.data)-s.pos) {
			return errUnexpectedEnd
		}
		for i := uint64(0); i < arg; i++ {
			if err := s.item(depth + 1); err != nil {
				return err
			}
		}
	case majorMap:
		s.out = append(s.out, raw...)
		return s.mapping(arg, indefinite, depth)
	case majorTag:
		s.out = append(s.out, raw...)
		return s.item(depth + 1)
	case majorSimple:
		if indefinite {
			return errors.New("unexpected break")
		}
		s.out = append(s.out, raw...)
	}
	return nil
}

func (s *scanner) mapping(count uint64, indefinite bool, depth int) error {
	if !indefinite && count > uint64(len(s.data)-s.pos)/2 {
		return errUnexpectedEnd
	}

	seen := make(map[string]bool)
	for i := uint64(0); indefinite || i < count; i++ {
		if indefinite && s.atBreak() {
			return s.closeIndefinite()
		}

		if s.pos < len(s.data) && s.data[s.pos]>>5 == majorBytes {
			return errBytesKey
		}
		start := len(s.out)
		if err := s.item(depth + 1); err != nil {
			return err
		}
		key, err := decodeScanned(s.out[start:])
		if err != nil {
			return err
		}
		id := key.String()
		if seen[id] {
			return errors.Wrapf(ErrDuplicateKey, "%s", id)
		}
		seen[id] = true

		if err := s.item(depth + 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) closeIndefinite() error {
	if !s.atBreak() {
		return errUnexpectedEnd
	}
	s.out = append(s.out, breakByte)
	s.pos++
	return nil
}
