package cbor

import (
	"fmt"
	"math/big"
	"strings"
)

// Value is a node of a decoded or to-be-encoded CBOR data item. The concrete
// types are Integer, Bool, Text, Bytes, Sequence and Mapping.
type Value interface {
	fmt.Stringer
	isValue()
}

// Integer is an arbitrary precision signed integer.
type Integer struct {
	v *big.Int
}

// Int returns an Integer holding i.
func Int(i int64) Integer {
	return Integer{v: big.NewInt(i)}
}

// Uint returns an Integer holding u.
func Uint(u uint64) Integer {
	return Integer{v: new(big.Int).SetUint64(u)}
}

// BigInt returns an Integer holding a copy of b.
func BigInt(b *big.Int) Integer {
	return Integer{v: new(big.Int).Set(b)}
}

// Big returns a copy of the underlying big.Int.
func (i Integer) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

// Int64 returns the value as an int64 and whether it fits.
func (i Integer) Int64() (int64, bool) {
	b := i.Big()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

// Uint64 returns the value as a uint64 and whether it fits.
func (i Integer) Uint64() (uint64, bool) {
	b := i.Big()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// Equal reports whether i holds the value u.
func (i Integer) Equal(u uint64) bool {
	v, ok := i.Uint64()
	return ok && v == u
}

// Cmp compares i and j like big.Int.Cmp.
func (i Integer) Cmp(j Integer) int {
	return i.Big().Cmp(j.Big())
}

func (i Integer) String() string {
	return i.Big().String()
}

// Bool is a CBOR simple value true or false.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Text is a CBOR UTF-8 text string.
type Text string

func (t Text) String() string {
	return fmt.Sprintf("%q", string(t))
}

// Bytes is a CBOR byte string.
type Bytes []byte

func (b Bytes) String() string {
	return fmt.Sprintf("h'%x'", []byte(b))
}

// Sequence is a CBOR array.
type Sequence []Value

// Seq is shorthand for building a Sequence.
func Seq(items ...Value) Sequence {
	return Sequence(items)
}

// Get returns the i-th item, if present.
func (s Sequence) Get(i int) (Value, bool) {
	if i < 0 || i >= len(s) {
		return nil, false
	}
	return s[i], true
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Entry is a single key/value association of a Mapping.
type Entry struct {
	Key   Value
	Value Value
}

// Mapping is a CBOR map. The order of the entries in the slice is irrelevant:
// the encoder always writes them in canonical key order.
type Mapping []Entry

// Get returns the value associated with an Integer key equal to k.
func (m Mapping) Get(k uint64) (Value, bool) {
	for _, e := range m {
		if i, ok := e.Key.(Integer); ok && i.Equal(k) {
			return e.Value, true
		}
	}
	return nil, false
}

func (m Mapping) String() string {
	parts := make([]string, 0, len(m))
	sorted, err := sortEntries(m)
	if err != nil {
		sorted = m
	}
	for _, e := range sorted {
		parts = append(parts, e.Key.String()+": "+e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (Integer) isValue()  {}
func (Bool) isValue()     {}
func (Text) isValue()     {}
func (Bytes) isValue()    {}
func (Sequence) isValue() {}
func (Mapping) isValue()  {}

// FindText walks v depth-first and returns the first Text it meets. Sequences
// are searched in order and Mappings in canonical key order, values only.
func FindText(v Value) (string, bool) {
	switch t := v.(type) {
	case Text:
		return string(t), true
	case Sequence:
		for _, item := range t {
			if s, ok := FindText(item); ok {
				return s, true
			}
		}
	case Mapping:
		sorted, err := sortEntries(t)
		if err != nil {
			sorted = t
		}
		for _, e := range sorted {
			if s, ok := FindText(e.Value); ok {
				return s, true
			}
		}
	}
	return "", false
}
