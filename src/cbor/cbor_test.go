package cbor

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestEncodeCanonical(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		hex  string
	}{
		{"zero", Uint(0), "00"},
		{"tiny", Uint(23), "17"},
		{"one byte", Uint(24), "1818"},
		{"one byte max", Uint(255), "18ff"},
		{"two bytes", Uint(256), "190100"},
		{"four bytes", Uint(65536), "1a00010000"},
		{"eight bytes", Uint(1 << 32), "1b0000000100000000"},
		{"minus one", Int(-1), "20"},
		{"negative", Int(-500), "3901f3"},
		{"false", Bool(false), "f4"},
		{"true", Bool(true), "f5"},
		{"text", Text("a"), "6161"},
		{"bytes", Bytes{1, 2}, "420102"},
		{"empty bytes", Bytes(nil), "40"},
		{"empty sequence", Sequence(nil), "80"},
		{"nested", Seq(Uint(1), Seq(Uint(2), Uint(3))), "8201820203"},
		{"magic", Uint(764824073), "1a2d964a09"},
		{
			"unordered mapping",
			Mapping{
				{Key: Uint(5), Value: Bool(false)},
				{Key: Uint(1), Value: Uint(2)},
				{Key: Uint(3), Value: Uint(4)},
			},
			"a30102030405f4",
		},
		{
			"mixed keys",
			Mapping{
				{Key: Text("b"), Value: Uint(1)},
				{Key: Uint(24), Value: Uint(2)},
				{Key: Text("a"), Value: Uint(3)},
				{Key: Int(-1), Value: Uint(4)},
			},
			"a42004181802616103616201",
		},
	}

	for _, c := range cases {
		got, err := Encode(c.v)
		if err != nil {
			t.Fatalf("%s: encode: %v", c.name, err)
		}
		if hex.EncodeToString(got) != c.hex {
			t.Fatalf("%s: expected %s, got %x", c.name, c.hex, got)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	if _, err := Encode(Seq(BigInt(huge))); !errors.Is(err, ErrIntegerRange) {
		t.Fatalf("expected ErrIntegerRange, got %v", err)
	}

	dup := Mapping{
		{Key: Uint(1), Value: Uint(1)},
		{Key: Uint(1), Value: Uint(2)},
	}
	if _, err := Encode(dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if _, err := Encode(Seq(nil)); err == nil {
		t.Fatalf("expected error for nil item")
	}
}

func TestDecode(t *testing.T) {
	v, err := Decode(mustHex(t, "830105821a2d964a09f4"))
	if err != nil {
		t.Fatal(err)
	}

	seq, ok := v.(Sequence)
	if !ok || len(seq) != 3 {
		t.Fatalf("expected sequence of 3, got %s", v)
	}
	if tag, ok := seq[0].(Integer); !ok || !tag.Equal(1) {
		t.Fatalf("expected tag 1, got %s", seq[0])
	}
	if version, ok := seq[1].(Integer); !ok || !version.Equal(5) {
		t.Fatalf("expected version 5, got %s", seq[1])
	}
	params, ok := seq[2].(Sequence)
	if !ok || len(params) != 2 {
		t.Fatalf("expected params pair, got %s", seq[2])
	}
	if magic, ok := params[0].(Integer); !ok || !magic.Equal(764824073) {
		t.Fatalf("expected magic, got %s", params[0])
	}
	if flag, ok := params[1].(Bool); !ok || bool(flag) {
		t.Fatalf("expected false, got %s", params[1])
	}
}

func TestDecodeNegativeAndText(t *testing.T) {
	v, err := Decode(mustHex(t, "823901f3656572726f72"))
	if err != nil {
		t.Fatal(err)
	}
	seq := v.(Sequence)
	if i, ok := seq[0].(Integer).Int64(); !ok || i != -500 {
		t.Fatalf("expected -500, got %s", seq[0])
	}
	if seq[1] != Text("error") {
		t.Fatalf("expected text, got %s", seq[1])
	}
}

func TestDecodeLargeNegative(t *testing.T) {
	minInt64 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))
	cases := map[string]*big.Int{
		// -2^64
		"3bffffffffffffffff": new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 64)),
		// -2^63, still an int64
		"3b7fffffffffffffff": minInt64,
		// -2^63 - 1
		"3b8000000000000000": new(big.Int).Sub(minInt64, big.NewInt(1)),
	}

	for h, want := range cases {
		v, err := Decode(mustHex(t, h))
		if err != nil {
			t.Fatalf("%s: %v", h, err)
		}
		i, ok := v.(Integer)
		if !ok || i.Big().Cmp(want) != 0 {
			t.Fatalf("%s: expected %s, got %s", h, want, v)
		}
	}

	// nested, next to other items
	v, err := Decode(mustHex(t, "830105823bffffffffd269b5f6f4"))
	if err != nil {
		t.Fatal(err)
	}
	magic := v.(Sequence)[2].(Sequence)[0].(Integer)
	if magic.Equal(764824073) || magic.Big().Sign() >= 0 {
		t.Fatalf("expected a large negative magic, got %s", magic)
	}
	if v.(Sequence)[2].(Sequence)[1] != Bool(false) {
		t.Fatalf("expected false after the magic, got %s", v)
	}
}

func TestDecodeIndefinite(t *testing.T) {
	v, err := Decode(mustHex(t, "9f01bf0102ff7f616161626163ffff"))
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != `[1, {1: 2}, "abc"]` {
		t.Fatalf("unexpected value %s", v)
	}
}

func TestDecodeMappingIsCanonical(t *testing.T) {
	in := mustHex(t, "a203040102")

	v, err := Decode(in)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(Mapping)
	if !ok || len(m) != 2 {
		t.Fatalf("expected mapping of 2, got %s", v)
	}
	if !m[0].Key.(Integer).Equal(1) {
		t.Fatalf("expected first key 1, got %s", m[0].Key)
	}
	if got, ok := m.Get(3); !ok || !got.(Integer).Equal(4) {
		t.Fatalf("expected 3 -> 4, got %v", got)
	}

	out, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(out) != "a201020304" {
		t.Fatalf("expected re-encoding in canonical order, got %x", out)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"truncated": "8201",
		"trailing":  "0000",
		"float":     "f93c00",
		"null":      "f6",
		"dup key":   "a20100 0102",
		"dup text":  "a2616100616101",
		"bytes key": "a1410100",
		"reserved":  "1c",
		"break":     "ff",
		"indef dup": "bf01000102ff",
		"bad chunk": "5f6161ff",
	}

	for name, h := range cases {
		h = strings.ReplaceAll(h, " ", "")
		payload := mustHex(t, h)
		_, err := Decode(payload)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("%s: expected *DecodeError, got %T", name, err)
		}
		if Hex(decErr.Payload) != h {
			t.Fatalf("%s: expected payload %s, got %s", name, h, Hex(decErr.Payload))
		}
	}
}

func TestFindText(t *testing.T) {
	cases := []struct {
		name  string
		v     Value
		text  string
		found bool
	}{
		{"leaf", Text("x"), "x", true},
		{"none", Seq(Uint(1), Bool(true), Seq()), "", false},
		{"nested", Seq(Uint(2), Seq(Uint(2), Uint(5), Text("refused"))), "refused", true},
		{"first wins", Seq(Seq(Text("a")), Text("b")), "a", true},
		{
			"mapping values in key order",
			Mapping{
				{Key: Uint(9), Value: Text("late")},
				{Key: Uint(2), Value: Seq(Text("early"))},
			},
			"early",
			true,
		},
		{"keys ignored", Mapping{{Key: Text("k"), Value: Uint(1)}}, "", false},
	}

	for _, c := range cases {
		text, found := FindText(c.v)
		if found != c.found || text != c.text {
			t.Fatalf("%s: expected (%q, %v), got (%q, %v)", c.name, c.text, c.found, text, found)
		}
	}
}

func TestIntegerAccessors(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	i := BigInt(huge)
	if _, ok := i.Uint64(); ok {
		t.Fatalf("expected overflow")
	}
	if i.Big().Cmp(huge) != 0 {
		t.Fatalf("expected %s, got %s", huge, i)
	}
	if _, ok := Int(-1).Uint64(); ok {
		t.Fatalf("negative must not fit uint64")
	}
	if Uint(3).Cmp(Uint(5)) >= 0 {
		t.Fatalf("expected 3 < 5")
	}
}
