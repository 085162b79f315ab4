package scalar

import (
	"math/big"
	"testing"
)

func TestEll25519Value(t *testing.T) {
	expect, ok := new(big.Int).SetString(
		"7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
	if !ok {
		t.Fatalf("bad expected constant")
	}
	if Ell25519.Cmp(expect) != 0 {
		t.Fatalf("Ell25519 = %s, want %s", Ell25519, expect)
	}
}

func TestScalar25519Arith(t *testing.T) {
	var a, b, sum, prod Scalar25519
	a.SetUint64(3)
	b.SetUint64(5)

	sum.Add(&a, &b)
	var eight Scalar25519
	eight.SetUint64(8)
	if !sum.Equal(&eight) {
		t.Fatalf("3+5 != 8 mod Ell25519")
	}

	prod.Mul(&a, &b)
	var fifteen Scalar25519
	fifteen.SetUint64(15)
	if !prod.Equal(&fifteen) {
		t.Fatalf("3*5 != 15 mod Ell25519")
	}

	var inv, back Scalar25519
	inv.Invert(&a)
	back.Mul(&inv, &a)
	var one Scalar25519
	one.SetUint64(1)
	if !back.Equal(&one) {
		t.Fatalf("a * (1/a) != 1 mod Ell25519")
	}
}

func TestScalar25519EncodeDecodeRoundTrip(t *testing.T) {
	var s, back Scalar25519
	s.SetUint64(123456789)
	enc := s.Bytes()
	if back.Decode(enc[:]) != 1 {
		t.Fatalf("decode of valid nonzero scalar failed")
	}
	if !s.Equal(&back) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestScalar25519DecodeOutOfRange(t *testing.T) {
	// Ell25519 itself, little-endian, is not a canonical representative.
	enc := Ell25519.Bytes()
	le := make([]byte, 32)
	for i, v := range enc {
		le[len(enc)-1-i] = v
	}
	var s Scalar25519
	if s.Decode(le) != -1 {
		t.Fatalf("Ell25519 itself decoded as a valid scalar")
	}
	if !s.IsZero() {
		t.Fatalf("rejected decode did not zero the receiver")
	}
}

func TestScalar25519DecodeReduce(t *testing.T) {
	var s Scalar25519
	twoEll := new(big.Int).Lsh(Ell25519, 1)
	be := twoEll.Bytes()
	le := make([]byte, len(be))
	for i, v := range be {
		le[len(be)-1-i] = v
	}
	s.DecodeReduce(le)
	if !s.IsZero() {
		t.Fatalf("2*Ell25519 should reduce to zero")
	}
}
