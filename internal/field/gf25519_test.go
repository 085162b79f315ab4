package field

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"
)

func TestGF25519EncodeDecode(t *testing.T) {
	cases := []string{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0100000000000000000000000000000000000000000000000000000000000000",
	}
	for i, src := range cases {
		bb, err := hex.DecodeString(src)
		if err != nil {
			t.Fatalf("case %d: bad hex: %v", i, err)
		}
		var x GF25519
		if x.Decode(bb) != 1 {
			t.Fatalf("case %d: decode rejected valid element", i)
		}
		e2 := x.Encode(nil)
		if !bytes.Equal(bb, e2) {
			t.Fatalf("case %d: reencode mismatch:\nsrc = %s\ndst = %s", i, hex.EncodeToString(bb), hex.EncodeToString(e2))
		}
	}
}

func TestGF25519DecodeOutOfRange(t *testing.T) {
	// p = 2^255-19; this is p itself, not a canonical representative.
	bb, _ := hex.DecodeString("edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f")
	var x GF25519
	if x.Decode(bb) != 0 {
		t.Fatalf("p itself decoded as valid")
	}
	if x.IsZero() != 1 {
		t.Fatalf("rejected decode did not zero the receiver")
	}
}

func TestGF25519Arith(t *testing.T) {
	a := GF25519{3, 0, 0, 0}
	b := GF25519{5, 0, 0, 0}

	var sum, diff, prod GF25519
	sum.Add(&a, &b)
	if expect := (GF25519{8, 0, 0, 0}); sum.Eq(&expect) != 1 {
		t.Fatalf("3+5 != 8")
	}

	diff.Sub(&b, &a)
	if expect := (GF25519{2, 0, 0, 0}); diff.Eq(&expect) != 1 {
		t.Fatalf("5-3 != 2")
	}

	prod.Mul(&a, &b)
	if expect := (GF25519{15, 0, 0, 0}); prod.Eq(&expect) != 1 {
		t.Fatalf("3*5 != 15")
	}

	var inv, back GF25519
	inv.Inv(&a)
	back.Mul(&inv, &a)
	if back.Eq(&GF25519_ONE) != 1 {
		t.Fatalf("a * (1/a) != 1")
	}
}

func TestGF25519Legendre(t *testing.T) {
	if GF25519_ONE.Legendre() != 1 {
		t.Fatalf("1 is a square")
	}
	if GF25519_ZERO.Legendre() != 0 {
		t.Fatalf("0 has Legendre symbol 0")
	}
}

// TestGF25519RandomAgainstBig cross-checks Add/Sub/Mul/Inv against
// math/big arithmetic modulo p over a batch of PRNG-derived operands,
// the same reproducible-PRNG style the teacher curves use for their
// own KAT batteries (see do255e_test.go).
func TestGF25519RandomAgainstBig(t *testing.T) {
	p, ok := new(big.Int).SetString(
		"57896044618658097711785492504343953926634992332820282019728792003956564819949", 10)
	if !ok {
		t.Fatalf("bad modulus literal")
	}
	var rng prng
	rng.init("GF25519/random-against-big")

	for i := 0; i < 200; i++ {
		var a, b GF25519
		rng.mkgf((*[4]uint64)(&a))
		rng.mkgf((*[4]uint64)(&b))

		ba := gfToBig((*[4]uint64)(&a), p)
		bb := gfToBig((*[4]uint64)(&b), p)

		var sum, diff, prod GF25519
		sum.Add(&a, &b)
		diff.Sub(&a, &b)
		prod.Mul(&a, &b)

		wantSum := new(big.Int).Mod(new(big.Int).Add(&ba, &bb), p)
		if gs := gfToBig((*[4]uint64)(&sum), p); gs.Cmp(wantSum) != 0 {
			t.Fatalf("round %d: Add mismatch: got %s, want %s", i, gs.String(), wantSum.String())
		}

		wantDiff := new(big.Int).Mod(new(big.Int).Sub(&ba, &bb), p)
		if gd := gfToBig((*[4]uint64)(&diff), p); gd.Cmp(wantDiff) != 0 {
			t.Fatalf("round %d: Sub mismatch: got %s, want %s", i, gd.String(), wantDiff.String())
		}

		wantProd := new(big.Int).Mod(new(big.Int).Mul(&ba, &bb), p)
		if gp := gfToBig((*[4]uint64)(&prod), p); gp.Cmp(wantProd) != 0 {
			t.Fatalf("round %d: Mul mismatch: got %s, want %s", i, gp.String(), wantProd.String())
		}

		if ba.Sign() != 0 {
			var inv, back GF25519
			inv.Inv(&a)
			back.Mul(&inv, &a)
			if back.Eq(&GF25519_ONE) != 1 {
				t.Fatalf("round %d: a * (1/a) != 1 for random a", i)
			}
		}
	}
}

func TestUVRatioKnownSquare(t *testing.T) {
	// u/v = 4 is a square (2^2), so uvRatio(4, 1) should report valid
	// with x such that x^2 = 4.
	u := GF25519{4, 0, 0, 0}
	v := GF25519_ONE
	isValid, x := UVRatio(&u, &v)
	if isValid != 1 {
		t.Fatalf("uvRatio(4,1) reported invalid")
	}
	var x2 GF25519
	x2.Sqr(&x)
	if x2.Eq(&u) != 1 {
		t.Fatalf("uvRatio(4,1) returned x with x^2 != 4")
	}
}
