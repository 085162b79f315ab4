package scalar

import (
	"math/big"

	"github.com/curvekit/ed25519ristretto/internal/encoding"
)

// This file defines the scalar type for Ed25519/Ristretto255: integers
// modulo the group order ell = 2^252 + 27742317777372353535851937790883648493.
//
// Unlike do255e/do255s (whose order has the shape r = 2^254 - r0, so
// that 2^254 reduces to a small *addition*), ell has the shape
// 2^252 + r0, so 2^252 reduces to a small *subtraction*. Reusing the
// teacher's hand-unrolled, sign-specific limb reduction for the wrong
// sign convention without a compiler to check the carry chains is a
// good way to build a signature scheme that silently fails on about
// half of all scalars. Ell25519 therefore reduces through math/big,
// which is unconditionally correct; see DESIGN.md for the tradeoff
// (this makes scalar reduction data-dependent in timing, unlike the
// constant-time field and wNAF ladder above it).
//
// As a general rule, arithmetic here is not performance-critical, but
// a deterministically-timed implementation would want the limb-based
// treatment applied to GF25519 above.

// Ell25519 is the group order of the Ed25519/Ristretto255 prime-order
// subgroup: 2^252 + 27742317777372353535851937790883648493.
var Ell25519 = func() *big.Int {
	n, ok := new(big.Int).SetString("27742317777372353535851937790883648493", 10)
	if !ok {
		panic("scalar: invalid order constant")
	}
	return n.Add(n, new(big.Int).Lsh(big.NewInt(1), 252))
}()

// Scalar25519 is an integer modulo Ell25519. The zero value is the
// scalar 0.
type Scalar25519 struct {
	v big.Int
}

func reduced(v *big.Int) *big.Int {
	return new(big.Int).Mod(v, Ell25519)
}

// Set sets s to a and returns s.
func (s *Scalar25519) Set(a *Scalar25519) *Scalar25519 {
	s.v.Set(&a.v)
	return s
}

// SetUint64 sets s to the value n mod Ell25519, and returns s.
func (s *Scalar25519) SetUint64(n uint64) *Scalar25519 {
	s.v.SetUint64(n)
	return s
}

// SetBigInt sets s to n mod Ell25519, and returns s.
func (s *Scalar25519) SetBigInt(n *big.Int) *Scalar25519 {
	s.v.Set(reduced(n))
	return s
}

// BigInt returns the canonical (0 <= v < Ell25519) integer value of s.
func (s *Scalar25519) BigInt() *big.Int {
	return new(big.Int).Set(&s.v)
}

// Decode decodes a scalar from exactly 32 little-endian bytes. Returned
// value:
//
//	 1   scalar decoded, value is in [0, Ell25519) and non-zero
//	 0   scalar decoded, value is zero
//	-1   bytes do not represent a canonically-reduced scalar (>= Ell25519)
//
// On error, s is forced to zero, per spec C5/C6 decode semantics for
// signature field `s`.
func (s *Scalar25519) Decode(src []byte) int {
	if len(src) != 32 {
		s.v.SetInt64(0)
		return -1
	}
	n := encoding.BytesToNumberLE(src)
	if n.Cmp(Ell25519) >= 0 {
		s.v.SetInt64(0)
		return -1
	}
	s.v.Set(n)
	if n.Sign() == 0 {
		return 0
	}
	return 1
}

// DecodeReduce decodes a scalar from an arbitrary number of
// little-endian bytes, reducing modulo Ell25519. This process cannot
// fail; an empty slice decodes to zero.
func (s *Scalar25519) DecodeReduce(src []byte) *Scalar25519 {
	s.v.Set(reduced(encoding.BytesToNumberLE(src)))
	return s
}

// Encode encodes s into exactly 32 little-endian bytes, appended to
// dst; the extended slice is returned.
func (s *Scalar25519) Encode(dst []byte) []byte {
	b := s.Bytes()
	return append(dst, b[:]...)
}

// Bytes encodes s into exactly 32 little-endian bytes.
func (s *Scalar25519) Bytes() [32]byte {
	var out [32]byte
	b, err := encoding.NumberToBytesPadded(&s.v, 32)
	if err != nil {
		// s.v is always kept reduced mod Ell25519 < 2^253 by every
		// setter above, so it always fits in 32 bytes.
		panic("scalar: " + err.Error())
	}
	copy(out[:], b)
	return out
}

// IsZero reports whether s == 0.
func (s *Scalar25519) IsZero() bool {
	return s.v.Sign() == 0
}

// Equal reports whether s == a.
func (s *Scalar25519) Equal(a *Scalar25519) bool {
	return s.v.Cmp(&a.v) == 0
}

// Add sets s = a + b mod Ell25519, and returns s.
func (s *Scalar25519) Add(a, b *Scalar25519) *Scalar25519 {
	s.v.Set(reduced(new(big.Int).Add(&a.v, &b.v)))
	return s
}

// Sub sets s = a - b mod Ell25519, and returns s.
func (s *Scalar25519) Sub(a, b *Scalar25519) *Scalar25519 {
	s.v.Set(reduced(new(big.Int).Sub(&a.v, &b.v)))
	return s
}

// Neg sets s = -a mod Ell25519, and returns s.
func (s *Scalar25519) Neg(a *Scalar25519) *Scalar25519 {
	s.v.Set(reduced(new(big.Int).Neg(&a.v)))
	return s
}

// Mul sets s = a*b mod Ell25519, and returns s.
func (s *Scalar25519) Mul(a, b *Scalar25519) *Scalar25519 {
	s.v.Set(reduced(new(big.Int).Mul(&a.v, &b.v)))
	return s
}

// Invert sets s = 1/a mod Ell25519, and returns s. Panics if a is zero
// (matching spec C1 `invert`'s documented failure on a non-invertible
// input; callers in this module never invert an untrusted zero
// scalar).
func (s *Scalar25519) Invert(a *Scalar25519) *Scalar25519 {
	if a.v.Sign() == 0 {
		panic("scalar: invert of zero")
	}
	s.v.Set(new(big.Int).ModInverse(&a.v, Ell25519))
	return s
}
