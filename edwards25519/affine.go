package edwards25519

import (
	"github.com/curvekit/ed25519ristretto/internal/field"
	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

// Affine is a point P = (x, y) on the twisted Edwards curve
// -x^2 + y^2 = 1 + d*x^2*y^2. Construction performs no on-curve
// verification (matching fromHex, which is where validation actually
// happens); arithmetic methods promote to Extended and back.
//
// Points are treated as immutable value objects: every arithmetic
// method below returns a newly allocated *Affine rather than mutating
// its receiver,
// matching spec semantics ("every arithmetic operation returns a new
// point") while keeping the field/scalar layers' mutate-through-
// pointer-receiver style underneath.
type Affine struct {
	x, y field.GF25519
}

// Base is the standard Ed25519 base point B. Its identity is the key
// the precompute registry uses for the default 8-bit window table.
var Base = newAffineUnchecked(&basePointX, &basePointY)

// Identity is the neutral element (0, 1).
var Identity = newAffineUnchecked(&field.GF25519_ZERO, &field.GF25519_ONE)

// NewAffine constructs a point from already-reduced coordinates
// without checking the curve equation. Use FromHex to validate
// untrusted input.
func NewAffine(x, y *field.GF25519) *Affine {
	return newAffineUnchecked(x, y)
}

func newAffineUnchecked(x, y *field.GF25519) *Affine {
	a := new(Affine)
	a.x.Set(x)
	a.y.Set(y)
	return a
}

// X returns the affine x-coordinate.
func (p *Affine) X() field.GF25519 { return p.x }

// Y returns the affine y-coordinate.
func (p *Affine) Y() field.GF25519 { return p.y }

// FromHex decodes a compressed 32-byte affine point (spec C3
// fromHex): y is read from b[0:32] with bit 255 masked off, and must
// be < p (ErrOutOfRange otherwise); x^2 = (y^2-1)/(d*y^2+1) is solved
// via uvRatio (ErrNotOnCurve if not a square); the sign bit (bit 255)
// selects which root of x to keep.
func FromHex(b []byte) (*Affine, error) {
	if len(b) != 32 {
		return nil, ErrInvalidEncoding
	}
	var raw [32]byte
	copy(raw[:], b)
	signBit := (raw[31] & 0x80) != 0
	raw[31] &= 0x7F

	var y field.GF25519
	if y.Decode(raw[:]) == 0 {
		return nil, ErrOutOfRange
	}

	var y2, u, v field.GF25519
	y2.Sqr(&y)
	u.Sub(&y2, &field.GF25519_ONE)
	v.Mul(&field.GF25519_D, &y2)
	v.Add(&v, &field.GF25519_ONE)

	isValid, x := field.UVRatio(&u, &v)
	if isValid == 0 {
		return nil, ErrNotOnCurve
	}

	isXOdd := x.IsNegative() == 1
	if isXOdd != signBit {
		x.Neg(&x)
	}
	return newAffineUnchecked(&x, &y), nil
}

// ToRawBytes encodes p as 32 bytes: little-endian y, with bit 255 of
// the last byte set to (x mod 2).
func (p *Affine) ToRawBytes() []byte {
	out := p.y.Encode(nil)
	if p.x.IsNegative() == 1 {
		out[31] |= 0x80
	} else {
		out[31] &= 0x7F
	}
	return out
}

// ToX25519 converts p's y-coordinate to the corresponding Curve25519
// Montgomery u-coordinate: (1+y)/(1-y) mod p.
func (p *Affine) ToX25519() field.GF25519 {
	var num, den, inv, u field.GF25519
	num.Add(&field.GF25519_ONE, &p.y)
	den.Sub(&field.GF25519_ONE, &p.y)
	inv.Inv(&den)
	u.Mul(&num, &inv)
	return u
}

// Equals reports whether p and q represent the same point.
func (p *Affine) Equals(q *Affine) bool {
	var ep, eq Extended
	ep.FromAffine(p)
	eq.FromAffine(q)
	return ep.Equal(&eq)
}

// Negate returns -p.
func (p *Affine) Negate() *Affine {
	var e, n Extended
	e.FromAffine(p)
	n.Negate(&e)
	return n.ToAffine(nil)
}

// Add returns p + q.
func (p *Affine) Add(q *Affine) *Affine {
	var ep, eq, sum Extended
	ep.FromAffine(p)
	eq.FromAffine(q)
	sum.Add(&ep, &eq)
	return sum.ToAffine(nil)
}

// Subtract returns p - q.
func (p *Affine) Subtract(q *Affine) *Affine {
	var ep, eq, diff Extended
	ep.FromAffine(p)
	eq.FromAffine(q)
	diff.Subtract(&ep, &eq)
	return diff.ToAffine(nil)
}

// Multiply returns s*p, via the constant-time wNAF ladder, using any
// precompute table registered for p's identity (see Precompute).
func (p *Affine) Multiply(s *scalar.Scalar25519) (*Affine, error) {
	var e Extended
	e.FromAffine(p)
	res, err := multiplyWNAF(&e, s, p)
	if err != nil {
		return nil, err
	}
	return res.ToAffine(nil), nil
}

// SetWindowSize records w for p's identity (spec C3 _setWindowSize)
// and evicts any precompute table keyed by it, forcing recomputation
// on the next Multiply. The record lives in the precompute registry,
// not a field on p, so concurrent SetWindowSize/Multiply calls on a
// shared point (notably Base) are synchronized by the registry's
// mutex rather than racing on an unguarded struct field. Returns p.
func (p *Affine) SetWindowSize(w int) *Affine {
	precomputeRegistry.setWindow(p, w)
	return p
}

// WindowSize returns the window size recorded via SetWindowSize, or 0
// if none was set.
func (p *Affine) WindowSize() int {
	return precomputeRegistry.windowOf(p)
}
