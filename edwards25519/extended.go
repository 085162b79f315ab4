package edwards25519

import (
	"github.com/curvekit/ed25519ristretto/internal/field"
	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

// Extended is a point on the twisted Edwards curve
// -x^2 + y^2 = 1 + d*x^2*y^2 in extended coordinates (X, Y, Z, T) with
// Z != 0 and X*Y = Z*T; the represented affine point is (X/Z, Y/Z).
// Extended coordinates make addition and doubling inversion-free. The
// zero value is NOT a valid point; use ExtendedZero() or FromAffine.
type Extended struct {
	X, Y, Z, T field.GF25519
}

// ExtendedZero returns the group identity (0, 1, 1, 0).
func ExtendedZero() *Extended {
	return &Extended{
		X: field.GF25519_ZERO,
		Y: field.GF25519_ONE,
		Z: field.GF25519_ONE,
		T: field.GF25519_ZERO,
	}
}

// Set sets e to a and returns e.
func (e *Extended) Set(a *Extended) *Extended {
	e.X.Set(&a.X)
	e.Y.Set(&a.Y)
	e.Z.Set(&a.Z)
	e.T.Set(&a.T)
	return e
}

// FromAffine maps an affine point (x, y) to extended coordinates:
// the identity (0, 1) maps to ExtendedZero(); any other point maps to
// (x, y, 1, x*y mod p).
func (e *Extended) FromAffine(p *Affine) *Extended {
	if p.x.IsZero() == 1 && p.y.Eq(&field.GF25519_ONE) == 1 {
		return e.Set(ExtendedZero())
	}
	e.X.Set(&p.x)
	e.Y.Set(&p.y)
	e.Z.Set(&field.GF25519_ONE)
	e.T.Mul(&p.x, &p.y)
	return e
}

// ToAffine converts e to affine coordinates. If invZ is non-nil, it is
// used as the (precomputed) inverse of e.Z instead of inverting it
// here; this supports batch conversion via ToAffineBatch.
func (e *Extended) ToAffine(invZ *field.GF25519) *Affine {
	var iz field.GF25519
	if invZ != nil {
		iz.Set(invZ)
	} else {
		iz.Inv(&e.Z)
	}
	var x, y field.GF25519
	x.Mul(&e.X, &iz)
	y.Mul(&e.Y, &iz)
	return newAffineUnchecked(&x, &y)
}

// ToAffineBatch converts points to affine coordinates using Montgomery
// batch inversion of their Z coordinates: one modular inversion total,
// instead of one per point.
func ToAffineBatch(points []*Extended) []*Affine {
	zs := make([]field.GF25519, len(points))
	for i, p := range points {
		zs[i].Set(&p.Z)
	}
	invs := batchInvert(zs)
	out := make([]*Affine, len(points))
	for i, p := range points {
		out[i] = p.ToAffine(&invs[i])
	}
	return out
}

// NormalizeZ batch-converts points to affine and back to extended, so
// that every returned point has Z = 1. Applied to precompute tables so
// later lookups skip per-lookup Z-normalization.
func NormalizeZ(points []*Extended) []*Extended {
	affines := ToAffineBatch(points)
	out := make([]*Extended, len(points))
	for i, a := range affines {
		out[i] = new(Extended).FromAffine(a)
	}
	return out
}

// batchInvert implements Montgomery's trick (spec C1 invertBatch):
// produces the modular inverse of every (nonzero) element of v with a
// single field inversion plus O(n) multiplications. Entries equal to
// zero are left as zero.
func batchInvert(v []field.GF25519) []field.GF25519 {
	n := len(v)
	out := make([]field.GF25519, n)
	if n == 0 {
		return out
	}
	running := make([]field.GF25519, n)
	acc := field.GF25519_ONE
	for i := 0; i < n; i++ {
		running[i] = acc
		if v[i].IsZero() == 0 {
			acc.Mul(&acc, &v[i])
		}
	}
	var accInv field.GF25519
	accInv.Inv(&acc)
	for i := n - 1; i >= 0; i-- {
		if v[i].IsZero() == 1 {
			out[i] = field.GF25519_ZERO
			continue
		}
		out[i].Mul(&accInv, &running[i])
		accInv.Mul(&accInv, &v[i])
	}
	return out
}

// Double sets e = 2*a, using the dbl-2008-hwcd formula (4M + 4S), and
// returns e.
func (e *Extended) Double(a *Extended) *Extended {
	var A, B, C, D, E2, F, G, H, t1, t2 field.GF25519

	A.Sqr(&a.X)
	B.Sqr(&a.Y)
	C.Sqr(&a.Z)
	C.Add(&C, &C) // 2*Z^2
	D.Neg(&A)     // a = -1

	t1.Add(&a.X, &a.Y)
	t2.Sqr(&t1)
	E2.Sub(&t2, &A)
	E2.Sub(&E2, &B)

	G.Add(&D, &B)
	F.Sub(&G, &C)
	H.Sub(&D, &B)

	e.X.Mul(&E2, &F)
	e.Y.Mul(&G, &H)
	e.T.Mul(&E2, &H)
	e.Z.Mul(&F, &G)
	return e
}

// Add sets e = a + b, using the unified add-2008-hwcd formula (9M,
// counting the multiplication by d), which is complete (correct for every input pair, including a == b) for the
// curve parameters used here. A same-point check short-circuits to the
// cheaper Double formula purely as a performance optimization.
func (e *Extended) Add(a, b *Extended) *Extended {
	if a.Equal(b) {
		return e.Double(a)
	}

	var A, B, C, D, E2, F, G, H, t1, t2 field.GF25519

	A.Mul(&a.X, &b.X)
	B.Mul(&a.Y, &b.Y)
	C.Mul(&a.T, &field.GF25519_D)
	C.Mul(&C, &b.T)
	D.Mul(&a.Z, &b.Z)

	t1.Add(&a.X, &a.Y)
	t2.Add(&b.X, &b.Y)
	E2.Mul(&t1, &t2)
	E2.Sub(&E2, &A)
	E2.Sub(&E2, &B)

	F.Sub(&D, &C)
	G.Add(&D, &C)
	H.Add(&B, &A) // a = -1, so B - a*A == B + A

	e.X.Mul(&E2, &F)
	e.Y.Mul(&G, &H)
	e.T.Mul(&E2, &H)
	e.Z.Mul(&F, &G)
	return e
}

// Negate sets e = -a = (-X, Y, Z, -T), and returns e.
func (e *Extended) Negate(a *Extended) *Extended {
	e.X.Neg(&a.X)
	e.Y.Set(&a.Y)
	e.Z.Set(&a.Z)
	e.T.Neg(&a.T)
	return e
}

// Subtract sets e = a - b, and returns e.
func (e *Extended) Subtract(a, b *Extended) *Extended {
	var negB Extended
	negB.Negate(b)
	return e.Add(a, &negB)
}

// Equal reports whether e and a represent the same point:
// X1*Z2 == X2*Z1 and Y1*Z2 == Y2*Z1.
func (e *Extended) Equal(a *Extended) bool {
	var l, r field.GF25519
	l.Mul(&e.X, &a.Z)
	r.Mul(&a.X, &e.Z)
	if l.Eq(&r) == 0 {
		return false
	}
	l.Mul(&e.Y, &a.Z)
	r.Mul(&a.Y, &e.Z)
	return l.Eq(&r) == 1
}

// MultiplyUnsafe sets e = s*a using variable-time right-to-left
// double-and-add on s mod Ell25519. Only for use with public inputs
// (signature verification): it leaks the Hamming weight and bit
// positions of s through timing. Returns ErrInvalidArgument if s is
// zero (spec C4: zero is rejected by isValidScalar rather than
// yielding ZERO).
func (e *Extended) MultiplyUnsafe(a *Extended, s *scalar.Scalar25519) (*Extended, error) {
	if s.IsZero() {
		return nil, ErrInvalidArgument
	}
	n := s.BigInt()
	acc := ExtendedZero()
	base := new(Extended).Set(a)
	for n.Sign() > 0 {
		if n.Bit(0) == 1 {
			acc.Add(acc, base)
		}
		base.Double(base)
		n.Rsh(n, 1)
	}
	return e.Set(acc), nil
}
