// Package edwards25519 implements the twisted-Edwards group used by
// Ed25519 and Ristretto255: point encoding/decoding, the group law in
// extended coordinates, a windowed-NAF scalar multiplication ladder
// with precomputation, and the Ristretto255 encode/decode/Elligator
// map on top of it.
//
// The arithmetic below follows the teacher's layering in
// do255e/do255e.go and do255e/scalar255e.go (point type wrapping field
// elements, chaining pointer-receiver methods, package-level constant
// tables) generalized from do255's fractional (x,z,u,t) model to the
// extended twisted-Edwards (X,Y,Z,T) model this curve needs.
package edwards25519

import "github.com/curvekit/ed25519ristretto/internal/field"

// Curve equation: -x^2 + y^2 = 1 + d*x^2*y^2 (a = -1 twisted Edwards
// form), over GF(p), p = 2^255-19. The cofactor is 8; the prime-order
// subgroup has order Ell25519 (internal/scalar).
var (
	// GF25519_A is the curve parameter a = -1.
	GF25519_A = func() field.GF25519 {
		var a field.GF25519
		a.Neg(&field.GF25519_ONE)
		return a
	}()
)

// cofactor h = 8.
const Cofactor = 8

// basePointX, basePointY are the affine coordinates of the standard
// Ed25519 base point B.
var (
	basePointX = field.GF25519{
		0xc9562d608f25d51a, 0x692cc7609525a7b2,
		0xc0a4e231fdd6dc5c, 0x216936d3cd6e53fe,
	}
	basePointY = field.GF25519{
		0x6666666666666658, 0x6666666666666666,
		0x6666666666666666, 0x6666666666666666,
	}
)

// eightTorsion lists the 8 points of the full 8-torsion subgroup, in
// the order P, where P is a fixed generator of that subgroup:
// eightTorsion[k] = k*P, so eightTorsion[0] is the identity and
// eightTorsion[4] is the order-2 point (0,-1). Used by Ristretto255's
// equality test (two extended points represent the same Ristretto
// element iff their difference lies in this subgroup).
var eightTorsion = [8]*Affine{
	newAffineUnchecked(&field.GF25519_ZERO, &field.GF25519_ONE),
	newAffineUnchecked(&field.GF25519{
		0xDEA14646C545D14A, 0x5C193C7013E5E238, 0xE933993238DE4ABB, 0x1FD5B9A006394A28,
	}, &field.GF25519{
		0xB027B2C28F95E826, 0xF098EFF289F4C345, 0x3933C6D305ACDFD5, 0x05FC536D880238B1,
	}),
	newAffineUnchecked(&field.GF25519_SQRT_M1, &field.GF25519_ZERO),
	newAffineUnchecked(&field.GF25519{
		0xDEA14646C545D14A, 0x5C193C7013E5E238, 0xE933993238DE4ABB, 0x1FD5B9A006394A28,
	}, &field.GF25519{
		0x4FD84D3D706A17C7, 0x0F67100D760B3CBA, 0xC6CC392CFA53202A, 0x7A03AC9277FDC74E,
	}),
	newAffineUnchecked(&field.GF25519_ZERO, &field.GF25519{
		0xFFFFFFFFFFFFFFEC, 0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF, 0x7FFFFFFFFFFFFFFF,
	}),
	newAffineUnchecked(&field.GF25519{
		0x215EB9B93ABA2EA3, 0xA3E6C38FEC1A1DC7, 0x16CC66CDC721B544, 0x602A465FF9C6B5D7,
	}, &field.GF25519{
		0x4FD84D3D706A17C7, 0x0F67100D760B3CBA, 0xC6CC392CFA53202A, 0x7A03AC9277FDC74E,
	}),
	func() *Affine {
		var negX field.GF25519
		negX.Neg(&field.GF25519_SQRT_M1)
		return newAffineUnchecked(&negX, &field.GF25519_ZERO)
	}(),
	newAffineUnchecked(&field.GF25519{
		0x215EB9B93ABA2EA3, 0xA3E6C38FEC1A1DC7, 0x16CC66CDC721B544, 0x602A465FF9C6B5D7,
	}, &field.GF25519{
		0xB027B2C28F95E826, 0xF098EFF289F4C345, 0x3933C6D305ACDFD5, 0x05FC536D880238B1,
	}),
}

// TorsionSubgroup returns the 8 points of the curve's 8-torsion
// subgroup (spec C7): for every T in this set, 8*T == identity.
func TorsionSubgroup() []*Affine {
	out := make([]*Affine, len(eightTorsion))
	copy(out, eightTorsion[:])
	return out
}
