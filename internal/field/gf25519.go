package field

import "math/big"

// This file implements computations in the field of integers modulo
// p = 2^255 - 19, the base field of Curve25519/Ed25519/Ristretto255.
// The limb-level constant-time primitives (gf_add/gf_mul/gf_inv_scaled/
// gf_legendre/...) live in field.go, specialized directly to mq25519
// below rather than threading a modulus parameter through every call,
// since this module never instantiates any field other than this one.
// Everything specific to Ed25519 (the pow_2_252_3 addition chain and
// the uvRatio helper used by point decompression and Ristretto) lives
// here, since it depends on p's exact residue class (p = 5 mod 8).

// =======================================================================
// Field GF25519: integers modulo p = 2^255 - 19
type GF25519 [4]uint64

const mq25519 uint64 = 19

// P25519 is the field modulus 2^255-19, as a big.Int. It exists
// alongside the constant-time [4]uint64 representation above for
// callers that need to check canonical-range membership of raw bytes
// without going through a GF25519 decode/encode round trip (see
// edwards25519.FromRistrettoBytes), mirroring how internal/scalar
// exposes Ell25519 the same way for the scalar field.
var P25519 = func() *big.Int {
	n := new(big.Int).Lsh(big.NewInt(1), 255)
	return n.Sub(n, big.NewInt(19))
}()

// Field element of value 0.
var GF25519_ZERO = GF25519{0, 0, 0, 0}

// Field element of value 1.
var GF25519_ONE = GF25519{1, 0, 0, 0}

// Field element of value 2.
var GF25519_TWO = GF25519{2, 0, 0, 0}

// Field element of value 1/2^508 mod p (used internally for inversions).
var GF25519_INVT508 = GF25519{
	0x29D6DEAB9CB8606C, 0x788DD408827B63FD,
	0x3CFC744C965683E6, 0x24E016B1490AA31A,
}

// d, the Edwards curve parameter: d = -121665/121666 mod p.
var GF25519_D = GF25519{
	0x75EB4DCA135978A3, 0x00700A4D4141D8AB,
	0x8CC740797779E898, 0x52036CEE2B6FFE73,
}

// A square root of -1 modulo p.
var GF25519_SQRT_M1 = GF25519{
	0xC4EE1B274A0EA0B0, 0x2F431806AD2FE478,
	0x2B4D00993DFBD7A7, 0x2B8324804FC1DF0B,
}

// sqrt(a*d - 1) with a = -1, used by the Ristretto255 encoding.
var GF25519_SQRT_AD_MINUS_ONE = GF25519{
	0x8168095FB684D1D2, 0x506271F3E487AB42,
	0xF0C30336CE0A2E02, 0x4896CE40D47CB753,
}

// 1/sqrt(a-d) with a = -1, used by the Ristretto255 encoding.
var GF25519_INVSQRT_A_MINUS_D = GF25519{
	0x99C8FDAA805D40EA, 0x9D2F16175A4172BE,
	0x16C27B91FE01D840, 0x786C8905CFAFFCA2,
}

// 1 - d^2, used by the Ristretto255 Elligator map.
var GF25519_ONE_MINUS_D_SQ = GF25519{
	0xE27C09C1945FC176, 0x2C81A138CD5E350F,
	0x9994ABDDBE70DFE4, 0x029072A8B2B3E0D7,
}

// (d - 1)^2, used by the Ristretto255 Elligator map.
var GF25519_D_MINUS_ONE_SQ = GF25519{
	0x31AD5AAA44ED4D20, 0xD29E4A2CB01E1999,
	0x4CDCD32F529B4EEB, 0x5968B37AF66C2241,
}

// d <- a
func (d *GF25519) Set(a *GF25519) *GF25519 {
	copy(d[:], a[:])
	return d
}

// d <- a + b
func (d *GF25519) Add(a, b *GF25519) *GF25519 {
	gf_add((*[4]uint64)(d), (*[4]uint64)(a), (*[4]uint64)(b))
	return d
}

// d <- a - b
func (d *GF25519) Sub(a, b *GF25519) *GF25519 {
	gf_sub((*[4]uint64)(d), (*[4]uint64)(a), (*[4]uint64)(b))
	return d
}

// d <- -a
func (d *GF25519) Neg(a *GF25519) *GF25519 {
	gf_neg((*[4]uint64)(d), (*[4]uint64)(a))
	return d
}

// If ctl == 1:  d <- a
// If ctl == 0:  d <- b
// ctl MUST be 0 or 1.
func (d *GF25519) Select(a, b *GF25519, ctl uint64) *GF25519 {
	gf_select((*[4]uint64)(d), (*[4]uint64)(a), (*[4]uint64)(b), ctl)
	return d
}

// If ctl == 1:  d <- -a
// If ctl == 0:  d <- a
// ctl MUST be 0 or 1.
func (d *GF25519) CondNeg(a *GF25519, ctl uint64) *GF25519 {
	gf_condneg((*[4]uint64)(d), (*[4]uint64)(a), ctl)
	return d
}

// d <- a*b
func (d *GF25519) Mul(a, b *GF25519) *GF25519 {
	gf_mul((*[4]uint64)(d), (*[4]uint64)(a), (*[4]uint64)(b))
	return d
}

// d <- a^2
func (d *GF25519) Sqr(a *GF25519) *GF25519 {
	gf_sqr((*[4]uint64)(d), (*[4]uint64)(a))
	return d
}

// d <- a^(2^n) for any n >= 0.
// Constant-time with regard to a and d, but not to n.
func (d *GF25519) SqrX(a *GF25519, n uint) *GF25519 {
	gf_sqr_x((*[4]uint64)(d), (*[4]uint64)(a), n)
	return d
}

// d <- 1/a  (if a == 0, this sets d to 0). This is the `invert` operation
// of spec C1; it never reports failure, matching the binary-GCD
// implementation's behavior of returning 0 for a non-invertible (zero)
// input.
func (d *GF25519) Inv(a *GF25519) *GF25519 {
	gf_inv_scaled((*[4]uint64)(d), (*[4]uint64)(a))
	gf_mul((*[4]uint64)(d), (*[4]uint64)(d), (*[4]uint64)(&GF25519_INVT508))
	return d
}

// Returns 1 if d == 0, or 0 otherwise.
func (d *GF25519) IsZero() uint64 {
	return gf_iszero((*[4]uint64)(d))
}

// Returns 1 if d == a, or 0 otherwise.
func (d *GF25519) Eq(a *GF25519) uint64 {
	return gf_eq((*[4]uint64)(d), (*[4]uint64)(a))
}

// Legendre symbol computation; return value:
//
//	 0  if d == 0
//	 1  if d != 0 and is a quadratic residue
//	-1  if d != 0 and is a not a quadratic residue
//
// Value is returned as uint64 (0xFFFFFFFFFFFFFFFF standing for -1).
func (d *GF25519) Legendre() uint64 {
	return gf_legendre((*[4]uint64)(d))
}

// IsNegative reports whether the least significant bit of the
// normalized representative of d is 1 (spec C1 `edIsNegative`).
// Returned as 1/0.
func (d *GF25519) IsNegative() uint64 {
	var t [4]uint64
	gf_norm(&t, (*[4]uint64)(d))
	return t[0] & 1
}

// Encode element into exactly 32 bytes. The encoding is appended to the
// provided slice, and the resulting slice is returned. The extension is
// done in place if the provided slice has enough capacity.
func (d *GF25519) Encode(dst []byte) []byte {
	return gf_encode(dst, (*[4]uint64)(d))
}

// Decode element from 32 bytes. If the source is invalid (out of
// range, i.e. >= p), then the decoded value is zero, and 0 is
// returned; otherwise, 1 is returned.
func (d *GF25519) Decode(src []byte) uint64 {
	return gf_decode((*[4]uint64)(d), src)
}

// Decode element from bytes, with the top bit of the last byte masked
// off before reduction (spec C2 `bytes255ToNumberLE`: used to ingest
// 32-byte Ristretto/hash inputs where bit 255 is not part of the
// value). This process cannot fail.
func (d *GF25519) DecodeMasked(src []byte) *GF25519 {
	var buf [32]byte
	copy(buf[:], src)
	buf[31] &= 0x7F
	gf_decodeReduce((*[4]uint64)(d), buf[:])
	return d
}

// Decode element from bytes. The input bytes are interpreted as an
// integer (unsigned little-endian convention) which is reduced modulo
// p. By definition, this process cannot fail.
func (d *GF25519) DecodeReduce(src []byte) *GF25519 {
	gf_decodeReduce((*[4]uint64)(d), src)
	return d
}

// Pow2253 computes d <- a^((p-5)/8), using the addition chain:
//
//	x2  = a^3
//	x4  = a^(2^4-1)   (=  a^15)
//	x5  = a^(2^5-1)   (=  a^31)
//	x10 = a^(2^10-1)
//	x20 = a^(2^20-1)
//	x40 = a^(2^40-1)
//	x80 = a^(2^80-1)
//	x160= a^(2^160-1)
//	x240= a^(2^240-1)
//	x250= a^(2^250-1)
//	out = a^(2^252-3) = a^((p-5)/8)
//
// This chain must match bit-for-bit so that uvRatio (and hence point
// decompression and Ristretto decoding) produces the canonical root.
func (d *GF25519) Pow2253(a *GF25519) *GF25519 {
	var x2, x4, x5, x10, x20, x40, x80, x160, x240, x250, t GF25519

	x2.Sqr(a)
	x2.Mul(&x2, a) // a^3

	t.SqrX(&x2, 2)
	x4.Mul(&t, &x2) // a^(2^4-1)

	t.SqrX(&x4, 1)
	x5.Mul(&t, a) // a^(2^5-1)

	t.SqrX(&x5, 5)
	x10.Mul(&t, &x5) // a^(2^10-1)

	t.SqrX(&x10, 10)
	x20.Mul(&t, &x10) // a^(2^20-1)

	t.SqrX(&x20, 20)
	x40.Mul(&t, &x20) // a^(2^40-1)

	t.SqrX(&x40, 40)
	x80.Mul(&t, &x40) // a^(2^80-1)

	t.SqrX(&x80, 80)
	x160.Mul(&t, &x80) // a^(2^160-1)

	t.SqrX(&x160, 80)
	x240.Mul(&t, &x80) // a^(2^240-1)

	t.SqrX(&x240, 10)
	x250.Mul(&t, &x10) // a^(2^250-1)

	t.SqrX(&x250, 2)
	d.Mul(&t, a) // a^(2^252-3)
	return d
}

// UVRatio implements spec C1 `uvRatio(u, v)`: it returns (1, x) such
// that x^2*v == u (mod p) when such an x exists, or (0, x) with x an
// unverified candidate otherwise. x is always returned in its
// non-negative (even, per edIsNegative) canonical form.
func UVRatio(u, v *GF25519) (isValid uint64, x GF25519) {
	var v3, v7, uv7, t GF25519
	v3.Sqr(v)
	v3.Mul(&v3, v) // v^3
	v7.Sqr(&v3)
	v7.Mul(&v7, v) // v^7
	uv7.Mul(&v7, u)

	t.Pow2253(&uv7) // (u*v^7)^((p-5)/8)
	x.Mul(&t, &v3)
	x.Mul(&x, u) // x = u*v^3*(u*v^7)^((p-5)/8)

	var vx2, negU, negUSqrtM1 GF25519
	vx2.Sqr(&x)
	vx2.Mul(&vx2, v) // v*x^2

	negU.Neg(u)
	correctSignSqrt := vx2.Eq(u)
	flippedSignSqrt := vx2.Eq(&negU)
	negUSqrtM1.Mul(&negU, &GF25519_SQRT_M1)
	flippedSignSqrtI := vx2.Eq(&negUSqrtM1)

	var xSqrtM1 GF25519
	xSqrtM1.Mul(&x, &GF25519_SQRT_M1)
	x.Select(&xSqrtM1, &x, flippedSignSqrt|flippedSignSqrtI)

	isValid = correctSignSqrt | flippedSignSqrt

	var xNeg GF25519
	xNeg.Neg(&x)
	x.Select(&xNeg, &x, x.IsNegative())
	return
}

// InvertSqrt computes UVRatio(1, v): it returns (1, x) with x^2*v == 1
// when v is a nonzero square, or (0, x) otherwise.
func InvertSqrt(v *GF25519) (uint64, GF25519) {
	return UVRatio(&GF25519_ONE, v)
}
