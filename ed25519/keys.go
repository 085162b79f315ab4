// Package ed25519 implements RFC 8032 EdDSA key derivation, signing,
// and verification on top of the group arithmetic in edwards25519.
//
// The key-pair/Equal/Encode scaffolding is grounded on
// do255e/algs.go's Do255ePrivateKey/Do255ePublicKey (constant-time
// comparison in Equal, append-pattern Encode, crypto.PublicKey
// conformance); the actual scalar derivation and signature equations
// are RFC 8032's, not do255e's Schnorr-over-do255e scheme.
package ed25519

import (
	"crypto"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"
	"math/big"

	"github.com/curvekit/ed25519ristretto/edwards25519"
	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

// SeedSize is the length in bytes of an Ed25519 private key seed.
const SeedSize = 32

// PublicKeySize is the length in bytes of an encoded public key.
const PublicKeySize = 32

// SignatureSize is the length in bytes of a signature.
const SignatureSize = 64

var (
	errInvalidSeed      = errors.New("ed25519: invalid private key seed")
	errInvalidPublicKey = errors.New("ed25519: invalid public key")
	errInvalidSignature = errors.New("ed25519: invalid signature encoding")
)

// PrivateKey holds a normalized 32-byte seed together with its
// RFC 8032 expansion (clamped scalar + nonce prefix) and cached public
// key, so that Sign need not re-expand the seed with SHA-512 on every
// call.
type PrivateKey struct {
	seed   [SeedSize]byte
	scalar scalar.Scalar25519
	prefix [32]byte
	pub    PublicKey
}

// PublicKey holds a decoded curve point together with its canonical
// 32-byte encoding.
type PublicKey struct {
	point Affine
	enc   [PublicKeySize]byte
}

// Affine is an alias for edwards25519.Affine, so callers of this
// package never need to import edwards25519 directly just to hold a
// PublicKey's point.
type Affine = edwards25519.Affine

// NormalizePrivateKey implements spec C5 normalizePrivateKey: it
// accepts a 32-byte slice, a 64-character hex string, or a *big.Int in
// [0, 2^256), and produces the canonical 32-byte little-endian seed.
func NormalizePrivateKey(k interface{}) ([SeedSize]byte, error) {
	var out [SeedSize]byte
	switch v := k.(type) {
	case []byte:
		if len(v) != SeedSize {
			return out, errInvalidSeed
		}
		copy(out[:], v)
		return out, nil
	case [SeedSize]byte:
		return v, nil
	case string:
		if len(v) != 2*SeedSize {
			return out, errInvalidSeed
		}
		b, err := hex.DecodeString(v)
		if err != nil {
			return out, errInvalidSeed
		}
		copy(out[:], b)
		return out, nil
	case *big.Int:
		if v.Sign() < 0 || v.BitLen() > 256 {
			return out, errInvalidSeed
		}
		be := v.Bytes()
		for i, b := range be {
			out[len(be)-1-i] = b
		}
		return out, nil
	default:
		return out, errInvalidSeed
	}
}

// encodePrivate implements spec C5 encodePrivate: RFC 8032 clamping of
// expanded[0:32] (h[0] &= 248; h[31] &= 127; h[31] |= 64), little-endian
// decoded and reduced mod Ell25519.
func encodePrivate(expanded []byte) scalar.Scalar25519 {
	var h [32]byte
	copy(h[:], expanded[:32])
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	var s scalar.Scalar25519
	s.DecodeReduce(h[:])
	return s
}

// keyPrefix implements spec C5 keyPrefix: bytes [32:64] of the
// SHA-512 expansion, used as the EdDSA nonce-derivation prefix.
func keyPrefix(expanded []byte) [32]byte {
	var p [32]byte
	copy(p[:], expanded[32:64])
	return p
}

// NewPrivateKeyFromSeed derives a PrivateKey from a normalized 32-byte
// seed (spec C3 fromPrivateKey / C6 getPublicKey combined: expand via
// SHA-512, clamp, derive BASE*scalar).
func NewPrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, errInvalidSeed
	}
	sk := new(PrivateKey)
	copy(sk.seed[:], seed)

	h := sha512.Sum512(seed)
	sk.scalar = encodePrivate(h[:])
	sk.prefix = keyPrefix(h[:])

	pubPoint, err := edwards25519.Base.Multiply(&sk.scalar)
	if err != nil {
		return nil, err
	}
	sk.pub.point = *pubPoint
	copy(sk.pub.enc[:], pubPoint.ToRawBytes())
	return sk, nil
}

// GenerateKey generates a fresh Ed25519 private key, reading seed
// bytes from rnd (crypto/rand.Reader if nil).
func GenerateKey(rnd io.Reader) (*PrivateKey, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rnd, seed[:]); err != nil {
		return nil, err
	}
	return NewPrivateKeyFromSeed(seed[:])
}

// Seed returns the 32-byte seed sk was derived from.
func (sk *PrivateKey) Seed() []byte {
	out := make([]byte, SeedSize)
	copy(out, sk.seed[:])
	return out
}

// Encode appends sk's 32-byte seed to dst and returns the result
// (mirrors do255e/algs.go's Do255ePrivateKey.Encode append pattern).
func (sk *PrivateKey) Encode(dst []byte) []byte {
	return append(dst, sk.seed[:]...)
}

// Public returns sk's corresponding public key, implementing
// crypto.Signer.
func (sk *PrivateKey) Public() crypto.PublicKey {
	pk := sk.pub
	return &pk
}

// DecodePublicKey decodes a 32-byte compressed public key.
func DecodePublicKey(src []byte) (*PublicKey, error) {
	if len(src) != PublicKeySize {
		return nil, errInvalidPublicKey
	}
	p, err := edwards25519.FromHex(src)
	if err != nil {
		return nil, errInvalidPublicKey
	}
	pk := new(PublicKey)
	pk.point = *p
	copy(pk.enc[:], src)
	return pk, nil
}

// Encode appends pk's 32-byte encoding to dst and returns the result.
func (pk *PublicKey) Encode(dst []byte) []byte {
	return append(dst, pk.enc[:]...)
}

// Equal reports whether pk and other are the same public key,
// comparing their canonical encodings (do255e/algs.go's
// Do255ePublicKey.Equal pattern, generalized to crypto.PublicKey).
func (pk *PublicKey) Equal(other crypto.PublicKey) bool {
	pk2, ok := other.(*PublicKey)
	if !ok {
		return false
	}
	var diff byte
	for i := range pk.enc {
		diff |= pk.enc[i] ^ pk2.enc[i]
	}
	return diff == 0
}
