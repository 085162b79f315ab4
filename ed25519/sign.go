package ed25519

import (
	"crypto"
	"crypto/sha512"
	"io"

	"github.com/curvekit/ed25519ristretto/edwards25519"
	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

// Sign implements crypto.Signer: it produces an RFC 8032 EdDSA
// signature over message. rand and opts are accepted for interface
// conformance and ignored (EdDSA's nonce is deterministic, per RFC
// 8032 §5.1.6).
func (sk *PrivateKey) Sign(rand io.Reader, message []byte, opts crypto.SignerOpts) ([]byte, error) {
	return Sign(sk, message)
}

// Sign implements spec C6 sign(m, pk):
//
//	r = SHA-512(prefix || m) mod Ell25519
//	R = BASE * r
//	hs = SHA-512(R || P || m) mod Ell25519
//	S = (r + hs*p) mod Ell25519
//
// and returns the 64-byte signature R || S.
func Sign(sk *PrivateKey, message []byte) ([]byte, error) {
	h := sha512.New()
	h.Write(sk.prefix[:])
	h.Write(message)
	var r scalar.Scalar25519
	r.DecodeReduce(h.Sum(nil))

	R, err := edwards25519.Base.Multiply(&r)
	if err != nil {
		return nil, err
	}
	Renc := R.ToRawBytes()

	h2 := sha512.New()
	h2.Write(Renc)
	h2.Write(sk.pub.enc[:])
	h2.Write(message)
	var hs scalar.Scalar25519
	hs.DecodeReduce(h2.Sum(nil))

	var s, tmp scalar.Scalar25519
	tmp.Mul(&hs, &sk.scalar)
	s.Add(&r, &tmp)

	out := make([]byte, 0, SignatureSize)
	out = append(out, Renc...)
	out = s.Encode(out)
	return out, nil
}

// Verify implements spec C6 verify(sig, m, pub):
//
//	hs = SHA-512(R || P || m) mod Ell25519
//	lhs = (R + hs*P - S*BASE) * 8
//
// accepting iff lhs == identity. Uses MultiplyUnsafe throughout, since
// every input here (signature, message, public key) is untrusted but
// public: this never handles secret scalars. Returns false for any
// malformed signature or key rather than an error, matching spec §7
// ("signature verification never raises... mismatched results return
// false").
func Verify(pub *PublicKey, message, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	R, err := edwards25519.FromHex(sig[:32])
	if err != nil {
		return false
	}
	var s scalar.Scalar25519
	if s.Decode(sig[32:64]) == -1 {
		return false
	}

	h := sha512.New()
	h.Write(sig[:32])
	h.Write(pub.enc[:])
	h.Write(message)
	var hs scalar.Scalar25519
	hs.DecodeReduce(h.Sum(nil))

	var eR, eP, hsP, sB, rhs, lhs edwards25519.Extended
	eR.FromAffine(R)
	eP.FromAffine(&pub.point)

	if hs.IsZero() {
		hsP.Set(edwards25519.ExtendedZero())
	} else if _, err := hsP.MultiplyUnsafe(&eP, &hs); err != nil {
		return false
	}
	if s.IsZero() {
		sB.Set(edwards25519.ExtendedZero())
	} else if _, err := sB.MultiplyUnsafe(extendedBase(), &s); err != nil {
		return false
	}

	rhs.Add(&eR, &hsP)
	rhs.Subtract(&rhs, &sB)

	var eight scalar.Scalar25519
	eight.SetUint64(8)
	if _, err := lhs.MultiplyUnsafe(&rhs, &eight); err != nil {
		return false
	}

	return lhs.Equal(edwards25519.ExtendedZero())
}

// ValidateSignatureEncoding checks that sig has the right length and
// that its S component is canonically reduced (s < Ell25519), without
// checking R or verifying the signature itself. Callers that need to
// distinguish a structurally malformed signature from one that simply
// fails to verify should use this first.
func ValidateSignatureEncoding(sig []byte) error {
	if len(sig) != SignatureSize {
		return errInvalidSignature
	}
	var s scalar.Scalar25519
	if s.Decode(sig[32:64]) == -1 {
		return errInvalidSignature
	}
	return nil
}

// GetPublicKey implements spec C6 getPublicKey(pk): BASE * encodePrivate(SHA-512(normalize(pk))).
func GetPublicKey(seed []byte) (*PublicKey, error) {
	sk, err := NewPrivateKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	pk := sk.pub
	return &pk, nil
}

func extendedBase() *edwards25519.Extended {
	var b edwards25519.Extended
	b.FromAffine(edwards25519.Base)
	return &b
}
