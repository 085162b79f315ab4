package edwards25519

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

// maxRandomAttempts bounds the rejection-sampling loop in
// RandomScalar (spec C7 randomPrivateKey), mirroring the teacher's
// bounded-retry pattern in do255e/algs.go's key generation.
const maxRandomAttempts = 1024

// RandomScalar draws a uniformly random scalar in (1, Ell25519) via
// rejection sampling against a cryptographic byte source: 32 random
// bytes are decoded and accepted only if they land strictly between 1
// and Ell25519. It returns ErrPRNGExhausted if no acceptable value is
// found within maxRandomAttempts reads.
func RandomScalar(rng io.Reader) (*scalar.Scalar25519, error) {
	if rng == nil {
		rng = rand.Reader
	}
	var buf [32]byte
	one := big.NewInt(1)
	for i := 0; i < maxRandomAttempts; i++ {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return nil, err
		}
		var s scalar.Scalar25519
		code := s.Decode(buf[:])
		if code == -1 {
			continue
		}
		v := s.BigInt()
		if v.Cmp(one) <= 0 {
			continue
		}
		return &s, nil
	}
	return nil, ErrPRNGExhausted
}
