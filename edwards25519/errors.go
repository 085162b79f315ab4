package edwards25519

import "errors"

// Error kinds surfaced by this package and by ed25519. They are
// sentinel values rather than a distinguished error type, following
// the teacher's errors.New convention in do255e/algs.go
// (Do255eDecodePrivateKey, Do255eDecodePublicKey); callers distinguish
// kinds with errors.Is.
var (
	// ErrInvalidEncoding: wrong byte length, non-canonical Ristretto
	// input, or hex parse failure.
	ErrInvalidEncoding = errors.New("edwards25519: invalid encoding")

	// ErrOutOfRange: y >= p in point decode.
	ErrOutOfRange = errors.New("edwards25519: value out of range")

	// ErrNotOnCurve: square-root failure decoding an affine point.
	ErrNotOnCurve = errors.New("edwards25519: point not on curve")

	// ErrNotInGroup: square-root or sign-consistency failure decoding a
	// Ristretto255 point.
	ErrNotInGroup = errors.New("edwards25519: point not in group")

	// ErrInvalidArgument: zero scalar to MultiplyUnsafe, or an invalid
	// window size.
	ErrInvalidArgument = errors.New("edwards25519: invalid argument")

	// ErrPRNGExhausted: rejection sampling failed within its iteration
	// budget.
	ErrPRNGExhausted = errors.New("edwards25519: PRNG exhausted")
)
