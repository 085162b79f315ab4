// Package encoding provides the little-endian integer and hex
// conversion helpers used throughout the ed25519/ristretto255 core
// (spec component C2). These are pure, allocation-light functions with
// no dependency on the field or scalar types, mirroring how the
// teacher keeps its byte<->limb conversion helpers (prepareAppend,
// Mul128x128, ...) separate from curve-specific code in
// internal/scalar/scalar.go.
package encoding

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// BytesToNumberLE decodes b as a little-endian unsigned integer of
// arbitrary length.
func BytesToNumberLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// NumberToBytesPadded encodes n as a little-endian byte slice of
// exactly length bytes. It fails (returns an error) if n does not fit
// in that many bytes.
func NumberToBytesPadded(n *big.Int, length int) ([]byte, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("encoding: negative integer %s cannot be encoded", n)
	}
	be := n.Bytes()
	if len(be) > length {
		return nil, fmt.Errorf("encoding: integer %s exceeds %d bytes", n, length)
	}
	le := make([]byte, length)
	for i, v := range be {
		le[len(be)-1-i] = v
	}
	return le, nil
}

// HexToBytes decodes a hex string strictly: odd-length input is
// rejected.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("encoding: odd-length hex string")
	}
	return hex.DecodeString(s)
}

// BytesToHex encodes b as a lowercase hex string.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// IsValidScalar reports whether n is usable as a private-key scalar
// input (spec C2 `isValidScalar`): a positive integer.
func IsValidScalar(n *big.Int) bool {
	return n.Sign() > 0
}
