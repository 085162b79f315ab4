package encoding

import (
	"math/big"
	"testing"
)

func TestBytesToNumberLE(t *testing.T) {
	n := BytesToNumberLE([]byte{0x01, 0x02, 0x03})
	expect := big.NewInt(0x030201)
	if n.Cmp(expect) != 0 {
		t.Fatalf("got %s, want %s", n, expect)
	}
}

func TestNumberToBytesPaddedRoundTrip(t *testing.T) {
	n := big.NewInt(0x030201)
	b, err := NumberToBytesPadded(n, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x00}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, b[i], want[i])
		}
	}
	back := BytesToNumberLE(b)
	if back.Cmp(n) != 0 {
		t.Fatalf("round trip mismatch: got %s, want %s", back, n)
	}
}

func TestNumberToBytesPaddedOverflow(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 40) // needs 6 bytes
	if _, err := NumberToBytesPadded(n, 4); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestNumberToBytesPaddedNegative(t *testing.T) {
	if _, err := NumberToBytesPadded(big.NewInt(-1), 4); err == nil {
		t.Fatalf("expected error for negative integer")
	}
}

func TestHexToBytesOddLength(t *testing.T) {
	if _, err := HexToBytes("abc"); err == nil {
		t.Fatalf("expected error for odd-length hex")
	}
}

func TestIsValidScalar(t *testing.T) {
	if !IsValidScalar(big.NewInt(1)) {
		t.Fatalf("1 should be a valid scalar")
	}
	if IsValidScalar(big.NewInt(0)) {
		t.Fatalf("0 should not be a valid scalar")
	}
	if IsValidScalar(big.NewInt(-1)) {
		t.Fatalf("-1 should not be a valid scalar")
	}
}
