package edwards25519

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

func TestBasePointCompression(t *testing.T) {
	want, _ := hex.DecodeString("5866666666666666666666666666666666666666666666666666666666666666")
	got := Base.ToRawBytes()
	assert.Equal(t, want, got, "BASE.ToRawBytes() mismatch")
}

func TestFromHexRoundTrip(t *testing.T) {
	bb := Base.ToRawBytes()
	p, err := FromHex(bb)
	require.NoError(t, err)
	assert.True(t, p.Equals(Base), "decoded point does not equal BASE")
	assert.Equal(t, bb, p.ToRawBytes(), "round-trip mismatch")
}

func TestFromHexTorsionPointTimesEightIsZero(t *testing.T) {
	bb, _ := hex.DecodeString("ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f")
	p, err := FromHex(bb)
	require.NoError(t, err)
	var e Extended
	e.FromAffine(p)
	var eight scalar.Scalar25519
	eight.SetUint64(8)
	res, err := e.MultiplyUnsafe(&e, &eight)
	require.NoError(t, err)
	assert.True(t, res.Equal(ExtendedZero()), "8*T != ZERO for torsion point")
}

func TestFromHexOutOfRange(t *testing.T) {
	bb, _ := hex.DecodeString("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	_, err := FromHex(bb)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestFromHexInvalidLength(t *testing.T) {
	bb, _ := hex.DecodeString("aaaaaaaaaaaaaaaabbbbbbbbbbbbbbbbbc")
	_, err := FromHex(bb)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestTorsionSubgroupOrderEight(t *testing.T) {
	var eight scalar.Scalar25519
	eight.SetUint64(8)
	for i, p := range TorsionSubgroup() {
		var e Extended
		e.FromAffine(p)
		res, err := e.MultiplyUnsafe(&e, &eight)
		require.NoErrorf(t, err, "point %d", i)
		assert.Truef(t, res.Equal(ExtendedZero()), "point %d: 8*T != ZERO", i)
	}
}

func TestAddMatchesDouble(t *testing.T) {
	var e, viaAdd, viaDouble Extended
	e.FromAffine(Base)
	viaAdd.Add(&e, &e)
	viaDouble.Double(&e)
	assert.True(t, viaAdd.Equal(&viaDouble), "Add(P,P) != Double(P)")
}

func TestMultiplyPrecomputeIndependence(t *testing.T) {
	var k scalar.Scalar25519
	k.SetUint64(12345)

	base, err := Base.Multiply(&k)
	require.NoError(t, err)

	for _, w := range []int{1, 2, 4, 8} {
		clone := *Base
		clone.SetWindowSize(w)
		got, err := clone.Multiply(&k)
		require.NoErrorf(t, err, "window %d", w)
		assert.Truef(t, got.Equals(base), "window %d: result differs from window-independent baseline", w)
	}
}

func TestMultiplyUnsafeRejectsZero(t *testing.T) {
	var e, zero Extended
	e.FromAffine(Base)
	var z scalar.Scalar25519
	_, err := zero.MultiplyUnsafe(&e, &z)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// TestPrecomputeScenarios covers spec scenario 7: precompute(8) on the
// shared Base point succeeds and reuses Base's own identity, while an
// invalid window size on a distinct point is rejected with
// ErrInvalidArgument and leaves that point's table alone.
func TestPrecomputeScenarios(t *testing.T) {
	t.Cleanup(func() {
		precomputeRegistry.mu.Lock()
		delete(precomputeRegistry.byID, Base)
		delete(precomputeRegistry.windowBy, Base)
		precomputeRegistry.mu.Unlock()
	})

	got, err := Precompute(8, Base)
	require.NoError(t, err)
	assert.Same(t, Base, got, "Precompute(8, Base) must reuse Base's own identity, not a copy")
	assert.Equal(t, 8, Base.WindowSize())

	other := Base.Add(Base)
	_, err = Precompute(7, other)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, other.WindowSize(), "rejected Precompute call must not record a window size")

	// Base's global window size change must not perturb the actual
	// multiplication result for unrelated points.
	var k scalar.Scalar25519
	k.SetUint64(99)
	prod, err := other.Multiply(&k)
	require.NoError(t, err)
	var eOther, want Extended
	eOther.FromAffine(other)
	_, err = want.MultiplyUnsafe(&eOther, &k)
	require.NoError(t, err)
	assert.True(t, prod.Equals(want.ToAffine(nil)), "unrelated point's multiple changed after Precompute(8, Base)")
}

func TestToX25519(t *testing.T) {
	u := Base.ToX25519()
	assert.NotEqualf(t, uint64(1), u.IsZero(), "BASE's X25519 u-coordinate should not be zero")
}
