package edwards25519

import (
	"sync"

	"github.com/curvekit/ed25519ristretto/internal/scalar"
)

// precomputeTable holds the flat list of precomputed multiples
// (1..2^(W-1) times each window's base) used by the wNAF ladder for
// one window size: length
// (256/W + 1) * 2^(W-1), normalized to Z = 1 (spec C4
// "Precompute table"). windows is 256/W + 1 and halfWindow is
// 2^(W-1), cached so multiplyWNAF doesn't recompute them per call.
type precomputeTable struct {
	w          int
	windows    int
	halfWindow int
	points     []*Extended
}

// precomputeWindow builds a table for window size w starting from
// base (spec C4 precomputeWindow(W)): for each of the `windows`
// windows, it generates 2^(W-1) consecutive multiples of the current
// base point, then doubles W times to get the next window's base.
func precomputeWindow(w int, base *Extended) *precomputeTable {
	windows := 256/w + 1
	half := 1 << uint(w-1)

	t := &precomputeTable{w: w, windows: windows, halfWindow: half}
	t.points = make([]*Extended, 0, windows*half)

	p := new(Extended).Set(base)
	for win := 0; win < windows; win++ {
		row := make([]*Extended, half)
		acc := new(Extended).Set(p)
		row[0] = acc
		for i := 1; i < half; i++ {
			next := new(Extended).Add(acc, p)
			row[i] = next
			acc = next
		}
		t.points = append(t.points, row...)
		for i := 0; i < w; i++ {
			p.Double(p)
		}
	}
	return t
}

// registry is the precompute registry of spec C4 (identity-keyed
// point -> table map). Keys are *Affine pointer identity, matching the
// spec's "by object identity" rule. The spec models this with weak
// references so unreachable points don't pin their table; Go has no
// portable pre-1.24 weak-pointer primitive, so this registry instead
// relies on SetWindowSize / window-size changes to evict stale
// entries, documented as an accepted deviation in DESIGN.md.
//
// windowBy holds the desired window size recorded via SetWindowSize,
// keyed the same way. It used to live as a plain windowSize field on
// *Affine itself, which is a point shared process-wide for Base
// (every Sign/GetPublicKey call reads it through Base.Multiply) — a
// plain struct field mutated by SetWindowSize and read by
// multiplyWNAF without synchronization is a data race the moment two
// goroutines touch Base concurrently (one signing, one calling
// Precompute). Folding it into this already-mutex-guarded map gives it
// the same synchronization as the table cache instead of a second,
// unguarded source of truth.
type registry struct {
	mu       sync.Mutex
	byID     map[*Affine]*precomputeTable
	windowBy map[*Affine]int
}

var precomputeRegistry = &registry{
	byID:     make(map[*Affine]*precomputeTable),
	windowBy: make(map[*Affine]int),
}

func (r *registry) get(key *Affine) (*precomputeTable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[key]
	return t, ok
}

func (r *registry) put(key *Affine, t *precomputeTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[key] = t
}

func (r *registry) evict(key *Affine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, key)
}

// setWindow records the desired window size for key, evicting any
// table already cached under the old size (spec C3 _setWindowSize).
func (r *registry) setWindow(key *Affine, w int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windowBy[key] = w
	delete(r.byID, key)
}

// windowOf returns the window size recorded for key via setWindow, or
// 0 if none was ever recorded.
func (r *registry) windowOf(key *Affine) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.windowBy[key]
}

// Precompute implements spec C3 precompute(w, point): if point is Base
// (by identity), the shared Base point is reused and its own table
// populated — since Base is a process-wide singleton that every
// Sign/GetPublicKey call multiplies through, this intentionally
// changes the window size used by every subsequent Base-point
// multiplication for the remainder of the process, the same way a
// library-wide "use an 8-bit comb table for the base point" setting
// would. Callers that want an isolated table for a Base-valued point
// should pass a copy (e.g. `p := *Base; Precompute(w, &p)`) instead.
// For any other point, a shallow clone is window-sized and populated,
// leaving the caller's original point untouched. A dummy Multiply(1)
// forces the table to be built and cached. w must evenly divide 256.
func Precompute(w int, point *Affine) (*Affine, error) {
	if w <= 0 || 256%w != 0 {
		return nil, ErrInvalidArgument
	}
	target := point
	if point != Base {
		clone := *point
		target = &clone
	}
	target.SetWindowSize(w)

	var one scalar.Scalar25519
	one.SetUint64(1)
	if _, err := target.Multiply(&one); err != nil {
		return nil, err
	}
	return target, nil
}

// multiplyWNAF implements spec C4 multiply(s, affineHint): a
// constant-time windowed-NAF ladder keyed by hint's identity (Base
// when hint == Base), falling back to window size 1 (plain
// double-and-add, via a trivial one-entry-per-window table) when no
// window size was ever recorded on hint.
func multiplyWNAF(p *Extended, s *scalar.Scalar25519, hint *Affine) (*Extended, error) {
	w := precomputeRegistry.windowOf(hint)
	if w == 0 {
		w = 1
	}
	if 256%w != 0 {
		return nil, ErrInvalidArgument
	}

	table, ok := precomputeRegistry.get(hint)
	if !ok {
		table = precomputeWindow(w, p)
		if w != 1 {
			table.points = NormalizeZ(table.points)
		}
		precomputeRegistry.put(hint, table)
	}

	n := s.BigInt()
	acc := ExtendedZero()
	dummy := ExtendedZero()
	half := table.halfWindow
	mask := (int64(1) << uint(w)) - 1
	carry := int64(0)

	for win := 0; win < table.windows; win++ {
		var raw int64
		if n.BitLen() > 0 {
			for i := 0; i < w; i++ {
				bitPos := win*w + i
				if bitPos < n.BitLen() && n.Bit(bitPos) == 1 {
					raw |= int64(1) << uint(i)
				}
			}
		}
		wbits := carry + raw
		carry = 0
		if wbits > int64(half) {
			wbits -= mask + 1
			carry = 1
		}

		offset := win * half
		if wbits == 0 {
			// Balance timing with a dummy accumulation, alternating by
			// window parity so the branch pattern does not leak which
			// windows were actually zero.
			entry := table.points[offset]
			if win%2 == 0 {
				dummy.Add(dummy, entry)
			} else {
				var neg Extended
				neg.Negate(entry)
				dummy.Add(dummy, &neg)
			}
			continue
		}

		abs := wbits
		neg := false
		if abs < 0 {
			abs = -abs
			neg = true
		}
		entry := table.points[offset+int(abs)-1]
		if neg {
			var n2 Extended
			n2.Negate(entry)
			acc.Add(acc, &n2)
		} else {
			acc.Add(acc, entry)
		}
	}

	normalized := NormalizeZ([]*Extended{acc, dummy})
	return p.Set(normalized[0]), nil
}
