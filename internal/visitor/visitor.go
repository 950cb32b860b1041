// Package visitor implements api.Visitor: the per-session mutable context
// threaded through every grammar operation. Grounded on
// internal/lattice/context.go's session-scoped mutable context in the
// teacher repo — one struct, owned exclusively by the caller, bundling
// long-lived state (PRNG, string pool, depth budgets) with per-operation
// transient state (field stack, collected traces).
package visitor

import (
	"math/rand"

	"github.com/gramfuzz/engine/api"
)

// DepthInfo governs generation shape: how many recursive expansions a fresh
// generation may perform, how deep serialization should expand nested
// items, and the maximum sequence length generation produces.
type DepthInfo struct {
	// Expand bounds how deeply nested items are serialized (reserved for
	// callers that need to cap serialization fan-out; the field stack
	// length is compared against it via Expand()).
	Expand int
	// Generate is the recursive-expansion budget for a fresh generation.
	Generate int
	// Iterate is the maximum sequence length generation produces.
	Iterate int
}

const stringPoolMinSize = 100
const printableAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Visitor is the concrete, single-threaded implementation of api.Visitor.
// It is never safe to share across goroutines; the engine assumes exclusive
// ownership for the lifetime of a session (spec §5).
type Visitor struct {
	depth   DepthInfo
	rng     *rand.Rand
	strings []string

	fieldStack   []api.NodeDescriptor
	collected    []api.FieldTrace
	matchingCmps []api.CmpMatch
}

// New constructs a Visitor seeded deterministically and bootstraps the
// string pool to at least 100 distinct ASCII-alnum strings of length 1-10,
// matching the reference implementation's construction exactly so that a
// fixed seed reproduces a fixed session.
func New(seed uint64, depth DepthInfo) *Visitor {
	v := &Visitor{
		depth: depth,
		rng:   rand.New(rand.NewSource(int64(seed))), //nolint:gosec // deterministic fuzzing PRNG, not cryptographic
	}
	seen := make(map[string]struct{}, stringPoolMinSize)
	for len(v.strings) < stringPoolMinSize {
		n := v.RandomRange(1, 10)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = printableAlphabet[v.RandomRange(0, len(printableAlphabet)-1)]
		}
		s := string(buf)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		v.strings = append(v.strings, s)
	}
	return v
}

// CoinFlip returns true with 50% probability.
func (v *Visitor) CoinFlip() bool {
	return v.rng.Float64() < 0.5
}

// CoinFlipWithProb returns true with probability p. Only well-defined when
// the caller has already established current depth > 0 (spec §9); the only
// caller in this module (the splice mutator) gates on the field being
// iterable rather than on depth, and is documented as such at the call
// site.
func (v *Visitor) CoinFlipWithProb(p float64) bool {
	return v.rng.Float64() < p
}

// RandomRange returns a uniformly distributed integer in [lo, hi] inclusive.
func (v *Visitor) RandomRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + v.rng.Intn(hi-lo+1)
}

// GenerateBytes draws n pseudo-random bytes.
func (v *Visitor) GenerateBytes(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(v.rng.Intn(256))
	}
	return buf
}

// GetString draws a uniformly random string from the learned pool.
func (v *Visitor) GetString() string {
	idx := v.RandomRange(0, len(v.strings)-1)
	return v.strings[idx]
}

// RegisterString extends the pool, e.g. from a dictionary file or
// extracted-token loader (both out of scope for this engine; this is the
// one hook those loaders feed into).
func (v *Visitor) RegisterString(s string) {
	v.strings = append(v.strings, s)
}

// GenerateDepth is the recursive-expansion budget for a fresh generation.
func (v *Visitor) GenerateDepth() int { return v.depth.Generate }

// IterateDepth is the maximum sequence length generation produces.
func (v *Visitor) IterateDepth() int { return v.depth.Iterate }

// Expand reports whether the current traversal stack is still shallow
// enough to keep expanding nested items during serialization.
func (v *Visitor) Expand() bool {
	return len(v.fieldStack) < v.depth.Expand
}

// RegisterFieldStack pushes a descriptor while descending through a
// non-leaf node.
func (v *Visitor) RegisterFieldStack(d api.NodeDescriptor) {
	v.fieldStack = append(v.fieldStack, d)
}

// PopField pops the most recently pushed descriptor.
func (v *Visitor) PopField() {
	v.fieldStack = v.fieldStack[:len(v.fieldStack)-1]
}

// RegisterField pushes a descriptor and snapshots the full stack as one
// collected field trace. Called at leaves.
func (v *Visitor) RegisterField(d api.NodeDescriptor) {
	v.fieldStack = append(v.fieldStack, d)
	snapshot := make(api.FieldTrace, len(v.fieldStack))
	copy(snapshot, v.fieldStack)
	v.collected = append(v.collected, snapshot)
}

// RegisterCmp records a cmp match at the current stack position.
func (v *Visitor) RegisterCmp(data []byte) {
	snapshot := make(api.FieldTrace, len(v.fieldStack))
	copy(snapshot, v.fieldStack)
	v.matchingCmps = append(v.matchingCmps, api.CmpMatch{Trace: snapshot, Bytes: data})
}

// Fields atomically drains and returns every collected field trace,
// resetting the traversal stack so the next traversal starts clean.
func (v *Visitor) Fields() []api.FieldTrace {
	out := v.collected
	v.collected = nil
	v.fieldStack = nil
	return out
}

// Cmps atomically drains and returns every collected cmp match, resetting
// the traversal stack.
func (v *Visitor) Cmps() []api.CmpMatch {
	out := v.matchingCmps
	v.matchingCmps = nil
	v.collected = nil
	v.fieldStack = nil
	return out
}

var _ api.Visitor = (*Visitor)(nil)
