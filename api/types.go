// Package api defines the uniform contract every grammar type in gramfuzz
// satisfies: Node, Generator, and the supporting path/descriptor/mutation
// vocabulary used to traverse and transform grammar values.
package api

import "fmt"

// TypeID is the canonical, stable identity of a grammar type. It is a
// filesystem-safe string (used directly as a directory name by the chunk
// store) produced once per reflect.Type by the type registry in
// internal/typeid.
type TypeID string

// Kind classifies a child position reported by Fields/Cmps traversal.
type Kind int

const (
	// KindNonRecursive marks an ordinary child position.
	KindNonRecursive Kind = iota
	// KindRecursive marks a sum variant that reaches back to the enclosing
	// type (e.g. through an owning Box[T]).
	KindRecursive
	// KindIterable marks a sequence-shaped child (slice, fixed array).
	KindIterable
)

func (k Kind) String() string {
	switch k {
	case KindNonRecursive:
		return "NonRecursive"
	case KindRecursive:
		return "Recursive"
	case KindIterable:
		return "Iterable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Path is an ordered sequence of non-negative integers naming a position in
// a grammar value. A path is valid for a value if each prefix addresses a
// live child; mutating with an invalid prefix is a programming error (see
// Invariant in internal/session).
type Path []int

// NodeDescriptor is one entry of a field trace: the position, shape, and
// type of a node visited during traversal.
type NodeDescriptor struct {
	Index  int
	Kind   Kind
	TypeID TypeID

	// Len is the element count minus one. Only meaningful when Kind ==
	// KindIterable; this off-by-one is an internal convention carried over
	// unchanged from the reference implementation so callers don't silently
	// diverge on it.
	Len int

	// InnerTypeID is the element TypeID for an iterable node. Only
	// meaningful when Kind == KindIterable.
	InnerTypeID TypeID
}

// FieldTrace is an ordered sequence of node descriptors from the root to a
// leaf, as produced by Fields/Cmps traversal.
type FieldTrace []NodeDescriptor

// IndexPath projects a FieldTrace down to the bare integer-index Path used
// by Mutate.
func (ft FieldTrace) IndexPath() Path {
	p := make(Path, len(ft))
	for i, d := range ft {
		p[i] = d.Index
	}
	return p
}

// Leaf reports the deepest (last) descriptor of a trace, or the zero value
// and false if the trace is empty.
func (ft FieldTrace) Leaf() (NodeDescriptor, bool) {
	if len(ft) == 0 {
		return NodeDescriptor{}, false
	}
	return ft[len(ft)-1], true
}

// CmpOperand is a pair of comparison operands observed by a tracing
// executor, widened to 64 bits regardless of their original width.
type CmpOperand struct {
	LHS uint64
	RHS uint64
}

// CmpMatch pairs a field trace whose leaf matched a comparison operand with
// the serialized bytes of the other side of that comparison.
type CmpMatch struct {
	Trace FieldTrace
	Bytes []byte
}

// SerializedChunk is one entry of Node.Serialized(): the bytes of a leaf
// sub-value together with the TypeID it was extracted from.
type SerializedChunk struct {
	Bytes  []byte
	TypeID TypeID
}

// MutationOp is the closed set of structural mutation primitives. Concrete
// types are GenerateReplace, Splice, SpliceAppend, IterablePop, and
// RecursiveReplace.
type MutationOp interface {
	mutationOp()
}

// GenerateReplace replaces the addressed value by a fresh generation, with
// the recursive-expansion budget set to Bias.
type GenerateReplace struct{ Bias int }

// Splice replaces the addressed value by decoding Bytes.
type Splice struct{ Bytes []byte }

// SpliceAppend pushes a decoded value onto the addressed sequence's tail.
// Only applicable to sequence shapes.
type SpliceAppend struct{ Bytes []byte }

// IterablePop removes the element at Index from the addressed sequence.
// Only applicable to sequence shapes.
type IterablePop struct{ Index int }

// RecursiveReplace replaces the addressed value, which must currently hold
// a recursive sum variant, with a non-recursive generation.
type RecursiveReplace struct{}

func (GenerateReplace) mutationOp()  {}
func (Splice) mutationOp()           {}
func (SpliceAppend) mutationOp()     {}
func (IterablePop) mutationOp()      {}
func (RecursiveReplace) mutationOp() {}

// Visitor is the per-session mutable context threaded through every Node
// operation: PRNG, depth budgets, the learned string pool, and the
// traversal/cmp buffers. Node implementations only ever depend on this
// interface, never on a concrete type, so the engine's visitor
// implementation (internal/visitor) can live in its own package without
// creating an import cycle back into api.
type Visitor interface {
	// CoinFlip returns true with 50% probability.
	CoinFlip() bool
	// CoinFlipWithProb returns true with the given probability. Only
	// well-defined when called from a context that has already established
	// current depth > 0 (see spec §9); callers must gate at the call site.
	CoinFlipWithProb(p float64) bool
	// RandomRange returns a uniformly distributed integer in [lo, hi]
	// inclusive.
	RandomRange(lo, hi int) int
	// GenerateBytes draws n pseudo-random bytes.
	GenerateBytes(n int) []byte

	// GetString draws a string from the learned string pool.
	GetString() string
	// RegisterString extends the string pool (dictionary/extracted-token
	// loading is the caller's responsibility; this is the one hook the
	// engine exposes for it).
	RegisterString(s string)

	// GenerateDepth is the maximum recursive-expansion budget for a fresh
	// generation.
	GenerateDepth() int
	// IterateDepth is the maximum sequence length produced by generation.
	IterateDepth() int

	// RegisterFieldStack pushes a descriptor onto the traversal stack
	// without snapshotting it (used while descending through non-leaf
	// nodes).
	RegisterFieldStack(d NodeDescriptor)
	// PopField pops the most recently pushed descriptor.
	PopField()
	// RegisterField pushes a descriptor and snapshots the full current
	// stack as one collected field trace (called at leaves).
	RegisterField(d NodeDescriptor)
	// RegisterCmp records a cmp match at the current stack position.
	RegisterCmp(data []byte)

	// Fields atomically drains and returns every field trace collected
	// since the last call, resetting the traversal stack.
	Fields() []FieldTrace
	// Cmps atomically drains and returns every cmp match collected since
	// the last call, resetting the traversal stack.
	Cmps() []CmpMatch
}

// Node is the uniform operation set every grammar value supports. Mutation
// is in place via pointer receivers; generation returns a fresh Node since
// Go has no Self-returning trait methods.
type Node interface {
	// Fields walks the value, pushing node descriptors onto the visitor's
	// stack and snapshotting the full stack at each leaf.
	Fields(v Visitor, index int)
	// Cmps is the Fields variant that additionally records matching
	// integer leaves against cmp.
	Cmps(v Visitor, index int, cmp CmpOperand)
	// Serialized returns one entry per leaf sub-value plus, recursively,
	// the entries of non-leaf children. Used to populate the chunk store.
	Serialized() []SerializedChunk
	// Mutate applies op at path. If path is non-empty it is dispatched to
	// the addressed child with one index popped; if empty, op is applied
	// at this node. An invalid path is a programming error.
	Mutate(op MutationOp, v Visitor, path Path)
	// Len is the element count for iterables (len > 0 means the node is
	// iterable at this position), 0 for non-iterable leaves.
	Len() int
	// IsRecursive reports whether the node currently holds a recursive
	// sum variant.
	IsRecursive() bool
	// TypeID is this value's canonical grammar-type identity.
	TypeID() TypeID
}

// Generator is implemented alongside Node (usually by the same concrete
// type) to produce fresh values. Kept distinct from Node because Generate
// returns a new value rather than mutating a receiver.
type Generator interface {
	// Generate produces a value whose recursive depth is bounded by
	// remaining. remaining and curDepth are updated in place following the
	// §4.A budget rule.
	Generate(v Visitor, remaining *int, curDepth *int) Node
}

// MaxGenerationDepth is the hard depth guard: a recursive choice during
// generation is only permitted when curDepth < MaxGenerationDepth,
// regardless of remaining budget.
const MaxGenerationDepth = 100
