// Package executor defines the engine's boundary with the driver-owned
// target runner (spec.md §1): the engine never executes the target itself,
// it only consumes a coverage-index snapshot and an interesting-input
// signal from whatever Executor the caller supplies.
package executor

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/gramfuzz/engine/api"
)

// Result is what one execution reports back to the engine.
type Result struct {
	Coverage    *CoverageIndexSet
	Interesting bool
	Crashed     bool
}

// Executor runs a value against the target and reports the outcome. The
// real forkserver/shared-memory implementation lives outside this module
// (spec.md §1's scope boundary); only NoopExecutor ships here.
type Executor interface {
	Run(input api.Node) (Result, error)
}

// CoverageIndexSet is a compact set of coverage-map indices, backed by a
// roaring bitmap so minimizers can compare two runs' footprints cheaply
// (P6) without materializing a dense bool slice per run.
type CoverageIndexSet struct {
	bitmap *roaring.Bitmap
}

// NewCoverageIndexSet builds an empty set.
func NewCoverageIndexSet() *CoverageIndexSet {
	return &CoverageIndexSet{bitmap: roaring.New()}
}

// Add records index i as hit.
func (c *CoverageIndexSet) Add(i uint32) { c.bitmap.Add(i) }

// Equals reports whether two sets contain exactly the same indices.
func (c *CoverageIndexSet) Equals(other *CoverageIndexSet) bool {
	if other == nil {
		return c.bitmap.IsEmpty()
	}
	return c.bitmap.Equals(other.bitmap)
}

// Bitmap exposes the underlying roaring bitmap for callers (e.g.
// internal/minimize) that compare sets directly.
func (c *CoverageIndexSet) Bitmap() *roaring.Bitmap { return c.bitmap }

// NoopExecutor is a minimal in-process stand-in used to smoke-test CLI
// wiring: it reports empty coverage and never flags anything interesting
// or crashed. It is never meant to drive real fuzzing.
type NoopExecutor struct{}

func (NoopExecutor) Run(api.Node) (Result, error) {
	return Result{Coverage: NewCoverageIndexSet()}, nil
}

var _ Executor = NoopExecutor{}
