package session

import (
	"errors"
	"fmt"
)

// ErrProgrammingInvariant is the sentinel identifying the "abort the
// process" class of error from spec.md §7.1: unreachable paths, invalid
// mutation targets, variant/field index mismatches.
var ErrProgrammingInvariant = errors.New("session: programming invariant violated")

// Invariant panics with a wrapped ErrProgrammingInvariant if cond is false,
// grounded on the reference implementation's expect("invariant; ...")
// convention.
func Invariant(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	panic(fmt.Errorf("%w: %s", ErrProgrammingInvariant, fmt.Sprintf(msg, args...)))
}
