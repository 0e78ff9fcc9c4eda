// Package nfa provides a nondeterministic automaton over code points and
// the algorithms that turn it into a DFA.
//
// An NFA is built with four primitives (AddState, AddTransition, AddEps and
// AddPredicate), usually by a Compiler walking a regexp/syntax tree.
// Zero-width predicates such as ^, $ and \b are then removed with
// RemovePredicates, and Determinize runs the subset construction to
// produce a dfa.DFA.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrTooComplex indicates the pattern is too complex to compile: it
	// nests too deeply or needs too many states.
	ErrTooComplex = errors.New("pattern too complex")

	// ErrTooManyStates indicates predicate elimination or determinization
	// exceeded its state limit.
	ErrTooManyStates = errors.New("too many automaton states")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("invalid NFA configuration")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}
