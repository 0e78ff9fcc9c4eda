// Package redfa compiles regular expressions into deterministic finite
// automata over Unicode code points.
//
// Compilation runs in three stages:
//   - the pattern is parsed with regexp/syntax and lowered to an NFA whose
//     anchors and word boundaries are zero-width predicate edges
//   - predicate elimination rewrites the NFA until no predicate edges remain
//   - the subset construction turns the NFA into a DFA
//
// The resulting DFA accepts a string w iff some match of the pattern ends
// at the end of w. Transitions are labelled with code-point ranges, so the
// DFA can be driven one rune at a time with dfa.DFA.Next.
//
// Basic usage:
//
//	d, err := redfa.Compile(`\bfoo\b`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(d)
//
// Custom configuration:
//
//	config := redfa.DefaultConfig().WithAnchored(true)
//	config.MaxDFAStates = 50000
//	d, err := redfa.CompileWithConfig("(a|b)*abb", config)
package redfa

import (
	"errors"

	"github.com/coregx/redfa/dfa"
	"github.com/coregx/redfa/nfa"
)

// ErrTooManyStates is returned, wrapped in a CompileError, when predicate
// elimination or determinization exceeds the configured state limits.
var ErrTooManyStates = nfa.ErrTooManyStates

// Compile compiles a regular expression pattern into a DFA using the
// default configuration.
//
// Syntax is Perl-compatible (same as Go's stdlib regexp).
// Returns a *CompileError if the pattern is invalid or the automaton grows
// past the default limits.
//
// Example:
//
//	d, err := redfa.Compile(`[a-z]+@[a-z]+\.com`)
func Compile(pattern string) (*dfa.DFA, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
//
// This is useful for patterns known to be valid at compile time.
func MustCompile(pattern string) *dfa.DFA {
	d, err := Compile(pattern)
	if err != nil {
		panic("redfa: Compile(`" + pattern + "`): " + err.Error())
	}
	return d
}

// CompileWithConfig compiles a pattern into a DFA with a custom
// configuration.
//
// Example:
//
//	config := redfa.DefaultConfig()
//	config.CaseInsensitive = true
//	d, err := redfa.CompileWithConfig("hello", config)
func CompileWithConfig(pattern string, config Config) (*dfa.DFA, error) {
	n, err := CompileNFA(pattern, config)
	if err != nil {
		return nil, err
	}

	d, err := n.DeterminizeWithLimit(config.MaxDFAStates)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return d, nil
}

// CompileNFA compiles a pattern into an NFA and eliminates its predicate
// edges, stopping short of determinization. The result is ready for
// nfa.NFA.Determinize.
func CompileNFA(pattern string, config Config) (*nfa.NFA, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	n, err := nfa.NewCompiler(config.compilerConfig()).Compile(pattern)
	if err != nil {
		return nil, newCompileError(pattern, err)
	}

	if err := n.RemovePredicatesWithLimit(config.MaxNFAStates); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return n, nil
}

// CompileError reports a pattern that could not be compiled. Err is the
// underlying cause: a *syntax.Error for malformed patterns, nfa.ErrTooComplex
// or ErrTooManyStates for patterns that exceed the configured limits.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return "redfa: compiling `" + e.Pattern + "`: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// newCompileError strips the nfa package's wrapper so that the pattern is
// reported once.
func newCompileError(pattern string, err error) *CompileError {
	var ce *nfa.CompileError
	if errors.As(err, &ce) {
		err = ce.Err
	}
	return &CompileError{Pattern: pattern, Err: err}
}
