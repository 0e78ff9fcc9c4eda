package nfa

import (
	"fmt"
	"regexp/syntax"
	"unicode"

	"github.com/coregx/redfa/charmap"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// Anchored forces the pattern to match only at the start of input.
	// When false, state 0 loops on every code point so a match may start
	// anywhere.
	Anchored bool

	// DotNewline determines whether '.' matches '\n'
	DotNewline bool

	// CaseInsensitive enables case folding, as the (?i) flag does.
	CaseInsensitive bool

	// Multiline makes ^ and $ match at line boundaries, as the (?m) flag
	// does.
	Multiline bool

	// Literal treats the pattern as a literal string.
	Literal bool

	// MaxRecursionDepth limits recursion during compilation to prevent stack overflow
	// Default: 100
	MaxRecursionDepth int

	// MaxStates limits the number of NFA states the compiler may create.
	// 0 means no limit.
	// Default: 100000
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 100,
		MaxStates:         100_000,
	}
}

// Validate reports whether the configuration is usable.
func (c CompilerConfig) Validate() error {
	if c.MaxRecursionDepth < 0 {
		return fmt.Errorf("%w: MaxRecursionDepth must not be negative", ErrInvalidConfig)
	}
	if c.MaxStates < 0 {
		return fmt.Errorf("%w: MaxStates must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ParseFlags returns the regexp/syntax flags implied by the configuration.
func (c CompilerConfig) ParseFlags() syntax.Flags {
	flags := syntax.Perl
	if c.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	if c.DotNewline {
		flags |= syntax.DotNL
	}
	if c.Multiline {
		flags &^= syntax.OneLine
	}
	if c.Literal {
		flags |= syntax.Literal
	}
	return flags
}

// anyRune covers every valid code point.
var anyRune = charmap.NewRange(0, unicode.MaxRune)

// Compiler compiles regexp/syntax.Regexp patterns into NFAs
type Compiler struct {
	config CompilerConfig
	nfa    *NFA
	depth  int // current recursion depth
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{
		config: config,
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile compiles a regex pattern string into an NFA
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	re, err := syntax.Parse(pattern, c.config.ParseFlags())
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	n, err := c.CompileRegexp(re)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}
	return n, nil
}

// CompileRegexp compiles a parsed syntax.Regexp into an NFA.
//
// The result has state 0 as its start state, a single accepting state, and
// predicate edges for every anchor and word boundary in the pattern.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*NFA, error) {
	c.nfa = New()
	c.depth = 0

	start := c.nfa.AddState(false)
	if !c.config.Anchored {
		c.nfa.AddTransition(start, start, anyRune)
	}

	// Compile the regex into NFA states
	// Returns (start, end) state IDs for the compiled fragment
	subStart, subEnd, err := c.compileRegexp(re)
	if err != nil {
		return nil, err
	}
	c.nfa.AddEps(start, subStart)

	match := c.nfa.AddState(true)
	c.nfa.AddEps(subEnd, match)

	return c.nfa, nil
}

// compileRegexp recursively compiles a syntax.Regexp node.
// Returns (start, end) state IDs for the compiled fragment: the fragment
// is entered at start and continues from end through an epsilon edge.
func (c *Compiler) compileRegexp(re *syntax.Regexp) (start, end StateID, err error) {
	// Check recursion depth
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, InvalidState, ErrTooComplex
	}
	defer func() { c.depth-- }()

	if c.tooManyStates() {
		return InvalidState, InvalidState, ErrTooComplex
	}

	// A single node can expand to many states: long literals and counted
	// repetitions are only measured once they are built.
	start, end, err = c.compileOp(re)
	if err == nil && c.tooManyStates() {
		return InvalidState, InvalidState, ErrTooComplex
	}
	return start, end, err
}

func (c *Compiler) tooManyStates() bool {
	return c.config.MaxStates > 0 && c.nfa.NumStates() > c.config.MaxStates
}

func (c *Compiler) compileOp(re *syntax.Regexp) (start, end StateID, err error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return c.compileNoMatch()
	case syntax.OpEmptyMatch:
		return c.compileEmptyMatch()
	case syntax.OpLiteral:
		return c.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)
	case syntax.OpCharClass:
		return c.compileSet(charmap.FromCharClass(re.Rune))
	case syntax.OpAnyChar:
		return c.compileAnyChar()
	case syntax.OpAnyCharNotNL:
		return c.compileAnyCharNotNL()
	case syntax.OpBeginLine:
		return c.compilePredicates(BeginLine())
	case syntax.OpEndLine:
		return c.compilePredicates(EndLine())
	case syntax.OpBeginText:
		return c.compilePredicates(BeginText())
	case syntax.OpEndText:
		return c.compilePredicates(EndText())
	case syntax.OpWordBoundary:
		preds := WordBoundary()
		return c.compilePredicates(preds[:]...)
	case syntax.OpNoWordBoundary:
		preds := NoWordBoundary()
		return c.compilePredicates(preds[:]...)
	case syntax.OpCapture:
		return c.compileRegexp(re.Sub[0])
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileStar(re.Sub[0])
	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0])
	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0])
	case syntax.OpRepeat:
		return c.compileRepeat(re.Sub[0], re.Min, re.Max)
	default:
		return InvalidState, InvalidState, fmt.Errorf("unsupported regex operation: %v", re.Op)
	}
}

// compileLiteral compiles a literal string (sequence of runes).
// With foldCase every rune also matches its simple case folds.
func (c *Compiler) compileLiteral(runes []rune, foldCase bool) (start, end StateID, err error) {
	start = c.nfa.AddState(false)
	end = start
	for _, r := range runes {
		next := c.nfa.AddState(false)
		c.nfa.AddTransition(end, next, charmap.SingleRange(uint32(r)))
		if foldCase {
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				c.nfa.AddTransition(end, next, charmap.SingleRange(uint32(f)))
			}
		}
		end = next
	}
	return start, end, nil
}

// compileSet compiles a single code point drawn from s.
func (c *Compiler) compileSet(s *charmap.Set) (start, end StateID, err error) {
	start = c.nfa.AddState(false)
	end = c.nfa.AddState(false)
	for _, r := range s.Ranges() {
		c.nfa.AddTransition(start, end, r)
	}
	return start, end, nil
}

// compileAnyChar compiles '.' matching any character, '\n' included
func (c *Compiler) compileAnyChar() (start, end StateID, err error) {
	return c.compileSet(charmap.FromRanges(anyRune))
}

// compileAnyCharNotNL compiles '.' matching any character except '\n',
// unless DotNewline is set.
func (c *Compiler) compileAnyCharNotNL() (start, end StateID, err error) {
	if c.config.DotNewline {
		return c.compileAnyChar()
	}
	return c.compileSet(charmap.Except("\n").Intersect(charmap.FromRanges(anyRune)))
}

// compilePredicates compiles a zero-width assertion that holds wherever
// any of preds holds.
func (c *Compiler) compilePredicates(preds ...Predicate) (start, end StateID, err error) {
	start = c.nfa.AddState(false)
	end = c.nfa.AddState(false)
	for _, p := range preds {
		c.nfa.AddPredicate(start, end, p)
	}
	return start, end, nil
}

// compileConcat compiles concatenation (e.g., "abc")
func (c *Compiler) compileConcat(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileEmptyMatch()
	}

	// Compile first sub-expression
	start, end, err = c.compileRegexp(subs[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}

	// Chain the rest
	for _, sub := range subs[1:] {
		nextStart, nextEnd, err := c.compileRegexp(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		c.nfa.AddEps(end, nextStart)
		end = nextEnd
	}

	return start, end, nil
}

// compileAlternate compiles alternation (e.g., "a|b|c")
func (c *Compiler) compileAlternate(subs []*syntax.Regexp) (start, end StateID, err error) {
	start = c.nfa.AddState(false)
	// Join state where all alternatives converge
	end = c.nfa.AddState(false)
	for _, sub := range subs {
		s, e, err := c.compileRegexp(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		c.nfa.AddEps(start, s)
		c.nfa.AddEps(e, end)
	}
	return start, end, nil
}

// compileStar compiles a* (zero or more)
func (c *Compiler) compileStar(sub *syntax.Regexp) (start, end StateID, err error) {
	// loop is both entry and exit: enter sub or leave, and come back
	// after each iteration.
	loop := c.nfa.AddState(false)
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	c.nfa.AddEps(loop, subStart)
	c.nfa.AddEps(subEnd, loop)
	return loop, loop, nil
}

// compilePlus compiles a+ (one or more)
func (c *Compiler) compilePlus(sub *syntax.Regexp) (start, end StateID, err error) {
	loop := c.nfa.AddState(false)
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	// Must match at least once: loop -> sub -> (loop | end)
	end = c.nfa.AddState(false)
	c.nfa.AddEps(loop, subStart)
	c.nfa.AddEps(subEnd, loop)
	c.nfa.AddEps(subEnd, end)
	return loop, end, nil
}

// compileQuest compiles a? (zero or one)
func (c *Compiler) compileQuest(sub *syntax.Regexp) (start, end StateID, err error) {
	start = c.nfa.AddState(false)
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	// Either match sub or skip
	end = c.nfa.AddState(false)
	c.nfa.AddEps(start, subStart)
	c.nfa.AddEps(start, end)
	c.nfa.AddEps(subEnd, end)
	return start, end, nil
}

// compileRepeat compiles a{m,n} (min to max repetitions)
func (c *Compiler) compileRepeat(sub *syntax.Regexp, minCount, maxCount int) (start, end StateID, err error) {
	if maxCount == -1 {
		// a{m,} = aaa...a* (minCount copies + star)
		return c.compileRepeatMin(sub, minCount)
	}
	if minCount == maxCount {
		// a{n} = aaa...a (exactly n copies)
		return c.compileRepeatExact(sub, minCount)
	}
	// a{m,n} = aaa...a(a?a?a?...) (minCount copies + (maxCount-minCount) optional copies)
	return c.compileRepeatRange(sub, minCount, maxCount)
}

// compileRepeatExact compiles a{n}
func (c *Compiler) compileRepeatExact(sub *syntax.Regexp, n int) (start, end StateID, err error) {
	subs := make([]*syntax.Regexp, n)
	for i := range subs {
		subs[i] = sub
	}
	return c.compileConcat(subs)
}

// compileRepeatMin compiles a{m,}
func (c *Compiler) compileRepeatMin(sub *syntax.Regexp, minCount int) (start, end StateID, err error) {
	subs := make([]*syntax.Regexp, 0, minCount+1)
	for i := 0; i < minCount; i++ {
		subs = append(subs, sub)
	}
	subs = append(subs, &syntax.Regexp{
		Op:  syntax.OpStar,
		Sub: []*syntax.Regexp{sub},
	})
	return c.compileConcat(subs)
}

// compileRepeatRange compiles a{m,n}
func (c *Compiler) compileRepeatRange(sub *syntax.Regexp, minCount, maxCount int) (start, end StateID, err error) {
	if minCount > maxCount {
		return InvalidState, InvalidState, fmt.Errorf("invalid repeat range {%d,%d}", minCount, maxCount)
	}

	// Concatenate minCount copies + (maxCount-minCount) optional copies
	subs := make([]*syntax.Regexp, 0, maxCount)
	for i := 0; i < minCount; i++ {
		subs = append(subs, sub)
	}
	for i := 0; i < maxCount-minCount; i++ {
		subs = append(subs, &syntax.Regexp{
			Op:  syntax.OpQuest,
			Sub: []*syntax.Regexp{sub},
		})
	}
	return c.compileConcat(subs)
}

// compileEmptyMatch compiles an epsilon transition (matches without consuming input)
func (c *Compiler) compileEmptyMatch() (start, end StateID, err error) {
	id := c.nfa.AddState(false)
	return id, id, nil
}

// compileNoMatch compiles a fragment that can never be traversed.
func (c *Compiler) compileNoMatch() (start, end StateID, err error) {
	return c.nfa.AddState(false), c.nfa.AddState(false), nil
}
