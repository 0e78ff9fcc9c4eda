package nfa

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/redfa/charmap"
	"github.com/coregx/redfa/dfa"
)

// accepts runs d over the code points of w and reports whether it ends in
// an accepting state.
func accepts(d *dfa.DFA, w string) bool {
	s := dfa.StateID(0)
	for _, r := range w {
		s = d.Next(s, uint32(r))
		if s == dfa.DeadState {
			return false
		}
	}
	return d.IsAccepting(s)
}

// compileDFA compiles pattern all the way to a DFA.
func compileDFA(t *testing.T, pattern string, config CompilerConfig) *dfa.DFA {
	t.Helper()
	n, err := NewCompiler(config).Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	n.RemovePredicates()
	if n.HasPredicates() {
		t.Fatalf("predicates left after RemovePredicates:\n%v", n)
	}
	return n.Determinize()
}

func TestDeterminize_Handmade(t *testing.T) {
	// 0 --[a-c]--> 1, 0 --[b-d]--> 2*, 1 --eps--> 2
	n := New()
	n.AddState(false)
	n.AddState(false)
	n.AddState(true)
	n.AddTransition(0, 1, charmap.NewRange('a', 'c'))
	n.AddTransition(0, 2, charmap.NewRange('b', 'd'))
	n.AddEps(1, 2)

	d := n.Determinize()
	// {0}, {1,2} on a-c, {2} on d; b-c reaches {1,2} as well.
	if d.NumStates() != 3 {
		t.Fatalf("NumStates() = %d, want 3\n%v", d.NumStates(), d)
	}
	if d.IsAccepting(0) {
		t.Error("start state accepting")
	}

	tests := []struct {
		w    string
		want bool
	}{
		{"", false},
		{"a", true},
		{"b", true},
		{"d", true},
		{"e", false},
		{"ab", false},
	}
	for _, tt := range tests {
		if got := accepts(d, tt.w); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.w, got, tt.want)
		}
	}

	// Transitions are sorted and disjoint.
	ts := d.Transitions(0)
	for i := 1; i < len(ts); i++ {
		if ts[i-1].Range.End >= ts[i].Range.Start {
			t.Errorf("transitions %v and %v out of order or overlapping", ts[i-1], ts[i])
		}
	}
}

func TestDeterminize_DedupsStateSets(t *testing.T) {
	// Both branches of a|b reach the same closed set.
	n := New()
	n.AddState(false)
	n.AddState(true)
	n.AddTransition(0, 1, charmap.SingleRange('a'))
	n.AddTransition(0, 1, charmap.SingleRange('c'))
	n.AddTransition(1, 1, charmap.SingleRange('b'))

	d := n.Determinize()
	if d.NumStates() != 2 {
		t.Errorf("NumStates() = %d, want 2\n%v", d.NumStates(), d)
	}
}

func TestDeterminize_AnchoredStates(t *testing.T) {
	// 0 --x--> 2*, and 1 --y--> 2* only from the beginning of the input.
	n := New()
	n.AddState(false)
	n.AddState(false)
	n.AddState(true)
	n.AddTransition(0, 0, anyRune)
	n.AddTransition(0, 2, charmap.SingleRange('x'))
	n.AddTransition(1, 2, charmap.SingleRange('y'))
	n.SetAnchoredStart(1)

	d := n.Determinize()
	for _, tt := range []struct {
		w    string
		want bool
	}{
		{"x", true},
		{"y", true},
		{"ax", true},
		{"ay", false},
	} {
		if got := accepts(d, tt.w); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestDeterminize_PanicsOnPredicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Determinize with predicates did not panic")
		}
	}()
	sampleNFA().Determinize()
}

func TestDeterminizeWithLimit(t *testing.T) {
	// (a|b)*a(a|b){6} needs 2^7 DFA states.
	n, err := NewDefaultCompiler().Compile("(a|b)*a(a|b){6}")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := n.DeterminizeWithLimit(64); !errors.Is(err, ErrTooManyStates) {
		t.Errorf("DeterminizeWithLimit(64) error = %v, want ErrTooManyStates", err)
	}
	d, err := n.DeterminizeWithLimit(1000)
	if err != nil {
		t.Fatalf("DeterminizeWithLimit(1000): %v", err)
	}
	if d.NumStates() < 128 {
		t.Errorf("NumStates() = %d, want at least 128", d.NumStates())
	}
}

// TestDeterminize_MatchesRegexp checks the DFA language against the
// standard library: w is accepted iff some match ends at the end of w.
func TestDeterminize_MatchesRegexp(t *testing.T) {
	patterns := []string{
		"",
		"a",
		"abc",
		"a|b",
		"a*b",
		"(ab)+",
		"a?b",
		"[a-c]x",
		"[^a]",
		"a.c",
		`(?s)a.c`,
		"(?i)hello",
		"x{2,3}",
		"é+",
		"^a",
		"a$",
		"^$",
		"^abc$",
		`(^|b)a`,
		`a(\b|c)`,
		`\b`,
		`\B`,
		`^\b`,
		`\bfoo\b`,
		`\Bo\B`,
		`\b\B`,
		`(?m)^a`,
		`(?m)a$`,
		`(?m)^$`,
		`(\ba)*`,
		`(a\b)+ ?`,
		`\A\z`,
	}
	inputs := []string{
		"", "a", "b", "c", "ab", "ba", "aa", "abc", "xabc", "abcx", "abab",
		"bx", "ax", "dx", "a\nc", "abc\nabc", "axc", "hello", "HeLLo", "say hello",
		"xx", "xxx", "xxxx", "é", "éé", "aé",
		"foo", " foo", "foo bar", "afoo", "foo ", "o", "ooo", "a o",
		"a\n", "\na", "b\na", "\n", "a a", "a a ", "aa ",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			oracle := regexp.MustCompile(`(?:` + pattern + `)\z`)
			d := compileDFA(t, pattern, DefaultCompilerConfig())
			for _, w := range inputs {
				if got, want := accepts(d, w), oracle.MatchString(w); got != want {
					t.Errorf("accepts(%q) = %v, want %v", w, got, want)
				}
			}
		})
	}
}

func TestDeterminize_AnchoredConfig(t *testing.T) {
	config := DefaultCompilerConfig()
	config.Anchored = true

	for _, pattern := range []string{"a", "a*b", `\ba`, "(?i)ab|c"} {
		oracle := regexp.MustCompile(`\A(?:` + pattern + `)\z`)
		d := compileDFA(t, pattern, config)
		for _, w := range []string{"", "a", "b", "ab", "aab", "ba", "C", "Ab", " a"} {
			if got, want := accepts(d, w), oracle.MatchString(w); got != want {
				t.Errorf("%q: accepts(%q) = %v, want %v", pattern, w, got, want)
			}
		}
	}
}

// TestDeterminize_LiteralAlternation checks unanchored literal alternations
// against Aho-Corasick: the input contains a literal iff the DFA passes
// through an accepting state while reading it.
func TestDeterminize_LiteralAlternation(t *testing.T) {
	sets := [][]string{
		{"he", "she", "his", "hers"},
		{"abc", "bcd", "cde"},
		{"a", "aa", "aaa"},
		{"needle"},
	}
	haystacks := []string{
		"", "ushers", "h", "hi", "this", "abd", "xbcdx", "ab", "bbbb",
		"haystack with a needle", "needl", "cd", "ccde",
	}

	for _, lits := range sets {
		t.Run(strings.Join(lits, "|"), func(t *testing.T) {
			builder := ahocorasick.NewBuilder()
			for _, lit := range lits {
				builder.AddPattern([]byte(lit))
			}
			ac, err := builder.Build()
			if err != nil {
				t.Fatal(err)
			}

			d := compileDFA(t, strings.Join(lits, "|"), DefaultCompilerConfig())
			for _, h := range haystacks {
				want := ac.Find([]byte(h), 0) != nil
				if got := ever(d, h); got != want {
					t.Errorf("contains(%q) = %v, want %v", h, got, want)
				}
			}
		})
	}
}

// ever reports whether d is in an accepting state after some prefix of w.
func ever(d *dfa.DFA, w string) bool {
	s := dfa.StateID(0)
	if d.IsAccepting(s) {
		return true
	}
	for _, r := range w {
		s = d.Next(s, uint32(r))
		if s == dfa.DeadState {
			return false
		}
		if d.IsAccepting(s) {
			return true
		}
	}
	return false
}
