package nfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/redfa/charmap"
)

// TestCompiler_Compile tests that common pattern shapes compile
func TestCompiler_Compile(t *testing.T) {
	patterns := []string{
		"hello",
		"",
		"привет", // Unicode
		"😀",      // Emoji
		"[a-zA-Z0-9]",
		"[^a-z]",
		"a|b|c",
		"(ab)*c+d?",
		"x{2,5}",
		"x{3,}",
		"x{0}",
		`^\bfoo\B$`,
		`(?m)^a$`,
		`(?s).`,
		`[^\x00-\x{10FFFF}]`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			n, err := NewDefaultCompiler().Compile(pattern)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", pattern, err)
			}
			if n.NumStates() < 2 {
				t.Errorf("NFA has %d states", n.NumStates())
			}
			accepting := 0
			for i := 0; i < n.NumStates(); i++ {
				if n.State(StateID(i)).Accepting {
					accepting++
				}
			}
			if accepting != 1 {
				t.Errorf("NFA has %d accepting states, want 1", accepting)
			}
		})
	}
}

func TestCompiler_StartLoop(t *testing.T) {
	tests := []struct {
		name     string
		anchored bool
		wantLoop bool
	}{
		{"unanchored", false, true},
		{"anchored", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCompilerConfig()
			config.Anchored = tt.anchored
			n, err := NewCompiler(config).Compile("a")
			if err != nil {
				t.Fatal(err)
			}
			loop := false
			for _, e := range n.TransitionsFrom(StartState) {
				if e.Target == StartState && e.Range == anyRune {
					loop = true
				}
			}
			if loop != tt.wantLoop {
				t.Errorf("start self-loop = %v, want %v", loop, tt.wantLoop)
			}
		})
	}
}

func TestCompiler_Predicates(t *testing.T) {
	tests := []struct {
		pattern string
		want    int // predicate edges
	}{
		{"abc", 0},
		{"^abc", 1},
		{"abc$", 1},
		{`\bx`, 2},
		{`\Bx`, 2},
		{`(?m)^x$`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n, err := NewDefaultCompiler().Compile(tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			got := 0
			for i := 0; i < n.NumStates(); i++ {
				got += len(n.State(StateID(i)).Transitions.Predicates)
			}
			if got != tt.want {
				t.Errorf("%d predicate edges, want %d\n%v", got, tt.want, n)
			}
			if n.HasPredicates() != (tt.want > 0) {
				t.Errorf("HasPredicates() = %v", n.HasPredicates())
			}
		})
	}
}

func TestCompiler_FoldCase(t *testing.T) {
	config := DefaultCompilerConfig()
	config.CaseInsensitive = true
	config.Anchored = true
	n, err := NewCompiler(config).Compile("k")
	if err != nil {
		t.Fatal(err)
	}

	got := charmap.NewSet()
	for i := 0; i < n.NumStates(); i++ {
		for _, e := range n.TransitionsFrom(StateID(i)) {
			got.Push(e.Range)
		}
	}
	got.Sort()
	want := charmap.FromRanges(charmap.SingleRange('K'), charmap.SingleRange('k'), charmap.SingleRange(0x212A))
	if !got.Equal(want) {
		t.Errorf("(?i)k consumes %v, want %v", got, want)
	}
}

func TestCompiler_ParseFlags(t *testing.T) {
	config := DefaultCompilerConfig()
	config.Literal = true
	config.Anchored = true
	n, err := NewCompiler(config).Compile("a+")
	if err != nil {
		t.Fatal(err)
	}
	d := n.Determinize()
	if !accepts(d, "a+") || accepts(d, "aa") {
		t.Error("literal pattern a+ was compiled as a repetition")
	}
}

func TestCompiler_Limits(t *testing.T) {
	tests := []struct {
		name    string
		config  CompilerConfig
		pattern string
	}{
		{
			name:    "recursion depth",
			config:  CompilerConfig{MaxRecursionDepth: 5},
			pattern: strings.Repeat("(", 10) + "a" + strings.Repeat(")*", 10),
		},
		{
			name:    "state count",
			config:  CompilerConfig{MaxRecursionDepth: 100, MaxStates: 50},
			pattern: "(abcdefgh){20}",
		},
		{
			name:    "long literal",
			config:  CompilerConfig{MaxRecursionDepth: 100, MaxStates: 50},
			pattern: strings.Repeat("a", 200),
		},
		{
			name:    "repetition of a group",
			config:  CompilerConfig{MaxRecursionDepth: 100, MaxStates: 50},
			pattern: "(?:ab){30}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler(tt.config).Compile(tt.pattern)
			if !errors.Is(err, ErrTooComplex) {
				t.Fatalf("Compile() error = %v, want ErrTooComplex", err)
			}
			var ce *CompileError
			if !errors.As(err, &ce) || ce.Pattern != tt.pattern {
				t.Errorf("error %v does not carry the pattern", err)
			}
		})
	}
}

func TestCompilerConfig_Validate(t *testing.T) {
	if err := DefaultCompilerConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	for _, c := range []CompilerConfig{{MaxRecursionDepth: -1}, {MaxStates: -1}} {
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidConfig", c, err)
		}
	}
}
