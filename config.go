package redfa

import (
	"fmt"

	"github.com/coregx/redfa/nfa"
	"sigs.k8s.io/yaml"
)

// Config controls pattern parsing and the limits applied while building
// automata.
//
// The field tags let a Config be read from JSON or YAML; see ParseConfig.
//
// Example:
//
//	config := redfa.DefaultConfig()
//	config.MaxDFAStates = 1000 // Fail fast on patterns that blow up
//	d, err := redfa.CompileWithConfig("(a|b)*a(a|b){20}", config)
type Config struct {
	// MaxNFAStates caps the NFA, both as compiled and as it grows during
	// predicate elimination.
	// Default: 100000
	MaxNFAStates int `json:"maxNFAStates"`

	// MaxDFAStates caps the number of DFA states determinization may create.
	// Default: 10000
	MaxDFAStates int `json:"maxDFAStates"`

	// MaxRecursionDepth limits the nesting depth of the parsed pattern.
	// Default: 100
	MaxRecursionDepth int `json:"maxRecursionDepth"`

	// Anchored makes matches start at the beginning of the input, as if
	// the pattern began with \A.
	Anchored bool `json:"anchored"`

	// CaseInsensitive enables case folding, as (?i) does.
	CaseInsensitive bool `json:"caseInsensitive"`

	// DotNewline lets '.' match '\n', as (?s) does.
	DotNewline bool `json:"dotNewline"`

	// Multiline makes ^ and $ match at line boundaries, as (?m) does.
	Multiline bool `json:"multiline"`

	// Literal treats the pattern as a literal string.
	Literal bool `json:"literal"`
}

// DefaultConfig returns a configuration with sensible defaults: unanchored,
// Perl flags, and limits that comfortably fit ordinary patterns.
func DefaultConfig() Config {
	return Config{
		MaxNFAStates:      100_000,
		MaxDFAStates:      10_000,
		MaxRecursionDepth: 100,
	}
}

// ParseConfig reads a Config from YAML or JSON. Fields missing from data
// keep their DefaultConfig values. The result is validated.
//
// Example:
//
//	config, err := redfa.ParseConfig([]byte("maxDFAStates: 500\nanchored: true\n"))
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return Config{}, fmt.Errorf("redfa: parsing config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks if the configuration is valid.
// Returns a *ConfigError if any parameter is out of range.
//
// Valid ranges:
//   - MaxNFAStates: 1 to 10,000,000
//   - MaxDFAStates: 1 to 1,000,000
//   - MaxRecursionDepth: 10 to 1,000
func (c Config) Validate() error {
	if c.MaxNFAStates < 1 || c.MaxNFAStates > 10_000_000 {
		return &ConfigError{
			Field:   "MaxNFAStates",
			Message: "must be between 1 and 10,000,000",
		}
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
		return &ConfigError{
			Field:   "MaxDFAStates",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}
	return nil
}

// WithAnchored returns a copy of c with Anchored set.
func (c Config) WithAnchored(anchored bool) Config {
	c.Anchored = anchored
	return c
}

// WithCaseInsensitive returns a copy of c with CaseInsensitive set.
func (c Config) WithCaseInsensitive(fold bool) Config {
	c.CaseInsensitive = fold
	return c
}

// WithMultiline returns a copy of c with Multiline set.
func (c Config) WithMultiline(multiline bool) Config {
	c.Multiline = multiline
	return c
}

// WithDotNewline returns a copy of c with DotNewline set.
func (c Config) WithDotNewline(dotNL bool) Config {
	c.DotNewline = dotNL
	return c
}

// WithLimits returns a copy of c with the NFA and DFA state limits set.
func (c Config) WithLimits(maxNFAStates, maxDFAStates int) Config {
	c.MaxNFAStates = maxNFAStates
	c.MaxDFAStates = maxDFAStates
	return c
}

func (c Config) compilerConfig() nfa.CompilerConfig {
	return nfa.CompilerConfig{
		Anchored:          c.Anchored,
		DotNewline:        c.DotNewline,
		CaseInsensitive:   c.CaseInsensitive,
		Multiline:         c.Multiline,
		Literal:           c.Literal,
		MaxRecursionDepth: c.MaxRecursionDepth,
		MaxStates:         c.MaxNFAStates,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "redfa: invalid config: " + e.Field + ": " + e.Message
}
