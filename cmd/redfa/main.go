// Command redfa compiles a regular expression and prints the resulting
// automaton.
//
// Usage:
//
//	redfa [-config file] [-anchored] [-nfa] [-dot] pattern
//
// By default the DFA is printed one state per line. With -nfa the NFA is
// printed after predicate elimination instead; with -dot the output is a
// Graphviz digraph.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/coregx/redfa"
)

type options struct {
	configPath string
	anchored   bool
	nfa        bool
	dot        bool
}

var errUsage = errors.New("usage: redfa [-config file] [-anchored] [-nfa] [-dot] pattern")

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML or JSON file with compilation settings")
	flag.BoolVar(&opts.anchored, "anchored", false, "match only at the start of the input")
	flag.BoolVar(&opts.nfa, "nfa", false, "print the NFA instead of the DFA")
	flag.BoolVar(&opts.dot, "dot", false, "print Graphviz DOT")
	flag.Parse()

	o := bufio.NewWriter(os.Stdout)
	if err := run(o, opts, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(w io.Writer, opts options, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	pattern := args[0]

	config, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.anchored {
		config.Anchored = true
	}

	n, err := redfa.CompileNFA(pattern, config)
	if err != nil {
		return err
	}
	if opts.nfa {
		if opts.dot {
			return n.WriteDot(w, pattern)
		}
		_, err = io.WriteString(w, n.String())
		return err
	}

	d, err := n.DeterminizeWithLimit(config.MaxDFAStates)
	if err != nil {
		return &redfa.CompileError{Pattern: pattern, Err: err}
	}
	if opts.dot {
		return d.WriteDot(w, pattern)
	}
	_, err = io.WriteString(w, d.String())
	return err
}

func loadConfig(path string) (redfa.Config, error) {
	if path == "" {
		return redfa.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return redfa.Config{}, fmt.Errorf("can't read config: %w", err)
	}
	return redfa.ParseConfig(data)
}
