// Package repl provides a read/prune/print loop for jsprune.
//
// It supports readline-style command editing. Each entry is pruned on its
// own, against the externs declared so far, and the result is printed.
//
// If an input line parses on its own, it is pruned right away. Otherwise
// the REPL reads lines until a blank line and prunes the whole chunk.
// Lines starting with a colon are commands:
//
//	:externs <code>   declare extern names, e.g. ":externs var window;"
//	:reset            forget all externs
//	:help             list commands
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/HugoDaniel/jsprune/internal/optimizer"
	"github.com/HugoDaniel/jsprune/internal/parser"
)

const (
	prompt     = ">>> "
	contPrompt = "... "
)

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

// Session holds the externs declared so far.
type Session struct {
	opts    optimizer.Options
	externs []string
	out     io.Writer
	errOut  io.Writer
}

// NewSession returns a session writing results to out and errors to errOut.
func NewSession(opts optimizer.Options, out, errOut io.Writer) *Session {
	return &Session{opts: opts, out: out, errOut: errOut}
}

// AddExterns declares extern names for every following entry.
func (s *Session) AddExterns(code string) {
	s.externs = append(s.externs, code)
}

// Run reads entries from a readline instance on the terminal until EOF.
func (s *Session) Run(history string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
		Stderr:          s.errOut,
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	return s.loop(rl)
}

func (s *Session) loop(rl lineReader) error {
	for {
		err := s.rep(rl)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(s.errOut, err)
		case errors.Is(err, io.EOF):
			return nil
		default:
			return err
		}
	}
}

// rep reads, prunes and prints one entry. It returns an error only if
// reading failed; pruning errors are printed.
func (s *Session) rep(rl lineReader) error {
	rl.SetPrompt(prompt)
	line, err := rl.Readline()
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, ":") {
		s.command(trimmed)
		return nil
	}

	chunk := line
	if _, errs := parser.New(chunk).Parse(); len(errs) > 0 {
		rl.SetPrompt(contPrompt)
		for {
			more, err := rl.Readline()
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if strings.TrimSpace(more) == "" || err != nil {
				break
			}
			chunk += "\n" + more
		}
	}
	s.prune(chunk)
	return nil
}

func (s *Session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	switch name {
	case ":externs":
		if _, errs := parser.New(arg).Parse(); len(errs) > 0 {
			fmt.Fprintf(s.errOut, "externs: %v\n", errs[0])
			return
		}
		s.AddExterns(arg)
	case ":reset":
		s.externs = nil
	case ":help":
		fmt.Fprintln(s.out, ":externs <code>  declare extern names")
		fmt.Fprintln(s.out, ":reset           forget all externs")
	default:
		fmt.Fprintf(s.errOut, "unknown command %s\n", name)
	}
}

func (s *Session) prune(code string) {
	result := optimizer.New(s.opts).Prune(code, strings.Join(s.externs, "\n"))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintf(s.errOut, "%d:%d: %s\n", e.Line, e.Column, e.Message)
		}
		return
	}
	out := result.Code()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	io.WriteString(s.out, out)
}
