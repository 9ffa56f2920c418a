// Package diagnostic formats pruning and parse errors for terminals.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/HugoDaniel/jsprune/internal/sourcemap"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is a single message about a source file. Line and Column are
// 1-based; a zero Line means the message has no position.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Column   int
	Message  string
}

func (d Diagnostic) Error() string {
	switch {
	case d.Line > 0 && d.File != "":
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
	case d.Line > 0:
		return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
	case d.File != "":
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// List collects diagnostics for a set of source files.
type List struct {
	sources map[string]*sourcemap.LineIndex
	diags   []Diagnostic
}

// NewList returns an empty list.
func NewList() *List {
	return &List{sources: make(map[string]*sourcemap.LineIndex)}
}

// AddSource registers the text of file so its diagnostics can quote it.
func (l *List) AddSource(file, code string) {
	l.sources[file] = sourcemap.NewLineIndex(code)
}

func (l *List) Add(d Diagnostic) { l.diags = append(l.diags, d) }

func (l *List) Len() int { return len(l.diags) }

// ErrorCount returns the number of diagnostics with Error severity.
func (l *List) ErrorCount() int {
	n := 0
	for _, d := range l.diags {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// Format renders every diagnostic followed by the offending source line
// and a caret under the reported column, when the source is known.
func (l *List) Format() string {
	var sb strings.Builder
	for _, d := range l.diags {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
		idx := l.sources[d.File]
		if idx == nil || d.Line < 1 {
			continue
		}
		text := idx.Line(d.Line - 1)
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "    %s\n", text)
		// Keep tabs so the caret lines up under tab-indented code.
		pad := []byte(text[:min(max(d.Column-1, 0), len(text))])
		for i, c := range pad {
			if c != '\t' {
				pad[i] = ' '
			}
		}
		fmt.Fprintf(&sb, "    %s^\n", pad)
	}
	return sb.String()
}
