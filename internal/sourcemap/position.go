// Package sourcemap maps byte offsets in JavaScript source to the
// line/column positions reported in diagnostics.
package sourcemap

import (
	"sort"
	"unicode/utf8"
)

// LineIndex converts byte offsets to line and column numbers. Line breaks
// follow ECMAScript LineTerminator: LF, CR, CRLF, U+2028 and U+2029.
type LineIndex struct {
	src    string
	starts []int
}

// NewLineIndex scans src once for line terminators.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); {
		next := -1
		switch c := src[i]; {
		case c == '\n':
			next = i + 1
		case c == '\r':
			next = i + 1
			if next < len(src) && src[next] == '\n' {
				next++
			}
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(src[i:])
			if r == '\u2028' || r == '\u2029' {
				next = i + size
			} else {
				i += size
				continue
			}
		}
		if next < 0 {
			i++
			continue
		}
		if next < len(src) {
			starts = append(starts, next)
		}
		i = next
	}
	return &LineIndex{src: src, starts: starts}
}

// LineCount returns the number of lines, at least 1.
func (x *LineIndex) LineCount() int { return len(x.starts) }

// Position returns the 0-based line and byte column of offset. Offsets out
// of range are clamped to the source.
func (x *LineIndex) Position(offset int) (line, col int) {
	offset = min(max(offset, 0), len(x.src))
	line = sort.SearchInts(x.starts, offset+1) - 1
	return line, offset - x.starts[line]
}

// Offset is the inverse of Position.
func (x *LineIndex) Offset(line, col int) int {
	line = min(max(line, 0), len(x.starts)-1)
	return min(max(x.starts[line]+col, 0), len(x.src))
}

// Line returns the text of a 0-based line without its terminator.
func (x *LineIndex) Line(line int) string {
	if line < 0 || line >= len(x.starts) {
		return ""
	}
	end := len(x.src)
	if line+1 < len(x.starts) {
		end = x.starts[line+1]
	}
	text := x.src[x.starts[line]:end]
	for len(text) > 0 {
		if c := text[len(text)-1]; c == '\n' || c == '\r' {
			text = text[:len(text)-1]
			continue
		}
		r, size := utf8.DecodeLastRuneInString(text)
		if r != '\u2028' && r != '\u2029' {
			break
		}
		text = text[:len(text)-size]
	}
	return text
}
