package sourcemap

import "testing"

func TestLineIndexEmpty(t *testing.T) {
	idx := NewLineIndex("")
	if idx.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", idx.LineCount())
	}
	if line, col := idx.Position(0); line != 0 || col != 0 {
		t.Errorf("Position(0) = (%d, %d), want (0, 0)", line, col)
	}
}

func TestPosition(t *testing.T) {
	src := "var a;\nvar b;\r\nvar c;\rvar d;\u2028f();"
	idx := NewLineIndex(src)
	if idx.LineCount() != 5 {
		t.Fatalf("LineCount() = %d, want 5", idx.LineCount())
	}

	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 0, 0},
		{4, 0, 4},
		{6, 0, 6},  // '\n'
		{7, 1, 0},  // 'v' of var b
		{13, 1, 6}, // '\r' of CRLF
		{15, 2, 0},
		{22, 3, 0},
		{-5, 0, 0},
		{len(src) + 10, 4, 4},
	}
	for _, tt := range tests {
		line, col := idx.Position(tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("Position(%d) = (%d, %d), want (%d, %d)", tt.offset, line, col, tt.line, tt.col)
		}
		if tt.offset >= 0 && tt.offset <= len(src) {
			if got := idx.Offset(line, col); got != tt.offset {
				t.Errorf("Offset(%d, %d) = %d, want %d", line, col, got, tt.offset)
			}
		}
	}
}

func TestLine(t *testing.T) {
	idx := NewLineIndex("a();\r\nb();\u2028c();\n")
	for i, want := range []string{"a();", "b();", "c();", ""} {
		if got := idx.Line(i); got != want {
			t.Errorf("Line(%d) = %q, want %q", i, got, want)
		}
	}
}
