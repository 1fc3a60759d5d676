package parser

import (
	"strings"
	"testing"
)

func TestStripCommentsAndStrings(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "line comment",
			lines: []string{"int x = 42; // 99 bottles"},
			want:  []string{"int x = 42;" + strings.Repeat(" ", 14)},
		},
		{
			name:  "string literal",
			lines: []string{`s = "a 42 b";`},
			want:  []string{`s = "      ";`},
		},
		{
			name:  "escaped quote",
			lines: []string{`s = "x\"7";`},
			want:  []string{`s = "    ";`},
		},
		{
			name:  "char literal",
			lines: []string{`c = '7';`},
			want:  []string{`c = ' ';`},
		},
		{
			name:  "block comment across lines",
			lines: []string{"a = 1; /* 42", "  still 7 */ b = 3;"},
			want:  []string{"a = 1;      ", "             b = 3;"},
		},
		{
			name:  "text block",
			lines: []string{`s = """`, "  12 apples", `  """;`},
			want:  []string{`s = """`, "           ", `  """;`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCommentsAndStrings(tt.lines)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i+1, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCountLOC(t *testing.T) {
	lines := []string{
		"package a;",
		"",
		"// comment",
		"/* block",
		" * javadoc",
		" */",
		"class A {",
		"    int x;",
		"}",
		"   ",
	}
	if got := CountLOC(lines); got != 4 {
		t.Errorf("CountLOC = %d, want 4", got)
	}
}

func TestSplitLines(t *testing.T) {
	if got := SplitLines(nil); len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}
	got := SplitLines([]byte("a\r\nb\nc\n"))
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("unexpected lines %q", got)
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("A.java", []byte(`class A {
    void f(int n) {
        if (n > 0) { for (int i = 0; i < n; i++) {} }
        while (n-- > 0) {}
    }
    A() {}
}
`))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if src.LOC() != 7 {
		t.Errorf("LOC = %d, want 7", src.LOC())
	}
	if src.Line(1) != "class A {" || src.Line(0) != "" || src.Line(100) != "" {
		t.Error("Line should be 1-based and bounds-checked")
	}

	st := src.Stats()
	if st.Classes != 1 || st.Methods != 2 || st.Branches != 3 {
		t.Errorf("Stats = %+v, want 1 class, 2 methods, 3 branches", st)
	}

	if _, err := ParseSource("B.java", []byte("class {")); err == nil {
		t.Error("expected parse error")
	}
}
