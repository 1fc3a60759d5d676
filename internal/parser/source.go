package parser

import (
	"context"
	"strings"
)

// Source is the per-file representation handed to detectors: the raw lines
// of the file and its shallow tree. A Source is never modified after creation.
type Source struct {
	Path    string
	Content []byte
	Lines   []string
	Tree    *Node

	codeLines []string
}

// Stats holds the declaration and branch counts of a file
type Stats struct {
	Classes  int
	Methods  int
	Branches int
}

// NewSource creates a Source for already parsed content
func NewSource(path string, content []byte, tree *Node) *Source {
	lines := SplitLines(content)
	return &Source{
		Path:      path,
		Content:   content,
		Lines:     lines,
		Tree:      tree,
		codeLines: StripCommentsAndStrings(lines),
	}
}

// ParseSource parses Java content into a Source
func ParseSource(path string, content []byte) (*Source, error) {
	return ParseSourceContext(context.Background(), path, content)
}

// ParseSourceContext is ParseSource with cancellation
func ParseSourceContext(ctx context.Context, path string, content []byte) (*Source, error) {
	p := NewParser()
	defer p.Close()

	tree, err := p.ParseFileContext(ctx, path, content)
	if err != nil {
		return nil, err
	}
	return NewSource(path, content, tree), nil
}

// CodeLines returns the lines of the file with comments and the contents of
// string and character literals blanked out. Line numbers are preserved.
func (s *Source) CodeLines() []string {
	return s.codeLines
}

// Line returns the 1-based physical line n, or "" when out of range
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.Lines) {
		return ""
	}
	return s.Lines[n-1]
}

// LOC returns the number of code lines of the file
func (s *Source) LOC() int {
	return CountLOC(s.Lines)
}

// Stats counts type declarations, callables and branch statements
func (s *Source) Stats() Stats {
	var st Stats
	s.Tree.Walk(func(n *Node) bool {
		switch {
		case n.IsTypeDeclaration():
			st.Classes++
		case n.IsCallable():
			st.Methods++
		case n.Type == NodeIf, n.Type == NodeFor, n.Type == NodeForEach,
			n.Type == NodeWhile, n.Type == NodeDo:
			st.Branches++
		}
		return true
	})
	return st
}

// SplitLines splits content into physical lines without line terminators
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return []string{}
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// CountLOC counts non-blank lines that do not start with a comment marker
func CountLOC(lines []string) int {
	loc := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "//") ||
			strings.HasPrefix(trimmed, "/*") ||
			strings.HasPrefix(trimmed, "*") {
			continue
		}
		loc++
	}
	return loc
}

type scanState int

const (
	scanCode scanState = iota
	scanBlockComment
	scanTextBlock
)

// StripCommentsAndStrings blanks comments and literal contents with spaces.
// Quote characters are kept so that empty literals remain visible.
func StripCommentsAndStrings(lines []string) []string {
	out := make([]string, len(lines))
	state := scanCode

	for li, line := range lines {
		runes := []rune(line)
		buf := make([]rune, len(runes))
		copy(buf, runes)

		for i := 0; i < len(runes); i++ {
			switch state {
			case scanBlockComment:
				if runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/' {
					buf[i], buf[i+1] = ' ', ' '
					i++
					state = scanCode
					continue
				}
				buf[i] = ' '

			case scanTextBlock:
				if hasPrefixAt(runes, i, `"""`) {
					i += 2
					state = scanCode
					continue
				}
				if runes[i] == '\\' && i+1 < len(runes) {
					buf[i], buf[i+1] = ' ', ' '
					i++
					continue
				}
				buf[i] = ' '

			default:
				switch {
				case hasPrefixAt(runes, i, "//"):
					for j := i; j < len(runes); j++ {
						buf[j] = ' '
					}
					i = len(runes)
				case hasPrefixAt(runes, i, "/*"):
					buf[i], buf[i+1] = ' ', ' '
					i++
					state = scanBlockComment
				case hasPrefixAt(runes, i, `"""`):
					i += 2
					state = scanTextBlock
				case runes[i] == '"' || runes[i] == '\'':
					i = blankLiteral(runes, buf, i)
				}
			}
		}

		out[li] = string(buf)
	}

	return out
}

// blankLiteral blanks a single-line string or char literal starting at the
// opening quote and returns the index of the closing quote
func blankLiteral(runes, buf []rune, start int) int {
	quote := runes[start]
	for j := start + 1; j < len(runes); j++ {
		switch runes[j] {
		case '\\':
			buf[j] = ' '
			if j+1 < len(runes) {
				buf[j+1] = ' '
			}
			j++
		case quote:
			return j
		default:
			buf[j] = ' '
		}
	}
	return len(runes)
}

func hasPrefixAt(runes []rune, i int, prefix string) bool {
	p := []rune(prefix)
	if i+len(p) > len(runes) {
		return false
	}
	for k, r := range p {
		if runes[i+k] != r {
			return false
		}
	}
	return true
}
