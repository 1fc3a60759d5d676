package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// SyntaxError locates the first error or missing node of a rejected file
type SyntaxError struct {
	File   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error in %s", e.File)
	}
	return fmt.Sprintf("syntax error in %s at line %d, column %d", e.File, e.Line, e.Column)
}

// Parser turns Java source into the shallow Node tree.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser for the Java grammar
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile parses a whole compilation unit
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	return p.ParseFileContext(context.Background(), filename, source)
}

// ParseFileContext parses a compilation unit, giving up when ctx is done.
// Any syntax error rejects the file with a *SyntaxError.
func (p *Parser) ParseFileContext(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", filename)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}
	if root.HasError() {
		syntaxErr := &SyntaxError{File: filename}
		if bad := firstErrorNode(root); bad != nil {
			syntaxErr.Line = int(bad.StartPoint().Row) + 1
			syntaxErr.Column = int(bad.StartPoint().Column) + 1
		}
		return nil, syntaxErr
	}

	return NewASTBuilder(filename, source).Build(root), nil
}

// ParseString parses a source snippet
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile("<input>", []byte(source))
}

// Close frees the tree-sitter parser
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// firstErrorNode returns the first ERROR or missing node in document order
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstErrorNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
