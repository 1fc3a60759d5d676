// Package testutil provides helper functions for testing smellscan components
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/smellscan/internal/parser"
)

// CreateTestAST creates a test AST from Java source code
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// CreateTestSource parses Java source code into a detector input.
// Leading newlines are trimmed so line numbers in tests start at the first code line.
func CreateTestSource(t *testing.T, path, source string) *parser.Source {
	t.Helper()
	src, err := parser.ParseSource(path, []byte(strings.TrimLeft(source, "\n")))
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return src
}

// WriteFiles creates the given files (relative path -> content) under dir
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// FindCallable finds a method or constructor node by name in the AST
func FindCallable(ast *parser.Node, name string) *parser.Node {
	var found *parser.Node
	ast.Walk(func(n *parser.Node) bool {
		if found != nil {
			return false
		}
		if n.IsCallable() && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountNodesOfType counts nodes of a specific type in an AST
func CountNodesOfType(ast *parser.Node, nodeType parser.NodeType) int {
	return len(ast.FindType(nodeType))
}
