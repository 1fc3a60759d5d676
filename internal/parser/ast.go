package parser

import (
	"fmt"
	"strings"
)

// NodeType represents the type of AST node
type NodeType string

// Java AST node types
const (
	// Program and structure
	NodeProgram NodeType = "Program"
	NodePackage NodeType = "PackageDeclaration"
	NodeImport  NodeType = "ImportDeclaration"

	// Type declarations
	NodeClass          NodeType = "ClassDeclaration"
	NodeInterface      NodeType = "InterfaceDeclaration"
	NodeEnum           NodeType = "EnumDeclaration"
	NodeRecord         NodeType = "RecordDeclaration"
	NodeAnnotationType NodeType = "AnnotationTypeDeclaration"
	NodeEnumConstant   NodeType = "EnumConstant"

	// Members
	NodeMethod      NodeType = "MethodDeclaration"
	NodeConstructor NodeType = "ConstructorDeclaration"
	NodeParameter   NodeType = "Parameter"
	NodeField       NodeType = "FieldDeclaration"
	NodeInitializer NodeType = "Initializer"

	// Variables
	NodeLocalVariable      NodeType = "LocalVariableDeclaration"
	NodeVariableDeclarator NodeType = "VariableDeclarator"

	// Statements
	NodeBlock               NodeType = "Block"
	NodeSwitch              NodeType = "Switch"
	NodeSwitchCase          NodeType = "SwitchCase"
	NodeSwitchLabel         NodeType = "SwitchLabel"
	NodeIf                  NodeType = "IfStatement"
	NodeFor                 NodeType = "ForStatement"
	NodeForEach             NodeType = "EnhancedForStatement"
	NodeWhile               NodeType = "WhileStatement"
	NodeDo                  NodeType = "DoStatement"
	NodeTry                 NodeType = "TryStatement"
	NodeTryWithResources    NodeType = "TryWithResourcesStatement"
	NodeResource            NodeType = "Resource"
	NodeCatch               NodeType = "CatchClause"
	NodeFinally             NodeType = "FinallyClause"
	NodeReturn              NodeType = "ReturnStatement"
	NodeBreak               NodeType = "BreakStatement"
	NodeContinue            NodeType = "ContinueStatement"
	NodeThrow               NodeType = "ThrowStatement"
	NodeYield               NodeType = "YieldStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"

	// Expressions
	NodeMethodInvocation NodeType = "MethodInvocation"
	NodeObjectCreation   NodeType = "ObjectCreation"
	NodeLambda           NodeType = "Lambda"
	NodeTernary          NodeType = "Ternary"
	NodeBinary           NodeType = "BinaryExpression"
	NodeFieldAccess      NodeType = "FieldAccess"
	NodeIdentifier       NodeType = "Identifier"
	NodeLiteral          NodeType = "Literal"

	// Comments are collected on the program node
	NodeComment NodeType = "Comment"

	// NodeOther covers every construct without a dedicated type
	NodeOther NodeType = "Other"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents a node of the shallow Java tree.
// Every child node is reachable through exactly one of the slice or pointer fields.
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// SyntaxType is the tree-sitter node type the node was built from
	SyntaxType string

	// Name holds declaration, identifier, label or invoked method names
	Name string

	// Raw is the source text of leaves, labels, comments and conditions
	Raw string

	Modifiers   []string
	Annotations []string

	// ValueType is the declared type of fields, locals, parameters and the
	// return type of methods
	ValueType string

	Params    []*Node
	Body      []*Node
	Arguments []*Node

	Condition *Node
	Init      *Node
	Object    *Node
	Alternate *Node

	// Operator is set on binary expressions
	Operator string

	// HasBody is false for abstract and native methods
	HasBody bool

	// IsExpression marks a switch used for its value
	IsExpression bool

	// IsDefault marks a default switch label; IsArrow marks "case X ->" rules
	IsDefault bool
	IsArrow   bool

	// Values holds the constants of a case label
	Values []string

	// Comments is only set on the program node
	Comments []*Node
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type: nodeType,
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the tree depth-first in pre-order and calls the visitor for each node.
// If the visitor returns false, traversal of that branch is stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	n.eachChild(func(child *Node) {
		child.Walk(visitor)
	})
}

// eachChild calls fn for every direct child in walk order
func (n *Node) eachChild(fn func(*Node)) {
	each := func(nodes []*Node) {
		for _, child := range nodes {
			if child != nil {
				fn(child)
			}
		}
	}
	one := func(child *Node) {
		if child != nil {
			fn(child)
		}
	}

	each(n.Params)
	one(n.Condition)
	one(n.Object)
	each(n.Arguments)
	one(n.Init)
	each(n.Children)
	each(n.Body)
	one(n.Alternate)
	each(n.Comments)
}

// linkParents sets the Parent pointer of every node below n
func (n *Node) linkParents() {
	n.eachChild(func(child *Node) {
		child.Parent = n
		child.linkParents()
	})
}

// Find returns every node in the subtree (including n) for which match returns true
func (n *Node) Find(match func(*Node) bool) []*Node {
	var found []*Node
	n.Walk(func(node *Node) bool {
		if match(node) {
			found = append(found, node)
		}
		return true
	})
	return found
}

// FindType returns every node of the given types in the subtree, in pre-order
func (n *Node) FindType(types ...NodeType) []*Node {
	return n.Find(func(node *Node) bool {
		for _, t := range types {
			if node.Type == t {
				return true
			}
		}
		return false
	})
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// HasModifier reports whether the declaration carries the given modifier keyword
func (n *Node) HasModifier(modifier string) bool {
	for _, m := range n.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

// HasAnnotation reports whether the declaration carries the named annotation
func (n *Node) HasAnnotation(name string) bool {
	name = strings.TrimPrefix(name, "@")
	for _, a := range n.Annotations {
		if a == name || strings.HasSuffix(a, "."+name) {
			return true
		}
	}
	return false
}

// IsTypeDeclaration returns true for class, interface, enum, record and annotation declarations
func (n *Node) IsTypeDeclaration() bool {
	switch n.Type {
	case NodeClass, NodeInterface, NodeEnum, NodeRecord, NodeAnnotationType:
		return true
	}
	return false
}

// IsCallable returns true for methods and constructors
func (n *Node) IsCallable() bool {
	return n.Type == NodeMethod || n.Type == NodeConstructor
}

// IsLoop returns true for loop statements
func (n *Node) IsLoop() bool {
	switch n.Type {
	case NodeFor, NodeForEach, NodeWhile, NodeDo:
		return true
	}
	return false
}

// IsControlFlow returns true for statements that open a nested control path
func (n *Node) IsControlFlow() bool {
	switch n.Type {
	case NodeIf, NodeFor, NodeForEach, NodeWhile, NodeDo, NodeSwitch,
		NodeTry, NodeTryWithResources:
		return true
	}
	return false
}

// EnclosingCallable returns the nearest enclosing method or constructor
func (n *Node) EnclosingCallable() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsCallable() {
			return p
		}
		if p.Type == NodeLambda || p.IsTypeDeclaration() {
			return nil
		}
	}
	return nil
}

// EnclosingType returns the nearest enclosing type declaration
func (n *Node) EnclosingType() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsTypeDeclaration() {
			return p
		}
	}
	return nil
}

// Statements returns the statements of a block-like node: the body of a
// block, or the node itself for a single statement
func (n *Node) Statements() []*Node {
	if n == nil {
		return nil
	}
	if n.Type == NodeBlock {
		return n.Body
	}
	return []*Node{n}
}
