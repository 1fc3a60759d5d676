package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	node := b.buildNode(tsNode)
	if node == nil {
		return nil
	}
	if node.Type == NodeProgram {
		node.Comments = b.collectComments(tsNode, nil)
	}
	node.linkParents()
	return node
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil || b.isTrivia(tsNode) {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "package_declaration":
		return b.buildDirective(tsNode, NodePackage, "package")
	case "import_declaration":
		return b.buildDirective(tsNode, NodeImport, "import")
	case "class_declaration":
		return b.buildTypeDeclaration(tsNode, NodeClass)
	case "interface_declaration":
		return b.buildTypeDeclaration(tsNode, NodeInterface)
	case "enum_declaration":
		return b.buildTypeDeclaration(tsNode, NodeEnum)
	case "record_declaration":
		return b.buildTypeDeclaration(tsNode, NodeRecord)
	case "annotation_type_declaration":
		return b.buildTypeDeclaration(tsNode, NodeAnnotationType)
	case "enum_constant":
		return b.buildEnumConstant(tsNode)
	case "method_declaration":
		return b.buildCallable(tsNode, NodeMethod)
	case "constructor_declaration", "compact_constructor_declaration":
		return b.buildCallable(tsNode, NodeConstructor)
	case "formal_parameter", "spread_parameter", "catch_formal_parameter":
		return b.buildParameter(tsNode)
	case "receiver_parameter":
		return nil
	case "field_declaration", "constant_declaration":
		return b.buildVariableDeclaration(tsNode, NodeField)
	case "local_variable_declaration":
		return b.buildVariableDeclaration(tsNode, NodeLocalVariable)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "static_initializer":
		return b.buildInitializer(tsNode)
	case "block", "constructor_body":
		return b.buildBlock(tsNode)
	case "switch_expression", "switch_statement":
		return b.buildSwitch(tsNode)
	case "switch_block_statement_group", "switch_rule":
		return b.buildSwitchCase(tsNode)
	case "switch_label":
		return b.buildSwitchLabel(tsNode)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "enhanced_for_statement":
		return b.buildEnhancedForStatement(tsNode)
	case "while_statement":
		return b.buildConditionalLoop(tsNode, NodeWhile)
	case "do_statement":
		return b.buildConditionalLoop(tsNode, NodeDo)
	case "try_statement":
		return b.buildTryStatement(tsNode, NodeTry)
	case "try_with_resources_statement":
		return b.buildTryStatement(tsNode, NodeTryWithResources)
	case "resource":
		return b.buildResource(tsNode)
	case "catch_clause":
		return b.buildCatchClause(tsNode)
	case "finally_clause":
		return b.buildFinallyClause(tsNode)
	case "return_statement":
		return b.buildContainer(tsNode, NodeReturn)
	case "throw_statement":
		return b.buildContainer(tsNode, NodeThrow)
	case "yield_statement":
		return b.buildContainer(tsNode, NodeYield)
	case "expression_statement":
		return b.buildContainer(tsNode, NodeExpressionStatement)
	case "break_statement":
		return b.buildLeaf(tsNode, NodeBreak)
	case "continue_statement":
		return b.buildLeaf(tsNode, NodeContinue)
	case "method_invocation":
		return b.buildMethodInvocation(tsNode)
	case "object_creation_expression":
		return b.buildObjectCreation(tsNode)
	case "lambda_expression":
		return b.buildLambda(tsNode)
	case "ternary_expression":
		return b.buildTernary(tsNode)
	case "binary_expression":
		return b.buildBinaryExpression(tsNode)
	case "field_access":
		return b.buildFieldAccess(tsNode)
	case "identifier":
		node := b.newNode(NodeIdentifier, tsNode)
		node.Name = tsNode.Content(b.source)
		return node
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal",
		"string_literal", "character_literal", "text_block", "true", "false", "null_literal":
		return b.buildLeaf(tsNode, NodeLiteral)
	default:
		return b.buildGenericNode(tsNode)
	}
}

// buildProgram builds a program node
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeProgram, tsNode)
	node.Body = b.buildNamedChildren(tsNode)
	return node
}

// buildDirective builds package and import declarations
func (b *ASTBuilder) buildDirective(tsNode *sitter.Node, nodeType NodeType, keyword string) *Node {
	node := b.newNode(nodeType, tsNode)
	node.Raw = tsNode.Content(b.source)

	name := strings.TrimSpace(node.Raw)
	name = strings.TrimPrefix(name, keyword)
	name = strings.TrimSuffix(strings.TrimSpace(name), ";")
	node.Name = strings.TrimSpace(name)
	return node
}

// buildTypeDeclaration builds class, interface, enum, record and annotation type declarations
func (b *ASTBuilder) buildTypeDeclaration(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)
	node.Name = b.fieldContent(tsNode, "name")
	b.extractModifiers(tsNode, node)

	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildMembers(bodyNode)
	}

	return node
}

// buildMembers builds the members of a class, interface or enum body
func (b *ASTBuilder) buildMembers(bodyNode *sitter.Node) []*Node {
	var members []*Node
	for _, child := range b.namedChildren(bodyNode) {
		if child.Type() == "enum_body_declarations" {
			members = append(members, b.buildMembers(child)...)
			continue
		}
		if member := b.buildNode(child); member != nil {
			members = append(members, member)
		}
	}
	return members
}

// buildEnumConstant builds an enum constant
func (b *ASTBuilder) buildEnumConstant(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeEnumConstant, tsNode)
	node.Name = b.fieldContent(tsNode, "name")
	b.extractModifiers(tsNode, node)

	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		node.Arguments = b.buildNamedChildren(argsNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildMembers(bodyNode)
	}
	return node
}

// buildCallable builds method and constructor declarations
func (b *ASTBuilder) buildCallable(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)
	node.Name = b.fieldContent(tsNode, "name")
	node.ValueType = b.fieldContent(tsNode, "type")
	b.extractModifiers(tsNode, node)

	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.HasBody = true
		node.Body = b.buildNamedChildren(bodyNode)
	}

	return node
}

// buildParameter builds formal, spread and catch parameters
func (b *ASTBuilder) buildParameter(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeParameter, tsNode)
	node.Name = b.fieldContent(tsNode, "name")
	node.ValueType = b.fieldContent(tsNode, "type")
	b.extractModifiers(tsNode, node)

	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "variable_declarator":
			// spread parameters carry their name in a declarator
			if node.Name == "" {
				node.Name = b.fieldContent(child, "name")
			}
		case "catch_type":
			node.ValueType = child.Content(b.source)
		case "modifiers", "identifier", "dimensions":
		default:
			if node.ValueType == "" {
				node.ValueType = child.Content(b.source)
			}
		}
	}
	if tsNode.Type() == "spread_parameter" {
		node.ValueType += "..."
	}

	return node
}

// buildParameters builds parameter list from formal_parameters node
func (b *ASTBuilder) buildParameters(tsNode *sitter.Node) []*Node {
	var params []*Node
	for _, child := range b.namedChildren(tsNode) {
		if param := b.buildNode(child); param != nil {
			params = append(params, param)
		}
	}
	return params
}

// buildVariableDeclaration builds field and local variable declarations
func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)
	node.ValueType = b.fieldContent(tsNode, "type")
	b.extractModifiers(tsNode, node)

	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "variable_declarator" {
			node.AddChild(b.buildVariableDeclarator(child))
		}
	}

	return node
}

// buildVariableDeclarator builds a single declared variable
func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeVariableDeclarator, tsNode)
	node.Name = b.fieldContent(tsNode, "name")

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Init = b.buildNode(valueNode)
	}

	return node
}

// buildInitializer builds a static initializer block
func (b *ASTBuilder) buildInitializer(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeInitializer, tsNode)
	node.Modifiers = []string{"static"}
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "block" {
			node.Body = b.buildNamedChildren(child)
		}
	}
	return node
}

// buildBlock builds a statement block
func (b *ASTBuilder) buildBlock(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeBlock, tsNode)
	node.Body = b.buildNamedChildren(tsNode)
	return node
}

// buildSwitch builds a switch statement or expression
func (b *ASTBuilder) buildSwitch(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitch, tsNode)
	node.IsExpression = !b.isStatementContext(tsNode.Parent())

	condNode := b.getChildByFieldName(tsNode, "condition")
	bodyNode := b.getChildByFieldName(tsNode, "body")
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "parenthesized_expression":
			if condNode == nil {
				condNode = child
			}
		case "switch_block":
			if bodyNode == nil {
				bodyNode = child
			}
		}
	}

	if condNode != nil {
		node.Condition = b.buildNode(condNode)
		node.Raw = stripParens(condNode.Content(b.source))
	}

	if bodyNode != nil {
		for _, child := range b.namedChildren(bodyNode) {
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildSwitchCase builds a statement group ("case X:") or a rule ("case X ->")
func (b *ASTBuilder) buildSwitchCase(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchCase, tsNode)
	node.IsArrow = tsNode.Type() == "switch_rule"

	for _, child := range b.namedChildren(tsNode) {
		built := b.buildNode(child)
		if built == nil {
			continue
		}
		if built.Type == NodeSwitchLabel {
			node.AddChild(built)
		} else {
			node.Body = append(node.Body, built)
		}
	}

	return node
}

// buildSwitchLabel builds a case or default label
func (b *ASTBuilder) buildSwitchLabel(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchLabel, tsNode)
	node.Raw = strings.TrimSpace(tsNode.Content(b.source))

	text := strings.TrimSuffix(strings.TrimSuffix(node.Raw, ":"), "->")
	text = strings.TrimSpace(text)
	if text == "default" {
		node.IsDefault = true
		node.Name = "default"
		return node
	}

	node.Name = "case"
	text = strings.TrimSpace(strings.TrimPrefix(text, "case"))
	for _, value := range splitTopLevel(text, ',') {
		value = strings.TrimSpace(value)
		switch value {
		case "":
		case "default":
			node.IsDefault = true
		default:
			node.Values = append(node.Values, value)
		}
	}

	return node
}

// buildIfStatement builds an if statement node
func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeIf, tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Condition = b.buildNode(condNode)
		node.Raw = stripParens(condNode.Content(b.source))
	}
	if consNode := b.getChildByFieldName(tsNode, "consequence"); consNode != nil {
		if cons := b.buildNode(consNode); cons != nil {
			node.Body = []*Node{cons}
		}
	}
	if altNode := b.getChildByFieldName(tsNode, "alternative"); altNode != nil {
		node.Alternate = b.buildNode(altNode)
	}

	return node
}

// buildForStatement builds a classic for loop
func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeFor, tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || !child.IsNamed() || b.isTrivia(child) {
			continue
		}
		switch tsNode.FieldNameForChild(i) {
		case "condition":
			node.Condition = b.buildNode(child)
			node.Raw = child.Content(b.source)
		case "body":
			if body := b.buildNode(child); body != nil {
				node.Body = []*Node{body}
			}
		default:
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildEnhancedForStatement builds a for-each loop
func (b *ASTBuilder) buildEnhancedForStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeForEach, tsNode)

	variable := b.newNode(NodeParameter, tsNode)
	variable.Name = b.fieldContent(tsNode, "name")
	variable.ValueType = b.fieldContent(tsNode, "type")
	b.extractModifiers(tsNode, variable)
	node.Params = []*Node{variable}

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Init = b.buildNode(valueNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if body := b.buildNode(bodyNode); body != nil {
			node.Body = []*Node{body}
		}
	}

	return node
}

// buildConditionalLoop builds while and do-while loops
func (b *ASTBuilder) buildConditionalLoop(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Condition = b.buildNode(condNode)
		node.Raw = stripParens(condNode.Content(b.source))
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if body := b.buildNode(bodyNode); body != nil {
			node.Body = []*Node{body}
		}
	}

	return node
}

// buildTryStatement builds try and try-with-resources statements
func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)

	if resNode := b.getChildByFieldName(tsNode, "resources"); resNode != nil {
		node.Params = b.buildParameters(resNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if body := b.buildNode(bodyNode); body != nil {
			node.Body = []*Node{body}
		}
	}
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "catch_clause", "finally_clause":
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildResource builds one resource of a try-with-resources statement
func (b *ASTBuilder) buildResource(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeResource, tsNode)
	node.Name = b.fieldContent(tsNode, "name")
	node.ValueType = b.fieldContent(tsNode, "type")
	node.Raw = tsNode.Content(b.source)
	b.extractModifiers(tsNode, node)

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Init = b.buildNode(valueNode)
	} else if node.Name == "" {
		// an existing variable used as a resource
		node.Name = strings.TrimSpace(node.Raw)
		for _, child := range b.namedChildren(tsNode) {
			node.Init = b.buildNode(child)
		}
	}

	return node
}

// buildCatchClause builds a catch clause node
func (b *ASTBuilder) buildCatchClause(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeCatch, tsNode)

	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "catch_formal_parameter":
			if param := b.buildNode(child); param != nil {
				node.Params = append(node.Params, param)
			}
		case "block":
			if body := b.buildNode(child); body != nil {
				node.Body = []*Node{body}
			}
		}
	}

	return node
}

// buildFinallyClause builds a finally clause node
func (b *ASTBuilder) buildFinallyClause(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeFinally, tsNode)
	for _, child := range b.namedChildren(tsNode) {
		if body := b.buildNode(child); body != nil {
			node.Body = append(node.Body, body)
		}
	}
	return node
}

// buildContainer builds statements whose only structure is their child expressions
func (b *ASTBuilder) buildContainer(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)
	for _, child := range b.buildNamedChildren(tsNode) {
		node.AddChild(child)
	}
	return node
}

// buildLeaf builds nodes that keep only their source text
func (b *ASTBuilder) buildLeaf(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)
	node.Raw = tsNode.Content(b.source)
	return node
}

// buildMethodInvocation builds a method call node
func (b *ASTBuilder) buildMethodInvocation(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMethodInvocation, tsNode)
	node.Name = b.fieldContent(tsNode, "name")
	node.Raw = tsNode.Content(b.source)

	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}
	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		node.Arguments = b.buildNamedChildren(argsNode)
	}

	return node
}

// buildObjectCreation builds a "new T(...)" expression
func (b *ASTBuilder) buildObjectCreation(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeObjectCreation, tsNode)
	node.ValueType = b.fieldContent(tsNode, "type")
	node.Raw = tsNode.Content(b.source)

	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		node.Arguments = b.buildNamedChildren(argsNode)
	}
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "class_body" {
			node.Body = b.buildMembers(child)
		}
	}

	return node
}

// buildLambda builds a lambda expression
func (b *ASTBuilder) buildLambda(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeLambda, tsNode)

	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		switch paramsNode.Type() {
		case "identifier":
			param := b.newNode(NodeParameter, paramsNode)
			param.Name = paramsNode.Content(b.source)
			node.Params = []*Node{param}
		case "inferred_parameters":
			for _, child := range b.namedChildren(paramsNode) {
				param := b.newNode(NodeParameter, child)
				param.Name = child.Content(b.source)
				node.Params = append(node.Params, param)
			}
		default:
			node.Params = b.buildParameters(paramsNode)
		}
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if body := b.buildNode(bodyNode); body != nil {
			node.Body = []*Node{body}
		}
	}

	return node
}

// buildTernary builds a conditional expression
func (b *ASTBuilder) buildTernary(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTernary, tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Condition = b.buildNode(condNode)
		node.Raw = condNode.Content(b.source)
	}
	node.AddChild(b.buildNode(b.getChildByFieldName(tsNode, "consequence")))
	node.AddChild(b.buildNode(b.getChildByFieldName(tsNode, "alternative")))

	return node
}

// buildBinaryExpression builds a binary expression node
func (b *ASTBuilder) buildBinaryExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeBinary, tsNode)
	node.Operator = b.fieldContent(tsNode, "operator")

	node.AddChild(b.buildNode(b.getChildByFieldName(tsNode, "left")))
	node.AddChild(b.buildNode(b.getChildByFieldName(tsNode, "right")))

	if node.Operator == "" {
		for i := 0; i < int(tsNode.ChildCount()); i++ {
			child := tsNode.Child(i)
			if child != nil && !child.IsNamed() && b.isOperator(child.Type()) {
				node.Operator = child.Type()
				break
			}
		}
	}

	return node
}

// buildFieldAccess builds "object.field"
func (b *ASTBuilder) buildFieldAccess(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeFieldAccess, tsNode)
	node.Name = b.fieldContent(tsNode, "field")
	node.Raw = tsNode.Content(b.source)

	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}

	return node
}

// buildGenericNode builds a generic node for unknown types
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeOther, tsNode)

	for _, child := range b.buildNamedChildren(tsNode) {
		node.AddChild(child)
	}
	if len(node.Children) == 0 {
		node.Raw = tsNode.Content(b.source)
	}

	return node
}

// Helper methods

// newNode creates a node carrying the location and syntax type of tsNode
func (b *ASTBuilder) newNode(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := NewNode(nodeType)
	node.SyntaxType = tsNode.Type()
	node.Location = b.getLocation(tsNode)
	return node
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	if tsNode == nil {
		return nil
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// fieldContent returns the source text of the named field, or ""
func (b *ASTBuilder) fieldContent(tsNode *sitter.Node, fieldName string) string {
	if child := b.getChildByFieldName(tsNode, fieldName); child != nil {
		return child.Content(b.source)
	}
	return ""
}

// namedChildren returns the named, non-comment children of tsNode
func (b *ASTBuilder) namedChildren(tsNode *sitter.Node) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			children = append(children, child)
		}
	}
	return children
}

// buildNamedChildren builds every named child of tsNode
func (b *ASTBuilder) buildNamedChildren(tsNode *sitter.Node) []*Node {
	var nodes []*Node
	for _, child := range b.namedChildren(tsNode) {
		if built := b.buildNode(child); built != nil {
			nodes = append(nodes, built)
		}
	}
	return nodes
}

// extractModifiers copies modifier keywords and annotation names onto node
func (b *ASTBuilder) extractModifiers(tsNode *sitter.Node, node *Node) {
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() != "modifiers" {
			continue
		}
		for i := 0; i < int(child.ChildCount()); i++ {
			mod := child.Child(i)
			if mod == nil || b.isTrivia(mod) {
				continue
			}
			switch mod.Type() {
			case "marker_annotation", "annotation":
				node.Annotations = append(node.Annotations, b.fieldContent(mod, "name"))
			default:
				node.Modifiers = append(node.Modifiers, mod.Content(b.source))
			}
		}
	}
}

// isStatementContext reports whether a node under parent is used as a statement
func (b *ASTBuilder) isStatementContext(parent *sitter.Node) bool {
	if parent == nil {
		return true
	}
	switch parent.Type() {
	case "program", "block", "constructor_body", "switch_block_statement_group",
		"labeled_statement", "if_statement", "while_statement", "for_statement",
		"enhanced_for_statement", "do_statement", "expression_statement", "static_initializer":
		return true
	}
	return false
}

// collectComments gathers every comment of the tree in source order
func (b *ASTBuilder) collectComments(tsNode *sitter.Node, comments []*Node) []*Node {
	if b.isTrivia(tsNode) && tsNode.Type() != "" {
		node := b.newNode(NodeComment, tsNode)
		node.Raw = tsNode.Content(b.source)
		return append(comments, node)
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil {
			comments = b.collectComments(child, comments)
		}
	}
	return comments
}

// isTrivia checks if a node is trivia (comments)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}

// isOperator checks if a node type is a binary operator
func (b *ASTBuilder) isOperator(nodeType string) bool {
	switch nodeType {
	case "+", "-", "*", "/", "%",
		"==", "!=", "<", ">", "<=", ">=",
		"&&", "||", "&", "|", "^",
		"<<", ">>", ">>>":
		return true
	}
	return false
}

// stripParens removes one pair of enclosing parentheses
func stripParens(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// splitTopLevel splits s on sep outside of parentheses, brackets and angle brackets
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '>', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	return append(parts, s[start:])
}
