package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Declarations
	KindSourceFile
	KindModuleVarBlock
	KindModuleVarDecl
	KindMethodBlock
	KindFuncDecl
	KindProcDecl
	KindArgumentList
	KindArgument
	KindExport
	KindVarBlock
	KindVarDecl
	KindAnnotation
	KindAnnotationParam

	// Statements
	KindCodeBlock
	KindEmptyStmt
	KindIfStmt
	KindElsIfClause
	KindElseClause
	KindWhileLoop
	KindForLoop
	KindForEachLoop
	KindTryStmt
	KindExceptClause
	KindReturnStmt
	KindRaiseStmt
	KindBreakStmt
	KindContinueStmt
	KindAddHandlerStmt
	KindRemoveHandlerStmt
	KindCallStmt
	KindAssignment

	// Expressions
	KindBinaryExpr
	KindUnaryExpr
	KindTernaryExpr
	KindNewExpr
	KindParenExpr
	KindCallExpr
	KindIndexExpr
	KindMemberExpr
	KindCallArgs
	KindEmptyArg
	KindIdentifier
	KindLiteral
	KindOperator
)

// Node kind names are the external names consumers match on.
var nodeKindNames = map[NodeKind]string{
	KindError:             "error",
	KindSourceFile:        "source_file",
	KindModuleVarBlock:    "module_var_block",
	KindModuleVarDecl:     "module_var_declaration",
	KindMethodBlock:       "method_block",
	KindFuncDecl:          "func_declaration",
	KindProcDecl:          "proc_declaration",
	KindArgumentList:      "argument_list",
	KindArgument:          "argument",
	KindExport:            "export",
	KindVarBlock:          "var_block",
	KindVarDecl:           "var_declaration",
	KindAnnotation:        "annotation",
	KindAnnotationParam:   "annotation_parameter",
	KindCodeBlock:         "code_block",
	KindEmptyStmt:         "empty_statement",
	KindIfStmt:            "if_statement",
	KindElsIfClause:       "elsif_clause",
	KindElseClause:        "else_clause",
	KindWhileLoop:         "while_loop",
	KindForLoop:           "for_loop",
	KindForEachLoop:       "for_each_loop",
	KindTryStmt:           "try_statement",
	KindExceptClause:      "except_clause",
	KindReturnStmt:        "return_statement",
	KindRaiseStmt:         "raise_operator",
	KindBreakStmt:         "break_statement",
	KindContinueStmt:      "continue_statement",
	KindAddHandlerStmt:    "add_handler",
	KindRemoveHandlerStmt: "remove_handler",
	KindCallStmt:          "call_statement",
	KindAssignment:        "assignment",
	KindBinaryExpr:        "binary_expression",
	KindUnaryExpr:         "unary_expression",
	KindTernaryExpr:       "ternary_operator",
	KindNewExpr:           "new_operator",
	KindParenExpr:         "parenthesized_expression",
	KindCallExpr:          "method_call",
	KindIndexExpr:         "index_access",
	KindMemberExpr:        "member_property",
	KindCallArgs:          "call_args",
	KindEmptyArg:          "empty_argument",
	KindIdentifier:        "identifier",
	KindLiteral:           "literal",
	KindOperator:          "operator",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Field names attach a semantic role to a child node.
const (
	FieldFuncName  = "func_name"
	FieldProcName  = "proc_name"
	FieldTypeName  = "type_name"
	FieldTarget    = "target"
	FieldValue     = "value"
	FieldName      = "name"
	FieldCondition = "condition"
	FieldBody      = "body"
	FieldLeft      = "left"
	FieldOperator  = "operator"
	FieldRight     = "right"
	FieldOperand   = "operand"
	FieldObject    = "object"
	FieldProperty  = "property"
	FieldIndex     = "index"
	FieldArguments = "arguments"
	FieldDefault   = "default"
	FieldVariable  = "variable"
	FieldIterable  = "iterable"
	FieldFrom      = "from"
	FieldTo        = "to"
	FieldThen      = "then"
	FieldElse      = "else"
	FieldEvent     = "event"
	FieldHandler   = "handler"
)

type Error struct {
	Message  string
	Expected []string
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Field    string
	Span     Span
	Children []*Node
	Token    *Token
	// Keyword is the role of a keyword operator or literal, or of the flag a
	// node stands for (Val on arguments, Export).
	Keyword Keyword
	Error   *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// AddField appends child under the given field name.
func (n *Node) AddField(field string, child *Node) {
	if child != nil {
		child.Field = field
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) ChildByField(field string) *Node {
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the identifier text of the node's name field.
func (n *Node) Name() string {
	for _, field := range []string{FieldFuncName, FieldProcName, FieldName} {
		if child := n.ChildByField(field); child != nil {
			return child.TokenLiteral()
		}
	}
	return ""
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// HasErrors reports whether the tree contains an error node.
func (n *Node) HasErrors() bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c.IsError() {
			found = true
		}
		return !found
	})
	return found
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	if n.Field != "" {
		b.WriteString(n.Field + ": ")
	}
	b.WriteString(n.Kind.String())
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}

// SExpr renders the tree compactly, e.g. (binary_expression (literal 1) +
// (literal 2)). Spans are omitted, which makes it suitable for comparing
// the structure of two parses.
func (n *Node) SExpr() string {
	var b strings.Builder
	n.writeSExpr(&b)
	return b.String()
}

func (n *Node) writeSExpr(b *strings.Builder) {
	switch n.Kind {
	case KindIdentifier, KindLiteral, KindOperator:
		if n.Keyword != KeywordNone {
			b.WriteString(n.Keyword.String())
		} else {
			b.WriteString(n.TokenLiteral())
		}
		return
	}
	b.WriteString("(")
	b.WriteString(n.Kind.String())
	if n.Keyword != KeywordNone {
		b.WriteString(" " + n.Keyword.String())
	}
	for _, child := range n.Children {
		b.WriteString(" ")
		child.writeSExpr(b)
	}
	b.WriteString(")")
}
