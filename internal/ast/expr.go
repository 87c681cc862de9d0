// Package ast holds the shared intermediate representation all four
// compiler stages operate over: the expression arena, the statement and
// line models, and the program-wide source and final models.
package ast

import "github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"

// noChild marks an absent child/root index in an expression arena.
const noChild = -1

// Node is one entry in an expression arena: an operator, function,
// identifier, or literal, with left/right children addressed by index
// into the owning Expression's Nodes slice (spec §3 "Expression tree").
type Node struct {
	Tok      token.Token
	Left     int // index into Expression.Nodes, or -1
	Right    int // index into Expression.Nodes, or -1
	Args     []Expression // populated only for function calls and array subscripts
	Brackets bool         // true when this node was the root of a parenthesized sub-expression
	VType    token.ValueType
	ConstVal bool

	// NumValue/StrValue hold the folded constant value once the
	// validator has processed this node, valid only when ConstVal is
	// set. NumValue is always a double (spec §3); string-typed constant
	// nodes use StrValue.
	NumValue float64
	StrValue string
}

// Expression is a small arena of nodes plus a root index. An empty
// expression has Root == -1.
type Expression struct {
	Nodes []Node
	Root  int
}

// NewExpression returns an empty expression.
func NewExpression() Expression {
	return Expression{Root: noChild}
}

// IsEmpty reports whether the expression has no root node.
func (e Expression) IsEmpty() bool {
	return e.Root == noChild
}

// RootNode returns the root node. Callers must check IsEmpty first.
func (e *Expression) RootNode() *Node {
	return &e.Nodes[e.Root]
}

// AddNode appends a node to the arena and returns its index.
func (e *Expression) AddNode(n Node) int {
	e.Nodes = append(e.Nodes, n)
	return len(e.Nodes) - 1
}

// NewLeaf creates and appends a childless leaf node (literal, identifier,
// or zero-arg function) and returns its index.
func (e *Expression) NewLeaf(tok token.Token) int {
	return e.AddNode(Node{Tok: tok, Left: noChild, Right: noChild})
}

// GetParentIndex returns the index of the node whose Left or Right child
// is idx, or -1 if idx is the root or not found (mirrors
// ExpressionModel::GetParentIndex in the original source).
func (e *Expression) GetParentIndex(idx int) int {
	for i := range e.Nodes {
		if e.Nodes[i].Left == idx || e.Nodes[i].Right == idx {
			return i
		}
	}
	return noChild
}

// IsConstExpression reports whether the root node is fully constant.
// Valid only after validation has set ConstVal throughout the tree.
func (e Expression) IsConstExpression() bool {
	if e.IsEmpty() {
		return false
	}
	return e.Nodes[e.Root].ConstVal
}

// IsVariableExpression reports whether the root is a bare identifier
// reference (not a literal, not an operator, not a function call).
func (e Expression) IsVariableExpression() bool {
	if e.IsEmpty() {
		return false
	}
	root := e.Nodes[e.Root]
	return root.Tok.Kind == token.Identifier
}

// ValueType returns the root node's inferred value type.
func (e Expression) ValueType() token.ValueType {
	if e.IsEmpty() {
		return token.TypeNone
	}
	return e.Nodes[e.Root].VType
}

// AppendTree splices another expression's arena onto the end of e's
// Nodes, shifting all of src's internal indices by the insertion offset,
// and returns the new index of src's root within e. Used when splicing a
// parenthesized sub-expression, or a PRINT-rewrite replacement tree, into
// a host arena.
func (e *Expression) AppendTree(src Expression) int {
	if src.IsEmpty() {
		return noChild
	}
	offset := len(e.Nodes)
	for _, n := range src.Nodes {
		shifted := n
		if shifted.Left != noChild {
			shifted.Left += offset
		}
		if shifted.Right != noChild {
			shifted.Right += offset
		}
		e.Nodes = append(e.Nodes, shifted)
	}
	return src.Root + offset
}

// Priority returns the operator-precedence class for a node, per spec
// §4.2 (lower number binds tighter). Bracketed nodes and atoms return 1;
// non-operator nodes (identifiers, literals, function calls) are treated
// as atoms of priority 1 since they never need rotation past.
func (n Node) Priority() int {
	if n.Brackets {
		return 1
	}
	if n.Tok.Kind == token.Keyword {
		switch n.Tok.Tag {
		case token.KeywordMOD:
			return 5
		case token.KeywordAND:
			return 9
		case token.KeywordOR, token.KeywordXOR:
			return 10
		case token.KeywordEQV:
			return 11
		case token.KeywordIMP:
			return 12
		case token.KeywordNOT:
			return 8
		}
		return 1
	}
	if n.Tok.Kind != token.Operation {
		return 1
	}
	switch n.Tok.Text {
	case "^":
		return 2
	case "*", "/":
		return 3
	case "\\":
		return 4
	case "+", "-":
		return 6
	case "=", "<>", "<", ">", "<=", ">=":
		return 7
	}
	return 1
}

// IsComparison reports whether the node's operator is one of the six
// relational operators.
func (n Node) IsComparison() bool {
	if n.Tok.Kind != token.Operation {
		return false
	}
	switch n.Tok.Text {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// IsBinaryOperation reports whether the node's token is a binary
// operator symbol or keyword-form operator (excluding unary NOT).
func (t Node) IsBinaryOperation() bool {
	if t.Tok.Kind == token.Keyword {
		switch t.Tok.Tag {
		case token.KeywordMOD, token.KeywordAND, token.KeywordOR,
			token.KeywordXOR, token.KeywordEQV, token.KeywordIMP:
			return true
		}
		return false
	}
	if t.Tok.Kind != token.Operation {
		return false
	}
	switch t.Tok.Text {
	case "+", "-", "*", "/", "\\", "^", "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}
