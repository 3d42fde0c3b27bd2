package ast

import "strconv"

// Node represents an expression in the source snippet language.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the analyzer and the backend emitters: a new
// node kind forces every backend to add a case rather than falling into a
// silent generic path.
//
// Nodes are immutable after construction and are always handled by pointer,
// so pointer identity can key external annotation maps (see internal/reql).
type Node interface {
	exprNode() // Marker method - seals interface to this package
}

// StringLit is a string literal.
type StringLit struct {
	Value string
}

func (*StringLit) exprNode() {}

// BytesLit is a bytes literal. Each element is a raw octet, not a rune.
type BytesLit struct {
	Value []byte
}

func (*BytesLit) exprNode() {}

// NumberLit is a numeric literal.
//
// The source text is kept verbatim so backends can reproduce digits exactly
// (integers wider than 64 bits must not be rounded through a float). IsInt
// distinguishes integer from float literals, which backends render with
// different suffixes and declared types.
type NumberLit struct {
	Text  string
	IsInt bool
}

func (*NumberLit) exprNode() {}

// Int64 returns the literal's value when it is an integer that fits in 64
// bits. Backends use this for slice bounds and range arguments.
func (n *NumberLit) Int64() (int64, bool) {
	if !n.IsInt {
		return 0, false
	}
	v, err := strconv.ParseInt(n.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

func (*BoolLit) exprNode() {}

// NullLit is the null literal.
type NullLit struct{}

func (*NullLit) exprNode() {}

// Name is a bare identifier reference.
type Name struct {
	ID string
}

func (*Name) exprNode() {}

// Attribute is a dotted attribute access: Base.Attr.
type Attribute struct {
	Base Node
	Attr string
}

func (*Attribute) exprNode() {}

// Keyword is a named argument in a Call. It is not itself a Node; its
// query-expression status always follows the enclosing call.
type Keyword struct {
	Name  string
	Value Node
}

// Call is a function or method call with positional and keyword arguments.
// Positional arguments always precede keyword arguments.
type Call struct {
	Callee   Node
	Args     []Node
	Keywords []Keyword
}

func (*Call) exprNode() {}

// Subscript is an indexing expression: Base[Index]. Index is either an
// ordinary expression or a *SliceRange.
type Subscript struct {
	Base  Node
	Index Node
}

func (*Subscript) exprNode() {}

// SliceRange is the bracket-slice form Base[Lower:Upper:Step]. Any bound
// may be nil when omitted in the source.
type SliceRange struct {
	Lower Node
	Upper Node
	Step  Node
}

func (*SliceRange) exprNode() {}

// UnaryOp is a prefix operator application.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Node
}

func (*UnaryOp) exprNode() {}

// BinOp is a binary operator application.
type BinOp struct {
	Left  Node
	Op    BinOperator
	Right Node
}

func (*BinOp) exprNode() {}

// Compare is a comparison chain: Left Ops[0] Comparators[0] Ops[1] ...
// A single comparison has one op and one comparator. Chains longer than
// that are a documented per-backend capability limit.
type Compare struct {
	Left        Node
	Ops         []CmpOperator
	Comparators []Node
}

func (*Compare) exprNode() {}

// List is a list display: [a, b, c].
type List struct {
	Elems []Node
}

func (*List) exprNode() {}

// Tuple is a tuple display. Backends render it exactly like List.
type Tuple struct {
	Elems []Node
}

func (*Tuple) exprNode() {}

// Dict is a mapping display: {k: v, ...}. Keys and Values are parallel.
type Dict struct {
	Keys   []Node
	Values []Node
}

func (*Dict) exprNode() {}

// Lambda is an anonymous function with positional parameters only.
type Lambda struct {
	Params []string
	Body   Node
}

func (*Lambda) exprNode() {}

// Comprehension is the narrow range-map idiom [Elem for Target in Iter].
// General comprehensions are out of scope; only backends with a stream
// idiom translate it, and only when Iter is a range(...) call.
type Comprehension struct {
	Elem   Node
	Target Node
	Iter   Node
}

func (*Comprehension) exprNode() {}

// Assign is a simple assignment statement: Targets[0] = Value.
// Multiple targets are representable but rejected by every backend.
type Assign struct {
	Targets []Node
	Value   Node
}

func (*Assign) exprNode() {}
