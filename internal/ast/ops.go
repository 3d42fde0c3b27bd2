package ast

import "fmt"

// UnaryOperator identifies a prefix operator.
type UnaryOperator int

const (
	UnaryNeg    UnaryOperator = iota // -x
	UnaryPos                         // +x
	UnaryNot                         // not x
	UnaryInvert                      // ~x
)

// String returns the source form of the operator.
func (op UnaryOperator) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryPos:
		return "+"
	case UnaryNot:
		return "not"
	case UnaryInvert:
		return "~"
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(op))
}

// BinOperator identifies a binary operator.
type BinOperator int

const (
	BinAdd BinOperator = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinBitAnd
	BinBitOr
)

// String returns the source form of the operator.
func (op BinOperator) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinMod:
		return "%"
	case BinPow:
		return "**"
	case BinBitAnd:
		return "&"
	case BinBitOr:
		return "|"
	}
	return fmt.Sprintf("BinOperator(%d)", int(op))
}

// CmpOperator identifies a comparison operator.
type CmpOperator int

const (
	CmpLt CmpOperator = iota
	CmpLtE
	CmpGt
	CmpGtE
	CmpEq
	CmpNotEq
)

// String returns the source form of the operator.
func (op CmpOperator) String() string {
	switch op {
	case CmpLt:
		return "<"
	case CmpLtE:
		return "<="
	case CmpGt:
		return ">"
	case CmpGtE:
		return ">="
	case CmpEq:
		return "=="
	case CmpNotEq:
		return "!="
	}
	return fmt.Sprintf("CmpOperator(%d)", int(op))
}
