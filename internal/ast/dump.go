package ast

import (
	"fmt"
	"strings"
)

// Dump renders a node as a compact structural string for diagnostics.
// Conversion failures embed this so a batch caller can log the offending
// shape and continue.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *StringLit:
		fmt.Fprintf(b, "String(%q)", n.Value)
	case *BytesLit:
		fmt.Fprintf(b, "Bytes(%q)", n.Value)
	case *NumberLit:
		fmt.Fprintf(b, "Number(%s)", n.Text)
	case *BoolLit:
		fmt.Fprintf(b, "Bool(%t)", n.Value)
	case *NullLit:
		b.WriteString("Null")
	case *Name:
		fmt.Fprintf(b, "Name(%s)", n.ID)
	case *Attribute:
		b.WriteString("Attribute(")
		dump(b, n.Base)
		b.WriteString(", ")
		b.WriteString(n.Attr)
		b.WriteString(")")
	case *Call:
		b.WriteString("Call(")
		dump(b, n.Callee)
		for _, arg := range n.Args {
			b.WriteString(", ")
			dump(b, arg)
		}
		for _, kw := range n.Keywords {
			fmt.Fprintf(b, ", %s=", kw.Name)
			dump(b, kw.Value)
		}
		b.WriteString(")")
	case *Subscript:
		b.WriteString("Subscript(")
		dump(b, n.Base)
		b.WriteString(", ")
		dump(b, n.Index)
		b.WriteString(")")
	case *SliceRange:
		b.WriteString("Slice(")
		dump(b, n.Lower)
		b.WriteString(":")
		dump(b, n.Upper)
		if n.Step != nil {
			b.WriteString(":")
			dump(b, n.Step)
		}
		b.WriteString(")")
	case *UnaryOp:
		fmt.Fprintf(b, "Unary(%s, ", n.Op)
		dump(b, n.Operand)
		b.WriteString(")")
	case *BinOp:
		b.WriteString("Bin(")
		dump(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Op)
		dump(b, n.Right)
		b.WriteString(")")
	case *Compare:
		b.WriteString("Compare(")
		dump(b, n.Left)
		for i, op := range n.Ops {
			fmt.Fprintf(b, " %s ", op)
			dump(b, n.Comparators[i])
		}
		b.WriteString(")")
	case *List:
		b.WriteString("List(")
		dumpList(b, n.Elems)
		b.WriteString(")")
	case *Tuple:
		b.WriteString("Tuple(")
		dumpList(b, n.Elems)
		b.WriteString(")")
	case *Dict:
		b.WriteString("Dict(")
		for i := range n.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			dump(b, n.Keys[i])
			b.WriteString(": ")
			dump(b, n.Values[i])
		}
		b.WriteString(")")
	case *Lambda:
		fmt.Fprintf(b, "Lambda(%s, ", strings.Join(n.Params, ", "))
		dump(b, n.Body)
		b.WriteString(")")
	case *Comprehension:
		b.WriteString("Comprehension(")
		dump(b, n.Elem)
		b.WriteString(" for ")
		dump(b, n.Target)
		b.WriteString(" in ")
		dump(b, n.Iter)
		b.WriteString(")")
	case *Assign:
		b.WriteString("Assign(")
		dumpList(b, n.Targets)
		b.WriteString(" = ")
		dump(b, n.Value)
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "%T", n)
	}
}

func dumpList(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		dump(b, n)
	}
}
