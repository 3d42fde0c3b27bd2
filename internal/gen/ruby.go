package gen

import (
	"strings"

	"github.com/deontologician/multireql/internal/ast"
	"github.com/deontologician/multireql/internal/reql"
)

// Ruby renders the flagged tree as a Ruby expression or assignment.
//
// The Ruby driver overloads the native operators on query values, so no
// operator is ever rewritten into a method chain here; binary operations
// are parenthesized instead to keep the source precedence.
func Ruby(n ast.Node, flags reql.Flags, cfg Config) (string, error) {
	e := &rubyEmitter{flags: flags, cfg: cfg}
	if err := e.visit(n); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

type rubyEmitter struct {
	out   strings.Builder
	flags reql.Flags
	cfg   Config
}

func (e *rubyEmitter) write(s string) {
	e.out.WriteString(s)
}

func (e *rubyEmitter) visit(n ast.Node) error {
	switch n := n.(type) {
	case *ast.StringLit:
		e.write(reprString(n.Value))
		return nil
	case *ast.BytesLit:
		e.write(reprBytes(n.Value))
		e.write(".force_encoding('BINARY')")
		return nil
	case *ast.NumberLit:
		e.write(n.Text)
		return nil
	case *ast.BoolLit:
		if n.Value {
			e.write("true")
		} else {
			e.write("false")
		}
		return nil
	case *ast.NullLit:
		e.write("nil")
		return nil
	case *ast.Name:
		return e.name(n)
	case *ast.Attribute:
		if err := e.visit(n.Base); err != nil {
			return err
		}
		e.write(".")
		e.write(n.Attr)
		return nil
	case *ast.Call:
		return e.call(n)
	case *ast.Subscript:
		return e.subscript(n)
	case *ast.UnaryOp:
		return e.unary(n)
	case *ast.BinOp:
		return e.binop(n)
	case *ast.Compare:
		return e.compare(n)
	case *ast.List:
		return e.list(n.Elems)
	case *ast.Tuple:
		return e.list(n.Elems)
	case *ast.Dict:
		return e.hash(n)
	case *ast.Lambda:
		return e.block(n)
	case *ast.Comprehension:
		return unmodeled(TargetRuby, n, "list comprehension not implemented yet")
	case *ast.Assign:
		return e.assign(n)
	default:
		return unmodeled(TargetRuby, n, "no rule for node kind %T", n)
	}
}

func (e *rubyEmitter) name(n *ast.Name) error {
	if n.ID == "frozenset" {
		return unsupported(TargetRuby, n, "can't convert frozensets")
	}
	switch n.ID {
	case "True":
		e.write("true")
	case "False":
		e.write("false")
	case "None":
		e.write("nil")
	default:
		e.write(n.ID)
	}
	return nil
}

func (e *rubyEmitter) assign(n *ast.Assign) error {
	if len(n.Targets) != 1 {
		return unmodeled(TargetRuby, n, "we only support assigning to one variable")
	}
	target, ok := n.Targets[0].(*ast.Name)
	if !ok {
		return unmodeled(TargetRuby, n, "assignment target must be an identifier")
	}
	e.write(target.ID)
	e.write(" = ")
	return e.visit(n.Value)
}

func (e *rubyEmitter) call(n *ast.Call) error {
	// r.expr(foo) is spelled r(foo) in Ruby.
	if attrMatches(n.Callee, "r", "expr") {
		e.write("r")
	} else if err := e.visit(n.Callee); err != nil {
		return err
	}
	// A trailing lambda renders as a block after the argument list.
	if len(n.Args) > 0 {
		if lambda, ok := n.Args[len(n.Args)-1].(*ast.Lambda); ok {
			if err := e.args(n.Args[:len(n.Args)-1], n.Keywords); err != nil {
				return err
			}
			return e.block(lambda)
		}
	}
	return e.args(n.Args, n.Keywords)
}

// args renders the argument list with keywords inline as name: value
// pairs. Idiomatic Ruby skips empty parens entirely.
func (e *rubyEmitter) args(args []ast.Node, keywords []ast.Keyword) error {
	if len(args) == 0 && len(keywords) == 0 {
		return nil
	}
	e.write("(")
	for i, arg := range args {
		if i > 0 {
			e.write(", ")
		}
		if err := e.visit(arg); err != nil {
			return err
		}
	}
	for i, kw := range keywords {
		if i > 0 || len(args) > 0 {
			e.write(", ")
		}
		e.write(kw.Name)
		e.write(": ")
		if err := e.visit(kw.Value); err != nil {
			return err
		}
	}
	e.write(")")
	return nil
}

func (e *rubyEmitter) subscript(n *ast.Subscript) error {
	if err := e.visit(n.Base); err != nil {
		return err
	}
	if slice, ok := n.Index.(*ast.SliceRange); ok {
		e.write("[(")
		if slice.Lower == nil {
			e.write("0")
		} else if err := e.visit(slice.Lower); err != nil {
			return err
		}
		if slice.Upper != nil {
			e.write("...")
			if err := e.visit(slice.Upper); err != nil {
				return err
			}
		} else {
			// Ruby has no upper-open tail slice; the inclusive -1 range
			// compensates.
			e.write("..-1")
		}
		e.write(")]")
		return nil
	}
	e.write("[")
	if err := e.visit(n.Index); err != nil {
		return err
	}
	e.write("]")
	return nil
}

func (e *rubyEmitter) unary(n *ast.UnaryOp) error {
	switch n.Op {
	case ast.UnaryNeg:
		e.write("-")
	case ast.UnaryPos:
		e.write("+")
	case ast.UnaryNot:
		e.write("!")
	case ast.UnaryInvert:
		e.write("~")
	}
	return e.visit(n.Operand)
}

var rubyBinOps = map[ast.BinOperator]string{
	ast.BinAdd:    " + ",
	ast.BinSub:    " - ",
	ast.BinMul:    " * ",
	ast.BinDiv:    " / ",
	ast.BinMod:    " % ",
	ast.BinPow:    " ** ",
	ast.BinBitAnd: " & ",
	ast.BinBitOr:  " | ",
}

func (e *rubyEmitter) binop(n *ast.BinOp) error {
	op, ok := rubyBinOps[n.Op]
	if !ok {
		return unmodeled(TargetRuby, n, "no rendering for operator %s", n.Op)
	}
	e.write("(")
	if err := e.visit(n.Left); err != nil {
		return err
	}
	e.write(op)
	if err := e.visit(n.Right); err != nil {
		return err
	}
	e.write(")")
	return nil
}

// compare renders a chain pairwise: a < b < c becomes a < b && b < c.
func (e *rubyEmitter) compare(n *ast.Compare) error {
	if len(n.Comparators) == 0 {
		return unmodeled(TargetRuby, n, "comparison without comparator")
	}
	left := n.Left
	for i, op := range n.Ops {
		if i > 0 {
			e.write(" && ")
		}
		right := n.Comparators[i]
		if err := e.visit(left); err != nil {
			return err
		}
		e.write(cmpOpNative[op])
		if err := e.visit(right); err != nil {
			return err
		}
		left = right
	}
	return nil
}

func (e *rubyEmitter) list(elems []ast.Node) error {
	e.write("[")
	for i, elem := range elems {
		if i > 0 {
			e.write(", ")
		}
		if err := e.visit(elem); err != nil {
			return err
		}
	}
	e.write("]")
	return nil
}

func (e *rubyEmitter) hash(n *ast.Dict) error {
	e.write("{")
	for i := range n.Keys {
		if i > 0 {
			e.write(", ")
		}
		if err := e.visit(n.Keys[i]); err != nil {
			return err
		}
		e.write(" => ")
		if err := e.visit(n.Values[i]); err != nil {
			return err
		}
	}
	e.write("}")
	return nil
}

func (e *rubyEmitter) block(n *ast.Lambda) error {
	e.write("{|")
	e.write(strings.Join(n.Params, ", "))
	e.write("| ")
	if err := e.visit(n.Body); err != nil {
		return err
	}
	e.write("}")
	return nil
}
