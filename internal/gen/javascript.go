package gen

import (
	"strings"

	"github.com/deontologician/multireql/internal/ast"
	"github.com/deontologician/multireql/internal/casing"
	"github.com/deontologician/multireql/internal/reql"
)

// JavaScript renders the flagged tree as a JavaScript expression or var
// assignment.
func JavaScript(n ast.Node, flags reql.Flags, cfg Config) (string, error) {
	e := &jsEmitter{flags: flags, cfg: cfg}
	if err := e.visit(n); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

type jsEmitter struct {
	out   strings.Builder
	flags reql.Flags
	cfg   Config
}

func (e *jsEmitter) write(s string) {
	e.out.WriteString(s)
}

func (e *jsEmitter) visit(n ast.Node) error {
	switch n := n.(type) {
	case *ast.StringLit:
		e.write(reprString(n.Value))
		return nil
	case *ast.BytesLit:
		e.write("Buffer(")
		e.write(reprBytes(n.Value))
		e.write(", 'binary')")
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
		e.write("null")
		return nil
	case *ast.Name:
		e.write(casing.Dromedary(n.ID))
		return nil
	case *ast.Attribute:
		if err := e.visit(n.Base); err != nil {
			return err
		}
		e.write(".")
		if e.flags.IsReql(n) {
			e.write(casing.Dromedary(n.Attr))
		} else {
			e.write(n.Attr)
		}
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
		return e.object(n)
	case *ast.Lambda:
		return e.lambda(n)
	case *ast.Comprehension:
		return unmodeled(TargetJS, n, "list comprehension not implemented yet")
	case *ast.Assign:
		return e.assign(n)
	default:
		return unmodeled(TargetJS, n, "no rule for node kind %T", n)
	}
}

func (e *jsEmitter) assign(n *ast.Assign) error {
	if len(n.Targets) != 1 {
		return unmodeled(TargetJS, n, "we only support assigning to one variable")
	}
	target, ok := n.Targets[0].(*ast.Name)
	if !ok {
		return unmodeled(TargetJS, n, "assignment target must be an identifier")
	}
	e.write("var ")
	e.write(target.ID)
	e.write(" = ")
	return e.visit(n.Value)
}

// call renders positional arguments followed by one trailing options
// object holding the keyword arguments.
func (e *jsEmitter) call(n *ast.Call) error {
	if err := e.visit(n.Callee); err != nil {
		return err
	}
	e.write("(")
	for i, arg := range n.Args {
		if i > 0 {
			e.write(", ")
		}
		if err := e.visit(arg); err != nil {
			return err
		}
	}
	if len(n.Keywords) > 0 {
		if len(n.Args) > 0 {
			e.write(", ")
		}
		e.write("{")
		tagged := e.flags.IsReql(n)
		for i, kw := range n.Keywords {
			if i > 0 {
				e.write(", ")
			}
			if tagged {
				e.write(casing.Dromedary(kw.Name))
			} else {
				e.write(kw.Name)
			}
			e.write(": ")
			if err := e.visit(kw.Value); err != nil {
				return err
			}
		}
		e.write("}")
	}
	e.write(")")
	return nil
}

func (e *jsEmitter) subscript(n *ast.Subscript) error {
	if err := e.visit(n.Base); err != nil {
		return err
	}
	if slice, ok := n.Index.(*ast.SliceRange); ok {
		e.write(".slice(")
		if slice.Lower == nil {
			e.write("0")
		} else if err := e.visit(slice.Lower); err != nil {
			return err
		}
		if slice.Upper != nil {
			e.write(", ")
			if err := e.visit(slice.Upper); err != nil {
				return err
			}
		}
		e.write(")")
		return nil
	}
	// A query expression indexes through a call; everything else uses
	// native bracket syntax.
	if e.flags.IsReql(n) {
		e.write("(")
		if err := e.visit(n.Index); err != nil {
			return err
		}
		e.write(")")
		return nil
	}
	e.write("[")
	if err := e.visit(n.Index); err != nil {
		return err
	}
	e.write("]")
	return nil
}

var jsReqlUnaryMethods = map[ast.UnaryOperator]string{
	ast.UnaryInvert: "not",
}

func (e *jsEmitter) unary(n *ast.UnaryOp) error {
	if e.flags.IsReql(n) {
		method, ok := jsReqlUnaryMethods[n.Op]
		if !ok {
			return unmodeled(TargetJS, n, "no query method for unary operator %s", n.Op)
		}
		if err := e.visit(n.Operand); err != nil {
			return err
		}
		e.write(".")
		e.write(method)
		e.write("()")
		return nil
	}
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

func (e *jsEmitter) binop(n *ast.BinOp) error {
	if e.flags.IsReql(n) {
		method, ok := reqlBinOpMethods[n.Op]
		if !ok {
			return unmodeled(TargetJS, n, "no query method for operator %s", n.Op)
		}
		lift := !e.flags.IsReql(n.Left)
		if lift {
			e.write("r.expr(")
		}
		if err := e.visit(n.Left); err != nil {
			return err
		}
		if lift {
			e.write(")")
		}
		e.write(".")
		e.write(method)
		e.write("(")
		if err := e.visit(n.Right); err != nil {
			return err
		}
		e.write(")")
		return nil
	}
	op, ok := binOpNative[n.Op]
	if !ok {
		return unmodeled(TargetJS, n, "no native rendering for operator %s", n.Op)
	}
	if err := e.visit(n.Left); err != nil {
		return err
	}
	e.write(op)
	return e.visit(n.Right)
}

func (e *jsEmitter) compare(n *ast.Compare) error {
	if len(n.Comparators) > 1 {
		return ambiguous(TargetJS, n, "chained comparison not supported")
	}
	if len(n.Comparators) == 0 {
		return unmodeled(TargetJS, n, "comparison without comparator")
	}
	right := n.Comparators[0]
	if e.flags.IsReql(n) {
		e.write("(")
		if err := e.visit(n.Left); err != nil {
			return err
		}
		e.write(").")
		e.write(reqlCmpMethods[n.Ops[0]])
		e.write("(")
		if err := e.visit(right); err != nil {
			return err
		}
		e.write(")")
		return nil
	}
	if err := e.visit(n.Left); err != nil {
		return err
	}
	e.write(cmpOpNative[n.Ops[0]])
	return e.visit(right)
}

func (e *jsEmitter) list(elems []ast.Node) error {
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

func (e *jsEmitter) object(n *ast.Dict) error {
	e.write("{")
	for i := range n.Keys {
		if i > 0 {
			e.write(", ")
		}
		if err := e.visit(n.Keys[i]); err != nil {
			return err
		}
		e.write(": ")
		if err := e.visit(n.Values[i]); err != nil {
			return err
		}
	}
	e.write("}")
	return nil
}

func (e *jsEmitter) lambda(n *ast.Lambda) error {
	e.write("function(")
	e.write(strings.Join(n.Params, ", "))
	e.write(") { return ")
	if err := e.visit(n.Body); err != nil {
		return err
	}
	e.write(" }")
	return nil
}
