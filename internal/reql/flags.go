package reql

import "github.com/deontologician/multireql/internal/ast"

// DefaultRoot is the identifier conventionally bound to the query-builder
// entry point in fixture snippets.
const DefaultRoot = "r"

// Flags maps node identity to its query-expression flag. Missing nodes
// read as false, matching the default for unmodeled kinds.
type Flags map[ast.Node]bool

// IsReql reports whether the analyzer flagged n as a query expression.
func (f Flags) IsReql(n ast.Node) bool { return f[n] }

// Analyze flags every node of the tree rooted at n, with DefaultRoot as
// the only query-root name and no inherited context.
func Analyze(n ast.Node) Flags {
	return AnalyzeWith(n, []string{DefaultRoot}, false)
}

// AnalyzeWith flags every node of the tree rooted at n under the given
// query-root names. When inherited is true, n is treated as if it were an
// argument of an enclosing query call.
func AnalyzeWith(n ast.Node, rootNames []string, inherited bool) Flags {
	roots := make(map[string]bool, len(rootNames))
	for _, name := range rootNames {
		roots[name] = true
	}
	a := &analyzer{roots: roots, inherited: inherited, flags: make(Flags)}
	a.visit(n)
	return a.flags
}

// analyzer carries the ambient scope for one region of the tree. Scoped
// sub-analyses (lambda bodies, query-call arguments) get their own analyzer
// sharing the same flag map.
type analyzer struct {
	roots     map[string]bool
	inherited bool
	flags     Flags
}

func (a *analyzer) sub(roots map[string]bool, inherited bool) *analyzer {
	return &analyzer{roots: roots, inherited: inherited, flags: a.flags}
}

// visit computes and records the flag for n, recursing into children with
// the appropriate scope, and returns the flag.
func (a *analyzer) visit(n ast.Node) bool {
	var flag bool
	switch n := n.(type) {
	case *ast.Name:
		flag = a.roots[n.ID]

	case *ast.Attribute:
		flag = a.visit(n.Base)

	case *ast.Call:
		flag = a.visit(n.Callee)
		// Arguments of a query call are analyzed with inherited context so
		// a predicate lambda passed to it is recognized as part of the
		// query. A non-query call leaves its arguments' context unchanged.
		args := a
		if flag {
			args = a.sub(a.roots, true)
		}
		for _, arg := range n.Args {
			args.visit(arg)
		}
		for _, kw := range n.Keywords {
			args.visit(kw.Value)
		}

	case *ast.Lambda:
		flag = a.inherited
		if a.inherited {
			scope := make(map[string]bool, len(a.roots)+len(n.Params))
			for name := range a.roots {
				scope[name] = true
			}
			for _, p := range n.Params {
				scope[p] = true
			}
			a.sub(scope, false).visit(n.Body)
		} else {
			a.sub(a.roots, false).visit(n.Body)
		}

	case *ast.Subscript:
		flag = a.visit(n.Base)
		a.sub(a.roots, flag).visit(n.Index)

	case *ast.SliceRange:
		flag = a.inherited
		fresh := a.sub(a.roots, false)
		if n.Lower != nil {
			fresh.visit(n.Lower)
		}
		if n.Step != nil {
			fresh.visit(n.Step)
		}
		if n.Upper != nil {
			fresh.visit(n.Upper)
		}

	case *ast.BinOp:
		left := a.visit(n.Left)
		right := a.visit(n.Right)
		// Exponentiation has no query-API operator, so it never lifts an
		// expression into the query API.
		flag = n.Op != ast.BinPow && (left || right)

	case *ast.Compare:
		flag = a.visit(n.Left)
		for _, comp := range n.Comparators {
			if a.visit(comp) {
				flag = true
			}
		}

	case *ast.UnaryOp:
		flag = a.visit(n.Operand)

	case *ast.List:
		for _, elem := range n.Elems {
			a.visit(elem)
		}

	case *ast.Tuple:
		for _, elem := range n.Elems {
			a.visit(elem)
		}

	case *ast.Dict:
		for i := range n.Keys {
			a.visit(n.Keys[i])
			a.visit(n.Values[i])
		}

	case *ast.Comprehension:
		a.visit(n.Target)
		a.visit(n.Iter)
		a.visit(n.Elem)

	case *ast.Assign:
		flag = a.visit(n.Value)

	default:
		// Literals and unmodeled kinds: never query expressions.
	}
	a.flags[n] = flag
	return flag
}
