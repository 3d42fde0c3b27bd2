// Package pyparse parses single-expression fixture snippets into the
// closed node-kind set the analyzer and backends operate on.
//
// The grammar is the expression subset the polyglot corpus actually uses:
// literals, names, attribute/call/subscript postfix chains, slices,
// lambdas, list/tuple/dict displays, the range-map comprehension idiom,
// arithmetic and bitwise operators, comparison chains, and simple
// assignment. Statements beyond assignment are out of scope.
package pyparse

import (
	"github.com/deontologician/multireql/internal/ast"
)

// Parse parses one snippet: an expression or a simple assignment.
func Parse(src string) (ast.Node, error) {
	p := &parser{lex: &lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, errAt(p.tok.pos, "trailing input after expression")
	}
	return node, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) isOp(op string) bool {
	return p.tok.kind == tokOp && p.tok.text == op
}

func (p *parser) expectOp(op string) error {
	if !p.isOp(op) {
		return errAt(p.tok.pos, "expected %q", op)
	}
	return p.advance()
}

// parseStatement parses an expression, upgrading it into an assignment if
// an = follows. a = b = expr folds into one Assign with two targets.
func (p *parser) parseStatement() (ast.Node, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp("=") {
		return expr, nil
	}
	targets := []ast.Node{expr}
	var value ast.Node
	for p.isOp("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if value != nil {
			targets = append(targets, value)
		}
		value = next
	}
	return &ast.Assign{Targets: targets, Value: value}, nil
}

// parseExpr parses at the lambda level, the loosest-binding form.
func (p *parser) parseExpr() (ast.Node, error) {
	if p.tok.kind == tokName && p.tok.text == "lambda" {
		return p.parseLambda()
	}
	return p.parseNot()
}

func (p *parser) parseLambda() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []string
	for p.tok.kind == tokName {
		params = append(params, p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isOp(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body}, nil
}

func (p *parser) parseNot() (ast.Node, error) {
	if p.tok.kind == tokName && p.tok.text == "not" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

var cmpOps = map[string]ast.CmpOperator{
	"<":  ast.CmpLt,
	"<=": ast.CmpLtE,
	">":  ast.CmpGt,
	">=": ast.CmpGtE,
	"==": ast.CmpEq,
	"!=": ast.CmpNotEq,
}

func (p *parser) parseComparison() (ast.Node, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	var ops []ast.CmpOperator
	var comparators []ast.Node
	for p.tok.kind == tokOp {
		op, ok := cmpOps[p.tok.text]
		if !ok {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comparators = append(comparators, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Compare{Left: left, Ops: ops, Comparators: comparators}, nil
}

func (p *parser) parseBitOr() (ast.Node, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.isOp("|") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: ast.BinBitOr, Right: right}
	}
	return left, nil
}

func (p *parser) parseBitAnd() (ast.Node, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	for p.isOp("&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: ast.BinBitAnd, Right: right}
	}
	return left, nil
}

func (p *parser) parseArith() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := ast.BinAdd
		if p.tok.text == "-" {
			op = ast.BinSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") || p.isOp("%") {
		var op ast.BinOperator
		switch p.tok.text {
		case "*":
			op = ast.BinMul
		case "/":
			op = ast.BinDiv
		case "%":
			op = ast.BinMod
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Node, error) {
	if p.tok.kind == tokOp {
		var op ast.UnaryOperator
		switch p.tok.text {
		case "-":
			op = ast.UnaryNeg
		case "+":
			op = ast.UnaryPos
		case "~":
			op = ast.UnaryInvert
		default:
			return p.parsePower()
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower handles the right-associative ** operator, which binds
// tighter than unary on its left but looser on its right.
func (p *parser) parsePower() (ast.Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Left: base, Op: ast.BinPow, Right: exp}, nil
}

// parsePostfix parses an atom followed by any chain of attribute access,
// calls, and subscripts.
func (p *parser) parsePostfix() (ast.Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokName {
				return nil, errAt(p.tok.pos, "expected attribute name")
			}
			node = &ast.Attribute{Base: node, Attr: p.tok.text}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.isOp("("):
			call, err := p.parseCall(node)
			if err != nil {
				return nil, err
			}
			node = call
		case p.isOp("["):
			sub, err := p.parseSubscript(node)
			if err != nil {
				return nil, err
			}
			node = sub
		default:
			return node, nil
		}
	}
}

func (p *parser) parseCall(callee ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	call := &ast.Call{Callee: callee}
	for !p.isOp(")") {
		// A name followed by = (but not ==) is a keyword argument.
		if p.tok.kind == tokName {
			name := p.tok.text
			mark := *p.lex
			tokMark := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.isOp("=") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				value, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				call.Keywords = append(call.Keywords, ast.Keyword{Name: name, Value: value})
				if p.isOp(",") {
					if err := p.advance(); err != nil {
						return nil, err
					}
				}
				continue
			}
			*p.lex = mark
			p.tok = tokMark
		}
		if len(call.Keywords) > 0 {
			return nil, errAt(p.tok.pos, "positional argument after keyword argument")
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.isOp(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parseSubscript(base ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var lower, upper, step ast.Node
	var err error
	isSlice := false
	if !p.isOp(":") {
		lower, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.isOp(":") {
		isSlice = true
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isOp(":") && !p.isOp("]") {
			upper, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.isOp(":") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if !p.isOp("]") {
				step, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	if isSlice {
		return &ast.Subscript{Base: base, Index: &ast.SliceRange{Lower: lower, Upper: upper, Step: step}}, nil
	}
	return &ast.Subscript{Base: base, Index: lower}, nil
}

func (p *parser) parseAtom() (ast.Node, error) {
	switch p.tok.kind {
	case tokInt:
		node := &ast.NumberLit{Text: p.tok.text, IsInt: true}
		return node, p.advance()
	case tokFloat:
		node := &ast.NumberLit{Text: p.tok.text, IsInt: false}
		return node, p.advance()
	case tokString:
		node := &ast.StringLit{Value: p.tok.text}
		return node, p.advance()
	case tokBytes:
		data, err := bytesValue(p.tok.text, p.tok.pos)
		if err != nil {
			return nil, err
		}
		return &ast.BytesLit{Value: data}, p.advance()
	case tokName:
		switch p.tok.text {
		case "True":
			return &ast.BoolLit{Value: true}, p.advance()
		case "False":
			return &ast.BoolLit{Value: false}, p.advance()
		case "None":
			return &ast.NullLit{}, p.advance()
		case "lambda":
			return p.parseLambda()
		case "and", "or", "in", "is", "for":
			return nil, errAt(p.tok.pos, "unsupported keyword %q in expression", p.tok.text)
		}
		node := &ast.Name{ID: p.tok.text}
		return node, p.advance()
	case tokOp:
		switch p.tok.text {
		case "(":
			return p.parseParenOrTuple()
		case "[":
			return p.parseListOrComprehension()
		case "{":
			return p.parseDict()
		}
	}
	return nil, errAt(p.tok.pos, "unexpected token %q", p.tok.text)
}

func (p *parser) parseParenOrTuple() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.isOp(")") {
		// Empty tuple.
		return &ast.Tuple{}, p.advance()
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []ast.Node{first}
	for p.isOp(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isOp(")") {
			break
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &ast.Tuple{Elems: elems}, nil
}

func (p *parser) parseListOrComprehension() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.isOp("]") {
		return &ast.List{}, p.advance()
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokName && p.tok.text == "for" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokName {
			return nil, errAt(p.tok.pos, "expected comprehension target name")
		}
		target := &ast.Name{ID: p.tok.text}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokName || p.tok.text != "in" {
			return nil, errAt(p.tok.pos, "expected 'in' in comprehension")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		iter, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp("]"); err != nil {
			return nil, err
		}
		return &ast.Comprehension{Elem: first, Target: target, Iter: iter}, nil
	}
	elems := []ast.Node{first}
	for p.isOp(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isOp("]") {
			break
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &ast.List{Elems: elems}, nil
}

func (p *parser) parseDict() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	dict := &ast.Dict{}
	for !p.isOp("}") {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, value)
		if p.isOp(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return dict, nil
}

// bytesValue converts a decoded bytes-literal payload back to raw octets.
func bytesValue(text string, pos int) ([]byte, error) {
	data := make([]byte, 0, len(text))
	for _, r := range text {
		if r > 0xff {
			return nil, errAt(pos, "bytes literal contains non-octet %q", r)
		}
		data = append(data, byte(r))
	}
	return data, nil
}
