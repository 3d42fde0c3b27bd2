// Package gen renders analyzed expression trees as source text for the
// supported target languages.
//
// Each backend is a single left-to-right pass with an exhaustive dispatch
// over the closed node-kind set: an unhandled kind aborts the conversion
// rather than falling back to a generic rendering. Backends share the
// analyzer flags and the case converter but fix their own lexical rule
// tables (reserved words, operator method names, escaping, slice
// semantics) and their own ordered skip rules for shapes their driver
// cannot express.
//
// Emitting the same flagged tree under the same Config twice yields
// byte-identical text, and the static rule tables are never mutated, so
// independent conversions are safe to run concurrently.
package gen

import (
	"github.com/deontologician/multireql/internal/ast"
	"github.com/deontologician/multireql/internal/reql"
)

// Target names a backend language.
type Target string

const (
	TargetJava Target = "java"
	TargetJS   Target = "js"
	TargetRuby Target = "rb"
)

// Targets lists every backend in rendering order.
var Targets = []Target{TargetRuby, TargetJS, TargetJava}

// Config holds the per-conversion emitter settings.
type Config struct {
	// RootNames are the identifiers bound to the query-builder root.
	// Defaults to {reql.DefaultRoot} when empty.
	RootNames []string

	// DeclaredType is the expected value kind of the expression, used by
	// typed backends to derive the declared type of an assignment.
	DeclaredType *ast.Provenance

	// CastNull inserts an explicit upcast to the query-expression base type
	// before null call arguments, disambiguating overload resolution.
	CastNull bool

	// SmartBracket renders integer and string subscripts as distinct sugar
	// calls instead of one generic indexing call.
	SmartBracket bool
}

// DefaultConfig returns the settings the fixture harness uses.
func DefaultConfig() Config {
	return Config{CastNull: true, SmartBracket: true}
}

// Convert renders the flagged tree for a single target.
func Convert(target Target, n ast.Node, flags reql.Flags, cfg Config) (string, error) {
	switch target {
	case TargetJava:
		return Java(n, flags, cfg)
	case TargetJS:
		return JavaScript(n, flags, cfg)
	case TargetRuby:
		return Ruby(n, flags, cfg)
	default:
		return "", unmodeled(target, nil, "unknown target %q", string(target))
	}
}

// binOpNative is the native infix spelling of each binary operator, shared
// by the backends that render untagged arithmetic without parentheses.
var binOpNative = map[ast.BinOperator]string{
	ast.BinAdd: " + ",
	ast.BinSub: " - ",
	ast.BinMul: " * ",
	ast.BinDiv: " / ",
	ast.BinMod: " % ",
	ast.BinPow: " ** ",
}

// reqlBinOpMethods maps binary operators to their query-API method names.
// Exponentiation deliberately has no entry.
var reqlBinOpMethods = map[ast.BinOperator]string{
	ast.BinAdd: "add",
	ast.BinSub: "sub",
	ast.BinMul: "mul",
	ast.BinDiv: "div",
	ast.BinMod: "mod",
}

// cmpOpNative is the native infix spelling of each comparison operator.
var cmpOpNative = map[ast.CmpOperator]string{
	ast.CmpLt:    " < ",
	ast.CmpGt:    " > ",
	ast.CmpGtE:   " >= ",
	ast.CmpLtE:   " <= ",
	ast.CmpEq:    " == ",
	ast.CmpNotEq: " != ",
}

// reqlCmpMethods maps comparison operators to their query-API method names.
var reqlCmpMethods = map[ast.CmpOperator]string{
	ast.CmpLt:    "lt",
	ast.CmpGt:    "gt",
	ast.CmpGtE:   "ge",
	ast.CmpLtE:   "le",
	ast.CmpEq:    "eq",
	ast.CmpNotEq: "ne",
}

// isName reports whether n is a bare identifier with the given name.
func isName(n ast.Node, name string) bool {
	id, ok := n.(*ast.Name)
	return ok && id.ID == name
}

// attrMatches reports whether n is the attribute access root.name.
func attrMatches(n ast.Node, root, name string) bool {
	attr, ok := n.(*ast.Attribute)
	return ok && attr.Attr == name && isName(attr.Base, root)
}
