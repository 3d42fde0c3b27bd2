// Package reql decides, per subexpression, whether a parsed snippet node
// belongs to the embedded query-builder API or is an ordinary host-language
// expression.
//
// The analysis is a single recursive pass combining a top-down scope push
// (which identifiers are currently bound to the query root, and whether the
// surrounding expression was passed to a query call) with a bottom-up flag
// computation. Results are kept in an external identity-keyed map rather
// than written onto the nodes, so one physical tree can be analyzed under
// different scopes without aliasing hazards.
//
// The pass itself never fails: a node kind without a rule is flagged false.
package reql
