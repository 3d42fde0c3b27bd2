package ast

import "fmt"

// ProvenanceFamily categorizes where a fixture's expected value comes from.
//
// This is a closed set supplied directly by the corpus loader alongside the
// parsed tree. Backends that emit typed declarations map a Provenance to a
// target type name; inferring the same information from runtime metadata is
// deliberately not supported.
type ProvenanceFamily int

const (
	ProvBool ProvenanceFamily = iota
	ProvBytes
	ProvInt
	ProvFloat
	ProvString
	ProvMapping
	ProvSequence
	ProvObject
	ProvNull
	ProvFunction
	ProvDatetime
	ProvQueryClass  // a class of the query-builder AST; Name holds the class name
	ProvDriverError // a driver error class; Name holds the class name
	ProvTestHelper  // a fixture-harness helper; Name holds the helper name
	ProvConstant    // a well-known constant family; Name read from a side attribute
)

// Provenance is the declared value kind for a typed conversion. Name is
// only meaningful for the families documented above.
type Provenance struct {
	Family ProvenanceFamily
	Name   string
}

// String implements fmt.Stringer for diagnostics.
func (p Provenance) String() string {
	switch p.Family {
	case ProvBool:
		return "bool"
	case ProvBytes:
		return "bytes"
	case ProvInt:
		return "int"
	case ProvFloat:
		return "float"
	case ProvString:
		return "string"
	case ProvMapping:
		return "mapping"
	case ProvSequence:
		return "sequence"
	case ProvObject:
		return "object"
	case ProvNull:
		return "null"
	case ProvFunction:
		return "function"
	case ProvDatetime:
		return "datetime"
	case ProvQueryClass:
		return "query-class " + p.Name
	case ProvDriverError:
		return "driver-error " + p.Name
	case ProvTestHelper:
		return "test-helper " + p.Name
	case ProvConstant:
		return "constant " + p.Name
	}
	return fmt.Sprintf("ProvenanceFamily(%d)", int(p.Family))
}
