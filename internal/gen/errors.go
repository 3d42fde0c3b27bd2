package gen

import (
	"errors"
	"fmt"

	"github.com/deontologician/multireql/internal/ast"
)

// ErrorCode categorizes conversion failures.
type ErrorCode string

const (
	// ErrCodeUnmodeled indicates a node kind or shape no backend rule
	// covers. Fatal for the current conversion.
	ErrCodeUnmodeled ErrorCode = "UNMODELED_CONSTRUCT"

	// ErrCodeUnsupported indicates a skip rule matched: the source shape is
	// deliberately untranslatable for this target. Callers treat it as an
	// expected omission, not a bug.
	ErrCodeUnsupported ErrorCode = "INTENTIONALLY_UNSUPPORTED"

	// ErrCodeAmbiguous indicates a source shape the target can only render
	// with a semantic guess, such as a multi-operator comparison chain.
	ErrCodeAmbiguous ErrorCode = "AMBIGUOUS_SOURCE"

	// ErrCodeTypeGap indicates the declared-type table has no entry for an
	// observed value kind.
	ErrCodeTypeGap ErrorCode = "TYPE_MAPPING_GAP"
)

// ConvertError represents a failure while converting a single expression.
//
// A failure aborts only its own conversion and never the rest of a batch.
// Node carries a textual dump of the offending node so the caller can log
// enough context to follow up.
type ConvertError struct {
	Code    ErrorCode
	Target  Target
	Message string
	Node    string
}

// Error implements the error interface.
func (e *ConvertError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s: %s (while translating %s)", e.Target, e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s: %s", e.Target, e.Code, e.Message)
}

// IsUnsupported returns true if the error is an intentional skip rather
// than a conversion bug. Uses errors.As to handle wrapped errors.
func IsUnsupported(err error) bool {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnsupported
	}
	return false
}

func unmodeled(target Target, n ast.Node, format string, args ...any) error {
	return &ConvertError{Code: ErrCodeUnmodeled, Target: target, Message: fmt.Sprintf(format, args...), Node: dumpOf(n)}
}

func unsupported(target Target, n ast.Node, format string, args ...any) error {
	return &ConvertError{Code: ErrCodeUnsupported, Target: target, Message: fmt.Sprintf(format, args...), Node: dumpOf(n)}
}

func ambiguous(target Target, n ast.Node, format string, args ...any) error {
	return &ConvertError{Code: ErrCodeAmbiguous, Target: target, Message: fmt.Sprintf(format, args...), Node: dumpOf(n)}
}

func typeGap(target Target, format string, args ...any) error {
	return &ConvertError{Code: ErrCodeTypeGap, Target: target, Message: fmt.Sprintf(format, args...)}
}

func dumpOf(n ast.Node) string {
	if n == nil {
		return ""
	}
	return ast.Dump(n)
}
