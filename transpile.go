// Package multireql converts test-corpus snippets written in the generic
// source dialect into equivalent expressions for each supported driver
// language, deciding per subexpression whether it belongs to the embedded
// query-builder API or is ordinary host-language code.
package multireql

import (
	"github.com/deontologician/multireql/internal/gen"
	"github.com/deontologician/multireql/internal/pyparse"
	"github.com/deontologician/multireql/internal/reql"
)

// Target names a backend language.
type Target = gen.Target

// Supported targets.
const (
	TargetRuby = gen.TargetRuby
	TargetJS   = gen.TargetJS
	TargetJava = gen.TargetJava
)

// Targets lists every backend in rendering order.
var Targets = gen.Targets

// Config carries per-conversion emitter settings.
type Config = gen.Config

// DefaultConfig returns the settings the fixture harness uses.
func DefaultConfig() Config { return gen.DefaultConfig() }

// Transpile parses a single snippet, analyzes which subexpressions belong
// to the query API, and renders it for the given target.
func Transpile(snippet string, target Target, cfg Config) (string, error) {
	node, err := pyparse.Parse(snippet)
	if err != nil {
		return "", err
	}
	roots := cfg.RootNames
	if len(roots) == 0 {
		roots = []string{reql.DefaultRoot}
	}
	flags := reql.AnalyzeWith(node, roots, false)
	return gen.Convert(target, node, flags, cfg)
}

// IsUnsupported reports whether a Transpile error is an intentional skip
// (a known-untranslatable source shape) rather than a conversion bug.
func IsUnsupported(err error) bool { return gen.IsUnsupported(err) }
