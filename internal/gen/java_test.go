package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deontologician/multireql/internal/ast"
)

func java(t *testing.T, src string) string {
	t.Helper()
	return mustRender(t, TargetJava, src, DefaultConfig())
}

func javaErr(t *testing.T, src string) *ConvertError {
	t.Helper()
	_, err := render(t, TargetJava, src, DefaultConfig())
	require.Error(t, err, "converting %q should fail", src)
	var ce *ConvertError
	require.ErrorAs(t, err, &ce)
	return ce
}

func TestJavaLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"'hello'", `"hello"`},
		{"1", "1L"},
		{"-1", "-1L"},
		{"1.5", "1.5"},
		{"True", "true"},
		{"False", "false"},
		{"None", "null"},
		{`b'\x00\xff'`, "new byte[]{0, -1}"},
		{"b'ok'", "new byte[]{111, 107}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, java(t, tt.src), "source %q", tt.src)
	}
}

func TestJavaIntegerOverflowFallsBackToDouble(t *testing.T) {
	assert.Equal(t, "123456789123456789123456789.0", java(t, "123456789123456789123456789"))
}

func TestJavaControlCharacterEscapes(t *testing.T) {
	assert.Equal(t, `"\u0007"`, java(t, `'\x07'`))
	assert.Equal(t, "\"café\"", java(t, `'caf\xe9'`))
}

func TestJavaMethodChain(t *testing.T) {
	assert.Equal(t, `r.table("posts").indexCreate("code")`, java(t, "r.table('posts').index_create('code')"))
}

func TestJavaMethodAlias(t *testing.T) {
	assert.Equal(t, `r.table("posts").g("author")`, java(t, "r.table('posts').get_field('author')"))
}

func TestJavaReservedWordSuffix(t *testing.T) {
	assert.Equal(t, "r.expr(1L).default_(2L)", java(t, "r.expr(1).default(2)"))
	assert.Equal(t, "r.expr(1L).wait_()", java(t, "r.expr(1).wait()"))
}

func TestJavaPythonKeywordClash(t *testing.T) {
	assert.Equal(t, "r.expr(true).and(false)", java(t, "r.expr(True).and_(False)"))
	assert.Equal(t, "r.expr(true).or(false)", java(t, "r.expr(True).or_(False)"))
}

func TestJavaTopLevelConstants(t *testing.T) {
	assert.Equal(t, "r.maxval()", java(t, "r.maxval"))
	assert.Equal(t, "r.monday()", java(t, "r.monday"))
	// In call position the constant parens must not double up.
	assert.Equal(t, `r.error("boom")`, java(t, "r.error('boom')"))
}

func TestJavaAstNamespaceElision(t *testing.T) {
	assert.Equal(t, `ast.rqlTzinfo("01:00")`, java(t, "r.ast.rql_tzinfo('01:00')"))
}

func TestJavaOptArgs(t *testing.T) {
	assert.Equal(t,
		`r.table("posts").optArg("read_mode", "single")`,
		java(t, "r.table('posts', read_mode='single')"))
	assert.Equal(t,
		`r.table("posts").between(1L, 2L).optArg("left_bound", "open").optArg("right_bound", "closed")`,
		java(t, "r.table('posts').between(1, 2, left_bound='open', right_bound='closed')"))
}

func TestJavaNullCast(t *testing.T) {
	assert.Equal(t, "r.expr((ReqlExpr) null)", java(t, "r.expr(None)"))

	cfg := DefaultConfig()
	cfg.CastNull = false
	assert.Equal(t, "r.expr(null)", mustRender(t, TargetJava, "r.expr(None)", cfg))
}

func TestJavaSmartBracket(t *testing.T) {
	assert.Equal(t, `r.table("posts").g("id")`, java(t, "r.table('posts')['id']"))
	assert.Equal(t, `r.table("posts").nth(0L)`, java(t, "r.table('posts')[0]"))
	assert.Equal(t, `r.table("posts").bracket(key)`, java(t, "r.table('posts')[key]"))

	cfg := DefaultConfig()
	cfg.SmartBracket = false
	assert.Equal(t, `r.table("posts").bracket("id")`,
		mustRender(t, TargetJava, "r.table('posts')['id']", cfg))
}

func TestJavaSlices(t *testing.T) {
	assert.Equal(t, `r.table("posts").slice(1, 2)`, java(t, "r.table('posts')[1:2]"))
	assert.Equal(t, `r.table("posts").slice(0, 2)`, java(t, "r.table('posts')[:2]"))
	assert.Equal(t,
		`r.table("posts").slice(-2, -1).optArg("right_bound", "closed")`,
		java(t, "r.table('posts')[-2:]"))
}

func TestJavaPlainSubscript(t *testing.T) {
	assert.Equal(t, "xs.get(0)", java(t, "xs[0]"))

	ce := javaErr(t, "xs['a']")
	assert.Equal(t, ErrCodeUnmodeled, ce.Code)
}

func TestJavaOperators(t *testing.T) {
	assert.Equal(t, "r.expr(1L).add(2L)", java(t, "r.expr(1) + 2"))
	assert.Equal(t, "r.expr(1L).add(r.expr(2L))", java(t, "1 + r.expr(2)"))
	assert.Equal(t, "1L + 2L", java(t, "1 + 2"))
	assert.Equal(t, "(r.expr(1L)).lt(2L)", java(t, "r.expr(1) < 2"))
	assert.Equal(t, "1L < 2L", java(t, "1 < 2"))
	assert.Equal(t, "r.expr(true).not()", java(t, "~r.expr(True)"))
	assert.Equal(t, "2L ** 3L", java(t, "2 ** 3"))
}

func TestJavaChainedComparisonIsAmbiguous(t *testing.T) {
	ce := javaErr(t, "r.expr(1) < 2 < 3")
	assert.Equal(t, ErrCodeAmbiguous, ce.Code)
}

func TestJavaContainers(t *testing.T) {
	assert.Equal(t, "r.array(1L, 2L, 3L)", java(t, "[1, 2, 3]"))
	assert.Equal(t, "r.array()", java(t, "[]"))
	assert.Equal(t, `r.hashMap("a", 1L).with("b", 2L)`, java(t, "{'a': 1, 'b': 2}"))
	assert.Equal(t, "r.hashMap()", java(t, "{}"))
}

func TestJavaLambda(t *testing.T) {
	assert.Equal(t, `r.table("posts").map(x -> x.g("id"))`,
		java(t, "r.table('posts').map(lambda x: x['id'])"))
	assert.Equal(t, "r.expr(r.array()).reduce((a, b) -> a.add(b))",
		java(t, "r.expr([]).reduce(lambda a, b: a + b)"))
}

func TestJavaComprehension(t *testing.T) {
	assert.Equal(t,
		"LongStream.range(0, 4L).boxed().map(i -> i + 1L).collect(Collectors.toList())",
		java(t, "[i + 1 for i in range(4)]"))
	assert.Equal(t,
		"LongStream.range(1L, 4L).boxed().map(i -> i).collect(Collectors.toList())",
		java(t, "[i for i in range(1, 4)]"))

	ce := javaErr(t, "[x for x in xs]")
	assert.Equal(t, ErrCodeUnmodeled, ce.Code)
}

func TestJavaTypedAssignment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeclaredType = &ast.Provenance{Family: ast.ProvInt}
	assert.Equal(t, "Long x = (Long) (5L);", mustRender(t, TargetJava, "x = 5", cfg))

	cfg.DeclaredType = &ast.Provenance{Family: ast.ProvSequence}
	assert.Equal(t, "List xs = (List) (r.array(1L, 2L));", mustRender(t, TargetJava, "xs = [1, 2]", cfg))

	_, err := render(t, TargetJava, "x = 5", DefaultConfig())
	var ce *ConvertError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeTypeGap, ce.Code)
}

func TestJavaTypeNames(t *testing.T) {
	tests := []struct {
		prov ast.Provenance
		want string
	}{
		{ast.Provenance{Family: ast.ProvBool}, "Boolean"},
		{ast.Provenance{Family: ast.ProvFloat}, "Double"},
		{ast.Provenance{Family: ast.ProvMapping}, "Map"},
		{ast.Provenance{Family: ast.ProvFunction}, "ReqlFunction1"},
		{ast.Provenance{Family: ast.ProvDatetime}, "OffsetDateTime"},
		{ast.Provenance{Family: ast.ProvQueryClass, Name: "DB"}, "Db"},
		{ast.Provenance{Family: ast.ProvQueryClass, Name: "Table"}, "Table"},
		{ast.Provenance{Family: ast.ProvDriverError, Name: "ReqlRuntimeError"}, "ReqlRuntimeError"},
		{ast.Provenance{Family: ast.ProvTestHelper, Name: "uuid"}, "UUIDMatch"},
		{ast.Provenance{Family: ast.ProvTestHelper, Name: "partial"}, "Partial"},
	}
	for _, tt := range tests {
		got, err := javaTypeName(tt.prov)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestJavaStringEncode(t *testing.T) {
	assert.Equal(t, `"foo".getBytes(StandardCharsets.UTF_8)`, java(t, "'foo'.encode('utf-8')"))
	assert.Equal(t, `"foo".getBytes(StandardCharsets.US_ASCII)`, java(t, "'foo'.encode('ascii')"))

	ce := javaErr(t, "'foo'.encode('latin-1')")
	assert.Equal(t, ErrCodeUnmodeled, ce.Code)
}

func TestJavaSkipRules(t *testing.T) {
	t.Run("arity_error_fixture", func(t *testing.T) {
		ce := javaErr(t, "err('ReqlQueryLogicError', 'Expected 1 argument but found 2', [])")
		assert.Equal(t, ErrCodeUnsupported, ce.Code)
	})
	t.Run("row_shorthand", func(t *testing.T) {
		ce := javaErr(t, "r.row['id']")
		assert.Equal(t, ErrCodeUnsupported, ce.Code)
	})
	t.Run("frozenset", func(t *testing.T) {
		ce := javaErr(t, "frozenset([1])")
		assert.Equal(t, ErrCodeUnsupported, ce.Code)
	})
	t.Run("for_each_non_function", func(t *testing.T) {
		ce := javaErr(t, "r.table('posts').for_each(1)")
		assert.Equal(t, ErrCodeUnsupported, ce.Code)
	})
	t.Run("map_non_function", func(t *testing.T) {
		ce := javaErr(t, "r.expr([1]).map(1)")
		assert.Equal(t, ErrCodeUnsupported, ce.Code)
	})
	t.Run("map_with_function_is_fine", func(t *testing.T) {
		assert.Equal(t, "r.expr(r.array(1L)).map(x -> x)", java(t, "r.expr([1]).map(lambda x: x)"))
	})
	t.Run("skips_are_detectable", func(t *testing.T) {
		_, err := render(t, TargetJava, "r.row['id']", DefaultConfig())
		assert.True(t, IsUnsupported(err))
		assert.False(t, IsUnsupported(errors.New("other")))
	})
}

func TestJavaErrorCarriesNodeDump(t *testing.T) {
	ce := javaErr(t, "r.row['id']")
	assert.NotEmpty(t, ce.Node)
	assert.Contains(t, ce.Error(), "INTENTIONALLY_UNSUPPORTED")
}
