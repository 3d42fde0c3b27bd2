package pyparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deontologician/multireql/internal/ast"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	n, err := Parse(src)
	require.NoError(t, err, "parsing %q", src)
	return n
}

func TestParseRoundTrip(t *testing.T) {
	// Dump is stable, so tree shapes are easiest to assert through it.
	tests := []struct {
		src  string
		want string
	}{
		{"r", "Name(r)"},
		{"42", "Number(42)"},
		{"1.5", "Number(1.5)"},
		{"1e4", "Number(1e4)"},
		{"'hi'", `String("hi")`},
		{`"hi"`, `String("hi")`},
		{"True", "Bool(true)"},
		{"False", "Bool(false)"},
		{"None", "Null"},
		{"r.table", "Attribute(Name(r), table)"},
		{"r.table('posts')", `Call(Attribute(Name(r), table), String("posts"))`},
		{"f(1, x=2)", "Call(Name(f), Number(1), x=Number(2))"},
		{"xs[0]", "Subscript(Name(xs), Number(0))"},
		{"xs[1:2]", "Subscript(Name(xs), Slice(Number(1):Number(2)))"},
		{"xs[:2]", "Subscript(Name(xs), Slice(<nil>:Number(2)))"},
		{"xs[1:]", "Subscript(Name(xs), Slice(Number(1):<nil>))"},
		{"xs[-2:]", "Subscript(Name(xs), Slice(Unary(-, Number(2)):<nil>))"},
		{"1 + 2 * 3", "Bin(Number(1) + Bin(Number(2) * Number(3)))"},
		{"2 ** 3 ** 4", "Bin(Number(2) ** Bin(Number(3) ** Number(4)))"},
		{"-2 ** 2", "Unary(-, Bin(Number(2) ** Number(2)))"},
		{"1 < 2 <= 3", "Compare(Number(1) < Number(2) <= Number(3))"},
		{"a & b | c", "Bin(Bin(Name(a) & Name(b)) | Name(c))"},
		{"not x", "Unary(not, Name(x))"},
		{"~x", "Unary(~, Name(x))"},
		{"[1, 2]", "List(Number(1), Number(2))"},
		{"[]", "List()"},
		{"(1, 2)", "Tuple(Number(1), Number(2))"},
		{"(1)", "Number(1)"},
		{"{'a': 1}", `Dict(String("a"): Number(1))`},
		{"lambda x: x + 1", "Lambda(x, Bin(Name(x) + Number(1)))"},
		{"lambda x, y: x", "Lambda(x, y, Name(x))"},
		{"x = 1", "Assign(Name(x) = Number(1))"},
		{"a = b = 1", "Assign(Name(a), Name(b) = Number(1))"},
		{"[x for i in range(4)]", "Comprehension(Name(x) for Name(i) in Call(Name(range), Number(4)))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Dump(mustParse(t, tt.src)))
		})
	}
}

func TestParseStringEscapes(t *testing.T) {
	assert.Equal(t, "a\nb", mustParse(t, `'a\nb'`).(*ast.StringLit).Value)
	assert.Equal(t, "\x07", mustParse(t, `'\x07'`).(*ast.StringLit).Value)
	assert.Equal(t, "ÿ", mustParse(t, `'\xff'`).(*ast.StringLit).Value)
	assert.Equal(t, "é", mustParse(t, `'é'`).(*ast.StringLit).Value)
	assert.Equal(t, "it's", mustParse(t, `"it's"`).(*ast.StringLit).Value)
	assert.Equal(t, "a'b", mustParse(t, `'a\'b'`).(*ast.StringLit).Value)
}

func TestParseBytes(t *testing.T) {
	n := mustParse(t, `b'\x00\xfe ok'`)
	assert.Equal(t, []byte{0x00, 0xfe, ' ', 'o', 'k'}, n.(*ast.BytesLit).Value)
}

func TestParseKeywordAfterPositional(t *testing.T) {
	n := mustParse(t, "r.table('posts', read_mode='single')")
	call := n.(*ast.Call)
	require.Len(t, call.Args, 1)
	require.Len(t, call.Keywords, 1)
	assert.Equal(t, "read_mode", call.Keywords[0].Name)
}

func TestParsePositionalAfterKeyword(t *testing.T) {
	_, err := Parse("f(x=1, 2)")
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"r.table(",
		"1 +",
		"x in y",
		"a or b",
		"'unterminated",
		"f(,)",
		"xs[",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err, "parsing %q should fail", src)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseTrailingInput(t *testing.T) {
	_, err := Parse("1 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}
