package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `desc: Tests of basic table reads
table_variable_name: tbl
tests:
  - cd: tbl.get(1)
    java: tbl.get(1L)
  - cd: r.expr(1) + 2
    rb:
      - (r(1) + 2)
      - (r.expr(1) + 2)
    js:
      cd: r.expr(1).add(2)
      js2: r.expr(1).add(2)
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, "Tests of basic table reads", f.Desc)
	assert.Equal(t, "tbl", f.TableVarName)
	require.Len(t, f.Tests, 2)

	// Scalar snippet.
	assert.Equal(t, "tbl.get(1)", f.Tests[0].Generic.First())
	assert.Equal(t, "tbl.get(1L)", f.Tests[0].Java.First())
	assert.True(t, f.Tests[0].Ruby.Empty())

	// Sequence snippet: every listed form is acceptable.
	rb := f.Tests[1].Ruby
	assert.True(t, rb.Matches("(r(1) + 2)"))
	assert.True(t, rb.Matches("(r.expr(1) + 2)"))
	assert.False(t, rb.Matches("something else"))

	// Mapping snippet: version-keyed variants all count.
	js := f.Tests[1].JS
	assert.True(t, js.Matches("r.expr(1).add(2)"))
}

func TestSnippetEmpty(t *testing.T) {
	var s Snippet
	assert.True(t, s.Empty())
	assert.Equal(t, "", s.First())
	assert.False(t, s.Matches(""))
}

func TestForDialect(t *testing.T) {
	f, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	test := f.Tests[0]
	assert.Equal(t, "tbl.get(1L)", test.ForDialect("java").First())
	assert.True(t, test.ForDialect("rb").Empty())
	assert.True(t, test.ForDialect("fortran").Empty())
}

func TestRootNames(t *testing.T) {
	f := &File{TableVarName: "tbl, tbl2"}
	assert.Equal(t, []string{"r", "tbl", "tbl2"}, f.RootNames("r"))

	f = &File{}
	assert.Equal(t, []string{"r"}, f.RootNames("r"))
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("desc: b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("desc: a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	entries, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Lexical order keeps batch runs deterministic.
	assert.Equal(t, "a", entries[0].File.Desc)
	assert.Equal(t, "b", entries[1].File.Desc)
}

func TestWalkBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":\n\t bad"), 0o644))

	_, err := Walk(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
