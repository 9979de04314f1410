package grammar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/errors"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	require.NotNil(t, tbl)
	assert.Same(t, tbl, Default(), "built once")
	assert.Equal(t, "5.5", tbl.Version())

	root := tbl.Root()
	assert.Equal(t, "file", root.Name)
	for _, tag := range []string{"HEAD", "FAM", "INDI", "OBJE", "NOTE", "REPO", "SOUR", "SUBM", "SUBN", "TRLR"} {
		_, ok := root.Lookup(tag)
		assert.True(t, ok, "root declares %s", tag)
	}

	trlr, _ := root.Lookup("TRLR")
	assert.True(t, trlr.Leaf())
	assert.Equal(t, "1..1", trlr.Bounds())

	indi, _ := root.Lookup("indi")
	assert.True(t, indi.Many())
	assert.Equal(t, Unbounded, indi.Max)
}

func TestHeaderRequirements(t *testing.T) {
	header, err := Default().Grammar("header")
	require.NoError(t, err)

	sour, ok := header.Lookup("SOUR")
	require.True(t, ok)
	assert.Equal(t, 1, sour.Min)

	gedc, ok := header.Lookup("GEDC")
	require.True(t, ok)
	assert.Equal(t, 1, gedc.Min)
	require.NotNil(t, gedc.Child)
	assert.Equal(t, "header/GEDC", gedc.Child.Name)

	vers, ok := gedc.Child.Lookup("VERS")
	require.True(t, ok)
	assert.Equal(t, 1, vers.Min)
}

func TestSharedInstances(t *testing.T) {
	tbl := Default()
	citation, err := tbl.Grammar("citation")
	require.NoError(t, err)
	note, err := tbl.Grammar("note")
	require.NoError(t, err)

	indi, _ := tbl.Root().Lookup("INDI")
	sour, _ := indi.Child.Lookup("SOUR")
	assert.Same(t, citation, sour.Child)

	fam, _ := tbl.Root().Lookup("FAM")
	famSour, _ := fam.Child.Lookup("SOUR")
	assert.Same(t, citation, famSour.Child)

	// citation -> note -> citation
	citeNote, _ := citation.Lookup("NOTE")
	assert.Same(t, note, citeNote.Child)
	noteSour, _ := note.Lookup("SOUR")
	assert.Same(t, citation, noteSour.Child)
}

func TestInclude(t *testing.T) {
	birth, err := Default().Grammar("birth_event")
	require.NoError(t, err)
	detail, err := Default().Grammar("event_detail")
	require.NoError(t, err)

	date, ok := birth.Lookup("DATE")
	require.True(t, ok)
	detailDate, _ := detail.Lookup("DATE")
	assert.Same(t, detailDate, date)

	_, ok = birth.Lookup("FAMC")
	assert.True(t, ok)
	_, ok = detail.Lookup("FAMC")
	assert.False(t, ok)
}

func TestAliasesShareRule(t *testing.T) {
	indi, err := Default().Grammar("individual")
	require.NoError(t, err)

	deat, _ := indi.Lookup("DEAT")
	buri, _ := indi.Lookup("BURI")
	assert.Same(t, deat, buri)
	assert.Contains(t, indi.Tags(), "OCCU")
}

func TestGrammarNotFound(t *testing.T) {
	_, err := Default().Grammar("nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, Default().Names(), "citation")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing root",
			yaml:    "grammars:\n  a: []\n",
			wantErr: "no root",
		},
		{
			name:    "undefined root",
			yaml:    "root: b\ngrammars:\n  a: []\n",
			wantErr: `root grammar "b"`,
		},
		{
			name:    "undefined ref",
			yaml:    "root: a\ngrammars:\n  a:\n    - {tags: [X], ref: missing}\n",
			wantErr: `undefined grammar "missing"`,
		},
		{
			name:    "duplicate tag",
			yaml:    "root: a\ngrammars:\n  a:\n    - {tags: [X]}\n    - {tags: [x]}\n",
			wantErr: "declares tag X twice",
		},
		{
			name:    "min above max",
			yaml:    "root: a\ngrammars:\n  a:\n    - {tags: [X], min: 3, max: 2}\n",
			wantErr: "min 3 exceeds max 2",
		},
		{
			name:    "bad max",
			yaml:    "root: a\ngrammars:\n  a:\n    - {tags: [X], max: lots}\n",
			wantErr: "max must be",
		},
		{
			name:    "no tags",
			yaml:    "root: a\ngrammars:\n  a:\n    - {min: 1}\n",
			wantErr: "has no tags",
		},
		{
			name:    "include cycle",
			yaml:    "root: a\ngrammars:\n  a:\n    - {include: b}\n  b:\n    - {include: a}\n",
			wantErr: "includes itself",
		},
		{
			name:    "unknown key",
			yaml:    "root: a\ngrammars:\n  a:\n    - {tags: [X], maximum: 2}\n",
			wantErr: "maximum",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSelfReference(t *testing.T) {
	tbl, err := Parse([]byte(`
root: node
grammars:
  node:
    - {tags: [NODE], max: "*", ref: node}
    - {tags: [NAME], min: 1}
`))
	require.NoError(t, err)

	node := tbl.Root()
	child, ok := node.Lookup("NODE")
	require.True(t, ok)
	assert.Same(t, node, child.Child)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: a\ngrammars:\n  a:\n    - {tags: [X], max: 2}\n"), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	x, ok := tbl.Root().Lookup("X")
	require.True(t, ok)
	assert.Equal(t, "0..2", x.Bounds())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(strings.NewReader("root: [unclosed"))
	require.Error(t, err)
}
