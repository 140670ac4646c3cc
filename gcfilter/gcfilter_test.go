package gcfilter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/dehap/contig"
)

func TestReadExcludeListIgnoresUnknownIds(t *testing.T) {
	table := contig.NewTable()
	a := table.Intern("a")
	table.Intern("b")

	path := filepath.Join(t.TempDir(), "exclude.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nnot-in-assembly\n"), 0o644))

	excluded, err := ReadExcludeList(context.Background(), path, table)
	require.NoError(t, err)
	assert.True(t, excluded[a])
	assert.Len(t, excluded, 1)
}

func TestReadExcludeListEmptyPathIsNoop(t *testing.T) {
	table := contig.NewTable()
	excluded, err := ReadExcludeList(context.Background(), "", table)
	require.NoError(t, err)
	assert.Nil(t, excluded)
}

func TestApplyDiscardsOnlyPendingExcluded(t *testing.T) {
	table := contig.NewTable()
	a, b := table.Intern("a"), table.Intern("b")
	store := contig.NewStore(table)
	store.Get(b).Verdict = contig.Kept // already terminal, must not be touched

	Apply(store, map[contig.Handle]bool{a: true, b: true})

	assert.Equal(t, contig.Discarded, store.Get(a).Verdict)
	assert.Equal(t, "gc-outlier", store.Get(a).Reason)
	assert.Equal(t, contig.Kept, store.Get(b).Verdict)
}
