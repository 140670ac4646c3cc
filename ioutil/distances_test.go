package ioutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/dehap/contig"
)

func TestReadDistancesBuildsIndex(t *testing.T) {
	table := contig.NewTable()
	path := filepath.Join(t.TempDir(), "d.tsv")
	content := "a\tb\tdistance\ncontig_1\tcontig_2\t0.05\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	idx, err := ReadDistances(context.Background(), path, table)
	require.NoError(t, err)

	a, _ := table.Lookup("contig_1")
	b, _ := table.Lookup("contig_2")
	d, ok := idx.Distance(a, b)
	require.True(t, ok)
	assert.InDelta(t, 0.05, d, 1e-9)
	assert.Equal(t, 1, idx.Len())
}

func TestReadDistancesRejectsMalformedRow(t *testing.T) {
	table := contig.NewTable()
	path := filepath.Join(t.TempDir(), "d.tsv")
	content := "a\tb\tdistance\ncontig_1\tcontig_2\tnot-a-number\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadDistances(context.Background(), path, table)
	assert.Error(t, err)
}
