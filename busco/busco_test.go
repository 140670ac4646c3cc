package busco

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/dehap/contig"
)

func TestReadTableGroupsGenesByContig(t *testing.T) {
	table := contig.NewTable()
	a := table.Intern("contig_1")

	path := filepath.Join(t.TempDir(), "busco.tsv")
	content := "contig\tbusco_id\tstatus\ncontig_1\t100at4751\tComplete\ncontig_1\t200at4751\tDuplicated\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := ReadTable(context.Background(), path, table)
	require.NoError(t, err)
	require.Len(t, out[a], 2)
	assert.Equal(t, "100at4751", out[a][0].ID)
	assert.Equal(t, "Complete", out[a][0].Status)
}

func TestReadTableRejectsUnknownContig(t *testing.T) {
	table := contig.NewTable()

	path := filepath.Join(t.TempDir(), "busco.tsv")
	content := "contig\tbusco_id\tstatus\nghost\t100at4751\tComplete\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadTable(context.Background(), path, table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input-consistency")
}

func TestReadTableEmptyPathIsNoop(t *testing.T) {
	table := contig.NewTable()
	out, err := ReadTable(context.Background(), "", table)
	require.NoError(t, err)
	assert.Nil(t, out)
}
