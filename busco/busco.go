// Package busco reads an optional BUSCO completion table and attaches it to
// the decision ledger's report as an informational annotation (§6: "purely
// informational to the ledger, does not affect selection").
package busco

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/errkind"
)

// Gene is one BUSCO gene call against a contig.
type Gene struct {
	ID     string
	Status string
}

// Table maps a contig handle to the BUSCO genes found on it.
type Table map[contig.Handle][]Gene

type buscoRow struct {
	Contig string `tsv:"contig"`
	Gene   string `tsv:"busco_id"`
	Status string `tsv:"status"`
}

// ReadTable reads a BUSCO completion table, resolving every referenced
// contig id through table. Rows naming a contig id that table has never
// interned are reported as InputConsistency, per §7; ids that table holds
// only as PAF targets or distance endpoints are accepted.
func ReadTable(ctx context.Context, path string, table *contig.Table) (Table, error) {
	if path == "" {
		return nil, nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open BUSCO table", path)
	}
	defer f.Close(ctx)

	r := tsv.NewReader(f.Reader(ctx))
	r.HasHeaderRow = true
	r.UseHeaderNames = true

	out := make(Table)
	for {
		var row buscoRow
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errkind.Wrap(errkind.InputShape, err, "reading BUSCO table", path)
		}
		h, ok := table.Lookup(row.Contig)
		if !ok {
			return nil, errkind.Errorf(errkind.InputConsistency, "BUSCO table references unknown contig %q", row.Contig)
		}
		out[h] = append(out[h], Gene{ID: row.Gene, Status: row.Status})
	}
	return out, nil
}
