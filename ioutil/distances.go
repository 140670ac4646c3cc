package ioutil

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
	"github.com/grailbio/dehap/errkind"
)

// distanceRow is the three-column shape of the pairwise distance TSV (§6):
// contig A, contig B, Mash-style distance.
type distanceRow struct {
	A string  `tsv:"a"`
	B string  `tsv:"b"`
	D float64 `tsv:"distance"`
}

// ReadDistances reads a three-column distance TSV and builds the distance
// index (C4), interning both endpoints of every row into table.
func ReadDistances(ctx context.Context, path string, table *contig.Table) (*distance.Index, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open distances file", path)
	}
	defer f.Close(ctx)

	r := tsv.NewReader(f.Reader(ctx))
	r.HasHeaderRow = true
	r.UseHeaderNames = true

	var pairs []distance.Pair
	for {
		var row distanceRow
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errkind.Wrap(errkind.InputShape, err, "reading distances file", path)
		}
		pairs = append(pairs, distance.Pair{
			A: table.Intern(row.A),
			B: table.Intern(row.B),
			D: row.D,
		})
	}
	return distance.Build(pairs), nil
}
