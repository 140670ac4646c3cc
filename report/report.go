// Package report writes the core's three output artifacts as TSV, matching
// encoding/fasta/index.go's tsv.NewWriter idiom: the kept-set list, the
// decision ledger, and the threshold report (§6). HTML and blob/L-curve
// rendering remain an explicit non-goal.
package report

import (
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/errkind"
	"github.com/grailbio/dehap/ledger"
	"github.com/grailbio/dehap/threshold"
)

// WriteKeptSet writes one contig id per line, for every KEPT or
// UNALIGNED-KEPT verdict, in ascending Handle order for determinism.
func WriteKeptSet(ctx context.Context, path string, store *contig.Store, l *ledger.Ledger) error {
	return withOutput(ctx, path, func(w io.Writer) error {
		tsvOut := tsv.NewWriter(w)
		kept := append(l.IterateByVerdict(contig.Kept), l.IterateByVerdict(contig.UnalignedKept)...)
		sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
		for _, h := range kept {
			tsvOut.WriteString(store.Table.ID(h))
			if err := tsvOut.EndLine(); err != nil {
				return err
			}
		}
		return tsvOut.Flush()
	})
}

// ledgerRow is the decision ledger's TSV row shape.
type ledgerRow struct {
	Contig       string `tsv:"contig"`
	Verdict      string `tsv:"verdict"`
	Reason       string `tsv:"reason"`
	Disqualifier string `tsv:"disqualifier"`
	Iteration    int    `tsv:"iteration"`
}

// WriteLedger writes every submitted ledger record as TSV, sorted by
// ascending contig handle for determinism.
func WriteLedger(ctx context.Context, path string, store *contig.Store, l *ledger.Ledger) error {
	return withOutput(ctx, path, func(w io.Writer) error {
		records := l.All()
		sort.Slice(records, func(i, j int) bool { return records[i].Contig < records[j].Contig })

		rw := tsv.NewRowWriter(w)
		for _, r := range records {
			disq := ""
			if r.HasDisqualifier {
				disq = store.Table.ID(r.Disqualifier)
			}
			row := ledgerRow{
				Contig:       store.Table.ID(r.Contig),
				Verdict:      r.Verdict.String(),
				Reason:       r.Reason,
				Disqualifier: disq,
				Iteration:    r.Iteration,
			}
			if err := rw.Write(&row); err != nil {
				return err
			}
		}
		return rw.Flush()
	})
}

// thresholdRow is the threshold report's TSV row shape.
type thresholdRow struct {
	Tau           float64 `tsv:"tau"`
	SampleSize    int     `tsv:"sample_size"`
	UserSupplied  bool    `tsv:"user_supplied"`
	Degenerate    bool    `tsv:"degenerate"`
	ModeStructure string  `tsv:"mode_structure"`
}

// WriteThresholdReport writes the C5 estimation outcome as a single-row TSV.
func WriteThresholdReport(ctx context.Context, path string, rep threshold.Report) error {
	return withOutput(ctx, path, func(w io.Writer) error {
		rw := tsv.NewRowWriter(w)
		row := thresholdRow{
			Tau:           rep.Tau,
			SampleSize:    rep.SampleSize,
			UserSupplied:  rep.UserSupplied,
			Degenerate:    rep.Degenerate,
			ModeStructure: rep.ModeStructure,
		}
		if err := rw.Write(&row); err != nil {
			return err
		}
		return rw.Flush()
	})
}

func withOutput(ctx context.Context, path string, fn func(io.Writer) error) error {
	f, err := file.Create(ctx, path)
	if err != nil {
		return errkind.Wrap(errkind.InputShape, err, "create report file", path)
	}
	if err := fn(f.Writer(ctx)); err != nil {
		f.Close(ctx)
		return errkind.Wrap(errkind.InputShape, err, "writing report file", path)
	}
	return f.Close(ctx)
}
