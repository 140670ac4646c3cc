// Package dehap selects a non-redundant subset of a duplicated de-novo
// assembly's contigs using a reference alignment as a spatial guide and a
// pairwise distance matrix as a similarity guide. See the sub-packages
// contig, align, locus, tiler, distance, threshold, tournament, screen and
// ledger for the individual pipeline stages; Run in pipeline.go wires them
// together. The shared ErrKind/Reason vocabulary lives in the leaf package
// errkind so the stages can report it without importing back up to this
// root package.
package dehap

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/dehap/align"
	"github.com/grailbio/dehap/busco"
	"github.com/grailbio/dehap/config"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
	"github.com/grailbio/dehap/errkind"
	"github.com/grailbio/dehap/gcfilter"
	"github.com/grailbio/dehap/ioutil"
	"github.com/grailbio/dehap/ledger"
	"github.com/grailbio/dehap/locus"
	"github.com/grailbio/dehap/screen"
	"github.com/grailbio/dehap/threshold"
	"github.com/grailbio/dehap/tiler"
	"github.com/grailbio/dehap/tournament"
)

// Result is everything Run produces: the populated ledger, the final
// contig store, the interning table needed to render ids, and the
// threshold report for the external threshold-report writer.
type Result struct {
	Table     *contig.Table
	Store     *contig.Store
	Ledger    *ledger.Ledger
	Threshold threshold.Report
	BUSCO     busco.Table
	Warnings  []tournament.Warning
}

// Run wires C1 through C8 end to end (§4, §5): parses inputs, assigns
// primary loci, tiles, estimates or accepts τ, runs the locus tournament,
// screens unaligned contigs, and freezes every terminal verdict into the
// ledger.
func Run(ctx context.Context, opts *config.Opts) (*Result, error) {
	if err := config.Validate(opts); err != nil {
		return nil, err
	}

	table := contig.NewTable()
	store, err := ioutil.ReadFastaIndex(ctx, opts.FastaIndexFile, table)
	if err != nil {
		return nil, err
	}

	if opts.Resume {
		l, err := loadLedgerSnapshot(ctx, opts.SnapshotFile)
		if err != nil {
			return nil, err
		}
		log.Printf("dehap: resumed %d ledger records from %s, skipping C1-C7", l.Len(), opts.SnapshotFile)
		return &Result{Table: table, Store: store, Ledger: l}, nil
	}

	pafRecords, err := ioutil.ReadPAF(ctx, opts.PAFFile, table)
	if err != nil {
		return nil, err
	}
	if err := checkQueryConsistency(table, store, queryHandles(pafRecords)); err != nil {
		return nil, err
	}
	alignStore, err := align.NewStore(pafRecords, opts.MinMQ)
	if err != nil {
		return nil, err
	}

	var distIdx *distance.Index
	if opts.DistancesFile != "" {
		distIdx, err = ioutil.ReadDistances(ctx, opts.DistancesFile, table)
		if err != nil {
			return nil, err
		}
		if err := checkQueryConsistency(table, store, distIdx.Handles()); err != nil {
			return nil, err
		}
	} else {
		distIdx = distance.Build(nil)
	}

	excluded, err := gcfilter.ReadExcludeList(ctx, opts.GCExcludeFile, table)
	if err != nil {
		return nil, err
	}
	gcfilter.Apply(store, excluded)

	buscoTable, err := busco.ReadTable(ctx, opts.BuscoFile, table)
	if err != nil {
		return nil, err
	}

	// C2: primary-locus assignment.
	locus.Assign(alignStore, store, table)

	// C3: interval tiling; also marks zero-alignment and empty-tiling
	// contigs UNALIGNED-PENDING (§4.3, §4.7).
	if _, err := tiler.Tile(ctx, alignStore, store, opts.MinOverlap); err != nil {
		return nil, err
	}
	markNeverAligned(store, alignStore)

	// C5: threshold estimation, unless the caller supplied one.
	var userTau *float64
	if opts.HasDistanceThreshold {
		userTau = &opts.DistanceThreshold
	}
	sample := threshold.CollectSample(store, distIdx, opts.MinOverlap)
	thresholdReport, err := threshold.Estimate(sample, userTau)
	if err != nil {
		return nil, err
	}
	log.Printf("dehap: tau=%v sample_size=%d user_supplied=%v", thresholdReport.Tau, thresholdReport.SampleSize, thresholdReport.UserSupplied)

	// C6: locus tournament.
	tCfg := tournament.DefaultConfig()
	tCfg.MinOverlap = opts.MinOverlap
	tCfg.SafeguardRatio = opts.MinSizeSafeguard
	tCfg.SafeguardScoreRatio = opts.SafeguardScoreRatio
	tCfg.Tau = thresholdReport.Tau
	tCfg.MaxIterations = opts.MaxTournamentIterations
	warnings, err := tournament.Run(ctx, store, table, distIdx, tCfg)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Error.Printf("dehap: %s", w.Message)
	}

	// C7: unaligned screen.
	screen.Run(store, distIdx, thresholdReport.Tau, opts.AlignedOnly)

	// C8: freeze every terminal verdict into the ledger. Ranges over
	// store.Summaries rather than table.All(): PAF target identifiers that
	// never appear as a FASTA-indexed assembly contig (e.g. a reference
	// sequence used purely as an alignment target) get interned into table
	// after store was sized, and carry no Summary of their own.
	l := ledger.New()
	for i := range store.Summaries {
		s := &store.Summaries[i]
		if !s.Verdict.Terminal() {
			return nil, errkind.Errorf(errkind.InternalInvariant, "contig %v left in non-terminal verdict %v after pipeline completion", table.ID(s.Handle), s.Verdict)
		}
		if err := l.SubmitFromSummary(s); err != nil {
			return nil, err
		}
	}

	if opts.SnapshotFile != "" {
		if err := saveLedgerSnapshot(ctx, opts.SnapshotFile, l); err != nil {
			return nil, err
		}
		log.Printf("dehap: wrote %d ledger records to snapshot %s", l.Len(), opts.SnapshotFile)
	}

	return &Result{
		Table:     table,
		Store:     store,
		Ledger:    l,
		Threshold: thresholdReport,
		BUSCO:     buscoTable,
		Warnings:  warnings,
	}, nil
}

// loadLedgerSnapshot reads and decodes a ledger snapshot written by
// saveLedgerSnapshot, letting --resume skip straight to report-writing.
func loadLedgerSnapshot(ctx context.Context, path string) (*ledger.Ledger, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open snapshot file", path)
	}
	defer f.Close(ctx)
	blob, err := io.ReadAll(f.Reader(ctx))
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "reading snapshot file", path)
	}
	l, err := ledger.LoadSnapshot(blob)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "decoding snapshot file", path)
	}
	return l, nil
}

// saveLedgerSnapshot encodes l and writes it to path for a later --resume.
func saveLedgerSnapshot(ctx context.Context, path string, l *ledger.Ledger) error {
	blob, err := l.Snapshot()
	if err != nil {
		return errkind.Wrap(errkind.InternalInvariant, err, "encoding snapshot")
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return errkind.Wrap(errkind.InputShape, err, "create snapshot file", path)
	}
	if _, err := f.Writer(ctx).Write(blob); err != nil {
		f.Close(ctx)
		return errkind.Wrap(errkind.InputShape, err, "writing snapshot file", path)
	}
	return f.Close(ctx)
}

// queryHandles returns the distinct Query handle of every PAF record.
func queryHandles(records []align.Record) []contig.Handle {
	seen := make(map[contig.Handle]bool, len(records))
	out := make([]contig.Handle, 0, len(records))
	for _, r := range records {
		if !seen[r.Query] {
			seen[r.Query] = true
			out = append(out, r.Query)
		}
	}
	return out
}

// checkQueryConsistency enforces §7's InputConsistency condition: every
// contig id referenced by PAF or distances must be present in the FASTA
// index. Only query identifiers are checked, not PAF target identifiers —
// a PAF target names a spatial-guide reference sequence, never a contig
// this pipeline selects among, so it carries no FASTA-index entry of its
// own and is exempt (DESIGN.md).
func checkQueryConsistency(table *contig.Table, store *contig.Store, handles []contig.Handle) error {
	var offending []string
	for _, h := range handles {
		if int(h) >= len(store.Summaries) {
			offending = append(offending, table.ID(h))
			if len(offending) >= 10 {
				break
			}
		}
	}
	if len(offending) == 0 {
		return nil
	}
	return errkind.Errorf(errkind.InputConsistency, "contig ids referenced but absent from FASTA index: %v", offending)
}

// markNeverAligned sets UNALIGNED-PENDING on every contig that never
// produced a single retained alignment (distinct from C3's empty-tiling
// case, which tiler.Tile already handles for contigs that did align).
func markNeverAligned(store *contig.Store, alignStore *align.Store) {
	aligned := make(map[contig.Handle]bool)
	for _, q := range alignStore.Queries() {
		aligned[q] = true
	}
	for _, h := range store.All() {
		s := store.Get(h)
		if s.Verdict == contig.Pending && !aligned[h] {
			s.Verdict = contig.UnalignedPending
		}
	}
}
