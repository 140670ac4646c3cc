/*
  bio-dehap selects a non-redundant subset of a duplicated de-novo
  assembly's contigs, using a reference alignment as a spatial guide and a
  pairwise Mash-style distance matrix as a similarity guide. For more
  information, see github.com/grailbio/dehap/pipeline.go.
*/
package main

import (
	"flag"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/dehap"
	"github.com/grailbio/dehap/config"
	"github.com/grailbio/dehap/report"
)

var (
	pafFile         = flag.String("paf", "", "PAF file of query-to-reference alignments")
	distancesFile   = flag.String("distances", "", "TSV file of pairwise Mash-style distances (columns: a, b, distance)")
	fastaIndexFile  = flag.String("fasta-index", "", "samtools-style .fai index of the query assembly")
	gcExcludeFile   = flag.String("gc-exclude", "", "optional file of contig ids to discard before selection, one per line")
	buscoFile       = flag.String("busco", "", "optional BUSCO completion table (informational only)")
	outDir          = flag.String("out-dir", "", "directory to write the kept-set list, decision ledger, and threshold report")
	memoryLimitMB   = flag.Int("memory-limit-mb", 0, "memory budget in MB; stored in the options but not checked by the pipeline")
	minMQ           = flag.Int("min-mq", 20, "minimum mapping quality retained from the PAF file")
	minOverlap      = flag.Int("min-overlap", 1, "minimum overlap in bases for interval tiling and locus grouping")
	minSizeSafeguard = flag.Float64("min-size-safeguard", 0.50, "minimum length ratio protecting a similarity loser from discard")
	safeguardScoreRatio = flag.Float64("safeguard-score-ratio", 0.90, "minimum normalised-score ratio protecting a similarity loser from discard")
	distanceThreshold = flag.Float64("distance-threshold", -1, "user-supplied tau; negative means estimate from data")
	alignedOnly     = flag.Bool("aligned-only", false, "skip the unaligned screen, discarding all unaligned contigs")
	maxIterations   = flag.Int("max-tournament-iterations", 100000, "hard cap on locus-tournament rounds and orphan-rescue passes")
	threads         = flag.Int("threads", 1, "worker pool size; stored in the options but not passed to the stages, which fan out with traverse's default parallelism")
	snapshotFile    = flag.String("snapshot", "", "path to write (or, with --resume, read) a ledger snapshot")
	resume          = flag.Bool("resume", false, "skip PAF/distance parsing and the tournament, loading --snapshot's ledger instead")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() > 0 {
		a := flag.Args()
		log.Fatalf("unparsed flags, please check flag syntax: '%s'", strings.Join(a[len(a)-flag.NArg():], " "))
	}

	opts := config.DefaultOpts()
	opts.PAFFile = *pafFile
	opts.DistancesFile = *distancesFile
	opts.FastaIndexFile = *fastaIndexFile
	opts.GCExcludeFile = *gcExcludeFile
	opts.BuscoFile = *buscoFile
	opts.OutDir = *outDir
	opts.MemoryLimitMB = *memoryLimitMB
	opts.MinMQ = *minMQ
	opts.MinOverlap = *minOverlap
	opts.MinSizeSafeguard = *minSizeSafeguard
	opts.SafeguardScoreRatio = *safeguardScoreRatio
	if *distanceThreshold >= 0 {
		opts.HasDistanceThreshold = true
		opts.DistanceThreshold = *distanceThreshold
	}
	opts.AlignedOnly = *alignedOnly
	opts.MaxTournamentIterations = *maxIterations
	opts.Threads = *threads
	opts.SnapshotFile = *snapshotFile
	opts.Resume = *resume

	ctx := vcontext.Background()
	result, err := dehap.Run(ctx, opts)
	if err != nil {
		log.Fatalf("bio-dehap: %v", err)
	}

	keptPath := filepath.Join(opts.OutDir, "kept.tsv")
	if err := report.WriteKeptSet(ctx, keptPath, result.Store, result.Ledger); err != nil {
		log.Fatalf("bio-dehap: writing kept set: %v", err)
	}
	ledgerPath := filepath.Join(opts.OutDir, "ledger.tsv")
	if err := report.WriteLedger(ctx, ledgerPath, result.Store, result.Ledger); err != nil {
		log.Fatalf("bio-dehap: writing ledger: %v", err)
	}
	thresholdPath := filepath.Join(opts.OutDir, "threshold.tsv")
	if err := report.WriteThresholdReport(ctx, thresholdPath, result.Threshold); err != nil {
		log.Fatalf("bio-dehap: writing threshold report: %v", err)
	}

	counts := result.Ledger.Summarise()
	log.Printf("bio-dehap: done, verdict counts=%v", counts)
}
