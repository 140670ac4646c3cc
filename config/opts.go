// Package config defines the core's external interface options (§6),
// mirroring the teacher's markduplicates.Opts: a flat struct of CLI-facing
// fields plus a Validate step that normalises and rejects bad combinations
// before the pipeline runs.
package config

// Opts holds every option the core recognises, plus the CLI-only input and
// output paths that sit outside the specification's core but are needed to
// drive it end to end.
type Opts struct {
	// Commandline-facing options (spec.md §6).
	MinMQ                   int
	MinOverlap              int
	MinSizeSafeguard        float64
	SafeguardScoreRatio     float64
	DistanceThreshold       float64
	HasDistanceThreshold    bool
	AlignedOnly             bool
	MaxTournamentIterations int
	Threads                 int

	// CLI-only input/output surface (not fixed by the specification; owned
	// by this driver).
	PAFFile        string
	DistancesFile  string
	FastaIndexFile string
	GCExcludeFile  string
	BuscoFile      string
	OutDir         string
	MemoryLimitMB  int

	// SnapshotFile, if set, is where a completed run's ledger is written
	// (snappy-compressed protobuf, per ledger.Snapshot) so a later run can
	// skip straight to report-writing instead of re-parsing PAF/distance
	// inputs and re-running the tournament (§8's idempotence law).
	SnapshotFile string
	// Resume, when true, loads SnapshotFile in place of running C1-C7.
	Resume bool
}

// DefaultOpts returns the spec's documented defaults (§6).
func DefaultOpts() *Opts {
	return &Opts{
		MinMQ:                   20,
		MinOverlap:              1,
		MinSizeSafeguard:        0.50,
		SafeguardScoreRatio:     0.90,
		AlignedOnly:             false,
		MaxTournamentIterations: 100000,
		Threads:                 1,
	}
}
