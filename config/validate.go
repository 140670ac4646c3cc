package config

import "github.com/grailbio/dehap/errkind"

// Validate checks opts for the pre-flight errors spec.md §7 attributes to
// ConfigInvalid: negative thresholds, an out-of-range safeguard ratio, a
// non-positive iteration cap. It mirrors markduplicates/validate.go's flat
// sequence of checks.
func Validate(opts *Opts) error {
	if opts.Resume && opts.SnapshotFile == "" {
		return errkind.Errorf(errkind.ConfigInvalid, "--resume requires --snapshot to name the file to resume from")
	}
	if opts.PAFFile == "" && !opts.Resume {
		return errkind.Errorf(errkind.ConfigInvalid, "you must specify a PAF file with --paf")
	}
	if opts.FastaIndexFile == "" {
		return errkind.Errorf(errkind.ConfigInvalid, "you must specify a FASTA index with --fasta-index")
	}
	if opts.MinMQ < 0 {
		return errkind.Errorf(errkind.ConfigInvalid, "min-mq must be non-negative")
	}
	if opts.MinOverlap < 1 {
		return errkind.Errorf(errkind.ConfigInvalid, "min-overlap must be at least 1")
	}
	if opts.MinSizeSafeguard < 0 || opts.MinSizeSafeguard > 1 {
		return errkind.Errorf(errkind.ConfigInvalid, "min-size-safeguard must be in [0,1]")
	}
	if opts.SafeguardScoreRatio < 0 || opts.SafeguardScoreRatio > 1 {
		return errkind.Errorf(errkind.ConfigInvalid, "safeguard-score-ratio must be in [0,1]")
	}
	if opts.HasDistanceThreshold && opts.DistanceThreshold < 0 {
		return errkind.Errorf(errkind.ConfigInvalid, "distance-threshold must be non-negative")
	}
	if opts.MaxTournamentIterations <= 0 {
		return errkind.Errorf(errkind.ConfigInvalid, "max-tournament-iterations must be positive")
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	if opts.OutDir == "" {
		return errkind.Errorf(errkind.ConfigInvalid, "you must specify an output directory with --out-dir")
	}
	return nil
}
