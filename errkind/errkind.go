// Package errkind holds the error-kind and verdict-reason vocabulary shared
// by the pipeline stages and the root orchestrator. It is deliberately a
// leaf package with no dependency on github.com/grailbio/dehap itself, so
// every stage package can import it without creating a cycle back through
// the orchestrator.
package errkind

import "github.com/grailbio/base/errors"

// ErrKind classifies the fatal and recoverable error conditions the
// pipeline can report, per the error-handling design.
type ErrKind int

const (
	// InputShape marks a malformed PAF or distance row, or an alignment
	// missing its AS:i: score tag.
	InputShape ErrKind = iota
	// InputConsistency marks a contig id referenced by PAF or distances
	// that is absent from the FASTA index.
	InputConsistency
	// ConfigInvalid marks a pre-flight configuration error: negative
	// thresholds, an out-of-range safeguard ratio, a non-positive
	// iteration cap.
	ConfigInvalid
	// EstimatorDegenerate marks a threshold estimation that could not
	// produce a value and was not overridden by the caller.
	EstimatorDegenerate
	// IterationExhausted marks a locus tournament or orphan-rescue pass
	// that hit MaxIterations before converging.
	IterationExhausted
	// InternalInvariant marks a bug: a double ledger write, a verdict
	// regression, or similar state corruption that should never occur
	// given a correct implementation.
	InternalInvariant
)

func (k ErrKind) String() string {
	switch k {
	case InputShape:
		return "input-shape"
	case InputConsistency:
		return "input-consistency"
	case ConfigInvalid:
		return "config-invalid"
	case EstimatorDegenerate:
		return "estimator-degenerate"
	case IterationExhausted:
		return "iteration-exhausted"
	case InternalInvariant:
		return "internal-invariant"
	default:
		return "unknown"
	}
}

// Errorf builds an error tagged with kind k, following the teacher's
// errors.E(err, context...) call shape.
func Errorf(kind ErrKind, format string, args ...interface{}) error {
	return errors.E(kind.String(), errors.Errorf(format, args...))
}

// Wrap tags an existing error with kind, preserving its message.
func Wrap(kind ErrKind, err error, context ...interface{}) error {
	if err == nil {
		return nil
	}
	args := append([]interface{}{kind.String(), err}, context...)
	return errors.E(args...)
}

// Reason is the closed set of tags the decision ledger may record against
// a contig's terminal verdict.
type Reason string

const (
	ReasonGCOutlier            Reason = "gc-outlier"
	ReasonTiled                Reason = "tiled"
	ReasonSimilarityLoser      Reason = "similarity-loser"
	ReasonSizeSafeguarded      Reason = "size-safeguarded"
	ReasonOrphanRescued        Reason = "orphan-rescued"
	ReasonUnalignedKept        Reason = "unaligned-kept"
	ReasonUnalignedSimilarKept Reason = "unaligned-similar-to-kept"
	ReasonAlignedOnlyMode      Reason = "aligned-only-mode"
	ReasonIterationCap         Reason = "iteration-cap"
)
