package contig

import "math"

// Verdict is a contig's lifecycle state. Transitions are monotone forward:
// Pending -> Kept|Discarded, UnalignedPending -> UnalignedKept|UnalignedDiscarded.
type Verdict uint8

const (
	Pending Verdict = iota
	Kept
	Discarded
	UnalignedPending
	UnalignedKept
	UnalignedDiscarded
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "PENDING"
	case Kept:
		return "KEPT"
	case Discarded:
		return "DISCARDED"
	case UnalignedPending:
		return "UNALIGNED-PENDING"
	case UnalignedKept:
		return "UNALIGNED-KEPT"
	case UnalignedDiscarded:
		return "UNALIGNED-DISCARDED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether v is one of the four terminal states.
func (v Verdict) Terminal() bool {
	switch v {
	case Kept, Discarded, UnalignedKept, UnalignedDiscarded:
		return true
	default:
		return false
	}
}

// NoTarget is the sentinel primary-target handle meaning "no primary
// locus assigned" (⟂ in the spec).
const NoTarget = ^Handle(0)

// Summary is the mutable per-contig record threaded through C2-C7. Exactly
// one Summary exists per contig identifier present in the FASTA, held in a
// dense []Summary indexed by Handle (see Store).
type Summary struct {
	Handle Handle
	Length int
	GC     float64 // set by the external GC pre-filter; read-only here.

	PrimaryTarget Handle // NoTarget if unaligned
	NormScore     float64
	LocusStart    int
	LocusEnd      int

	Verdict      Verdict
	Disqualifier Handle
	HasDisqualifier bool
	Reason       string

	// Safeguarded and SafeguardedBy record that this contig was, at some
	// point during the tournament, a similarity-loser against
	// SafeguardedBy but survived via the size safeguard (§4.6). It is
	// re-checked each time an ACTIVE contig meets a new champion, per the
	// spec's resolution of the size-safeguard/orphan-rescue interaction
	// open question (DESIGN.md).
	Safeguarded   bool
	SafeguardedBy Handle

	// Opponents lists every contig this one was compared against during
	// the tournament, for the decision ledger's opponent trail.
	Opponents []Handle
	// Iteration is the round (or rescue pass) number at which Verdict
	// became terminal.
	Iteration int
}

// HasPrimaryTarget reports whether s was assigned a primary locus by C2.
func (s *Summary) HasPrimaryTarget() bool { return s.PrimaryTarget != NoTarget }

// LocusOverlaps reports whether s and o share the same primary target and
// their locus intervals overlap by at least minOverlap bases (§3,
// locus-co-located pairs and §4.6 locus formation share this predicate).
func (s *Summary) LocusOverlaps(o *Summary, minOverlap int) bool {
	if !s.HasPrimaryTarget() || !o.HasPrimaryTarget() || s.PrimaryTarget != o.PrimaryTarget {
		return false
	}
	lo := s.LocusStart
	if o.LocusStart > lo {
		lo = o.LocusStart
	}
	hi := s.LocusEnd
	if o.LocusEnd < hi {
		hi = o.LocusEnd
	}
	return hi-lo >= minOverlap
}

// Store is the dense array of contig summaries indexed by Handle, created
// once every contig identifier in the FASTA has been interned.
type Store struct {
	Table     *Table
	Summaries []Summary
}

// NewStore allocates a Store sized to every contig currently interned in
// table, with all verdicts Pending and no primary target.
func NewStore(table *Table) *Store {
	s := &Store{Table: table, Summaries: make([]Summary, table.Len())}
	for i := range s.Summaries {
		s.Summaries[i] = Summary{
			Handle:        Handle(i),
			PrimaryTarget: NoTarget,
			NormScore:     math.NaN(),
		}
	}
	return s
}

// Get returns a pointer to the summary for h, suitable for in-place
// mutation by C2-C7.
func (s *Store) Get(h Handle) *Summary { return &s.Summaries[h] }

// All returns every handle that has a Summary in this store, i.e. every
// contig present in the FASTA index the Store was built from. This is
// deliberately narrower than s.Table.All(): Table also interns PAF/distance
// identifiers that name alignment targets or pair partners with no FASTA
// entry of their own (e.g. a reference sequence used only as a target),
// which have no corresponding Summary and must never be indexed into
// Summaries.
func (s *Store) All() []Handle {
	out := make([]Handle, len(s.Summaries))
	for i := range out {
		out[i] = Handle(i)
	}
	return out
}
