// Package align implements C1, the in-memory alignment store: a filtered,
// queryable table of contig-to-reference alignments keyed by query and by
// target.
package align

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/dehap/contig"
)

// DefaultMinMQ is the default minimum mapping quality retained by Store
// (§4.1).
const DefaultMinMQ = 20

// Record is an immutable alignment between one query contig and one
// target (reference) sequence. Intervals are 0-based, half-open; Qs<Qe
// and Ts<Te are invariants enforced at construction (§3).
//
// Kept to a compact layout (52 bytes) per the §5 memory budget.
type Record struct {
	Query     contig.Handle
	QueryLen  int32
	Qs, Qe    int32
	Strand    int8 // +1 or -1
	Target    contig.Handle
	TargetLen int32
	Ts, Te    int32
	Matches   int32
	BlockLen  int32
	MapQ      uint8
	Score     int32
}

func (r *Record) valid() bool {
	return r.Qs < r.Qe && r.Ts < r.Te
}

// Store is the C1 alignment store: two multimaps over a single flat
// []Record slice, built once from a stream of parsed alignments.
type Store struct {
	records  []Record
	byQuery  map[contig.Handle][]int32
	byTarget map[contig.Handle][]int32
}

// NewStore builds a Store from records, retaining only those with MapQ >=
// minMQ. Every retained record must carry an alignment score (AS:i: in the
// PAF source); records lacking one are rejected at parse time by the
// caller (ioutil.ReadPAF), not here: Record has no way to mark a missing
// score. NewStore does reject a retained record whose query or target
// interval is empty, with an input-shape error.
func NewStore(records []Record, minMQ int) (*Store, error) {
	s := &Store{
		byQuery:  make(map[contig.Handle][]int32),
		byTarget: make(map[contig.Handle][]int32),
	}
	for _, r := range records {
		if int(r.MapQ) < minMQ {
			continue
		}
		if !r.valid() {
			return nil, errors.E("input-shape", errors.Errorf("alignment with empty interval: query=%v target=%v", r.Query, r.Target))
		}
		idx := int32(len(s.records))
		s.records = append(s.records, r)
		s.byQuery[r.Query] = append(s.byQuery[r.Query], idx)
		s.byTarget[r.Target] = append(s.byTarget[r.Target], idx)
	}
	for t, idxs := range s.byTarget {
		sort.Slice(idxs, func(i, j int) bool { return s.records[idxs[i]].Ts < s.records[idxs[j]].Ts })
		s.byTarget[t] = idxs
	}
	return s, nil
}

// Record returns the record at idx, as returned by IterateQuery/IterateTarget.
func (s *Store) Record(idx int32) *Record { return &s.records[idx] }

// IterateQuery returns the indices of every alignment with the given
// query, in insertion order.
func (s *Store) IterateQuery(q contig.Handle) []int32 { return s.byQuery[q] }

// IterateTarget returns the indices of every alignment with the given
// target, sorted by target start.
func (s *Store) IterateTarget(t contig.Handle) []int32 { return s.byTarget[t] }

// IterateAll returns every retained record index.
func (s *Store) IterateAll() []int32 {
	out := make([]int32, len(s.records))
	for i := range out {
		out[i] = int32(i)
	}
	return out
}

// Len returns the number of retained alignments.
func (s *Store) Len() int { return len(s.records) }

// Queries returns every query handle with at least one retained
// alignment.
func (s *Store) Queries() []contig.Handle {
	out := make([]contig.Handle, 0, len(s.byQuery))
	for q := range s.byQuery {
		out = append(out, q)
	}
	return out
}
