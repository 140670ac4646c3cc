// Package tiler implements C3, the interval tiler: reduces a contig's
// overlapping alignments on its primary target to a non-redundant tiling
// and computes its normalised score.
package tiler

import (
	"context"
	"sort"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/dehap/align"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/interval"
)

// DefaultMinOverlap is the default minimum overlap, in bases, above which
// two target intervals are considered to conflict (§4.3, §6).
const DefaultMinOverlap = 1

// Tiled is the ordered, pairwise-disjoint set of alignment indices
// retained for one (query, primary target) pair.
type Tiled struct {
	Query   contig.Handle
	Indices []int32 // into the align.Store, sorted by Ts.
}

// Result holds the tiling outcome for every query contig that had at
// least one alignment on its assigned primary target.
type Result struct {
	byQuery map[contig.Handle]Tiled
}

// Get returns the tiled set for q, if one exists.
func (r *Result) Get(q contig.Handle) (Tiled, bool) {
	t, ok := r.byQuery[q]
	return t, ok
}

// Tile runs C3 for every query with a primary target assigned, in
// parallel across contigs via traverse.Each, matching the teacher's
// pileup/snp/pileup.go fan-out idiom. minOverlap is MIN_OVERLAP (§4.3).
func Tile(ctx context.Context, store *align.Store, contigStore *contig.Store, minOverlap int) (*Result, error) {
	queries := store.Queries()
	tiled := make([]Tiled, len(queries))
	empty := make([]bool, len(queries))

	err := traverse.Each(len(queries), func(i int) error {
		q := queries[i]
		sum := contigStore.Get(q)
		if sum.Verdict != contig.Pending || !sum.HasPrimaryTarget() {
			return nil
		}
		t, normScore := tileOne(store, q, sum.PrimaryTarget, minOverlap)
		tiled[i] = t
		if len(t.Indices) == 0 {
			empty[i] = true
			sum.NormScore = 0
			sum.Verdict = contig.UnalignedPending
			return nil
		}
		sum.NormScore = normScore / float64(sum.Length)
		sum.Reason = "tiled"
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{byQuery: make(map[contig.Handle]Tiled, len(queries))}
	for i, q := range queries {
		if empty[i] || len(tiled[i].Indices) == 0 {
			continue
		}
		result.byQuery[q] = tiled[i]
	}
	return result, nil
}

// tileOne performs the greedy descending-score tiling for a single
// contig's alignments on its primary target, returning the tiled set and
// the un-normalised numerator (Σ score × matched-bases).
func tileOne(store *align.Store, q, target contig.Handle, minOverlap int) (Tiled, float64) {
	candidates := make([]int32, 0)
	for _, idx := range store.IterateQuery(q) {
		if store.Record(idx).Target == target {
			candidates = append(candidates, idx)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return store.Record(candidates[i]).Score > store.Record(candidates[j]).Score
	})

	var accepted []int32
	var numerator float64
	for _, idx := range candidates {
		r := store.Record(idx)
		conflict := false
		for _, aidx := range accepted {
			a := store.Record(aidx)
			if interval.Overlap(interval.PosType(r.Ts), interval.PosType(r.Te), interval.PosType(a.Ts), interval.PosType(a.Te)) > interval.PosType(minOverlap) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		accepted = append(accepted, idx)
		numerator += float64(r.Score) * float64(r.Matches)
	}

	sort.Slice(accepted, func(i, j int) bool {
		return store.Record(accepted[i]).Ts < store.Record(accepted[j]).Ts
	})
	return Tiled{Query: q, Indices: accepted}, numerator
}
