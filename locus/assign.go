// Package locus implements C2, the primary-locus assigner: for each query
// contig with at least one alignment, chooses a single target as the
// contig's primary locus using a high-percentile score rule, guarding
// against a single spurious high-scoring block capturing the wrong
// target.
package locus

import (
	"sort"

	"github.com/grailbio/dehap/align"
	"github.com/grailbio/dehap/contig"
)

// Assign computes the primary target and locus interval for every query
// contig that has at least one retained alignment in store, writing the
// result into the corresponding contig.Summary. Contigs with no
// alignments are left untouched (they remain Pending with NoTarget,
// becoming UNALIGNED-PENDING candidates for C3/C7).
func Assign(store *align.Store, contigStore *contig.Store, table *contig.Table) {
	for _, q := range store.Queries() {
		if contigStore.Get(q).Verdict != contig.Pending {
			continue
		}
		assignOne(store, contigStore, table, q)
	}
}

type targetStats struct {
	target     contig.Handle
	percentile float64
	blockSum   int64
	minTs      int32
	maxTe      int32
}

func assignOne(store *align.Store, contigStore *contig.Store, table *contig.Table, q contig.Handle) {
	idxs := store.IterateQuery(q)
	byTarget := make(map[contig.Handle][]int32)
	for _, idx := range idxs {
		r := store.Record(idx)
		byTarget[r.Target] = append(byTarget[r.Target], idx)
	}

	stats := make([]targetStats, 0, len(byTarget))
	for target, recs := range byTarget {
		scores := make([]int32, len(recs))
		var blockSum int64
		minTs := int32(1<<31 - 1)
		maxTe := int32(0)
		for i, idx := range recs {
			r := store.Record(idx)
			scores[i] = r.Score
			blockSum += int64(r.BlockLen)
			if r.Ts < minTs {
				minTs = r.Ts
			}
			if r.Te > maxTe {
				maxTe = r.Te
			}
		}
		stats = append(stats, targetStats{
			target:     target,
			percentile: percentile90(scores),
			blockSum:   blockSum,
			minTs:      minTs,
			maxTe:      maxTe,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.percentile != b.percentile {
			return a.percentile > b.percentile
		}
		if a.blockSum != b.blockSum {
			return a.blockSum > b.blockSum
		}
		return table.ID(a.target) < table.ID(b.target)
	})

	best := stats[0]
	sum := contigStore.Get(q)
	sum.PrimaryTarget = best.target
	sum.LocusStart = int(best.minTs)
	sum.LocusEnd = int(best.maxTe)
}

// percentile90 returns the 90th-percentile score using the nearest-rank
// method; if fewer than 10 scores are present it returns the maximum
// (§4.2).
func percentile90(scores []int32) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := append([]int32(nil), scores...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if len(sorted) < 10 {
		return float64(sorted[len(sorted)-1])
	}
	// Nearest-rank: rank = ceil(p/100 * n), 1-indexed.
	n := len(sorted)
	rank := int(0.9*float64(n) + 0.999999999) // ceil
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return float64(sorted[rank-1])
}
