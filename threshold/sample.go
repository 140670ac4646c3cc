package threshold

import (
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
)

// CollectSample gathers the distances of all locus-co-located contig
// pairs (§3: same primary target, overlapping locus intervals by at
// least minOverlap bases) for which a distance is known. Only known
// pairs contribute to the sample; missing distances are excluded rather
// than treated as "large", since the estimator needs an actual
// distribution, not a one-sided fence.
func CollectSample(store *contig.Store, idx *distance.Index, minOverlap int) []float64 {
	handles := store.All()

	byTarget := make(map[contig.Handle][]contig.Handle)
	for _, h := range handles {
		s := store.Get(h)
		if s.HasPrimaryTarget() {
			byTarget[s.PrimaryTarget] = append(byTarget[s.PrimaryTarget], h)
		}
	}

	var sample []float64
	for _, group := range byTarget {
		for i := 0; i < len(group); i++ {
			a := store.Get(group[i])
			for j := i + 1; j < len(group); j++ {
				b := store.Get(group[j])
				if !a.LocusOverlaps(b, minOverlap) {
					continue
				}
				if d, ok := idx.Distance(group[i], group[j]); ok {
					sample = append(sample, d)
				}
			}
		}
	}
	return sample
}
