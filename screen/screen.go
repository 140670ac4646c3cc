// Package screen implements C7, the unaligned screen: decides the fate of
// contigs that never received a primary locus, by comparing each against
// the retained set frozen by C3 and C6.
package screen

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
	"github.com/grailbio/dehap/errkind"
)

// Run screens every UNALIGNED-PENDING contig in store, in descending length
// order, against every KEPT and UNALIGNED-KEPT contig, including contigs this
// same pass has already set UNALIGNED-KEPT. alignedOnly
// bypasses the distance comparison entirely: every UNALIGNED-PENDING contig is
// discarded with reason aligned-only-mode (§4.7).
func Run(store *contig.Store, idx *distance.Index, tau float64, alignedOnly bool) {
	var pending []contig.Handle
	for _, h := range store.All() {
		if store.Get(h).Verdict == contig.UnalignedPending {
			pending = append(pending, h)
		}
	}

	if alignedOnly {
		for _, h := range pending {
			s := store.Get(h)
			s.Verdict = contig.UnalignedDiscarded
			s.Reason = string(errkind.ReasonAlignedOnlyMode)
			s.HasDisqualifier = false
		}
		log.Printf("screen: aligned-only set, discarded %d unaligned contigs", len(pending))
		return
	}

	sort.Slice(pending, func(i, j int) bool {
		si, sj := store.Get(pending[i]), store.Get(pending[j])
		if si.Length != sj.Length {
			return si.Length > sj.Length
		}
		return pending[i] < pending[j]
	})

	retained := retainedSet(store)
	for _, u := range pending {
		us := store.Get(u)
		if v, ok := nearestRetained(idx, u, retained, tau); ok {
			us.Verdict = contig.UnalignedDiscarded
			us.Disqualifier = v
			us.HasDisqualifier = true
			us.Reason = string(errkind.ReasonUnalignedSimilarKept)
			continue
		}
		us.Verdict = contig.UnalignedKept
		us.Reason = string(errkind.ReasonUnalignedKept)
		retained = append(retained, u)
	}
}

// retainedSet returns every currently KEPT or UNALIGNED-KEPT handle.
func retainedSet(store *contig.Store) []contig.Handle {
	var out []contig.Handle
	for _, h := range store.All() {
		switch store.Get(h).Verdict {
		case contig.Kept, contig.UnalignedKept:
			out = append(out, h)
		}
	}
	return out
}

// nearestRetained reports the closest handle in retained within tau of u, if
// any. The spec only requires existence of a within-tau retained contig, but
// recording the closest one gives a more informative disqualifier.
func nearestRetained(idx *distance.Index, u contig.Handle, retained []contig.Handle, tau float64) (contig.Handle, bool) {
	var best contig.Handle
	var bestD float64
	found := false
	for _, v := range retained {
		d, ok := idx.Distance(u, v)
		if !ok || d > tau {
			continue
		}
		if !found || d < bestD {
			best, bestD, found = v, d, true
		}
	}
	return best, found
}
