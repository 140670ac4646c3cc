package tournament

import (
	"sort"

	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/interval"
)

// Locus is a maximal overlap-connected cluster of contigs sharing the
// same primary target (§4.6). Members is sorted by (Handle) for
// deterministic iteration.
type Locus struct {
	Target  contig.Handle
	Members []contig.Handle
}

// unionFind is a tiny disjoint-set structure over locus candidate
// indices, grounded in the teacher pack's terse small-helper style
// (DESIGN.md: union-find implemented directly rather than importing a
// generic graph library for a handful of lines of logic).
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// BuildLoci groups every contig with a primary target and a Pending
// verdict into maximal overlap-connected clusters per target, using a
// sweep over locus-start-sorted members per target (O(n log n) per
// target; an interval tree would reduce constant factors further but is
// not required, mirroring §4.3's tiling note).
func BuildLoci(store *contig.Store, minOverlap int) []Locus {
	byTarget := make(map[contig.Handle][]contig.Handle)
	for _, h := range store.All() {
		s := store.Get(h)
		if s.Verdict == contig.Pending && s.HasPrimaryTarget() {
			byTarget[s.PrimaryTarget] = append(byTarget[s.PrimaryTarget], h)
		}
	}

	var loci []Locus
	for target, members := range byTarget {
		sort.Slice(members, func(i, j int) bool {
			a, b := store.Get(members[i]), store.Get(members[j])
			if a.LocusStart != b.LocusStart {
				return a.LocusStart < b.LocusStart
			}
			return members[i] < members[j]
		})

		uf := newUnionFind(len(members))
		// Sweep: members are sorted by LocusStart, so any still-relevant
		// predecessor has start <= the current member's start; keep a
		// working set of predecessors whose interval hasn't yet expired
		// (end <= current start) and union on actual overlap amount.
		type active struct {
			idx int
			end int
		}
		var actives []active
		for i, h := range members {
			s := store.Get(h)
			var stillActive []active
			for _, a := range actives {
				if a.end <= s.LocusStart {
					continue // expired: no later member can overlap it either
				}
				stillActive = append(stillActive, a)
				if interval.Overlap(interval.PosType(s.LocusStart), interval.PosType(s.LocusEnd), interval.PosType(s.LocusStart), interval.PosType(a.end)) >= interval.PosType(minOverlap) {
					uf.union(i, a.idx)
				}
			}
			actives = append(stillActive, active{idx: i, end: s.LocusEnd})
		}

		groups := make(map[int][]contig.Handle)
		for i, h := range members {
			root := uf.find(i)
			groups[root] = append(groups[root], h)
		}
		for _, g := range groups {
			sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
			loci = append(loci, Locus{Target: target, Members: g})
		}
	}

	sort.Slice(loci, func(i, j int) bool {
		if loci[i].Target != loci[j].Target {
			return loci[i].Target < loci[j].Target
		}
		return loci[i].Members[0] < loci[j].Members[0]
	})
	return loci
}
