// Package distance implements C4, the distance index: a sparse, symmetric
// pairwise-distance lookup over contig handles, built once from the
// user-supplied distance stream and shared read-only across workers.
package distance

import (
	"sort"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/dehap/contig"
)

// Pair is an unordered pair of contig handles with a distance in [0,1].
type Pair struct {
	A, B contig.Handle
	D    float64
}

func key(a, b contig.Handle) uint64 {
	if a > b {
		a, b = b, a
	}
	// Fold both handles into farm's 64-bit hash to keep the sparse map's
	// key type fixed-size regardless of contig-id length (§9: "sorted
	// edge list or hash of unordered pairs").
	var buf [8]byte
	buf[0] = byte(a)
	buf[1] = byte(a >> 8)
	buf[2] = byte(a >> 16)
	buf[3] = byte(a >> 24)
	buf[4] = byte(b)
	buf[5] = byte(b >> 8)
	buf[6] = byte(b >> 16)
	buf[7] = byte(b >> 24)
	return farm.Hash64(buf[:])
}

// Index is the C4 distance index. It is read-only after Build and safe
// for concurrent reads without locking (§5).
type Index struct {
	dist      map[uint64]float64     // key(a,b) -> distance, for exact lookup
	adjacency map[contig.Handle][]neighbor // a -> sorted-by-distance neighbours, for Neighbors
}

type neighbor struct {
	to contig.Handle
	d  float64
}

// Build constructs an Index from the supplied pairs. Self-pairs are
// ignored; a pair appearing more than once keeps its first-seen distance
// (callers / parsers are expected to de-duplicate, but Build does not
// fail on it since that is an isolated InputShape condition handled by
// the caller).
func Build(pairs []Pair) *Index {
	idx := &Index{
		dist:      make(map[uint64]float64, len(pairs)),
		adjacency: make(map[contig.Handle][]neighbor),
	}
	for _, p := range pairs {
		if p.A == p.B {
			continue
		}
		k := key(p.A, p.B)
		if _, ok := idx.dist[k]; ok {
			continue
		}
		idx.dist[k] = p.D
		idx.adjacency[p.A] = append(idx.adjacency[p.A], neighbor{p.B, p.D})
		idx.adjacency[p.B] = append(idx.adjacency[p.B], neighbor{p.A, p.D})
	}
	for a := range idx.adjacency {
		ns := idx.adjacency[a]
		sort.Slice(ns, func(i, j int) bool { return ns[i].d < ns[j].d })
		idx.adjacency[a] = ns
	}
	return idx
}

// Distance returns the distance between a and b, and whether it was
// supplied. A missing pair is "unknown/large" per §4.4; callers treat
// !ok as distance = +Inf.
func (idx *Index) Distance(a, b contig.Handle) (float64, bool) {
	if a == b {
		return 0, true
	}
	d, ok := idx.dist[key(a, b)]
	return d, ok
}

// Neighbors returns every contig b with Distance(a,b) <= tau, in
// ascending-distance order.
func (idx *Index) Neighbors(a contig.Handle, tau float64) []contig.Handle {
	ns := idx.adjacency[a]
	out := make([]contig.Handle, 0, len(ns))
	for _, n := range ns {
		if n.d > tau {
			break
		}
		out = append(out, n.to)
	}
	return out
}

// Len returns the number of distinct pairs held by the index.
func (idx *Index) Len() int { return len(idx.dist) }

// Handles returns every distinct contig handle that appears as an endpoint
// of some pair in the index, for the caller to cross-check against the
// FASTA index (§7's InputConsistency condition).
func (idx *Index) Handles() []contig.Handle {
	out := make([]contig.Handle, 0, len(idx.adjacency))
	for h := range idx.adjacency {
		out = append(out, h)
	}
	return out
}
