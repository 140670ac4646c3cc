// Package tournament implements C6, the locus tournament: within each
// locus, iteratively resolves competitors by (score, size, distance),
// tracks disqualifications, and rescues orphans.
package tournament

import (
	"context"
	"sort"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
	"github.com/grailbio/dehap/errkind"
)

// Warning is a non-fatal condition surfaced after Run, per §7's
// IterationExhausted handling: reported, not silently accepted.
type Warning struct {
	Target  contig.Handle
	Message string
}

// Run executes C6 over every locus formed from store's Pending contigs,
// then runs the orphan-rescue barrier, mutating store in place. Loci are
// processed concurrently via traverse.Each since their contig sets are
// disjoint by construction (§5).
func Run(ctx context.Context, store *contig.Store, table *contig.Table, idx *distance.Index, cfg Config) ([]Warning, error) {
	loci := BuildLoci(store, cfg.MinOverlap)
	locusOf := make(map[contig.Handle]int, store.Table.Len())
	for li, l := range loci {
		for _, h := range l.Members {
			locusOf[h] = li
		}
	}

	var mu sync.Mutex
	var warnings []Warning

	runLocus := func(li int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ws := runLocusRounds(store, table, idx, loci[li], cfg, 0)
		if len(ws) > 0 {
			mu.Lock()
			warnings = append(warnings, ws...)
			mu.Unlock()
		}
		return nil
	}
	if err := traverse.Each(len(loci), runLocus); err != nil {
		return warnings, err
	}

	// Orphan-rescue barrier (§4.6, §5): repeat full passes until no new
	// orphans are found or the global iteration cap is exhausted.
	for pass := 1; ; pass++ {
		if pass > cfg.MaxIterations {
			warnings = append(warnings, Warning{Message: "orphan rescue: max-iterations exhausted globally"})
			log.Printf("tournament: orphan rescue hit max-iterations (%d) without converging", cfg.MaxIterations)
			break
		}
		orphansByLocus := make(map[int][]contig.Handle)
		for _, h := range store.All() {
			s := store.Get(h)
			if s.Verdict != contig.Discarded {
				continue
			}
			li, ok := locusOf[h]
			if !ok {
				continue
			}
			if isOrphan(store, idx, loci[li], h, cfg.Tau) {
				orphansByLocus[li] = append(orphansByLocus[li], h)
			}
		}
		if len(orphansByLocus) == 0 {
			break
		}
		for li, orphans := range orphansByLocus {
			for _, h := range orphans {
				s := store.Get(h)
				s.Verdict = contig.Pending
			}
			_ = li
		}
		indices := make([]int, 0, len(orphansByLocus))
		for li := range orphansByLocus {
			indices = append(indices, li)
		}
		err := traverse.Each(len(indices), func(i int) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ws := runLocusRounds(store, table, idx, loci[indices[i]], cfg, pass)
			for _, h := range orphansByLocus[indices[i]] {
				s := store.Get(h)
				if s.Verdict == contig.Kept {
					s.Reason = string(errkind.ReasonOrphanRescued)
				}
			}
			if len(ws) > 0 {
				mu.Lock()
				warnings = append(warnings, ws...)
				mu.Unlock()
			}
			return nil
		})
		if err != nil {
			return warnings, err
		}
	}

	return warnings, nil
}

// isOrphan reports whether a discarded contig h is orphaned: its
// disqualifier was itself later discarded, and no currently-KEPT contig
// in h's locus is within tau (§4.6, "Orphan").
func isOrphan(store *contig.Store, idx *distance.Index, l Locus, h contig.Handle, tau float64) bool {
	s := store.Get(h)
	if !s.HasDisqualifier {
		return false
	}
	if store.Get(s.Disqualifier).Verdict != contig.Discarded {
		return false
	}
	for _, m := range l.Members {
		if m == h {
			continue
		}
		ms := store.Get(m)
		if ms.Verdict != contig.Kept {
			continue
		}
		d, ok := idx.Distance(h, m)
		if ok && d <= tau {
			return false
		}
	}
	return true
}

// edge is a within-tau pair of locus members eligible to duel (§4.6).
type edge struct {
	a, b contig.Handle
	d    float64
}

// localEdges lists every pair of members with a known distance <= tau,
// sorted by ascending distance and then by handle for determinism. Edges,
// not whole-locus champion selection, are the unit of comparison: this is
// what lets a contig crowned by an early, narrow duel still be dethroned
// later by a stronger member it has not yet met, the "A kicks out B, then
// A itself is kicked by C distant from B" cascade §4.6's rationale names
// as the reason the tournament iterates instead of running one greedy
// pass (DESIGN.md).
func localEdges(idx *distance.Index, members []contig.Handle, tau float64) []edge {
	var edges []edge
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			d, ok := idx.Distance(members[i], members[j])
			if !ok || d > tau {
				continue
			}
			edges = append(edges, edge{members[i], members[j], d})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].d != edges[j].d {
			return edges[i].d < edges[j].d
		}
		if edges[i].a != edges[j].a {
			return edges[i].a < edges[j].a
		}
		return edges[i].b < edges[j].b
	})
	return edges
}

// runLocusRounds runs §4.6's tournament over l: repeated passes over the
// within-tau edges, closest pairs first, until a pass changes nothing.
// Each edge's winner is promoted (or stays) KEPT and, absent a size
// safeguard, discards the loser -- even a loser that a previous, narrower
// pass had already promoted, so a later-processed edge against a
// stronger member can still demote it (§4.6). It is used both for the
// initial tournament and for post-rescue re-runs (passOffset distinguishes
// their Iteration numbering in the ledger).
func runLocusRounds(store *contig.Store, table *contig.Table, idx *distance.Index, l Locus, cfg Config, passOffset int) []Warning {
	var warnings []Warning
	if len(pendingMembers(store, l)) == 0 {
		return warnings
	}
	edges := localEdges(idx, l.Members, cfg.Tau)
	recorded := make([]bool, len(edges))

	round := 0
	for {
		round++
		if round > cfg.MaxIterations {
			for _, h := range pendingMembers(store, l) {
				s := store.Get(h)
				s.Verdict = contig.Discarded
				s.Reason = string(errkind.ReasonIterationCap)
				s.HasDisqualifier = false
				s.Iteration = passOffset + round
			}
			warnings = append(warnings, Warning{
				Target:  l.Target,
				Message: "locus tournament hit max-iterations before converging",
			})
			return warnings
		}

		changed := false
		for i, e := range edges {
			sa, sb := store.Get(e.a), store.Get(e.b)
			if sa.Verdict == contig.Discarded || sb.Verdict == contig.Discarded {
				continue // one side already out: edge is moot
			}
			winner, loser, ws, ls := e.a, e.b, sa, sb
			if better(table, sb, sa) {
				winner, loser, ws, ls = e.b, e.a, sb, sa
			}
			if !recorded[i] {
				ws.Opponents = append(ws.Opponents, loser)
				ls.Opponents = append(ls.Opponents, winner)
				recorded[i] = true
			}

			if ws.Verdict == contig.Pending {
				ws.Verdict = contig.Kept
				ws.Iteration = passOffset + round
				changed = true
			}
			if safeguards(store, winner, loser, cfg) {
				if !ls.Safeguarded {
					ls.Safeguarded = true
					ls.SafeguardedBy = winner
					changed = true
				}
				continue
			}
			ls.Verdict = contig.Discarded
			ls.Disqualifier = winner
			ls.HasDisqualifier = true
			ls.Reason = string(errkind.ReasonSimilarityLoser)
			ls.Iteration = passOffset + round
			changed = true
		}
		if !changed {
			break
		}
	}

	// Members no edge ever touched, or safeguarded survivors, converge to
	// KEPT by default: nothing in the locus disqualifies them.
	for _, h := range l.Members {
		s := store.Get(h)
		if s.Verdict != contig.Pending {
			continue
		}
		s.Verdict = contig.Kept
		s.Iteration = passOffset + round
		if s.Safeguarded {
			s.Reason = string(errkind.ReasonSizeSafeguarded)
		}
	}
	return warnings
}

func pendingMembers(store *contig.Store, l Locus) []contig.Handle {
	var out []contig.Handle
	for _, h := range l.Members {
		if store.Get(h).Verdict == contig.Pending {
			out = append(out, h)
		}
	}
	return out
}

// better reports whether a outranks b: greater normalised score, breaking
// ties by greater length then lexicographically smaller id (§4.6).
func better(table *contig.Table, a, b *contig.Summary) bool {
	if a.NormScore != b.NormScore {
		return a.NormScore > b.NormScore
	}
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	return table.ID(a.Handle) < table.ID(b.Handle)
}

// safeguards reports whether the size safeguard fires for c relative to
// champion (§4.6): c survives despite being within tau if it is not too
// much smaller AND not too much weaker-scoring than champion.
func safeguards(store *contig.Store, champion, c contig.Handle, cfg Config) bool {
	cs, ls := store.Get(champion), store.Get(c)
	if float64(ls.Length) < cfg.SafeguardRatio*float64(cs.Length) {
		return false
	}
	if ls.NormScore < cfg.SafeguardScoreRatio*cs.NormScore {
		return false
	}
	return true
}
