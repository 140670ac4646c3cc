package tournament

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
)

func setupPair(t *testing.T) (*contig.Table, *contig.Store, contig.Handle, contig.Handle) {
	t.Helper()
	table := contig.NewTable()
	a, b := table.Intern("a"), table.Intern("b")
	target := table.Intern("target")
	store := contig.NewStore(table)

	sa, sb := store.Get(a), store.Get(b)
	sa.PrimaryTarget, sb.PrimaryTarget = target, target
	sa.LocusStart, sa.LocusEnd = 0, 100
	sb.LocusStart, sb.LocusEnd = 50, 150
	return table, store, a, b
}

func TestRunChampionDiscardsSimilarLoser(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tau = 0.05
	cfg.MaxIterations = 10

	table, store, a, b := setupPair(t)
	sa, sb := store.Get(a), store.Get(b)
	sa.NormScore, sa.Length = 0.9, 1000
	sb.NormScore, sb.Length = 0.5, 1000

	idx := distance.Build([]distance.Pair{{A: a, B: b, D: 0.01}})

	_, err := Run(context.Background(), store, table, idx, cfg)
	require.NoError(t, err)

	assert.Equal(t, contig.Kept, sa.Verdict)
	assert.Equal(t, contig.Discarded, sb.Verdict)
	assert.Equal(t, a, sb.Disqualifier)
	assert.Equal(t, "similarity-loser", sb.Reason)
}

func TestRunDistinctNeighboursBothKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tau = 0.01
	cfg.MaxIterations = 10

	table, store, a, b := setupPair(t)
	sa, sb := store.Get(a), store.Get(b)
	sa.NormScore, sa.Length = 0.9, 1000
	sb.NormScore, sb.Length = 0.5, 1000

	idx := distance.Build([]distance.Pair{{A: a, B: b, D: 0.5}})

	_, err := Run(context.Background(), store, table, idx, cfg)
	require.NoError(t, err)

	assert.Equal(t, contig.Kept, sa.Verdict)
	assert.Equal(t, contig.Kept, sb.Verdict)
}

func TestRunSizeSafeguardKeepsLoserActiveUntilItsOwnRound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tau = 0.05
	cfg.SafeguardRatio = 0.50
	cfg.SafeguardScoreRatio = 0.90
	cfg.MaxIterations = 10

	table, store, a, b := setupPair(t)
	sa, sb := store.Get(a), store.Get(b)
	sa.NormScore, sa.Length = 1.0, 1000
	sb.NormScore, sb.Length = 0.95, 600 // within both safeguard ratios

	idx := distance.Build([]distance.Pair{{A: a, B: b, D: 0.01}})

	_, err := Run(context.Background(), store, table, idx, cfg)
	require.NoError(t, err)

	assert.Equal(t, contig.Kept, sa.Verdict)
	assert.Equal(t, contig.Kept, sb.Verdict)
	assert.True(t, sb.Safeguarded)
	assert.Equal(t, "size-safeguarded", sb.Reason)
}

// TestRunCascadingLossRescuesOrphan exercises §4.6's cascading-loss case
// through Run itself (no hand-seeded verdicts): E discards F on a narrow
// duel, a stronger G then discards E on a separate duel E never compared
// against F, and F -- now disqualified by a contig that is itself
// discarded, with no surviving KEPT neighbour within tau -- comes back as
// an orphan rescue.
func TestRunCascadingLossRescuesOrphan(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tau = 0.05
	cfg.MaxIterations = 10

	table := contig.NewTable()
	e, f, g := table.Intern("e"), table.Intern("f"), table.Intern("g")
	target := table.Intern("target")
	store := contig.NewStore(table)

	se, sf, sg := store.Get(e), store.Get(f), store.Get(g)
	for _, s := range []*contig.Summary{se, sf, sg} {
		s.PrimaryTarget = target
		s.LocusStart, s.LocusEnd = 0, 100
		s.Length = 1000
	}
	se.NormScore = 0.90
	sf.NormScore = 0.30
	sg.NormScore = 1.10

	idx := distance.Build([]distance.Pair{
		{A: e, B: f, D: 0.01},
		{A: e, B: g, D: 0.02},
		// f-g distance deliberately unsupplied: they are not neighbours.
	})

	_, err := Run(context.Background(), store, table, idx, cfg)
	require.NoError(t, err)

	assert.Equal(t, contig.Discarded, se.Verdict)
	assert.Equal(t, g, se.Disqualifier)

	assert.Equal(t, contig.Kept, sf.Verdict)
	assert.Equal(t, "orphan-rescued", sf.Reason)

	assert.Equal(t, contig.Kept, sg.Verdict)
}

func TestIsOrphanRequiresDiscardedDisqualifier(t *testing.T) {
	table := contig.NewTable()
	h, x := table.Intern("h"), table.Intern("x")
	target := table.Intern("target")
	store := contig.NewStore(table)

	sh, sx := store.Get(h), store.Get(x)
	sh.PrimaryTarget, sx.PrimaryTarget = target, target
	sh.Verdict = contig.Discarded
	sh.HasDisqualifier = true
	sh.Disqualifier = x
	sx.Verdict = contig.Kept // disqualifier is still KEPT, not discarded

	l := Locus{Target: target, Members: []contig.Handle{h, x}}
	idx := distance.Build(nil)

	assert.False(t, isOrphan(store, idx, l, h, 0.05))
}

func TestIsOrphanTrueWithNoKeptNeighbourWithinTau(t *testing.T) {
	table := contig.NewTable()
	h, x, kept := table.Intern("h"), table.Intern("x"), table.Intern("kept")
	target := table.Intern("target")
	store := contig.NewStore(table)

	sh, sx, sk := store.Get(h), store.Get(x), store.Get(kept)
	sh.PrimaryTarget, sx.PrimaryTarget, sk.PrimaryTarget = target, target, target
	sh.Verdict = contig.Discarded
	sh.HasDisqualifier = true
	sh.Disqualifier = x
	sx.Verdict = contig.Discarded // disqualifier itself later discarded
	sk.Verdict = contig.Kept

	l := Locus{Target: target, Members: []contig.Handle{h, x, kept}}
	idx := distance.Build([]distance.Pair{{A: h, B: kept, D: 0.5}})

	assert.True(t, isOrphan(store, idx, l, h, 0.05))
}

func TestIsOrphanFalseWithKeptNeighbourWithinTau(t *testing.T) {
	table := contig.NewTable()
	h, x, kept := table.Intern("h"), table.Intern("x"), table.Intern("kept")
	target := table.Intern("target")
	store := contig.NewStore(table)

	sh, sx, sk := store.Get(h), store.Get(x), store.Get(kept)
	sh.PrimaryTarget, sx.PrimaryTarget, sk.PrimaryTarget = target, target, target
	sh.Verdict = contig.Discarded
	sh.HasDisqualifier = true
	sh.Disqualifier = x
	sx.Verdict = contig.Discarded
	sk.Verdict = contig.Kept

	l := Locus{Target: target, Members: []contig.Handle{h, x, kept}}
	idx := distance.Build([]distance.Pair{{A: h, B: kept, D: 0.01}})

	assert.False(t, isOrphan(store, idx, l, h, 0.05))
}
