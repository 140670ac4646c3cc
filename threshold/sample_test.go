package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/distance"
)

func TestCollectSampleOnlyLocusOverlappingKnownPairs(t *testing.T) {
	table := contig.NewTable()
	a, b, c := table.Intern("a"), table.Intern("b"), table.Intern("c")
	target := table.Intern("target")
	store := contig.NewStore(table)

	sa, sb, sc := store.Get(a), store.Get(b), store.Get(c)
	sa.PrimaryTarget, sb.PrimaryTarget, sc.PrimaryTarget = target, target, target
	sa.LocusStart, sa.LocusEnd = 0, 100
	sb.LocusStart, sb.LocusEnd = 50, 150 // overlaps a
	sc.LocusStart, sc.LocusEnd = 500, 600 // does not overlap a or b

	idx := distance.Build([]distance.Pair{
		{A: a, B: b, D: 0.2},
		{A: a, B: c, D: 0.9}, // known but not locus-co-located
	})

	sample := CollectSample(store, idx, 1)
	assert.Equal(t, []float64{0.2}, sample)
}

func TestCollectSampleExcludesUnknownDistances(t *testing.T) {
	table := contig.NewTable()
	a, b := table.Intern("a"), table.Intern("b")
	target := table.Intern("target")
	store := contig.NewStore(table)

	sa, sb := store.Get(a), store.Get(b)
	sa.PrimaryTarget, sb.PrimaryTarget = target, target
	sa.LocusStart, sa.LocusEnd = 0, 100
	sb.LocusStart, sb.LocusEnd = 50, 150

	idx := distance.Build(nil)

	sample := CollectSample(store, idx, 1)
	assert.Empty(t, sample)
}
