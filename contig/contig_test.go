package contig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInternIsIdempotent(t *testing.T) {
	table := NewTable()
	a := table.Intern("contig_1")
	b := table.Intern("contig_1")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, table.Len())
}

func TestTableInternDistinctIds(t *testing.T) {
	table := NewTable()
	a := table.Intern("contig_1")
	b := table.Intern("contig_2")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "contig_1", table.ID(a))
	assert.Equal(t, "contig_2", table.ID(b))
}

func TestTableLookupMiss(t *testing.T) {
	table := NewTable()
	table.Intern("contig_1")
	_, ok := table.Lookup("contig_2")
	assert.False(t, ok)
}

func TestTableAllInInterningOrder(t *testing.T) {
	table := NewTable()
	table.Intern("b")
	table.Intern("a")
	all := table.All()
	require.Len(t, all, 2)
	assert.Equal(t, "b", table.ID(all[0]))
	assert.Equal(t, "a", table.ID(all[1]))
}

func TestNewStoreDefaults(t *testing.T) {
	table := NewTable()
	h := table.Intern("contig_1")
	store := NewStore(table)
	s := store.Get(h)
	assert.Equal(t, NoTarget, s.PrimaryTarget)
	assert.False(t, s.HasPrimaryTarget())
	assert.Equal(t, Pending, s.Verdict)
	assert.False(t, s.Verdict.Terminal())
}

func TestVerdictTerminal(t *testing.T) {
	assert.True(t, Kept.Terminal())
	assert.True(t, Discarded.Terminal())
	assert.True(t, UnalignedKept.Terminal())
	assert.True(t, UnalignedDiscarded.Terminal())
	assert.False(t, Pending.Terminal())
	assert.False(t, UnalignedPending.Terminal())
}

func TestLocusOverlaps(t *testing.T) {
	table := NewTable()
	a, b := table.Intern("a"), table.Intern("b")
	target := table.Intern("target")
	store := NewStore(table)
	sa, sb := store.Get(a), store.Get(b)
	sa.PrimaryTarget, sb.PrimaryTarget = target, target
	sa.LocusStart, sa.LocusEnd = 0, 100
	sb.LocusStart, sb.LocusEnd = 90, 200
	assert.True(t, sa.LocusOverlaps(sb, 1))
	assert.False(t, sa.LocusOverlaps(sb, 20))

	sb.LocusStart, sb.LocusEnd = 200, 300
	assert.False(t, sa.LocusOverlaps(sb, 1))
}

func TestLocusOverlapsRequiresSameTarget(t *testing.T) {
	table := NewTable()
	a, b := table.Intern("a"), table.Intern("b")
	t1, t2 := table.Intern("t1"), table.Intern("t2")
	store := NewStore(table)
	sa, sb := store.Get(a), store.Get(b)
	sa.PrimaryTarget, sb.PrimaryTarget = t1, t2
	sa.LocusStart, sa.LocusEnd = 0, 100
	sb.LocusStart, sb.LocusEnd = 0, 100
	assert.False(t, sa.LocusOverlaps(sb, 1))
}
