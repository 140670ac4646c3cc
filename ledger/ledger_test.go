package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/dehap/contig"
)

func TestSubmitRejectsNonTerminalVerdict(t *testing.T) {
	l := New()
	err := l.Submit(Record{Contig: 1, Verdict: contig.Pending})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal-invariant")
}

func TestSubmitRejectsDoubleWrite(t *testing.T) {
	l := New()
	require.NoError(t, l.Submit(Record{Contig: 1, Verdict: contig.Kept}))
	err := l.Submit(Record{Contig: 1, Verdict: contig.Discarded})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal-invariant")
}

func TestVerdictAndIterateByVerdict(t *testing.T) {
	l := New()
	require.NoError(t, l.Submit(Record{Contig: 1, Verdict: contig.Kept}))
	require.NoError(t, l.Submit(Record{Contig: 2, Verdict: contig.Discarded}))
	require.NoError(t, l.Submit(Record{Contig: 3, Verdict: contig.Kept}))

	r, ok := l.Verdict(1)
	require.True(t, ok)
	assert.Equal(t, contig.Kept, r.Verdict)

	_, ok = l.Verdict(99)
	assert.False(t, ok)

	assert.ElementsMatch(t, []contig.Handle{1, 3}, l.IterateByVerdict(contig.Kept))
	assert.Equal(t, 3, l.Len())
}

func TestSummarise(t *testing.T) {
	l := New()
	require.NoError(t, l.Submit(Record{Contig: 1, Verdict: contig.Kept}))
	require.NoError(t, l.Submit(Record{Contig: 2, Verdict: contig.Kept}))
	require.NoError(t, l.Submit(Record{Contig: 3, Verdict: contig.Discarded}))

	summary := l.Summarise()
	assert.Equal(t, 2, summary[contig.Kept])
	assert.Equal(t, 1, summary[contig.Discarded])
}

func TestSubmitFromSummaryCarriesFields(t *testing.T) {
	l := New()
	s := &contig.Summary{
		Handle:          5,
		Verdict:         contig.Discarded,
		Reason:          "similarity-loser",
		Opponents:       []contig.Handle{1, 2},
		Disqualifier:    1,
		HasDisqualifier: true,
		Iteration:       2,
	}
	require.NoError(t, l.SubmitFromSummary(s))

	r, ok := l.Verdict(5)
	require.True(t, ok)
	assert.Equal(t, "similarity-loser", r.Reason)
	assert.Equal(t, []contig.Handle{1, 2}, r.Opponents)
	assert.True(t, r.HasDisqualifier)
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := New()
	require.NoError(t, l.Submit(Record{
		Contig:          1,
		Verdict:         contig.Discarded,
		Reason:          "similarity-loser",
		Opponents:       []contig.Handle{2, 3},
		Disqualifier:    2,
		HasDisqualifier: true,
		Iteration:       4,
	}))
	require.NoError(t, l.Submit(Record{Contig: 2, Verdict: contig.Kept, Iteration: 4}))

	blob, err := l.Snapshot()
	require.NoError(t, err)

	restored, err := LoadSnapshot(blob)
	require.NoError(t, err)
	assert.Equal(t, l.Len(), restored.Len())

	r, ok := restored.Verdict(1)
	require.True(t, ok)
	assert.Equal(t, contig.Discarded, r.Verdict)
	assert.Equal(t, "similarity-loser", r.Reason)
	assert.Equal(t, []contig.Handle{2, 3}, r.Opponents)
	assert.Equal(t, contig.Handle(2), r.Disqualifier)
	assert.Equal(t, 4, r.Iteration)
}
