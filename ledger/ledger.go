// Package ledger implements C8, the decision ledger: an append-only,
// single-writer record of each contig's terminal verdict, the source of
// truth for reports.
package ledger

import (
	"sync"

	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/errkind"
)

// Record is the frozen, terminal decision for one contig.
type Record struct {
	Contig       contig.Handle
	Verdict      contig.Verdict
	Reason       string
	Opponents    []contig.Handle
	Disqualifier contig.Handle
	HasDisqualifier bool
	Iteration    int
}

// Ledger is the C8 append-only store. Writes are single-writer by
// construction: all mutation goes through Submit, which takes an internal
// lock only long enough to check-and-set the written bit (§5's "sharded
// locks keyed by contig identifier" alternative; a single mutex is used
// here since ledger writes are not the pipeline's bottleneck).
type Ledger struct {
	mu       sync.Mutex
	records  map[contig.Handle]Record
	byVerdict map[contig.Verdict][]contig.Handle
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		records:   make(map[contig.Handle]Record),
		byVerdict: make(map[contig.Verdict][]contig.Handle),
	}
}

// Submit freezes a contig's final verdict into the ledger. A second
// Submit for the same contig is an InternalInvariant error: the ledger is
// append-only and every contig is expected to reach its terminal verdict
// exactly once.
func (l *Ledger) Submit(r Record) error {
	if !r.Verdict.Terminal() {
		return errkind.Errorf(errkind.InternalInvariant, "ledger: submitted non-terminal verdict %v for contig %v", r.Verdict, r.Contig)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[r.Contig]; ok {
		return errkind.Errorf(errkind.InternalInvariant, "ledger: double write for contig %v", r.Contig)
	}
	l.records[r.Contig] = r
	l.byVerdict[r.Verdict] = append(l.byVerdict[r.Verdict], r.Contig)
	return nil
}

// SubmitFromSummary freezes the ledger record directly from a contig's
// current (terminal) Summary, the common case once a stage has finished
// with a contig.
func (l *Ledger) SubmitFromSummary(s *contig.Summary) error {
	return l.Submit(Record{
		Contig:          s.Handle,
		Verdict:         s.Verdict,
		Reason:          s.Reason,
		Opponents:       append([]contig.Handle(nil), s.Opponents...),
		Disqualifier:    s.Disqualifier,
		HasDisqualifier: s.HasDisqualifier,
		Iteration:       s.Iteration,
	})
}

// Verdict returns the frozen record for h, if one has been submitted.
func (l *Ledger) Verdict(h contig.Handle) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.records[h]
	return r, ok
}

// IterateByVerdict returns every contig handle recorded with verdict v,
// in submission order.
func (l *Ledger) IterateByVerdict(v contig.Verdict) []contig.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := append([]contig.Handle(nil), l.byVerdict[v]...)
	return out
}

// Summarise counts how many contigs hold each verdict.
func (l *Ledger) Summarise() map[contig.Verdict]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[contig.Verdict]int, len(l.byVerdict))
	for v, hs := range l.byVerdict {
		out[v] = len(hs)
	}
	return out
}

// Len returns the total number of submitted records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// All returns every submitted record, unordered.
func (l *Ledger) All() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	return out
}
