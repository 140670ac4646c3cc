// Package contig interns contig identifiers into dense uint32 handles and
// holds the per-contig summary state (§3, §9 of the design: a single
// []ContigSummary slice indexed by Handle replaces the map-keyed-by-id
// anti-pattern common in source implementations of this algorithm family).
package contig

import (
	"github.com/grailbio/base/errors"
	"github.com/minio/highwayhash"
)

// Handle is a dense, interned identifier for a contig. Handles are stable
// for the lifetime of a Table and are suitable as slice indices.
type Handle uint32

// invalidIndex is the all-ones uint32, never a valid interning index.
// Handle 0 is a valid handle, so "none" is carried by a separate bool
// (e.g. Summary.HasDisqualifier) or by the NoTarget sentinel.
const invalidIndex = ^uint32(0)

var hashKey = [32]byte{ // fixed key: determinism matters more than DoS resistance here.
	0x0d, 0xe4, 0x1a, 0x9f, 0x6c, 0x5b, 0x73, 0x21,
	0x88, 0x44, 0x02, 0xaa, 0xb1, 0xfe, 0x3d, 0x17,
	0x5e, 0x90, 0x6f, 0x2c, 0x81, 0x4b, 0x3a, 0xd6,
	0x7c, 0x11, 0x9b, 0x28, 0x65, 0xf0, 0xc3, 0x54,
}

// Table interns contig identifiers to Handles and back.
//
// Lookups during ingestion (PAF, distances, FASTA index) go through Table;
// all downstream stages operate purely on Handle.
type Table struct {
	ids     []string
	index   map[uint64][]uint32 // hash(id) -> candidate handles, for collision resolution
}

// NewTable returns an empty interning table.
func NewTable() *Table {
	return &Table{index: make(map[uint64][]uint32)}
}

func hash(id string) uint64 {
	return highwayhash.Sum64([]byte(id), hashKey[:])
}

// Intern returns the Handle for id, creating one if id has not been seen
// before.
func (t *Table) Intern(id string) Handle {
	h := hash(id)
	for _, idx := range t.index[h] {
		if t.ids[idx] == id {
			return Handle(idx)
		}
	}
	idx := uint32(len(t.ids))
	t.ids = append(t.ids, id)
	t.index[h] = append(t.index[h], idx)
	return Handle(idx)
}

// Lookup returns the Handle for id and whether it has been interned.
func (t *Table) Lookup(id string) (Handle, bool) {
	h := hash(id)
	for _, idx := range t.index[h] {
		if t.ids[idx] == id {
			return Handle(idx), true
		}
	}
	return 0, false
}

// ID returns the string identifier for h. Panics if h was never interned
// by this table; this is an InternalInvariant condition, not something
// callers should need to recover from.
func (t *Table) ID(h Handle) string {
	if int(h) >= len(t.ids) {
		panic(errors.E("internal-invariant", errors.Errorf("contig: handle %d not interned", h)))
	}
	return t.ids[h]
}

// Len returns the number of interned contigs.
func (t *Table) Len() int { return len(t.ids) }

// All returns every interned Handle in interning order.
func (t *Table) All() []Handle {
	out := make([]Handle, len(t.ids))
	for i := range out {
		out[i] = Handle(i)
	}
	return out
}
