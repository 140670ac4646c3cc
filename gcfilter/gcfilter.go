// Package gcfilter applies an optional pre-filter that discards contigs
// appearing on a caller-supplied GC-outlier exclude list before C2 runs.
// §6 treats the GC pre-filter as an outside collaborator whose output is an
// exclude set; this package reads that set and applies it, recording the
// reserved reason tag gc-outlier (§7).
package gcfilter

import (
	"bufio"
	"context"

	"github.com/grailbio/base/file"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/errkind"
)

// ReadExcludeList reads a file of one contig id per line and returns the set
// of Handles it names. Ids not present in table are ignored: the exclude
// list may be broader than the assembly actually being screened.
func ReadExcludeList(ctx context.Context, path string, table *contig.Table) (map[contig.Handle]bool, error) {
	if path == "" {
		return nil, nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open GC exclude list", path)
	}
	defer f.Close(ctx)

	out := make(map[contig.Handle]bool)
	scanner := bufio.NewScanner(f.Reader(ctx))
	for scanner.Scan() {
		id := scanner.Text()
		if id == "" {
			continue
		}
		if h, ok := table.Lookup(id); ok {
			out[h] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "reading GC exclude list", path)
	}
	return out, nil
}

// Apply discards every contig named in excluded from Pending with reason
// gc-outlier, before locus assignment runs.
func Apply(store *contig.Store, excluded map[contig.Handle]bool) {
	for h := range excluded {
		if int(h) >= len(store.Summaries) {
			continue
		}
		s := store.Get(h)
		if s.Verdict != contig.Pending {
			continue
		}
		s.Verdict = contig.Discarded
		s.Reason = string(errkind.ReasonGCOutlier)
	}
}
