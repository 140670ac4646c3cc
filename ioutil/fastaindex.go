package ioutil

import (
	"bufio"
	"context"
	"regexp"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/errkind"
)

var faiLineRE = regexp.MustCompile(`^(\S+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)`)

// ReadFastaIndex reads a samtools-style .fai index and interns every contig
// name into table, returning the Store sized and pre-populated with each
// contig's Length (§6; adapted from encoding/fasta's FaiToReferenceLengths,
// trimmed to Handle keys per the dense-array rule, §9).
func ReadFastaIndex(ctx context.Context, path string, table *contig.Table) (*contig.Store, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open FASTA index", path)
	}
	defer f.Close(ctx)

	type entry struct {
		handle contig.Handle
		length int
	}
	var entries []entry

	scanner := bufio.NewScanner(f.Reader(ctx))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		m := faiLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, errkind.Errorf(errkind.InputShape, "malformed .fai line %d in %s", lineNo, path)
		}
		length, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, errkind.Errorf(errkind.InputShape, "malformed .fai length on line %d: %v", lineNo, err)
		}
		entries = append(entries, entry{handle: table.Intern(m[1]), length: length})
	}
	if err := scanner.Err(); err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "reading FASTA index", path)
	}

	store := contig.NewStore(table)
	for _, e := range entries {
		store.Get(e.handle).Length = e.length
	}
	return store, nil
}
