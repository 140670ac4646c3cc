// Package ioutil implements the §6 input readers for PAF alignments, pairwise
// distances and the FASTA index (the GC exclude list and BUSCO table readers
// live in packages gcfilter and busco). All
// readers go through github.com/grailbio/base/file so a path may be local,
// S3, or any other scheme the linked file implementation registers.
package ioutil

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/grailbio/base/file"
	"github.com/grailbio/dehap/align"
	"github.com/grailbio/dehap/contig"
	"github.com/grailbio/dehap/errkind"
)

// ReadPAF parses a PAF-format alignment file (12 standard columns plus an
// AS:i: tag, per §6) interning query and target identifiers into table, and
// returns the raw records for align.NewStore to filter and index (C1).
// Records missing an AS:i: tag are rejected with InputShape, per §7.
func ReadPAF(ctx context.Context, path string, table *contig.Table) ([]align.Record, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open PAF file", path)
	}
	defer f.Close(ctx)

	r, err := maybeGunzip(path, f.Reader(ctx))
	if err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "open PAF file", path)
	}

	var records []align.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := parsePAFLine(line, table)
		if err != nil {
			return nil, errkind.Wrap(errkind.InputShape, err, "PAF line", lineNo, path)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errkind.Wrap(errkind.InputShape, err, "reading PAF file", path)
	}
	return records, nil
}

func parsePAFLine(line string, table *contig.Table) (align.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 12 {
		return align.Record{}, errkind.Errorf(errkind.InputShape, "PAF line has %d fields, want >= 12", len(fields))
	}

	qLen, err1 := strconv.Atoi(fields[1])
	qs, err2 := strconv.Atoi(fields[2])
	qe, err3 := strconv.Atoi(fields[3])
	tLen, err4 := strconv.Atoi(fields[6])
	ts, err5 := strconv.Atoi(fields[7])
	te, err6 := strconv.Atoi(fields[8])
	matches, err7 := strconv.Atoi(fields[9])
	blockLen, err8 := strconv.Atoi(fields[10])
	mapq, err9 := strconv.Atoi(fields[11])
	for _, e := range []error{err1, err2, err3, err4, err5, err6, err7, err8, err9} {
		if e != nil {
			return align.Record{}, errkind.Errorf(errkind.InputShape, "malformed numeric field: %v", e)
		}
	}

	score, ok := parseASTag(fields[12:])
	if !ok {
		return align.Record{}, errkind.Errorf(errkind.InputShape, "alignment missing required AS:i: tag")
	}

	strand := int8(1)
	if fields[4] == "-" {
		strand = -1
	}

	return align.Record{
		Query:     table.Intern(fields[0]),
		QueryLen:  int32(qLen),
		Qs:        int32(qs),
		Qe:        int32(qe),
		Strand:    strand,
		Target:    table.Intern(fields[5]),
		TargetLen: int32(tLen),
		Ts:        int32(ts),
		Te:        int32(te),
		Matches:   int32(matches),
		BlockLen:  int32(blockLen),
		MapQ:      uint8(mapq),
		Score:     int32(score),
	}, nil
}

func parseASTag(tags []string) (int, bool) {
	for _, tag := range tags {
		if strings.HasPrefix(tag, "AS:i:") {
			v, err := strconv.Atoi(tag[len("AS:i:"):])
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

func maybeGunzip(path string, r io.Reader) (io.Reader, error) {
	if !strings.HasSuffix(path, ".gz") {
		return r, nil
	}
	return gzip.NewReader(r)
}
