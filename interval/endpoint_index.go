package interval

// PosType is the coordinate type shared by every half-open interval in this
// repo (alignment target/query spans, locus spans). int32 matches the
// teacher's own BAM-coordinate convention and comfortably covers assembly
// contig and reference lengths.
type PosType int32
