package interval

// Overlap returns the length of the intersection of the half-open intervals
// [as, ae) and [bs, be), or 0 if they do not intersect. Shared by every
// interval-tiling and locus-grouping computation in this repo, rather than
// each one re-deriving the same min/max arithmetic.
func Overlap(as, ae, bs, be PosType) PosType {
	lo := as
	if bs > lo {
		lo = bs
	}
	hi := ae
	if be < hi {
		hi = be
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}
