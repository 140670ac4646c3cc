// Package interval implements the half-open-interval arithmetic shared by
// C3's tiling conflict check and C6's locus-grouping sweep.
package interval
