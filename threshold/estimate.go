// Package threshold implements C5, the threshold estimator: derives the
// distance τ separating "same-haplotype" from "distinct" contig pairs from
// the distribution of locus-co-located pairwise distances, or accepts a
// user-supplied value.
package threshold

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/dehap/errkind"
	"gonum.org/v1/gonum/stat"
)

// MinSample is the minimum sample size below which estimation is bypassed
// in favour of requiring a user-supplied τ (§4.5).
const MinSample = 30

// GridPoints is the number of points in the density-estimation grid
// (§9: "a Gaussian kernel with Scott bandwidth on a 1,024-point grid is
// sufficient").
const GridPoints = 1024

// sideMassFraction is the minimum fraction of |S| required on each side
// of a candidate local minimum (§4.5 step 3).
const sideMassFraction = 0.05

// Report carries the estimation outcome for the threshold report (§6).
type Report struct {
	Tau            float64
	SampleSize     int
	UserSupplied   bool
	Degenerate     bool
	ModeStructure  string // human-readable summary of the minima found
}

// Estimate computes τ from sample, the locus-co-located pairwise distance
// sample (§3). If userTau is non-nil, it is returned verbatim and no
// estimation is performed. If len(sample) < MinSample and userTau is nil,
// an EstimatorDegenerate error is returned (§7).
func Estimate(sample []float64, userTau *float64) (Report, error) {
	if userTau != nil {
		return Report{Tau: *userTau, SampleSize: len(sample), UserSupplied: true}, nil
	}
	if len(sample) < MinSample {
		return Report{}, errkind.Errorf(errkind.EstimatorDegenerate,
			"only %d locus-co-located pairs available, need >= %d to estimate tau without --distance-threshold", len(sample), MinSample)
	}

	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	mean, sd := stat.MeanStdDev(sorted, nil)
	if sd == 0 {
		tau := mean + 1e-9
		log.Printf("threshold: degenerate sample (all distances equal to %v), using tau=%v", mean, tau)
		return Report{Tau: tau, SampleSize: len(sample), Degenerate: true, ModeStructure: "degenerate: single point mass"}, nil
	}

	n := float64(len(sorted))
	bandwidth := 1.06 * sd * math.Pow(n, -1.0/5.0)
	if bandwidth <= 0 {
		bandwidth = sd / 4
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	grid := make([]float64, GridPoints)
	density := make([]float64, GridPoints)
	step := (hi - lo) / float64(GridPoints-1)
	if step == 0 {
		step = 1
	}
	for i := range grid {
		x := lo + float64(i)*step
		grid[i] = x
		density[i] = gaussianKDE(sorted, x, bandwidth)
	}

	minima := interiorLocalMinima(grid, density)
	for _, m := range minima {
		left, right := massAround(sorted, grid[m])
		if left >= sideMassFraction*n && right >= sideMassFraction*n {
			return Report{
				Tau:           grid[m],
				SampleSize:    len(sample),
				ModeStructure: "leftmost qualifying interior minimum",
			}, nil
		}
	}

	median := medianOf(sorted)
	log.Printf("threshold: no interior local minimum satisfied the %.0f%% mass rule, falling back to median=%v", sideMassFraction*100, median)
	return Report{Tau: median, SampleSize: len(sample), ModeStructure: "no qualifying minimum: median fallback"}, nil
}

func gaussianKDE(samples []float64, x, bandwidth float64) float64 {
	var sum float64
	for _, s := range samples {
		u := (x - s) / bandwidth
		sum += math.Exp(-0.5 * u * u)
	}
	return sum / (float64(len(samples)) * bandwidth * math.Sqrt(2*math.Pi))
}

// interiorLocalMinima returns the indices 1..len-2 where density is
// strictly less than both neighbours, in ascending x order.
func interiorLocalMinima(grid, density []float64) []int {
	var out []int
	for i := 1; i < len(density)-1; i++ {
		if density[i] < density[i-1] && density[i] < density[i+1] {
			out = append(out, i)
		}
	}
	return out
}

// massAround returns the count of samples strictly less than x (left) and
// greater than or equal to x (right).
func massAround(sorted []float64, x float64) (left, right float64) {
	i := sort.SearchFloat64s(sorted, x)
	left = float64(i)
	right = float64(len(sorted) - i)
	return left, right
}

func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
