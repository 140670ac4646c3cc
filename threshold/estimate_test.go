package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateUserSuppliedBypassesSample(t *testing.T) {
	tau := 0.03
	report, err := Estimate(nil, &tau)
	require.NoError(t, err)
	assert.Equal(t, tau, report.Tau)
	assert.True(t, report.UserSupplied)
}

func TestEstimateDegenerateBelowMinSample(t *testing.T) {
	sample := make([]float64, MinSample-1)
	_, err := Estimate(sample, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimator-degenerate")
}

func TestEstimateDegenerateSinglePointMass(t *testing.T) {
	sample := make([]float64, MinSample)
	for i := range sample {
		sample[i] = 0.1
	}
	report, err := Estimate(sample, nil)
	require.NoError(t, err)
	assert.True(t, report.Degenerate)
	assert.InDelta(t, 0.1, report.Tau, 1e-6)
}

func TestEstimateBimodalFindsValleyBetweenClusters(t *testing.T) {
	var sample []float64
	for i := 0; i < 60; i++ {
		sample = append(sample, 0.01)
	}
	for i := 0; i < 60; i++ {
		sample = append(sample, 0.50)
	}
	report, err := Estimate(sample, nil)
	require.NoError(t, err)
	assert.False(t, report.Degenerate)
	assert.Greater(t, report.Tau, 0.01)
	assert.Less(t, report.Tau, 0.50)
}

func TestInteriorLocalMinimaExcludesEndpoints(t *testing.T) {
	density := []float64{0, 5, 1, 5, 0}
	minima := interiorLocalMinima(nil, density)
	assert.Equal(t, []int{2}, minima)
}

func TestMedianOfEvenAndOdd(t *testing.T) {
	assert.Equal(t, 2.0, medianOf([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, medianOf([]float64{1, 2, 3, 4}))
}
