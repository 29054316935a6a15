package kmeans

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points1D(vals ...float64) [][]float64 {
	out := make([][]float64, len(vals))
	for i, v := range vals {
		out[i] = []float64{v}
	}
	return out
}

func TestFit_SeparatesObviousGroups(t *testing.T) {
	pts := points1D(1, 2, 3, 50, 51, 52, 100, 101, 102)
	res, err := Fit(pts, Options{K: 3, Seed: 42})
	require.NoError(t, err)

	// Points in the same band share a label, different bands differ.
	for _, band := range [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}} {
		for _, i := range band[1:] {
			assert.Equal(t, res.Labels[band[0]], res.Labels[i])
		}
	}
	assert.NotEqual(t, res.Labels[0], res.Labels[3])
	assert.NotEqual(t, res.Labels[3], res.Labels[6])
	assert.NotEqual(t, res.Labels[0], res.Labels[6])

	require.Len(t, res.Centroids, 3)
	assert.InDelta(t, 2.0, res.Centroids[res.Labels[0]][0], 1e-9)
	assert.InDelta(t, 51.0, res.Centroids[res.Labels[3]][0], 1e-9)
	assert.InDelta(t, 101.0, res.Centroids[res.Labels[6]][0], 1e-9)
	assert.InDelta(t, 6.0, res.Inertia, 1e-9)
}

func TestFit_Deterministic(t *testing.T) {
	pts := points1D(3, 9, 14, 22, 27, 31, 48, 55, 61, 77, 80, 95)
	opts := Options{K: 3, Seed: 42, NInit: 5}

	a, err := Fit(pts, opts)
	require.NoError(t, err)
	b, err := Fit(pts, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Centroids, b.Centroids)
	assert.Equal(t, a.Inertia, b.Inertia)
}

func TestFit_EveryClusterNonEmpty(t *testing.T) {
	pts := points1D(0, 0, 0, 0, 0, 0, 1, 10)
	res, err := Fit(pts, Options{K: 3, Seed: 1})
	require.NoError(t, err)

	counts := map[int]int{}
	for _, l := range res.Labels {
		counts[l]++
	}
	assert.Len(t, counts, 3)
}

func TestFit_Degenerate(t *testing.T) {
	_, err := Fit(points1D(5, 5, 7, 7), Options{K: 3, Seed: 42})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrDegenerate))
}

func TestFit_InvalidInput(t *testing.T) {
	_, err := Fit(nil, Options{K: 3})
	assert.Error(t, err)

	_, err = Fit(points1D(1, 2, 3), Options{K: 0})
	assert.Error(t, err)

	_, err = Fit([][]float64{{1}, {2, 3}, {4}}, Options{K: 2})
	assert.Error(t, err)
}

func TestFit_TwoDimensions(t *testing.T) {
	pts := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	res, err := Fit(pts, Options{K: 2, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.Equal(t, res.Labels[2], res.Labels[3])
	assert.NotEqual(t, res.Labels[0], res.Labels[2])
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, 2, Distinct(points1D(1, 1, 2, 2)))
	assert.Equal(t, 0, Distinct(nil))
}
