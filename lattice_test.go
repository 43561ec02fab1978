package cryst

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/rmera/gocryst/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatticeOrthorhombic(Te *testing.T) {
	UB := v3.FromArray([3][3]float64{{0.2, 0, 0}, {0, 0.25, 0}, {0, 0, 1.0 / 6}})
	L, err := LatticeParams(UB)
	require.NoError(Te, err)
	assert.InDelta(Te, 5.0, L.A, 1e-12)
	assert.InDelta(Te, 4.0, L.B, 1e-12)
	assert.InDelta(Te, 6.0, L.C, 1e-12)
	for _, v := range []float64{L.Alpha, L.Beta, L.Gamma} {
		assert.InDelta(Te, 90.0, v, 1e-10)
	}
	assert.InDelta(Te, 120.0, L.Volume, 1e-9)
}

func TestLatticeHexagonal(Te *testing.T) {
	//the cell edges are the rows of UB⁻¹
	edges := v3.FromArray([3][3]float64{{3, 0, 0}, {-1.5, 1.5 * math.Sqrt(3), 0}, {0, 0, 5}})
	UB, err := v3.Inverse(edges)
	require.NoError(Te, err)
	G, err := MetricTensor(UB)
	require.NoError(Te, err)
	assert.InDelta(Te, -4.5, G[0][1], 1e-10)
	assert.InDelta(Te, G[0][1], G[1][0], 1e-15)
	L, err := LatticeParams(UB)
	require.NoError(Te, err)
	assert.InDelta(Te, 3.0, L.A, 1e-10)
	assert.InDelta(Te, 3.0, L.B, 1e-10)
	assert.InDelta(Te, 120.0, L.Gamma, 1e-8)
	assert.InDelta(Te, 90.0, L.Alpha, 1e-8)
	assert.InDelta(Te, 22.5*math.Sqrt(3), L.Volume, 1e-8)
	assert.Contains(Te, L.String(), "gamma: 120.000")
}

func TestLatticeErrors(Te *testing.T) {
	_, err := MetricTensor(nil)
	assert.True(Te, errors.Is(err, ErrInput))
	_, err = LatticeParams(v3.Zeros(3))
	assert.True(Te, errors.Is(err, ErrSingular))
	_, err = LatticeFromMetric([3][3]float64{{1, 0, 0}, {0, 0, 0}, {0, 0, 1}})
	assert.True(Te, errors.Is(err, ErrDegenerate))
}
