package cryst

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/rmera/gocryst/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUB = [3][3]float64{{0.2, 0.01, 0.03}, {-0.02, 0.25, 0.01}, {0.05, 0, 0.16}}

//rotation returns a rotation of angle around the z axis followed by one of
//the same angle around the x axis.
func rotation(angle float64) *v3.Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	Rz := v3.FromArray([3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}})
	Rx := v3.FromArray([3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}})
	return v3.Mul(Rx, Rz)
}

func TestCalcUB(Te *testing.T) {
	UB := v3.FromArray(testUB)
	hkl := [3][3]float64{{1, 0, 0}, {0, 1, 1}, {1, 2, -1}}
	var q [3][3]float64
	for i, h := range hkl {
		q[i] = v3.MulVec(UB, h)
	}
	got, err := CalcUB(q, hkl)
	require.NoError(Te, err)
	assert.True(Te, v3.Equal(UB, got, 1e-12), "got:\n%s", got)
	_, err = CalcUB(q, [3][3]float64{{1, 0, 0}, {0, 1, 1}, {1, 1, 1}})
	assert.True(Te, errors.Is(err, ErrSingular))
}

func TestOrientationMatrix(Te *testing.T) {
	B := v3.FromArray(testUB)
	R := rotation(0.5)
	want := v3.Mul(R, B)
	h0 := [3]float64{1, 0, 0}
	h1 := [3]float64{1, 2, -1}
	q0 := v3.MulVec(want, h0)
	q1 := v3.MulVec(want, h1)
	UB, err := OrientationMatrix(q0, q1, h0, h1, B)
	require.NoError(Te, err)
	assert.True(Te, v3.Equal(want, UB, 1e-10), "got:\n%s\nwant:\n%s", UB, want)
	assert.InDelta(Te, v3.Det(B), v3.Det(UB), 1e-12)

	_, err = OrientationMatrix(q0, v3.Scale(2, q0), h0, h1, B)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	_, err = OrientationMatrix(q0, q1, h0, [3]float64{2, 0, 0}, B)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	_, err = OrientationMatrix([3]float64{}, q1, h0, h1, B)
	assert.Error(Te, err)
	_, err = OrientationMatrix(q0, q1, h0, h1, nil)
	assert.True(Te, errors.Is(err, ErrInput))
}

func ubPeaks(UB *v3.Matrix, hkls [][3]int) []*Peak {
	peaks := make([]*Peak, len(hkls))
	for i, h := range hkls {
		f := intVec(h)
		peaks[i] = &Peak{Seq: i + 1, Q: v3.MulVec(UB, f), HKL: f, Intensity: 1}
	}
	return peaks
}

func TestOptimizeUB(Te *testing.T) {
	UB := v3.FromArray(testUB)
	hkls := [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {2, -1, 3}, {0, 0, 0}}
	peaks := ubPeaks(UB, hkls)
	got, rms, err := OptimizeUB(peaks, nil, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, rms, 1e-12)
	assert.True(Te, v3.Equal(UB, got, 1e-12))

	//a bad peak moves the fit, unless it is omitted
	peaks[4].Q[0] += 0.05
	got, rms, err = OptimizeUB(peaks, hkls, nil)
	require.NoError(Te, err)
	assert.Greater(Te, rms, 1e-4)
	assert.False(Te, v3.Equal(UB, got, 1e-6))
	omit := []bool{false, false, false, false, true, false}
	got, rms, err = OptimizeUB(peaks, hkls, omit)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, rms, 1e-12)
	assert.True(Te, v3.Equal(UB, got, 1e-12))

	_, _, err = OptimizeUB(peaks[:2], nil, nil)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	_, _, err = OptimizeUB(peaks, hkls[:2], nil)
	assert.True(Te, errors.Is(err, ErrShape))
	_, _, err = OptimizeUB(peaks, nil, omit[:3])
	assert.True(Te, errors.Is(err, ErrShape))
}
