package cryst

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQVecs(Te *testing.T) {
	peaks := qPeaks([3]float64{1, 0, 0}, [3]float64{0, 2, 0}, [3]float64{0, 0, 3})
	peaks = append(peaks, nil)
	Q, included, err := QVecs(peaks, []bool{false, true, false, false})
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 2}, included)
	assert.Equal(Te, 2, Q.NVecs())
	assert.Equal(Te, [3]float64{0, 0, 3}, Q.Vec(1))
	assert.InDelta(Te, 2.0, peaks[1].QLen(), 1e-15)

	Q, included, err = QVecs(peaks[:1], []bool{true})
	require.NoError(Te, err)
	assert.Nil(Te, Q)
	assert.Empty(Te, included)
	_, _, err = QVecs(peaks, []bool{true})
	assert.True(Te, errors.Is(err, ErrShape))
}
