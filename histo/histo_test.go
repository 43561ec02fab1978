package histo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoIO(Te *testing.T) {
	M := NewMatrix(3, 3, []float64{0, 1, 2, 3, 4, 8})
	M.Fill()
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	M.NewHisto(0, 1, nil, rawdata, nil)
	v := M.View(0, 1)
	//8, 44 and 32 are out of range.
	assert.Equal(Te, []float64{2, 6, 2, 7, 9}, v.View())
	assert.Equal(Te, 26.0, v.Total())
	j, err := json.Marshal(M)
	require.NoError(Te, err)
	M2 := new(Matrix)
	require.NoError(Te, json.Unmarshal(j, M2))
	r, c := M2.Dims()
	assert.Equal(Te, 3, r)
	assert.Equal(Te, 3, c)
	assert.Equal(Te, v.View(), M2.View(0, 1).View())
}

func TestWeighted(Te *testing.T) {
	div := EqualWidth(-0.5, 0.5, 4)
	assert.InDeltaSlice(Te, []float64{-0.5, -0.25, 0, 0.25, 0.5}, div, 1e-12)
	data := []float64{0.3, -0.4, 0.1, 0.1, 0.5}
	weights := []float64{3, 1, 2, 2, 100}
	D := NewData(div, data, weights, 7)
	assert.Equal(Te, 7, D.ID())
	//0.5 is out of the range, the rest get their weights.
	assert.Equal(Te, []float64{1, 0, 4, 3}, D.View())
	assert.Equal(Te, 8.0, D.Total())
	//the data slice given should not be reordered
	assert.Equal(Te, 0.3, data[0])
	D.Normalize()
	assert.InDelta(Te, 1.0, D.Sum(), 1e-12)
	D.AddWeighted(-0.3, 2)
	assert.True(Te, D.Normalized())
	assert.InDelta(Te, 0.3, D.View()[0], 1e-12)
	D.UnNormalize()
	assert.InDeltaSlice(Te, []float64{3, 0, 4, 3}, D.View(), 1e-12)
	assert.InDeltaSlice(Te, []float64{-0.375, -0.125, 0.125, 0.375}, D.Centers(), 1e-12)
}

func TestMismatchedDividers(Te *testing.T) {
	M := NewMatrix(1, 2, []float64{0, 1, 2})
	M.NewHisto(0, 0, []float64{0, 5, 10}, []float64{0.5, 1.5}, nil)
	assert.Equal(Te, []float64{0, 1, 2}, M.View(0, 0).CopyDividers())
	assert.Error(Te, M.Check(1, 0))
	assert.Panics(Te, func() { M.View(0, 2) })
}
