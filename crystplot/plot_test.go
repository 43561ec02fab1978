package crystplot

import (
	"os"
	"path/filepath"
	"testing"

	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/histo"
	v3 "github.com/rmera/gocryst/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetPlot(Te *testing.T) {
	dir := Te.TempDir()
	d := histo.NewData(histo.EqualWidth(-0.5, 0.5, 10), []float64{0.01, -0.02, 0.03, 0.12, -0.31, 0.44}, nil, cryst.IndexH)
	name := filepath.Join(dir, "offsets")
	require.NoError(Te, OffsetPlot(d, "h offsets", name))
	_, err := os.Stat(name + ".png")
	assert.NoError(Te, err)
	svg := filepath.Join(dir, "offsets.svg")
	require.NoError(Te, OffsetPlot(d, "h offsets", svg))
	_, err = os.Stat(svg)
	assert.NoError(Te, err)
	assert.Error(Te, OffsetPlot(nil, "nothing", name))
}

func TestOffsetPlots(Te *testing.T) {
	UB := v3.FromArray([3][3]float64{{0.2, 0, 0}, {0, 0.25, 0}, {0, 0, 0.125}})
	peaks := []*cryst.Peak{
		{Seq: 1, Q: [3]float64{0.21, 0, 0}, Intensity: 3},
		{Seq: 2, Q: [3]float64{0, 0.24, 0.125}, Intensity: 5},
		{Seq: 3, Q: [3]float64{0.4, 0.25, 0.26}, Intensity: 1},
	}
	m, err := cryst.MillerOffsetsAll(peaks, UB, nil, 8, true)
	require.NoError(Te, err)
	prefix := filepath.Join(Te.TempDir(), "run1")
	require.NoError(Te, OffsetPlots(m, "run 1", prefix))
	for _, idx := range []string{"h", "k", "l"} {
		_, err := os.Stat(prefix + "_" + idx + ".png")
		assert.NoError(Te, err, idx)
	}
	assert.Error(Te, OffsetPlots(nil, "nothing", prefix))
}
