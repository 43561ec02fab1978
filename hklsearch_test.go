package cryst

import (
	"errors"
	"math/rand"
	"testing"

	v3 "github.com/rmera/gocryst/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testB = [3][3]float64{{0.25, 0, 0}, {0, 0.2, 0}, {0, 0, 0.16}}

func TestMaxHKLVal(Te *testing.T) {
	B := v3.FromArray(testB)
	assert.Equal(Te, 7, MaxHKLVal(B, 1))
	assert.Equal(Te, 0, MaxHKLVal(v3.Zeros(3), 1))
	B2 := v3.FromArray([3][3]float64{{0.5, 0, 0}, {0, 0, 0}, {0, 0, -0.25}})
	assert.Equal(Te, 4, MaxHKLVal(B2, 1))
}

func TestHKLRoundTrip(Te *testing.T) {
	B := v3.FromArray(testB)
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 50; i++ {
		hkl := [3]int{rng.Intn(7) - 3, rng.Intn(7) - 3, rng.Intn(7) - 3}
		if hkl == [3]int{} {
			continue
		}
		q := v3.MulVec(B, intVec(hkl))
		cands, err := FindPossibleHKLs(B, q, 1e-4, CenterP)
		require.NoError(Te, err)
		assert.Contains(Te, cands, hkl)
		assert.NotContains(Te, cands, [3]int{})
		cands, err = FindPossibleHKLs(B, q, 1e-4, CenterI)
		require.NoError(Te, err)
		if (hkl[0]+hkl[1]+hkl[2])%2 == 0 {
			assert.Contains(Te, cands, hkl)
		} else {
			assert.NotContains(Te, cands, hkl)
		}
	}
}

func TestFindPossibleHKLsOrder(Te *testing.T) {
	B := v3.FromArray(testB)
	cands, err := FindPossibleHKLs(B, [3]float64{0, 0.2, 0}, 0.001, CenterP)
	require.NoError(Te, err)
	assert.Equal(Te, [][3]int{{0, -1, 0}, {0, 1, 0}}, cands)
	//nothing has this length
	cands, err = FindPossibleHKLs(B, [3]float64{0, 0.1, 0}, 0.001, CenterP)
	require.NoError(Te, err)
	assert.Empty(Te, cands)
}

func TestFindPossibleHKLsPair(Te *testing.T) {
	B := v3.FromArray(testB)
	q1 := v3.MulVec(B, [3]float64{1, 0, 0})
	q2 := v3.MulVec(B, [3]float64{0, 1, 0})
	cands, err := FindPossibleHKLsPair(B, q1, q2, [3]int{1, 0, 0}, 0.01, 0.01, CenterP)
	require.NoError(Te, err)
	assert.Equal(Te, [][3]int{{0, -1, 0}, {0, 1, 0}}, cands)
	//the same peak twice: only hkl1 would fit, and it is excluded.
	cands, err = FindPossibleHKLsPair(B, q1, q1, [3]int{1, 0, 0}, 0.01, 0.01, CenterP)
	require.NoError(Te, err)
	assert.Empty(Te, cands)
}

func TestFindPossibleHKLsPairCubic(Te *testing.T) {
	//all 6 of (±1,0,0), (0,±1,0), (0,0,±1) have the length of q2
	B := v3.FromArray([3][3]float64{{0.25, 0, 0}, {0, 0.25, 0}, {0, 0, 0.25}})
	q1 := [3]float64{0.25, 0, 0}
	q2 := [3]float64{0, 0.25, 0}
	single, err := FindPossibleHKLs(B, q2, 0.01, CenterP)
	require.NoError(Te, err)
	assert.Len(Te, single, 6)
	assert.Contains(Te, single, [3]int{-1, 0, 0})

	cands, err := FindPossibleHKLsPair(B, q1, q2, [3]int{1, 0, 0}, 0.01, 0.01, CenterP)
	require.NoError(Te, err)
	//(-1,0,0) fails the dot product test, (1,0,0) is hkl1.
	assert.Equal(Te, [][3]int{{0, -1, 0}, {0, 0, -1}, {0, 0, 1}, {0, 1, 0}}, cands)

	//with a tolerance that lets every dot product through, only hkl1 is left out.
	cands, err = FindPossibleHKLsPair(B, q1, q2, [3]int{1, 0, 0}, 0.01, 1, CenterP)
	require.NoError(Te, err)
	assert.Len(Te, cands, 5)
	assert.Contains(Te, cands, [3]int{-1, 0, 0})
	assert.NotContains(Te, cands, [3]int{1, 0, 0})
}

func TestFindPossibleHKLsDegenerateBasis(Te *testing.T) {
	//a 1e6 Angstrom cell edge, the bound would be about 200000
	B := v3.FromArray([3][3]float64{{0.2, 0, 0}, {0, 0.25, 0}, {0, 0, 1e-6}})
	assert.Greater(Te, MaxHKLVal(B, 0.2), MaxHKLLimit)
	_, err := FindPossibleHKLs(B, [3]float64{0.2, 0, 0}, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	_, err = FindPossibleHKLsPair(B, [3]float64{0.2, 0, 0}, [3]float64{0, 0.25, 0}, [3]int{1, 0, 0}, 0.01, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrDegenerate))

	//nearly coplanar rows
	B = v3.FromArray([3][3]float64{{0.2, 0, 0}, {0, 0.2, 0}, {0.2, 0.2, 1e-9}})
	_, err = FindPossibleHKLs(B, [3]float64{0.2, 0, 0}, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	//a zero row
	B = v3.FromArray([3][3]float64{{0.2, 0, 0}, {0, 0, 0}, {0, 0, 0.2}})
	_, err = FindPossibleHKLs(B, [3]float64{0.2, 0, 0}, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrDegenerate))
}

func TestFindPossibleHKLsErrors(Te *testing.T) {
	B := v3.FromArray(testB)
	_, err := FindPossibleHKLs(nil, [3]float64{1, 0, 0}, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrInput))
	_, err = FindPossibleHKLs(v3.Zeros(2), [3]float64{1, 0, 0}, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrShape))
	_, err = FindPossibleHKLs(B, [3]float64{}, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	_, err = FindPossibleHKLs(B, [3]float64{1, 0, 0}, -0.01, CenterP)
	assert.Error(Te, err)
	_, err = FindPossibleHKLsPair(B, [3]float64{}, [3]float64{1, 0, 0}, [3]int{1, 0, 0}, 0.01, 0.01, CenterP)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	_, err = FindPossibleHKLsPair(B, [3]float64{1, 0, 0}, [3]float64{1, 0, 0}, [3]int{1, 0, 0}, 0.01, -1, CenterP)
	assert.True(Te, errors.Is(err, ErrInput))
}
