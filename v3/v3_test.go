/*
 * v3_test.go, part of gocryst.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package v3

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))

	_, err = NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrShape))
}

func TestViewsShareData(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	View := A.VecView(1)
	View.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0))
	col := A.ColView(2)
	assert.Equal(Te, 9.0, col.At(2, 0))
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	B := Zeros(3)
	cind := []int{1, 3, 5}
	require.NoError(Te, B.SomeVecsSafe(A, cind))
	assert.Equal(Te, [3]float64{10, 11, 12}, B.Vec(1))
	B.Set(1, 1, 55)
	A.SetVecs(B, cind)
	assert.Equal(Te, 55.0, A.At(3, 1))
	//wrong size, should give an error, not a panic.
	C := Zeros(2)
	assert.Error(Te, C.SomeVecsSafe(A, cind))
}

func TestDetInverse(Te *testing.T) {
	A := FromArray([3][3]float64{{2, 0, 1}, {1, 3, 0}, {0, 1, 4}})
	assert.InDelta(Te, 25.0, Det(A), 1e-12)
	inv, err := Inverse(A)
	require.NoError(Te, err)
	prod := Mul(A, inv)
	assert.True(Te, Equal(prod, Eye(), 1e-12), "A·A⁻¹ is not I: %v", prod)

	S := FromArray([3][3]float64{{1, 2, 3}, {2, 4, 6}, {0, 1, 1}})
	_, err = Inverse(S)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrSingular))
}

func TestMulAliasing(Te *testing.T) {
	A := FromArray([3][3]float64{{1, 2, 0}, {0, 1, 0}, {0, 0, 2}})
	B := A.Clone()
	want := Mul(A, B)
	A.Mul(A, B)
	assert.True(Te, Equal(A, want, 1e-12))
	assert.True(Te, Equal(T(T(A)), A, 0))
}

func TestCrossAndUnit(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	assert.Equal(Te, [3]float64{0, 0, 1}, z.Vec(0))
	assert.Equal(Te, 0.0, z.Dot(x))

	row, _ := NewMatrix([]float64{2, 2, 1})
	row.Unit(row)
	assert.InDelta(Te, 1.0, Norm(row.Vec(0)), 1e-12)

	zero := Zeros(1)
	assert.Error(Te, Maybe(func() { zero.Unit(zero) }))
	assert.InDelta(Te, math.Sqrt(3), Norm([3]float64{1, -1, 1}), 1e-12)
	assert.Equal(Te, [3]float64{2, 4, 6}, MulVec(Eye(), [3]float64{2, 4, 6}))
}
