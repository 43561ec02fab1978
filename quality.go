/*
 * quality.go, part of gocryst.
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

package cryst

import (
	"fmt"
	"math"

	"github.com/rmera/gocryst/histo"
	v3 "github.com/rmera/gocryst/v3"
)

//FitThresholds are the maximum offsets from the nearest integer for each
//of the bins returned by PeakFitInfo.
var FitThresholds = [4]float64{0.1, 0.2, 0.3, 0.4}

//Miller index selectors for MillerOffsets
const (
	IndexH = iota
	IndexK
	IndexL
)

//FractionalHKLs returns a Nx3 matrix with the (fractional) Miller indexes UB⁻¹·q
//for each peak not omitted, together with the indexes of those peaks in the
//peaks slice. If no peak is included, the matrix is nil.
func FractionalHKLs(peaks []*Peak, UB *v3.Matrix, omit []bool) (*v3.Matrix, []int, error) {
	if err := checkBasis(UB, "FractionalHKLs"); err != nil {
		return nil, nil, err
	}
	inv, err := v3.Inverse(UB)
	if err != nil {
		return nil, nil, errDecorate(err, "FractionalHKLs")
	}
	Q, included, err := QVecs(peaks, omit)
	if err != nil || Q == nil {
		return nil, included, errDecorate(err, "FractionalHKLs")
	}
	//each row of Q is a qᵀ, so the rows of Q·(UB⁻¹)ᵀ are (UB⁻¹·q)ᵀ
	H := v3.Zeros(Q.NVecs())
	H.Mul(Q, inv.T())
	return H, included, nil
}

//offset returns the signed distance from x to the nearest integer, in [-0.5,0.5).
func offset(x float64) float64 {
	return x - math.Floor(x+0.5)
}

//worstOffset returns the largest distance to the nearest integer among
//the 3 indexes in the ith row of H.
func worstOffset(H *v3.Matrix, i int) float64 {
	var worst float64
	for j := 0; j < 3; j++ {
		worst = math.Max(worst, math.Abs(offset(H.At(i, j))))
	}
	return worst
}

//PeakFitInfo returns, for the peaks not omitted, the fraction of them whose
//predicted Miller indexes (UB⁻¹·q) are all within 0.1, 0.2, 0.3 and 0.4 of an integer.
//The fractions are cumulative, so the result is never decreasing.
//omit can be nil. If no peak is included, all fractions are zero.
func PeakFitInfo(peaks []*Peak, UB *v3.Matrix, omit []bool) ([4]float64, error) {
	var ret [4]float64
	H, _, err := FractionalHKLs(peaks, UB, omit)
	if err != nil {
		return ret, errDecorate(err, "PeakFitInfo")
	}
	if H == nil {
		return ret, nil
	}
	n := H.NVecs()
	var counts [4]int
	for i := 0; i < n; i++ {
		worst := worstOffset(H, i)
		//bucket by the worst-fitting index
		for b, t := range FitThresholds {
			if worst <= t {
				counts[b]++
				break
			}
		}
	}
	//peaks that pass a tight threshold also pass the looser ones.
	acc := 0
	for b := range counts {
		acc += counts[b]
		ret[b] = float64(acc) / float64(n)
	}
	return ret, nil
}

//IndexPeaks returns the nearest-integer Miller indexes for each peak under UB, and
//the number of peaks not omitted for which all 3 indexes are within tol of an integer.
//Omitted peaks, and those that are not within tol, get (0,0,0).
func IndexPeaks(peaks []*Peak, UB *v3.Matrix, tol float64, omit []bool) ([][3]int, int, error) {
	ret := make([][3]int, len(peaks))
	H, included, err := FractionalHKLs(peaks, UB, omit)
	if err != nil {
		return nil, 0, errDecorate(err, "IndexPeaks")
	}
	if H == nil {
		return ret, 0, nil
	}
	indexed := 0
	for i, v := range included {
		if worstOffset(H, i) > tol {
			continue
		}
		ret[v] = roundHKL(H.Vec(i))
		indexed++
	}
	return ret, indexed, nil
}

//MillerOffsets returns a histogram of the signed offsets from the nearest integer of the
//h, k or l (index is IndexH, IndexK or IndexL) predicted by UB for the peaks not omitted.
//The nbins bins have the same width and span [-0.5,0.5). If weighted is true, each
//peak contributes its intensity instead of one.
func MillerOffsets(peaks []*Peak, UB *v3.Matrix, omit []bool, index, nbins int, weighted bool) (*histo.Data, error) {
	m, err := millerOffsets(peaks, UB, omit, []int{index}, nbins, weighted)
	if err != nil {
		return nil, errDecorate(err, "MillerOffsets")
	}
	return m.View(0, 0), nil
}

//MillerOffsetsAll is like MillerOffsets, but returns a 1x3 matrix of histograms,
//for h, k and l, all sharing the same dividers.
func MillerOffsetsAll(peaks []*Peak, UB *v3.Matrix, omit []bool, nbins int, weighted bool) (*histo.Matrix, error) {
	m, err := millerOffsets(peaks, UB, omit, []int{IndexH, IndexK, IndexL}, nbins, weighted)
	return m, errDecorate(err, "MillerOffsetsAll")
}

func millerOffsets(peaks []*Peak, UB *v3.Matrix, omit []bool, indexes []int, nbins int, weighted bool) (*histo.Matrix, error) {
	if nbins < 1 {
		return nil, newErr(fmt.Sprintf("need at least one bin, got %d", nbins), ErrInput, "millerOffsets")
	}
	for _, index := range indexes {
		if index < IndexH || index > IndexL {
			return nil, newErr(fmt.Sprintf("invalid Miller index selector %d", index), ErrInput, "millerOffsets")
		}
	}
	H, included, err := FractionalHKLs(peaks, UB, omit)
	if err != nil {
		return nil, errDecorate(err, "millerOffsets")
	}
	dividers := histo.EqualWidth(-0.5, 0.5, nbins)
	ret := histo.NewMatrix(1, len(indexes), dividers)
	var weights []float64
	if weighted {
		weights = make([]float64, len(included))
		for i, v := range included {
			weights[i] = peaks[v].Intensity
		}
	}
	for c, index := range indexes {
		data := make([]float64, len(included))
		for i := range included {
			data[i] = offset(H.At(i, index))
		}
		ret.NewHisto(0, c, dividers, data, weights, index)
	}
	return ret, nil
}
