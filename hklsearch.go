/*
 * hklsearch.go, part of gocryst.
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

	v3 "github.com/rmera/gocryst/v3"
)

//MaxHKLVal returns the largest |h|, |k| or |l| worth considering for a
//reflection with a Q-vector of length qlen, given the basis B. For each row
//of B the largest absolute entry is taken, and the bound is
//ceil(qlen/entry), maximized over the rows. Rows that are all zero are
//ignored. Note that this is a heuristic, not a strict bound: for badly
//conditioned bases the right indexes can fall outside of it.
func MaxHKLVal(B *v3.Matrix, qlen float64) int {
	ret := 0
	for i := 0; i < 3; i++ {
		var rowmax float64
		for j := 0; j < 3; j++ {
			rowmax = math.Max(rowmax, math.Abs(B.At(i, j)))
		}
		if v3.IsZero(rowmax) {
			continue
		}
		if m := int(math.Ceil(qlen / rowmax)); m > ret {
			ret = m
		}
	}
	return ret
}

func checkBasis(B *v3.Matrix, caller string) error {
	if B == nil || B.Dense == nil {
		return newErr("nil basis matrix", ErrInput, caller)
	}
	if r, c := B.Dims(); r != 3 || c != 3 {
		return newErr(fmt.Sprintf("basis matrix should be 3x3, not %dx%d", r, c), ErrShape, caller)
	}
	return nil
}

//MaxHKLLimit is the largest index bound for which the candidate search is attempted.
//Larger bounds mean a basis with an absurdly long cell edge, and a search that would not end
//in any reasonable time.
const MaxHKLLimit = 100

//minRelDet is the smallest |det(B)|, relative to the product of the norms of the
//rows of B, for which B is not considered degenerate. The ratio is 1 for orthogonal
//rows and goes to zero as they become coplanar.
const minRelDet = 1e-6

//checkSearchBasis is checkBasis plus a test that B is not singular or close to it.
func checkSearchBasis(B *v3.Matrix, caller string) error {
	if err := checkBasis(B, caller); err != nil {
		return err
	}
	norms := 1.0
	for i := 0; i < 3; i++ {
		norms *= v3.Norm(B.Vec(i))
	}
	if v3.IsZero(norms) || math.Abs(v3.Det(B))/norms < minRelDet {
		return newErr("singular or ill-conditioned basis matrix", ErrDegenerate, caller)
	}
	return nil
}

//lengthOK is the tolerance test used for candidate indexes. It is a linearization of
//|Qobs-Qpred|<qtol, valid for small differences, which we keep as it is
//for compatibility with older indexing results.
func lengthOK(qsqobs, qobs, qsqpred, qtol float64) bool {
	return math.Abs(qsqobs-qsqpred)/(2*qobs) < qtol
}

//FindPossibleHKLs returns all the integer (h,k,l) triples allowed by the centering
//cent, for which the length of B·(h,k,l) matches the length of q within
//qtol. The triples are given in the order h, k, l ascending, and (0,0,0) is
//never returned. The result can be empty. An error is returned for a nil,
//non 3x3 or degenerate B, a zero q, a negative tolerance, or an index
//bound (see MaxHKLVal) larger than MaxHKLLimit.
func FindPossibleHKLs(B *v3.Matrix, q [3]float64, qtol float64, cent Centering) ([][3]int, error) {
	if err := checkSearchBasis(B, "FindPossibleHKLs"); err != nil {
		return nil, err
	}
	if qtol < 0 {
		return nil, newErr(fmt.Sprintf("negative tolerance %g", qtol), ErrInput, "FindPossibleHKLs")
	}
	qlen := v3.Norm(q)
	if v3.IsZero(qlen) {
		return nil, newErr("zero-length Q vector", ErrDegenerate, "FindPossibleHKLs")
	}
	r, err := searchHKLs(B, q, qlen, qtol, cent, nil)
	return r, errDecorate(err, "FindPossibleHKLs")
}

//FindPossibleHKLsPair is like FindPossibleHKLs, for the peak q2, but it also
//requires that the dot product between B·hkl1 (the predicted Q for the peak q1,
//already indexed as hkl1) and B·(h,k,l) matches q1·q2 within qtol2. hkl1 itself
//is never returned.
func FindPossibleHKLsPair(B *v3.Matrix, q1, q2 [3]float64, hkl1 [3]int, qtol, qtol2 float64, cent Centering) ([][3]int, error) {
	if err := checkSearchBasis(B, "FindPossibleHKLsPair"); err != nil {
		return nil, err
	}
	if qtol < 0 || qtol2 < 0 {
		return nil, newErr(fmt.Sprintf("negative tolerance %g, %g", qtol, qtol2), ErrInput, "FindPossibleHKLsPair")
	}
	q1len := v3.Norm(q1)
	q2len := v3.Norm(q2)
	if v3.IsZero(q1len) || v3.IsZero(q2len) {
		return nil, newErr("zero-length Q vector", ErrDegenerate, "FindPossibleHKLsPair")
	}
	ref := v3.MulVec(B, intVec(hkl1))
	dotobs := v3.Dot(q1, q2)
	pairOK := func(hkl [3]int, pred [3]float64) bool {
		if hkl == hkl1 {
			return false
		}
		return math.Abs(v3.Dot(ref, pred)-dotobs) < qtol2
	}
	r, err := searchHKLs(B, q2, q2len, qtol, cent, pairOK)
	return r, errDecorate(err, "FindPossibleHKLsPair")
}

//searchHKLs does the actual enumeration. extra, if not nil, is an additional
//filter applied to candidates that passed the length test. It returns an error,
//without searching, if the index bound is larger than MaxHKLLimit.
func searchHKLs(B *v3.Matrix, q [3]float64, qlen, qtol float64, cent Centering, extra func([3]int, [3]float64) bool) ([][3]int, error) {
	M := MaxHKLVal(B, qlen)
	if M > MaxHKLLimit {
		return nil, newErr(fmt.Sprintf("index bound %d larger than %d, the basis is probably wrong", M, MaxHKLLimit), ErrDegenerate, "searchHKLs")
	}
	qsq := qlen * qlen
	b := B.Array()
	ret := make([][3]int, 0, 8)
	for h := -M; h <= M; h++ {
		for k := -M; k <= M; k++ {
			for l := -M; l <= M; l++ {
				if h == 0 && k == 0 && l == 0 {
					continue
				}
				if !CenteringOK(h, k, l, cent) {
					continue
				}
				fh, fk, fl := float64(h), float64(k), float64(l)
				pred := [3]float64{
					b[0][0]*fh + b[0][1]*fk + b[0][2]*fl,
					b[1][0]*fh + b[1][1]*fk + b[1][2]*fl,
					b[2][0]*fh + b[2][1]*fk + b[2][2]*fl,
				}
				if !lengthOK(qsq, qlen, v3.Dot(pred, pred), qtol) {
					continue
				}
				hkl := [3]int{h, k, l}
				if extra != nil && !extra(hkl, pred) {
					continue
				}
				ret = append(ret, hkl)
			}
		}
	}
	return ret, nil
}

func intVec(a [3]int) [3]float64 {
	return [3]float64{float64(a[0]), float64(a[1]), float64(a[2])}
}
