/*
 * ubsolve.go, part of gocryst.
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
	"gonum.org/v1/gonum/mat"
)

//collinear is the smallest |a×b|/(|a||b|) (the sine of the angle between
//a and b) for which 2 vectors are not considered collinear.
const collinear = 1e-6

//CalcUB returns the orientation matrix UB such that UB·hkl[i]=q[i] for the
//3 given pairs. In matrix form, UB=(HKL⁻¹·Q)ᵀ, where HKL and Q have the
//triples as rows. It returns nil and an error if HKL is singular.
func CalcUB(q [3][3]float64, hkl [3][3]float64) (*v3.Matrix, error) {
	HKL := v3.FromArray(hkl)
	inv, err := v3.Inverse(HKL)
	if err != nil {
		return nil, errDecorate(err, "CalcUB")
	}
	Q := v3.FromArray(q)
	return v3.T(v3.Mul(inv, Q)), nil
}

//frame returns a matrix which columns are an orthonormal, right-handed frame
//built from v0 and v1: the direction of v0, the direction of v0×v1 crossed
//with the first, and the direction of v0×v1.
func frame(v0, v1 [3]float64) (*v3.Matrix, error) {
	n0 := v3.Norm(v0)
	n1 := v3.Norm(v1)
	if v3.IsZero(n0) || v3.IsZero(n1) {
		return nil, newErr("zero-length vector", ErrDegenerate, "frame")
	}
	c := v3.Cross(v0, v1)
	nc := v3.Norm(c)
	if nc/(n0*n1) < collinear {
		return nil, newErr("collinear vectors", ErrDegenerate, "frame")
	}
	e1 := v3.Scale(1/n0, v0)
	e3 := v3.Scale(1/nc, c)
	e2 := v3.Cross(e3, e1)
	F := v3.Zeros(3)
	for i, e := range [][3]float64{e1, e2, e3} {
		for j := 0; j < 3; j++ {
			F.Set(j, i, e[j])
		}
	}
	return F, nil
}

//OrientationMatrix returns the orientation matrix U·B, where B is the unrotated basis,
//and U is the rotation that takes the predicted Q-vectors B·hkl0 and B·hkl1 onto
//the observed q0 and q1. U is obtained from the orthonormal frames built
//from each pair of vectors, so only the direction of q0, and the plane of q0 and q1,
//are enforced exactly. It returns nil and an error if any of the pairs is
//collinear, has a zero vector, or the frames can't be inverted.
func OrientationMatrix(q0, q1 [3]float64, hkl0, hkl1 [3]float64, B *v3.Matrix) (*v3.Matrix, error) {
	if err := checkBasis(B, "OrientationMatrix"); err != nil {
		return nil, err
	}
	E, err := frame(q0, q1)
	if err != nil {
		return nil, errDecorate(err, "OrientationMatrix: observed")
	}
	Fr, err := frame(v3.MulVec(B, hkl0), v3.MulVec(B, hkl1))
	if err != nil {
		return nil, errDecorate(err, "OrientationMatrix: predicted")
	}
	Finv, err := v3.Inverse(Fr)
	if err != nil {
		return nil, errDecorate(err, "OrientationMatrix")
	}
	U := v3.Mul(E, Finv)
	return v3.Mul(U, B), nil
}

//OptimizeUB returns the orientation matrix that best maps, in the least-squares sense,
//the Miller indexes of the peaks to their Q-vectors, together with the root mean square
//of the |UB·h-q| residuals. If hkls is nil, the HKL of each peak, rounded to the
//nearest integers, is used. Peaks omitted in omit (which can be nil) and peaks
//with index (0,0,0) are not considered. At least 3 peaks with non-coplanar
//indexes are needed.
func OptimizeUB(peaks []*Peak, hkls [][3]int, omit []bool) (*v3.Matrix, float64, error) {
	if hkls != nil && len(hkls) != len(peaks) {
		return nil, 0, newErr(fmt.Sprintf("%d indexes given for %d peaks", len(hkls), len(peaks)), ErrShape, "OptimizeUB")
	}
	if omit != nil && len(omit) != len(peaks) {
		return nil, 0, newErr(fmt.Sprintf("omitted-peak mask has %d elements, but there are %d peaks", len(omit), len(peaks)), ErrShape, "OptimizeUB")
	}
	hdata := make([]float64, 0, 3*len(peaks))
	qdata := make([]float64, 0, 3*len(peaks))
	for i, p := range peaks {
		if p == nil || (omit != nil && omit[i]) {
			continue
		}
		var hkl [3]int
		if hkls != nil {
			hkl = hkls[i]
		} else {
			hkl = roundHKL(p.HKL)
		}
		if hkl == [3]int{} {
			continue
		}
		hv := intVec(hkl)
		hdata = append(hdata, hv[:]...)
		qdata = append(qdata, p.Q[:]...)
	}
	n := len(hdata) / 3
	if n < 3 {
		return nil, 0, newErr(fmt.Sprintf("at least 3 indexed peaks are needed, got %d", n), ErrDegenerate, "OptimizeUB")
	}
	H := mat.NewDense(n, 3, hdata)
	Q := mat.NewDense(n, 3, qdata)
	var X mat.Dense //X=UBᵀ, H·UBᵀ=Q
	if err := X.Solve(H, Q); err != nil {
		return nil, 0, newErr(fmt.Sprintf("indexes are coplanar or degenerate: %s", err.Error()), ErrSingular, "OptimizeUB")
	}
	UB := v3.Zeros(3)
	UB.TCopy(&X)
	var res mat.Dense
	res.Mul(H, &X)
	res.Sub(&res, Q)
	rms := mat.Norm(&res, 2) / math.Sqrt(float64(n))
	return UB, rms, nil
}

func roundHKL(h [3]float64) [3]int {
	return [3]int{int(math.Round(h[0])), int(math.Round(h[1])), int(math.Round(h[2]))}
}
