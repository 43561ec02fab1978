/*
 * peak.go, part of gocryst.
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

	v3 "github.com/rmera/gocryst/v3"
)

//Peak is an observed reflection. Peaks are produced by the acquisition
//and file-loading code, goCryst only reads them.
type Peak struct {
	Seq       int        //sequence number, 1-based, unique within a run
	Run       int        //run number
	Det       int        //detector number
	Row       float64    //detector row
	Col       float64    //detector column
	Chan      float64    //time channel
	Q         [3]float64 //unrotated Q-vector, in inverse Angstrom
	HKL       [3]float64 //Miller indices, fractional until the peak is indexed
	Intensity float64    //integrated intensity
}

//String returns a string representation of the peak.
func (P *Peak) String() string {
	return fmt.Sprintf("Seq: %d Run: %d Det: %d HKL: (%5.2f %5.2f %5.2f) Q: (%7.4f %7.4f %7.4f) I: %8.2f", P.Seq, P.Run, P.Det, P.HKL[0], P.HKL[1], P.HKL[2], P.Q[0], P.Q[1], P.Q[2], P.Intensity)
}

//QLen returns the length of the Q-vector of the peak.
func (P *Peak) QLen() float64 {
	return v3.Norm(P.Q)
}

//QVecs returns a Nx3 matrix with the Q-vectors of the peaks that are
//not omitted, and the indexes of those peaks in the peaks slice.
//omit can be nil, in which case, no peak is omitted.
func QVecs(peaks []*Peak, omit []bool) (*v3.Matrix, []int, error) {
	if omit != nil && len(omit) != len(peaks) {
		return nil, nil, newErr(fmt.Sprintf("omitted-peak mask has %d elements, but there are %d peaks", len(omit), len(peaks)), ErrShape, "QVecs")
	}
	included := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if p == nil || (omit != nil && omit[i]) {
			continue
		}
		included = append(included, i)
	}
	if len(included) == 0 {
		return nil, included, nil
	}
	Q := v3.Zeros(len(included))
	for i, v := range included {
		q := peaks[v].Q
		Q.Set(i, 0, q[0])
		Q.Set(i, 1, q[1])
		Q.Set(i, 2, q[2])
	}
	return Q, included, nil
}
