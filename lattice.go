/*
 * lattice.go, part of gocryst.
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

const rad2deg = 180 / math.Pi

//Lattice contains the parameters of a unit cell. Lengths are in Angstrom,
//angles in degrees, the volume in cubic Angstrom.
type Lattice struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
	Volume             float64
}

func (L Lattice) String() string {
	return fmt.Sprintf("a: %8.4f b: %8.4f c: %8.4f alpha: %7.3f beta: %7.3f gamma: %7.3f V: %10.3f", L.A, L.B, L.C, L.Alpha, L.Beta, L.Gamma, L.Volume)
}

//MetricTensor returns the real-space metric tensor G=(UBᵀ·UB)⁻¹ for the orientation
//matrix UB. G[i][j] is the dot product between the real-space cell edges i and j.
//The edges are the rows of UB⁻¹.
func MetricTensor(UB *v3.Matrix) ([3][3]float64, error) {
	if err := checkBasis(UB, "MetricTensor"); err != nil {
		return [3][3]float64{}, err
	}
	inv, err := v3.Inverse(UB)
	if err != nil {
		return [3][3]float64{}, errDecorate(err, "MetricTensor")
	}
	var G [3][3]float64
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			G[i][j] = v3.Dot(inv.Vec(i), inv.Vec(j))
			G[j][i] = G[i][j]
		}
	}
	return G, nil
}

//LatticeFromMetric returns the cell parameters for the real-space metric tensor G.
func LatticeFromMetric(G [3][3]float64) (Lattice, error) {
	var L Lattice
	if G[0][0] <= 0 || G[1][1] <= 0 || G[2][2] <= 0 {
		return L, newErr("metric tensor is not positive definite", ErrDegenerate, "LatticeFromMetric")
	}
	L.A = math.Sqrt(G[0][0])
	L.B = math.Sqrt(G[1][1])
	L.C = math.Sqrt(G[2][2])
	L.Alpha = angle(G[1][2], L.B, L.C)
	L.Beta = angle(G[0][2], L.A, L.C)
	L.Gamma = angle(G[0][1], L.A, L.B)
	det := v3.Det(v3.FromArray(G))
	if det <= 0 {
		return L, newErr("metric tensor is not positive definite", ErrDegenerate, "LatticeFromMetric")
	}
	L.Volume = math.Sqrt(det)
	return L, nil
}

//LatticeParams returns the cell parameters for the orientation matrix UB.
func LatticeParams(UB *v3.Matrix) (Lattice, error) {
	G, err := MetricTensor(UB)
	if err != nil {
		return Lattice{}, errDecorate(err, "LatticeParams")
	}
	L, err := LatticeFromMetric(G)
	return L, errDecorate(err, "LatticeParams")
}

//angle returns, in degrees, the angle between 2 vectors of lengths l1 and l2,
//which dot product is dot.
func angle(dot, l1, l2 float64) float64 {
	c := dot / (l1 * l2)
	//Take care of floating point math errors
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c) * rad2deg
}
