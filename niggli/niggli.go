/*
 * niggli.go, part of gocryst.
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

//Package niggli reduces unit cells to their Niggli form. The reduction
//follows the algorithm of Krivy and Gruber (Acta Cryst. A32, 297, 1976),
//with the tolerances of Grosse-Kunstleve et al. (Acta Cryst. A60, 1, 2004),
//applied on the real-space metric tensor of an orientation matrix.
//If you use this package in your research, please cite those references.
package niggli

import (
	"fmt"
	"log"
	"math"

	cryst "github.com/rmera/gocryst"
	v3 "github.com/rmera/gocryst/v3"
)

//Options for the reduction.
type Options struct {
	Epsilon       float64 //relative tolerance. The absolute one is Epsilon·V^(2/3)
	MaxIterations int     //maximum number of passes over the reduction steps
}

//DefaultOptions returns the tolerance used by most crystallographic programs
//and an iteration cap large enough for any reasonable cell.
func DefaultOptions() *Options {
	return &Options{Epsilon: 1e-5, MaxIterations: 200}
}

//FromCryst returns niggli Options taken from the general goCryst Options.
//If o is nil, the default options are returned.
func FromCryst(o *cryst.Options) *Options {
	if o == nil {
		return DefaultOptions()
	}
	return &Options{Epsilon: o.NiggliEpsilon, MaxIterations: o.NiggliMaxIter}
}

//state is the cell being reduced. G is the metric tensor in the current basis,
//m the accumulated transformation: its columns are the current cell edges
//in terms of the original ones.
type state struct {
	G      [3][3]float64
	m      [3][3]int
	eps    float64
	handed float64 //sign of the determinant of the original basis
}

var identity = [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

//The transformations for the Krivy-Gruber steps. All have determinant 1.
var (
	swapAB = [3][3]int{{0, -1, 0}, {-1, 0, 0}, {0, 0, -1}}
	swapBC = [3][3]int{{-1, 0, 0}, {0, 0, -1}, {0, -1, 0}}
	aPlusB = [3][3]int{{1, 0, 1}, {0, 1, 1}, {0, 0, 1}} //c -> a+b+c
	invert = [3][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
)

func (s *state) A() float64    { return s.G[0][0] }
func (s *state) B() float64    { return s.G[1][1] }
func (s *state) C() float64    { return s.G[2][2] }
func (s *state) xi() float64   { return 2 * s.G[1][2] }
func (s *state) eta() float64  { return 2 * s.G[0][2] }
func (s *state) zeta() float64 { return 2 * s.G[0][1] }

func (s *state) lt(a, b float64) bool { return a < b-s.eps }
func (s *state) gt(a, b float64) bool { return a > b+s.eps }
func (s *state) eq(a, b float64) bool { return math.Abs(a-b) <= s.eps }

//sign returns the sign of x, considering values within eps of zero as zero.
func (s *state) sign(x float64) int {
	if x > s.eps {
		return 1
	} else if x < -s.eps {
		return -1
	}
	return 0
}

//apply changes the basis by t. The tensor is transformed on both sides,
//G'=tᵀ·G·t, and the accumulated transformation on one, m'=m·t.
func (s *state) apply(t [3][3]int) {
	var G [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					sum += float64(t[k][i]) * s.G[k][l] * float64(t[l][j])
				}
			}
			G[i][j] = sum
		}
	}
	//keep it exactly symmetric
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			avg := (G[i][j] + G[j][i]) / 2
			G[i][j], G[j][i] = avg, avg
		}
	}
	s.G = G
	s.m = intMul(s.m, t)
}

//sortStep orders the diagonal of the tensor, A<=B<=C, breaking ties with
//the off-diagonal elements (steps 1 and 2).
func sortStep(s *state) bool {
	changed := false
	for i := 0; i < 3; i++ {
		if s.gt(s.A(), s.B()) || (s.eq(s.A(), s.B()) && s.gt(math.Abs(s.xi()), math.Abs(s.eta()))) {
			s.apply(swapAB)
			changed = true
		}
		if s.gt(s.B(), s.C()) || (s.eq(s.B(), s.C()) && s.gt(math.Abs(s.eta()), math.Abs(s.zeta()))) {
			s.apply(swapBC)
			changed = true
			continue
		}
		break
	}
	return changed
}

//handedStep inverts the cell through the origin if the current basis is left-handed.
//The tensor is not affected.
func handedStep(s *state) bool {
	if s.handed*float64(intDet(s.m)) > 0 {
		return false
	}
	s.apply(invert)
	return true
}

//signStep makes the 3 off-diagonal elements all positive or all non-positive
//(steps 3 and 4). It returns an error if the signs can't be fixed, which shouldn't happen.
func signStep(s *state) (bool, error) {
	sx, se, sz := s.sign(s.xi()), s.sign(s.eta()), s.sign(s.zeta())
	t := identity
	if sx*se*sz > 0 {
		//all positive
		t[0][0], t[1][1], t[2][2] = sx, se, sz
	} else {
		//all non-positive. An element that is zero is used as a pivot
		//if the signs of the other elements can't be fixed with a proper rotation.
		var p *int
		for i, v := range []int{sx, se, sz} {
			if v > 0 {
				t[i][i] = -1
			} else if v == 0 {
				p = &t[i][i]
			}
		}
		if t[0][0]*t[1][1]*t[2][2] < 0 {
			if p == nil {
				return false, fmt.Errorf("can't make the off-diagonal elements non-positive: %v", s.G)
			}
			*p = -1
		}
	}
	if t == identity {
		return false, nil
	}
	s.apply(t)
	return true, nil
}

//reduceStep applies the first of the shear steps 5, 6 and 7 that is needed, if any.
//Those make each off-diagonal element at most as large as the smaller of the diagonal
//elements it involves.
func reduceStep(s *state) bool {
	A, B := s.A(), s.B()
	xi, eta, zeta := s.xi(), s.eta(), s.zeta()
	switch {
	case s.gt(math.Abs(xi), B) || (s.eq(xi, B) && s.lt(2*eta, zeta)) || (s.eq(xi, -B) && s.lt(zeta, 0)):
		t := identity
		t[1][2] = -signum(xi)
		s.apply(t)
	case s.gt(math.Abs(eta), A) || (s.eq(eta, A) && s.lt(2*xi, zeta)) || (s.eq(eta, -A) && s.lt(zeta, 0)):
		t := identity
		t[0][2] = -signum(eta)
		s.apply(t)
	case s.gt(math.Abs(zeta), A) || (s.eq(zeta, A) && s.lt(2*xi, eta)) || (s.eq(zeta, -A) && s.lt(eta, 0)):
		t := identity
		t[0][1] = -signum(zeta)
		s.apply(t)
	default:
		return false
	}
	return true
}

//boundaryStep takes c to a+b+c when the sum of the off-diagonal elements
//and A+B is negative, or zero with the tie broken the wrong way (step 8).
func boundaryStep(s *state) bool {
	A := s.A()
	xi, eta, zeta := s.xi(), s.eta(), s.zeta()
	sum := xi + eta + zeta + A + s.B()
	if s.lt(sum, 0) || (s.eq(sum, 0) && s.gt(2*(A+eta)+zeta, 0)) {
		s.apply(aPlusB)
		return true
	}
	return false
}

func signum(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}

//Reduce returns the Niggli form of the metric tensor G, and the unimodular transformation
//which columns are the reduced cell edges in terms of the original ones. The transformation
//has determinant 1, so the handedness of the cell is kept.
//If the reduction doesn't converge in o.MaxIterations passes, the original G is
//returned together with the identity and an error. o can be nil.
func Reduce(G [3][3]float64, o *Options) ([3][3]float64, [3][3]int, error) {
	s, err := newState(G, 1, o)
	if err != nil {
		return G, identity, err
	}
	if err := s.run(maxIter(o)); err != nil {
		return G, identity, err
	}
	return s.G, s.m, nil
}

func maxIter(o *Options) int {
	if o == nil {
		o = DefaultOptions()
	}
	return o.MaxIterations
}

func newState(G [3][3]float64, handed float64, o *Options) (*state, error) {
	if o == nil {
		o = DefaultOptions()
	}
	det := v3.Det(v3.FromArray(G))
	if G[0][0] <= 0 || G[1][1] <= 0 || G[2][2] <= 0 || det <= 0 || math.IsNaN(det) {
		return nil, cryst.ErrDegenerate
	}
	vol := math.Sqrt(det)
	return &state{G: G, m: identity, eps: o.Epsilon * math.Pow(vol, 2.0/3.0), handed: handed}, nil
}

//run is the fixed-point loop over the reduction steps. It finishes when a pass
//changes nothing.
func (s *state) run(maxiter int) error {
	for iter := 0; iter < maxiter; iter++ {
		changed := sortStep(s)
		changed = handedStep(s) || changed
		signed, err := signStep(s)
		if err != nil {
			return err
		}
		changed = signed || changed
		if reduceStep(s) || boundaryStep(s) {
			continue
		}
		if !changed {
			return nil
		}
	}
	return cryst.ErrNoConvergence
}

//Nigglify returns an orientation matrix for the same lattice as UB, but
//which real-space cell is Niggli-reduced, and right-handed (det>0). The
//metric tensor of the result fulfills the Niggli conditions for o.Epsilon.
//If the reduction fails, a copy of UB is returned together with the error, and
//a warning is logged. UB is never modified. o can be nil.
func Nigglify(UB *v3.Matrix, o *Options) (*v3.Matrix, error) {
	if UB == nil || UB.Dense == nil {
		return nil, cryst.NewError("nil orientation matrix", cryst.ErrInput, "niggli.Nigglify")
	}
	fail := func(err error) (*v3.Matrix, error) {
		log.Printf("goCryst/niggli: reduction failed, returning the matrix unchanged: %s", err.Error())
		return UB.Clone(), err
	}
	G, err := cryst.MetricTensor(UB)
	if err != nil {
		return fail(cryst.Decorate(err, "niggli.Nigglify"))
	}
	handed := 1.0
	if v3.Det(UB) < 0 {
		handed = -1
	}
	s, err := newState(G, handed, o)
	if err != nil {
		return fail(cryst.NewError(fmt.Sprintf("invalid metric tensor %v", G), err, "niggli.Nigglify"))
	}
	if err := s.run(maxIter(o)); err != nil {
		return fail(cryst.NewError(fmt.Sprintf("can't reduce cell: %s", err.Error()), cryst.ErrNoConvergence, "niggli.Nigglify"))
	}
	//the cell edges are the columns of (UB⁻¹)ᵀ, so the new UB is UB·(m⁻¹)ᵀ
	minv := intInverse(s.m)
	T := v3.Zeros(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			T.Set(i, j, float64(minv[j][i]))
		}
	}
	ret := v3.Mul(UB, T)
	if v3.Det(ret) <= 0 {
		return fail(cryst.NewError("reduced cell is not right-handed", cryst.ErrDegenerate, "niggli.Nigglify"))
	}
	return ret, nil
}

//MetricTensor returns the real-space metric tensor of UB, the one Reduce works on.
func MetricTensor(UB *v3.Matrix) ([3][3]float64, error) {
	G, err := cryst.MetricTensor(UB)
	return G, cryst.Decorate(err, "niggli.MetricTensor")
}

//IsReduced returns true if G fulfills the Niggli conditions within eps, which is
//an absolute tolerance.
func IsReduced(G [3][3]float64, eps float64) bool {
	s := &state{G: G, eps: eps}
	A, B, C := s.A(), s.B(), s.C()
	xi, eta, zeta := s.xi(), s.eta(), s.zeta()
	if s.gt(A, B) || s.gt(B, C) {
		return false
	}
	if s.gt(math.Abs(xi), B) || s.gt(math.Abs(eta), A) || s.gt(math.Abs(zeta), A) {
		return false
	}
	sx, se, sz := s.sign(xi), s.sign(eta), s.sign(zeta)
	if sx*se*sz > 0 {
		//positive reduced form
		return !((s.eq(A, B) && s.gt(xi, eta)) ||
			(s.eq(B, C) && s.gt(eta, zeta)) ||
			(s.eq(xi, B) && s.gt(zeta, 2*eta)) ||
			(s.eq(eta, A) && s.gt(zeta, 2*xi)) ||
			(s.eq(zeta, A) && s.gt(eta, 2*xi)))
	}
	if sx > 0 || se > 0 || sz > 0 {
		return false
	}
	sum := xi + eta + zeta + A + B
	return !(s.lt(sum, 0) ||
		(s.eq(A, B) && s.gt(math.Abs(xi), math.Abs(eta))) ||
		(s.eq(B, C) && s.gt(math.Abs(eta), math.Abs(zeta))) ||
		(s.eq(xi, -B) && sz != 0) ||
		(s.eq(eta, -A) && sz != 0) ||
		(s.eq(zeta, -A) && se != 0) ||
		(s.eq(sum, 0) && s.gt(2*(A+eta)+zeta, 0)))
}

//Integer 3x3 matrix helpers.

func intMul(a, b [3][3]int) [3][3]int {
	var r [3][3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return r
}

func intDet(a [3][3]int) int {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

//intInverse returns the inverse of a unimodular matrix (det=±1), which is
//itself an integer matrix.
func intInverse(a [3][3]int) [3][3]int {
	d := intDet(a)
	var r [3][3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			//cofactor of a[j][i]
			r1, r2 := (j+1)%3, (j+2)%3
			c1, c2 := (i+1)%3, (i+2)%3
			r[i][j] = (a[r1][c1]*a[r2][c2] - a[r1][c2]*a[r2][c1]) * d
		}
	}
	return r
}
