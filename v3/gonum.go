/*
 * gonum.go, part of gocryst.
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

//gonum.go contains what is needed for handling the gonum/mat types.
//All the *Vec functions operate on row vectors.

package v3

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space, backed by a gonum Dense.
//Within the package it is understood that a "vector" is a row vector.
//An orientation matrix is simply a Matrix with 3 vectors.
type Matrix struct {
	*mat.Dense
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
//The data slice is not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, &Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), ErrShape, []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

//FromArray returns a new 3x3 Matrix with the rows of a.
func FromArray(a [3][3]float64) *Matrix {
	d := make([]float64, 0, 9)
	for _, v := range a {
		d = append(d, v[:]...)
	}
	return &Matrix{mat.NewDense(3, 3, d)}
}

//Array returns the first 3 vectors of F as an array.
func (F *Matrix) Array() [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = F.At(i, j)
		}
	}
	return r
}

//Vec returns a copy of the ith vector of F.
func (F *Matrix) Vec(i int) [3]float64 {
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

//VecView returns a view of the given vector of the matrix.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//ColView returns a view of the given column of the matrix.
func (F *Matrix) ColView(i int) *Matrix {
	Fr, _ := F.Dims()
	r := F.Dense.Slice(0, Fr, i, i+1).(*mat.Dense)
	return &Matrix{r}
}

//Mul wraps mat.Dense.Mul to take care of the case when one of the
//arguments is a *Matrix, which gonum would otherwise not recognize as
//a Dense, missing any aliasing with the receiver.
func (F *Matrix) Mul(A, B mat.Matrix) {
	F.Dense.Mul(dense(A), dense(B))
}

//Copy wraps mat.Dense.Copy for the same reasons as Mul.
func (F *Matrix) Copy(A mat.Matrix) (int, int) {
	return F.Dense.Copy(dense(A))
}

//TCopy puts the transpose of A in the receiver.
func (F *Matrix) TCopy(A mat.Matrix) {
	F.Dense.Copy(dense(A).T())
}

//Clone returns a copy of F that shares no memory with it.
func (F *Matrix) Clone() *Matrix {
	return &Matrix{mat.DenseCopyOf(F.Dense)}
}

func dense(A mat.Matrix) mat.Matrix {
	if M, ok := A.(*Matrix); ok {
		return M.Dense
	}
	return A
}

//Det returns the determinant of a 3x3 matrix. Panics if the matrix is not 3x3.
func Det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return (A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) - A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) + A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2)))
}

//Inverse returns the inverse of the square matrix A. It returns an error
//wrapping ErrSingular if A is singular or too ill-conditioned to be trusted.
func Inverse(A *Matrix) (*Matrix, error) {
	if A == nil || A.Dense == nil {
		return nil, &Error{"nil matrix", ErrShape, []string{"Inverse"}, true}
	}
	r, c := A.Dims()
	if r != c {
		return nil, &Error{fmt.Sprintf("can't invert a %dx%d matrix", r, c), ErrShape, []string{"Inverse"}, true}
	}
	inv := mat.NewDense(r, c, nil)
	if err := inv.Inverse(A.Dense); err != nil {
		return nil, &Error{fmt.Sprintf("matrix can't be inverted: %s", err.Error()), ErrSingular, []string{"mat.Dense.Inverse", "Inverse"}, true}
	}
	return &Matrix{inv}, nil
}

//T returns a new Matrix with the transpose of the 3x3 matrix A.
func T(A *Matrix) *Matrix {
	r := Zeros(3)
	r.TCopy(A)
	return r
}

//Mul returns the product of the 3x3 matrices A and B in a new Matrix.
func Mul(A, B *Matrix) *Matrix {
	r := Zeros(3)
	r.Mul(A, B)
	return r
}

//MulVec returns A·v, where v is taken as a column vector.
func MulVec(A mat.Matrix, v [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = A.At(i, 0)*v[0] + A.At(i, 1)*v[1] + A.At(i, 2)*v[2]
	}
	return r
}

//Equal returns true if A and B have the same shape and all their elements
//differ by no more than tol.
func Equal(A, B mat.Matrix, tol float64) bool {
	return mat.EqualApprox(dense(A), dense(B), tol)
}

//Errors

//Error is the error type of the package. It carries a message, a kind
//(one of the Err* values) which can be checked with errors.Is, and a
//"decoration" with the names of the functions the error went through.
type Error struct {
	message  string
	kind     error
	deco     []string
	critical bool
}

//NewError returns a new *Error with the given message and kind.
//The caller is put as the first decoration.
func NewError(message string, kind error, caller string) *Error {
	return &Error{message, kind, []string{caller}, true}
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	return fmt.Sprintf("%s", err.message)
}

//Decorate adds the dec string to the decoration slice of strings of the error,
//and returns the resulting slice. If dec is empty, the current slice is returned.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

//Unwrap returns the kind of the error.
func (err *Error) Unwrap() error { return err.kind }

//Error kinds
var (
	ErrSingular = errors.New("goCryst/v3: singular matrix")
	ErrShape    = errors.New("goCryst/v3: dimension mismatch")
)

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix   = PanicMsg("goCryst/v3: A Matrix should have 3 columns")
	ErrNoCrossProduct = PanicMsg("goCryst/v3: Invalid matrix for cross product")
	ErrDeterminant    = PanicMsg("goCryst/v3: Determinants are only available for 3x3 matrices")
	ErrIndexRange     = PanicMsg("goCryst/v3: Index out of range")
	ErrZeroVector     = PanicMsg("goCryst/v3: Can't normalize a zero vector")
)

//Maybe runs fn and recovers a panic with a PanicMsg or a gonum mat.Error,
//returning it as an *Error. Any other panic is re-panicked.
func Maybe(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = &Error{string(e), ErrShape, []string{"Maybe"}, true}
			case mat.Error:
				err = &Error{fmt.Sprintf("goCryst/v3: Error in gonum function: %s", e.Error()), ErrShape, []string{"Maybe"}, true}
			default:
				panic(r)
			}
		}
	}()
	fn()
	return err
}

//appzero is used to correct floating point errors. Everything equal or
//less than this is considered zero.
const appzero float64 = 0.000000000001

//IsZero returns true if the absolute value of f is not larger than appzero.
func IsZero(f float64) bool {
	return math.Abs(f) <= appzero
}
