/*
 * histo.go, part of gocryst.
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

//Package histo implements simple histograms, optionally weighted, and
//matrices of histograms sharing the same dividers. In goCryst they hold
//the distribution of the offsets of the Miller indexes from the nearest integers.
package histo

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//EqualWidth returns the n+1 dividers for n bins of the same width
//spanning [min,max].
func EqualWidth(min, max float64, n int) []float64 {
	if n < 1 || max <= min {
		panic("goCryst/histo.EqualWidth: need at least one bin and max>min")
	}
	return floats.Span(make([]float64, n+1), min, max)
}

//A matrix of histograms
type Matrix struct {
	rows, cols int       //total
	d          []*Data   //row-major
	dividers   []float64 //if not nil, all histograms have the same dividers
}

//NewMatrix returns a new matrix of *Data with r and c rows and column
//and dividers dividers. Dividers can be nil, in which case, elements
//of the matrix will not be forced to have the same dividers
func NewMatrix(r, c int, dividers []float64) *Matrix {
	ret := new(Matrix)
	ret.rows = r
	ret.cols = c
	ret.d = make([]*Data, r*c)
	ret.dividers = dividers
	return ret
}

func (M *Matrix) Dims() (int, int) {
	return M.rows, M.cols
}

//Copies the dividers of the histogram
func (M *Matrix) CopyDividers(dest ...[]float64) []float64 {
	if M.dividers == nil {
		return nil
	}
	d := getCopySlice(len(M.dividers), dest...)
	return floats.ScaleTo(d, 1, M.dividers)
}

func (M *Matrix) String() string {
	ret := fmt.Sprintf("rows:%d cols:%d | Data:\n", M.rows, M.cols)
	t := make([]string, 0, len(M.d))
	for _, v := range M.d {
		if v == nil {
			t = append(t, "<empty>")
			continue
		}
		t = append(t, v.String())
	}
	return ret + strings.Join(t, "\n\n")
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rows     int       `json:"rows"`
		Cols     int       `json:"cols"`
		D        []*Data   `json:"data"`
		Dividers []float64 `json:"dividers"`
	}{
		Rows:     M.rows,
		Cols:     M.cols,
		D:        M.d,
		Dividers: M.dividers,
	})
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a struct {
		Rows     int       `json:"rows"`
		Cols     int       `json:"cols"`
		D        []*Data   `json:"data"`
		Dividers []float64 `json:"dividers"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.D) != a.Rows*a.Cols {
		return fmt.Errorf("goCryst/histo: %d histograms for a %dx%d matrix", len(a.D), a.Rows, a.Cols)
	}
	M.rows = a.Rows
	M.cols = a.Cols
	M.d = a.D
	M.dividers = a.Dividers
	return nil
}

//returns the index in the []*Data slice of a matrix given
//the row and column indexes.
func (M *Matrix) rc2i(r, c int) int {
	M.Check(r, c, true)
	return M.cols*r + c
}

//Fill fills the matrix with empty histograms
//If the matrix has a non-nil dividers slice,
//that slice is used for all the histograms created
func (M *Matrix) Fill() {
	for i := 0; i < M.rows; i++ {
		for j := 0; j < M.cols; j++ {
			M.NewHisto(i, j, M.dividers, nil, nil)
		}
	}
}

//Check checks if the given row and column indexes are within range.
//if pan is given and true, it panics if either is out of range,
//otherwise, it returns an error.
func (M *Matrix) Check(r, c int, pan ...bool) error {
	var err error
	if r < 0 || r >= M.rows {
		err = fmt.Errorf("goCryst/Histo: Row out of range")
	}
	if c < 0 || c >= M.cols {
		err = fmt.Errorf("goCryst/Histo: Column out of range")
	}
	if err != nil && len(pan) > 0 && pan[0] {
		panic(err.Error())
	}
	return err
}

//NewHisto Puts a new histogram in the r,c position in the matrix. Dividers can be nil, in which case, the matrix
//should have its dividers. If there are no dividers, the function will panic.
//rawdata and weights can also be nil. If rawdata is nil, an empty histogram will be put in the position.
func (M *Matrix) NewHisto(r, c int, dividers, rawdata, weights []float64, ID ...int) {
	if dividers == nil {
		if M.dividers != nil {
			dividers = M.dividers
		} else {
			panic("goCryst/histo.Matrix.NewHisto: dividers not given, and the matrix has none")
		}
	} else if M.dividers != nil && !floats.Equal(M.dividers, dividers) {
		log.Printf("goCryst/histo.Matrix.NewHisto: dividers given but don't match the dividers of the matrix. The matrix's dividers will be used.")
		dividers = M.dividers
	}
	M.d[M.rc2i(r, c)] = NewData(dividers, rawdata, weights, ID...)
}

//View Returns a view of the histogram in the r,c position in the matrix
func (M *Matrix) View(r, c int) *Data {
	return M.d[M.rc2i(r, c)]
}

//Data is a histogram. Each data point can carry a weight, in which case
//the total is the sum of the weights, not the number of points.
type Data struct {
	id         int
	normalized bool
	total      float64
	dividers   []float64
	histo      []float64
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      float64   `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      float64   `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("goCryst/histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

//ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

//String prints a -hopefully- pretty string representation of
//the histogram. The representation uses 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, Total: %.3f\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.dividers)-1)
	h := make([]string, 0, len(D.dividers)-1)
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%5.2f:%5.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%11.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//NewData returns a new histogram from the dividers and rawdata given.
//rawdata can be nil. In that case, an empty histogram is created.
//weights can be nil, in which case, each data point counts as one.
//if an ID for the histogram is given, it will be set. If not, the ID will
//be set to -1.
func NewData(dividers, rawdata, weights []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("goCryst/histo.NewData: at least 2 dividers are needed")
	}
	d := new(Data)
	//I prefer to copy the slice to avoid somebody changing it from outside
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata, weights)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

//AddData adds the given data point(s), each with weight one, to the histogram.
func (D *Data) AddData(point ...float64) {
	for _, v := range point {
		D.AddWeighted(v, 1)
	}
}

//AddWeighted adds a data point with weight w to the histogram.
//Values out of the range of the dividers are omitted.
func (D *Data) AddWeighted(v, w float64) {
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	for j, div := range D.dividers[:len(D.dividers)-1] {
		if div <= v && v < D.dividers[j+1] {
			D.histo[j] += w
			D.total += w
			break
		}
	}
	//if it was normalized, we should return it to that state
	if norma {
		D.Normalize()
	}
}

//Total returns the number of data points (or the sum of their weights) in the histogram.
func (D *Data) Total() float64 {
	return D.total
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

//normalizes or un-normalizes the histogram depending
//on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := D.total
	D.normalized = false
	if normalize {
		n = 1 / D.total
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//Copies the dividers of the histogram
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	return floats.ScaleTo(d, 1, D.dividers)
}

//Copy returns a copy of the bins of the histogram.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	return floats.ScaleTo(d, 1, D.histo)
}

//View returns the bins of the histogram (not a copy).
func (D *Data) View() []float64 {
	return D.histo
}

//Centers returns the center of each bin.
func (D *Data) Centers() []float64 {
	ret := make([]float64, len(D.histo))
	for i := range ret {
		ret[i] = (D.dividers[i] + D.dividers[i+1]) / 2
	}
	return ret
}

func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//ReHisto rebuilds the histogram from the given dividers, data and weights.
//weights can be nil. Data outside the range of the dividers is omitted.
func (D *Data) ReHisto(dividers, rawdata, weights []float64) {
	if weights != nil && len(weights) != len(rawdata) {
		panic("goCryst/histo.Data.ReHisto: weights and data must have the same length")
	}
	data := make([]float64, len(rawdata))
	copy(data, rawdata)
	var w []float64
	if weights != nil {
		inds := make([]int, len(data))
		floats.Argsort(data, inds)
		w = make([]float64, len(weights))
		for i, v := range inds {
			w[i] = weights[v]
		}
	} else {
		sort.Float64s(data)
	}
	//stat.Histogram just panics instead of omitting the values that are off limits
	//so we remove them here before the call.
	maxi := sort.SearchFloat64s(data, dividers[len(dividers)-1])
	mini := sort.SearchFloat64s(data, dividers[0])
	if mini > maxi {
		mini = maxi
	}
	data = data[mini:maxi]
	if w != nil {
		w = w[mini:maxi]
	}
	D.dividers = dividers
	D.normalized = false
	D.histo = stat.Histogram(nil, dividers, data, w)
	if w != nil {
		D.total = floats.Sum(w)
	} else {
		D.total = float64(len(data))
	}
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N] //floats.ScaleTo wants both slices to _match_
		}
	} else {
		d = make([]float64, N)
	}
	return d
}
