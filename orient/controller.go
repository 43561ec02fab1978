/*
 * controller.go, part of gocryst.
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

//Package orient keeps the state of an indexing session: the peaks, the current
//orientation matrix and the peaks omitted from fitting, and keeps the indexing
//statistics up to date as those change.
package orient

import (
	"fmt"
	"log"
	"math"

	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/histo"
	"github.com/rmera/gocryst/niggli"
	v3 "github.com/rmera/gocryst/v3"
)

//EventKind tells what changed in a Controller.
type EventKind int

const (
	UBChanged   EventKind = iota //a new orientation matrix was set
	MaskChanged                  //the omitted peaks changed, the matrix didn't
)

func (k EventKind) String() string {
	switch k {
	case UBChanged:
		return "UB changed"
	case MaskChanged:
		return "mask changed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

//Event is sent to the listeners of a Controller after each change.
type Event struct {
	Kind     EventKind
	Stats    [4]float64 //indexing statistics after the change
	Omitted  int        //number of omitted peaks after the change
	Included int
}

//Controller owns an orientation matrix and the mask of omitted peaks for a set of peaks.
//The mask is rebuilt, the statistics recomputed, and the listeners notified, each
//time the matrix, the filter, or the manually omitted peaks change.
//A Controller is not safe for concurrent use.
type Controller struct {
	peaks     []*cryst.Peak
	ub        *v3.Matrix
	omit      []bool
	manual    []bool //peaks omitted by the user
	filter    *Filter
	opts      *cryst.Options
	stats     [4]float64
	listeners []func(Event)
	logger    *log.Logger
}

//New returns a controller for the given peaks, which are not modified. If o is nil,
//the default options are used. No orientation matrix is set.
func New(peaks []*cryst.Peak, o *cryst.Options) (*Controller, error) {
	if o == nil {
		o = cryst.DefaultOptions()
	}
	if err := o.Validate(); err != nil {
		return nil, cryst.Decorate(err, "orient.New")
	}
	opts := *o
	c := &Controller{
		peaks:  peaks,
		omit:   make([]bool, len(peaks)),
		manual: make([]bool, len(peaks)),
		opts:   &opts,
		logger: log.Default(),
	}
	c.rebuild()
	return c, nil
}

//SetLogger sets the logger for warnings. nil disables logging.
func (c *Controller) SetLogger(l *log.Logger) {
	c.logger = l
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

//AddListener adds a function to be called after each change in the controller.
func (c *Controller) AddListener(f func(Event)) {
	c.listeners = append(c.listeners, f)
}

func (c *Controller) notify(kind EventKind) {
	omitted := 0
	for _, v := range c.omit {
		if v {
			omitted++
		}
	}
	e := Event{Kind: kind, Stats: c.stats, Omitted: omitted, Included: len(c.omit) - omitted}
	for _, f := range c.listeners {
		f(e)
	}
}

//Options returns a copy of the options used by the controller.
func (c *Controller) Options() cryst.Options {
	return *c.opts
}

//Peaks returns the peaks of the controller. They should not be modified.
func (c *Controller) Peaks() []*cryst.Peak {
	return c.peaks
}

//UB returns a copy of the current orientation matrix, or nil if none is set.
func (c *Controller) UB() *v3.Matrix {
	if c.ub == nil {
		return nil
	}
	return c.ub.Clone()
}

//SetUB sets a new orientation matrix, which must be an invertible 3x3 matrix.
//A left-handed matrix (det<0) is accepted with a warning. Nigglify
//replaces it by a right-handed one. On error, the controller is not changed.
func (c *Controller) SetUB(ub *v3.Matrix) error {
	if ub == nil || ub.Dense == nil {
		return cryst.NewError("nil orientation matrix", cryst.ErrInput, "orient.SetUB")
	}
	if r, cols := ub.Dims(); r != 3 || cols != 3 {
		return cryst.NewError(fmt.Sprintf("orientation matrix must be 3x3, got %dx%d", r, cols), cryst.ErrShape, "orient.SetUB")
	}
	if _, err := v3.Inverse(ub); err != nil {
		return cryst.Decorate(err, "orient.SetUB")
	}
	if v3.Det(ub) < 0 {
		c.logf("goCryst/orient: the orientation matrix is left-handed, det: %g", v3.Det(ub))
	}
	c.ub = ub.Clone()
	c.rebuild()
	c.notify(UBChanged)
	return nil
}

//Filter returns a copy of the current filter, which can be nil.
func (c *Controller) Filter() *Filter {
	return c.filter.Copy()
}

//SetFilter sets the filter for the peaks used. nil removes the filter.
func (c *Controller) SetFilter(f *Filter) {
	c.filter = f.Copy()
	c.rebuild()
	c.notify(MaskChanged)
}

//Omit omits (if omit is true) or includes again the ith peak. A peak included
//by Omit can still be omitted by the filter.
func (c *Controller) Omit(i int, omit bool) error {
	if i < 0 || i >= len(c.peaks) {
		return cryst.NewError(fmt.Sprintf("peak index %d out of range [0,%d)", i, len(c.peaks)), cryst.ErrInput, "orient.Omit")
	}
	if c.manual[i] == omit {
		return nil
	}
	c.manual[i] = omit
	c.rebuild()
	c.notify(MaskChanged)
	return nil
}

//Omitted returns a copy of the mask of omitted peaks.
func (c *Controller) Omitted() []bool {
	r := make([]bool, len(c.omit))
	copy(r, c.omit)
	return r
}

//Stats returns the fraction of included peaks indexed within each of the cryst.FitThresholds
//by the current matrix. They are all zero if no matrix is set.
func (c *Controller) Stats() [4]float64 {
	return c.stats
}

//rebuild recomputes the mask and the statistics from the current state.
func (c *Controller) rebuild() {
	var H *v3.Matrix
	var included []int
	if c.ub != nil && c.filter != nil && c.filter.MaxOffset > 0 {
		var err error
		H, included, err = cryst.FractionalHKLs(c.peaks, c.ub, nil)
		if err != nil {
			c.logf("goCryst/orient: can't apply the offset rule: %s", err.Error())
			H = nil
		}
	}
	for i, p := range c.peaks {
		c.omit[i] = c.manual[i] || !c.filter.Accept(p)
	}
	if H != nil {
		for row, i := range included {
			for j := 0; j < 3; j++ {
				x := H.At(row, j)
				if math.Abs(x-math.Round(x)) > c.filter.MaxOffset {
					c.omit[i] = true
					break
				}
			}
		}
	}
	allout := len(c.peaks) > 0
	for _, v := range c.omit {
		if !v {
			allout = false
			break
		}
	}
	if allout {
		c.logf("goCryst/orient: all the %d peaks are omitted", len(c.peaks))
	}
	c.stats = [4]float64{}
	if c.ub == nil {
		return
	}
	stats, err := cryst.PeakFitInfo(c.peaks, c.ub, c.omit)
	if err != nil {
		c.logf("goCryst/orient: can't compute statistics: %s", err.Error())
		return
	}
	c.stats = stats
}

func (c *Controller) requireUB(caller string) error {
	if c.ub == nil {
		return cryst.NewError("no orientation matrix set", cryst.ErrInput, caller)
	}
	return nil
}

//Nigglify replaces the current matrix by the one for the Niggli-reduced cell.
//If the reduction fails, the matrix is not changed and the error is returned.
func (c *Controller) Nigglify() error {
	if err := c.requireUB("orient.Nigglify"); err != nil {
		return err
	}
	red, err := niggli.Nigglify(c.ub, niggli.FromCryst(c.opts))
	if err != nil {
		return cryst.Decorate(err, "orient.Nigglify")
	}
	return cryst.Decorate(c.SetUB(red), "orient.Nigglify")
}

//FromPeakPair sets the matrix that takes B·hkli and B·hklj to the Q-vectors of
//the ith and jth peaks, where B is the unrotated basis.
func (c *Controller) FromPeakPair(i, j int, hkli, hklj [3]int, B *v3.Matrix) error {
	for _, v := range []int{i, j} {
		if v < 0 || v >= len(c.peaks) || c.peaks[v] == nil {
			return cryst.NewError(fmt.Sprintf("invalid peak index %d", v), cryst.ErrInput, "orient.FromPeakPair")
		}
	}
	h0 := [3]float64{float64(hkli[0]), float64(hkli[1]), float64(hkli[2])}
	h1 := [3]float64{float64(hklj[0]), float64(hklj[1]), float64(hklj[2])}
	ub, err := cryst.OrientationMatrix(c.peaks[i].Q, c.peaks[j].Q, h0, h1, B)
	if err != nil {
		return cryst.Decorate(err, "orient.FromPeakPair")
	}
	return cryst.Decorate(c.SetUB(ub), "orient.FromPeakPair")
}

//Candidates returns the Miller indexes that B could assign to the ith peak, given the
//tolerance and centering in the options of the controller.
func (c *Controller) Candidates(i int, B *v3.Matrix) ([][3]int, error) {
	if i < 0 || i >= len(c.peaks) || c.peaks[i] == nil {
		return nil, cryst.NewError(fmt.Sprintf("invalid peak index %d", i), cryst.ErrInput, "orient.Candidates")
	}
	r, err := cryst.FindPossibleHKLs(B, c.peaks[i].Q, c.opts.QTol, c.opts.Centering)
	return r, cryst.Decorate(err, "orient.Candidates")
}

//PairCandidates returns the Miller indexes that B could assign to the jth peak, if the ith
//peak has the indexes hkli.
func (c *Controller) PairCandidates(i, j int, hkli [3]int, B *v3.Matrix) ([][3]int, error) {
	for _, v := range []int{i, j} {
		if v < 0 || v >= len(c.peaks) || c.peaks[v] == nil {
			return nil, cryst.NewError(fmt.Sprintf("invalid peak index %d", v), cryst.ErrInput, "orient.PairCandidates")
		}
	}
	r, err := cryst.FindPossibleHKLsPair(B, c.peaks[i].Q, c.peaks[j].Q, hkli, c.opts.QTol, c.opts.QTol2, c.opts.Centering)
	return r, cryst.Decorate(err, "orient.PairCandidates")
}

//Indexes returns the integer Miller indexes of each peak under the current matrix, with
//(0,0,0) for omitted peaks and those not within the index tolerance, and the
//number of peaks indexed.
func (c *Controller) Indexes() ([][3]int, int, error) {
	if err := c.requireUB("orient.Indexes"); err != nil {
		return nil, 0, err
	}
	h, n, err := cryst.IndexPeaks(c.peaks, c.ub, c.opts.IndexTol, c.omit)
	return h, n, cryst.Decorate(err, "orient.Indexes")
}

//Refine replaces the current matrix by the least-squares fit to the peaks that
//it indexes, and returns the RMS of the residuals.
func (c *Controller) Refine() (float64, error) {
	hkls, n, err := c.Indexes()
	if err != nil {
		return 0, cryst.Decorate(err, "orient.Refine")
	}
	if n < 3 {
		return 0, cryst.NewError(fmt.Sprintf("only %d peaks indexed, at least 3 needed", n), cryst.ErrDegenerate, "orient.Refine")
	}
	ub, rms, err := cryst.OptimizeUB(c.peaks, hkls, c.omit)
	if err != nil {
		return 0, cryst.Decorate(err, "orient.Refine")
	}
	if err := c.SetUB(ub); err != nil {
		return 0, cryst.Decorate(err, "orient.Refine")
	}
	return rms, nil
}

//Offsets returns the histogram of the offsets from the nearest integer of the h, k or l
//(cryst.IndexH, IndexK or IndexL) of the included peaks. If nbins is not positive, the
//number in the options is used.
func (c *Controller) Offsets(index, nbins int, weighted bool) (*histo.Data, error) {
	if err := c.requireUB("orient.Offsets"); err != nil {
		return nil, err
	}
	if nbins <= 0 {
		nbins = c.opts.OffsetBins
	}
	d, err := cryst.MillerOffsets(c.peaks, c.ub, c.omit, index, nbins, weighted)
	return d, cryst.Decorate(err, "orient.Offsets")
}

//AllOffsets is like Offsets, but returns the histograms for h, k and l.
func (c *Controller) AllOffsets(nbins int, weighted bool) (*histo.Matrix, error) {
	if err := c.requireUB("orient.AllOffsets"); err != nil {
		return nil, err
	}
	if nbins <= 0 {
		nbins = c.opts.OffsetBins
	}
	m, err := cryst.MillerOffsetsAll(c.peaks, c.ub, c.omit, nbins, weighted)
	return m, cryst.Decorate(err, "orient.AllOffsets")
}

//Lattice returns the cell parameters for the current matrix.
func (c *Controller) Lattice() (cryst.Lattice, error) {
	if err := c.requireUB("orient.Lattice"); err != nil {
		return cryst.Lattice{}, err
	}
	L, err := cryst.LatticeParams(c.ub)
	return L, cryst.Decorate(err, "orient.Lattice")
}
