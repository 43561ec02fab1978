/*
 * filter.go, part of gocryst.
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

package orient

import (
	"fmt"
	"slices"

	cryst "github.com/rmera/gocryst"
)

//Filter selects the peaks used to fit and evaluate an orientation matrix.
//The zero value accepts every peak.
type Filter struct {
	MinSeq, MaxSeq int     //sequence number range, inclusive. 0 means no limit
	Runs           []int   //runs allowed. Empty means all
	Dets           []int   //detectors allowed. Empty means all
	MinIntensity   float64 //peaks with a smaller intensity are omitted
	//If larger than 0, peaks whose indexes under the current orientation matrix
	//are farther than MaxOffset from an integer are omitted.
	MaxOffset float64
}

//Accept returns true if the peak passes the filter. Only the properties of the
//peak itself are checked, not the MaxOffset rule.
func (F *Filter) Accept(p *cryst.Peak) bool {
	if p == nil {
		return false
	}
	if F == nil {
		return true
	}
	if F.MinSeq > 0 && p.Seq < F.MinSeq {
		return false
	}
	if F.MaxSeq > 0 && p.Seq > F.MaxSeq {
		return false
	}
	if len(F.Runs) > 0 && !slices.Contains(F.Runs, p.Run) {
		return false
	}
	if len(F.Dets) > 0 && !slices.Contains(F.Dets, p.Det) {
		return false
	}
	return p.Intensity >= F.MinIntensity
}

func (F *Filter) String() string {
	if F == nil {
		return "no filter"
	}
	return fmt.Sprintf("seq: [%d,%d] runs: %v dets: %v min. intensity: %g max. offset: %g", F.MinSeq, F.MaxSeq, F.Runs, F.Dets, F.MinIntensity, F.MaxOffset)
}

//Copy returns a deep copy of the filter.
func (F *Filter) Copy() *Filter {
	if F == nil {
		return nil
	}
	r := *F
	r.Runs = slices.Clone(F.Runs)
	r.Dets = slices.Clone(F.Dets)
	return &r
}
