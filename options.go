/*
 * options.go, part of gocryst.
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
	"encoding/json"
	"fmt"
	"os"
)

//Options contains the tolerances and settings used by the indexing functions
//and the orientation matrix controller.
type Options struct {
	QTol          float64   `json:"qtol"`           //tolerance for the length of Q, in inverse Angstrom
	QTol2         float64   `json:"qtol2"`          //tolerance for the dot product between 2 Q-vectors
	Centering     Centering `json:"centering"`      //lattice centering used to filter candidate indexes
	IndexTol      float64   `json:"index_tol"`      //max. offset from an integer for a peak to count as indexed
	NiggliEpsilon float64   `json:"niggli_epsilon"` //relative tolerance for the Niggli conditions
	NiggliMaxIter int       `json:"niggli_max_iter"`
	OffsetBins    int       `json:"offset_bins"` //bins for the Miller offset histograms
}

//DefaultOptions returns reasonable options for time-of-flight
//single crystal data.
func DefaultOptions() *Options {
	r := new(Options)
	r.QTol = 0.01
	r.QTol2 = 0.02
	r.Centering = CenterP
	r.IndexTol = 0.12
	r.NiggliEpsilon = 1e-5
	r.NiggliMaxIter = 200
	r.OffsetBins = 20
	return r
}

//Validate returns an error if any of the options has a value
//that makes no sense.
func (O *Options) Validate() error {
	switch {
	case O.QTol < 0 || O.QTol2 < 0:
		return newErr(fmt.Sprintf("negative tolerances: qtol %g qtol2 %g", O.QTol, O.QTol2), ErrInput, "Options.Validate")
	case O.IndexTol <= 0 || O.IndexTol >= 0.5:
		return newErr(fmt.Sprintf("index_tol must be in (0,0.5), got %g", O.IndexTol), ErrInput, "Options.Validate")
	case O.NiggliEpsilon <= 0:
		return newErr(fmt.Sprintf("niggli_epsilon must be positive, got %g", O.NiggliEpsilon), ErrInput, "Options.Validate")
	case O.NiggliMaxIter < 1:
		return newErr(fmt.Sprintf("niggli_max_iter must be at least 1, got %d", O.NiggliMaxIter), ErrInput, "Options.Validate")
	case O.OffsetBins < 1:
		return newErr(fmt.Sprintf("offset_bins must be at least 1, got %d", O.OffsetBins), ErrInput, "Options.Validate")
	}
	if _, err := ParseCentering(O.Centering.String()); err != nil {
		return errDecorate(err, "Options.Validate")
	}
	return nil
}

//LoadOptions reads options from a JSON file. Fields not present in the
//file keep their default values. The options are validated.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr(fmt.Sprintf("can't read options file %s: %s", path, err.Error()), ErrInput, "LoadOptions")
	}
	O := DefaultOptions()
	if err := json.Unmarshal(data, O); err != nil {
		return nil, newErr(fmt.Sprintf("can't parse options file %s: %s", path, err.Error()), ErrInput, "LoadOptions")
	}
	if err := O.Validate(); err != nil {
		return nil, errDecorate(err, "LoadOptions")
	}
	return O, nil
}
