/*
 * errors.go, part of gocryst.
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
	"errors"

	v3 "github.com/rmera/gocryst/v3"
)

//Error is the interface for errors in goCryst. Besides the message, each error
//carries a "decoration": the list of functions in the calling stack it went through,
//plus, for each function, any relevant information, in the format "FunctionName: Extra info"
type Error interface {
	Error() string
	Decorate(string) []string //adds information when the error is passed up. If given an empty string, it just returns the current value.
	Critical() bool
}

//CError is the concrete error type returned by the functions of this package.
//The kind can be checked with errors.Is against the Err* values.
type CError struct {
	msg      string
	kind     error
	deco     []string
	critical bool
}

func (err *CError) Error() string { return err.msg }

func (err *CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err *CError) Critical() bool { return err.critical }

func (err *CError) Unwrap() error { return err.kind }

func newErr(msg string, kind error, caller string) *CError {
	return &CError{msg: "goCryst: " + msg, kind: kind, deco: []string{caller}, critical: true}
}

//errDecorate adds the caller's name to the decoration of err, if err implements
//Error, and returns it. Other errors are returned as they are.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}

//NewError returns a new error of the given kind, for use by the goCryst subpackages.
func NewError(msg string, kind error, caller string) *CError {
	return newErr(msg, kind, caller)
}

//Decorate is the exported version of errDecorate, for the goCryst subpackages.
func Decorate(err error, caller string) error {
	return errDecorate(err, caller)
}

//Error kinds. ErrSingular and ErrShape are the same values used by the v3 package,
//so errors.Is works no matter where the error originated.
var (
	ErrSingular      = v3.ErrSingular
	ErrShape         = v3.ErrShape
	ErrDegenerate    = errors.New("goCryst: degenerate geometry")
	ErrInput         = errors.New("goCryst: invalid input")
	ErrNoConvergence = errors.New("goCryst: reduction did not converge")
)
