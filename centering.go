/*
 * centering.go, part of gocryst.
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

import "fmt"

//Centering is the lattice centering of a crystal. It restricts which
//(h,k,l) triples can give rise to reflections.
type Centering byte

const (
	CenterP Centering = 'P' //primitive
	CenterA Centering = 'A' //centered on the bc face
	CenterB Centering = 'B' //centered on the ac face
	CenterC Centering = 'C' //centered on the ab face
	CenterF Centering = 'F' //all faces centered
	CenterI Centering = 'I' //body centered
	CenterR Centering = 'R' //rhombohedral, obverse setting
)

//Centerings contains all the centering types goCryst knows about.
var Centerings = []Centering{CenterP, CenterA, CenterB, CenterC, CenterF, CenterI, CenterR}

func (c Centering) String() string {
	return string(c)
}

//ParseCentering returns the Centering for s, which should be one of
//"P", "A", "B", "C", "F", "I" or "R" (lower case is accepted).
func ParseCentering(s string) (Centering, error) {
	if len(s) != 1 {
		return CenterP, newErr(fmt.Sprintf("invalid centering %q", s), ErrInput, "ParseCentering")
	}
	c := Centering(s[0])
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for _, v := range Centerings {
		if c == v {
			return c, nil
		}
	}
	return CenterP, newErr(fmt.Sprintf("unknown centering %q", s), ErrInput, "ParseCentering")
}

//CenteringOK returns true if the reflection h,k,l is allowed for
//the centering c. Unknown centerings allow every reflection.
func CenteringOK(h, k, l int, c Centering) bool {
	switch c {
	case CenterP:
		return true
	case CenterA:
		return (k+l)%2 == 0
	case CenterB:
		return (h+l)%2 == 0
	case CenterC:
		return (h+k)%2 == 0
	case CenterF:
		return (h+k)%2 == 0 && (h+l)%2 == 0 && (k+l)%2 == 0
	case CenterI:
		return (h+k+l)%2 == 0
	case CenterR:
		return (-h+k+l)%3 == 0
	}
	return true
}

//MarshalText allows a Centering to be written as a one-letter JSON string.
func (c Centering) MarshalText() ([]byte, error) {
	return []byte{byte(c)}, nil
}

//UnmarshalText reads a Centering from a one-letter string.
func (c *Centering) UnmarshalText(b []byte) error {
	v, err := ParseCentering(string(b))
	if err != nil {
		return errDecorate(err, "Centering.UnmarshalText")
	}
	*c = v
	return nil
}
