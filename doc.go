/*
 * doc.go, part of gocryst.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package cryst is the main package of the goCryst library. It provides the
peak structure and the numerical core needed to index single-crystal
diffraction data: orientation (UB) matrices, candidate Miller indexes
and indexing quality statistics.



	**goCryst Capabilities**


    Finds the (h,k,l) triples compatible with the length of an observed
	Q-vector, for a given basis and lattice centering, optionally also
	requiring consistency with a second, already indexed, peak.

    Obtains orientation matrices from 3 indexed peaks, from 2 indexed peaks
	and an unrotated basis, or, in the least-squares sense, from any number
	of indexed peaks.

    Reduces a cell to its Niggli form (package niggli).

    Evaluates how well an orientation matrix indexes a set of peaks, and
	builds histograms of the offsets of the Miller indexes from the nearest
	integers (packages histo and crystplot).

    Keeps the state of an orientation matrix, its peaks and the omitted peaks,
	notifying listeners of changes (package orient).


The convention throughout goCryst is Q=UB·(h,k,l), with Q in inverse Angstrom
and no 2π factor, so the columns of UB are the reciprocal cell vectors and the
rows of UB⁻¹ are the real-space cell edges. Matrices are v3.Matrix values,
backed by gonum.*/
package cryst
