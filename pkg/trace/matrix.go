// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package trace

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Matrix is a row-major grid of field elements, as produced by a chip's trace
// generator.  All rows have the same width.
type Matrix[F field.Element[F]] struct {
	width  uint
	values []F
}

// NewMatrix constructs a zero-filled matrix of the given dimensions.
func NewMatrix[F field.Element[F]](width, height uint) *Matrix[F] {
	return &Matrix[F]{width, make([]F, width*height)}
}

// FromValues constructs a matrix of the given width from a flat row-major
// array of values.  This panics if the number of values is not a multiple of
// the width.
func FromValues[F field.Element[F]](width uint, values []F) *Matrix[F] {
	if width == 0 && len(values) != 0 {
		panic("values given for zero width matrix")
	} else if width != 0 && uint(len(values))%width != 0 {
		panic(fmt.Sprintf("%d values do not form rows of width %d", len(values), width))
	}
	//
	return &Matrix[F]{width, values}
}

// FromRows constructs a matrix from a given set of rows, which must all have
// the same width.
func FromRows[F field.Element[F]](rows ...[]F) *Matrix[F] {
	if len(rows) == 0 {
		return NewMatrix[F](0, 0)
	}
	//
	var (
		width  = uint(len(rows[0]))
		values = make([]F, 0, width*uint(len(rows)))
	)
	//
	for i, row := range rows {
		if uint(len(row)) != width {
			panic(fmt.Sprintf("row %d has width %d (expected %d)", i, len(row), width))
		}
		//
		values = append(values, row...)
	}
	//
	return &Matrix[F]{width, values}
}

// Width returns the number of columns in this matrix.
func (p *Matrix[F]) Width() uint {
	return p.width
}

// Height returns the number of rows in this matrix.
func (p *Matrix[F]) Height() uint {
	if p.width == 0 {
		return 0
	}
	//
	return uint(len(p.values)) / p.width
}

// Row returns the given row of this matrix.  The returned slice aliases the
// underlying storage.
func (p *Matrix[F]) Row(row uint) []F {
	start := row * p.width
	//
	return p.values[start : start+p.width]
}

// Get the value of a given cell.
func (p *Matrix[F]) Get(row, col uint) F {
	return p.values[row*p.width+col]
}

// Set the value of a given cell.
func (p *Matrix[F]) Set(row, col uint, val F) {
	p.values[row*p.width+col] = val
}

// Column returns a copy of the given column.
func (p *Matrix[F]) Column(col uint) []F {
	var (
		height = p.Height()
		column = make([]F, height)
	)
	//
	for i := range height {
		column[i] = p.Get(i, col)
	}
	//
	return column
}

// Values returns the flat row-major array of values in this matrix.
func (p *Matrix[F]) Values() []F {
	return p.values
}

// Clone returns a deep copy of this matrix.
func (p *Matrix[F]) Clone() *Matrix[F] {
	values := make([]F, len(p.values))
	copy(values, p.values)
	//
	return &Matrix[F]{p.width, values}
}

// Equals determines whether two matrices have both the same dimensions and
// the same contents.
func (p *Matrix[F]) Equals(other *Matrix[F]) bool {
	return p.width == other.width && field.Equal(p.values, other.values)
}

// Pad this matrix with zero rows until it reaches the given height.  This
// panics if the matrix is already taller than requested.
func (p *Matrix[F]) Pad(height uint) {
	if p.Height() > height {
		panic(fmt.Sprintf("cannot pad matrix of height %d to %d", p.Height(), height))
	}
	//
	var padding = make([]F, (height-p.Height())*p.width)
	//
	p.values = append(p.values, padding...)
}
