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
package lookup

import (
	"fmt"
	"strings"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Column identifies a column of either the main or the preprocessed trace of a
// chip, always on the current row.
type Column struct {
	Preprocessed bool
	Index        uint
}

// Main constructs a reference to a main trace column.
func Main(index uint) Column {
	return Column{false, index}
}

// Preprocessed constructs a reference to a preprocessed trace column.
func Preprocessed(index uint) Column {
	return Column{true, index}
}

func (c Column) String() string {
	if c.Preprocessed {
		return fmt.Sprintf("prep[%d]", c.Index)
	}
	//
	return fmt.Sprintf("main[%d]", c.Index)
}

// Term is a single weighted column within an affine combination.
type Term[F field.Element[F]] struct {
	Column Column
	Weight F
}

// Affine is a "virtual column" obtained as a constant plus a weighted sum of
// columns from the current row.  Interaction values and multiplicities are
// always affine, which keeps the degree of the permutation constraints
// bounded.
type Affine[F field.Element[F]] struct {
	Terms    []Term[F]
	Constant F
}

// Constant constructs an affine combination with no columns.
func Constant[F field.Element[F]](val F) Affine[F] {
	return Affine[F]{nil, val}
}

// Single constructs an affine combination holding exactly one column.
func Single[F field.Element[F]](col Column) Affine[F] {
	return Affine[F]{[]Term[F]{{col, field.One[F]()}}, field.Zero[F]()}
}

// Apply evaluates this combination against a given row of the preprocessed
// and main traces.
func (p Affine[F]) Apply(prep []F, main []F) F {
	result := p.Constant
	//
	for _, term := range p.Terms {
		var val F
		//
		if term.Column.Preprocessed {
			val = prep[term.Column.Index]
		} else {
			val = main[term.Column.Index]
		}
		//
		result = result.Add(term.Weight.Mul(val))
	}
	//
	return result
}

func (p Affine[F]) String() string {
	var builder strings.Builder
	//
	builder.WriteString(field.Signed(p.Constant))
	//
	for _, term := range p.Terms {
		builder.WriteString(fmt.Sprintf(" + %s*%s", field.Signed(term.Weight), term.Column.String()))
	}
	//
	return builder.String()
}
