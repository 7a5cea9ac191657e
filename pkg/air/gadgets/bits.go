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
package gadgets

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// WordValue composes the bytes of a word into the 32-bit value they represent,
// namely Σ 256^i * word[i].  This is affine and, hence, can be used within
// interactions.
func WordValue[F field.Element[F]](b *air.Builder[F], word trace.Word) air.Expr[F] {
	var (
		args  = make([]air.Expr[F], 4)
		coeff = uint64(1)
	)
	//
	for i, col := range word {
		args[i] = b.Const(coeff).Mul(b.Local(col))
		coeff *= 256
	}
	//
	return &air.Add[F]{Args: args}
}

// AssertBits constrains every given column to be boolean, naming each
// constraint after its column.
func AssertBits[F field.Element[F]](b *air.Builder[F], layout *trace.Layout, cols ...uint) {
	for _, col := range cols {
		b.AssertBool(fmt.Sprintf("%s:u1", layout.Name(col)), b.Local(col))
	}
}

// Sum returns the sum of the given columns on the current row.
func Sum[F field.Element[F]](b *air.Builder[F], cols ...uint) air.Expr[F] {
	var args = make([]air.Expr[F], len(cols))
	//
	for i, col := range cols {
		args[i] = b.Local(col)
	}
	//
	return &air.Add[F]{Args: args}
}
