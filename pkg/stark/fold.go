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
package stark

import (
	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// FoldConstraints evaluates every constraint of a chip on every row of its
// traces, combining them into a single value per row as Σ gamma^k * C_k.  For
// satisfying traces every folded value is zero, whilst for a random gamma a
// violated constraint yields a non-zero value with overwhelming probability.
// Rows are folded in parallel.
func FoldConstraints[F field.Element[F]](chip *Chip[F], traces *ChipTraces[F], challenges []F, gamma F,
	workers uint) []F {
	//
	var (
		constraints = chip.AllConstraints()
		powers      = field.Powers(gamma, uint(len(constraints)))
	)
	//
	checkHeights(chip, traces)
	checkChallenges(challenges)
	//
	return util.ParMap(traces.Main.Height(), workers, func(row uint) F {
		var (
			acc    F
			window = traces.Window(challenges)
		)
		//
		window.Row = row
		//
		for k, c := range constraints {
			acc = acc.Add(powers[k].Mul(c.Expr.Eval(window)))
		}
		//
		return acc
	})
}

// FirstNonZero returns the index of the first non-zero value, or false if
// there is none.
func FirstNonZero[F field.Element[F]](values []F) (uint, bool) {
	for i, v := range values {
		if !v.IsZero() {
			return uint(i), true
		}
	}
	//
	return 0, false
}
