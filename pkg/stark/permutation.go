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
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// NumPermutationChallenges is the number of challenges (alpha and beta)
// required to generate a permutation trace.
const NumPermutationChallenges = 2

// ChallengeOffset returns the index of the first permutation challenge of a
// given scope, within the challenges available to constraints.  Local
// challenges come first, followed by global challenges.
func ChallengeOffset(scope lookup.Scope) uint {
	return uint(scope) * NumPermutationChallenges
}

// Fingerprint computes the LogUp fingerprint of a tuple of values for an
// interaction with the given argument index, namely
// alpha^(k+1) + Σ beta^m * values[m].
func Fingerprint[F field.Element[F]](values []F, argumentIndex uint, alpha F, betaPowers []F) F {
	return fingerprint(values, field.Pow(alpha, uint64(argumentIndex)+1), betaPowers)
}

func fingerprint[F field.Element[F]](values []F, offset F, betaPowers []F) F {
	fp := offset
	//
	for m, v := range values {
		fp = fp.Add(betaPowers[m].Mul(v))
	}
	//
	return fp
}

// RowSum computes the contribution of a single row of a permutation trace to
// its running sum, given the inverted fingerprints of that row.  Sends
// contribute positively, and receives negatively.
func RowSum[F field.Element[F]](interactions []lookup.Interaction[F], nsends uint, prep []F, main []F,
	perm []F) F {
	var sum F
	//
	for j, i := range interactions {
		term := i.Multiplicity.Apply(prep, main).Mul(perm[j])
		//
		if uint(j) < nsends {
			sum = sum.Add(term)
		} else {
			sum = sum.Sub(term)
		}
	}
	//
	return sum
}

// GeneratePermutationTrace generates the permutation trace of a chip for the
// interactions of a given scope, using the challenges (alpha, beta) of that
// scope.  The trace has one column per interaction
// (sends first, then receives) holding the inverse of its fingerprint on each
// row, followed by a running sum column.  The final value of the running sum
// (i.e. the cumulative sum) is also returned.  Fingerprinting and inversion
// are parallelised over disjoint ranges of rows, whilst the (cheap) prefix
// sum is sequential.
func GeneratePermutationTrace[F field.Element[F]](chip *Chip[F], prep *trace.Matrix[F], main *trace.Matrix[F],
	scope lookup.Scope, challenges []F, workers uint) (*trace.Matrix[F], F) {
	//
	var (
		sum                    F
		height                 = main.Height()
		sends, receives        = chip.Interactions(scope)
		interactions           = append(sends[:len(sends):len(sends)], receives...)
		nsends                 = uint(len(sends))
		slots                  = uint(len(interactions))
		width                  = slots + 1
		permutation            = trace.NewMatrix[F](width, height)
		rowSums                = make([]F, height)
		alpha, betaPowers, err = splitChallenges(challenges, interactions)
	)
	//
	if err != nil {
		panic(err.Error())
	} else if prep != nil && prep.Height() != height {
		panic(fmt.Sprintf("chip %s has preprocessed height %d but main height %d", chip.Name(), prep.Height(),
			height))
	}
	// Offsets
	offsets := make([]F, slots)
	//
	for j, interaction := range interactions {
		offsets[j] = field.Pow(alpha, uint64(interaction.ArgumentIndex())+1)
	}
	// Fingerprints
	util.ParChunks(height, workers, func(start, end uint) {
		for i := start; i < end; i++ {
			var (
				prepRow = rowOf(prep, i)
				mainRow = main.Row(i)
				permRow = permutation.Row(i)
			)
			//
			for j, interaction := range interactions {
				permRow[j] = fingerprint(interaction.Apply(prepRow, mainRow), offsets[j], betaPowers)
			}
		}
	})
	// Inversion.  The running sum column is still zero at this point, and so
	// remains so.
	field.ParBatchInvert(permutation.Values(), workers)
	// Row sums
	util.ParChunks(height, workers, func(start, end uint) {
		for i := start; i < end; i++ {
			rowSums[i] = RowSum(interactions, nsends, rowOf(prep, i), main.Row(i), permutation.Row(i))
		}
	})
	// Running sum
	for i := range height {
		sum = sum.Add(rowSums[i])
		permutation.Set(i, slots, sum)
	}
	//
	return permutation, sum
}

// PermutationConstraints constructs the constraints which a permutation trace
// generated for a given chip and scope must satisfy: the reciprocal law for
// each interaction on every row; the running sum starts with the first row's
// contribution, accumulates each subsequent row's contribution, and ends at
// the public cumulative sum.
func PermutationConstraints[F field.Element[F]](chip *Chip[F], scope lookup.Scope) []air.Constraint[F] {
	var (
		sends, receives = chip.Interactions(scope)
		interactions    = append(sends[:len(sends):len(sends)], receives...)
		nsends          = uint(len(sends))
		slots           = uint(len(interactions))
		entry           = air.PermutationEntry(scope)
		one             = &air.Constant[F]{Value: field.One[F]()}
		alpha           = &air.Challenge[F]{Index: ChallengeOffset(scope)}
		beta            = &air.Challenge[F]{Index: ChallengeOffset(scope) + 1}
		constraints     []air.Constraint[F]
	)
	//
	perm := func(col uint, shift uint) air.Expr[F] {
		return &air.ColumnAccess[F]{Entry: entry, Column: col, Shift: shift}
	}
	// Contribution of a row to the running sum.
	rowSum := func(shift uint) air.Expr[F] {
		var args []air.Expr[F]
		//
		for j, interaction := range interactions {
			term := air.FromAffine(interaction.Multiplicity, shift).Mul(perm(uint(j), shift))
			//
			if uint(j) >= nsends {
				term = (&air.Constant[F]{Value: field.Zero[F]()}).Sub(term)
			}
			//
			args = append(args, term)
		}
		//
		return &air.Add[F]{Args: args}
	}
	// Reciprocal law
	for j, interaction := range interactions {
		fp := pow(alpha, interaction.ArgumentIndex()+1)
		//
		for m, v := range interaction.Values {
			fp = fp.Add(pow(beta, uint(m)).Mul(air.FromAffine(v, 0)))
		}
		//
		constraints = append(constraints, air.Constraint[F]{
			Handle: fmt.Sprintf("%s:perm[%d]", scope, j),
			Expr:   fp.Mul(perm(uint(j), 0)).Sub(one),
		})
	}
	//
	var (
		phi     = perm(slots, 0)
		phiNext = perm(slots, 1)
		first   = &air.Selector[F]{Kind: air.IsFirstRow}
		last    = &air.Selector[F]{Kind: air.IsLastRow}
		trans   = &air.Selector[F]{Kind: air.IsTransition}
		cumsum  = &air.CumulativeSum[F]{Scope: scope}
	)
	//
	constraints = append(constraints,
		air.Constraint[F]{
			Handle: fmt.Sprintf("%s:phi-first", scope),
			Expr:   first.Mul(phi.Sub(rowSum(0))),
		},
		air.Constraint[F]{
			Handle: fmt.Sprintf("%s:phi-transition", scope),
			Expr:   trans.Mul(phiNext.Sub(phi).Sub(rowSum(1))),
		},
		air.Constraint[F]{
			Handle: fmt.Sprintf("%s:phi-last", scope),
			Expr:   last.Mul(phi.Sub(cumsum)),
		},
	)
	//
	return constraints
}

func pow[F field.Element[F]](e air.Expr[F], n uint) air.Expr[F] {
	var args = []air.Expr[F]{&air.Constant[F]{Value: field.One[F]()}}
	//
	for range n {
		args = append(args, e)
	}
	//
	return &air.Mul[F]{Args: args}
}

// Split challenges into alpha and the powers of beta required for the widest
// interaction.
func splitChallenges[F field.Element[F]](challenges []F, interactions []lookup.Interaction[F]) (F, []F, error) {
	var (
		zero  F
		width uint
	)
	//
	if len(challenges) < NumPermutationChallenges {
		return zero, nil, fmt.Errorf("permutation requires %d challenges (was %d)", NumPermutationChallenges,
			len(challenges))
	}
	//
	for _, i := range interactions {
		width = max(width, uint(len(i.Values)))
	}
	//
	return challenges[0], field.Powers(challenges[1], width), nil
}

func rowOf[F field.Element[F]](matrix *trace.Matrix[F], row uint) []F {
	if matrix == nil {
		return nil
	}
	//
	return matrix.Row(row)
}
