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
package stark_test

import (
	"errors"
	"testing"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================================================================
// Chip compilation
// ===================================================================

func Test_Chip_00(t *testing.T) {
	chip := stark.NewChip[F](newSender("S", lookup.Local, nil), stark.MaxConstraintDegree)
	//
	assert.Equal(t, "S", chip.Name())
	assert.Len(t, chip.Sends(), 1)
	assert.Empty(t, chip.Receives())
	assert.Equal(t, uint(1), chip.NumInteractions(lookup.Local))
	assert.Equal(t, uint(0), chip.NumInteractions(lookup.Global))
	assert.Equal(t, uint(2), chip.PermutationWidth(lookup.Local))
	assert.Equal(t, uint(1), chip.PermutationWidth(lookup.Global))
	// Transition constraint has degree three
	assert.Equal(t, uint(3), chip.Degree())
}

func Test_Chip_01(t *testing.T) {
	assert.Panics(t, func() {
		stark.NewChip[F](&badDegreeChip{}, stark.MaxConstraintDegree)
	})
}

func Test_Chip_02(t *testing.T) {
	assert.Panics(t, func() {
		stark.NewChip[F](&nonAffineChip{}, stark.MaxConstraintDegree)
	})
}

func Test_Machine_00(t *testing.T) {
	assert.Panics(t, func() {
		stark.NewMachine[F](stark.MaxConstraintDegree, newSender("S", lookup.Local, nil),
			newReceiver("S", lookup.Local, nil))
	})
}

func Test_Machine_01(t *testing.T) {
	m := stark.NewMachine[F](stark.MaxConstraintDegree, newSender("S", lookup.Local, nil),
		&tableChip{4, nil})
	//
	require.Len(t, m.Chips(), 2)
	assert.Equal(t, "Table", m.Chips()[1].Name())
	assert.NotNil(t, m.Chip("S"))
	assert.Nil(t, m.Chip("T"))
	//
	preps := m.PreprocessedTraces()
	assert.Nil(t, preps[0])
	assert.Equal(t, uint(4), preps[1].Height())
}

// ===================================================================
// Permutation traces
// ===================================================================

func Test_Fingerprint_00(t *testing.T) {
	var (
		alpha  = bls12_377.New(3)
		beta   = bls12_377.New(5)
		values = []F{bls12_377.New(7), bls12_377.New(11)}
	)
	// 3^(4+1) + 7 + 5*11
	fp := stark.Fingerprint(values, uint(lookup.Alu), alpha, field.Powers(beta, 2))
	//
	assert.True(t, fp.Equals(bls12_377.New(243+7+55)))
}

func Test_Permutation_00(t *testing.T) {
	check_PermutationLaws(t, []testRow{{5, 1}})
}

func Test_Permutation_01(t *testing.T) {
	check_PermutationLaws(t, []testRow{{5, 1}, {7, 2}, {9, 0}})
}

func Test_Permutation_02(t *testing.T) {
	rows := make([]testRow, 100)
	//
	for i := range rows {
		rows[i] = testRow{uint64(i * i), uint64(i % 3)}
	}
	//
	check_PermutationLaws(t, rows)
}

func Test_Permutation_03(t *testing.T) {
	// Scenario C: send {5 x1, 7 x2}, receive {7 x2, 5 x1}
	check_Balance(t, []testRow{{5, 1}, {7, 2}}, []testRow{{7, 2}, {5, 1}}, true)
}

func Test_Permutation_04(t *testing.T) {
	// Same multiset, different row arrangement
	check_Balance(t, []testRow{{5, 1}, {7, 1}, {7, 1}}, []testRow{{7, 2}, {5, 1}}, true)
}

func Test_Permutation_05(t *testing.T) {
	// Mutated value
	check_Balance(t, []testRow{{5, 1}, {7, 2}}, []testRow{{7, 2}, {6, 1}}, false)
}

func Test_Permutation_06(t *testing.T) {
	// Mutated multiplicity
	check_Balance(t, []testRow{{5, 1}, {7, 2}}, []testRow{{7, 1}, {5, 1}}, false)
}

func Test_Permutation_07(t *testing.T) {
	chip := stark.NewChip[F](newSender("S", lookup.Local, nil), stark.MaxConstraintDegree)
	main := chip.GenerateTrace(shard(1))
	// Too few challenges
	assert.Panics(t, func() {
		stark.GeneratePermutationTrace(chip, nil, main, lookup.Local, []F{bls12_377.New(1)}, 0)
	})
}

func Test_Permutation_08(t *testing.T) {
	var (
		chip = stark.NewChip[F](&tableChip{4, nil}, stark.MaxConstraintDegree)
		prep = chip.GeneratePreprocessedTrace()
		main = chip.GenerateTrace(shard(1))
	)
	// Height mismatch
	main.Pad(8)
	//
	assert.Panics(t, func() {
		stark.GeneratePermutationTrace(chip, prep, main, lookup.Local, randomChallenges(1), 0)
	})
}

func Test_Permutation_09(t *testing.T) {
	// Deterministic regardless of the number of workers
	rows := make([]testRow, 333)
	//
	for i := range rows {
		rows[i] = testRow{uint64(i), uint64(i % 5)}
	}
	//
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: rows}), 3)
		main       = chip.GenerateTrace(shard(1))
		challenges = randomChallenges(2)
	)
	//
	perm1, sum1 := stark.GeneratePermutationTrace(chip, nil, main, lookup.Local, challenges[:2], 1)
	perm8, sum8 := stark.GeneratePermutationTrace(chip, nil, main, lookup.Local, challenges[:2], 8)
	//
	assert.True(t, perm1.Equals(perm8))
	assert.True(t, sum1.Equals(sum8))
}

func Test_Permutation_10(t *testing.T) {
	// Table chip receives values through its preprocessed column
	var (
		sends = map[uint32][]testRow{1: {{0, 1}, {2, 3}}}
		table = &tableChip{4, map[uint64]uint64{0: 1, 2: 3}}
	)
	//
	check_Chips(t, true, stark.NewChip[F](newSender("S", lookup.Local, sends), 3),
		stark.NewChip[F](table, 3))
}

func Test_Permutation_11(t *testing.T) {
	// Fingerprints read the preprocessed column, and are inverted on every
	// row whatever its multiplicity.
	var (
		chip       = stark.NewChip[F](&tableChip{4, map[uint64]uint64{1: 2, 3: 5}}, 3)
		prep       = chip.GeneratePreprocessedTrace()
		main       = chip.GenerateTrace(shard(1))
		challenges = randomChallenges(11)
		alpha      = challenges[0]
		betas      = field.Powers(challenges[1], 1)
		expected   F
	)
	//
	perm, sum := stark.GeneratePermutationTrace(chip, prep, main, lookup.Local, challenges[:2], 0)
	//
	for i := range main.Height() {
		fp := stark.Fingerprint(prep.Row(i), uint(lookup.Byte), alpha, betas)
		assert.True(t, fp.Mul(perm.Get(i, 0)).IsOne(), "row %d", i)
		// Receives subtract
		expected = expected.Sub(main.Get(i, 0).Mul(perm.Get(i, 0)))
	}
	//
	assert.True(t, expected.Equals(sum))
}

// ===================================================================
// Debug Checker
// ===================================================================

func Test_Debug_00(t *testing.T) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}, {8, 1}}}), 3)
		challenges = randomChallenges(3)
		traces     = generateTraces(chip, shard(1), challenges, 0)
	)
	//
	require.NoError(t, stark.DebugConstraints(chip, traces, challenges))
	// Break reciprocal law on first row
	traces.Permutation[lookup.Local].Set(0, 0, bls12_377.New(1))
	//
	check_Failure(t, stark.DebugConstraints(chip, traces, challenges), "S", "Local:perm[0]", 0)
}

func Test_Debug_01(t *testing.T) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}, {8, 1}}}), 3)
		challenges = randomChallenges(4)
		traces     = generateTraces(chip, shard(1), challenges, 0)
		phi        = traces.Permutation[lookup.Local]
	)
	// Break running sum on row 2
	phi.Set(2, 1, phi.Get(2, 1).Add(bls12_377.New(1)))
	//
	check_Failure(t, stark.DebugConstraints(chip, traces, challenges), "S", "Local:phi-transition", 1)
}

func Test_Debug_02(t *testing.T) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}}}), 3)
		challenges = randomChallenges(5)
		traces     = generateTraces(chip, shard(1), challenges, 0)
	)
	// Break the public cumulative sum
	traces.Sums[lookup.Local] = traces.Sums[lookup.Local].Add(bls12_377.New(1))
	//
	check_Failure(t, stark.DebugConstraints(chip, traces, challenges), "S", "Local:phi-last", 1)
}

func Test_Debug_03(t *testing.T) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}}}), 3)
		challenges = randomChallenges(6)
		traces     = generateTraces(chip, shard(1), challenges, 0)
		phi        = traces.Permutation[lookup.Local]
	)
	// Offset every running sum value, which only the first row detects
	for i := range phi.Height() {
		phi.Set(i, 1, phi.Get(i, 1).Add(bls12_377.New(1)))
	}
	//
	traces.Sums[lookup.Local] = phi.Get(1, 1)
	//
	check_Failure(t, stark.DebugConstraints(chip, traces, challenges), "S", "Local:phi-first", 0)
}

func Test_Debug_04(t *testing.T) {
	rows := map[uint32][]testRow{1: {{1, 0}, {0, 1}, {1, 0}, {0, 1}}}
	check_BooleanChip(t, rows, "")
}

func Test_Debug_05(t *testing.T) {
	rows := map[uint32][]testRow{1: {{1, 0}, {2, 1}, {1, 0}, {0, 1}}}
	check_BooleanChip(t, rows, "bool")
}

func Test_Debug_06(t *testing.T) {
	// Transition does not wrap from last row to first
	rows := map[uint32][]testRow{1: {{1, 1}, {0, 1}, {1, 0}, {0, 1}}}
	check_BooleanChip(t, rows, "")
}

func Test_Debug_07(t *testing.T) {
	rows := map[uint32][]testRow{1: {{1, 0}, {0, 0}, {1, 0}, {0, 1}}}
	check_BooleanChip(t, rows, "follow")
}

func Test_Debug_08(t *testing.T) {
	assert.NoError(t, stark.DebugCumulativeSums[F]())
	assert.NoError(t, stark.DebugCumulativeSums(bls12_377.New(1), bls12_377.New(1).Neg()))
	assert.Error(t, stark.DebugCumulativeSums(bls12_377.New(1)))
}

func Test_Debug_09(t *testing.T) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}}}), 3)
		challenges = randomChallenges(7)
		traces     = generateTraces(chip, shard(1), challenges, 0)
	)
	// Shape mismatch
	traces.Permutation[lookup.Global] = nil
	//
	assert.Panics(t, func() { _ = stark.DebugConstraints(chip, traces, challenges) })
	// Too few challenges
	assert.Panics(t, func() { _ = stark.DebugConstraints(chip, generateTraces(chip, shard(1), challenges, 0), challenges[:2]) })
}

func Test_DebugInteractions_00(t *testing.T) {
	m := stark.NewMachine[F](3,
		newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}}}),
		newReceiver("R", lookup.Local, map[uint32][]testRow{1: {{7, 2}, {5, 1}}}))
	//
	balance := stark.DebugInteractions(m, []*record.Record{shard(1)}, lookup.Local)
	assert.True(t, balance.IsBalanced())
}

func Test_DebugInteractions_01(t *testing.T) {
	m := stark.NewMachine[F](3,
		newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}}}),
		newReceiver("R", lookup.Local, map[uint32][]testRow{1: {{7, 2}, {5, 2}}}))
	//
	balance := stark.DebugInteractions(m, []*record.Record{shard(1)}, lookup.Local)
	//
	require.False(t, balance.IsBalanced())
	d := balance.Discrepancies()
	require.Len(t, d, 1)
	assert.Equal(t, lookup.Key(lookup.Local, lookup.Byte, []F{bls12_377.New(5)}), d[0].Key)
	assert.Equal(t, "-1", field.Signed(d[0].Total))
}

func Test_DebugInteractions_02(t *testing.T) {
	m := stark.NewMachine[F](3, newSender("S", lookup.Local, nil))
	// Local interactions are per shard
	assert.Panics(t, func() { stark.DebugInteractions(m, []*record.Record{shard(1), shard(2)}, lookup.Local) })
}

// ===================================================================
// Folding
// ===================================================================

func Test_Fold_00(t *testing.T) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: {{5, 1}, {7, 2}, {9, 3}}}), 3)
		challenges = randomChallenges(8)
		traces     = generateTraces(chip, shard(1), challenges, 0)
		gamma      = bls12_377.New(12345)
	)
	//
	folded := stark.FoldConstraints(chip, traces, challenges, gamma, 0)
	require.Len(t, folded, 4)
	_, nonzero := stark.FirstNonZero(folded)
	assert.False(t, nonzero)
	// Tamper
	traces.Permutation[lookup.Local].Set(2, 0, bls12_377.New(3))
	folded = stark.FoldConstraints(chip, traces, challenges, gamma, 0)
	row, nonzero := stark.FirstNonZero(folded)
	assert.True(t, nonzero)
	assert.Equal(t, uint(1), row)
}

// ===================================================================
// Helpers
// ===================================================================

func check_PermutationLaws(t *testing.T, rows []testRow) {
	var (
		chip       = stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: rows}), 3)
		main       = chip.GenerateTrace(shard(1))
		challenges = randomChallenges(uint64(len(rows)))
		alpha      = challenges[0]
		betas      = field.Powers(challenges[1], 1)
	)
	//
	perm, sum := stark.GeneratePermutationTrace(chip, nil, main, lookup.Local, challenges[:2], 0)
	//
	require.Equal(t, main.Height(), perm.Height())
	require.Equal(t, uint(2), perm.Width())
	//
	var running F
	//
	for i := range main.Height() {
		fp := stark.Fingerprint(main.Row(i)[:1], uint(lookup.Byte), alpha, betas)
		// Reciprocal law
		assert.True(t, fp.Mul(perm.Get(i, 0)).IsOne(), "row %d", i)
		// Running sum law
		running = running.Add(main.Get(i, 1).Mul(perm.Get(i, 0)))
		assert.True(t, running.Equals(perm.Get(i, 1)), "row %d", i)
	}
	//
	assert.True(t, running.Equals(sum))
	// Constraints agree
	traces := &stark.ChipTraces[F]{Main: main}
	traces.Permutation[lookup.Local], traces.Sums[lookup.Local] = perm, sum
	traces.Permutation[lookup.Global], traces.Sums[lookup.Global] = stark.GeneratePermutationTrace(chip, nil, main,
		lookup.Global, challenges[2:], 0)
	//
	assert.NoError(t, stark.DebugConstraints(chip, traces, challenges))
}

func check_Balance(t *testing.T, sends []testRow, receives []testRow, balanced bool) {
	check_Chips(t, balanced,
		stark.NewChip[F](newSender("S", lookup.Local, map[uint32][]testRow{1: sends}), 3),
		stark.NewChip[F](newReceiver("R", lookup.Local, map[uint32][]testRow{1: receives}), 3))
}

func check_Chips(t *testing.T, balanced bool, chips ...*stark.Chip[F]) {
	var (
		challenges = randomChallenges(9)
		sums       []F
	)
	//
	for _, chip := range chips {
		traces := generateTraces(chip, shard(1), challenges, 0)
		// Honest traces always satisfy their constraints
		require.NoError(t, stark.DebugConstraints(chip, traces, challenges))
		//
		sums = append(sums, traces.Sums[lookup.Local])
	}
	//
	err := stark.DebugCumulativeSums(sums...)
	//
	if balanced {
		assert.NoError(t, err)
	} else {
		assert.Error(t, err)
	}
}

func check_BooleanChip(t *testing.T, rows map[uint32][]testRow, handle string) {
	var (
		chip       = stark.NewChip[F](&booleanChip{*newSender("B", lookup.Local, rows)}, 3)
		challenges = randomChallenges(10)
		traces     = generateTraces(chip, shard(1), challenges, 0)
		err        = stark.DebugConstraints(chip, traces, challenges)
	)
	//
	if handle == "" {
		assert.NoError(t, err)
	} else {
		var failure *stark.Failure
		//
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, handle, failure.Handle)
	}
}

func check_Failure(t *testing.T, err error, chip string, handle string, row uint) {
	var failure *stark.Failure
	//
	require.Error(t, err)
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, chip, failure.Chip)
	assert.Equal(t, handle, failure.Handle)
	assert.Equal(t, row, failure.Row)
	assert.Contains(t, failure.Message(), handle)
}

var _ air.MachineAir[F] = &testChip{}
