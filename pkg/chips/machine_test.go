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
package chips_test

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/chips"
	"github.com/consensys/go-zkvm/pkg/chips/chiptest"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/util/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func Test_DefaultMachine_00(t *testing.T) {
	var (
		machine = chips.DefaultMachine[F](stark.MaxConstraintDegree)
		names   []string
	)
	//
	for _, chip := range machine.Chips() {
		names = append(names, chip.Name())
		assert.LessOrEqual(t, chip.Degree(), stark.MaxConstraintDegree, chip.Name())
		assert.Len(t, chips.ColumnNames(chip), int(chip.Width()), chip.Name())
	}
	//
	assert.Equal(t, []string{"Cpu", "AddSub", "Lt", "Bitwise", "Syscall", "AddMul", "Byte"}, names)
}

func Test_DefaultMachine_01(t *testing.T) {
	var (
		machine   = chips.DefaultMachine[F](stark.MaxConstraintDegree)
		preps     = machine.PreprocessedTraces()
		byteIndex = len(preps) - 1
	)
	// Only the byte table is preprocessed
	for i, prep := range preps {
		assert.Equal(t, i == byteIndex, prep != nil, machine.Chips()[i].Name())
	}
}

func Test_DefaultMachine_02(t *testing.T) {
	check_Random[F](t, 0, 16, 8)
}

func Test_DefaultMachine_03(t *testing.T) {
	check_Random[bn254.Element](t, 1, 12, 12)
}

func Test_DefaultMachine_04(t *testing.T) {
	var (
		shards = executor.NewExecutor(8).Execute(addMulProgram())
		proof  = chiptest.Prove(t, shards, chips.Airs[F]()...)
	)
	// One core shard, one precompile shard.  Neither balances globally on its
	// own.
	require.Len(t, proof.Shards, 2)
	//
	core, precompile := proof.Shards[0].Sum(lookup.Global), proof.Shards[1].Sum(lookup.Global)
	assert.False(t, core.IsZero())
	assert.True(t, core.Add(precompile).IsZero())
}

func Test_DefaultMachine_05(t *testing.T) {
	// Precompile shard missing
	shards := executor.NewExecutor(8).Execute(addMulProgram())
	//
	err := chiptest.ProveFails(t, shards[:1], chips.Airs[F]()...)
	assert.ErrorContains(t, err, "global")
}

func Test_DefaultMachine_06(t *testing.T) {
	// Precompile invoked with the wrong arguments
	shards := executor.NewExecutor(8).Execute(addMulProgram())
	shards[1].AddMulEvents[1].Arg2++
	//
	chiptest.ProveFails(t, shards, chips.Airs[F]()...)
}

func Test_DefaultMachine_07(t *testing.T) {
	// Instruction routed to the wrong shard
	shards := executor.NewExecutor(4).Execute(aluProgram())
	require.Len(t, shards, 2)
	//
	event := shards[0].AddSubEvents[0]
	shards[0].AddSubEvents = shards[0].AddSubEvents[1:]
	shards[1].AddSubEvents = append(shards[1].AddSubEvents, event)
	//
	err := chiptest.ProveFails(t, shards, chips.Airs[F]()...)
	assert.ErrorContains(t, err, "local")
}

func Test_DefaultMachine_08(t *testing.T) {
	// Fixed shapes
	shards := executor.NewExecutor(4).Execute(aluProgram())
	//
	for _, shard := range shards {
		shard.Shape["Cpu"] = 3
		shard.Shape["AddSub"] = 2
	}
	//
	proof := chiptest.Prove(t, shards, chips.Airs[F]()...)
	//
	for _, shard := range proof.Shards {
		for _, c := range shard.Chips {
			switch c.Chip {
			case "Cpu":
				assert.Equal(t, uint(8), c.Height)
			case "AddSub":
				assert.Equal(t, uint(4), c.Height)
			}
		}
	}
}

// Prove a random program, split into shards of a given size.
func check_Random[F field.Element[F]](t *testing.T, seed uint64, n uint, shardSize uint) {
	var (
		rng    = rand.New(rand.NewPCG(seed, 0))
		shards = executor.NewExecutor(shardSize).Execute(executor.RandomProgram(rng, n))
	)
	//
	chiptest.Prove(t, shards, chips.Airs[F]()...)
}

func addMulProgram() []executor.Instruction {
	return []executor.Instruction{
		{Opcode: record.ADD, B: 1, C: 2},
		{Opcode: record.ECALL, A: record.ADDMUL_SYSCALL, B: 0x00020003, C: 0x00040005},
		{Opcode: record.SLT, B: 0x80000000, C: 1},
		{Opcode: record.ECALL, A: record.ADDMUL_SYSCALL, B: 0xffffffff, C: 0x00010001},
		{Opcode: record.XOR, B: 0xf0f0f0f0, C: 0x0f0f0f0f},
	}
}

func aluProgram() []executor.Instruction {
	return []executor.Instruction{
		{Opcode: record.ADD, B: 1, C: 2},
		{Opcode: record.SUB, B: 1, C: 2},
		{Opcode: record.SLTU, B: 1, C: 2},
		{Opcode: record.AND, B: 1, C: 2},
		{Opcode: record.ADD, B: 3, C: 4},
		{Opcode: record.OR, B: 5, C: 6},
	}
}
