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
package executor_test

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Evaluate_00(t *testing.T) {
	check_Evaluate(t, record.ADD, 0xffffffff, 1, 0)
	check_Evaluate(t, record.SUB, 0, 1, 0xffffffff)
	check_Evaluate(t, record.SLT, 3, 2, 0)
	check_Evaluate(t, record.SLT, 2, 3, 1)
	check_Evaluate(t, record.SLT, 0xffffffff, 0, 1)
	check_Evaluate(t, record.SLTU, 0xffffffff, 0, 0)
	check_Evaluate(t, record.AND, 0xff00ff00, 0x0ff00ff0, 0x0f000f00)
	check_Evaluate(t, record.OR, 0xff00ff00, 0x0ff00ff0, 0xfff0fff0)
	check_Evaluate(t, record.XOR, 0xff00ff00, 0x0ff00ff0, 0xf0f0f0f0)
}

func Test_Evaluate_01(t *testing.T) {
	assert.Panics(t, func() { executor.Evaluate(record.ECALL, 0, 0) })
}

func Test_Execute_00(t *testing.T) {
	program := []executor.Instruction{
		{Opcode: record.ADD, B: 1, C: 2},
		{Opcode: record.SLT, B: 2, C: 3},
		{Opcode: record.XOR, B: 5, C: 3},
	}
	//
	records := executor.NewExecutor(2).Execute(program)
	//
	require.Len(t, records, 2)
	assert.Equal(t, uint32(1), records[0].Shard)
	assert.Equal(t, uint32(2), records[1].Shard)
	assert.Len(t, records[0].CpuEvents, 2)
	assert.Len(t, records[1].CpuEvents, 1)
	// Clock restarts per shard
	assert.Equal(t, uint32(4), records[0].CpuEvents[1].Clk)
	assert.Equal(t, uint32(0), records[1].CpuEvents[0].Clk)
	assert.Equal(t, uint32(3), records[0].AddSubEvents[0].A)
	assert.Equal(t, uint32(1), records[0].LtEvents[0].A)
	assert.Equal(t, uint32(6), records[1].BitwiseEvents[0].A)
}

func Test_Execute_01(t *testing.T) {
	program := []executor.Instruction{
		{Opcode: record.ECALL, A: record.ADDMUL_SYSCALL, B: 2 | 3<<16, C: 4 | 5<<16},
	}
	//
	records := executor.NewExecutor(16).Execute(program)
	// Core shard, then precompile shard
	require.Len(t, records, 2)
	require.Len(t, records[0].SyscallEvents, 1)
	require.Len(t, records[1].AddMulEvents, 1)
	assert.Equal(t, uint32(1), records[1].AddMulEvents[0].Shard)
	assert.Equal(t, uint64(26), records[1].AddMulEvents[0].Result())
}

func Test_Execute_02(t *testing.T) {
	program := []executor.Instruction{{Opcode: record.ECALL, A: 0x999}}
	//
	assert.Panics(t, func() { executor.NewExecutor(16).Execute(program) })
}

func Test_RandomProgram_00(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	program := executor.RandomProgram(rng, 100)
	//
	assert.Len(t, program, 100)
	// Must always execute
	records := executor.NewExecutor(32).Execute(program)
	assert.NotEmpty(t, records)
}

func check_Evaluate(t *testing.T, op record.Opcode, b, c, expected uint32) {
	assert.Equal(t, expected, executor.Evaluate(op, b, c), "%s(%d,%d)", op, b, c)
}
