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
package alu_test

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/chips/bytes"
	"github.com/consensys/go-zkvm/pkg/chips/chiptest"
	"github.com/consensys/go-zkvm/pkg/chips/cpu"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
)

type F = bls12_377.Element

// Construct a shard holding one correctly evaluated event for each operand
// pair, using each of the given opcodes in turn.
func aluShard(pairs [][2]uint32, opcodes ...record.Opcode) *record.Record {
	var shard = record.NewRecord(1)
	//
	for i, p := range pairs {
		op := opcodes[i%len(opcodes)]
		shard.AddAluEvent(record.AluEvent{Shard: 1, Clk: uint32(4 * i), Opcode: op, B: p[0], C: p[1],
			A: executor.Evaluate(op, p[0], p[1])})
	}
	//
	return shard
}

// Generate random operand pairs, biased towards small and negative values.
func randomPairs(seed uint64, n uint) [][2]uint32 {
	var (
		rng     = rand.New(rand.NewPCG(seed, 0))
		program = executor.RandomProgram(rng, n)
		pairs   = make([][2]uint32, n)
	)
	//
	for i, insn := range program {
		pairs[i] = [2]uint32{insn.B, insn.C}
	}
	//
	return pairs
}

// Execute a program using only the given opcodes, returning its (single)
// shard.
func program(pairs [][2]uint32, opcodes ...record.Opcode) []*record.Record {
	var insns = make([]executor.Instruction, len(pairs))
	//
	for i, p := range pairs {
		insns[i] = executor.Instruction{Opcode: opcodes[i%len(opcodes)], B: p[0], C: p[1]}
	}
	//
	return executor.NewExecutor(uint(len(insns))).Execute(insns)
}

// Prove a program executed on the cpu, with a given ALU chip handling its
// operations.
func check_Program(t *testing.T, chip air.MachineAir[F], pairs [][2]uint32, opcodes ...record.Opcode) {
	chiptest.Prove[F](t, program(pairs, opcodes...), cpu.New[F](), chip, bytes.New[F]())
}

// Edge cases for 32-bit arithmetic.
var edgePairs = [][2]uint32{
	{0, 0}, {1, 0}, {0, 1}, {3, 2}, {2, 3}, {0xffffffff, 1}, {1, 0xffffffff},
	{0x80000000, 0x7fffffff}, {0x7fffffff, 0x80000000}, {0x80000000, 0x80000000},
	{0xffffffff, 0xfffffffe}, {0x00010000, 0x0000ffff}, {0x12345678, 0x12345679},
	{0xff00ff00, 0x00ff00ff}, {0x80000001, 0xffffffff},
}
