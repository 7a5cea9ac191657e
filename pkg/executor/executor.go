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
package executor

import (
	"fmt"
	"math/rand/v2"

	"github.com/consensys/go-zkvm/pkg/record"
	log "github.com/sirupsen/logrus"
)

// Instruction is a single step of a straight-line program.  For ALU opcodes,
// the result A is computed from B and C.  For ECALL, A identifies the syscall
// and B, C are its arguments.
type Instruction struct {
	Opcode record.Opcode
	A      uint32
	B      uint32
	C      uint32
}

// Executor runs straight-line programs, splitting their execution into shards
// of bounded size and recording the events of every shard.
type Executor struct {
	shardSize uint
}

// NewExecutor constructs an executor which places at most shardSize
// instructions in each shard.
func NewExecutor(shardSize uint) *Executor {
	if shardSize == 0 {
		panic("shard size must be positive")
	}
	//
	return &Executor{shardSize}
}

// Execute a given program, returning the records of all shards produced.
// Shards are numbered from 1.  Precompile events are collected into a
// separate final shard, which is connected to the shards that invoked them
// through global interactions.
func (p *Executor) Execute(program []Instruction) []*record.Record {
	var (
		records    []*record.Record
		precompile []record.AddMulEvent
		current    *record.Record
		clk        uint32
	)
	//
	for i, insn := range program {
		if uint(i)%p.shardSize == 0 {
			current = record.NewRecord(uint32(len(records) + 1))
			records = append(records, current)
			clk = 0
		}
		//
		event := p.step(current, insn, clk)
		// Dispatch precompiles
		if insn.Opcode == record.ECALL {
			precompile = append(precompile, record.AddMulEvent{
				Shard: event.Shard, Clk: event.Clk, Arg1: event.B, Arg2: event.C,
			})
		}
		//
		clk += 4
	}
	//
	if len(precompile) > 0 {
		shard := record.NewRecord(uint32(len(records) + 1))
		shard.AddMulEvents = precompile
		records = append(records, shard)
	}
	//
	log.Debugf("executed %d instructions in %d shards", len(program), len(records))
	//
	return records
}

func (p *Executor) step(r *record.Record, insn Instruction, clk uint32) record.CpuEvent {
	var event = record.CpuEvent{Shard: r.Shard, Clk: clk, Opcode: insn.Opcode, A: insn.A, B: insn.B, C: insn.C}
	//
	switch {
	case insn.Opcode.IsAlu():
		event.A = Evaluate(insn.Opcode, insn.B, insn.C)
		r.AddAluEvent(record.AluEvent(event))
	case insn.Opcode == record.ECALL:
		if insn.A != record.ADDMUL_SYSCALL {
			panic(fmt.Sprintf("unknown syscall 0x%x", insn.A))
		}
		//
		r.SyscallEvents = append(r.SyscallEvents, record.SyscallEvent{
			Shard: r.Shard, Clk: clk, SyscallID: insn.A, Arg1: insn.B, Arg2: insn.C,
		})
	default:
		panic(fmt.Sprintf("unknown opcode %s", insn.Opcode))
	}
	//
	r.CpuEvents = append(r.CpuEvents, event)
	//
	return event
}

// Evaluate computes the result of an ALU opcode.
func Evaluate(op record.Opcode, b, c uint32) uint32 {
	switch op {
	case record.ADD:
		return b + c
	case record.SUB:
		return b - c
	case record.SLT:
		return bool2u32(int32(b) < int32(c))
	case record.SLTU:
		return bool2u32(b < c)
	case record.AND:
		return b & c
	case record.OR:
		return b | c
	case record.XOR:
		return b ^ c
	default:
		panic(fmt.Sprintf("opcode %s is not an ALU operation", op))
	}
}

// RandomProgram generates a random straight-line program of n instructions,
// including occasional precompile invocations.
func RandomProgram(rng *rand.Rand, n uint) []Instruction {
	var (
		program = make([]Instruction, n)
		opcodes = record.Opcodes()
	)
	//
	for i := range program {
		op := opcodes[rng.IntN(len(opcodes))]
		program[i] = Instruction{Opcode: op, B: randomOperand(rng), C: randomOperand(rng)}
		//
		if op == record.ECALL {
			program[i].A = record.ADDMUL_SYSCALL
		}
	}
	//
	return program
}

// Bias operands towards edge cases, such as equal or sign-bit values.
func randomOperand(rng *rand.Rand) uint32 {
	switch rng.IntN(4) {
	case 0:
		return uint32(rng.IntN(4))
	case 1:
		return 0x80000000 | uint32(rng.IntN(4))
	default:
		return rng.Uint32()
	}
}

func bool2u32(b bool) uint32 {
	if b {
		return 1
	}
	//
	return 0
}
