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
package cpu

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/air/gadgets"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Name of the cpu chip.
const Name = "Cpu"

// Column offsets of the cpu chip.
type columns struct {
	shard  uint
	clk    uint
	opcode uint
	a      trace.Word
	b      trace.Word
	c      trace.Word
	// Instruction is executed by an ALU chip
	isAlu uint
	// Instruction is a syscall
	isEcall uint
}

// Chip executes one instruction per row.  ALU instructions are dispatched to
// the ALU chips, and syscalls to the syscall chip.  All operand bytes are
// range checked against the byte table.
type Chip[F field.Element[F]] struct {
	layout trace.Layout
	cols   columns
}

// New constructs a cpu chip.
func New[F field.Element[F]]() *Chip[F] {
	var p Chip[F]
	//
	p.cols.shard = p.layout.Column("shard")
	p.cols.clk = p.layout.Column("clk")
	p.cols.opcode = p.layout.Column("opcode")
	p.cols.a = p.layout.Word("a")
	p.cols.b = p.layout.Word("b")
	p.cols.c = p.layout.Word("c")
	p.cols.isAlu = p.layout.Column("is_alu")
	p.cols.isEcall = p.layout.Column("is_ecall")
	//
	return &p
}

// Name implementation for air.MachineAir interface.
func (p *Chip[F]) Name() string { return Name }

// Width implementation for air.MachineAir interface.
func (p *Chip[F]) Width() uint { return p.layout.Width() }

// PreprocessedWidth implementation for air.MachineAir interface.
func (p *Chip[F]) PreprocessedWidth() uint { return 0 }

// ColumnNames returns the name of each column of the main trace.
func (p *Chip[F]) ColumnNames() []string { return p.layout.Names() }

// GeneratePreprocessedTrace implementation for air.MachineAir interface.
func (p *Chip[F]) GeneratePreprocessedTrace() *trace.Matrix[F] { return nil }

// Included implementation for air.MachineAir interface.
func (p *Chip[F]) Included(r *record.Record) bool {
	return len(r.CpuEvents) > 0
}

// GenerateDependencies records the byte range checks of every instruction.
func (p *Chip[F]) GenerateDependencies(input *record.Record, output *record.Record) {
	for _, e := range input.CpuEvents {
		output.AddU8Range(record.WordBytes(e.A, e.B, e.C)...)
	}
}

// GenerateTrace implementation for air.MachineAir interface.
func (p *Chip[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var (
		cols   = &p.cols
		height = gadgets.Height(r, Name, uint(len(r.CpuEvents)))
	)
	//
	return trace.Populate(r.CpuEvents, p.Width(), height, 0, func(e *record.CpuEvent, row []F) {
		row[cols.shard] = field.Uint64[F](uint64(e.Shard))
		row[cols.clk] = field.Uint64[F](uint64(e.Clk))
		row[cols.opcode] = field.Uint64[F](uint64(e.Opcode))
		trace.SetWord(row, cols.a, e.A)
		trace.SetWord(row, cols.b, e.B)
		trace.SetWord(row, cols.c, e.C)
		row[cols.isAlu] = field.Bool[F](e.Opcode.IsAlu())
		row[cols.isEcall] = field.Bool[F](e.Opcode == record.ECALL)
	})
}

// Eval implementation for air.MachineAir interface.
func (p *Chip[F]) Eval(b *air.Builder[F]) {
	var (
		cols     = &p.cols
		isAlu    = b.Local(cols.isAlu)
		isEcall  = b.Local(cols.isEcall)
		isReal   = isAlu.Add(isEcall)
		nextReal = b.Next(cols.isAlu).Add(b.Next(cols.isEcall))
		shard    = b.Local(cols.shard)
		clk      = b.Local(cols.clk)
	)
	// Flags
	gadgets.AssertBits(b, &p.layout, cols.isAlu, cols.isEcall)
	b.AssertBool("is_real:u1", isReal)
	b.When(isEcall).AssertEq("ecall", b.Local(cols.opcode), gadgets.Opcode(b, record.ECALL))
	// Clock
	b.WhenFirstRow().AssertZero("clk:first", clk)
	// Real rows form a prefix, and the clock advances by four within a shard
	next := b.WhenTransition().When(nextReal)
	next.AssertOne("is_real:prefix", isReal)
	next.AssertEq("shard:next", b.Next(cols.shard), shard)
	next.AssertEq("clk:next", b.Next(cols.clk), clk.Add(b.Const(4)))
	// Dispatch
	gadgets.SendAlu(b, b.Local(cols.opcode), b.Word(cols.a), b.Word(cols.b), b.Word(cols.c), shard, isAlu)
	gadgets.SendSyscall(b, lookup.Local, shard, clk, gadgets.WordValue(b, cols.a), gadgets.WordValue(b, cols.b),
		gadgets.WordValue(b, cols.c), isEcall)
	// Operands are bytes
	gadgets.SendU8Range(b, isReal, gadgets.WordBytes(cols.a, cols.b, cols.c)...)
}
