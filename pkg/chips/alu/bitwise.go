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
package alu

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/air/gadgets"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// BitwiseName is the name of the bitwise chip.
const BitwiseName = "Bitwise"

type bitwiseColumns struct {
	shard uint
	a     trace.Word
	b     trace.Word
	c     trace.Word
	isXor uint
	isOr  uint
	isAnd uint
}

// Bitwise implements AND, OR and XOR by looking up each byte of the result in
// the byte table.
type Bitwise[F field.Element[F]] struct {
	layout trace.Layout
	cols   bitwiseColumns
}

// NewBitwise constructs a bitwise chip.
func NewBitwise[F field.Element[F]]() *Bitwise[F] {
	var p Bitwise[F]
	//
	p.cols.shard = p.layout.Column("shard")
	p.cols.a = p.layout.Word("a")
	p.cols.b = p.layout.Word("b")
	p.cols.c = p.layout.Word("c")
	p.cols.isXor = p.layout.Column("is_xor")
	p.cols.isOr = p.layout.Column("is_or")
	p.cols.isAnd = p.layout.Column("is_and")
	//
	return &p
}

// Name implementation for air.MachineAir interface.
func (p *Bitwise[F]) Name() string { return BitwiseName }

// Width implementation for air.MachineAir interface.
func (p *Bitwise[F]) Width() uint { return p.layout.Width() }

// PreprocessedWidth implementation for air.MachineAir interface.
func (p *Bitwise[F]) PreprocessedWidth() uint { return 0 }

// ColumnNames returns the name of each column of the main trace.
func (p *Bitwise[F]) ColumnNames() []string { return p.layout.Names() }

// GeneratePreprocessedTrace implementation for air.MachineAir interface.
func (p *Bitwise[F]) GeneratePreprocessedTrace() *trace.Matrix[F] { return nil }

// Included implementation for air.MachineAir interface.
func (p *Bitwise[F]) Included(r *record.Record) bool {
	return len(r.BitwiseEvents) > 0
}

// GenerateDependencies records one byte lookup per byte of every operation.
func (p *Bitwise[F]) GenerateDependencies(input *record.Record, output *record.Record) {
	for _, e := range input.BitwiseEvents {
		var (
			op = record.ByteOpcodeFor(e.Opcode)
			b  = record.WordBytes(e.B)
			c  = record.WordBytes(e.C)
		)
		//
		for i := range 4 {
			output.AddByteLookup(record.NewByteLookup(op, b[i], c[i]))
		}
	}
}

// GenerateTrace implementation for air.MachineAir interface.
func (p *Bitwise[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var (
		cols   = &p.cols
		height = gadgets.Height(r, BitwiseName, uint(len(r.BitwiseEvents)))
	)
	//
	return trace.Populate(r.BitwiseEvents, p.Width(), height, 0, func(e *record.AluEvent, row []F) {
		row[cols.shard] = field.Uint64[F](uint64(e.Shard))
		trace.SetWord(row, cols.a, e.A)
		trace.SetWord(row, cols.b, e.B)
		trace.SetWord(row, cols.c, e.C)
		row[cols.isXor] = field.Bool[F](e.Opcode == record.XOR)
		row[cols.isOr] = field.Bool[F](e.Opcode == record.OR)
		row[cols.isAnd] = field.Bool[F](e.Opcode == record.AND)
	})
}

// Eval implementation for air.MachineAir interface.
func (p *Bitwise[F]) Eval(b *air.Builder[F]) {
	var (
		cols   = &p.cols
		isXor  = b.Local(cols.isXor)
		isOr   = b.Local(cols.isOr)
		isAnd  = b.Local(cols.isAnd)
		isReal = gadgets.Sum(b, cols.isXor, cols.isOr, cols.isAnd)
		a      = b.Word(cols.a)
		bw     = b.Word(cols.b)
		cw     = b.Word(cols.c)
	)
	//
	gadgets.AssertBits(b, &p.layout, cols.isXor, cols.isOr, cols.isAnd)
	b.AssertBool("is_real:u1", isReal)
	//
	opcode := select3(isXor, isOr, isAnd, gadgets.Opcode(b, record.XOR), gadgets.Opcode(b, record.OR),
		gadgets.Opcode(b, record.AND))
	byteOpcode := select3(isXor, isOr, isAnd, gadgets.ByteOpcode(b, record.ByteXOR),
		gadgets.ByteOpcode(b, record.ByteOR), gadgets.ByteOpcode(b, record.ByteAND))
	//
	for i := range 4 {
		gadgets.SendByte(b, byteOpcode, a[i], bw[i], cw[i], isReal)
	}
	//
	gadgets.ReceiveAlu(b, opcode, a, bw, cw, b.Local(cols.shard), isReal)
}

// Select one of three constants according to a one-hot flag.
func select3[F field.Element[F]](f1, f2, f3 air.Expr[F], v1, v2, v3 air.Expr[F]) air.Expr[F] {
	return f1.Mul(v1).Add(f2.Mul(v2)).Add(f3.Mul(v3))
}
