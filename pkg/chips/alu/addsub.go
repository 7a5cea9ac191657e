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
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/air/gadgets"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// AddSubName is the name of the add / sub chip.
const AddSubName = "AddSub"

type addSubColumns struct {
	shard uint
	// Operands of the addition op1 + op2 = value.  For ADD these are b, c and
	// a, whilst for SUB they are a, c and b.
	op1   trace.Word
	op2   trace.Word
	value trace.Word
	// Carry out of each byte
	carry []uint
	isAdd uint
	isSub uint
}

// AddSub implements ADD and SUB, both of which are checked as a byte-wise
// addition with carries.
type AddSub[F field.Element[F]] struct {
	layout trace.Layout
	cols   addSubColumns
}

// NewAddSub constructs an add / sub chip.
func NewAddSub[F field.Element[F]]() *AddSub[F] {
	var p AddSub[F]
	//
	p.cols.shard = p.layout.Column("shard")
	p.cols.op1 = p.layout.Word("op1")
	p.cols.op2 = p.layout.Word("op2")
	p.cols.value = p.layout.Word("value")
	p.cols.carry = p.layout.Columns("carry", 4)
	p.cols.isAdd = p.layout.Column("is_add")
	p.cols.isSub = p.layout.Column("is_sub")
	//
	return &p
}

// Name implementation for air.MachineAir interface.
func (p *AddSub[F]) Name() string { return AddSubName }

// Width implementation for air.MachineAir interface.
func (p *AddSub[F]) Width() uint { return p.layout.Width() }

// PreprocessedWidth implementation for air.MachineAir interface.
func (p *AddSub[F]) PreprocessedWidth() uint { return 0 }

// ColumnNames returns the name of each column of the main trace.
func (p *AddSub[F]) ColumnNames() []string { return p.layout.Names() }

// GeneratePreprocessedTrace implementation for air.MachineAir interface.
func (p *AddSub[F]) GeneratePreprocessedTrace() *trace.Matrix[F] { return nil }

// Included implementation for air.MachineAir interface.
func (p *AddSub[F]) Included(r *record.Record) bool {
	return len(r.AddSubEvents) > 0
}

// GenerateDependencies range checks the result of every addition.
func (p *AddSub[F]) GenerateDependencies(input *record.Record, output *record.Record) {
	for i := range input.AddSubEvents {
		_, _, value := addSubOperands(&input.AddSubEvents[i])
		output.AddU8Range(record.WordBytes(value)...)
	}
}

// GenerateTrace implementation for air.MachineAir interface.
func (p *AddSub[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var (
		cols   = &p.cols
		height = gadgets.Height(r, AddSubName, uint(len(r.AddSubEvents)))
	)
	//
	return trace.Populate(r.AddSubEvents, p.Width(), height, 0, func(e *record.AluEvent, row []F) {
		var (
			op1, op2, value = addSubOperands(e)
			carry           uint32
		)
		//
		row[cols.shard] = field.Uint64[F](uint64(e.Shard))
		trace.SetWord(row, cols.op1, op1)
		trace.SetWord(row, cols.op2, op2)
		trace.SetWord(row, cols.value, value)
		//
		for i, col := range cols.carry {
			sum := (op1>>(8*i))&0xff + (op2>>(8*i))&0xff + carry
			carry = sum >> 8
			row[col] = field.Uint64[F](uint64(carry))
		}
		//
		row[cols.isAdd] = field.Bool[F](e.Opcode == record.ADD)
		row[cols.isSub] = field.Bool[F](e.Opcode == record.SUB)
	})
}

// Eval implementation for air.MachineAir interface.
func (p *AddSub[F]) Eval(b *air.Builder[F]) {
	var (
		cols   = &p.cols
		isAdd  = b.Local(cols.isAdd)
		isSub  = b.Local(cols.isSub)
		isReal = isAdd.Add(isSub)
		op1    = b.Word(cols.op1)
		op2    = b.Word(cols.op2)
		value  = b.Word(cols.value)
		shard  = b.Local(cols.shard)
	)
	//
	gadgets.AssertBits(b, &p.layout, cols.isAdd, cols.isSub)
	gadgets.AssertBits(b, &p.layout, cols.carry...)
	b.AssertBool("is_real:u1", isReal)
	// op1[i] + op2[i] + carry[i-1] = value[i] + 256 * carry[i]
	for i := range 4 {
		sum := op1[i].Add(op2[i])
		//
		if i > 0 {
			sum = sum.Add(b.Local(cols.carry[i-1]))
		}
		//
		overflow := value[i].Add(b.Const(256).Mul(b.Local(cols.carry[i])))
		b.AssertEq(fmt.Sprintf("add[%d]", i), sum, overflow)
	}
	//
	gadgets.SendU8Range(b, isReal, cols.value[:]...)
	gadgets.ReceiveAlu(b, gadgets.Opcode(b, record.ADD), value, op1, op2, shard, isAdd)
	gadgets.ReceiveAlu(b, gadgets.Opcode(b, record.SUB), op1, value, op2, shard, isSub)
}

// Determine the addition op1 + op2 = value checked for a given event.
func addSubOperands(e *record.AluEvent) (op1, op2, value uint32) {
	switch e.Opcode {
	case record.ADD:
		return e.B, e.C, e.A
	case record.SUB:
		return e.A, e.C, e.B
	default:
		panic(fmt.Sprintf("opcode %s is not an addition or subtraction", e.Opcode))
	}
}
