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
package precompile

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/air/gadgets"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// AddMulName is the name of the add-mul precompile chip.
const AddMulName = "AddMul"

type addMulColumns struct {
	shard uint
	clk   uint
	// Low and high halves of the first argument
	a uint
	b uint
	// Low and high halves of the second argument
	c uint
	d uint
	// Products a*b and c*d
	mul1 uint
	mul2 uint
	// mul1 + mul2
	result uint
	isReal uint
}

// AddMul computes a*b + c*d (in the native field) for syscalls whose first
// argument packs a and b as 16-bit halves, and whose second packs c and d.
// Syscalls are received globally from the shards which made them.  The
// halves are not range checked.
type AddMul[F field.Element[F]] struct {
	layout trace.Layout
	cols   addMulColumns
}

// NewAddMul constructs an add-mul precompile chip.
func NewAddMul[F field.Element[F]]() *AddMul[F] {
	var p AddMul[F]
	//
	p.cols.shard = p.layout.Column("shard")
	p.cols.clk = p.layout.Column("clk")
	p.cols.a = p.layout.Column("a")
	p.cols.b = p.layout.Column("b")
	p.cols.c = p.layout.Column("c")
	p.cols.d = p.layout.Column("d")
	p.cols.mul1 = p.layout.Column("mul1")
	p.cols.mul2 = p.layout.Column("mul2")
	p.cols.result = p.layout.Column("result")
	p.cols.isReal = p.layout.Column("is_real")
	//
	return &p
}

// Name implementation for air.MachineAir interface.
func (p *AddMul[F]) Name() string { return AddMulName }

// Width implementation for air.MachineAir interface.
func (p *AddMul[F]) Width() uint { return p.layout.Width() }

// PreprocessedWidth implementation for air.MachineAir interface.
func (p *AddMul[F]) PreprocessedWidth() uint { return 0 }

// ColumnNames returns the name of each column of the main trace.
func (p *AddMul[F]) ColumnNames() []string { return p.layout.Names() }

// GeneratePreprocessedTrace implementation for air.MachineAir interface.
func (p *AddMul[F]) GeneratePreprocessedTrace() *trace.Matrix[F] { return nil }

// GenerateDependencies implementation for air.MachineAir interface.
func (p *AddMul[F]) GenerateDependencies(_ *record.Record, _ *record.Record) {}

// Included implementation for air.MachineAir interface.
func (p *AddMul[F]) Included(r *record.Record) bool {
	return len(r.AddMulEvents) > 0
}

// GenerateTrace implementation for air.MachineAir interface.
func (p *AddMul[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var (
		cols   = &p.cols
		height = gadgets.Height(r, AddMulName, uint(len(r.AddMulEvents)))
	)
	//
	return trace.Populate(r.AddMulEvents, p.Width(), height, 0, func(e *record.AddMulEvent, row []F) {
		a, b, c, d := e.Operands()
		//
		row[cols.shard] = field.Uint64[F](uint64(e.Shard))
		row[cols.clk] = field.Uint64[F](uint64(e.Clk))
		row[cols.a] = field.Uint64[F](uint64(a))
		row[cols.b] = field.Uint64[F](uint64(b))
		row[cols.c] = field.Uint64[F](uint64(c))
		row[cols.d] = field.Uint64[F](uint64(d))
		row[cols.mul1] = field.Uint64[F](uint64(a) * uint64(b))
		row[cols.mul2] = field.Uint64[F](uint64(c) * uint64(d))
		row[cols.result] = field.Uint64[F](e.Result())
		row[cols.isReal] = field.One[F]()
	})
}

// Eval implementation for air.MachineAir interface.
func (p *AddMul[F]) Eval(b *air.Builder[F]) {
	var (
		cols = &p.cols
		x    = b.Local(cols.a)
		y    = b.Local(cols.b)
		z    = b.Local(cols.c)
		w    = b.Local(cols.d)
		mul1 = b.Local(cols.mul1)
		mul2 = b.Local(cols.mul2)
		half = b.Const(1 << 16)
	)
	//
	gadgets.AssertBits(b, &p.layout, cols.isReal)
	b.AssertEq("mul1", mul1, x.Mul(y))
	b.AssertEq("mul2", mul2, z.Mul(w))
	b.AssertEq("result", b.Local(cols.result), mul1.Add(mul2))
	//
	gadgets.ReceiveSyscall(b, lookup.Global, b.Local(cols.shard), b.Local(cols.clk),
		b.Const(uint64(record.ADDMUL_SYSCALL)), x.Add(half.Mul(y)), z.Add(half.Mul(w)), b.Local(cols.isReal))
}
