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

// LtName is the name of the comparison chip.
const LtName = "Lt"

type ltColumns struct {
	shard uint
	a     trace.Word
	b     trace.Word
	c     trace.Word
	isSlt uint
	isLtu uint
	// Most significant bits of b and c
	msbB uint
	msbC uint
	// Sign bits, which are the most significant bits for SLT and zero for
	// SLTU.
	bitB uint
	bitC uint
	// Whether bitB == bitC
	isSignEq uint
	// One-hot flag marking the most significant byte at which the compared
	// values differ (if any).
	byteFlags []uint
	// Whether the compared values are equal
	isCompEq uint
	// Differing bytes of the compared values
	compB uint
	compC uint
	// Inverse of compB - compC, when they differ
	notEqInv uint
	// Unsigned comparison of compB and compC
	ltu uint
}

// Lt implements the signed and unsigned comparisons SLT and SLTU.  Both
// compare the operands with their sign bits masked off, by looking up the
// most significant differing byte in the byte table.  Signed comparison
// then corrects for the sign bits:
//
//	SLT = bitB * (1 - bitC) + (bitB == bitC) * LTU(masked b, masked c)
type Lt[F field.Element[F]] struct {
	layout trace.Layout
	cols   ltColumns
}

// NewLt constructs a comparison chip.
func NewLt[F field.Element[F]]() *Lt[F] {
	var p Lt[F]
	//
	p.cols.shard = p.layout.Column("shard")
	p.cols.a = p.layout.Word("a")
	p.cols.b = p.layout.Word("b")
	p.cols.c = p.layout.Word("c")
	p.cols.isSlt = p.layout.Column("is_slt")
	p.cols.isLtu = p.layout.Column("is_sltu")
	p.cols.msbB = p.layout.Column("msb_b")
	p.cols.msbC = p.layout.Column("msb_c")
	p.cols.bitB = p.layout.Column("bit_b")
	p.cols.bitC = p.layout.Column("bit_c")
	p.cols.isSignEq = p.layout.Column("is_sign_eq")
	p.cols.byteFlags = p.layout.Columns("byte_flags", 4)
	p.cols.isCompEq = p.layout.Column("is_comp_eq")
	p.cols.compB = p.layout.Column("comp_b")
	p.cols.compC = p.layout.Column("comp_c")
	p.cols.notEqInv = p.layout.Column("not_eq_inv")
	p.cols.ltu = p.layout.Column("ltu")
	//
	return &p
}

// Name implementation for air.MachineAir interface.
func (p *Lt[F]) Name() string { return LtName }

// Width implementation for air.MachineAir interface.
func (p *Lt[F]) Width() uint { return p.layout.Width() }

// PreprocessedWidth implementation for air.MachineAir interface.
func (p *Lt[F]) PreprocessedWidth() uint { return 0 }

// ColumnNames returns the name of each column of the main trace.
func (p *Lt[F]) ColumnNames() []string { return p.layout.Names() }

// GeneratePreprocessedTrace implementation for air.MachineAir interface.
func (p *Lt[F]) GeneratePreprocessedTrace() *trace.Matrix[F] { return nil }

// Included implementation for air.MachineAir interface.
func (p *Lt[F]) Included(r *record.Record) bool {
	return len(r.LtEvents) > 0
}

// GenerateDependencies records the byte lookups made for every comparison.
func (p *Lt[F]) GenerateDependencies(input *record.Record, output *record.Record) {
	for i := range input.LtEvents {
		var (
			e = &input.LtEvents[i]
			w = newLtWitness(e)
		)
		//
		output.AddByteLookup(record.NewByteLookup(record.ByteMSB, uint8(e.B>>24), 0))
		output.AddByteLookup(record.NewByteLookup(record.ByteMSB, uint8(e.C>>24), 0))
		output.AddByteLookup(record.NewByteLookup(record.ByteLTU, w.compB, w.compC))
	}
}

// GenerateTrace implementation for air.MachineAir interface.
func (p *Lt[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var (
		cols   = &p.cols
		height = gadgets.Height(r, LtName, uint(len(r.LtEvents)))
	)
	//
	return trace.Populate(r.LtEvents, p.Width(), height, 0, func(e *record.AluEvent, row []F) {
		var w = newLtWitness(e)
		//
		row[cols.shard] = field.Uint64[F](uint64(e.Shard))
		trace.SetWord(row, cols.a, e.A)
		trace.SetWord(row, cols.b, e.B)
		trace.SetWord(row, cols.c, e.C)
		row[cols.isSlt] = field.Bool[F](w.signed)
		row[cols.isLtu] = field.Bool[F](!w.signed)
		row[cols.msbB] = field.Uint64[F](uint64(e.B >> 31))
		row[cols.msbC] = field.Uint64[F](uint64(e.C >> 31))
		row[cols.bitB] = field.Uint64[F](uint64(w.bitB))
		row[cols.bitC] = field.Uint64[F](uint64(w.bitC))
		row[cols.isSignEq] = field.Bool[F](w.bitB == w.bitC)
		row[cols.isCompEq] = field.Bool[F](w.flag < 0)
		row[cols.compB] = field.Uint64[F](uint64(w.compB))
		row[cols.compC] = field.Uint64[F](uint64(w.compC))
		row[cols.ltu] = field.Bool[F](w.compB < w.compC)
		//
		if w.flag >= 0 {
			diff := field.Uint64[F](uint64(w.compB)).Sub(field.Uint64[F](uint64(w.compC)))
			row[cols.byteFlags[w.flag]] = field.One[F]()
			row[cols.notEqInv] = diff.Inverse()
		}
	})
}

// Eval implementation for air.MachineAir interface.
func (p *Lt[F]) Eval(b *air.Builder[F]) {
	var (
		cols     = &p.cols
		isSlt    = b.Local(cols.isSlt)
		isLtu    = b.Local(cols.isLtu)
		isReal   = isSlt.Add(isLtu)
		a        = b.Word(cols.a)
		bw       = b.Word(cols.b)
		cw       = b.Word(cols.c)
		bitB     = b.Local(cols.bitB)
		bitC     = b.Local(cols.bitC)
		isSignEq = b.Local(cols.isSignEq)
		isCompEq = b.Local(cols.isCompEq)
		compB    = b.Local(cols.compB)
		compC    = b.Local(cols.compC)
		// Values compared, with sign bits masked off for SLT
		bComp = bw
		cComp = cw
	)
	//
	gadgets.AssertBits(b, &p.layout, cols.isSlt, cols.isLtu, cols.isSignEq, cols.isCompEq)
	gadgets.AssertBits(b, &p.layout, cols.byteFlags...)
	b.AssertBool("is_real:u1", isReal)
	// Sign bits
	bComp[3] = bw[3].Sub(b.Const(128).Mul(bitB))
	cComp[3] = cw[3].Sub(b.Const(128).Mul(bitC))
	b.AssertEq("bit_b", bitB, b.Local(cols.msbB).Mul(isSlt))
	b.AssertEq("bit_c", bitC, b.Local(cols.msbC).Mul(isSlt))
	b.When(isSignEq).AssertEq("sign_eq", bitB, bitC)
	b.When(isReal).WhenNot(isSignEq).AssertOne("sign_neq", bitB.Add(bitC))
	// Result
	sltu := b.Local(cols.ltu)
	b.AssertEq("a[0]", a[0], bitB.Mul(b.Const(1).Sub(bitC)).Add(isSignEq.Mul(sltu)))
	b.AssertZero("a[1]", a[1])
	b.AssertZero("a[2]", a[2])
	b.AssertZero("a[3]", a[3])
	// Byte flags
	sumFlags := gadgets.Sum(b, cols.byteFlags...)
	b.AssertBool("byte_flags:sum", sumFlags)
	b.When(isReal).AssertEq("is_comp_eq", b.Const(1).Sub(isCompEq), sumFlags)
	// Select the most significant differing bytes.  Bytes above them are
	// equal, as are all bytes when the values are equal.
	var (
		visited air.Expr[F] = b.Const(0)
		selB    air.Expr[F] = b.Const(0)
		selC    air.Expr[F] = b.Const(0)
	)
	//
	for i := 3; i >= 0; i-- {
		flag := b.Local(cols.byteFlags[i])
		visited = visited.Add(flag)
		selB = selB.Add(bComp[i].Mul(flag))
		selC = selC.Add(cComp[i].Mul(flag))
		//
		b.WhenNot(visited).AssertEq(fmt.Sprintf("byte_eq[%d]", i), bComp[i], cComp[i])
		b.When(isCompEq).AssertZero(fmt.Sprintf("comp_eq[%d]", i), visited)
	}
	//
	b.AssertEq("comp_b", compB, selB)
	b.AssertEq("comp_c", compC, selC)
	b.WhenNot(isCompEq).AssertEq("comp_neq", b.Local(cols.notEqInv).Mul(compB.Sub(compC)), isReal)
	// Lookups
	gadgets.SendByte(b, gadgets.ByteOpcode(b, record.ByteMSB), b.Local(cols.msbB), bw[3], b.Const(0), isReal)
	gadgets.SendByte(b, gadgets.ByteOpcode(b, record.ByteMSB), b.Local(cols.msbC), cw[3], b.Const(0), isReal)
	gadgets.SendByte(b, gadgets.ByteOpcode(b, record.ByteLTU), sltu, compB, compC, isReal)
	//
	opcode := isSlt.Mul(gadgets.Opcode(b, record.SLT)).Add(isLtu.Mul(gadgets.Opcode(b, record.SLTU)))
	gadgets.ReceiveAlu(b, opcode, a, bw, cw, b.Local(cols.shard), isReal)
}

// Intermediate values of a comparison.
type ltWitness struct {
	signed bool
	// Sign bits (zero for unsigned comparison)
	bitB, bitC uint8
	// Index of the most significant differing byte, or -1 if none.
	flag int
	// Differing bytes (or zero)
	compB, compC uint8
}

func newLtWitness(e *record.AluEvent) ltWitness {
	var w = ltWitness{signed: e.Opcode == record.SLT, flag: -1}
	//
	if e.Opcode != record.SLT && e.Opcode != record.SLTU {
		panic(fmt.Sprintf("opcode %s is not a comparison", e.Opcode))
	}
	//
	bComp, cComp := record.WordBytes(e.B), record.WordBytes(e.C)
	//
	if w.signed {
		w.bitB, w.bitC = bComp[3]>>7, cComp[3]>>7
		bComp[3] &= 0x7f
		cComp[3] &= 0x7f
	}
	//
	for i := 3; i >= 0; i-- {
		if bComp[i] != cComp[i] {
			w.flag, w.compB, w.compC = i, bComp[i], cComp[i]
			break
		}
	}
	//
	return w
}
