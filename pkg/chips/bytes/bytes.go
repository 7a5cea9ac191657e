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
package bytes

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/air/gadgets"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Name of the byte chip.
const Name = "Byte"

// NumRows is the number of rows of the byte table, one per pair of bytes.
const NumRows = 1 << 16

type prepColumns struct {
	b   uint
	c   uint
	and uint
	or  uint
	xor uint
	ltu uint
	msb uint
}

// Chip provides a fixed table of every byte operation applied to every pair
// of bytes (b, c), where the row of each pair is b*256 + c.  Lookups into the
// table are counted per operation in the main trace.
type Chip[F field.Element[F]] struct {
	prepLayout trace.Layout
	prep       prepColumns
	layout     trace.Layout
	// Multiplicity columns, indexed by byte opcode
	mults []uint
}

// New constructs a byte chip.
func New[F field.Element[F]]() *Chip[F] {
	var p Chip[F]
	//
	p.prep.b = p.prepLayout.Column("b")
	p.prep.c = p.prepLayout.Column("c")
	p.prep.and = p.prepLayout.Column("and")
	p.prep.or = p.prepLayout.Column("or")
	p.prep.xor = p.prepLayout.Column("xor")
	p.prep.ltu = p.prepLayout.Column("ltu")
	p.prep.msb = p.prepLayout.Column("msb")
	//
	for _, op := range record.ByteOpcodes() {
		p.mults = append(p.mults, p.layout.Column(fmt.Sprintf("mult_%s", op)))
	}
	//
	return &p
}

// Name implementation for air.MachineAir interface.
func (p *Chip[F]) Name() string { return Name }

// Width implementation for air.MachineAir interface.
func (p *Chip[F]) Width() uint { return p.layout.Width() }

// PreprocessedWidth implementation for air.MachineAir interface.
func (p *Chip[F]) PreprocessedWidth() uint { return p.prepLayout.Width() }

// ColumnNames returns the name of each column of the main trace.
func (p *Chip[F]) ColumnNames() []string { return p.layout.Names() }

// PreprocessedColumnNames returns the name of each column of the preprocessed
// trace.
func (p *Chip[F]) PreprocessedColumnNames() []string { return p.prepLayout.Names() }

// Included implementation for air.MachineAir interface.
func (p *Chip[F]) Included(r *record.Record) bool {
	return len(r.ByteLookups) > 0
}

// GenerateDependencies implementation for air.MachineAir interface.
func (p *Chip[F]) GenerateDependencies(_ *record.Record, _ *record.Record) {}

// GeneratePreprocessedTrace implementation for air.MachineAir interface.
func (p *Chip[F]) GeneratePreprocessedTrace() *trace.Matrix[F] {
	return trace.PopulateRows(p.PreprocessedWidth(), NumRows, 0, func(i uint, row []F) {
		b, c := uint8(i>>8), uint8(i)
		//
		row[p.prep.b] = field.Uint64[F](uint64(b))
		row[p.prep.c] = field.Uint64[F](uint64(c))
		row[p.prep.and] = field.Uint64[F](uint64(record.ByteAND.Apply(b, c)))
		row[p.prep.or] = field.Uint64[F](uint64(record.ByteOR.Apply(b, c)))
		row[p.prep.xor] = field.Uint64[F](uint64(record.ByteXOR.Apply(b, c)))
		row[p.prep.ltu] = field.Uint64[F](uint64(record.ByteLTU.Apply(b, c)))
		row[p.prep.msb] = field.Uint64[F](uint64(record.ByteMSB.Apply(b, c)))
	})
}

// GenerateTrace counts the lookups of each operation on each pair of bytes.
// A lookup whose result disagrees with the table is malformed.
func (p *Chip[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var counts = make([]uint64, NumRows*record.NumByteOpcodes)
	//
	for e, n := range r.ByteLookups {
		if uint(e.Opcode) >= record.NumByteOpcodes {
			panic(fmt.Sprintf("unknown byte opcode %d", uint8(e.Opcode)))
		} else if e.A != e.Opcode.Apply(e.B, e.C) {
			panic(fmt.Sprintf("malformed byte lookup %d = %d %s %d", e.A, e.B, e.Opcode, e.C))
		}
		//
		row := uint(e.B)<<8 | uint(e.C)
		counts[row*record.NumByteOpcodes+uint(e.Opcode)] += n
	}
	//
	return trace.PopulateRows(p.Width(), NumRows, 0, func(i uint, row []F) {
		for op, col := range p.mults {
			row[col] = field.Uint64[F](counts[i*record.NumByteOpcodes+uint(op)])
		}
	})
}

// Eval implementation for air.MachineAir interface.
func (p *Chip[F]) Eval(b *air.Builder[F]) {
	var (
		bb = b.Prep(p.prep.b)
		cc = b.Prep(p.prep.c)
	)
	//
	for _, op := range record.ByteOpcodes() {
		var result air.Expr[F]
		//
		switch op {
		case record.ByteAND:
			result = b.Prep(p.prep.and)
		case record.ByteOR:
			result = b.Prep(p.prep.or)
		case record.ByteXOR:
			result = b.Prep(p.prep.xor)
		case record.ByteLTU:
			result = b.Prep(p.prep.ltu)
		case record.ByteMSB:
			result = b.Prep(p.prep.msb)
		default:
			result = b.Const(0)
		}
		//
		gadgets.ReceiveByte(b, gadgets.ByteOpcode(b, op), result, bb, cc, b.Local(p.mults[op]))
	}
}
