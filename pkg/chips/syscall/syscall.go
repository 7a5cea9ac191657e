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
package syscall

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/air/gadgets"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Name of the syscall chip.
const Name = "Syscall"

type columns struct {
	shard     uint
	clk       uint
	syscallID uint
	arg1      uint
	arg2      uint
	isReal    uint
}

// Chip forwards the syscalls made by the cpu of a shard to the precompile
// shards which execute them.  That is, each syscall received locally from
// the cpu is sent on globally.
type Chip[F field.Element[F]] struct {
	layout trace.Layout
	cols   columns
}

// New constructs a syscall chip.
func New[F field.Element[F]]() *Chip[F] {
	var p Chip[F]
	//
	p.cols.shard = p.layout.Column("shard")
	p.cols.clk = p.layout.Column("clk")
	p.cols.syscallID = p.layout.Column("syscall_id")
	p.cols.arg1 = p.layout.Column("arg1")
	p.cols.arg2 = p.layout.Column("arg2")
	p.cols.isReal = p.layout.Column("is_real")
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

// GenerateDependencies implementation for air.MachineAir interface.
func (p *Chip[F]) GenerateDependencies(_ *record.Record, _ *record.Record) {}

// Included implementation for air.MachineAir interface.
func (p *Chip[F]) Included(r *record.Record) bool {
	return len(r.SyscallEvents) > 0
}

// GenerateTrace implementation for air.MachineAir interface.
func (p *Chip[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	var (
		cols   = &p.cols
		height = gadgets.Height(r, Name, uint(len(r.SyscallEvents)))
	)
	//
	return trace.Populate(r.SyscallEvents, p.Width(), height, 0, func(e *record.SyscallEvent, row []F) {
		row[cols.shard] = field.Uint64[F](uint64(e.Shard))
		row[cols.clk] = field.Uint64[F](uint64(e.Clk))
		row[cols.syscallID] = field.Uint64[F](uint64(e.SyscallID))
		row[cols.arg1] = field.Uint64[F](uint64(e.Arg1))
		row[cols.arg2] = field.Uint64[F](uint64(e.Arg2))
		row[cols.isReal] = field.One[F]()
	})
}

// Eval implementation for air.MachineAir interface.
func (p *Chip[F]) Eval(b *air.Builder[F]) {
	var (
		cols   = &p.cols
		isReal = b.Local(cols.isReal)
		shard  = b.Local(cols.shard)
		clk    = b.Local(cols.clk)
		id     = b.Local(cols.syscallID)
		arg1   = b.Local(cols.arg1)
		arg2   = b.Local(cols.arg2)
	)
	//
	gadgets.AssertBits(b, &p.layout, cols.isReal)
	gadgets.ReceiveSyscall(b, lookup.Local, shard, clk, id, arg1, arg2, isReal)
	gadgets.SendSyscall(b, lookup.Global, shard, clk, id, arg1, arg2, isReal)
}
