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
package gadgets

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// ============================================================================
// ALU
// ============================================================================

// AluValues returns the values of an ALU interaction, namely (opcode, a[0..4],
// b[0..4], c[0..4], shard).
func AluValues[F field.Element[F]](opcode air.Expr[F], a, b, c [4]air.Expr[F], shard air.Expr[F]) []air.Expr[F] {
	values := []air.Expr[F]{opcode}
	values = append(values, a[:]...)
	values = append(values, b[:]...)
	values = append(values, c[:]...)
	//
	return append(values, shard)
}

// SendAlu sends an ALU operation a = b op c to the chip responsible for it.
func SendAlu[F field.Element[F]](bld *air.Builder[F], opcode air.Expr[F], a, b, c [4]air.Expr[F],
	shard air.Expr[F], multiplicity air.Expr[F]) {
	bld.Send(lookup.Alu, lookup.Local, multiplicity, AluValues(opcode, a, b, c, shard)...)
}

// ReceiveAlu receives an ALU operation a = b op c.
func ReceiveAlu[F field.Element[F]](bld *air.Builder[F], opcode air.Expr[F], a, b, c [4]air.Expr[F],
	shard air.Expr[F], multiplicity air.Expr[F]) {
	bld.Receive(lookup.Alu, lookup.Local, multiplicity, AluValues(opcode, a, b, c, shard)...)
}

// Opcode returns the constant expression for a given opcode.
func Opcode[F field.Element[F]](b *air.Builder[F], op record.Opcode) air.Expr[F] {
	return b.Const(uint64(op))
}

// ============================================================================
// Bytes
// ============================================================================

// SendByte sends a lookup a = b op c into the byte table.
func SendByte[F field.Element[F]](bld *air.Builder[F], opcode air.Expr[F], a, b, c air.Expr[F],
	multiplicity air.Expr[F]) {
	bld.Send(lookup.Byte, lookup.Local, multiplicity, opcode, a, b, c)
}

// ReceiveByte receives a lookup a = b op c into the byte table.
func ReceiveByte[F field.Element[F]](bld *air.Builder[F], opcode air.Expr[F], a, b, c air.Expr[F],
	multiplicity air.Expr[F]) {
	bld.Receive(lookup.Byte, lookup.Local, multiplicity, opcode, a, b, c)
}

// ByteOpcode returns the constant expression for a given byte opcode.
func ByteOpcode[F field.Element[F]](b *air.Builder[F], op record.ByteOpcode) air.Expr[F] {
	return b.Const(uint64(op))
}

// SendU8Range checks every given column holds a byte, two columns per lookup.
// An odd column out is paired with zero, matching record.AddU8Range.
func SendU8Range[F field.Element[F]](bld *air.Builder[F], multiplicity air.Expr[F], cols ...uint) {
	var (
		opcode = ByteOpcode(bld, record.U8Range)
		zero   = bld.Const(0)
	)
	//
	for i := 0; i < len(cols); i += 2 {
		c := zero
		//
		if i+1 < len(cols) {
			c = bld.Local(cols[i+1])
		}
		//
		SendByte(bld, opcode, zero, bld.Local(cols[i]), c, multiplicity)
	}
}

// WordBytes returns the columns of the given words, in order.
func WordBytes(words ...trace.Word) []uint {
	var cols []uint
	//
	for _, w := range words {
		cols = append(cols, w[:]...)
	}
	//
	return cols
}

// ============================================================================
// Syscalls
// ============================================================================

// SyscallValues returns the values of a syscall interaction, namely (shard,
// clk, syscall_id, arg1, arg2).
func SyscallValues[F field.Element[F]](shard, clk, id, arg1, arg2 air.Expr[F]) []air.Expr[F] {
	return []air.Expr[F]{shard, clk, id, arg1, arg2}
}

// SendSyscall sends a syscall invocation in a given scope.
func SendSyscall[F field.Element[F]](bld *air.Builder[F], scope lookup.Scope, shard, clk, id, arg1, arg2 air.Expr[F],
	multiplicity air.Expr[F]) {
	bld.Send(lookup.Syscall, scope, multiplicity, SyscallValues(shard, clk, id, arg1, arg2)...)
}

// ReceiveSyscall receives a syscall invocation in a given scope.
func ReceiveSyscall[F field.Element[F]](bld *air.Builder[F], scope lookup.Scope, shard, clk, id, arg1,
	arg2 air.Expr[F], multiplicity air.Expr[F]) {
	bld.Receive(lookup.Syscall, scope, multiplicity, SyscallValues(shard, clk, id, arg1, arg2)...)
}
