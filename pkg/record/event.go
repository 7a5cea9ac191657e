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
package record

// CpuEvent records the execution of one instruction by the cpu.
type CpuEvent struct {
	Shard  uint32 `json:"shard"`
	Clk    uint32 `json:"clk"`
	Opcode Opcode `json:"opcode"`
	A      uint32 `json:"a"`
	B      uint32 `json:"b"`
	C      uint32 `json:"c"`
}

// AluEvent records an operation executed by one of the ALU chips, such that
// A = B op C.
type AluEvent struct {
	Shard  uint32 `json:"shard"`
	Clk    uint32 `json:"clk"`
	Opcode Opcode `json:"opcode"`
	A      uint32 `json:"a"`
	B      uint32 `json:"b"`
	C      uint32 `json:"c"`
}

// ByteLookupEvent records a lookup into the byte table, such that A = B op C.
type ByteLookupEvent struct {
	Opcode ByteOpcode `json:"opcode"`
	A      uint8      `json:"a"`
	B      uint8      `json:"b"`
	C      uint8      `json:"c"`
}

// NewByteLookup constructs a byte lookup event whose result is computed from
// its operands.
func NewByteLookup(op ByteOpcode, b, c uint8) ByteLookupEvent {
	return ByteLookupEvent{op, op.Apply(b, c), b, c}
}

// SyscallEvent records the invocation of a syscall by the cpu.
type SyscallEvent struct {
	Shard     uint32 `json:"shard"`
	Clk       uint32 `json:"clk"`
	SyscallID uint32 `json:"syscall_id"`
	Arg1      uint32 `json:"arg1"`
	Arg2      uint32 `json:"arg2"`
}

// AddMulEvent records an invocation of the add-mul precompile, which computes
// a*b + c*d where a and b are the low and high halves of the first argument,
// and c and d those of the second.
type AddMulEvent struct {
	Shard uint32 `json:"shard"`
	Clk   uint32 `json:"clk"`
	Arg1  uint32 `json:"arg1"`
	Arg2  uint32 `json:"arg2"`
}

// Operands returns the four 16-bit operands of this event.
func (e *AddMulEvent) Operands() (a, b, c, d uint32) {
	return e.Arg1 & 0xffff, e.Arg1 >> 16, e.Arg2 & 0xffff, e.Arg2 >> 16
}

// Result returns a*b + c*d, which is always representable in 64 bits.
func (e *AddMulEvent) Result() uint64 {
	a, b, c, d := e.Operands()
	//
	return uint64(a)*uint64(b) + uint64(c)*uint64(d)
}

// WordBytes splits words into their little-endian bytes.
func WordBytes(words ...uint32) []uint8 {
	var bytes = make([]uint8, 0, 4*len(words))
	//
	for _, w := range words {
		bytes = append(bytes, uint8(w), uint8(w>>8), uint8(w>>16), uint8(w>>24))
	}
	//
	return bytes
}
