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

import (
	"fmt"
	"strings"
)

// Opcode identifies an instruction of the machine.
type Opcode uint8

const (
	// ADD computes a = b + c (mod 2^32).
	ADD Opcode = iota
	// SUB computes a = b - c (mod 2^32).
	SUB
	// SLT computes a = (b < c) for signed comparison.
	SLT
	// SLTU computes a = (b < c) for unsigned comparison.
	SLTU
	// AND computes a = b & c.
	AND
	// OR computes a = b | c.
	OR
	// XOR computes a = b ^ c.
	XOR
	// ECALL invokes the syscall identified by a, with arguments b and c.
	ECALL
)

var opcodeNames = []string{"ADD", "SUB", "SLT", "SLTU", "AND", "OR", "XOR", "ECALL"}

// Opcodes returns all opcodes, in order.
func Opcodes() []Opcode {
	return []Opcode{ADD, SUB, SLT, SLTU, AND, OR, XOR, ECALL}
}

// IsAlu determines whether this opcode is executed by an ALU chip.
func (op Opcode) IsAlu() bool {
	return op <= XOR
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	//
	return fmt.Sprintf("OPCODE(%d)", uint8(op))
}

// MarshalText encodes an opcode by its name.
func (op Opcode) MarshalText() ([]byte, error) {
	if int(op) >= len(opcodeNames) {
		return nil, fmt.Errorf("unknown opcode %d", uint8(op))
	}
	//
	return []byte(op.String()), nil
}

// UnmarshalText decodes an opcode from its name.
func (op *Opcode) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	//
	for i, n := range opcodeNames {
		if n == name {
			*op = Opcode(i)
			return nil
		}
	}
	//
	return fmt.Errorf("unknown opcode \"%s\"", string(text))
}

// ByteOpcode identifies an operation provided by the byte table.
type ByteOpcode uint8

const (
	// ByteAND is bitwise and of two bytes.
	ByteAND ByteOpcode = iota
	// ByteOR is bitwise or of two bytes.
	ByteOR
	// ByteXOR is bitwise xor of two bytes.
	ByteXOR
	// ByteLTU is unsigned less-than of two bytes.
	ByteLTU
	// ByteMSB is the most significant bit of a byte.
	ByteMSB
	// U8Range checks that a pair of values are both bytes.
	U8Range
)

// NumByteOpcodes is the number of distinct byte opcodes.
const NumByteOpcodes = 6

var byteOpcodeNames = []string{"AND", "OR", "XOR", "LTU", "MSB", "U8RANGE"}

// ByteOpcodes returns all byte opcodes, in order.
func ByteOpcodes() []ByteOpcode {
	return []ByteOpcode{ByteAND, ByteOR, ByteXOR, ByteLTU, ByteMSB, U8Range}
}

func (op ByteOpcode) String() string {
	if int(op) < len(byteOpcodeNames) {
		return byteOpcodeNames[op]
	}
	//
	return fmt.Sprintf("BYTE_OPCODE(%d)", uint8(op))
}

// Apply computes the result of this byte operation on two bytes.  The second
// argument is ignored by those operations which take only one.
func (op ByteOpcode) Apply(b, c uint8) uint8 {
	switch op {
	case ByteAND:
		return b & c
	case ByteOR:
		return b | c
	case ByteXOR:
		return b ^ c
	case ByteLTU:
		if b < c {
			return 1
		}
		//
		return 0
	case ByteMSB:
		return b >> 7
	case U8Range:
		return 0
	default:
		panic(fmt.Sprintf("unknown byte opcode %d", uint8(op)))
	}
}

// ByteOpcodeFor returns the byte operation implementing a given bitwise
// opcode.
func ByteOpcodeFor(op Opcode) ByteOpcode {
	switch op {
	case AND:
		return ByteAND
	case OR:
		return ByteOR
	case XOR:
		return ByteXOR
	default:
		panic(fmt.Sprintf("opcode %s is not bitwise", op))
	}
}

// ADDMUL_SYSCALL identifies the add-mul precompile.
const ADDMUL_SYSCALL uint32 = 0x101
