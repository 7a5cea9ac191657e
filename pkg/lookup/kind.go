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
package lookup

import "fmt"

// Kind identifies a family of interactions.  Sends and receives of one kind
// must balance, whilst interactions of different kinds never interfere.
type Kind uint8

const (
	// Alu interactions connect the cpu to the ALU chips.
	Alu Kind = 1
	// Byte interactions look up byte operations in the byte table.
	Byte Kind = 2
	// Syscall interactions connect the cpu to precompiles.
	Syscall Kind = 3
)

// Kinds returns every interaction kind, in order.
func Kinds() []Kind {
	return []Kind{Alu, Byte, Syscall}
}

// ArgumentIndex returns the position of this kind within the LogUp
// fingerprint.  Interactions of the same kind share this index.
func (k Kind) ArgumentIndex() uint {
	return uint(k)
}

func (k Kind) String() string {
	switch k {
	case Alu:
		return "Alu"
	case Byte:
		return "Byte"
	case Syscall:
		return "Syscall"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Scope determines the extent over which the interactions of a kind must
// balance.
type Scope uint8

const (
	// Local interactions balance within a single shard.
	Local Scope = iota
	// Global interactions balance across all shards of a proof.
	Global
)

// Scopes returns all scopes, in order.
func Scopes() []Scope {
	return []Scope{Local, Global}
}

func (s Scope) String() string {
	switch s {
	case Local:
		return "Local"
	case Global:
		return "Global"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}
