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
package trace

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Layout allocates column offsets within a chip's trace, and records a name
// for each column.  Chips use a layout once, when constructed, to determine
// the offsets stored in their column structs.
type Layout struct {
	names []string
}

// Column allocates a single column with the given name, returning its offset.
func (p *Layout) Column(name string) uint {
	p.names = append(p.names, name)
	//
	return uint(len(p.names) - 1)
}

// Columns allocates n consecutive columns with a common base name.
func (p *Layout) Columns(name string, n uint) []uint {
	var offsets = make([]uint, n)
	//
	for i := range n {
		offsets[i] = p.Column(fmt.Sprintf("%s[%d]", name, i))
	}
	//
	return offsets
}

// Word allocates four consecutive columns representing the little-endian
// bytes of a 32-bit word.
func (p *Layout) Word(name string) Word {
	var word Word
	//
	copy(word[:], p.Columns(name, 4))
	//
	return word
}

// Width returns the number of columns allocated so far.
func (p *Layout) Width() uint {
	return uint(len(p.names))
}

// Name returns the name of a given column.
func (p *Layout) Name(col uint) string {
	return p.names[col]
}

// Names returns the names of all columns, in order of offset.
func (p *Layout) Names() []string {
	return p.names
}

// Word identifies the offsets of four byte columns making up a 32-bit word,
// least significant byte first.
type Word [4]uint

// SetWord writes the little-endian bytes of a 32-bit value into the columns of
// a given word.
func SetWord[F field.Element[F]](row []F, word Word, value uint32) {
	for i, col := range word {
		row[col] = row[col].SetUint64(uint64((value >> (8 * i)) & 0xff))
	}
}
