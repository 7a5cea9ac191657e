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
package air

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Entry identifies which of a chip's traces a column belongs to.
type Entry uint8

const (
	// Main identifies the main trace, generated from events.
	Main Entry = iota
	// Preprocessed identifies the fixed trace, determined by the chip alone.
	Preprocessed
	// LocalPermutation identifies the permutation trace of local interactions.
	LocalPermutation
	// GlobalPermutation identifies the permutation trace of global interactions.
	GlobalPermutation
)

// PermutationEntry returns the permutation entry for the given scope.
func PermutationEntry(scope lookup.Scope) Entry {
	if scope == lookup.Global {
		return GlobalPermutation
	}
	//
	return LocalPermutation
}

func (e Entry) String() string {
	switch e {
	case Main:
		return "main"
	case Preprocessed:
		return "prep"
	case LocalPermutation:
		return "perm"
	case GlobalPermutation:
		return "gperm"
	default:
		return fmt.Sprintf("entry%d", uint8(e))
	}
}

// SelectorKind identifies a row selector.
type SelectorKind uint8

const (
	// IsFirstRow holds only on the first row.
	IsFirstRow SelectorKind = iota
	// IsLastRow holds only on the last row.
	IsLastRow
	// IsTransition holds on every row except the last.
	IsTransition
)

func (s SelectorKind) String() string {
	switch s {
	case IsFirstRow:
		return "is_first_row"
	case IsLastRow:
		return "is_last_row"
	default:
		return "is_transition"
	}
}

// Window provides the context in which an expression is evaluated, namely the
// current (and next) row of a chip's traces along with the challenges and
// public values.
type Window[F field.Element[F]] interface {
	// Value returns the value of a given column on the current row, or the
	// row shift rows below it.
	Value(entry Entry, column uint, shift uint) F
	// Challenge returns the ith challenge.
	Challenge(index uint) F
	// CumulativeSum returns the public cumulative sum of a given scope.
	CumulativeSum(scope lookup.Scope) F
	// Selector returns the value of a given row selector.
	Selector(kind SelectorKind) F
}

// TraceWindow is a window over concrete traces, positioned at a given row.
// Accessing the next row of the last row wraps around to the first row.
type TraceWindow[F field.Element[F]] struct {
	// Preprocessed trace (or nil)
	Prep *trace.Matrix[F]
	// Main trace
	Main *trace.Matrix[F]
	// Permutation traces indexed by scope (either may be nil)
	Permutation [2]*trace.Matrix[F]
	// Challenges
	Challenges []F
	// Cumulative sums indexed by scope
	Sums [2]F
	// Current row
	Row uint
}

// Height returns the number of rows in this window's traces.
func (p *TraceWindow[F]) Height() uint {
	return p.Main.Height()
}

// Value returns the value of a given column on the current row, or the row
// shift rows below it.
func (p *TraceWindow[F]) Value(entry Entry, column uint, shift uint) F {
	var (
		matrix *trace.Matrix[F]
		row    = (p.Row + shift) % p.Height()
	)
	//
	switch entry {
	case Main:
		matrix = p.Main
	case Preprocessed:
		matrix = p.Prep
	case LocalPermutation:
		matrix = p.Permutation[lookup.Local]
	case GlobalPermutation:
		matrix = p.Permutation[lookup.Global]
	}
	//
	if matrix == nil {
		panic(fmt.Sprintf("missing %s trace", entry))
	}
	//
	return matrix.Get(row, column)
}

// Challenge returns the ith challenge.
func (p *TraceWindow[F]) Challenge(index uint) F {
	return p.Challenges[index]
}

// CumulativeSum returns the public cumulative sum of a given scope.
func (p *TraceWindow[F]) CumulativeSum(scope lookup.Scope) F {
	return p.Sums[scope]
}

// Selector returns the value of a given row selector.
func (p *TraceWindow[F]) Selector(kind SelectorKind) F {
	last := p.Height() - 1
	//
	switch kind {
	case IsFirstRow:
		return field.Bool[F](p.Row == 0)
	case IsLastRow:
		return field.Bool[F](p.Row == last)
	default:
		return field.Bool[F](p.Row != last)
	}
}
