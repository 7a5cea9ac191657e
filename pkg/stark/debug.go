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
package stark

import (
	"errors"
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// ChipTraces groups together all traces of a single chip in a single shard,
// along with its public cumulative sums.
type ChipTraces[F field.Element[F]] struct {
	// Preprocessed trace (or nil)
	Prep *trace.Matrix[F]
	// Main trace
	Main *trace.Matrix[F]
	// Permutation traces, indexed by scope
	Permutation [2]*trace.Matrix[F]
	// Cumulative sums, indexed by scope
	Sums [2]F
}

// Window returns an evaluation window over these traces, positioned at the
// first row.
func (p *ChipTraces[F]) Window(challenges []F) *air.TraceWindow[F] {
	return &air.TraceWindow[F]{
		Prep:        p.Prep,
		Main:        p.Main,
		Permutation: p.Permutation,
		Challenges:  challenges,
		Sums:        p.Sums,
	}
}

// GenerateChipTraces generates every trace of a chip for a given shard, using
// the given local and global challenges for its permutation traces.
func GenerateChipTraces[F field.Element[F]](chip *Chip[F], shard *record.Record, challenges []F,
	workers uint) *ChipTraces[F] {
	//
	checkChallenges(challenges)
	//
	traces := &ChipTraces[F]{Prep: chip.GeneratePreprocessedTrace(), Main: chip.GenerateTrace(shard)}
	//
	for _, scope := range lookup.Scopes() {
		offset := ChallengeOffset(scope)
		traces.Permutation[scope], traces.Sums[scope] = GeneratePermutationTrace(chip, traces.Prep, traces.Main,
			scope, challenges[offset:offset+NumPermutationChallenges], workers)
	}
	//
	return traces
}

// Failure provides structural information about a failing constraint.
type Failure struct {
	// Chip on which the constraint failed
	Chip string
	// Handle of the failing constraint
	Handle string
	// Row on which the constraint failed
	Row uint
}

// Message provides a suitable error message
func (p *Failure) Message() string {
	return fmt.Sprintf("constraint \"%s\" of chip %s does not hold (row %d)", p.Handle, p.Chip, p.Row)
}

func (p *Failure) Error() string {
	return p.Message()
}

func (p *Failure) String() string {
	return p.Message()
}

// DebugConstraints checks every constraint of a chip (including its
// permutation constraints) on every row of its traces, returning a *Failure
// identifying the first violation found (or nil).  The challenges given are
// the local permutation challenges followed by the global ones.  The next row
// of the last row is the first row, though the transition selector is false
// on the last row.
func DebugConstraints[F field.Element[F]](chip *Chip[F], traces *ChipTraces[F], challenges []F) error {
	var (
		height      = traces.Main.Height()
		constraints = chip.AllConstraints()
		window      = traces.Window(challenges)
	)
	//
	checkHeights(chip, traces)
	checkChallenges(challenges)
	//
	for row := range height {
		window.Row = row
		//
		for _, c := range constraints {
			if val := c.Expr.Eval(window); !val.IsZero() {
				log.Debugf("constraint %s evaluates to %s on row %d of %s", c.Handle, field.Signed(val), row,
					chip.Name())
				//
				return &Failure{chip.Name(), c.Handle, row}
			}
		}
	}
	//
	return nil
}

// DebugCumulativeSums checks that a set of cumulative sums (e.g. of all chips
// in a shard) adds up to zero.
func DebugCumulativeSums[F field.Element[F]](sums ...F) error {
	if total := field.Sum(sums...); !total.IsZero() {
		return fmt.Errorf("cumulative sums do not balance (total %s)", field.Signed(total))
	}
	//
	return nil
}

// DebugInteractions accounts for every send and receive of a given scope,
// across all chips of a machine and all given shards, reporting any tuples
// which fail to balance.  Local interactions only balance within a single
// shard, hence exactly one shard must be given for the local scope.  Shards
// must already have had their dependencies generated.
func DebugInteractions[F field.Element[F]](machine *Machine[F], shards []*record.Record,
	scope lookup.Scope) *lookup.Balance[F] {
	//
	if scope == lookup.Local && len(shards) != 1 {
		panic(fmt.Sprintf("local interactions are checked one shard at a time (was %d)", len(shards)))
	}
	//
	var (
		balance = lookup.NewBalance[F]()
		preps   = machine.PreprocessedTraces()
	)
	//
	for i, chip := range machine.Chips() {
		sends, receives := chip.Interactions(scope)
		//
		if len(sends)+len(receives) == 0 {
			continue
		}
		//
		for _, shard := range shards {
			if chip.Included(shard) {
				debugChipInteractions(balance, chip, preps[i], chip.GenerateTrace(shard), sends, receives)
			}
		}
		//
		log.Infof("%s chip has %d distinct %s events", chip.Name(), balance.Events(chip.Name()), scope)
	}
	//
	balance.Log()
	//
	return balance
}

func debugChipInteractions[F field.Element[F]](balance *lookup.Balance[F], chip *Chip[F], prep *trace.Matrix[F],
	main *trace.Matrix[F], sends, receives []lookup.Interaction[F]) {
	//
	for row := range main.Height() {
		prepRow, mainRow := rowOf(prep, row), main.Row(row)
		//
		for j, interaction := range append(sends[:len(sends):len(sends)], receives...) {
			values, multiplicity := interaction.Eval(prepRow, mainRow)
			//
			if !multiplicity.IsZero() {
				key := lookup.Key(interaction.Scope, interaction.Kind, values)
				balance.Add(chip.Name(), key, multiplicity, j < len(sends))
			}
		}
	}
}

// ErrShapeMismatch indicates traces whose dimensions disagree.
var ErrShapeMismatch = errors.New("shape mismatch")

// Traces passed between stages must agree in height, and have the widths
// declared by the chip.
func checkHeights[F field.Element[F]](chip *Chip[F], traces *ChipTraces[F]) {
	var height = traces.Main.Height()
	//
	if traces.Main.Width() != chip.Width() {
		panic(fmt.Errorf("%w: chip %s main width %d (expected %d)", ErrShapeMismatch, chip.Name(),
			traces.Main.Width(), chip.Width()))
	} else if traces.Prep != nil && traces.Prep.Height() != height {
		panic(fmt.Errorf("%w: chip %s preprocessed height %d (expected %d)", ErrShapeMismatch, chip.Name(),
			traces.Prep.Height(), height))
	}
	//
	for _, scope := range lookup.Scopes() {
		perm := traces.Permutation[scope]
		//
		if perm == nil {
			panic(fmt.Errorf("%w: chip %s missing %s permutation trace", ErrShapeMismatch, chip.Name(), scope))
		} else if perm.Height() != height || perm.Width() != chip.PermutationWidth(scope) {
			panic(fmt.Errorf("%w: chip %s %s permutation trace is %dx%d (expected %dx%d)", ErrShapeMismatch,
				chip.Name(), scope, perm.Width(), perm.Height(), chip.PermutationWidth(scope), height))
		}
	}
}

func checkChallenges[F field.Element[F]](challenges []F) {
	if n := ChallengeOffset(lookup.Global) + NumPermutationChallenges; uint(len(challenges)) < n {
		panic(fmt.Errorf("%w: %d challenges given (expected %d)", ErrShapeMismatch, len(challenges), n))
	}
}
