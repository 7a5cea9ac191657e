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
package stark_test

import (
	"math/rand/v2"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
)

type F = bls12_377.Element

// Row of a test chip: a value and its multiplicity.
type testRow struct {
	value uint64
	mult  uint64
}

// testChip sends (or receives) the values of its rows with their
// multiplicities.  Rows are given per shard.
type testChip struct {
	name  string
	send  bool
	scope lookup.Scope
	rows  map[uint32][]testRow
}

func newSender(name string, scope lookup.Scope, rows map[uint32][]testRow) *testChip {
	return &testChip{name, true, scope, rows}
}

func newReceiver(name string, scope lookup.Scope, rows map[uint32][]testRow) *testChip {
	return &testChip{name, false, scope, rows}
}

func (p *testChip) Name() string                               { return p.name }
func (p *testChip) Width() uint                                { return 2 }
func (p *testChip) PreprocessedWidth() uint                    { return 0 }
func (p *testChip) GeneratePreprocessedTrace() *trace.Matrix[F] { return nil }
func (p *testChip) GenerateDependencies(_, _ *record.Record)    {}

func (p *testChip) Included(r *record.Record) bool {
	return len(p.rows[r.Shard]) > 0
}

func (p *testChip) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	rows := p.rows[r.Shard]
	//
	return trace.Populate(rows, 2, trace.PaddedHeight(uint(len(rows))), 0, func(e *testRow, row []F) {
		row[0] = bls12_377.New(e.value)
		row[1] = bls12_377.New(e.mult)
	})
}

func (p *testChip) Eval(b *air.Builder[F]) {
	if p.send {
		b.Send(lookup.Byte, p.scope, b.Local(1), b.Local(0))
	} else {
		b.Receive(lookup.Byte, p.scope, b.Local(1), b.Local(0))
	}
}

// tableChip receives every value in [0,n) from its preprocessed column with
// the multiplicity given in its main column.
type tableChip struct {
	n     uint
	mults map[uint64]uint64
}

func (p *tableChip) Name() string                            { return "Table" }
func (p *tableChip) Width() uint                             { return 1 }
func (p *tableChip) PreprocessedWidth() uint                 { return 1 }
func (p *tableChip) GenerateDependencies(_, _ *record.Record) {}
func (p *tableChip) Included(r *record.Record) bool          { return true }

func (p *tableChip) GeneratePreprocessedTrace() *trace.Matrix[F] {
	return trace.PopulateRows(1, p.n, 0, func(i uint, row []F) {
		row[0] = bls12_377.New(uint64(i))
	})
}

func (p *tableChip) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	return trace.PopulateRows(1, p.n, 0, func(i uint, row []F) {
		row[0] = bls12_377.New(p.mults[uint64(i)])
	})
}

func (p *tableChip) Eval(b *air.Builder[F]) {
	b.Receive(lookup.Byte, lookup.Local, b.Local(0), b.Prep(0))
}

// badDegreeChip declares a constraint of degree four.
type badDegreeChip struct{ testChip }

func (p *badDegreeChip) Eval(b *air.Builder[F]) {
	x := b.Local(0)
	b.AssertZero("quartic", x.Mul(x).Mul(x).Mul(x))
}

// nonAffineChip sends a product of columns.
type nonAffineChip struct{ testChip }

func (p *nonAffineChip) Eval(b *air.Builder[F]) {
	b.Send(lookup.Byte, lookup.Local, b.Local(1), b.Local(0).Mul(b.Local(1)))
}

// booleanChip constrains its first column to be boolean, and its second
// column to follow the first on transitions.
type booleanChip struct{ testChip }

func (p *booleanChip) Eval(b *air.Builder[F]) {
	b.AssertBool("bool", b.Local(0))
	b.WhenTransition().AssertEq("follow", b.Next(1), b.Local(0))
}

// ===================================================================
// Helpers
// ===================================================================

func shard(id uint32) *record.Record {
	return record.NewRecord(id)
}

// Random challenges for both scopes.
func randomChallenges(seed uint64) []F {
	rng := rand.New(rand.NewPCG(seed, seed))
	//
	return []F{field.Random[F](rng), field.Random[F](rng), field.Random[F](rng), field.Random[F](rng)}
}

// Generate all traces of a chip for a given shard.
func generateTraces(chip *stark.Chip[F], r *record.Record, challenges []F, workers uint) *stark.ChipTraces[F] {
	return stark.GenerateChipTraces(chip, r, challenges, workers)
}
