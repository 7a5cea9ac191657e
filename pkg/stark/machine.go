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
	"fmt"
	"sync"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Machine is a static registry of chips.  The order of registration is fixed,
// and determines both the order in which dependencies are generated and the
// order of chips within a proof.
type Machine[F field.Element[F]] struct {
	chips []*Chip[F]
	// Index of chips by name
	index map[string]uint
	// Preprocessed traces are fixed, hence generated once on demand.
	prepOnce sync.Once
	prep     []*trace.Matrix[F]
}

// NewMachine compiles the given AIRs into a machine, subject to a given degree
// bound.  Chip names must be unique.
func NewMachine[F field.Element[F]](maxDegree uint, airs ...air.MachineAir[F]) *Machine[F] {
	var (
		chips = make([]*Chip[F], len(airs))
		index = make(map[string]uint)
	)
	//
	for i, a := range airs {
		if _, ok := index[a.Name()]; ok {
			panic(fmt.Sprintf("duplicate chip %s", a.Name()))
		}
		//
		chips[i] = NewChip(a, maxDegree)
		index[a.Name()] = uint(i)
	}
	//
	return &Machine[F]{chips: chips, index: index}
}

// Chips returns the chips of this machine in registration order.
func (p *Machine[F]) Chips() []*Chip[F] {
	return p.chips
}

// Chip returns the chip with a given name, or nil if no such chip exists.
func (p *Machine[F]) Chip(name string) *Chip[F] {
	if i, ok := p.index[name]; ok {
		return p.chips[i]
	}
	//
	return nil
}

// PreprocessedTraces returns the preprocessed trace of every chip, indexed by
// chip (nil for chips without one).
func (p *Machine[F]) PreprocessedTraces() []*trace.Matrix[F] {
	p.prepOnce.Do(func() {
		p.prep = make([]*trace.Matrix[F], len(p.chips))
		//
		for i, c := range p.chips {
			p.prep[i] = c.GeneratePreprocessedTrace()
		}
	})
	//
	return p.prep
}

// GenerateDependencies runs every chip's dependency generation on a given
// shard, in registration order, merging the events produced back into the
// shard.  Thus, events produced by earlier chips are visible to later ones.
func (p *Machine[F]) GenerateDependencies(shard *record.Record) {
	for _, c := range p.chips {
		output := record.NewRecord(shard.Shard)
		//
		c.Air().GenerateDependencies(shard, output)
		shard.Append(output)
	}
}
