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

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// MaxConstraintDegree is the default bound on the degree of any constraint of
// a chip, including its permutation constraints.
const MaxConstraintDegree uint = 3

// Chip is a compiled chip: its AIR together with the constraints and
// interactions extracted by running its Eval once, symbolically.
type Chip[F field.Element[F]] struct {
	air         air.MachineAir[F]
	constraints []air.Constraint[F]
	sends       []lookup.Interaction[F]
	receives    []lookup.Interaction[F]
	// Permutation constraints for each scope
	permutation [2][]air.Constraint[F]
	// Maximum degree over all constraints
	degree uint
}

// NewChip compiles a given AIR.  This panics if any constraint (including a
// permutation constraint) exceeds the given degree bound.
func NewChip[F field.Element[F]](a air.MachineAir[F], maxDegree uint) *Chip[F] {
	builder := air.NewBuilder[F](a.Width(), a.PreprocessedWidth())
	//
	a.Eval(builder)
	//
	chip := &Chip[F]{
		air:         a,
		constraints: builder.Constraints(),
		sends:       builder.Sends(),
		receives:    builder.Receives(),
	}
	//
	for _, scope := range lookup.Scopes() {
		chip.permutation[scope] = PermutationConstraints(chip, scope)
	}
	//
	for _, c := range chip.AllConstraints() {
		degree := c.Expr.Degree()
		//
		if degree > maxDegree {
			panic(fmt.Sprintf("constraint \"%s\" of chip %s has degree %d (max %d)", c.Handle, a.Name(),
				degree, maxDegree))
		}
		//
		chip.degree = max(chip.degree, degree)
	}
	//
	return chip
}

// Air returns the underlying AIR of this chip.
func (p *Chip[F]) Air() air.MachineAir[F] {
	return p.air
}

// Name returns the name of this chip.
func (p *Chip[F]) Name() string {
	return p.air.Name()
}

// Width returns the width of this chip's main trace.
func (p *Chip[F]) Width() uint {
	return p.air.Width()
}

// PreprocessedWidth returns the width of this chip's preprocessed trace.
func (p *Chip[F]) PreprocessedWidth() uint {
	return p.air.PreprocessedWidth()
}

// Included determines whether this chip takes part in the given shard.
func (p *Chip[F]) Included(r *record.Record) bool {
	return p.air.Included(r)
}

// GenerateTrace generates the main trace for this chip, checking it has the
// declared width.
func (p *Chip[F]) GenerateTrace(r *record.Record) *trace.Matrix[F] {
	matrix := p.air.GenerateTrace(r)
	//
	if matrix.Width() != p.Width() {
		panic(fmt.Sprintf("chip %s generated trace of width %d (expected %d)", p.Name(), matrix.Width(), p.Width()))
	} else if !trace.IsPowerOf2(matrix.Height()) {
		panic(fmt.Sprintf("chip %s generated trace of height %d", p.Name(), matrix.Height()))
	}
	//
	return matrix
}

// GeneratePreprocessedTrace generates the preprocessed trace for this chip (or
// nil if it has none).
func (p *Chip[F]) GeneratePreprocessedTrace() *trace.Matrix[F] {
	if p.PreprocessedWidth() == 0 {
		return nil
	}
	//
	matrix := p.air.GeneratePreprocessedTrace()
	//
	if matrix.Width() != p.PreprocessedWidth() {
		panic(fmt.Sprintf("chip %s generated preprocessed trace of width %d (expected %d)", p.Name(),
			matrix.Width(), p.PreprocessedWidth()))
	}
	//
	return matrix
}

// Constraints returns the AIR constraints of this chip.
func (p *Chip[F]) Constraints() []air.Constraint[F] {
	return p.constraints
}

// PermutationConstraints returns the permutation constraints of this chip for
// a given scope.
func (p *Chip[F]) PermutationConstraints(scope lookup.Scope) []air.Constraint[F] {
	return p.permutation[scope]
}

// AllConstraints returns the AIR constraints followed by the permutation
// constraints of every scope.
func (p *Chip[F]) AllConstraints() []air.Constraint[F] {
	var constraints = p.constraints
	//
	constraints = append(constraints[:len(constraints):len(constraints)], p.permutation[lookup.Local]...)
	//
	return append(constraints, p.permutation[lookup.Global]...)
}

// Degree returns the maximum degree of any constraint of this chip.
func (p *Chip[F]) Degree() uint {
	return p.degree
}

// Sends returns all sends of this chip.
func (p *Chip[F]) Sends() []lookup.Interaction[F] {
	return p.sends
}

// Receives returns all receives of this chip.
func (p *Chip[F]) Receives() []lookup.Interaction[F] {
	return p.receives
}

// Interactions returns the sends and receives of this chip in a given scope.
func (p *Chip[F]) Interactions(scope lookup.Scope) (sends, receives []lookup.Interaction[F]) {
	return filterScope(p.sends, scope), filterScope(p.receives, scope)
}

// NumInteractions returns the number of interactions of this chip in a given
// scope.
func (p *Chip[F]) NumInteractions(scope lookup.Scope) uint {
	sends, receives := p.Interactions(scope)
	//
	return uint(len(sends) + len(receives))
}

// PermutationWidth returns the width of this chip's permutation trace in a
// given scope: one column per interaction plus the running sum.
func (p *Chip[F]) PermutationWidth(scope lookup.Scope) uint {
	return p.NumInteractions(scope) + 1
}

func filterScope[F field.Element[F]](interactions []lookup.Interaction[F], scope lookup.Scope) []lookup.Interaction[F] {
	var filtered []lookup.Interaction[F]
	//
	for _, i := range interactions {
		if i.Scope == scope {
			filtered = append(filtered, i)
		}
	}
	//
	return filtered
}
