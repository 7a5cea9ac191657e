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
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Constraint is a vanishing constraint: on every row of a chip's traces, its
// expression must evaluate to zero.
type Constraint[F field.Element[F]] struct {
	// A unique identifier for this constraint.  This is primarily useful for
	// debugging.
	Handle string
	// The actual constraint itself, namely an expression which should
	// evaluate to zero.
	Expr Expr[F]
}

// Builder collects the constraints and interactions of a chip, as declared by
// its Eval method.  Expressions are symbolic, so a chip's Eval runs exactly
// once regardless of its trace height.
type Builder[F field.Element[F]] struct {
	width       uint
	prepWidth   uint
	constraints []Constraint[F]
	sends       []lookup.Interaction[F]
	receives    []lookup.Interaction[F]
}

// NewBuilder constructs a builder for a chip with the given main and
// preprocessed widths.
func NewBuilder[F field.Element[F]](width uint, prepWidth uint) *Builder[F] {
	return &Builder[F]{width, prepWidth, nil, nil, nil}
}

// Local returns the given main column on the current row.
func (p *Builder[F]) Local(col uint) Expr[F] {
	return p.access(Main, col, 0, p.width)
}

// Next returns the given main column on the next row.
func (p *Builder[F]) Next(col uint) Expr[F] {
	return p.access(Main, col, 1, p.width)
}

// Prep returns the given preprocessed column on the current row.
func (p *Builder[F]) Prep(col uint) Expr[F] {
	return p.access(Preprocessed, col, 0, p.prepWidth)
}

// Word returns the four byte columns for a given word on the current row.
func (p *Builder[F]) Word(cols [4]uint) [4]Expr[F] {
	var word [4]Expr[F]
	//
	for i, col := range cols {
		word[i] = p.Local(col)
	}
	//
	return word
}

func (p *Builder[F]) access(entry Entry, col uint, shift uint, width uint) Expr[F] {
	if col >= width {
		panic(fmt.Sprintf("%s column %d out of bounds (width %d)", entry, col, width))
	}
	//
	return &ColumnAccess[F]{entry, col, shift}
}

// Const returns a constant expression.
func (p *Builder[F]) Const(val uint64) Expr[F] {
	return &Constant[F]{field.Uint64[F](val)}
}

// Constant returns a constant expression from a field element.
func (p *Builder[F]) Constant(val F) Expr[F] {
	return &Constant[F]{val}
}

// IsFirstRow returns the first row selector.
func (p *Builder[F]) IsFirstRow() Expr[F] { return &Selector[F]{IsFirstRow} }

// IsLastRow returns the last row selector.
func (p *Builder[F]) IsLastRow() Expr[F] { return &Selector[F]{IsLastRow} }

// IsTransition returns the transition selector, which holds on all rows
// except the last.
func (p *Builder[F]) IsTransition() Expr[F] { return &Selector[F]{IsTransition} }

// AssertZero adds a constraint that a given expression evaluates to zero on
// every row.
func (p *Builder[F]) AssertZero(handle string, e Expr[F]) {
	p.constraints = append(p.constraints, Constraint[F]{handle, e})
}

// AssertEq adds a constraint that two expressions are equal on every row.
func (p *Builder[F]) AssertEq(handle string, lhs Expr[F], rhs Expr[F]) {
	p.AssertZero(handle, lhs.Sub(rhs))
}

// AssertOne adds a constraint that an expression evaluates to one.
func (p *Builder[F]) AssertOne(handle string, e Expr[F]) {
	p.AssertZero(handle, e.Sub(p.Const(1)))
}

// AssertBool adds a constraint that an expression evaluates to either zero or
// one.
func (p *Builder[F]) AssertBool(handle string, e Expr[F]) {
	p.AssertZero(handle, e.Mul(e.Sub(p.Const(1))))
}

// When returns a conditional builder, whose assertions only apply on rows where
// the given condition is non-zero.
func (p *Builder[F]) When(cond Expr[F]) *Conditional[F] {
	return &Conditional[F]{p, cond}
}

// WhenNot returns a conditional builder, whose assertions only apply on rows
// where the given (boolean) condition is zero.
func (p *Builder[F]) WhenNot(cond Expr[F]) *Conditional[F] {
	return p.When(p.Const(1).Sub(cond))
}

// WhenFirstRow returns a builder whose assertions apply only on the first row.
func (p *Builder[F]) WhenFirstRow() *Conditional[F] { return p.When(p.IsFirstRow()) }

// WhenLastRow returns a builder whose assertions apply only on the last row.
func (p *Builder[F]) WhenLastRow() *Conditional[F] { return p.When(p.IsLastRow()) }

// WhenTransition returns a builder whose assertions apply on all rows except
// the last.
func (p *Builder[F]) WhenTransition() *Conditional[F] { return p.When(p.IsTransition()) }

// Send declares that, on every row, this chip sends a tuple of values of the
// given kind with the given multiplicity.  Both the values and multiplicity
// must be affine over the current row, otherwise this panics.
func (p *Builder[F]) Send(kind lookup.Kind, scope lookup.Scope, multiplicity Expr[F], values ...Expr[F]) {
	p.sends = append(p.sends, interaction(kind, scope, multiplicity, values))
}

// Receive declares that, on every row, this chip receives a tuple of values of
// the given kind with the given multiplicity.  Both the values and
// multiplicity must be affine over the current row, otherwise this panics.
func (p *Builder[F]) Receive(kind lookup.Kind, scope lookup.Scope, multiplicity Expr[F], values ...Expr[F]) {
	p.receives = append(p.receives, interaction(kind, scope, multiplicity, values))
}

// Constraints returns the constraints collected so far.
func (p *Builder[F]) Constraints() []Constraint[F] {
	return p.constraints
}

// Sends returns the sends collected so far.
func (p *Builder[F]) Sends() []lookup.Interaction[F] {
	return p.sends
}

// Receives returns the receives collected so far.
func (p *Builder[F]) Receives() []lookup.Interaction[F] {
	return p.receives
}

func interaction[F field.Element[F]](kind lookup.Kind, scope lookup.Scope, multiplicity Expr[F],
	values []Expr[F]) lookup.Interaction[F] {
	//
	var affines = make([]lookup.Affine[F], len(values))
	//
	for i, v := range values {
		affines[i] = mustAffine(v)
	}
	//
	return lookup.Interaction[F]{
		Kind:         kind,
		Values:       affines,
		Multiplicity: mustAffine(multiplicity),
		Scope:        scope,
	}
}

func mustAffine[F field.Element[F]](e Expr[F]) lookup.Affine[F] {
	a, ok := ToAffine(e)
	//
	if !ok {
		panic(fmt.Sprintf("non-affine interaction expression %s", e.String()))
	}
	//
	return a
}

// Conditional is a builder whose assertions are guarded by a condition.
// Interactions cannot be conditioned, since their multiplicities must remain
// affine.  Instead, the condition should be folded into the multiplicity.
type Conditional[F field.Element[F]] struct {
	builder   *Builder[F]
	condition Expr[F]
}

// When further restricts this conditional with another condition.
func (p *Conditional[F]) When(cond Expr[F]) *Conditional[F] {
	return &Conditional[F]{p.builder, p.condition.Mul(cond)}
}

// WhenNot further restricts this conditional to rows where a (boolean)
// condition is zero.
func (p *Conditional[F]) WhenNot(cond Expr[F]) *Conditional[F] {
	return p.When(p.builder.Const(1).Sub(cond))
}

// AssertZero adds a constraint that a given expression evaluates to zero on
// every row selected by this condition.
func (p *Conditional[F]) AssertZero(handle string, e Expr[F]) {
	p.builder.AssertZero(handle, p.condition.Mul(e))
}

// AssertEq adds a constraint that two expressions are equal on every row
// selected by this condition.
func (p *Conditional[F]) AssertEq(handle string, lhs Expr[F], rhs Expr[F]) {
	p.AssertZero(handle, lhs.Sub(rhs))
}

// AssertOne adds a constraint that an expression evaluates to one on every
// row selected by this condition.
func (p *Conditional[F]) AssertOne(handle string, e Expr[F]) {
	p.AssertZero(handle, e.Sub(p.builder.Const(1)))
}

// AssertBool adds a constraint that an expression is boolean on every row
// selected by this condition.
func (p *Conditional[F]) AssertBool(handle string, e Expr[F]) {
	p.AssertZero(handle, e.Mul(e.Sub(p.builder.Const(1))))
}
