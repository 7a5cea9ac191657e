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

// Expr represents a symbolic polynomial expression over the columns of a
// chip's traces.  Expressions are constructed during a chip's Eval, and later
// either inspected (e.g. to determine degree or to extract interactions) or
// evaluated row-by-row against concrete traces.
type Expr[F field.Element[F]] interface {
	fmt.Stringer

	// Add two expressions together, producing a third.
	Add(Expr[F]) Expr[F]

	// Subtract one expression from another
	Sub(Expr[F]) Expr[F]

	// Multiply two expressions together, producing a third.
	Mul(Expr[F]) Expr[F]

	// Degree returns the degree of this expression, when viewed as a
	// polynomial in the column values and row selectors.
	Degree() uint

	// Eval evaluates this expression within a given window.
	Eval(Window[F]) F
}

// ============================================================================
// Addition
// ============================================================================

// Add represents the sum over zero or more expressions.
type Add[F field.Element[F]] struct{ Args []Expr[F] }

// Add two expressions together, producing a third.
func (p *Add[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *Add[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Add[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a sum is the maximum degree of its arguments.
func (p *Add[F]) Degree() uint { return maxDegree(p.Args) }

// Eval evaluates this expression within a given window.
func (p *Add[F]) Eval(w Window[F]) F {
	var val F
	//
	for _, arg := range p.Args {
		val = val.Add(arg.Eval(w))
	}
	//
	return val
}

func (p *Add[F]) String() string { return naryString("+", p.Args) }

// ============================================================================
// Subtraction
// ============================================================================

// Sub represents the subtraction over one or more expressions.
type Sub[F field.Element[F]] struct{ Args []Expr[F] }

// Add two expressions together, producing a third.
func (p *Sub[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *Sub[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Sub[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a subtraction is the maximum degree of its arguments.
func (p *Sub[F]) Degree() uint { return maxDegree(p.Args) }

// Eval evaluates this expression within a given window.
func (p *Sub[F]) Eval(w Window[F]) F {
	val := p.Args[0].Eval(w)
	//
	for _, arg := range p.Args[1:] {
		val = val.Sub(arg.Eval(w))
	}
	//
	return val
}

func (p *Sub[F]) String() string { return naryString("-", p.Args) }

// ============================================================================
// Multiplication
// ============================================================================

// Mul represents the product over zero or more expressions.
type Mul[F field.Element[F]] struct{ Args []Expr[F] }

// Add two expressions together, producing a third.
func (p *Mul[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *Mul[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Mul[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a product is the sum of the degrees of its arguments.
func (p *Mul[F]) Degree() uint {
	var degree uint
	//
	for _, arg := range p.Args {
		degree += arg.Degree()
	}
	//
	return degree
}

// Eval evaluates this expression within a given window.
func (p *Mul[F]) Eval(w Window[F]) F {
	val := field.One[F]()
	//
	for _, arg := range p.Args {
		// Can short-circuit evaluation?
		if val.IsZero() {
			break
		}
		//
		val = val.Mul(arg.Eval(w))
	}
	//
	return val
}

func (p *Mul[F]) String() string { return naryString("*", p.Args) }

// ============================================================================
// Constant
// ============================================================================

// Constant represents a constant value within an expression.
type Constant[F field.Element[F]] struct{ Value F }

// Add two expressions together, producing a third.
func (p *Constant[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *Constant[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Constant[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a constant is zero.
func (p *Constant[F]) Degree() uint { return 0 }

// Eval evaluates this expression within a given window.
func (p *Constant[F]) Eval(w Window[F]) F { return p.Value }

func (p *Constant[F]) String() string { return field.Signed(p.Value) }

// ============================================================================
// Column Access
// ============================================================================

// ColumnAccess represents reading the value held at a given column of one of a
// chip's traces, either on the current row (shift 0) or the next row (shift
// 1).  The next row of the last row is the first row.
type ColumnAccess[F field.Element[F]] struct {
	Entry  Entry
	Column uint
	Shift  uint
}

// Add two expressions together, producing a third.
func (p *ColumnAccess[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *ColumnAccess[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *ColumnAccess[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a column access is one.
func (p *ColumnAccess[F]) Degree() uint { return 1 }

// Eval evaluates this expression within a given window.
func (p *ColumnAccess[F]) Eval(w Window[F]) F { return w.Value(p.Entry, p.Column, p.Shift) }

func (p *ColumnAccess[F]) String() string {
	if p.Shift == 0 {
		return fmt.Sprintf("%s[%d]", p.Entry, p.Column)
	}
	//
	return fmt.Sprintf("(shift %s[%d] %d)", p.Entry, p.Column, p.Shift)
}

// ============================================================================
// Challenge
// ============================================================================

// Challenge represents a verifier challenge (e.g. alpha or beta of the
// permutation argument), which is fixed across all rows.
type Challenge[F field.Element[F]] struct{ Index uint }

// Add two expressions together, producing a third.
func (p *Challenge[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *Challenge[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Challenge[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a challenge is zero, as it does not vary by row.
func (p *Challenge[F]) Degree() uint { return 0 }

// Eval evaluates this expression within a given window.
func (p *Challenge[F]) Eval(w Window[F]) F { return w.Challenge(p.Index) }

func (p *Challenge[F]) String() string { return fmt.Sprintf("challenge[%d]", p.Index) }

// ============================================================================
// Cumulative Sum
// ============================================================================

// CumulativeSum represents the public cumulative sum of a chip's permutation
// trace in a given scope.
type CumulativeSum[F field.Element[F]] struct{ Scope lookup.Scope }

// Add two expressions together, producing a third.
func (p *CumulativeSum[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *CumulativeSum[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *CumulativeSum[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a public value is zero.
func (p *CumulativeSum[F]) Degree() uint { return 0 }

// Eval evaluates this expression within a given window.
func (p *CumulativeSum[F]) Eval(w Window[F]) F { return w.CumulativeSum(p.Scope) }

func (p *CumulativeSum[F]) String() string { return fmt.Sprintf("sum[%s]", p.Scope) }

// ============================================================================
// Selectors
// ============================================================================

// Selector represents one of the row selectors, which evaluate to one on the
// rows they select and zero elsewhere.
type Selector[F field.Element[F]] struct{ Kind SelectorKind }

// Add two expressions together, producing a third.
func (p *Selector[F]) Add(other Expr[F]) Expr[F] { return &Add[F]{[]Expr[F]{p, other}} }

// Sub (subtract) one expression from another.
func (p *Selector[F]) Sub(other Expr[F]) Expr[F] { return &Sub[F]{[]Expr[F]{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Selector[F]) Mul(other Expr[F]) Expr[F] { return &Mul[F]{[]Expr[F]{p, other}} }

// Degree of a selector is one, since it is interpolated over the rows.
func (p *Selector[F]) Degree() uint { return 1 }

// Eval evaluates this expression within a given window.
func (p *Selector[F]) Eval(w Window[F]) F { return w.Selector(p.Kind) }

func (p *Selector[F]) String() string { return p.Kind.String() }

// ============================================================================
// Helpers
// ============================================================================

func maxDegree[F field.Element[F]](args []Expr[F]) uint {
	var degree uint
	//
	for _, arg := range args {
		degree = max(degree, arg.Degree())
	}
	//
	return degree
}

func naryString[F field.Element[F]](operator string, exprs []Expr[F]) string {
	var rs string

	for _, e := range exprs {
		rs = fmt.Sprintf("%s %s", rs, e.String())
	}

	return fmt.Sprintf("(%s%s)", operator, rs)
}
