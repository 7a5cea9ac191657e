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
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// ToAffine attempts to convert an expression into an affine combination of
// columns on the current row of the main and preprocessed traces.  This fails
// for any expression which is non-linear, which accesses the next row, or
// which depends upon challenges, public values or row selectors.
func ToAffine[F field.Element[F]](e Expr[F]) (lookup.Affine[F], bool) {
	switch e := e.(type) {
	case *Constant[F]:
		return lookup.Constant(e.Value), true
	case *ColumnAccess[F]:
		if e.Shift != 0 {
			return lookup.Affine[F]{}, false
		} else if e.Entry == Main {
			return lookup.Single[F](lookup.Main(e.Column)), true
		} else if e.Entry == Preprocessed {
			return lookup.Single[F](lookup.Preprocessed(e.Column)), true
		}
	case *Add[F]:
		return toAffineSum(e.Args, false)
	case *Sub[F]:
		return toAffineSum(e.Args, true)
	case *Mul[F]:
		return toAffineProduct(e.Args)
	}
	//
	return lookup.Affine[F]{}, false
}

// FromAffine converts an affine combination back into an expression, reading
// its columns at the given row shift.
func FromAffine[F field.Element[F]](a lookup.Affine[F], shift uint) Expr[F] {
	var args = []Expr[F]{&Constant[F]{a.Constant}}
	//
	for _, term := range a.Terms {
		var entry = Main
		//
		if term.Column.Preprocessed {
			entry = Preprocessed
		}
		//
		column := &ColumnAccess[F]{entry, term.Column.Index, shift}
		//
		if term.Weight.IsOne() {
			args = append(args, column)
		} else {
			args = append(args, &Mul[F]{[]Expr[F]{&Constant[F]{term.Weight}, column}})
		}
	}
	//
	if len(args) == 2 && a.Constant.IsZero() {
		return args[1]
	}
	//
	return &Add[F]{args}
}

func toAffineSum[F field.Element[F]](args []Expr[F], subtract bool) (lookup.Affine[F], bool) {
	var result = lookup.Constant(field.Zero[F]())
	//
	for i, arg := range args {
		ith, ok := ToAffine(arg)
		//
		if !ok {
			return ith, false
		} else if subtract && i > 0 {
			ith = scaleAffine(ith, field.One[F]().Neg())
		}
		//
		result = addAffine(result, ith)
	}
	//
	return result, true
}

// A product is affine provided at most one of its arguments has any columns.
func toAffineProduct[F field.Element[F]](args []Expr[F]) (lookup.Affine[F], bool) {
	var result = lookup.Constant(field.One[F]())
	//
	for _, arg := range args {
		ith, ok := ToAffine(arg)
		//
		if !ok {
			return ith, false
		} else if len(ith.Terms) == 0 {
			result = scaleAffine(result, ith.Constant)
		} else if len(result.Terms) == 0 {
			result = scaleAffine(ith, result.Constant)
		} else {
			// Non-linear
			return ith, false
		}
	}
	//
	return result, true
}

// Add two affine combinations, merging the weights of common columns.
func addAffine[F field.Element[F]](lhs, rhs lookup.Affine[F]) lookup.Affine[F] {
	var terms = make([]lookup.Term[F], len(lhs.Terms), len(lhs.Terms)+len(rhs.Terms))
	//
	copy(terms, lhs.Terms)
	//
outer:
	for _, term := range rhs.Terms {
		for i := range terms {
			if terms[i].Column == term.Column {
				terms[i].Weight = terms[i].Weight.Add(term.Weight)
				continue outer
			}
		}
		//
		terms = append(terms, term)
	}
	//
	return lookup.Affine[F]{Terms: dropZeroTerms(terms), Constant: lhs.Constant.Add(rhs.Constant)}
}

func scaleAffine[F field.Element[F]](a lookup.Affine[F], factor F) lookup.Affine[F] {
	var terms = make([]lookup.Term[F], len(a.Terms))
	//
	for i, term := range a.Terms {
		terms[i] = lookup.Term[F]{Column: term.Column, Weight: term.Weight.Mul(factor)}
	}
	//
	return lookup.Affine[F]{Terms: dropZeroTerms(terms), Constant: a.Constant.Mul(factor)}
}

func dropZeroTerms[F field.Element[F]](terms []lookup.Term[F]) []lookup.Term[F] {
	var nterms []lookup.Term[F]
	//
	for _, term := range terms {
		if !term.Weight.IsZero() {
			nterms = append(nterms, term)
		}
	}
	//
	return nterms
}
