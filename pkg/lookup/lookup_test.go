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
package lookup_test

import (
	"testing"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func Test_Kind_00(t *testing.T) {
	assert.Equal(t, "Alu", lookup.Alu.String())
	assert.Equal(t, uint(1), lookup.Alu.ArgumentIndex())
	assert.Equal(t, uint(3), lookup.Syscall.ArgumentIndex())
	assert.Len(t, lookup.Kinds(), 3)
}

func Test_Kind_01(t *testing.T) {
	seen := make(map[uint]bool)
	// Argument indices must be distinct
	for _, k := range lookup.Kinds() {
		assert.False(t, seen[k.ArgumentIndex()])
		seen[k.ArgumentIndex()] = true
	}
}

func Test_Kind_02(t *testing.T) {
	// Every kind is named, and unknown kinds fall back to their number
	for _, k := range lookup.Kinds() {
		assert.NotContains(t, k.String(), "Kind(")
	}
	//
	assert.Equal(t, "Kind(9)", lookup.Kind(9).String())
}

func Test_Affine_00(t *testing.T) {
	// 3 + 2*main[1] + 5*prep[0]
	a := lookup.Affine[F]{
		Terms: []lookup.Term[F]{
			{Column: lookup.Main(1), Weight: bls12_377.New(2)},
			{Column: lookup.Preprocessed(0), Weight: bls12_377.New(5)},
		},
		Constant: bls12_377.New(3),
	}
	//
	val := a.Apply(elements(7), elements(1, 4))
	// 3 + 8 + 35
	assert.True(t, val.Equals(bls12_377.New(46)))
}

func Test_Affine_01(t *testing.T) {
	a := lookup.Single[F](lookup.Main(0))
	c := lookup.Constant(bls12_377.New(9))
	//
	assert.True(t, a.Apply(nil, elements(11)).Equals(bls12_377.New(11)))
	assert.True(t, c.Apply(nil, nil).Equals(bls12_377.New(9)))
}

func Test_Interaction_00(t *testing.T) {
	i := lookup.Interaction[F]{
		Kind:         lookup.Byte,
		Values:       []lookup.Affine[F]{lookup.Single[F](lookup.Main(0)), lookup.Single[F](lookup.Main(1))},
		Multiplicity: lookup.Single[F](lookup.Main(2)),
		Scope:        lookup.Local,
	}
	//
	values, mult := i.Eval(nil, elements(5, 6, 1))
	//
	require.Len(t, values, 2)
	assert.True(t, values[0].Equals(bls12_377.New(5)))
	assert.True(t, values[1].Equals(bls12_377.New(6)))
	assert.True(t, mult.IsOne())
	assert.Equal(t, uint(2), i.ArgumentIndex())
}

func Test_Interaction_01(t *testing.T) {
	i := lookup.Interaction[F]{
		Kind: lookup.Alu,
		Values: []lookup.Affine[F]{
			lookup.Single[F](lookup.Main(1)),
			lookup.Single[F](lookup.Preprocessed(0)),
			lookup.Constant(bls12_377.New(3)),
		},
		Multiplicity: lookup.Single[F](lookup.Main(0)),
		Scope:        lookup.Global,
	}
	// Values alone agree with a full evaluation
	for _, mult := range []uint64{0, 1, 4} {
		var (
			prep       = elements(8)
			main       = elements(mult, 2)
			values, m  = i.Eval(prep, main)
			valuesOnly = i.Apply(prep, main)
		)
		//
		require.Len(t, valuesOnly, 3)
		assert.Equal(t, values, valuesOnly)
		assert.True(t, m.Equals(bls12_377.New(mult)))
		assert.True(t, valuesOnly[0].Equals(bls12_377.New(2)))
		assert.True(t, valuesOnly[1].Equals(bls12_377.New(8)))
		assert.True(t, valuesOnly[2].Equals(bls12_377.New(3)))
	}
}

func Test_Key_00(t *testing.T) {
	key := lookup.Key(lookup.Global, lookup.Syscall, elements(1, 2))
	//
	assert.Equal(t, "Global Syscall (1, 2)", key)
}

func Test_Balance_00(t *testing.T) {
	b := lookup.NewBalance[F]()
	key := lookup.Key(lookup.Local, lookup.Alu, elements(1, 2, 3))
	//
	b.Add("Cpu", key, bls12_377.New(2), true)
	b.Add("AddSub", key, bls12_377.New(2), false)
	//
	assert.True(t, b.IsBalanced())
	assert.True(t, b.Total().IsZero())
	assert.Empty(t, b.Discrepancies())
	assert.Equal(t, uint(1), b.Events("Cpu"))
}

func Test_Balance_01(t *testing.T) {
	var (
		b = lookup.NewBalance[F]()
		k = lookup.Key(lookup.Local, lookup.Alu, elements(1, 2, 3))
		j = lookup.Key(lookup.Local, lookup.Alu, elements(1, 2, 4))
	)
	// Keys differ, but totals match
	b.Add("Cpu", k, bls12_377.New(1), true)
	b.Add("AddSub", j, bls12_377.New(1), false)
	//
	assert.False(t, b.IsBalanced())
	assert.True(t, b.Total().IsZero())
	//
	d := b.Discrepancies()
	require.Len(t, d, 2)
	assert.Equal(t, k, d[0].Key)
	assert.Equal(t, j, d[1].Key)
	b.Log()
}

func Test_Balance_02(t *testing.T) {
	b := lookup.NewBalance[F]()
	key := lookup.Key(lookup.Local, lookup.Byte, elements(0, 0))
	//
	b.Add("Cpu", key, bls12_377.New(3), true)
	b.Add("Byte", key, bls12_377.New(1), false)
	//
	assert.False(t, b.IsBalanced())
	assert.True(t, b.Total().Equals(bls12_377.New(2)))
}

func elements(vals ...uint64) []F {
	elems := make([]F, len(vals))
	//
	for i, v := range vals {
		elems[i] = bls12_377.New(v)
	}
	//
	return elems
}
