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
package challenger_test

import (
	"testing"

	"github.com/consensys/go-zkvm/pkg/challenger"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
)

type F = bls12_377.Element

func init() {
	var _ stark.Challenger[F] = challenger.New[F]("")
}

func Test_Shake_00(t *testing.T) {
	// Same observations give same challenges
	a := challenger.New[F]("test")
	b := challenger.New[F]("test")
	//
	a.Observe([]byte{1, 2, 3})
	b.Observe([]byte{1, 2, 3})
	//
	assert.True(t, a.Sample().Equals(b.Sample()))
	assert.True(t, a.Sample().Equals(b.Sample()))
}

func Test_Shake_01(t *testing.T) {
	// Successive samples differ
	a := challenger.New[F]("test")
	//
	assert.False(t, a.Sample().Equals(a.Sample()))
}

func Test_Shake_02(t *testing.T) {
	// Observations affect challenges
	a := challenger.New[F]("test")
	b := challenger.New[F]("test")
	//
	a.Observe([]byte{1})
	b.Observe([]byte{2})
	//
	assert.False(t, a.Sample().Equals(b.Sample()))
}

func Test_Shake_03(t *testing.T) {
	// Observations are length-prefixed
	a := challenger.New[F]("test")
	b := challenger.New[F]("test")
	//
	a.Observe([]byte{1, 2})
	b.Observe([]byte{1})
	b.Observe([]byte{2})
	//
	assert.False(t, a.Sample().Equals(b.Sample()))
}

func Test_Shake_04(t *testing.T) {
	// Domain separation
	a := challenger.New[F]("one")
	b := challenger.New[F]("two")
	//
	assert.False(t, a.Sample().Equals(b.Sample()))
}

func Test_Shake_05(t *testing.T) {
	// Forks are independent
	a := challenger.New[F]("test")
	b := a.Clone()
	c := a.Clone()
	//
	b.ObserveElements(bls12_377.New(1))
	c.ObserveElements(bls12_377.New(2))
	//
	x := a.Sample()
	assert.False(t, x.Equals(b.Sample()))
	assert.False(t, x.Equals(c.Sample()))
	// Forking preserves state
	d := challenger.New[F]("test")
	d.Sample()
	e := d.Clone()
	assert.True(t, d.Sample().Equals(e.Sample()))
}
