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
package precompile_test

import (
	"testing"

	"github.com/consensys/go-zkvm/pkg/chips/chiptest"
	"github.com/consensys/go-zkvm/pkg/chips/precompile"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func Test_AddMul_00(t *testing.T) {
	var (
		chip      = precompile.NewAddMul[F]()
		shard     = addMuls(record.AddMulEvent{Shard: 1, Arg1: 0x00020003, Arg2: 0x00040005})
		_, traces = chiptest.Traces[F](chip, shard)
	)
	// 3*2 + 5*4
	assert.Equal(t, []F{bls12_377.New(26)}, chiptest.Column[F](t, chip, traces, "result"))
	assert.Equal(t, []F{bls12_377.New(6)}, chiptest.Column[F](t, chip, traces, "mul1"))
	assert.Equal(t, []F{bls12_377.New(20)}, chiptest.Column[F](t, chip, traces, "mul2"))
	chiptest.CheckValid[F](t, chip, shard)
}

func Test_AddMul_01(t *testing.T) {
	// Largest operands
	var (
		chip      = precompile.NewAddMul[F]()
		shard     = addMuls(record.AddMulEvent{Shard: 1, Arg1: 0xffffffff, Arg2: 0xffffffff})
		_, traces = chiptest.Traces[F](chip, shard)
	)
	//
	assert.Equal(t, []F{bls12_377.New(2 * 0xffff * 0xffff)}, chiptest.Column[F](t, chip, traces, "result"))
	chiptest.CheckValid[F](t, chip, shard)
}

func Test_AddMul_02(t *testing.T) {
	shard := addMuls(
		record.AddMulEvent{Shard: 1, Clk: 0, Arg1: 1, Arg2: 2},
		record.AddMulEvent{Shard: 1, Clk: 4, Arg1: 0x10001, Arg2: 0},
		record.AddMulEvent{Shard: 2, Clk: 0, Arg1: 0x7, Arg2: 0x90000})
	//
	chiptest.CheckValid[F](t, precompile.NewAddMul[F](), shard)
}

func Test_AddMul_03(t *testing.T) {
	check_AddMulInvalid(t, "mul1", "mul1")
	check_AddMulInvalid(t, "mul2", "mul2")
	check_AddMulInvalid(t, "result", "result")
}

func check_AddMulInvalid(t *testing.T, column string, handle string) {
	var (
		a          = precompile.NewAddMul[F]()
		shard      = addMuls(record.AddMulEvent{Shard: 1, Arg1: 0x00020003, Arg2: 0x00040005})
		chip, tr   = chiptest.Traces[F](a, shard)
		challenges = chiptest.Challenges[F](uint64(shard.Shard))
		failure    *stark.Failure
	)
	//
	for i, name := range a.ColumnNames() {
		if name == column {
			tr.Main.Set(0, uint(i), bls12_377.New(1))
		}
	}
	//
	require.ErrorAs(t, stark.DebugConstraints(chip, tr, challenges), &failure)
	assert.Equal(t, handle, failure.Handle)
	assert.Equal(t, uint(0), failure.Row)
}

func addMuls(events ...record.AddMulEvent) *record.Record {
	var r = record.NewRecord(events[len(events)-1].Shard + 1)
	//
	r.AddMulEvents = events
	//
	return r
}
