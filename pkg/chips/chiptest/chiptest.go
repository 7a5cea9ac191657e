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
package chiptest

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/challenger"
	"github.com/consensys/go-zkvm/pkg/commit"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/stretchr/testify/require"
)

// Challenges returns random local and global permutation challenges.
func Challenges[F field.Element[F]](seed uint64) []F {
	var (
		rng        = rand.New(rand.NewPCG(seed, ^seed))
		n          = stark.ChallengeOffset(lookup.Global) + stark.NumPermutationChallenges
		challenges = make([]F, n)
	)
	//
	for i := range challenges {
		challenges[i] = field.Random[F](rng)
	}
	//
	return challenges
}

// Traces compiles a chip, and generates all of its traces for a given shard.
func Traces[F field.Element[F]](a air.MachineAir[F], shard *record.Record) (*stark.Chip[F], *stark.ChipTraces[F]) {
	var (
		chip       = stark.NewChip(a, stark.MaxConstraintDegree)
		challenges = Challenges[F](uint64(shard.Shard))
	)
	//
	return chip, stark.GenerateChipTraces(chip, shard, challenges, 0)
}

// Check generates all traces of a chip for a given shard, and returns the
// first constraint which fails (if any).
func Check[F field.Element[F]](a air.MachineAir[F], shard *record.Record) error {
	chip, traces := Traces(a, shard)
	//
	return stark.DebugConstraints(chip, traces, Challenges[F](uint64(shard.Shard)))
}

// CheckValid checks that every constraint of a chip holds on a given shard.
func CheckValid[F field.Element[F]](t *testing.T, a air.MachineAir[F], shard *record.Record) {
	require.NoError(t, Check(a, shard))
}

// CheckInvalid checks that a chip fails the given constraint on a given
// shard.
func CheckInvalid[F field.Element[F]](t *testing.T, a air.MachineAir[F], shard *record.Record, handle string) {
	var (
		failure *stark.Failure
		err     = Check(a, shard)
	)
	//
	require.ErrorAs(t, err, &failure)
	require.Equal(t, handle, failure.Handle, failure.Message())
}

// Prove runs the prover (in debug mode) on the given shards using a machine
// built from the given chips, and checks the result verifies.
func Prove[F field.Element[F]](t *testing.T, shards []*record.Record, airs ...air.MachineAir[F]) *stark.Proof[F] {
	var (
		machine = stark.NewMachine(stark.MaxConstraintDegree, airs...)
		prover  = stark.NewProver(machine, challenger.New[F]("chiptest"), commit.New[F]()).Debug(true)
	)
	//
	proof, err := prover.Prove(shards)
	require.NoError(t, err)
	require.NoError(t, stark.Verify(proof))
	//
	return proof
}

// ProveFails runs the prover on the given shards, and checks it fails.
func ProveFails[F field.Element[F]](t *testing.T, shards []*record.Record, airs ...air.MachineAir[F]) error {
	var (
		machine = stark.NewMachine(stark.MaxConstraintDegree, airs...)
		prover  = stark.NewProver(machine, challenger.New[F]("chiptest"), commit.New[F]())
	)
	//
	_, err := prover.Prove(shards)
	require.Error(t, err)
	//
	return err
}

// WithDependencies returns a copy of a shard with the dependencies of the
// given chips generated, as the prover does.
func WithDependencies[F field.Element[F]](shard *record.Record, airs ...air.MachineAir[F]) *record.Record {
	var clone = shard.Clone()
	//
	stark.NewMachine(stark.MaxConstraintDegree, airs...).GenerateDependencies(clone)
	//
	return clone
}

// Column returns the values of a named column of a chip's main trace.
func Column[F field.Element[F]](t *testing.T, a air.MachineAir[F], traces *stark.ChipTraces[F], name string) []F {
	named, ok := a.(interface{ ColumnNames() []string })
	require.True(t, ok, "chip %s does not name its columns", a.Name())
	//
	for i, n := range named.ColumnNames() {
		if n == name {
			return traces.Main.Column(uint(i))
		}
	}
	//
	require.Failf(t, "unknown column", "chip %s has no column %s", a.Name(), name)
	//
	return nil
}
