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

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// ChipProof summarises the part of a shard proof contributed by one chip.
type ChipProof[F field.Element[F]] struct {
	// Name of the chip
	Chip string
	// Height of the chip's traces
	Height uint
	// Cumulative sums, indexed by scope
	Sums [2]F
}

// ShardProof summarises the proof of a single shard.
type ShardProof[F field.Element[F]] struct {
	// Shard identifier
	Shard uint32
	// Commitment to all main traces of the shard
	MainCommitment Commitment
	// Commitment to all permutation traces of the shard
	PermutationCommitment Commitment
	// Chips included in the shard, in machine order
	Chips []ChipProof[F]
}

// Sum returns the total cumulative sum of this shard in a given scope.
func (p *ShardProof[F]) Sum(scope lookup.Scope) F {
	var sum F
	//
	for _, c := range p.Chips {
		sum = sum.Add(c.Sums[scope])
	}
	//
	return sum
}

// Proof is the outcome of proving a sequence of shards.
type Proof[F field.Element[F]] struct {
	Shards []ShardProof[F]
}

// Verify checks the public cumulative sums of a proof: the local sums of
// every shard must balance, as must the global sums over all shards.  Since
// commitments are only binding digests here, this trusts that the sums were
// computed from traces satisfying the constraints.
func Verify[F field.Element[F]](proof *Proof[F]) error {
	var global F
	//
	for _, shard := range proof.Shards {
		for _, c := range shard.Chips {
			if !trace.IsPowerOf2(c.Height) {
				return fmt.Errorf("shard %d: chip %s has invalid height %d", shard.Shard, c.Chip, c.Height)
			}
		}
		//
		if local := shard.Sum(lookup.Local); !local.IsZero() {
			return fmt.Errorf("shard %d: local cumulative sum is %s (expected 0)", shard.Shard, field.Signed(local))
		}
		//
		global = global.Add(shard.Sum(lookup.Global))
	}
	//
	if !global.IsZero() {
		return fmt.Errorf("global cumulative sum is %s (expected 0)", field.Signed(global))
	}
	//
	return nil
}
