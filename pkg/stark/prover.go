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
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Metrics receives measurements made by the prover.
type Metrics interface {
	// ObserveStage records the time taken (in seconds) by a given stage.
	ObserveStage(stage string, seconds float64)
	// ObserveTrace records the height of a generated main trace.
	ObserveTrace(chip string, rows uint)
	// ObserveRejection records that a proof was rejected for some reason.
	ObserveRejection(reason string)
}

type noMetrics struct{}

func (noMetrics) ObserveStage(string, float64) {}
func (noMetrics) ObserveTrace(string, uint)    {}
func (noMetrics) ObserveRejection(string)      {}

// Reasons for rejecting a proof, as reported to metrics.
const (
	RejectConstraints = "constraints"
	RejectLocalSum    = "local_sum"
	RejectGlobalSum   = "global_sum"
)

// Prover runs the staged proving pipeline over a sequence of shards.  Each
// stage completes for all shards (and chips) before the next begins:
// dependencies; main traces; main commitments; challenges; permutation
// traces; permutation commitments; and, finally, constraint folding.
type Prover[F field.Element[F]] struct {
	machine    *Machine[F]
	challenger Challenger[F]
	committer  Committer[F]
	workers    uint
	debug      bool
	metrics    Metrics
}

// NewProver constructs a prover for a given machine, which draws challenges
// from a given (initial) transcript.
func NewProver[F field.Element[F]](machine *Machine[F], challenger Challenger[F],
	committer Committer[F]) *Prover[F] {
	return &Prover[F]{machine, challenger, committer, 0, false, noMetrics{}}
}

// Workers sets the number of workers used for data-parallel operations (zero
// means the default).
func (p *Prover[F]) Workers(workers uint) *Prover[F] {
	p.workers = workers
	return p
}

// Debug enables precise (but slower) reporting of failures.  Specifically,
// failing constraints are identified by chip and row, and unbalanced
// interactions are reported tuple by tuple.
func (p *Prover[F]) Debug(debug bool) *Prover[F] {
	p.debug = debug
	return p
}

// Metrics sets the receiver for measurements made by this prover.
func (p *Prover[F]) Metrics(metrics Metrics) *Prover[F] {
	p.metrics = metrics
	return p
}

// Intermediate state of a single shard.
type shardState[F field.Element[F]] struct {
	record *record.Record
	// Indices of included chips
	chips []uint
	// Traces of included chips
	traces []*ChipTraces[F]
	// Transcript forked for this shard
	transcript Challenger[F]
	// Local challenges followed by global challenges
	challenges []F
	proof      ShardProof[F]
}

// Prove runs the proving pipeline on the given shards.  Neither the shards nor
// the prover's initial transcript are modified, hence proving is repeatable.  An error is returned if
// the traces violate any constraint, or if interactions fail to balance.
func (p *Prover[F]) Prove(shards []*record.Record) (*Proof[F], error) {
	var (
		states     = make([]*shardState[F], len(shards))
		challenger = p.challenger.Clone()
	)
	//
	for i, shard := range shards {
		states[i] = &shardState[F]{record: shard.Clone()}
	}
	//
	p.stage("dependencies", func() {
		util.ParFor(uint(len(states)), func(i uint) {
			p.machine.GenerateDependencies(states[i].record)
		})
	})
	//
	p.stage("main traces", func() {
		for _, s := range states {
			p.generateMainTraces(s)
		}
	})
	//
	p.stage("main commitments", func() {
		for _, s := range states {
			s.proof.MainCommitment = p.committer.Commit(mainTraces(s)...)
			challenger.ObserveElements(field.Uint64[F](uint64(s.record.Shard)))
			challenger.Observe(s.proof.MainCommitment)
		}
	})
	// Global challenges become available only once every shard is committed.
	global := []F{challenger.Sample(), challenger.Sample()}
	//
	for _, s := range states {
		s.transcript = challenger.Clone()
		s.transcript.ObserveElements(field.Uint64[F](uint64(s.record.Shard)))
		s.transcript.Observe(s.proof.MainCommitment)
		s.challenges = append([]F{s.transcript.Sample(), s.transcript.Sample()}, global...)
	}
	//
	p.stage("permutation traces", func() {
		for _, s := range states {
			p.generatePermutationTraces(s)
		}
	})
	//
	p.stage("permutation commitments", func() {
		for _, s := range states {
			s.proof.PermutationCommitment = p.committer.Commit(permutationTraces(s)...)
			s.transcript.Observe(s.proof.PermutationCommitment)
			//
			for _, c := range s.proof.Chips {
				s.transcript.ObserveElements(c.Sums[:]...)
			}
		}
	})
	//
	var err error
	//
	p.stage("constraints", func() {
		for _, s := range states {
			if err = p.foldConstraints(s); err != nil {
				return
			}
		}
	})
	//
	if err != nil {
		p.metrics.ObserveRejection(RejectConstraints)
		return nil, err
	} else if err = p.checkSums(states); err != nil {
		return nil, err
	}
	//
	proof := &Proof[F]{make([]ShardProof[F], len(states))}
	//
	for i, s := range states {
		proof.Shards[i] = s.proof
	}
	//
	return proof, nil
}

func (p *Prover[F]) generateMainTraces(s *shardState[F]) {
	var preps = p.machine.PreprocessedTraces()
	//
	for i, chip := range p.machine.Chips() {
		if chip.Included(s.record) {
			s.chips = append(s.chips, uint(i))
		}
	}
	// One go-routine per chip, with results stored by position.
	mains := util.ParEach(uint(len(s.chips)), func(j uint) *trace.Matrix[F] {
		return p.machine.Chips()[s.chips[j]].GenerateTrace(s.record)
	})
	//
	for j, main := range mains {
		chip := p.machine.Chips()[s.chips[j]]
		s.traces = append(s.traces, &ChipTraces[F]{Prep: preps[s.chips[j]], Main: main})
		p.metrics.ObserveTrace(chip.Name(), main.Height())
		log.Debugf("shard %d: chip %s has %d rows", s.record.Shard, chip.Name(), main.Height())
	}
}

func (p *Prover[F]) generatePermutationTraces(s *shardState[F]) {
	util.ParFor(uint(len(s.chips)), func(j uint) {
		var (
			chip   = p.machine.Chips()[s.chips[j]]
			traces = s.traces[j]
		)
		//
		for _, scope := range lookup.Scopes() {
			offset := ChallengeOffset(scope)
			challenges := s.challenges[offset : offset+NumPermutationChallenges]
			traces.Permutation[scope], traces.Sums[scope] = GeneratePermutationTrace(chip, traces.Prep, traces.Main,
				scope, challenges, p.workers)
		}
	})
	//
	for j, i := range s.chips {
		chip := p.machine.Chips()[i]
		s.proof.Chips = append(s.proof.Chips, ChipProof[F]{chip.Name(), s.traces[j].Main.Height(), s.traces[j].Sums})
	}
	//
	s.proof.Shard = s.record.Shard
}

func (p *Prover[F]) foldConstraints(s *shardState[F]) error {
	gamma := s.transcript.Sample()
	//
	for j, i := range s.chips {
		var (
			chip   = p.machine.Chips()[i]
			folded = FoldConstraints(chip, s.traces[j], s.challenges, gamma, p.workers)
		)
		//
		if row, ok := FirstNonZero(folded); ok {
			if p.debug {
				if err := DebugConstraints(chip, s.traces[j], s.challenges); err != nil {
					return fmt.Errorf("shard %d: %w", s.record.Shard, err)
				}
			}
			//
			return fmt.Errorf("shard %d: constraints of chip %s do not vanish (row %d)", s.record.Shard,
				chip.Name(), row)
		}
	}
	//
	return nil
}

// Check local sums balance per shard and global sums balance overall.  This
// is what the verifier checks, but doing so early allows the prover to
// explain which interactions are at fault when debugging.
func (p *Prover[F]) checkSums(states []*shardState[F]) error {
	var (
		global []F
		shards []*record.Record
	)
	//
	for _, s := range states {
		if err := DebugCumulativeSums(s.proof.Sum(lookup.Local)); err != nil {
			p.metrics.ObserveRejection(RejectLocalSum)
			//
			if p.debug {
				DebugInteractions(p.machine, []*record.Record{s.record}, lookup.Local)
			}
			//
			return fmt.Errorf("shard %d: local %w", s.record.Shard, err)
		}
		//
		global = append(global, s.proof.Sum(lookup.Global))
		shards = append(shards, s.record)
	}
	//
	if err := DebugCumulativeSums(global...); err != nil {
		p.metrics.ObserveRejection(RejectGlobalSum)
		//
		if p.debug {
			DebugInteractions(p.machine, shards, lookup.Global)
		}
		//
		return fmt.Errorf("global %w", err)
	}
	//
	return nil
}

func (p *Prover[F]) stage(name string, fn func()) {
	stats := util.NewPerfStats()
	//
	fn()
	//
	stats.Log(name)
	p.metrics.ObserveStage(name, stats.Elapsed().Seconds())
}

func mainTraces[F field.Element[F]](s *shardState[F]) []*trace.Matrix[F] {
	var matrices []*trace.Matrix[F]
	//
	for _, t := range s.traces {
		matrices = append(matrices, t.Main)
	}
	//
	return matrices
}

func permutationTraces[F field.Element[F]](s *shardState[F]) []*trace.Matrix[F] {
	var matrices []*trace.Matrix[F]
	//
	for _, t := range s.traces {
		matrices = append(matrices, t.Permutation[lookup.Local], t.Permutation[lookup.Global])
	}
	//
	return matrices
}
