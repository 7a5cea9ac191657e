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
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Challenger is a Fiat-Shamir transcript.  Values observed by the challenger
// determine all subsequent samples, such that a challenge cannot be known
// before the data it binds.
type Challenger[F field.Element[F]] interface {
	// Observe absorbs a sequence of bytes (e.g. a commitment) into the
	// transcript.
	Observe(data []byte)
	// ObserveElements absorbs a sequence of field elements into the
	// transcript.
	ObserveElements(elements ...F)
	// Sample squeezes a fresh challenge from the transcript.
	Sample() F
	// Clone forks the transcript, such that observations made on either copy
	// do not affect the other.
	Clone() Challenger[F]
}

// Commitment is a binding digest of one or more trace matrices.
type Commitment []byte

// Committer commits to trace matrices.
type Committer[F field.Element[F]] interface {
	// Commit produces a binding digest of a given sequence of matrices.  Nil
	// matrices are permitted, and are committed as empty.
	Commit(matrices ...*trace.Matrix[F]) Commitment
}
