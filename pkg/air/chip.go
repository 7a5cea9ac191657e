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
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// MachineAir is the contract every chip of a machine adheres to.  A chip is
// responsible for one family of events: it converts them into a trace matrix,
// and it declares the constraints and interactions which a valid trace must
// satisfy.
type MachineAir[F field.Element[F]] interface {
	// Name returns a unique name for this chip.
	Name() string
	// Width returns the number of columns in the main trace.
	Width() uint
	// PreprocessedWidth returns the number of columns in the preprocessed
	// trace, or zero if there is none.
	PreprocessedWidth() uint
	// GeneratePreprocessedTrace returns the fixed trace of this chip, or nil
	// if it has none.
	GeneratePreprocessedTrace() *trace.Matrix[F]
	// GenerateDependencies adds to output any events which this chip's input
	// events require of other chips (e.g. byte lookups).  This must only read
	// from input.
	GenerateDependencies(input *record.Record, output *record.Record)
	// GenerateTrace converts the events of this chip into a trace matrix whose
	// height is a power of two (or the fixed height configured for it).
	GenerateTrace(input *record.Record) *trace.Matrix[F]
	// Included determines whether this chip takes part in a given shard.
	Included(input *record.Record) bool
	// Eval declares the constraints and interactions of this chip.
	Eval(builder *Builder[F])
}
