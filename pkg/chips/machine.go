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
package chips

import (
	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/chips/alu"
	"github.com/consensys/go-zkvm/pkg/chips/bytes"
	"github.com/consensys/go-zkvm/pkg/chips/cpu"
	"github.com/consensys/go-zkvm/pkg/chips/precompile"
	"github.com/consensys/go-zkvm/pkg/chips/syscall"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Airs returns every chip of the default machine, in dependency order.  That
// is, chips which generate events (e.g. byte lookups) for other chips come
// before those chips.
func Airs[F field.Element[F]]() []air.MachineAir[F] {
	return []air.MachineAir[F]{
		cpu.New[F](),
		alu.NewAddSub[F](),
		alu.NewLt[F](),
		alu.NewBitwise[F](),
		syscall.New[F](),
		precompile.NewAddMul[F](),
		bytes.New[F](),
	}
}

// DefaultMachine constructs the default machine using a given constraint
// degree bound.
func DefaultMachine[F field.Element[F]](maxDegree uint) *stark.Machine[F] {
	return stark.NewMachine(maxDegree, Airs[F]()...)
}

// ColumnNames returns the names of the main trace columns of a given chip, or
// nil if it does not name them.
func ColumnNames[F field.Element[F]](chip *stark.Chip[F]) []string {
	if named, ok := chip.Air().(interface{ ColumnNames() []string }); ok {
		return named.ColumnNames()
	}
	//
	return nil
}
