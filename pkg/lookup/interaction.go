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
package lookup

import (
	"fmt"
	"strings"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Interaction is a message sent or received by a chip on every row: a tuple of
// values together with a multiplicity, both affine over the current row.
type Interaction[F field.Element[F]] struct {
	Kind         Kind
	Values       []Affine[F]
	Multiplicity Affine[F]
	Scope        Scope
}

// ArgumentIndex returns the index of this interaction within the LogUp
// fingerprint.
func (p Interaction[F]) ArgumentIndex() uint {
	return p.Kind.ArgumentIndex()
}

// Eval evaluates the values and multiplicity of this interaction on a given
// row of the preprocessed and main traces.
func (p Interaction[F]) Eval(prep []F, main []F) ([]F, F) {
	return p.Apply(prep, main), p.Multiplicity.Apply(prep, main)
}

// Apply evaluates only the values of this interaction on a given row of the
// preprocessed and main traces.
func (p Interaction[F]) Apply(prep []F, main []F) []F {
	values := make([]F, len(p.Values))
	//
	for i, v := range p.Values {
		values[i] = v.Apply(prep, main)
	}
	//
	return values
}

func (p Interaction[F]) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%s:%s(", p.Scope, p.Kind))
	//
	for i, v := range p.Values {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(v.String())
	}
	//
	builder.WriteString(fmt.Sprintf(") x %s", p.Multiplicity.String()))
	//
	return builder.String()
}

// Key constructs a unique textual key for a concrete interaction tuple, as used
// when balancing sends against receives.
func Key[F field.Element[F]](scope Scope, kind Kind, values []F) string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%s %s (", scope, kind))
	//
	for i, v := range values {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(v.Text(10))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
