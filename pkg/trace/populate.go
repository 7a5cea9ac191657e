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
package trace

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Populate constructs a matrix of the given width and height whose first
// len(events) rows are filled from the corresponding events.  Rows are
// filled in parallel, with each worker owning a disjoint range of rows.
// Hence, the ith row is always generated from the ith event, regardless of
// how work was scheduled.  Remaining rows are left as zero padding.  The fill
// function is given a zeroed row and must only read the event it is given.
func Populate[E any, F field.Element[F]](events []E, width, height, workers uint,
	fill func(event *E, row []F)) *Matrix[F] {
	//
	if uint(len(events)) > height {
		panic(fmt.Sprintf("%d events exceed trace height %d", len(events), height))
	}
	//
	matrix := NewMatrix[F](width, height)
	//
	util.ParChunks(uint(len(events)), workers, func(start, end uint) {
		for i := start; i < end; i++ {
			fill(&events[i], matrix.Row(i))
		}
	})
	//
	return matrix
}

// PopulateRows fills every row of a freshly allocated matrix by index, again
// in parallel.  This is useful for fixed tables which are not driven by
// events.
func PopulateRows[F field.Element[F]](width, height, workers uint, fill func(index uint, row []F)) *Matrix[F] {
	matrix := NewMatrix[F](width, height)
	//
	util.ParChunks(height, workers, func(start, end uint) {
		for i := start; i < end; i++ {
			fill(i, matrix.Row(i))
		}
	})
	//
	return matrix
}
