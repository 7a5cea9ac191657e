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
package field

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-zkvm/pkg/util"
)

// BatchInvert efficiently inverts the list of elements s, in place, using
// Montgomery's trick (i.e. a single field inversion for the whole batch).
// Entries which are zero have no inverse and are left as zero.
func BatchInvert[T Element[T]](s []T) {
	var n = uint(len(s))
	//
	if n == 0 {
		return
	}
	//
	var (
		zero = Zero[T]()
		one  = One[T]()
		// identifies entries which are zero
		isZero = bitset.New(n)
		// m[i] = s[i] * s[i+1] * ...
		m = make([]T, n)
	)
	// Compute suffix products, replacing zeros by one along the way.
	for i := int(n) - 1; i >= 0; i-- {
		if s[i].IsZero() {
			isZero.Set(uint(i))
			s[i] = one
		}
		//
		if uint(i) == n-1 {
			m[i] = s[i]
		} else {
			m[i] = m[i+1].Mul(s[i])
		}
	}
	// inv = s[0]⁻¹ * s[1]⁻¹ * ...
	inv := m[0].Inverse()
	//
	for i := range n - 1 {
		// inv = s[i]⁻¹ * s[i+1]⁻¹ * ...
		next := inv.Mul(s[i])
		s[i] = inv.Mul(m[i+1])
		inv = next
		// inv = s[i+1]⁻¹ * s[i+2]⁻¹ * ...
		if isZero.Test(i) {
			s[i] = zero
		}
	}
	//
	s[n-1] = inv
	//
	if isZero.Test(n - 1) {
		s[n-1] = zero
	}
}

// ParBatchInvert splits s into contiguous chunks which are batch inverted
// concurrently.  Each worker owns its chunk exclusively, hence no
// synchronisation is required beyond waiting for all chunks to complete.  The
// result is identical to BatchInvert, regardless of the number of workers.
func ParBatchInvert[T Element[T]](s []T, workers uint) {
	util.ParChunks(uint(len(s)), workers, func(start, end uint) {
		BatchInvert(s[start:end])
	})
}
