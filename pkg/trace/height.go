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
	"math/bits"
)

// PaddedHeight returns the smallest power of two which is at least n (and at
// least one).
func PaddedHeight(n uint) uint {
	if n <= 1 {
		return 1
	}
	//
	return 1 << bits.Len(n-1)
}

// FixedHeight returns 2^log2, checking that n rows can fit into it.  Failing
// to fit indicates a mis-configured shape, which is unrecoverable.
func FixedHeight(n uint, log2 uint) uint {
	height := uint(1) << log2
	//
	if n > height {
		panic(fmt.Sprintf("%d rows exceed fixed height 2^%d", n, log2))
	}
	//
	return height
}

// IsPowerOf2 checks whether a given height is a power of two.
func IsPowerOf2(n uint) bool {
	return n != 0 && n&(n-1) == 0
}

// Log2 returns the (floor) log of a given height.
func Log2(n uint) uint {
	if n == 0 {
		panic("logarithm of zero")
	}
	//
	return uint(bits.Len(n) - 1)
}
