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
	"fmt"
	"math/big"
	"math/rand/v2"
)

// An Element of a prime-order field.  Implementations are value types, such
// that every operation returns a fresh element and never mutates its
// receiver.  This makes elements safe to share between goroutines.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Bytes returns the big endian encoding of x.
	Bytes() []byte
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
	Cmp(y Operand) int
	// Equals determines whether x == y.
	Equals(y Operand) bool
	// Compute x⁻¹, or 0 if x = 0.
	Inverse() Operand
	// Check whether this value is one (or not).
	IsOne() bool
	// Check whether this value is zero (or not).
	IsZero() bool
	// Return the modulus for the field in question.
	Modulus() *big.Int
	// Compute x * y
	Mul(y Operand) Operand
	// Compute -x
	Neg() Operand
	// SetBytes interprets the bytes as a big endian integer, reduced by the
	// modulus.
	SetBytes([]byte) Operand
	// SetUint64 constructs an element from a given unsigned integer.
	SetUint64(uint64) Operand
	// Compute x - y
	Sub(y Operand) Operand
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// Uint64 construct a field element from a given uint64
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// Int64 construct a field element from a given (signed) int64, where negative
// values are mapped to their additive inverse.
func Int64[F Element[F]](val int64) F {
	if val < 0 {
		return Uint64[F](uint64(-val)).Neg()
	}
	//
	return Uint64[F](uint64(val))
}

// Bool constructs 1 for true and 0 for false.
func Bool[F Element[F]](val bool) F {
	if val {
		return One[F]()
	}
	//
	return Zero[F]()
}

// BigInt construct a field element from a given big.Int
func BigInt[F Element[F]](val big.Int) F {
	var element F
	// Handle negative values
	if val.Sign() < 0 {
		panic("negative value encountered")
	}
	//
	return element.SetBytes(val.Bytes())
}

// FromBigEndianBytes constructs an element from an array of bytes given in big
// endian order.
func FromBigEndianBytes[F Element[F]](bytes []byte) F {
	var element F
	//
	return element.SetBytes(bytes)
}

// Random samples a (near) uniformly distributed element from a given source of
// randomness.  Sixteen bytes beyond the modulus width are drawn so that the
// bias introduced by modular reduction is negligible.
func Random[F Element[F]](rng *rand.Rand) F {
	var (
		zero  F
		width = (zero.Modulus().BitLen()+7)/8 + 16
		bytes = make([]byte, width)
	)
	//
	for i := range bytes {
		bytes[i] = byte(rng.UintN(256))
	}
	//
	return zero.SetBytes(bytes)
}

// Signed renders an element as a signed integer in the range
// [-modulus/2,modulus/2].  This is useful when reporting multiplicities, since
// it makes clear which side of an interaction dominates.
func Signed[F Element[F]](val F) string {
	var (
		half big.Int
		x    big.Int
		mod  = val.Modulus()
	)
	//
	half.Rsh(mod, 1)
	x.SetBytes(val.Bytes())
	//
	if x.Cmp(&half) > 0 {
		x.Sub(&x, mod)
	}
	//
	return x.String()
}
