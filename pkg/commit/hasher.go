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
// Package commit provides hash-based commitments to trace matrices.  These
// bind the prover to its traces, but support no openings.
package commit

import (
	"encoding/binary"

	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"golang.org/x/crypto/sha3"
)

// Hasher commits to matrices by hashing their dimensions and contents with
// SHA3-256.
type Hasher[F field.Element[F]] struct{}

// New constructs a new hasher.
func New[F field.Element[F]]() *Hasher[F] {
	return &Hasher[F]{}
}

// Commit produces the digest of a sequence of matrices.  Nil matrices are
// hashed as having zero dimensions.
func (p *Hasher[F]) Commit(matrices ...*trace.Matrix[F]) stark.Commitment {
	var (
		h   = sha3.New256()
		buf []byte
	)
	//
	for _, m := range matrices {
		var width, height uint
		//
		if m != nil {
			width, height = m.Width(), m.Height()
		}
		//
		buf = binary.BigEndian.AppendUint64(buf[:0], uint64(width))
		buf = binary.BigEndian.AppendUint64(buf, uint64(height))
		h.Write(buf)
		//
		if m != nil {
			for _, v := range m.Values() {
				h.Write(v.Bytes())
			}
		}
	}
	//
	return h.Sum(nil)
}
