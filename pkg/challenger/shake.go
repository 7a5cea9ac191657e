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
// Package challenger provides a Fiat-Shamir transcript based on SHAKE256.
package challenger

import (
	"encoding/binary"

	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"golang.org/x/crypto/sha3"
)

// Shake is a Fiat-Shamir transcript which derives each challenge by hashing
// everything observed so far, along with the number of challenges already
// drawn.  Observations are length-prefixed, so that distinct sequences of
// observations cannot produce the same transcript.
type Shake[F field.Element[F]] struct {
	transcript []byte
	samples    uint64
}

// New constructs a fresh transcript separated by a given domain tag.
func New[F field.Element[F]](domain string) *Shake[F] {
	p := &Shake[F]{}
	p.Observe([]byte(domain))
	//
	return p
}

// Observe absorbs a sequence of bytes into the transcript.
func (p *Shake[F]) Observe(data []byte) {
	p.transcript = binary.BigEndian.AppendUint64(p.transcript, uint64(len(data)))
	p.transcript = append(p.transcript, data...)
}

// ObserveElements absorbs a sequence of field elements into the transcript.
func (p *Shake[F]) ObserveElements(elements ...F) {
	for _, e := range elements {
		p.Observe(e.Bytes())
	}
}

// Sample squeezes a fresh challenge from the transcript.  Enough bytes are
// drawn that their reduction modulo the field is negligibly biased.
func (p *Shake[F]) Sample() F {
	var (
		zero  F
		width = (zero.Modulus().BitLen()+7)/8 + 16
		bytes = make([]byte, width)
		h     = sha3.NewShake256()
	)
	//
	h.Write(p.transcript)
	h.Write(binary.BigEndian.AppendUint64(nil, p.samples))
	h.Read(bytes)
	//
	p.samples++
	//
	return zero.SetBytes(bytes)
}

// Clone forks this transcript.
func (p *Shake[F]) Clone() stark.Challenger[F] {
	transcript := make([]byte, len(p.transcript))
	copy(transcript, p.transcript)
	//
	return &Shake[F]{transcript, p.samples}
}
